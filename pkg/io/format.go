package io

import (
	"path/filepath"
	"strings"

	gerrors "github.com/matzehuels/groot/pkg/errors"
)

// Format names a document encoding.
type Format string

// Supported formats.
const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
	FormatTOML Format = "toml"
)

// Formats lists the supported formats, canonical first.
var Formats = []Format{FormatYAML, FormatJSON, FormatTOML}

var extensions = map[string]Format{
	".yaml": FormatYAML,
	".yml":  FormatYAML,
	".json": FormatJSON,
	".toml": FormatTOML,
}

// Ext returns the preferred file extension, including the dot.
func (f Format) Ext() string { return "." + string(f) }

// ContentType returns the MIME type used when serving the format over HTTP.
func (f Format) ContentType() string {
	switch f {
	case FormatJSON:
		return "application/json"
	case FormatTOML:
		return "application/toml"
	default:
		return "application/yaml"
	}
}

// ParseFormat resolves a format name, case-insensitively. "yml" is accepted
// as an alias for yaml.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatYAML, FormatJSON, FormatTOML:
		return f, nil
	case "yml":
		return FormatYAML, nil
	}
	return "", gerrors.New(gerrors.ErrCodeInvalidFormat, "unsupported format %q (want yaml, json or toml)", s)
}

// FormatFromPath picks the format from the file extension.
func FormatFromPath(path string) (Format, error) {
	if f, ok := extensions[strings.ToLower(filepath.Ext(path))]; ok {
		return f, nil
	}
	return "", gerrors.New(gerrors.ErrCodeInvalidFormat, "cannot infer format from %q (want .yaml, .yml, .json or .toml)", path)
}

// IsTreeFile reports whether path has an extension [FormatFromPath] accepts.
func IsTreeFile(path string) bool {
	_, ok := extensions[strings.ToLower(filepath.Ext(path))]
	return ok
}
