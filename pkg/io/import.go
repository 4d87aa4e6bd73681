package io

import (
	"encoding/json"
	"errors"
	"io"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	gerrors "github.com/matzehuels/groot/pkg/errors"
	"github.com/matzehuels/groot/pkg/tree"
)

// Read decodes a child→parent document from r.
//
// An empty document yields an empty mapping. Read returns INVALID_FORMAT if
// the document is not a flat map of strings to strings; it does not check
// that the mapping forms a tree. Read does not close r.
func Read(r io.Reader, f Format) (tree.Mapping, error) {
	switch f {
	case FormatYAML:
		return readYAML(r)
	case FormatJSON:
		return readJSON(r)
	case FormatTOML:
		return readTOML(r)
	}
	return nil, gerrors.New(gerrors.ErrCodeInvalidFormat, "unsupported format %q", f)
}

// ReadTree decodes a document from r and builds the tree it describes.
func ReadTree(r io.Reader, f Format) (*tree.Tree, error) {
	m, err := Read(r, f)
	if err != nil {
		return nil, err
	}
	return tree.FromMapping(m)
}

// Import reads the tree stored at path. The format comes from the file
// extension and the tree is named after the file name without it, so
// "fruits.yaml" yields a tree named "fruits".
//
// A missing file yields FILE_NOT_FOUND. Decoding and structural errors keep
// their code and are prefixed with the path.
func Import(path string) (*tree.Tree, error) {
	f, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, gerrors.Wrap(gerrors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, gerrors.Wrap(gerrors.ErrCodeInvalidInput, err, "open %s", path)
	}
	defer file.Close()

	t, err := ReadTree(file, f)
	if err != nil {
		return nil, gerrors.Wrap(codeOr(err, gerrors.ErrCodeInvalidFormat), err, "read %s", path)
	}
	return t.WithName(Stem(path)), nil
}

// Stem returns the base name of path without its extension.
func Stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func codeOr(err error, fallback gerrors.Code) gerrors.Code {
	if c := gerrors.GetCode(err); c != "" {
		return c
	}
	return fallback
}

func readYAML(r io.Reader) (tree.Mapping, error) {
	var doc yaml.Node
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return tree.Mapping{}, nil
		}
		return nil, gerrors.Wrap(gerrors.ErrCodeInvalidFormat, err, "decode yaml")
	}

	root := &doc
	if root.Kind == yaml.DocumentNode && len(root.Content) > 0 {
		root = root.Content[0]
	}
	if root.Kind != yaml.MappingNode {
		return nil, gerrors.New(gerrors.ErrCodeInvalidFormat,
			"line %d: document must be a map of child to parent", root.Line)
	}

	m := make(tree.Mapping, len(root.Content)/2)
	for i := 0; i+1 < len(root.Content); i += 2 {
		k, v := deref(root.Content[i]), deref(root.Content[i+1])
		if !isYAMLString(k) {
			return nil, gerrors.New(gerrors.ErrCodeInvalidFormat,
				"line %d: key %q is %s, want a string", k.Line, k.Value, describeYAML(k))
		}
		if !isYAMLString(v) {
			return nil, gerrors.New(gerrors.ErrCodeInvalidFormat,
				"line %d: parent of %q is %s, want a string (use \"\" for roots)", v.Line, k.Value, describeYAML(v))
		}
		if _, dup := m[k.Value]; dup {
			return nil, gerrors.New(gerrors.ErrCodeInvalidFormat,
				"line %d: duplicate key %q", k.Line, k.Value)
		}
		m[k.Value] = v.Value
	}
	return m, nil
}

func deref(n *yaml.Node) *yaml.Node {
	for n.Kind == yaml.AliasNode && n.Alias != nil {
		n = n.Alias
	}
	return n
}

func isYAMLString(n *yaml.Node) bool {
	return n.Kind == yaml.ScalarNode && n.ShortTag() == "!!str"
}

func describeYAML(n *yaml.Node) string {
	switch n.Kind {
	case yaml.MappingNode:
		return "a map"
	case yaml.SequenceNode:
		return "a list"
	}
	switch n.ShortTag() {
	case "!!null":
		return "null"
	case "!!int", "!!float":
		return "a number"
	case "!!bool":
		return "a boolean"
	}
	return n.ShortTag()
}

func readJSON(r io.Reader) (tree.Mapping, error) {
	var raw map[string]json.RawMessage
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return tree.Mapping{}, nil
		}
		return nil, gerrors.Wrap(gerrors.ErrCodeInvalidFormat, err, "decode json")
	}
	if raw == nil {
		return nil, gerrors.New(gerrors.ErrCodeInvalidFormat, "document must be an object of child to parent")
	}

	m := make(tree.Mapping, len(raw))
	for _, k := range slices.Sorted(maps.Keys(raw)) {
		var parent *string
		if err := json.Unmarshal(raw[k], &parent); err != nil || parent == nil {
			return nil, gerrors.New(gerrors.ErrCodeInvalidFormat,
				"parent of %q is %s, want a string (use \"\" for roots)", k, strings.TrimSpace(string(raw[k])))
		}
		m[k] = *parent
	}
	return m, nil
}

func readTOML(r io.Reader) (tree.Mapping, error) {
	var raw map[string]any
	if _, err := toml.NewDecoder(r).Decode(&raw); err != nil {
		return nil, gerrors.Wrap(gerrors.ErrCodeInvalidFormat, err, "decode toml")
	}

	m := make(tree.Mapping, len(raw))
	for _, k := range slices.Sorted(maps.Keys(raw)) {
		switch v := raw[k].(type) {
		case string:
			m[k] = v
		case map[string]any:
			return nil, gerrors.New(gerrors.ErrCodeInvalidFormat,
				"%q is a table, not a string; quote dotted names as keys", k)
		default:
			return nil, gerrors.New(gerrors.ErrCodeInvalidFormat,
				"parent of %q is %T, want a string (use \"\" for roots)", k, v)
		}
	}
	return m, nil
}
