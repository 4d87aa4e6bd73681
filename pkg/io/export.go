package io

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	gerrors "github.com/matzehuels/groot/pkg/errors"
	"github.com/matzehuels/groot/pkg/tree"
)

// Write encodes m to w with sorted keys. Roots are written with an empty
// string parent. The output reads back with [Read] to an equal mapping.
func Write(w io.Writer, m tree.Mapping, f Format) error {
	doc := map[string]string(m)
	if doc == nil {
		doc = map[string]string{}
	}

	var err error
	switch f {
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err = enc.Encode(doc); err == nil {
			err = enc.Close()
		}
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		err = enc.Encode(doc)
	case FormatTOML:
		err = toml.NewEncoder(w).Encode(doc)
	default:
		return gerrors.New(gerrors.ErrCodeInvalidFormat, "unsupported format %q", f)
	}
	if err != nil {
		return gerrors.Wrap(gerrors.ErrCodeInternal, err, "encode %s", f)
	}
	return nil
}

// WriteTree encodes the mapping of t to w.
func WriteTree(w io.Writer, t *tree.Tree, f Format) error {
	return Write(w, t.ToMapping(), f)
}

// Marshal returns the encoded form of m.
func Marshal(m tree.Mapping, f Format) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(&buf, m, f); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Export writes t to path in the format given by its extension. The file is
// written to a temporary sibling first and renamed into place, so readers
// never observe a partial document.
func Export(t *tree.Tree, path string) error {
	f, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	data, err := Marshal(t.ToMapping(), f)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".groot-*")
	if err != nil {
		return gerrors.Wrap(gerrors.ErrCodeInvalidPath, err, "create %s", path)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return gerrors.Wrap(gerrors.ErrCodeInternal, err, "write %s", path)
	}
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return gerrors.Wrap(gerrors.ErrCodeInternal, err, "write %s", path)
	}
	if err := tmp.Close(); err != nil {
		return gerrors.Wrap(gerrors.ErrCodeInternal, err, "write %s", path)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return gerrors.Wrap(gerrors.ErrCodeInternal, err, "write %s", path)
	}
	return nil
}
