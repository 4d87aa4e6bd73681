package pipeline

import (
	"bytes"
	"errors"
	"io/fs"
	"os"

	"github.com/matzehuels/groot/pkg/cache"
	gerrors "github.com/matzehuels/groot/pkg/errors"
	treeio "github.com/matzehuels/groot/pkg/io"
	"github.com/matzehuels/groot/pkg/tree"
)

// Load decodes the source document, builds the tree and applies the subtree
// root, without caching.
func Load(opts Options) (*tree.Tree, error) {
	if err := opts.ValidateForLoad(); err != nil {
		return nil, err
	}
	src, err := readSource(opts)
	if err != nil {
		return nil, err
	}
	m, err := treeio.Read(bytes.NewReader(src), opts.SourceFormat)
	if err != nil {
		return nil, wrapSource(err, opts)
	}
	return buildTree(m, opts)
}

func readSource(opts Options) ([]byte, error) {
	if opts.Source != nil {
		return opts.Source, nil
	}
	data, err := os.ReadFile(opts.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, gerrors.Wrap(gerrors.ErrCodeFileNotFound, err, "open %s", opts.Path)
	}
	if err != nil {
		return nil, gerrors.Wrap(gerrors.ErrCodeInvalidInput, err, "open %s", opts.Path)
	}
	return data, nil
}

// buildTree turns a decoded mapping into the tree the options ask for.
func buildTree(m tree.Mapping, opts Options) (*tree.Tree, error) {
	t, err := tree.FromMapping(m)
	if err != nil {
		return nil, wrapSource(err, opts)
	}
	if opts.Root == "" {
		return t.WithName(opts.Name), nil
	}
	return t.Subtree(opts.Root)
}

func wrapSource(err error, opts Options) error {
	if opts.Path == "" {
		return err
	}
	code := gerrors.GetCode(err)
	if code == "" {
		code = gerrors.ErrCodeInvalidFormat
	}
	return gerrors.Wrap(code, err, "read %s", opts.Path)
}

// sourceHash identifies a document together with the format it is read as.
func sourceHash(src []byte, f treeio.Format) string {
	return cache.Hash(append([]byte(string(f)+"\n"), src...))
}

// TreeHash returns the content hash of a tree: its name plus its canonical
// JSON mapping. Equal hashes render to equal artifacts.
func TreeHash(t *tree.Tree) string {
	data, _ := treeio.Marshal(t.ToMapping(), treeio.FormatJSON)
	return cache.Hash(append([]byte(t.Name()+"\n"), data...))
}
