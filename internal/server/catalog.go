package server

import (
	"bytes"
	"cmp"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"

	gerrors "github.com/matzehuels/groot/pkg/errors"
	treeio "github.com/matzehuels/groot/pkg/io"
	"github.com/matzehuels/groot/pkg/tree"
)

// reloadDebounce batches bursts of file events (editor saves, git checkouts)
// into one reload.
const reloadDebounce = 100 * time.Millisecond

// Entry is one tree document of the catalog.
type Entry struct {
	Name   string        // File stem, used in URLs
	Path   string        // Absolute file path
	Format treeio.Format // Decoded from the extension
	Source []byte        // Raw document, fed to the pipeline
	Tree   *tree.Tree    // Nil if the document failed to load
	Err    error         // Load error, if any
}

// Catalog holds the tree documents of one directory, keyed by file stem.
// Documents that fail to load stay listed with their error, so clients see
// why a tree is unavailable.
type Catalog struct {
	dir    string
	logger *log.Logger

	mu      sync.RWMutex
	entries map[string]*Entry
}

// NewCatalog creates a catalog over dir and performs the initial load.
func NewCatalog(dir string, logger *log.Logger) (*Catalog, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, gerrors.Wrap(gerrors.ErrCodeInvalidPath, err, "resolve %s", dir)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, gerrors.Wrap(gerrors.ErrCodeFileNotFound, err, "catalog directory %s", dir)
	}
	if !info.IsDir() {
		return nil, gerrors.New(gerrors.ErrCodeInvalidPath, "catalog path %s is not a directory", dir)
	}

	c := &Catalog{dir: abs, logger: logger}
	if err := c.Reload(); err != nil {
		return nil, err
	}
	return c, nil
}

// Dir returns the watched directory.
func (c *Catalog) Dir() string { return c.dir }

// Reload re-reads every tree document of the directory. When two files share
// a stem (a.yaml, a.json) the first in name order wins.
func (c *Catalog) Reload() error {
	files, err := os.ReadDir(c.dir)
	if err != nil {
		return gerrors.Wrap(gerrors.ErrCodeInternal, err, "read catalog %s", c.dir)
	}

	entries := make(map[string]*Entry)
	for _, f := range files {
		if f.IsDir() || !treeio.IsTreeFile(f.Name()) {
			continue
		}
		name := treeio.Stem(f.Name())
		if gerrors.ValidateTreeName(name) != nil {
			c.logger.Warn("skipping file with unusable name", "file", f.Name())
			continue
		}
		if prev, ok := entries[name]; ok {
			c.logger.Warn("duplicate tree name", "name", name, "kept", filepath.Base(prev.Path), "skipped", f.Name())
			continue
		}
		entries[name] = c.load(name, filepath.Join(c.dir, f.Name()))
	}

	c.mu.Lock()
	c.entries = entries
	c.mu.Unlock()

	c.logger.Info("catalog loaded", "dir", c.dir, "trees", len(entries))
	return nil
}

func (c *Catalog) load(name, path string) *Entry {
	e := &Entry{Name: name, Path: path}
	e.Format, e.Err = treeio.FormatFromPath(path)
	if e.Err != nil {
		return e
	}
	if e.Source, e.Err = os.ReadFile(path); e.Err != nil {
		e.Err = gerrors.Wrap(gerrors.ErrCodeFileNotFound, e.Err, "read %s", filepath.Base(path))
		return e
	}
	t, err := treeio.ReadTree(bytes.NewReader(e.Source), e.Format)
	if err == nil {
		t = t.WithName(name)
		err = t.Validate()
	}
	if err != nil {
		c.logger.Warn("tree failed to load", "name", name, "err", err)
		e.Err = err
		return e
	}
	e.Tree = t
	return e
}

// Get returns the entry named name. Unknown names yield NOT_FOUND; entries
// that failed to load yield their load error.
func (c *Catalog) Get(name string) (*Entry, error) {
	if err := gerrors.ValidateTreeName(name); err != nil {
		return nil, err
	}
	c.mu.RLock()
	e, ok := c.entries[name]
	c.mu.RUnlock()
	if !ok {
		return nil, gerrors.New(gerrors.ErrCodeNotFound, "tree %q not found", name)
	}
	if e.Err != nil {
		return nil, e.Err
	}
	return e, nil
}

// List returns all entries sorted by name.
func (c *Catalog) List() []*Entry {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]*Entry, 0, len(c.entries))
	for _, e := range c.entries {
		out = append(out, e)
	}
	slices.SortFunc(out, func(a, b *Entry) int { return cmp.Compare(a.Name, b.Name) })
	return out
}

// Len returns the number of entries.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Watch reloads the catalog whenever a tree document in the directory is
// created, written, removed or renamed. Events are debounced. Watch blocks
// until ctx is done.
func (c *Catalog) Watch(ctx context.Context) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("catalog watcher: %w", err)
	}
	defer w.Close()
	if err := w.Add(c.dir); err != nil {
		return fmt.Errorf("catalog watcher add %s: %w", c.dir, err)
	}

	var (
		timer   *time.Timer
		pending <-chan time.Time
	)
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !treeio.IsTreeFile(ev.Name) || ev.Op == fsnotify.Chmod {
				continue
			}
			c.logger.Debug("catalog change", "file", filepath.Base(ev.Name), "op", ev.Op.String())
			if timer == nil {
				timer = time.NewTimer(reloadDebounce)
			} else {
				timer.Reset(reloadDebounce)
			}
			pending = timer.C
		case <-pending:
			pending = nil
			if err := c.Reload(); err != nil {
				c.logger.Error("catalog reload failed", "err", err)
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			c.logger.Warn("catalog watcher error", "err", err)
		}
	}
}
