// Package pipeline provides the load → subtree → render pipeline for groot.
//
// This package implements the complete pipeline shared by the CLI and the
// HTTP server. By centralizing this logic, both entry points cache, log and
// validate identically.
//
// # Architecture
//
// The pipeline consists of two stages:
//
//  1. Load: Decode a YAML, JSON or TOML document, build the tree, and
//     optionally cut it down to the subtree below a root
//  2. Render: Produce outputs in the requested formats (text art, DOT, SVG,
//     PNG, PDF, or the tree re-encoded as YAML, JSON or TOML)
//
// Each stage can be run independently or as part of the complete pipeline.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Path:    "concepts.yaml",
//	    Root:    "mammal",
//	    Formats: []string{"text", "svg"},
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
//
// Run individual stages:
//
//	// Load only
//	t, err := runner.Load(ctx, opts)
//
//	// Render a tree that is already in memory
//	artifacts, err := runner.Render(ctx, t, opts)
package pipeline

import (
	"io"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/groot/pkg/cache"
	gerrors "github.com/matzehuels/groot/pkg/errors"
	treeio "github.com/matzehuels/groot/pkg/io"
	"github.com/matzehuels/groot/pkg/render/textart"
	"github.com/matzehuels/groot/pkg/tree"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and Server
// =============================================================================

// Format constants for output formats.
const (
	FormatText = "text"
	FormatDOT  = "dot"
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
	FormatYAML = string(treeio.FormatYAML)
	FormatJSON = string(treeio.FormatJSON)
	FormatTOML = string(treeio.FormatTOML)
)

// DefaultFormat is rendered when no format is requested.
const DefaultFormat = FormatText

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatText: true,
	FormatDOT:  true,
	FormatSVG:  true,
	FormatPNG:  true,
	FormatPDF:  true,
	FormatYAML: true,
	FormatJSON: true,
	FormatTOML: true,
}

// FormatNames returns the supported output formats in sorted order.
func FormatNames() []string {
	names := make([]string, 0, len(ValidFormats))
	for f := range ValidFormats {
		names = append(names, f)
	}
	slices.Sort(names)
	return names
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Load options. Either Path or Source must be set.
	Path         string         `json:"path,omitempty"`
	Source       []byte         `json:"-"`
	SourceFormat treeio.Format  `json:"source_format,omitempty"` // Inferred from Path when empty
	Name         string         `json:"name,omitempty"`          // Tree name; defaults to the file stem or the roots
	Root         string         `json:"root,omitempty"`          // Render only the subtree below this node
	Refresh      bool           `json:"refresh,omitempty"`

	// Render options
	Formats    []string `json:"formats,omitempty"`
	Space      int      `json:"space,omitempty"`
	AtomMarker string   `json:"atom_marker,omitempty"`
	HideLevel  bool     `json:"hide_level,omitempty"`
	Detailed   bool     `json:"detailed,omitempty"` // Detailed node labels in DOT, SVG, PNG and PDF

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Tree is the loaded tree, already cut to Options.Root if set.
	Tree *tree.Tree

	// TreeHash is the content hash of the tree.
	TreeHash string

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount  int
	AtomCount  int
	Depth      int
	LoadTime   time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	LoadHit   bool // Whether the tree came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return gerrors.New(gerrors.ErrCodeInvalidFormat,
			"invalid format: %q (must be one of: %s)", format, strings.Join(FormatNames(), ", "))
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults for the full pipeline.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForLoad(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForLoad checks required fields for loading.
func (o *Options) ValidateForLoad() error {
	if o.Path == "" && o.Source == nil {
		return gerrors.New(gerrors.ErrCodeInvalidInput, "path or source is required")
	}
	if o.SourceFormat == "" {
		if o.Path == "" {
			o.SourceFormat = treeio.FormatYAML
		} else {
			f, err := treeio.FormatFromPath(o.Path)
			if err != nil {
				return err
			}
			o.SourceFormat = f
		}
	}
	if _, err := treeio.ParseFormat(string(o.SourceFormat)); err != nil {
		return err
	}
	if o.Name == "" && o.Path != "" {
		o.Name = treeio.Stem(o.Path)
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return nil
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{DefaultFormat}
	}
	if o.Space == 0 {
		o.Space = textart.DefaultSpace
	}
	if o.AtomMarker == "" {
		o.AtomMarker = textart.DefaultAtomMarker
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	if o.Space < 1 {
		return gerrors.New(gerrors.ErrCodeInvalidInput, "space must be at least 1, got %d", o.Space)
	}
	return ValidateFormats(o.Formats)
}

// TextOptions returns the text-art settings.
func (o *Options) TextOptions() textart.Options {
	return textart.Options{
		Space:      o.Space,
		AtomMarker: o.AtomMarker,
		ShowLevel:  !o.HideLevel,
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering. Only the
// options that affect the given format enter the key.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	k := cache.ArtifactKeyOpts{Format: format}
	switch format {
	case FormatText:
		k.Space = o.Space
		k.AtomMarker = o.AtomMarker
		k.ShowLevel = !o.HideLevel
	case FormatDOT, FormatSVG, FormatPNG, FormatPDF:
		k.Detailed = o.Detailed
	}
	return k
}
