package pipeline

import (
	"bytes"
	"context"
	"maps"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/matzehuels/groot/pkg/cache"
	gerrors "github.com/matzehuels/groot/pkg/errors"
	treeio "github.com/matzehuels/groot/pkg/io"
	"github.com/matzehuels/groot/pkg/observability"
)

const sampleYAML = `a: ""
a.a: a
a.a.a: a.a
a.b: a
b: ""
b.a: b
`

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"text", false},
		{"dot", false},
		{"svg", false},
		{"png", false},
		{"pdf", false},
		{"yaml", false},
		{"json", false},
		{"toml", false},
		{"invalid", true},
		{"SVG", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
		if err != nil && !gerrors.Is(err, gerrors.ErrCodeInvalidFormat) {
			t.Errorf("ValidateFormat(%q) code = %s, want INVALID_FORMAT", tt.format, gerrors.GetCode(err))
		}
	}
}

func TestValidateFormats(t *testing.T) {
	if err := ValidateFormats([]string{"svg", "text"}); err != nil {
		t.Errorf("Valid formats should pass: %v", err)
	}

	if err := ValidateFormats([]string{"svg", "invalid"}); err == nil {
		t.Error("Invalid format should fail")
	}

	// Empty slice is valid
	if err := ValidateFormats(nil); err != nil {
		t.Errorf("Empty formats should pass: %v", err)
	}
}

func TestOptionsDefaults(t *testing.T) {
	opts := Options{Path: "trees/fruits.toml"}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults() error = %v", err)
	}

	if opts.SourceFormat != treeio.FormatTOML {
		t.Errorf("SourceFormat = %q, want toml", opts.SourceFormat)
	}
	if opts.Name != "fruits" {
		t.Errorf("Name = %q, want fruits", opts.Name)
	}
	if len(opts.Formats) != 1 || opts.Formats[0] != FormatText {
		t.Errorf("Formats = %v, want [text]", opts.Formats)
	}
	if opts.Space != 3 || opts.AtomMarker != "■" {
		t.Errorf("Space, AtomMarker = %d, %q; want 3, ■", opts.Space, opts.AtomMarker)
	}
	if opts.Logger == nil {
		t.Error("Logger should default to a discard logger")
	}
	if to := opts.TextOptions(); !to.ShowLevel {
		t.Error("TextOptions().ShowLevel should default to true")
	}
}

func TestOptionsValidateForLoad(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		code gerrors.Code
	}{
		{"no input", Options{}, gerrors.ErrCodeInvalidInput},
		{"unknown extension", Options{Path: "tree.xml"}, gerrors.ErrCodeInvalidFormat},
		{"unknown source format", Options{Source: []byte("{}"), SourceFormat: "ini"}, gerrors.ErrCodeInvalidFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateForLoad()
			if !gerrors.Is(err, tt.code) {
				t.Errorf("ValidateForLoad() error = %v, want %s", err, tt.code)
			}
		})
	}

	opts := Options{Source: []byte(sampleYAML)}
	if err := opts.ValidateForLoad(); err != nil {
		t.Fatalf("ValidateForLoad() error = %v", err)
	}
	if opts.SourceFormat != treeio.FormatYAML {
		t.Errorf("SourceFormat = %q, want yaml for raw sources", opts.SourceFormat)
	}
}

func TestOptionsValidateForRender(t *testing.T) {
	opts := Options{Space: -1}
	if err := opts.ValidateForRender(); !gerrors.Is(err, gerrors.ErrCodeInvalidInput) {
		t.Errorf("ValidateForRender() error = %v, want INVALID_INPUT", err)
	}
	opts = Options{Formats: []string{"gif"}}
	if err := opts.ValidateForRender(); !gerrors.Is(err, gerrors.ErrCodeInvalidFormat) {
		t.Errorf("ValidateForRender() error = %v, want INVALID_FORMAT", err)
	}
}

func TestOptionsValidateAndSetDefaultsIdempotent(t *testing.T) {
	opts := Options{Source: []byte(sampleYAML), Formats: []string{"yaml"}}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	first := opts
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	if opts.Space != first.Space || opts.SourceFormat != first.SourceFormat || len(opts.Formats) != 1 {
		t.Errorf("second call changed options: %+v vs %+v", opts, first)
	}
}

func TestArtifactKeyOpts(t *testing.T) {
	opts := Options{Space: 2, AtomMarker: "*", Detailed: true}

	text := opts.ArtifactKeyOpts(FormatText)
	if text.Space != 2 || text.AtomMarker != "*" || !text.ShowLevel || text.Detailed {
		t.Errorf("ArtifactKeyOpts(text) = %+v", text)
	}
	svg := opts.ArtifactKeyOpts(FormatSVG)
	if svg.Space != 0 || !svg.Detailed {
		t.Errorf("ArtifactKeyOpts(svg) = %+v", svg)
	}
	yaml := opts.ArtifactKeyOpts(FormatYAML)
	if yaml != (cache.ArtifactKeyOpts{Format: FormatYAML}) {
		t.Errorf("ArtifactKeyOpts(yaml) = %+v, want format only", yaml)
	}
}

func TestExecute(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	res, err := r.Execute(context.Background(), Options{
		Source:  []byte(sampleYAML),
		Formats: []string{FormatText, FormatDOT, FormatJSON},
	})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	want := strings.Join([]string{
		"0   1   2",
		"┼───┼───┼",
		"a",
		"├── a.a",
		"│   └── a.a.a ■",
		"└── a.b ■",
		"b",
		"└── b.a ■",
	}, "\n") + "\n"
	if got := string(res.Artifacts[FormatText]); got != want {
		t.Errorf("text artifact =\n%s\nwant\n%s", got, want)
	}
	if !strings.HasPrefix(string(res.Artifacts[FormatDOT]), `digraph "a-b" {`) {
		t.Errorf("dot artifact = %.40s", res.Artifacts[FormatDOT])
	}

	m, err := treeio.Read(bytes.NewReader(res.Artifacts[FormatJSON]), treeio.FormatJSON)
	if err != nil {
		t.Fatalf("json artifact does not decode: %v", err)
	}
	if !maps.Equal(m, res.Tree.ToMapping()) {
		t.Errorf("json artifact = %v, want %v", m, res.Tree.ToMapping())
	}

	if res.Stats.NodeCount != 6 || res.Stats.AtomCount != 3 || res.Stats.Depth != 3 {
		t.Errorf("Stats = %+v", res.Stats)
	}
	if res.TreeHash == "" || res.TreeHash != TreeHash(res.Tree) {
		t.Errorf("TreeHash = %q, want hash of tree", res.TreeHash)
	}
}

func TestExecuteSubtree(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	res, err := r.Execute(context.Background(), Options{
		Source:    []byte(sampleYAML),
		Root:      "a.a",
		HideLevel: true,
	})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if got, want := string(res.Artifacts[FormatText]), "a.a\n└── a.a.a ■\n"; got != want {
		t.Errorf("text artifact = %q, want %q", got, want)
	}
	if res.Tree.Name() != "a.a" {
		t.Errorf("Name() = %q, want a.a", res.Tree.Name())
	}
}

func TestExecuteErrors(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name string
		opts Options
		code gerrors.Code
	}{
		{"unknown root", Options{Source: []byte(sampleYAML), Root: "zzz"}, gerrors.ErrCodeUnknownNode},
		{"malformed", Options{Source: []byte("x: y\n")}, gerrors.ErrCodeMalformedTree},
		{"null parent", Options{Source: []byte("x: ~\n")}, gerrors.ErrCodeInvalidFormat},
		{"missing file", Options{Path: filepath.Join(dir, "none.yaml")}, gerrors.ErrCodeFileNotFound},
		{"bad format", Options{Source: []byte(sampleYAML), Formats: []string{"bmp"}}, gerrors.ErrCodeInvalidFormat},
	}

	r := NewRunner(nil, nil, nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := r.Execute(context.Background(), tt.opts)
			if !gerrors.Is(err, tt.code) {
				t.Errorf("Execute() error = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestExecuteFromPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "letters.yaml")
	if err := os.WriteFile(path, []byte(sampleYAML), 0o644); err != nil {
		t.Fatal(err)
	}

	res, err := NewRunner(nil, nil, nil).Execute(context.Background(), Options{Path: path, Formats: []string{FormatTOML}})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if res.Tree.Name() != "letters" {
		t.Errorf("Name() = %q, want letters", res.Tree.Name())
	}
	if !bytes.Contains(res.Artifacts[FormatTOML], []byte(`"a.a" = "a"`)) {
		t.Errorf("toml artifact = %s", res.Artifacts[FormatTOML])
	}
}

func TestExecuteCaching(t *testing.T) {
	ctx := context.Background()
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	r := NewRunner(fc, nil, nil)
	path := filepath.Join(t.TempDir(), "letters.yaml")
	if err := os.WriteFile(path, []byte(sampleYAML), 0o644); err != nil {
		t.Fatal(err)
	}
	opts := Options{Path: path, Formats: []string{FormatText, FormatYAML}}

	first, err := r.Execute(ctx, opts)
	if err != nil {
		t.Fatal(err)
	}
	if first.CacheInfo.LoadHit || first.CacheInfo.RenderHit {
		t.Errorf("first run CacheInfo = %+v, want misses", first.CacheInfo)
	}

	second, err := r.Execute(ctx, opts)
	if err != nil {
		t.Fatal(err)
	}
	if !second.CacheInfo.LoadHit || !second.CacheInfo.RenderHit {
		t.Errorf("second run CacheInfo = %+v, want hits", second.CacheInfo)
	}
	if second.Tree.Name() != "letters" {
		t.Errorf("cached tree Name() = %q, want letters", second.Tree.Name())
	}
	for f, data := range first.Artifacts {
		if !bytes.Equal(second.Artifacts[f], data) {
			t.Errorf("cached %s artifact differs", f)
		}
	}

	// A different text option renders again, the yaml artifact is reused.
	opts.Space = 2
	third, err := r.Execute(ctx, opts)
	if err != nil {
		t.Fatal(err)
	}
	if third.CacheInfo.RenderHit {
		t.Error("changed space should miss the text artifact")
	}
	if !strings.Contains(string(third.Artifacts[FormatText]), "├─ a.a") {
		t.Errorf("text artifact with space 2 =\n%s", third.Artifacts[FormatText])
	}

	// Refresh bypasses both stages.
	opts.Refresh = true
	fourth, err := r.Execute(ctx, opts)
	if err != nil {
		t.Fatal(err)
	}
	if fourth.CacheInfo.LoadHit || fourth.CacheInfo.RenderHit {
		t.Errorf("refresh CacheInfo = %+v, want misses", fourth.CacheInfo)
	}

	// Editing the file changes the source hash.
	if err := os.WriteFile(path, []byte(sampleYAML+"c: \"\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	opts.Refresh = false
	fifth, err := r.Execute(ctx, opts)
	if err != nil {
		t.Fatal(err)
	}
	if fifth.CacheInfo.LoadHit || fifth.Tree.Len() != 7 {
		t.Errorf("edited file: LoadHit %v, Len %d; want miss and 7 nodes", fifth.CacheInfo.LoadHit, fifth.Tree.Len())
	}
}

func TestRenderCanceled(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	tr, err := r.Load(context.Background(), Options{Source: []byte(sampleYAML)})
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Render(ctx, tr, Options{Formats: []string{FormatText}}); err == nil {
		t.Error("Render() with canceled context should fail")
	}
}

func TestRenderFormat(t *testing.T) {
	tr, err := Load(Options{Source: []byte(sampleYAML)})
	if err != nil {
		t.Fatal(err)
	}
	data, err := RenderFormat(context.Background(), tr, FormatYAML, Options{})
	if err != nil {
		t.Fatalf("RenderFormat() error = %v", err)
	}
	if string(data) != sampleYAML {
		t.Errorf("RenderFormat(yaml) =\n%s\nwant\n%s", data, sampleYAML)
	}
}

func TestRunnerHooks(t *testing.T) {
	defer observability.Reset()
	h := &countingHooks{}
	observability.SetTreeHooks(h)
	observability.SetCacheHooks(h)

	fc, _ := cache.NewFileCache(t.TempDir())
	r := NewRunner(fc, nil, nil)
	opts := Options{Source: []byte(sampleYAML)}
	for i := 0; i < 2; i++ {
		if _, err := r.Execute(context.Background(), opts); err != nil {
			t.Fatal(err)
		}
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.loads != 2 || h.renders != 2 {
		t.Errorf("loads, renders = %d, %d; want 2, 2", h.loads, h.renders)
	}
	if h.hits["tree"] != 1 || h.misses["tree"] != 1 {
		t.Errorf("tree hits, misses = %d, %d; want 1, 1", h.hits["tree"], h.misses["tree"])
	}
	if h.hits["artifact"] != 1 || h.sets["artifact"] != 1 {
		t.Errorf("artifact hits, sets = %d, %d; want 1, 1", h.hits["artifact"], h.sets["artifact"])
	}
}

type countingHooks struct {
	observability.NoopTreeHooks
	mu             sync.Mutex
	loads, renders int
	hits, misses   map[string]int
	sets           map[string]int
}

func (h *countingHooks) OnLoadComplete(context.Context, string, int, time.Duration, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.loads++
}

func (h *countingHooks) OnRenderComplete(context.Context, []string, time.Duration, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.renders++
}

func (h *countingHooks) count(m *map[string]int, keyType string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if *m == nil {
		*m = make(map[string]int)
	}
	(*m)[keyType]++
}

func (h *countingHooks) OnCacheHit(_ context.Context, keyType string)   { h.count(&h.hits, keyType) }
func (h *countingHooks) OnCacheMiss(_ context.Context, keyType string)  { h.count(&h.misses, keyType) }
func (h *countingHooks) OnCacheSet(_ context.Context, keyType string, _ int) {
	h.count(&h.sets, keyType)
}
