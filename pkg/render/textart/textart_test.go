package textart

import (
	"fmt"
	"slices"
	"strings"
	"testing"

	"github.com/matzehuels/groot/pkg/tree"
)

var sample = tree.Mapping{
	"a": "", "a.a": "a", "a.a.a": "a.a", "a.a.b": "a.a",
	"a.b": "a", "a.b.a": "a.b", "a.c": "a",
	"b": "", "b.a": "b", "b.b": "b",
}

func mustTree(t *testing.T, m tree.Mapping) *tree.Tree {
	t.Helper()
	tr, err := tree.FromMapping(m)
	if err != nil {
		t.Fatalf("FromMapping() error = %v", err)
	}
	return tr
}

func TestDraw(t *testing.T) {
	tests := []struct {
		name string
		m    tree.Mapping
		opts Options
		want []string
	}{
		{
			name: "defaults",
			m:    sample,
			opts: DefaultOptions(),
			want: []string{
				"0   1   2",
				"┼───┼───┼",
				"a",
				"├── a.a",
				"│   ├── a.a.a ■",
				"│   └── a.a.b ■",
				"├── a.b",
				"│   └── a.b.a ■",
				"└── a.c ■",
				"b",
				"├── b.a ■",
				"└── b.b ■",
			},
		},
		{
			name: "no header",
			m:    tree.Mapping{"a": "", "a.a": "a", "a.b": "a"},
			opts: Options{Space: 3, AtomMarker: "■"},
			want: []string{
				"a",
				"├── a.a ■",
				"└── a.b ■",
			},
		},
		{
			name: "narrow space",
			m:    tree.Mapping{"a": "", "a.a": "a", "a.a.a": "a.a", "a.b": "a"},
			opts: Options{Space: 1, AtomMarker: "*", ShowLevel: true},
			want: []string{
				"0 1 2",
				"┼─┼─┼",
				"a",
				"├ a.a",
				"│ └ a.a.a *",
				"└ a.b *",
			},
		},
		{
			name: "space clamped",
			m:    tree.Mapping{"a": "", "a.a": "a"},
			opts: Options{Space: -4, AtomMarker: "*"},
			want: []string{
				"a",
				"└ a.a *",
			},
		},
		{
			name: "last sibling continuation is blank",
			m:    tree.Mapping{"r": "", "r.x": "r", "r.x.y": "r.x", "r.x.y.z": "r.x.y"},
			opts: Options{Space: 2, AtomMarker: "o"},
			want: []string{
				"r",
				"└─ r.x",
				"   └─ r.x.y",
				"      └─ r.x.y.z o",
			},
		},
		{
			name: "atomic root and empty marker",
			m:    tree.Mapping{"solo": "", "p": "", "p.c": "p"},
			opts: Options{Space: 3},
			want: []string{
				"p",
				"└── p.c",
				"solo",
			},
		},
		{
			name: "atomic root marked",
			m:    tree.Mapping{"solo": ""},
			opts: DefaultOptions(),
			want: []string{
				"0",
				"┼",
				"solo ■",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Draw(mustTree(t, tt.m), tt.opts)
			want := strings.Join(tt.want, "\n")
			if got != want {
				t.Errorf("Draw() =\n%s\nwant\n%s", got, want)
			}
		})
	}
}

func TestDraw_Empty(t *testing.T) {
	if got := Draw(mustTree(t, tree.Mapping{}), DefaultOptions()); got != "" {
		t.Errorf("Draw(empty) = %q, want empty", got)
	}
}

func TestDraw_Idempotent(t *testing.T) {
	tr := mustTree(t, sample)
	first := Draw(tr, DefaultOptions())
	for i := 0; i < 10; i++ {
		if got := Draw(tr, DefaultOptions()); got != first {
			t.Fatalf("Draw() call %d differs:\n%s\nwant\n%s", i, got, first)
		}
	}
}

func TestHeader(t *testing.T) {
	tests := []struct {
		depth, width int
		want         string
	}{
		{1, 3, "0"},
		{3, 3, "0   1   2"},
		{3, 1, "0 1 2"},
		{11, 3, "0   1   2   3   4   5   6   7   8   9  10"},
		{12, 1, "0 1 2 3 4 5 6 7 8 9 10 11"},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d/%d", tt.depth, tt.width), func(t *testing.T) {
			if got := header(tt.depth, tt.width); got != tt.want {
				t.Errorf("header(%d, %d) = %q, want %q", tt.depth, tt.width, got, tt.want)
			}
		})
	}
}

func TestHeaderAlignsWithAxis(t *testing.T) {
	const width = 3
	h := header(11, width)
	a := []rune(axis(11, width))
	for i := range 11 {
		col := i * (width + 1)
		if a[col] != '┼' {
			t.Fatalf("axis[%d] = %q, want ┼", col, a[col])
		}
		s := fmt.Sprint(i)
		if got := h[col-len(s)+1 : col+1]; got != s {
			t.Errorf("header at column %d = %q, want %q", col, got, s)
		}
	}
}

func TestLines(t *testing.T) {
	tr := mustTree(t, sample)

	var kinds []LineKind
	levels := map[string]int{}
	for l := range Lines(tr, DefaultOptions()) {
		kinds = append(kinds, l.Kind)
		if l.Kind == KindNode || l.Kind == KindRoot {
			levels[l.Name] = l.Level
		}
	}

	if kinds[0] != KindHeader || kinds[1] != KindAxis || kinds[2] != KindRoot {
		t.Errorf("first kinds = %v, want [header axis root]", kinds[:3])
	}
	if got := len(levels); got != tr.Len() {
		t.Errorf("Lines() visited %d nodes, want %d", got, tr.Len())
	}
	for name, want := range tr.NodeLevel() {
		if levels[name] != want {
			t.Errorf("Line(%s).Level = %d, want %d", name, levels[name], want)
		}
	}
}

func TestLines_StopEarly(t *testing.T) {
	tr := mustTree(t, sample)
	var got []string
	for l := range Lines(tr, Options{Space: 3}) {
		got = append(got, l.Name)
		if len(got) == 3 {
			break
		}
	}
	if want := []string{"a", "a.a", "a.a.a"}; !slices.Equal(got, want) {
		t.Errorf("Lines() prefix = %v, want %v", got, want)
	}
}

func TestLineString(t *testing.T) {
	l := Line{Kind: KindNode, Prefix: "│   ", Connector: "└── ", Name: "x", Marker: "■"}
	if got, want := l.String(), "│   └── x ■"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
	l.Marker = ""
	if got, want := l.String(), "│   └── x"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}
