package textart

import (
	"iter"
	"slices"
	"strconv"
	"strings"

	"github.com/matzehuels/groot/pkg/tree"
)

// Default option values.
const (
	DefaultSpace      = 3
	DefaultAtomMarker = "■"
)

// Options configures diagram rendering.
type Options struct {
	// Space is the connector width. Values below 1 are treated as 1.
	Space int

	// AtomMarker is appended after atomic node names, separated by a space.
	// An empty marker appends nothing.
	AtomMarker string

	// ShowLevel prepends the level index header.
	ShowLevel bool
}

// DefaultOptions returns the standard diagram settings: connector width 3,
// "■" atom marker and a level header.
func DefaultOptions() Options {
	return Options{
		Space:      DefaultSpace,
		AtomMarker: DefaultAtomMarker,
		ShowLevel:  true,
	}
}

// LineKind identifies the role of a diagram line.
type LineKind int

const (
	KindHeader LineKind = iota // level indices
	KindAxis                   // ┼───┼ ruler under the header
	KindRoot                   // root node
	KindNode                   // non-root node
)

func (k LineKind) String() string {
	switch k {
	case KindHeader:
		return "header"
	case KindAxis:
		return "axis"
	case KindRoot:
		return "root"
	case KindNode:
		return "node"
	}
	return "unknown"
}

// Line is one row of a diagram. Header and axis lines carry their text in
// Name; node lines split into the inherited Prefix, the Connector leading to
// the node, the node Name and the atom Marker (empty for non-atoms).
type Line struct {
	Kind      LineKind
	Prefix    string
	Connector string
	Name      string
	Marker    string
	Level     int
}

// String assembles the line as it appears in [Draw] output.
func (l Line) String() string {
	s := l.Prefix + l.Connector + l.Name
	if l.Marker != "" {
		s += " " + l.Marker
	}
	return s
}

type markers struct {
	space, branch, tee, last string
}

func newMarkers(width int) markers {
	return markers{
		space:  strings.Repeat(" ", width+1),
		branch: "│" + strings.Repeat(" ", width),
		tee:    "├" + strings.Repeat("─", width-1) + " ",
		last:   "└" + strings.Repeat("─", width-1) + " ",
	}
}

// Lines yields the diagram of t line by line. Roots come in tree order
// (largest first); descendants follow depth-first with siblings sorted by
// name. An empty tree yields nothing, not even a header.
func Lines(t *tree.Tree, opts Options) iter.Seq[Line] {
	width := max(opts.Space, 1)
	m := newMarkers(width)

	return func(yield func(Line) bool) {
		if t.Len() == 0 {
			return
		}
		if opts.ShowLevel {
			if !yield(Line{Kind: KindHeader, Name: header(t.Depth(), width)}) {
				return
			}
			if !yield(Line{Kind: KindAxis, Name: axis(t.Depth(), width)}) {
				return
			}
		}

		nodes := t.Nodes()
		level := t.NodeLevel()
		marker := func(n *tree.Node) string {
			if n.IsAtom() {
				return opts.AtomMarker
			}
			return ""
		}

		type frame struct {
			name   string
			prefix string
			last   bool
		}
		var stack []frame
		push := func(children []string, prefix string) {
			for i, c := range slices.Backward(children) {
				stack = append(stack, frame{name: c, prefix: prefix, last: i == len(children)-1})
			}
		}

		for _, root := range t.Roots() {
			n := nodes[root]
			if !yield(Line{Kind: KindRoot, Name: root, Marker: marker(n)}) {
				return
			}
			push(n.Children, "")

			for len(stack) > 0 {
				f := stack[len(stack)-1]
				stack = stack[:len(stack)-1]

				n := nodes[f.name]
				conn, ext := m.tee, m.branch
				if f.last {
					conn, ext = m.last, m.space
				}
				line := Line{
					Kind:      KindNode,
					Prefix:    f.prefix,
					Connector: conn,
					Name:      f.name,
					Marker:    marker(n),
					Level:     level[f.name],
				}
				if !yield(line) {
					return
				}
				push(n.Children, f.prefix+ext)
			}
		}
	}
}

// Draw renders the whole diagram, lines joined by "\n" without a trailing
// newline.
func Draw(t *tree.Tree, opts Options) string {
	var b strings.Builder
	first := true
	for l := range Lines(t, opts) {
		if !first {
			b.WriteByte('\n')
		}
		first = false
		b.WriteString(l.String())
	}
	return b.String()
}

// header numbers the levels so that the last digit of each index sits on the
// column of its axis mark. Indices too wide for the gap are pushed right to
// keep one blank between neighbours.
func header(depth, width int) string {
	var b []byte
	for i := range depth {
		s := strconv.Itoa(i)
		start := i*(width+1) - len(s) + 1
		if i > 0 {
			start = max(start, len(b)+1)
		}
		for len(b) < start {
			b = append(b, ' ')
		}
		b = append(b, s...)
	}
	return string(b)
}

func axis(depth, width int) string {
	marks := make([]string, depth)
	for i := range marks {
		marks[i] = "┼"
	}
	return strings.Join(marks, strings.Repeat("─", width))
}
