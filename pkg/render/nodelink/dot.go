package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/groot/pkg/render"
	"github.com/matzehuels/groot/pkg/tree"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed adds level, atom count and labels to node labels.
	// When false, only the node name is shown.
	Detailed bool
}

// ToDOT converts a tree to Graphviz DOT format for node-link visualization.
// The resulting DOT string can be rendered using [RenderSVG], [RenderPNG] or
// [RenderPDF].
//
// Edges point from parent to child. Nodes of one level share a rank, and
// atomic nodes are drawn as grey ellipses. Output is deterministic: nodes
// are emitted level by level in name order.
func ToDOT(t *tree.Tree, opts Options) string {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "digraph %q {\n", t.Name())
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=24, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")

	nodes := t.Nodes()
	atomLabel := t.AtomLabel()
	nodeLabel := t.NodeLabel()

	for level, names := range t.Levels() {
		buf.WriteString("\n")
		for _, name := range names {
			n := nodes[name]
			label := name
			if opts.Detailed {
				label = fmtDetails(n, level, nodeLabel[name], atomLabel)
			}
			fmt.Fprintf(&buf, "  %q [%s];\n", name, strings.Join(fmtAttrs(n, label), ", "))
		}
		if len(names) > 1 {
			buf.WriteString("  { rank=same;")
			for _, name := range names {
				fmt.Fprintf(&buf, " %q;", name)
			}
			buf.WriteString(" }\n")
		}
	}

	buf.WriteString("\n")
	for _, name := range t.Names() {
		for _, c := range nodes[name].Children {
			fmt.Fprintf(&buf, "  %q -> %q;\n", name, c)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtDetails(n *tree.Node, level, label int, atomLabel map[string]int) string {
	parts := []string{
		n.Name,
		fmt.Sprintf("level: %d", level),
		fmt.Sprintf("atoms: %d", len(n.Atoms)),
		fmt.Sprintf("label: %d", label),
	}
	if l, ok := atomLabel[n.Name]; ok {
		parts = append(parts, fmt.Sprintf("atom label: %d", l))
	}
	return strings.Join(parts, "\n")
}

func fmtAttrs(n *tree.Node, label string) []string {
	attrs := []string{fmt.Sprintf("label=%q", label)}
	if n.IsAtom() {
		attrs = append(attrs, "shape=ellipse", "style=filled", "fillcolor=lightgrey")
	}
	if n.IsRoot() {
		attrs = append(attrs, "penwidth=2")
	}
	return attrs
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
// Returns the SVG bytes ready for display or further conversion with [render.ToPDF].
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	out, err := renderDOT(ctx, dot, graphviz.SVG)
	if err != nil {
		return nil, err
	}
	return normalizeViewBox(out), nil
}

// RenderPNG renders a DOT graph to PNG using Graphviz.
func RenderPNG(ctx context.Context, dot string) ([]byte, error) {
	return renderDOT(ctx, dot, graphviz.PNG)
}

// RenderPDF renders a DOT graph as PDF via SVG conversion.
// This is a convenience wrapper around [RenderSVG] and [render.ToPDF].
//
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPDF(ctx context.Context, dot string) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPDF(ctx, svg)
}

func renderDOT(ctx context.Context, dot string, format graphviz.Format) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
