// Package render turns concept trees into visual outputs.
//
// # Overview
//
// Two renderers live in subpackages:
//
//   - Text-art diagrams (in [textart]): indented box-drawing trees for the
//     terminal, with a level header and atom markers
//   - Node-link diagrams (in [nodelink]): Graphviz digraphs rendered
//     in-process to SVG or PNG
//
// # Format Conversion
//
// [ToPDF] converts any SVG to PDF using the external rsvg-convert tool (from
// librsvg). [Available] reports whether the tool is installed.
//
//	dot := nodelink.ToDOT(t, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//	pdf, err := render.ToPDF(ctx, svg)
//
// [textart]: github.com/matzehuels/groot/pkg/render/textart
// [nodelink]: github.com/matzehuels/groot/pkg/render/nodelink
package render
