// Package nodelink renders concept trees as node-link diagrams.
//
// # Overview
//
// This package produces directed graph visualizations using Graphviz:
// every node is a box, atoms are grey ellipses, and arrows run from parent
// to child. It complements the text-art renderer when a picture is wanted.
//
// # Usage
//
// Convert a tree to DOT format, then render it:
//
//	dot := nodelink.ToDOT(t, nodelink.Options{Detailed: false})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//	png, err := nodelink.RenderPNG(ctx, dot)
//
// # Options
//
// The [Options] struct controls diagram generation:
//
//   - Detailed: When true, node labels include level, atom count and labels
//
// # DOT Format
//
// The generated DOT uses top-to-bottom layout (rankdir=TB). Nodes of the
// same level are placed in one rank so the picture lines up with the level
// indices of the text-art diagram.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG and
// PNG rendering. PDF conversion requires librsvg (rsvg-convert).
package nodelink
