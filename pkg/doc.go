// Package pkg provides the core libraries for Groot concept trees.
//
// # Overview
//
// A concept tree is given as a flat child→parent mapping, with "" as the
// parent of every root. Groot builds the node graph, pushes atom sets (the
// leaves a node stands for) up from the leaves, indexes nodes by level, and
// draws the result as text art or as a Graphviz node-link diagram.
//
// # Architecture
//
// The typical data flow:
//
//	YAML / JSON / TOML document
//	         ↓
//	    [io] package (decode to a child→parent mapping)
//	         ↓
//	    [tree] package (Build → PushAtoms → IndexLevels → Tree)
//	         ↓
//	    [render/textart], [render/nodelink] (text art, DOT, SVG, PNG, PDF)
//
// # Quick Start
//
//	t, err := io.Import("animals.yaml")
//	if err != nil {
//	    return err
//	}
//	fmt.Println(textart.Draw(t, textart.DefaultOptions()))
//
// # Main Packages
//
// [tree] - Builder, atom propagation, level indexing and the immutable Tree
// with its roots, atom and node labels, and subtree extraction.
//
// [io] - Mapping documents in YAML, JSON and TOML. Import names a tree after
// its file; Export writes atomically.
//
// [render/textart] - Indented box-drawing diagrams with a level header and
// atom markers. Lines exposes the structured rows for coloured output.
//
// [render/nodelink] - Graphviz digraphs with one rank per level, rendered
// in-process to SVG and PNG.
//
// [pipeline] - Load → render with validated options, used by the CLI and the
// HTTP server. The Runner adds content-addressed caching.
//
// [cache] - File, Redis and no-op backends with TTLs and scoped keys.
//
// [observability] - Hooks for load, render, cache and HTTP events, with
// Prometheus and log implementations.
//
// [errors] - Coded errors (MALFORMED_TREE, UNKNOWN_NODE, ...) shared by every
// package above.
//
// [tree]: https://pkg.go.dev/github.com/matzehuels/groot/pkg/tree
// [io]: https://pkg.go.dev/github.com/matzehuels/groot/pkg/io
// [render/textart]: https://pkg.go.dev/github.com/matzehuels/groot/pkg/render/textart
// [render/nodelink]: https://pkg.go.dev/github.com/matzehuels/groot/pkg/render/nodelink
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/groot/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/groot/pkg/cache
// [observability]: https://pkg.go.dev/github.com/matzehuels/groot/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/groot/pkg/errors
package pkg
