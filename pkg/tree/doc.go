// Package tree builds and indexes hierarchical concept trees.
//
// # Overview
//
// A concept tree is a forest of named nodes described by a flat child→parent
// [Mapping]. Roots map to the empty string:
//
//	m := tree.Mapping{
//	    "a":   "",
//	    "a.a": "a",
//	    "a.b": "a",
//	}
//	t, err := tree.FromMapping(m)
//
// Construction runs in three stages, each usable on its own:
//
//  1. [Build] turns the mapping into a node arena ([Nodes]) with parent and
//     child links, rejecting dangling parents and cycles.
//  2. [PushAtoms] fills each node's atom set: the atomic (childless) nodes in
//     its subtree.
//  3. [New] indexes the arena: roots, depth levels, and dense integer labels
//     for atoms and nodes.
//
// # Queries
//
// A [Tree] exposes roots (largest subtree first), levels, atom and node
// labels, per-node lookups, and subtree extraction with [Tree.Subtree].
// [Tree.ToMapping] serializes back to the child→parent relation; marshaling
// that mapping to YAML, JSON or TOML lives in the [io] package.
//
// # Errors
//
// Failures carry codes from [errors]: MALFORMED_TREE for dangling parents,
// cycles and invalid names; UNKNOWN_NODE for lookups of absent names;
// INCONSISTENT_ATOM_SEED for seeded atom sets that disagree with structure.
//
// # Concurrency
//
// A Tree is immutable once [New] returns and all accessors return copies, so
// it may be shared between goroutines. [Nodes] arenas are plain maps and are
// not safe for concurrent mutation.
//
// [io]: github.com/matzehuels/groot/pkg/io
// [errors]: github.com/matzehuels/groot/pkg/errors
package tree
