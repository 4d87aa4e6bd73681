package tree

import (
	"maps"
	"slices"

	gerrors "github.com/matzehuels/groot/pkg/errors"
)

// Build constructs the node arena from a child→parent mapping.
//
// Every key becomes a node whose Parent is the mapped value; the empty string
// marks a root. Children are populated as the inverse of the parent relation.
// Atoms are left empty; run [PushAtoms] to fill them.
//
// Build returns an error with code MALFORMED_TREE if a name is empty or
// contains control characters, if a parent value is not itself a key
// (dangling reference), or if a name is its own ancestor (cycle). Errors are
// reported for the lexicographically first offending name so that the same
// input always yields the same message.
func Build(m Mapping) (Nodes, error) {
	names := slices.Sorted(maps.Keys(m))

	nodes := make(Nodes, len(m))
	for _, name := range names {
		if err := gerrors.ValidateNodeName(name); err != nil {
			return nil, err
		}
		parent := m[name]
		if parent != "" {
			if _, ok := m[parent]; !ok {
				return nil, gerrors.New(gerrors.ErrCodeMalformedTree,
					"node %q references unknown parent %q", name, parent)
			}
		}
		nodes[name] = &Node{Name: name, Parent: parent}
	}

	// names is sorted, so appending keeps every child list sorted.
	for _, name := range names {
		if p := nodes[name].Parent; p != "" {
			nodes[p].Children = append(nodes[p].Children, name)
		}
	}

	if err := checkAncestry(nodes); err != nil {
		return nil, err
	}
	return nodes, nil
}

// checkAncestry walks every parent chain once and fails on dangling parent
// references and on cycles. Nodes on the chain being walked are gray; nodes
// whose chain is known to end at a root are black.
func checkAncestry(nodes Nodes) error {
	const (
		white = iota
		gray
		black
	)

	color := make(map[string]int, len(nodes))
	var path []string

	for _, start := range slices.Sorted(maps.Keys(nodes)) {
		path = path[:0]
		cur := start
		for cur != "" && color[cur] == white {
			n, ok := nodes[cur]
			if !ok {
				return gerrors.New(gerrors.ErrCodeMalformedTree,
					"node %q references unknown parent %q", path[len(path)-1], cur)
			}
			color[cur] = gray
			path = append(path, cur)
			cur = n.Parent
		}
		if cur != "" && color[cur] == gray {
			return gerrors.New(gerrors.ErrCodeMalformedTree,
				"cycle: %q is its own ancestor", cur)
		}
		for _, name := range path {
			color[name] = black
		}
	}
	return nil
}
