package tree

import (
	"maps"
	"slices"

	gerrors "github.com/matzehuels/groot/pkg/errors"
)

// PushAtoms fills every node's Atoms with the sorted names of the atomic
// nodes in its subtree. An atom's set is itself.
//
// The traversal is an explicit-stack post-order walk with a per-call memo, so
// each node is expanded once and deep trees cannot exhaust the call stack.
//
// Nodes whose Atoms is already non-empty are treated as computed and their
// value is reused for their ancestors. Callers must only pre-fill correct
// sets; a wrong pre-filled set is propagated, not detected.
//
// If seed is non-nil it must name exactly the structural atoms (nodes without
// children), otherwise PushAtoms returns INCONSISTENT_ATOM_SEED without
// touching any node. A child reference to a missing node or a cycle yields
// MALFORMED_TREE.
func PushAtoms(nodes Nodes, seed ...string) error {
	if seed != nil {
		if err := checkSeed(nodes, seed); err != nil {
			return err
		}
	}

	memo := make(map[string][]string, len(nodes))
	for name, n := range nodes {
		if len(n.Atoms) > 0 {
			memo[name] = n.Atoms
		}
	}

	type frame struct {
		node *Node
		next int
	}
	onStack := make(map[string]bool)

	for _, start := range slices.Sorted(maps.Keys(nodes)) {
		if _, done := memo[start]; done {
			continue
		}
		stack := []frame{{node: nodes[start]}}
		onStack[start] = true

		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			n := top.node

			if top.next < len(n.Children) {
				child := n.Children[top.next]
				top.next++
				if _, done := memo[child]; done {
					continue
				}
				if onStack[child] {
					return gerrors.New(gerrors.ErrCodeMalformedTree,
						"cycle: %q is its own descendant", child)
				}
				cn, ok := nodes[child]
				if !ok {
					return gerrors.New(gerrors.ErrCodeMalformedTree,
						"node %q references unknown child %q", n.Name, child)
				}
				stack = append(stack, frame{node: cn})
				onStack[child] = true
				continue
			}

			memo[n.Name] = collectAtoms(n, memo)
			onStack[n.Name] = false
			stack = stack[:len(stack)-1]
		}
	}

	for name, n := range nodes {
		if len(n.Atoms) == 0 {
			n.Atoms = memo[name]
		}
	}
	return nil
}

// collectAtoms unions the memoized atom sets of n's children. All children
// must already be in memo.
func collectAtoms(n *Node, memo map[string][]string) []string {
	if n.IsAtom() {
		return []string{n.Name}
	}
	var atoms []string
	for _, c := range n.Children {
		atoms = append(atoms, memo[c]...)
	}
	slices.Sort(atoms)
	return slices.Compact(atoms)
}

func checkSeed(nodes Nodes, seed []string) error {
	var leaves []string
	for name, n := range nodes {
		if n.IsAtom() {
			leaves = append(leaves, name)
		}
	}
	slices.Sort(leaves)

	given := slices.Clone(seed)
	slices.Sort(given)
	given = slices.Compact(given)

	if !slices.Equal(leaves, given) {
		return gerrors.New(gerrors.ErrCodeInconsistentAtomSeed,
			"seeded atoms %v do not match structural atoms %v", given, leaves)
	}
	return nil
}
