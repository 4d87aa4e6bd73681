package tree

import (
	"maps"
	"slices"

	gerrors "github.com/matzehuels/groot/pkg/errors"
)

// Descendants returns root and every node below it: root is included, and
// the children of every included non-atomic node are included in turn.
// Returns UNKNOWN_NODE if root is not in the tree.
func (t *Tree) Descendants(root string) ([]string, error) {
	if _, err := t.lookup(root); err != nil {
		return nil, err
	}
	var out []string
	stack := []string{root}
	for len(stack) > 0 {
		name := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		out = append(out, name)
		stack = append(stack, t.nodes[name].Children...)
	}
	slices.Sort(out)
	return out, nil
}

// SubtreeNodes returns copies of the nodes in the subtree at root, keyed by
// name. The root copy keeps its original parent; see [Tree.Subtree] for a
// detached tree. Returns UNKNOWN_NODE if root is not in the tree.
func (t *Tree) SubtreeNodes(root string) (Nodes, error) {
	names, err := t.Descendants(root)
	if err != nil {
		return nil, err
	}
	out := make(Nodes, len(names))
	for _, n := range names {
		out[n] = t.nodes[n].Clone()
	}
	return out, nil
}

// Subtree extracts the subtree at root as an independent tree whose root has
// no parent. The result shares no node state with t.
func (t *Tree) Subtree(root string) (*Tree, error) {
	nodes, err := t.SubtreeNodes(root)
	if err != nil {
		return nil, err
	}
	nodes[root].Parent = ""
	return New(nodes, "")
}

// Validate re-checks the structural invariants of the tree: parent and child
// links agree, every atom set equals the atoms reachable below its node,
// labels are dense ranks, and every node sits one level below its parent.
// Trees built by [New] always validate; Validate exists for trees assembled
// from arenas whose atoms were pre-seeded by the caller.
func (t *Tree) Validate() error {
	for _, name := range t.names {
		n := t.nodes[name]
		if !n.IsRoot() {
			p, ok := t.nodes[n.Parent]
			if !ok || !slices.Contains(p.Children, name) {
				return gerrors.New(gerrors.ErrCodeMalformedTree,
					"node %q is not listed as a child of %q", name, n.Parent)
			}
			if t.nodeLevel[name] != t.nodeLevel[n.Parent]+1 {
				return gerrors.New(gerrors.ErrCodeMalformedTree,
					"node %q is at level %d, parent %q at %d", name, t.nodeLevel[name], n.Parent, t.nodeLevel[n.Parent])
			}
		} else if t.nodeLevel[name] != 0 {
			return gerrors.New(gerrors.ErrCodeMalformedTree,
				"root %q is at level %d", name, t.nodeLevel[name])
		}
		for _, c := range n.Children {
			if cn, ok := t.nodes[c]; !ok || cn.Parent != name {
				return gerrors.New(gerrors.ErrCodeMalformedTree,
					"child %q of %q does not point back to its parent", c, name)
			}
		}

		// Checking each node against its children is enough: by induction
		// every set then equals the atoms reachable below its node.
		var want []string
		if n.IsAtom() {
			want = []string{name}
		} else {
			for _, c := range n.Children {
				want = append(want, t.nodes[c].Atoms...)
			}
			slices.Sort(want)
			want = slices.Compact(want)
		}
		if !slices.Equal(n.Atoms, want) {
			return gerrors.New(gerrors.ErrCodeInconsistentAtomSeed,
				"node %q has atoms %v, structure gives %v", name, n.Atoms, want)
		}
	}

	if err := checkDense("atom", t.atomLabel, len(t.atoms)); err != nil {
		return err
	}
	return checkDense("node", t.nodeLabel, len(t.nodes))
}

func checkDense(kind string, labels map[string]int, n int) error {
	ranks := slices.Sorted(maps.Values(labels))
	if len(ranks) != n {
		return gerrors.New(gerrors.ErrCodeInternal, "%s labels: %d entries for %d names", kind, len(ranks), n)
	}
	for i, r := range ranks {
		if r != i {
			return gerrors.New(gerrors.ErrCodeInternal, "%s labels are not dense: rank %d at position %d", kind, r, i)
		}
	}
	return nil
}
