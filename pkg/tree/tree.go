package tree

import (
	"cmp"
	"maps"
	"slices"
	"strings"

	gerrors "github.com/matzehuels/groot/pkg/errors"
)

// Tree is an immutable, fully indexed forest of concept nodes.
//
// A Tree exclusively owns its node arena. Accessors return copies, so callers
// can never mutate a constructed tree; derived trees are produced with
// [Tree.Subtree]. A Tree is safe for concurrent reads once constructed.
type Tree struct {
	name      string
	nodes     Nodes
	names     []string
	roots     []string
	atoms     []string
	atomLabel map[string]int
	nodeLabel map[string]int
	nodeLevel map[string]int
	levels    [][]string
}

// New builds the derived indices over a fully built, atom-propagated node
// arena. The arena is deep-copied; later changes to nodes do not affect the
// tree. If name is empty, the tree is named after its roots joined by "-".
//
// Derived indices:
//   - roots: sorted by descending atom count, ties broken by name
//   - atom and node labels: dense ranks by ascending [Node.String]
//   - levels: see [IndexLevels]
//
// New returns MALFORMED_TREE if a parent reference dangles or the parent
// relation has a cycle.
func New(nodes Nodes, name string) (*Tree, error) {
	owned := nodes.Clone()

	nodeLevel, levels, err := IndexLevels(owned)
	if err != nil {
		return nil, err
	}

	t := &Tree{
		nodes:     owned,
		names:     slices.Sorted(maps.Keys(owned)),
		nodeLevel: nodeLevel,
		levels:    levels,
	}

	for _, n := range t.names {
		node := owned[n]
		if node.IsRoot() {
			t.roots = append(t.roots, n)
		}
		if node.IsAtom() {
			t.atoms = append(t.atoms, n)
		}
	}
	slices.SortStableFunc(t.roots, func(a, b string) int {
		return cmp.Compare(len(owned[b].Atoms), len(owned[a].Atoms))
	})

	t.atomLabel = labels(owned, t.atoms)
	t.nodeLabel = labels(owned, t.names)

	t.name = name
	if t.name == "" {
		t.name = strings.Join(t.roots, "-")
	}
	return t, nil
}

// FromMapping composes [Build], [PushAtoms] and [New].
func FromMapping(m Mapping) (*Tree, error) {
	nodes, err := Build(m)
	if err != nil {
		return nil, err
	}
	if err := PushAtoms(nodes); err != nil {
		return nil, err
	}
	return New(nodes, "")
}

// labels ranks names by the string form of their nodes.
func labels(nodes Nodes, names []string) map[string]int {
	keyed := slices.Clone(names)
	slices.SortStableFunc(keyed, func(a, b string) int {
		return cmp.Compare(nodes[a].String(), nodes[b].String())
	})
	out := make(map[string]int, len(keyed))
	for i, n := range keyed {
		out[n] = i
	}
	return out
}

// Name returns the tree name.
func (t *Tree) Name() string { return t.name }

// WithName returns a copy of the tree carrying a different name. The copy
// shares the underlying indices, which are never mutated. An empty name
// falls back to the joined roots.
func (t *Tree) WithName(name string) *Tree {
	c := *t
	c.name = name
	if c.name == "" {
		c.name = strings.Join(t.roots, "-")
	}
	return &c
}

// Len returns the number of nodes.
func (t *Tree) Len() int { return len(t.nodes) }

// Names returns all node names in ascending order.
func (t *Tree) Names() []string { return slices.Clone(t.names) }

// Roots returns the root names, largest subtree first.
func (t *Tree) Roots() []string { return slices.Clone(t.roots) }

// Atoms returns the atomic node names in ascending order.
func (t *Tree) Atoms() []string { return slices.Clone(t.atoms) }

// AtomLabel returns a copy of the atom name → label mapping.
func (t *Tree) AtomLabel() map[string]int { return maps.Clone(t.atomLabel) }

// NodeLabel returns a copy of the node name → label mapping.
func (t *Tree) NodeLabel() map[string]int { return maps.Clone(t.nodeLabel) }

// NodeLevel returns a copy of the node name → depth mapping.
func (t *Tree) NodeLevel() map[string]int { return maps.Clone(t.nodeLevel) }

// Levels returns the node names grouped by depth.
func (t *Tree) Levels() [][]string {
	out := make([][]string, len(t.levels))
	for i, l := range t.levels {
		out[i] = slices.Clone(l)
	}
	return out
}

// Depth returns the number of levels.
func (t *Tree) Depth() int { return len(t.levels) }

// Nodes returns a deep copy of the node arena.
func (t *Tree) Nodes() Nodes { return t.nodes.Clone() }

// Node returns a copy of the named node, or UNKNOWN_NODE.
func (t *Tree) Node(name string) (Node, error) {
	n, err := t.lookup(name)
	if err != nil {
		return Node{}, err
	}
	return *n.Clone(), nil
}

// Has reports whether the tree contains a node with the given name.
func (t *Tree) Has(name string) bool {
	_, ok := t.nodes[name]
	return ok
}

// Children returns the sorted child names of a node, or UNKNOWN_NODE.
func (t *Tree) Children(name string) ([]string, error) {
	n, err := t.lookup(name)
	if err != nil {
		return nil, err
	}
	return slices.Clone(n.Children), nil
}

// Level returns the depth of a node, or UNKNOWN_NODE.
func (t *Tree) Level(name string) (int, error) {
	if _, err := t.lookup(name); err != nil {
		return 0, err
	}
	return t.nodeLevel[name], nil
}

func (t *Tree) lookup(name string) (*Node, error) {
	n, ok := t.nodes[name]
	if !ok {
		return nil, gerrors.New(gerrors.ErrCodeUnknownNode, "unknown node: %q", name)
	}
	return n, nil
}

// ToMapping serializes the tree to its child→parent relation. Roots map to
// the empty string. FromMapping(t.ToMapping()) reproduces the same relation.
func (t *Tree) ToMapping() Mapping {
	m := make(Mapping, len(t.nodes))
	for name, n := range t.nodes {
		m[name] = n.Parent
	}
	return m
}
