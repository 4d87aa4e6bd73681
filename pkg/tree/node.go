package tree

import (
	"fmt"
	"slices"
	"strings"
)

// Mapping is the flat child→parent relation a tree is built from and
// serialized to. Roots map to the empty string.
type Mapping map[string]string

// Nodes is the arena holding every node of a tree, keyed by name. Nodes refer
// to each other by name only.
type Nodes map[string]*Node

// Node is a single named element of a concept tree.
//
// The zero value is not usable; nodes are created by [Build].
type Node struct {
	Name     string   // Unique within a tree
	Parent   string   // Parent name, "" for roots
	Children []string // Child names, sorted ascending
	Atoms    []string // Atomic descendants (itself for atoms), sorted; set by PushAtoms
}

// IsRoot reports whether the node has no parent.
func (n *Node) IsRoot() bool { return n.Parent == "" }

// IsAtom reports whether the node is atomic, i.e. has no children.
func (n *Node) IsAtom() bool { return len(n.Children) == 0 }

// String displays the parent-child relations of the node. Roots are marked
// with a leading asterisk:
//
//	*a -> [a.a a.b]
//	a -> a.a -> []
//
// The string is also the sort key for node and atom labels.
func (n *Node) String() string {
	children := "[" + strings.Join(n.Children, " ") + "]"
	if n.IsRoot() {
		return fmt.Sprintf("*%s -> %s", n.Name, children)
	}
	return fmt.Sprintf("%s -> %s -> %s", n.Parent, n.Name, children)
}

// Clone returns a deep copy of the node.
func (n *Node) Clone() *Node {
	return &Node{
		Name:     n.Name,
		Parent:   n.Parent,
		Children: slices.Clone(n.Children),
		Atoms:    slices.Clone(n.Atoms),
	}
}

// Clone returns a deep copy of the arena. The copy shares no node or slice
// with the receiver.
func (ns Nodes) Clone() Nodes {
	out := make(Nodes, len(ns))
	for name, n := range ns {
		out[name] = n.Clone()
	}
	return out
}

