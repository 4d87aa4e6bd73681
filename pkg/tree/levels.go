package tree

import (
	"maps"
	"slices"

	gerrors "github.com/matzehuels/groot/pkg/errors"
)

// IndexLevels assigns every node its depth (roots are at 0, any other node
// sits one below its parent) and groups names by depth.
//
// The returned slice is indexed by depth; each entry holds the sorted names at
// that depth. Forests contribute several names to level 0.
//
// Depths are memoized: each parent chain is walked up to the first node with
// a known depth and assigned on the way back down, so the work is linear in
// the number of nodes. A parent reference to a missing node or a cycle yields
// MALFORMED_TREE.
func IndexLevels(nodes Nodes) (map[string]int, [][]string, error) {
	level := make(map[string]int, len(nodes))
	onPath := make(map[string]bool)
	var path []string

	for _, start := range slices.Sorted(maps.Keys(nodes)) {
		if _, ok := level[start]; ok {
			continue
		}

		path = path[:0]
		base := -1
		for cur := start; ; {
			if d, ok := level[cur]; ok {
				base = d
				break
			}
			if onPath[cur] {
				return nil, nil, gerrors.New(gerrors.ErrCodeMalformedTree,
					"cycle: %q is its own ancestor", cur)
			}
			n, ok := nodes[cur]
			if !ok {
				return nil, nil, gerrors.New(gerrors.ErrCodeMalformedTree,
					"node %q references unknown parent %q", path[len(path)-1], cur)
			}
			onPath[cur] = true
			path = append(path, cur)
			if n.IsRoot() {
				break
			}
			cur = n.Parent
		}

		// path runs from start up to the topmost unassigned ancestor.
		for i := len(path) - 1; i >= 0; i-- {
			base++
			level[path[i]] = base
			delete(onPath, path[i])
		}
	}

	var levels [][]string
	for _, name := range slices.Sorted(maps.Keys(level)) {
		d := level[name]
		for len(levels) <= d {
			levels = append(levels, nil)
		}
		levels[d] = append(levels[d], name)
	}
	return level, levels, nil
}
