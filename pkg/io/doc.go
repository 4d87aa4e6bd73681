// Package io reads and writes concept trees as flat child→parent documents.
//
// # Overview
//
// A tree is persisted as its [tree.Mapping]: one entry per node, mapping the
// node name to its parent name, with the empty string for roots. Three
// encodings are supported; YAML is the canonical one:
//
//	# concepts.yaml
//	animal: ""
//	mammal: animal
//	dog: mammal
//
//	// concepts.json
//	{"animal": "", "mammal": "animal", "dog": "mammal"}
//
//	# concepts.toml
//	animal = ""
//	mammal = "animal"
//	dog = "mammal"
//
// TOML keys containing dots must be quoted ("a.b" = "a"); bare dotted keys
// declare nested tables and are rejected.
//
// # Reading
//
// [Read] decodes a document into a mapping, [ReadTree] additionally builds
// the tree, and [Import] does both for a file, picking the format from the
// extension with [FormatFromPath]:
//
//	t, err := io.Import("concepts.yaml")
//
// Values must be strings. A YAML null (~ or an empty value) is not accepted
// as the root marker and fails with INVALID_FORMAT, as does any number,
// boolean, list or nested map. Structural problems (dangling parents, cycles)
// surface as MALFORMED_TREE from the tree package.
//
// # Writing
//
// [Write], [WriteTree], [Marshal] and [Export] are the inverses. Keys are
// written in sorted order so output is stable, and every document written
// reads back to the same mapping.
//
// [tree.Mapping]: github.com/matzehuels/groot/pkg/tree.Mapping
package io
