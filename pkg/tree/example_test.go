package tree_test

import (
	"fmt"

	"github.com/matzehuels/groot/pkg/tree"
)

func ExampleFromMapping() {
	t, err := tree.FromMapping(tree.Mapping{
		"a":   "",
		"a.a": "a",
		"a.b": "a",
	})
	if err != nil {
		panic(err)
	}

	fmt.Println("Name:", t.Name())
	fmt.Println("Roots:", t.Roots())
	fmt.Println("Levels:", t.Levels())
	fmt.Println("Atom labels:", t.AtomLabel())
	// Output:
	// Name: a
	// Roots: [a]
	// Levels: [[a] [a.a a.b]]
	// Atom labels: map[a.a:0 a.b:1]
}

func ExampleTree_Subtree() {
	t, _ := tree.FromMapping(tree.Mapping{
		"animal":      "",
		"mammal":      "animal",
		"dog":         "mammal",
		"cat":         "mammal",
		"bird":        "animal",
		"plant":       "",
		"flower":      "plant",
		"rose":        "flower",
		"sunflower":   "flower",
		"mammal.mole": "mammal",
	})

	sub, _ := t.Subtree("mammal")
	fmt.Println("Roots:", sub.Roots())
	fmt.Println("Atoms:", sub.Atoms())
	fmt.Println("Mapping:", sub.ToMapping())
	// Output:
	// Roots: [mammal]
	// Atoms: [cat dog mammal.mole]
	// Mapping: map[cat:mammal dog:mammal mammal: mammal.mole:mammal]
}

func ExampleBuild() {
	_, err := tree.Build(tree.Mapping{"x": "y"})
	fmt.Println(err)
	// Output:
	// MALFORMED_TREE: node "x" references unknown parent "y"
}
