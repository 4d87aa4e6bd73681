package textart_test

import (
	"fmt"

	"github.com/matzehuels/groot/pkg/render/textart"
	"github.com/matzehuels/groot/pkg/tree"
)

func ExampleDraw() {
	t, _ := tree.FromMapping(tree.Mapping{
		"a":     "",
		"a.a":   "a",
		"a.a.a": "a.a",
		"a.b":   "a",
	})
	fmt.Println(textart.Draw(t, textart.DefaultOptions()))
	// Output:
	// 0   1   2
	// ┼───┼───┼
	// a
	// ├── a.a
	// │   └── a.a.a ■
	// └── a.b ■
}
