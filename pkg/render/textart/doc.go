// Package textart draws concept trees as plain-text diagrams.
//
// # Overview
//
// The diagram lists each root on its own line, followed by its descendants
// in depth-first order with box-drawing connectors. Atomic nodes carry a
// trailing marker, and an optional two-line header numbers the levels:
//
//	0   1   2
//	┼───┼───┼
//	a
//	├── a.a
//	│   ├── a.a.a ■
//	│   └── a.a.b ■
//	└── a.b ■
//
// [Draw] returns the finished string. [Lines] yields the same diagram one
// structured [Line] at a time, which lets callers style the pieces (the CLI
// colors connectors and markers with lipgloss) without re-parsing text.
//
// Rendering is pure: the same tree and options always produce byte-identical
// output.
package textart
