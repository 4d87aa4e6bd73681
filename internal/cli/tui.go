package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/groot/pkg/render/textart"
	"github.com/matzehuels/groot/pkg/tree"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// browseCommand creates the browse command, an interactive tree navigator.
func (c *CLI) browseCommand() *cobra.Command {
	var flags drawFlags

	cmd := &cobra.Command{
		Use:               "browse FILE",
		Short:             "Explore a tree interactively",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeTreeFile,
		RunE: func(cmd *cobra.Command, args []string) error {
			runner, err := c.newRunner(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer runner.Close()

			opts := flags.options(c.Config.Draw, args[0])
			t, err := runner.Load(cmd.Context(), opts)
			if err != nil {
				return err
			}
			if err := opts.ValidateForRender(); err != nil {
				return err
			}

			p := tea.NewProgram(NewBrowseModel(t, opts.TextOptions()),
				tea.WithContext(cmd.Context()), tea.WithAltScreen())
			_, err = p.Run()
			return err
		},
	}

	flags.register(cmd)
	return cmd
}

// =============================================================================
// BrowseModel - Interactive tree navigation
// =============================================================================

// BrowseModel is the bubbletea model for navigating a tree diagram. Inner
// nodes can be collapsed to hide their descendants.
type BrowseModel struct {
	Tree      *tree.Tree
	Options   textart.Options
	Collapsed map[string]bool
	Cursor    int
	Offset    int
	Height    int

	lines []textart.Line // visible node lines
}

// NewBrowseModel creates a browse model with every node expanded.
func NewBrowseModel(t *tree.Tree, opts textart.Options) BrowseModel {
	opts.ShowLevel = false
	m := BrowseModel{
		Tree:      t,
		Options:   opts,
		Collapsed: make(map[string]bool),
		Height:    20,
	}
	m.refresh()
	return m
}

// refresh recomputes the visible lines: descendants of collapsed nodes are
// skipped, which in depth-first order means every following line with a
// deeper level.
func (m *BrowseModel) refresh() {
	m.lines = nil
	hideBelow := -1
	for l := range textart.Lines(m.Tree, m.Options) {
		if hideBelow >= 0 {
			if l.Level > hideBelow {
				continue
			}
			hideBelow = -1
		}
		m.lines = append(m.lines, l)
		if m.Collapsed[l.Name] {
			hideBelow = l.Level
		}
	}
	m.Cursor = min(m.Cursor, max(len(m.lines)-1, 0))
	m.scroll()
}

func (m *BrowseModel) scroll() {
	if m.Cursor < m.Offset {
		m.Offset = m.Cursor
	}
	if m.Cursor >= m.Offset+m.Height {
		m.Offset = m.Cursor - m.Height + 1
	}
}

// Visible returns the names of the visible nodes in display order.
func (m BrowseModel) Visible() []string {
	names := make([]string, len(m.lines))
	for i, l := range m.lines {
		names[i] = l.Name
	}
	return names
}

// Selected returns the node under the cursor, or "" for an empty tree.
func (m BrowseModel) Selected() string {
	if len(m.lines) == 0 {
		return ""
	}
	return m.lines[m.Cursor].Name
}

func (m BrowseModel) Init() tea.Cmd {
	return nil
}

func (m BrowseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
			}
		case "down", "j":
			if m.Cursor < len(m.lines)-1 {
				m.Cursor++
			}
		case "home", "g":
			m.Cursor = 0
		case "end", "G":
			m.Cursor = max(len(m.lines)-1, 0)
		case "enter", " ":
			m.setCollapsed(m.Selected(), !m.Collapsed[m.Selected()])
		case "left", "h":
			m.collapseOrParent()
		case "right", "l":
			m.setCollapsed(m.Selected(), false)
		case "c":
			for _, n := range m.Tree.Names() {
				if children, _ := m.Tree.Children(n); len(children) > 0 {
					m.Collapsed[n] = true
				}
			}
			m.refresh()
		case "e":
			clear(m.Collapsed)
			m.refresh()
		}
		m.scroll()
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-6, 5)
		m.scroll()
	}
	return m, nil
}

// setCollapsed folds or unfolds an inner node. Atoms have nothing to hide.
func (m *BrowseModel) setCollapsed(name string, collapsed bool) {
	n, err := m.Tree.Node(name)
	if err != nil || n.IsAtom() {
		return
	}
	if collapsed {
		m.Collapsed[name] = true
	} else {
		delete(m.Collapsed, name)
	}
	m.refresh()
}

// collapseOrParent folds the selected node, or moves to its parent when it
// is already folded or an atom.
func (m *BrowseModel) collapseOrParent() {
	name := m.Selected()
	n, err := m.Tree.Node(name)
	if err != nil {
		return
	}
	if !n.IsAtom() && !m.Collapsed[name] {
		m.setCollapsed(name, true)
		return
	}
	for i, l := range m.lines {
		if l.Name == n.Parent {
			m.Cursor = i
			return
		}
	}
}

func (m BrowseModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(m.Tree.Name()))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ fold  ←/→ collapse/expand  c/e all  q quit"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.lines))
	for i := m.Offset; i < end; i++ {
		l := m.lines[i]
		line := colorLine(l)
		if m.Collapsed[l.Name] {
			line += listDimStyle.Render(" …")
		}
		if i == m.Cursor {
			line = listSelectedStyle.Render("▸ ") + line
		} else {
			line = "  " + line
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.status())
	return b.String()
}

// status describes the selected node.
func (m BrowseModel) status() string {
	name := m.Selected()
	n, err := m.Tree.Node(name)
	if err != nil {
		return listDimStyle.Render("  empty tree")
	}
	level, _ := m.Tree.Level(name)
	desc := fmt.Sprintf("  %s · level %d · %d atoms · label %d  [%d/%d]",
		name, level, len(n.Atoms), m.Tree.NodeLabel()[name], m.Cursor+1, len(m.lines))
	return listDimStyle.Render(desc)
}
