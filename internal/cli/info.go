package cli

import (
	"cmp"
	"fmt"
	"io"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/groot/pkg/tree"
)

// infoCommand creates the info command, which summarizes a tree.
func (c *CLI) infoCommand() *cobra.Command {
	var root string

	cmd := &cobra.Command{
		Use:               "info FILE",
		Short:             "Show roots, levels and atom labels of a tree",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeTreeFile,
		RunE: func(cmd *cobra.Command, args []string) error {
			runner, err := c.newRunner(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer runner.Close()

			opts := (&drawFlags{root: root}).options(c.Config.Draw, args[0])
			t, err := runner.Load(cmd.Context(), opts)
			if err != nil {
				return err
			}
			printTreeInfo(cmd.OutOrStdout(), t)
			return nil
		},
	}

	cmd.Flags().StringVarP(&root, "root", "r", "", "describe only the subtree below this node")
	return cmd
}

// printTreeInfo writes the tree summary: counts, roots, the members of each
// level, and every atom with its label and the atoms it stands for.
func printTreeInfo(w io.Writer, t *tree.Tree) {
	printKeyValue(w, "Name", t.Name())
	printKeyValue(w, "Nodes", strconv.Itoa(t.Len()))
	printKeyValue(w, "Atoms", strconv.Itoa(len(t.Atoms())))
	printKeyValue(w, "Levels", strconv.Itoa(t.Depth()))
	printKeyValue(w, "Roots", strings.Join(t.Roots(), ", "))

	if t.Len() == 0 {
		return
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, StyleTitle.Render("Levels"))
	for i, level := range t.Levels() {
		fmt.Fprintf(w, "  %s  %s\n", StyleNumber.Render(strconv.Itoa(i)), strings.Join(level, ", "))
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, StyleTitle.Render("Atoms"))
	labels := t.AtomLabel()
	atoms := slices.SortedFunc(maps.Keys(labels), func(a, b string) int {
		return cmp.Compare(labels[a], labels[b])
	})
	width := len(strconv.Itoa(len(atoms) - 1))
	for _, a := range atoms {
		fmt.Fprintf(w, "  %s  %s\n", StyleNumber.Render(fmt.Sprintf("%*d", width, labels[a])), a)
	}
}
