package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/matzehuels/groot/pkg/pipeline"
	"github.com/matzehuels/groot/pkg/render/textart"
)

// drawCommand creates the draw command, which prints a tree as text art.
func (c *CLI) drawCommand() *cobra.Command {
	var (
		flags   drawFlags
		color   bool
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "draw FILE",
		Short: "Draw a tree as text art",
		Long: `Draw prints the tree in FILE (YAML, JSON or TOML) as an indented diagram
with a level header. Atoms, nodes without children, are followed by a marker.`,
		Example: `  groot draw concepts.yaml
  groot draw concepts.yaml --root mammal --space 2 --no-level`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeTreeFile,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := flags.options(c.Config.Draw, args[0])
			opts.Formats = []string{pipeline.FormatText}
			return c.runDraw(cmd.Context(), cmd.OutOrStdout(), opts, color, noCache)
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&color, "color", false, "colour roots, atoms and connectors")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runDraw(ctx context.Context, w io.Writer, opts pipeline.Options, color, noCache bool) error {
	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	if !color {
		result, err := runner.Execute(ctx, opts)
		if err != nil {
			return err
		}
		_, err = w.Write(result.Artifacts[pipeline.FormatText])
		return err
	}

	t, err := runner.Load(ctx, opts)
	if err != nil {
		return err
	}
	if err := opts.ValidateForRender(); err != nil {
		return err
	}
	for l := range textart.Lines(t, opts.TextOptions()) {
		if _, err := fmt.Fprintln(w, colorLine(l)); err != nil {
			return err
		}
	}
	return nil
}
