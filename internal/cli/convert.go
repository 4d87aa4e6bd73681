package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	treeio "github.com/matzehuels/groot/pkg/io"
	"github.com/matzehuels/groot/pkg/pipeline"
)

// subtreeCommand creates the subtree command, which extracts the mapping
// below one node.
func (c *CLI) subtreeCommand() *cobra.Command {
	var (
		output string
		format string
	)

	cmd := &cobra.Command{
		Use:   "subtree FILE ROOT",
		Short: "Extract the subtree below a node as a new mapping",
		Long: `Subtree writes the mapping of ROOT and all of its descendants, with ROOT as
the only root. The output format follows the extension of --output, or
--format when writing to stdout.`,
		Example: `  groot subtree concepts.yaml mammal
  groot subtree concepts.yaml mammal -o mammals.toml`,
		Args:              cobra.ExactArgs(2),
		ValidArgsFunction: completeTreeFile,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := pipeline.Options{Path: args[0], Root: args[1]}
			t, err := pipeline.Load(opts)
			if err != nil {
				return err
			}

			if output != "" {
				if err := treeio.Export(t, output); err != nil {
					return err
				}
				printSuccess(cmd.ErrOrStderr(), "Extracted %d nodes below %s", t.Len(), args[1])
				printFile(cmd.ErrOrStderr(), output)
				return nil
			}

			f, err := treeio.ParseFormat(format)
			if err != nil {
				return err
			}
			return treeio.WriteTree(cmd.OutOrStdout(), t, f)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (format from extension)")
	cmd.Flags().StringVarP(&format, "format", "f", string(treeio.FormatYAML), "stdout format: yaml, json or toml")
	return cmd
}

// convertCommand creates the convert command, which re-encodes a mapping in
// another format.
func (c *CLI) convertCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:               "convert FILE -o OUT",
		Short:             "Convert a tree between YAML, JSON and TOML",
		Example:           `  groot convert concepts.yaml -o concepts.json`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeTreeFile,
		RunE: func(cmd *cobra.Command, args []string) error {
			if output == "" {
				return fmt.Errorf("--output is required")
			}
			t, err := treeio.Import(args[0])
			if err != nil {
				return err
			}
			if err := treeio.Export(t, output); err != nil {
				return err
			}
			printSuccess(cmd.ErrOrStderr(), "Converted %d nodes", t.Len())
			printFile(cmd.ErrOrStderr(), output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (format from extension)")
	return cmd
}
