package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/groot/pkg/pipeline"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output   string   // output file path (or base path for multiple outputs)
	formats  []string // output formats: "dot", "svg", "png", "pdf", "text", ...
	root     string   // render only the subtree below this node
	detailed bool     // detailed node labels in node-link diagrams
	noCache  bool     // disable caching
	refresh  bool     // ignore cached entries and re-render
}

// renderCommand creates the render command for generating node-link
// diagrams and other artifacts through the cached pipeline.
func (c *CLI) renderCommand() *cobra.Command {
	var formatsStr string
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render FILE",
		Short: "Render a tree as a node-link diagram (DOT, SVG, PNG, PDF)",
		Long: `Render draws the tree in FILE as a Graphviz node-link diagram, one node per
concept, with nodes of one level side by side. Any pipeline format may be
requested, including text art and the YAML, JSON and TOML mappings.

Artifacts are cached by tree content and options; --refresh re-renders.`,
		Example: `  groot render concepts.yaml
  groot render concepts.yaml -f svg,png --detailed -o out/concepts`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeTreeFile,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = parseFormats(formatsStr)
			if err := pipeline.ValidateFormats(opts.formats); err != nil {
				return err
			}
			return c.runRender(cmd.Context(), cmd.ErrOrStderr(), args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), "+strings.Join(pipeline.FormatNames(), ", ")+" (comma-separated)")
	cmd.Flags().StringVarP(&opts.root, "root", "r", "", "render only the subtree below this node")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "show level, atom count and labels on each node")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "ignore cached artifacts")
	_ = cmd.RegisterFlagCompletionFunc("format", completeFormats)

	return cmd
}

// runRender executes the pipeline and writes one file per format.
func (c *CLI) runRender(ctx context.Context, w io.Writer, input string, opts *renderOpts) error {
	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	st := startStep(loggerFrom(ctx))
	result, err := runner.Execute(ctx, pipeline.Options{
		Path:       input,
		Root:       opts.root,
		Refresh:    opts.refresh,
		Formats:    opts.formats,
		Space:      c.Config.Draw.Space,
		AtomMarker: c.Config.Draw.AtomMarker,
		HideLevel:  !c.Config.Draw.ShowLevel,
		Detailed:   opts.detailed,
	})
	if err != nil {
		return err
	}
	st.finish("rendered", "tree", result.Tree.Name(), "nodes", result.Stats.NodeCount,
		"cached", result.CacheInfo.RenderHit)

	base := basePath(opts.output, input)
	printSuccess(w, "Rendered %s", result.Tree.Name())
	printStats(w, result.Stats.NodeCount, result.Stats.AtomCount, result.Stats.Depth,
		result.CacheInfo.LoadHit && result.CacheInfo.RenderHit)

	for _, format := range opts.formats {
		path := base + formatExt(format)
		if len(opts.formats) == 1 && opts.output != "" {
			path = opts.output
		}
		if filepath.Clean(path) == filepath.Clean(input) {
			return fmt.Errorf("refusing to overwrite input %s, pass --output", input)
		}
		if err := os.WriteFile(path, result.Artifacts[format], 0o644); err != nil {
			return err
		}
		printFile(w, path)
	}
	return nil
}

// formatExt returns the file extension for an output format.
func formatExt(format string) string {
	if format == pipeline.FormatText {
		return ".txt"
	}
	return "." + format
}

// basePath derives the base output path from the output and input file paths.
// If output is empty, it strips the extension from input. If output carries
// a format extension (.svg, .png, ...), that extension is stripped.
func basePath(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if ext == ".txt" || pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}
