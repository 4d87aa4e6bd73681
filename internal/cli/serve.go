package cli

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/matzehuels/groot/internal/server"
	"github.com/matzehuels/groot/pkg/cache"
)

// serveCommand creates the serve command, which exposes a directory of
// trees over HTTP.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		dir     string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve a directory of trees over HTTP",
		Long: `Serve loads every YAML, JSON and TOML tree in a directory and serves them
as JSON, text art and rendered diagrams. The directory is watched, so edited
files are picked up without a restart. Prometheus metrics are exposed at /metrics.`,
		Example: `  groot serve --dir ./trees
  curl localhost:8080/v1/trees/animals/draw?root=mammal`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = c.Config.Server.Addr
			}
			if dir == "" {
				dir = c.Config.Server.Dir
			}

			ctx := cmd.Context()
			runner, err := c.newRunner(ctx, noCache)
			if err != nil {
				return err
			}
			defer runner.Close()
			runner.Keyer = cache.NewScopedKeyer(runner.Keyer, "catalog:"+catalogScope(dir)+":")

			s, err := server.New(server.Config{
				Addr:   addr,
				Dir:    dir,
				Runner: runner,
				Logger: c.Logger,
			})
			if err != nil {
				return err
			}
			return s.Run(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, "+server.DefaultAddr+")")
	cmd.Flags().StringVar(&dir, "dir", "", "directory of tree files (default from config, current directory)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

// catalogScope names a catalog directory for cache key scoping.
func catalogScope(dir string) string {
	if abs, err := filepath.Abs(dir); err == nil {
		dir = abs
	}
	return filepath.Base(dir)
}
