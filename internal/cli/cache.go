package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/groot/pkg/cache"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the tree and artifact cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand. It clears the
// backend selected in the config file.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Clear all cached trees and artifacts",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			w := cmd.OutOrStdout()

			cc, err := c.newCache(ctx, false)
			if err != nil {
				return err
			}
			defer cc.Close()

			switch cc := cc.(type) {
			case *cache.NullCache:
				printInfo(w, "Caching is disabled")
			case *cache.FileCache:
				count, err := cc.ClearCount(ctx)
				if err != nil {
					return err
				}
				if count == 0 {
					printInfo(w, "Cache is empty")
					return nil
				}
				printSuccess(w, "Cleared %d cached entries", count)
				printDetail(w, "Directory: %s", cc.Dir())
			case cache.Clearer:
				if err := cc.Clear(ctx); err != nil {
					return err
				}
				printSuccess(w, "Cleared %s cache", c.Config.Cache.Backend)
			}
			return nil
		},
	}
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache directory path",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := cacheDir()
			if err != nil {
				return fmt.Errorf("get cache dir: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), dir)
			return nil
		},
	}
}
