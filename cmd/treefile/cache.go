package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/quantmind-br/treefile-go/internal/cache"
	"github.com/quantmind-br/treefile-go/internal/utils"
	"github.com/spf13/cobra"
)

func (c *cli) cacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or clear the builder capability cache",
		Args:  noArgs,
	}
	cmd.AddCommand(c.cacheStatsCmd(), c.cacheClearCmd())
	return cmd
}

// openCache opens the configured on-disk cache regardless of --no-cache
func (c *cli) openCache() (*cache.BadgerCache, string, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return nil, "", err
	}
	dir := utils.ExpandPath(cfg.Cache.Directory)
	bc, err := cache.NewBadgerCache(cache.Options{Directory: dir})
	if err != nil {
		return nil, dir, fmt.Errorf("failed to open cache at %s: %w", dir, err)
	}
	return bc, dir, nil
}

func (c *cli) cacheStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show cache entry count and disk usage",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			bc, dir, err := c.openCache()
			if err != nil {
				return err
			}
			defer bc.Close()

			stats := bc.Stats()
			lsm, _ := stats["lsm_size"].(int64)
			vlog, _ := stats["vlog_size"].(int64)
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Cache directory: %s\n", dir)
			fmt.Fprintf(out, "Entries: %d\n", stats["entries"])
			fmt.Fprintf(out, "Disk usage: %s\n", humanize.Bytes(uint64(lsm+vlog)))
			return nil
		},
	}
}

func (c *cli) cacheClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every cached capability record",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			bc, dir, err := c.openCache()
			if err != nil {
				return err
			}
			defer bc.Close()

			removed := bc.Size()
			if err := bc.Clear(); err != nil {
				return fmt.Errorf("failed to clear cache: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Cleared %d entries from %s\n", removed, dir)
			return nil
		},
	}
}
