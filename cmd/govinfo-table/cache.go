// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/govinfo-table/internal/httpcache"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect or empty the response cache",
	Long: `Cache manages the local SQLite store of API responses. Entries expire
after cache.expire_after (default 180s); expired entries are ignored but kept
until purged.`,
}

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show entry counts and sizes",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withCache(cmd, func(ctx context.Context, c *httpcache.Cache) error {
			s, err := c.Stats(ctx)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "path:     %s\n", s.Path)
			fmt.Fprintf(out, "entries:  %d (%d expired)\n", s.Entries, s.Expired)
			fmt.Fprintf(out, "bytes:    %d\n", s.Bytes)
			if s.Entries > 0 {
				fmt.Fprintf(out, "oldest:   %s\n", s.Oldest.Format("2006-01-02 15:04:05"))
				fmt.Fprintf(out, "newest:   %s\n", s.Newest.Format("2006-01-02 15:04:05"))
			}
			return nil
		})
	},
}

var cachePurgeCmd = &cobra.Command{
	Use:   "purge",
	Short: "Delete expired entries",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withCache(cmd, func(ctx context.Context, c *httpcache.Cache) error {
			n, err := c.Purge(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "purged %d expired entries\n", n)
			return nil
		})
	},
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every entry",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withCache(cmd, func(ctx context.Context, c *httpcache.Cache) error {
			n, err := c.Clear(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "cleared %d entries\n", n)
			return nil
		})
	},
}

func withCache(cmd *cobra.Command, fn func(context.Context, *httpcache.Cache) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	c, err := httpcache.Open(cfg.Cache)
	if err != nil {
		return err
	}
	defer c.Close()
	return fn(cmd.Context(), c)
}

func init() {
	cacheCmd.AddCommand(cacheStatsCmd)
	cacheCmd.AddCommand(cachePurgeCmd)
	cacheCmd.AddCommand(cacheClearCmd)
	rootCmd.AddCommand(cacheCmd)
}
