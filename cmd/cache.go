package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"svtdl/internal/cache"
	"svtdl/internal/config"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the resolve cache",
}

var cachePurgeCmd = &cobra.Command{
	Use:   "purge",
	Short: "Delete all cached resolve results",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := cfg.CachePath
		if path == "" {
			var err error
			path, err = config.DefaultCachePath()
			if err != nil {
				return fmt.Errorf("locating cache: %w", err)
			}
		}
		store, err := cache.Open(path)
		if err != nil {
			return fmt.Errorf("opening cache: %w", err)
		}
		defer store.Close()

		if err := store.Purge(); err != nil {
			return err
		}
		fmt.Println("cache purged")
		return nil
	},
}

func init() {
	cacheCmd.AddCommand(cachePurgeCmd)
}
