package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"svtdl/internal/cache"
	"svtdl/internal/config"
	"svtdl/internal/fetch"
	"svtdl/internal/manifest"
	"svtdl/internal/media"
	"svtdl/internal/svt"
)

// resolveRun is the default command: svtdl <url>
func resolveRun(cmd *cobra.Command, args []string) error {
	url := args[0]

	client := fetch.New(cfg.UserAgent)
	registry := svt.NewRegistry(client, manifest.New(client), svt.Options{
		GeoProxyIP: cfg.GeoProxyIP,
	})

	store := openCache()
	if store != nil {
		defer store.Close()
	}

	if store != nil {
		if id, ok := strings.CutPrefix(url, "svt:"); ok {
			if item, hit, err := store.Get(id, cacheTTL()); err == nil && hit {
				log.WithField("id", id).Debug("cache hit")
				return printItem(item)
			}
		}
	}

	result, err := registry.Resolve(url)
	if err != nil {
		var geoErr *svt.GeoRestrictedError
		if errors.As(err, &geoErr) {
			return fmt.Errorf("geo-restricted: %w", err)
		}
		return err
	}

	if result.Playlist != nil {
		return printPlaylist(result.Playlist)
	}

	if store != nil {
		if err := store.Put(result.Item); err != nil {
			log.Debugf("caching result: %v", err)
		}
	}
	return printItem(result.Item)
}

// openCache opens the resolve cache, or returns nil when caching is
// disabled or unavailable.
func openCache() *cache.Store {
	if !cfg.Cache {
		return nil
	}
	path := cfg.CachePath
	if path == "" {
		var err error
		path, err = config.DefaultCachePath()
		if err != nil {
			log.Debugf("no cache path available: %v", err)
			return nil
		}
	}
	store, err := cache.Open(path)
	if err != nil {
		log.Debugf("opening cache: %v", err)
		return nil
	}
	return store
}

func cacheTTL() time.Duration {
	return time.Duration(cfg.CacheTTLHours) * time.Hour
}

func printItem(item *media.Item) error {
	if flagJSON {
		return printJSON(item)
	}

	fmt.Printf("%s (%s)\n", item.Title, item.ID)
	if item.Series != "" {
		fmt.Printf("  series: %s", item.Series)
		if item.SeasonNumber > 0 {
			fmt.Printf(", season %d", item.SeasonNumber)
		}
		if item.EpisodeNumber > 0 {
			fmt.Printf(", episode %d", item.EpisodeNumber)
		}
		fmt.Println()
	}
	if item.Duration > 0 {
		fmt.Printf("  duration: %ds\n", item.Duration)
	}
	if item.IsLive {
		fmt.Println("  live: yes")
	}
	for _, f := range item.Formats {
		fmt.Printf("  format %-20s %s\n", f.FormatID, f.URL)
	}
	for lang, tracks := range item.Subtitles {
		for _, t := range tracks {
			fmt.Printf("  subtitle [%s] %s\n", lang, t.URL)
		}
	}
	return nil
}

func printPlaylist(pl *media.Playlist) error {
	if flagJSON {
		return printJSON(pl)
	}

	fmt.Printf("%s (%s): %d entries\n", pl.Title, pl.ID, len(pl.Entries))
	for _, e := range pl.Entries {
		fmt.Printf("  %s\n", e.URL)
	}
	return nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
