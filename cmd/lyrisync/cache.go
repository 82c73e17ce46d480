package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"karolbroda.com/lyrisync/internal/cache"
)

var cacheConfirm bool

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "manage the lyrics cache",
	Long:  `inspect and manage locally cached lyrics.`,
}

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "show cache statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig(cmd)
		store := cache.Open(cfg.CachePath)

		var sizeBytes int64
		if info, err := os.Stat(cfg.CachePath); err == nil {
			sizeBytes = info.Size()
		}

		fmt.Println("cache statistics:")
		fmt.Printf("  location: %s\n", cfg.CachePath)
		fmt.Printf("  entries:  %d\n", store.Len())
		fmt.Printf("  size:     %s\n", formatBytes(sizeBytes))

		return nil
	},
}

var cacheListCmd = &cobra.Command{
	Use:   "list",
	Short: "list all cached tracks",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig(cmd)
		store := cache.Open(cfg.CachePath)

		keys := store.Keys()
		if len(keys) == 0 {
			fmt.Println("cache is empty")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "TITLE\tARTIST")
		for _, key := range keys {
			title, artist, _ := strings.Cut(key, " | ")
			fmt.Fprintf(w, "%s\t%s\n", title, artist)
		}
		w.Flush()

		fmt.Printf("\ntotal: %d tracks\n", len(keys))
		return nil
	},
}

var cacheShowCmd = &cobra.Command{
	Use:   "show <title> <artist>",
	Short: "print the cached lyrics for a track",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		title, artist := args[0], args[1]

		cfg := loadConfig(cmd)
		store := cache.Open(cfg.CachePath)

		lrc, ok := store.Get(title, artist)
		if !ok {
			return fmt.Errorf("no cached lyrics for %q by %q", title, artist)
		}

		fmt.Printf("%s %s\n\n",
			color.New(color.Bold).Sprint(title),
			color.New(color.Faint).Sprintf("by %s", artist))
		fmt.Println(lrc)
		return nil
	},
}

var cacheDeleteCmd = &cobra.Command{
	Use:   "delete <title> <artist>",
	Short: "remove one cached track",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig(cmd)
		store := cache.Open(cfg.CachePath)

		if err := store.Delete(args[0], args[1]); err != nil {
			return fmt.Errorf("failed to delete cache entry: %w", err)
		}
		color.Green("deleted %q by %q", args[0], args[1])
		return nil
	},
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "remove all cached lyrics",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig(cmd)
		store := cache.Open(cfg.CachePath)

		if !cacheConfirm {
			fmt.Printf("clear %d cached tracks? (y/n): ", store.Len())
			var response string
			fmt.Scanln(&response)
			if !strings.HasPrefix(strings.ToLower(response), "y") {
				fmt.Println("aborted")
				return nil
			}
		}

		if err := store.Clear(); err != nil {
			return fmt.Errorf("failed to clear cache: %w", err)
		}
		color.Green("cache cleared")
		return nil
	},
}

func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMG"[exp])
}

func init() {
	cacheClearCmd.Flags().BoolVar(&cacheConfirm, "confirm", false, "skip the confirmation prompt")
	cacheCmd.AddCommand(cacheStatsCmd, cacheListCmd, cacheShowCmd, cacheDeleteCmd, cacheClearCmd)
	rootCmd.AddCommand(cacheCmd)
}
