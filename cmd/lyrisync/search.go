package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"karolbroda.com/lyrisync/internal/cache"
	"karolbroda.com/lyrisync/internal/fetcher"
	"karolbroda.com/lyrisync/internal/lyrics"
	"karolbroda.com/lyrisync/internal/providers"
)

var (
	searchFirst   bool
	searchTimeout time.Duration
	searchSave    string
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "search all lyric providers for a query",
	Long: `races every provider for the given query and prints what each one
found. use --save "title|artist" to store a result in the cache under
that track.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		setupLogging()
		query := strings.Join(args, " ")

		ctx, cancel := context.WithTimeout(context.Background(), searchTimeout)
		defer cancel()

		cfg := loadConfig(cmd)
		store := cache.Open(cfg.CachePath)
		f := fetcher.New(providers.Defaults(), store, lyrics.NewValidator(cfg.DurationToleranceMs))

		fmt.Printf("searching for %s\n\n", color.CyanString("%q", query))

		results := f.SearchCandidates(ctx, query, searchFirst)
		if len(results) == 0 {
			color.Yellow("no provider returned lyrics")
			return nil
		}

		for i, res := range results {
			lineCount := len(strings.Split(strings.TrimSpace(res.LRC), "\n"))
			fmt.Printf("%s %s (%d lines)\n",
				color.GreenString("%d.", i+1),
				color.New(color.Bold).Sprint(res.Provider),
				lineCount)
		}

		if searchSave != "" {
			title, artist, ok := strings.Cut(searchSave, "|")
			if !ok {
				return fmt.Errorf("--save wants \"title|artist\", got %q", searchSave)
			}
			title = strings.TrimSpace(title)
			artist = strings.TrimSpace(artist)
			if err := store.Put(title, artist, results[0].LRC); err != nil {
				return fmt.Errorf("failed to save lyrics: %w", err)
			}
			fmt.Printf("\nsaved %s result for %s\n",
				color.New(color.Bold).Sprint(results[0].Provider),
				color.CyanString("%s - %s", title, artist))
		}

		return nil
	},
}

func init() {
	searchCmd.Flags().BoolVar(&searchFirst, "first", false, "stop after the first provider answers")
	searchCmd.Flags().DurationVar(&searchTimeout, "timeout", 15*time.Second, "overall search timeout")
	searchCmd.Flags().StringVar(&searchSave, "save", "", "cache the top result under \"title|artist\"")
	rootCmd.AddCommand(searchCmd)
}
