package main

import (
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	// global flags
	mprisService string
	syncOffsetMs int64
	hideHeader   bool
	cacheFile    string
	settingsFile string
	verbose      bool
)

var rootCmd = &cobra.Command{
	Use:   "lyrisync",
	Short: "synchronized lyrics for your media session",
	Long: `lyrisync finds timed lyrics for whatever your linux media player is
playing and shows them in the terminal, highlighted in sync with
playback. lyrics are raced across several providers, validated against
the track duration and cached locally.

when run without a subcommand, it starts the interactive viewer.`,
	Version: "1.0.0",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runViewer(cmd, args)
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&mprisService, "mpris-service", "m", "", "mpris service name (e.g., org.mpris.MediaPlayer2.spotify)")
	rootCmd.PersistentFlags().Int64VarP(&syncOffsetMs, "sync-offset", "s", 0, "initial sync offset in milliseconds")
	rootCmd.PersistentFlags().BoolVarP(&hideHeader, "hide-header", "H", false, "hide the track header")
	rootCmd.PersistentFlags().StringVar(&cacheFile, "cache-file", "", "path to the lyrics cache file")
	rootCmd.PersistentFlags().StringVar(&settingsFile, "settings-file", "", "path to the settings file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

func setupLogging() {
	if verbose {
		log.SetLevel(log.DebugLevel)
	} else {
		log.SetLevel(log.WarnLevel)
	}
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
