package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/godbus/dbus/v5"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"karolbroda.com/lyrisync/internal/cache"
	"karolbroda.com/lyrisync/internal/config"
	"karolbroda.com/lyrisync/internal/fetcher"
	"karolbroda.com/lyrisync/internal/lyrics"
	"karolbroda.com/lyrisync/internal/player"
	"karolbroda.com/lyrisync/internal/providers"
	"karolbroda.com/lyrisync/internal/settings"
	"karolbroda.com/lyrisync/internal/translate"
	"karolbroda.com/lyrisync/internal/ui"
	"karolbroda.com/lyrisync/internal/viewmodel"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "start the interactive lyrics viewer",
	Long:  `starts the terminal viewer with real-time synchronized lyrics for the configured mpris player.`,
	RunE:  runViewer,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func loadConfig(cmd *cobra.Command) *config.Config {
	// env and .env first, flags override
	cfg := config.Load()

	if mprisService != "" {
		cfg.MprisService = mprisService
	}
	if cacheFile != "" {
		cfg.CachePath = cacheFile
	}
	if settingsFile != "" {
		cfg.SettingsPath = settingsFile
	}
	if cmd.Flags().Changed("sync-offset") {
		cfg.SyncOffsetMs = syncOffsetMs
	}
	if cmd.Flags().Changed("hide-header") {
		cfg.HideHeader = hideHeader
	}

	return cfg
}

func runViewer(cmd *cobra.Command, args []string) error {
	setupLogging()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)

	cfg := loadConfig(cmd)

	bus, err := dbus.ConnectSessionBus()
	if err != nil {
		return fmt.Errorf("failed to connect to session bus: %w", err)
	}
	defer bus.Close()

	playerService, err := player.NewService(bus, cfg.MprisService)
	if err != nil {
		return fmt.Errorf("failed to create player service: %w", err)
	}

	store := cache.Open(cfg.CachePath)

	settingsStore, err := settings.Open(cfg.SettingsPath)
	if err != nil {
		return fmt.Errorf("failed to open settings: %w", err)
	}
	defer settingsStore.Close()
	if err := settingsStore.Watch(); err != nil {
		log.WithError(err).Warn("settings file watching unavailable")
	}

	f := fetcher.New(providers.Defaults(), store, lyrics.NewValidator(cfg.DurationToleranceMs))
	translator := translate.New()

	bridge := ui.NewBridge()
	vm := viewmodel.New(
		playerService, playerService, settingsStore,
		f, lyrics.NewParser(), store, translator, bridge,
	)
	if cfg.SyncOffsetMs != 0 {
		vm.SetSyncOffset(cfg.SyncOffsetMs)
	}

	model := ui.NewModel(vm, cfg.HideHeader)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithReportFocus())
	bridge.Attach(p)

	vm.Start(ctx)

	go func() {
		select {
		case <-sigChan:
			cancel()
			p.Quit()
		case <-ctx.Done():
			p.Quit()
		}
	}()

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running bubble tea: %w", err)
	}
	cancel()

	return nil
}
