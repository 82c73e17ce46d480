package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	DefaultMprisService = "org.mpris.MediaPlayer2.spotify"
	HTTPTimeoutSeconds  = 10

	// fetcher tuning
	MaxQueryAttempts      = 4
	SearchWorkers         = 8
	CandidateSearchWindow = 500 * time.Millisecond

	// polling cadence; the slow variants apply while the overlay is
	// minimized/hidden
	TrackPollInterval     = 500 * time.Millisecond
	TrackPollIntervalSlow = 5 * time.Second
	SyncInterval          = 500 * time.Millisecond
	SyncIntervalSlow      = 2 * time.Second

	appDirName       = "lyrisync"
	cacheFileName    = "lyrics.json"
	settingsFileName = "settings.json"

	DefaultTextColor      = "#e0e0e0"
	DefaultHighlightColor = "#ff6b6b"
)

type Config struct {
	MprisService        string
	CachePath           string
	SettingsPath        string
	DurationToleranceMs int64
	SyncOffsetMs        int64
	HideHeader          bool
}

// Load reads configuration from a local .env file (if present) and the
// environment. Cobra flags override these values afterwards.
func Load() *Config {
	_ = godotenv.Load()

	toleranceMs := int64(30_000)
	if raw := os.Getenv("LYRISYNC_DURATION_TOLERANCE_MS"); raw != "" {
		if parsed, err := strconv.ParseInt(raw, 10, 64); err == nil && parsed > 0 {
			toleranceMs = parsed
		}
	}

	syncOffsetMs := int64(0)
	if raw := os.Getenv("LYRISYNC_SYNC_OFFSET_MS"); raw != "" {
		if parsed, err := strconv.ParseInt(raw, 10, 64); err == nil {
			syncOffsetMs = parsed
		}
	}

	hideHeader := false
	switch os.Getenv("LYRISYNC_HIDE_HEADER") {
	case "1", "true", "yes":
		hideHeader = true
	}

	return &Config{
		MprisService:        getEnvOrDefault("LYRISYNC_MPRIS_SERVICE", DefaultMprisService),
		CachePath:           getEnvOrDefault("LYRISYNC_CACHE_FILE", defaultCachePath()),
		SettingsPath:        getEnvOrDefault("LYRISYNC_SETTINGS_FILE", defaultSettingsPath()),
		DurationToleranceMs: toleranceMs,
		SyncOffsetMs:        syncOffsetMs,
		HideHeader:          hideHeader,
	}
}

func getEnvOrDefault(key string, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func defaultCachePath() string {
	// xdg cache home takes priority
	if xdgCache := os.Getenv("XDG_CACHE_HOME"); xdgCache != "" {
		return filepath.Join(xdgCache, appDirName, cacheFileName)
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", cacheFileName)
	}
	return filepath.Join(homeDir, ".cache", appDirName, cacheFileName)
}

func defaultSettingsPath() string {
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, appDirName, settingsFileName)
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", settingsFileName)
	}
	return filepath.Join(homeDir, ".config", appDirName, settingsFileName)
}
