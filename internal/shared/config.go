package shared

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	LRCLib   LRCLibConfig   `toml:"lrclib" json:"lrclib"`
	Database DatabaseConfig `toml:"database" json:"database"`
	Download DownloadConfig `toml:"download" json:"download"`
	Match    MatchConfig    `toml:"match" json:"match"`
}

// LRCLibConfig contains remote lyrics service settings.
type LRCLibConfig struct {
	Instance  string  `toml:"instance" json:"instance"`
	RateLimit float64 `toml:"rate_limit" json:"rate_limit"`
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	Path         string `toml:"path" json:"path"`
	MaxOpenConns int    `toml:"max_open_conns" json:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns" json:"max_idle_conns"`
}

// DownloadConfig contains batch download settings.
type DownloadConfig struct {
	Workers                    int  `toml:"workers" json:"workers"`
	SkipTracksWithSyncedLyrics bool `toml:"skip_tracks_with_synced_lyrics" json:"skip_tracks_with_synced_lyrics"`
	SkipTracksWithPlainLyrics  bool `toml:"skip_tracks_with_plain_lyrics" json:"skip_tracks_with_plain_lyrics"`
}

// MatchConfig contains matching policy defaults applied when a download
// starts; CLI flags override individual fields per run.
type MatchConfig struct {
	LyricsTypePreference string  `toml:"lyrics_type_preference" json:"lyrics_type_preference"`
	DurationTolerance    float64 `toml:"duration_tolerance" json:"duration_tolerance"`
	FuzzySearch          bool    `toml:"fuzzy_search" json:"fuzzy_search"`
}

// LoadConfig reads and parses a TOML configuration file from the specified
// path, then applies LRCGET_* environment overrides.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	config.applyEnv()
	return &config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the
// embedded example config, with LRCGET_* environment overrides applied.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	config.applyEnv()
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	// Check if file already exists
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	// Write the embedded example config to the file
	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// applyEnv overlays environment variables on top of file/default values.
// Variables may come from the process environment or a .env file loaded at
// startup.
func (c *Config) applyEnv() {
	if v := os.Getenv("LRCGET_INSTANCE"); v != "" {
		c.LRCLib.Instance = v
	}
	if v := os.Getenv("LRCGET_DATABASE_PATH"); v != "" {
		c.Database.Path = v
	}
}
