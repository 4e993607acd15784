package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

const (
	DefaultPathCeiling       = 250
	DefaultParallelism       = 1
	DefaultLookupTimeout     = 10 * time.Second
	DefaultLookupConcurrency = 3
)

// NamingOptions defines the configurable naming masks
type NamingOptions struct {
	FolderMask       string `json:"folder_mask"`
	FolderMaskNoYear string `json:"folder_mask_no_year"`
	FileMask         string `json:"file_mask"`
}

// GetDefaultNamingMasks returns the default naming masks
func GetDefaultNamingMasks() NamingOptions {
	return NamingOptions{
		FolderMask:       "{genre}/{artist}/{year} - {album}",
		FolderMaskNoYear: "{genre}/{artist}/{album}",
		FileMask:         "{track} - {title}",
	}
}

// ApplyDefaultNamingMasks applies default naming masks to empty fields
func (cfg *Config) ApplyDefaultNamingMasks() {
	defaults := GetDefaultNamingMasks()

	if cfg.NamingMasks.FolderMask == "" {
		cfg.NamingMasks.FolderMask = defaults.FolderMask
	}
	if cfg.NamingMasks.FolderMaskNoYear == "" {
		cfg.NamingMasks.FolderMaskNoYear = defaults.FolderMaskNoYear
	}
	if cfg.NamingMasks.FileMask == "" {
		cfg.NamingMasks.FileMask = defaults.FileMask
	}
}

// ProviderConfig holds the enable flag and credentials for one online
// metadata provider.
type ProviderConfig struct {
	Enabled  bool   `json:"Enabled"`
	URL      string `json:"URL,omitempty"`
	Username string `json:"Username,omitempty"`
	Password string `json:"Password,omitempty"`
	ClientID string `json:"ClientID,omitempty"`
	Secret   string `json:"Secret,omitempty"`
}

// Configuration structure
type Config struct {
	SourceRoot        string         `json:"SourceRoot"`
	OutputRoot        string         `json:"OutputRoot"`
	Parallelism       int            `json:"Parallelism"`
	PathCeiling       int            `json:"PathCeiling"`
	LookupConcurrency int            `json:"LookupConcurrency"`
	LookupTimeoutSec  int            `json:"LookupTimeoutSec"`
	ProviderOrder     []string       `json:"ProviderOrder"` // lookup priority, first wins per field
	MusicBrainz       ProviderConfig `json:"MusicBrainz"`
	Spotify           ProviderConfig `json:"Spotify"`
	Subsonic          ProviderConfig `json:"Subsonic"`
	NamingMasks       NamingOptions  `json:"naming"`
	GenreKeywords     [][2]string    `json:"GenreKeywords,omitempty"` // [keyword, genre] pairs, checked before built-ins
	ArtistGenres      [][2]string    `json:"ArtistGenres,omitempty"`  // [artist, genre] pairs, checked before built-ins
	WarningBehavior   string         `json:"WarningBehavior"` // "summary" or "silent"
}

// DefaultConfig returns a config populated with defaults
func DefaultConfig() *Config {
	cfg := &Config{
		OutputRoot:        filepath.Join(os.Getenv("HOME"), "Music", "Organized"),
		Parallelism:       DefaultParallelism,
		PathCeiling:       DefaultPathCeiling,
		LookupConcurrency: DefaultLookupConcurrency,
		LookupTimeoutSec:  int(DefaultLookupTimeout / time.Second),
		ProviderOrder:     []string{"musicbrainz", "spotify", "subsonic"},
		WarningBehavior:   "summary",
	}
	cfg.ApplyDefaultNamingMasks()
	return cfg
}

// LookupTimeout returns the per-provider call timeout
func (cfg *Config) LookupTimeout() time.Duration {
	if cfg.LookupTimeoutSec <= 0 {
		return DefaultLookupTimeout
	}
	return time.Duration(cfg.LookupTimeoutSec) * time.Second
}

// Normalize fills zero values with defaults
func (cfg *Config) Normalize() {
	if cfg.Parallelism <= 0 {
		cfg.Parallelism = DefaultParallelism
	}
	if cfg.PathCeiling <= 0 {
		cfg.PathCeiling = DefaultPathCeiling
	}
	if cfg.LookupConcurrency <= 0 {
		cfg.LookupConcurrency = DefaultLookupConcurrency
	}
	if len(cfg.ProviderOrder) == 0 {
		cfg.ProviderOrder = []string{"musicbrainz", "spotify", "subsonic"}
	}
	if cfg.WarningBehavior == "" {
		cfg.WarningBehavior = "summary"
	}
	cfg.ApplyDefaultNamingMasks()
}

// CreateDirIfNotExists creates a directory if it does not exist
func CreateDirIfNotExists(dir string) error {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return os.MkdirAll(dir, 0755)
	}
	return nil
}

// LoadConfig loads configuration from a JSON file
func LoadConfig(filePath string, config *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := json.Unmarshal(data, config); err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}
	config.Normalize()
	return nil
}

// SaveConfig saves configuration to a JSON file
func SaveConfig(filePath string, config *Config) error {
	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	dir := filepath.Dir(filePath)
	if err := CreateDirIfNotExists(dir); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(filePath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
