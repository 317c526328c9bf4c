// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for webchat.
//
// Configuration is TOML, with sensible defaults, environment variable
// overrides, and validation.
//
// Configuration file location (in order of precedence):
//   - ~/.webchat/config.toml
//   - Built-in defaults
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"
	"github.com/jeranaias/webchat-tui/internal/util"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete webchat configuration.
type Config struct {
	Version string `toml:"version"`

	// Endpoint configuration for the inference service
	Endpoint EndpointConfig `toml:"endpoint"`

	// Search configuration
	Search SearchConfig `toml:"search"`

	// News feed configuration
	News NewsConfig `toml:"news"`

	// UI configuration
	UI UIConfig `toml:"ui"`

	// Log configuration
	Log LogConfig `toml:"log"`
}

// EndpointConfig contains the inference endpoint settings.
type EndpointConfig struct {
	// URL is the base URL of the text/image inference endpoint
	URL string `toml:"url"`
	// TimeoutSecs is the per-request timeout in seconds
	TimeoutSecs int `toml:"timeout_secs"`
}

// SearchConfig contains web search settings.
type SearchConfig struct {
	// Enabled toggles the search trigger entirely
	Enabled bool `toml:"enabled"`
	// TimeoutSecs is the per-source timeout in seconds
	TimeoutSecs int `toml:"timeout_secs"`
	// WikiBase is the encyclopedia API base URL
	WikiBase string `toml:"wiki_base"`
	// InstantBase is the instant-answer API base URL
	InstantBase string `toml:"instant_base"`
	// RelayPrefix, when set, is prepended to instant-answer request URLs.
	// Default off: a native client needs no CORS relay.
	RelayPrefix string `toml:"relay_prefix"`
}

// NewsConfig contains headline feed settings.
type NewsConfig struct {
	// TranslatorBase is the RSS-to-JSON translation endpoint
	TranslatorBase string `toml:"translator_base"`
	// FeedURL is the RSS feed to translate
	FeedURL string `toml:"feed_url"`
}

// UIConfig contains UI settings.
type UIConfig struct {
	// Theme selects the color theme: "dark" or "light"
	Theme string `toml:"theme"`
	// CompactMode reduces message spacing
	CompactMode bool `toml:"compact_mode"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error"
	Level string `toml:"level"`
	// Path overrides the log file location (empty = ~/.webchat/webchat.log)
	Path string `toml:"path"`
}

// =============================================================================
// DEFAULTS
// =============================================================================

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Version: "1.0.0",

		Endpoint: EndpointConfig{
			URL:         "",
			TimeoutSecs: 60,
		},

		Search: SearchConfig{
			Enabled:     true,
			TimeoutSecs: 10,
			WikiBase:    "https://en.wikipedia.org",
			InstantBase: "https://api.duckduckgo.com",
			RelayPrefix: "",
		},

		News: NewsConfig{
			TranslatorBase: "https://api.rss2json.com/v1/api.json",
			FeedURL:        "https://feeds.bbci.co.uk/news/technology/rss.xml",
		},

		UI: UIConfig{
			Theme:       "dark",
			CompactMode: false,
		},

		Log: LogConfig{
			Level: "info",
			Path:  "",
		},
	}
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// ConfigDir returns the webchat configuration directory path.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".webchat"), nil
}

// ConfigPath returns the path to the TOML config file.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// EnsureConfigDir creates the configuration directory if it doesn't exist.
func EnsureConfigDir() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0755)
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// Load loads configuration from the config file, falling back to defaults.
// Environment overrides are applied last.
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		cfg := Default()
		cfg.ApplyEnvOverrides()
		return cfg, nil
	}
	return LoadFromPath(path)
}

// LoadFromPath loads configuration from a specific file path. A missing file
// yields defaults; a malformed file is an error.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()

	if _, statErr := os.Stat(path); statErr == nil {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to decode config: %w", err)
		}
	}

	cfg.ApplyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Save writes the configuration to the default config path atomically.
func Save(cfg *Config) error {
	if err := EnsureConfigDir(); err != nil {
		return err
	}
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	return SaveToPath(cfg, path)
}

// SaveToPath writes the configuration to a specific path atomically.
func SaveToPath(cfg *Config, path string) error {
	var sb strings.Builder
	sb.WriteString("# webchat configuration\n\n")
	if err := toml.NewEncoder(&sb).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return util.AtomicWriteFile(path, []byte(sb.String()), 0600)
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError describes one invalid config field.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("config field %s: %s", e.Field, e.Message)
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if c.Endpoint.URL != "" {
		if _, err := url.ParseRequestURI(c.Endpoint.URL); err != nil {
			return ValidationError{Field: "endpoint.url", Message: "not a valid URL"}
		}
	}
	if c.Endpoint.TimeoutSecs <= 0 {
		return ValidationError{Field: "endpoint.timeout_secs", Message: "must be positive"}
	}
	if c.Search.TimeoutSecs <= 0 {
		return ValidationError{Field: "search.timeout_secs", Message: "must be positive"}
	}
	if c.Search.WikiBase != "" {
		if _, err := url.ParseRequestURI(c.Search.WikiBase); err != nil {
			return ValidationError{Field: "search.wiki_base", Message: "not a valid URL"}
		}
	}
	if c.Search.InstantBase != "" {
		if _, err := url.ParseRequestURI(c.Search.InstantBase); err != nil {
			return ValidationError{Field: "search.instant_base", Message: "not a valid URL"}
		}
	}
	switch c.UI.Theme {
	case "dark", "light":
	default:
		return ValidationError{Field: "ui.theme", Message: `must be "dark" or "light"`}
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return ValidationError{Field: "log.level", Message: `must be "debug", "info", "warn", or "error"`}
	}
	return nil
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// ApplyEnvOverrides applies environment variable overrides to the config.
//
// Supported environment variables:
//   - WEBCHAT_ENDPOINT: overrides endpoint.url
//   - WEBCHAT_SEARCH: set to "0" or "false" to disable web search
//   - WEBCHAT_RELAY_PREFIX: overrides search.relay_prefix
//   - WEBCHAT_FEED_URL: overrides news.feed_url
//   - WEBCHAT_THEME: overrides ui.theme
//   - WEBCHAT_LOG_LEVEL: overrides log.level
func (c *Config) ApplyEnvOverrides() {
	if endpoint := os.Getenv("WEBCHAT_ENDPOINT"); endpoint != "" {
		c.Endpoint.URL = endpoint
	}
	if search := os.Getenv("WEBCHAT_SEARCH"); search != "" {
		c.Search.Enabled = !(search == "0" || strings.ToLower(search) == "false")
	}
	if relay := os.Getenv("WEBCHAT_RELAY_PREFIX"); relay != "" {
		c.Search.RelayPrefix = relay
	}
	if feed := os.Getenv("WEBCHAT_FEED_URL"); feed != "" {
		c.News.FeedURL = feed
	}
	if theme := os.Getenv("WEBCHAT_THEME"); theme != "" {
		c.UI.Theme = theme
	}
	if level := os.Getenv("WEBCHAT_LOG_LEVEL"); level != "" {
		c.Log.Level = level
	}
}

// =============================================================================
// SINGLETON PATTERN (THREAD-SAFE)
// =============================================================================

var (
	globalConfig     *Config
	globalConfigOnce sync.Once
	globalConfigMu   sync.RWMutex
)

// Global returns the global configuration instance.
// Loads configuration on first access. Thread-safe.
func Global() *Config {
	globalConfigOnce.Do(func() {
		cfg, err := Load()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v (using defaults)\n", err)
			cfg = Default()
		}
		globalConfig = cfg
	})

	globalConfigMu.RLock()
	defer globalConfigMu.RUnlock()
	return globalConfig
}

// ReloadGlobal reloads the global configuration from disk. Thread-safe.
func ReloadGlobal() error {
	cfg, err := Load()
	if err != nil {
		return err
	}
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = cfg
	return nil
}

// SetGlobal sets the global configuration instance. Thread-safe.
func SetGlobal(cfg *Config) {
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = cfg
}

// ResetGlobalForTesting resets the global config state between test runs.
func ResetGlobalForTesting() {
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = nil
	globalConfigOnce = sync.Once{}
}
