// Package config loads and saves cotag's TOML configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config holds all cotag settings.
type Config struct {
	// Provider selects the identity provider: "github" or "local".
	Provider string `toml:"provider"`

	// GitHub configures the GitHub directory provider.
	GitHub GitHubConfig `toml:"github"`

	// Cache configures the on-disk identity cache.
	Cache CacheConfig `toml:"cache"`

	// UI configures the token input widget.
	UI UIConfig `toml:"ui"`
}

// GitHubConfig configures the GitHub provider.
type GitHubConfig struct {
	// Endpoint is the API base URL. Point at a GitHub Enterprise host
	// to resolve against it.
	Endpoint string `toml:"endpoint"`

	// TokenEnv names the environment variable holding the API token.
	TokenEnv string `toml:"token_env"`
}

// CacheConfig configures the identity cache.
type CacheConfig struct {
	// Enabled controls whether exact-match results are cached on disk.
	Enabled bool `toml:"enabled"`

	// TTLHours is how long a cached result stays fresh.
	TTLHours int `toml:"ttl_hours"`
}

// UIConfig configures the widget.
type UIConfig struct {
	// Placeholder is the free-text field's placeholder.
	Placeholder string `toml:"placeholder"`

	// Margin is the horizontal space reserved when clamping the field
	// to the terminal width.
	Margin int `toml:"margin"`

	// MaxSuggestions caps the dropdown length.
	MaxSuggestions int `toml:"max_suggestions"`
}

// Default returns a config with sensible defaults.
func Default() *Config {
	return &Config{
		Provider: "github",
		GitHub: GitHubConfig{
			Endpoint: "https://api.github.com",
			TokenEnv: "GITHUB_TOKEN",
		},
		Cache: CacheConfig{
			Enabled:  true,
			TTLHours: 14 * 24,
		},
		UI: UIConfig{
			Placeholder:    "@username",
			Margin:         4,
			MaxSuggestions: 8,
		},
	}
}

// Path returns the standard config file location.
func Path() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("determining config directory: %w", err)
	}
	return filepath.Join(dir, "cotag", "config.toml"), nil
}

// Load reads the config at path, filling unset fields with defaults.
// A missing file is not an error; it yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if cfg.Provider == "" {
		cfg.Provider = "github"
	}
	if cfg.GitHub.Endpoint == "" {
		cfg.GitHub.Endpoint = Default().GitHub.Endpoint
	}
	if cfg.UI.MaxSuggestions <= 0 {
		cfg.UI.MaxSuggestions = Default().UI.MaxSuggestions
	}
	return cfg, nil
}

// Save writes the config to path, creating parent directories as needed.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	defer f.Close()
	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	return nil
}
