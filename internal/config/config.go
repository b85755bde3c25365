/*
Package config handles loading and saving tool-scout-mcp configuration.

Configuration is stored in ~/.tool-scout-mcp.json. Besides file locations it
carries every calibrated ranking constant (strategy bonuses, synonym table,
wRRF weights, trace booster settings) so the evaluation harness can re-tune
them without a rebuild.

Schema:

	{
	  "catalogPath": "/path/to/catalog.json",
	  "databasePath": "~/.tool-scout-mcp/scout.db",
	  "search": { ... ranking constants, see search.Config ... }
	}
*/
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/toolscout/tool-scout-mcp/internal/search"
)

// Config represents the root configuration structure.
type Config struct {
	// CatalogPath points at the capability declaration file.
	CatalogPath string `json:"catalogPath,omitempty"`

	// DatabasePath overrides the default SQLite location.
	DatabasePath string `json:"databasePath,omitempty"`

	// Search holds the ranking constants. Fields left zero in the file fall
	// back to the production calibration.
	Search search.Config `json:"search"`
}

// NewConfig creates a configuration with production defaults.
func NewConfig() *Config {
	return &Config{
		Search: search.DefaultConfig(),
	}
}

// GetDefaultConfigPath returns the path to ~/.tool-scout-mcp.json.
func GetDefaultConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".tool-scout-mcp.json"), nil
}

// Load reads the configuration from the default path.
func Load() (*Config, error) {
	configPath, err := GetDefaultConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFrom(configPath)
}

// LoadOrDefault reads the default configuration file, falling back to
// production defaults when the file does not exist.
func LoadOrDefault() (*Config, error) {
	configPath, err := GetDefaultConfigPath()
	if err != nil {
		return nil, err
	}

	cfg, err := LoadFrom(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return NewConfig(), nil
		}
		return nil, err
	}
	return cfg, nil
}

// LoadFrom reads the configuration from a specific path.
func LoadFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := NewConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	applyDefaults(cfg)
	return cfg, nil
}

// Save writes the configuration to the specified path.
func Save(cfg *Config, path string) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// applyDefaults backfills zero-valued ranking constants so a sparse config
// file overrides only what it names.
func applyDefaults(cfg *Config) {
	defaults := search.DefaultConfig()

	if cfg.Search.ExactScore == 0 {
		cfg.Search.ExactScore = defaults.ExactScore
	}
	if cfg.Search.PrefixBonus == 0 {
		cfg.Search.PrefixBonus = defaults.PrefixBonus
	}
	if cfg.Search.FuzzyBonus == 0 {
		cfg.Search.FuzzyBonus = defaults.FuzzyBonus
	}
	if cfg.Search.FuzzyMaxDistance == 0 {
		cfg.Search.FuzzyMaxDistance = defaults.FuzzyMaxDistance
	}
	if cfg.Search.RegexNameBonus == 0 {
		cfg.Search.RegexNameBonus = defaults.RegexNameBonus
	}
	if cfg.Search.RegexTagBonus == 0 {
		cfg.Search.RegexTagBonus = defaults.RegexTagBonus
	}
	if cfg.Search.BigramBonus == 0 {
		cfg.Search.BigramBonus = defaults.BigramBonus
	}
	if cfg.Search.SemanticBonus == 0 {
		cfg.Search.SemanticBonus = defaults.SemanticBonus
	}
	if cfg.Search.DenseScale == 0 {
		cfg.Search.DenseScale = defaults.DenseScale
	}
	if cfg.Search.Synonyms == nil {
		cfg.Search.Synonyms = defaults.Synonyms
	}
	if cfg.Search.DefaultLimit == 0 {
		cfg.Search.DefaultLimit = defaults.DefaultLimit
	}

	if cfg.Search.Fusion.AlphaTool == 0 {
		cfg.Search.Fusion.AlphaTool = defaults.Fusion.AlphaTool
	}
	if cfg.Search.Fusion.AlphaDomain == 0 {
		cfg.Search.Fusion.AlphaDomain = defaults.Fusion.AlphaDomain
	}
	if cfg.Search.Fusion.K == 0 {
		cfg.Search.Fusion.K = defaults.Fusion.K
	}
	if cfg.Search.Fusion.Scale == 0 {
		cfg.Search.Fusion.Scale = defaults.Fusion.Scale
	}
	if cfg.Search.Fusion.MinSimilarity == 0 {
		cfg.Search.Fusion.MinSimilarity = defaults.Fusion.MinSimilarity
	}

	if cfg.Search.Trace.Bonus == 0 {
		cfg.Search.Trace.Bonus = defaults.Trace.Bonus
	}
	if cfg.Search.Trace.TopN == 0 {
		cfg.Search.Trace.TopN = defaults.Trace.TopN
	}
	if cfg.Search.Trace.Lookahead == 0 {
		cfg.Search.Trace.Lookahead = defaults.Trace.Lookahead
	}
	if cfg.Search.Trace.History == 0 {
		cfg.Search.Trace.History = defaults.Trace.History
	}
}
