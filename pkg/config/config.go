/*
Package config manages TOML config for menuserve services.
*/
package config

import (
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/menuserve/menuserve/internal/utils"
)

// Config holds the entire config structure
type Config struct {
	Matcher MatcherConfig `toml:"matcher"`
	Menu    MenuConfig    `toml:"menu"`
	Server  ServerConfig  `toml:"server"`
}

// MatcherConfig tunes the fuzzy pass.
type MatcherConfig struct {
	ResultLimit     int     `toml:"result_limit"`
	StrongThreshold float64 `toml:"strong_threshold"`
}

// MenuConfig holds the defaults new menus are built with.
type MenuConfig struct {
	SortCompletions bool `toml:"sort_completions"`
	ShowDocs        bool `toml:"show_docs"`
}

// ServerConfig limits what the IPC server accepts per request.
type ServerConfig struct {
	MaxCandidates int `toml:"max_candidates"`
	MaxQueryLen   int `toml:"max_query_len"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Matcher: MatcherConfig{
			ResultLimit:     100,
			StrongThreshold: 0.2,
		},
		Menu: MenuConfig{
			SortCompletions: true,
			ShowDocs:        true,
		},
		Server: ServerConfig{
			MaxCandidates: 5000,
			MaxQueryLen:   256,
		},
	}
}

// InitConfig loads config from file or creates default if missing
func InitConfig(configPath string) (*Config, error) {
	configDir := filepath.Dir(configPath)

	if err := utils.EnsureDir(configDir); err != nil {
		log.Warnf("Failed to create config directory %s: %v. Using built-in defaults...", configDir, err)
		return DefaultConfig(), nil
	}

	if !utils.FileExists(configPath) {
		config := DefaultConfig()
		if err := SaveConfig(config, configPath); err != nil {
			log.Warnf("Failed to create default config file at %s: %v. Using built-in defaults...", configPath, err)
			return DefaultConfig(), nil
		}
		log.Debugf("Created default config file at: %s", configPath)
		return config, nil
	}

	config, err := LoadConfig(configPath)
	if err != nil {
		log.Warnf("Failed to load config from %s: %v. Using built-in defaults...", configPath, err)
		return DefaultConfig(), nil
	}
	return config, nil
}

// LoadConfig loads from a TOML file. Missing keys keep their defaults.
func LoadConfig(configPath string) (*Config, error) {
	config := DefaultConfig()

	if err := utils.LoadTOMLFile(configPath, config); err != nil {
		return nil, err
	}
	return config, nil
}

// SaveConfig saves into a TOML file
func SaveConfig(config *Config, configPath string) error {
	return utils.SaveTOMLFile(config, configPath)
}
