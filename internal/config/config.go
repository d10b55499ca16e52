// Package config provides configuration loading and structs for the seidoku server.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application.
type Config struct {
	Debug    bool           `yaml:"debug"`
	Server   ServerConfig   `yaml:"server"`
	Storage  StorageConfig  `yaml:"storage"`
	Content  ContentConfig  `yaml:"content"`
	Evidence EvidenceConfig `yaml:"evidence"`
	Speech   SpeechConfig   `yaml:"speech"`
	Search   SearchConfig   `yaml:"search"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// StorageConfig holds the path of the sections database.
type StorageConfig struct {
	DatabasePath string `yaml:"database_path"`
}

// ContentConfig holds the manuscript source used by the seed command.
type ContentConfig struct {
	ManuscriptPath string `yaml:"manuscript_path"`
}

// EvidenceConfig holds settings for the claim-verification backend.
// The API key comes from the environment (PERPLEXITY_API_KEY) and overrides
// any value in the file; an empty key enables the fallback path.
type EvidenceConfig struct {
	APIKey          string `yaml:"api_key"`
	BaseURL         string `yaml:"base_url"`
	Model           string `yaml:"model"`
	TimeoutSeconds  int    `yaml:"timeout_seconds"`
	CacheTTLMinutes int    `yaml:"cache_ttl_minutes"`
}

// SpeechConfig holds settings for the text-to-speech backend.
// The API key comes from the environment (OPENAI_API_KEY) and overrides any
// value in the file; an empty key makes the TTS endpoint report "not configured".
type SpeechConfig struct {
	APIKey          string `yaml:"api_key"`
	BaseURL         string `yaml:"base_url"`
	Voice           string `yaml:"voice"`
	Model           string `yaml:"model"`
	MaxInputChars   int    `yaml:"max_input_chars"`
	ChunkChars      int    `yaml:"chunk_chars"`
	CacheTTLMinutes int    `yaml:"cache_ttl_minutes"`
	TimeoutSeconds  int    `yaml:"timeout_seconds"`
}

// SearchConfig holds essay search settings.
type SearchConfig struct {
	DefaultLimit int `yaml:"default_limit"`
	MaxLimit     int `yaml:"max_limit"`
}

// Load reads and parses the config file at path, applies defaults, expands
// paths, and overlays credentials from the environment.
// Returns an error if the file cannot be read or parsed.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	ApplyDefaults(&cfg)
	applyEnv(&cfg)

	configDir := filepath.Dir(path)
	cfg.Storage.DatabasePath = expandPath(cfg.Storage.DatabasePath, configDir)
	if cfg.Content.ManuscriptPath != "" {
		cfg.Content.ManuscriptPath = expandPath(cfg.Content.ManuscriptPath, configDir)
	}

	return &cfg, nil
}

func applyEnv(cfg *Config) {
	if key := os.Getenv("PERPLEXITY_API_KEY"); key != "" {
		cfg.Evidence.APIKey = key
	}
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		cfg.Speech.APIKey = key
	}
}

// expandPath converts a path to absolute. Paths starting with "./" are relative
// to configDir; other relative paths are relative to the home directory.
func expandPath(path string, configDir string) string {
	if filepath.IsAbs(path) {
		return path
	}
	if strings.HasPrefix(path, "./") || path == "." {
		return filepath.Join(configDir, path)
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, path)
	}
	return path
}
