package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	path := writeConfig(t, "server:\n  port: 9000\n")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 9000 {
		t.Errorf("port=%d, want 9000", cfg.Server.Port)
	}
	if cfg.Server.Host != "localhost" {
		t.Errorf("host=%s, want default localhost", cfg.Server.Host)
	}
	if cfg.Speech.MaxInputChars != 19000 {
		t.Errorf("max_input_chars=%d, want 19000", cfg.Speech.MaxInputChars)
	}
	if cfg.Speech.ChunkChars != 1900 {
		t.Errorf("chunk_chars=%d, want 1900", cfg.Speech.ChunkChars)
	}
	if cfg.Speech.CacheTTLMinutes != 60 {
		t.Errorf("cache_ttl_minutes=%d, want 60", cfg.Speech.CacheTTLMinutes)
	}
	if cfg.Evidence.BaseURL != "https://api.perplexity.ai" {
		t.Errorf("evidence base_url=%s", cfg.Evidence.BaseURL)
	}
	if cfg.Evidence.Model != "sonar" {
		t.Errorf("evidence model=%s", cfg.Evidence.Model)
	}
}

func TestLoad_EnvCredentialsOverrideFile(t *testing.T) {
	path := writeConfig(t, "evidence:\n  api_key: from-file\nspeech:\n  api_key: from-file\n")
	t.Setenv("PERPLEXITY_API_KEY", "pplx-env")
	t.Setenv("OPENAI_API_KEY", "sk-env")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Evidence.APIKey != "pplx-env" {
		t.Errorf("evidence api key=%s, want env value", cfg.Evidence.APIKey)
	}
	if cfg.Speech.APIKey != "sk-env" {
		t.Errorf("speech api key=%s, want env value", cfg.Speech.APIKey)
	}
}

func TestLoad_RelativeDatabasePath(t *testing.T) {
	path := writeConfig(t, "storage:\n  database_path: ./sections.db\n")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Storage.DatabasePath != filepath.Join(filepath.Dir(path), "sections.db") {
		t.Errorf("database_path=%s, want relative to config dir", cfg.Storage.DatabasePath)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing config file")
	}
}
