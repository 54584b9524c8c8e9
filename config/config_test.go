package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Server.Addr != ":8000" {
		t.Errorf("expected default addr :8000, got %s", cfg.Server.Addr)
	}
	if cfg.LLM.Temperature != 0.0 {
		t.Errorf("expected deterministic temperature 0.0, got %f", cfg.LLM.Temperature)
	}
	if cfg.Embedder.Dimension != 768 {
		t.Errorf("expected embedder dimension 768, got %d", cfg.Embedder.Dimension)
	}
	if cfg.Vector.TopK != 50 {
		t.Errorf("expected top_k 50, got %d", cfg.Vector.TopK)
	}
	if cfg.NATS.SessionBucket != "quarry_sessions" {
		t.Errorf("expected session bucket quarry_sessions, got %s", cfg.NATS.SessionBucket)
	}
	if cfg.Crawl.FetchTimeout != 20*time.Second {
		t.Errorf("expected fetch timeout 20s, got %v", cfg.Crawl.FetchTimeout)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{
			name:    "valid default config",
			modify:  func(c *Config) {},
			wantErr: false,
		},
		{
			name:    "missing llm provider",
			modify:  func(c *Config) { c.LLM.Provider = "" },
			wantErr: true,
		},
		{
			name:    "missing llm model",
			modify:  func(c *Config) { c.LLM.Model = "" },
			wantErr: true,
		},
		{
			name:    "temperature too low",
			modify:  func(c *Config) { c.LLM.Temperature = -0.1 },
			wantErr: true,
		},
		{
			name:    "temperature too high",
			modify:  func(c *Config) { c.LLM.Temperature = 2.5 },
			wantErr: true,
		},
		{
			name:    "missing embedder model",
			modify:  func(c *Config) { c.Embedder.Model = "" },
			wantErr: true,
		},
		{
			name:    "non-positive dimension",
			modify:  func(c *Config) { c.Embedder.Dimension = 0 },
			wantErr: true,
		},
		{
			name:    "missing collection",
			modify:  func(c *Config) { c.Vector.Collection = "" },
			wantErr: true,
		},
		{
			name:    "non-positive top_k",
			modify:  func(c *Config) { c.Vector.TopK = 0 },
			wantErr: true,
		},
		{
			name:    "missing page bucket",
			modify:  func(c *Config) { c.NATS.PageBucket = "" },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	content := `
llm:
  provider: "anthropic"
  model: "claude-sonnet-4-5"
  temperature: 0.3
  timeout: 2m
vector:
  endpoint: "http://qdrant:6333"
  collection: "docs"
  top_k: 10
crawl:
  seeds:
    - https://example.com/
  allowed_domains:
    - example.com
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := LoadFromFile(configPath)
	if err != nil {
		t.Fatalf("LoadFromFile() error = %v", err)
	}

	if cfg.LLM.Provider != "anthropic" {
		t.Errorf("expected provider anthropic, got %s", cfg.LLM.Provider)
	}
	if cfg.LLM.Temperature != 0.3 {
		t.Errorf("expected temperature 0.3, got %f", cfg.LLM.Temperature)
	}
	if cfg.LLM.Timeout != 2*time.Minute {
		t.Errorf("expected timeout 2m, got %v", cfg.LLM.Timeout)
	}
	if cfg.Vector.TopK != 10 {
		t.Errorf("expected top_k 10, got %d", cfg.Vector.TopK)
	}
	if len(cfg.Crawl.Seeds) != 1 || cfg.Crawl.Seeds[0] != "https://example.com/" {
		t.Errorf("unexpected seeds: %v", cfg.Crawl.Seeds)
	}
	if len(cfg.Crawl.AllowedDomains) != 1 {
		t.Errorf("expected 1 allowed domain, got %d", len(cfg.Crawl.AllowedDomains))
	}
}

func TestConfigMerge(t *testing.T) {
	base := DefaultConfig()
	override := &Config{
		LLM: LLMConfig{
			Model: "override-model",
		},
		Vector: VectorConfig{
			Collection: "override-collection",
		},
	}

	base.Merge(override)

	if base.LLM.Model != "override-model" {
		t.Errorf("expected model override-model, got %s", base.LLM.Model)
	}
	// Provider should remain from base since override didn't set it
	if base.LLM.Provider != "openai" {
		t.Errorf("expected provider to remain default, got %s", base.LLM.Provider)
	}
	if base.Vector.Collection != "override-collection" {
		t.Errorf("expected collection override-collection, got %s", base.Vector.Collection)
	}
	if base.Vector.TopK != 50 {
		t.Errorf("expected top_k to remain default, got %d", base.Vector.TopK)
	}
}

func TestConfigSaveToFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "subdir", "config.yaml")

	cfg := DefaultConfig()
	cfg.LLM.Model = "saved-model"

	if err := cfg.SaveToFile(configPath); err != nil {
		t.Fatalf("SaveToFile() error = %v", err)
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		t.Error("config file was not created")
	}

	loaded, err := LoadFromFile(configPath)
	if err != nil {
		t.Fatalf("failed to load saved config: %v", err)
	}
	if loaded.LLM.Model != "saved-model" {
		t.Errorf("expected model saved-model, got %s", loaded.LLM.Model)
	}
}
