// Package config provides configuration loading and management for Quarry.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the complete Quarry configuration
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	LLM      LLMConfig      `yaml:"llm"`
	Embedder EmbedderConfig `yaml:"embedder"`
	Vector   VectorConfig   `yaml:"vector"`
	NATS     NATSConfig     `yaml:"nats"`
	Crawl    CrawlConfig    `yaml:"crawl"`
}

// ServerConfig configures the HTTP surface
type ServerConfig struct {
	// Addr is the listen address (default: ":8000")
	Addr string `yaml:"addr"`
}

// LLMConfig configures the completion service
type LLMConfig struct {
	// Provider selects the completion backend ("openai", "anthropic", "ollama")
	Provider string `yaml:"provider"`
	// Model is the model name (e.g. "gpt-4o")
	Model string `yaml:"model"`
	// Endpoint overrides the provider's default API base URL
	Endpoint string `yaml:"endpoint"`
	// Temperature controls randomness (default 0.0 for deterministic answers)
	Temperature float64 `yaml:"temperature"`
	// MaxTokens caps the response length (0 = provider default)
	MaxTokens int `yaml:"max_tokens"`
	// Timeout is the maximum time to wait for completions
	Timeout time.Duration `yaml:"timeout"`
}

// EmbedderConfig configures the query-encoding service
type EmbedderConfig struct {
	// Endpoint is the OpenAI-compatible embeddings API base URL
	Endpoint string `yaml:"endpoint"`
	// Model is the embedding model name
	Model string `yaml:"model"`
	// Dimension is the expected vector dimension
	Dimension int `yaml:"dimension"`
	// Timeout bounds each encode request
	Timeout time.Duration `yaml:"timeout"`
}

// VectorConfig configures the vector search service
type VectorConfig struct {
	// Endpoint is the Qdrant URL (default: http://localhost:6333)
	Endpoint string `yaml:"endpoint"`
	// APIKey authenticates to the vector service (empty = no auth)
	APIKey string `yaml:"api_key"`
	// Collection is the collection searched for context
	Collection string `yaml:"collection"`
	// TopK is the number of chunks retrieved per question
	TopK int `yaml:"top_k"`
}

// NATSConfig configures the NATS JetStream connection
type NATSConfig struct {
	// URL is the NATS server URL (default: nats://localhost:4222)
	URL string `yaml:"url"`
	// SessionBucket is the KV bucket holding session transcripts
	SessionBucket string `yaml:"session_bucket"`
	// PageBucket is the KV bucket holding crawled page text
	PageBucket string `yaml:"page_bucket"`
}

// CrawlConfig configures crawl runs
type CrawlConfig struct {
	// Seeds are the starting URLs
	Seeds []string `yaml:"seeds"`
	// AllowedDomains restricts traversal (empty = unrestricted)
	AllowedDomains []string `yaml:"allowed_domains"`
	// IncludePaths restricts enqueued links to matching path globs
	IncludePaths []string `yaml:"include_paths"`
	// ExcludePaths drops enqueued links with matching path globs
	ExcludePaths []string `yaml:"exclude_paths"`
	// FetchTimeout bounds each document download
	FetchTimeout time.Duration `yaml:"fetch_timeout"`
	// ProbeTimeout bounds each content-type probe request
	ProbeTimeout time.Duration `yaml:"probe_timeout"`
	// MaxContentSize caps downloaded document size in bytes
	MaxContentSize int64 `yaml:"max_content_size"`
	// UserAgent overrides the default crawler User-Agent
	UserAgent string `yaml:"user_agent"`
	// AllowPrivateHosts permits crawling localhost and private IPs
	AllowPrivateHosts bool `yaml:"allow_private_hosts"`
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr: ":8000",
		},
		LLM: LLMConfig{
			Provider:    "openai",
			Model:       "gpt-4o",
			Temperature: 0.0,
			Timeout:     3 * time.Minute,
		},
		Embedder: EmbedderConfig{
			Endpoint:  "http://localhost:11434/v1",
			Model:     "nomic-embed-text",
			Dimension: 768,
			Timeout:   30 * time.Second,
		},
		Vector: VectorConfig{
			Endpoint:   "http://localhost:6333",
			Collection: "quarry_chunks",
			TopK:       50,
		},
		NATS: NATSConfig{
			URL:           "nats://localhost:4222",
			SessionBucket: "quarry_sessions",
			PageBucket:    "quarry_pages",
		},
		Crawl: CrawlConfig{
			FetchTimeout:   20 * time.Second,
			ProbeTimeout:   20 * time.Second,
			MaxContentSize: 10 * 1024 * 1024,
		},
	}
}

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	if c.LLM.Provider == "" {
		return fmt.Errorf("llm.provider is required")
	}
	if c.LLM.Model == "" {
		return fmt.Errorf("llm.model is required")
	}
	if c.LLM.Temperature < 0 || c.LLM.Temperature > 2 {
		return fmt.Errorf("llm.temperature must be between 0 and 2")
	}
	if c.Embedder.Model == "" {
		return fmt.Errorf("embedder.model is required")
	}
	if c.Embedder.Dimension <= 0 {
		return fmt.Errorf("embedder.dimension must be positive")
	}
	if c.Vector.Collection == "" {
		return fmt.Errorf("vector.collection is required")
	}
	if c.Vector.TopK <= 0 {
		return fmt.Errorf("vector.top_k must be positive")
	}
	if c.NATS.SessionBucket == "" || c.NATS.PageBucket == "" {
		return fmt.Errorf("nats buckets are required")
	}
	return nil
}

// LoadFromFile loads configuration from a YAML file
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	config := &Config{}
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// SaveToFile saves configuration to a YAML file
func (c *Config) SaveToFile(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Merge merges another config into this one (other takes precedence for non-zero values)
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}

	// Server
	if other.Server.Addr != "" {
		c.Server.Addr = other.Server.Addr
	}

	// LLM
	if other.LLM.Provider != "" {
		c.LLM.Provider = other.LLM.Provider
	}
	if other.LLM.Model != "" {
		c.LLM.Model = other.LLM.Model
	}
	if other.LLM.Endpoint != "" {
		c.LLM.Endpoint = other.LLM.Endpoint
	}
	if other.LLM.Temperature != 0 {
		c.LLM.Temperature = other.LLM.Temperature
	}
	if other.LLM.MaxTokens != 0 {
		c.LLM.MaxTokens = other.LLM.MaxTokens
	}
	if other.LLM.Timeout != 0 {
		c.LLM.Timeout = other.LLM.Timeout
	}

	// Embedder
	if other.Embedder.Endpoint != "" {
		c.Embedder.Endpoint = other.Embedder.Endpoint
	}
	if other.Embedder.Model != "" {
		c.Embedder.Model = other.Embedder.Model
	}
	if other.Embedder.Dimension != 0 {
		c.Embedder.Dimension = other.Embedder.Dimension
	}
	if other.Embedder.Timeout != 0 {
		c.Embedder.Timeout = other.Embedder.Timeout
	}

	// Vector
	if other.Vector.Endpoint != "" {
		c.Vector.Endpoint = other.Vector.Endpoint
	}
	if other.Vector.APIKey != "" {
		c.Vector.APIKey = other.Vector.APIKey
	}
	if other.Vector.Collection != "" {
		c.Vector.Collection = other.Vector.Collection
	}
	if other.Vector.TopK != 0 {
		c.Vector.TopK = other.Vector.TopK
	}

	// NATS
	if other.NATS.URL != "" {
		c.NATS.URL = other.NATS.URL
	}
	if other.NATS.SessionBucket != "" {
		c.NATS.SessionBucket = other.NATS.SessionBucket
	}
	if other.NATS.PageBucket != "" {
		c.NATS.PageBucket = other.NATS.PageBucket
	}

	// Crawl
	if len(other.Crawl.Seeds) > 0 {
		c.Crawl.Seeds = other.Crawl.Seeds
	}
	if len(other.Crawl.AllowedDomains) > 0 {
		c.Crawl.AllowedDomains = other.Crawl.AllowedDomains
	}
	if len(other.Crawl.IncludePaths) > 0 {
		c.Crawl.IncludePaths = other.Crawl.IncludePaths
	}
	if len(other.Crawl.ExcludePaths) > 0 {
		c.Crawl.ExcludePaths = other.Crawl.ExcludePaths
	}
	if other.Crawl.FetchTimeout != 0 {
		c.Crawl.FetchTimeout = other.Crawl.FetchTimeout
	}
	if other.Crawl.ProbeTimeout != 0 {
		c.Crawl.ProbeTimeout = other.Crawl.ProbeTimeout
	}
	if other.Crawl.MaxContentSize != 0 {
		c.Crawl.MaxContentSize = other.Crawl.MaxContentSize
	}
	if other.Crawl.UserAgent != "" {
		c.Crawl.UserAgent = other.Crawl.UserAgent
	}
	if other.Crawl.AllowPrivateHosts {
		c.Crawl.AllowPrivateHosts = true
	}
}
