package model

import "time"

// Config is the complete fakecheck configuration
type Config struct {
	HTTP         HTTPConfig         `yaml:"http" mapstructure:"http"`
	Cache        CacheConfig        `yaml:"cache" mapstructure:"cache"`
	Concurrency  ConcurrencyConfig  `yaml:"concurrency" mapstructure:"concurrency"`
	RateLimiting RateLimitingConfig `yaml:"rate_limiting" mapstructure:"rate_limiting"`
	Output       OutputConfig       `yaml:"output" mapstructure:"output"`
	Authority    AuthorityConfig    `yaml:"authority" mapstructure:"authority"`
	LLM          LLMConfig          `yaml:"llm" mapstructure:"llm"`
	Server       ServerConfig       `yaml:"server" mapstructure:"server"`
	Feed         FeedConfig         `yaml:"feed" mapstructure:"feed"`
}

// HTTPConfig controls fetching of URL sources
type HTTPConfig struct {
	Timeout       time.Duration `yaml:"timeout" mapstructure:"timeout"`
	UserAgent     string        `yaml:"user_agent" mapstructure:"user_agent"`
	MaxBodyBytes  int64         `yaml:"max_body_bytes" mapstructure:"max_body_bytes"`
	InsecureTLS   bool          `yaml:"insecure_tls" mapstructure:"insecure_tls"`
	RespectRobots bool          `yaml:"respect_robots" mapstructure:"respect_robots"`
	HTTPProxy     string        `yaml:"http_proxy,omitempty" mapstructure:"http_proxy"`
	HTTPSProxy    string        `yaml:"https_proxy,omitempty" mapstructure:"https_proxy"`
	NoProxy       string        `yaml:"no_proxy,omitempty" mapstructure:"no_proxy"`

	// Refuse loopback, private and link-local destinations (always on for the API)
	BlockPrivateNetworks bool `yaml:"block_private_networks" mapstructure:"block_private_networks"`
}

// CacheConfig controls the report cache
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled" mapstructure:"enabled"`
	Dir       string        `yaml:"dir" mapstructure:"dir"`
	MemoryTTL time.Duration `yaml:"memory_ttl" mapstructure:"memory_ttl"`
	DiskTTL   time.Duration `yaml:"disk_ttl" mapstructure:"disk_ttl"`
}

// ConcurrencyConfig controls batch parallelism
type ConcurrencyConfig struct {
	Workers int `yaml:"workers" mapstructure:"workers"`
}

// RateLimitingConfig controls per-host request pacing for URL sources
type RateLimitingConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	BurstSize         int     `yaml:"burst_size" mapstructure:"burst_size"`
}

// OutputConfig controls rendering
type OutputConfig struct {
	Verbose       bool `yaml:"verbose" mapstructure:"verbose"`
	IncludeFooter bool `yaml:"include_footer" mapstructure:"include_footer"`
}

// AuthorityConfig maps link hosts to authority tiers
type AuthorityConfig struct {
	PrimaryDomains   []string          `yaml:"primary_domains" mapstructure:"primary_domains"`
	SecondaryDomains []string          `yaml:"secondary_domains" mapstructure:"secondary_domains"`
	DomainMap        map[string]string `yaml:"domain_map,omitempty" mapstructure:"domain_map"` // host -> primary|secondary|tertiary
}

// LLMConfig configures the optional commentary provider
type LLMConfig struct {
	Provider  string `yaml:"provider" mapstructure:"provider"` // openai, ollama, "" (disabled)
	Model     string `yaml:"model" mapstructure:"model"`
	APIKey    string `yaml:"api_key,omitempty" mapstructure:"api_key"`
	BaseURL   string `yaml:"base_url,omitempty" mapstructure:"base_url"`
	Timeout   int    `yaml:"timeout" mapstructure:"timeout"` // seconds
	MaxTokens int    `yaml:"max_tokens" mapstructure:"max_tokens"`

	StrictEvidence bool `yaml:"strict_evidence" mapstructure:"strict_evidence"` // Reject summaries citing URLs not in the text
}

// ServerConfig configures the HTTP API
type ServerConfig struct {
	Addr         string   `yaml:"addr" mapstructure:"addr"`
	CORSOrigins  []string `yaml:"cors_origins" mapstructure:"cors_origins"`
	MaxBodyBytes int64    `yaml:"max_body_bytes" mapstructure:"max_body_bytes"`

	// Let API clients submit URLs on loopback or private networks
	AllowPrivateURLs bool `yaml:"allow_private_urls" mapstructure:"allow_private_urls"`
}

// FeedConfig lists RSS/Atom feeds scanned by the feed command
type FeedConfig struct {
	URLs  []string `yaml:"urls" mapstructure:"urls"`
	Limit int      `yaml:"limit" mapstructure:"limit"` // Items per feed, 0 = all
}

// DefaultConfig returns the built-in defaults
func DefaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Timeout:       30 * time.Second,
			UserAgent:     "fakecheck/0.1 (+https://github.com/ppiankov/fakecheck)",
			MaxBodyBytes:  2_000_000,
			RespectRobots: true,
		},
		Cache: CacheConfig{
			Enabled:   true,
			Dir:       ".fakecheck-cache",
			MemoryTTL: 10 * time.Minute,
			DiskTTL:   24 * time.Hour,
		},
		Concurrency: ConcurrencyConfig{
			Workers: 4,
		},
		RateLimiting: RateLimitingConfig{
			RequestsPerSecond: 2,
			BurstSize:         5,
		},
		Output: OutputConfig{
			IncludeFooter: true,
		},
		Authority: AuthorityConfig{
			PrimaryDomains: []string{
				"destatis.de", "bund.de", "bundestag.de", "europa.eu",
				"who.int", "nasa.gov", "esa.int", "gov", "edu",
			},
			SecondaryDomains: []string{
				"dpa.com", "reuters.com", "apnews.com", "tagesschau.de",
				"zdf.de", "deutschlandfunk.de", "bbc.co.uk", "wikipedia.org",
			},
		},
		LLM: LLMConfig{
			Timeout:        30,
			MaxTokens:      600,
			StrictEvidence: true,
		},
		Server: ServerConfig{
			Addr:         ":8080",
			MaxBodyBytes: 1 << 20,
		},
		Feed: FeedConfig{
			Limit: 20,
		},
	}
}
