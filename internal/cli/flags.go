package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/pflag"

	"github.com/ppiankov/fakecheck/internal/model"
)

// fetchFlags are shared by every command that may fetch URLs
type fetchFlags struct {
	timeout     time.Duration
	userAgent   string
	maxBytes    int64
	noCache     bool
	insecureTLS bool
	noRobots    bool
	httpProxy   string
	httpsProxy  string
}

func (f *fetchFlags) register(fs *pflag.FlagSet) {
	defaults := model.DefaultConfig()
	fs.DurationVar(&f.timeout, "timeout", defaults.HTTP.Timeout, "HTTP timeout per request")
	fs.StringVar(&f.userAgent, "ua", defaults.HTTP.UserAgent, "HTTP User-Agent")
	fs.Int64Var(&f.maxBytes, "max-bytes", defaults.HTTP.MaxBodyBytes, "max bytes read per source")
	fs.BoolVar(&f.noCache, "no-cache", false, "disable the report cache")
	fs.BoolVar(&f.insecureTLS, "insecure", false, "skip TLS certificate verification (use for self-signed certs)")
	fs.BoolVar(&f.noRobots, "no-robots", false, "do not consult robots.txt before fetching")
	fs.StringVar(&f.httpProxy, "http-proxy", "", "proxy for http:// URLs")
	fs.StringVar(&f.httpsProxy, "https-proxy", "", "proxy for https:// URLs")
}

// apply copies explicitly set flags over cfg, leaving config-file values alone
func (f *fetchFlags) apply(fs *pflag.FlagSet, cfg *model.Config) {
	if fs.Changed("timeout") {
		cfg.HTTP.Timeout = f.timeout
	}
	if fs.Changed("ua") {
		cfg.HTTP.UserAgent = f.userAgent
	}
	if fs.Changed("max-bytes") {
		cfg.HTTP.MaxBodyBytes = f.maxBytes
	}
	if f.noCache {
		cfg.Cache.Enabled = false
	}
	if f.insecureTLS {
		cfg.HTTP.InsecureTLS = true
	}
	if f.noRobots {
		cfg.HTTP.RespectRobots = false
	}
	if f.httpProxy != "" {
		cfg.HTTP.HTTPProxy = f.httpProxy
	}
	if f.httpsProxy != "" {
		cfg.HTTP.HTTPSProxy = f.httpsProxy
	}
}

// llmFlags enable the optional commentary
type llmFlags struct {
	enabled  bool
	provider string
	model    string
}

func (f *llmFlags) register(fs *pflag.FlagSet) {
	fs.BoolVar(&f.enabled, "llm", false, "add LLM commentary (never changes the score)")
	fs.StringVar(&f.provider, "llm-provider", "openai", "LLM provider (openai, ollama)")
	fs.StringVar(&f.model, "llm-model", "", "LLM model name (provider default if empty)")
}

func (f *llmFlags) apply(fs *pflag.FlagSet, cfg *model.Config) error {
	if !f.enabled {
		return nil
	}

	if fs.Changed("llm-provider") || cfg.LLM.Provider == "" {
		cfg.LLM.Provider = f.provider
	}
	if f.model != "" {
		cfg.LLM.Model = f.model
	}

	switch cfg.LLM.Provider {
	case "openai":
		if cfg.LLM.APIKey == "" {
			cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
		}
		if cfg.LLM.APIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY environment variable not set")
		}
	case "ollama":
		if baseURL := os.Getenv("OLLAMA_BASE_URL"); baseURL != "" && cfg.LLM.BaseURL == "" {
			cfg.LLM.BaseURL = baseURL
		}
		if cfg.LLM.Model == "" {
			return fmt.Errorf("--llm-model is required for ollama")
		}
	}
	return nil
}

// outputFlags select report files
type outputFlags struct {
	jsonPath string
	mdPath   string
	htmlPath string
	noFooter bool
}

func (f *outputFlags) register(fs *pflag.FlagSet) {
	fs.StringVar(&f.jsonPath, "json", "", "write JSON report to path")
	fs.StringVar(&f.mdPath, "md", "", "write Markdown report to path")
	fs.StringVar(&f.htmlPath, "html", "", "write standalone HTML report to path")
	fs.BoolVar(&f.noFooter, "no-footer", false, "omit the footer in Markdown and HTML reports")
}

func (f *outputFlags) apply(cfg *model.Config) {
	if f.noFooter {
		cfg.Output.IncludeFooter = false
	}
}
