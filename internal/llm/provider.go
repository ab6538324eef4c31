package llm

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/ppiankov/fakecheck/internal/model"
)

// Provider defines the interface for LLM providers
type Provider interface {
	// Name returns the provider name
	Name() string

	// Summarize generates commentary on a finished report
	Summarize(ctx context.Context, req SummarizeRequest) (*SummarizeResponse, error)

	// IsAvailable checks if the provider is properly configured and accessible
	IsAvailable(ctx context.Context) bool
}

// SummarizeRequest contains the input for LLM commentary
type SummarizeRequest struct {
	// Report is the finished fakecheck report. Its scores are already final.
	Report model.Report

	// EvidenceURLs is the allowlist of URLs the LLM may cite: the links
	// found in the analysed text. Anything else is a citation leak.
	EvidenceURLs []string

	// Prompt is an optional custom prompt (if empty, use default)
	Prompt string

	// Model is the specific model to use (provider-specific)
	Model string

	// MaxTokens limits the response length
	MaxTokens int
}

// SummarizeResponse contains the LLM's output
type SummarizeResponse struct {
	Summary    string
	CitedURLs  []string // URLs the LLM actually cited
	Model      string
	TokensUsed int
}

// Config holds LLM provider configuration
type Config struct {
	// Provider name: "openai", "ollama", ""
	Provider string

	// Model name (provider-specific)
	Model string

	// APIKey for OpenAI-compatible endpoints
	APIKey string

	// BaseURL for custom endpoints (e.g., Ollama)
	BaseURL string

	// Timeout for API requests
	Timeout int // seconds

	// StrictEvidence rejects output that cites URLs outside the allowlist
	StrictEvidence bool

	// MaxTokens for response generation
	MaxTokens int

	// Proxy settings
	HTTPProxy  string
	HTTPSProxy string
	NoProxy    string
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Provider:       "", // Disabled by default
		Timeout:        30,
		StrictEvidence: true,
		MaxTokens:      600,
	}
}

const systemPrompt = "You comment on fakecheck reports. fakecheck scores the writing style of German news texts with keyword heuristics; you never judge whether a text is true."

const maxPromptURLs = 20

// BuildPrompt constructs the default commentary prompt
func BuildPrompt(report model.Report, evidenceURLs []string) string {
	a := report.Analysis

	var b strings.Builder
	fmt.Fprintf(&b, `You are commenting on a fakecheck report. fakecheck is a heuristic: it scores sensational, polarising and vague wording against source references. It NEVER decides whether a text is true or false.

CRITICAL RULES:
1. You MUST ONLY cite URLs from this allowed list:
%s

2. DO NOT infer, speculate, or cite external sources beyond this list.
3. Do not change, recompute or dispute the percentages below.
4. Explain WHICH stylistic signals drove the result and what a reader should verify.
5. Never say "this is true" or "this is false" - only describe the signals.

Report:
- Subject: %s
- Fake tendency: %d%%
- Real tendency: %d%%
- Words: %d
- Extraordinary claims: %t
- Links in text: %d

Signals:
`, joinURLs(evidenceURLs), report.Subject, a.FakePercent, a.RealPercent, a.WordCount, a.HasExtraordinaryClaims, len(report.Links))

	if len(a.Flags) == 0 {
		b.WriteString("- none\n")
	}
	for _, f := range a.Flags {
		fmt.Fprintf(&b, "- %s (%s): %s\n", f.Kind.Label(), f.Category, f.Message)
	}

	fmt.Fprintf(&b, "\nHint shown to the reader: %s\n", report.Hint)
	b.WriteString("\nWrite 3-4 sentences in German about the style signals, not about truth.")

	return b.String()
}

func joinURLs(urls []string) string {
	if len(urls) == 0 {
		return "(No evidence URLs available)"
	}
	var b strings.Builder
	for i, u := range urls {
		if i >= maxPromptURLs {
			fmt.Fprintf(&b, "\n... and %d more URLs", len(urls)-maxPromptURLs)
			break
		}
		fmt.Fprintf(&b, "\n- %s", u)
	}
	return b.String()
}

var citedURLPattern = regexp.MustCompile(`https?://[^\s\)\]>"]+`)

// extractURLs returns the distinct URLs in text
func extractURLs(text string) []string {
	seen := make(map[string]bool)
	var unique []string
	for _, u := range citedURLPattern.FindAllString(text, -1) {
		u = strings.TrimRight(u, ".,;:!?")
		if !seen[u] {
			seen[u] = true
			unique = append(unique, u)
		}
	}
	return unique
}

// checkCitations returns an error for the first cited URL outside allowed
func checkCitations(cited, allowed []string) error {
	for _, u := range cited {
		if !contains(allowed, u) {
			return fmt.Errorf("CITATION LEAK: LLM cited disallowed URL: %s", u)
		}
	}
	return nil
}

func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
