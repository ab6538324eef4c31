package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/ppiankov/fakecheck/internal/model"
)

// Summarizer produces optional commentary for finished reports.
// It reads the report but never changes its scores.
type Summarizer struct {
	provider Provider // nil when disabled
	config   Config
}

// NewSummarizer creates a summarizer; an empty provider disables it
func NewSummarizer(config Config) (*Summarizer, error) {
	provider, err := NewProvider(config)
	if err != nil {
		return nil, err
	}
	return &Summarizer{provider: provider, config: config}, nil
}

// IsEnabled reports whether a provider is configured
func (s *Summarizer) IsEnabled() bool {
	return s.provider != nil
}

// ProviderName returns the configured provider name, or ""
func (s *Summarizer) ProviderName() string {
	if s.provider == nil {
		return ""
	}
	return s.provider.Name()
}

// GenerateSummary asks the provider for commentary. Provider failures are
// reported as warnings on the summary, not as errors, so a report is never
// lost because the LLM is unreachable. Returns nil, nil when disabled.
func (s *Summarizer) GenerateSummary(ctx context.Context, report model.Report) (*model.LLMSummary, error) {
	if s.provider == nil {
		return nil, nil
	}

	if !s.provider.IsAvailable(ctx) {
		return &model.LLMSummary{
			Enabled:        false,
			Provider:       s.provider.Name(),
			StrictEvidence: s.config.StrictEvidence,
			Warnings:       []string{fmt.Sprintf("LLM provider %s is not available", s.provider.Name())},
		}, nil
	}

	evidenceURLs := make([]string, 0, len(report.Links))
	for _, l := range report.Links {
		evidenceURLs = append(evidenceURLs, l.URL)
	}

	summary := &model.LLMSummary{
		Enabled:        true,
		Provider:       s.provider.Name(),
		Model:          s.config.Model,
		StrictEvidence: s.config.StrictEvidence,
	}

	resp, err := s.provider.Summarize(ctx, SummarizeRequest{
		Report:       report,
		EvidenceURLs: evidenceURLs,
		Model:        s.config.Model,
		MaxTokens:    s.config.MaxTokens,
	})
	if err != nil {
		summary.Warnings = append(summary.Warnings, fmt.Sprintf("LLM summary generation failed: %v", err))
		return summary, nil
	}

	if resp.Model != "" {
		summary.Model = resp.Model
	}
	summary.SummaryMD = resp.Summary
	summary.Warnings = append(summary.Warnings, fmt.Sprintf("Tokens used: %d", resp.TokensUsed))
	if len(resp.CitedURLs) > 0 {
		summary.Warnings = append(summary.Warnings, fmt.Sprintf("Verified %d citations against links in the text", len(resp.CitedURLs)))
	}

	return summary, nil
}

// RenderSeparateMarkdown renders commentary as its own Markdown document.
// Returns "" for nil or disabled summaries.
func RenderSeparateMarkdown(summary *model.LLMSummary) string {
	if summary == nil || !summary.Enabled {
		return ""
	}

	var b strings.Builder
	b.WriteString("# LLM Summary\n\n")
	b.WriteString("> **GENERATED CONTENT.** This commentary was written by a language model after scoring. ")
	b.WriteString("The fake/real percentages were determined independently by keyword heuristics and are not influenced by it.\n\n")

	b.WriteString("| Setting | Value |\n|---|---|\n")
	fmt.Fprintf(&b, "| Provider | %s |\n", summary.Provider)
	if summary.Model != "" {
		fmt.Fprintf(&b, "| Model | %s |\n", summary.Model)
	}
	fmt.Fprintf(&b, "| Strict Evidence Mode | %t |\n\n", summary.StrictEvidence)

	b.WriteString("## Commentary\n\n")
	if summary.SummaryMD == "" {
		b.WriteString("_No summary generated._\n")
	} else {
		b.WriteString(summary.SummaryMD)
		b.WriteString("\n")
	}

	if len(summary.Warnings) > 0 {
		b.WriteString("\n## Notes\n\n")
		for _, w := range summary.Warnings {
			fmt.Fprintf(&b, "- %s\n", w)
		}
	}

	return b.String()
}
