package model

import "time"

// Report wraps an analysis with everything a presentation layer needs
type Report struct {
	ID         string     `json:"id"`                   // Random report identifier
	Subject    string     `json:"subject"`              // Headline or file/URL derived title
	Source     string     `json:"source"`               // Path, URL or "stdin"
	SourceKind SourceKind `json:"source_kind"`          // text, html, pdf, url, feed
	AnalyzedAt time.Time  `json:"analyzed_at"`          // When the analysis ran
	FetchMeta  *FetchMeta `json:"fetch_meta,omitempty"` // HTTP metadata for URL sources

	Analysis        AnalysisResult `json:"analysis"`         // Scores, percentages and flags
	Hint            string         `json:"hint"`             // Tendency + disclaimer text
	HighlightedHTML string         `json:"highlighted_html"` // Escaped text with <mark> spans

	Links []Link `json:"links,omitempty"` // URLs found in the text (informational, never scored)

	Principles Principles `json:"principles"`

	LLM *LLMSummary `json:"llm,omitempty"` // Optional LLM commentary (separate, never affects score)
}

// SourceKind tells where the analysed text came from
type SourceKind string

const (
	SourceText SourceKind = "text"
	SourceHTML SourceKind = "html"
	SourcePDF  SourceKind = "pdf"
	SourceURL  SourceKind = "url"
	SourceFeed SourceKind = "feed"
)

// FetchMeta contains HTTP metadata from fetching a URL source
type FetchMeta struct {
	StatusCode   int               `json:"status_code"`
	ContentType  string            `json:"content_type,omitempty"`
	LastModified string            `json:"last_modified,omitempty"`
	ETag         string            `json:"etag,omitempty"`
	Headers      map[string]string `json:"headers,omitempty"`
}

// Link is a URL found in the analysed text
type Link struct {
	URL       string        `json:"url"`
	Host      string        `json:"host,omitempty"`
	Domain    string        `json:"domain,omitempty"` // Registrable domain (eTLD+1)
	Authority AuthorityTier `json:"authority"`
}

// AuthorityTier represents the classification of a linked source
type AuthorityTier int

const (
	TierUnknown   AuthorityTier = 0 // Not yet classified
	TierPrimary   AuthorityTier = 1 // Government, statistics offices, academia
	TierSecondary AuthorityTier = 2 // News agencies, public broadcasters, encyclopedias
	TierTertiary  AuthorityTier = 3 // Blogs, social media, everything else
)

func (t AuthorityTier) String() string {
	switch t {
	case TierPrimary:
		return "primary"
	case TierSecondary:
		return "secondary"
	case TierTertiary:
		return "tertiary"
	default:
		return "unknown"
	}
}

// Principles documents how the result must be read
type Principles struct {
	NonNormative bool `json:"non_normative"` // Scores style, not truth
	Transparent  bool `json:"transparent"`   // Every point is explained by a flag
	Heuristic    bool `json:"heuristic"`     // Keyword matching, no understanding
}

// DefaultPrinciples returns the standard fakecheck principles
func DefaultPrinciples() Principles {
	return Principles{
		NonNormative: true,
		Transparent:  true,
		Heuristic:    true,
	}
}

// LLMSummary contains optional LLM-generated commentary
// CRITICAL: This never affects scoring and is clearly separated
type LLMSummary struct {
	Enabled        bool     `json:"enabled"`
	Provider       string   `json:"provider,omitempty"`   // openai, ollama
	Model          string   `json:"model,omitempty"`      // Model name
	StrictEvidence bool     `json:"strict_evidence"`      // Citations limited to links found in the text
	SummaryMD      string   `json:"summary_md,omitempty"` // Markdown commentary
	Warnings       []string `json:"warnings,omitempty"`   // Any issues (e.g., provider unavailable)
}
