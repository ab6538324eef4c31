package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ppiankov/fakecheck/internal/cache"
	"github.com/ppiankov/fakecheck/internal/extract"
	"github.com/ppiankov/fakecheck/internal/highlight"
	"github.com/ppiankov/fakecheck/internal/links"
	"github.com/ppiankov/fakecheck/internal/llm"
	"github.com/ppiankov/fakecheck/internal/model"
	"github.com/ppiankov/fakecheck/internal/score"
)

// ErrEmptyText is returned when there is nothing to analyse
var ErrEmptyText = errors.New("no text provided")

// Pipeline turns a source (text, file, URL) into a complete report
type Pipeline struct {
	fetcher     *Fetcher
	scorer      *score.Scorer
	highlighter *highlight.Highlighter
	links       *links.Inventory
	reports     *cache.Reports
	summarizer  *llm.Summarizer // nil if disabled
	renderer    *Renderer
	config      *model.Config
	logf        func(format string, args ...any)

	now   func() time.Time
	newID func() string
}

// Option customises a Pipeline
type Option func(*Pipeline)

// WithCache replaces the cache built from config
func WithCache(c cache.Cache) Option {
	return func(p *Pipeline) { p.reports = cache.NewReports(c, p.config.Cache.DiskTTL) }
}

// WithSummarizer sets the LLM summarizer
func WithSummarizer(s *llm.Summarizer) Option {
	return func(p *Pipeline) { p.summarizer = s }
}

// WithLogger routes warnings to logf instead of stderr
func WithLogger(logf func(format string, args ...any)) Option {
	return func(p *Pipeline) { p.logf = logf }
}

// WithClock overrides time and ID generation
func WithClock(now func() time.Time, newID func() string) Option {
	return func(p *Pipeline) {
		p.now = now
		p.newID = newID
	}
}

// NewPipeline creates a pipeline from config
func NewPipeline(cfg *model.Config, opts ...Option) *Pipeline {
	if cfg == nil {
		cfg = model.DefaultConfig()
	}

	p := &Pipeline{
		fetcher:     NewFetcher(cfg.HTTP),
		scorer:      score.NewScorer(),
		highlighter: highlight.New(),
		links:       links.NewInventory(links.NewClassifier(&cfg.Authority)),
		renderer:    NewRenderer(cfg.Output.IncludeFooter),
		config:      cfg,
		logf: func(format string, args ...any) {
			fmt.Fprintf(os.Stderr, format, args...)
		},
		now:   func() time.Time { return time.Now().UTC() },
		newID: uuid.NewString,
	}
	p.reports = cache.NewReports(cache.New(cfg.Cache), cfg.Cache.DiskTTL)

	for _, opt := range opts {
		opt(p)
	}

	if p.summarizer == nil && cfg.LLM.Provider != "" {
		s, err := llm.NewSummarizer(llm.ConfigFromModel(cfg.LLM, cfg.HTTP))
		if err != nil {
			p.logf("Warning: Failed to initialize LLM provider: %v\n", err)
		} else {
			p.summarizer = s
		}
	}

	return p
}

// Renderer returns the pipeline's renderer
func (p *Pipeline) Renderer() *Renderer {
	return p.renderer
}

// Source describes where a text came from
type Source struct {
	Subject string
	Origin  string // path, URL, "stdin", "api"
	Kind    model.SourceKind
	Meta    *model.FetchMeta
}

// AnalyzeText scores, highlights and explains text. Results for identical
// text are served from the cache with fresh identity fields.
func (p *Pipeline) AnalyzeText(ctx context.Context, text string, src Source) (*model.Report, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyText
	}
	if src.Kind == "" {
		src.Kind = model.SourceText
	}

	report, cached := p.reports.Get(text)
	if !cached {
		analysis := p.scorer.Analyze(text)
		report = &model.Report{
			Analysis:        analysis,
			Hint:            score.BuildHint(analysis),
			HighlightedHTML: p.highlighter.Highlight(text),
			Links:           p.links.Extract(text),
			Principles:      model.DefaultPrinciples(),
		}
		if err := p.reports.Put(text, report); err != nil {
			p.logf("Warning: cache write failed: %v\n", err)
		}
	}

	report.ID = p.newID()
	report.Subject = src.Subject
	report.Source = src.Origin
	report.SourceKind = src.Kind
	report.AnalyzedAt = p.now()
	report.FetchMeta = src.Meta
	report.LLM = nil

	// Commentary runs after scoring and never changes it
	if p.summarizer != nil && p.summarizer.IsEnabled() {
		summary, err := p.summarizer.GenerateSummary(ctx, *report)
		if err != nil {
			p.logf("Warning: LLM summary generation failed: %v\n", err)
		} else if summary != nil {
			report.LLM = summary
		}
	}

	return report, nil
}

// AnalyzeDocument analyses an extracted document
func (p *Pipeline) AnalyzeDocument(ctx context.Context, doc *extract.Document, origin string, meta *model.FetchMeta) (*model.Report, error) {
	return p.AnalyzeText(ctx, doc.Text, Source{
		Subject: doc.Title,
		Origin:  origin,
		Kind:    doc.Kind,
		Meta:    meta,
	})
}

// AnalyzeReader analyses plain text from r, e.g. stdin
func (p *Pipeline) AnalyzeReader(ctx context.Context, r io.Reader, origin string) (*model.Report, error) {
	doc, err := extract.Text(r, p.config.HTTP.MaxBodyBytes)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", origin, err)
	}
	return p.AnalyzeDocument(ctx, doc, origin, nil)
}

// AnalyzeFile analyses a text, HTML or PDF file
func (p *Pipeline) AnalyzeFile(ctx context.Context, path string) (*model.Report, error) {
	doc, err := extract.File(path, p.config.HTTP.MaxBodyBytes)
	if err != nil {
		return nil, fmt.Errorf("extract %s: %w", path, err)
	}
	if doc.Title == "" {
		doc.Title = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return p.AnalyzeDocument(ctx, doc, path, nil)
}

// AnalyzeURL fetches a page or document and analyses its text
func (p *Pipeline) AnalyzeURL(ctx context.Context, rawURL string) (*model.Report, error) {
	fetched, err := p.fetcher.FetchWithRetry(ctx, rawURL)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}

	doc, err := extract.Bytes(fetched.Body, fetched.ContentType(), p.config.HTTP.MaxBodyBytes)
	if err != nil {
		return nil, fmt.Errorf("extract: %w", err)
	}
	if doc.Title == "" {
		doc.Title = subjectFromURL(fetched.FinalURL)
	}

	meta := fetched.Meta
	report, err := p.AnalyzeDocument(ctx, doc, fetched.FinalURL, &meta)
	if err != nil {
		return nil, err
	}
	report.SourceKind = model.SourceURL
	return report, nil
}

// AnalyzeInput dispatches on the input form: http(s) URLs are fetched,
// anything else is read as a file path.
func (p *Pipeline) AnalyzeInput(ctx context.Context, input string) (*model.Report, error) {
	if IsURL(input) {
		return p.AnalyzeURL(ctx, input)
	}
	return p.AnalyzeFile(ctx, input)
}

// IsURL reports whether s looks like an http(s) URL
func IsURL(s string) bool {
	lower := strings.ToLower(s)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

// RenderReport writes JSON, Markdown and HTML outputs when paths are set,
// then prints the terminal summary to w.
func (p *Pipeline) RenderReport(w io.Writer, report *model.Report, jsonPath, mdPath, htmlPath string, verbose bool) error {
	if jsonPath != "" {
		if err := p.renderer.RenderJSON(report, jsonPath); err != nil {
			return fmt.Errorf("render JSON: %w", err)
		}
		if verbose {
			p.logf("✓ Wrote JSON: %s\n", jsonPath)
		}
	}

	if mdPath != "" {
		if err := p.renderer.RenderMarkdown(report, mdPath); err != nil {
			return fmt.Errorf("render markdown: %w", err)
		}
		if verbose {
			p.logf("✓ Wrote Markdown: %s\n", mdPath)
		}

		if report.LLM != nil && report.LLM.Enabled {
			llmPath := strings.TrimSuffix(mdPath, ".md") + ".llm.md"
			if err := p.renderer.RenderLLMMarkdown(llm.RenderSeparateMarkdown(report.LLM), llmPath); err != nil {
				p.logf("Warning: Failed to write LLM summary: %v\n", err)
			} else if verbose {
				p.logf("✓ Wrote LLM Summary: %s\n", llmPath)
			}
		}
	}

	if htmlPath != "" {
		if err := p.renderer.RenderHTML(report, htmlPath); err != nil {
			return fmt.Errorf("render HTML: %w", err)
		}
		if verbose {
			p.logf("✓ Wrote HTML: %s\n", htmlPath)
		}
	}

	if w != nil {
		p.renderer.RenderSummary(w, report)
	}

	return nil
}
