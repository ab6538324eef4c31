// Package feed scores the items of RSS and Atom news feeds.
package feed

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/mmcdole/gofeed"
	"golang.org/x/sync/errgroup"

	"github.com/ppiankov/fakecheck/internal/extract"
	"github.com/ppiankov/fakecheck/internal/model"
	"github.com/ppiankov/fakecheck/internal/pipeline"
	"github.com/ppiankov/fakecheck/internal/util"
	"github.com/ppiankov/fakecheck/internal/worker"
)

// TextAnalyzer scores a text; *pipeline.Pipeline implements it
type TextAnalyzer interface {
	AnalyzeText(ctx context.Context, text string, src pipeline.Source) (*model.Report, error)
}

// Item is one scored feed entry
type Item struct {
	Feed      string
	Title     string
	Link      string
	Published *time.Time
	Report    *model.Report
	Error     error
}

// Scanner fetches feeds and scores every item's headline and teaser
type Scanner struct {
	parser   *gofeed.Parser
	analyzer TextAnalyzer
	limiter  *worker.Limiter
	limit    int
	workers  int
}

// NewScanner creates a feed scanner using cfg's HTTP, feed, concurrency
// and rate-limiting settings.
func NewScanner(analyzer TextAnalyzer, cfg *model.Config) *Scanner {
	parser := gofeed.NewParser()
	parser.UserAgent = cfg.HTTP.UserAgent
	parser.Client = &http.Client{
		Timeout:   cfg.HTTP.Timeout,
		Transport: util.NewTransport(cfg.HTTP.HTTPProxy, cfg.HTTP.HTTPSProxy, cfg.HTTP.NoProxy),
	}

	return &Scanner{
		parser:   parser,
		analyzer: analyzer,
		limiter:  worker.NewLimiter(cfg.RateLimiting.RequestsPerSecond, cfg.RateLimiting.BurstSize),
		limit:    cfg.Feed.Limit,
		workers:  cfg.Concurrency.Workers,
	}
}

// Scan fetches all feeds concurrently. Items keep feed order, then item
// order. A feed that fails is skipped; Scan only errors if all feeds fail.
func (s *Scanner) Scan(ctx context.Context, feedURLs []string) ([]Item, error) {
	perFeed := make([][]Item, len(feedURLs))

	var mu sync.Mutex
	var errs []error

	g, gctx := errgroup.WithContext(ctx)
	if s.workers > 0 {
		g.SetLimit(s.workers)
	}

	for i, feedURL := range feedURLs {
		g.Go(func() error {
			items, err := s.ScanFeed(gctx, feedURL)
			if err != nil {
				mu.Lock()
				errs = append(errs, err)
				mu.Unlock()
				return nil // non-fatal
			}
			perFeed[i] = items
			return nil
		})
	}
	_ = g.Wait()

	if len(feedURLs) > 0 && len(errs) == len(feedURLs) {
		return nil, errors.Join(errs...)
	}

	var all []Item
	for _, items := range perFeed {
		all = append(all, items...)
	}
	return all, nil
}

// ScanFeed fetches one feed and scores up to the configured number of items
func (s *Scanner) ScanFeed(ctx context.Context, feedURL string) ([]Item, error) {
	if err := s.limiter.Wait(ctx, feedURL); err != nil {
		return nil, fmt.Errorf("feed %s: %w", feedURL, err)
	}

	parsed, err := s.parser.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		return nil, fmt.Errorf("parse feed %s: %w", feedURL, err)
	}

	entries := parsed.Items
	if s.limit > 0 && len(entries) > s.limit {
		entries = entries[:s.limit]
	}

	items := make([]Item, 0, len(entries))
	for _, entry := range entries {
		item := Item{
			Feed:      feedURL,
			Title:     strings.TrimSpace(entry.Title),
			Link:      entry.Link,
			Published: entry.PublishedParsed,
		}

		origin := entry.Link
		if origin == "" {
			origin = feedURL
		}

		item.Report, item.Error = s.analyzer.AnalyzeText(ctx, ItemText(entry), pipeline.Source{
			Subject: item.Title,
			Origin:  origin,
			Kind:    model.SourceFeed,
		})
		items = append(items, item)
	}

	return items, nil
}

// ItemText is the headline on its own line followed by the plain-text
// teaser, so clickbait checks see the headline as first line.
func ItemText(entry *gofeed.Item) string {
	body := entry.Description
	if body == "" {
		body = entry.Content
	}
	body = extract.StripTags(body)

	title := strings.TrimSpace(entry.Title)
	switch {
	case title == "":
		return body
	case body == "":
		return title
	default:
		return title + "\n" + body
	}
}
