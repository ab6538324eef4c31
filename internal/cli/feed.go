package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/fakecheck/internal/feed"
	"github.com/ppiankov/fakecheck/internal/pipeline"
)

type feedOptions struct {
	fetch fetchFlags

	limit   int
	jsonOut bool
	timeout time.Duration
}

var feedOpts feedOptions

var feedCmd = &cobra.Command{
	Use:   "feed [feed-url...]",
	Short: "Score the items of RSS/Atom feeds",
	Long: `Feed fetches RSS or Atom feeds and scores every item's headline and
teaser. Without arguments the feeds listed under feed.urls in the config
file are scanned.

A feed that cannot be fetched is reported and skipped.

Example:
  fakecheck feed https://www.tagesschau.de/xml/rss2
  fakecheck feed --limit 5 --json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runFeed(cmd, args, &feedOpts)
	},
}

func init() {
	rootCmd.AddCommand(feedCmd)

	fs := feedCmd.Flags()
	fs.IntVar(&feedOpts.limit, "limit", 0, "items per feed (default from config, 0 in config = all)")
	fs.BoolVar(&feedOpts.jsonOut, "json", false, "print reports as JSON lines")
	fs.DurationVar(&feedOpts.timeout, "feed-timeout", 5*time.Minute, "overall timeout")
	feedOpts.fetch.register(fs)
}

func runFeed(cmd *cobra.Command, args []string, opts *feedOptions) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	opts.fetch.apply(cmd.Flags(), cfg)
	if opts.limit > 0 {
		cfg.Feed.Limit = opts.limit
	}

	urls := args
	if len(urls) == 0 {
		urls = cfg.Feed.URLs
	}
	if len(urls) == 0 {
		return fmt.Errorf("no feeds given: pass feed URLs or set feed.urls in the config")
	}

	ctx, cancel := context.WithTimeout(commandContext(cmd), opts.timeout)
	defer cancel()

	p := pipeline.NewPipeline(cfg)
	items, err := feed.NewScanner(p, cfg).Scan(ctx, urls)
	if err != nil {
		return fmt.Errorf("scan feeds: %w", err)
	}

	if opts.jsonOut {
		return writeFeedJSON(cmd.OutOrStdout(), items)
	}
	writeFeedTable(cmd.OutOrStdout(), items)
	return nil
}

func writeFeedTable(out io.Writer, items []feed.Item) {
	current := ""
	for _, item := range items {
		if item.Feed != current {
			current = item.Feed
			printBox(out, current)
		}

		if item.Error != nil {
			fmt.Fprintf(out, "  ✗ %s: %v\n", item.Title, item.Error)
			continue
		}

		a := item.Report.Analysis
		marker := "✓"
		if a.FakePercent > 55 {
			marker = "✗"
		}
		fmt.Fprintf(out, "  %s fake %3d%% | real %3d%% | %s\n", marker, a.FakePercent, a.RealPercent, item.Title)
	}
	fmt.Fprintln(out)
}

func writeFeedJSON(out io.Writer, items []feed.Item) error {
	enc := json.NewEncoder(out)
	for _, item := range items {
		if item.Report == nil {
			continue
		}
		if err := enc.Encode(item.Report); err != nil {
			return fmt.Errorf("encode report: %w", err)
		}
	}
	return nil
}
