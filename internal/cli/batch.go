package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/fakecheck/internal/pipeline"
	"github.com/ppiankov/fakecheck/internal/worker"
)

type batchOptions struct {
	fetch fetchFlags
	llm   llmFlags

	concurrency int
	outputDir   string
	timeout     time.Duration
	noFooter    bool
}

var batchOpts batchOptions

var batchCmd = &cobra.Command{
	Use:   "batch <inputs-file>",
	Short: "Score many files or URLs concurrently",
	Long: `Batch reads one input per line (file path or http(s) URL) and scores
them with a worker pool. URL inputs are rate limited per host.

Blank lines and lines starting with # are ignored.

For every input a JSON and a Markdown report is written to the output
directory, followed by a summary of tendencies.

Example:
  fakecheck batch inputs.txt
  fakecheck batch inputs.txt --concurrency 8 --output-dir ./reports`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runBatch(cmd, args[0], &batchOpts)
	},
}

func init() {
	rootCmd.AddCommand(batchCmd)

	fs := batchCmd.Flags()
	fs.IntVarP(&batchOpts.concurrency, "concurrency", "c", 0, "number of concurrent workers (default from config)")
	fs.StringVarP(&batchOpts.outputDir, "output-dir", "o", "./reports", "output directory for reports")
	fs.DurationVar(&batchOpts.timeout, "batch-timeout", 30*time.Minute, "overall batch timeout")
	fs.BoolVar(&batchOpts.noFooter, "no-footer", false, "omit the footer in Markdown reports")
	batchOpts.fetch.register(fs)
	batchOpts.llm.register(fs)
}

func runBatch(cmd *cobra.Command, file string, opts *batchOptions) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	opts.fetch.apply(cmd.Flags(), cfg)
	if err := opts.llm.apply(cmd.Flags(), cfg); err != nil {
		return err
	}
	if opts.noFooter {
		cfg.Output.IncludeFooter = false
	}
	if opts.concurrency > 0 {
		cfg.Concurrency.Workers = opts.concurrency
	}

	ctx, cancel := context.WithTimeout(commandContext(cmd), opts.timeout)
	defer cancel()

	out := cmd.ErrOrStderr()
	printBox(out, "fakecheck Batch Processing")
	fmt.Fprintf(out, "  Input file:   %s\n", file)
	fmt.Fprintf(out, "  Workers:      %d\n", cfg.Concurrency.Workers)
	fmt.Fprintf(out, "  Output dir:   %s\n", opts.outputDir)
	fmt.Fprintf(out, "  Timeout:      %v\n", opts.timeout)
	if cfg.LLM.Provider != "" {
		fmt.Fprintf(out, "  LLM:          %s/%s\n", cfg.LLM.Provider, cfg.LLM.Model)
	}
	fmt.Fprintln(out)

	if err := os.MkdirAll(opts.outputDir, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	p := pipeline.NewPipeline(cfg)
	processor := worker.NewBatchProcessor(p, cfg.Concurrency.Workers, cfg.RateLimiting.RequestsPerSecond, cfg.RateLimiting.BurstSize)

	fmt.Fprintf(out, "⚙️  Processing inputs with %d workers...\n\n", cfg.Concurrency.Workers)
	results, err := processor.ProcessFile(ctx, file)
	if err != nil {
		return fmt.Errorf("process file: %w", err)
	}

	writeBatchReports(out, p.Renderer(), results, opts.outputDir)

	summary := worker.Summarize(results)
	printBatchSummary(out, summary, opts.outputDir)

	if summary.Total > 0 && summary.Failed == summary.Total {
		return fmt.Errorf("all %d inputs failed", summary.Total)
	}
	return nil
}

func writeBatchReports(out io.Writer, renderer *pipeline.Renderer, results []*worker.BatchResult, outputDir string) {
	used := make(map[string]int)

	for _, result := range results {
		if result.Error != nil {
			fmt.Fprintf(out, "✗ %s: %v\n", result.Input, result.Error)
			continue
		}

		slug := uniqueSlug(used, sanitizeFilename(result.Input))
		jsonPath := filepath.Join(outputDir, slug+".json")
		mdPath := filepath.Join(outputDir, slug+".md")

		if err := renderer.RenderJSON(result.Report, jsonPath); err != nil {
			fmt.Fprintf(out, "✗ %s: failed to write JSON: %v\n", result.Input, err)
			continue
		}
		if err := renderer.RenderMarkdown(result.Report, mdPath); err != nil {
			fmt.Fprintf(out, "✗ %s: failed to write Markdown: %v\n", result.Input, err)
			continue
		}

		a := result.Report.Analysis
		fmt.Fprintf(out, "✓ %s (fake: %d%%, real: %d%%)\n", result.Input, a.FakePercent, a.RealPercent)
	}
}

func printBatchSummary(out io.Writer, s worker.Summary, outputDir string) {
	fmt.Fprintln(out)
	printBox(out, "Batch Complete")
	fmt.Fprintf(out, "  Total:        %d inputs\n", s.Total)
	fmt.Fprintf(out, "  Success:      %d\n", s.Total-s.Failed)
	fmt.Fprintf(out, "  Failures:     %d\n", s.Failed)
	fmt.Fprintln(out)
	fmt.Fprintf(out, "  Strong fake:  %d\n", s.StrongFake)
	fmt.Fprintf(out, "  Anomalies:    %d\n", s.Anomalies)
	fmt.Fprintf(out, "  Middle:       %d\n", s.Middle)
	fmt.Fprintf(out, "  Trustworthy:  %d\n", s.Trustworthy)
	fmt.Fprintf(out, "  Mean fake:    %.1f%%\n", s.MeanFakePercent)
	fmt.Fprintln(out)
	fmt.Fprintf(out, "  Output:       %s\n", outputDir)
	fmt.Fprintln(out)
}

func printBox(out io.Writer, title string) {
	fmt.Fprintln(out)
	fmt.Fprintln(out, "═══════════════════════════════════════════════════════════")
	fmt.Fprintf(out, "  %s\n", title)
	fmt.Fprintln(out, "═══════════════════════════════════════════════════════════")
	fmt.Fprintln(out)
}

var unsafeFilename = regexp.MustCompile(`[^\p{L}\p{N}._-]+`)

// sanitizeFilename turns a path or URL into a flat file name
func sanitizeFilename(s string) string {
	if pipeline.IsURL(s) {
		_, s, _ = strings.Cut(s, "://")
	} else {
		s = strings.TrimSuffix(s, filepath.Ext(s))
	}
	s = unsafeFilename.ReplaceAllString(s, "_")
	s = strings.Trim(s, "._")

	if r := []rune(s); len(r) > 100 {
		s = string(r[:100])
	}
	if s == "" {
		return "report"
	}
	return s
}

func uniqueSlug(used map[string]int, slug string) string {
	used[slug]++
	if n := used[slug]; n > 1 {
		return fmt.Sprintf("%s-%d", slug, n)
	}
	return slug
}
