package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/fakecheck/internal/model"
	"github.com/ppiankov/fakecheck/internal/pipeline"
	"github.com/ppiankov/fakecheck/internal/samples"
)

type analyzeOptions struct {
	fetch  fetchFlags
	llm    llmFlags
	output outputFlags

	text   string
	title  string
	sample string
}

var analyzeOpts analyzeOptions

var analyzeCmd = &cobra.Command{
	Use:   "analyze [file | url | -]",
	Short: "Score a single text, file or URL",
	Long: `Analyze scores one text for fake-news tendency and prints a summary.

The input is a file (plain text, HTML or PDF), an http(s) URL, "-" for stdin,
or literal text via --text. Without an argument, stdin is read.

Example:
  fakecheck analyze artikel.txt
  fakecheck analyze https://example.com/news --html report.html
  echo "Skandal!!!" | fakecheck analyze -
  fakecheck analyze --text "Laut Statistik wurden 2023 insgesamt 450 Fälle gezählt."
  fakecheck analyze --sample skandal --json report.json`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAnalyze(cmd, args, &analyzeOpts)
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	fs := analyzeCmd.Flags()
	fs.StringVar(&analyzeOpts.text, "text", "", "analyse literal text instead of an input")
	fs.StringVar(&analyzeOpts.title, "title", "", "subject shown in reports for --text and stdin")
	fs.StringVar(&analyzeOpts.sample, "sample", "", "analyse a built-in example text (see 'fakecheck samples')")
	analyzeOpts.fetch.register(fs)
	analyzeOpts.llm.register(fs)
	analyzeOpts.output.register(fs)
}

func runAnalyze(cmd *cobra.Command, args []string, opts *analyzeOptions) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	opts.fetch.apply(cmd.Flags(), cfg)
	opts.output.apply(cfg)
	if err := opts.llm.apply(cmd.Flags(), cfg); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(commandContext(cmd), analyzeTimeout(cfg))
	defer cancel()

	p := pipeline.NewPipeline(cfg)

	report, err := analyzeSource(ctx, p, cmd.InOrStdin(), args, opts)
	if err != nil {
		return err
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "✓ Analysed %s (%d words)\n", report.Source, report.Analysis.WordCount)
		if report.LLM != nil && report.LLM.Enabled {
			fmt.Fprintf(os.Stderr, "✓ Generated LLM commentary using %s/%s\n", report.LLM.Provider, report.LLM.Model)
		}
	}

	return p.RenderReport(cmd.OutOrStdout(), report, opts.output.jsonPath, opts.output.mdPath, opts.output.htmlPath, verbose)
}

// analyzeSource picks the input in order: --sample, --text, argument, stdin
func analyzeSource(ctx context.Context, p *pipeline.Pipeline, stdin io.Reader, args []string, opts *analyzeOptions) (*model.Report, error) {
	switch {
	case opts.sample != "":
		s, err := samples.Get(opts.sample)
		if err != nil {
			return nil, err
		}
		return p.AnalyzeText(ctx, s.Text, pipeline.Source{Subject: s.Title, Origin: "sample:" + s.Name})

	case opts.text != "":
		return p.AnalyzeText(ctx, opts.text, pipeline.Source{Subject: opts.title, Origin: "cli"})

	case len(args) == 0 || args[0] == "-":
		report, err := p.AnalyzeReader(ctx, stdin, "stdin")
		if err != nil {
			return nil, err
		}
		if opts.title != "" {
			report.Subject = opts.title
		}
		return report, nil

	default:
		if verbose {
			fmt.Fprintf(os.Stderr, "Analysing: %s\n", args[0])
		}
		return p.AnalyzeInput(ctx, args[0])
	}
}

// analyzeTimeout leaves room for fetch retries and LLM commentary
func analyzeTimeout(cfg *model.Config) time.Duration {
	timeout := 3 * cfg.HTTP.Timeout
	if cfg.LLM.Provider != "" {
		timeout += time.Duration(cfg.LLM.Timeout) * time.Second
	}
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}
	return timeout
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
