package pipeline

import (
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ppiankov/fakecheck/internal/model"
)

const noAnomalies = "No anomalies detected."

const footer = "_fakecheck scores writing style with keyword heuristics. It does not decide what is true._"

// Renderer writes reports as JSON, Markdown, HTML and terminal summaries
type Renderer struct {
	includeFooter bool
}

// NewRenderer creates a renderer
func NewRenderer(includeFooter bool) *Renderer {
	return &Renderer{includeFooter: includeFooter}
}

// RenderJSON writes the report as indented JSON to path
func (r *Renderer) RenderJSON(report *model.Report, path string) error {
	return writeFile(path, func(w io.Writer) error { return r.WriteJSON(w, report) })
}

// WriteJSON writes the report as indented JSON
func (r *Renderer) WriteJSON(w io.Writer, report *model.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(report)
}

// RenderMarkdown writes the Markdown report to path
func (r *Renderer) RenderMarkdown(report *model.Report, path string) error {
	return writeFile(path, func(w io.Writer) error { return r.WriteMarkdown(w, report) })
}

// WriteMarkdown writes a Markdown report
func (r *Renderer) WriteMarkdown(w io.Writer, report *model.Report) error {
	var b strings.Builder
	a := report.Analysis

	title := report.Subject
	if title == "" {
		title = "Untitled text"
	}

	fmt.Fprintf(&b, "# fakecheck: %s\n\n", escapeMarkdown(title))
	fmt.Fprintf(&b, "- Source: `%s` (%s)\n", report.Source, report.SourceKind)
	fmt.Fprintf(&b, "- Analyzed: %s\n", report.AnalyzedAt.Format("2006-01-02 15:04:05 MST"))
	fmt.Fprintf(&b, "- Words: %d\n\n", a.WordCount)

	b.WriteString("## Result\n\n")
	b.WriteString("| Tendency | Percent | Raw score |\n|---|---:|---:|\n")
	fmt.Fprintf(&b, "| Fake | %d%% | %.1f |\n", a.FakePercent, a.FakeScore)
	fmt.Fprintf(&b, "| Real | %d%% | %.1f |\n\n", a.RealPercent, a.RealScore)
	fmt.Fprintf(&b, "`%s`\n\n", textBar(a.FakePercent, 40))
	fmt.Fprintf(&b, "> %s\n\n", report.Hint)

	b.WriteString("## Evidence\n\n")
	if len(a.Flags) == 0 {
		b.WriteString(noAnomalies + "\n\n")
	} else {
		for _, f := range a.Flags {
			fmt.Fprintf(&b, "- **%s** (%s): %s\n", f.Kind.Label(), f.Category, f.Message)
		}
		b.WriteString("\n")
	}

	if len(report.Links) > 0 {
		b.WriteString("## Links\n\n")
		b.WriteString("Informational only; links do not change the score.\n\n")
		b.WriteString("| URL | Domain | Authority |\n|---|---|---|\n")
		for _, l := range report.Links {
			fmt.Fprintf(&b, "| %s | %s | %s |\n", l.URL, l.Domain, l.Authority)
		}
		b.WriteString("\n")
	}

	if report.LLM != nil && report.LLM.Enabled && report.LLM.SummaryMD != "" {
		fmt.Fprintf(&b, "## Commentary (%s/%s)\n\n", report.LLM.Provider, report.LLM.Model)
		b.WriteString("Generated after scoring; it has no influence on the percentages above.\n\n")
		b.WriteString(report.LLM.SummaryMD)
		b.WriteString("\n\n")
	}

	if r.includeFooter {
		b.WriteString("---\n\n" + footer + "\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// RenderHTML writes a standalone HTML preview to path
func (r *Renderer) RenderHTML(report *model.Report, path string) error {
	return writeFile(path, func(w io.Writer) error { return r.WriteHTML(w, report) })
}

// WriteHTML renders a standalone HTML preview with bars and highlighting
func (r *Renderer) WriteHTML(w io.Writer, report *model.Report) error {
	return htmlReport.Execute(w, htmlView{
		Report: report,
		// The highlighter escapes all literal text and only emits fixed mark tags
		Highlighted: template.HTML(report.HighlightedHTML), //nolint:gosec // escaped by highlight
		Footer:      r.includeFooter,
		FooterText:  footer,
		NoAnomalies: noAnomalies,
	})
}

// RenderLLMMarkdown writes LLM commentary to its own file
func (r *Renderer) RenderLLMMarkdown(markdown string, path string) error {
	return writeFile(path, func(w io.Writer) error {
		_, err := io.WriteString(w, markdown)
		return err
	})
}

// RenderSummary prints a short terminal summary
func (r *Renderer) RenderSummary(w io.Writer, report *model.Report) {
	a := report.Analysis

	fmt.Fprintln(w)
	fmt.Fprintln(w, "═══════════════════════════════════════════════════════════")
	fmt.Fprintf(w, "  %s\n", summaryTitle(report))
	fmt.Fprintln(w, "═══════════════════════════════════════════════════════════")
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  Fake  %3d%%  %s\n", a.FakePercent, textBar(a.FakePercent, 30))
	fmt.Fprintf(w, "  Real  %3d%%  %s\n", a.RealPercent, textBar(a.RealPercent, 30))
	fmt.Fprintf(w, "  Words %d\n", a.WordCount)
	fmt.Fprintln(w)

	if len(a.Flags) == 0 {
		fmt.Fprintf(w, "  %s\n", noAnomalies)
	}
	for _, f := range a.Flags {
		marker := "✗"
		if f.Kind == model.FlagReal {
			marker = "✓"
		}
		fmt.Fprintf(w, "  %s %s: %s\n", marker, f.Kind.Label(), f.Message)
	}

	if counts := linkCounts(report.Links); counts != "" {
		fmt.Fprintf(w, "\n  Links: %s\n", counts)
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "  %s\n", report.Hint)
	fmt.Fprintln(w)
}

func summaryTitle(report *model.Report) string {
	if report.Subject != "" {
		return report.Subject
	}
	return "fakecheck result"
}

// textBar renders percent as a fixed-width bar of █ and ░
func textBar(percent, width int) string {
	filled := percent * width / 100
	if filled < 0 {
		filled = 0
	}
	if filled > width {
		filled = width
	}
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

func linkCounts(links []model.Link) string {
	if len(links) == 0 {
		return ""
	}
	counts := map[model.AuthorityTier]int{}
	for _, l := range links {
		counts[l.Authority]++
	}
	var parts []string
	for _, tier := range []model.AuthorityTier{model.TierPrimary, model.TierSecondary, model.TierTertiary} {
		if counts[tier] > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", counts[tier], tier))
		}
	}
	return strings.Join(parts, ", ")
}

func escapeMarkdown(s string) string {
	return strings.NewReplacer("|", `\|`, "*", `\*`, "_", `\_`, "`", "'").Replace(s)
}

func writeFile(path string, write func(io.Writer) error) (err error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", path, closeErr)
		}
	}()

	return write(f)
}

type htmlView struct {
	Report      *model.Report
	Highlighted template.HTML
	Footer      bool
	FooterText  string
	NoAnomalies string
}

var htmlReport = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html lang="de">
<head>
<meta charset="utf-8">
<title>fakecheck: {{.Report.Subject}}</title>
<style>
body { font-family: system-ui, sans-serif; max-width: 52rem; margin: 2rem auto; padding: 0 1rem; color: #222; }
.bars { display: flex; height: 1.6rem; border-radius: .3rem; overflow: hidden; margin: 1rem 0; }
.bar-fake { background: #d9534f; color: #fff; padding-left: .4rem; }
.bar-real { background: #5cb85c; color: #fff; padding-left: .4rem; }
.flag-fake { color: #b52b27; }
.flag-real { color: #3d8b3d; }
.hint { background: #f6f6f6; border-left: 4px solid #999; padding: .6rem 1rem; }
.text { white-space: pre-wrap; line-height: 1.5; border: 1px solid #ddd; padding: 1rem; }
mark.hl-extra { background: #f3c4ff; }
mark.hl-fake { background: #ffc9c9; }
mark.hl-real { background: #c9f2d0; }
footer { margin-top: 2rem; font-size: .85rem; color: #666; }
</style>
</head>
<body>
<h1>{{if .Report.Subject}}{{.Report.Subject}}{{else}}Untitled text{{end}}</h1>
<p>{{.Report.Source}} · {{.Report.SourceKind}} · {{.Report.Analysis.WordCount}} words</p>
<div class="bars">
  <div class="bar-fake" style="width: {{.Report.Analysis.FakePercent}}%">{{.Report.Analysis.FakePercent}}% fake</div>
  <div class="bar-real" style="width: {{.Report.Analysis.RealPercent}}%">{{.Report.Analysis.RealPercent}}% real</div>
</div>
<p class="hint">{{.Report.Hint}}</p>
<h2>Evidence</h2>
{{with .Report.Analysis.Flags}}<ul>
{{range .}}  <li class="flag-{{.Kind}}"><strong>{{.Kind.Label}}:</strong> {{.Message}}</li>
{{end}}</ul>{{else}}<p>{{.NoAnomalies}}</p>{{end}}
{{with .Report.Links}}<h2>Links</h2>
<ul>
{{range .}}  <li><a href="{{.URL}}" rel="nofollow noopener">{{.URL}}</a> ({{.Authority}})</li>
{{end}}</ul>{{end}}
<h2>Text</h2>
<div class="text">{{.Highlighted}}</div>
{{if .Footer}}<footer>{{.FooterText}}</footer>{{end}}
</body>
</html>
`))
