package pipeline

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/ppiankov/fakecheck/internal/model"
)

func sampleReport() *model.Report {
	return &model.Report{
		ID:         "r1",
		Subject:    "Die Wahrheit <script>",
		Source:     "stdin",
		SourceKind: model.SourceText,
		AnalyzedAt: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
		Analysis: model.AnalysisResult{
			FakePercent: 80,
			RealPercent: 20,
			FakeScore:   24,
			WordCount:   12,
			Flags: []model.EvidenceFlag{
				{Kind: model.FlagFake, Category: model.CategorySensational, Message: "Sensational"},
			},
		},
		Hint:            "Hint text.",
		HighlightedHTML: `&lt;b&gt; <mark class="hl-fake">Skandal</mark>`,
		Principles:      model.DefaultPrinciples(),
	}
}

func TestRenderer_NoAnomalies(t *testing.T) {
	r := NewRenderer(false)
	report := sampleReport()
	report.Analysis.Flags = []model.EvidenceFlag{}

	var md, page, summary bytes.Buffer
	if err := r.WriteMarkdown(&md, report); err != nil {
		t.Fatal(err)
	}
	if err := r.WriteHTML(&page, report); err != nil {
		t.Fatal(err)
	}
	r.RenderSummary(&summary, report)

	for name, out := range map[string]string{"markdown": md.String(), "html": page.String(), "summary": summary.String()} {
		if !strings.Contains(out, noAnomalies) {
			t.Errorf("Expected %q in %s output", noAnomalies, name)
		}
	}
}

func TestRenderer_HTMLEscapesReportFields(t *testing.T) {
	var page bytes.Buffer
	if err := NewRenderer(true).WriteHTML(&page, sampleReport()); err != nil {
		t.Fatal(err)
	}
	out := page.String()

	if strings.Contains(out, "<script>") {
		t.Error("Expected subject to be escaped")
	}
	if !strings.Contains(out, `&lt;b&gt; <mark class="hl-fake">Skandal</mark>`) {
		t.Error("Expected highlighted markup to be embedded verbatim")
	}
	if !strings.Contains(out, "Warning sign:") {
		t.Error("Expected flag label")
	}
	if !strings.Contains(out, footer) {
		t.Error("Expected footer")
	}
}

func TestRenderer_MarkdownFooterToggle(t *testing.T) {
	var with, without bytes.Buffer
	_ = NewRenderer(true).WriteMarkdown(&with, sampleReport())
	_ = NewRenderer(false).WriteMarkdown(&without, sampleReport())

	if !strings.Contains(with.String(), footer) {
		t.Error("Expected footer when enabled")
	}
	if strings.Contains(without.String(), footer) {
		t.Error("Expected no footer when disabled")
	}
	if !strings.Contains(with.String(), "| Fake | 80% | 24.0 |") {
		t.Errorf("Expected result table, got:\n%s", with.String())
	}
}

func TestTextBar(t *testing.T) {
	tests := []struct {
		percent, width, filled int
	}{
		{0, 10, 0},
		{50, 10, 5},
		{100, 10, 10},
		{150, 10, 10},
		{-5, 10, 0},
	}

	for _, tt := range tests {
		bar := textBar(tt.percent, tt.width)
		if got := strings.Count(bar, "█"); got != tt.filled {
			t.Errorf("textBar(%d, %d): expected %d filled, got %d", tt.percent, tt.width, tt.filled, got)
		}
		if got := strings.Count(bar, "█") + strings.Count(bar, "░"); got != tt.width {
			t.Errorf("textBar(%d, %d): expected width %d, got %d", tt.percent, tt.width, tt.width, got)
		}
	}
}

func TestLinkCounts(t *testing.T) {
	got := linkCounts([]model.Link{
		{Authority: model.TierPrimary},
		{Authority: model.TierTertiary},
		{Authority: model.TierTertiary},
	})
	if got != "1 primary, 2 tertiary" {
		t.Errorf("Unexpected link counts: %q", got)
	}
	if linkCounts(nil) != "" {
		t.Error("Expected empty string without links")
	}
}
