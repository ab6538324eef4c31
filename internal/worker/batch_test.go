package worker

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ppiankov/fakecheck/internal/model"
)

// mockAnalyzer implements Analyzer
type mockAnalyzer struct {
	fail map[string]bool
	fake map[string]int

	mu    sync.Mutex
	calls []string
}

func (m *mockAnalyzer) AnalyzeInput(ctx context.Context, input string) (*model.Report, error) {
	m.mu.Lock()
	m.calls = append(m.calls, input)
	m.mu.Unlock()

	time.Sleep(5 * time.Millisecond)
	if m.fail[input] {
		return nil, errors.New("analysis error")
	}
	return &model.Report{
		Source:   input,
		Analysis: model.AnalysisResult{FakePercent: m.fake[input], RealPercent: 100 - m.fake[input]},
	}, nil
}

func writeInputs(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "inputs.txt")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestBatchProcessor_ProcessInputs(t *testing.T) {
	analyzer := &mockAnalyzer{}
	processor := NewBatchProcessor(analyzer, 3, 0, 0)

	inputs := []string{"a.txt", "http://example.com/1", "b.pdf", "https://news.example/x", "c.html"}
	results := processor.ProcessInputs(context.Background(), inputs)

	if len(results) != len(inputs) {
		t.Fatalf("expected %d results, got %d", len(inputs), len(results))
	}
	for i, res := range results {
		if res.Input != inputs[i] || res.Index != i {
			t.Errorf("expected input order preserved at %d, got %q (index %d)", i, res.Input, res.Index)
		}
		if res.Error != nil {
			t.Errorf("unexpected error for %s: %v", res.Input, res.Error)
		}
		if res.Report == nil || res.Report.Source != inputs[i] {
			t.Errorf("expected report for %s", res.Input)
		}
	}
}

func TestBatchProcessor_ProcessInputs_Many(t *testing.T) {
	processor := NewBatchProcessor(&mockAnalyzer{}, 2, 0, 0)

	inputs := make([]string, 40)
	for i := range inputs {
		inputs[i] = filepath.Join("texts", strings.Repeat("x", i+1)+".txt")
	}

	if got := len(processor.ProcessInputs(context.Background(), inputs)); got != len(inputs) {
		t.Errorf("expected %d results, got %d", len(inputs), got)
	}
}

func TestBatchProcessor_ProcessInputs_Error(t *testing.T) {
	analyzer := &mockAnalyzer{fail: map[string]bool{"broken.txt": true}}
	processor := NewBatchProcessor(analyzer, 2, 0, 0)

	results := processor.ProcessInputs(context.Background(), []string{"ok.txt", "broken.txt"})
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].Error != nil {
		t.Errorf("unexpected error: %v", results[0].Error)
	}
	if results[1].Error == nil || results[1].Report != nil {
		t.Error("expected error and nil report for broken input")
	}
}

func TestBatchProcessor_ProcessInputs_Empty(t *testing.T) {
	processor := NewBatchProcessor(&mockAnalyzer{}, 2, 0, 0)

	results := processor.ProcessInputs(context.Background(), nil)
	if results == nil || len(results) != 0 {
		t.Errorf("expected empty non-nil results, got %v", results)
	}
}

func TestBatchProcessor_RateLimitCancelled(t *testing.T) {
	analyzer := &mockAnalyzer{}
	processor := NewBatchProcessor(analyzer, 1, 0.01, 1)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	results := processor.ProcessInputs(ctx, []string{"http://example.com/1", "http://example.com/2"})

	var limited int
	for _, res := range results {
		if res.Error != nil && strings.Contains(res.Error.Error(), "rate limit") {
			limited++
		}
	}
	if limited != 1 {
		t.Errorf("expected the second request to the same host to hit the rate limit, got %d", limited)
	}
}

func TestBatchProcessor_ProcessInputs_Cancelled(t *testing.T) {
	analyzer := &mockAnalyzer{}
	processor := NewBatchProcessor(analyzer, 2, 0, 0)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	inputs := []string{"a.txt", "b.txt", "c.txt", "d.txt", "e.txt"}
	results := processor.ProcessInputs(ctx, inputs)

	if len(results) != len(inputs) {
		t.Fatalf("expected %d results, got %d", len(inputs), len(results))
	}
	for i, res := range results {
		if res == nil || res.Index != i || res.Input != inputs[i] {
			t.Fatalf("result %d out of place: %+v", i, res)
		}
		if !errors.Is(res.Error, context.Canceled) {
			t.Errorf("%s: expected context.Canceled, got %v", res.Input, res.Error)
		}
	}
	if len(analyzer.calls) != 0 {
		t.Errorf("expected no analysis after cancel, got %v", analyzer.calls)
	}

	s := Summarize(results)
	if s.Total != 5 || s.Failed != 5 {
		t.Errorf("unexpected summary for cancelled batch: %+v", s)
	}
}

func TestReadInputsFromFile(t *testing.T) {
	path := writeInputs(t, "http://example.com\n# comment\nmeldung.txt\n   \nhttp://example.com\n  artikel.pdf   ")

	inputs, err := ReadInputsFromFile(path)
	if err != nil {
		t.Fatalf("ReadInputsFromFile failed: %v", err)
	}

	expected := []string{"http://example.com", "meldung.txt", "artikel.pdf"}
	if len(inputs) != len(expected) {
		t.Fatalf("expected %v, got %v", expected, inputs)
	}
	for i := range expected {
		if inputs[i] != expected[i] {
			t.Errorf("expected %s at index %d, got %s", expected[i], i, inputs[i])
		}
	}
}

func TestReadInputsFromFile_NonExistent(t *testing.T) {
	if _, err := ReadInputsFromFile("non_existent_file.txt"); err == nil {
		t.Error("expected error for non-existent file, got nil")
	}
}

func TestBatchProcessor_ProcessFile(t *testing.T) {
	path := writeInputs(t, "a.txt\nb.txt\n# comment\n\nc.txt\n")
	processor := NewBatchProcessor(&mockAnalyzer{}, 2, 0, 0)

	results, err := processor.ProcessFile(context.Background(), path)
	if err != nil {
		t.Fatalf("ProcessFile failed: %v", err)
	}
	if len(results) != 3 {
		t.Errorf("expected 3 results, got %d", len(results))
	}

	if _, err := processor.ProcessFile(context.Background(), "no_such_file.txt"); err == nil {
		t.Error("expected error for non-existent file, got nil")
	}
}

func TestBatchResult_GetError(t *testing.T) {
	if (&BatchResult{}).GetError() != nil {
		t.Error("expected nil error")
	}

	expected := errors.New("analysis failed")
	if (&BatchResult{Error: expected}).GetError() != expected {
		t.Error("expected wrapped error to be returned")
	}
}

func TestSummarize(t *testing.T) {
	report := func(fake int) *model.Report {
		return &model.Report{Analysis: model.AnalysisResult{FakePercent: fake}}
	}

	s := Summarize([]*BatchResult{
		{Report: report(90)},
		{Report: report(71)},
		{Report: report(60)},
		{Report: report(55)},
		{Report: report(30)},
		{Report: report(10)},
		{Error: errors.New("boom")},
	})

	if s.Total != 7 || s.Failed != 1 {
		t.Errorf("unexpected totals: %+v", s)
	}
	if s.StrongFake != 2 || s.Anomalies != 1 || s.Middle != 2 || s.Trustworthy != 1 {
		t.Errorf("unexpected bands: %+v", s)
	}
	if s.MeanFakePercent != 316.0/6.0 {
		t.Errorf("unexpected mean: %v", s.MeanFakePercent)
	}

	if empty := Summarize(nil); empty.Total != 0 || empty.MeanFakePercent != 0 {
		t.Errorf("unexpected empty summary: %+v", empty)
	}
}
