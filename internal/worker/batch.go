package worker

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/ppiankov/fakecheck/internal/model"
)

// Analyzer turns one input (file path or URL) into a report
type Analyzer interface {
	AnalyzeInput(ctx context.Context, input string) (*model.Report, error)
}

// AnalysisJob analyses a single batch input
type AnalysisJob struct {
	Index    int
	Input    string
	Analyzer Analyzer
	Limiter  *Limiter // applied to URL inputs only; may be nil
}

// Execute runs the analysis
func (j *AnalysisJob) Execute(ctx context.Context) Result {
	result := &BatchResult{Index: j.Index, Input: j.Input}

	if j.Limiter != nil && isURL(j.Input) {
		if err := j.Limiter.Wait(ctx, j.Input); err != nil {
			result.Error = fmt.Errorf("rate limit: %w", err)
			return result
		}
	}

	result.Report, result.Error = j.Analyzer.AnalyzeInput(ctx, j.Input)
	return result
}

// BatchResult is the outcome for one input
type BatchResult struct {
	Index  int
	Input  string
	Report *model.Report
	Error  error
}

// GetError returns the analysis error
func (r *BatchResult) GetError() error {
	return r.Error
}

// BatchProcessor analyses many inputs concurrently
type BatchProcessor struct {
	analyzer    Analyzer
	concurrency int
	limiter     *Limiter
}

// NewBatchProcessor creates a batch processor. URL inputs are paced per
// host at requestsPerSecond; zero disables pacing.
func NewBatchProcessor(analyzer Analyzer, concurrency int, requestsPerSecond float64, burst int) *BatchProcessor {
	return &BatchProcessor{
		analyzer:    analyzer,
		concurrency: concurrency,
		limiter:     NewLimiter(requestsPerSecond, burst),
	}
}

// ErrNotProcessed marks an input the pool dropped without running it
var ErrNotProcessed = errors.New("input not processed")

// ProcessInputs analyses inputs and returns one result per input, in input
// order. Inputs left over after ctx is cancelled carry ctx's error.
func (b *BatchProcessor) ProcessInputs(ctx context.Context, inputs []string) []*BatchResult {
	if len(inputs) == 0 {
		return []*BatchResult{}
	}

	pool := NewPool(ctx, b.concurrency)
	pool.Start()

	go func() {
		defer pool.Close()
		for i, input := range inputs {
			if !pool.Submit(&AnalysisJob{Index: i, Input: input, Analyzer: b.analyzer, Limiter: b.limiter}) {
				return
			}
		}
	}()

	results := make([]*BatchResult, len(inputs))
	for r := range pool.Results() {
		res := r.(*BatchResult)
		results[res.Index] = res
	}

	for i, res := range results {
		if res != nil {
			continue
		}
		err := ctx.Err()
		if err == nil {
			err = ErrNotProcessed
		}
		results[i] = &BatchResult{Index: i, Input: inputs[i], Error: err}
	}
	return results
}

// ProcessFile reads inputs from a file and analyses them
func (b *BatchProcessor) ProcessFile(ctx context.Context, filePath string) ([]*BatchResult, error) {
	inputs, err := ReadInputsFromFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("read inputs: %w", err)
	}
	return b.ProcessInputs(ctx, inputs), nil
}

// ReadInputsFromFile reads one file path or URL per line.
// Blank lines and # comments are skipped; duplicates are dropped.
func ReadInputsFromFile(filePath string) ([]string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var inputs []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if !seen[line] {
			seen[line] = true
			inputs = append(inputs, line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}

	return inputs, nil
}

// Summary aggregates a batch run
type Summary struct {
	Total           int
	Failed          int
	StrongFake      int // FakePercent > 70
	Anomalies       int // FakePercent 56-70
	Middle          int // FakePercent 30-55
	Trustworthy     int // FakePercent < 30
	MeanFakePercent float64
}

// Summarize counts results per tendency band
func Summarize(results []*BatchResult) Summary {
	s := Summary{Total: len(results)}
	var sum int
	for _, r := range results {
		if r.Error != nil || r.Report == nil {
			s.Failed++
			continue
		}
		fake := r.Report.Analysis.FakePercent
		sum += fake
		switch {
		case fake > 70:
			s.StrongFake++
		case fake > 55:
			s.Anomalies++
		case fake < 30:
			s.Trustworthy++
		default:
			s.Middle++
		}
	}
	if ok := s.Total - s.Failed; ok > 0 {
		s.MeanFakePercent = float64(sum) / float64(ok)
	}
	return s
}

func isURL(s string) bool {
	lower := strings.ToLower(s)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}
