package score

import (
	"strings"
	"testing"

	"github.com/ppiankov/fakecheck/internal/model"
)

func TestBuildHint_StrongFake(t *testing.T) {
	hint := BuildHint(model.AnalysisResult{
		FakePercent: 80,
		RealPercent: 20,
		WordCount:   100,
	})

	if !strings.HasPrefix(hint, tendencyStrongFake) {
		t.Errorf("Expected hint to start with strong tendency, got %q", hint)
	}
	if !strings.HasSuffix(hint, disclaimer) {
		t.Errorf("Expected hint to end with disclaimer, got %q", hint)
	}
	if strings.Contains(hint, extraordinaryNote) {
		t.Error("Did not expect extraordinary note")
	}
	if strings.Contains(hint, shortTextNote) {
		t.Error("Did not expect short text note for 100 words")
	}
}

func TestBuildHint_Order(t *testing.T) {
	hint := BuildHint(model.AnalysisResult{
		FakePercent:            60,
		WordCount:              12,
		HasExtraordinaryClaims: true,
	})

	expected := strings.Join([]string{tendencyAnomalies, extraordinaryNote, disclaimer, shortTextNote}, " ")
	if hint != expected {
		t.Errorf("Expected %q, got %q", expected, hint)
	}
}

func TestTendency_Thresholds(t *testing.T) {
	tests := []struct {
		fakePercent int
		expected    string
	}{
		{100, tendencyStrongFake},
		{71, tendencyStrongFake},
		{70, tendencyAnomalies},
		{56, tendencyAnomalies},
		{55, tendencyMiddle},
		{30, tendencyMiddle},
		{29, tendencyTrustworthy},
		{0, tendencyTrustworthy},
	}

	for _, tt := range tests {
		if got := Tendency(tt.fakePercent); got != tt.expected {
			t.Errorf("Tendency(%d): expected %q, got %q", tt.fakePercent, tt.expected, got)
		}
	}
}

func TestBuildHint_ShortTextNote(t *testing.T) {
	tests := []struct {
		wordCount int
		expected  bool
	}{
		{0, false},
		{1, true},
		{39, true},
		{40, false},
		{500, false},
	}

	for _, tt := range tests {
		hint := BuildHint(model.AnalysisResult{FakePercent: 50, RealPercent: 50, WordCount: tt.wordCount})
		if got := strings.HasSuffix(hint, shortTextNote); got != tt.expected {
			t.Errorf("WordCount %d: expected short note %v, got %v", tt.wordCount, tt.expected, got)
		}
	}
}

func TestBuildHint_FromAnalysis(t *testing.T) {
	result := Analyze(sensationalSample)
	hint := BuildHint(result)

	if !strings.HasPrefix(hint, tendencyStrongFake) {
		t.Errorf("Expected strong tendency for sensational sample, got %q", hint)
	}
	if !strings.Contains(hint, Disclaimer()) {
		t.Error("Expected disclaimer in hint")
	}
	if !strings.HasSuffix(hint, shortTextNote) {
		t.Error("Expected short text note for 9 words")
	}
}
