package model

// AnalysisResult is the outcome of scoring a single text.
// Values are created fresh per call and never mutated afterwards.
type AnalysisResult struct {
	FakePercent            int            `json:"fake_percent"`             // 0-100
	RealPercent            int            `json:"real_percent"`             // 100 - FakePercent
	FakeScore              float64        `json:"fake_score"`               // Raw additive fake points
	RealScore              float64        `json:"real_score"`               // Raw additive real points (after dampening)
	WordCount              int            `json:"word_count"`               // Tokens after punctuation stripping
	Flags                  []EvidenceFlag `json:"flags"`                    // One per triggered rule, in rule order
	HasExtraordinaryClaims bool           `json:"has_extraordinary_claims"` // Aliens, time travel, miracle cures...
}

// EvidenceFlag explains why a rule fired
type EvidenceFlag struct {
	Kind     FlagKind `json:"kind"`           // fake or real
	Category Category `json:"category"`       // Rule that produced the flag
	Message  string   `json:"message"`        // Human-readable explanation
	Hits     int      `json:"hits,omitempty"` // Match count, when the rule counts matches
}

// FlagKind tells which side of the scale a flag points to
type FlagKind string

const (
	FlagFake FlagKind = "fake"
	FlagReal FlagKind = "real"
)

// Label returns the display label used by renderers
func (k FlagKind) Label() string {
	if k == FlagFake {
		return "Warning sign"
	}
	return "Credibility hint"
}

// Category identifies a heuristic rule
type Category string

const (
	CategorySensational       Category = "sensational"        // Emotional, lurid vocabulary
	CategoryPunctuation       Category = "punctuation"        // Exclamation marks
	CategoryPunctuationCombo  Category = "punctuation_combo"  // "?!" and "!?"
	CategoryCapsLock          Category = "caps_lock"          // Fully upper-case words
	CategoryPolarizing        Category = "polarizing"         // Us-vs-them language
	CategoryVagueSource       Category = "vague_source"       // "They say", "allegedly"
	CategoryShortText         Category = "short_text"         // Fewer than 25 words
	CategorySourceIndicator   Category = "source_indicator"   // Institutions, agencies, studies
	CategoryNumbers           Category = "numbers"            // Figures and dates
	CategoryLinks             Category = "links"              // http(s) URLs
	CategorySoberTone         Category = "sober_tone"         // No exclamations, hardly any caps
	CategoryLongText          Category = "long_text"          // More than 200 words
	CategoryClickbaitHeadline Category = "clickbait_headline" // Clickbait phrase in the first line
	CategoryExtraordinary     Category = "extraordinary"      // Extraordinary claims
)

// FakeFlags returns only the flags pointing towards fake
func (r AnalysisResult) FakeFlags() []EvidenceFlag {
	return r.flagsOfKind(FlagFake)
}

// RealFlags returns only the flags pointing towards real
func (r AnalysisResult) RealFlags() []EvidenceFlag {
	return r.flagsOfKind(FlagReal)
}

func (r AnalysisResult) flagsOfKind(kind FlagKind) []EvidenceFlag {
	var out []EvidenceFlag
	for _, f := range r.Flags {
		if f.Kind == kind {
			out = append(out, f)
		}
	}
	return out
}
