package score

import (
	"strings"

	"github.com/ppiankov/fakecheck/internal/model"
)

// Tendency thresholds on FakePercent
const (
	hintStrongFake   = 70
	hintAnomalies    = 55
	hintTrustworthy  = 30
	hintShortTextMax = 40
)

const (
	tendencyStrongFake  = "The text appears strongly untrustworthy. Check it carefully and be very cautious about sharing it."
	tendencyAnomalies   = "The text shows several anomalies. Stay critical and verify the information carefully."
	tendencyTrustworthy = "The text appears rather trustworthy. Still, stay critical and do not trust it blindly."
	tendencyMiddle      = "The text sits in the middle ground. Careful checking and additional research are especially important here."

	extraordinaryNote = "The text contains extraordinary or spectacular claims. For such topics in particular: extraordinary claims require extraordinarily good evidence."
	disclaimer        = "The result is only a heuristic estimate and replaces neither thorough research nor common sense."
	shortTextNote     = "Note: very short texts can only be analysed with limited reliability."
)

// BuildHint explains an analysis result in one short paragraph:
// tendency, extraordinary-claim note, disclaimer, short-text note.
func BuildHint(result model.AnalysisResult) string {
	parts := []string{Tendency(result.FakePercent)}

	if result.HasExtraordinaryClaims {
		parts = append(parts, extraordinaryNote)
	}

	parts = append(parts, disclaimer)

	if result.WordCount > 0 && result.WordCount < hintShortTextMax {
		parts = append(parts, shortTextNote)
	}

	return strings.Join(parts, " ")
}

// Tendency returns the tendency sentence for a fake percentage
func Tendency(fakePercent int) string {
	switch {
	case fakePercent > hintStrongFake:
		return tendencyStrongFake
	case fakePercent > hintAnomalies:
		return tendencyAnomalies
	case fakePercent < hintTrustworthy:
		return tendencyTrustworthy
	default:
		return tendencyMiddle
	}
}

// Disclaimer returns the fixed heuristic-only sentence
func Disclaimer() string {
	return disclaimer
}
