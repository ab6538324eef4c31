package score

import (
	"fmt"
	"math"
	"strings"
	"unicode"

	"github.com/ppiankov/fakecheck/internal/model"
)

// Scorer turns raw text into fake/real percentages and evidence flags.
// It holds no state; a single Scorer can be shared across goroutines.
type Scorer struct{}

// NewScorer creates a new scorer
func NewScorer() *Scorer {
	return &Scorer{}
}

var defaultScorer = NewScorer()

// Analyze scores text with the default scorer
func Analyze(rawText string) model.AnalysisResult {
	return defaultScorer.Analyze(rawText)
}

// textView holds the normalized forms every rule reads from
type textView struct {
	text  string   // trimmed original
	lower string   // lowercased copy for keyword matching
	words []string // letters/digits only, split on whitespace
}

func newTextView(rawText string) textView {
	text := strings.TrimSpace(rawText)
	return textView{
		text:  text,
		lower: strings.ToLower(text),
		words: splitWords(text),
	}
}

// tally accumulates points and flags in rule order
type tally struct {
	fake  float64
	real  float64
	flags []model.EvidenceFlag
}

func (t *tally) add(points float64, flag model.EvidenceFlag) {
	if flag.Kind == model.FlagFake {
		t.fake += points
	} else {
		t.real += points
	}
	t.flags = append(t.flags, flag)
}

// Analyze runs every heuristic rule and combines the scores.
// It never fails; empty input yields a 50/50 result with WordCount 0.
func (s *Scorer) Analyze(rawText string) model.AnalysisResult {
	v := newTextView(rawText)
	wordCount := len(v.words)

	t := tally{flags: []model.EvidenceFlag{}}

	// 1. Sensational / emotional vocabulary
	sensationalHits := sensationalRule.Hits(v.lower)
	if sensationalHits > 0 {
		t.add(sensationalRule.Points(sensationalHits), model.EvidenceFlag{
			Kind:     model.FlagFake,
			Category: model.CategorySensational,
			Message:  fmt.Sprintf("Sensational or strongly emotional language detected (%d hits).", sensationalHits),
			Hits:     sensationalHits,
		})
	}

	// 2. Many exclamation marks
	exclamations := strings.Count(v.text, "!")
	if exclamations >= exclamationMin {
		t.add(capped(exclamationCap, float64(exclamations)*exclamationPerHit), model.EvidenceFlag{
			Kind:     model.FlagFake,
			Category: model.CategoryPunctuation,
			Message:  fmt.Sprintf("Many exclamation marks (%d), which can indicate emotionalised content.", exclamations),
			Hits:     exclamations,
		})
	}

	// 3. "?!" and "!?" combinations
	combos := len(comboPattern.FindAllStringIndex(v.text, -1))
	if combos >= 1 {
		t.add(capped(comboCap, float64(combos)*comboPerHit), model.EvidenceFlag{
			Kind:     model.FlagFake,
			Category: model.CategoryPunctuationCombo,
			Message:  fmt.Sprintf("Punctuation combinations like \"?!\" found (%d hits), a sign of strong emotionalisation.", combos),
			Hits:     combos,
		})
	}

	// 4. CAPS LOCK words
	capsWords := countCapsWords(v.words)
	if capsWords >= capsMinWords {
		t.add(capped(capsCap, float64(capsWords)*capsPerHit), model.EvidenceFlag{
			Kind:     model.FlagFake,
			Category: model.CategoryCapsLock,
			Message:  fmt.Sprintf("Many fully capitalised words found (%d hits), which can indicate exaggeration.", capsWords),
			Hits:     capsWords,
		})
	}

	// 5. Polarizing, us-vs-them language
	polarHits := polarizingRule.Hits(v.lower)
	if polarHits > 0 {
		t.add(polarizingRule.Points(polarHits), model.EvidenceFlag{
			Kind:     model.FlagFake,
			Category: model.CategoryPolarizing,
			Message:  fmt.Sprintf("Strongly polarising, enemy-image language found (%d terms).", polarHits),
			Hits:     polarHits,
		})
	}

	// 6. Vague attribution
	vagueHits := vagueSourceRule.Hits(v.lower)
	if vagueHits > 0 {
		t.add(vagueSourceRule.Points(vagueHits), model.EvidenceFlag{
			Kind:     model.FlagFake,
			Category: model.CategoryVagueSource,
			Message:  fmt.Sprintf("Vague or unclear attribution detected (%d hits), no clear evidence given.", vagueHits),
			Hits:     vagueHits,
		})
	}

	// 7. Very short text
	if wordCount > 0 && wordCount < shortTextWords {
		t.add(shortTextPoints, model.EvidenceFlag{
			Kind:     model.FlagFake,
			Category: model.CategoryShortText,
			Message:  "Very short text: little information can easily be misleading.",
		})
	}

	// 8. Sources and institutions
	sourceHits := sourceIndicatorRule.Hits(v.lower)
	if sourceHits > 0 {
		t.add(sourceIndicatorRule.Points(sourceHits), model.EvidenceFlag{
			Kind:     model.FlagReal,
			Category: model.CategorySourceIndicator,
			Message:  fmt.Sprintf("References to sources or institutions found (%d hits).", sourceHits),
			Hits:     sourceHits,
		})
	}

	// 9. Numbers and dates
	numbers := len(numberPattern.FindAllStringIndex(v.text, -1))
	if numbers > 0 {
		t.add(capped(numberCap, float64(numbers)*numberPerHit), model.EvidenceFlag{
			Kind:     model.FlagReal,
			Category: model.CategoryNumbers,
			Message:  fmt.Sprintf("Numbers or dates found (%d hits). This can point to factual reporting, but does not have to.", numbers),
			Hits:     numbers,
		})
	}

	// 10. Links
	if urlPattern.MatchString(v.text) {
		t.add(linkPoints, model.EvidenceFlag{
			Kind:     model.FlagReal,
			Category: model.CategoryLinks,
			Message:  "Links or URLs found, which can point to further sources.",
		})
	}

	// 11. Sober tone
	if wordCount > 0 && exclamations == 0 && capsWords <= soberToneMaxCaps {
		t.add(soberTonePoints, model.EvidenceFlag{
			Kind:     model.FlagReal,
			Category: model.CategorySoberTone,
			Message:  "Few or no exclamation marks and hardly any capitalised words: the tone reads as sober.",
		})
	}

	// 12. Long text
	if wordCount > longTextWords {
		t.add(longTextPoints, model.EvidenceFlag{
			Kind:     model.FlagReal,
			Category: model.CategoryLongText,
			Message:  "Longer text with more context, which can indicate thorough reporting.",
		})
	}

	// 13. Clickbait in the headline (first line only)
	if hasClickbaitHeadline(v.text) {
		t.add(clickbaitPoints, model.EvidenceFlag{
			Kind:     model.FlagFake,
			Category: model.CategoryClickbaitHeadline,
			Message:  "Conspicuous words in the headline that can indicate clickbait.",
		})
	}

	// 14. Extraordinary claims push towards fake even when the style is sober
	extraHits := extraordinaryRule.Hits(v.lower)
	hasExtraordinary := extraHits > 0
	if hasExtraordinary {
		t.add(extraordinaryRule.Points(extraHits), model.EvidenceFlag{
			Kind:     model.FlagFake,
			Category: model.CategoryExtraordinary,
			Message:  "The text contains extraordinary or spectacular claims (e.g. aliens, the supernatural). Such topics call for particular caution.",
			Hits:     extraHits,
		})
		t.real -= math.Min(t.real*extraPenaltyRatio, float64(extraHits)*extraPenaltyPerHit)
	}

	// Strong fake signals must not be outweighed by a sober style
	strongFakeContext := hasExtraordinary ||
		sensationalHits >= strongSensationalHits ||
		polarHits >= strongPolarHits ||
		exclamations >= strongExclamations

	if strongFakeContext && t.real > t.fake*contextRealRatio {
		t.real = t.fake * contextRealRatio
	}

	fakePercent, realPercent := evidenceRatio(t.fake, t.real, strongFakeContext)

	return model.AnalysisResult{
		FakePercent:            fakePercent,
		RealPercent:            realPercent,
		FakeScore:              t.fake,
		RealScore:              t.real,
		WordCount:              wordCount,
		Flags:                  t.flags,
		HasExtraordinaryClaims: hasExtraordinary,
	}
}

// evidenceRatio converts raw scores into percentages via
// (1+fake) / ((1+fake) + (1+real)) instead of subtracting them.
func evidenceRatio(fakeScore, realScore float64, strongFakeContext bool) (int, int) {
	fakeEvidence := 1 + fakeScore
	realEvidence := 1 + realScore

	if strongFakeContext && realEvidence > fakeEvidence*contextEvidenceRatio {
		realEvidence = fakeEvidence * contextEvidenceRatio
	}

	total := fakeEvidence + realEvidence

	fakePercent := 50
	if total > 0 {
		fakePercent = int(math.Round(fakeEvidence / total * 100))
	}
	realPercent := 100 - fakePercent

	return clampPercent(fakePercent), clampPercent(realPercent)
}

func clampPercent(p int) int {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}

// splitWords replaces everything except Latin-script letters, ASCII digits
// and whitespace with spaces and splits the result into tokens.
func splitWords(text string) []string {
	normalized := strings.Map(func(r rune) rune {
		if unicode.Is(unicode.Latin, r) || (r >= '0' && r <= '9') || unicode.IsSpace(r) {
			return r
		}
		return ' '
	}, text)
	return strings.Fields(normalized)
}

// countCapsWords counts words with at least capsMinLength upper-case letters
// and no lower-case ones. Caseless letters count toward neither, and a
// lowercase-only rune like "ß" disqualifies a word.
func countCapsWords(words []string) int {
	count := 0
	for _, w := range words {
		if isCapsWord(w) {
			count++
		}
	}
	return count
}

func isCapsWord(word string) bool {
	upper := 0
	for _, r := range word {
		switch {
		case unicode.IsLower(r):
			return false
		case unicode.IsUpper(r):
			upper++
		}
	}
	return upper >= capsMinLength
}

func hasClickbaitHeadline(text string) bool {
	firstLine, _, _ := strings.Cut(text, "\n")
	firstLine = strings.ToLower(firstLine)
	for _, phrase := range clickbaitPhrases {
		if strings.Contains(firstLine, phrase) {
			return true
		}
	}
	return false
}
