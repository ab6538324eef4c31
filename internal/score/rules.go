package score

import (
	"regexp"
	"strings"

	"github.com/ppiankov/fakecheck/internal/model"
)

// KeywordRule is a substring rule: every keyword contained in the lowercased
// text counts as one hit, and the rule adds min(Cap, hits*PerHit) points.
type KeywordRule struct {
	Category model.Category
	Keywords []string
	PerHit   float64
	Cap      float64
	Target   model.FlagKind
}

// Hits counts how many distinct keywords occur in lower.
func (r KeywordRule) Hits(lower string) int {
	return countKeywordHits(lower, r.Keywords)
}

// Points returns the capped contribution for the given hit count.
func (r KeywordRule) Points(hits int) float64 {
	return capped(r.Cap, float64(hits)*r.PerHit)
}

// The keyword tables target German-language news text.
var (
	sensationalRule = KeywordRule{
		Category: model.CategorySensational,
		Keywords: []string{
			"skandal",
			"lüge",
			"lügenpresse",
			"unglaublich",
			"schockierend",
			"schock!",
			"hammer",
			"eskaliert",
			"endzeit",
			"katastrophe",
			"geheimnis",
			"verschwörung",
			"propaganda",
			"systemmedien",
			"was dir niemand sagt",
			"die wahrheit über",
			"wird dir nicht gefallen",
			"muss man gesehen haben",
			"für immer verändern",
		},
		PerHit: 4,
		Cap:    20,
		Target: model.FlagFake,
	}

	polarizingRule = KeywordRule{
		Category: model.CategoryPolarizing,
		Keywords: []string{
			"die da oben",
			"elite",
			"volk",
			"verraten",
			"verrat",
			"betrügen",
			"marionetten",
			"system",
			"schuld",
			"volksverräter",
			"böse",
			"feind",
		},
		PerHit: 3,
		Cap:    15,
		Target: model.FlagFake,
	}

	vagueSourceRule = KeywordRule{
		Category: model.CategoryVagueSource,
		Keywords: []string{
			"man sagt",
			"angeblich",
			"gerüchten zufolge",
			"ich habe gehört",
			"es heißt",
			"viele sagen",
		},
		PerHit: 4,
		Cap:    12,
		Target: model.FlagFake,
	}

	sourceIndicatorRule = KeywordRule{
		Category: model.CategorySourceIndicator,
		Keywords: []string{
			"quelle:",
			"laut ",
			"studie",
			"bericht",
			"statistik",
			"bundesamt",
			"institut",
			"universität",
			"forscher",
			"wissenschaftler",
			"daten von",
			"zitiert",
			"berichtete",
			"faktencheck",
			"dpa",
			"reuters",
			"ap news",
			"nasa",
			"esa",
		},
		PerHit: 2.5,
		Cap:    10,
		Target: model.FlagReal,
	}

	extraordinaryRule = KeywordRule{
		Category: model.CategoryExtraordinary,
		Keywords: []string{
			"außerirdisch",
			"außerirdische",
			"außerirdischen",
			"alien",
			"aliens",
			"ufo",
			"ufos",
			"raumschiff",
			"raumschiffe",
			"zeitreise",
			"zeitreisen",
			"wunderheilung",
			"wunderheiler",
			"übernatürlich",
			"paranormal",
			"telepathie",
			"geheime superwaffe",
			"geheime waffe",
		},
		PerHit: 7,
		Cap:    24,
		Target: model.FlagFake,
	}

	// Checked against the first line only; overlaps with sensationalRule on purpose.
	clickbaitPhrases = []string{
		"krass",
		"unglaublich",
		"mindblowing",
		"kaum zu glauben",
		"sprachlos",
	}
)

// Punctuation, statistics and fixed-bonus constants.
const (
	exclamationMin     = 3
	exclamationPerHit  = 2.0
	exclamationCap     = 15.0
	comboPerHit        = 3.0
	comboCap           = 8.0
	capsMinWords       = 3
	capsMinLength      = 4
	capsPerHit         = 2.0
	capsCap            = 15.0
	shortTextWords     = 25
	shortTextPoints    = 8.0
	numberPerHit       = 1.0
	numberCap          = 6.0
	linkPoints         = 2.0
	soberTonePoints    = 5.0
	soberToneMaxCaps   = 1
	longTextWords      = 200
	longTextPoints     = 3.0
	clickbaitPoints    = 12.0
	extraPenaltyRatio  = 0.6
	extraPenaltyPerHit = 6.0

	strongSensationalHits = 2
	strongPolarHits       = 1
	strongExclamations    = 5
	contextRealRatio      = 0.6
	contextEvidenceRatio  = 0.8
)

var (
	comboPattern  = regexp.MustCompile(`\?!|!\?`)
	numberPattern = regexp.MustCompile(`\d{2,4}`)
	urlPattern    = regexp.MustCompile(`https?://\S+`)
)

// SensationalKeywords returns a copy of the sensational keyword table.
func SensationalKeywords() []string { return clone(sensationalRule.Keywords) }

// PolarizingKeywords returns a copy of the polarizing keyword table.
func PolarizingKeywords() []string { return clone(polarizingRule.Keywords) }

// VagueSourceKeywords returns a copy of the vague-attribution table.
func VagueSourceKeywords() []string { return clone(vagueSourceRule.Keywords) }

// SourceIndicatorKeywords returns a copy of the source/institution table.
func SourceIndicatorKeywords() []string { return clone(sourceIndicatorRule.Keywords) }

// ExtraordinaryKeywords returns a copy of the extraordinary-claim table.
func ExtraordinaryKeywords() []string { return clone(extraordinaryRule.Keywords) }

// ClickbaitPhrases returns a copy of the headline clickbait table.
func ClickbaitPhrases() []string { return clone(clickbaitPhrases) }

func countKeywordHits(haystack string, keywords []string) int {
	hits := 0
	for _, kw := range keywords {
		if strings.Contains(haystack, kw) {
			hits++
		}
	}
	return hits
}

func capped(limit, points float64) float64 {
	if points > limit {
		return limit
	}
	return points
}

func clone(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	return out
}
