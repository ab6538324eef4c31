// Package highlight marks evidence terms in raw text with <mark> tags.
package highlight

import (
	"sort"
	"strings"
	"unicode"
)

// Class is the CSS class attached to a marked span
type Class string

const (
	ClassExtra Class = "hl-extra" // extraordinary claims
	ClassFake  Class = "hl-fake"  // warning signs
	ClassReal  Class = "hl-real"  // credibility hints
)

// Category is a keyword set rendered with one class.
// Weight decides which category wins when two matches start together.
type Category struct {
	Class    Class
	Weight   int
	Keywords []string
}

// DefaultCategories returns the built-in categories, highest weight first.
func DefaultCategories() []Category {
	return []Category{
		{
			Class:  ClassExtra,
			Weight: 3,
			Keywords: []string{
				"außerirdisch", "außerirdische", "außerirdischen",
				"alien", "aliens", "ufo", "ufos",
				"raumschiff", "raumschiffe", "zeitreise", "zeitreisen",
				"wunderheilung", "wunderheiler", "übernatürlich",
				"paranormal", "telepathie",
				"geheime superwaffe", "geheime waffe",
			},
		},
		{
			Class:  ClassFake,
			Weight: 2,
			Keywords: []string{
				"skandal", "lüge", "lügenpresse", "unglaublich", "schockierend",
				"endzeit", "katastrophe", "verschwörung", "propaganda", "systemmedien",
				"die da oben", "elite", "volk", "verraten", "verrat", "betrügen",
				"marionetten", "volksverräter", "böse", "feind",
				"man sagt", "angeblich", "gerüchten zufolge", "ich habe gehört",
				"es heißt", "viele sagen",
			},
		},
		{
			Class:  ClassReal,
			Weight: 1,
			Keywords: []string{
				"quelle:", "studie", "bericht", "statistik", "bundesamt",
				"institut", "universität", "forscher", "wissenschaftler",
				"daten von", "zitiert", "berichtete", "faktencheck",
				"dpa", "reuters", "ap news", "nasa", "esa",
			},
		},
	}
}

// span is a half-open rune range [start, end) in the source text
type span struct {
	start  int
	end    int
	class  Class
	weight int
}

// Highlighter wraps keyword matches in <mark class="..."> tags.
// It is immutable after construction and safe for concurrent use.
type Highlighter struct {
	categories []Category
}

// New creates a highlighter with the default categories
func New() *Highlighter {
	return NewWithCategories(DefaultCategories())
}

// NewWithCategories creates a highlighter with custom categories.
// Keywords are lowercased once here.
func NewWithCategories(categories []Category) *Highlighter {
	cats := make([]Category, len(categories))
	for i, c := range categories {
		kws := make([]string, 0, len(c.Keywords))
		for _, kw := range c.Keywords {
			if kw = lowerRunes(kw); kw != "" {
				kws = append(kws, kw)
			}
		}
		cats[i] = Category{Class: c.Class, Weight: c.Weight, Keywords: kws}
	}
	return &Highlighter{categories: cats}
}

var defaultHighlighter = New()

// Highlight marks text with the default highlighter
func Highlight(rawText string) string {
	return defaultHighlighter.Highlight(rawText)
}

// Highlight returns HTML where literal text is escaped (&, <, > only) and
// every kept match is wrapped in a mark tag. Whitespace-only input yields "".
func (h *Highlighter) Highlight(rawText string) string {
	if strings.TrimSpace(rawText) == "" {
		return ""
	}

	text := []rune(rawText)
	lower := make([]rune, len(text))
	for i, r := range text {
		lower[i] = unicode.ToLower(r)
	}

	spans := h.collect(lower)
	if len(spans) == 0 {
		return escape(rawText)
	}

	sort.SliceStable(spans, func(i, j int) bool {
		if spans[i].start == spans[j].start {
			return spans[i].weight > spans[j].weight
		}
		return spans[i].start < spans[j].start
	})

	var b strings.Builder
	b.Grow(len(rawText) + len(spans)*24)

	cursor := 0
	for _, s := range resolve(spans) {
		if s.start > cursor {
			b.WriteString(escape(string(text[cursor:s.start])))
		}
		b.WriteString(`<mark class="`)
		b.WriteString(string(s.class))
		b.WriteString(`">`)
		b.WriteString(escape(string(text[s.start:s.end])))
		b.WriteString("</mark>")
		cursor = s.end
	}
	if cursor < len(text) {
		b.WriteString(escape(string(text[cursor:])))
	}

	return b.String()
}

// collect finds every occurrence of every keyword. Occurrences of the same
// keyword never overlap each other; the scan resumes after each match.
func (h *Highlighter) collect(lower []rune) []span {
	var spans []span
	for _, c := range h.categories {
		for _, kw := range c.Keywords {
			needle := []rune(kw)
			from := 0
			for {
				idx := indexRunes(lower, needle, from)
				if idx < 0 {
					break
				}
				end := idx + len(needle)
				spans = append(spans, span{start: idx, end: end, class: c.Class, weight: c.Weight})
				from = end
			}
		}
	}
	return spans
}

// resolve keeps spans greedily left to right, dropping any that start
// before the end of the last kept span. spans must already be sorted.
func resolve(spans []span) []span {
	kept := spans[:0:0]
	currentEnd := 0
	for _, s := range spans {
		if s.start >= currentEnd {
			kept = append(kept, s)
			currentEnd = s.end
		}
	}
	return kept
}

func indexRunes(haystack, needle []rune, from int) int {
	n := len(needle)
	for i := from; i+n <= len(haystack); i++ {
		match := true
		for j := 0; j < n; j++ {
			if haystack[i+j] != needle[j] {
				match = false
				break
			}
		}
		if match {
			return i
		}
	}
	return -1
}

// lowerRunes lowercases rune by rune so offsets stay aligned with the source
func lowerRunes(s string) string {
	return strings.Map(unicode.ToLower, s)
}

var htmlEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

func escape(s string) string {
	return htmlEscaper.Replace(s)
}
