package links

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/ppiankov/fakecheck/internal/model"
)

var urlPattern = regexp.MustCompile(`https?://\S+`)

// Inventory extracts links from plain text
type Inventory struct {
	classifier *Classifier
}

// NewInventory creates an inventory backed by the given classifier
func NewInventory(classifier *Classifier) *Inventory {
	if classifier == nil {
		classifier = NewClassifier(nil)
	}
	return &Inventory{classifier: classifier}
}

// Extract returns every distinct http(s) URL in text, in order of first
// appearance, with trailing sentence punctuation removed.
func (i *Inventory) Extract(text string) []model.Link {
	matches := urlPattern.FindAllString(text, -1)
	if len(matches) == 0 {
		return nil
	}

	seen := make(map[string]bool, len(matches))
	out := make([]model.Link, 0, len(matches))

	for _, raw := range matches {
		raw = trimURL(raw)

		parsed, err := url.Parse(raw)
		if err != nil || parsed.Hostname() == "" {
			continue
		}

		if seen[raw] {
			continue
		}
		seen[raw] = true

		host := strings.ToLower(parsed.Hostname())
		out = append(out, model.Link{
			URL:       raw,
			Host:      host,
			Domain:    RegistrableDomain(host),
			Authority: i.classifier.ClassifyHost(host),
		})
	}

	return out
}

// CountByTier tallies links per tier
func CountByTier(links []model.Link) map[model.AuthorityTier]int {
	counts := make(map[model.AuthorityTier]int)
	for _, l := range links {
		counts[l.Authority]++
	}
	return counts
}

// trimURL strips punctuation that usually ends the surrounding sentence,
// and a closing bracket without a matching opening one.
func trimURL(raw string) string {
	for {
		trimmed := strings.TrimRight(raw, ".,;:!?\"'»“”")
		if strings.HasSuffix(trimmed, ")") && strings.Count(trimmed, "(") < strings.Count(trimmed, ")") {
			trimmed = strings.TrimSuffix(trimmed, ")")
		}
		if trimmed == raw {
			return raw
		}
		raw = trimmed
	}
}
