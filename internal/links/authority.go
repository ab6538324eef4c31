// Package links lists the URLs a text points to and sorts them into
// authority tiers. The inventory is informational and never feeds the score.
package links

import (
	"net"
	"net/url"
	"strings"

	"golang.org/x/net/publicsuffix"

	"github.com/ppiankov/fakecheck/internal/model"
)

// Classifier maps link hosts to authority tiers
type Classifier struct {
	domainMap map[string]model.AuthorityTier
	primary   []string
	secondary []string
}

// NewClassifier creates a classifier from config; nil uses the defaults
func NewClassifier(config *model.AuthorityConfig) *Classifier {
	if config == nil {
		config = &model.DefaultConfig().Authority
	}

	c := &Classifier{
		domainMap: make(map[string]model.AuthorityTier, len(config.DomainMap)),
		primary:   normalizeDomains(config.PrimaryDomains),
		secondary: normalizeDomains(config.SecondaryDomains),
	}

	for host, tier := range config.DomainMap {
		c.domainMap[strings.ToLower(strings.TrimSpace(host))] = ParseTier(tier)
	}

	return c
}

// Classify returns the tier for a raw URL. Unparseable URLs are tertiary.
func (c *Classifier) Classify(rawURL string) model.AuthorityTier {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Hostname() == "" {
		return model.TierTertiary
	}
	return c.ClassifyHost(parsed.Hostname())
}

// ClassifyHost returns the tier for a bare host name
func (c *Classifier) ClassifyHost(host string) model.AuthorityTier {
	host = strings.TrimPrefix(strings.ToLower(host), "www.")

	if tier, ok := c.domainMap[host]; ok {
		return tier
	}
	if domain := RegistrableDomain(host); domain != host {
		if tier, ok := c.domainMap[domain]; ok {
			return tier
		}
	}

	if matchesAny(host, c.primary) {
		return model.TierPrimary
	}
	if matchesAny(host, c.secondary) {
		return model.TierSecondary
	}

	// UK academic institutions
	if strings.HasSuffix(host, ".ac.uk") {
		return model.TierPrimary
	}

	return model.TierTertiary
}

// RegistrableDomain returns the eTLD+1 of host, or host itself when the
// public suffix list has no answer (IP addresses, bare suffixes).
func RegistrableDomain(host string) string {
	if net.ParseIP(host) != nil {
		return host
	}
	domain, err := publicsuffix.EffectiveTLDPlusOne(host)
	if err != nil {
		return host
	}
	return domain
}

// ParseTier converts a config string to an AuthorityTier
func ParseTier(tier string) model.AuthorityTier {
	switch strings.ToLower(strings.TrimSpace(tier)) {
	case "primary", "1":
		return model.TierPrimary
	case "secondary", "2":
		return model.TierSecondary
	default:
		return model.TierTertiary
	}
}

// matchesAny reports whether host equals or is a subdomain of any entry.
// Entries may be bare suffixes like "gov".
func matchesAny(host string, domains []string) bool {
	for _, d := range domains {
		if host == d || strings.HasSuffix(host, "."+d) {
			return true
		}
	}
	return false
}

func normalizeDomains(in []string) []string {
	out := make([]string, 0, len(in))
	for _, d := range in {
		d = strings.Trim(strings.ToLower(strings.TrimSpace(d)), ".")
		if d != "" {
			out = append(out, d)
		}
	}
	return out
}
