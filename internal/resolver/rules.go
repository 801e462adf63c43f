// Package resolver turns legacy URL records into resolved mappings via
// an ordered set of resolution tiers over the catalog index.
package resolver

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/CyberBrown/solampio-web-sub002/internal/urlpath"
)

// Rules holds the hand-curated tables the resolver consults before any
// catalog tier: exact manual overrides, the static page table, and the
// substrings that mark discontinued or internal-only product paths.
type Rules struct {
	// Manual maps a normalized legacy path to its destination. Checked
	// first for every source type.
	Manual map[string]string `toml:"manual"`

	// Pages maps a normalized legacy page path to its destination.
	// Pages with no entry fall back to home rather than manual review.
	Pages map[string]string `toml:"pages"`

	// DiscontinuedTokens are substrings that identify internal SKUs,
	// fee line-items, shipping placeholders and the like. A product
	// path containing one redirects to the catalog listing.
	DiscontinuedTokens []string `toml:"discontinued_tokens"`
}

// DefaultRules returns the compiled-in tables. A rules file merges on
// top of these; it never removes a default entry.
func DefaultRules() *Rules {
	return &Rules{
		Manual: map[string]string{},
		Pages: map[string]string{
			"/about-us/":         "/about/",
			"/contact-us/":       "/contact/",
			"/shipping-returns/": "/shipping-policy/",
			"/privacy-policy/":   "/privacy/",
			"/terms/":            "/terms-of-service/",
			"/faq/":              "/support/",
		},
		DiscontinuedTokens: []string{
			"shipping-fee",
			"freight-charge",
			"labor-fee",
			"deposit",
			"sample-item",
			"test-product",
			"internal-sku",
			"discontinued",
		},
	}
}

// LoadRules reads a TOML rules file and merges it over the defaults.
// An empty path returns the defaults unchanged. A missing or malformed
// file is fatal: a typo in a curated table should stop the run, not
// silently resolve everything through later tiers.
func LoadRules(path string) (*Rules, error) {
	rules := DefaultRules()
	if path == "" {
		return rules, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rules file: %w", err)
	}

	var overlay Rules
	if err := toml.Unmarshal(data, &overlay); err != nil {
		return nil, fmt.Errorf("parse rules file %s: %w", path, err)
	}

	for oldPath, target := range overlay.Manual {
		rules.Manual[urlpath.NormalizedPath(oldPath)] = target
	}
	for oldPath, target := range overlay.Pages {
		rules.Pages[urlpath.NormalizedPath(oldPath)] = target
	}
	rules.DiscontinuedTokens = append(rules.DiscontinuedTokens, overlay.DiscontinuedTokens...)

	return rules, nil
}

// ManualTarget returns the manual override for a normalized path.
func (r *Rules) ManualTarget(normalizedPath string) (string, bool) {
	target, ok := r.Manual[normalizedPath]
	return target, ok
}

// PageTarget returns the static page destination for a normalized path.
func (r *Rules) PageTarget(normalizedPath string) (string, bool) {
	target, ok := r.Pages[normalizedPath]
	return target, ok
}
