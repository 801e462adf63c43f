package resolver

import (
	"fmt"
	"strings"

	"github.com/CyberBrown/solampio-web-sub002/internal/catalog"
	"github.com/CyberBrown/solampio-web-sub002/internal/domain"
	"github.com/CyberBrown/solampio-web-sub002/internal/urlpath"
)

// Resolution method names recorded in ResolvedMapping.MatchedBy.
const (
	MatchManual           = "manual mapping"
	MatchNested           = "nested match"
	MatchChildFixedParent = "child match (fixed parent)"
	MatchChildTopLevel    = "child match (top-level)"
	MatchParentOnly       = "parent only match"
	MatchExact            = "exact match"
	MatchExactWithParent  = "exact match (with parent)"
	MatchFuzzy            = "fuzzy match"
	MatchBrand            = "brand match"
	MatchPage             = "page mapping"
	MatchPageFallback     = "page fallback (home)"
	MatchDiscontinued     = "discontinued/internal product"
)

// ReasonNeedsSKULookup marks product records that escalate to the
// SKU-database lookup stage instead of resolving here.
const ReasonNeedsSKULookup = "needs SKU database lookup"

// Resolve computes the new-site target for one legacy URL record.
// Pure function of (record, index, rules): same inputs always produce
// the same outcome. Exactly one of the return values is non-nil.
//
// Tier order for categories: manual override, two-segment nested path,
// single-segment exact match, fuzzy match, unresolved. The first
// matching tier wins; later tiers are never consulted. Brands get the
// exact tier only, pages the static table with a home fallback, and
// products the discontinued-token heuristic before escalating.
func Resolve(rec domain.LegacyURLRecord, idx *catalog.Index, rules *Rules) (*domain.ResolvedMapping, *domain.Unresolved) {
	normPath := urlpath.NormalizedPath(rec.OldURL)
	segments := urlpath.Normalize(rec.OldURL)

	// Manual overrides outrank every computed tier for every source
	// type; they exist precisely to pin down the cases the catalog
	// tiers get wrong.
	if target, ok := rules.ManualTarget(normPath); ok {
		return resolved(rec, target, MatchManual), nil
	}

	if len(segments) == 0 {
		return nil, unresolved(rec, "empty path: "+rec.OldURL)
	}

	switch rec.SourceType {
	case domain.SourceCategory:
		return resolveCategory(rec, segments, idx)
	case domain.SourceBrand:
		return resolveBrand(rec, segments, idx)
	case domain.SourcePage:
		return resolvePage(rec, normPath, rules)
	case domain.SourceProduct:
		return resolveProduct(rec, normPath, rules)
	default:
		return nil, unresolved(rec, fmt.Sprintf("unknown source type %q", rec.SourceType))
	}
}

func resolveCategory(rec domain.LegacyURLRecord, segments []string, idx *catalog.Index) (*domain.ResolvedMapping, *domain.Unresolved) {
	last := segments[len(segments)-1]

	// Two-segment nested paths carry the old site's parent/child
	// structure; trust it only when the catalog confirms it.
	if len(segments) >= 2 {
		parentSeg := segments[len(segments)-2]
		parent, parentOK := idx.Category(parentSeg)
		child, childOK := idx.Category(last)

		switch {
		case parentOK && childOK && !child.IsRoot() && *child.ParentID == parent.ID:
			return resolved(rec, "/"+parentSeg+"/"+last+"/", MatchNested), nil

		case childOK:
			// The old parent segment is wrong or gone; recompute the
			// child's actual parent from the catalog.
			if actualParent, ok := idx.ParentSlugOf(child); ok {
				return resolved(rec, "/"+actualParent+"/"+last+"/", MatchChildFixedParent), nil
			}
			return resolved(rec, "/"+last+"/", MatchChildTopLevel), nil

		case parentOK:
			return resolved(rec, "/"+parentSeg+"/", MatchParentOnly), nil
		}
		// Neither segment matched: fall through to the single-segment
		// tiers treating the last segment as the candidate.
	}

	// Single-segment exact match.
	if node, ok := idx.Category(last); ok {
		if parentSlug, hasParent := idx.ParentSlugOf(node); hasParent {
			return resolved(rec, "/"+parentSlug+"/"+last+"/", MatchExactWithParent), nil
		}
		return resolved(rec, "/"+last+"/", MatchExact), nil
	}

	// Fuzzy match, scanned in sorted-slug order so tie-breaking is
	// stable across runs.
	key := urlpath.FuzzyKey(last)
	for _, slug := range idx.SortedSlugs() {
		if !urlpath.FuzzyEqual(key, urlpath.FuzzyKey(slug)) {
			continue
		}
		node, _ := idx.Category(slug)
		if parentSlug, hasParent := idx.ParentSlugOf(node); hasParent {
			return resolved(rec, "/"+parentSlug+"/"+slug+"/", MatchFuzzy), nil
		}
		return resolved(rec, "/"+slug+"/", MatchFuzzy), nil
	}

	return nil, unresolved(rec, "no match found for: "+rec.OldURL)
}

// resolveBrand has no fuzzy tier: the brand table is small and curated,
// so a wrong fuzzy hit costs more than an unresolved record.
func resolveBrand(rec domain.LegacyURLRecord, segments []string, idx *catalog.Index) (*domain.ResolvedMapping, *domain.Unresolved) {
	last := segments[len(segments)-1]
	if brand, ok := idx.Brand(last); ok {
		return resolved(rec, "/brands/"+strings.ToLower(brand.Slug)+"/", MatchBrand), nil
	}
	return nil, unresolved(rec, "no match found for: "+rec.OldURL)
}

// resolvePage sends unmatched informational pages home: a stale page
// redirecting to / is an acceptable fallback, not worth manual triage.
func resolvePage(rec domain.LegacyURLRecord, normPath string, rules *Rules) (*domain.ResolvedMapping, *domain.Unresolved) {
	if target, ok := rules.PageTarget(normPath); ok {
		return resolved(rec, target, MatchPage), nil
	}
	return resolved(rec, "/", MatchPageFallback), nil
}

func resolveProduct(rec domain.LegacyURLRecord, normPath string, rules *Rules) (*domain.ResolvedMapping, *domain.Unresolved) {
	for _, token := range rules.DiscontinuedTokens {
		if strings.Contains(normPath, token) {
			return resolved(rec, "/products/", MatchDiscontinued), nil
		}
	}
	// Real products need the SKU database; that lookup runs as a
	// separate stage against the catalog backend.
	return nil, unresolved(rec, ReasonNeedsSKULookup)
}

func resolved(rec domain.LegacyURLRecord, newURL, matchedBy string) *domain.ResolvedMapping {
	return &domain.ResolvedMapping{
		OldURL:     urlpath.NormalizedPath(rec.OldURL),
		NewURL:     newURL,
		SourceType: rec.SourceType,
		MatchedBy:  matchedBy,
		Notes:      rec.Notes,
	}
}

func unresolved(rec domain.LegacyURLRecord, reason string) *domain.Unresolved {
	return &domain.Unresolved{Record: rec, Reason: reason}
}
