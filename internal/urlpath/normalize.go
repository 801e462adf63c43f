// Package urlpath provides the pure path transforms shared by the
// resolver, the redirect middleware, and the validation harness.
package urlpath

import "strings"

// Normalize lowercases a legacy URL, drops any query string or
// fragment, and splits it into non-empty path segments.
//
// Scheme and host are stripped first, so full URLs from the export
// behave the same as bare paths.
//
// Examples:
//
//	"/Solar-Panels/"          → ["solar-panels"]
//	"/a//b/?page=2"           → ["a", "b"]
//	"https://old.example/x/y" → ["x", "y"]
func Normalize(rawURL string) []string {
	s := strings.TrimSpace(rawURL)

	// Strip scheme and host if a full URL slipped into the export.
	if i := strings.Index(s, "://"); i >= 0 {
		s = s[i+3:]
		if j := strings.Index(s, "/"); j >= 0 {
			s = s[j:]
		} else {
			s = ""
		}
	}

	// Drop query and fragment.
	if i := strings.IndexAny(s, "?#"); i >= 0 {
		s = s[:i]
	}

	s = strings.ToLower(strings.Trim(s, "/"))
	if s == "" {
		return nil
	}

	parts := strings.Split(s, "/")
	segments := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			segments = append(segments, p)
		}
	}
	return segments
}

// NormalizedPath rebuilds the canonical lookup form of a legacy URL:
// lowercase, leading and trailing slash, no empty segments.
// The root path normalizes to "/".
func NormalizedPath(rawURL string) string {
	segments := Normalize(rawURL)
	if len(segments) == 0 {
		return "/"
	}
	return "/" + strings.Join(segments, "/") + "/"
}

// FuzzyKey collapses a slug for approximate comparison: lowercase with
// hyphens removed. Used only by the fuzzy tier, never for exact tiers.
func FuzzyKey(slug string) string {
	return strings.ReplaceAll(strings.ToLower(slug), "-", "")
}

// PluralVariants returns the singular/plural spellings of a fuzzy key
// that the fuzzy tier accepts as equal: the key itself, naive +s/+es
// forms, and the ies↔y swap, in both directions. The result is
// de-duplicated and ordered deterministically.
func PluralVariants(key string) []string {
	variants := []string{key, key + "s", key + "es"}

	if strings.HasSuffix(key, "ies") {
		variants = append(variants, strings.TrimSuffix(key, "ies")+"y")
	}
	if strings.HasSuffix(key, "y") {
		variants = append(variants, strings.TrimSuffix(key, "y")+"ies")
	}
	if strings.HasSuffix(key, "es") {
		variants = append(variants, strings.TrimSuffix(key, "es"))
	}
	if strings.HasSuffix(key, "s") {
		variants = append(variants, strings.TrimSuffix(key, "s"))
	}

	seen := make(map[string]bool, len(variants))
	out := variants[:0]
	for _, v := range variants {
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}

// FuzzyEqual reports whether two fuzzy keys match exactly or through a
// plural/singular variant.
func FuzzyEqual(a, b string) bool {
	if a == b {
		return true
	}
	for _, v := range PluralVariants(a) {
		if v == b {
			return true
		}
	}
	return false
}
