package urlpath

import "strings"

// productsPrefix is the catalog listing path on the new site. Individual
// product detail pages live at the site root; only the listing page
// itself legitimately keeps this prefix.
const productsPrefix = "/products/"

// Canonicalize applies the fixed transform every computed target goes
// through before being used as a redirect destination: strip a
// "/products/" prefix unless the target is exactly the listing page,
// then enforce a leading and trailing slash.
//
// The redirect middleware and the validation harness both call this
// function to compute, respectively, the actual redirect target and the
// expected one. Idempotent: Canonicalize(Canonicalize(x)) == Canonicalize(x).
func Canonicalize(newURL string) string {
	target := strings.TrimSpace(newURL)
	if target == "" {
		return "/"
	}

	if !strings.HasPrefix(target, "/") {
		target = "/" + target
	}
	if !strings.HasSuffix(target, "/") {
		target += "/"
	}

	if target != productsPrefix && strings.HasPrefix(target, productsPrefix) {
		target = "/" + strings.TrimPrefix(target, productsPrefix)
	}

	return target
}
