package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/CyberBrown/solampio-web-sub002/internal/store"
	"github.com/CyberBrown/solampio-web-sub002/internal/urlpath"
)

// legacyRedirect intercepts inbound paths that match a persisted
// mapping and issues a 301 to the canonicalized target.
//
// Availability invariant: a failed mapping lookup must never turn into
// a user-facing failure. On any store error the request passes through
// unredirected and the error is only logged.
func (s *Server) legacyRedirect(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path

		// Reject fast: current-site routes and the root never need a
		// store lookup.
		if path == "/" || path == "" || s.isSkipped(path) {
			next.ServeHTTP(w, r)
			return
		}

		target, ok := s.lookupRedirect(r)
		if !ok {
			next.ServeHTTP(w, r)
			return
		}

		// No-op redirects would loop; serve the page instead.
		if target == path || target == path+"/" {
			next.ServeHTTP(w, r)
			return
		}

		s.logger.Info("legacy redirect",
			"old_url", path, "new_url", target)
		http.Redirect(w, r, target, http.StatusMovedPermanently)
	})
}

// lookupRedirect queries the mapping store for both slash variants of
// the request path and returns the canonicalized target.
//
// The sqlite store normalizes keys itself, which makes the second
// variant redundant against it. The loop stays because the contract is
// on MappingReader: implementations are not required to normalize, and
// the middleware promises a hit for either slash form regardless.
func (s *Server) lookupRedirect(r *http.Request) (string, bool) {
	path := r.URL.Path

	withSlash := path
	if !strings.HasSuffix(withSlash, "/") {
		withSlash += "/"
	}
	withoutSlash := strings.TrimSuffix(path, "/")

	for _, candidate := range []string{withSlash, withoutSlash} {
		if candidate == "" {
			continue
		}
		m, err := s.mappings.GetMapping(r.Context(), candidate)
		if err == nil {
			return urlpath.Canonicalize(m.NewURL), true
		}
		if !errors.Is(err, store.ErrNotFound) {
			// Fail open: a broken store lookup serves the request
			// unredirected rather than erroring.
			s.logger.Error("mapping lookup failed, serving without redirect",
				"path", path, "error", err)
			return "", false
		}
	}
	return "", false
}

// isSkipped reports whether the path belongs to the current site's own
// routes.
func (s *Server) isSkipped(path string) bool {
	for _, prefix := range s.skipPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}
