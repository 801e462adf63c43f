package api

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CyberBrown/solampio-web-sub002/internal/config"
	"github.com/CyberBrown/solampio-web-sub002/internal/domain"
	"github.com/CyberBrown/solampio-web-sub002/internal/store"
	"github.com/CyberBrown/solampio-web-sub002/internal/urlpath"
)

// stubReader is an in-memory MappingReader for handler tests.
type stubReader struct {
	mappings map[string]*store.MappingRecord
	err      error
}

func (f *stubReader) GetMapping(_ context.Context, oldURL string) (*store.MappingRecord, error) {
	if f.err != nil {
		return nil, f.err
	}
	if m, ok := f.mappings[oldURL]; ok {
		return m, nil
	}
	return nil, store.ErrNotFound
}

func (f *stubReader) ListMappings(context.Context) ([]store.MappingRecord, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make([]store.MappingRecord, 0, len(f.mappings))
	for _, m := range f.mappings {
		out = append(out, *m)
	}
	return out, nil
}

func (f *stubReader) MappingStats(context.Context) (*store.Stats, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &store.Stats{Total: len(f.mappings)}, nil
}

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{AdminRatePerMinute: 600, AdminBurst: 100},
		Redirect: config.RedirectConfig{
			SkipPrefixes: []string{"/api/", "/learn/", "/brands/"},
		},
	}
}

func newTestServer(t *testing.T, reader *stubReader) *Server {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	return NewServer(reader, testConfig(), logger)
}

func mappingFixtures() map[string]*store.MappingRecord {
	return map[string]*store.MappingRecord{
		"/old-panels/": {
			OldURL: "/old-panels/", NewURL: "/solar-panels/",
			SourceType: domain.SourceCategory, Status: domain.StatusMapped, MatchedBy: "exact match",
		},
		"/products/sa-12k-2p/": {
			OldURL: "/products/sa-12k-2p/", NewURL: "/products/SA-12K-2P/",
			SourceType: domain.SourceProduct, Status: domain.StatusMapped, MatchedBy: "manual mapping",
		},
		"/same/": {
			OldURL: "/same/", NewURL: "/same/",
			SourceType: domain.SourcePage, Status: domain.StatusMapped, MatchedBy: "page mapping",
		},
	}
}

func TestLegacyRedirect_Issues301(t *testing.T) {
	s := newTestServer(t, &stubReader{mappings: mappingFixtures()})

	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/old-panels/", nil))

	assert.Equal(t, http.StatusMovedPermanently, rec.Code)
	assert.Equal(t, "/solar-panels/", rec.Header().Get("Location"))
}

func TestLegacyRedirect_SlashVariants(t *testing.T) {
	s := newTestServer(t, &stubReader{mappings: mappingFixtures()})

	// The no-trailing-slash form still finds the mapping.
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/old-panels", nil))

	assert.Equal(t, http.StatusMovedPermanently, rec.Code)
	assert.Equal(t, "/solar-panels/", rec.Header().Get("Location"))
}

func TestLegacyRedirect_ProductPathServed(t *testing.T) {
	s := newTestServer(t, &stubReader{mappings: mappingFixtures()})

	// /products/ is not a skip prefix: legacy product URLs are keyed
	// under it and must redirect to their canonical detail page.
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/products/sa-12k-2p/", nil))

	assert.Equal(t, http.StatusMovedPermanently, rec.Code)
	assert.Equal(t, "/SA-12K-2P/", rec.Header().Get("Location"))
}

func TestLegacyRedirect_DiscontinuedProductRedirectsToListing(t *testing.T) {
	reader := &stubReader{mappings: map[string]*store.MappingRecord{
		"/products/shipping-fee-northeast/": {
			OldURL: "/products/shipping-fee-northeast/", NewURL: "/products/",
			SourceType: domain.SourceProduct, Status: domain.StatusMapped,
			MatchedBy: "discontinued/internal product",
		},
	}}
	s := newTestServer(t, reader)

	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/products/shipping-fee-northeast/", nil))

	// The listing page target survives canonicalization unchanged.
	assert.Equal(t, http.StatusMovedPermanently, rec.Code)
	assert.Equal(t, "/products/", rec.Header().Get("Location"))
}

func TestLegacyRedirect_TargetMatchesHarnessExpectation(t *testing.T) {
	reader := &stubReader{mappings: map[string]*store.MappingRecord{
		"/legacy-inverter/": {
			OldURL: "/legacy-inverter/", NewURL: "/products/SA-5K/",
			SourceType: domain.SourceProduct, Status: domain.StatusMapped, MatchedBy: "manual mapping",
		},
	}}
	s := newTestServer(t, reader)

	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/legacy-inverter/", nil))

	require.Equal(t, http.StatusMovedPermanently, rec.Code)
	// Middleware and harness share the same canonicalizer call.
	assert.Equal(t, urlpath.Canonicalize("/products/SA-5K/"), rec.Header().Get("Location"))
	assert.Equal(t, "/SA-5K/", rec.Header().Get("Location"))
}

func TestLegacyRedirect_NoOpAvoided(t *testing.T) {
	s := newTestServer(t, &stubReader{mappings: mappingFixtures()})

	// Mapping target equals the request path: no redirect, no loop.
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/same/", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code, "request falls through to normal routing")
	assert.Empty(t, rec.Header().Get("Location"))
}

func TestLegacyRedirect_SkipPrefixes(t *testing.T) {
	reader := &stubReader{mappings: mappingFixtures()}
	s := newTestServer(t, reader)

	for _, path := range []string{"/learn/solar-guide/", "/brands/sol-ark/"} {
		rec := httptest.NewRecorder()
		s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.NotEqual(t, http.StatusMovedPermanently, rec.Code, "path %s must bypass lookup", path)
	}
}

func TestLegacyRedirect_RootBypassed(t *testing.T) {
	s := newTestServer(t, &stubReader{mappings: mappingFixtures()})

	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.NotEqual(t, http.StatusMovedPermanently, rec.Code)
}

func TestLegacyRedirect_StoreErrorFailsOpen(t *testing.T) {
	broken := &stubReader{err: assert.AnError}
	s := newTestServer(t, broken)

	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/old-panels/", nil))

	// Lookup failure must never become a user-facing failure.
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Empty(t, rec.Header().Get("Location"))
}

func TestLegacyRedirect_UnknownPathPassesThrough(t *testing.T) {
	s := newTestServer(t, &stubReader{mappings: mappingFixtures()})

	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/never-mapped/", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
