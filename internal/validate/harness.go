// Package validate probes persisted mappings against a live site and
// reports whether each redirect behaves as the resolver intended.
package validate

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/CyberBrown/solampio-web-sub002/internal/domain"
	"github.com/CyberBrown/solampio-web-sub002/internal/ratelimit"
	"github.com/CyberBrown/solampio-web-sub002/internal/store"
	"github.com/CyberBrown/solampio-web-sub002/internal/urlpath"
)

const (
	// DefaultBatchSize bounds concurrent in-flight probes.
	DefaultBatchSize = 10

	// DefaultTimeout is the hard per-probe deadline.
	DefaultTimeout = 10 * time.Second

	// DefaultRatePerSecond paces probes so a validation run does not
	// look like an attack to the target environment.
	DefaultRatePerSecond = 25.0

	probeKey = "probe"
)

// Config holds harness tuning. Zero values fall back to the defaults
// above.
type Config struct {
	BaseURL       string
	BatchSize     int
	Timeout       time.Duration
	RatePerSecond float64
}

// Harness validates the full mapping set against a running deployment.
type Harness struct {
	baseURL   string
	batchSize int
	timeout   time.Duration
	client    *http.Client
	limiter   *ratelimit.KeyedRateLimiter
	logger    *slog.Logger
}

// New creates a harness for the given target environment. The HTTP
// client never follows redirects: the Location header is the thing
// under test.
func New(cfg Config, logger *slog.Logger) *Harness {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = DefaultBatchSize
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.RatePerSecond <= 0 {
		cfg.RatePerSecond = DefaultRatePerSecond
	}

	return &Harness{
		baseURL:   strings.TrimSuffix(cfg.BaseURL, "/"),
		batchSize: cfg.BatchSize,
		timeout:   cfg.Timeout,
		client: &http.Client{
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		limiter: ratelimit.New(cfg.RatePerSecond, cfg.BatchSize),
		logger:  logger,
	}
}

// Run probes every mapping in sequential batches. Each batch fans out
// one goroutine per record and joins before the next batch starts, so
// in-flight requests never exceed the batch size. A probe timeout or
// network error fails that record only; there is no retry.
func (h *Harness) Run(ctx context.Context, mappings []store.MappingRecord) (*Report, error) {
	report := NewReport(h.baseURL, len(mappings))

	for start := 0; start < len(mappings); start += h.batchSize {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		end := min(start+h.batchSize, len(mappings))
		batch := mappings[start:end]
		results := make([]domain.ValidationResult, len(batch))

		var wg sync.WaitGroup
		for i, m := range batch {
			wg.Add(1)
			go func() {
				defer wg.Done()
				results[i] = h.probe(ctx, m)
			}()
		}
		wg.Wait()

		for i := range results {
			report.Add(results[i])
		}

		h.logger.Debug("batch complete",
			"probed", end, "total", len(mappings), "failed", report.Failed)
	}

	report.Finish()
	return report, nil
}

// probe issues a single HEAD request and compares the response to the
// expected redirect behavior.
func (h *Harness) probe(ctx context.Context, m store.MappingRecord) domain.ValidationResult {
	oldPath := urlpath.NormalizedPath(m.OldURL)
	expected := urlpath.Canonicalize(m.NewURL)

	result := domain.ValidationResult{
		OldURL:      oldPath,
		ExpectedURL: expected,
	}

	if err := h.limiter.Wait(ctx, probeKey); err != nil {
		result.Err = err.Error()
		return result
	}

	probeCtx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(probeCtx, http.MethodHead, h.baseURL+oldPath, nil)
	if err != nil {
		result.Err = err.Error()
		return result
	}

	resp, err := h.client.Do(req)
	if err != nil {
		result.Err = err.Error()
		return result
	}
	defer resp.Body.Close()

	result.ActualStatus = resp.StatusCode
	result.ActualLocation = resp.Header.Get("Location")

	// Unchanged URLs should serve directly; any redirect there is a
	// regression. The comparison mirrors the middleware's no-op check:
	// the raw request path against the canonical target. Canonicalizing
	// the old path here would wrongly fold /products/X/ -> /X/ mappings
	// into this branch.
	if oldPath == expected {
		result.Passed = resp.StatusCode == http.StatusOK
		return result
	}

	if !isRedirect(resp.StatusCode) {
		return result
	}

	result.Passed = h.locationMatches(result.ActualLocation, expected)
	return result
}

// isRedirect reports whether the status is one the edge may use for a
// permanent or temporary mapping.
func isRedirect(status int) bool {
	switch status {
	case http.StatusMovedPermanently,
		http.StatusFound,
		http.StatusPermanentRedirect:
		return true
	}
	return false
}

// locationMatches compares an observed Location header to the expected
// canonical target. Servers may answer with a bare path or an absolute
// URL on the same origin, and trailing slashes are not significant for
// the comparison.
func (h *Harness) locationMatches(location, expected string) bool {
	if location == "" {
		return false
	}
	location = strings.TrimPrefix(location, h.baseURL)
	return strings.TrimSuffix(location, "/") == strings.TrimSuffix(expected, "/")
}
