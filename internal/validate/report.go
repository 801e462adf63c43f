package validate

import (
	"encoding/json/v2"
	"fmt"
	"io"
	"os"
	"sort"
	"time"

	"github.com/CyberBrown/solampio-web-sub002/internal/domain"
	"github.com/CyberBrown/solampio-web-sub002/internal/id"
)

// Report accumulates the outcome of one validation run. It is the
// JSON artifact a deployment gate reads, so field names are stable.
type Report struct {
	RunID            string                    `json:"run_id"`
	BaseURL          string                    `json:"base_url"`
	StartedAt        time.Time                 `json:"started_at"`
	FinishedAt       time.Time                 `json:"finished_at"`
	Total            int                       `json:"total"`
	Passed           int                       `json:"passed"`
	Failed           int                       `json:"failed"`
	Failures         []domain.ValidationResult `json:"failures"`
	FailuresByReason map[string]int            `json:"failures_by_reason"`
}

// NewReport starts a report for a run over total mappings.
func NewReport(baseURL string, total int) *Report {
	return &Report{
		RunID:            id.MustGenerate("run"),
		BaseURL:          baseURL,
		StartedAt:        time.Now().UTC(),
		Total:            total,
		Failures:         []domain.ValidationResult{},
		FailuresByReason: map[string]int{},
	}
}

// Add records one probe outcome.
func (r *Report) Add(result domain.ValidationResult) {
	if result.Passed {
		r.Passed++
		return
	}
	r.Failed++
	r.Failures = append(r.Failures, result)
	r.FailuresByReason[result.FailureReason()]++
}

// Finish stamps the run end time.
func (r *Report) Finish() {
	r.FinishedAt = time.Now().UTC()
}

// OK reports whether every probe passed.
func (r *Report) OK() bool {
	return r.Failed == 0
}

// WriteJSON persists the report to path.
func (r *Report) WriteJSON(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create report file: %w", err)
	}
	defer f.Close()

	if err := json.MarshalWrite(f, r); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

// Summary prints a human-readable run summary.
func (r *Report) Summary(w io.Writer) {
	fmt.Fprintf(w, "validation run %s against %s\n", r.RunID, r.BaseURL)
	fmt.Fprintf(w, "  total:  %d\n", r.Total)
	fmt.Fprintf(w, "  passed: %d\n", r.Passed)
	fmt.Fprintf(w, "  failed: %d\n", r.Failed)

	if r.Failed == 0 {
		return
	}

	reasons := make([]string, 0, len(r.FailuresByReason))
	for reason := range r.FailuresByReason {
		reasons = append(reasons, reason)
	}
	sort.Strings(reasons)

	fmt.Fprintln(w, "  failures by reason:")
	for _, reason := range reasons {
		fmt.Fprintf(w, "    %-24s %d\n", reason, r.FailuresByReason[reason])
	}
	for _, f := range r.Failures {
		fmt.Fprintf(w, "    FAIL %s -> expected %s, got %s\n",
			f.OldURL, f.ExpectedURL, f.FailureReason())
	}
}
