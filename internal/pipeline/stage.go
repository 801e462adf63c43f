// Package pipeline orchestrates resolver runs over batches of legacy
// URL records: scoping, partitioning, persistence, and the file
// handoff between stages.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"

	"github.com/CyberBrown/solampio-web-sub002/internal/catalog"
	"github.com/CyberBrown/solampio-web-sub002/internal/domain"
	"github.com/CyberBrown/solampio-web-sub002/internal/resolver"
	"github.com/CyberBrown/solampio-web-sub002/internal/store"
)

// Scope controls which records a stage touches.
type Scope string

// Run scopes. UnmappedOnly is the default: a full re-run would silently
// revert manual corrections applied to the persisted mapping store.
const (
	ScopeUnmappedOnly Scope = "unmapped-only"
	ScopeAll          Scope = "all"
)

// Valid reports whether the scope is a known value.
func (s Scope) Valid() bool {
	return s == ScopeUnmappedOnly || s == ScopeAll
}

// StageResult is the typed output of one pipeline stage: the resolved
// and unresolved partitions plus per-method counts. Serializable to any
// storage medium; RunStage itself does no I/O.
type StageResult struct {
	Resolved   []domain.ResolvedMapping `json:"resolved"`
	Unresolved []domain.Unresolved      `json:"unresolved"`

	CountsByMethod map[string]int `json:"counts_by_method"`
	Skipped        int            `json:"skipped"`

	// resolvedIDs tracks the legacy record ID behind each entry of
	// Resolved so Persist can transition the record lifecycle.
	resolvedIDs []string
}

// RunStage resolves every in-scope record and partitions the outcomes.
// Pure function of its inputs. Records outside the scope are counted as
// skipped, never dropped silently.
func RunStage(records []domain.LegacyURLRecord, idx *catalog.Index, rules *resolver.Rules, scope Scope) *StageResult {
	result := &StageResult{
		CountsByMethod: make(map[string]int),
	}

	for _, rec := range records {
		if scope == ScopeUnmappedOnly && rec.Status == domain.StatusMapped {
			result.Skipped++
			continue
		}

		mapping, un := resolver.Resolve(rec, idx, rules)
		if mapping != nil {
			result.Resolved = append(result.Resolved, *mapping)
			result.resolvedIDs = append(result.resolvedIDs, rec.ID)
			result.CountsByMethod[mapping.MatchedBy]++
			continue
		}
		result.Unresolved = append(result.Unresolved, *un)
	}

	return result
}

// Persist writes the stage's resolved mappings into the mapping store
// and transitions the corresponding legacy records. A store error on
// one record is non-fatal: the record is moved to the unresolved set so
// the next run retries it, and the batch continues.
func (r *StageResult) Persist(ctx context.Context, s store.Store, logger *slog.Logger) {
	persisted := make([]domain.ResolvedMapping, 0, len(r.Resolved))
	persistedIDs := make([]string, 0, len(r.Resolved))
	failedWrites := make(map[string]bool)
	for i, m := range r.Resolved {
		rec := &store.MappingRecord{
			OldURL:     m.OldURL,
			NewURL:     m.NewURL,
			SourceType: m.SourceType,
			Status:     domain.StatusMapped,
			MatchedBy:  m.MatchedBy,
			Notes:      m.Notes,
		}
		if err := s.UpsertMapping(ctx, rec); err != nil {
			logger.Warn("mapping not persisted, will retry next run",
				"old_url", m.OldURL, "error", err)
			r.Unresolved = append(r.Unresolved, domain.Unresolved{
				Record: domain.LegacyURLRecord{
					ID:         r.resolvedIDs[i],
					OldURL:     m.OldURL,
					SourceType: m.SourceType,
					Status:     domain.StatusUnmapped,
				},
				Reason: fmt.Sprintf("store write failed: %v", err),
			})
			failedWrites[r.resolvedIDs[i]] = true
			r.CountsByMethod[m.MatchedBy]--
			continue
		}
		persisted = append(persisted, m)
		persistedIDs = append(persistedIDs, r.resolvedIDs[i])
	}
	r.Resolved = persisted
	r.resolvedIDs = persistedIDs

	for i, m := range r.Resolved {
		if r.resolvedIDs[i] == "" {
			continue
		}
		note := "resolved via " + m.MatchedBy
		if err := s.UpdateRecordStatus(ctx, r.resolvedIDs[i], domain.StatusMapped, note); err != nil {
			logger.Warn("record status not updated", "id", r.resolvedIDs[i], "error", err)
		}
	}

	for _, un := range r.Unresolved {
		if un.Record.ID == "" {
			continue
		}
		// A failed store write stays unmapped so the next run retries
		// it; only genuine resolution misses escalate to review.
		if failedWrites[un.Record.ID] {
			continue
		}
		if err := s.UpdateRecordStatus(ctx, un.Record.ID, domain.StatusNeedsReview, un.Reason); err != nil {
			logger.Warn("record status not updated", "id", un.Record.ID, "error", err)
		}
	}
}

// Summary writes the operator-facing report: totals, per-method counts
// in stable order, and the unresolved count.
func (r *StageResult) Summary(w io.Writer) {
	total := len(r.Resolved) + len(r.Unresolved)
	fmt.Fprintf(w, "processed %d records: %d resolved, %d unresolved, %d skipped\n",
		total+r.Skipped, len(r.Resolved), len(r.Unresolved), r.Skipped)

	methods := make([]string, 0, len(r.CountsByMethod))
	for m := range r.CountsByMethod {
		methods = append(methods, m)
	}
	sort.Strings(methods)
	for _, m := range methods {
		if r.CountsByMethod[m] > 0 {
			fmt.Fprintf(w, "  %-32s %d\n", m, r.CountsByMethod[m])
		}
	}
}
