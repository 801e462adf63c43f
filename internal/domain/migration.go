// Package domain defines the core types for the legacy URL migration:
// legacy URL records, catalog snapshots, resolved mappings, and
// validation results.
package domain

import "fmt"

// SourceType classifies where a legacy URL came from on the old platform.
type SourceType string

// Source types present in the legacy URL export.
const (
	SourceCategory SourceType = "category"
	SourceBrand    SourceType = "brand"
	SourceProduct  SourceType = "product"
	SourcePage     SourceType = "page"
)

// Valid reports whether the source type is one of the known values.
func (s SourceType) Valid() bool {
	switch s {
	case SourceCategory, SourceBrand, SourceProduct, SourcePage:
		return true
	}
	return false
}

// RecordStatus tracks where a legacy URL record is in its lifecycle.
// Records are never deleted, only transitioned.
type RecordStatus string

// Record statuses.
const (
	StatusUnmapped    RecordStatus = "unmapped"
	StatusMapped      RecordStatus = "mapped"
	StatusNeedsReview RecordStatus = "needs_review"
)

// Valid reports whether the status is one of the known values.
func (s RecordStatus) Valid() bool {
	switch s {
	case StatusUnmapped, StatusMapped, StatusNeedsReview:
		return true
	}
	return false
}

// LegacyURLRecord is one path from the old platform's site structure.
// Created once from the legacy URL export; Status and Notes are mutated
// by pipeline stages as the record moves through resolution.
type LegacyURLRecord struct {
	ID         string       `json:"id"`
	OldURL     string       `json:"old_url"`
	SourceType SourceType   `json:"source_type"`
	Status     RecordStatus `json:"status"`
	Notes      string       `json:"notes,omitempty"`
}

// Transition moves the record to a new status, appending a note.
// Returns an error for unknown statuses so a typo in pipeline code
// cannot silently corrupt the record lifecycle.
func (r *LegacyURLRecord) Transition(to RecordStatus, note string) error {
	if !to.Valid() {
		return fmt.Errorf("invalid record status %q", to)
	}
	r.Status = to
	if note != "" {
		if r.Notes != "" {
			r.Notes += "; "
		}
		r.Notes += note
	}
	return nil
}

// CategoryNode is one node of the storefront category tree.
// The tree is shallow: root categories plus one level of children.
// ParentID is nil for root categories.
type CategoryNode struct {
	ID       string  `json:"id" validate:"required"`
	Slug     string  `json:"slug" validate:"required"`
	Title    string  `json:"title"`
	ParentID *string `json:"parent_id"`
}

// IsRoot reports whether the node has no parent.
func (c *CategoryNode) IsRoot() bool {
	return c.ParentID == nil || *c.ParentID == ""
}

// Brand is one storefront brand. Flat, no hierarchy.
type Brand struct {
	ID    string `json:"id" validate:"required"`
	Slug  string `json:"slug" validate:"required"`
	Title string `json:"title"`
}

// ResolvedMapping is the resolver's output for one legacy URL: the
// target path on the new site plus the resolution method that chose it.
// MatchedBy is the audit trail and must always be set.
type ResolvedMapping struct {
	OldURL     string     `json:"old_url"`
	NewURL     string     `json:"new_url"`
	SourceType SourceType `json:"source_type"`
	MatchedBy  string     `json:"matched_by"`
	Notes      string     `json:"notes,omitempty"`
}

// Unresolved is the resolver's outcome when no tier matched.
// The record travels to the next pipeline stage or to manual review.
type Unresolved struct {
	Record LegacyURLRecord `json:"record"`
	Reason string          `json:"reason"`
}

// ValidationResult is the outcome of probing one persisted mapping
// against the live site. Ephemeral; only persisted in the run's report.
type ValidationResult struct {
	OldURL         string `json:"old_url"`
	ExpectedURL    string `json:"expected_url"`
	ActualStatus   int    `json:"actual_status,omitempty"`
	ActualLocation string `json:"actual_location,omitempty"`
	Passed         bool   `json:"passed"`
	Err            string `json:"error,omitempty"`
}

// FailureReason groups a failed result for report summaries: the error
// message if the probe failed outright, otherwise the observed status.
func (v *ValidationResult) FailureReason() string {
	if v.Passed {
		return ""
	}
	if v.Err != "" {
		return v.Err
	}
	return fmt.Sprintf("status %d", v.ActualStatus)
}
