// Package store defines the mapping store contract shared by the
// resolver pipeline (sole writer), the redirect middleware, and the
// validation harness (readers).
package store

import (
	"context"

	"github.com/CyberBrown/solampio-web-sub002/internal/domain"
)

// MappingRecord is one persisted row of the mapping store, keyed by
// the normalized legacy path.
type MappingRecord struct {
	OldURL     string              `json:"old_url"`
	NewURL     string              `json:"new_url"`
	SourceType domain.SourceType   `json:"source_type"`
	Status     domain.RecordStatus `json:"status"`
	MatchedBy  string              `json:"matched_by"`
	Notes      string              `json:"notes,omitempty"`
}

// Stats summarizes the mapping store for operators.
type Stats struct {
	Total        int                         `json:"total"`
	BySourceType map[domain.SourceType]int   `json:"by_source_type"`
	ByStatus     map[domain.RecordStatus]int `json:"by_status"`
	ByMethod     map[string]int              `json:"by_method"`
}

// MappingReader is the read-only view used at request time and by the
// validation harness.
type MappingReader interface {
	// GetMapping looks up one mapping by exact normalized path.
	// Returns ErrNotFound when no mapping exists.
	GetMapping(ctx context.Context, oldURL string) (*MappingRecord, error)

	// ListMappings returns every persisted mapping (full table scan).
	ListMappings(ctx context.Context) ([]MappingRecord, error)

	// MappingStats returns summary counts.
	MappingStats(ctx context.Context) (*Stats, error)
}

// MappingWriter is the pipeline's write surface. The resolver CLI is
// the only component that holds one.
type MappingWriter interface {
	// UpsertMapping inserts or replaces the mapping for m.OldURL.
	UpsertMapping(ctx context.Context, m *MappingRecord) error

	// ImportLegacyRecords loads the fixed legacy URL export, skipping
	// paths already present.
	ImportLegacyRecords(ctx context.Context, records []domain.LegacyURLRecord) (int, error)

	// ListLegacyRecords returns legacy records, optionally filtered by
	// status ("" means all).
	ListLegacyRecords(ctx context.Context, status domain.RecordStatus) ([]domain.LegacyURLRecord, error)

	// UpdateRecordStatus transitions one legacy record.
	UpdateRecordStatus(ctx context.Context, id string, status domain.RecordStatus, notes string) error
}

// Store combines both surfaces.
type Store interface {
	MappingReader
	MappingWriter
	Close() error
}
