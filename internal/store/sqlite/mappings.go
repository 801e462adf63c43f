package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/CyberBrown/solampio-web-sub002/internal/domain"
	"github.com/CyberBrown/solampio-web-sub002/internal/store"
	"github.com/CyberBrown/solampio-web-sub002/internal/urlpath"
)

// mappingColumns is the ordered list of columns selected in mapping
// queries. Must match the scan order in scanMapping.
const mappingColumns = `old_url, new_url, source_type, status, matched_by, notes`

// scanMapping scans a sql.Row (or sql.Rows via its Scan method) into a
// store.MappingRecord.
func scanMapping(scanner interface{ Scan(dest ...any) error }) (*store.MappingRecord, error) {
	var m store.MappingRecord
	err := scanner.Scan(
		&m.OldURL,
		&m.NewURL,
		&m.SourceType,
		&m.Status,
		&m.MatchedBy,
		&m.Notes,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// UpsertMapping inserts or replaces the mapping for m.OldURL.
// The key is normalized before writing so point lookups by path are
// exact. Returns store.ErrInvalidInput when MatchedBy is empty: the
// audit trail is mandatory.
func (s *Store) UpsertMapping(ctx context.Context, m *store.MappingRecord) error {
	if m.MatchedBy == "" {
		return store.ErrInvalidInput.WithCause(fmt.Errorf("mapping for %q has no matched_by", m.OldURL))
	}

	key := urlpath.NormalizedPath(m.OldURL)
	ts := now()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO mappings (old_url, new_url, source_type, status, matched_by, notes, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(old_url) DO UPDATE SET
			new_url = excluded.new_url,
			source_type = excluded.source_type,
			status = excluded.status,
			matched_by = excluded.matched_by,
			notes = excluded.notes,
			updated_at = excluded.updated_at`,
		key,
		m.NewURL,
		string(m.SourceType),
		string(m.Status),
		m.MatchedBy,
		m.Notes,
		ts,
		ts,
	)
	if err != nil {
		return fmt.Errorf("upsert mapping %q: %w", key, err)
	}
	return nil
}

// GetMapping looks up one mapping by exact normalized path.
// Returns store.ErrNotFound if no mapping exists.
func (s *Store) GetMapping(ctx context.Context, oldURL string) (*store.MappingRecord, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+mappingColumns+` FROM mappings WHERE old_url = ?`,
		urlpath.NormalizedPath(oldURL))

	m, err := scanMapping(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return m, nil
}

// ListMappings returns every persisted mapping ordered by old_url.
// The validation harness uses this for its full scan.
func (s *Store) ListMappings(ctx context.Context) ([]store.MappingRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+mappingColumns+` FROM mappings ORDER BY old_url`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var mappings []store.MappingRecord
	for rows.Next() {
		m, err := scanMapping(rows)
		if err != nil {
			return nil, err
		}
		mappings = append(mappings, *m)
	}
	return mappings, rows.Err()
}

// MappingStats returns summary counts across the mapping table and the
// legacy record table.
func (s *Store) MappingStats(ctx context.Context) (*store.Stats, error) {
	stats := &store.Stats{
		BySourceType: make(map[domain.SourceType]int),
		ByStatus:     make(map[domain.RecordStatus]int),
		ByMethod:     make(map[string]int),
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT source_type, matched_by, COUNT(*) FROM mappings GROUP BY source_type, matched_by`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			sourceType string
			matchedBy  string
			count      int
		)
		if err := rows.Scan(&sourceType, &matchedBy, &count); err != nil {
			return nil, err
		}
		stats.Total += count
		stats.BySourceType[domain.SourceType(sourceType)] += count
		stats.ByMethod[matchedBy] += count
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	statusRows, err := s.db.QueryContext(ctx,
		`SELECT status, COUNT(*) FROM legacy_records GROUP BY status`)
	if err != nil {
		return nil, err
	}
	defer statusRows.Close()

	for statusRows.Next() {
		var (
			status string
			count  int
		)
		if err := statusRows.Scan(&status, &count); err != nil {
			return nil, err
		}
		stats.ByStatus[domain.RecordStatus(status)] += count
	}
	return stats, statusRows.Err()
}
