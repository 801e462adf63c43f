package sqlite

import (
	"context"
	"fmt"
	"strings"

	"github.com/CyberBrown/solampio-web-sub002/internal/domain"
	"github.com/CyberBrown/solampio-web-sub002/internal/store"
	"github.com/CyberBrown/solampio-web-sub002/internal/urlpath"
)

// ImportLegacyRecords loads the legacy URL export into the record
// table. Paths already present are skipped, so re-importing the fixed
// export is safe. Returns the number of newly inserted records.
func (s *Store) ImportLegacyRecords(ctx context.Context, records []domain.LegacyURLRecord) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin import: %w", err)
	}
	defer tx.Rollback()

	inserted := 0
	ts := now()
	for _, rec := range records {
		if !rec.SourceType.Valid() {
			return 0, store.ErrInvalidInput.WithCause(
				fmt.Errorf("record %q has invalid source type %q", rec.ID, rec.SourceType))
		}
		status := rec.Status
		if status == "" {
			status = domain.StatusUnmapped
		}

		res, err := tx.ExecContext(ctx, `
			INSERT INTO legacy_records (id, old_url, source_type, status, notes, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(old_url) DO NOTHING`,
			rec.ID,
			urlpath.NormalizedPath(rec.OldURL),
			string(rec.SourceType),
			string(status),
			rec.Notes,
			ts,
			ts,
		)
		if err != nil {
			if strings.Contains(err.Error(), "UNIQUE constraint failed") {
				return 0, store.ErrAlreadyExists.WithCause(err)
			}
			return 0, fmt.Errorf("import record %q: %w", rec.ID, err)
		}
		if n, _ := res.RowsAffected(); n > 0 {
			inserted++
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit import: %w", err)
	}
	return inserted, nil
}

// ListLegacyRecords returns legacy records ordered by old_url,
// optionally filtered by status ("" means all).
func (s *Store) ListLegacyRecords(ctx context.Context, status domain.RecordStatus) ([]domain.LegacyURLRecord, error) {
	query := `SELECT id, old_url, source_type, status, notes FROM legacy_records`
	args := []any{}
	if status != "" {
		query += ` WHERE status = ?`
		args = append(args, string(status))
	}
	query += ` ORDER BY old_url`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []domain.LegacyURLRecord
	for rows.Next() {
		var rec domain.LegacyURLRecord
		if err := rows.Scan(&rec.ID, &rec.OldURL, &rec.SourceType, &rec.Status, &rec.Notes); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// UpdateRecordStatus transitions one legacy record and appends notes.
// Returns store.ErrNotFound for an unknown record ID.
func (s *Store) UpdateRecordStatus(ctx context.Context, id string, status domain.RecordStatus, notes string) error {
	if !status.Valid() {
		return store.ErrInvalidInput.WithCause(fmt.Errorf("invalid status %q", status))
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE legacy_records SET status = ?, notes = ?, updated_at = ? WHERE id = ?`,
		string(status), notes, now(), id)
	if err != nil {
		return fmt.Errorf("update record %q: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return store.ErrNotFound
	}
	return nil
}
