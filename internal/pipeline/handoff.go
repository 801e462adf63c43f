package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/CyberBrown/solampio-web-sub002/internal/domain"
	"github.com/CyberBrown/solampio-web-sub002/internal/id"
)

// ReadUnresolved loads the previous stage's unresolved set and returns
// the legacy records to feed into this stage.
func ReadUnresolved(path string) ([]domain.LegacyURLRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read stage input: %w", err)
	}

	var unresolved []domain.Unresolved
	if err := json.Unmarshal(data, &unresolved); err != nil {
		return nil, fmt.Errorf("parse stage input %s: %w", path, err)
	}

	records := make([]domain.LegacyURLRecord, 0, len(unresolved))
	for _, un := range unresolved {
		records = append(records, un.Record)
	}
	return records, nil
}

// ReadLegacyExport loads the one-time legacy URL export: a JSON array
// of records carrying at least old_url and source_type. Records without
// an ID get one assigned; status defaults to unmapped.
func ReadLegacyExport(path string) ([]domain.LegacyURLRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read legacy export: %w", err)
	}

	var records []domain.LegacyURLRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parse legacy export %s: %w", path, err)
	}

	for i := range records {
		if records[i].ID == "" {
			records[i].ID = id.MustGenerate("rec")
		}
		if records[i].Status == "" {
			records[i].Status = domain.StatusUnmapped
		}
		if !records[i].SourceType.Valid() {
			return nil, fmt.Errorf("legacy export %s: record %q has invalid source_type %q",
				path, records[i].OldURL, records[i].SourceType)
		}
	}
	return records, nil
}

// WriteUnresolved persists this stage's unresolved set as the next
// stage's input. Always writes a valid JSON array, even when empty, so
// downstream stages never have to special-case a missing file.
func WriteUnresolved(path string, unresolved []domain.Unresolved) error {
	if unresolved == nil {
		unresolved = []domain.Unresolved{}
	}
	data, err := json.MarshalIndent(unresolved, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal unresolved set: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write stage output: %w", err)
	}
	return nil
}

// SQLStatements renders the stage's resolved mappings as UPDATE
// statements, mirroring what Persist writes through the store. Kept for
// operators who apply mapping batches to an external replica by hand.
func SQLStatements(resolved []domain.ResolvedMapping) []string {
	stmts := make([]string, 0, len(resolved))
	for _, m := range resolved {
		stmts = append(stmts, fmt.Sprintf(
			"UPDATE mappings SET new_url = '%s', matched_by = '%s', status = 'mapped' WHERE old_url = '%s';",
			sqlEscape(m.NewURL), sqlEscape(m.MatchedBy), sqlEscape(m.OldURL)))
	}
	return stmts
}

// WriteSQL writes the statement list to a file, one statement per line.
func WriteSQL(path string, stmts []string) error {
	content := strings.Join(stmts, "\n")
	if content != "" {
		content += "\n"
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("write sql output: %w", err)
	}
	return nil
}

func sqlEscape(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}
