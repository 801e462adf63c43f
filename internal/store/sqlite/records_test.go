package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/CyberBrown/solampio-web-sub002/internal/domain"
	"github.com/CyberBrown/solampio-web-sub002/internal/store"
)

func testRecords() []domain.LegacyURLRecord {
	return []domain.LegacyURLRecord{
		{ID: "r1", OldURL: "/solar-panels/", SourceType: domain.SourceCategory, Status: domain.StatusUnmapped},
		{ID: "r2", OldURL: "/brand/sol-ark/", SourceType: domain.SourceBrand, Status: domain.StatusUnmapped},
		{ID: "r3", OldURL: "/about-us/", SourceType: domain.SourcePage, Status: domain.StatusUnmapped},
	}
}

func TestImportLegacyRecords(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	n, err := s.ImportLegacyRecords(ctx, testRecords())
	if err != nil {
		t.Fatalf("ImportLegacyRecords: %v", err)
	}
	if n != 3 {
		t.Errorf("inserted: got %d, want 3", n)
	}

	// Re-import skips existing paths.
	n, err = s.ImportLegacyRecords(ctx, testRecords())
	if err != nil {
		t.Fatalf("re-import: %v", err)
	}
	if n != 0 {
		t.Errorf("re-import inserted: got %d, want 0", n)
	}
}

func TestImportLegacyRecords_InvalidSourceType(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.ImportLegacyRecords(ctx, []domain.LegacyURLRecord{
		{ID: "bad", OldURL: "/x/", SourceType: "widget"},
	})
	if err == nil {
		t.Fatal("expected error for invalid source type")
	}
	var storeErr *store.Error
	if !errors.As(err, &storeErr) {
		t.Fatalf("expected *store.Error, got %T: %v", err, err)
	}
}

func TestListLegacyRecords_FilterByStatus(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if _, err := s.ImportLegacyRecords(ctx, testRecords()); err != nil {
		t.Fatalf("import: %v", err)
	}
	if err := s.UpdateRecordStatus(ctx, "r1", domain.StatusMapped, "resolved"); err != nil {
		t.Fatalf("UpdateRecordStatus: %v", err)
	}

	unmapped, err := s.ListLegacyRecords(ctx, domain.StatusUnmapped)
	if err != nil {
		t.Fatalf("ListLegacyRecords: %v", err)
	}
	if len(unmapped) != 2 {
		t.Errorf("unmapped: got %d, want 2", len(unmapped))
	}

	all, err := s.ListLegacyRecords(ctx, "")
	if err != nil {
		t.Fatalf("ListLegacyRecords all: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("all: got %d, want 3", len(all))
	}
}

func TestUpdateRecordStatus_NotFound(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	err := s.UpdateRecordStatus(ctx, "nope", domain.StatusMapped, "")
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	var storeErr *store.Error
	if !errors.As(err, &storeErr) {
		t.Fatalf("expected *store.Error, got %T: %v", err, err)
	}
	if storeErr.Code != store.ErrNotFound.Code {
		t.Errorf("expected code %d, got %d", store.ErrNotFound.Code, storeErr.Code)
	}
}

func TestUpdateRecordStatus_InvalidStatus(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if _, err := s.ImportLegacyRecords(ctx, testRecords()); err != nil {
		t.Fatalf("import: %v", err)
	}

	if err := s.UpdateRecordStatus(ctx, "r1", "bogus", ""); err == nil {
		t.Fatal("expected error for invalid status")
	}
}
