package catalog

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CyberBrown/solampio-web-sub002/internal/domain"
)

func strPtr(s string) *string { return &s }

func testSnapshot() *Snapshot {
	return &Snapshot{
		Categories: []domain.CategoryNode{
			{ID: "1", Slug: "solar-panels", Title: "Solar Panels"},
			{ID: "2", Slug: "off-grid-solar-panels", Title: "Off-Grid Solar Panels", ParentID: strPtr("1")},
			{ID: "3", Slug: "inverters", Title: "Inverters"},
			{ID: "4", Slug: "orphaned-child", Title: "Orphaned", ParentID: strPtr("999")},
		},
		Brands: []domain.Brand{
			{ID: "b1", Slug: "sol-ark", Title: "Sol-Ark"},
		},
	}
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestIndexLookups(t *testing.T) {
	idx := NewIndex(testSnapshot(), testLogger())

	node, ok := idx.Category("solar-panels")
	require.True(t, ok)
	assert.Equal(t, "1", node.ID)

	// Case-folded lookup.
	node, ok = idx.Category("Solar-Panels")
	require.True(t, ok)
	assert.Equal(t, "1", node.ID)

	_, ok = idx.Category("nonexistent")
	assert.False(t, ok)

	brand, ok := idx.Brand("SOL-ARK")
	require.True(t, ok)
	assert.Equal(t, "b1", brand.ID)
}

func TestIndexParentSlugOf(t *testing.T) {
	idx := NewIndex(testSnapshot(), testLogger())

	child, ok := idx.Category("off-grid-solar-panels")
	require.True(t, ok)

	parent, ok := idx.ParentSlugOf(child)
	require.True(t, ok)
	assert.Equal(t, "solar-panels", parent)

	// Root node has no parent.
	root, _ := idx.Category("solar-panels")
	_, ok = idx.ParentSlugOf(root)
	assert.False(t, ok)

	// Dangling parent degrades to top-level, never panics.
	orphan, _ := idx.Category("orphaned-child")
	_, ok = idx.ParentSlugOf(orphan)
	assert.False(t, ok)
}

func TestIndexSortedSlugs(t *testing.T) {
	idx := NewIndex(testSnapshot(), testLogger())

	slugs := idx.SortedSlugs()
	require.Len(t, slugs, 4)
	for i := 1; i < len(slugs); i++ {
		assert.Less(t, slugs[i-1], slugs[i], "slugs must be sorted")
	}
}

func TestLoadSnapshot(t *testing.T) {
	dir := t.TempDir()

	catPath := filepath.Join(dir, "categories.json")
	data, err := json.Marshal(testSnapshot().Categories)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(catPath, data, 0o644))

	snap, err := LoadSnapshot(catPath, "")
	require.NoError(t, err)
	assert.Len(t, snap.Categories, 4)
	assert.Empty(t, snap.Brands)
}

func TestLoadSnapshot_MissingFile(t *testing.T) {
	_, err := LoadSnapshot(filepath.Join(t.TempDir(), "nope.json"), "")
	assert.Error(t, err)
}

func TestLoadSnapshot_MalformedJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "categories.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := LoadSnapshot(path, "")
	assert.Error(t, err)
}

func TestSnapshotValidate_MissingSlug(t *testing.T) {
	snap := &Snapshot{
		Categories: []domain.CategoryNode{{ID: "1", Title: "No Slug"}},
	}
	assert.Error(t, snap.Validate())
}

func TestIndexDuplicateSlug_FirstNodeWins(t *testing.T) {
	snap := &Snapshot{
		Categories: []domain.CategoryNode{
			{ID: "1", Slug: "solar-panels", Title: "Solar Panels"},
			{ID: "2", Slug: "Solar-Panels", Title: "Duplicate"},
		},
	}

	// The dedupe must not depend on whether a logger was supplied.
	for _, logger := range []*slog.Logger{testLogger(), nil} {
		idx := NewIndex(snap, logger)

		node, ok := idx.Category("solar-panels")
		require.True(t, ok)
		assert.Equal(t, "1", node.ID)
		assert.Equal(t, 1, idx.CategoryCount())
	}
}
