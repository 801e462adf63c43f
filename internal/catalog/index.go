package catalog

import (
	"log/slog"
	"sort"
	"strings"

	"github.com/CyberBrown/solampio-web-sub002/internal/domain"
)

// Index is the immutable per-run lookup structure over one catalog
// snapshot. Built once, passed by reference into the resolver; nothing
// mutates it after construction.
type Index struct {
	bySlug      map[string]*domain.CategoryNode
	byID        map[string]*domain.CategoryNode
	brandBySlug map[string]*domain.Brand
	sortedSlugs []string
}

// NewIndex builds an Index from a snapshot. Construction never fails:
// a dangling parent reference degrades the node to top-level and is
// logged as a warning, because resolution quality degrades gracefully
// while an aborted run helps nobody.
func NewIndex(snap *Snapshot, logger *slog.Logger) *Index {
	idx := &Index{
		bySlug:      make(map[string]*domain.CategoryNode, len(snap.Categories)),
		byID:        make(map[string]*domain.CategoryNode, len(snap.Categories)),
		brandBySlug: make(map[string]*domain.Brand, len(snap.Brands)),
	}

	for i := range snap.Categories {
		node := &snap.Categories[i]
		slug := strings.ToLower(node.Slug)
		// First node wins on duplicate slugs, logger or not.
		if prev, ok := idx.bySlug[slug]; ok {
			if logger != nil {
				logger.Warn("duplicate category slug in snapshot",
					"slug", slug, "kept_id", prev.ID, "dropped_id", node.ID)
			}
			continue
		}
		idx.bySlug[slug] = node
		idx.byID[node.ID] = node
	}

	// Dangling parents are detectable only after byID is complete.
	for _, node := range idx.bySlug {
		if node.IsRoot() {
			continue
		}
		if _, ok := idx.byID[*node.ParentID]; !ok {
			if logger != nil {
				logger.Warn("category has unresolvable parent, treating as top-level",
					"slug", node.Slug, "parent_id", *node.ParentID)
			}
		}
	}

	for i := range snap.Brands {
		brand := &snap.Brands[i]
		idx.brandBySlug[strings.ToLower(brand.Slug)] = brand
	}

	idx.sortedSlugs = make([]string, 0, len(idx.bySlug))
	for slug := range idx.bySlug {
		idx.sortedSlugs = append(idx.sortedSlugs, slug)
	}
	sort.Strings(idx.sortedSlugs)

	return idx
}

// Category returns the category with the given slug, case-folded.
func (idx *Index) Category(slug string) (*domain.CategoryNode, bool) {
	node, ok := idx.bySlug[strings.ToLower(slug)]
	return node, ok
}

// CategoryByID returns the category with the given ID.
func (idx *Index) CategoryByID(id string) (*domain.CategoryNode, bool) {
	node, ok := idx.byID[id]
	return node, ok
}

// Brand returns the brand with the given slug, case-folded.
func (idx *Index) Brand(slug string) (*domain.Brand, bool) {
	brand, ok := idx.brandBySlug[strings.ToLower(slug)]
	return brand, ok
}

// ParentSlugOf returns the slug of the node's parent category.
// A root node or a dangling parent reference reports no parent.
func (idx *Index) ParentSlugOf(node *domain.CategoryNode) (string, bool) {
	if node == nil || node.IsRoot() {
		return "", false
	}
	parent, ok := idx.byID[*node.ParentID]
	if !ok {
		return "", false
	}
	return strings.ToLower(parent.Slug), true
}

// SortedSlugs returns every category slug in ascending order. The fuzzy
// tier iterates this so tie-breaking is stable across runs instead of
// depending on map iteration order.
func (idx *Index) SortedSlugs() []string {
	return idx.sortedSlugs
}

// CategoryCount returns the number of indexed categories.
func (idx *Index) CategoryCount() int { return len(idx.bySlug) }

// BrandCount returns the number of indexed brands.
func (idx *Index) BrandCount() int { return len(idx.brandBySlug) }
