// Package catalog loads category/brand snapshots and builds the
// read-only lookup index the resolver works against.
package catalog

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"

	"github.com/CyberBrown/solampio-web-sub002/internal/domain"
)

// Snapshot holds one export of the storefront catalog. Produced by an
// external process, consumed read-only during resolution.
type Snapshot struct {
	Categories []domain.CategoryNode `json:"categories"`
	Brands     []domain.Brand        `json:"brands"`
}

var validate = validator.New()

// LoadSnapshot reads category and brand JSON exports from disk.
// Either path may be empty, which loads an empty set for that kind.
// A missing or malformed file is a fatal error: resolution without a
// trustworthy catalog would only produce garbage mappings.
func LoadSnapshot(categoriesPath, brandsPath string) (*Snapshot, error) {
	snap := &Snapshot{}

	if categoriesPath != "" {
		if err := loadJSON(categoriesPath, &snap.Categories); err != nil {
			return nil, fmt.Errorf("load categories: %w", err)
		}
	}
	if brandsPath != "" {
		if err := loadJSON(brandsPath, &snap.Brands); err != nil {
			return nil, fmt.Errorf("load brands: %w", err)
		}
	}

	if err := snap.Validate(); err != nil {
		return nil, err
	}
	return snap, nil
}

// Validate checks every snapshot record for required fields.
// A record without an ID or slug cannot participate in any tier, so a
// broken export fails fast instead of degrading silently.
func (s *Snapshot) Validate() error {
	for i := range s.Categories {
		if err := validate.Struct(&s.Categories[i]); err != nil {
			return fmt.Errorf("category %d: %w", i, err)
		}
	}
	for i := range s.Brands {
		if err := validate.Struct(&s.Brands[i]); err != nil {
			return fmt.Errorf("brand %d: %w", i, err)
		}
	}
	return nil
}

func loadJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}
