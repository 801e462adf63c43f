// Package main runs one stage of the legacy URL resolution pipeline.
//
// Each stage reads its records, resolves them against the catalog
// snapshot, upserts the hits into the mapping store, and writes the
// misses for the next stage:
//
//	go run ./cmd/resolve -stage category -import legacy-urls.json \
//	    -categories categories.json -brands brands.json \
//	    -db ~/solampio/mappings.db -output unresolved-category.json
//	go run ./cmd/resolve -stage product -input unresolved-category.json ...
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/CyberBrown/solampio-web-sub002/internal/catalog"
	"github.com/CyberBrown/solampio-web-sub002/internal/domain"
	"github.com/CyberBrown/solampio-web-sub002/internal/logger"
	"github.com/CyberBrown/solampio-web-sub002/internal/pipeline"
	"github.com/CyberBrown/solampio-web-sub002/internal/resolver"
	"github.com/CyberBrown/solampio-web-sub002/internal/store/sqlite"
)

var (
	stage      = flag.String("stage", "", "source type to resolve: category, brand, page or product")
	scope      = flag.String("scope", string(pipeline.ScopeUnmappedOnly), "unmapped-only or all (all overwrites existing mappings, including manual corrections)")
	importPath = flag.String("import", "", "legacy URL export (JSON array) to load into the store before resolving")
	inputPath  = flag.String("input", "", "unresolved output of the previous stage; when empty, records come from the store")
	outputPath = flag.String("output", "", "where to write this stage's unresolved set (JSON array)")
	sqlPath    = flag.String("sql-output", "", "optional SQL statement list mirroring the resolved mappings")
	categories = flag.String("categories", "categories.json", "category snapshot path")
	brands     = flag.String("brands", "brands.json", "brand snapshot path")
	rulesPath  = flag.String("rules", "", "optional TOML rules file (manual overrides, page table, discontinued tokens)")
	dbPath     = flag.String("db", "", "mapping store path (default: $HOME/solampio/mappings.db)")
)

func main() {
	flag.Parse()

	sourceType := domain.SourceType(*stage)
	if !sourceType.Valid() {
		log.Fatalf("invalid -stage %q: want category, brand, page or product", *stage)
	}
	runScope := pipeline.Scope(*scope)
	if !runScope.Valid() {
		log.Fatalf("invalid -scope %q: want unmapped-only or all", *scope)
	}

	slogger := logger.New(logger.Config{Level: logger.ParseLevel(os.Getenv("LOG_LEVEL"))}).Logger

	snap, err := catalog.LoadSnapshot(*categories, *brands)
	if err != nil {
		log.Fatalf("load catalog snapshot: %v", err)
	}
	idx := catalog.NewIndex(snap, slogger)
	fmt.Printf("catalog: %d categories, %d brands\n", idx.CategoryCount(), idx.BrandCount())

	rules := resolver.DefaultRules()
	if *rulesPath != "" {
		if rules, err = resolver.LoadRules(*rulesPath); err != nil {
			log.Fatalf("load rules: %v", err)
		}
	}

	db, err := sqlite.Open(resolveDBPath(*dbPath), slogger)
	if err != nil {
		log.Fatalf("open mapping store: %v", err)
	}
	defer db.Close()

	ctx := context.Background()

	if *importPath != "" {
		records, err := pipeline.ReadLegacyExport(*importPath)
		if err != nil {
			log.Fatalf("import legacy export: %v", err)
		}
		inserted, err := db.ImportLegacyRecords(ctx, records)
		if err != nil {
			log.Fatalf("import legacy export: %v", err)
		}
		fmt.Printf("imported %d new legacy records (%d in file)\n", inserted, len(records))
	}

	records, err := stageRecords(ctx, db, sourceType)
	if err != nil {
		log.Fatalf("load stage records: %v", err)
	}
	fmt.Printf("stage %s: %d records\n", sourceType, len(records))

	result := pipeline.RunStage(records, idx, rules, runScope)
	result.Persist(ctx, db, slogger)

	if *outputPath != "" {
		if err := pipeline.WriteUnresolved(*outputPath, result.Unresolved); err != nil {
			log.Fatalf("write unresolved set: %v", err)
		}
	}
	if *sqlPath != "" {
		if err := pipeline.WriteSQL(*sqlPath, pipeline.SQLStatements(result.Resolved)); err != nil {
			log.Fatalf("write sql output: %v", err)
		}
	}

	result.Summary(os.Stdout)
}

// stageRecords selects this stage's input: the previous stage's
// unresolved file when given, otherwise every stored record of the
// stage's source type.
func stageRecords(ctx context.Context, db *sqlite.Store, sourceType domain.SourceType) ([]domain.LegacyURLRecord, error) {
	var records []domain.LegacyURLRecord
	var err error

	if *inputPath != "" {
		records, err = pipeline.ReadUnresolved(*inputPath)
	} else {
		records, err = db.ListLegacyRecords(ctx, "")
	}
	if err != nil {
		return nil, err
	}

	filtered := records[:0]
	for _, rec := range records {
		if rec.SourceType == sourceType {
			filtered = append(filtered, rec)
		}
	}
	return filtered, nil
}

func resolveDBPath(path string) string {
	if path != "" {
		return path
	}
	return os.ExpandEnv("$HOME/solampio/mappings.db")
}
