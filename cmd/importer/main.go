// Command importer parses a freeform workout sheet file and merges it into
// the per-person store.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/1Lorenzo0/exercise-sheet-to-graph/internal/catalog"
	"github.com/1Lorenzo0/exercise-sheet-to-graph/internal/codec"
	"github.com/1Lorenzo0/exercise-sheet-to-graph/internal/parser"
	"github.com/1Lorenzo0/exercise-sheet-to-graph/internal/store"
)

func main() {
	var (
		name        = flag.String("name", "", "person the sheet belongs to")
		sheetPath   = flag.String("sheet", "", "path to the freeform sheet file")
		dataDir     = flag.String("data-dir", "./db", "directory holding person records")
		catalogPath = flag.String("catalog", "", "optional district catalog YAML for classifying exercises")
	)
	flag.Parse()

	if *name == "" || *sheetPath == "" {
		fmt.Fprintln(os.Stderr, "usage: importer -name <person> -sheet <file> [-data-dir <dir>] [-catalog <file>]")
		os.Exit(2)
	}

	person, err := parser.New().ParseFile(*name, *sheetPath)
	if err != nil {
		log.Fatalf("failed to parse sheet: %v", err)
	}
	if len(person.Exercises) == 0 {
		log.Fatalf("no parseable lines in %s", *sheetPath)
	}

	if *catalogPath != "" {
		cat, err := catalog.LoadFile(*catalogPath)
		if err != nil {
			log.Fatalf("failed to load catalog: %v", err)
		}
		for i := range person.Exercises {
			district, err := cat.DistrictOf(person.Exercises[i].Name)
			if err != nil {
				if errors.Is(err, catalog.ErrExerciseNotFound) {
					continue
				}
				log.Fatalf("catalog lookup failed: %v", err)
			}
			person.Exercises[i].District = district
		}
	}

	backend, err := store.NewFileStore(*dataDir)
	if err != nil {
		log.Fatalf("failed to open data dir: %v", err)
	}

	if err := store.New(backend, codec.YAML{}).Save(context.Background(), person); err != nil {
		log.Fatalf("failed to save record: %v", err)
	}

	log.Printf("merged %d exercises for %q into %s", len(person.Exercises), *name, *dataDir)
}
