package ingest

import (
	"fmt"

	"github.com/hweilin/aqtrack/internal/core/db"
	"github.com/hweilin/aqtrack/internal/core/models"
)

// Importer lands parsed export files in the staging table.
type Importer struct {
	db *db.DB
}

// New creates a new importer.
func New(database *db.DB) *Importer {
	return &Importer{db: database}
}

// FileResult summarizes one imported file.
type FileResult struct {
	Path     string
	Readings int
	Valid    int
}

// ImportFile parses one export file and stages its readings in a
// single transaction: the whole file commits or none of it does.
func (i *Importer) ImportFile(path string) (FileResult, error) {
	readings, err := ParseFile(path)
	if err != nil {
		return FileResult{}, err
	}

	if err := i.db.StageBatch(readings); err != nil {
		return FileResult{}, fmt.Errorf("stage %s: %w", path, err)
	}

	return FileResult{
		Path:     path,
		Readings: len(readings),
		Valid:    countValid(readings),
	}, nil
}

// ImportFiles runs a fresh import: the staging table is cleared, then
// each file is imported as its own atomic batch. A failing file stops
// the run; earlier files stay committed.
func (i *Importer) ImportFiles(paths []string, progress *ProgressReporter) ([]FileResult, error) {
	if err := i.db.ClearStaging(); err != nil {
		return nil, err
	}

	var results []FileResult
	for _, path := range paths {
		result, err := i.ImportFile(path)
		if err != nil {
			return results, err
		}
		results = append(results, result)
		if progress != nil {
			progress.Update(result.Path, result.Readings)
		}
	}
	return results, nil
}

func countValid(readings []models.StagedReading) int {
	n := 0
	for _, r := range readings {
		if r.IsValid {
			n++
		}
	}
	return n
}
