package fichas

import (
	"github.com/ukaji3/fichas-go/pkg/fichas/models"
	"github.com/ukaji3/fichas-go/pkg/fichas/parser"
)

// Extract turns raw fichas rows and person registry rows into the day's
// dashboard data.
func Extract(fichaRows, registryRows []models.Row, opts Options) *models.FetchResult {
	now := opts.Today()

	if len(fichaRows) == 0 {
		return &models.FetchResult{Inspections: []models.InspectionRecord{}}
	}

	controls, duplicates := parser.NewControlIndex(registryRows)

	mapped := parser.MapInspections(fichaRows, parser.MapOptions{
		Now:      now,
		Location: opts.Loc(),
		Controls: controls,
	})

	today := FilterDaily(mapped.Records, now)

	return &models.FetchResult{
		Inspections:       today,
		Stats:             Aggregate(today),
		SkippedRows:       mapped.Skipped,
		DuplicateControls: duplicates,
	}
}
