package fichas

import (
	"time"

	"github.com/ukaji3/fichas-go/pkg/fichas/models"
	"github.com/ukaji3/fichas-go/pkg/fichas/parser"
)

// IsToday reports whether a record's inspection date is the calendar day of now.
func IsToday(rec models.InspectionRecord, now time.Time) bool {
	return rec.DtInsp == parser.FormatDate(now)
}

// FilterDaily returns the records inspected on the calendar day of now.
// The result is never nil.
func FilterDaily(records []models.InspectionRecord, now time.Time) []models.InspectionRecord {
	out := make([]models.InspectionRecord, 0, len(records))
	for _, rec := range records {
		if IsToday(rec, now) {
			out = append(out, rec)
		}
	}
	return out
}

// Aggregate computes the dashboard counters over records.
func Aggregate(records []models.InspectionRecord) models.DashboardStats {
	people := make(map[string]bool)
	stats := models.DashboardStats{TotalFichas: len(records)}

	for _, rec := range records {
		if !parser.IsBlankDocument(rec.CPF) {
			people[rec.CPF] = true
		}
		switch rec.SexCategory {
		case models.SexMale:
			stats.Homens++
		case models.SexFemale:
			stats.Mulheres++
		}
	}

	stats.UniqueInspecionandos = len(people)
	return stats
}
