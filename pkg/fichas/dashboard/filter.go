package dashboard

import (
	"strings"

	"github.com/ukaji3/fichas-go/pkg/fichas/models"
	"golang.org/x/text/cases"
)

// Matches reports whether rec passes the text filter: a case-folded
// substring of the name, or a case-sensitive substring of the CPF, RG or
// display code. The empty query matches every record.
func Matches(rec models.InspectionRecord, query string) bool {
	if query == "" {
		return true
	}
	fold := cases.Fold()
	if strings.Contains(fold.String(rec.Nome), fold.String(query)) {
		return true
	}
	return strings.Contains(rec.CPF, query) ||
		strings.Contains(rec.RG, query) ||
		strings.Contains(rec.CodInsp, query)
}

// Filter returns the records matching query, in order.
func Filter(records []models.InspectionRecord, query string) []models.InspectionRecord {
	out := make([]models.InspectionRecord, 0, len(records))
	for _, rec := range records {
		if Matches(rec, query) {
			out = append(out, rec)
		}
	}
	return out
}

// VisibleIndices returns the positional indices of the records matching query.
func VisibleIndices(records []models.InspectionRecord, query string) []int {
	out := make([]int, 0, len(records))
	for _, rec := range records {
		if Matches(rec, query) {
			out = append(out, rec.OriginalIndex)
		}
	}
	return out
}
