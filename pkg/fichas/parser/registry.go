package parser

import "github.com/ukaji3/fichas-go/pkg/fichas/models"

// Person registry columns.
const (
	registryDocumentCol = 4
	registryControlCol  = 5
	registryMinColumns  = 6
)

// ControlIndex maps a normalized CPF to its archive control identifier.
type ControlIndex map[string]string

// NewControlIndex builds the index from person registry rows.
// Rows shorter than six cells or without a document are ignored. A later
// row for the same document replaces an earlier one; the number of replaced
// keys is returned alongside the index.
func NewControlIndex(rows []models.Row) (ControlIndex, int) {
	idx := make(ControlIndex, len(rows))
	overwritten := 0
	for _, row := range rows {
		if len(row) < registryMinColumns {
			continue
		}
		doc := NormalizeDocument(row.Cell(registryDocumentCol))
		if IsBlankDocument(doc) {
			continue
		}
		if _, ok := idx[doc]; ok {
			overwritten++
		}
		idx[doc] = CellString(row.Cell(registryControlCol))
	}
	return idx, overwritten
}

// Lookup returns the control identifier for a document, or "" when the
// document is unknown.
func (c ControlIndex) Lookup(doc string) string {
	return c[NormalizeDocument(doc)]
}
