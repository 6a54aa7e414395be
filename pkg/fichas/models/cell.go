// Package models defines data structures for the fichas dashboard.
package models

// Row is one raw spreadsheet row as delivered by a backend.
// Cells are strings, numbers (int64, float64, json.Number), booleans,
// time.Time values, or nil.
type Row []interface{}

// Cell returns the cell at the 0-based column index, or nil when the row is
// shorter than that.
func (r Row) Cell(col int) interface{} {
	if col < 0 || col >= len(r) {
		return nil
	}
	return r[col]
}
