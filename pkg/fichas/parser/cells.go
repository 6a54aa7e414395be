package parser

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/ukaji3/fichas-go/pkg/fichas/models"
	"github.com/xuri/excelize/v2"
)

// ReadSheetRows reads every row of a sheet as raw cell values.
// Empty rows are kept (as empty Rows) so that a row's offset in the result
// matches its position in the sheet.
func ReadSheetRows(f *excelize.File, sheetName string) ([]models.Row, error) {
	rows, err := f.GetRows(sheetName, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheetName, err)
	}

	result := make([]models.Row, 0, len(rows))
	for _, row := range rows {
		cells := make(models.Row, len(row))
		for colIdx, cellValue := range row {
			cells[colIdx] = ParseValue(cellValue)
		}
		result = append(result, cells)
	}

	return result, nil
}

// ParseValue attempts to parse a string value as a number.
// Returns int64 for integers, float64 for decimals, or the original string.
// Digit strings with a leading zero stay strings so document numbers keep
// their padding.
func ParseValue(s string) interface{} {
	if len(s) > 1 && s[0] == '0' && s[1] != '.' {
		return s
	}
	// Try integer first
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	// Try float
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	// Return as string
	return s
}

// CellString renders a raw cell value as text.
func CellString(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case json.Number:
		return val.String()
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	case time.Time:
		return FormatDate(val)
	default:
		return strings.TrimSpace(fmt.Sprint(val))
	}
}
