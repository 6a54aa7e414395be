package parser

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// DateLayout is the display layout for every date on the dashboard.
const DateLayout = "02/01/2006"

// dateLayouts are tried in order for text cells without a zone offset.
var dateLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"02/01/2006 15:04:05",
	"02/01/2006",
	"2/1/2006",
	"2006/01/02",
	"02-01-2006",
	"02.01.2006",
}

// FormatDate renders t as DD/MM/YYYY.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// ParseDate parses a raw cell as a calendar date in loc.
//
// Accepted inputs: time.Time, Excel serial numbers, RFC 3339 timestamps
// (converted to loc), JavaScript Date strings and the layouts in dateLayouts.
func ParseDate(v interface{}, loc *time.Location) (time.Time, bool) {
	if loc == nil {
		loc = time.Local
	}

	switch val := v.(type) {
	case nil:
		return time.Time{}, false
	case time.Time:
		if val.IsZero() {
			return time.Time{}, false
		}
		return val.In(loc), true
	case int:
		return fromSerial(float64(val), loc)
	case int64:
		return fromSerial(float64(val), loc)
	case float64:
		return fromSerial(val, loc)
	case json.Number:
		f, err := val.Float64()
		if err != nil {
			return time.Time{}, false
		}
		return fromSerial(f, loc)
	}

	s := strings.TrimSpace(CellString(v))
	if s == "" {
		return time.Time{}, false
	}

	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.In(loc), true
	}

	// Date.prototype.toString, e.g. "Thu Jan 08 2026 00:00:00 GMT-0300 (Horário Padrão de Brasília)".
	if i := strings.Index(s, " ("); i > 0 {
		if t, err := time.Parse("Mon Jan 02 2006 15:04:05 GMT-0700", s[:i]); err == nil {
			return t.In(loc), true
		}
	}

	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, true
		}
	}

	return time.Time{}, false
}

// fromSerial converts an Excel serial date to a wall-clock time in loc.
func fromSerial(serial float64, loc *time.Location) (time.Time, bool) {
	if serial <= 0 {
		return time.Time{}, false
	}
	t, err := excelize.ExcelDateToTime(serial, false)
	if err != nil {
		return time.Time{}, false
	}
	y, m, d := t.Date()
	hh, mm, ss := t.Clock()
	return time.Date(y, m, d, hh, mm, ss, 0, loc), true
}

// DisplayDate formats a date cell as DD/MM/YYYY, falling back to the raw text
// when the cell is not a recognizable date.
func DisplayDate(v interface{}, loc *time.Location) string {
	if t, ok := ParseDate(v, loc); ok {
		return FormatDate(t)
	}
	return CellString(v)
}

// Age returns the number of whole years elapsed between birth and now.
func Age(birth, now time.Time) int {
	now = now.In(birth.Location())
	age := now.Year() - birth.Year()
	if now.Month() < birth.Month() || (now.Month() == birth.Month() && now.Day() < birth.Day()) {
		age--
	}
	return age
}
