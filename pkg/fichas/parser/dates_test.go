package parser

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func saoPaulo(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("America/Sao_Paulo")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}
	return loc
}

func TestParseDate(t *testing.T) {
	loc := saoPaulo(t)

	tests := []struct {
		name     string
		input    interface{}
		expected string
	}{
		{"iso date", "2026-01-08", "08/01/2026"},
		{"iso datetime", "2026-01-08 14:30:00", "08/01/2026"},
		{"utc midnight local", "2026-01-08T03:00:00.000Z", "08/01/2026"},
		{"utc early morning is previous day", "2026-01-08T02:00:00Z", "07/01/2026"},
		{"br", "08/01/2026", "08/01/2026"},
		{"br short", "8/1/2026", "08/01/2026"},
		{"dotted", "08.01.2026", "08/01/2026"},
		{"slashed iso", "2026/01/08", "08/01/2026"},
		{"js toString", "Thu Jan 08 2026 00:00:00 GMT-0300 (Horário Padrão de Brasília)", "08/01/2026"},
		{"serial int", int64(46030), "08/01/2026"},
		{"serial float", 46030.5, "08/01/2026"},
		{"serial json", json.Number("46030"), "08/01/2026"},
		{"time value", time.Date(2026, 1, 8, 12, 0, 0, 0, loc), "08/01/2026"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseDate(tt.input, loc)
			require.True(t, ok)
			assert.Equal(t, tt.expected, FormatDate(got))
		})
	}
}

func TestParseDateRejects(t *testing.T) {
	for _, in := range []interface{}{nil, "", "   ", "amanhã", int64(0), -3.0, time.Time{}} {
		_, ok := ParseDate(in, time.UTC)
		assert.False(t, ok, "ParseDate(%#v)", in)
	}
}

func TestDisplayDateFallsBackToRaw(t *testing.T) {
	assert.Equal(t, "08/01/2026", DisplayDate("2026-01-08", time.UTC))
	assert.Equal(t, "sem data", DisplayDate("sem data", time.UTC))
}

func TestAge(t *testing.T) {
	now := time.Date(2026, 1, 8, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		birth    time.Time
		expected int
	}{
		{"anniversary today", time.Date(1990, 1, 8, 0, 0, 0, 0, time.UTC), 36},
		{"anniversary tomorrow", time.Date(1990, 1, 9, 0, 0, 0, 0, time.UTC), 35},
		{"anniversary yesterday", time.Date(1990, 1, 7, 0, 0, 0, 0, time.UTC), 36},
		{"later month", time.Date(1990, 5, 5, 0, 0, 0, 0, time.UTC), 35},
		{"earlier month", time.Date(1984, 9, 5, 0, 0, 0, 0, time.UTC), 41},
		{"born today", now, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Age(tt.birth, now))
		})
	}
}
