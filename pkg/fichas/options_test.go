package fichas

import (
	"testing"
	"time"
)

func TestParseMode(t *testing.T) {
	for _, s := range []string{"remote", "workbook", "fixture", "disconnected"} {
		m, err := ParseMode(s)
		if err != nil || string(m) != s {
			t.Errorf("ParseMode(%q) = %q, %v", s, m, err)
		}
	}
	if _, err := ParseMode("mock"); err == nil {
		t.Error("Expected error for unknown mode")
	}
}

func TestOptionsToday(t *testing.T) {
	loc := time.FixedZone("BRT", -3*3600)
	opts := Options{
		Location: loc,
		Now:      func() time.Time { return time.Date(2026, 1, 9, 1, 0, 0, 0, time.UTC) },
	}

	today := opts.Today()
	if today.Day() != 8 || today.Location() != loc {
		t.Errorf("Expected 2026-01-08 in BRT, got %v", today)
	}
	if (Options{}).Loc() != time.Local {
		t.Error("Expected time.Local default")
	}
}
