// Package fichas builds the daily fichas dashboard from spreadsheet rows.
package fichas

import (
	"fmt"
	"time"
)

// Mode selects the backend implementation.
type Mode string

const (
	// ModeRemote talks to the Apps Script web endpoints over HTTP.
	ModeRemote Mode = "remote"
	// ModeWorkbook reads and writes a local .xlsx workbook.
	ModeWorkbook Mode = "workbook"
	// ModeFixture serves today-dated sample rows and simulates processing.
	ModeFixture Mode = "fixture"
	// ModeDisconnected fails every call with ErrBoundaryUnavailable.
	ModeDisconnected Mode = "disconnected"
)

// ParseMode validates a mode name.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(s); m {
	case ModeRemote, ModeWorkbook, ModeFixture, ModeDisconnected:
		return m, nil
	default:
		return "", fmt.Errorf("invalid backend mode: %s (must be remote, workbook, fixture, or disconnected)", s)
	}
}

// DefaultTimeZone is the zone the backing spreadsheet is kept in.
const DefaultTimeZone = "America/Sao_Paulo"

// Options configures extraction.
type Options struct {
	// Location is the time zone "today" and all dates are evaluated in.
	// If nil, time.Local is used.
	Location *time.Location
	// Now returns the current time. If nil, time.Now is used.
	Now func() time.Time
}

// DefaultOptions returns options for the default time zone, falling back to
// time.Local when the zone database is unavailable.
func DefaultOptions() Options {
	loc, err := time.LoadLocation(DefaultTimeZone)
	if err != nil {
		loc = time.Local
	}
	return Options{Location: loc}
}

// Loc returns the configured location.
func (o Options) Loc() *time.Location {
	if o.Location != nil {
		return o.Location
	}
	return time.Local
}

// Today returns the current time in the configured location.
func (o Options) Today() time.Time {
	now := time.Now
	if o.Now != nil {
		now = o.Now
	}
	return now().In(o.Loc())
}
