// Package journal keeps a SQLite log of every submission attempt.
package journal

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS submissions (
	id           TEXT PRIMARY KEY,
	submitted_at TEXT NOT NULL,
	indices      TEXT NOT NULL,
	outcome      TEXT NOT NULL,
	message      TEXT NOT NULL,
	print_url    TEXT NOT NULL DEFAULT '',
	count        INTEGER
);
CREATE INDEX IF NOT EXISTS submissions_submitted_at ON submissions (submitted_at);
`

// timeLayout is fixed width so submitted_at sorts as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Outcome of a submission attempt.
type Outcome string

const (
	OutcomeSuccess   Outcome = "success"
	OutcomeFailure   Outcome = "failure"   // structured failure
	OutcomeTransport Outcome = "transport" // call did not complete
)

// Entry is one journaled submission attempt.
type Entry struct {
	ID          string    `json:"id"`
	SubmittedAt time.Time `json:"submittedAt"`
	Indices     []int     `json:"indices"`
	Outcome     Outcome   `json:"outcome"`
	Message     string    `json:"message"`
	PrintURL    string    `json:"printUrl,omitempty"`
	Count       *int      `json:"count,omitempty"`
}

// Journal is a SQLite-backed submission log.
type Journal struct {
	db *sql.DB
}

// Open opens (creating if needed) the journal database at dsn, e.g.
// "fichas.db" or "file::memory:?cache=shared".
func Open(ctx context.Context, dsn string) (*Journal, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, fmt.Errorf("journal: DSN must not be empty")
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("journal: open: %w", err)
	}
	// Single writer.
	db.SetMaxOpenConns(1)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("journal: ping: %w", err)
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("journal: create schema: %w", err)
	}

	return &Journal{db: db}, nil
}

// Close closes the database.
func (j *Journal) Close() error {
	return j.db.Close()
}

// Record stores e, assigning an ID and timestamp when they are empty.
// It returns the stored entry.
func (j *Journal) Record(ctx context.Context, e Entry) (Entry, error) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.SubmittedAt.IsZero() {
		e.SubmittedAt = time.Now()
	}

	var count sql.NullInt64
	if e.Count != nil {
		count = sql.NullInt64{Int64: int64(*e.Count), Valid: true}
	}

	_, err := j.db.ExecContext(ctx,
		`INSERT INTO submissions (id, submitted_at, indices, outcome, message, print_url, count)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.SubmittedAt.UTC().Format(timeLayout), joinIndices(e.Indices),
		string(e.Outcome), e.Message, e.PrintURL, count)
	if err != nil {
		return Entry{}, fmt.Errorf("journal: insert: %w", err)
	}
	return e, nil
}

// Recent returns up to limit entries, newest first.
func (j *Journal) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := j.db.QueryContext(ctx,
		`SELECT id, submitted_at, indices, outcome, message, print_url, count
		 FROM submissions ORDER BY submitted_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("journal: query: %w", err)
	}
	defer rows.Close()

	out := []Entry{}
	for rows.Next() {
		var (
			e       Entry
			at      string
			indices string
			outcome string
			count   sql.NullInt64
		)
		if err := rows.Scan(&e.ID, &at, &indices, &outcome, &e.Message, &e.PrintURL, &count); err != nil {
			return nil, fmt.Errorf("journal: scan: %w", err)
		}
		e.SubmittedAt, err = time.Parse(timeLayout, at)
		if err != nil {
			return nil, fmt.Errorf("journal: parse time %q: %w", at, err)
		}
		e.Indices, err = splitIndices(indices)
		if err != nil {
			return nil, fmt.Errorf("journal: parse indices %q: %w", indices, err)
		}
		e.Outcome = Outcome(outcome)
		if count.Valid {
			n := int(count.Int64)
			e.Count = &n
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func joinIndices(indices []int) string {
	parts := make([]string, len(indices))
	for i, idx := range indices {
		parts[i] = strconv.Itoa(idx)
	}
	return strings.Join(parts, ",")
}

func splitIndices(s string) ([]int, error) {
	if s == "" {
		return []int{}, nil
	}
	parts := strings.Split(s, ",")
	out := make([]int, len(parts))
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return nil, err
		}
		out[i] = n
	}
	return out, nil
}
