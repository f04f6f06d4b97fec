package history

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/ajito/popdict/pkg/scan"
)

// Store wraps the sqlite connection.
type Store struct {
	db *sql.DB
}

// Close closes the underlying database.
func (s *Store) Close() error { return s.db.Close() }

// Lookup is one recorded lookup with its matched entries.
type Lookup struct {
	ID            int64
	Text          string
	MatchedLength int
	LookedUpAt    time.Time
	Entries       []Entry
}

// Entry is one recorded dictionary entry.
type Entry struct {
	QuestionID   int64
	Term         string
	Reading      string
	Language     string
	Glossary     string
	Score        int
	InFlashcards bool
}

// RecordLookup stores one lookup result in a single transaction and returns
// the lookup id.
func (s *Store) RecordLookup(ctx context.Context, text string, res *scan.Result) (int64, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0, fmt.Errorf("history: lookup text must be non-empty")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	var id int64
	err = tx.QueryRowContext(ctx,
		`INSERT INTO lookups (text, matched_length) VALUES (?, ?) RETURNING id`,
		text, res.OriginalTextLength,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("history: insert lookup: %w", err)
	}

	for _, e := range res.Entries {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO lookup_entries (lookup_id, question_id, term, reading, language, glossary, score, in_flashcards)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			id,
			e.Metadata.QuestionID,
			e.Headword.Term,
			e.Headword.Reading,
			e.Metadata.Language,
			strings.Join(e.Definition.Glossary, "\n"),
			e.Score,
			e.Metadata.InFlashcards,
		)
		if err != nil {
			return 0, fmt.Errorf("history: insert entry %q: %w", e.Headword.Term, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return id, nil
}

// RecentLookups returns the newest lookups, most recent first, with their
// entries attached.
func (s *Store) RecentLookups(ctx context.Context, limit int) ([]Lookup, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, text, matched_length, looked_up_at FROM lookups ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Lookup
	for rows.Next() {
		var l Lookup
		if err := rows.Scan(&l.ID, &l.Text, &l.MatchedLength, &l.LookedUpAt); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range out {
		entries, err := s.lookupEntries(ctx, out[i].ID)
		if err != nil {
			return nil, err
		}
		out[i].Entries = entries
	}
	return out, nil
}

func (s *Store) lookupEntries(ctx context.Context, lookupID int64) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT question_id, term, reading, language, glossary, score, in_flashcards
		 FROM lookup_entries WHERE lookup_id = ? ORDER BY id`, lookupID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.QuestionID, &e.Term, &e.Reading, &e.Language, &e.Glossary, &e.Score, &e.InFlashcards); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
