// Package history records lookups in a local sqlite database so previously
// scanned words can be reviewed offline. Everything here is best-effort from
// the caller's point of view: a history failure must never break a lookup.
package history

import (
	"database/sql"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS lookups (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	text TEXT NOT NULL,
	matched_length INTEGER NOT NULL DEFAULT 0,
	looked_up_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS lookup_entries (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	lookup_id INTEGER NOT NULL REFERENCES lookups(id) ON DELETE CASCADE,
	question_id INTEGER NOT NULL DEFAULT 0,
	term TEXT NOT NULL,
	reading TEXT NOT NULL DEFAULT '',
	language TEXT NOT NULL DEFAULT '',
	glossary TEXT NOT NULL DEFAULT '',
	score INTEGER NOT NULL DEFAULT 0,
	in_flashcards INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_lookup_entries_lookup ON lookup_entries(lookup_id);
CREATE INDEX IF NOT EXISTS idx_lookup_entries_term ON lookup_entries(term)
`

// Open opens (creating if needed) the history database at path and applies
// the schema. Use ":memory:" for an ephemeral store.
func Open(path string) (*Store, error) {
	conn, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	if err := initSchema(conn); err != nil {
		conn.Close()
		return nil, err
	}
	return &Store{db: conn}, nil
}

func initSchema(db *sql.DB) error {
	for _, stmt := range strings.Split(schemaSQL, ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}
