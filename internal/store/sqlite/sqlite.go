package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/hoshizora/wishcannon-server/internal/store"
)

const schema = `
	CREATE TABLE IF NOT EXISTS words (
		word  TEXT PRIMARY KEY,
		count INTEGER NOT NULL DEFAULT 1 CHECK (count >= 1)
	);
`

// SQLiteStore implements store.WordStore for SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// New creates a new SQLite word store and applies the schema.
// dbPath is the path to the SQLite database file (":memory:" for tests).
func New(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// Set connection pool limits; SQLite works best with a single connection.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Snapshot returns every ledger entry.
func (s *SQLiteStore) Snapshot(ctx context.Context) ([]store.WordEntry, error) {
	query := `
		SELECT word, count
		FROM words
	`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query snapshot: %w", err)
	}
	defer rows.Close()

	entries := make([]store.WordEntry, 0)
	for rows.Next() {
		var entry store.WordEntry
		if err := rows.Scan(&entry.Word, &entry.Count); err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate snapshot: %w", err)
	}

	return entries, nil
}

// Increment upserts the word and returns its new count. The conditional
// update runs as a single statement, so two concurrent increments of the
// same word always observe each other.
func (s *SQLiteStore) Increment(ctx context.Context, word string) (int64, error) {
	query := `
		INSERT INTO words (word, count)
		VALUES (?, 1)
		ON CONFLICT(word) DO UPDATE SET count = count + 1
		RETURNING count
	`
	var count int64
	if err := s.db.QueryRowContext(ctx, query, word).Scan(&count); err != nil {
		return 0, fmt.Errorf("increment word: %w", err)
	}

	return count, nil
}
