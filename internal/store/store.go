package store

import "context"

// WordEntry is one row of the word ledger: a word and the cumulative
// number of times it has been launched. Counts only grow; entries are
// never deleted.
type WordEntry struct {
	Word  string
	Count int64
}

// WordStore is the single source of truth for the word->count ledger.
// Implementations must serialize concurrent increments to the same word
// so that two simultaneous submissions produce counts N+1 and N+2,
// never both N+1.
type WordStore interface {
	// Snapshot returns every entry currently stored. Order is not
	// significant. Side-effect free.
	Snapshot(ctx context.Context) ([]WordEntry, error)

	// Increment records one submission of word. An unseen word is
	// created with count 1; otherwise the stored count is bumped
	// atomically. Returns the post-increment count.
	Increment(ctx context.Context, word string) (int64, error)

	// Close closes the underlying database connection.
	Close() error
}
