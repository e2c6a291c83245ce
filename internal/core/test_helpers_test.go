package core

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/hoshizora/wishcannon-server/internal/store"
)

// memStore is an in-memory WordStore for hub tests.
type memStore struct {
	mu     sync.Mutex
	counts map[string]int64
}

func newMemStore() *memStore {
	return &memStore{counts: make(map[string]int64)}
}

func (m *memStore) Snapshot(_ context.Context) ([]store.WordEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entries := make([]store.WordEntry, 0, len(m.counts))
	for word, count := range m.counts {
		entries = append(entries, store.WordEntry{Word: word, Count: count})
	}
	return entries, nil
}

func (m *memStore) Increment(_ context.Context, word string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.counts[word]++
	return m.counts[word], nil
}

func (m *memStore) Close() error { return nil }

// failingStore simulates a persistence layer that can be read but not
// written, so registration succeeds and increments fail.
type failingStore struct {
	err error
}

func (f *failingStore) Snapshot(context.Context) ([]store.WordEntry, error) { return nil, nil }
func (f *failingStore) Increment(context.Context, string) (int64, error)   { return 0, f.err }
func (f *failingStore) Close() error                                       { return nil }

func mustEvent(t *testing.T, ch <-chan *Event, kind EventKind) *Event {
	t.Helper()

	timeout := time.After(2 * time.Second)
	for {
		select {
		case ev, ok := <-ch:
			if !ok {
				t.Fatalf("event channel closed while waiting for kind %v", kind)
			}
			if ev.Kind == kind {
				return ev
			}
		case <-timeout:
			t.Fatalf("expected event kind %v not received", kind)
		}
	}
}

func mustNoEvent(t *testing.T, ch <-chan *Event, kind EventKind) {
	t.Helper()

	timeout := time.After(100 * time.Millisecond)
	for {
		select {
		case ev, ok := <-ch:
			if !ok {
				return
			}
			if ev.Kind == kind {
				t.Fatalf("unexpected event received: %+v", ev)
			}
		case <-timeout:
			return
		}
	}
}
