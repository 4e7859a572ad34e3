// Package session owns the per-session thinking stores.
//
// The thinking.Store is a single-owner data structure with no internal
// locking; this package provides the external serialization its concurrency
// contract requires. Each logical session gets its own store, and every
// store operation runs under the session's mutex.
package session

import (
	"sync"
	"time"

	"github.com/fyrsmithlabs/thinkd/internal/thinking"
)

// Session binds one thinking store to one logical session id.
type Session struct {
	ID        string
	CreatedAt time.Time

	mu    sync.Mutex
	store *thinking.Store
}

// Process validates and stores one thought input.
func (s *Session) Process(input map[string]any) (thinking.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Process(input)
}

// History returns the newest limit main-history records, oldest first.
// A non-positive limit returns the full history.
func (s *Session) History(limit int) []thinking.Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.HistoryTail(limit)
}

// Branch returns the named branch's records. Unknown ids yield an empty
// sequence.
func (s *Session) Branch(id string) []thinking.Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Branch(id)
}

// BranchIDs returns the live branch ids in lexical order.
func (s *Session) BranchIDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.BranchIDs()
}

// BranchMeta returns bookkeeping for the named branch.
func (s *Session) BranchMeta(id string) (thinking.BranchMeta, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.BranchMeta(id)
}

// Summary returns the store's occupancy and eviction totals.
func (s *Session) Summary() thinking.Summary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Summary()
}

// Reset discards the session's trace.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.store.Reset()
}
