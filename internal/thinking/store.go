package thinking

import (
	"slices"
	"sort"
	"time"
)

// branch holds one named side-sequence plus its recency bookkeeping.
// lastAccess is a logical tick from the store clock; ticks are strictly
// increasing, so LRU selection never ties.
type branch struct {
	records    []Record
	createdAt  time.Time
	accessedAt time.Time
	lastAccess uint64
}

// Store is the bounded reasoning-trace store. It owns all stored records and
// branch metadata exclusively; accessors return copies.
//
// Store performs unguarded in-place mutation and is intended to be owned by
// exactly one logical session. See the package documentation for the
// concurrency contract.
type Store struct {
	opts     Options
	history  []Record
	branches map[string]*branch
	clock    uint64

	evictedChains   int
	evictedRecords  int
	evictedBranches int
}

// New creates a store. A nil opts uses DefaultOptions; zero numeric bounds
// fall back to their defaults.
func New(opts *Options) *Store {
	o := DefaultOptions()
	if opts != nil {
		o = opts.withDefaults()
	}
	return &Store{
		opts:     o,
		branches: make(map[string]*branch),
	}
}

// Process validates input and stores the resulting record: records carrying
// a branchId go to that branch, everything else appends to the main history.
// Eviction runs after the append. The stored record is returned by value.
//
// A validation failure leaves the store unchanged.
func (s *Store) Process(input map[string]any) (Record, error) {
	rec, err := Validate(input)
	if err != nil {
		return Record{}, err
	}

	if rec.BranchID != "" {
		s.appendBranch(rec)
		return rec, nil
	}

	s.history = append(s.history, rec)
	s.evictHistory()
	return rec, nil
}

// evictHistory enforces MaxThoughtHistory. Each pass removes the oldest
// completed chain atomically, falling back to dropping the single oldest
// record only when nothing in the history is complete.
func (s *Store) evictHistory() {
	if !s.opts.EnableAutoCleanup {
		return
	}
	for len(s.history) > s.opts.MaxThoughtHistory {
		s.history = s.evictOldest(s.history)
	}
}

// evictOldest removes one eviction unit from records and updates counters.
func (s *Store) evictOldest(records []Record) []Record {
	start, end, isChain := oldestEviction(records)
	if isChain {
		s.evictedChains++
		s.evictedRecords += end - start + 1
	} else {
		s.evictedRecords++
	}
	return slices.Delete(records, start, end+1)
}

// appendBranch routes a record into its named branch, creating the branch
// first when needed. Creation at the MaxBranches bound makes room by
// deleting least-recently-accessed branches wholesale.
func (s *Store) appendBranch(rec Record) {
	br, ok := s.branches[rec.BranchID]
	if !ok {
		s.makeRoom()
		now := time.Now()
		br = &branch{createdAt: now, accessedAt: now}
		s.branches[rec.BranchID] = br
	}
	br.records = append(br.records, rec)
	s.touch(br)
	s.evictBranch(br)
}

// makeRoom deletes branches with the smallest access tick until a new branch
// fits under MaxBranches. Whole-branch eviction: a branch under memory
// pressure is sacrificed completely rather than truncated.
func (s *Store) makeRoom() {
	if !s.opts.EnableAutoCleanup {
		return
	}
	for len(s.branches) >= s.opts.MaxBranches {
		victim := ""
		var oldest uint64
		for id, br := range s.branches {
			if victim == "" || br.lastAccess < oldest {
				victim = id
				oldest = br.lastAccess
			}
		}
		delete(s.branches, victim)
		s.evictedBranches++
	}
}

// evictBranch enforces MaxThoughtsPerBranch with the same chain-aware
// eviction the main history uses.
func (s *Store) evictBranch(br *branch) {
	if !s.opts.EnableAutoCleanup {
		return
	}
	for len(br.records) > s.opts.MaxThoughtsPerBranch {
		br.records = s.evictOldest(br.records)
	}
}

// touch records an access. Creation, append, and read all count.
func (s *Store) touch(br *branch) {
	s.clock++
	br.lastAccess = s.clock
	br.accessedAt = time.Now()
}

// History returns a copy of the main history, oldest first.
func (s *Store) History() []Record {
	return slices.Clone(s.history)
}

// HistoryTail returns a copy of the newest limit records of the main
// history, oldest first. A non-positive limit returns everything.
func (s *Store) HistoryTail(limit int) []Record {
	if limit <= 0 || limit >= len(s.history) {
		return slices.Clone(s.history)
	}
	return slices.Clone(s.history[len(s.history)-limit:])
}

// Branch returns a copy of the named branch's records. An unknown branch id
// yields an empty sequence, not an error, and does not create the branch.
// Reading a live branch counts as access.
func (s *Store) Branch(id string) []Record {
	br, ok := s.branches[id]
	if !ok {
		return nil
	}
	s.touch(br)
	return slices.Clone(br.records)
}

// BranchIDs returns the live branch ids in lexical order.
func (s *Store) BranchIDs() []string {
	ids := make([]string, 0, len(s.branches))
	for id := range s.branches {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// BranchMeta returns bookkeeping for the named branch. The lookup itself is
// not an access.
func (s *Store) BranchMeta(id string) (BranchMeta, bool) {
	br, ok := s.branches[id]
	if !ok {
		return BranchMeta{}, false
	}
	return BranchMeta{
		CreatedAt:      br.createdAt,
		LastAccessedAt: br.accessedAt,
		Length:         len(br.records),
	}, true
}

// Summary returns current occupancy and lifetime eviction totals.
func (s *Store) Summary() Summary {
	sum := Summary{
		HistoryLength:   len(s.history),
		BranchCount:     len(s.branches),
		EvictedChains:   s.evictedChains,
		EvictedRecords:  s.evictedRecords,
		EvictedBranches: s.evictedBranches,
	}
	if len(s.branches) > 0 {
		sum.BranchLengths = make(map[string]int, len(s.branches))
		for id, br := range s.branches {
			sum.BranchLengths[id] = len(br.records)
		}
	}
	return sum
}

// Reset discards all stored records, branches, and eviction totals.
func (s *Store) Reset() {
	s.history = nil
	s.branches = make(map[string]*branch)
	s.clock = 0
	s.evictedChains = 0
	s.evictedRecords = 0
	s.evictedBranches = 0
}
