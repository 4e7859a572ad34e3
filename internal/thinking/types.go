package thinking

import (
	"time"
)

// Record is a single validated reasoning step.
//
// Records are immutable once stored: the store never mutates a stored record
// in place, and eviction removes records wholesale. JSON field names are the
// wire contract for the think tool.
type Record struct {
	// Text is the free-form content of the step. Never empty.
	Text string `json:"text"`

	// SequenceNumber is the author's position in their running count.
	SequenceNumber int `json:"sequenceNumber"`

	// EstimatedTotal is the author's running estimate of total steps.
	// Not authoritative.
	EstimatedTotal int `json:"estimatedTotal"`

	// ContinuesNext is false when this record is the terminal step of its
	// chain.
	ContinuesNext bool `json:"continuesNext"`

	// IsRevision marks this record as revising an earlier step.
	IsRevision bool `json:"isRevision,omitempty"`

	// RevisesSequence is the sequence number being revised.
	RevisesSequence int `json:"revisesSequence,omitempty"`

	// BranchOrigin is the main-history sequence number this branch forked
	// from.
	BranchOrigin int `json:"branchOrigin,omitempty"`

	// BranchID routes the record into a named branch instead of the main
	// history.
	BranchID string `json:"branchId,omitempty"`

	// NeedsMoreSteps signals that EstimatedTotal was too low.
	NeedsMoreSteps bool `json:"needsMoreSteps,omitempty"`
}

// Terminal reports whether this record closes its chain.
func (r Record) Terminal() bool {
	return !r.ContinuesNext
}

// BranchMeta holds per-branch bookkeeping exposed to inspection surfaces.
type BranchMeta struct {
	CreatedAt      time.Time `json:"created_at"`
	LastAccessedAt time.Time `json:"last_accessed_at"`
	Length         int       `json:"length"`
}

// Summary is a point-in-time view of the store's occupancy and eviction
// totals.
type Summary struct {
	HistoryLength   int            `json:"history_length"`
	BranchCount     int            `json:"branch_count"`
	BranchLengths   map[string]int `json:"branch_lengths,omitempty"`
	EvictedChains   int            `json:"evicted_chains"`
	EvictedRecords  int            `json:"evicted_records"`
	EvictedBranches int            `json:"evicted_branches"`
}

// Default bounds. See Options.
const (
	DefaultMaxThoughtHistory    = 1000
	DefaultMaxBranches          = 50
	DefaultMaxThoughtsPerBranch = 200
)

// Options configures a Store. The zero value of a numeric bound means "use
// the default"; the cleanup flags are plain booleans, so construct Options
// from DefaultOptions (or the config package) rather than a zero literal
// unless eviction should be off.
type Options struct {
	// MaxThoughtHistory bounds the main history length.
	MaxThoughtHistory int

	// MaxBranches bounds the number of live branches.
	MaxBranches int

	// MaxThoughtsPerBranch bounds each branch's length.
	MaxThoughtsPerBranch int

	// EnableAutoCleanup gates all eviction. When false the store grows
	// without bound: the main history, the branch count, and individual
	// branch lengths are all unenforced.
	EnableAutoCleanup bool

	// CleanupOnComplete is reserved. It is accepted as configuration for
	// compatibility but no code path consults it.
	CleanupOnComplete bool
}

// DefaultOptions returns the standard bounds with eviction enabled.
func DefaultOptions() Options {
	return Options{
		MaxThoughtHistory:    DefaultMaxThoughtHistory,
		MaxBranches:          DefaultMaxBranches,
		MaxThoughtsPerBranch: DefaultMaxThoughtsPerBranch,
		EnableAutoCleanup:    true,
		CleanupOnComplete:    true,
	}
}

// withDefaults fills zero numeric bounds. Boolean flags are taken as given.
func (o Options) withDefaults() Options {
	if o.MaxThoughtHistory <= 0 {
		o.MaxThoughtHistory = DefaultMaxThoughtHistory
	}
	if o.MaxBranches <= 0 {
		o.MaxBranches = DefaultMaxBranches
	}
	if o.MaxThoughtsPerBranch <= 0 {
		o.MaxThoughtsPerBranch = DefaultMaxThoughtsPerBranch
	}
	return o
}
