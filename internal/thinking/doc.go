// Package thinking implements the bounded reasoning-trace store behind the
// thinkd MCP tools.
//
// A Store accepts a stream of free-form thought records, keeps them available
// for later inspection, and never grows past its configured ceilings. Records
// without a branch id live in the main history; records carrying a branch id
// live in that branch's own ordered sequence.
//
// # Eviction
//
// The main history is bounded by MaxThoughtHistory. When the bound is
// exceeded the store evicts the oldest completed chain (the contiguous run of
// records ending in the oldest record with continuesNext=false) as one atomic
// operation. A chain whose author has not yet said "I'm done" is never split;
// only when no record in the history is terminal does eviction degrade to
// dropping the single oldest record.
//
// Branches are bounded by MaxBranches. Creating a branch at the bound
// sacrifices whole branches in least-recently-accessed order, where creation,
// append, and read all count as access. Individual branch sequences are
// additionally bounded by MaxThoughtsPerBranch using the same chain-aware
// eviction as the main history.
//
// # Concurrency
//
// A Store is a plain single-owner data structure with no internal locking.
// Every operation completes synchronously before the next begins. Callers
// that share one store across goroutines must serialize access externally;
// the session package does exactly that.
package thinking
