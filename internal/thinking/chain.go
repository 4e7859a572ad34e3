package thinking

// chainAt locates the completed chain ending at index i of records.
//
// The chain is the contiguous run [start..i] where start is one past the most
// recent prior terminal record, or 0 when none exists. The prior terminal
// record belongs to the previous chain and is excluded.
//
// When the record at i is not terminal the precondition is violated and
// chainAt reports ok=false; callers treat that as an empty chain, not an
// error.
func chainAt(records []Record, i int) (start int, ok bool) {
	if i < 0 || i >= len(records) || records[i].ContinuesNext {
		return 0, false
	}
	for j := i - 1; j >= 0; j-- {
		if !records[j].ContinuesNext {
			return j + 1, true
		}
	}
	return 0, true
}

// oldestEviction picks the next eviction from records: the oldest completed
// chain as [start, end] when any record is terminal, or the single oldest
// record when the trace never reached a stated conclusion.
func oldestEviction(records []Record) (start, end int, isChain bool) {
	for i := range records {
		if !records[i].ContinuesNext {
			start, _ = chainAt(records, i)
			return start, i, true
		}
	}
	// Nothing is complete; FIFO is the least-bad outcome.
	return 0, 0, false
}
