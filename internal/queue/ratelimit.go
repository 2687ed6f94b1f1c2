package queue

import "context"

// RateGate is the admission-control contract consumed by Submitter.
// CheckRate implements the sliding-window submission limiter;
// CheckConcurrency is a pure comparison against a running count already
// read from the store — it never touches the keyed counter store and
// never fails open.
type RateGate interface {
	// CheckRate evicts stale entries, checks cardinality, and — only if
	// allowed — inserts a new entry and refreshes the key's TTL. Returns
	// true (allow) if the keyed counter store is unreachable: the rate
	// gate fails open.
	CheckRate(ctx context.Context, tenantID string) (allow bool, err error)

	// CheckConcurrency returns false (deny) iff runningCount >= the fixed
	// concurrency cap. Pure function of its argument; included on the
	// interface for symmetry with CheckRate and so it can be swapped in
	// tests.
	CheckConcurrency(runningCount int64) bool
}
