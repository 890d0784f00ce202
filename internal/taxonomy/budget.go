package taxonomy

import "sync/atomic"

// Budget is a monotonically decreasing counter bounding the total amount of
// work (node visits, in the Traversal Engine's case) a single run may
// perform. It is safe for concurrent use via atomic operations, even though
// the Traversal Engine itself runs a budget single-threaded; a caller that
// externally parallelizes runs can still share resource limits correctly.
type Budget struct {
	remaining int32
}

// NewBudget creates a Budget with the given starting allowance. A limit of 0
// or less means "exhausted immediately."
func NewBudget(limit int) *Budget {
	if limit < 0 {
		limit = 0
	}
	return &Budget{remaining: int32(limit)}
}

// Remaining returns the current remaining allowance.
func (b *Budget) Remaining() int {
	return int(atomic.LoadInt32(&b.remaining))
}

// Exhausted reports whether the budget has reached zero.
func (b *Budget) Exhausted() bool {
	return b.Remaining() <= 0
}

// Spend attempts to decrement the budget by n. It returns true if the spend
// was granted (remaining stayed >= 0 afterward), false if it would have
// driven the budget negative, in which case the budget is left unchanged and
// the caller should treat the budget as exhausted.
func (b *Budget) Spend(n int) bool {
	for {
		cur := atomic.LoadInt32(&b.remaining)
		next := cur - int32(n)
		if next < 0 {
			return false
		}
		if atomic.CompareAndSwapInt32(&b.remaining, cur, next) {
			return true
		}
	}
}
