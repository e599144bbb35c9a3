package llmcall

import (
	"fmt"
	"sync"
)

// DefaultMaxCalls is the shared per-run LLM call ceiling.
const DefaultMaxCalls = 30

// Budget caps the number of LLM calls a single run may make. It is shared
// between the generation and verification stages.
type Budget struct {
	mu        sync.Mutex
	limit     int
	remaining int
}

// NewBudget creates a budget allowing limit calls.
// A non-positive limit falls back to DefaultMaxCalls.
func NewBudget(limit int) *Budget {
	if limit <= 0 {
		limit = DefaultMaxCalls
	}
	return &Budget{limit: limit, remaining: limit}
}

// Check returns a BudgetError when no calls remain. Callers check before
// every call and spend after it.
func (b *Budget) Check() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.remaining <= 0 {
		return &BudgetError{Limit: b.limit}
	}
	return nil
}

// Spend consumes one call from the budget.
func (b *Budget) Spend() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.remaining--
}

// Remaining returns the number of calls left.
func (b *Budget) Remaining() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.remaining
}

// Limit returns the configured ceiling.
func (b *Budget) Limit() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.limit
}

// BudgetError indicates the LLM call ceiling was reached.
type BudgetError struct {
	Limit int
}

func (e *BudgetError) Error() string {
	return fmt.Sprintf("Exceeded maximum allowed LLM calls (%d).", e.Limit)
}
