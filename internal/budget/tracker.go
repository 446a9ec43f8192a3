package budget

import (
	"sync"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/shopspring/decimal"
)

// Usage holds token counts for a single judge call.
type Usage struct {
	InputTokens      int64
	OutputTokens     int64
	CacheReadTokens  int64
	CacheWriteTokens int64
}

// Tracker accumulates token usage and cost across judge calls. It is
// safe for concurrent use: independent occurrences may invoke the same
// provider at the same time.
type Tracker struct {
	mu         sync.Mutex
	pricing    map[anthropic.Model]ModelPricing
	totalCost  decimal.Decimal
	totalUsage Usage
	calls      int64
}

// NewTracker creates a tracker with the given pricing table. A nil table
// uses DefaultPricing.
func NewTracker(pricing map[anthropic.Model]ModelPricing) *Tracker {
	if pricing == nil {
		pricing = DefaultPricing
	}
	return &Tracker{pricing: pricing, totalCost: decimal.Zero}
}

// Record adds one judge call's usage and updates the cumulative cost.
// Tokens for unknown models are counted with no cost added.
func (t *Tracker) Record(model anthropic.Model, u Usage) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.calls++
	t.totalUsage.InputTokens += u.InputTokens
	t.totalUsage.OutputTokens += u.OutputTokens
	t.totalUsage.CacheReadTokens += u.CacheReadTokens
	t.totalUsage.CacheWriteTokens += u.CacheWriteTokens

	if pricing, ok := t.pricing[model]; ok {
		t.totalCost = t.totalCost.Add(pricing.Cost(u))
	}
}

// TotalCost returns the cumulative USD cost of all recorded calls.
func (t *Tracker) TotalCost() decimal.Decimal {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.totalCost
}

// TotalUsage returns the cumulative token usage.
func (t *Tracker) TotalUsage() Usage {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.totalUsage
}

// Calls returns how many judge calls were recorded.
func (t *Tracker) Calls() int64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.calls
}
