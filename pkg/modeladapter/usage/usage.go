// Package usage records token usage reported by chat-completions responses.
package usage

import (
	"fmt"
	"sync"
)

// TokenCount holds input and output token counts for a single LLM call.
type TokenCount struct {
	InputTokens  int
	OutputTokens int
}

// Total returns the sum of input and output tokens.
func (tc TokenCount) Total() int {
	return tc.InputTokens + tc.OutputTokens
}

func (tc TokenCount) String() string {
	return fmt.Sprintf("%d in / %d out", tc.InputTokens, tc.OutputTokens)
}

type entry struct {
	model string
	count TokenCount
}

// Tracker accumulates token usage across calls, keyed by model.
// It is safe for concurrent use. The zero value is ready to use.
type Tracker struct {
	mu      sync.Mutex
	entries []entry
}

// Add records the token count of one call made against model.
func (t *Tracker) Add(model string, tc TokenCount) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.entries = append(t.entries, entry{model: model, count: tc})
}

// Last returns the most recent token count entry.
// The bool is false when the tracker has no entries.
func (t *Tracker) Last() (TokenCount, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if len(t.entries) == 0 {
		return TokenCount{}, false
	}

	return t.entries[len(t.entries)-1].count, true
}

// Total returns the aggregate token count across all entries.
func (t *Tracker) Total() TokenCount {
	t.mu.Lock()
	defer t.mu.Unlock()

	var total TokenCount
	for _, e := range t.entries {
		total.InputTokens += e.count.InputTokens
		total.OutputTokens += e.count.OutputTokens
	}

	return total
}

// ByModel returns the aggregate token count per model.
func (t *Tracker) ByModel() map[string]TokenCount {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make(map[string]TokenCount)
	for _, e := range t.entries {
		tc := out[e.model]
		tc.InputTokens += e.count.InputTokens
		tc.OutputTokens += e.count.OutputTokens
		out[e.model] = tc
	}

	return out
}

// Count returns the number of recorded entries.
func (t *Tracker) Count() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	return len(t.entries)
}

// Reset clears all recorded entries.
func (t *Tracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.entries = nil
}
