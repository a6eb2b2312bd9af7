package chat

import "sync"

// History is an ordered, append-only record of conversation turns.
//
// All access is mutex-guarded so concurrent pipeline invocations sharing a
// session cannot corrupt each other's context: AppendAndSnapshot makes
// append-and-read one atomic step. Every generation call replays the full
// snapshot, so cost and context-window usage grow with conversation length.
// Set maxTurns to cap the window; zero keeps the history unbounded.
type History struct {
	mu       sync.Mutex
	maxTurns int
	turns    []Turn
}

// NewHistory creates an empty conversation history.
// maxTurns bounds the sliding window; 0 means unbounded.
func NewHistory(maxTurns int) *History {
	return &History{maxTurns: maxTurns}
}

// Append records one turn at the end of the history.
func (h *History) Append(turn Turn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.append(turn)
}

// AppendAndSnapshot records one turn and returns a copy of the full
// history including it, as a single atomic step.
func (h *History) AppendAndSnapshot(turn Turn) []Turn {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.append(turn)
	return h.snapshot()
}

// Snapshot returns a copy of the turns in chronological order.
func (h *History) Snapshot() []Turn {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.snapshot()
}

// Len returns the number of turns currently held.
func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.turns)
}

// append assumes h.mu is held.
func (h *History) append(turn Turn) {
	h.turns = append(h.turns, turn)
	if h.maxTurns > 0 && len(h.turns) > h.maxTurns {
		// Drop the oldest turns, keeping the window size.
		h.turns = h.turns[len(h.turns)-h.maxTurns:]
	}
}

// snapshot assumes h.mu is held.
func (h *History) snapshot() []Turn {
	out := make([]Turn, len(h.turns))
	copy(out, h.turns)
	return out
}
