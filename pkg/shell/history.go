package shell

import "slices"

// History keeps the most recent command lines, oldest first.
type History struct {
	entries []string
	limit   int
}

// NewHistory creates a history holding at most limit entries.
// A non-positive limit keeps nothing.
func NewHistory(limit int) *History {
	return &History{limit: max(limit, 0)}
}

// Add records line, dropping the oldest entry when full.
func (h *History) Add(line string) {
	if h.limit == 0 {
		return
	}

	if len(h.entries) == h.limit {
		h.entries = slices.Delete(h.entries, 0, 1)
	}

	h.entries = append(h.entries, line)
}

// Entries returns a copy of the recorded lines.
func (h *History) Entries() []string {
	return slices.Clone(h.entries)
}

// Len returns the number of recorded lines.
func (h *History) Len() int {
	return len(h.entries)
}

// Limit returns the capacity.
func (h *History) Limit() int {
	return h.limit
}
