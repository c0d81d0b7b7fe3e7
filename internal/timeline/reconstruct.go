package timeline

import "github.com/roach88/ninjatrace/internal/ninjalog"

// CanonicalEntry is the authoritative record for one output after merging.
type CanonicalEntry struct {
	ninjalog.StepRecord
	// Invocation is the index of the invocation that supplied the record.
	Invocation int
}

// Timeline maps each output to its canonical entry.
// Iteration order is the order in which outputs were first seen.
type Timeline struct {
	order   []string
	entries map[string]CanonicalEntry
}

// NewTimeline returns an empty timeline.
func NewTimeline() *Timeline {
	return &Timeline{entries: make(map[string]CanonicalEntry)}
}

// Merge folds one invocation into the timeline.
//
// Every record replaces the entry for its output unconditionally: the latest
// record in log order describes the most recent build of that artifact,
// whatever its duration. This also settles duplicates inside a single
// invocation (the later one wins) and makes merging the same invocation
// twice a no-op.
func (t *Timeline) Merge(inv Invocation) {
	for _, rec := range inv.Records {
		if _, ok := t.entries[rec.Output]; !ok {
			t.order = append(t.order, rec.Output)
		}
		t.entries[rec.Output] = CanonicalEntry{StepRecord: rec, Invocation: inv.Index}
	}
}

// Len returns the number of distinct outputs.
func (t *Timeline) Len() int {
	return len(t.order)
}

// Get returns the canonical entry for output.
func (t *Timeline) Get(output string) (CanonicalEntry, bool) {
	e, ok := t.entries[output]
	return e, ok
}

// Entries returns the canonical entries in first-insertion order.
func (t *Timeline) Entries() []CanonicalEntry {
	out := make([]CanonicalEntry, 0, len(t.order))
	for _, output := range t.order {
		out = append(out, t.entries[output])
	}
	return out
}

// Reconstruct merges invocations oldest first into one timeline.
func Reconstruct(invocations []Invocation) *Timeline {
	t := NewTimeline()
	for _, inv := range invocations {
		t.Merge(inv)
	}
	return t
}

// ReconstructEach builds a separate timeline for every invocation.
func ReconstructEach(invocations []Invocation) []*Timeline {
	out := make([]*Timeline, 0, len(invocations))
	for _, inv := range invocations {
		t := NewTimeline()
		t.Merge(inv)
		out = append(out, t)
	}
	return out
}
