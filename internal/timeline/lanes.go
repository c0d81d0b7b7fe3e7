package timeline

import (
	"container/heap"
	"sort"
)

// LaneEvent is a canonical entry placed on a lane.
// Events sharing a lane never overlap on [Start, End).
type LaneEvent struct {
	CanonicalEntry
	Lane int
}

// AssignLanes packs entries into lanes with greedy interval scheduling.
//
// Entries are visited by start time, ties broken by output path. Each one
// goes to the lane that freed up earliest, provided that lane is already free
// at the entry's start; otherwise a new lane is opened. A lane is free at the
// instant its last step ended, so zero-duration steps never block a step
// starting at the same millisecond. Lanes are numbered from 0 in order of
// first use; equal free times go to the lower lane number.
//
// The returned events are in visiting order.
func AssignLanes(entries []CanonicalEntry) []LaneEvent {
	sorted := make([]CanonicalEntry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Start != sorted[j].Start {
			return sorted[i].Start < sorted[j].Start
		}
		return sorted[i].Output < sorted[j].Output
	})

	events := make([]LaneEvent, 0, len(sorted))
	free := &laneHeap{}
	lanes := 0

	for _, e := range sorted {
		var lane int
		if free.Len() > 0 && (*free)[0].end <= e.Start {
			lane = (*free)[0].id
			(*free)[0].end = e.End
			heap.Fix(free, 0)
		} else {
			lane = lanes
			lanes++
			heap.Push(free, laneSlot{id: lane, end: e.End})
		}
		events = append(events, LaneEvent{CanonicalEntry: e, Lane: lane})
	}

	return events
}

// LaneCount returns the number of distinct lanes used by events.
func LaneCount(events []LaneEvent) int {
	n := 0
	for _, ev := range events {
		if ev.Lane+1 > n {
			n = ev.Lane + 1
		}
	}
	return n
}

type laneSlot struct {
	id  int
	end uint32
}

// laneHeap orders lanes by the time they free up, then by lane number.
type laneHeap []laneSlot

func (h laneHeap) Len() int { return len(h) }

func (h laneHeap) Less(i, j int) bool {
	if h[i].end != h[j].end {
		return h[i].end < h[j].end
	}
	return h[i].id < h[j].id
}

func (h laneHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *laneHeap) Push(x any) { *h = append(*h, x.(laneSlot)) }

func (h *laneHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}

// Span returns the earliest start and latest end among events.
// Both are zero for an empty slice.
func Span(events []LaneEvent) (start, end uint32) {
	for i, ev := range events {
		if i == 0 || ev.Start < start {
			start = ev.Start
		}
		if ev.End > end {
			end = ev.End
		}
	}
	return start, end
}
