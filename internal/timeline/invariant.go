package timeline

import (
	"errors"
	"fmt"
	"sort"
)

// InvariantViolation reports lane events that break the non-overlap rule.
// It indicates a defect in lane assignment, never bad input.
type InvariantViolation struct {
	Lane   int
	First  LaneEvent
	Second LaneEvent
	Reason string
}

func (e *InvariantViolation) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("invariant violation: %s", e.Reason)
	}
	return fmt.Sprintf("invariant violation: lane %d: %s [%d,%d) overlaps %s [%d,%d)",
		e.Lane,
		e.First.Output, e.First.Start, e.First.End,
		e.Second.Output, e.Second.Start, e.Second.End)
}

// IsInvariantViolation reports whether err is, or wraps, an InvariantViolation.
func IsInvariantViolation(err error) bool {
	var iv *InvariantViolation
	return errors.As(err, &iv)
}

// CheckLanes verifies that no two events on the same lane overlap and that
// every interval is well formed.
func CheckLanes(events []LaneEvent) error {
	byLane := make(map[int][]LaneEvent)
	for _, ev := range events {
		if ev.Lane < 0 {
			return &InvariantViolation{Lane: ev.Lane, First: ev, Reason: fmt.Sprintf("%s has negative lane %d", ev.Output, ev.Lane)}
		}
		if ev.End < ev.Start {
			return &InvariantViolation{Lane: ev.Lane, First: ev, Reason: fmt.Sprintf("%s ends at %d before it starts at %d", ev.Output, ev.End, ev.Start)}
		}
		byLane[ev.Lane] = append(byLane[ev.Lane], ev)
	}

	lanes := make([]int, 0, len(byLane))
	for lane := range byLane {
		lanes = append(lanes, lane)
	}
	sort.Ints(lanes)

	for _, lane := range lanes {
		evs := byLane[lane]
		sort.SliceStable(evs, func(i, j int) bool {
			if evs[i].Start != evs[j].Start {
				return evs[i].Start < evs[j].Start
			}
			return evs[i].End < evs[j].End
		})
		for i := 1; i < len(evs); i++ {
			if evs[i-1].End > evs[i].Start {
				return &InvariantViolation{Lane: lane, First: evs[i-1], Second: evs[i]}
			}
		}
	}
	return nil
}
