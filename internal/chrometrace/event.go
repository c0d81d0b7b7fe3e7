package chrometrace

import (
	"fmt"

	"github.com/roach88/ninjatrace/internal/timeline"
)

const (
	// CategoryTargets is the category of every build-step event.
	CategoryTargets = "targets"
	// PhaseComplete marks an event carrying both ts and dur.
	PhaseComplete = "X"
	// microsPerMilli converts log milliseconds to trace microseconds.
	microsPerMilli = 1000
)

// Event is one trace event.
type Event struct {
	Name string    `json:"name"`
	Cat  string    `json:"cat"`
	Ph   string    `json:"ph"`
	Ts   int64     `json:"ts"`
	Dur  int64     `json:"dur"`
	Pid  int       `json:"pid"`
	Tid  int       `json:"tid"`
	Args EventArgs `json:"args"`
}

// EventArgs are shown by viewers when an event is selected.
type EventArgs struct {
	Hash       string `json:"hash"`
	Invocation int    `json:"invocation"`
}

// Emit converts lane events into trace events under process id pid.
//
// The lane assignment is checked first; a violation is returned as a
// *timeline.InvariantViolation and nothing is emitted. Event order follows
// the input order.
func Emit(events []timeline.LaneEvent, pid int) ([]Event, error) {
	if err := timeline.CheckLanes(events); err != nil {
		return nil, fmt.Errorf("emit trace: %w", err)
	}

	out := make([]Event, 0, len(events))
	for _, ev := range events {
		out = append(out, Event{
			Name: ev.Output,
			Cat:  CategoryTargets,
			Ph:   PhaseComplete,
			Ts:   int64(ev.Start) * microsPerMilli,
			Dur:  ev.Duration() * microsPerMilli,
			Pid:  pid,
			Tid:  ev.Lane,
			Args: EventArgs{
				Hash:       ev.HashHex(),
				Invocation: ev.Invocation,
			},
		})
	}
	return out, nil
}
