package harness

import (
	"fmt"
	"strings"

	"github.com/roach88/ninjatrace/internal/chrometrace"
)

// AssertionError is returned when an assertion fails.
type AssertionError struct {
	Type     string              // Assertion type for categorization
	Expected string              // Human-readable expected outcome
	Actual   string              // Human-readable actual outcome
	Events   []chrometrace.Event // Full trace for debugging context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	fmt.Fprintf(&buf, "\nFull trace:\n")
	for i, ev := range e.Events {
		fmt.Fprintf(&buf, "  [%d] %s pid=%d tid=%d ts=%d dur=%d\n", i+1, ev.Name, ev.Pid, ev.Tid, ev.Ts, ev.Dur)
	}

	return buf.String()
}

// evaluate dispatches one assertion against a successful run.
func evaluate(r *Result, a Assertion) error {
	switch a.Type {
	case AssertInvocationCount:
		return assertCount(r, a, r.Invocations)
	case AssertStepCount:
		return assertCount(r, a, len(r.Events))
	case AssertLaneCount:
		return assertCount(r, a, r.Lanes)
	case AssertLane:
		return assertEventField(r, a, "lane", func(ev chrometrace.Event) (any, any) { return ev.Tid, a.Lane })
	case AssertSourceInvocation:
		return assertEventField(r, a, "invocation", func(ev chrometrace.Event) (any, any) { return ev.Args.Invocation, a.Invocation })
	case AssertDuration:
		return assertEventField(r, a, "dur_us", func(ev chrometrace.Event) (any, any) { return ev.Dur, a.DurUS })
	case AssertNonOverlap:
		return assertNonOverlap(r)
	default:
		return fmt.Errorf("unknown assertion type %q", a.Type)
	}
}

func assertCount(r *Result, a Assertion, got int) error {
	if got == a.Count {
		return nil
	}
	return &AssertionError{
		Type:     a.Type,
		Expected: fmt.Sprintf("%d", a.Count),
		Actual:   fmt.Sprintf("%d", got),
		Events:   r.Events,
	}
}

// assertEventField checks a field of the first event named a.Output.
func assertEventField(r *Result, a Assertion, field string, pick func(chrometrace.Event) (got, want any)) error {
	for _, ev := range r.Events {
		if ev.Name != a.Output {
			continue
		}
		got, want := pick(ev)
		if got == want {
			return nil
		}
		return &AssertionError{
			Type:     a.Type,
			Expected: fmt.Sprintf("%s %s = %v", a.Output, field, want),
			Actual:   fmt.Sprintf("%s %s = %v", a.Output, field, got),
			Events:   r.Events,
		}
	}

	return &AssertionError{
		Type:     a.Type,
		Expected: fmt.Sprintf("an event named %s", a.Output),
		Actual:   "not found in trace",
		Events:   r.Events,
	}
}

// assertNonOverlap checks every pair of events on the same pid and tid.
func assertNonOverlap(r *Result) error {
	for i, a := range r.Events {
		for _, b := range r.Events[i+1:] {
			if a.Pid != b.Pid || a.Tid != b.Tid {
				continue
			}
			if a.Ts < b.Ts+b.Dur && b.Ts < a.Ts+a.Dur {
				return &AssertionError{
					Type:     AssertNonOverlap,
					Expected: fmt.Sprintf("disjoint events on pid %d tid %d", a.Pid, a.Tid),
					Actual:   fmt.Sprintf("%s [%d,+%d) overlaps %s [%d,+%d)", a.Name, a.Ts, a.Dur, b.Name, b.Ts, b.Dur),
					Events:   r.Events,
				}
			}
		}
	}
	return nil
}
