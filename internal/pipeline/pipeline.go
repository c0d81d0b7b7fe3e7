// Package pipeline wires log decoding, invocation segmentation, timeline
// reconstruction, lane assignment and trace emission into one pass.
package pipeline

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/roach88/ninjatrace/internal/chrometrace"
	"github.com/roach88/ninjatrace/internal/ninjalog"
	"github.com/roach88/ninjatrace/internal/timeline"
)

// Options controls reconstruction.
type Options struct {
	// Tolerance is passed to timeline.Segment.
	Tolerance uint32
	// PerInvocation lays out every invocation on its own (pid = invocation
	// index) instead of merging them into one canonical timeline.
	PerInvocation bool
}

// View is one reconstructed timeline with its lane assignment.
type View struct {
	// Pid is the trace process id the view is emitted under.
	Pid      int
	Timeline *timeline.Timeline
	Lanes    []timeline.LaneEvent
}

// Result holds every intermediate stage, for reporting and persistence.
type Result struct {
	Records     int
	Invocations []timeline.Invocation
	Views       []View
	Events      []chrometrace.Event
}

// Steps returns the number of canonical entries across all views.
func (r *Result) Steps() int {
	n := 0
	for _, v := range r.Views {
		n += v.Timeline.Len()
	}
	return n
}

// LaneCount returns the widest lane count among the views.
func (r *Result) LaneCount() int {
	n := 0
	for _, v := range r.Views {
		if c := timeline.LaneCount(v.Lanes); c > n {
			n = c
		}
	}
	return n
}

// LaneEvents returns the lane events of every view in emission order.
func (r *Result) LaneEvents() []timeline.LaneEvent {
	var out []timeline.LaneEvent
	for _, v := range r.Views {
		out = append(out, v.Lanes...)
	}
	return out
}

// Run decodes a ninja log from r and reconstructs it. Any error stops the
// pipeline; no partial result is returned.
func Run(r io.Reader, opts Options) (*Result, error) {
	records, err := ninjalog.ReadAll(r)
	if err != nil {
		return nil, err
	}
	slog.Debug("records parsed", "records", len(records))
	return Reconstruct(records, opts)
}

// Reconstruct runs every stage after decoding.
func Reconstruct(records []ninjalog.StepRecord, opts Options) (*Result, error) {
	for _, rec := range records {
		if err := rec.Validate(); err != nil {
			return nil, err
		}
	}

	invocations := timeline.Segment(records, timeline.SegmentOptions{Tolerance: opts.Tolerance})
	slog.Debug("invocations segmented", "invocations", len(invocations), "tolerance_ms", opts.Tolerance)

	result := &Result{
		Records:     len(records),
		Invocations: invocations,
	}

	if opts.PerInvocation {
		for i, tl := range timeline.ReconstructEach(invocations) {
			result.Views = append(result.Views, View{Pid: invocations[i].Index, Timeline: tl})
		}
	} else {
		result.Views = []View{{Pid: 0, Timeline: timeline.Reconstruct(invocations)}}
	}

	result.Events = []chrometrace.Event{}
	for i := range result.Views {
		v := &result.Views[i]
		v.Lanes = timeline.AssignLanes(v.Timeline.Entries())
		slog.Debug("lanes assigned",
			"pid", v.Pid,
			"steps", v.Timeline.Len(),
			"lanes", timeline.LaneCount(v.Lanes),
		)

		events, err := chrometrace.Emit(v.Lanes, v.Pid)
		if err != nil {
			return nil, fmt.Errorf("view %d: %w", v.Pid, err)
		}
		result.Events = append(result.Events, events...)
	}

	return result, nil
}
