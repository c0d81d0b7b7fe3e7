// Package report summarizes reconstructed build timelines for people.
package report

import (
	"cmp"
	"slices"

	"github.com/roach88/ninjatrace/internal/pipeline"
	"github.com/roach88/ninjatrace/internal/timeline"
)

// DefaultTop is how many slowest steps a summary lists by default.
const DefaultTop = 10

// Step is one step as shown in a report.
type Step struct {
	Output     string `json:"output"`
	Pid        int    `json:"pid"`
	Lane       int    `json:"lane"`
	Invocation int    `json:"invocation"`
	StartMS    uint32 `json:"start_ms"`
	EndMS      uint32 `json:"end_ms"`
	DurationMS int64  `json:"duration_ms"`
}

// Summary holds build statistics for one reconstructed log.
type Summary struct {
	Records     int `json:"records"`
	Invocations int `json:"invocations"`
	Steps       int `json:"steps"`
	Lanes       int `json:"lanes"`
	// SpanMS is the wall time from the earliest start to the latest end.
	SpanMS      int64 `json:"span_ms"`
	TotalStepMS int64 `json:"total_step_ms"`
	// Parallelism is TotalStepMS / SpanMS, or 0 for an empty span.
	Parallelism float64 `json:"parallelism"`
	Slowest     []Step  `json:"slowest"`
}

// Summarize computes statistics for res, listing up to top slowest steps.
// Steps of equal duration keep emission order.
func Summarize(res *pipeline.Result, top int) Summary {
	var steps []Step
	var total int64
	for _, v := range res.Views {
		for _, ev := range v.Lanes {
			d := ev.Duration()
			total += d
			steps = append(steps, Step{
				Output:     ev.Output,
				Pid:        v.Pid,
				Lane:       ev.Lane,
				Invocation: ev.Invocation,
				StartMS:    ev.Start,
				EndMS:      ev.End,
				DurationMS: d,
			})
		}
	}

	slices.SortStableFunc(steps, func(a, b Step) int {
		return cmp.Compare(b.DurationMS, a.DurationMS)
	})
	if top >= 0 && len(steps) > top {
		steps = steps[:top]
	}
	if steps == nil {
		steps = []Step{}
	}

	start, end := timeline.Span(res.LaneEvents())
	span := int64(end) - int64(start)

	s := Summary{
		Records:     res.Records,
		Invocations: len(res.Invocations),
		Steps:       res.Steps(),
		Lanes:       res.LaneCount(),
		SpanMS:      span,
		TotalStepMS: total,
		Slowest:     steps,
	}
	if span > 0 {
		s.Parallelism = float64(total) / float64(span)
	}
	return s
}
