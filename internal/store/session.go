package store

import (
	"fmt"
	"time"

	"github.com/roach88/ninjatrace/internal/canonical"
	"github.com/roach88/ninjatrace/internal/pipeline"
	"github.com/roach88/ninjatrace/internal/timeline"
)

// Session summarizes one recorded timeline.
type Session struct {
	ID            string    `json:"id"`
	LogPath       string    `json:"log_path"`
	Fingerprint   string    `json:"fingerprint"`
	RecordedAt    time.Time `json:"recorded_at"`
	PerInvocation bool      `json:"per_invocation"`
	Records       int       `json:"records"`
	Invocations   int       `json:"invocations"`
	Steps         int       `json:"steps"`
	Lanes         int       `json:"lanes"`
	SpanMS        int64     `json:"span_ms"`
}

// Step is one persisted lane event.
type Step struct {
	Seq        int    `json:"seq"`
	Pid        int    `json:"pid"`
	Output     string `json:"output"`
	StartMS    uint32 `json:"start_ms"`
	EndMS      uint32 `json:"end_ms"`
	Hash       uint64 `json:"-"`
	Invocation int    `json:"invocation"`
	Lane       int    `json:"lane"`
}

// DurationMS returns the step's wall time.
func (s Step) DurationMS() int64 {
	return int64(s.EndMS) - int64(s.StartMS)
}

// Recording is a session with its steps, ready to be written.
type Recording struct {
	Session Session
	Steps   []Step
}

// NewRecording builds a recording of res. The session id is left for
// WriteSession to fill in.
func NewRecording(logPath string, recordedAt time.Time, perInvocation bool, res *pipeline.Result) (Recording, error) {
	var steps []Step
	for _, v := range res.Views {
		for _, ev := range v.Lanes {
			steps = append(steps, Step{
				Seq:        len(steps),
				Pid:        v.Pid,
				Output:     ev.Output,
				StartMS:    ev.Start,
				EndMS:      ev.End,
				Hash:       ev.Hash,
				Invocation: ev.Invocation,
				Lane:       ev.Lane,
			})
		}
	}

	fp, err := fingerprint(perInvocation, steps)
	if err != nil {
		return Recording{}, fmt.Errorf("new recording: %w", err)
	}

	start, end := timeline.Span(res.LaneEvents())

	return Recording{
		Session: Session{
			LogPath:       logPath,
			Fingerprint:   fp,
			RecordedAt:    recordedAt.UTC().Truncate(time.Millisecond),
			PerInvocation: perInvocation,
			Records:       res.Records,
			Invocations:   len(res.Invocations),
			Steps:         len(steps),
			Lanes:         res.LaneCount(),
			SpanMS:        int64(end) - int64(start),
		},
		Steps: steps,
	}, nil
}

// fingerprint identifies a timeline by content. Log path and recording time
// are left out so the same build recorded from a copy still matches.
func fingerprint(perInvocation bool, steps []Step) (string, error) {
	items := make([]any, len(steps))
	for i, s := range steps {
		items[i] = map[string]any{
			"pid":        s.Pid,
			"output":     s.Output,
			"start":      s.StartMS,
			"end":        s.EndMS,
			"hash":       hashHex(s.Hash),
			"invocation": s.Invocation,
			"lane":       s.Lane,
		}
	}
	return canonical.Fingerprint(canonical.DomainTimeline, map[string]any{
		"per_invocation": perInvocation,
		"steps":          items,
	})
}

func hashHex(h uint64) string {
	return fmt.Sprintf("%016x", h)
}
