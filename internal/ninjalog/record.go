package ninjalog

import "fmt"

// StepRecord is one logged execution of a build step.
//
// Start and End are milliseconds since the start of the invocation that ran
// the step. Hash is the command hash ninja uses to decide whether the step
// must run again; it is carried through but never interpreted.
type StepRecord struct {
	Start  uint32 `json:"start"`
	End    uint32 `json:"end"`
	Mtime  int64  `json:"mtime"`
	Output string `json:"output"`
	Hash   uint64 `json:"hash"`
}

// Duration returns End-Start in milliseconds.
// The result is negative for records that fail Validate.
func (r StepRecord) Duration() int64 {
	return int64(r.End) - int64(r.Start)
}

// HashHex renders Hash the way ninja writes it.
func (r StepRecord) HashHex() string {
	return fmt.Sprintf("%016x", r.Hash)
}

// Validate reports records whose interval is reversed.
// The parser never calls it; callers decide whether to enforce it.
func (r StepRecord) Validate() error {
	if r.End < r.Start {
		return &RecordError{
			Output: r.Output,
			Reason: fmt.Sprintf("end time %d is before start time %d", r.End, r.Start),
		}
	}
	return nil
}
