package timeline

import "github.com/roach88/ninjatrace/internal/ninjalog"

// DefaultTolerance is the default SegmentOptions.Tolerance in milliseconds.
const DefaultTolerance uint32 = 0

// Invocation is one contiguous run of the build tool.
type Invocation struct {
	// Index is the 0-based position of the invocation in the log.
	Index int
	// Offset is the index of the first record in the raw record sequence.
	Offset int
	// Records are the invocation's records in log order.
	Records []ninjalog.StepRecord
}

// SegmentOptions tunes invocation boundary detection.
type SegmentOptions struct {
	// Tolerance is how far, in milliseconds, a record may start before the
	// latest end time seen in the current invocation without being treated
	// as the first record of a new invocation.
	Tolerance uint32
}

// Segment partitions records into invocations.
//
// Each invocation keeps a running maximum end time. A record whose start lies
// more than Tolerance before that maximum means ninja's clock restarted, so it
// opens a new invocation. Two invocations whose timestamps happen to keep
// increasing cannot be told apart and come back as one; merging is last
// writer wins, so the reconstructed timeline is the same either way.
//
// Segment never fails. Zero records yield zero invocations.
func Segment(records []ninjalog.StepRecord, opts SegmentOptions) []Invocation {
	var invocations []Invocation
	var maxEnd uint32

	for i, rec := range records {
		if len(invocations) == 0 || restarted(rec, maxEnd, opts.Tolerance) {
			invocations = append(invocations, Invocation{
				Index:  len(invocations),
				Offset: i,
			})
			maxEnd = 0
		}
		current := &invocations[len(invocations)-1]
		current.Records = append(current.Records, rec)
		if rec.End > maxEnd {
			maxEnd = rec.End
		}
	}

	return invocations
}

// restarted reports whether rec starts more than tolerance before maxEnd.
// Computed in 64 bits so Start+tolerance cannot wrap.
func restarted(rec ninjalog.StepRecord, maxEnd, tolerance uint32) bool {
	return uint64(rec.Start)+uint64(tolerance) < uint64(maxEnd)
}
