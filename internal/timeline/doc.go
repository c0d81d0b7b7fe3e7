// Package timeline rebuilds a single build timeline from ninja log records.
//
// The pipeline runs strictly forward and single-threaded:
//
//	records → Segment → []Invocation → Reconstruct → *Timeline → AssignLanes → []LaneEvent
//
// Segment guesses where the build tool restarted, Reconstruct keeps the
// latest record per output (last writer wins), and AssignLanes packs the
// surviving steps into the fewest non-overlapping lanes a greedy scheduler
// finds. Lanes are synthetic; ninja does not log worker identity.
package timeline
