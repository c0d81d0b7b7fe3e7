// Package harness runs ninja log reconstruction scenarios described in YAML
// and checks them against assertions and golden traces.
//
// # Scenario Format
//
//	name: scenario_name
//	description: "What this scenario validates"
//	tolerance_ms: 0
//	per_invocation: false
//	steps:
//	  - { start: 0, end: 10, output: obj/a.o, hash: "1f2e" }
//	  - { start: 2, end: 8, output: obj/b.o }
//	assertions:
//	  - type: lane_count
//	    count: 2
//	  - type: lane
//	    output: obj/b.o
//	    lane: 1
//
// Instead of steps, a scenario may give the raw log text in log, for inputs
// the builder cannot express (wrong version, truncated tail). Such scenarios
// usually set expect_error to one of format, truncated, record or invariant.
//
// # Assertion Types
//
//   - invocation_count: number of segmented invocations
//   - step_count: number of emitted trace events
//   - lane_count: number of lanes in use
//   - lane: the lane (tid) of an output
//   - source_invocation: the invocation an output's event came from
//   - duration: an output's duration in microseconds
//   - non_overlap: no two events on one lane overlap
//
// # Deterministic Testing
//
// Every successful scenario is also recorded into an in-memory store with a
// fixed session id and a deterministic clock, twice; the second recording
// must be a no-op. Golden files hold the canonical JSON of the emitted trace
// and live under testdata/golden.
package harness
