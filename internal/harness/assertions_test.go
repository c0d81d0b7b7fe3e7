package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/ninjatrace/internal/chrometrace"
)

func sampleResult() *Result {
	r := NewResult()
	r.Invocations = 2
	r.Lanes = 2
	r.Events = []chrometrace.Event{
		{Name: "a", Ts: 0, Dur: 10000, Tid: 0, Args: chrometrace.EventArgs{Invocation: 1}},
		{Name: "b", Ts: 2000, Dur: 6000, Tid: 1, Args: chrometrace.EventArgs{Invocation: 1}},
		{Name: "c", Ts: 10000, Dur: 5000, Tid: 0},
	}
	return r
}

func TestEvaluate_Passing(t *testing.T) {
	r := sampleResult()

	for _, a := range []Assertion{
		{Type: AssertInvocationCount, Count: 2},
		{Type: AssertStepCount, Count: 3},
		{Type: AssertLaneCount, Count: 2},
		{Type: AssertLane, Output: "b", Lane: 1},
		{Type: AssertSourceInvocation, Output: "a", Invocation: 1},
		{Type: AssertDuration, Output: "c", DurUS: 5000},
		{Type: AssertNonOverlap},
	} {
		assert.NoError(t, evaluate(r, a), a.Type)
	}
}

func TestEvaluate_Failing(t *testing.T) {
	r := sampleResult()

	err := evaluate(r, Assertion{Type: AssertSourceInvocation, Output: "c", Invocation: 1})
	require.Error(t, err)

	var ae *AssertionError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, AssertSourceInvocation, ae.Type)
	assert.Equal(t, "c invocation = 1", ae.Expected)
	assert.Equal(t, "c invocation = 0", ae.Actual)
	assert.Contains(t, err.Error(), "[3] c pid=0 tid=0 ts=10000 dur=5000")
}

func TestAssertNonOverlap_DetectsSharedLane(t *testing.T) {
	r := sampleResult()
	r.Events[1].Tid = 0

	err := assertNonOverlap(r)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "a [0,+10000) overlaps b [2000,+6000)")
}

func TestAssertNonOverlap_TouchingIsFine(t *testing.T) {
	r := sampleResult()
	// a ends at 10000, c starts at 10000 on the same lane.
	assert.NoError(t, assertNonOverlap(r))
}

func TestAssertNonOverlap_DifferentPidsNeverConflict(t *testing.T) {
	r := NewResult()
	r.Events = []chrometrace.Event{
		{Name: "a", Ts: 0, Dur: 10, Pid: 0},
		{Name: "a", Ts: 0, Dur: 10, Pid: 1},
	}
	assert.NoError(t, assertNonOverlap(r))
}
