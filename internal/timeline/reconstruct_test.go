package timeline

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/ninjatrace/internal/ninjalog"
)

func outputs(entries []CanonicalEntry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Output
	}
	return out
}

func TestReconstruct_InsertsInFirstSeenOrder(t *testing.T) {
	inv := Invocation{Records: []ninjalog.StepRecord{rec(0, 1, "c"), rec(1, 2, "a"), rec(2, 3, "b")}}

	tl := Reconstruct([]Invocation{inv})

	assert.Equal(t, 3, tl.Len())
	assert.Equal(t, []string{"c", "a", "b"}, outputs(tl.Entries()))
}

func TestReconstruct_LastWriterWins(t *testing.T) {
	first := Invocation{Index: 0, Records: []ninjalog.StepRecord{rec(0, 50, "x"), rec(10, 20, "y")}}
	second := Invocation{Index: 1, Offset: 2, Records: []ninjalog.StepRecord{rec(0, 80, "x")}}

	tl := Reconstruct([]Invocation{first, second})

	got, ok := tl.Get("x")
	require.True(t, ok)
	want := CanonicalEntry{StepRecord: rec(0, 80, "x"), Invocation: 1}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("entry for x mismatch (-want +got):\n%s", diff)
	}

	y, ok := tl.Get("y")
	require.True(t, ok)
	assert.Equal(t, 0, y.Invocation)
}

func TestReconstruct_ReplacesRegardlessOfDuration(t *testing.T) {
	first := Invocation{Index: 0, Records: []ninjalog.StepRecord{rec(0, 500, "x")}}
	second := Invocation{Index: 1, Records: []ninjalog.StepRecord{rec(0, 3, "x")}}

	tl := Reconstruct([]Invocation{first, second})

	got, _ := tl.Get("x")
	assert.Equal(t, uint32(3), got.End)
}

func TestReconstruct_ReplacementKeepsFirstInsertionPosition(t *testing.T) {
	first := Invocation{Index: 0, Records: []ninjalog.StepRecord{rec(0, 1, "a"), rec(1, 2, "b")}}
	second := Invocation{Index: 1, Records: []ninjalog.StepRecord{rec(0, 1, "c"), rec(1, 2, "a")}}

	tl := Reconstruct([]Invocation{first, second})

	assert.Equal(t, []string{"a", "b", "c"}, outputs(tl.Entries()))
}

func TestReconstruct_DuplicateWithinInvocationLaterWins(t *testing.T) {
	inv := Invocation{Records: []ninjalog.StepRecord{
		{Start: 5, End: 6, Output: "x", Hash: 1},
		{Start: 5, End: 9, Output: "x", Hash: 2},
	}}

	tl := Reconstruct([]Invocation{inv})

	got, _ := tl.Get("x")
	assert.Equal(t, 1, tl.Len())
	assert.Equal(t, uint64(2), got.Hash)
}

func TestMerge_IsIdempotent(t *testing.T) {
	inv := Invocation{Index: 3, Records: []ninjalog.StepRecord{rec(0, 4, "a"), rec(2, 6, "b"), rec(4, 9, "a")}}

	tl := NewTimeline()
	tl.Merge(inv)
	once := tl.Entries()
	tl.Merge(inv)
	twice := tl.Entries()

	if diff := cmp.Diff(once, twice); diff != "" {
		t.Errorf("second merge changed the timeline (-once +twice):\n%s", diff)
	}
}

func TestReconstruct_InterruptedThenResumed(t *testing.T) {
	// Invocation A was interrupted after logging X; invocation B restarted
	// the clock and built X, Y and Z to completion.
	records := []ninjalog.StepRecord{
		rec(100, 400, "X"),
		rec(0, 120, "X"),
		rec(120, 200, "Y"),
		rec(200, 260, "Z"),
	}

	invs := Segment(records, SegmentOptions{})
	require.Len(t, invs, 2)
	assert.Equal(t, []ninjalog.StepRecord{rec(100, 400, "X")}, invs[0].Records)

	tl := Reconstruct(invs)

	require.Equal(t, 3, tl.Len())
	for _, e := range tl.Entries() {
		assert.Equal(t, 1, e.Invocation, "%s should come from the resumed invocation", e.Output)
	}
	x, _ := tl.Get("X")
	assert.Equal(t, rec(0, 120, "X"), x.StepRecord)
}

func TestReconstruct_Empty(t *testing.T) {
	tl := Reconstruct(nil)
	assert.Equal(t, 0, tl.Len())
	assert.Empty(t, tl.Entries())

	_, ok := tl.Get("anything")
	assert.False(t, ok)
}

func TestReconstructEach_KeepsInvocationsApart(t *testing.T) {
	invs := []Invocation{
		{Index: 0, Records: []ninjalog.StepRecord{rec(0, 10, "a"), rec(5, 20, "b")}},
		{Index: 1, Records: []ninjalog.StepRecord{rec(0, 3, "a")}},
	}

	tls := ReconstructEach(invs)

	require.Len(t, tls, 2)
	assert.Equal(t, []string{"a", "b"}, outputs(tls[0].Entries()))
	a0, _ := tls[0].Get("a")
	assert.Equal(t, uint32(10), a0.End)
	assert.Equal(t, []string{"a"}, outputs(tls[1].Entries()))
	a1, _ := tls[1].Get("a")
	assert.Equal(t, 1, a1.Invocation)
}
