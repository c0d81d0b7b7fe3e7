package chrometrace

import (
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xeipuuv/gojsonschema"

	"github.com/roach88/ninjatrace/internal/ninjalog"
	"github.com/roach88/ninjatrace/internal/timeline"
)

func validateTrace(t *testing.T, data []byte) {
	t.Helper()
	schema, err := os.ReadFile("testdata/trace.schema.json")
	require.NoError(t, err)

	result, err := gojsonschema.Validate(gojsonschema.NewBytesLoader(schema), gojsonschema.NewBytesLoader(data))
	require.NoError(t, err)

	var msgs []string
	for _, e := range result.Errors() {
		msgs = append(msgs, e.String())
	}
	require.True(t, result.Valid(), "trace does not match schema: %v", msgs)
}

func TestEncode_MatchesTraceSchema(t *testing.T) {
	var entries []timeline.CanonicalEntry
	for i := 0; i < 20; i++ {
		entries = append(entries, timeline.CanonicalEntry{
			StepRecord: ninjalog.StepRecord{
				Start:  uint32(i * 3),
				End:    uint32(i*3 + 7),
				Output: fmt.Sprintf("obj/%02d.o", i),
				Hash:   uint64(i) << 40,
			},
			Invocation: i % 2,
		})
	}
	// A zero-duration step.
	entries = append(entries, timeline.CanonicalEntry{StepRecord: ninjalog.StepRecord{Start: 5, End: 5, Output: "stamp"}})

	events, err := Emit(timeline.AssignLanes(entries), 1)
	require.NoError(t, err)

	data, err := Encode(events)
	require.NoError(t, err)
	validateTrace(t, data)
}

func TestEncode_EmptyMatchesTraceSchema(t *testing.T) {
	data, err := Encode(nil)
	require.NoError(t, err)
	validateTrace(t, data)
}
