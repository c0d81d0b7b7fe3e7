package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/ninjatrace/internal/canonical"
	"github.com/roach88/ninjatrace/internal/chrometrace"
)

// TraceSnapshot captures the trace of a scenario execution for golden
// comparison. It is serialized as canonical JSON.
type TraceSnapshot struct {
	ScenarioName string
	Invocations  int
	Lanes        int
	Events       []chrometrace.Event
}

func (s *TraceSnapshot) toCanonicalMap() map[string]any {
	return map[string]any{
		"scenario_name": s.ScenarioName,
		"invocations":   s.Invocations,
		"lanes":         s.Lanes,
		"events":        eventsToCanonical(s.Events),
	}
}

func eventsToCanonical(events []chrometrace.Event) []any {
	out := make([]any, len(events))
	for i, ev := range events {
		out[i] = map[string]any{
			"name": ev.Name,
			"cat":  ev.Cat,
			"ph":   ev.Ph,
			"ts":   ev.Ts,
			"dur":  ev.Dur,
			"pid":  ev.Pid,
			"tid":  ev.Tid,
			"args": map[string]any{
				"hash":       ev.Args.Hash,
				"invocation": ev.Args.Invocation,
			},
		}
	}
	return out
}

// RunWithGolden executes a scenario and compares its trace against
// testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return nil, err
	}

	if err := AssertGolden(t, scenario.Name, result); err != nil {
		return nil, err
	}
	return result, nil
}

// AssertGolden compares an existing result's trace against a golden file.
func AssertGolden(t *testing.T, scenarioName string, result *Result) error {
	t.Helper()

	snapshot := TraceSnapshot{
		ScenarioName: scenarioName,
		Invocations:  result.Invocations,
		Lanes:        result.Lanes,
		Events:       result.Events,
	}

	data, err := canonical.MarshalCanonical(snapshot.toCanonicalMap())
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenarioName, data)

	return nil
}
