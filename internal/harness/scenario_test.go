package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeScenario(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestLoadScenario_Valid(t *testing.T) {
	path := writeScenario(t, `
name: overlap
description: "two steps overlap"
tolerance_ms: 5
steps:
  - { start: 0, end: 10, output: a.o, hash: "ff" }
  - { start: 2, end: 8, output: b.o }
assertions:
  - type: lane_count
    count: 2
`)

	s, err := LoadScenario(path)
	require.NoError(t, err)

	assert.Equal(t, "overlap", s.Name)
	assert.Equal(t, uint32(5), s.ToleranceMS)
	require.Len(t, s.Steps, 2)
	assert.Equal(t, StepSpec{Start: 0, End: 10, Output: "a.o", Hash: "ff"}, s.Steps[0])
	assert.Equal(t, []Assertion{{Type: AssertLaneCount, Count: 2}}, s.Assertions)
}

func TestLoadScenario_RejectsUnknownFields(t *testing.T) {
	path := writeScenario(t, `
name: typo
description: "assertion instead of assertions"
assertion:
  - type: non_overlap
`)

	_, err := LoadScenario(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse YAML")
}

func TestLoadScenario_MissingFile(t *testing.T) {
	_, err := LoadScenario(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read scenario file")
}

func TestValidateScenario(t *testing.T) {
	tests := []struct {
		name     string
		scenario Scenario
		wantErr  string
	}{
		{
			name:     "missing name",
			scenario: Scenario{Description: "d"},
			wantErr:  "name is required",
		},
		{
			name:     "missing description",
			scenario: Scenario{Name: "n"},
			wantErr:  "description is required",
		},
		{
			name: "log and steps",
			scenario: Scenario{Name: "n", Description: "d", Log: "# ninja log v5\n",
				Steps: []StepSpec{{Output: "a"}}, ExpectError: ErrorFormat},
			wantErr: "mutually exclusive",
		},
		{
			name:     "step without output",
			scenario: Scenario{Name: "n", Description: "d", Steps: []StepSpec{{Start: 1}}, ExpectError: ErrorRecord},
			wantErr:  "steps[0]: output is required",
		},
		{
			name:     "unknown error class",
			scenario: Scenario{Name: "n", Description: "d", ExpectError: "boom"},
			wantErr:  `unknown expect_error "boom"`,
		},
		{
			name:     "nothing to check",
			scenario: Scenario{Name: "n", Description: "d"},
			wantErr:  "assertions list is required",
		},
		{
			name:     "unknown assertion",
			scenario: Scenario{Name: "n", Description: "d", Assertions: []Assertion{{Type: "vibes"}}},
			wantErr:  `assertions[0]: unknown assertion type "vibes"`,
		},
		{
			name:     "lane without output",
			scenario: Scenario{Name: "n", Description: "d", Assertions: []Assertion{{Type: AssertLane}}},
			wantErr:  "assertions[0]: output is required for lane",
		},
		{
			name:     "negative count",
			scenario: Scenario{Name: "n", Description: "d", Assertions: []Assertion{{Type: AssertStepCount, Count: -1}}},
			wantErr:  "count must be non-negative",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateScenario(&tt.scenario)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLogText_FromSteps(t *testing.T) {
	s := &Scenario{Steps: []StepSpec{
		{Start: 0, End: 10, Mtime: 7, Output: "a.o", Hash: "00ff"},
	}}

	text, err := s.LogText()
	require.NoError(t, err)
	assert.Equal(t, "# ninja log v5\n0\t10\t7\ta.o\tff\n", text)
}

func TestLogText_RawLogWins(t *testing.T) {
	s := &Scenario{Log: "# ninja log v4\n"}

	text, err := s.LogText()
	require.NoError(t, err)
	assert.Equal(t, "# ninja log v4\n", text)
}

func TestLogText_BadHash(t *testing.T) {
	s := &Scenario{Steps: []StepSpec{{Output: "a.o", Hash: "xyz"}}}

	_, err := s.LogText()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `steps[0]: hash "xyz"`)
}
