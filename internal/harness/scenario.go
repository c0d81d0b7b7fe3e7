package harness

import (
	"bytes"
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/roach88/ninjatrace/internal/testutil"
)

// Scenario defines one reconstruction test case.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// ToleranceMS and PerInvocation are passed to the pipeline.
	ToleranceMS   uint32 `yaml:"tolerance_ms,omitempty"`
	PerInvocation bool   `yaml:"per_invocation,omitempty"`

	// Steps are written to a v5 log in order. Mutually exclusive with Log.
	Steps []StepSpec `yaml:"steps,omitempty"`

	// Log is raw log text, used verbatim.
	Log string `yaml:"log,omitempty"`

	// ExpectError names the error class the run must fail with.
	ExpectError string `yaml:"expect_error,omitempty"`

	// Assertions validate the emitted trace.
	Assertions []Assertion `yaml:"assertions,omitempty"`
}

// StepSpec is one log record.
type StepSpec struct {
	Start  uint32 `yaml:"start"`
	End    uint32 `yaml:"end"`
	Mtime  int64  `yaml:"mtime,omitempty"`
	Output string `yaml:"output"`
	// Hash is hex; when empty, a hash is derived from Output.
	Hash string `yaml:"hash,omitempty"`
}

// Assertion validates the result of a scenario.
type Assertion struct {
	Type       string `yaml:"type"`
	Output     string `yaml:"output,omitempty"`
	Count      int    `yaml:"count,omitempty"`
	Lane       int    `yaml:"lane,omitempty"`
	Invocation int    `yaml:"invocation,omitempty"`
	DurUS      int64  `yaml:"dur_us,omitempty"`
}

// Assertion type constants.
const (
	AssertInvocationCount  = "invocation_count"
	AssertStepCount        = "step_count"
	AssertLaneCount        = "lane_count"
	AssertLane             = "lane"
	AssertSourceInvocation = "source_invocation"
	AssertDuration         = "duration"
	AssertNonOverlap       = "non_overlap"
)

// Error classes accepted by expect_error.
const (
	ErrorFormat    = "format"
	ErrorTruncated = "truncated"
	ErrorRecord    = "record"
	ErrorInvariant = "invariant"
)

// LoadScenario reads and parses a scenario YAML file.
// Unknown fields are rejected so typos don't silently disable checks.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// LogText returns the ninja log the scenario feeds to the pipeline.
func (s *Scenario) LogText() (string, error) {
	if s.Log != "" {
		return s.Log, nil
	}

	b := testutil.NewLog()
	for i, st := range s.Steps {
		hash := testutil.HashFor(st.Output)
		if st.Hash != "" {
			h, err := strconv.ParseUint(st.Hash, 16, 64)
			if err != nil {
				return "", fmt.Errorf("steps[%d]: hash %q: %w", i, st.Hash, err)
			}
			hash = h
		}
		b.StepWithHash(st.Start, st.End, st.Mtime, st.Output, hash)
	}
	return b.String(), nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if s.Log != "" && len(s.Steps) > 0 {
		return fmt.Errorf("log and steps are mutually exclusive")
	}

	for i, st := range s.Steps {
		if st.Output == "" {
			return fmt.Errorf("steps[%d]: output is required", i)
		}
	}

	switch s.ExpectError {
	case "", ErrorFormat, ErrorTruncated, ErrorRecord, ErrorInvariant:
	default:
		return fmt.Errorf("unknown expect_error %q", s.ExpectError)
	}

	if s.ExpectError == "" && len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required unless expect_error is set")
	}

	for i := range s.Assertions {
		if err := validateAssertion(i, &s.Assertions[i]); err != nil {
			return err
		}
	}

	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertInvocationCount, AssertStepCount, AssertLaneCount:
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for %s", index, a.Type)
		}
	case AssertLane, AssertSourceInvocation, AssertDuration:
		if a.Output == "" {
			return fmt.Errorf("assertions[%d]: output is required for %s", index, a.Type)
		}
	case AssertNonOverlap:
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}

	return nil
}
