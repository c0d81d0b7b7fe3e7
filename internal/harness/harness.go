package harness

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/roach88/ninjatrace/internal/canonical"
	"github.com/roach88/ninjatrace/internal/ninjalog"
	"github.com/roach88/ninjatrace/internal/pipeline"
	"github.com/roach88/ninjatrace/internal/store"
	"github.com/roach88/ninjatrace/internal/testutil"
	"github.com/roach88/ninjatrace/internal/timeline"
)

// sessionID is the fixed id every scenario recording is stored under.
const sessionID = "scenario-session"

// clockEpoch is where the deterministic recording clock starts.
var clockEpoch = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

// Run executes a scenario and returns the result.
//
// A pipeline error is returned as an error unless the scenario expects it,
// in which case it is reported in Result.Err. Assertion failures are
// reported in the result, not as an error.
func Run(scenario *Scenario) (*Result, error) {
	logText, err := scenario.LogText()
	if err != nil {
		return nil, err
	}

	result := NewResult()
	res, runErr := pipeline.Run(strings.NewReader(logText), pipeline.Options{
		Tolerance:     scenario.ToleranceMS,
		PerInvocation: scenario.PerInvocation,
	})

	if scenario.ExpectError != "" {
		result.Err = runErr
		if runErr == nil {
			result.AddError(fmt.Sprintf("expected %s error, run succeeded", scenario.ExpectError))
		} else if class := errorClass(runErr); class != scenario.ExpectError {
			result.AddError(fmt.Sprintf("expected %s error, got %s: %v", scenario.ExpectError, class, runErr))
		}
		return result, nil
	}
	if runErr != nil {
		return nil, fmt.Errorf("scenario %s: %w", scenario.Name, runErr)
	}

	result.Events = res.Events
	result.Invocations = len(res.Invocations)
	result.Lanes = res.LaneCount()

	if err := record(context.Background(), scenario, res, result); err != nil {
		return nil, fmt.Errorf("scenario %s: %w", scenario.Name, err)
	}

	result.TraceHash, err = canonical.Fingerprint(canonical.DomainTrace, eventsToCanonical(result.Events))
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", scenario.Name, err)
	}

	for _, a := range scenario.Assertions {
		if err := evaluate(result, a); err != nil {
			result.AddError(err.Error())
		}
	}

	return result, nil
}

// record stores res in a fresh in-memory store twice and checks that the
// second write was deduplicated.
func record(ctx context.Context, scenario *Scenario, res *pipeline.Result, result *Result) error {
	st, err := store.Open(ctx, ":memory:")
	if err != nil {
		return fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	clock := testutil.NewDeterministicClock(clockEpoch, time.Second)
	ids := store.NewFixedGenerator(sessionID, sessionID+"-again")

	for attempt := 0; attempt < 2; attempt++ {
		rec, err := store.NewRecording(scenario.Name, clock.Now(), scenario.PerInvocation, res)
		if err != nil {
			return err
		}
		id, inserted, err := st.WriteSession(ctx, ids, rec)
		if err != nil {
			return err
		}
		if attempt == 0 {
			result.SessionID = id
			result.Fingerprint = rec.Session.Fingerprint
			continue
		}
		if inserted || id != result.SessionID {
			result.AddError(fmt.Sprintf("re-recording was not deduplicated: got session %s (inserted=%v)", id, inserted))
		}
	}
	return nil
}

// errorClass maps a pipeline error to an expect_error value.
func errorClass(err error) string {
	var (
		fe *ninjalog.FormatError
		te *ninjalog.TruncatedRecordError
		re *ninjalog.RecordError
	)
	switch {
	case errors.As(err, &fe):
		return ErrorFormat
	case errors.As(err, &te):
		return ErrorTruncated
	case errors.As(err, &re):
		return ErrorRecord
	case timeline.IsInvariantViolation(err):
		return ErrorInvariant
	default:
		return "unclassified"
	}
}
