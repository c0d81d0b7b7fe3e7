package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/require"

	"github.com/roach88/ninjatrace/internal/store"
	"github.com/roach88/ninjatrace/internal/testutil"
)

var fixedNow = time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

type cliRun struct {
	code   int
	stdout string
	stderr string
}

// testCLI shares a clock and id generator across runs, so several commands
// can work on one database.
type testCLI struct {
	t     *testing.T
	clock *testutil.DeterministicClock
	ids   store.IDGenerator
}

func newTestCLI(t *testing.T) *testCLI {
	t.Helper()
	isolateConfig(t)
	color.NoColor = true
	return &testCLI{
		t:     t,
		clock: testutil.NewDeterministicClock(fixedNow, time.Minute),
		ids:   store.NewFixedGenerator("session-1", "session-2", "session-3", "session-4"),
	}
}

func (c *testCLI) run(args ...string) cliRun {
	c.t.Helper()
	opts := &RootOptions{Now: c.clock.Now, IDs: c.ids}

	var stdout, stderr bytes.Buffer
	code := execute(newRootCommand(opts), opts, args, &stdout, &stderr)
	return cliRun{code: code, stdout: stdout.String(), stderr: stderr.String()}
}

// runCLI executes a single command in-process.
func runCLI(t *testing.T, args ...string) cliRun {
	t.Helper()
	return newTestCLI(t).run(args...)
}

// isolateConfig keeps user config files and NINJATRACE_* variables out of
// the test.
func isolateConfig(t *testing.T) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	for _, key := range []string{"TOLERANCE_MS", "PER_INVOCATION", "LOG_FILENAME", "DATABASE", "TOP"} {
		name := "NINJATRACE_" + key
		t.Setenv(name, "")
		os.Unsetenv(name)
	}
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// jsonResponse mirrors CLIResponse with the payload left undecoded.
type jsonResponse struct {
	Status string          `json:"status"`
	Data   json.RawMessage `json:"data"`
	Error  *CLIError       `json:"error"`
}

func decodeResponse(t *testing.T, out string, data any) jsonResponse {
	t.Helper()
	var resp jsonResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp), out)
	if data != nil && resp.Data != nil {
		require.NoError(t, json.Unmarshal(resp.Data, data))
	}
	return resp
}

// overlapLog has two steps that overlap by 5ms: one invocation at tolerance
// 5 or more, two below that.
func overlapLog() string {
	return testutil.NewLog().
		StepWithHash(0, 100, 0, "obj/a.o", 0xa1).
		StepWithHash(95, 150, 0, "obj/b.o", 0xb2).
		String()
}
