package cli

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/ninjatrace/internal/store"
	"github.com/roach88/ninjatrace/internal/testutil"
)

// recordTwo records two different logs into db and returns their paths.
func recordTwo(t *testing.T, cli *testCLI, dir, db string) (string, string) {
	t.Helper()
	first := writeFile(t, dir, "first.log", summaryLog())
	second := writeFile(t, dir, "second.log", testutil.NewLog().Step(0, 2000, "obj/big.o").String())

	for _, log := range []string{first, second} {
		run := cli.run("record", log, "--db", db)
		require.Equal(t, ExitSuccess, run.code, run.stderr)
	}
	return first, second
}

func TestHistory_ListsSessions(t *testing.T) {
	cli := newTestCLI(t)
	dir := t.TempDir()
	db := filepath.Join(dir, "builds.db")
	first, second := recordTwo(t, cli, dir, db)

	run := cli.run("history", "--db", db)

	require.Equal(t, ExitSuccess, run.code, run.stderr)
	assert.Contains(t, run.stdout, "session-1")
	assert.Contains(t, run.stdout, "session-2")
	assert.Contains(t, run.stdout, first)
	assert.Contains(t, run.stdout, second)
	assert.Contains(t, run.stdout, "2 minutes ago")
	assert.Contains(t, run.stdout, "Total: 2 sessions")
}

func TestHistory_Empty(t *testing.T) {
	db := filepath.Join(t.TempDir(), "builds.db")

	run := runCLI(t, "history", "--db", db)

	require.Equal(t, ExitSuccess, run.code, run.stderr)
	assert.Equal(t, "No recorded sessions\n", run.stdout)
}

func TestHistory_JSON(t *testing.T) {
	cli := newTestCLI(t)
	dir := t.TempDir()
	db := filepath.Join(dir, "builds.db")
	recordTwo(t, cli, dir, db)

	run := cli.run("--format", "json", "history", "--db", db)

	require.Equal(t, ExitSuccess, run.code, run.stderr)
	var sessions []store.Session
	resp := decodeResponse(t, run.stdout, &sessions)
	assert.Equal(t, "ok", resp.Status)
	require.Len(t, sessions, 2)
	assert.Equal(t, "session-1", sessions[0].ID)
	assert.Equal(t, "session-2", sessions[1].ID)
	assert.Equal(t, 1, sessions[1].Steps)
}

func TestHistory_SessionSteps(t *testing.T) {
	cli := newTestCLI(t)
	dir := t.TempDir()
	db := filepath.Join(dir, "builds.db")
	recordTwo(t, cli, dir, db)

	run := cli.run("--format", "json", "history", "--db", db, "--session", "session-1", "--top", "2")

	require.Equal(t, ExitSuccess, run.code, run.stderr)
	var payload SessionSteps
	decodeResponse(t, run.stdout, &payload)
	assert.Equal(t, "session-1", payload.Session.ID)
	require.Len(t, payload.Steps, 2)
	assert.Equal(t, "obj/slow.o", payload.Steps[0].Output)
	assert.Equal(t, "obj/mid.o", payload.Steps[1].Output)
}

func TestHistory_SessionStepsText(t *testing.T) {
	cli := newTestCLI(t)
	dir := t.TempDir()
	db := filepath.Join(dir, "builds.db")
	recordTwo(t, cli, dir, db)

	run := cli.run("history", "--db", db, "--session", "session-2", "--top", "0")

	require.Equal(t, ExitSuccess, run.code, run.stderr)
	assert.Contains(t, run.stdout, "Session session-2")
	assert.Contains(t, run.stdout, "obj/big.o")
	assert.Contains(t, run.stdout, "2,000 ms")
}

func TestHistory_UnknownSession(t *testing.T) {
	db := filepath.Join(t.TempDir(), "builds.db")

	run := runCLI(t, "history", "--db", db, "--session", "nope")

	assert.Equal(t, ExitCommandError, run.code)
	assert.Contains(t, run.stderr, "unknown session")
}

func TestHistory_RequiresDatabase(t *testing.T) {
	run := runCLI(t, "history")

	assert.Equal(t, ExitCommandError, run.code)
	assert.Contains(t, run.stderr, "no database")
}

func TestHistory_RejectsArgs(t *testing.T) {
	run := runCLI(t, "history", "extra", "--db", filepath.Join(t.TempDir(), "b.db"))

	assert.Equal(t, ExitCommandError, run.code)
}
