package store

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/roach88/ninjatrace/internal/pipeline"
	"github.com/roach88/ninjatrace/internal/testutil"
)

var recordedAt = time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)

// createTestStore creates a new store in a temporary directory.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(context.Background(), path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestRecording reconstructs log and wraps it as a recording.
func createTestRecording(t *testing.T, log string, perInvocation bool) Recording {
	t.Helper()
	res, err := pipeline.Run(strings.NewReader(log), pipeline.Options{PerInvocation: perInvocation})
	if err != nil {
		t.Fatalf("pipeline.Run() failed: %v", err)
	}
	rec, err := NewRecording("out/.ninja_log", recordedAt, perInvocation, res)
	if err != nil {
		t.Fatalf("NewRecording() failed: %v", err)
	}
	return rec
}

// twoInvocationLog has an interrupted first invocation and a full second one.
func twoInvocationLog() string {
	return testutil.NewLog().
		Step(0, 400, "obj/a.o").
		Step(0, 120, "obj/a.o").
		Step(120, 300, "obj/b.o").
		Step(300, 310, "obj/c.o").
		String()
}
