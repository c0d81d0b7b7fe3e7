package testutil

import (
	"fmt"
	"hash/fnv"
	"strings"
)

// LogBuilder writes ninja log text for tests.
//
//	log := testutil.NewLog().
//		Step(0, 10, "a.o").
//		Step(2, 8, "b.o").
//		String()
type LogBuilder struct {
	b strings.Builder
}

// NewLog starts a v5 log.
func NewLog() *LogBuilder {
	return NewLogVersion(5)
}

// NewLogVersion starts a log announcing the given version.
func NewLogVersion(version int) *LogBuilder {
	l := &LogBuilder{}
	fmt.Fprintf(&l.b, "# ninja log v%d\n", version)
	return l
}

// Step appends a record with a zero mtime and a hash derived from output.
func (l *LogBuilder) Step(start, end uint32, output string) *LogBuilder {
	return l.StepWithHash(start, end, 0, output, HashFor(output))
}

// StepWithHash appends a fully specified record.
func (l *LogBuilder) StepWithHash(start, end uint32, mtime int64, output string, hash uint64) *LogBuilder {
	fmt.Fprintf(&l.b, "%d\t%d\t%d\t%s\t%x\n", start, end, mtime, output, hash)
	return l
}

// Comment appends a comment line.
func (l *LogBuilder) Comment(text string) *LogBuilder {
	fmt.Fprintf(&l.b, "# %s\n", text)
	return l
}

// Raw appends text verbatim, for malformed or truncated tails.
func (l *LogBuilder) Raw(text string) *LogBuilder {
	l.b.WriteString(text)
	return l
}

// String returns the log text.
func (l *LogBuilder) String() string {
	return l.b.String()
}

// Bytes returns the log text as bytes.
func (l *LogBuilder) Bytes() []byte {
	return []byte(l.b.String())
}

// HashFor derives a stable command hash for an output path (FNV-1a).
func HashFor(output string) uint64 {
	h := fnv.New64a()
	h.Write([]byte(output))
	return h.Sum64()
}
