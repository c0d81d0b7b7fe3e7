package ninjalog

import (
	"errors"
	"fmt"
)

// FormatError reports a header that does not announce the supported version.
//
// Found is the version number from the header, or -1 when the header was
// missing or unrecognizable (Header then holds what was read instead).
type FormatError struct {
	Expected int
	Found    int
	Header   string
}

func (e *FormatError) Error() string {
	if e.Found < 0 {
		return fmt.Sprintf("not a ninja log: expected header %q, found %q", fmt.Sprintf("# ninja log v%d", e.Expected), e.Header)
	}
	return fmt.Sprintf("unsupported ninja log version: expected v%d, found v%d", e.Expected, e.Found)
}

// TruncatedRecordError reports a record cut short by the end of the stream.
type TruncatedRecordError struct {
	// Offset is the byte offset at which the stream ended.
	Offset int64
	// RecordOffset is the byte offset where the incomplete record began.
	RecordOffset int64
}

func (e *TruncatedRecordError) Error() string {
	return fmt.Sprintf("truncated record at byte %d (record began at byte %d)", e.Offset, e.RecordOffset)
}

// RecordError reports a complete line that cannot be decoded into a record,
// or a decoded record that fails StepRecord.Validate.
type RecordError struct {
	Line   int    // 1-based line number, 0 if unknown
	Offset int64  // byte offset of the line
	Output string // output path, when it could be read
	Reason string
}

func (e *RecordError) Error() string {
	switch {
	case e.Line > 0:
		return fmt.Sprintf("malformed record on line %d (byte %d): %s", e.Line, e.Offset, e.Reason)
	case e.Output != "":
		return fmt.Sprintf("invalid record for %s: %s", e.Output, e.Reason)
	default:
		return fmt.Sprintf("invalid record: %s", e.Reason)
	}
}

// IsInputError reports whether err stems from malformed log content rather
// than from I/O or an internal fault. Uses errors.As to handle wrapped errors.
func IsInputError(err error) bool {
	var fe *FormatError
	var te *TruncatedRecordError
	var re *RecordError
	return errors.As(err, &fe) || errors.As(err, &te) || errors.As(err, &re)
}
