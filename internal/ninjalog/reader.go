package ninjalog

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"iter"
	"regexp"
	"strconv"
	"strings"
)

// Version is the only log format version this package decodes.
const Version = 5

// DefaultFilename is the log file ninja keeps at the root of a build directory.
const DefaultFilename = ".ninja_log"

// fieldCount is the number of tab-separated fields in a v5 record.
const fieldCount = 5

var headerPattern = regexp.MustCompile(`^#[\t ]+ninja[\t ]+log[\t ]+v(\d+)`)

// Reader decodes records lazily from a ninja log stream.
//
// The header is checked on the first call to Next. Once Next returns an
// error, every later call returns the same error; to read the log again,
// create a new Reader over a fresh stream.
type Reader struct {
	br         *bufio.Reader
	offset     int64
	line       int
	headerRead bool
	err        error
}

// NewReader returns a Reader consuming r sequentially.
func NewReader(r io.Reader) *Reader {
	return &Reader{br: bufio.NewReader(r)}
}

// Next returns the next record in file order, or io.EOF after the last one.
func (r *Reader) Next() (StepRecord, error) {
	if r.err != nil {
		return StepRecord{}, r.err
	}

	if !r.headerRead {
		if err := r.readHeader(); err != nil {
			r.err = err
			return StepRecord{}, err
		}
	}

	for {
		start := r.offset
		raw, err := r.br.ReadString('\n')
		r.offset += int64(len(raw))

		if err != nil && !errors.Is(err, io.EOF) {
			r.err = fmt.Errorf("read ninja log: %w", err)
			return StepRecord{}, r.err
		}
		if errors.Is(err, io.EOF) {
			// A well-formed log ends right after a newline.
			if strings.TrimSpace(raw) == "" {
				r.err = io.EOF
				return StepRecord{}, io.EOF
			}
			r.err = &TruncatedRecordError{Offset: r.offset, RecordOffset: start}
			return StepRecord{}, r.err
		}

		r.line++
		text := trimNewline(raw)
		if text == "" || text[0] == '#' {
			continue
		}

		rec, perr := parseRecord(text)
		if perr != nil {
			r.err = &RecordError{Line: r.line, Offset: start, Reason: perr.Error()}
			return StepRecord{}, r.err
		}
		return rec, nil
	}
}

// Offset returns the number of bytes consumed so far.
func (r *Reader) Offset() int64 {
	return r.offset
}

func (r *Reader) readHeader() error {
	raw, err := r.br.ReadString('\n')
	r.offset += int64(len(raw))
	if err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("read ninja log header: %w", err)
	}
	r.line++
	r.headerRead = true

	header := trimNewline(raw)
	m := headerPattern.FindStringSubmatch(header)
	if m == nil {
		return &FormatError{Expected: Version, Found: -1, Header: header}
	}
	version, convErr := strconv.Atoi(m[1])
	if convErr != nil {
		return &FormatError{Expected: Version, Found: -1, Header: header}
	}
	if version != Version {
		return &FormatError{Expected: Version, Found: version, Header: header}
	}
	return nil
}

// parseRecord decodes the fields of one record line, in on-disk order.
func parseRecord(text string) (StepRecord, error) {
	fields := strings.Split(text, "\t")
	if len(fields) != fieldCount {
		return StepRecord{}, fmt.Errorf("expected %d tab-separated fields, found %d", fieldCount, len(fields))
	}

	start, err := strconv.ParseUint(fields[0], 10, 32)
	if err != nil {
		return StepRecord{}, fmt.Errorf("start time %q: %w", fields[0], err)
	}
	end, err := strconv.ParseUint(fields[1], 10, 32)
	if err != nil {
		return StepRecord{}, fmt.Errorf("end time %q: %w", fields[1], err)
	}
	mtime, err := strconv.ParseInt(fields[2], 10, 64)
	if err != nil {
		return StepRecord{}, fmt.Errorf("restat mtime %q: %w", fields[2], err)
	}
	if fields[3] == "" {
		return StepRecord{}, errors.New("empty output path")
	}
	hash, err := strconv.ParseUint(fields[4], 16, 64)
	if err != nil {
		return StepRecord{}, fmt.Errorf("command hash %q: %w", fields[4], err)
	}

	return StepRecord{
		Start:  uint32(start),
		End:    uint32(end),
		Mtime:  mtime,
		Output: fields[3],
		Hash:   hash,
	}, nil
}

func trimNewline(s string) string {
	s = strings.TrimSuffix(s, "\n")
	return strings.TrimSuffix(s, "\r")
}

// Records returns the records of r as a single-use sequence.
// Iteration stops after the first error, which is yielded with a zero record.
func Records(r io.Reader) iter.Seq2[StepRecord, error] {
	return func(yield func(StepRecord, error) bool) {
		rd := NewReader(r)
		for {
			rec, err := rd.Next()
			if errors.Is(err, io.EOF) {
				return
			}
			if !yield(rec, err) || err != nil {
				return
			}
		}
	}
}

// ReadAll decodes every record in r.
// Returns an empty (non-nil) slice for a log with a header and no records.
func ReadAll(r io.Reader) ([]StepRecord, error) {
	records := []StepRecord{}
	for rec, err := range Records(r) {
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}
