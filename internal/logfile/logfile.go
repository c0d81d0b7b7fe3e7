// Package logfile locates and opens ninja logs on disk.
//
// Path resolution is injected as a Resolver so callers decide how a
// directory maps to a log file; the reconstruction code never looks at the
// filesystem itself.
package logfile

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pierrec/lz4/v4"
)

// CompressedSuffix marks logs archived as lz4 frames.
const CompressedSuffix = ".lz4"

// Resolver maps a user-supplied path to the log file to open.
type Resolver func(path string) (string, error)

// NotFoundError reports a path that does not lead to a log file.
type NotFoundError struct {
	Path string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s does not exist", e.Path)
}

// DirResolver returns a Resolver that maps a build directory to
// <dir>/<filename> and passes any other path through unchanged.
func DirResolver(filename string) Resolver {
	return func(path string) (string, error) {
		abs, err := filepath.Abs(path)
		if err != nil {
			return "", fmt.Errorf("resolve %s: %w", path, err)
		}

		info, err := os.Stat(abs)
		if errors.Is(err, fs.ErrNotExist) {
			return "", &NotFoundError{Path: abs}
		}
		if err != nil {
			return "", fmt.Errorf("resolve %s: %w", abs, err)
		}
		if !info.IsDir() {
			return abs, nil
		}

		candidate := filepath.Join(abs, filename)
		info, err = os.Stat(candidate)
		if errors.Is(err, fs.ErrNotExist) {
			return "", &NotFoundError{Path: candidate}
		}
		if err != nil {
			return "", fmt.Errorf("resolve %s: %w", candidate, err)
		}
		if info.IsDir() {
			return "", fmt.Errorf("resolve %s: is a directory", candidate)
		}
		return candidate, nil
	}
}

// Open resolves path and opens the log for reading. Files ending in
// CompressedSuffix are decompressed on the fly. The resolved path is
// returned for diagnostics.
func Open(path string, resolve Resolver) (io.ReadCloser, string, error) {
	resolved, err := resolve(path)
	if err != nil {
		return nil, "", err
	}

	f, err := os.Open(resolved)
	if err != nil {
		return nil, resolved, fmt.Errorf("open log: %w", err)
	}

	if !strings.HasSuffix(resolved, CompressedSuffix) {
		return f, resolved, nil
	}
	return &compressedFile{Reader: lz4.NewReader(f), file: f}, resolved, nil
}

// compressedFile closes the underlying file once the lz4 stream is done with.
type compressedFile struct {
	*lz4.Reader
	file *os.File
}

func (c *compressedFile) Close() error {
	return c.file.Close()
}
