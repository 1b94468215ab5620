// Package validation checks command-line input before it reaches the parser,
// the codecs or the store, and bounds how much of a file is read.
package validation

import (
	"bytes"
	"io"
	"os"
	"strings"
	"unicode"

	"github.com/google/uuid"

	"github.com/FocuswithJustin/versekit/core/errors"
)

// Limits to prevent resource exhaustion (CWE-400).
const (
	// MaxRefsLength bounds reference text. The whole canon named one verse
	// at a time fits comfortably.
	MaxRefsLength = 1 << 20
	// MaxDocumentSize is the largest OSIS document Extract will read (64 MB).
	MaxDocumentSize = 64 << 20
	// MaxBinarySize is the largest binary verse set decode will read. An
	// uncompressed bitwise set is under 4 KB.
	MaxBinarySize = 1 << 20
	// MaxPathLength is the maximum allowed path length.
	MaxPathLength = 4096
)

// openFile is injectable for tests.
var openFile = func(path string) (io.ReadCloser, error) { return os.Open(path) }

// ValidateRefs rejects reference text that is too long or carries control
// characters other than the tab and newline separators.
func ValidateRefs(refs string) error {
	if len(refs) > MaxRefsLength {
		return errors.NewArgument("refs", len(refs), "reference text too long")
	}
	for _, r := range refs {
		if r == '\t' || r == '\n' || r == '\r' {
			continue
		}
		if unicode.IsControl(r) {
			return errors.NewArgument("refs", refs, "control character not allowed")
		}
	}
	return nil
}

// ValidatePath performs path validation for files named on the command line.
func ValidatePath(path string) error {
	if path == "" {
		return errors.NewArgument("path", path, "path cannot be empty")
	}
	if len(path) > MaxPathLength {
		return errors.NewArgument("path", len(path), "path too long")
	}
	if strings.Contains(path, "\x00") {
		return errors.NewArgument("path", path, "null byte not allowed")
	}
	for _, r := range path {
		if unicode.IsControl(r) {
			return errors.NewArgument("path", path, "control character not allowed")
		}
	}
	return nil
}

// ValidateID checks that id is a stored passage ID.
func ValidateID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return errors.NewArgument("id", id, "expected a passage ID such as 6ba7b810-9dad-11d1-80b4-00c04fd430c8")
	}
	return nil
}

// ReadFileLimited reads at most max bytes of path. A larger file is an
// argument error rather than a truncated read.
func ReadFileLimited(path string, max int64) ([]byte, error) {
	if err := ValidatePath(path); err != nil {
		return nil, err
	}
	f, err := openFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewNotFound("file", path)
		}
		return nil, errors.NewIO("open", path, err)
	}
	defer f.Close()

	var buf bytes.Buffer
	n, err := io.Copy(&buf, io.LimitReader(f, max+1))
	if err != nil {
		return nil, errors.NewIO("read", path, err)
	}
	if n > max {
		return nil, errors.NewArgument("file", path, "file too large")
	}
	return buf.Bytes(), nil
}
