package validation

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/FocuswithJustin/versekit/core/errors"
)

func TestValidateRefs(t *testing.T) {
	tests := []struct {
		name    string
		refs    string
		wantErr bool
	}{
		{"simple", "Gen 1:1-3", false},
		{"list separators", "Gen 1:1;\tExo 2\r\nLev", false},
		{"empty", "", false},
		{"null byte", "Gen\x00 1", true},
		{"bell", "Gen 1\a", true},
		{"too long", strings.Repeat("a", MaxRefsLength+1), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRefs(tt.refs)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateRefs() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, errors.ErrIllegalArgument) {
				t.Errorf("ValidateRefs() error = %v, want ErrIllegalArgument", err)
			}
		})
	}
}

func TestValidatePath(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		wantErr bool
	}{
		{"relative", "docs/genesis.xml", false},
		{"absolute", "/tmp/set.bin", false},
		{"empty", "", true},
		{"null byte", "a\x00b", true},
		{"newline", "a\nb", true},
		{"too long", strings.Repeat("a", MaxPathLength+1), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePath(tt.path)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePath(%q) error = %v, wantErr %v", tt.path, err, tt.wantErr)
			}
		})
	}
}

func TestValidateID(t *testing.T) {
	if err := ValidateID("6ba7b810-9dad-11d1-80b4-00c04fd430c8"); err != nil {
		t.Errorf("ValidateID(uuid) error = %v", err)
	}
	for _, id := range []string{"", "x", "Gen 1:1", "6ba7b810-9dad-11d1-80b4"} {
		if err := ValidateID(id); !errors.Is(err, errors.ErrIllegalArgument) {
			t.Errorf("ValidateID(%q) error = %v, want ErrIllegalArgument", id, err)
		}
	}
}

func TestReadFileLimited(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.bin")
	if err := os.WriteFile(path, []byte("0123456789"), 0644); err != nil {
		t.Fatal(err)
	}

	got, err := ReadFileLimited(path, 10)
	if err != nil || string(got) != "0123456789" {
		t.Errorf("ReadFileLimited(10) = %q, %v", got, err)
	}
	if _, err := ReadFileLimited(path, 9); !errors.Is(err, errors.ErrIllegalArgument) {
		t.Errorf("ReadFileLimited(9) error = %v, want ErrIllegalArgument", err)
	}
	if _, err := ReadFileLimited(filepath.Join(dir, "missing"), 10); !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("ReadFileLimited(missing) error = %v, want ErrNotFound", err)
	}
	if _, err := ReadFileLimited("", 10); !errors.Is(err, errors.ErrIllegalArgument) {
		t.Errorf("ReadFileLimited(\"\") error = %v, want ErrIllegalArgument", err)
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, io.ErrUnexpectedEOF }
func (failingReader) Close() error             { return nil }

func TestReadFileLimitedReadError(t *testing.T) {
	orig := openFile
	openFile = func(string) (io.ReadCloser, error) { return failingReader{}, nil }
	t.Cleanup(func() { openFile = orig })

	if _, err := ReadFileLimited("any", 10); !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Errorf("ReadFileLimited() error = %v, want ErrUnexpectedEOF", err)
	}
}
