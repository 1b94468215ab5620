// Package cas provides content-addressed storage for blobs.
// Blobs are stored by their BLAKE3 hash, so identical content is written
// once and every read can be checked against its address.
package cas

import (
	"encoding/hex"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/FocuswithJustin/versekit/core/errors"
	"github.com/zeebo/blake3"
)

// osRename is a variable to allow testing of rename errors.
var osRename = os.Rename

// tempFileWrite is a function variable for writing to temp files (for testing).
var tempFileWrite = func(f *os.File, data []byte) (int, error) {
	return f.Write(data)
}

// tempFileClose is a function variable for closing temp files (for testing).
var tempFileClose = func(f io.Closer) error {
	return f.Close()
}

// hashPattern matches a lowercase BLAKE3-256 hex string.
var hashPattern = regexp.MustCompile(`^[a-f0-9]{64}$`)

// Store provides content-addressed storage for blobs using BLAKE3 hashing.
// It is safe for concurrent use: blobs are written to a temp file and
// renamed into place.
type Store struct {
	root string
}

// NewStore creates a new content-addressed store at the given root directory.
// The directory structure will be created if it doesn't exist.
func NewStore(root string) (*Store, error) {
	if err := os.MkdirAll(filepath.Join(root, "blobs", "blake3"), 0755); err != nil {
		return nil, errors.NewIO("create blob directory", root, err)
	}
	return &Store{root: root}, nil
}

// Root returns the directory the store lives in.
func (s *Store) Root() string { return s.root }

// Put stores data and returns its BLAKE3 hash. Storing content that is
// already present is a no-op.
func (s *Store) Put(data []byte) (string, error) {
	hash := Hash(data)

	blobPath := s.pathForHash(hash)
	if _, err := os.Stat(blobPath); err == nil {
		return hash, nil
	}

	prefixDir := filepath.Dir(blobPath)
	if err := os.MkdirAll(prefixDir, 0755); err != nil {
		return "", errors.NewIO("create prefix directory", prefixDir, err)
	}

	tempFile, err := os.CreateTemp(prefixDir, ".blob-*")
	if err != nil {
		return "", errors.NewIO("create temp file", prefixDir, err)
	}
	tempPath := tempFile.Name()

	if _, err := tempFileWrite(tempFile, data); err != nil {
		tempFileClose(tempFile)
		os.Remove(tempPath)
		return "", errors.NewIO("write blob", tempPath, err)
	}
	if err := tempFileClose(tempFile); err != nil {
		os.Remove(tempPath)
		return "", errors.NewIO("close temp file", tempPath, err)
	}
	if err := osRename(tempPath, blobPath); err != nil {
		os.Remove(tempPath)
		return "", errors.NewIO("rename blob", blobPath, err)
	}
	return hash, nil
}

// Get returns the blob with the given hash, verifying its content.
func (s *Store) Get(hash string) ([]byte, error) {
	if err := validateHash(hash); err != nil {
		return nil, err
	}

	blobPath := s.pathForHash(hash)
	data, err := os.ReadFile(blobPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewNotFound("blob", hash)
		}
		return nil, errors.NewIO("read blob", blobPath, err)
	}
	if got := Hash(data); got != hash {
		return nil, errors.NewState("read blob", fmt.Sprintf("content hash %s does not match address %s", got, hash))
	}
	return data, nil
}

// Exists checks if a blob with the given hash exists in the store.
func (s *Store) Exists(hash string) bool {
	if validateHash(hash) != nil {
		return false
	}
	_, err := os.Stat(s.pathForHash(hash))
	return err == nil
}

// Delete removes a blob. Deleting a missing blob reports ErrNotFound.
func (s *Store) Delete(hash string) error {
	if err := validateHash(hash); err != nil {
		return err
	}
	blobPath := s.pathForHash(hash)
	if err := os.Remove(blobPath); err != nil {
		if os.IsNotExist(err) {
			return errors.NewNotFound("blob", hash)
		}
		return errors.NewIO("delete blob", blobPath, err)
	}
	return nil
}

// List returns the hashes of every stored blob in lexical order.
func (s *Store) List() ([]string, error) {
	var hashes []string
	dir := filepath.Join(s.root, "blobs", "blake3")
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || strings.HasPrefix(d.Name(), ".") {
			return nil
		}
		if hashPattern.MatchString(d.Name()) {
			hashes = append(hashes, d.Name())
		}
		return nil
	})
	if err != nil {
		return nil, errors.NewIO("list blobs", dir, err)
	}
	return hashes, nil
}

// pathForHash returns the file path for a blob with the given hash.
// Blobs are stored at: <root>/blobs/blake3/<first2>/<hash>
func (s *Store) pathForHash(hash string) string {
	return filepath.Join(s.root, "blobs", "blake3", hash[:2], hash)
}

func validateHash(hash string) error {
	if !hashPattern.MatchString(hash) {
		return errors.NewArgument("hash", hash, "not a BLAKE3 hex digest")
	}
	return nil
}

// Hash computes the BLAKE3 hash of the given data without storing it.
func Hash(data []byte) string {
	h := blake3.Sum256(data)
	return hex.EncodeToString(h[:])
}
