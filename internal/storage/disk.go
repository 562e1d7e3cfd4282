package storage

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// ErrInvalidFilename is returned when nothing safe remains after sanitizing.
var ErrInvalidFilename = errors.New("invalid filename")

// Store accepts a named file and returns a retrievable reference. Milestone
// proofs go through it; the ledger core only ever sees the returned reference
// as an opaque string.
type Store interface {
	Save(name string, r io.Reader) (ref string, err error)
	Open(name string) (io.ReadCloser, error)
}

// DiskStore keeps uploads in a local directory, each under a unique name so
// repeated uploads of the same file never collide.
type DiskStore struct {
	dir       string
	publicURL string
}

var _ Store = (*DiskStore)(nil)

// NewDiskStore creates the upload directory if needed. publicURL is the URL
// prefix references are issued under (e.g. "/uploads").
func NewDiskStore(dir, publicURL string) (*DiskStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &DiskStore{dir: dir, publicURL: strings.TrimSuffix(publicURL, "/")}, nil
}

func (s *DiskStore) Save(name string, r io.Reader) (string, error) {
	safe := SanitizeFilename(name)
	if safe == "" {
		return "", ErrInvalidFilename
	}
	u := uuid.New()
	unique := hex.EncodeToString(u[:]) + "_" + safe

	f, err := os.Create(filepath.Join(s.dir, unique))
	if err != nil {
		return "", err
	}
	defer f.Close()
	if _, err := io.Copy(f, r); err != nil {
		return "", err
	}
	return s.publicURL + "/" + unique, nil
}

func (s *DiskStore) Open(name string) (io.ReadCloser, error) {
	safe := SanitizeFilename(name)
	if safe == "" {
		return nil, ErrInvalidFilename
	}
	return os.Open(filepath.Join(s.dir, safe))
}

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// SanitizeFilename strips any path components and characters outside a safe
// set, so stored names can never escape the upload directory.
func SanitizeFilename(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	name = unsafeChars.ReplaceAllString(name, "_")
	name = strings.Trim(name, "._")
	if name == "" || name == "." || name == ".." {
		return ""
	}
	return name
}
