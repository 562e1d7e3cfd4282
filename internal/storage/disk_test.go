package storage

import (
	"errors"
	"io"
	"path/filepath"
	"strings"
	"testing"
)

func TestSanitizeFilename(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"proof.pdf", "proof.pdf"},
		{"site photo (1).jpg", "site_photo_1_.jpg"},
		{"../../etc/passwd", "passwd"},
		{`..\..\windows\system32`, "system32"},
		{"...", ""},
		{"", ""},
		{"___", ""},
	}
	for _, tc := range cases {
		if got := SanitizeFilename(tc.in); got != tc.want {
			t.Fatalf("SanitizeFilename(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestDiskStoreSaveAndOpen(t *testing.T) {
	store, err := NewDiskStore(t.TempDir(), "/uploads")
	if err != nil {
		t.Fatalf("NewDiskStore: %v", err)
	}

	ref, err := store.Save("proof.pdf", strings.NewReader("proof-bytes"))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if !strings.HasPrefix(ref, "/uploads/") || !strings.HasSuffix(ref, "_proof.pdf") {
		t.Fatalf("unexpected ref: %q", ref)
	}

	f, err := store.Open(filepath.Base(ref))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(data) != "proof-bytes" {
		t.Fatalf("content = %q", data)
	}
}

func TestDiskStoreUniqueNames(t *testing.T) {
	store, err := NewDiskStore(t.TempDir(), "/uploads")
	if err != nil {
		t.Fatalf("NewDiskStore: %v", err)
	}

	ref1, err := store.Save("proof.pdf", strings.NewReader("a"))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	ref2, err := store.Save("proof.pdf", strings.NewReader("b"))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if ref1 == ref2 {
		t.Fatalf("same name reused: %q", ref1)
	}
}

func TestDiskStoreRejectsUnsafeNames(t *testing.T) {
	store, err := NewDiskStore(t.TempDir(), "/uploads")
	if err != nil {
		t.Fatalf("NewDiskStore: %v", err)
	}

	if _, err := store.Save("..", strings.NewReader("x")); !errors.Is(err, ErrInvalidFilename) {
		t.Fatalf("Save err = %v, want ErrInvalidFilename", err)
	}
	if _, err := store.Open("..."); !errors.Is(err, ErrInvalidFilename) {
		t.Fatalf("Open err = %v, want ErrInvalidFilename", err)
	}
}
