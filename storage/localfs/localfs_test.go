package localfs

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"xdao.co/rsakey/cidutil"
	"xdao.co/rsakey/storage"
	"xdao.co/rsakey/storage/testkit"
)

func TestLocalFS_Conformance(t *testing.T) {
	testkit.RunKeyStoreConformance(t, func(t *testing.T) storage.KeyStore {
		t.Helper()
		s, err := New(t.TempDir())
		if err != nil {
			t.Fatalf("New failed: %v", err)
		}
		return s
	})
}

func TestLocalFS_RejectMutationByOverwrite(t *testing.T) {
	s, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	orig := testkit.SPKI(0x51)
	id, err := s.Put(orig)
	if err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	// Corrupt the stored key out-of-band.
	path := s.pathFor(id)
	if err := os.Chmod(path, 0o644); err != nil {
		t.Fatalf("Chmod failed: %v", err)
	}
	if err := os.WriteFile(path, testkit.SPKI(0x52), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	_, err = s.Get(id)
	if !errors.Is(err, storage.ErrKeyIDMismatch) {
		t.Fatalf("Get mismatch: got %v want %v", err, storage.ErrKeyIDMismatch)
	}

	// Put must not repair or overwrite the corrupted key.
	_, err = s.Put(orig)
	if !errors.Is(err, storage.ErrImmutable) {
		t.Fatalf("Put after corruption: got %v want %v", err, storage.ErrImmutable)
	}

	if id.String() != cidutil.KeyIDString(orig) {
		t.Fatalf("unexpected key id: got %s want %s", id, cidutil.KeyIDString(orig))
	}
}

func TestLocalFS_Layout(t *testing.T) {
	root := t.TempDir()
	s, err := New(root)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	id, err := s.Put(testkit.SPKI(0x53))
	if err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	k := id.String()
	path := filepath.Join(root, k[:2], k+".der")
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("expected key at %s: %v", path, err)
	}
	if info.Mode().Perm()&0o222 != 0 {
		t.Fatalf("expected read-only file, got %v", info.Mode().Perm())
	}
}

func TestNewRequiresRoot(t *testing.T) {
	if _, err := New(""); err == nil {
		t.Fatalf("expected error for empty root")
	}
}
