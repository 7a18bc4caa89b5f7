package testkit

import (
	"bytes"
	"errors"
	"testing"

	"github.com/ipfs/go-cid"

	"xdao.co/rsakey/cidutil"
	"xdao.co/rsakey/keys"
	"xdao.co/rsakey/storage"
)

// NewStore constructs a fresh, empty KeyStore instance for a test.
// The returned store MUST be isolated from other tests.
type NewStore func(t *testing.T) storage.KeyStore

// SPKI returns a deterministic SubjectPublicKeyInfo for a tiny RSA key with
// modulus n and exponent 3. It is valid DER but not a usable key.
func SPKI(n byte) []byte {
	return keys.WrapPublicKey([]byte{0x30, 0x06, 0x02, 0x01, n & 0x7f, 0x02, 0x01, 0x03})
}

func RunKeyStoreConformance(t *testing.T, newStore NewStore) {
	t.Helper()

	t.Run("PutGetRoundTrip", func(t *testing.T) {
		s := newStore(t)
		want := SPKI(0x41)

		id, err := s.Put(want)
		if err != nil {
			t.Fatalf("Put failed: %v", err)
		}
		wantID, err := cidutil.KeyID(want)
		if err != nil {
			t.Fatalf("KeyID failed: %v", err)
		}
		if id != wantID {
			t.Fatalf("Put key id mismatch: got %s want %s", id, wantID)
		}

		got, err := s.Get(id)
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if !bytes.Equal(got, want) {
			t.Fatalf("Get bytes mismatch")
		}
		if _, err := keys.UnwrapPublicKeyStrict(got); err != nil {
			t.Fatalf("stored key no longer unwraps: %v", err)
		}
	})

	t.Run("PutIdempotent", func(t *testing.T) {
		s := newStore(t)
		b := SPKI(0x42)

		id1, err := s.Put(b)
		if err != nil {
			t.Fatalf("Put(1) failed: %v", err)
		}
		id2, err := s.Put(b)
		if err != nil {
			t.Fatalf("Put(2) failed: %v", err)
		}
		if id1 != id2 {
			t.Fatalf("Put not idempotent: %s vs %s", id1, id2)
		}
	})

	t.Run("HasAndNotFound", func(t *testing.T) {
		s := newStore(t)
		b := SPKI(0x43)
		id, err := cidutil.KeyID(b)
		if err != nil {
			t.Fatalf("KeyID failed: %v", err)
		}

		if s.Has(id) {
			t.Fatalf("Has returned true for missing key")
		}
		_, err = s.Get(id)
		if !storage.IsNotFound(err) {
			t.Fatalf("Get missing: got err=%v want ErrNotFound", err)
		}

		if _, err := s.Put(b); err != nil {
			t.Fatalf("Put failed: %v", err)
		}
		if !s.Has(id) {
			t.Fatalf("Has returned false after Put")
		}
	})

	t.Run("RejectUndefKeyID", func(t *testing.T) {
		s := newStore(t)
		var undef cid.Cid
		if s.Has(undef) {
			t.Fatalf("Has should be false for undefined key id")
		}
		if _, err := s.Get(undef); err == nil {
			t.Fatalf("Get should fail for undefined key id")
		}
	})

	t.Run("RejectNonSPKI", func(t *testing.T) {
		s := newStore(t)
		pkcs1 := []byte{0x30, 0x06, 0x02, 0x01, 0x41, 0x02, 0x01, 0x03}
		for _, b := range [][]byte{nil, pkcs1, append(SPKI(0x44), 0x00)} {
			if _, err := s.Put(b); !errors.Is(err, storage.ErrNotSPKI) {
				t.Fatalf("Put(%x): got %v want ErrNotSPKI", b, err)
			}
		}
	})
}
