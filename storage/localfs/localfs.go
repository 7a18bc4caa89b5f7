package localfs

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ipfs/go-cid"

	"xdao.co/rsakey/cidutil"
	"xdao.co/rsakey/schema"
	"xdao.co/rsakey/storage"
)

// Store is a local filesystem-backed key store.
//
// Keys are stored immutably as "<root>/<id[:2]>/<id>.der" and keyed strictly
// by key ID. Only SubjectPublicKeyInfo DER is accepted.
type Store struct {
	root string
}

// New constructs a filesystem key store rooted at root. The directory will be
// created if needed.
func New(root string) (*Store, error) {
	if root == "" {
		return nil, errors.New("localfs: root directory is required")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, err
	}
	return &Store{root: root}, nil
}

func (s *Store) Put(spkiDER []byte) (cid.Cid, error) {
	if _, err := schema.SPKIWrapperSchema.Decode(spkiDER); err != nil {
		return cid.Undef, fmt.Errorf("%w: %v", storage.ErrNotSPKI, err)
	}
	id, err := cidutil.KeyID(spkiDER)
	if err != nil {
		return cid.Undef, err
	}

	path := s.pathFor(id)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return cid.Undef, err
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o444)
	if err != nil {
		if os.IsExist(err) {
			existing, rerr := s.Get(id)
			if rerr != nil {
				// An unreadable or corrupted file is never repaired.
				return cid.Undef, storage.ErrImmutable
			}
			if !bytes.Equal(existing, spkiDER) {
				return cid.Undef, storage.ErrImmutable
			}
			return id, nil
		}
		return cid.Undef, err
	}

	if _, err := f.Write(spkiDER); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return cid.Undef, err
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return cid.Undef, err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return cid.Undef, err
	}
	return id, nil
}

func (s *Store) Get(id cid.Cid) ([]byte, error) {
	if err := cidutil.CheckKeyID(id); err != nil {
		return nil, storage.ErrInvalidKeyID
	}
	b, err := os.ReadFile(s.pathFor(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, storage.ErrNotFound
		}
		return nil, err
	}
	got, err := cidutil.KeyID(b)
	if err != nil {
		return nil, err
	}
	if got != id {
		return nil, storage.ErrKeyIDMismatch
	}
	return b, nil
}

func (s *Store) Has(id cid.Cid) bool {
	if cidutil.CheckKeyID(id) != nil {
		return false
	}
	_, err := os.Stat(s.pathFor(id))
	return err == nil
}

func (s *Store) pathFor(id cid.Cid) string {
	k := id.String()
	return filepath.Join(s.root, k[:2], k+".der")
}
