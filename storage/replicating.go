package storage

import (
	"errors"
	"fmt"

	"github.com/ipfs/go-cid"

	"xdao.co/rsakey/cidutil"
)

// ReplicatingStore writes every key to all backends.
//
// Reads fall back in slice order; callers MUST supply a fixed order. Writes go
// to all backends and require every returned key ID to match the ID of the
// written bytes (otherwise ErrKeyIDMismatch is returned).
type ReplicatingStore struct {
	Backends []KeyStore
}

var _ KeyStore = ReplicatingStore{}

func (r ReplicatingStore) Put(spkiDER []byte) (cid.Cid, error) {
	if len(r.Backends) == 0 {
		return cid.Undef, errors.New("storage: ReplicatingStore has no backends")
	}
	want, err := cidutil.KeyID(spkiDER)
	if err != nil {
		return cid.Undef, err
	}
	for i, b := range r.Backends {
		if b == nil {
			return cid.Undef, fmt.Errorf("storage: nil backend at index %d", i)
		}
		got, err := b.Put(spkiDER)
		if err != nil {
			return cid.Undef, err
		}
		if got != want {
			return cid.Undef, ErrKeyIDMismatch
		}
	}
	return want, nil
}

func (r ReplicatingStore) Get(id cid.Cid) ([]byte, error) {
	for _, b := range r.Backends {
		if b == nil {
			continue
		}
		out, err := b.Get(id)
		if err == nil {
			return out, nil
		}
		if IsNotFound(err) {
			continue
		}
		return nil, err
	}
	return nil, ErrNotFound
}

func (r ReplicatingStore) Has(id cid.Cid) bool {
	for _, b := range r.Backends {
		if b != nil && b.Has(id) {
			return true
		}
	}
	return false
}
