package storage

import "github.com/ipfs/go-cid"

// KeyStore is a minimal content-addressed store for SPKI public keys.
//
// Contract:
// - Put MUST be idempotent.
// - Stored keys MUST be immutable.
// - Key IDs MUST be derived from the exact DER bytes written (see cidutil.KeyID).
// - Put MUST reject bytes that are not a SubjectPublicKeyInfo with ErrNotSPKI.
// - Get MUST return ErrNotFound when the key ID is absent.
type KeyStore interface {
	Put(spkiDER []byte) (cid.Cid, error)
	Get(id cid.Cid) ([]byte, error)
	Has(id cid.Cid) bool
}
