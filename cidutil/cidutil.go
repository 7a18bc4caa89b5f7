// Package cidutil derives content identifiers for DER-encoded key material.
//
// A key ID is a CIDv1 with the "raw" multicodec and a sha2-256 multihash of
// the exact DER bytes. Two encodings of the same key that differ in any byte
// have different IDs.
package cidutil

import (
	"fmt"

	"github.com/ipfs/go-cid"
	"github.com/multiformats/go-multihash"
)

// KeyID returns the CIDv1 (raw + sha2-256) of der.
func KeyID(der []byte) (cid.Cid, error) {
	sum, err := multihash.Sum(der, multihash.SHA2_256, -1)
	if err != nil {
		return cid.Undef, err
	}
	return cid.NewCidV1(cid.Raw, sum), nil
}

// KeyIDString returns the string form of KeyID(der).
func KeyIDString(der []byte) string {
	id, err := KeyID(der)
	if err != nil {
		// multihash.Sum only errors for unknown codes or bad lengths; with
		// SHA2_256 and -1 length this should be unreachable.
		return ""
	}
	return id.String()
}

// ParseKeyID decodes s and checks that it has the shape produced by KeyID.
func ParseKeyID(s string) (cid.Cid, error) {
	id, err := cid.Decode(s)
	if err != nil {
		return cid.Undef, err
	}
	if err := CheckKeyID(id); err != nil {
		return cid.Undef, err
	}
	return id, nil
}

// CheckKeyID reports whether id is a CIDv1 with the raw codec and a full
// length sha2-256 multihash.
func CheckKeyID(id cid.Cid) error {
	if !id.Defined() {
		return fmt.Errorf("key id: undefined cid")
	}
	pref := id.Prefix()
	if pref.Version != 1 {
		return fmt.Errorf("key id: want CIDv1, got v%d", pref.Version)
	}
	if pref.Codec != cid.Raw {
		return fmt.Errorf("key id: want raw codec, got 0x%x", pref.Codec)
	}
	dec, err := multihash.Decode(id.Hash())
	if err != nil {
		return fmt.Errorf("key id: %w", err)
	}
	if dec.Code != multihash.SHA2_256 || dec.Length != 32 {
		return fmt.Errorf("key id: want sha2-256 digest, got %s/%d", multihash.Codes[dec.Code], dec.Length)
	}
	return nil
}
