// Package schema defines the fixed ASN.1 structures for RSA key material and
// encodes/decodes them as DER.
//
// Each schema is a package-level, read-only value pairing a structure name
// with its field layout. Encoding and decoding go through
// golang.org/x/crypto/cryptobyte; the schemas only describe field order, tag
// kind and nesting.
//
// INTEGER fields are always *big.Int and are read as unsigned magnitudes: the
// sign bit of the DER content is not interpreted. Encoding rejects nil and
// negative integers.
package schema

import (
	"golang.org/x/crypto/cryptobyte"

	"xdao.co/rsakey/keyerr"
)

// Schema is an encode/decode template for values of type T.
type Schema[T any] struct {
	name   string
	encode func(b *cryptobyte.Builder, v *T)
	decode func(s *cryptobyte.String, v *T) error
}

// Name is the structure name reported in errors.
func (s Schema[T]) Name() string { return s.name }

// Encode returns the DER encoding of v.
func (s Schema[T]) Encode(v T) ([]byte, error) {
	b := cryptobyte.NewBuilder(nil)
	s.encode(b, &v)
	der, err := b.Bytes()
	if err != nil {
		return nil, keyerr.WrapASN1("RSAKEY-ASN1-010", s.name, "cannot encode value", err)
	}
	return der, nil
}

// Decode parses der as one complete structure. Trailing bytes are rejected.
// The returned value never aliases der.
func (s Schema[T]) Decode(der []byte) (T, error) {
	var v T
	in := cryptobyte.String(der)
	if err := s.decode(&in, &v); err != nil {
		var zero T
		return zero, keyerr.ASN1("RSAKEY-ASN1-001", s.name, err.Error())
	}
	if !in.Empty() {
		var zero T
		return zero, keyerr.ASN1("RSAKEY-ASN1-002", s.name, "trailing data after structure")
	}
	return v, nil
}
