package schema

import (
	"errors"
	"fmt"
	"math/big"

	"golang.org/x/crypto/cryptobyte"
	"golang.org/x/crypto/cryptobyte/asn1"
)

// PKCS1PrivateKey is the RSAPrivateKey structure of RFC 8017 without
// otherPrimeInfos. Zero is the version field.
type PKCS1PrivateKey struct {
	Zero *big.Int
	N    *big.Int
	E    *big.Int
	D    *big.Int
	P    *big.Int
	Q    *big.Int
	DP   *big.Int
	DQ   *big.Int
	QInv *big.Int
}

// PKCS1PublicKey is the RSAPublicKey structure of RFC 8017.
type PKCS1PublicKey struct {
	N *big.Int
	E *big.Int
}

// Public returns the public half of k. The integers are shared, not copied.
func (k PKCS1PrivateKey) Public() PKCS1PublicKey {
	return PKCS1PublicKey{N: k.N, E: k.E}
}

type intField[T any] struct {
	name string
	ptr  func(*T) **big.Int
}

var privateKeyFields = []intField[PKCS1PrivateKey]{
	{"zero", func(k *PKCS1PrivateKey) **big.Int { return &k.Zero }},
	{"n", func(k *PKCS1PrivateKey) **big.Int { return &k.N }},
	{"e", func(k *PKCS1PrivateKey) **big.Int { return &k.E }},
	{"d", func(k *PKCS1PrivateKey) **big.Int { return &k.D }},
	{"p", func(k *PKCS1PrivateKey) **big.Int { return &k.P }},
	{"q", func(k *PKCS1PrivateKey) **big.Int { return &k.Q }},
	{"dP", func(k *PKCS1PrivateKey) **big.Int { return &k.DP }},
	{"dQ", func(k *PKCS1PrivateKey) **big.Int { return &k.DQ }},
	{"qInv", func(k *PKCS1PrivateKey) **big.Int { return &k.QInv }},
}

var publicKeyFields = []intField[PKCS1PublicKey]{
	{"n", func(k *PKCS1PublicKey) **big.Int { return &k.N }},
	{"e", func(k *PKCS1PublicKey) **big.Int { return &k.E }},
}

// PKCS1PrivateKeySchema is SEQUENCE of nine INTEGERs: zero, n, e, d, p, q, dP, dQ, qInv.
var PKCS1PrivateKeySchema = integerSequence("PKCS1PrivateKey", privateKeyFields)

// PKCS1PublicKeySchema is SEQUENCE of two INTEGERs: n, e.
var PKCS1PublicKeySchema = integerSequence("PKCS1PublicKey", publicKeyFields)

func integerSequence[T any](name string, fields []intField[T]) Schema[T] {
	return Schema[T]{
		name: name,
		encode: func(b *cryptobyte.Builder, v *T) {
			b.AddASN1(asn1.SEQUENCE, func(b *cryptobyte.Builder) {
				for _, f := range fields {
					addUnsigned(b, f.name, *f.ptr(v))
				}
			})
		},
		decode: func(s *cryptobyte.String, v *T) error {
			var seq cryptobyte.String
			if !s.ReadASN1(&seq, asn1.SEQUENCE) {
				return errors.New("expected SEQUENCE")
			}
			for _, f := range fields {
				n, err := readUnsigned(&seq, f.name)
				if err != nil {
					return err
				}
				*f.ptr(v) = n
			}
			if !seq.Empty() {
				return fmt.Errorf("unexpected fields after %s", fields[len(fields)-1].name)
			}
			return nil
		},
	}
}

func addUnsigned(b *cryptobyte.Builder, field string, n *big.Int) {
	switch {
	case n == nil:
		b.SetError(fmt.Errorf("%s: missing integer", field))
	case n.Sign() < 0:
		b.SetError(fmt.Errorf("%s: negative integer", field))
	default:
		b.AddASN1BigInt(n)
	}
}

func readUnsigned(s *cryptobyte.String, field string) (*big.Int, error) {
	var content cryptobyte.String
	if !s.ReadASN1(&content, asn1.INTEGER) {
		return nil, fmt.Errorf("%s: expected INTEGER", field)
	}
	if len(content) == 0 {
		return nil, fmt.Errorf("%s: empty INTEGER", field)
	}
	return new(big.Int).SetBytes(content), nil
}
