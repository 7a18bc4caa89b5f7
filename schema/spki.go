package schema

import (
	encoding_asn1 "encoding/asn1"
	"errors"
	"fmt"

	"golang.org/x/crypto/cryptobyte"
	"golang.org/x/crypto/cryptobyte/asn1"
)

// RSAEncryption is the rsaEncryption algorithm identifier (PKCS#1).
var RSAEncryption = encoding_asn1.ObjectIdentifier{1, 2, 840, 113549, 1, 1, 1}

// AlgorithmIdentifier names the key algorithm. Its parameters field is always
// an explicit NULL and is not represented.
type AlgorithmIdentifier struct {
	Algorithm encoding_asn1.ObjectIdentifier
}

// IsRSA reports whether the identifier is rsaEncryption.
func (a AlgorithmIdentifier) IsRSA() bool {
	return a.Algorithm.Equal(RSAEncryption)
}

// BitString is an ASN.1 BIT STRING with its unused trailing bit count.
type BitString struct {
	UnusedBits uint8
	Bytes      []byte
}

// SPKI is SubjectPublicKeyInfo restricted to NULL algorithm parameters.
type SPKI struct {
	Algorithm AlgorithmIdentifier
	PublicKey BitString
}

// SPKIWrapperSchema is
//
//	SEQUENCE {
//	  SEQUENCE { OBJECT IDENTIFIER, NULL }
//	  BIT STRING
//	}
var SPKIWrapperSchema = Schema[SPKI]{
	name:   "SPKI",
	encode: encodeSPKI,
	decode: decodeSPKI,
}

func encodeSPKI(b *cryptobyte.Builder, v *SPKI) {
	if v.PublicKey.UnusedBits > 7 {
		b.SetError(fmt.Errorf("subjectPublicKey: %d unused bits", v.PublicKey.UnusedBits))
		return
	}
	if len(v.PublicKey.Bytes) == 0 && v.PublicKey.UnusedBits != 0 {
		b.SetError(errors.New("subjectPublicKey: unused bits in empty BIT STRING"))
		return
	}
	b.AddASN1(asn1.SEQUENCE, func(b *cryptobyte.Builder) {
		b.AddASN1(asn1.SEQUENCE, func(b *cryptobyte.Builder) {
			b.AddASN1ObjectIdentifier(v.Algorithm.Algorithm)
			b.AddASN1NULL()
		})
		b.AddASN1(asn1.BIT_STRING, func(b *cryptobyte.Builder) {
			b.AddUint8(v.PublicKey.UnusedBits)
			b.AddBytes(v.PublicKey.Bytes)
		})
	})
}

func decodeSPKI(s *cryptobyte.String, v *SPKI) error {
	var spki, algo, params, bits cryptobyte.String
	if !s.ReadASN1(&spki, asn1.SEQUENCE) {
		return errors.New("expected SEQUENCE")
	}
	if !spki.ReadASN1(&algo, asn1.SEQUENCE) {
		return errors.New("algorithm: expected SEQUENCE")
	}
	if !algo.ReadASN1ObjectIdentifier(&v.Algorithm.Algorithm) {
		return errors.New("algorithm: expected OBJECT IDENTIFIER")
	}
	if !algo.ReadASN1(&params, asn1.NULL) || !params.Empty() {
		return errors.New("algorithm parameters: expected NULL")
	}
	if !algo.Empty() {
		return errors.New("algorithm: unexpected fields after parameters")
	}
	if !spki.ReadASN1(&bits, asn1.BIT_STRING) {
		return errors.New("subjectPublicKey: expected BIT STRING")
	}
	if !spki.Empty() {
		return errors.New("unexpected fields after subjectPublicKey")
	}

	var unused uint8
	if !bits.ReadUint8(&unused) {
		return errors.New("subjectPublicKey: empty BIT STRING")
	}
	if unused > 7 || (len(bits) == 0 && unused != 0) {
		return fmt.Errorf("subjectPublicKey: invalid unused bit count %d", unused)
	}
	if unused > 0 && bits[len(bits)-1]&(1<<unused-1) != 0 {
		return errors.New("subjectPublicKey: non-zero padding bits")
	}
	v.PublicKey = BitString{
		UnusedBits: unused,
		Bytes:      append([]byte{}, bits...),
	}
	return nil
}
