package keys

import (
	"xdao.co/rsakey/schema"
)

// WrapPublicKey wraps a PKCS#1 RSAPublicKey DER encoding in a
// SubjectPublicKeyInfo with the rsaEncryption algorithm and NULL parameters.
//
// The payload is opaque: it is not parsed or validated, so WrapPublicKey
// returns no error. It panics if the payload is 4 GiB or longer, since the
// encoder cannot length-prefix an ASN.1 element of that size.
func WrapPublicKey(pkcs1PublicDER []byte) []byte {
	der, err := schema.SPKIWrapperSchema.Encode(schema.SPKI{
		Algorithm: schema.AlgorithmIdentifier{Algorithm: schema.RSAEncryption},
		PublicKey: schema.BitString{Bytes: pkcs1PublicDER},
	})
	if err != nil {
		// Only an oversized payload fails to encode.
		panic("keys: wrap public key: " + err.Error())
	}
	return der
}

// UnwrapPublicKey extracts the PKCS#1 payload from a SubjectPublicKeyInfo DER
// encoding. Any algorithm identifier with NULL parameters is accepted.
func UnwrapPublicKey(spkiDER []byte) ([]byte, error) {
	return UnwrapPublicKeyWithOptions(spkiDER, Options{})
}

// PrivateToPublic derives the SPKI DER public key from a PKCS#1 RSAPrivateKey
// DER encoding.
//
// The result equals WrapPublicKey applied to the PKCS#1 encoding of the
// key's modulus and public exponent.
func PrivateToPublic(pkcs1PrivateDER []byte) ([]byte, error) {
	return PrivateToPublicWithOptions(pkcs1PrivateDER, Options{})
}
