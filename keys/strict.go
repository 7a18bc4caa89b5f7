package keys

import "xdao.co/rsakey/compliance"

// UnwrapPublicKeyStrict runs UnwrapPublicKey and enforces strict compliance.
//
// Strict mode rejects:
// - Any algorithm other than rsaEncryption
// - A subjectPublicKey BIT STRING with unused bits
// - Input that does not re-encode to the same bytes
func UnwrapPublicKeyStrict(spkiDER []byte) ([]byte, error) {
	return UnwrapPublicKeyWithOptions(spkiDER, Options{Mode: compliance.Strict})
}

// PrivateToPublicStrict runs PrivateToPublic and additionally requires
// version 0 and canonical DER.
func PrivateToPublicStrict(pkcs1PrivateDER []byte) ([]byte, error) {
	return PrivateToPublicWithOptions(pkcs1PrivateDER, Options{Mode: compliance.Strict})
}
