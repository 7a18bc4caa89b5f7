package keys

import (
	"bytes"

	"xdao.co/rsakey/compliance"
	"xdao.co/rsakey/keyerr"
	"xdao.co/rsakey/schema"
)

// Options controls how strictly inputs are checked.
//
// Default behavior is Lenient when Options{} is used.
type Options struct {
	Mode compliance.Mode
}

// UnwrapPublicKeyWithOptions runs UnwrapPublicKey under the requested
// compliance mode.
func UnwrapPublicKeyWithOptions(spkiDER []byte, opts Options) ([]byte, error) {
	v, err := schema.SPKIWrapperSchema.Decode(spkiDER)
	if err != nil {
		return nil, err
	}
	if opts.Mode == compliance.Strict {
		if err := enforceStrictSPKI(spkiDER, v); err != nil {
			return nil, err
		}
	}
	return v.PublicKey.Bytes, nil
}

// PrivateToPublicWithOptions runs PrivateToPublic under the requested
// compliance mode.
func PrivateToPublicWithOptions(pkcs1PrivateDER []byte, opts Options) ([]byte, error) {
	priv, err := schema.PKCS1PrivateKeySchema.Decode(pkcs1PrivateDER)
	if err != nil {
		return nil, err
	}
	if opts.Mode == compliance.Strict {
		if err := enforceStrictPrivateKey(pkcs1PrivateDER, priv); err != nil {
			return nil, err
		}
	}
	pub, err := schema.PKCS1PublicKeySchema.Encode(priv.Public())
	if err != nil {
		// Decoded integers are never nil or negative.
		return nil, keyerr.Internal("RSAKEY-INTERNAL-001", "cannot re-encode public key", err)
	}
	return WrapPublicKey(pub), nil
}

func enforceStrictPrivateKey(der []byte, k schema.PKCS1PrivateKey) error {
	name := schema.PKCS1PrivateKeySchema.Name()
	if k.Zero.Sign() != 0 {
		return keyerr.ASN1("RSAKEY-ASN1-101", name, "strict mode: version must be 0, got "+k.Zero.String())
	}
	again, err := schema.PKCS1PrivateKeySchema.Encode(k)
	if err != nil || !bytes.Equal(again, der) {
		return keyerr.ASN1("RSAKEY-ASN1-104", name, "strict mode: input is not canonical DER")
	}
	return nil
}

func enforceStrictSPKI(der []byte, v schema.SPKI) error {
	name := schema.SPKIWrapperSchema.Name()
	if !v.Algorithm.IsRSA() {
		return keyerr.ASN1("RSAKEY-ASN1-102", name, "strict mode: algorithm "+v.Algorithm.Algorithm.String()+" is not rsaEncryption")
	}
	if v.PublicKey.UnusedBits != 0 {
		return keyerr.ASN1("RSAKEY-ASN1-103", name, "strict mode: subjectPublicKey has unused bits")
	}
	again, err := schema.SPKIWrapperSchema.Encode(v)
	if err != nil || !bytes.Equal(again, der) {
		return keyerr.ASN1("RSAKEY-ASN1-104", name, "strict mode: input is not canonical DER")
	}
	return nil
}
