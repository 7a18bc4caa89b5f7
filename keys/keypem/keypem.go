// Package keypem joins the armor codec to the keys transforms for callers
// that hold PEM documents rather than DER.
package keypem

import (
	"xdao.co/rsakey/armor"
	"xdao.co/rsakey/keys"
)

// PublicPEMFromPrivate derives the SPKI public key of a PKCS#1 private key and
// armors it as "PUBLIC KEY".
func PublicPEMFromPrivate(pkcs1PrivateDER []byte, opts keys.Options) (string, error) {
	spki, err := keys.PrivateToPublicWithOptions(pkcs1PrivateDER, opts)
	if err != nil {
		return "", err
	}
	return armor.DERToPEM(spki, armor.LabelPublicKey), nil
}

// PKCS1PublicFromSPKIPEM reads a "PUBLIC KEY" PEM document and returns the
// unwrapped key armored as "RSA PUBLIC KEY".
func PKCS1PublicFromSPKIPEM(spkiPEM string, opts keys.Options) (string, error) {
	der, err := armor.PEMToDER(spkiPEM, armor.LabelPublicKey)
	if err != nil {
		return "", err
	}
	pub, err := keys.UnwrapPublicKeyWithOptions(der, opts)
	if err != nil {
		return "", err
	}
	return armor.DERToPEM(pub, armor.LabelRSAPublicKey), nil
}
