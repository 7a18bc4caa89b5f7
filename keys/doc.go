// Package keys converts RSA key material between its PKCS#1 and SPKI DER forms.
//
// The transforms work on DER only and compose the schema package. PEM
// documents are handled by the armor package, and keys/keypem joins the two.
//
// API stability:
//
// Stable (SemVer-protected):
//   - WrapPublicKey, UnwrapPublicKey and PrivateToPublic, including their
//     WithOptions and Strict variants. Outputs are deterministic byte strings.
//
// Experimental:
//   - keys/keypem (PublicPEMFromPrivate, PKCS1PublicFromSPKIPEM). It may grow
//     options for other labels.
package keys
