package main

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"flag"
	"fmt"
	"math/big"
	"os"
	"path/filepath"

	"xdao.co/rsakey/armor"
	"xdao.co/rsakey/cidutil"
	"xdao.co/rsakey/keys"
	"xdao.co/rsakey/schema"
)

// Writes a fresh, mutually consistent set of RSA vectors:
//
//	<prefix>.pkcs1.pem           RSA PRIVATE KEY
//	<prefix>.version1.pkcs1.pem  same key with version 1 (rejected in strict mode)
//	<prefix>.pkcs1pub.pem        RSA PUBLIC KEY
//	<prefix>.spki.pem            PUBLIC KEY
func main() {
	out := flag.String("out", filepath.Join("testdata", "vectors"), "output directory")
	bits := flag.Int("bits", 1024, "modulus size")
	prefix := flag.String("prefix", "rsa1024", "file name prefix")
	flag.Parse()

	key, err := rsa.GenerateKey(rand.Reader, *bits)
	if err != nil {
		panic(err)
	}
	privDER := x509.MarshalPKCS1PrivateKey(key)

	priv, err := schema.PKCS1PrivateKeySchema.Decode(privDER)
	if err != nil {
		panic(err)
	}
	priv.Zero = big.NewInt(1)
	version1DER, err := schema.PKCS1PrivateKeySchema.Encode(priv)
	if err != nil {
		panic(err)
	}

	spki, err := keys.PrivateToPublicStrict(privDER)
	if err != nil {
		panic(err)
	}
	pub, err := keys.UnwrapPublicKeyStrict(spki)
	if err != nil {
		panic(err)
	}

	if err := os.MkdirAll(*out, 0o755); err != nil {
		panic(err)
	}
	files := []struct {
		suffix string
		der    []byte
		label  string
	}{
		{"pkcs1.pem", privDER, armor.LabelRSAPrivateKey},
		{"version1.pkcs1.pem", version1DER, armor.LabelRSAPrivateKey},
		{"pkcs1pub.pem", pub, armor.LabelRSAPublicKey},
		{"spki.pem", spki, armor.LabelPublicKey},
	}
	for _, f := range files {
		path := filepath.Join(*out, *prefix+"."+f.suffix)
		if err := os.WriteFile(path, []byte(armor.DERToPEM(f.der, f.label)), 0o644); err != nil {
			panic(err)
		}
		fmt.Println(path)
	}
	fmt.Printf("KEY-ID=%s\n", cidutil.KeyIDString(spki))
}
