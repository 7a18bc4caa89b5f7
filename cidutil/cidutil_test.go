package cidutil

import (
	"testing"

	"github.com/ipfs/go-cid"
	"github.com/multiformats/go-multihash"
)

func TestKeyIDDeterministic(t *testing.T) {
	der := []byte{0x30, 0x08, 0x02, 0x03, 0x01, 0x00, 0x01, 0x02, 0x01, 0x03}
	a, err := KeyID(der)
	if err != nil {
		t.Fatalf("KeyID: %v", err)
	}
	for i := 0; i < 10; i++ {
		b, err := KeyID(der)
		if err != nil {
			t.Fatalf("KeyID: %v", err)
		}
		if a != b {
			t.Fatalf("expected deterministic key id")
		}
	}
	if KeyIDString(der) != a.String() {
		t.Fatalf("KeyIDString disagrees with KeyID")
	}

	other, err := KeyID(append([]byte{}, der[:len(der)-1]...))
	if err != nil {
		t.Fatalf("KeyID: %v", err)
	}
	if other == a {
		t.Fatalf("expected different bytes to give different ids")
	}
}

func TestParseKeyIDRoundTrip(t *testing.T) {
	s := KeyIDString([]byte("key material"))
	id, err := ParseKeyID(s)
	if err != nil {
		t.Fatalf("ParseKeyID: %v", err)
	}
	if id.String() != s {
		t.Fatalf("round trip mismatch: %s vs %s", id, s)
	}
	if id.Prefix().Codec != cid.Raw || id.Version() != 1 {
		t.Fatalf("unexpected prefix %+v", id.Prefix())
	}
}

func TestParseKeyIDRejectsOtherShapes(t *testing.T) {
	sum, err := multihash.Sum([]byte("x"), multihash.SHA2_256, -1)
	if err != nil {
		t.Fatalf("multihash.Sum: %v", err)
	}
	sha512, err := multihash.Sum([]byte("x"), multihash.SHA2_512, -1)
	if err != nil {
		t.Fatalf("multihash.Sum: %v", err)
	}

	cases := map[string]string{
		"garbage":  "not-a-cid",
		"empty":    "",
		"v0":       cid.NewCidV0(sum).String(),
		"dag-pb":   cid.NewCidV1(cid.DagProtobuf, sum).String(),
		"sha2-512": cid.NewCidV1(cid.Raw, sha512).String(),
	}
	for name, s := range cases {
		if _, err := ParseKeyID(s); err == nil {
			t.Fatalf("%s: expected ParseKeyID(%q) to fail", name, s)
		}
	}

	if err := CheckKeyID(cid.Undef); err == nil {
		t.Fatalf("expected undefined cid to be rejected")
	}
}
