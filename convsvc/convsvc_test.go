package convsvc

import (
	"bytes"
	"context"
	"errors"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ipfs/go-cid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"xdao.co/rsakey/armor"
	"xdao.co/rsakey/cidutil"
	"xdao.co/rsakey/compliance"
	"xdao.co/rsakey/keyerr"
	"xdao.co/rsakey/keys"
	"xdao.co/rsakey/storage"
	"xdao.co/rsakey/storage/localfs"
)

func startServer(t *testing.T, srv *Server) *Client {
	t.Helper()
	lis := bufconn.Listen(1024 * 1024)
	s := grpc.NewServer()
	RegisterKeyConvServer(s, srv)

	go func() {
		_ = s.Serve(lis)
	}()
	t.Cleanup(s.Stop)

	dialer := func(context.Context, string) (net.Conn, error) { return lis.Dial() }
	cc, err := grpc.DialContext(
		context.Background(),
		"bufnet",
		grpc.WithContextDialer(dialer),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		t.Fatalf("DialContext: %v", err)
	}
	client := NewClient(cc)
	client.Timeout = 5 * time.Second
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func readVector(t *testing.T, name, label string) []byte {
	t.Helper()
	b, err := os.ReadFile(filepath.Join("..", "testdata", "vectors", name))
	if err != nil {
		t.Fatalf("read %s: %v", name, err)
	}
	der, err := armor.PEMToDER(string(b), label)
	if err != nil {
		t.Fatalf("PEMToDER(%s): %v", name, err)
	}
	return der
}

func TestKeyConv_LocalFS_RoundTrip(t *testing.T) {
	store, err := localfs.New(t.TempDir())
	if err != nil {
		t.Fatalf("localfs.New: %v", err)
	}
	client := startServer(t, &Server{Store: store})

	priv := readVector(t, "rsa1024.pkcs1.pem", armor.LabelRSAPrivateKey)
	wantSPKI := readVector(t, "rsa1024.spki.pem", armor.LabelPublicKey)
	wantPub := readVector(t, "rsa1024.pkcs1pub.pem", armor.LabelRSAPublicKey)

	spki, id, err := client.PrivateToPublic(priv, keys.Options{Mode: compliance.Strict})
	if err != nil {
		t.Fatalf("PrivateToPublic: %v", err)
	}
	if !bytes.Equal(spki, wantSPKI) {
		t.Fatalf("PrivateToPublic: SPKI mismatch")
	}
	if id.String() != cidutil.KeyIDString(wantSPKI) {
		t.Fatalf("unexpected key id %s", id)
	}
	if !store.Has(id) {
		t.Fatalf("expected derived key to be stored")
	}

	fetched, err := client.Fetch(id)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if !bytes.Equal(fetched, wantSPKI) {
		t.Fatalf("Fetch: SPKI mismatch")
	}

	pub, err := client.UnwrapPublicKey(spki, keys.Options{})
	if err != nil {
		t.Fatalf("UnwrapPublicKey: %v", err)
	}
	if !bytes.Equal(pub, wantPub) {
		t.Fatalf("UnwrapPublicKey: payload mismatch")
	}

	wrapped, err := client.WrapPublicKey(pub)
	if err != nil {
		t.Fatalf("WrapPublicKey: %v", err)
	}
	if !bytes.Equal(wrapped, wantSPKI) {
		t.Fatalf("WrapPublicKey: SPKI mismatch")
	}

	for _, label := range []string{"", armor.LabelPublicKey, "CUSTOM"} {
		pem, err := client.DERToPEM(spki, label)
		if err != nil {
			t.Fatalf("DERToPEM(%q): %v", label, err)
		}
		if pem != armor.DERToPEM(spki, label) {
			t.Fatalf("DERToPEM(%q): differs from local encoding", label)
		}
		der, err := client.PEMToDER(pem, label)
		if err != nil {
			t.Fatalf("PEMToDER(%q): %v", label, err)
		}
		if !bytes.Equal(der, spki) {
			t.Fatalf("PEMToDER(%q): round trip mismatch", label)
		}
	}
}

func TestKeyConv_EmptyPEM(t *testing.T) {
	client := startServer(t, &Server{})
	pem, err := client.DERToPEM(nil, "X")
	if err != nil {
		t.Fatalf("DERToPEM: %v", err)
	}
	if pem != "-----BEGIN X-----\n\n-----END X-----\n" {
		t.Fatalf("unexpected empty PEM %q", pem)
	}
	der, err := client.PEMToDER(pem, "X")
	if err != nil {
		t.Fatalf("PEMToDER: %v", err)
	}
	if len(der) != 0 {
		t.Fatalf("expected empty DER, got %x", der)
	}
}

func TestKeyConv_StructuredErrors(t *testing.T) {
	client := startServer(t, &Server{})

	_, err := client.UnwrapPublicKey([]byte{0x30, 0x00}, keys.Options{})
	var e *keyerr.Error
	if !errors.As(err, &e) {
		t.Fatalf("expected *keyerr.Error, got %T (%v)", err, err)
	}
	if e.Kind != keyerr.KindMalformedASN1 || e.RuleID != "RSAKEY-ASN1-001" || e.Schema != "SPKI" {
		t.Fatalf("unexpected error %+v", e)
	}

	version1 := readVector(t, "rsa1024.version1.pkcs1.pem", armor.LabelRSAPrivateKey)
	if _, _, err := client.PrivateToPublic(version1, keys.Options{}); err != nil {
		t.Fatalf("lenient PrivateToPublic: %v", err)
	}
	_, _, err = client.PrivateToPublic(version1, keys.Options{Mode: compliance.Strict})
	if keyerr.RuleID(err) != "RSAKEY-ASN1-101" {
		t.Fatalf("expected RSAKEY-ASN1-101, got %v", err)
	}

	_, err = client.PEMToDER("-----BEGIN PUBLIC KEY-----\nAAAA\n", armor.LabelPublicKey)
	if !errors.As(err, &e) {
		t.Fatalf("expected *keyerr.Error, got %T (%v)", err, err)
	}
	if e.Kind != keyerr.KindMalformedPEM || e.RuleID != "RSAKEY-PEM-002" || e.Label != armor.LabelPublicKey {
		t.Fatalf("unexpected error %+v", e)
	}
}

func TestKeyConv_ServerDefaultMode(t *testing.T) {
	lis := bufconn.Listen(1024 * 1024)
	s := grpc.NewServer()
	RegisterKeyConvServer(s, &Server{Mode: compliance.Strict})
	go func() {
		_ = s.Serve(lis)
	}()
	defer s.Stop()

	cc, err := grpc.DialContext(
		context.Background(),
		"bufnet",
		grpc.WithContextDialer(func(context.Context, string) (net.Conn, error) { return lis.Dial() }),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		t.Fatalf("DialContext: %v", err)
	}
	defer cc.Close()

	// No mode metadata: the server default applies.
	version1 := readVector(t, "rsa1024.version1.pkcs1.pem", armor.LabelRSAPrivateKey)
	_, err = NewKeyConvClient(cc).PrivateToPublic(context.Background(), wrapperspb.Bytes(version1))
	if status.Code(err) != codes.InvalidArgument {
		t.Fatalf("expected InvalidArgument, got %v", err)
	}
	if keyerr.RuleID(fromStatus(err)) != "RSAKEY-ASN1-101" {
		t.Fatalf("expected RSAKEY-ASN1-101, got %v", fromStatus(err))
	}
}

func TestKeyConv_FetchErrors(t *testing.T) {
	store, err := localfs.New(t.TempDir())
	if err != nil {
		t.Fatalf("localfs.New: %v", err)
	}
	client := startServer(t, &Server{Store: store})

	missing, err := cidutil.KeyID(keys.WrapPublicKey([]byte{0x30, 0x00}))
	if err != nil {
		t.Fatalf("KeyID: %v", err)
	}
	if _, err := client.Fetch(missing); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("Fetch missing: got %v want ErrNotFound", err)
	}

	if _, err := client.Fetch(cid.Undef); !errors.Is(err, storage.ErrInvalidKeyID) {
		t.Fatalf("Fetch undefined: got %v want ErrInvalidKeyID", err)
	}

	// The server validates the key ID shape as well.
	_, err = client.client.Fetch(context.Background(), wrapperspb.String("not-a-key-id"))
	if !errors.Is(fromStatus(err), storage.ErrInvalidKeyID) {
		t.Fatalf("Fetch garbage: got %v want ErrInvalidKeyID", err)
	}
}

func TestKeyConv_FetchWithoutStore(t *testing.T) {
	client := startServer(t, &Server{})
	id, err := cidutil.KeyID([]byte("anything"))
	if err != nil {
		t.Fatalf("KeyID: %v", err)
	}
	_, err = client.Fetch(id)
	if status.Code(err) != codes.FailedPrecondition {
		t.Fatalf("expected FailedPrecondition, got %v", err)
	}
}
