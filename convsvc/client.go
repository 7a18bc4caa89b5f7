package convsvc

import (
	"context"
	"time"

	"github.com/ipfs/go-cid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"xdao.co/rsakey/cidutil"
	"xdao.co/rsakey/keys"
	"xdao.co/rsakey/storage"
)

// Client calls a KeyConv gRPC service.
//
// Failures carrying structured details come back as *keyerr.Error or a
// storage sentinel error, so callers can branch on them exactly as they would
// on local calls.
type Client struct {
	cc     *grpc.ClientConn
	client KeyConvClient

	// Timeout applies per RPC when non-zero.
	Timeout time.Duration
}

type DialOptions struct {
	// Timeout applies to the initial dial when non-zero.
	Timeout time.Duration

	// MaxMsgBytes sets both send/recv max sizes when non-zero.
	MaxMsgBytes int
}

func Dial(target string, opts DialOptions) (*Client, error) {
	dialOpts := []grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	}
	if opts.MaxMsgBytes > 0 {
		dialOpts = append(dialOpts,
			grpc.WithDefaultCallOptions(
				grpc.MaxCallRecvMsgSize(opts.MaxMsgBytes),
				grpc.MaxCallSendMsgSize(opts.MaxMsgBytes),
			),
		)
	}

	ctx := context.Background()
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	cc, err := grpc.DialContext(ctx, target, dialOpts...)
	if err != nil {
		return nil, err
	}
	return NewClient(cc), nil
}

// NewClient wraps an existing connection. Close closes cc.
func NewClient(cc *grpc.ClientConn) *Client {
	return &Client{cc: cc, client: NewKeyConvClient(cc)}
}

func (c *Client) Close() error {
	if c == nil || c.cc == nil {
		return nil
	}
	return c.cc.Close()
}

func (c *Client) WrapPublicKey(pkcs1PublicDER []byte) ([]byte, error) {
	ctx, cancel := c.ctx()
	defer cancel()

	reply, err := c.client.WrapPublicKey(ctx, wrapperspb.Bytes(pkcs1PublicDER))
	if err != nil {
		return nil, fromStatus(err)
	}
	return reply.GetValue(), nil
}

func (c *Client) UnwrapPublicKey(spkiDER []byte, opts keys.Options) ([]byte, error) {
	ctx, cancel := c.ctx()
	defer cancel()

	reply, err := c.client.UnwrapPublicKey(withMode(ctx, opts), wrapperspb.Bytes(spkiDER))
	if err != nil {
		return nil, fromStatus(err)
	}
	return reply.GetValue(), nil
}

// PrivateToPublic returns the derived SPKI and, when the server stored it,
// its key ID. The ID is cid.Undef otherwise.
func (c *Client) PrivateToPublic(pkcs1PrivateDER []byte, opts keys.Options) ([]byte, cid.Cid, error) {
	ctx, cancel := c.ctx()
	defer cancel()

	var header metadata.MD
	reply, err := c.client.PrivateToPublic(withMode(ctx, opts), wrapperspb.Bytes(pkcs1PrivateDER), grpc.Header(&header))
	if err != nil {
		return nil, cid.Undef, fromStatus(err)
	}
	spki := reply.GetValue()
	v := header.Get(MDKeyID)
	if len(v) == 0 {
		return spki, cid.Undef, nil
	}
	id, err := cidutil.ParseKeyID(v[0])
	if err != nil {
		return nil, cid.Undef, storage.ErrInvalidKeyID
	}
	if got, err := cidutil.KeyID(spki); err != nil || got != id {
		return nil, cid.Undef, storage.ErrKeyIDMismatch
	}
	return spki, id, nil
}

func (c *Client) DERToPEM(der []byte, label string) (string, error) {
	ctx, cancel := c.ctx()
	defer cancel()

	reply, err := c.client.DERToPEM(withLabel(ctx, label), wrapperspb.Bytes(der))
	if err != nil {
		return "", fromStatus(err)
	}
	return reply.GetValue(), nil
}

func (c *Client) PEMToDER(pem, label string) ([]byte, error) {
	ctx, cancel := c.ctx()
	defer cancel()

	reply, err := c.client.PEMToDER(withLabel(ctx, label), wrapperspb.String(pem))
	if err != nil {
		return nil, fromStatus(err)
	}
	return reply.GetValue(), nil
}

// Fetch returns the stored SPKI for id and verifies it against the ID.
func (c *Client) Fetch(id cid.Cid) ([]byte, error) {
	if cidutil.CheckKeyID(id) != nil {
		return nil, storage.ErrInvalidKeyID
	}
	ctx, cancel := c.ctx()
	defer cancel()

	reply, err := c.client.Fetch(ctx, wrapperspb.String(id.String()))
	if err != nil {
		return nil, fromStatus(err)
	}
	b := reply.GetValue()
	got, err := cidutil.KeyID(b)
	if err != nil {
		return nil, err
	}
	if got != id {
		return nil, storage.ErrKeyIDMismatch
	}
	return b, nil
}

func (c *Client) ctx() (context.Context, context.CancelFunc) {
	if c.Timeout <= 0 {
		return context.WithCancel(context.Background())
	}
	return context.WithTimeout(context.Background(), c.Timeout)
}

func withMode(ctx context.Context, opts keys.Options) context.Context {
	return metadata.AppendToOutgoingContext(ctx, MDMode, opts.Mode.String())
}

func withLabel(ctx context.Context, label string) context.Context {
	if label == "" {
		return ctx
	}
	return metadata.AppendToOutgoingContext(ctx, MDLabel, label)
}
