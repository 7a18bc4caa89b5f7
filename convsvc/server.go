package convsvc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"xdao.co/rsakey/armor"
	"xdao.co/rsakey/cidutil"
	"xdao.co/rsakey/compliance"
	"xdao.co/rsakey/keys"
	"xdao.co/rsakey/storage"
)

// Server exposes the key transforms over the KeyConv gRPC service.
type Server struct {
	UnimplementedKeyConvServer

	// Mode applies when a request carries no x-rsakey-mode metadata.
	Mode compliance.Mode

	// Store, when set, receives every key derived by PrivateToPublic and
	// serves Fetch.
	Store storage.KeyStore
}

func (s *Server) WrapPublicKey(ctx context.Context, in *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error) {
	_ = ctx
	return wrapperspb.Bytes(keys.WrapPublicKey(in.GetValue())), nil
}

func (s *Server) UnwrapPublicKey(ctx context.Context, in *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error) {
	opts, err := s.options(ctx)
	if err != nil {
		return nil, err
	}
	pub, err := keys.UnwrapPublicKeyWithOptions(in.GetValue(), opts)
	if err != nil {
		return nil, toStatus(err)
	}
	return wrapperspb.Bytes(pub), nil
}

func (s *Server) PrivateToPublic(ctx context.Context, in *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error) {
	opts, err := s.options(ctx)
	if err != nil {
		return nil, err
	}
	spki, err := keys.PrivateToPublicWithOptions(in.GetValue(), opts)
	if err != nil {
		return nil, toStatus(err)
	}
	if s.Store != nil {
		id, err := s.Store.Put(spki)
		if err != nil {
			return nil, toStatus(err)
		}
		if err := grpc.SetHeader(ctx, metadata.Pairs(MDKeyID, id.String())); err != nil {
			return nil, status.Error(codes.Internal, err.Error())
		}
	}
	return wrapperspb.Bytes(spki), nil
}

func (s *Server) DERToPEM(ctx context.Context, in *wrapperspb.BytesValue) (*wrapperspb.StringValue, error) {
	return wrapperspb.String(armor.DERToPEM(in.GetValue(), incoming(ctx, MDLabel))), nil
}

func (s *Server) PEMToDER(ctx context.Context, in *wrapperspb.StringValue) (*wrapperspb.BytesValue, error) {
	der, err := armor.PEMToDER(in.GetValue(), incoming(ctx, MDLabel))
	if err != nil {
		return nil, toStatus(err)
	}
	return wrapperspb.Bytes(der), nil
}

func (s *Server) Fetch(ctx context.Context, in *wrapperspb.StringValue) (*wrapperspb.BytesValue, error) {
	_ = ctx
	if s == nil || s.Store == nil {
		return nil, status.Error(codes.FailedPrecondition, "missing key store")
	}
	id, err := cidutil.ParseKeyID(in.GetValue())
	if err != nil {
		return nil, toStatus(storage.ErrInvalidKeyID)
	}
	b, err := s.Store.Get(id)
	if err != nil {
		return nil, toStatus(err)
	}
	// Enforce the key ID contract on the server side too.
	got, err := cidutil.KeyID(b)
	if err != nil {
		return nil, status.Error(codes.Internal, "key id computation failed")
	}
	if got != id {
		return nil, toStatus(storage.ErrKeyIDMismatch)
	}
	return wrapperspb.Bytes(b), nil
}

func (s *Server) options(ctx context.Context) (keys.Options, error) {
	raw := incoming(ctx, MDMode)
	if raw == "" {
		return keys.Options{Mode: s.Mode}, nil
	}
	mode, err := compliance.ParseMode(raw)
	if err != nil {
		return keys.Options{}, status.Error(codes.InvalidArgument, err.Error())
	}
	return keys.Options{Mode: mode}, nil
}

func incoming(ctx context.Context, key string) string {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return ""
	}
	if v := md.Get(key); len(v) > 0 {
		return v[0]
	}
	return ""
}
