package convsvc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

const serviceName = "xdao.rsakey.convsvc.v1.KeyConv"

// Request metadata keys.
const (
	// MDLabel carries the PEM label for DERToPEM and PEMToDER.
	MDLabel = "x-pem-label"
	// MDMode carries the compliance mode ("lenient" or "strict").
	MDMode = "x-rsakey-mode"
	// MDKeyID is the response header carrying the key ID of a stored key.
	MDKeyID = "x-rsakey-key-id"
)

// KeyConvServer is the server API for the KeyConv gRPC service.
//
// Messages are protobuf well-known wrapper types so this package does not
// require a protoc/codegen toolchain.
//
// Proto definition: keyconv.proto.
type KeyConvServer interface {
	WrapPublicKey(context.Context, *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error)
	UnwrapPublicKey(context.Context, *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error)
	PrivateToPublic(context.Context, *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error)
	DERToPEM(context.Context, *wrapperspb.BytesValue) (*wrapperspb.StringValue, error)
	PEMToDER(context.Context, *wrapperspb.StringValue) (*wrapperspb.BytesValue, error)
	Fetch(context.Context, *wrapperspb.StringValue) (*wrapperspb.BytesValue, error)
}

// UnimplementedKeyConvServer can be embedded to have forward compatible implementations.
type UnimplementedKeyConvServer struct{}

func (UnimplementedKeyConvServer) WrapPublicKey(context.Context, *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error) {
	return nil, status.Error(codes.Unimplemented, "method WrapPublicKey not implemented")
}
func (UnimplementedKeyConvServer) UnwrapPublicKey(context.Context, *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error) {
	return nil, status.Error(codes.Unimplemented, "method UnwrapPublicKey not implemented")
}
func (UnimplementedKeyConvServer) PrivateToPublic(context.Context, *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error) {
	return nil, status.Error(codes.Unimplemented, "method PrivateToPublic not implemented")
}
func (UnimplementedKeyConvServer) DERToPEM(context.Context, *wrapperspb.BytesValue) (*wrapperspb.StringValue, error) {
	return nil, status.Error(codes.Unimplemented, "method DERToPEM not implemented")
}
func (UnimplementedKeyConvServer) PEMToDER(context.Context, *wrapperspb.StringValue) (*wrapperspb.BytesValue, error) {
	return nil, status.Error(codes.Unimplemented, "method PEMToDER not implemented")
}
func (UnimplementedKeyConvServer) Fetch(context.Context, *wrapperspb.StringValue) (*wrapperspb.BytesValue, error) {
	return nil, status.Error(codes.Unimplemented, "method Fetch not implemented")
}

// RegisterKeyConvServer registers the KeyConv service on a gRPC server.
func RegisterKeyConvServer(s grpc.ServiceRegistrar, srv KeyConvServer) {
	s.RegisterService(&KeyConv_ServiceDesc, srv)
}

// KeyConvClient is the client API for the KeyConv gRPC service.
type KeyConvClient interface {
	WrapPublicKey(ctx context.Context, in *wrapperspb.BytesValue, opts ...grpc.CallOption) (*wrapperspb.BytesValue, error)
	UnwrapPublicKey(ctx context.Context, in *wrapperspb.BytesValue, opts ...grpc.CallOption) (*wrapperspb.BytesValue, error)
	PrivateToPublic(ctx context.Context, in *wrapperspb.BytesValue, opts ...grpc.CallOption) (*wrapperspb.BytesValue, error)
	DERToPEM(ctx context.Context, in *wrapperspb.BytesValue, opts ...grpc.CallOption) (*wrapperspb.StringValue, error)
	PEMToDER(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*wrapperspb.BytesValue, error)
	Fetch(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*wrapperspb.BytesValue, error)
}

type keyConvClient struct{ cc grpc.ClientConnInterface }

func NewKeyConvClient(cc grpc.ClientConnInterface) KeyConvClient { return &keyConvClient{cc: cc} }

func (c *keyConvClient) WrapPublicKey(ctx context.Context, in *wrapperspb.BytesValue, opts ...grpc.CallOption) (*wrapperspb.BytesValue, error) {
	out := new(wrapperspb.BytesValue)
	if err := c.cc.Invoke(ctx, fullMethod("WrapPublicKey"), in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *keyConvClient) UnwrapPublicKey(ctx context.Context, in *wrapperspb.BytesValue, opts ...grpc.CallOption) (*wrapperspb.BytesValue, error) {
	out := new(wrapperspb.BytesValue)
	if err := c.cc.Invoke(ctx, fullMethod("UnwrapPublicKey"), in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *keyConvClient) PrivateToPublic(ctx context.Context, in *wrapperspb.BytesValue, opts ...grpc.CallOption) (*wrapperspb.BytesValue, error) {
	out := new(wrapperspb.BytesValue)
	if err := c.cc.Invoke(ctx, fullMethod("PrivateToPublic"), in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *keyConvClient) DERToPEM(ctx context.Context, in *wrapperspb.BytesValue, opts ...grpc.CallOption) (*wrapperspb.StringValue, error) {
	out := new(wrapperspb.StringValue)
	if err := c.cc.Invoke(ctx, fullMethod("DERToPEM"), in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *keyConvClient) PEMToDER(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*wrapperspb.BytesValue, error) {
	out := new(wrapperspb.BytesValue)
	if err := c.cc.Invoke(ctx, fullMethod("PEMToDER"), in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *keyConvClient) Fetch(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*wrapperspb.BytesValue, error) {
	out := new(wrapperspb.BytesValue)
	if err := c.cc.Invoke(ctx, fullMethod("Fetch"), in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func fullMethod(name string) string { return "/" + serviceName + "/" + name }

// unaryHandler adapts one KeyConvServer method to a grpc.MethodDesc handler.
func unaryHandler[Req any](name string, newReq func() Req, call func(KeyConvServer, context.Context, Req) (interface{}, error)) func(interface{}, context.Context, func(interface{}) error, grpc.UnaryServerInterceptor) (interface{}, error) {
	method := fullMethod(name)
	return func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
		in := newReq()
		if err := dec(in); err != nil {
			return nil, err
		}
		handler := func(ctx context.Context, req interface{}) (interface{}, error) {
			return call(srv.(KeyConvServer), ctx, req.(Req))
		}
		if interceptor == nil {
			return handler(ctx, in)
		}
		return interceptor(ctx, in, &grpc.UnaryServerInfo{Server: srv, FullMethod: method}, handler)
	}
}

func newBytes() *wrapperspb.BytesValue   { return new(wrapperspb.BytesValue) }
func newString() *wrapperspb.StringValue { return new(wrapperspb.StringValue) }

// KeyConv_ServiceDesc is the grpc.ServiceDesc for the KeyConv service.
var KeyConv_ServiceDesc = grpc.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*KeyConvServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "WrapPublicKey", Handler: unaryHandler("WrapPublicKey", newBytes,
			func(s KeyConvServer, ctx context.Context, in *wrapperspb.BytesValue) (interface{}, error) {
				return s.WrapPublicKey(ctx, in)
			})},
		{MethodName: "UnwrapPublicKey", Handler: unaryHandler("UnwrapPublicKey", newBytes,
			func(s KeyConvServer, ctx context.Context, in *wrapperspb.BytesValue) (interface{}, error) {
				return s.UnwrapPublicKey(ctx, in)
			})},
		{MethodName: "PrivateToPublic", Handler: unaryHandler("PrivateToPublic", newBytes,
			func(s KeyConvServer, ctx context.Context, in *wrapperspb.BytesValue) (interface{}, error) {
				return s.PrivateToPublic(ctx, in)
			})},
		{MethodName: "DERToPEM", Handler: unaryHandler("DERToPEM", newBytes,
			func(s KeyConvServer, ctx context.Context, in *wrapperspb.BytesValue) (interface{}, error) {
				return s.DERToPEM(ctx, in)
			})},
		{MethodName: "PEMToDER", Handler: unaryHandler("PEMToDER", newString,
			func(s KeyConvServer, ctx context.Context, in *wrapperspb.StringValue) (interface{}, error) {
				return s.PEMToDER(ctx, in)
			})},
		{MethodName: "Fetch", Handler: unaryHandler("Fetch", newString,
			func(s KeyConvServer, ctx context.Context, in *wrapperspb.StringValue) (interface{}, error) {
				return s.Fetch(ctx, in)
			})},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "keyconv.proto",
}
