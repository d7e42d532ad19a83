package emergency

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "tankemergency.v1.EmergencyService"

// Full method names.
const (
	MethodTrigger      = "/" + ServiceName + "/Trigger"
	MethodResolve      = "/" + ServiceName + "/Resolve"
	MethodGetEmergency = "/" + ServiceName + "/GetEmergency"
	MethodGetTanks     = "/" + ServiceName + "/GetTanks"
	MethodSetFlow      = "/" + ServiceName + "/SetFlow"
)

// EmergencyServiceServer is the server API of the emergency service.
type EmergencyServiceServer interface {
	Trigger(ctx context.Context, req *emptypb.Empty) (*structpb.Struct, error)
	Resolve(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	GetEmergency(ctx context.Context, req *emptypb.Empty) (*structpb.Struct, error)
	GetTanks(ctx context.Context, req *emptypb.Empty) (*structpb.Struct, error)
	SetFlow(ctx context.Context, req *wrapperspb.BoolValue) (*structpb.Struct, error)
}

// RegisterEmergencyServiceServer registers srv on s.
func RegisterEmergencyServiceServer(s grpc.ServiceRegistrar, srv EmergencyServiceServer) {
	s.RegisterService(&serviceDesc, srv)
}

//nolint:gochecknoglobals // gRPC keeps a pointer to the descriptor.
var serviceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*EmergencyServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "Trigger",
			Handler: unaryHandler(MethodTrigger, newEmpty,
				func(srv EmergencyServiceServer, ctx context.Context, req *emptypb.Empty) (*structpb.Struct, error) {
					return srv.Trigger(ctx, req)
				}),
		},
		{
			MethodName: "Resolve",
			Handler: unaryHandler(MethodResolve, newStruct,
				func(srv EmergencyServiceServer, ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
					return srv.Resolve(ctx, req)
				}),
		},
		{
			MethodName: "GetEmergency",
			Handler: unaryHandler(MethodGetEmergency, newEmpty,
				func(srv EmergencyServiceServer, ctx context.Context, req *emptypb.Empty) (*structpb.Struct, error) {
					return srv.GetEmergency(ctx, req)
				}),
		},
		{
			MethodName: "GetTanks",
			Handler: unaryHandler(MethodGetTanks, newEmpty,
				func(srv EmergencyServiceServer, ctx context.Context, req *emptypb.Empty) (*structpb.Struct, error) {
					return srv.GetTanks(ctx, req)
				}),
		},
		{
			MethodName: "SetFlow",
			Handler: unaryHandler(MethodSetFlow, newBool,
				func(srv EmergencyServiceServer, ctx context.Context, req *wrapperspb.BoolValue) (*structpb.Struct, error) {
					return srv.SetFlow(ctx, req)
				}),
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "tankemergency/v1/emergency.proto",
}

func newEmpty() *emptypb.Empty       { return new(emptypb.Empty) }
func newStruct() *structpb.Struct    { return new(structpb.Struct) }
func newBool() *wrapperspb.BoolValue { return new(wrapperspb.BoolValue) }

// unaryHandler adapts a typed call into a grpc.MethodHandler, decoding the
// request and running the interceptor chain.
func unaryHandler[Req proto.Message](
	fullMethod string,
	newRequest func() Req,
	call func(srv EmergencyServiceServer, ctx context.Context, req Req) (*structpb.Struct, error),
) func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := newRequest()
		if err := dec(in); err != nil {
			return nil, err
		}

		server, _ := srv.(EmergencyServiceServer)
		if interceptor == nil {
			return call(server, ctx, in)
		}

		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: fullMethod,
		}

		handler := func(ctx context.Context, req any) (any, error) {
			typed, _ := req.(Req)

			return call(server, ctx, typed)
		}

		return interceptor(ctx, in, info, handler)
	}
}
