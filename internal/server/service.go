package server

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "expediente.v1.ExpedienteService"

// Full method names.
const (
	MethodClassify        = "/" + ServiceName + "/Classify"
	MethodNormalize       = "/" + ServiceName + "/Normalize"
	MethodCompare         = "/" + ServiceName + "/Compare"
	MethodValidate        = "/" + ServiceName + "/Validate"
	MethodIngestFile      = "/" + ServiceName + "/IngestFile"
	MethodIngestDirectory = "/" + ServiceName + "/IngestDirectory"
	MethodExport          = "/" + ServiceName + "/Export"
)

// ExpedienteServer is the server API. Requests and responses are
// google.protobuf.Struct values; see the handlers for the field names.
type ExpedienteServer interface {
	Classify(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Normalize(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Compare(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Validate(context.Context, *structpb.Struct) (*structpb.Struct, error)
	IngestFile(context.Context, *structpb.Struct) (*structpb.Struct, error)
	IngestDirectory(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Export(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

type structMethod func(ExpedienteServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

func unaryHandler(fullMethod string, call structMethod) func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(ExpedienteServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(ExpedienteServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// ServiceDesc describes ExpedienteService for grpc.Server.RegisterService.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*ExpedienteServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Classify", Handler: unaryHandler(MethodClassify, ExpedienteServer.Classify)},
		{MethodName: "Normalize", Handler: unaryHandler(MethodNormalize, ExpedienteServer.Normalize)},
		{MethodName: "Compare", Handler: unaryHandler(MethodCompare, ExpedienteServer.Compare)},
		{MethodName: "Validate", Handler: unaryHandler(MethodValidate, ExpedienteServer.Validate)},
		{MethodName: "IngestFile", Handler: unaryHandler(MethodIngestFile, ExpedienteServer.IngestFile)},
		{MethodName: "IngestDirectory", Handler: unaryHandler(MethodIngestDirectory, ExpedienteServer.IngestDirectory)},
		{MethodName: "Export", Handler: unaryHandler(MethodExport, ExpedienteServer.Export)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "expediente/v1/expediente.proto",
}

func RegisterExpedienteServer(s grpc.ServiceRegistrar, srv ExpedienteServer) {
	s.RegisterService(&ServiceDesc, srv)
}

// Client is a thin client for ExpedienteService.
type Client struct {
	cc grpc.ClientConnInterface
}

func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

// Call invokes one of the Method* names with a Struct request.
func (c *Client) Call(ctx context.Context, method string, req *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, method, req, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
