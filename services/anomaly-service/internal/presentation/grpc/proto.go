package grpc

// proto.go defines the gRPC server interface for sentinel/anomaly/v1/anomaly.proto.
// It stands in for generated code; messages travel with the json codec.

import (
	"context"

	grpclib "google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "sentinel.anomaly.v1.AnomalyService"

// AnomalyServiceServer is the server API for AnomalyService.
type AnomalyServiceServer interface {
	EvaluateBatch(context.Context, *EvaluateBatchRequest) (*EvaluationResponse, error)
	EvaluateReading(context.Context, *EvaluateReadingRequest) (*EvaluationResponse, error)
	GetBatch(context.Context, *GetBatchRequest) (*EvaluationResponse, error)
	mustEmbedUnimplementedAnomalyServiceServer()
}

// UnimplementedAnomalyServiceServer provides forward-compatible default implementations.
type UnimplementedAnomalyServiceServer struct{}

func (UnimplementedAnomalyServiceServer) EvaluateBatch(context.Context, *EvaluateBatchRequest) (*EvaluationResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method EvaluateBatch not implemented")
}
func (UnimplementedAnomalyServiceServer) EvaluateReading(context.Context, *EvaluateReadingRequest) (*EvaluationResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method EvaluateReading not implemented")
}
func (UnimplementedAnomalyServiceServer) GetBatch(context.Context, *GetBatchRequest) (*EvaluationResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method GetBatch not implemented")
}
func (UnimplementedAnomalyServiceServer) mustEmbedUnimplementedAnomalyServiceServer() {}

// RegisterAnomalyServiceServer registers the AnomalyServiceServer with the gRPC server.
func RegisterAnomalyServiceServer(s grpclib.ServiceRegistrar, srv AnomalyServiceServer) {
	s.RegisterService(&_AnomalyService_serviceDesc, srv)
}

var _AnomalyService_serviceDesc = grpclib.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*AnomalyServiceServer)(nil),
	Methods: []grpclib.MethodDesc{
		{MethodName: "EvaluateBatch", Handler: _AnomalyService_EvaluateBatch_Handler},
		{MethodName: "EvaluateReading", Handler: _AnomalyService_EvaluateReading_Handler},
		{MethodName: "GetBatch", Handler: _AnomalyService_GetBatch_Handler},
	},
	Streams:  []grpclib.StreamDesc{},
	Metadata: "sentinel/anomaly/v1/anomaly.proto",
}

func _AnomalyService_EvaluateBatch_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpclib.UnaryServerInterceptor) (any, error) {
	req := new(EvaluateBatchRequest)
	if err := dec(req); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(AnomalyServiceServer).EvaluateBatch(ctx, req)
	}
	info := &grpclib.UnaryServerInfo{Server: srv, FullMethod: "/" + ServiceName + "/EvaluateBatch"}
	return interceptor(ctx, req, info, func(ctx context.Context, req any) (any, error) {
		return srv.(AnomalyServiceServer).EvaluateBatch(ctx, req.(*EvaluateBatchRequest))
	})
}

func _AnomalyService_EvaluateReading_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpclib.UnaryServerInterceptor) (any, error) {
	req := new(EvaluateReadingRequest)
	if err := dec(req); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(AnomalyServiceServer).EvaluateReading(ctx, req)
	}
	info := &grpclib.UnaryServerInfo{Server: srv, FullMethod: "/" + ServiceName + "/EvaluateReading"}
	return interceptor(ctx, req, info, func(ctx context.Context, req any) (any, error) {
		return srv.(AnomalyServiceServer).EvaluateReading(ctx, req.(*EvaluateReadingRequest))
	})
}

func _AnomalyService_GetBatch_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpclib.UnaryServerInterceptor) (any, error) {
	req := new(GetBatchRequest)
	if err := dec(req); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(AnomalyServiceServer).GetBatch(ctx, req)
	}
	info := &grpclib.UnaryServerInfo{Server: srv, FullMethod: "/" + ServiceName + "/GetBatch"}
	return interceptor(ctx, req, info, func(ctx context.Context, req any) (any, error) {
		return srv.(AnomalyServiceServer).GetBatch(ctx, req.(*GetBatchRequest))
	})
}
