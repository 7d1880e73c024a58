package grpc

import (
	aiwpb "github.com/cp25sy5-modjot/proto/gen/ai/v2"
	"google.golang.org/grpc"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

// HealthSetter is the part of grpc/health.Server used here.
type HealthSetter interface {
	SetServingStatus(service string, status healthpb.HealthCheckResponse_ServingStatus)
}

// RegisterAIWrapperServer registers the OCR service and reflection, and
// marks the service as serving.
func RegisterAIWrapperServer(s *grpc.Server, hs HealthSetter, impl aiwpb.AiWrapperServiceServer) {
	aiwpb.RegisterAiWrapperServiceServer(s, impl)
	reflection.Register(s)
	if hs != nil {
		hs.SetServingStatus(aiwpb.AiWrapperService_ServiceDesc.ServiceName, healthpb.HealthCheckResponse_SERVING)
	}
}
