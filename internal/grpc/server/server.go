package server

import (
	"context"
	"net"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/keepalive"
	"google.golang.org/grpc/reflection"

	"careerhub-utils/internal/grpc/interceptors"
	"careerhub-utils/internal/logging"
)

// ServiceName is the health-checked service name for the saved-jobs API
const ServiceName = "careerhub.savedjobs"

// Server exposes the standard gRPC health service and reflection on the
// shared listener.
type Server struct {
	grpcServer *grpc.Server
	health     *health.Server
	metrics    *interceptors.MetricsCollector
	logger     logging.Logger
}

func NewServer(logger logging.Logger, metrics *interceptors.MetricsCollector) *Server {
	if logger == nil {
		logger = logging.Discard()
	}
	if metrics == nil {
		metrics = interceptors.NewMetricsCollector()
	}
	logger = logger.WithField("component", "grpc")

	grpcServer := grpc.NewServer(
		grpc.KeepaliveParams(keepalive.ServerParameters{
			Time:    30 * time.Second,
			Timeout: 5 * time.Second,
		}),
		grpc.KeepaliveEnforcementPolicy(keepalive.EnforcementPolicy{
			MinTime:             5 * time.Second,
			PermitWithoutStream: true,
		}),
		grpc.ChainUnaryInterceptor(
			interceptors.RecoveryInterceptor(logger),
			interceptors.LoggingInterceptor(logger),
			metrics.UnaryInterceptor(),
		),
		grpc.ChainStreamInterceptor(
			interceptors.StreamRecoveryInterceptor(logger),
			interceptors.StreamLoggingInterceptor(logger),
			metrics.StreamInterceptor(),
		),
	)

	hs := health.NewServer()
	hs.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	hs.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_NOT_SERVING)
	healthpb.RegisterHealthServer(grpcServer, hs)

	// Enable reflection for debugging
	reflection.Register(grpcServer)

	return &Server{
		grpcServer: grpcServer,
		health:     hs,
		metrics:    metrics,
		logger:     logger,
	}
}

// SetServing flips the saved-jobs service health
func (s *Server) SetServing(serving bool) {
	st := healthpb.HealthCheckResponse_NOT_SERVING
	if serving {
		st = healthpb.HealthCheckResponse_SERVING
	}
	s.health.SetServingStatus(ServiceName, st)
}

// Start serves on lis until Stop
func (s *Server) Start(lis net.Listener) error {
	s.SetServing(true)
	s.logger.Info("Starting gRPC server", map[string]interface{}{"address": lis.Addr().String()})
	return s.grpcServer.Serve(lis)
}

// Stop drains in-flight calls, forcing a stop when ctx expires
func (s *Server) Stop(ctx context.Context) {
	s.logger.Info("Shutting down gRPC server...")
	s.health.Shutdown()

	done := make(chan struct{})
	go func() {
		s.grpcServer.GracefulStop()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		s.grpcServer.Stop()
	}
}

// Metrics returns the call counters
func (s *Server) Metrics() *interceptors.MetricsCollector {
	return s.metrics
}
