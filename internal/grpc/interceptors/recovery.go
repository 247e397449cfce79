package interceptors

import (
	"context"
	"fmt"
	"runtime/debug"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"careerhub-utils/internal/logging"
)

// RecoveryInterceptor returns a gRPC unary interceptor that turns panics
// into codes.Internal
func RecoveryInterceptor(logger logging.Logger) grpc.UnaryServerInterceptor {
	return func(
		ctx context.Context,
		req interface{},
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (resp interface{}, err error) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("gRPC handler panic recovered", map[string]interface{}{
					"method":      info.FullMethod,
					"panic":       fmt.Sprintf("%v", r),
					"stack_trace": string(debug.Stack()),
					"type":        "grpc_panic",
				})
				resp, err = nil, status.Error(codes.Internal, "internal server error")
			}
		}()

		return handler(ctx, req)
	}
}

// StreamRecoveryInterceptor is RecoveryInterceptor for streams
func StreamRecoveryInterceptor(logger logging.Logger) grpc.StreamServerInterceptor {
	return func(
		srv interface{},
		ss grpc.ServerStream,
		info *grpc.StreamServerInfo,
		handler grpc.StreamHandler,
	) (err error) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("gRPC stream handler panic recovered", map[string]interface{}{
					"method":      info.FullMethod,
					"panic":       fmt.Sprintf("%v", r),
					"stack_trace": string(debug.Stack()),
					"type":        "grpc_stream_panic",
				})
				err = status.Error(codes.Internal, "internal server error")
			}
		}()

		return handler(srv, ss)
	}
}
