package interceptors

import (
	"context"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"careerhub-utils/internal/logging"
	"careerhub-utils/pkg/utils"
)

// requestID takes x-request-id from incoming metadata or makes one up
func requestID(ctx context.Context) string {
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if ids := md.Get("x-request-id"); len(ids) > 0 && ids[0] != "" {
			return ids[0]
		}
	}
	return utils.GenerateRequestID()
}

func codeOf(err error) codes.Code {
	if err == nil {
		return codes.OK
	}
	if s, ok := status.FromError(err); ok {
		return s.Code()
	}
	return codes.Internal
}

// LoggingInterceptor returns a gRPC unary interceptor that logs each call
func LoggingInterceptor(logger logging.Logger) grpc.UnaryServerInterceptor {
	return func(
		ctx context.Context,
		req interface{},
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (interface{}, error) {
		startTime := time.Now()
		log := logger.WithFields(map[string]interface{}{
			"request_id": requestID(ctx),
			"method":     info.FullMethod,
		})

		resp, err := handler(ctx, req)

		fields := map[string]interface{}{
			"processing_time": time.Since(startTime).String(),
			"status_code":     codeOf(err).String(),
			"type":            "grpc_request_complete",
		}
		if err != nil {
			fields["error"] = err.Error()
			log.Error("gRPC request failed", fields)
		} else {
			log.Debug("gRPC request completed", fields)
		}
		return resp, err
	}
}

// StreamLoggingInterceptor logs stream lifetimes
func StreamLoggingInterceptor(logger logging.Logger) grpc.StreamServerInterceptor {
	return func(
		srv interface{},
		ss grpc.ServerStream,
		info *grpc.StreamServerInfo,
		handler grpc.StreamHandler,
	) error {
		startTime := time.Now()
		log := logger.WithFields(map[string]interface{}{
			"request_id": requestID(ss.Context()),
			"method":     info.FullMethod,
		})

		err := handler(srv, ss)

		fields := map[string]interface{}{
			"processing_time": time.Since(startTime).String(),
			"status_code":     codeOf(err).String(),
			"type":            "grpc_stream_complete",
		}
		if err != nil && codeOf(err) != codes.Canceled {
			fields["error"] = err.Error()
			log.Error("gRPC stream failed", fields)
		} else {
			log.Debug("gRPC stream completed", fields)
		}
		return err
	}
}
