package mux_test

import (
	"context"
	"io"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"careerhub-utils/internal/config"
	"careerhub-utils/internal/grpc/server"
	"careerhub-utils/internal/mux"
)

func TestMultiplexer_ServesHTTPAndGRPC(t *testing.T) {
	cfg := config.Default()
	cfg.Server.ShutdownTimeout = 2 * time.Second

	httpHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "hello")
	})

	lis, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	m := mux.NewMultiplexer(cfg, server.NewServer(nil, nil), httpHandler, nil)
	require.NoError(t, m.Serve(lis))
	t.Cleanup(func() { m.Stop() })
	assert.True(t, m.IsHealthy())

	res, err := http.Get("http://" + m.GetAddress() + "/")
	require.NoError(t, err)
	body, _ := io.ReadAll(res.Body)
	res.Body.Close()
	assert.Equal(t, "hello", string(body))

	conn, err := grpc.NewClient(m.GetAddress(), grpc.WithTransportCredentials(insecure.NewCredentials()))
	require.NoError(t, err)
	defer conn.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	resp, err := healthpb.NewHealthClient(conn).Check(ctx, &healthpb.HealthCheckRequest{})
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, resp.Status)
}
