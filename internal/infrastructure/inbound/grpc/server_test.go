package delivery_grpc_test

import (
	"context"
	"errors"
	"net"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	delivery_grpc "community-feed-service/internal/infrastructure/inbound/grpc"
	"community-feed-service/internal/infrastructure/logger"
	prometheus_metrics "community-feed-service/internal/infrastructure/outbound/metrics/prometheus"
)

func startServer(t *testing.T, probes map[string]delivery_grpc.Probe) (*delivery_grpc.Server, healthpb.HealthClient) {
	t.Helper()

	server := delivery_grpc.NewServer(probes, "127.0.0.1", 0, time.Hour, logger.New("test"), prometheus_metrics.NewPrometheusMetricsProvider())

	lis, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	go func() {
		_ = server.Serve(lis)
	}()
	t.Cleanup(func() { _ = server.Shutdown() })

	conn, err := grpc.NewClient(lis.Addr().String(), grpc.WithTransportCredentials(insecure.NewCredentials()))
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	return server, healthpb.NewHealthClient(conn)
}

func TestServer_HealthServing(t *testing.T) {
	_, client := startServer(t, map[string]delivery_grpc.Probe{
		"postgres": func(context.Context) error { return nil },
	})

	require.Eventually(t, func() bool {
		resp, err := client.Check(context.Background(), &healthpb.HealthCheckRequest{Service: delivery_grpc.ServiceName})
		return err == nil && resp.GetStatus() == healthpb.HealthCheckResponse_SERVING
	}, 2*time.Second, 20*time.Millisecond)
}

func TestServer_HealthNotServing(t *testing.T) {
	var redisDown atomic.Bool
	server, client := startServer(t, map[string]delivery_grpc.Probe{
		"postgres": func(context.Context) error { return nil },
		"redis": func(context.Context) error {
			if redisDown.Load() {
				return errors.New("connection refused")
			}
			return nil
		},
	})

	require.Eventually(t, func() bool {
		resp, err := client.Check(context.Background(), &healthpb.HealthCheckRequest{})
		return err == nil && resp.GetStatus() == healthpb.HealthCheckResponse_SERVING
	}, 2*time.Second, 20*time.Millisecond)

	redisDown.Store(true)
	assert.False(t, server.Check(context.Background()))

	resp, err := client.Check(context.Background(), &healthpb.HealthCheckRequest{})
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, resp.GetStatus())
}
