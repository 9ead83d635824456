package delivery_grpc

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"time"

	grpc_middleware "github.com/grpc-ecosystem/go-grpc-middleware"
	grpc_recovery "github.com/grpc-ecosystem/go-grpc-middleware/recovery"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	ports "community-feed-service/internal/domain/ports/output"
)

// ServiceName is the name reported by the health service next to the overall status.
const ServiceName = "community.feed.v1.FeedService"

// Probe checks one dependency. A nil error means it is reachable.
type Probe func(ctx context.Context) error

type Server struct {
	server   *grpc.Server
	health   *health.Server
	probes   map[string]Probe
	interval time.Duration
	address  string
	port     int
	log      ports.Logger
	metrics  ports.MetricsProvider
	ctx      context.Context
	cancel   context.CancelFunc
}

func NewServer(probes map[string]Probe, address string, port int, interval time.Duration, log ports.Logger, metrics ports.MetricsProvider) *Server {
	if interval <= 0 {
		interval = 15 * time.Second
	}
	ctx, cancel := context.WithCancel(context.Background())
	s := &Server{
		ctx:      ctx,
		cancel:   cancel,
		health:   health.NewServer(),
		probes:   probes,
		interval: interval,
		address:  address,
		port:     port,
		log:      log,
		metrics:  metrics,
	}
	s.server = grpc.NewServer(
		grpc.UnaryInterceptor(grpc_middleware.ChainUnaryServer(
			UnaryLoggerInterceptor(log, metrics),
			grpc_recovery.UnaryServerInterceptor(),
		)),
	)
	healthpb.RegisterHealthServer(s.server, s.health)
	return s
}

// Check runs every probe once and publishes the combined status.
func (s *Server) Check(ctx context.Context) bool {
	healthy := true
	for name, probe := range s.probes {
		if err := probe(ctx); err != nil {
			healthy = false
			s.log.Warn("Dependency unhealthy", slog.String("dependency", name), slog.String("error", err.Error()))
		}
	}

	servingStatus := healthpb.HealthCheckResponse_SERVING
	if !healthy {
		servingStatus = healthpb.HealthCheckResponse_NOT_SERVING
	}
	s.health.SetServingStatus("", servingStatus)
	s.health.SetServingStatus(ServiceName, servingStatus)
	s.metrics.SetServiceHealth(healthy)
	return healthy
}

func (s *Server) watch(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			checkCtx, cancel := context.WithTimeout(ctx, s.interval)
			s.Check(checkCtx)
			cancel()
		}
	}
}

func (s *Server) Run() error {
	address := fmt.Sprintf("%s:%d", s.address, s.port)
	lis, err := net.Listen("tcp", address)
	if err != nil {
		return fmt.Errorf("failed to listen: %v", err)
	}
	return s.Serve(lis)
}

// Serve starts health probing and serves on lis until Shutdown.
func (s *Server) Serve(lis net.Listener) error {
	s.Check(s.ctx)
	go s.watch(s.ctx)

	s.log.Info("Starting gRPC server", slog.String("address", lis.Addr().String()))
	return s.server.Serve(lis)
}

func (s *Server) Shutdown() error {
	s.cancel()
	s.health.Shutdown()
	s.server.GracefulStop()
	return nil
}
