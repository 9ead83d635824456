package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"

	content_service "community-feed-service/internal/application/service/content"
	distance_service "community-feed-service/internal/application/service/distance"
	feed_service "community-feed-service/internal/application/service/feed"
	social_service "community-feed-service/internal/application/service/social"
	"community-feed-service/internal/domain/ports/output/geo"
	"community-feed-service/internal/infrastructure/config"
	delivery_grpc "community-feed-service/internal/infrastructure/inbound/grpc"
	delivery_http "community-feed-service/internal/infrastructure/inbound/http"
	metrics_server "community-feed-service/internal/infrastructure/inbound/metrics"
	"community-feed-service/internal/infrastructure/logger"
	"community-feed-service/internal/infrastructure/outbound/auth"
	redis_cache "community-feed-service/internal/infrastructure/outbound/cache/redis"
	geo_client "community-feed-service/internal/infrastructure/outbound/geo"
	prometheus_metrics "community-feed-service/internal/infrastructure/outbound/metrics/prometheus"
)

func main() {
	cfg := config.MustLoad()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	log := logger.New(cfg.Env)

	metrics := prometheus_metrics.NewPrometheusMetricsProvider()

	store, err := openStorage(ctx, cfg.Database, log, metrics)
	if err != nil {
		log.Error("Failed to open storage", slog.String("driver", cfg.Database.Driver), slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer store.close()

	probes := map[string]delivery_grpc.Probe{"database": store.probe}

	var resolver geo.CoordinateResolver = geo_client.NewGeocoder(cfg.Geo, log, metrics)
	if cfg.Redis.Enabled {
		log.Info("Connecting to Redis",
			slog.String("address", cfg.Redis.Address),
			slog.Int("port", cfg.Redis.Port),
			slog.Int("db", cfg.Redis.DB))
		redisClient, err := redis_cache.NewClient(cfg.Redis, log, metrics)
		if err != nil {
			log.Error("Failed to create Redis client", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				log.Error("Failed to close Redis connection", slog.String("error", err.Error()))
			}
		}()

		coordinateCache := redis_cache.NewCoordinateCache(redisClient, log, cfg.Geo.CoordinateTTL)
		resolver = geo_client.NewCachedResolver(resolver, coordinateCache, log)
		probes["redis"] = redisClient.Ping
	}
	calculator := geo_client.NewDistanceMatrix(cfg.Geo, log, metrics)

	contentService := content_service.NewContentService(
		store.content, store.comments, store.likes, store.users, store.unitOfWork,
		log, metrics, cfg.Feed.FanoutLimit,
	)
	feedService := feed_service.NewFeedService(
		contentService, store.content, store.follows, store.users,
		log, cfg.Feed.DefaultLimit, cfg.Feed.FanoutLimit,
	)
	distanceService := distance_service.NewDistanceService(store.users, store.content, resolver, calculator, log)
	socialService := social_service.NewSocialService(store.users, store.follows, store.messages, feedService, distanceService, log)

	validate := validator.New()
	limiter := delivery_http.NewIPRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst)
	go limiter.Cleanup(ctx, time.Minute, 3*time.Minute)

	router := delivery_http.NewRouter(
		delivery_http.Handlers{
			Content: delivery_http.NewContentHandler(contentService, distanceService, validate, log),
			Feed:    delivery_http.NewFeedHandler(feedService, validate, log),
			Social:  delivery_http.NewSocialHandler(socialService, distanceService, validate, log),
		},
		auth.NewJWTVerifier(cfg.Auth.SecretKey, log),
		limiter,
		cfg.HTTPServer.CORSOrigins,
		log,
		metrics,
	)
	httpServer := delivery_http.NewServer(router, cfg.HTTPServer.Address, cfg.HTTPServer.Port,
		cfg.HTTPServer.ReadTimeout, cfg.HTTPServer.WriteTimeout, log)
	grpcServer := delivery_grpc.NewServer(probes, cfg.GRPCServer.Address, cfg.GRPCServer.Port,
		cfg.GRPCServer.HealthCheckInterval, log, metrics)
	metricsServer := metrics_server.NewMetricsServer(cfg.Prometheus.Address, cfg.Prometheus.Port, log)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	httpDone := make(chan bool, 1)
	grpcDone := make(chan bool, 1)
	metricsDone := make(chan bool, 1)

	go func() {
		if err := httpServer.Run(); err != nil {
			log.Error("HTTP server error", slog.String("error", err.Error()))
		}
		httpDone <- true
	}()

	go func() {
		if err := grpcServer.Run(); err != nil {
			log.Error("gRPC server error", slog.String("error", err.Error()))
		}
		grpcDone <- true
	}()

	go func() {
		if err := metricsServer.Run(); err != nil {
			log.Error("Metrics server error", slog.String("error", err.Error()))
		}
		metricsDone <- true
	}()

	<-quit
	log.Info("Shutting down servers...")

	metrics.SetServiceHealth(false)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error", slog.String("error", err.Error()))
	}

	if err := grpcServer.Shutdown(); err != nil {
		log.Error("gRPC server shutdown error", slog.String("error", err.Error()))
	}

	if err := metricsServer.Shutdown(shutdownCtx); err != nil {
		log.Error("Metrics server shutdown error", slog.String("error", err.Error()))
	}

	<-httpDone
	<-grpcDone
	<-metricsDone

	log.Info("Server exited")
}
