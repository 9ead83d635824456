package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	ports "community-feed-service/internal/domain/ports/output"
	comment_repository "community-feed-service/internal/domain/ports/output/comment"
	content_repository "community-feed-service/internal/domain/ports/output/content"
	follow_repository "community-feed-service/internal/domain/ports/output/follow"
	like_repository "community-feed-service/internal/domain/ports/output/like"
	message_repository "community-feed-service/internal/domain/ports/output/message"
	user_repository "community-feed-service/internal/domain/ports/output/user"
	"community-feed-service/internal/infrastructure/config"
	delivery_grpc "community-feed-service/internal/infrastructure/inbound/grpc"
	comment_postgres "community-feed-service/internal/infrastructure/outbound/repository/comment/postgres"
	content_postgres "community-feed-service/internal/infrastructure/outbound/repository/content/postgres"
	follow_postgres "community-feed-service/internal/infrastructure/outbound/repository/follow/postgres"
	like_postgres "community-feed-service/internal/infrastructure/outbound/repository/like/postgres"
	"community-feed-service/internal/infrastructure/outbound/repository/memory"
	message_postgres "community-feed-service/internal/infrastructure/outbound/repository/message/postgres"
	"community-feed-service/internal/infrastructure/outbound/repository/postgres"
	user_postgres "community-feed-service/internal/infrastructure/outbound/repository/user/postgres"
)

type storage struct {
	content    content_repository.Repository
	comments   comment_repository.Repository
	likes      like_repository.Repository
	users      user_repository.Repository
	follows    follow_repository.Repository
	messages   message_repository.Repository
	unitOfWork ports.UnitOfWork
	probe      delivery_grpc.Probe
	close      func()
}

func openStorage(ctx context.Context, cfg config.Database, log ports.Logger, metrics ports.MetricsProvider) (*storage, error) {
	switch cfg.Driver {
	case "memory":
		log.Warn("Using in-memory storage, data is lost on restart")
		store := memory.NewStore()
		return &storage{
			content:    memory.NewContentRepository(store, log),
			comments:   memory.NewCommentRepository(store, log),
			likes:      memory.NewLikeRepository(store, log),
			users:      memory.NewUserRepository(store, log),
			follows:    memory.NewFollowRepository(store, log),
			messages:   memory.NewMessageRepository(store, log),
			unitOfWork: memory.NewUnitOfWork(store, log),
			probe:      func(context.Context) error { return nil },
			close:      func() {},
		}, nil

	case "postgres":
		if err := postgres.Migrate(cfg.MigrationsPath, cfg.DSN("pgx5"), log); err != nil {
			return nil, fmt.Errorf("migrate: %w", err)
		}

		poolConfig, err := pgxpool.ParseConfig(cfg.DSN("postgresql"))
		if err != nil {
			return nil, fmt.Errorf("parse postgres pool config: %w", err)
		}
		if cfg.MaxConns > 0 {
			poolConfig.MaxConns = cfg.MaxConns
		}

		pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
		if err != nil {
			return nil, fmt.Errorf("create postgres pool: %w", err)
		}
		log.Info("Connected to postgres", slog.String("host", cfg.Host), slog.String("db", cfg.DbName))

		return &storage{
			content:    content_postgres.NewContentRepository(pool, log, metrics),
			comments:   comment_postgres.NewCommentRepository(pool, log, metrics),
			likes:      like_postgres.NewLikeRepository(pool, log, metrics),
			users:      user_postgres.NewUserRepository(pool, log, metrics),
			follows:    follow_postgres.NewFollowRepository(pool, log, metrics),
			messages:   message_postgres.NewMessageRepository(pool, log, metrics),
			unitOfWork: postgres.NewPostgresUOW(pool, log, metrics),
			probe:      pool.Ping,
			close:      pool.Close,
		}, nil
	}

	return nil, fmt.Errorf("unknown database driver %q", cfg.Driver)
}
