package ports

import (
	"context"

	comment_repository "community-feed-service/internal/domain/ports/output/comment"
	content_repository "community-feed-service/internal/domain/ports/output/content"
	like_repository "community-feed-service/internal/domain/ports/output/like"
)

type UnitOfWork interface {
	Begin(ctx context.Context) (Transaction, error)
}

// Transaction hands out repositories bound to one database transaction.
type Transaction interface {
	ContentRepository() content_repository.Repository
	CommentRepository() comment_repository.Repository
	LikeRepository() like_repository.Repository
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}
