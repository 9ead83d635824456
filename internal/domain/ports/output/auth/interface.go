package auth

import (
	"context"

	model "community-feed-service/internal/domain/models"
)

type CredentialVerifier interface {
	Verify(ctx context.Context, token string) (*model.Principal, error)
}
