package cache

import (
	"context"

	model "community-feed-service/internal/domain/models"
)

type CoordinateCache interface {
	GetCoordinates(ctx context.Context, address string) (*model.Coordinates, error)
	SetCoordinates(ctx context.Context, address string, coordinates *model.Coordinates) error
}
