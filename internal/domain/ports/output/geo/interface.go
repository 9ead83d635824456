package geo

import (
	"context"

	model "community-feed-service/internal/domain/models"
)

// CoordinateResolver returns custom_errors.ErrAddressUnresolvable when the address has no match.
type CoordinateResolver interface {
	Resolve(ctx context.Context, address string) (*model.Coordinates, error)
}

type DistanceCalculator interface {
	Distance(ctx context.Context, origin, destination model.Coordinates) (*model.DistanceResult, error)
}
