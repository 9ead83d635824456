package geo_client

import (
	"context"
	"errors"
	"log/slog"

	"community-feed-service/internal/domain/custom_errors"
	model "community-feed-service/internal/domain/models"
	ports "community-feed-service/internal/domain/ports/output"
	"community-feed-service/internal/domain/ports/output/cache"
	"community-feed-service/internal/domain/ports/output/geo"
)

// CachedResolver serves coordinates from cache and falls back to the wrapped
// resolver. Cache errors never fail a lookup.
type CachedResolver struct {
	resolver geo.CoordinateResolver
	cache    cache.CoordinateCache
	log      ports.Logger
}

func NewCachedResolver(resolver geo.CoordinateResolver, cache cache.CoordinateCache, log ports.Logger) *CachedResolver {
	return &CachedResolver{resolver: resolver, cache: cache, log: log}
}

func (r *CachedResolver) Resolve(ctx context.Context, address string) (*model.Coordinates, error) {
	coordinates, err := r.cache.GetCoordinates(ctx, address)
	if err == nil {
		return coordinates, nil
	}
	if !errors.Is(err, custom_errors.ErrCacheMiss) {
		r.log.Warn("Coordinate cache read failed, falling back to geocoder", slog.String("error", err.Error()))
	}

	coordinates, err = r.resolver.Resolve(ctx, address)
	if err != nil {
		return nil, err
	}

	if err := r.cache.SetCoordinates(ctx, address, coordinates); err != nil {
		r.log.Warn("Failed to cache coordinates", slog.String("error", err.Error()))
	}
	return coordinates, nil
}
