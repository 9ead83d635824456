package redis

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"community-feed-service/internal/domain/custom_errors"
	model "community-feed-service/internal/domain/models"
	ports "community-feed-service/internal/domain/ports/output"
)

const (
	coordinateCacheKeyPrefix  = "geo:coords:"
	defaultCoordinateCacheTTL = 24 * time.Hour
)

type CoordinateCache struct {
	client *Client
	log    ports.Logger
	ttl    time.Duration
}

func NewCoordinateCache(client *Client, log ports.Logger, ttl time.Duration) *CoordinateCache {
	if ttl <= 0 {
		ttl = defaultCoordinateCacheTTL
	}
	return &CoordinateCache{
		client: client,
		log:    log,
		ttl:    ttl,
	}
}

func (c *CoordinateCache) GetCoordinates(ctx context.Context, address string) (*model.Coordinates, error) {
	key := coordinateKey(address)

	var coordinates model.Coordinates
	if err := c.client.Get(ctx, key, &coordinates); err != nil {
		if errors.Is(err, custom_errors.ErrCacheMiss) {
			c.log.Debug("Coordinate cache miss", slog.String("address", address))
			return nil, custom_errors.ErrCacheMiss
		}
		return nil, fmt.Errorf("failed to get coordinates from cache: %w", err)
	}

	c.log.Debug("Coordinate cache hit", slog.String("address", address))
	return &coordinates, nil
}

func (c *CoordinateCache) SetCoordinates(ctx context.Context, address string, coordinates *model.Coordinates) error {
	if coordinates == nil {
		return fmt.Errorf("coordinates cannot be nil")
	}

	if err := c.client.Set(ctx, coordinateKey(address), coordinates, c.ttl); err != nil {
		return fmt.Errorf("failed to set coordinates cache: %w", err)
	}

	c.log.Debug("Coordinates cached successfully",
		slog.String("address", address),
		slog.Duration("ttl", c.ttl))
	return nil
}

// coordinateKey folds case and whitespace so trivially different spellings of
// one address share an entry.
func coordinateKey(address string) string {
	normalized := strings.ToLower(strings.Join(strings.Fields(address), " "))
	sum := sha1.Sum([]byte(normalized))
	return coordinateCacheKeyPrefix + hex.EncodeToString(sum[:])
}
