package distance_service

import (
	"context"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"community-feed-service/internal/domain/custom_errors"
	model "community-feed-service/internal/domain/models"
	ports "community-feed-service/internal/domain/ports/output"
	content_repository "community-feed-service/internal/domain/ports/output/content"
	"community-feed-service/internal/domain/ports/output/geo"
	user_repository "community-feed-service/internal/domain/ports/output/user"
)

type DistanceService struct {
	userRepo    user_repository.Repository
	contentRepo content_repository.Repository
	resolver    geo.CoordinateResolver
	calculator  geo.DistanceCalculator
	log         ports.Logger
}

func NewDistanceService(
	userRepo user_repository.Repository,
	contentRepo content_repository.Repository,
	resolver geo.CoordinateResolver,
	calculator geo.DistanceCalculator,
	log ports.Logger,
) *DistanceService {
	return &DistanceService{
		userRepo:    userRepo,
		contentRepo: contentRepo,
		resolver:    resolver,
		calculator:  calculator,
		log:         log,
	}
}

func (s *DistanceService) GetDistanceBetweenUsers(ctx context.Context, userID, otherUserID int64) (*model.Proximity, error) {
	origin, err := s.userAddress(ctx, userID)
	if err != nil {
		return nil, err
	}
	destination, err := s.userAddress(ctx, otherUserID)
	if err != nil {
		return nil, err
	}
	return s.between(ctx, origin, destination)
}

func (s *DistanceService) GetEventDistance(ctx context.Context, userID, eventID int64) (*model.Proximity, error) {
	return s.toItem(ctx, userID, model.KindEvent, eventID)
}

func (s *DistanceService) GetUrgentPostDistance(ctx context.Context, userID, urgentPostID int64) (*model.Proximity, error) {
	return s.toItem(ctx, userID, model.KindUrgentPost, urgentPostID)
}

func (s *DistanceService) ValidateAddress(ctx context.Context, address string) error {
	if strings.TrimSpace(address) == "" {
		return custom_errors.ErrEmptyAddress
	}
	_, err := s.resolver.Resolve(ctx, address)
	if err != nil {
		s.log.Debug("Address failed validation", slog.String("address", address), slog.String("error", err.Error()))
	}
	return err
}

func (s *DistanceService) toItem(ctx context.Context, userID int64, kind model.ContentKind, itemID int64) (*model.Proximity, error) {
	origin, err := s.userAddress(ctx, userID)
	if err != nil {
		return nil, err
	}

	item, err := s.contentRepo.GetByID(ctx, kind, itemID)
	if err != nil {
		return nil, err
	}
	if item.Location == nil || strings.TrimSpace(*item.Location) == "" {
		return nil, custom_errors.ErrAddressUnresolvable
	}
	return s.between(ctx, origin, *item.Location)
}

func (s *DistanceService) userAddress(ctx context.Context, userID int64) (string, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(user.Address) == "" {
		s.log.Debug("User has no address on file", slog.Int64("user_id", userID))
		return "", custom_errors.ErrAddressUnresolvable
	}
	return user.Address, nil
}

func (s *DistanceService) between(ctx context.Context, originAddress, destinationAddress string) (*model.Proximity, error) {
	var origin, destination *model.Coordinates

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		origin, err = s.resolver.Resolve(gctx, originAddress)
		return err
	})
	g.Go(func() error {
		var err error
		destination, err = s.resolver.Resolve(gctx, destinationAddress)
		return err
	})
	if err := g.Wait(); err != nil {
		s.log.Debug("Failed to resolve coordinates", slog.String("error", err.Error()))
		return nil, err
	}

	result, err := s.calculator.Distance(ctx, *origin, *destination)
	if err != nil {
		s.log.Debug("Failed to calculate distance", slog.String("error", err.Error()))
		return nil, err
	}

	proximity, err := NewProximity(result.Text)
	if err != nil {
		s.log.Warn("Distance service returned unreadable text", slog.String("text", result.Text), slog.String("error", err.Error()))
		return nil, err
	}
	return proximity, nil
}
