package social_service

import (
	"context"
	"log/slog"
	"strings"

	"community-feed-service/internal/domain/custom_errors"
	model "community-feed-service/internal/domain/models"
	distance_service "community-feed-service/internal/domain/ports/input/distance"
	feed_service "community-feed-service/internal/domain/ports/input/feed"
	ports "community-feed-service/internal/domain/ports/output"
	follow_repository "community-feed-service/internal/domain/ports/output/follow"
	message_repository "community-feed-service/internal/domain/ports/output/message"
	user_repository "community-feed-service/internal/domain/ports/output/user"
)

type SocialService struct {
	userRepo    user_repository.Repository
	followRepo  follow_repository.Repository
	messageRepo message_repository.Repository
	feed        feed_service.Service
	distance    distance_service.Service
	log         ports.Logger
}

func NewSocialService(
	userRepo user_repository.Repository,
	followRepo follow_repository.Repository,
	messageRepo message_repository.Repository,
	feed feed_service.Service,
	distance distance_service.Service,
	log ports.Logger,
) *SocialService {
	return &SocialService{
		userRepo:    userRepo,
		followRepo:  followRepo,
		messageRepo: messageRepo,
		feed:        feed,
		distance:    distance,
		log:         log,
	}
}

func (s *SocialService) GetUser(ctx context.Context, id int64) (*model.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

// UpdateProfile applies the non-nil fields of update. A new address must
// resolve to coordinates before it is stored.
func (s *SocialService) UpdateProfile(ctx context.Context, id int64, update *model.UpdateProfileDTO) (*model.User, error) {
	if _, err := s.userRepo.GetByID(ctx, id); err != nil {
		return nil, err
	}

	if update.Address != nil {
		address := strings.TrimSpace(*update.Address)
		if address == "" {
			return nil, custom_errors.ErrEmptyAddress
		}
		if err := s.distance.ValidateAddress(ctx, address); err != nil {
			s.log.Debug("Rejected profile address", slog.Int64("user_id", id), slog.String("error", err.Error()))
			return nil, err
		}
		update.Address = &address
	}

	user, err := s.userRepo.UpdateProfile(ctx, id, update)
	if err != nil {
		s.log.Error("Failed to update profile", slog.Int64("user_id", id), slog.String("error", err.Error()))
		return nil, err
	}

	s.log.Info("Profile updated", slog.Int64("user_id", id))
	return user, nil
}

// ViewProfile returns another user's profile with everything they authored and
// how far they are from the viewer. A distance failure is reported on the view
// instead of failing the request.
func (s *SocialService) ViewProfile(ctx context.Context, viewerID, userID int64) (*model.ProfileView, error) {
	if _, err := s.userRepo.GetByID(ctx, viewerID); err != nil {
		return nil, err
	}
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	content, err := s.feed.GetUserContent(ctx, userID)
	if err != nil {
		return nil, err
	}

	view := &model.ProfileView{User: user, Content: content}
	if viewerID == userID {
		return view, nil
	}

	proximity, err := s.distance.GetDistanceBetweenUsers(ctx, viewerID, userID)
	if err != nil {
		s.log.Warn("Failed to annotate profile with distance",
			slog.Int64("viewer_id", viewerID),
			slog.Int64("user_id", userID),
			slog.String("error", err.Error()))
		view.ProximityError = err.Error()
		return view, nil
	}
	view.Proximity = proximity
	return view, nil
}

func (s *SocialService) Follow(ctx context.Context, followerID, followingID int64) error {
	if followerID == followingID {
		return custom_errors.ErrSelfFollow
	}
	if err := s.requireUsers(ctx, followerID, followingID); err != nil {
		return err
	}

	if err := s.followRepo.Create(ctx, followerID, followingID); err != nil {
		s.log.Debug("Follow failed", slog.Int64("follower_id", followerID), slog.Int64("following_id", followingID), slog.String("error", err.Error()))
		return err
	}

	s.log.Info("User followed", slog.Int64("follower_id", followerID), slog.Int64("following_id", followingID))
	return nil
}

func (s *SocialService) Unfollow(ctx context.Context, followerID, followingID int64) error {
	if err := s.followRepo.Delete(ctx, followerID, followingID); err != nil {
		s.log.Debug("Unfollow failed", slog.Int64("follower_id", followerID), slog.Int64("following_id", followingID), slog.String("error", err.Error()))
		return err
	}

	s.log.Info("User unfollowed", slog.Int64("follower_id", followerID), slog.Int64("following_id", followingID))
	return nil
}

func (s *SocialService) ListFollowers(ctx context.Context, userID int64) ([]*model.UserSummary, error) {
	if err := s.requireUsers(ctx, userID); err != nil {
		return nil, err
	}
	ids, err := s.followRepo.ListFollowerIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.userRepo.ListSummaries(ctx, ids)
}

func (s *SocialService) ListFollowing(ctx context.Context, userID int64) ([]*model.UserSummary, error) {
	if err := s.requireUsers(ctx, userID); err != nil {
		return nil, err
	}
	ids, err := s.followRepo.ListFollowingIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.userRepo.ListSummaries(ctx, ids)
}

func (s *SocialService) SendMessage(ctx context.Context, senderID, recipientID int64, body string) (*model.Message, error) {
	if strings.TrimSpace(body) == "" {
		return nil, custom_errors.ErrEmptyMessage
	}
	if err := s.requireUsers(ctx, senderID, recipientID); err != nil {
		return nil, err
	}

	message, err := s.messageRepo.Create(ctx, &model.Message{SenderID: senderID, RecipientID: recipientID, Body: body})
	if err != nil {
		s.log.Error("Failed to send message", slog.Int64("sender_id", senderID), slog.Int64("recipient_id", recipientID), slog.String("error", err.Error()))
		return nil, err
	}
	return message, nil
}

func (s *SocialService) ListReceivedMessages(ctx context.Context, recipientID int64) ([]*model.Message, error) {
	if err := s.requireUsers(ctx, recipientID); err != nil {
		return nil, err
	}
	return s.messageRepo.ListByRecipient(ctx, recipientID)
}

// ListExchange returns what userID sent to otherUserID and what came back, as
// two separately ordered lists.
func (s *SocialService) ListExchange(ctx context.Context, userID, otherUserID int64) (*model.MessageExchange, error) {
	if err := s.requireUsers(ctx, userID, otherUserID); err != nil {
		return nil, err
	}

	sent, err := s.messageRepo.ListFromTo(ctx, userID, otherUserID)
	if err != nil {
		return nil, err
	}
	received, err := s.messageRepo.ListFromTo(ctx, otherUserID, userID)
	if err != nil {
		return nil, err
	}
	return &model.MessageExchange{Sent: sent, Received: received}, nil
}

func (s *SocialService) requireUsers(ctx context.Context, ids ...int64) error {
	for _, id := range ids {
		if _, err := s.userRepo.GetByID(ctx, id); err != nil {
			return err
		}
	}
	return nil
}
