package social_service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	social_service "community-feed-service/internal/application/service/social"
	"community-feed-service/internal/domain/custom_errors"
	model "community-feed-service/internal/domain/models"
	"community-feed-service/internal/infrastructure/logger"
	"community-feed-service/internal/infrastructure/outbound/repository/memory"
)

type feedMock struct {
	mock.Mock
}

func (m *feedMock) GetAllFeedItems(ctx context.Context, page model.Page) (*model.Feed, error) {
	args := m.Called(ctx, page)
	feed, _ := args.Get(0).(*model.Feed)
	return feed, args.Error(1)
}

func (m *feedMock) GetFollowingFeed(ctx context.Context, userID int64) (*model.Feed, error) {
	args := m.Called(ctx, userID)
	feed, _ := args.Get(0).(*model.Feed)
	return feed, args.Error(1)
}

func (m *feedMock) GetUserContent(ctx context.Context, userID int64) (*model.UserContent, error) {
	args := m.Called(ctx, userID)
	content, _ := args.Get(0).(*model.UserContent)
	return content, args.Error(1)
}

type distanceMock struct {
	mock.Mock
}

func (m *distanceMock) GetDistanceBetweenUsers(ctx context.Context, userID, otherUserID int64) (*model.Proximity, error) {
	args := m.Called(ctx, userID, otherUserID)
	proximity, _ := args.Get(0).(*model.Proximity)
	return proximity, args.Error(1)
}

func (m *distanceMock) GetEventDistance(ctx context.Context, userID, eventID int64) (*model.Proximity, error) {
	args := m.Called(ctx, userID, eventID)
	proximity, _ := args.Get(0).(*model.Proximity)
	return proximity, args.Error(1)
}

func (m *distanceMock) GetUrgentPostDistance(ctx context.Context, userID, urgentPostID int64) (*model.Proximity, error) {
	args := m.Called(ctx, userID, urgentPostID)
	proximity, _ := args.Get(0).(*model.Proximity)
	return proximity, args.Error(1)
}

func (m *distanceMock) ValidateAddress(ctx context.Context, address string) error {
	return m.Called(ctx, address).Error(0)
}

type fixture struct {
	service  *social_service.SocialService
	feed     *feedMock
	distance *distanceMock
	alice    model.User
	bob      model.User
	carol    model.User
}

func setup(t *testing.T) *fixture {
	t.Helper()
	log := logger.New("test")
	store := memory.NewStore()
	f := &fixture{
		feed:     &feedMock{},
		distance: &distanceMock{},
		alice:    store.AddUser(model.User{Username: "alice", Address: "1 Main St"}),
		bob:      store.AddUser(model.User{Username: "bob", Address: "2 Elm St"}),
		carol:    store.AddUser(model.User{Username: "carol"}),
	}
	f.service = social_service.NewSocialService(
		memory.NewUserRepository(store, log),
		memory.NewFollowRepository(store, log),
		memory.NewMessageRepository(store, log),
		f.feed,
		f.distance,
		log,
	)
	t.Cleanup(func() {
		f.feed.AssertExpectations(t)
		f.distance.AssertExpectations(t)
	})
	return f
}

func TestSocialService_Follow(t *testing.T) {
	ctx := context.Background()
	f := setup(t)

	assert.ErrorIs(t, f.service.Follow(ctx, f.alice.ID, f.alice.ID), custom_errors.ErrSelfFollow)
	assert.ErrorIs(t, f.service.Follow(ctx, f.alice.ID, 999), custom_errors.ErrUserNotFound)
	assert.ErrorIs(t, f.service.Follow(ctx, 999, f.alice.ID), custom_errors.ErrUserNotFound)

	require.NoError(t, f.service.Follow(ctx, f.alice.ID, f.bob.ID))
	require.NoError(t, f.service.Follow(ctx, f.carol.ID, f.bob.ID))
	assert.ErrorIs(t, f.service.Follow(ctx, f.alice.ID, f.bob.ID), custom_errors.ErrAlreadyFollowing)

	followers, err := f.service.ListFollowers(ctx, f.bob.ID)
	require.NoError(t, err)
	require.Len(t, followers, 2)
	assert.Equal(t, "alice", followers[0].Username)
	assert.Equal(t, "carol", followers[1].Username)

	following, err := f.service.ListFollowing(ctx, f.alice.ID)
	require.NoError(t, err)
	require.Len(t, following, 1)
	assert.Equal(t, f.bob.ID, following[0].ID)

	require.NoError(t, f.service.Unfollow(ctx, f.alice.ID, f.bob.ID))
	assert.ErrorIs(t, f.service.Unfollow(ctx, f.alice.ID, f.bob.ID), custom_errors.ErrFollowNotFound)

	_, err = f.service.ListFollowers(ctx, 999)
	assert.ErrorIs(t, err, custom_errors.ErrUserNotFound)
}

func TestSocialService_ViewProfile(t *testing.T) {
	ctx := context.Background()
	content := &model.UserContent{
		Posts:       &model.FullItemBatch{Items: []*model.FullItem{}},
		Events:      &model.FullItemBatch{Items: []*model.FullItem{}},
		UrgentPosts: &model.FullItemBatch{Items: []*model.FullItem{}},
	}

	t.Run("annotated with distance", func(t *testing.T) {
		f := setup(t)
		f.feed.On("GetUserContent", mock.Anything, f.bob.ID).Return(content, nil)
		f.distance.On("GetDistanceBetweenUsers", mock.Anything, f.alice.ID, f.bob.ID).
			Return(&model.Proximity{Miles: 3, Display: "3 miles"}, nil)

		view, err := f.service.ViewProfile(ctx, f.alice.ID, f.bob.ID)
		require.NoError(t, err)
		assert.Equal(t, "bob", view.User.Username)
		assert.Same(t, content, view.Content)
		require.NotNil(t, view.Proximity)
		assert.Equal(t, "3 miles", view.Proximity.Display)
		assert.Empty(t, view.ProximityError)
	})

	t.Run("distance failure does not fail the view", func(t *testing.T) {
		f := setup(t)
		f.feed.On("GetUserContent", mock.Anything, f.carol.ID).Return(content, nil)
		f.distance.On("GetDistanceBetweenUsers", mock.Anything, f.alice.ID, f.carol.ID).
			Return(nil, custom_errors.ErrAddressUnresolvable)

		view, err := f.service.ViewProfile(ctx, f.alice.ID, f.carol.ID)
		require.NoError(t, err)
		assert.Nil(t, view.Proximity)
		assert.Equal(t, custom_errors.ErrAddressUnresolvable.Error(), view.ProximityError)
	})

	t.Run("own profile skips distance", func(t *testing.T) {
		f := setup(t)
		f.feed.On("GetUserContent", mock.Anything, f.alice.ID).Return(content, nil)

		view, err := f.service.ViewProfile(ctx, f.alice.ID, f.alice.ID)
		require.NoError(t, err)
		assert.Nil(t, view.Proximity)
		assert.Empty(t, view.ProximityError)
	})

	t.Run("unknown user", func(t *testing.T) {
		f := setup(t)
		_, err := f.service.ViewProfile(ctx, f.alice.ID, 999)
		assert.ErrorIs(t, err, custom_errors.ErrUserNotFound)
	})
}

func TestSocialService_UpdateProfile(t *testing.T) {
	ctx := context.Background()

	t.Run("valid address is stored trimmed", func(t *testing.T) {
		f := setup(t)
		address := "  5 Pine St  "
		bio := "gardener"
		f.distance.On("ValidateAddress", mock.Anything, "5 Pine St").Return(nil)

		user, err := f.service.UpdateProfile(ctx, f.alice.ID, &model.UpdateProfileDTO{Address: &address, Bio: &bio})
		require.NoError(t, err)
		assert.Equal(t, "5 Pine St", user.Address)
		assert.Equal(t, "gardener", *user.Bio)
	})

	t.Run("unresolvable address is rejected", func(t *testing.T) {
		f := setup(t)
		address := "nowhere"
		f.distance.On("ValidateAddress", mock.Anything, "nowhere").Return(custom_errors.ErrAddressUnresolvable)

		_, err := f.service.UpdateProfile(ctx, f.alice.ID, &model.UpdateProfileDTO{Address: &address})
		assert.ErrorIs(t, err, custom_errors.ErrAddressUnresolvable)

		user, err := f.service.GetUser(ctx, f.alice.ID)
		require.NoError(t, err)
		assert.Equal(t, "1 Main St", user.Address)
	})

	t.Run("blank address is a validation error", func(t *testing.T) {
		f := setup(t)
		address := "   "

		_, err := f.service.UpdateProfile(ctx, f.alice.ID, &model.UpdateProfileDTO{Address: &address})
		assert.ErrorIs(t, err, custom_errors.ErrEmptyAddress)
		assert.Equal(t, custom_errors.KindValidation, custom_errors.Kind(err))
		f.distance.AssertNotCalled(t, "ValidateAddress", mock.Anything, mock.Anything)
	})

	t.Run("bio only skips validation", func(t *testing.T) {
		f := setup(t)
		bio := "hello"
		user, err := f.service.UpdateProfile(ctx, f.bob.ID, &model.UpdateProfileDTO{Bio: &bio})
		require.NoError(t, err)
		assert.Equal(t, "2 Elm St", user.Address)
	})
}

func TestSocialService_Messages(t *testing.T) {
	ctx := context.Background()
	f := setup(t)

	_, err := f.service.SendMessage(ctx, f.alice.ID, f.bob.ID, "   ")
	assert.ErrorIs(t, err, custom_errors.ErrEmptyMessage)

	_, err = f.service.SendMessage(ctx, f.alice.ID, 999, "hi")
	assert.ErrorIs(t, err, custom_errors.ErrUserNotFound)

	_, err = f.service.SendMessage(ctx, f.alice.ID, f.bob.ID, "hi bob")
	require.NoError(t, err)
	_, err = f.service.SendMessage(ctx, f.bob.ID, f.alice.ID, "hi alice")
	require.NoError(t, err)
	_, err = f.service.SendMessage(ctx, f.carol.ID, f.bob.ID, "hey")
	require.NoError(t, err)

	inbox, err := f.service.ListReceivedMessages(ctx, f.bob.ID)
	require.NoError(t, err)
	assert.Len(t, inbox, 2)

	exchange, err := f.service.ListExchange(ctx, f.alice.ID, f.bob.ID)
	require.NoError(t, err)
	require.Len(t, exchange.Sent, 1)
	require.Len(t, exchange.Received, 1)
	assert.Equal(t, "hi bob", exchange.Sent[0].Body)
	assert.Equal(t, "hi alice", exchange.Received[0].Body)
}
