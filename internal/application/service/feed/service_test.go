package feed_service_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	content_service "community-feed-service/internal/application/service/content"
	feed_service "community-feed-service/internal/application/service/feed"
	"community-feed-service/internal/domain/custom_errors"
	model "community-feed-service/internal/domain/models"
	content_port "community-feed-service/internal/domain/ports/input/content"
	content_repository "community-feed-service/internal/domain/ports/output/content"
	"community-feed-service/internal/infrastructure/logger"
	"community-feed-service/internal/infrastructure/outbound/metrics/prometheus"
	"community-feed-service/internal/infrastructure/outbound/repository/memory"
)

var errOwnerBroken = errors.New("owner content unavailable")

var errListingBroken = errors.New("listing unavailable")

// brokenOwner fails per-user aggregation for a single owner, for every kind
// unless kind is set.
type brokenOwner struct {
	content_port.Service
	ownerID int64
	kind    model.ContentKind
}

func (b *brokenOwner) GetAllFullItemsForUser(ctx context.Context, kind model.ContentKind, userID int64) (*model.FullItemBatch, error) {
	if userID == b.ownerID && (b.kind == "" || b.kind == kind) {
		return nil, errOwnerBroken
	}
	return b.Service.GetAllFullItemsForUser(ctx, kind, userID)
}

// brokenListing fails ListIDs for the given kinds.
type brokenListing struct {
	content_repository.Repository
	kinds map[model.ContentKind]bool
}

func (b *brokenListing) ListIDs(ctx context.Context, kind model.ContentKind, page model.Page) ([]int64, error) {
	if b.kinds[kind] {
		return nil, errListingBroken
	}
	return b.Repository.ListIDs(ctx, kind, page)
}

type fixture struct {
	store   *memory.Store
	content *content_service.ContentService
	follows *memory.FollowRepository
	feed    *feed_service.FeedService
	broken  *brokenOwner
	listing *brokenListing
}

func setup(t *testing.T) *fixture {
	t.Helper()
	log := logger.New("test")
	metrics := prometheus.NewPrometheusMetricsProvider()
	store := memory.NewStore()
	contentRepo := memory.NewContentRepository(store, log)
	users := memory.NewUserRepository(store, log)
	follows := memory.NewFollowRepository(store, log)

	content := content_service.NewContentService(
		contentRepo,
		memory.NewCommentRepository(store, log),
		memory.NewLikeRepository(store, log),
		users,
		memory.NewUnitOfWork(store, log),
		log,
		metrics,
		4,
	)
	broken := &brokenOwner{Service: content}
	listing := &brokenListing{Repository: contentRepo, kinds: map[model.ContentKind]bool{}}

	return &fixture{
		store:   store,
		content: content,
		follows: follows,
		broken:  broken,
		listing: listing,
		feed:    feed_service.NewFeedService(broken, listing, follows, users, log, 2, 4),
	}
}

func (f *fixture) user(name string) model.User {
	return f.store.AddUser(model.User{Username: name})
}

func (f *fixture) create(t *testing.T, kind model.ContentKind, ownerID int64) *model.ContentItem {
	t.Helper()
	location := "Denver, CO"
	item, err := f.content.CreateItem(context.Background(), &model.CreateContentDTO{
		Kind:     kind,
		UserID:   ownerID,
		Body:     fmt.Sprintf("%s by %d", kind, ownerID),
		Location: &location,
	})
	require.NoError(t, err)
	return item
}

func ids(items []*model.FullItem) []int64 {
	out := make([]int64, 0, len(items))
	for _, item := range items {
		out = append(out, item.Item.ID)
	}
	return out
}

func TestFeedService_GetAllFeedItems(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	alice := f.user("alice")
	bob := f.user("bob")

	p1 := f.create(t, model.KindPost, alice.ID)
	p2 := f.create(t, model.KindPost, bob.ID)
	p3 := f.create(t, model.KindPost, alice.ID)
	e1 := f.create(t, model.KindEvent, bob.ID)
	u1 := f.create(t, model.KindUrgentPost, alice.ID)

	feed, err := f.feed.GetAllFeedItems(ctx, model.Page{})
	require.NoError(t, err)
	assert.Equal(t, []int64{p3.ID, p2.ID}, ids(feed.Posts), "default limit applies")
	assert.Equal(t, []int64{e1.ID}, ids(feed.Events))
	assert.Equal(t, []int64{u1.ID}, ids(feed.UrgentPosts))
	assert.Empty(t, feed.Failures)

	feed, err = f.feed.GetAllFeedItems(ctx, model.Page{Limit: 2, Offset: 2})
	require.NoError(t, err)
	assert.Equal(t, []int64{p1.ID}, ids(feed.Posts))
	assert.Empty(t, feed.Events)
}

func TestFeedService_GetAllFeedItems_IsolatesListingFailures(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	alice := f.user("alice")
	post := f.create(t, model.KindPost, alice.ID)
	f.create(t, model.KindEvent, alice.ID)

	f.listing.kinds[model.KindEvent] = true
	feed, err := f.feed.GetAllFeedItems(ctx, model.Page{})
	require.NoError(t, err)
	assert.Equal(t, []int64{post.ID}, ids(feed.Posts))
	assert.Empty(t, feed.Events)
	require.Len(t, feed.Failures, 1)
	assert.Equal(t, model.KindEvent, feed.Failures[0].Kind)
	assert.Equal(t, errListingBroken.Error(), feed.Failures[0].Reason)

	for _, kind := range model.AllKinds {
		f.listing.kinds[kind] = true
	}
	_, err = f.feed.GetAllFeedItems(ctx, model.Page{})
	assert.ErrorIs(t, err, errListingBroken)
}

func TestFeedService_GetFollowingFeed(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	viewer := f.user("viewer")
	alice := f.user("alice")
	bob := f.user("bob")
	stranger := f.user("stranger")

	require.NoError(t, f.follows.Create(ctx, viewer.ID, alice.ID))
	require.NoError(t, f.follows.Create(ctx, viewer.ID, bob.ID))

	a1 := f.create(t, model.KindPost, alice.ID)
	b1 := f.create(t, model.KindPost, bob.ID)
	a2 := f.create(t, model.KindPost, alice.ID)
	f.create(t, model.KindPost, stranger.ID)
	be := f.create(t, model.KindEvent, bob.ID)
	f.create(t, model.KindPost, viewer.ID)

	feed, err := f.feed.GetFollowingFeed(ctx, viewer.ID)
	require.NoError(t, err)
	assert.Equal(t, []int64{a2.ID, b1.ID, a1.ID}, ids(feed.Posts), "flattened across followees, newest first")
	assert.Equal(t, []int64{be.ID}, ids(feed.Events))
	assert.Empty(t, feed.UrgentPosts)
	assert.Empty(t, feed.Failures)
}

func TestFeedService_GetFollowingFeed_IsolatesFailures(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	viewer := f.user("viewer")
	good := f.user("good")
	bad := f.user("bad")

	require.NoError(t, f.follows.Create(ctx, viewer.ID, good.ID))
	require.NoError(t, f.follows.Create(ctx, viewer.ID, bad.ID))
	post := f.create(t, model.KindPost, good.ID)
	f.create(t, model.KindPost, bad.ID)
	f.broken.ownerID = bad.ID

	feed, err := f.feed.GetFollowingFeed(ctx, viewer.ID)
	require.NoError(t, err)
	assert.Equal(t, []int64{post.ID}, ids(feed.Posts))
	require.Len(t, feed.Failures, len(model.AllKinds))
	for _, failure := range feed.Failures {
		assert.Equal(t, bad.ID, failure.OwnerID)
		assert.Equal(t, errOwnerBroken.Error(), failure.Reason)
	}
}

func TestFeedService_GetFollowingFeed_NoFollowees(t *testing.T) {
	f := setup(t)
	loner := f.user("loner")

	feed, err := f.feed.GetFollowingFeed(context.Background(), loner.ID)
	require.NoError(t, err)
	assert.NotNil(t, feed.Posts)
	assert.Empty(t, feed.Posts)
	assert.Empty(t, feed.Events)
	assert.Empty(t, feed.UrgentPosts)

	_, err = f.feed.GetFollowingFeed(context.Background(), 999)
	assert.ErrorIs(t, err, custom_errors.ErrUserNotFound)
}

func TestFeedService_GetUserContent(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	alice := f.user("alice")
	post := f.create(t, model.KindPost, alice.ID)
	event := f.create(t, model.KindEvent, alice.ID)

	content, err := f.feed.GetUserContent(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, []int64{post.ID}, ids(content.Posts.Items))
	assert.Equal(t, []int64{event.ID}, ids(content.Events.Items))
	assert.Empty(t, content.UrgentPosts.Items)

	f.broken.ownerID = alice.ID
	f.broken.kind = model.KindEvent
	content, err = f.feed.GetUserContent(ctx, alice.ID)
	require.NoError(t, err, "one kind failing keeps the others")
	assert.Equal(t, []int64{post.ID}, ids(content.Posts.Items))
	assert.Empty(t, content.Events.Items)
	require.Len(t, content.Events.Failures, 1)
	assert.Equal(t, model.KindEvent, content.Events.Failures[0].Kind)
	assert.Equal(t, alice.ID, content.Events.Failures[0].OwnerID)

	f.broken.kind = ""
	_, err = f.feed.GetUserContent(ctx, alice.ID)
	assert.ErrorIs(t, err, errOwnerBroken)
}
