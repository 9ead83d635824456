package content_service_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	content_service "community-feed-service/internal/application/service/content"
	"community-feed-service/internal/domain/custom_errors"
	model "community-feed-service/internal/domain/models"
	ports "community-feed-service/internal/domain/ports/output"
	comment_repository "community-feed-service/internal/domain/ports/output/comment"
	like_repository "community-feed-service/internal/domain/ports/output/like"
	"community-feed-service/internal/infrastructure/logger"
	"community-feed-service/internal/infrastructure/outbound/metrics/prometheus"
	"community-feed-service/internal/infrastructure/outbound/repository/memory"
)

var errBrokenComments = errors.New("comments unavailable")

// failingComments breaks ListByItem for one item id.
type failingComments struct {
	comment_repository.Repository
	failFor int64
}

func (f *failingComments) ListByItem(ctx context.Context, kind model.ContentKind, itemID int64) ([]*model.Comment, error) {
	if itemID == f.failFor {
		return nil, errBrokenComments
	}
	return f.Repository.ListByItem(ctx, kind, itemID)
}

// slowLikes holds the transaction open for a moment after each insert.
type slowLikes struct {
	like_repository.Repository
	inserted chan struct{}
	once     *sync.Once
}

func (s *slowLikes) Insert(ctx context.Context, kind model.ContentKind, userID, itemID int64) error {
	if err := s.Repository.Insert(ctx, kind, userID, itemID); err != nil {
		return err
	}
	s.once.Do(func() { close(s.inserted) })
	time.Sleep(50 * time.Millisecond)
	return nil
}

type wrappedTx struct {
	ports.Transaction
	comments comment_repository.Repository
	likes    like_repository.Repository
}

func (w *wrappedTx) CommentRepository() comment_repository.Repository {
	if w.comments != nil {
		return w.comments
	}
	return w.Transaction.CommentRepository()
}

func (w *wrappedTx) LikeRepository() like_repository.Repository {
	if w.likes != nil {
		return w.likes
	}
	return w.Transaction.LikeRepository()
}

type wrappedUOW struct {
	ports.UnitOfWork
	wrap func(tx ports.Transaction) ports.Transaction
}

func (w *wrappedUOW) Begin(ctx context.Context) (ports.Transaction, error) {
	tx, err := w.UnitOfWork.Begin(ctx)
	if err != nil {
		return nil, err
	}
	return w.wrap(tx), nil
}

type fixture struct {
	service *content_service.ContentService
	store   *memory.Store
	content *memory.ContentRepository
	owner   model.User
	fan     model.User
}

func setup(t *testing.T, wrapTx func(ports.Transaction) ports.Transaction) *fixture {
	t.Helper()
	log := logger.New("test")
	store := memory.NewStore()
	content := memory.NewContentRepository(store, log)
	uow := memory.NewUnitOfWork(store, log)
	if wrapTx != nil {
		uow = &wrappedUOW{UnitOfWork: uow, wrap: wrapTx}
	}
	service := content_service.NewContentService(
		content,
		memory.NewCommentRepository(store, log),
		memory.NewLikeRepository(store, log),
		memory.NewUserRepository(store, log),
		uow,
		log,
		prometheus.NewPrometheusMetricsProvider(),
		4,
	)
	return &fixture{
		service: service,
		store:   store,
		content: content,
		owner:   store.AddUser(model.User{Username: "owner"}),
		fan:     store.AddUser(model.User{Username: "fan"}),
	}
}

func (f *fixture) create(t *testing.T, kind model.ContentKind) *model.ContentItem {
	t.Helper()
	location := "Austin, TX"
	item, err := f.service.CreateItem(context.Background(), &model.CreateContentDTO{
		Kind:     kind,
		UserID:   f.owner.ID,
		Body:     "body",
		Location: &location,
	})
	require.NoError(t, err)
	return item
}

func TestContentService_CreateItem(t *testing.T) {
	f := setup(t, nil)
	location := "Austin, TX"
	blank := "  "

	tests := []struct {
		name    string
		dto     *model.CreateContentDTO
		wantErr error
	}{
		{name: "post", dto: &model.CreateContentDTO{Kind: model.KindPost, UserID: f.owner.ID, Body: "hi"}},
		{name: "event with location", dto: &model.CreateContentDTO{Kind: model.KindEvent, UserID: f.owner.ID, Body: "hi", Location: &location}},
		{name: "empty body", dto: &model.CreateContentDTO{Kind: model.KindPost, UserID: f.owner.ID, Body: "   "}, wantErr: custom_errors.ErrEmptyBody},
		{name: "urgent post without location", dto: &model.CreateContentDTO{Kind: model.KindUrgentPost, UserID: f.owner.ID, Body: "hi"}, wantErr: custom_errors.ErrLocationRequired},
		{name: "blank location", dto: &model.CreateContentDTO{Kind: model.KindEvent, UserID: f.owner.ID, Body: "hi", Location: &blank}, wantErr: custom_errors.ErrLocationRequired},
		{name: "unknown user", dto: &model.CreateContentDTO{Kind: model.KindPost, UserID: 404, Body: "hi"}, wantErr: custom_errors.ErrUserNotFound},
		{name: "unknown kind", dto: &model.CreateContentDTO{Kind: "reel", UserID: f.owner.ID, Body: "hi"}, wantErr: custom_errors.ErrInvalidContentKind},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := f.service.CreateItem(context.Background(), tt.dto)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)
				return
			}
			require.NoError(t, err)
			assert.NotZero(t, got.ID)
			assert.Equal(t, tt.dto.Kind, got.Kind)
		})
	}
}

func TestContentService_DeleteItemOwnerOnly(t *testing.T) {
	f := setup(t, nil)
	ctx := context.Background()
	item := f.create(t, model.KindPost)

	err := f.service.DeleteItem(ctx, model.KindPost, f.fan.ID, item.ID)
	assert.ErrorIs(t, err, custom_errors.ErrContentNotFound)

	require.NoError(t, f.service.DeleteItem(ctx, model.KindPost, f.owner.ID, item.ID))

	_, err = f.service.GetItem(ctx, model.KindPost, item.ID)
	assert.ErrorIs(t, err, custom_errors.ErrContentNotFound)
}

func TestContentService_LikeAndUnlike(t *testing.T) {
	f := setup(t, nil)
	ctx := context.Background()
	post := f.create(t, model.KindPost)

	liked, err := f.service.Like(ctx, model.KindPost, f.fan.ID, post.ID)
	require.NoError(t, err)
	assert.Equal(t, "fan has liked a post", liked.Message)
	assert.Equal(t, 1, liked.Item.NumLikes)

	_, err = f.service.Like(ctx, model.KindPost, f.fan.ID, post.ID)
	assert.ErrorIs(t, err, custom_errors.ErrAlreadyLiked)

	stored, err := f.content.GetByID(ctx, model.KindPost, post.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, stored.NumLikes, "a rejected duplicate must not change the counter")

	unliked, err := f.service.Unlike(ctx, model.KindPost, f.fan.ID, post.ID)
	require.NoError(t, err)
	assert.Equal(t, "Post unliked", unliked.Message)
	assert.Equal(t, 0, unliked.Item.NumLikes)

	unliked, err = f.service.Unlike(ctx, model.KindPost, f.fan.ID, post.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, unliked.Item.NumLikes, "counter never goes below zero")
}

func TestContentService_LikeCorrectsDriftFirst(t *testing.T) {
	f := setup(t, nil)
	ctx := context.Background()
	event := f.create(t, model.KindEvent)
	require.NoError(t, f.content.SetCount(ctx, model.KindEvent, event.ID, model.CounterLikes, 10))

	liked, err := f.service.Like(ctx, model.KindEvent, f.fan.ID, event.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, liked.Item.NumLikes)
}

func TestContentService_LikeErrors(t *testing.T) {
	f := setup(t, nil)
	ctx := context.Background()
	urgent := f.create(t, model.KindUrgentPost)
	post := f.create(t, model.KindPost)

	_, err := f.service.Like(ctx, model.KindUrgentPost, f.fan.ID, urgent.ID)
	assert.ErrorIs(t, err, custom_errors.ErrLikesUnsupported)

	_, err = f.service.Unlike(ctx, model.KindUrgentPost, f.fan.ID, urgent.ID)
	assert.ErrorIs(t, err, custom_errors.ErrLikesUnsupported)

	_, err = f.service.Like(ctx, model.KindPost, 999, post.ID)
	assert.ErrorIs(t, err, custom_errors.ErrUserNotFound)

	_, err = f.service.Like(ctx, model.KindPost, f.fan.ID, 999)
	assert.ErrorIs(t, err, custom_errors.ErrContentNotFound)
}

func TestContentService_ConcurrentLikes(t *testing.T) {
	f := setup(t, nil)
	ctx := context.Background()
	post := f.create(t, model.KindPost)

	const likers = 20
	users := make([]model.User, likers)
	for i := range users {
		users[i] = f.store.AddUser(model.User{Username: fmt.Sprintf("user-%d", i)})
	}

	var wg sync.WaitGroup
	for _, user := range users {
		wg.Add(1)
		go func(userID int64) {
			defer wg.Done()
			_, err := f.service.Like(ctx, model.KindPost, userID, post.ID)
			assert.NoError(t, err)
		}(user.ID)
	}
	wg.Wait()

	full, err := f.service.GetFullItem(ctx, model.KindPost, post.ID)
	require.NoError(t, err)
	assert.Equal(t, likers, full.Item.NumLikes)

	stored, err := f.content.GetByID(ctx, model.KindPost, post.ID)
	require.NoError(t, err)
	assert.Equal(t, likers, stored.NumLikes)
}

func TestContentService_AddComment(t *testing.T) {
	f := setup(t, nil)
	ctx := context.Background()
	urgent := f.create(t, model.KindUrgentPost)

	_, err := f.service.AddComment(ctx, model.KindUrgentPost, f.fan.ID, urgent.ID, "  ")
	assert.ErrorIs(t, err, custom_errors.ErrEmptyComment)

	_, err = f.service.AddComment(ctx, model.KindUrgentPost, 999, urgent.ID, "hi")
	assert.ErrorIs(t, err, custom_errors.ErrUserNotFound)

	_, err = f.service.AddComment(ctx, model.KindUrgentPost, f.fan.ID, 999, "hi")
	assert.ErrorIs(t, err, custom_errors.ErrContentNotFound)

	first, err := f.service.AddComment(ctx, model.KindUrgentPost, f.fan.ID, urgent.ID, "first")
	require.NoError(t, err)
	assert.Equal(t, "Comment added", first.Message)
	assert.Equal(t, 1, first.Item.NumComments)
	assert.Equal(t, "first", first.Comment.Text)

	second, err := f.service.AddComment(ctx, model.KindUrgentPost, f.owner.ID, urgent.ID, "second")
	require.NoError(t, err)
	assert.Equal(t, 2, second.Item.NumComments)

	comments, err := f.service.GetComments(ctx, model.KindUrgentPost, urgent.ID)
	require.NoError(t, err)
	require.Len(t, comments, 2)
	assert.Equal(t, "first", comments[0].Text)
	assert.Equal(t, "second", comments[1].Text)
}

func TestContentService_GetFullItem(t *testing.T) {
	f := setup(t, nil)
	ctx := context.Background()
	post := f.create(t, model.KindPost)
	_, err := f.service.AddComment(ctx, model.KindPost, f.fan.ID, post.ID, "nice")
	require.NoError(t, err)
	require.NoError(t, f.content.SetCount(ctx, model.KindPost, post.ID, model.CounterComments, 5))

	full, err := f.service.GetFullItem(ctx, model.KindPost, post.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, full.Item.NumComments)
	assert.Len(t, full.Comments, 1)

	stored, err := f.content.GetByID(ctx, model.KindPost, post.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, stored.NumComments, "drift is written back")

	_, err = f.service.GetFullItem(ctx, model.KindPost, 999)
	assert.ErrorIs(t, err, custom_errors.ErrContentNotFound)
}

func TestContentService_GetFullItemDuringLike(t *testing.T) {
	inserted := make(chan struct{})
	var once sync.Once
	f := setup(t, func(tx ports.Transaction) ports.Transaction {
		return &wrappedTx{
			Transaction: tx,
			likes:       &slowLikes{Repository: tx.LikeRepository(), inserted: inserted, once: &once},
		}
	})
	ctx := context.Background()
	post := f.create(t, model.KindPost)

	likeDone := make(chan error, 1)
	go func() {
		_, err := f.service.Like(ctx, model.KindPost, f.fan.ID, post.ID)
		likeDone <- err
	}()

	<-inserted
	full, err := f.service.GetFullItem(ctx, model.KindPost, post.ID)
	require.NoError(t, err)
	require.NoError(t, <-likeDone)

	assert.Equal(t, 1, full.Item.NumLikes, "read waits for the like to commit")

	stored, err := f.content.GetByID(ctx, model.KindPost, post.ID)
	require.NoError(t, err)
	actual, err := memory.NewLikeRepository(f.store, logger.New("test")).CountByItem(ctx, model.KindPost, post.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, actual)
	assert.Equal(t, actual, stored.NumLikes)
}

func TestContentService_GetAllFullItemsForUser(t *testing.T) {
	ctx := context.Background()

	t.Run("order follows listing", func(t *testing.T) {
		f := setup(t, nil)
		var created []*model.ContentItem
		for i := 0; i < 10; i++ {
			created = append(created, f.create(t, model.KindEvent))
		}

		batch, err := f.service.GetAllFullItemsForUser(ctx, model.KindEvent, f.owner.ID)
		require.NoError(t, err)
		require.Len(t, batch.Items, len(created))
		assert.Empty(t, batch.Failures)
		for i, full := range batch.Items {
			assert.Equal(t, created[len(created)-1-i].ID, full.Item.ID)
		}
	})

	t.Run("failures are isolated", func(t *testing.T) {
		var failFor int64
		f := setup(t, func(tx ports.Transaction) ports.Transaction {
			return &wrappedTx{
				Transaction: tx,
				comments:    &failingComments{Repository: tx.CommentRepository(), failFor: failFor},
			}
		})
		first := f.create(t, model.KindPost)
		second := f.create(t, model.KindPost)
		third := f.create(t, model.KindPost)
		failFor = second.ID

		batch, err := f.service.GetAllFullItemsForUser(ctx, model.KindPost, f.owner.ID)
		require.NoError(t, err)
		require.Len(t, batch.Items, 2)
		assert.Equal(t, third.ID, batch.Items[0].Item.ID)
		assert.Equal(t, first.ID, batch.Items[1].Item.ID)
		require.Len(t, batch.Failures, 1)
		assert.Equal(t, second.ID, batch.Failures[0].ItemID)
		assert.Equal(t, f.owner.ID, batch.Failures[0].OwnerID)
		assert.Equal(t, model.KindPost, batch.Failures[0].Kind)
		assert.Contains(t, batch.Failures[0].Reason, errBrokenComments.Error())
	})

	t.Run("unknown user", func(t *testing.T) {
		f := setup(t, nil)
		_, err := f.service.GetAllFullItemsForUser(ctx, model.KindPost, 999)
		assert.ErrorIs(t, err, custom_errors.ErrUserNotFound)
	})

	t.Run("no items", func(t *testing.T) {
		f := setup(t, nil)
		batch, err := f.service.GetAllFullItemsForUser(ctx, model.KindPost, f.fan.ID)
		require.NoError(t, err)
		assert.Empty(t, batch.Items)
		assert.NotNil(t, batch.Items)
	})
}

func TestContentService_GetLikedItems(t *testing.T) {
	f := setup(t, nil)
	ctx := context.Background()
	post := f.create(t, model.KindPost)
	_, err := f.service.Like(ctx, model.KindPost, f.fan.ID, post.ID)
	require.NoError(t, err)

	batch, err := f.service.GetLikedItems(ctx, model.KindPost, f.fan.ID)
	require.NoError(t, err)
	require.Len(t, batch.Items, 1)
	assert.Equal(t, post.ID, batch.Items[0].Item.ID)
	assert.Equal(t, 1, batch.Items[0].Item.NumLikes)

	_, err = f.service.GetLikedItems(ctx, model.KindUrgentPost, f.fan.ID)
	assert.ErrorIs(t, err, custom_errors.ErrLikesUnsupported)
}
