package feed_service

import (
	"context"
	"log/slog"
	"sort"

	"golang.org/x/sync/errgroup"

	model "community-feed-service/internal/domain/models"
	content_service "community-feed-service/internal/domain/ports/input/content"
	ports "community-feed-service/internal/domain/ports/output"
	content_repository "community-feed-service/internal/domain/ports/output/content"
	follow_repository "community-feed-service/internal/domain/ports/output/follow"
	user_repository "community-feed-service/internal/domain/ports/output/user"
)

const maxPageLimit = 200

type FeedService struct {
	content      content_service.Service
	contentRepo  content_repository.Repository
	followRepo   follow_repository.Repository
	userRepo     user_repository.Repository
	log          ports.Logger
	defaultLimit int
	fanoutLimit  int
}

func NewFeedService(
	content content_service.Service,
	contentRepo content_repository.Repository,
	followRepo follow_repository.Repository,
	userRepo user_repository.Repository,
	log ports.Logger,
	defaultLimit int,
	fanoutLimit int,
) *FeedService {
	if defaultLimit <= 0 || defaultLimit > maxPageLimit {
		defaultLimit = 50
	}
	if fanoutLimit <= 0 {
		fanoutLimit = 16
	}
	return &FeedService{
		content:      content,
		contentRepo:  contentRepo,
		followRepo:   followRepo,
		userRepo:     userRepo,
		log:          log,
		defaultLimit: defaultLimit,
		fanoutLimit:  fanoutLimit,
	}
}

func (s *FeedService) normalize(page model.Page) model.Page {
	if page.Limit <= 0 {
		page.Limit = s.defaultLimit
	}
	if page.Limit > maxPageLimit {
		page.Limit = maxPageLimit
	}
	if page.Offset < 0 {
		page.Offset = 0
	}
	return page
}

// GetAllFeedItems returns one page of every kind system-wide, newest first. A
// kind that cannot be listed is reported as a failure; the call only fails when
// no kind could be listed.
func (s *FeedService) GetAllFeedItems(ctx context.Context, page model.Page) (*model.Feed, error) {
	page = s.normalize(page)
	s.log.Debug("Building global feed", slog.Int("limit", page.Limit), slog.Int("offset", page.Offset))

	feed := model.NewFeed()
	var listErrs []error
	for _, kind := range model.AllKinds {
		ids, err := s.contentRepo.ListIDs(ctx, kind, page)
		if err != nil {
			s.log.Error("Failed to list content for feed", slog.String("kind", string(kind)), slog.String("error", err.Error()))
			listErrs = append(listErrs, err)
			feed.Failures = append(feed.Failures, &model.HydrationFailure{Kind: kind, Reason: err.Error()})
			continue
		}
		batch := s.content.HydrateItems(ctx, kind, ids)
		*feed.Items(kind) = batch.Items
		feed.Failures = append(feed.Failures, batch.Failures...)
	}
	if len(listErrs) == len(model.AllKinds) {
		return nil, listErrs[0]
	}
	return feed, nil
}

// GetFollowingFeed merges the content of every account userID follows. One
// followee failing only adds a failure entry; the rest of the feed is served.
func (s *FeedService) GetFollowingFeed(ctx context.Context, userID int64) (*model.Feed, error) {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return nil, err
	}

	followees, err := s.followRepo.ListFollowingIDs(ctx, userID)
	if err != nil {
		s.log.Error("Failed to list followees", slog.Int64("user_id", userID), slog.String("error", err.Error()))
		return nil, err
	}
	s.log.Debug("Building following feed", slog.Int64("user_id", userID), slog.Int("followees", len(followees)))

	type task struct {
		kind    model.ContentKind
		ownerID int64
	}
	tasks := make([]task, 0, len(followees)*len(model.AllKinds))
	for _, followee := range followees {
		for _, kind := range model.AllKinds {
			tasks = append(tasks, task{kind: kind, ownerID: followee})
		}
	}

	batches := make([]*model.FullItemBatch, len(tasks))
	errs := make([]error, len(tasks))

	var g errgroup.Group
	g.SetLimit(s.fanoutLimit)
	for i, t := range tasks {
		g.Go(func() error {
			batches[i], errs[i] = s.content.GetAllFullItemsForUser(ctx, t.kind, t.ownerID)
			return nil
		})
	}
	_ = g.Wait()

	feed := model.NewFeed()
	for i, t := range tasks {
		if errs[i] != nil {
			s.log.Warn("Failed to aggregate followee content",
				slog.Int64("user_id", userID),
				slog.Int64("followee_id", t.ownerID),
				slog.String("kind", string(t.kind)),
				slog.String("error", errs[i].Error()))
			feed.Failures = append(feed.Failures, &model.HydrationFailure{Kind: t.kind, OwnerID: t.ownerID, Reason: errs[i].Error()})
			continue
		}
		slot := feed.Items(t.kind)
		*slot = append(*slot, batches[i].Items...)
		feed.Failures = append(feed.Failures, batches[i].Failures...)
	}

	for _, kind := range model.AllKinds {
		sortNewestFirst(*feed.Items(kind))
	}
	return feed, nil
}

func sortNewestFirst(items []*model.FullItem) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i].Item, items[j].Item
		if !a.CreatedAt.Time.Equal(b.CreatedAt.Time) {
			return a.CreatedAt.Time.After(b.CreatedAt.Time)
		}
		return a.ID > b.ID
	})
}

// GetUserContent aggregates every kind authored by userID. A kind that fails
// comes back as an empty batch carrying the failure; the call only fails when
// every kind does.
func (s *FeedService) GetUserContent(ctx context.Context, userID int64) (*model.UserContent, error) {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return nil, err
	}

	batches := make([]*model.FullItemBatch, len(model.AllKinds))
	errs := make([]error, len(model.AllKinds))
	var g errgroup.Group
	for i, kind := range model.AllKinds {
		g.Go(func() error {
			batches[i], errs[i] = s.content.GetAllFullItemsForUser(ctx, kind, userID)
			return nil
		})
	}
	_ = g.Wait()

	failed := 0
	for i, kind := range model.AllKinds {
		if errs[i] == nil {
			continue
		}
		failed++
		s.log.Warn("Failed to aggregate user content",
			slog.Int64("user_id", userID),
			slog.String("kind", string(kind)),
			slog.String("error", errs[i].Error()))
		batches[i] = &model.FullItemBatch{
			Items:    []*model.FullItem{},
			Failures: []*model.HydrationFailure{{Kind: kind, OwnerID: userID, Reason: errs[i].Error()}},
		}
	}
	if failed == len(model.AllKinds) {
		return nil, errs[0]
	}

	content := &model.UserContent{}
	for i, kind := range model.AllKinds {
		switch kind {
		case model.KindPost:
			content.Posts = batches[i]
		case model.KindEvent:
			content.Events = batches[i]
		case model.KindUrgentPost:
			content.UrgentPosts = batches[i]
		}
	}
	return content, nil
}
