package memory

import (
	"sort"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgtype"

	model "community-feed-service/internal/domain/models"
)

type likeKey struct {
	kind   model.ContentKind
	userID int64
	itemID int64
}

type followKey struct {
	followerID  int64
	followingID int64
}

// Store holds every table of the in-memory driver. Repositories are views over
// one Store so that foreign keys and cascades behave like the relational schema.
type Store struct {
	mu   sync.RWMutex
	txMu sync.Mutex

	users    map[int64]model.User
	items    map[model.ContentKind]map[int64]model.ContentItem
	comments map[int64]model.Comment
	likes    map[likeKey]time.Time
	follows  map[followKey]time.Time
	messages map[int64]model.Message

	nextUserID    int64
	nextItemID    map[model.ContentKind]int64
	nextCommentID int64
	nextMessageID int64
}

func NewStore() *Store {
	s := &Store{
		users:         make(map[int64]model.User),
		items:         make(map[model.ContentKind]map[int64]model.ContentItem),
		comments:      make(map[int64]model.Comment),
		likes:         make(map[likeKey]time.Time),
		follows:       make(map[followKey]time.Time),
		messages:      make(map[int64]model.Message),
		nextUserID:    1,
		nextItemID:    make(map[model.ContentKind]int64),
		nextCommentID: 1,
		nextMessageID: 1,
	}
	for _, kind := range model.AllKinds {
		s.items[kind] = make(map[int64]model.ContentItem)
		s.nextItemID[kind] = 1
	}
	return s
}

// AddUser seeds a user row. Accounts are issued elsewhere, so this is the only
// way users enter the memory driver.
func (s *Store) AddUser(user model.User) model.User {
	s.mu.Lock()
	defer s.mu.Unlock()

	if user.ID == 0 {
		user.ID = s.nextUserID
	}
	if user.ID >= s.nextUserID {
		s.nextUserID = user.ID + 1
	}
	s.users[user.ID] = user
	return user
}

func now() pgtype.Timestamptz {
	return pgtype.Timestamptz{Time: time.Now(), Valid: true}
}

// newerFirst orders by created_at DESC, id DESC.
func newerFirst(aTime, bTime time.Time, aID, bID int64) bool {
	if !aTime.Equal(bTime) {
		return aTime.After(bTime)
	}
	return aID > bID
}

func sortItemsNewestFirst(items []model.ContentItem) {
	sort.Slice(items, func(i, j int) bool {
		return newerFirst(items[i].CreatedAt.Time, items[j].CreatedAt.Time, items[i].ID, items[j].ID)
	})
}

// journal collects undo steps for one transaction. A nil journal means the
// caller runs outside a transaction and nothing is recorded.
type journal struct {
	undo []func()
}

func (j *journal) record(step func()) {
	if j != nil {
		j.undo = append(j.undo, step)
	}
}

func (j *journal) rollback() {
	for i := len(j.undo) - 1; i >= 0; i-- {
		j.undo[i]()
	}
	j.undo = nil
}
