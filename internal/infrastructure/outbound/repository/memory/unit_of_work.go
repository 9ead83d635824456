package memory

import (
	"context"
	"errors"

	ports "community-feed-service/internal/domain/ports/output"
	comment_repository "community-feed-service/internal/domain/ports/output/comment"
	content_repository "community-feed-service/internal/domain/ports/output/content"
	like_repository "community-feed-service/internal/domain/ports/output/like"
)

var errTxDone = errors.New("transaction already finished")

type UnitOfWork struct {
	store *Store
	log   ports.Logger
}

// NewUnitOfWork runs transactions one at a time against store. Transactions are
// isolated from each other; reads made outside a transaction can observe
// uncommitted writes.
func NewUnitOfWork(store *Store, log ports.Logger) ports.UnitOfWork {
	return &UnitOfWork{store: store, log: log}
}

func (u *UnitOfWork) Begin(ctx context.Context) (ports.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	u.store.txMu.Lock()
	return &Transaction{store: u.store, log: u.log, journal: &journal{}}, nil
}

type Transaction struct {
	store   *Store
	log     ports.Logger
	journal *journal
	done    bool
}

func (t *Transaction) finish(apply func()) error {
	if t.done {
		return errTxDone
	}
	apply()
	t.done = true
	t.store.txMu.Unlock()
	return nil
}

func (t *Transaction) Commit(ctx context.Context) error {
	return t.finish(func() { t.journal.undo = nil })
}

// Rollback undoes every write made through this transaction. Calling it after
// Commit is a no-op.
func (t *Transaction) Rollback(ctx context.Context) error {
	if t.done {
		return nil
	}
	return t.finish(func() {
		t.store.mu.Lock()
		t.journal.rollback()
		t.store.mu.Unlock()
	})
}

func (t *Transaction) ContentRepository() content_repository.Repository {
	return &ContentRepository{store: t.store, log: t.log, journal: t.journal}
}

func (t *Transaction) CommentRepository() comment_repository.Repository {
	return &CommentRepository{store: t.store, log: t.log, journal: t.journal}
}

func (t *Transaction) LikeRepository() like_repository.Repository {
	return &LikeRepository{store: t.store, log: t.log, journal: t.journal}
}
