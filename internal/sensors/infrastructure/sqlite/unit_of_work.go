package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
)

// UnitOfWork batches repository mutations and applies them in one
// transaction per SaveChanges call. Explicit transaction control is
// provided for completeness; the application services never use it.
type UnitOfWork struct {
	db *sql.DB

	mu      sync.Mutex
	pending []func(ctx context.Context, tx *sql.Tx) error
	tx      *sql.Tx
}

// NewUnitOfWork constructs a unit of work over an open database.
func NewUnitOfWork(db *sql.DB) (*UnitOfWork, error) {
	if db == nil {
		return nil, fmt.Errorf("sqlite: nil db")
	}
	return &UnitOfWork{db: db}, nil
}

func (u *UnitOfWork) enqueue(op func(ctx context.Context, tx *sql.Tx) error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.pending = append(u.pending, op)
}

// SaveChanges applies all staged mutations atomically and clears the
// stage.
func (u *UnitOfWork) SaveChanges(ctx context.Context) error {
	u.mu.Lock()
	pending := u.pending
	u.pending = nil
	tx := u.tx
	u.mu.Unlock()

	if len(pending) == 0 {
		return nil
	}

	if tx != nil {
		for _, op := range pending {
			if err := op(ctx, tx); err != nil {
				return err
			}
		}
		return nil
	}

	own, err := u.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	for _, op := range pending {
		if err := op(ctx, own); err != nil {
			_ = own.Rollback()
			return err
		}
	}
	return own.Commit()
}

// BeginTransaction opens an explicit transaction.
func (u *UnitOfWork) BeginTransaction(ctx context.Context) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.tx != nil {
		return fmt.Errorf("sqlite: transaction already open")
	}
	tx, err := u.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	u.tx = tx
	return nil
}

// CommitTransaction commits the explicit transaction.
func (u *UnitOfWork) CommitTransaction() error {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.tx == nil {
		return nil
	}
	err := u.tx.Commit()
	u.tx = nil
	return err
}

// RollbackTransaction rolls back the explicit transaction and discards
// staged work.
func (u *UnitOfWork) RollbackTransaction() error {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.pending = nil
	if u.tx == nil {
		return nil
	}
	err := u.tx.Rollback()
	u.tx = nil
	return err
}
