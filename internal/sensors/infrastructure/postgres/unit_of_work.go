package postgres

import (
	"context"
	"database/sql"
	"errors"
	"sync"
)

// UnitOfWork batches repository mutations and commits them in a single
// transaction. Repositories in this package stage their writes here;
// SaveChanges opens a transaction, applies the stage in order, commits
// and clears it. When an explicit transaction has been begun, staged
// work is applied inside it and held until CommitTransaction.
//
// Explicit transaction control exists for multi-save workflows; the
// application services issue one SaveChanges per operation and never
// call it.
type UnitOfWork struct {
	db *sql.DB

	mu      sync.Mutex
	pending []func(ctx context.Context, tx DBTX) error
	tx      *sql.Tx
}

// NewUnitOfWork constructs a unit of work over a database handle.
func NewUnitOfWork(db *sql.DB) (*UnitOfWork, error) {
	if db == nil {
		return nil, errors.New("unit of work: nil db")
	}
	return &UnitOfWork{db: db}, nil
}

// enqueue stages a mutation for the next SaveChanges.
func (u *UnitOfWork) enqueue(op func(ctx context.Context, tx DBTX) error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.pending = append(u.pending, op)
}

// SaveChanges applies all staged mutations atomically. With no explicit
// transaction open, each call is its own transaction. The stage is
// cleared on success and on rollback.
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

// BeginTransaction opens an explicit transaction spanning multiple
// SaveChanges calls.
func (u *UnitOfWork) BeginTransaction(ctx context.Context) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.tx != nil {
		return errors.New("unit of work: transaction already open")
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
// any staged work.
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
