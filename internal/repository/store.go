package repository

import (
	"context"
	"database/sql"
	"fmt"
)

// queryer is satisfied by both *sql.DB and *sql.Tx
type queryer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Store groups the repositories that share one connection or transaction
type Store interface {
	Foods() FoodRepository
	Categories() CategoryRepository
	// InTx runs fn inside a transaction. The transaction is committed when fn
	// returns nil and rolled back otherwise. Nested calls join the outer transaction.
	InTx(ctx context.Context, fn func(tx Store) error) error
}

type sqlStore struct {
	db   *sql.DB
	q    queryer
	inTx bool
}

// NewStore creates a Store backed by db
func NewStore(db *sql.DB) Store {
	return &sqlStore{db: db, q: db}
}

func (s *sqlStore) Foods() FoodRepository {
	return &foodRepository{db: s.q}
}

func (s *sqlStore) Categories() CategoryRepository {
	return &categoryRepository{db: s.q}
}

func (s *sqlStore) InTx(ctx context.Context, fn func(tx Store) error) error {
	if s.inTx {
		return fn(s)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	// no-op once committed
	defer tx.Rollback()

	if err := fn(&sqlStore{db: s.db, q: tx, inTx: true}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
