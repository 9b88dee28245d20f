package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/zhukovvlad/tender-matching-service/cmd/pkg/logging"
)

// DBTX abstracts over *sql.DB and *sql.Tx so Queries can run against either
// the pool or a single transaction — the same shape the teacher's
// sqlc-generated Queries/Querier pair already uses at call sites.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Queries holds every hand-written statement against the tender schema.
type Queries struct {
	db DBTX
}

// New wraps db (a *sql.DB or a *sql.Tx) in a Queries.
func New(db DBTX) *Queries {
	return &Queries{db: db}
}

// Store is the top-level persistence handle: it runs non-transactional
// reads directly against the pool and gives callers a fresh transaction per
// position via ExecTx — persistence is never shared across positions, per
// the pipeline's isolation requirement.
type Store struct {
	*Queries
	db     *sql.DB
	logger *logging.Logger
}

// NewStore builds a Store over an already-opened *sql.DB.
func NewStore(db *sql.DB, logger *logging.Logger) *Store {
	return &Store{
		Queries: New(db),
		db:      db,
		logger:  logger,
	}
}

// ExecTx runs fn inside a fresh transaction, committing on success and
// rolling back on any error (including a panic, which it re-raises after
// rollback).
func (s *Store) ExecTx(ctx context.Context, fn func(*Queries) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(New(tx)); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("tx error: %v, rollback error: %w", err, rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}
