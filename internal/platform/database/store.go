package database

import (
	"context"
	"database/sql"
	"fmt"
)

// Querier is the subset of *sql.DB and *sql.Tx the repositories use.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// Notifier receives the change topics of committed writes.
type Notifier interface {
	Publish(topics ...string)
}

// TxManager runs fn inside a single transaction carried by ctx.
type TxManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

type txKey struct{}

type txState struct {
	tx     *sql.Tx
	topics []string
}

// Store is the handle to the local cache store. It is opened once in main and
// passed to every repository.
type Store struct {
	db       *sql.DB
	notifier Notifier
}

// NewStore wraps db. notifier may be nil.
func NewStore(db *sql.DB, notifier Notifier) *Store {
	return &Store{db: db, notifier: notifier}
}

// DB returns the underlying pool.
func (s *Store) DB() *sql.DB { return s.db }

// Close closes the underlying pool.
func (s *Store) Close() error { return s.db.Close() }

// Conn returns the transaction bound to ctx, or the pool when there is none.
func (s *Store) Conn(ctx context.Context) Querier {
	if state, ok := ctx.Value(txKey{}).(*txState); ok {
		return state.tx
	}
	return s.db
}

// WithTransaction runs fn in a transaction. A call made while a transaction
// is already bound to ctx joins it. Topics passed to Notify inside fn are
// published only after a successful commit.
func (s *Store) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return s.run(ctx, nil, fn)
}

// WithSnapshot runs fn in a read-only repeatable-read transaction, so every
// query in fn sees the same committed state. Inside an existing transaction
// fn joins it.
func (s *Store) WithSnapshot(ctx context.Context, fn func(ctx context.Context) error) error {
	return s.run(ctx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true}, fn)
}

func (s *Store) run(ctx context.Context, opts *sql.TxOptions, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(*txState); ok {
		return fn(ctx)
	}

	tx, err := s.db.BeginTx(ctx, opts)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	state := &txState{tx: tx}
	if err := fn(context.WithValue(ctx, txKey{}, state)); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	s.publish(state.topics)
	return nil
}

// Notify announces that rows under topics changed. Inside a transaction the
// announcement waits for commit and is dropped on rollback.
func (s *Store) Notify(ctx context.Context, topics ...string) {
	if state, ok := ctx.Value(txKey{}).(*txState); ok {
		state.topics = append(state.topics, topics...)
		return
	}
	s.publish(topics)
}

func (s *Store) publish(topics []string) {
	if s.notifier == nil || len(topics) == 0 {
		return
	}
	seen := make(map[string]struct{}, len(topics))
	unique := topics[:0:0]
	for _, t := range topics {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		unique = append(unique, t)
	}
	s.notifier.Publish(unique...)
}
