package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

var (
	// ErrRetryLimitExceeded is the single failure kind a unit of work reports
	// when its changes could not be committed.
	ErrRetryLimitExceeded = errors.New("unable to commit unit of work: retry limit exceeded")

	// ErrStaleEntity is returned by repositories when a row read earlier in the
	// request no longer matches on write (changed or removed concurrently).
	ErrStaleEntity = errors.New("entity was modified or removed since it was read")
)

// DBTX is the query surface shared by the pool, a session connection and a transaction.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type ctxKey int

const (
	sessionKey ctxKey = iota
	txKey
)

// Store owns the connection pool and hands out request-scoped sessions and units of work.
type Store struct {
	pool       *pgxpool.Pool
	maxRetries int
	log        zerolog.Logger

	// begin opens a transaction on the querier bound to ctx. Replaced in tests.
	begin func(ctx context.Context) (pgx.Tx, error)
}

// NewStore creates a Store over pool.
func NewStore(pool *pgxpool.Pool, maxRetries int, log zerolog.Logger) *Store {
	if maxRetries < 0 {
		maxRetries = 0
	}
	s := &Store{
		pool:       pool,
		maxRetries: maxRetries,
		log:        log.With().Str("component", "store").Logger(),
	}
	s.begin = s.beginTx
	return s
}

// Open acquires one connection for the lifetime of a request and binds it to
// the returned context. The release func must be called on every exit path.
func (s *Store) Open(ctx context.Context) (context.Context, func(), error) {
	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		return ctx, func() {}, fmt.Errorf("acquire session: %w", err)
	}
	return context.WithValue(ctx, sessionKey, conn), conn.Release, nil
}

// DB returns the querier bound to ctx: the open transaction, then the request
// session, then the pool itself.
func (s *Store) DB(ctx context.Context) DBTX {
	if tx, ok := ctx.Value(txKey).(pgx.Tx); ok {
		return tx
	}
	if conn, ok := ctx.Value(sessionKey).(*pgxpool.Conn); ok {
		return conn
	}
	return s.pool
}

// Do runs fn as one unit of work: every statement fn issues through DB(ctx)
// is committed together or not at all. Serialization failures and deadlocks
// replay fn up to maxRetries times; when that is exhausted, or a repository
// reports a stale entity, the error wraps ErrRetryLimitExceeded.
func (s *Store) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey).(pgx.Tx); ok {
		return fn(ctx)
	}

	for attempt := 0; ; attempt++ {
		err := s.runOnce(ctx, fn)
		switch {
		case err == nil:
			return nil
		case errors.Is(err, ErrStaleEntity):
			return fmt.Errorf("%w: %w", ErrRetryLimitExceeded, err)
		case !IsTransient(err):
			return err
		case attempt >= s.maxRetries:
			s.log.Warn().Err(err).Int("attempts", attempt+1).Msg("Unit of work gave up")
			return fmt.Errorf("%w: %w", ErrRetryLimitExceeded, err)
		}
		s.log.Debug().Err(err).Int("attempt", attempt+1).Msg("Retrying unit of work")
	}
}

func (s *Store) runOnce(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	tx, err := s.begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	defer func() {
		if r := recover(); r != nil {
			_ = tx.Rollback(ctx)
			panic(r)
		}
	}()

	if err := fn(context.WithValue(ctx, txKey, tx)); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			s.log.Error().Err(rbErr).Msg("Failed to rollback transaction")
		}
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func (s *Store) beginTx(ctx context.Context) (pgx.Tx, error) {
	if conn, ok := ctx.Value(sessionKey).(*pgxpool.Conn); ok {
		return conn.Begin(ctx)
	}
	return s.pool.Begin(ctx)
}

// IsTransient reports whether err is a serialization failure or deadlock,
// i.e. the transaction may succeed if replayed.
func IsTransient(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == "40001" || pgErr.Code == "40P01"
}
