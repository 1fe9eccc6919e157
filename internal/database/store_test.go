package database

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTx struct {
	pgx.Tx
	commitErr error
	commits   int
	rollbacks int
}

func (f *fakeTx) Commit(context.Context) error {
	f.commits++
	return f.commitErr
}

func (f *fakeTx) Rollback(context.Context) error {
	f.rollbacks++
	return nil
}

func newTestStore(maxRetries int, txs *[]*fakeTx, commitErr error) *Store {
	s := &Store{maxRetries: maxRetries, log: zerolog.Nop()}
	s.begin = func(context.Context) (pgx.Tx, error) {
		tx := &fakeTx{commitErr: commitErr}
		*txs = append(*txs, tx)
		return tx, nil
	}
	return s
}

func TestDo_CommitsOnSuccess(t *testing.T) {
	var txs []*fakeTx
	s := newTestStore(3, &txs, nil)

	var sawTx bool
	err := s.Do(context.Background(), func(ctx context.Context) error {
		_, sawTx = s.DB(ctx).(pgx.Tx)
		return nil
	})

	require.NoError(t, err)
	assert.True(t, sawTx)
	require.Len(t, txs, 1)
	assert.Equal(t, 1, txs[0].commits)
	assert.Equal(t, 0, txs[0].rollbacks)
}

func TestDo_RollsBackAndReturnsDomainError(t *testing.T) {
	var txs []*fakeTx
	s := newTestStore(3, &txs, nil)
	boom := errors.New("boom")

	err := s.Do(context.Background(), func(context.Context) error { return boom })

	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, ErrRetryLimitExceeded)
	require.Len(t, txs, 1)
	assert.Equal(t, 1, txs[0].rollbacks)
}

func TestDo_RetriesTransientFailuresThenGivesUp(t *testing.T) {
	var txs []*fakeTx
	s := newTestStore(2, &txs, nil)

	calls := 0
	err := s.Do(context.Background(), func(context.Context) error {
		calls++
		return &pgconn.PgError{Code: "40001"}
	})

	assert.ErrorIs(t, err, ErrRetryLimitExceeded)
	assert.Equal(t, 3, calls)
	assert.Len(t, txs, 3)
}

func TestDo_RetrySucceedsAfterDeadlock(t *testing.T) {
	var txs []*fakeTx
	s := newTestStore(3, &txs, nil)

	calls := 0
	err := s.Do(context.Background(), func(context.Context) error {
		calls++
		if calls == 1 {
			return &pgconn.PgError{Code: "40P01"}
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 2, calls)
	assert.Equal(t, 1, txs[1].commits)
}

func TestDo_CommitSerializationFailureIsRetried(t *testing.T) {
	var txs []*fakeTx
	s := newTestStore(1, &txs, &pgconn.PgError{Code: "40001"})

	err := s.Do(context.Background(), func(context.Context) error { return nil })

	assert.ErrorIs(t, err, ErrRetryLimitExceeded)
	assert.Len(t, txs, 2)
}

func TestDo_StaleEntitySurfacesAsRetryLimit(t *testing.T) {
	var txs []*fakeTx
	s := newTestStore(3, &txs, nil)

	err := s.Do(context.Background(), func(context.Context) error { return ErrStaleEntity })

	assert.ErrorIs(t, err, ErrRetryLimitExceeded)
	assert.ErrorIs(t, err, ErrStaleEntity)
	assert.Len(t, txs, 1, "stale entities are not replayed")
}

func TestDo_NestedJoinsOuterTransaction(t *testing.T) {
	var txs []*fakeTx
	s := newTestStore(3, &txs, nil)

	err := s.Do(context.Background(), func(ctx context.Context) error {
		return s.Do(ctx, func(context.Context) error { return nil })
	})

	require.NoError(t, err)
	assert.Len(t, txs, 1)
}

func TestIsTransient(t *testing.T) {
	assert.True(t, IsTransient(&pgconn.PgError{Code: "40001"}))
	assert.True(t, IsTransient(&pgconn.PgError{Code: "40P01"}))
	assert.False(t, IsTransient(&pgconn.PgError{Code: "23505"}))
	assert.False(t, IsTransient(errors.New("plain")))
}
