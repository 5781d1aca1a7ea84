package txmanager

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Raunak-Sarmacharya/LocalCooksCommunity-sub005/pkg/dbmetrics"
)

type fakeTx struct {
	dbmetrics.DBExecutor
	committed           bool
	rolledBack          bool
	commitErr           error
	serializationFailed bool
}

func (t *fakeTx) SerializationFailed() bool { return t.serializationFailed }

func (t *fakeTx) Commit() error {
	t.committed = true
	return t.commitErr
}

func (t *fakeTx) Rollback() error {
	t.rolledBack = true
	return nil
}

// fakeBeginner выдает tx, затем по очереди retries, затем снова tx
type fakeBeginner struct {
	tx      *fakeTx
	retries []*fakeTx
	opts    *sql.TxOptions
	calls   int
}

func (b *fakeBeginner) BeginTx(_ context.Context, opts *sql.TxOptions) (dbmetrics.TxExecutor, error) {
	b.calls++
	b.opts = opts
	if b.calls > 1 && len(b.retries) >= b.calls-1 {
		return b.retries[b.calls-2], nil
	}
	return b.tx, nil
}

func TestTransactionManager_CommitsOnSuccess(t *testing.T) {
	beginner := &fakeBeginner{tx: &fakeTx{}}
	mgr := NewTransactionManager(beginner)

	err := mgr.DoSerializable(context.Background(), func(ctx context.Context) error {
		assert.True(t, dbmetrics.IsInTransaction(ctx))
		return nil
	})

	require.NoError(t, err)
	assert.True(t, beginner.tx.committed)
	assert.False(t, beginner.tx.rolledBack)
	assert.Equal(t, sql.LevelSerializable, beginner.opts.Isolation)
}

func TestTransactionManager_RollsBackOnError(t *testing.T) {
	beginner := &fakeBeginner{tx: &fakeTx{}}
	mgr := NewTransactionManager(beginner)
	boom := errors.New("boom")

	err := mgr.Do(context.Background(), func(ctx context.Context) error { return boom })

	assert.ErrorIs(t, err, boom)
	assert.True(t, beginner.tx.rolledBack)
	assert.False(t, beginner.tx.committed)
}

func TestTransactionManager_NestedCallReusesTx(t *testing.T) {
	beginner := &fakeBeginner{tx: &fakeTx{}}
	mgr := NewTransactionManager(beginner)

	err := mgr.Do(context.Background(), func(ctx context.Context) error {
		return mgr.DoSerializable(ctx, func(ctx context.Context) error { return nil })
	})

	require.NoError(t, err)
	assert.Equal(t, 1, beginner.calls)
}

func TestTransactionManager_CommitError(t *testing.T) {
	beginner := &fakeBeginner{tx: &fakeTx{commitErr: errors.New("serialization failure")}}
	mgr := NewTransactionManager(beginner)

	err := mgr.Do(context.Background(), func(ctx context.Context) error { return nil })

	assert.ErrorIs(t, err, ErrCommitTx)
}

func TestDoSerializable_RetriesSerializationFailureOnCommit(t *testing.T) {
	first := &fakeTx{commitErr: &pq.Error{Code: "40001"}}
	second := &fakeTx{}
	beginner := &fakeBeginner{tx: first, retries: []*fakeTx{second}}
	mgr := NewTransactionManager(beginner)

	runs := 0
	err := mgr.DoSerializable(context.Background(), func(ctx context.Context) error {
		runs++
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 2, runs)
	assert.True(t, second.committed)
}

func TestDoSerializable_RetriesStatementFailureHiddenByWrapping(t *testing.T) {
	first := &fakeTx{serializationFailed: true}
	second := &fakeTx{}
	beginner := &fakeBeginner{tx: first, retries: []*fakeTx{second}}
	mgr := NewTransactionManager(beginner)

	runs := 0
	err := mgr.DoSerializable(context.Background(), func(ctx context.Context) error {
		runs++
		if runs == 1 {
			// цепочка ошибок потеряна выше по стеку
			return errors.New("create_booking: internal error: could not serialize access")
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 2, runs)
	assert.True(t, first.rolledBack)
	assert.True(t, second.committed)
}

func TestDoSerializable_GivesUpAfterMaxAttempts(t *testing.T) {
	beginner := &fakeBeginner{tx: &fakeTx{commitErr: &pq.Error{Code: "40001"}}}
	mgr := NewTransactionManager(beginner)

	err := mgr.DoSerializable(context.Background(), func(ctx context.Context) error { return nil })

	assert.ErrorIs(t, err, ErrCommitTx)
	assert.Equal(t, maxSerializableAttempts, beginner.calls)
}

func TestDoSerializable_DoesNotRetryOrdinaryErrors(t *testing.T) {
	beginner := &fakeBeginner{tx: &fakeTx{}}
	mgr := NewTransactionManager(beginner)
	boom := errors.New("boom")

	err := mgr.DoSerializable(context.Background(), func(ctx context.Context) error { return boom })

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, beginner.calls)
}
