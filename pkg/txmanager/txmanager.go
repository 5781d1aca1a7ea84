package txmanager

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Raunak-Sarmacharya/LocalCooksCommunity-sub005/pkg/dbmetrics"
)

var (
	// ErrBeginTx ошибка начала транзакции
	ErrBeginTx = errors.New("txmanager: failed to begin transaction")

	// ErrCommitTx ошибка коммита транзакции
	ErrCommitTx = errors.New("txmanager: failed to commit transaction")
)

const (
	// maxSerializableAttempts число попыток SERIALIZABLE транзакции при ошибках сериализации
	maxSerializableAttempts = 3

	retryBackoff = 20 * time.Millisecond
)

// serializationTracker транзакция, которая помнит ошибку сериализации своих запросов (*dbmetrics.Tx)
type serializationTracker interface {
	SerializationFailed() bool
}

// TxBeginner источник транзакций (*dbmetrics.DB)
type TxBeginner interface {
	BeginTx(ctx context.Context, opts *sql.TxOptions) (dbmetrics.TxExecutor, error)
}

// TransactionManager выполняет функции внутри транзакции, передавая ее через контекст
type TransactionManager struct {
	db TxBeginner
}

// NewTransactionManager создает менеджер транзакций
func NewTransactionManager(db TxBeginner) *TransactionManager {
	return &TransactionManager{db: db}
}

// Do выполняет fn в транзакции с уровнем изоляции по умолчанию
func (m *TransactionManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, nil, fn)
}

// DoSerializable выполняет fn в SERIALIZABLE транзакции.
// При ошибке сериализации (40001) или дедлоке транзакция повторяется целиком, fn должна быть
// готова к повторному вызову.
func (m *TransactionManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	opts := &sql.TxOptions{Isolation: sql.LevelSerializable}

	var err error
	for attempt := 1; attempt <= maxSerializableAttempts; attempt++ {
		var retryable bool
		retryable, err = m.attempt(ctx, opts, fn)
		if err == nil || !retryable || attempt == maxSerializableAttempts {
			return err
		}

		select {
		case <-ctx.Done():
			return err
		case <-time.After(time.Duration(attempt) * retryBackoff):
		}
	}
	return err
}

// DoReadOnly выполняет fn в read-only транзакции
func (m *TransactionManager) DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, &sql.TxOptions{ReadOnly: true}, fn)
}

func (m *TransactionManager) run(ctx context.Context, opts *sql.TxOptions, fn func(ctx context.Context) error) error {
	_, err := m.attempt(ctx, opts, fn)
	return err
}

// attempt выполняет одну транзакцию. retryable = true, если она упала на ошибке сериализации.
func (m *TransactionManager) attempt(ctx context.Context, opts *sql.TxOptions, fn func(ctx context.Context) error) (retryable bool, err error) {
	// Вложенный вызов переиспользует внешнюю транзакцию, повтор решает внешний уровень
	if dbmetrics.IsInTransaction(ctx) {
		return false, fn(ctx)
	}

	tx, err := m.db.BeginTx(ctx, opts)
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrBeginTx, err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(dbmetrics.WithTx(ctx, tx)); err != nil {
		_ = tx.Rollback()
		return serializationFailed(tx, err), err
	}

	if err := tx.Commit(); err != nil {
		return dbmetrics.IsSerializationFailure(err), fmt.Errorf("%w: %w", ErrCommitTx, err)
	}
	return false, nil
}

func serializationFailed(tx dbmetrics.TxExecutor, err error) bool {
	if dbmetrics.IsSerializationFailure(err) {
		return true
	}
	tracker, ok := tx.(serializationTracker)
	return ok && tracker.SerializationFailed()
}
