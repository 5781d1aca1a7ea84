package payment

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/Raunak-Sarmacharya/LocalCooksCommunity-sub005/internal/domain"
	"github.com/Raunak-Sarmacharya/LocalCooksCommunity-sub005/pkg/dbmetrics"
	"github.com/Raunak-Sarmacharya/LocalCooksCommunity-sub005/pkg/psqlbuilder"
)

const tableName = "payment_transactions"

// Repository репозиторий зеркал платежных намерений
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория платежей
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает зеркало платежа
func (r *Repository) Create(ctx context.Context, tx *domain.PaymentTransaction) (*domain.PaymentTransaction, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(tableName).
		Columns(
			"booking_id",
			"payment_intent_id",
			"amount_cents",
			"currency",
			"status",
			"charge_id",
			"paid_at",
		).
		Values(
			tx.BookingID,
			tx.PaymentIntentID,
			tx.AmountCents,
			tx.Currency,
			tx.Status,
			tx.ChargeID,
			tx.PaidAt,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&tx.ID, &createdAt, &updatedAt); err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	tx.CreatedAt = createdAt.Time
	tx.UpdatedAt = updatedAt.Time
	return tx, nil
}

// GetByIntentID получает зеркало платежа по ID платежного намерения
func (r *Repository) GetByIntentID(ctx context.Context, intentID string) (*domain.PaymentTransaction, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"booking_id",
		"payment_intent_id",
		"amount_cents",
		"currency",
		"status",
		"charge_id",
		"paid_at",
		"created_at",
		"updated_at",
	).
		From(tableName).
		Where(squirrel.Eq{"payment_intent_id": intentID}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByIntentID - build select query: %v", ErrBuildQuery, err)
	}

	var tx domain.PaymentTransaction
	var createdAt, updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&tx.ID,
		&tx.BookingID,
		&tx.PaymentIntentID,
		&tx.AmountCents,
		&tx.Currency,
		&tx.Status,
		&tx.ChargeID,
		&tx.PaidAt,
		&createdAt,
		&updatedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrTransactionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByIntentID - scan transaction: %v", ErrScanRow, err)
	}

	tx.CreatedAt = createdAt.Time
	tx.UpdatedAt = updatedAt.Time
	return &tx, nil
}

// UpdateStatus обновляет статус зеркала платежа
// chargeID и paidAt сохраняются, только если переданы
func (r *Repository) UpdateStatus(ctx context.Context, intentID string, status domain.PaymentTransactionStatus, chargeID *string, paidAt *time.Time) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	updateBuilder := psqlbuilder.Update(tableName).
		Set("status", status).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"payment_intent_id": intentID})

	if chargeID != nil {
		updateBuilder = updateBuilder.Set("charge_id", *chargeID)
	}
	if paidAt != nil {
		updateBuilder = updateBuilder.Set("paid_at", *paidAt)
	}

	query, args, err := updateBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrTransactionNotFound
	}

	return nil
}
