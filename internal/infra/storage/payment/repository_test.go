package payment

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Raunak-Sarmacharya/LocalCooksCommunity-sub005/internal/domain"
	"github.com/Raunak-Sarmacharya/LocalCooksCommunity-sub005/pkg/ptr"
)

func TestRepository_UpdateStatus(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewRepository(db)

	paidAt := time.Date(2025, 3, 9, 17, 31, 0, 0, time.UTC)

	mock.ExpectExec(`UPDATE payment_transactions SET status = \$1, updated_at = NOW\(\), charge_id = \$2, paid_at = \$3 WHERE payment_intent_id = \$4`).
		WithArgs(domain.TransactionSucceeded, "ch_1", paidAt, "pi_1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = repo.UpdateStatus(context.Background(), "pi_1", domain.TransactionSucceeded, ptr.Ptr("ch_1"), &paidAt)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_UpdateStatus_MissingMirror(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewRepository(db)

	mock.ExpectExec(`UPDATE payment_transactions`).WillReturnResult(sqlmock.NewResult(0, 0))

	err = repo.UpdateStatus(context.Background(), "pi_missing", domain.TransactionSucceeded, nil, nil)
	assert.ErrorIs(t, err, ErrTransactionNotFound)
}
