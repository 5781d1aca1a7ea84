package availability

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Raunak-Sarmacharya/LocalCooksCommunity-sub005/internal/domain"
	"github.com/Raunak-Sarmacharya/LocalCooksCommunity-sub005/pkg/ptr"
	"github.com/Raunak-Sarmacharya/LocalCooksCommunity-sub005/pkg/types"
)

func newRepo(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewRepository(db), mock
}

func TestRepository_GetOverride_NotFound(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectQuery(`SELECT .+ FROM kitchen_date_overrides`).
		WillReturnRows(sqlmock.NewRows(overrideColumns))

	_, err := repo.GetOverride(context.Background(), 1, types.NewDate(2025, time.March, 10))
	assert.ErrorIs(t, err, ErrOverrideNotFound)
}

func TestRepository_GetOverride_ClosedDay(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectQuery(`SELECT .+ FROM kitchen_date_overrides`).
		WillReturnRows(sqlmock.NewRows(overrideColumns).AddRow(
			int64(5), int64(1), time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
			nil, nil, false, nil, "Holiday", time.Now(),
		))

	o, err := repo.GetOverride(context.Background(), 1, types.NewDate(2025, time.March, 10))
	require.NoError(t, err)

	assert.False(t, o.IsAvailable)
	assert.True(t, o.StartTime.IsZero())
	assert.Equal(t, "Holiday", *o.Reason)
}

func TestRepository_UpsertWeekly(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectQuery(`INSERT INTO kitchen_availability .+ ON CONFLICT \(kitchen_id, day_of_week\) DO UPDATE`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "updated_at"}).AddRow(int64(3), time.Now()))

	w, err := repo.UpsertWeekly(context.Background(), &domain.WeeklyAvailability{
		KitchenID:       1,
		DayOfWeek:       1,
		StartTime:       "08:00",
		EndTime:         "16:00",
		IsAvailable:     true,
		MaxSlotsPerChef: ptr.Ptr(2),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(3), w.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_DeleteOverride_NotFound(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectExec(`DELETE FROM kitchen_date_overrides`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.DeleteOverride(context.Background(), 1, types.NewDate(2025, time.March, 10))
	assert.ErrorIs(t, err, ErrOverrideNotFound)
}
