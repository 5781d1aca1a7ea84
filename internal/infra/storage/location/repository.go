package location

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/Raunak-Sarmacharya/LocalCooksCommunity-sub005/internal/domain"
	"github.com/Raunak-Sarmacharya/LocalCooksCommunity-sub005/pkg/dbmetrics"
	"github.com/Raunak-Sarmacharya/LocalCooksCommunity-sub005/pkg/psqlbuilder"
)

var columns = []string{
	"id",
	"name",
	"timezone",
	"cancellation_policy_hours",
	"cancellation_policy_message",
	"default_daily_booking_limit",
	"minimum_booking_window_hours",
	"manager_id",
	"notification_email",
	"notification_phone",
	"created_at",
	"updated_at",
}

// Repository репозиторий локаций
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория локаций
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByID получает локацию по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Location, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(columns...).
		From("locations").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	var loc domain.Location
	var createdAt, updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&loc.ID,
		&loc.Name,
		&loc.Timezone,
		&loc.CancellationPolicyHours,
		&loc.CancellationPolicyMessage,
		&loc.DefaultDailyBookingLimit,
		&loc.MinimumBookingWindowHours,
		&loc.ManagerID,
		&loc.NotificationEmail,
		&loc.NotificationPhone,
		&createdAt,
		&updatedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrLocationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan location: %v", ErrScanRow, err)
	}

	loc.CreatedAt = createdAt.Time
	loc.UpdatedAt = updatedAt.Time

	return &loc, nil
}

// UpdatePolicy обновляет политику бронирования локации
func (r *Repository) UpdatePolicy(ctx context.Context, id int64, policy domain.LocationPolicy) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("locations").
		Set("timezone", policy.Timezone).
		Set("cancellation_policy_hours", policy.CancellationPolicyHours).
		Set("cancellation_policy_message", policy.CancellationPolicyMessage).
		Set("default_daily_booking_limit", policy.DefaultDailyBookingLimit).
		Set("minimum_booking_window_hours", policy.MinimumBookingWindowHours).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpdatePolicy - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdatePolicy - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdatePolicy - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrLocationNotFound
	}

	return nil
}
