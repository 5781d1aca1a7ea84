package availability

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/Raunak-Sarmacharya/LocalCooksCommunity-sub005/internal/domain"
	"github.com/Raunak-Sarmacharya/LocalCooksCommunity-sub005/pkg/dbmetrics"
	"github.com/Raunak-Sarmacharya/LocalCooksCommunity-sub005/pkg/psqlbuilder"
	"github.com/Raunak-Sarmacharya/LocalCooksCommunity-sub005/pkg/types"
)

const (
	weeklyTable   = "kitchen_availability"
	overrideTable = "kitchen_date_overrides"
)

var weeklyColumns = []string{
	"id",
	"kitchen_id",
	"day_of_week",
	"start_time",
	"end_time",
	"is_available",
	"max_slots_per_chef",
	"updated_at",
}

var overrideColumns = []string{
	"id",
	"kitchen_id",
	"specific_date",
	"start_time",
	"end_time",
	"is_available",
	"max_slots_per_chef",
	"reason",
	"updated_at",
}

// Repository репозиторий еженедельного расписания и исключений по датам
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория расписания
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetWeekly получает запись расписания кухни на день недели
func (r *Repository) GetWeekly(ctx context.Context, kitchenID int64, dayOfWeek int) (*domain.WeeklyAvailability, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(weeklyColumns...).
		From(weeklyTable).
		Where(squirrel.Eq{"kitchen_id": kitchenID, "day_of_week": dayOfWeek}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetWeekly - build select query: %v", ErrBuildQuery, err)
	}

	weekly, err := scanWeekly(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrWeeklyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetWeekly - scan weekly: %v", ErrScanRow, err)
	}

	return weekly, nil
}

// GetAllWeekly получает все записи расписания кухни, упорядоченные по дню недели
func (r *Repository) GetAllWeekly(ctx context.Context, kitchenID int64) ([]*domain.WeeklyAvailability, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(weeklyColumns...).
		From(weeklyTable).
		Where(squirrel.Eq{"kitchen_id": kitchenID}).
		OrderBy("day_of_week ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetAllWeekly - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetAllWeekly - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	result := make([]*domain.WeeklyAvailability, 0)
	for rows.Next() {
		weekly, err := scanWeekly(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: GetAllWeekly - scan row: %v", ErrScanRow, err)
		}
		result = append(result, weekly)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetAllWeekly - rows error: %v", ErrScanRow, err)
	}

	return result, nil
}

// UpsertWeekly создает или заменяет запись расписания на день недели (last write wins)
func (r *Repository) UpsertWeekly(ctx context.Context, weekly *domain.WeeklyAvailability) (*domain.WeeklyAvailability, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(weeklyTable).
		Columns(
			"kitchen_id",
			"day_of_week",
			"start_time",
			"end_time",
			"is_available",
			"max_slots_per_chef",
		).
		Values(
			weekly.KitchenID,
			weekly.DayOfWeek,
			weekly.StartTime,
			weekly.EndTime,
			weekly.IsAvailable,
			weekly.MaxSlotsPerChef,
		).
		Suffix(`ON CONFLICT (kitchen_id, day_of_week) DO UPDATE SET
			start_time = EXCLUDED.start_time,
			end_time = EXCLUDED.end_time,
			is_available = EXCLUDED.is_available,
			max_slots_per_chef = EXCLUDED.max_slots_per_chef,
			updated_at = NOW()
			RETURNING id, updated_at`).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: UpsertWeekly - build insert query: %v", ErrBuildQuery, err)
	}

	var updatedAt sql.NullTime
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&weekly.ID, &updatedAt); err != nil {
		return nil, fmt.Errorf("%w: UpsertWeekly - execute upsert: %v", ErrExecQuery, err)
	}
	weekly.UpdatedAt = updatedAt.Time

	return weekly, nil
}

// GetOverride получает исключение кухни на дату
func (r *Repository) GetOverride(ctx context.Context, kitchenID int64, date types.Date) (*domain.DateOverride, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(overrideColumns...).
		From(overrideTable).
		Where(squirrel.Eq{"kitchen_id": kitchenID, "specific_date": date}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetOverride - build select query: %v", ErrBuildQuery, err)
	}

	override, err := scanOverride(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOverrideNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetOverride - scan override: %v", ErrScanRow, err)
	}

	return override, nil
}

// GetOverrides получает исключения кухни за период (границы опциональны)
func (r *Repository) GetOverrides(ctx context.Context, kitchenID int64, from, to *types.Date) ([]*domain.DateOverride, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(overrideColumns...).
		From(overrideTable).
		Where(squirrel.Eq{"kitchen_id": kitchenID}).
		OrderBy("specific_date ASC")

	if from != nil {
		selectBuilder = selectBuilder.Where(squirrel.GtOrEq{"specific_date": *from})
	}
	if to != nil {
		selectBuilder = selectBuilder.Where(squirrel.LtOrEq{"specific_date": *to})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetOverrides - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetOverrides - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	result := make([]*domain.DateOverride, 0)
	for rows.Next() {
		override, err := scanOverride(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: GetOverrides - scan row: %v", ErrScanRow, err)
		}
		result = append(result, override)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetOverrides - rows error: %v", ErrScanRow, err)
	}

	return result, nil
}

// UpsertOverride создает или заменяет исключение на дату
func (r *Repository) UpsertOverride(ctx context.Context, override *domain.DateOverride) (*domain.DateOverride, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(overrideTable).
		Columns(
			"kitchen_id",
			"specific_date",
			"start_time",
			"end_time",
			"is_available",
			"max_slots_per_chef",
			"reason",
		).
		Values(
			override.KitchenID,
			override.SpecificDate,
			override.StartTime,
			override.EndTime,
			override.IsAvailable,
			override.MaxSlotsPerChef,
			override.Reason,
		).
		Suffix(`ON CONFLICT (kitchen_id, specific_date) DO UPDATE SET
			start_time = EXCLUDED.start_time,
			end_time = EXCLUDED.end_time,
			is_available = EXCLUDED.is_available,
			max_slots_per_chef = EXCLUDED.max_slots_per_chef,
			reason = EXCLUDED.reason,
			updated_at = NOW()
			RETURNING id, updated_at`).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: UpsertOverride - build insert query: %v", ErrBuildQuery, err)
	}

	var updatedAt sql.NullTime
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&override.ID, &updatedAt); err != nil {
		return nil, fmt.Errorf("%w: UpsertOverride - execute upsert: %v", ErrExecQuery, err)
	}
	override.UpdatedAt = updatedAt.Time

	return override, nil
}

// DeleteOverride удаляет исключение на дату
func (r *Repository) DeleteOverride(ctx context.Context, kitchenID int64, date types.Date) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete(overrideTable).
		Where(squirrel.Eq{"kitchen_id": kitchenID, "specific_date": date}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: DeleteOverride - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: DeleteOverride - execute delete: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: DeleteOverride - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrOverrideNotFound
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanWeekly(row rowScanner) (*domain.WeeklyAvailability, error) {
	var w domain.WeeklyAvailability
	var updatedAt sql.NullTime

	if err := row.Scan(
		&w.ID,
		&w.KitchenID,
		&w.DayOfWeek,
		&w.StartTime,
		&w.EndTime,
		&w.IsAvailable,
		&w.MaxSlotsPerChef,
		&updatedAt,
	); err != nil {
		return nil, err
	}

	w.UpdatedAt = updatedAt.Time
	return &w, nil
}

func scanOverride(row rowScanner) (*domain.DateOverride, error) {
	var o domain.DateOverride
	var updatedAt sql.NullTime

	if err := row.Scan(
		&o.ID,
		&o.KitchenID,
		&o.SpecificDate,
		&o.StartTime,
		&o.EndTime,
		&o.IsAvailable,
		&o.MaxSlotsPerChef,
		&o.Reason,
		&updatedAt,
	); err != nil {
		return nil, err
	}

	o.UpdatedAt = updatedAt.Time
	return &o, nil
}
