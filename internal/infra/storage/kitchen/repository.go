package kitchen

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
	"location_id",
	"name",
	"is_active",
	"hourly_rate_cents",
	"currency",
	"created_at",
	"updated_at",
}

// Repository репозиторий кухонь
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория кухонь
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByID получает кухню по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Kitchen, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(columns...).
		From("kitchens").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	kitchen, err := scanKitchen(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrKitchenNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan kitchen: %v", ErrScanRow, err)
	}

	return kitchen, nil
}

// GetByLocationID получает кухни локации
func (r *Repository) GetByLocationID(ctx context.Context, locationID int64, onlyActive bool) ([]*domain.Kitchen, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(columns...).
		From("kitchens").
		Where(squirrel.Eq{"location_id": locationID}).
		OrderBy("id ASC")

	if onlyActive {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"is_active": true})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByLocationID - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByLocationID - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	kitchens := make([]*domain.Kitchen, 0)
	for rows.Next() {
		kitchen, err := scanKitchen(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: GetByLocationID - scan row: %v", ErrScanRow, err)
		}
		kitchens = append(kitchens, kitchen)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetByLocationID - rows error: %v", ErrScanRow, err)
	}

	return kitchens, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanKitchen(row rowScanner) (*domain.Kitchen, error) {
	var k domain.Kitchen
	var createdAt, updatedAt sql.NullTime

	if err := row.Scan(
		&k.ID,
		&k.LocationID,
		&k.Name,
		&k.IsActive,
		&k.HourlyRateCents,
		&k.Currency,
		&createdAt,
		&updatedAt,
	); err != nil {
		return nil, err
	}

	k.CreatedAt = createdAt.Time
	k.UpdatedAt = updatedAt.Time
	return &k, nil
}
