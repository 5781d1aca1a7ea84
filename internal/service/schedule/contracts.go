package schedule

import (
	"context"

	"github.com/Raunak-Sarmacharya/LocalCooksCommunity-sub005/internal/domain"
	"github.com/Raunak-Sarmacharya/LocalCooksCommunity-sub005/pkg/types"
)

// AvailabilityRepository интерфейс репозитория расписания кухни
type AvailabilityRepository interface {
	GetAllWeekly(ctx context.Context, kitchenID int64) ([]*domain.WeeklyAvailability, error)
	UpsertWeekly(ctx context.Context, weekly *domain.WeeklyAvailability) (*domain.WeeklyAvailability, error)
	GetOverrides(ctx context.Context, kitchenID int64, from, to *types.Date) ([]*domain.DateOverride, error)
	UpsertOverride(ctx context.Context, override *domain.DateOverride) (*domain.DateOverride, error)
	DeleteOverride(ctx context.Context, kitchenID int64, date types.Date) error
}

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	CountByKitchenDateAndStatus(ctx context.Context, kitchenID int64, date types.Date, status domain.BookingStatus) (int, error)
}

// KitchenRepository интерфейс репозитория кухонь
type KitchenRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Kitchen, error)
}

// LocationRepository интерфейс репозитория локаций
type LocationRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Location, error)
	UpdatePolicy(ctx context.Context, id int64, policy domain.LocationPolicy) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
