package get_available_slots

import (
	"context"
	"time"

	"github.com/Raunak-Sarmacharya/LocalCooksCommunity-sub005/internal/domain"
	"github.com/Raunak-Sarmacharya/LocalCooksCommunity-sub005/internal/service/capacity"
	"github.com/Raunak-Sarmacharya/LocalCooksCommunity-sub005/pkg/types"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByKitchenWithFilter(ctx context.Context, filter domain.KitchenBookingsFilter) ([]*domain.Booking, error)
}

// KitchenRepository интерфейс репозитория кухонь
type KitchenRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Kitchen, error)
}

// LocationRepository интерфейс репозитория локаций
type LocationRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Location, error)
}

// AvailabilityResolver открытые окна кухни на дату
type AvailabilityResolver interface {
	Resolve(ctx context.Context, kitchenID int64, date types.Date) ([]domain.TimeWindow, error)
}

// LimitResolver действующий дневной лимит слот-часов
type LimitResolver interface {
	Limit(ctx context.Context, kitchenID int64, location *domain.Location, date types.Date) (int, capacity.Source, error)
}

// Clock источник текущего времени и часовых поясов локаций
type Clock interface {
	Now() time.Time
	LoadLocation(name string) *time.Location
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
