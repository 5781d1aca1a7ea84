package capacity

import (
	"context"

	"github.com/Raunak-Sarmacharya/LocalCooksCommunity-sub005/internal/domain"
	"github.com/Raunak-Sarmacharya/LocalCooksCommunity-sub005/pkg/types"
)

// AvailabilityRepository интерфейс репозитория расписания (источник лимитов)
type AvailabilityRepository interface {
	GetWeekly(ctx context.Context, kitchenID int64, dayOfWeek int) (*domain.WeeklyAvailability, error)
	GetOverride(ctx context.Context, kitchenID int64, date types.Date) (*domain.DateOverride, error)
}

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByKitchenWithFilter(ctx context.Context, filter domain.KitchenBookingsFilter) ([]*domain.Booking, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
