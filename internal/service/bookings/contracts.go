package bookings

import (
	"context"
	"time"

	"github.com/Raunak-Sarmacharya/LocalCooksCommunity-sub005/internal/domain"
	"github.com/Raunak-Sarmacharya/LocalCooksCommunity-sub005/internal/integrations/notifications"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	GetByBooker(ctx context.Context, userID int64, status *domain.BookingStatus) ([]*domain.Booking, error)
	GetByKitchenWithFilter(ctx context.Context, filter domain.KitchenBookingsFilter) ([]*domain.Booking, error)
	TransitionStatus(ctx context.Context, id int64, from []domain.BookingStatus, to domain.BookingStatus) error
	Cancel(ctx context.Context, id int64, reason *string) error
}

// KitchenRepository интерфейс репозитория кухонь
type KitchenRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Kitchen, error)
}

// LocationRepository интерфейс репозитория локаций
type LocationRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Location, error)
}

// PaymentRepository интерфейс репозитория зеркал платежей
type PaymentRepository interface {
	UpdateStatus(ctx context.Context, intentID string, status domain.PaymentTransactionStatus, chargeID *string, paidAt *time.Time) error
}

// PaymentClient интерфейс клиента платежного провайдера
type PaymentClient interface {
	Release(ctx context.Context, intentID string) error
}

// Notifier интерфейс рассылки уведомлений
type Notifier interface {
	Notify(event notifications.Event)
}

// Metrics интерфейс метрик бронирований
type Metrics interface {
	ObserveBooking(operation, outcome string)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
