package create_booking

import (
	"context"

	"github.com/Raunak-Sarmacharya/LocalCooksCommunity-sub005/internal/domain"
	"github.com/Raunak-Sarmacharya/LocalCooksCommunity-sub005/internal/integrations/notifications"
	"github.com/Raunak-Sarmacharya/LocalCooksCommunity-sub005/internal/integrations/payments"
	"github.com/Raunak-Sarmacharya/LocalCooksCommunity-sub005/internal/service/capacity"
	"github.com/Raunak-Sarmacharya/LocalCooksCommunity-sub005/pkg/types"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
}

// PaymentRepository интерфейс репозитория зеркал платежей
type PaymentRepository interface {
	Create(ctx context.Context, tx *domain.PaymentTransaction) (*domain.PaymentTransaction, error)
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

// CapacityGovernor дневной лимит слот-часов бронирующего
type CapacityGovernor interface {
	Check(ctx context.Context, kitchenID int64, location *domain.Location, date types.Date, bookerKey string, start, end types.TimeString) (*capacity.Decision, error)
}

// WindowValidator проверка минимального окна бронирования
type WindowValidator interface {
	Validate(location *domain.Location, date types.Date, start types.TimeString) error
}

// ConflictDetector проверка пересечения с активными бронированиями
type ConflictDetector interface {
	Check(ctx context.Context, kitchenID int64, date types.Date, start, end types.TimeString) error
}

// SlotLocker короткая блокировка (кухня, дата) перед транзакцией
type SlotLocker interface {
	Acquire(ctx context.Context, kitchenID int64, date types.Date) (func(context.Context) error, error)
}

// PaymentClient интерфейс клиента платежного провайдера
type PaymentClient interface {
	Authorize(ctx context.Context, req payments.AuthorizeRequest) (*payments.Intent, error)
	GetIntent(ctx context.Context, intentID string) (*payments.Intent, error)
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
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
