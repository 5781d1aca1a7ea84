package capture_payments

import (
	"context"
	"time"

	"github.com/Raunak-Sarmacharya/LocalCooksCommunity-sub005/internal/domain"
	"github.com/Raunak-Sarmacharya/LocalCooksCommunity-sub005/internal/integrations/payments"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetCaptureCandidates(ctx context.Context, now time.Time) ([]*domain.CaptureCandidate, error)
	UpdatePaymentStatus(ctx context.Context, id int64, from, to domain.PaymentStatus) error
}

// PaymentRepository интерфейс репозитория зеркал платежей
type PaymentRepository interface {
	Create(ctx context.Context, tx *domain.PaymentTransaction) (*domain.PaymentTransaction, error)
	UpdateStatus(ctx context.Context, intentID string, status domain.PaymentTransactionStatus, chargeID *string, paidAt *time.Time) error
}

// PaymentClient интерфейс клиента платежного провайдера
type PaymentClient interface {
	GetIntent(ctx context.Context, intentID string) (*payments.Intent, error)
	Capture(ctx context.Context, intentID string) (*payments.Intent, error)
}

// Clock источник текущего времени и часовых поясов локаций
type Clock interface {
	Now() time.Time
	LoadLocation(name string) *time.Location
}

// Metrics интерфейс метрик прогона
type Metrics interface {
	ObserveCaptureRun(captured, skipped, failed int, duration time.Duration)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
