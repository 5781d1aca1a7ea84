package create_booking

import (
	"errors"
	"fmt"

	"github.com/Raunak-Sarmacharya/LocalCooksCommunity-sub005/internal/domain"
)

var (
	// ErrKitchenNotFound возвращается, когда кухня не найдена
	ErrKitchenNotFound = fmt.Errorf("create_booking: kitchen %w", domain.ErrNotFound)

	// ErrLocationNotFound возвращается, когда локация кухни не найдена
	ErrLocationNotFound = fmt.Errorf("create_booking: location %w", domain.ErrNotFound)

	// ErrKitchenInactive возвращается, когда кухня не принимает бронирования
	ErrKitchenInactive = fmt.Errorf("create_booking: kitchen is inactive: %w", domain.ErrClosed)

	// ErrSlotNotAvailable возвращается, когда пересекающийся слот занят параллельным запросом
	ErrSlotNotAvailable = fmt.Errorf("create_booking: %w", domain.ErrConflict)

	// ErrPaymentFailed возвращается, когда провайдер отклонил авторизацию
	ErrPaymentFailed = fmt.Errorf("create_booking: payment authorization failed: %w", domain.ErrPaymentProvider)

	// ErrPaymentIntentRejected возвращается, когда hold из запроса не найден или не покрывает бронирование
	ErrPaymentIntentRejected = fmt.Errorf("create_booking: payment intent rejected: %w", domain.ErrPaymentProvider)

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = fmt.Errorf("create_booking: %w", domain.ErrValidation)

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_booking: internal error")
)
