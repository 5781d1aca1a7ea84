package bookings

import (
	"errors"
	"fmt"

	"github.com/Raunak-Sarmacharya/LocalCooksCommunity-sub005/internal/domain"
)

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = fmt.Errorf("bookings: booking %w", domain.ErrNotFound)

	// ErrKitchenNotFound возвращается, когда кухня не найдена
	ErrKitchenNotFound = fmt.Errorf("bookings: kitchen %w", domain.ErrNotFound)

	// ErrLocationNotFound возвращается, когда локация не найдена
	ErrLocationNotFound = fmt.Errorf("bookings: location %w", domain.ErrNotFound)

	// ErrAccessDenied возвращается, когда у пользователя нет прав доступа
	ErrAccessDenied = fmt.Errorf("bookings: access denied: %w", domain.ErrForbidden)

	// ErrCannotCancel возвращается, когда бронирование не может быть отменено
	ErrCannotCancel = fmt.Errorf("bookings: booking cannot be cancelled: %w", domain.ErrInvalidTransition)

	// ErrCannotConfirm возвращается, когда бронирование не в статусе pending
	ErrCannotConfirm = fmt.Errorf("bookings: booking cannot be confirmed: %w", domain.ErrInvalidTransition)

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = fmt.Errorf("bookings: %w", domain.ErrValidation)

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("bookings: internal error")
)
