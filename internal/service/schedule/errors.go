package schedule

import (
	"errors"
	"fmt"

	"github.com/Raunak-Sarmacharya/LocalCooksCommunity-sub005/internal/domain"
)

var (
	// ErrKitchenNotFound возвращается, когда кухня не найдена
	ErrKitchenNotFound = fmt.Errorf("schedule: kitchen %w", domain.ErrNotFound)

	// ErrLocationNotFound возвращается, когда локация не найдена
	ErrLocationNotFound = fmt.Errorf("schedule: location %w", domain.ErrNotFound)

	// ErrOverrideNotFound возвращается, когда исключения на дату нет
	ErrOverrideNotFound = fmt.Errorf("schedule: date override %w", domain.ErrNotFound)

	// ErrAccessDenied возвращается, когда пользователь не менеджер локации
	ErrAccessDenied = fmt.Errorf("schedule: access denied: %w", domain.ErrForbidden)

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = fmt.Errorf("schedule: %w", domain.ErrValidation)

	// ErrDateHasConfirmedBookings возвращается при попытке закрыть дату с подтвержденными бронированиями
	ErrDateHasConfirmedBookings = fmt.Errorf("schedule: date has confirmed bookings: %w", domain.ErrConflict)

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("schedule: internal error")
)
