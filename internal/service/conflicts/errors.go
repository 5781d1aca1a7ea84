package conflicts

import (
	"errors"
	"fmt"

	"github.com/Raunak-Sarmacharya/LocalCooksCommunity-sub005/internal/domain"
)

// ErrInternal возвращается при внутренних ошибках сервиса
var ErrInternal = errors.New("conflicts: internal error")

// ConflictError запрошенное время пересекается с активным бронированием
type ConflictError struct {
	Existing *domain.Booking
}

func (e *ConflictError) Error() string {
	if e.Existing == nil {
		return "slot already booked"
	}
	return fmt.Sprintf("slot already booked: %s-%s on %s",
		e.Existing.StartTime, e.Existing.EndTime, e.Existing.BookingDate)
}

func (e *ConflictError) Unwrap() error {
	return domain.ErrConflict
}
