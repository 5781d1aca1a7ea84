package window

import (
	"fmt"
	"time"

	"github.com/Raunak-Sarmacharya/LocalCooksCommunity-sub005/internal/domain"
)

// ViolationError время уже прошло или попадает в минимальное окно бронирования
type ViolationError struct {
	Reason             string // domain.SlotReasonPast | domain.SlotReasonNoticeWindow
	MinimumWindowHours int
	Instant            time.Time
}

func (e *ViolationError) Error() string {
	if e.Reason == domain.SlotReasonPast {
		return fmt.Sprintf("cannot book a time slot that has already passed (%s)", e.Instant.Format(time.RFC3339))
	}
	return fmt.Sprintf("bookings must be made at least %d hour(s) in advance (%s)",
		e.MinimumWindowHours, e.Instant.Format(time.RFC3339))
}

func (e *ViolationError) Unwrap() error {
	return domain.ErrWindowViolation
}
