package window

import (
	"time"

	"github.com/Raunak-Sarmacharya/LocalCooksCommunity-sub005/internal/domain"
	"github.com/Raunak-Sarmacharya/LocalCooksCommunity-sub005/pkg/types"
)

// Validator проверяет, что бронирование не в прошлом и не внутри минимального окна
type Validator struct {
	clock Clock
}

// NewValidator создает валидатор окна бронирования
func NewValidator(clock Clock) *Validator {
	return &Validator{clock: clock}
}

// Validate проверяет начало бронирования относительно текущего времени в поясе локации.
// Ровно minimumBookingWindowHours до начала - допустимо.
func (v *Validator) Validate(location *domain.Location, date types.Date, start types.TimeString) error {
	instant := date.At(start, v.clock.LoadLocation(location.Timezone))
	return Check(instant, v.clock.Now(), location.MinimumBookingWindowHours)
}

// Check чистая проверка момента начала относительно now
func Check(instant, now time.Time, minimumWindowHours int) error {
	reason := Classify(instant, now, minimumWindowHours)
	if reason == "" {
		return nil
	}
	return &ViolationError{
		Reason:             reason,
		MinimumWindowHours: minimumWindowHours,
		Instant:            instant,
	}
}

// Classify возвращает причину недоступности или пустую строку
func Classify(instant, now time.Time, minimumWindowHours int) string {
	if !instant.After(now) {
		return domain.SlotReasonPast
	}
	if instant.Sub(now) < time.Duration(minimumWindowHours)*time.Hour {
		return domain.SlotReasonNoticeWindow
	}
	return ""
}
