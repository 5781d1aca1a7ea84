package capacity

import (
	"errors"
	"fmt"

	"github.com/Raunak-Sarmacharya/LocalCooksCommunity-sub005/internal/domain"
)

// ErrInternal возвращается при внутренних ошибках сервиса
var ErrInternal = errors.New("capacity: internal error")

// ExceededError дневной лимит слот-часов был бы превышен
type ExceededError struct {
	Limit     int
	Held      int
	Requested int
	Source    Source
}

func (e *ExceededError) Error() string {
	return fmt.Sprintf("daily limit of %d slot-hours exceeded: %d already booked + %d requested (limit from %s)",
		e.Limit, e.Held, e.Requested, e.Source)
}

func (e *ExceededError) Unwrap() error {
	return domain.ErrCapacityExceeded
}
