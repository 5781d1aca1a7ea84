package availability

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Raunak-Sarmacharya/LocalCooksCommunity-sub005/internal/domain"
	"github.com/Raunak-Sarmacharya/LocalCooksCommunity-sub005/pkg/types"
)

// ErrInternal возвращается при внутренних ошибках сервиса
var ErrInternal = errors.New("availability: internal error")

// ClosedError на запрошенное время нет открытого окна.
// Содержит окна, открытые на эту дату (пусто, если кухня закрыта весь день).
type ClosedError struct {
	Date    types.Date
	Windows []domain.TimeWindow
}

func (e *ClosedError) Error() string {
	if len(e.Windows) == 0 {
		return fmt.Sprintf("kitchen is closed on %s", e.Date)
	}
	parts := make([]string, 0, len(e.Windows))
	for _, w := range e.Windows {
		parts = append(parts, fmt.Sprintf("%s-%s", w.Start, w.End))
	}
	return fmt.Sprintf("requested time is outside of open hours on %s (open: %s)", e.Date, strings.Join(parts, ", "))
}

func (e *ClosedError) Unwrap() error {
	return domain.ErrClosed
}
