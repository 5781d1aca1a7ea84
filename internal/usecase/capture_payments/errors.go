package capture_payments

import (
	"errors"
	"fmt"

	"github.com/Raunak-Sarmacharya/LocalCooksCommunity-sub005/internal/domain"
)

var (
	// ErrProvider возвращается, когда провайдер не ответил или отклонил списание
	ErrProvider = fmt.Errorf("capture_payments: %w", domain.ErrPaymentProvider)

	// ErrLedger возвращается, когда списание прошло, но бронирование не обновлено.
	// Следующий прогон увидит succeeded у провайдера и догонит бронирование.
	ErrLedger = errors.New("capture_payments: ledger update failed")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("capture_payments: internal error")
)
