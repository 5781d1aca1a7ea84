package payments

import "errors"

var (
	// ErrIntentNotFound возвращается, когда платежное намерение не найдено у провайдера
	ErrIntentNotFound = errors.New("payments client: payment intent not found")

	// ErrDeclined возвращается, когда провайдер отклонил операцию
	ErrDeclined = errors.New("payments client: operation declined")

	// ErrInternal возвращается при внутренних ошибках клиента (сеть, таймаут)
	ErrInternal = errors.New("payments client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе от провайдера
	ErrInvalidResponse = errors.New("payments client: invalid response")
)
