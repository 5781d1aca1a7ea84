package notifications

import "errors"

var (
	// ErrSendFailed возвращается, когда провайдер не принял сообщение
	ErrSendFailed = errors.New("notifications: send failed")

	// ErrNoRecipient возвращается, когда у сообщения нет адресата
	ErrNoRecipient = errors.New("notifications: no recipient")
)
