package lock

import "errors"

var (
	// ErrLockHeld возвращается, когда слот уже заблокирован другим запросом
	ErrLockHeld = errors.New("lock: slot is locked by another request")

	// ErrLockBackend возвращается при ошибках Redis
	ErrLockBackend = errors.New("lock: backend error")
)
