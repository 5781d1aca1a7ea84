package booking

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("booking.repository: booking not found")

	// ErrSlotNotAvailable возвращается при нарушении exclusion constraint (пересечение активных бронирований)
	ErrSlotNotAvailable = errors.New("booking.repository: slot not available")

	// ErrStatusMismatch возвращается, когда условное обновление не нашло бронирование в ожидаемом статусе
	ErrStatusMismatch = errors.New("booking.repository: booking is not in expected status")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("booking.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("booking.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("booking.repository: failed to scan row")
)
