package domain

import "errors"

// Таксономия ошибок ядра бронирования.
// Ошибки компонентов оборачивают эти значения, обработчики сравнивают через errors.Is.
var (
	// ErrValidation некорректные входные данные
	ErrValidation = errors.New("validation error")

	// ErrNotFound кухня, локация или бронирование не найдены
	ErrNotFound = errors.New("not found")

	// ErrForbidden у пользователя нет прав на операцию
	ErrForbidden = errors.New("forbidden")

	// ErrClosed на запрошенное время нет открытого окна
	ErrClosed = errors.New("kitchen is closed for the requested time")

	// ErrCapacityExceeded превышен дневной лимит слот-часов
	ErrCapacityExceeded = errors.New("daily booking limit exceeded")

	// ErrConflict слот уже занят
	ErrConflict = errors.New("slot already booked")

	// ErrWindowViolation время уже прошло или попадает в минимальное окно бронирования
	ErrWindowViolation = errors.New("booking window violation")

	// ErrInvalidTransition недопустимый переход статуса
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrPaymentProvider ошибка платежного провайдера
	ErrPaymentProvider = errors.New("payment provider error")
)
