package availability

import "errors"

var (
	// ErrWeeklyNotFound возвращается, когда нет записи расписания на день недели
	ErrWeeklyNotFound = errors.New("availability.repository: weekly availability not found")

	// ErrOverrideNotFound возвращается, когда нет исключения на дату
	ErrOverrideNotFound = errors.New("availability.repository: date override not found")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("availability.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("availability.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("availability.repository: failed to scan row")
)
