package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/Raunak-Sarmacharya/LocalCooksCommunity-sub005/internal/domain"
	"github.com/Raunak-Sarmacharya/LocalCooksCommunity-sub005/internal/service/availability"
	"github.com/Raunak-Sarmacharya/LocalCooksCommunity-sub005/internal/service/capacity"
	"github.com/Raunak-Sarmacharya/LocalCooksCommunity-sub005/internal/service/conflicts"
	"github.com/Raunak-Sarmacharya/LocalCooksCommunity-sub005/internal/service/window"
	"github.com/Raunak-Sarmacharya/LocalCooksCommunity-sub005/pkg/types"
)

const (
	msgInternalError = "внутренняя ошибка сервера"
)

// ErrorResponse тело ответа с ошибкой
type ErrorResponse struct {
	Code    int                    `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// RespondJSON отправляет JSON ответ
func RespondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// RespondError отправляет ошибку без деталей
func RespondError(w http.ResponseWriter, status int, message string) {
	RespondJSON(w, status, ErrorResponse{Code: status, Message: message})
}

// RespondErrorWithDetails отправляет ошибку с контекстом (лимиты, окна, причина)
func RespondErrorWithDetails(w http.ResponseWriter, status int, message string, details map[string]interface{}) {
	RespondJSON(w, status, ErrorResponse{Code: status, Message: message, Details: details})
}

func RespondBadRequest(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusBadRequest, message)
}

func RespondUnauthorized(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusUnauthorized, message)
}

func RespondForbidden(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusForbidden, message)
}

func RespondNotFound(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusNotFound, message)
}

func RespondInternalError(w http.ResponseWriter) {
	RespondError(w, http.StatusInternalServerError, msgInternalError)
}

// StatusFor возвращает HTTP статус для ошибки из таксономии домена.
// Неизвестные ошибки - 500.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrClosed),
		errors.Is(err, domain.ErrCapacityExceeded),
		errors.Is(err, domain.ErrWindowViolation):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrConflict),
		errors.Is(err, domain.ErrInvalidTransition):
		return http.StatusConflict
	case errors.Is(err, domain.ErrPaymentProvider):
		return http.StatusPaymentRequired
	default:
		return http.StatusInternalServerError
	}
}

// RespondDomainError отправляет ошибку домена с деталями.
// Для 500 текст ошибки наружу не отдается.
func RespondDomainError(w http.ResponseWriter, err error, message string) {
	status := StatusFor(err)
	if status == http.StatusInternalServerError {
		RespondInternalError(w)
		return
	}
	RespondErrorWithDetails(w, status, message, ErrorDetails(err))
}

// ErrorDetails извлекает пользовательский контекст из ошибок компонентов
func ErrorDetails(err error) map[string]interface{} {
	var (
		closedErr   *availability.ClosedError
		capacityErr *capacity.ExceededError
		windowErr   *window.ViolationError
		conflictErr *conflicts.ConflictError
	)

	switch {
	case errors.As(err, &closedErr):
		windows := make([]map[string]string, 0, len(closedErr.Windows))
		for _, w := range closedErr.Windows {
			windows = append(windows, map[string]string{"start": w.Start.String(), "end": w.End.String()})
		}
		return map[string]interface{}{
			"date":    closedErr.Date.String(),
			"windows": windows,
		}

	case errors.As(err, &capacityErr):
		return map[string]interface{}{
			"limit":     capacityErr.Limit,
			"held":      capacityErr.Held,
			"requested": capacityErr.Requested,
			"source":    string(capacityErr.Source),
		}

	case errors.As(err, &windowErr):
		return map[string]interface{}{
			"reason":                    windowErr.Reason,
			"minimumBookingWindowHours": windowErr.MinimumWindowHours,
			"slotStart":                 windowErr.Instant.Format(time.RFC3339),
		}

	case errors.As(err, &conflictErr):
		if conflictErr.Existing == nil {
			return nil
		}
		// чужое бронирование: только занятый интервал
		return map[string]interface{}{
			"date":      conflictErr.Existing.BookingDate.String(),
			"startTime": conflictErr.Existing.StartTime.String(),
			"endTime":   conflictErr.Existing.EndTime.String(),
		}
	}

	return nil
}

// DecodeJSON декодирует тело запроса
func DecodeJSON(r *http.Request, v interface{}) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}

// PathInt64 читает положительный числовой параметр пути
func PathInt64(r *http.Request, name string) (int64, error) {
	value, err := strconv.ParseInt(mux.Vars(r)[name], 10, 64)
	if err != nil {
		return 0, err
	}
	if value <= 0 {
		return 0, strconv.ErrRange
	}
	return value, nil
}

// QueryDate читает необязательную дату YYYY-MM-DD из query
func QueryDate(r *http.Request, name string) (*types.Date, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	date, err := types.ParseDate(raw)
	if err != nil {
		return nil, err
	}
	return &date, nil
}
