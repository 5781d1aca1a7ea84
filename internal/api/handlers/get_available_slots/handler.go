package get_available_slots

import (
	"errors"
	"net/http"

	"github.com/Raunak-Sarmacharya/LocalCooksCommunity-sub005/internal/api/handlers"
	"github.com/Raunak-Sarmacharya/LocalCooksCommunity-sub005/internal/api/middleware"
	"github.com/Raunak-Sarmacharya/LocalCooksCommunity-sub005/internal/domain"
	getAvailableSlots "github.com/Raunak-Sarmacharya/LocalCooksCommunity-sub005/internal/usecase/get_available_slots"
)

const (
	msgInvalidKitchenID = "некорректный ID кухни"
	msgMissingDate      = "дата обязательна"
	msgInvalidDate      = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgKitchenNotFound  = "кухня не найдена"
	msgLocationNotFound = "локация кухни не найдена"
)

type Handler struct {
	useCase GetAvailableSlotsUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailableSlotsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/kitchens/{kitchenId}/availability
// Query params: date (required, YYYY-MM-DD)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	kitchenID, err := handlers.PathInt64(r, "kitchenId")
	if err != nil {
		h.logger.Warn("GET /kitchens/{id}/availability - Invalid kitchen ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidKitchenID)
		return
	}

	date, err := handlers.QueryDate(r, "date")
	if err != nil {
		h.logger.Warn("GET /kitchens/{id}/availability - Invalid date format: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}
	if date == nil {
		h.logger.Warn("GET /kitchens/{id}/availability - Missing date")
		handlers.RespondBadRequest(w, msgMissingDate)
		return
	}

	// Публичный маршрут: пользователь нужен только для логов
	actor, _ := middleware.GetActor(r.Context())

	result, err := h.useCase.Execute(r.Context(), &getAvailableSlots.Request{
		UserID:    actor.UserID,
		KitchenID: kitchenID,
		Date:      *date,
	})
	if err != nil {
		switch {
		case errors.Is(err, getAvailableSlots.ErrKitchenNotFound):
			h.logger.Warn("GET /kitchens/{id}/availability - Kitchen not found: kitchen_id=%d", kitchenID)
			handlers.RespondNotFound(w, msgKitchenNotFound)

		case errors.Is(err, getAvailableSlots.ErrLocationNotFound):
			h.logger.Warn("GET /kitchens/{id}/availability - Location not found: kitchen_id=%d", kitchenID)
			handlers.RespondNotFound(w, msgLocationNotFound)

		case errors.Is(err, domain.ErrValidation):
			h.logger.Warn("GET /kitchens/{id}/availability - Invalid request: %v", err)
			handlers.RespondBadRequest(w, err.Error())

		default:
			h.logger.Error("GET /kitchens/{id}/availability - Failed to get slots: kitchen_id=%d, date=%s, error=%v",
				kitchenID, date, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /kitchens/{id}/availability - Slots retrieved successfully: kitchen_id=%d, date=%s, slots_count=%d",
		kitchenID, date, len(result.Slots))
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
