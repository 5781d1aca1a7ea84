package get_kitchen_bookings

import (
	"errors"
	"net/http"

	"github.com/Raunak-Sarmacharya/LocalCooksCommunity-sub005/internal/api/handlers"
	"github.com/Raunak-Sarmacharya/LocalCooksCommunity-sub005/internal/api/middleware"
	"github.com/Raunak-Sarmacharya/LocalCooksCommunity-sub005/internal/service/bookings"
)

const (
	msgInvalidKitchenID = "некорректный ID кухни"
	msgMissingUserID    = "отсутствует ID пользователя"
	msgInvalidParams    = "некорректные параметры запроса"
	msgKitchenNotFound  = "кухня не найдена"
	msgForbidden        = "доступ запрещен"
)

type Handler struct {
	service BookingService
	logger  Logger
}

func NewHandler(service BookingService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/kitchens/{kitchenId}/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	kitchenID, err := handlers.PathInt64(r, "kitchenId")
	if err != nil {
		h.logger.Warn("GET /kitchens/{id}/bookings - Invalid kitchen ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidKitchenID)
		return
	}

	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		h.logger.Warn("GET /kitchens/{id}/bookings - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	serviceReq, err := ToServiceRequest(r, kitchenID, actor)
	if err != nil {
		h.logger.Warn("GET /kitchens/{id}/bookings - Invalid parameters: %v", err)
		handlers.RespondBadRequest(w, msgInvalidParams)
		return
	}

	// Сервис сам проверит права менеджера
	result, err := h.service.ListKitchenBookings(r.Context(), serviceReq)
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrAccessDenied):
			h.logger.Warn("GET /kitchens/{id}/bookings - Access denied: kitchen_id=%d, user_id=%d",
				kitchenID, actor.UserID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, bookings.ErrKitchenNotFound), errors.Is(err, bookings.ErrLocationNotFound):
			h.logger.Warn("GET /kitchens/{id}/bookings - Kitchen not found: kitchen_id=%d", kitchenID)
			handlers.RespondNotFound(w, msgKitchenNotFound)

		case errors.Is(err, bookings.ErrInvalidInput):
			h.logger.Warn("GET /kitchens/{id}/bookings - Invalid filter: %v", err)
			handlers.RespondBadRequest(w, msgInvalidParams)

		default:
			h.logger.Error("GET /kitchens/{id}/bookings - Failed to get bookings: kitchen_id=%d, error=%v",
				kitchenID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /kitchens/{id}/bookings - Bookings retrieved successfully: kitchen_id=%d, count=%d",
		kitchenID, result.Total)
	handlers.RespondJSON(w, http.StatusOK, result)
}
