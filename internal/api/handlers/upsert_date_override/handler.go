package upsert_date_override

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/Raunak-Sarmacharya/LocalCooksCommunity-sub005/internal/api/handlers"
	"github.com/Raunak-Sarmacharya/LocalCooksCommunity-sub005/internal/api/middleware"
	"github.com/Raunak-Sarmacharya/LocalCooksCommunity-sub005/internal/service/schedule"
	"github.com/Raunak-Sarmacharya/LocalCooksCommunity-sub005/pkg/types"
)

const (
	msgInvalidKitchenID   = "некорректный ID кухни"
	msgInvalidDate        = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidData        = "некорректные данные исключения"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgKitchenNotFound    = "кухня не найдена"
	msgForbidden          = "доступ запрещен"
	msgConfirmedBookings  = "на эту дату есть подтвержденные бронирования, сначала отмените их"
)

type Handler struct {
	service ScheduleService
	logger  Logger
}

func NewHandler(service ScheduleService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PUT /api/v1/kitchens/{kitchenId}/schedule/overrides/{date}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	kitchenID, err := handlers.PathInt64(r, "kitchenId")
	if err != nil {
		h.logger.Warn("PUT /kitchens/{id}/schedule/overrides/{date} - Invalid kitchen ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidKitchenID)
		return
	}

	date, err := types.ParseDate(mux.Vars(r)["date"])
	if err != nil {
		h.logger.Warn("PUT /kitchens/{id}/schedule/overrides/{date} - Invalid date: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		h.logger.Warn("PUT /kitchens/{id}/schedule/overrides/{date} - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req UpsertOverrideRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /kitchens/{id}/schedule/overrides/{date} - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	if err := handlers.Validate(&req); err != nil {
		h.logger.Warn("PUT /kitchens/{id}/schedule/overrides/{date} - Invalid fields: %v", err)
		handlers.RespondValidationError(w, msgInvalidData, err)
		return
	}

	result, err := h.service.UpsertDateOverride(r.Context(), req.ToServiceRequest(actor, kitchenID, date))
	if err != nil {
		switch {
		case errors.Is(err, schedule.ErrKitchenNotFound), errors.Is(err, schedule.ErrLocationNotFound):
			h.logger.Warn("PUT /kitchens/{id}/schedule/overrides/{date} - Kitchen not found: kitchen_id=%d", kitchenID)
			handlers.RespondNotFound(w, msgKitchenNotFound)

		case errors.Is(err, schedule.ErrAccessDenied):
			h.logger.Warn("PUT /kitchens/{id}/schedule/overrides/{date} - Access denied: kitchen_id=%d, user_id=%d",
				kitchenID, actor.UserID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, schedule.ErrInvalidInput):
			h.logger.Warn("PUT /kitchens/{id}/schedule/overrides/{date} - Invalid data: %v", err)
			handlers.RespondBadRequest(w, err.Error())

		case errors.Is(err, schedule.ErrDateHasConfirmedBookings):
			h.logger.Warn("PUT /kitchens/{id}/schedule/overrides/{date} - Date has confirmed bookings: kitchen_id=%d, date=%s",
				kitchenID, date)
			handlers.RespondError(w, http.StatusConflict, msgConfirmedBookings)

		default:
			h.logger.Error("PUT /kitchens/{id}/schedule/overrides/{date} - Failed to save override: kitchen_id=%d, error=%v",
				kitchenID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /kitchens/{id}/schedule/overrides/{date} - Override saved: kitchen_id=%d, date=%s, id=%d",
		kitchenID, date, result.ID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
