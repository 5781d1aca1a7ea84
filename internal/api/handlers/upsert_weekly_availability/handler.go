package upsert_weekly_availability

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/Raunak-Sarmacharya/LocalCooksCommunity-sub005/internal/api/handlers"
	"github.com/Raunak-Sarmacharya/LocalCooksCommunity-sub005/internal/api/middleware"
	"github.com/Raunak-Sarmacharya/LocalCooksCommunity-sub005/internal/service/schedule"
)

const (
	msgInvalidKitchenID   = "некорректный ID кухни"
	msgInvalidDayOfWeek   = "некорректный день недели, ожидается 0-6 (0 - воскресенье)"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidData        = "некорректные данные расписания"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgKitchenNotFound    = "кухня не найдена"
	msgForbidden          = "доступ запрещен"
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

// Handle PUT /api/v1/kitchens/{kitchenId}/schedule/weekly/{dayOfWeek}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	kitchenID, err := handlers.PathInt64(r, "kitchenId")
	if err != nil {
		h.logger.Warn("PUT /kitchens/{id}/schedule/weekly/{day} - Invalid kitchen ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidKitchenID)
		return
	}

	dayOfWeek, err := strconv.Atoi(mux.Vars(r)["dayOfWeek"])
	if err != nil || dayOfWeek < 0 || dayOfWeek > 6 {
		h.logger.Warn("PUT /kitchens/{id}/schedule/weekly/{day} - Invalid day of week: %s", mux.Vars(r)["dayOfWeek"])
		handlers.RespondBadRequest(w, msgInvalidDayOfWeek)
		return
	}

	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		h.logger.Warn("PUT /kitchens/{id}/schedule/weekly/{day} - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req UpsertWeeklyRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /kitchens/{id}/schedule/weekly/{day} - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	if err := handlers.Validate(&req); err != nil {
		h.logger.Warn("PUT /kitchens/{id}/schedule/weekly/{day} - Invalid fields: %v", err)
		handlers.RespondValidationError(w, msgInvalidData, err)
		return
	}

	// Сервис сам проверит права менеджера
	result, err := h.service.UpsertWeeklyAvailability(r.Context(), req.ToServiceRequest(actor, kitchenID, dayOfWeek))
	if err != nil {
		switch {
		case errors.Is(err, schedule.ErrKitchenNotFound), errors.Is(err, schedule.ErrLocationNotFound):
			h.logger.Warn("PUT /kitchens/{id}/schedule/weekly/{day} - Kitchen not found: kitchen_id=%d", kitchenID)
			handlers.RespondNotFound(w, msgKitchenNotFound)

		case errors.Is(err, schedule.ErrAccessDenied):
			h.logger.Warn("PUT /kitchens/{id}/schedule/weekly/{day} - Access denied: kitchen_id=%d, user_id=%d",
				kitchenID, actor.UserID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, schedule.ErrInvalidInput):
			h.logger.Warn("PUT /kitchens/{id}/schedule/weekly/{day} - Invalid data: %v", err)
			handlers.RespondBadRequest(w, err.Error())

		default:
			h.logger.Error("PUT /kitchens/{id}/schedule/weekly/{day} - Failed to save schedule: kitchen_id=%d, error=%v",
				kitchenID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /kitchens/{id}/schedule/weekly/{day} - Weekly entry saved: kitchen_id=%d, day=%d, id=%d",
		kitchenID, dayOfWeek, result.ID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
