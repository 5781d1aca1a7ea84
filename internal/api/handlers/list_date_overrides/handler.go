package list_date_overrides

import (
	"errors"
	"net/http"

	"github.com/Raunak-Sarmacharya/LocalCooksCommunity-sub005/internal/api/handlers"
	"github.com/Raunak-Sarmacharya/LocalCooksCommunity-sub005/internal/api/middleware"
	"github.com/Raunak-Sarmacharya/LocalCooksCommunity-sub005/internal/service/schedule"
	"github.com/Raunak-Sarmacharya/LocalCooksCommunity-sub005/internal/service/schedule/models"
)

const (
	msgInvalidKitchenID = "некорректный ID кухни"
	msgMissingUserID    = "отсутствует ID пользователя"
	msgInvalidPeriod    = "некорректный период, ожидается YYYY-MM-DD"
	msgKitchenNotFound  = "кухня не найдена"
	msgForbidden        = "доступ запрещен"
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

// Handle GET /api/v1/kitchens/{kitchenId}/schedule/overrides?from=&to=
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	kitchenID, err := handlers.PathInt64(r, "kitchenId")
	if err != nil {
		h.logger.Warn("GET /kitchens/{id}/schedule/overrides - Invalid kitchen ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidKitchenID)
		return
	}

	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	from, err := handlers.QueryDate(r, "from")
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidPeriod)
		return
	}
	to, err := handlers.QueryDate(r, "to")
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidPeriod)
		return
	}

	overrides, err := h.service.ListDateOverrides(r.Context(), &models.GetScheduleRequest{
		Actor:     actor,
		KitchenID: kitchenID,
		From:      from,
		To:        to,
	})
	if err != nil {
		switch {
		case errors.Is(err, schedule.ErrKitchenNotFound), errors.Is(err, schedule.ErrLocationNotFound):
			handlers.RespondNotFound(w, msgKitchenNotFound)

		case errors.Is(err, schedule.ErrAccessDenied):
			h.logger.Warn("GET /kitchens/{id}/schedule/overrides - Access denied: kitchen_id=%d, user_id=%d",
				kitchenID, actor.UserID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, schedule.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidPeriod)

		default:
			h.logger.Error("GET /kitchens/{id}/schedule/overrides - Failed to list overrides: kitchen_id=%d, error=%v",
				kitchenID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /kitchens/{id}/schedule/overrides - Overrides listed: kitchen_id=%d, count=%d",
		kitchenID, len(overrides))
	handlers.RespondJSON(w, http.StatusOK, overrides)
}
