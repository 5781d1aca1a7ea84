package delete_date_override

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/Raunak-Sarmacharya/LocalCooksCommunity-sub005/internal/api/handlers"
	"github.com/Raunak-Sarmacharya/LocalCooksCommunity-sub005/internal/api/middleware"
	"github.com/Raunak-Sarmacharya/LocalCooksCommunity-sub005/internal/service/schedule"
	"github.com/Raunak-Sarmacharya/LocalCooksCommunity-sub005/internal/service/schedule/models"
	"github.com/Raunak-Sarmacharya/LocalCooksCommunity-sub005/pkg/types"
)

const (
	msgInvalidKitchenID = "некорректный ID кухни"
	msgInvalidDate      = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgMissingUserID    = "отсутствует ID пользователя"
	msgKitchenNotFound  = "кухня не найдена"
	msgOverrideNotFound = "исключение на эту дату не найдено"
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

// Handle DELETE /api/v1/kitchens/{kitchenId}/schedule/overrides/{date}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	kitchenID, err := handlers.PathInt64(r, "kitchenId")
	if err != nil {
		h.logger.Warn("DELETE /kitchens/{id}/schedule/overrides/{date} - Invalid kitchen ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidKitchenID)
		return
	}

	date, err := types.ParseDate(mux.Vars(r)["date"])
	if err != nil {
		h.logger.Warn("DELETE /kitchens/{id}/schedule/overrides/{date} - Invalid date: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		h.logger.Warn("DELETE /kitchens/{id}/schedule/overrides/{date} - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	err = h.service.DeleteDateOverride(r.Context(), &models.OverrideKeyRequest{
		Actor:     actor,
		KitchenID: kitchenID,
		Date:      date,
	})
	if err != nil {
		switch {
		case errors.Is(err, schedule.ErrOverrideNotFound):
			h.logger.Warn("DELETE /kitchens/{id}/schedule/overrides/{date} - Override not found: kitchen_id=%d, date=%s",
				kitchenID, date)
			handlers.RespondNotFound(w, msgOverrideNotFound)

		case errors.Is(err, schedule.ErrKitchenNotFound), errors.Is(err, schedule.ErrLocationNotFound):
			h.logger.Warn("DELETE /kitchens/{id}/schedule/overrides/{date} - Kitchen not found: kitchen_id=%d", kitchenID)
			handlers.RespondNotFound(w, msgKitchenNotFound)

		case errors.Is(err, schedule.ErrAccessDenied):
			h.logger.Warn("DELETE /kitchens/{id}/schedule/overrides/{date} - Access denied: kitchen_id=%d, user_id=%d",
				kitchenID, actor.UserID)
			handlers.RespondForbidden(w, msgForbidden)

		default:
			h.logger.Error("DELETE /kitchens/{id}/schedule/overrides/{date} - Failed to delete override: kitchen_id=%d, error=%v",
				kitchenID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("DELETE /kitchens/{id}/schedule/overrides/{date} - Override deleted: kitchen_id=%d, date=%s",
		kitchenID, date)
	w.WriteHeader(http.StatusNoContent)
}
