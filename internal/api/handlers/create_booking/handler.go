package create_booking

import (
	"errors"
	"net/http"

	"github.com/Raunak-Sarmacharya/LocalCooksCommunity-sub005/internal/api/handlers"
	"github.com/Raunak-Sarmacharya/LocalCooksCommunity-sub005/internal/api/middleware"
	"github.com/Raunak-Sarmacharya/LocalCooksCommunity-sub005/internal/domain"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidFields      = "некорректные поля запроса"
	msgKitchenNotFound    = "кухня не найдена"
	msgKitchenClosed      = "кухня закрыта в выбранное время"
	msgCapacityExceeded   = "превышен дневной лимит слотов"
	msgWindowViolation    = "слишком поздно для бронирования этого слота"
	msgSlotNotAvailable   = "выбранный временной слот уже занят"
	msgPaymentFailed      = "не удалось авторизовать платеж"
)

type Handler struct {
	useCase CreateBookingUseCase
	logger  Logger
}

func NewHandler(useCase CreateBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings
// Без X-User-ID бронирование анонимное, контакт обязателен.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req CreateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	if err := handlers.Validate(&req); err != nil {
		h.logger.Warn("POST /bookings - Invalid fields: %v", err)
		handlers.RespondValidationError(w, msgInvalidFields, err)
		return
	}

	actor, _ := middleware.GetActor(r.Context())

	useCaseReq, err := req.ToUseCaseRequest(actor)
	if err != nil {
		h.logger.Warn("POST /bookings - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidFields)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrValidation):
			h.logger.Warn("POST /bookings - Invalid request: user_id=%d, error=%v", actor.UserID, err)
			handlers.RespondBadRequest(w, err.Error())

		case errors.Is(err, domain.ErrNotFound):
			h.logger.Warn("POST /bookings - Kitchen not found: kitchen_id=%d", req.KitchenID)
			handlers.RespondNotFound(w, msgKitchenNotFound)

		case errors.Is(err, domain.ErrClosed):
			h.logger.Warn("POST /bookings - Kitchen closed: kitchen_id=%d, %v", req.KitchenID, err)
			handlers.RespondDomainError(w, err, msgKitchenClosed)

		case errors.Is(err, domain.ErrCapacityExceeded):
			h.logger.Warn("POST /bookings - Capacity exceeded: user_id=%d, kitchen_id=%d, %v", actor.UserID, req.KitchenID, err)
			handlers.RespondDomainError(w, err, msgCapacityExceeded)

		case errors.Is(err, domain.ErrWindowViolation):
			h.logger.Warn("POST /bookings - Window violation: kitchen_id=%d, %v", req.KitchenID, err)
			handlers.RespondDomainError(w, err, msgWindowViolation)

		case errors.Is(err, domain.ErrConflict):
			h.logger.Warn("POST /bookings - Slot not available: kitchen_id=%d, %v", req.KitchenID, err)
			handlers.RespondDomainError(w, err, msgSlotNotAvailable)

		case errors.Is(err, domain.ErrPaymentProvider):
			h.logger.Warn("POST /bookings - Payment authorization failed: user_id=%d, %v", actor.UserID, err)
			handlers.RespondDomainError(w, err, msgPaymentFailed)

		default:
			h.logger.Error("POST /bookings - Failed to create booking: user_id=%d, kitchen_id=%d, error=%v",
				actor.UserID, req.KitchenID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings - Booking created successfully: booking_id=%d, user_id=%d, kitchen_id=%d",
		result.ID, actor.UserID, req.KitchenID)
	handlers.RespondJSON(w, http.StatusCreated, result)
}
