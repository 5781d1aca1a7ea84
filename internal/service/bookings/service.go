package bookings

import (
	"context"
	"errors"
	"fmt"

	"github.com/Raunak-Sarmacharya/LocalCooksCommunity-sub005/internal/domain"
	bookingRepo "github.com/Raunak-Sarmacharya/LocalCooksCommunity-sub005/internal/infra/storage/booking"
	kitchenRepo "github.com/Raunak-Sarmacharya/LocalCooksCommunity-sub005/internal/infra/storage/kitchen"
	locationRepo "github.com/Raunak-Sarmacharya/LocalCooksCommunity-sub005/internal/infra/storage/location"
	paymentRepo "github.com/Raunak-Sarmacharya/LocalCooksCommunity-sub005/internal/infra/storage/payment"
	"github.com/Raunak-Sarmacharya/LocalCooksCommunity-sub005/internal/integrations/notifications"
	"github.com/Raunak-Sarmacharya/LocalCooksCommunity-sub005/internal/service/bookings/models"
)

// Service сервис переходов состояний бронирования (просмотр, подтверждение, отмена)
type Service struct {
	bookingRepo   BookingRepository
	kitchenRepo   KitchenRepository
	locationRepo  LocationRepository
	paymentRepo   PaymentRepository
	paymentClient PaymentClient
	notifier      Notifier
	txManager     TransactionManager
	metrics       Metrics
	logger        Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	bookingRepo BookingRepository,
	kitchenRepo KitchenRepository,
	locationRepo LocationRepository,
	paymentRepo PaymentRepository,
	paymentClient PaymentClient,
	notifier Notifier,
	txManager TransactionManager,
	metrics Metrics,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo:   bookingRepo,
		kitchenRepo:   kitchenRepo,
		locationRepo:  locationRepo,
		paymentRepo:   paymentRepo,
		paymentClient: paymentClient,
		notifier:      notifier,
		txManager:     txManager,
		metrics:       metrics,
		logger:        logger,
	}
}

// GetByID получает бронирование по ID
// Видеть бронирование может его автор или менеджер локации
func (s *Service) GetByID(ctx context.Context, id int64, actor domain.Actor) (*models.BookingResponse, error) {
	s.logger.Info("GetByID: fetching booking id=%d for user=%d", id, actor.UserID)

	booking, err := s.getBooking(ctx, "GetByID", id)
	if err != nil {
		return nil, err
	}

	if !booking.IsOwnedBy(actor.UserID) {
		if _, _, err := s.checkManagerAccess(ctx, "GetByID", booking.KitchenID, actor); err != nil {
			return nil, err
		}
	}

	s.logger.Info("GetByID: successfully fetched booking id=%d", id)
	return models.FromDomainBooking(booking), nil
}

// ListMyBookings получает историю бронирований пользователя
// Опционально фильтрует по статусу
func (s *Service) ListMyBookings(ctx context.Context, req *models.GetMyBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("ListMyBookings: fetching bookings for user=%d, status=%v", req.Actor.UserID, req.Status)

	var domainStatus *domain.BookingStatus
	if req.Status != nil {
		status, err := models.ToDomainBookingStatus(*req.Status)
		if err != nil {
			s.logger.Warn("ListMyBookings: invalid status=%s for user=%d", *req.Status, req.Actor.UserID)
			return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
		}
		domainStatus = &status
	}

	bookings, err := s.bookingRepo.GetByBooker(ctx, req.Actor.UserID, domainStatus)
	if err != nil {
		s.logger.Error("ListMyBookings: repository error for user=%d: %v", req.Actor.UserID, err)
		return nil, fmt.Errorf("%w: ListMyBookings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("ListMyBookings: successfully fetched %d bookings for user=%d", len(bookings), req.Actor.UserID)
	return models.FromDomainBookingList(bookings), nil
}

// ListKitchenBookings получает бронирования кухни с фильтрацией по периоду и статусу
// Доступно только менеджеру локации
func (s *Service) ListKitchenBookings(ctx context.Context, req *models.GetKitchenBookingsRequest) (*models.BookingListResponse, error) {
	logMsg := fmt.Sprintf("ListKitchenBookings: fetching bookings for kitchen=%d, user=%d", req.KitchenID, req.Actor.UserID)
	if req.StartDate != nil && req.EndDate != nil {
		logMsg += fmt.Sprintf(", period=%s to %s", req.StartDate, req.EndDate)
	}
	if req.Status != nil {
		logMsg += fmt.Sprintf(", status=%s", *req.Status)
	}
	s.logger.Info(logMsg)

	if _, _, err := s.checkManagerAccess(ctx, "ListKitchenBookings", req.KitchenID, req.Actor); err != nil {
		return nil, err
	}

	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("ListKitchenBookings: invalid filter for kitchen=%d: %v", req.KitchenID, err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	bookings, err := s.bookingRepo.GetByKitchenWithFilter(ctx, filter)
	if err != nil {
		s.logger.Error("ListKitchenBookings: repository error for kitchen=%d: %v", req.KitchenID, err)
		return nil, fmt.Errorf("%w: ListKitchenBookings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("ListKitchenBookings: successfully fetched %d bookings for kitchen=%d", len(bookings), req.KitchenID)
	return models.FromDomainBookingList(bookings), nil
}

// Confirm подтверждает бронирование: pending -> confirmed
// Доступно только менеджеру локации, которой принадлежит кухня
func (s *Service) Confirm(ctx context.Context, bookingID int64, actor domain.Actor) (*models.BookingResponse, error) {
	s.logger.Info("Confirm: confirming booking id=%d by user=%d", bookingID, actor.UserID)

	// 1. Получаем бронирование
	booking, err := s.getBooking(ctx, "Confirm", bookingID)
	if err != nil {
		return nil, err
	}

	// 2. Проверяем права менеджера
	kitchen, location, err := s.checkManagerAccess(ctx, "Confirm", booking.KitchenID, actor)
	if err != nil {
		return nil, err
	}

	if !booking.CanBeConfirmed() {
		s.logger.Warn("Confirm: booking id=%d cannot be confirmed, status=%s", bookingID, booking.Status)
		s.metrics.ObserveBooking("confirm", "invalid_transition")
		return nil, ErrCannotConfirm
	}

	// 3. Атомарный переход статуса (проигравший в гонке получает ErrCannotConfirm)
	err = s.bookingRepo.TransitionStatus(ctx, bookingID, []domain.BookingStatus{domain.StatusPending}, domain.StatusConfirmed)
	if err != nil {
		switch {
		case errors.Is(err, bookingRepo.ErrStatusMismatch):
			s.logger.Warn("Confirm: booking id=%d changed status concurrently", bookingID)
			s.metrics.ObserveBooking("confirm", "invalid_transition")
			return nil, ErrCannotConfirm
		case errors.Is(err, bookingRepo.ErrBookingNotFound):
			return nil, ErrBookingNotFound
		}
		s.logger.Error("Confirm: repository error for booking id=%d: %v", bookingID, err)
		s.metrics.ObserveBooking("confirm", "error")
		return nil, fmt.Errorf("%w: Confirm - repository error: %v", ErrInternal, err)
	}

	booking.Status = domain.StatusConfirmed
	s.metrics.ObserveBooking("confirm", "success")
	s.logger.Info("Confirm: successfully confirmed booking id=%d", bookingID)

	// 4. Уведомления не влияют на результат
	s.notifier.Notify(notifications.Event{
		Type:     notifications.EventBookingConfirmed,
		Booking:  *booking,
		Kitchen:  kitchen,
		Location: location,
	})

	return models.FromDomainBooking(booking), nil
}

// Cancel отменяет бронирование: {pending, confirmed} -> cancelled
// Автор может отменить свое бронирование, менеджер - любое бронирование локации
// 1. В транзакции блокируем строку, проверяем права и статус, отменяем
// 2. После коммита снимаем hold у провайдера (best effort)
// 3. Рассылаем уведомления
func (s *Service) Cancel(ctx context.Context, bookingID int64, req *models.CancelBookingRequest) (*models.BookingResponse, error) {
	s.logger.Info("Cancel: cancelling booking id=%d by user=%d", bookingID, req.Actor.UserID)

	if req.CancellationReason != nil && len(*req.CancellationReason) > domain.MaxCancellationReasonLength {
		return nil, fmt.Errorf("%w: cancellation reason is too long", ErrInvalidInput)
	}

	var (
		booking  *domain.Booking
		kitchen  *domain.Kitchen
		location *domain.Location
	)

	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		var err error
		booking, err = s.getBooking(txCtx, "Cancel", bookingID)
		if err != nil {
			return err
		}

		kitchen, location, err = s.loadKitchenAndLocation(txCtx, "Cancel", booking.KitchenID)
		if err != nil {
			return err
		}

		if !booking.IsOwnedBy(req.Actor.UserID) && !req.Actor.CanManage(location) {
			s.logger.Warn("Cancel: access denied for user=%d to cancel booking id=%d", req.Actor.UserID, bookingID)
			return ErrAccessDenied
		}

		if !booking.CanBeCancelled() {
			s.logger.Warn("Cancel: booking id=%d cannot be cancelled, status=%s", bookingID, booking.Status)
			return ErrCannotCancel
		}

		if err := s.bookingRepo.Cancel(txCtx, bookingID, req.CancellationReason); err != nil {
			switch {
			case errors.Is(err, bookingRepo.ErrStatusMismatch):
				return ErrCannotCancel
			case errors.Is(err, bookingRepo.ErrBookingNotFound):
				return ErrBookingNotFound
			}
			s.logger.Error("Cancel: repository error for booking id=%d: %v", bookingID, err)
			return fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
		}

		return nil
	})
	if err != nil {
		s.metrics.ObserveBooking("cancel", outcome(err))
		return nil, err
	}

	booking.Status = domain.StatusCancelled
	booking.CancellationReason = req.CancellationReason
	s.metrics.ObserveBooking("cancel", "success")
	s.logger.Info("Cancel: successfully cancelled booking id=%d", bookingID)

	s.releasePayment(ctx, booking)

	s.notifier.Notify(notifications.Event{
		Type:     notifications.EventBookingCancelled,
		Booking:  *booking,
		Kitchen:  kitchen,
		Location: location,
	})

	return models.FromDomainBooking(booking), nil
}

// releasePayment снимает hold после отмены. Ошибки провайдера только логируются.
func (s *Service) releasePayment(ctx context.Context, booking *domain.Booking) {
	if booking.PaymentIntentID == nil || *booking.PaymentIntentID == "" {
		return
	}
	intentID := *booking.PaymentIntentID

	if booking.PaymentStatus == domain.PaymentStatusPaid {
		s.logger.Info("Cancel: booking id=%d already captured (intent=%s), refund is handled outside the booking core",
			booking.ID, intentID)
		return
	}
	if !booking.HasPaymentHold() {
		return
	}

	if err := s.paymentClient.Release(ctx, intentID); err != nil {
		s.logger.Warn("Cancel: failed to release payment hold intent=%s for booking id=%d: %v", intentID, booking.ID, err)
		return
	}

	err := s.paymentRepo.UpdateStatus(ctx, intentID, domain.TransactionCanceled, nil, nil)
	if err != nil {
		if errors.Is(err, paymentRepo.ErrTransactionNotFound) {
			s.logger.Warn("Cancel: payment mirror for intent=%s not found", intentID)
			return
		}
		s.logger.Error("Cancel: failed to update payment mirror intent=%s: %v", intentID, err)
		return
	}

	s.logger.Info("Cancel: released payment hold intent=%s for booking id=%d", intentID, booking.ID)
}

// Вспомогательные методы

// getBooking получает бронирование и переводит ошибки репозитория в ошибки сервиса
func (s *Service) getBooking(ctx context.Context, op string, id int64) (*domain.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("%s: booking id=%d not found", op, id)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("%s: repository error for booking id=%d: %v", op, id, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
	return booking, nil
}

// loadKitchenAndLocation получает кухню и локацию, которой она принадлежит
func (s *Service) loadKitchenAndLocation(ctx context.Context, op string, kitchenID int64) (*domain.Kitchen, *domain.Location, error) {
	kitchen, err := s.kitchenRepo.GetByID(ctx, kitchenID)
	if err != nil {
		if errors.Is(err, kitchenRepo.ErrKitchenNotFound) {
			s.logger.Warn("%s: kitchen id=%d not found", op, kitchenID)
			return nil, nil, ErrKitchenNotFound
		}
		s.logger.Error("%s: failed to get kitchen id=%d: %v", op, kitchenID, err)
		return nil, nil, fmt.Errorf("%w: %s - get kitchen: %v", ErrInternal, op, err)
	}

	location, err := s.locationRepo.GetByID(ctx, kitchen.LocationID)
	if err != nil {
		if errors.Is(err, locationRepo.ErrLocationNotFound) {
			s.logger.Warn("%s: location id=%d not found", op, kitchen.LocationID)
			return nil, nil, ErrLocationNotFound
		}
		s.logger.Error("%s: failed to get location id=%d: %v", op, kitchen.LocationID, err)
		return nil, nil, fmt.Errorf("%w: %s - get location: %v", ErrInternal, op, err)
	}

	return kitchen, location, nil
}

// checkManagerAccess проверяет, что пользователь управляет локацией кухни
func (s *Service) checkManagerAccess(ctx context.Context, op string, kitchenID int64, actor domain.Actor) (*domain.Kitchen, *domain.Location, error) {
	kitchen, location, err := s.loadKitchenAndLocation(ctx, op, kitchenID)
	if err != nil {
		return nil, nil, err
	}

	if !actor.CanManage(location) {
		s.logger.Warn("%s: user=%d is not a manager of location=%d", op, actor.UserID, location.ID)
		return nil, nil, ErrAccessDenied
	}

	return kitchen, location, nil
}

// outcome метка результата операции для метрик
func outcome(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrForbidden):
		return "forbidden"
	case errors.Is(err, domain.ErrInvalidTransition):
		return "invalid_transition"
	default:
		return "error"
	}
}
