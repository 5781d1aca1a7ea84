package create_booking

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/Raunak-Sarmacharya/LocalCooksCommunity-sub005/internal/domain"
	"github.com/Raunak-Sarmacharya/LocalCooksCommunity-sub005/internal/infra/lock"
	bookingRepo "github.com/Raunak-Sarmacharya/LocalCooksCommunity-sub005/internal/infra/storage/booking"
	kitchenRepo "github.com/Raunak-Sarmacharya/LocalCooksCommunity-sub005/internal/infra/storage/kitchen"
	locationRepo "github.com/Raunak-Sarmacharya/LocalCooksCommunity-sub005/internal/infra/storage/location"
	"github.com/Raunak-Sarmacharya/LocalCooksCommunity-sub005/internal/integrations/notifications"
	"github.com/Raunak-Sarmacharya/LocalCooksCommunity-sub005/internal/integrations/payments"
	"github.com/Raunak-Sarmacharya/LocalCooksCommunity-sub005/internal/service/availability"
	bookingModels "github.com/Raunak-Sarmacharya/LocalCooksCommunity-sub005/internal/service/bookings/models"
	"github.com/Raunak-Sarmacharya/LocalCooksCommunity-sub005/pkg/ptr"
)

// UseCase use case для создания бронирования
type UseCase struct {
	bookingRepo   BookingRepository
	paymentRepo   PaymentRepository
	kitchenRepo   KitchenRepository
	locationRepo  LocationRepository
	availability  AvailabilityResolver
	capacity      CapacityGovernor
	window        WindowValidator
	conflicts     ConflictDetector
	locker        SlotLocker
	paymentClient PaymentClient
	notifier      Notifier
	txManager     TransactionManager
	metrics       Metrics
	logger        Logger

	defaultCurrency string
}

// Deps зависимости use case. Locker опционален, пустая DefaultCurrency заменяется на domain.DefaultCurrency.
type Deps struct {
	BookingRepo   BookingRepository
	PaymentRepo   PaymentRepository
	KitchenRepo   KitchenRepository
	LocationRepo  LocationRepository
	Availability  AvailabilityResolver
	Capacity      CapacityGovernor
	Window        WindowValidator
	Conflicts     ConflictDetector
	Locker        SlotLocker
	PaymentClient PaymentClient
	Notifier      Notifier
	TxManager     TransactionManager
	Metrics       Metrics
	Logger        Logger

	DefaultCurrency string
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(deps Deps) *UseCase {
	currency := deps.DefaultCurrency
	if currency == "" {
		currency = domain.DefaultCurrency
	}
	return &UseCase{
		defaultCurrency: currency,
		bookingRepo:     deps.BookingRepo,
		paymentRepo:     deps.PaymentRepo,
		kitchenRepo:     deps.KitchenRepo,
		locationRepo:    deps.LocationRepo,
		availability:    deps.Availability,
		capacity:        deps.Capacity,
		window:          deps.Window,
		conflicts:       deps.Conflicts,
		locker:          deps.Locker,
		paymentClient:   deps.PaymentClient,
		notifier:        deps.Notifier,
		txManager:       deps.TxManager,
		metrics:         deps.Metrics,
		logger:          deps.Logger,
	}
}

// Execute выполняет use case создания бронирования.
// Проверки и вставка выполняются в сериализуемой транзакции, любая ошибка не оставляет следов.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*bookingModels.BookingResponse, error) {
	uc.logger.Info("CreateBooking: user=%d (%s), kitchen=%d, date=%s, %s-%s",
		req.Actor.UserID, req.Actor.Role, req.KitchenID, req.Date, req.StartTime, req.EndTime)

	booking, err := uc.execute(ctx, req)
	uc.metrics.ObserveBooking("create", outcome(err))
	if err != nil {
		return nil, err
	}

	return bookingModels.FromDomainBooking(booking), nil
}

func (uc *UseCase) execute(ctx context.Context, req *Request) (*domain.Booking, error) {
	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем кухню и ее локацию
	kitchen, location, err := uc.loadKitchenAndLocation(ctx, req.KitchenID)
	if err != nil {
		return nil, err
	}

	booking := newBooking(req, kitchen, uc.defaultCurrency)

	// 3. Hold оплаты до транзакции: транзакция не держится открытой на время запроса к провайдеру
	authorized, err := uc.holdPayment(ctx, req, kitchen, booking)
	if err != nil {
		return nil, err
	}

	// 4. Короткая блокировка (кухня, дата)
	release := uc.acquireLock(ctx, req)
	defer release()

	// 5. Проверки и вставка в сериализуемой транзакции.
	// Функция может быть вызвана повторно, поэтому booking не изменяется внутри.
	var created *domain.Booking
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 5.1. Открытые окна
		windows, err := uc.availability.Resolve(txCtx, kitchen.ID, req.Date)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to resolve availability: %v", err)
			return fmt.Errorf("%w: failed to resolve availability: %v", ErrInternal, err)
		}
		if err := availability.RequireWindow(req.Date, windows, req.StartTime, req.EndTime); err != nil {
			uc.logger.Warn("CreateBooking: %v", err)
			return err
		}

		// 5.2. Дневной лимит бронирующего
		decision, err := uc.capacity.Check(txCtx, kitchen.ID, location, req.Date, booking.BookerKey(), req.StartTime, req.EndTime)
		if err != nil {
			if errors.Is(err, domain.ErrCapacityExceeded) {
				return err
			}
			uc.logger.Error("CreateBooking: failed to check capacity: %v", err)
			return fmt.Errorf("%w: failed to check capacity: %v", ErrInternal, err)
		}
		if !decision.Skipped {
			uc.logger.Info("CreateBooking: capacity %d held + %d requested of %d (%s)",
				decision.Held, decision.Requested, decision.Limit, decision.Source)
		}

		// 5.3. Минимальное окно бронирования в поясе локации
		if err := uc.window.Validate(location, req.Date, req.StartTime); err != nil {
			uc.logger.Warn("CreateBooking: %v", err)
			return err
		}

		// 5.4. Пересечения с активными бронированиями
		if err := uc.conflicts.Check(txCtx, kitchen.ID, req.Date, req.StartTime, req.EndTime); err != nil {
			if errors.Is(err, domain.ErrConflict) {
				return err
			}
			uc.logger.Error("CreateBooking: failed to check conflicts: %v", err)
			return fmt.Errorf("%w: failed to check conflicts: %v", ErrInternal, err)
		}

		// 5.5. Сохраняем бронирование
		toCreate := *booking
		inserted, err := uc.bookingRepo.Create(txCtx, &toCreate)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrSlotNotAvailable) {
				uc.logger.Warn("CreateBooking: slot %s %s-%s taken by a concurrent request", req.Date, req.StartTime, req.EndTime)
				return ErrSlotNotAvailable
			}
			uc.logger.Error("CreateBooking: failed to create booking: %v", err)
			return fmt.Errorf("%w: failed to create booking: %v", ErrInternal, err)
		}

		// 5.6. Зеркало платежа
		if inserted.PaymentIntentID != nil {
			mirror := &domain.PaymentTransaction{
				BookingID:       inserted.ID,
				PaymentIntentID: *inserted.PaymentIntentID,
				AmountCents:     ptr.Value(inserted.TotalPriceCents),
				Currency:        inserted.Currency,
				Status:          domain.TransactionRequiresCapture,
			}
			if _, err := uc.paymentRepo.Create(txCtx, mirror); err != nil {
				uc.logger.Error("CreateBooking: failed to create payment mirror for intent=%s: %v", mirror.PaymentIntentID, err)
				return fmt.Errorf("%w: failed to create payment mirror: %v", ErrInternal, err)
			}
		}

		created = inserted
		return nil
	})

	if err != nil {
		if authorized != nil {
			uc.releaseHold(ctx, authorized.ID)
		}
		return nil, err
	}

	uc.logger.Info("CreateBooking: successfully created booking id=%d", created.ID)

	// 6. Уведомления не влияют на результат
	uc.notifier.Notify(notifications.Event{
		Type:     notifications.EventBookingCreated,
		Booking:  *created,
		Kitchen:  kitchen,
		Location: location,
	})

	return created, nil
}

// holdPayment привязывает hold оплаты к бронированию.
// Hold из запроса проверяется у провайдера, иначе для платной кухни запрашивается авторизация.
// Возвращает hold, полученный этим вызовом (его нужно снять, если бронирование не создано).
func (uc *UseCase) holdPayment(ctx context.Context, req *Request, kitchen *domain.Kitchen, booking *domain.Booking) (*payments.Intent, error) {
	price := kitchen.PriceCents(booking.DurationMinutes())
	if price > 0 {
		booking.TotalPriceCents = ptr.Ptr(price)
	}

	if req.PaymentIntentID != nil {
		if err := uc.verifyIntent(ctx, *req.PaymentIntentID, price, booking.Currency); err != nil {
			return nil, err
		}
		booking.PaymentIntentID = req.PaymentIntentID
		booking.PaymentStatus = domain.PaymentStatusPending
		return nil, nil
	}

	if price == 0 {
		return nil, nil
	}

	intent, err := uc.paymentClient.Authorize(ctx, payments.AuthorizeRequest{
		AmountCents: price,
		Currency:    booking.Currency,
		Metadata: map[string]string{
			"kitchen_id": strconv.FormatInt(kitchen.ID, 10),
			"date":       booking.BookingDate.String(),
			"start_time": booking.StartTime.String(),
			"end_time":   booking.EndTime.String(),
		},
	})
	if err != nil {
		if errors.Is(err, payments.ErrDeclined) {
			uc.logger.Warn("CreateBooking: payment authorization declined: %v", err)
			return nil, fmt.Errorf("%w: %v", ErrPaymentFailed, err)
		}
		uc.logger.Error("CreateBooking: payment authorization failed: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrPaymentFailed, err)
	}

	booking.PaymentIntentID = ptr.Ptr(intent.ID)
	booking.PaymentStatus = domain.PaymentStatusPending
	return intent, nil
}

// verifyIntent проверяет hold из запроса: он должен ждать списания и покрывать стоимость в валюте кухни
func (uc *UseCase) verifyIntent(ctx context.Context, intentID string, price int64, currency string) error {
	intent, err := uc.paymentClient.GetIntent(ctx, intentID)
	if err != nil {
		if errors.Is(err, payments.ErrIntentNotFound) {
			uc.logger.Warn("CreateBooking: payment intent=%s not found", intentID)
			return fmt.Errorf("%w: intent %s not found", ErrPaymentIntentRejected, intentID)
		}
		uc.logger.Error("CreateBooking: failed to get payment intent=%s: %v", intentID, err)
		return fmt.Errorf("%w: %v", ErrPaymentFailed, err)
	}

	switch {
	case intent.Status != payments.IntentRequiresCapture:
		uc.logger.Warn("CreateBooking: payment intent=%s has status %s", intentID, intent.Status)
		return fmt.Errorf("%w: intent %s is %s", ErrPaymentIntentRejected, intentID, intent.Status)
	case intent.AmountCents < price:
		uc.logger.Warn("CreateBooking: payment intent=%s amount %d is below price %d", intentID, intent.AmountCents, price)
		return fmt.Errorf("%w: intent %s amount %d is below price %d", ErrPaymentIntentRejected, intentID, intent.AmountCents, price)
	case !strings.EqualFold(intent.Currency, currency):
		uc.logger.Warn("CreateBooking: payment intent=%s currency %s, expected %s", intentID, intent.Currency, currency)
		return fmt.Errorf("%w: intent %s currency %s, expected %s", ErrPaymentIntentRejected, intentID, intent.Currency, currency)
	}
	return nil
}

// releaseHold снимает hold после неудачной транзакции (best effort)
func (uc *UseCase) releaseHold(ctx context.Context, intentID string) {
	if err := uc.paymentClient.Release(context.WithoutCancel(ctx), intentID); err != nil {
		uc.logger.Error("CreateBooking: failed to release payment hold intent=%s after rollback: %v", intentID, err)
		return
	}
	uc.logger.Info("CreateBooking: released payment hold intent=%s after rollback", intentID)
}

// acquireLock захватывает блокировку (кухня, дата).
// Блокировка только сокращает число повторов транзакции: если она занята дольше ожидания или
// Redis недоступен, бронирование продолжается, пересечения отсекают транзакция и exclusion constraint.
func (uc *UseCase) acquireLock(ctx context.Context, req *Request) func() {
	noop := func() {}
	if uc.locker == nil {
		return noop
	}

	unlock, err := uc.locker.Acquire(ctx, req.KitchenID, req.Date)
	if err != nil {
		if errors.Is(err, lock.ErrLockHeld) {
			uc.logger.Warn("CreateBooking: kitchen=%d date=%s is still locked, continuing without lock", req.KitchenID, req.Date)
			return noop
		}
		uc.logger.Warn("CreateBooking: slot lock unavailable, continuing without it: %v", err)
		return noop
	}

	return func() {
		if err := unlock(context.WithoutCancel(ctx)); err != nil {
			uc.logger.Warn("CreateBooking: failed to release slot lock: %v", err)
		}
	}
}

func (uc *UseCase) loadKitchenAndLocation(ctx context.Context, kitchenID int64) (*domain.Kitchen, *domain.Location, error) {
	kitchen, err := uc.kitchenRepo.GetByID(ctx, kitchenID)
	if err != nil {
		if errors.Is(err, kitchenRepo.ErrKitchenNotFound) {
			uc.logger.Warn("CreateBooking: kitchen id=%d not found", kitchenID)
			return nil, nil, ErrKitchenNotFound
		}
		uc.logger.Error("CreateBooking: failed to get kitchen id=%d: %v", kitchenID, err)
		return nil, nil, fmt.Errorf("%w: failed to get kitchen: %v", ErrInternal, err)
	}

	if !kitchen.IsActive {
		uc.logger.Warn("CreateBooking: kitchen id=%d is inactive", kitchenID)
		return nil, nil, ErrKitchenInactive
	}

	location, err := uc.locationRepo.GetByID(ctx, kitchen.LocationID)
	if err != nil {
		if errors.Is(err, locationRepo.ErrLocationNotFound) {
			uc.logger.Warn("CreateBooking: location id=%d not found", kitchen.LocationID)
			return nil, nil, ErrLocationNotFound
		}
		uc.logger.Error("CreateBooking: failed to get location id=%d: %v", kitchen.LocationID, err)
		return nil, nil, fmt.Errorf("%w: failed to get location: %v", ErrInternal, err)
	}

	return kitchen, location, nil
}

// outcome метка результата для метрик
func outcome(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, domain.ErrValidation):
		return "invalid"
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrClosed):
		return "closed"
	case errors.Is(err, domain.ErrCapacityExceeded):
		return "capacity_exceeded"
	case errors.Is(err, domain.ErrWindowViolation):
		return "window_violation"
	case errors.Is(err, domain.ErrConflict):
		return "conflict"
	case errors.Is(err, domain.ErrPaymentProvider):
		return "payment_failed"
	default:
		return "error"
	}
}
