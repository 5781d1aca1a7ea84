package get_available_slots

import (
	"context"
	"errors"
	"fmt"

	"github.com/Raunak-Sarmacharya/LocalCooksCommunity-sub005/internal/domain"
	kitchenRepo "github.com/Raunak-Sarmacharya/LocalCooksCommunity-sub005/internal/infra/storage/kitchen"
	locationRepo "github.com/Raunak-Sarmacharya/LocalCooksCommunity-sub005/internal/infra/storage/location"
)

// UseCase use case для получения доступных слотов кухни на дату
type UseCase struct {
	bookingRepo  BookingRepository
	kitchenRepo  KitchenRepository
	locationRepo LocationRepository
	availability AvailabilityResolver
	limits       LimitResolver
	clock        Clock
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	kitchenRepo KitchenRepository,
	locationRepo LocationRepository,
	availability AvailabilityResolver,
	limits LimitResolver,
	clock Clock,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		kitchenRepo:  kitchenRepo,
		locationRepo: locationRepo,
		availability: availability,
		limits:       limits,
		clock:        clock,
		logger:       logger,
	}
}

// Execute выполняет use case получения доступных слотов
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: user=%d, kitchen=%d, date=%s", req.UserID, req.KitchenID, req.Date)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем кухню и локацию
	kitchen, err := uc.kitchenRepo.GetByID(ctx, req.KitchenID)
	if err != nil {
		if errors.Is(err, kitchenRepo.ErrKitchenNotFound) {
			uc.logger.Warn("GetAvailableSlots: kitchen id=%d not found", req.KitchenID)
			return nil, ErrKitchenNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get kitchen id=%d: %v", req.KitchenID, err)
		return nil, fmt.Errorf("%w: failed to get kitchen: %v", ErrInternal, err)
	}

	location, err := uc.locationRepo.GetByID(ctx, kitchen.LocationID)
	if err != nil {
		if errors.Is(err, locationRepo.ErrLocationNotFound) {
			uc.logger.Warn("GetAvailableSlots: location id=%d not found", kitchen.LocationID)
			return nil, ErrLocationNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get location id=%d: %v", kitchen.LocationID, err)
		return nil, fmt.Errorf("%w: failed to get location: %v", ErrInternal, err)
	}

	resp := &Response{
		Date:       req.Date,
		KitchenID:  kitchen.ID,
		LocationID: location.ID,
		Timezone:   location.Timezone,
		IsActive:   kitchen.IsActive,
		Windows:    []domain.TimeWindow{},
		Slots:      []domain.AvailableSlot{},
		Policy: Policy{
			MinimumBookingWindowHours: location.MinimumBookingWindowHours,
			CancellationPolicyHours:   location.CancellationPolicyHours,
			CancellationPolicyMessage: location.CancellationPolicyMessage,
		},
	}

	// 3. Действующий лимит на шефа
	limit, source, err := uc.limits.Limit(ctx, kitchen.ID, location, req.Date)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to resolve limit: %v", err)
		return nil, fmt.Errorf("%w: failed to resolve limit: %v", ErrInternal, err)
	}
	resp.Limit = Limit{MaxSlotsPerChef: limit, Source: source}

	if !kitchen.IsActive {
		uc.logger.Info("GetAvailableSlots: kitchen id=%d is inactive", kitchen.ID)
		return resp, nil
	}

	// 4. Открытые окна
	windows, err := uc.availability.Resolve(ctx, kitchen.ID, req.Date)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to resolve availability: %v", err)
		return nil, fmt.Errorf("%w: failed to resolve availability: %v", ErrInternal, err)
	}
	if len(windows) == 0 {
		uc.logger.Info("GetAvailableSlots: kitchen id=%d is closed on %s", kitchen.ID, req.Date)
		return resp, nil
	}
	resp.Windows = windows

	// 5. Активные бронирования на дату
	bookings, err := uc.bookingRepo.GetByKitchenWithFilter(ctx, domain.KitchenBookingsFilter{
		KitchenID: kitchen.ID,
		StartDate: &req.Date,
		EndDate:   &req.Date,
	})
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get bookings: %v", err)
		return nil, fmt.Errorf("%w: failed to get bookings: %v", ErrInternal, err)
	}

	// 6. Слоты и их доступность в поясе локации
	resp.Slots = markSlots(
		generateSlots(windows),
		bookings,
		req.Date,
		uc.clock.LoadLocation(location.Timezone),
		uc.clock.Now(),
		location.MinimumBookingWindowHours,
	)

	uc.logger.Info("GetAvailableSlots: generated %d slots for kitchen=%d, date=%s", len(resp.Slots), kitchen.ID, req.Date)
	return resp, nil
}
