package capacity

import (
	"context"
	"errors"
	"fmt"

	"github.com/Raunak-Sarmacharya/LocalCooksCommunity-sub005/internal/domain"
	availabilityRepo "github.com/Raunak-Sarmacharya/LocalCooksCommunity-sub005/internal/infra/storage/availability"
	"github.com/Raunak-Sarmacharya/LocalCooksCommunity-sub005/pkg/types"
)

// Source откуда взят дневной лимит
type Source string

const (
	SourceOverride Source = "date_override"
	SourceWeekly   Source = "weekly"
	SourceLocation Source = "location_default"
)

// Service дневные лимиты слот-часов на одного бронирующего
type Service struct {
	availabilityRepo AvailabilityRepository
	bookingRepo      BookingRepository
	logger           Logger
}

// NewService создает новый экземпляр сервиса лимитов
func NewService(availabilityRepo AvailabilityRepository, bookingRepo BookingRepository, logger Logger) *Service {
	return &Service{
		availabilityRepo: availabilityRepo,
		bookingRepo:      bookingRepo,
		logger:           logger,
	}
}

// Decision результат проверки лимита
type Decision struct {
	Limit     int
	Source    Source
	Held      int
	Requested int
	Skipped   bool // бронирующего нельзя идентифицировать, лимит не применялся
}

// ResolveLimit выбирает лимит по приоритету: исключение на дату, затем неделя, затем локация.
// Учитываются только положительные значения.
func ResolveLimit(override *domain.DateOverride, weekly *domain.WeeklyAvailability, location *domain.Location) (int, Source) {
	if override != nil && override.MaxSlotsPerChef != nil && *override.MaxSlotsPerChef > 0 {
		return *override.MaxSlotsPerChef, SourceOverride
	}
	if weekly != nil && weekly.MaxSlotsPerChef != nil && *weekly.MaxSlotsPerChef > 0 {
		return *weekly.MaxSlotsPerChef, SourceWeekly
	}
	if location != nil && location.DefaultDailyBookingLimit > 0 {
		return location.DefaultDailyBookingLimit, SourceLocation
	}
	return domain.DefaultDailyBookingLimit, SourceLocation
}

// RequestedSlots количество слот-часов интервала: округление вверх, минимум один
func RequestedSlots(start, end types.TimeString) int {
	minutes := end.Minutes() - start.Minutes()
	slots := (minutes + domain.SlotMinutes - 1) / domain.SlotMinutes
	if slots < 1 {
		return 1
	}
	return slots
}

// HeldSlots сумма слот-часов активных бронирований бронирующего
func HeldSlots(bookings []*domain.Booking, bookerKey string) int {
	held := 0
	for _, b := range bookings {
		if !b.IsActive() || b.BookerKey() != bookerKey {
			continue
		}
		held += RequestedSlots(b.StartTime, b.EndTime)
	}
	return held
}

// Limit загружает расписание и возвращает действующий лимит на дату
func (s *Service) Limit(ctx context.Context, kitchenID int64, location *domain.Location, date types.Date) (int, Source, error) {
	override, err := s.availabilityRepo.GetOverride(ctx, kitchenID, date)
	if err != nil && !errors.Is(err, availabilityRepo.ErrOverrideNotFound) {
		s.logger.Error("Limit: failed to get override for kitchen=%d, date=%s: %v", kitchenID, date, err)
		return 0, "", fmt.Errorf("%w: Limit - get override: %v", ErrInternal, err)
	}

	var weekly *domain.WeeklyAvailability
	if override == nil || override.MaxSlotsPerChef == nil || *override.MaxSlotsPerChef <= 0 {
		weekly, err = s.availabilityRepo.GetWeekly(ctx, kitchenID, int(date.Weekday()))
		if err != nil && !errors.Is(err, availabilityRepo.ErrWeeklyNotFound) {
			s.logger.Error("Limit: failed to get weekly schedule for kitchen=%d: %v", kitchenID, err)
			return 0, "", fmt.Errorf("%w: Limit - get weekly: %v", ErrInternal, err)
		}
	}

	limit, source := ResolveLimit(override, weekly, location)
	return limit, source, nil
}

// Check проверяет, что held + requested не превышает лимит
// 1. Бронирующий без ключа (анонимно, без email) - проверка пропускается
// 2. Определяем лимит по приоритету
// 3. Считаем уже занятые слот-часы бронирующего на эту кухню и дату
func (s *Service) Check(
	ctx context.Context,
	kitchenID int64,
	location *domain.Location,
	date types.Date,
	bookerKey string,
	start, end types.TimeString,
) (*Decision, error) {
	requested := RequestedSlots(start, end)

	if bookerKey == "" {
		s.logger.Warn("CapacityCheck: kitchen=%d, date=%s - booker cannot be identified, limit skipped", kitchenID, date)
		return &Decision{Requested: requested, Skipped: true}, nil
	}

	limit, source, err := s.Limit(ctx, kitchenID, location, date)
	if err != nil {
		return nil, err
	}

	bookings, err := s.bookingRepo.GetByKitchenWithFilter(ctx, domain.KitchenBookingsFilter{
		KitchenID: kitchenID,
		StartDate: &date,
		EndDate:   &date,
	})
	if err != nil {
		s.logger.Error("CapacityCheck: failed to get bookings for kitchen=%d, date=%s: %v", kitchenID, date, err)
		return nil, fmt.Errorf("%w: Check - get bookings: %v", ErrInternal, err)
	}

	decision := &Decision{
		Limit:     limit,
		Source:    source,
		Held:      HeldSlots(bookings, bookerKey),
		Requested: requested,
	}

	if decision.Held+decision.Requested > decision.Limit {
		s.logger.Warn("CapacityCheck: booker=%s kitchen=%d date=%s - %d held + %d requested > %d (%s)",
			bookerKey, kitchenID, date, decision.Held, decision.Requested, decision.Limit, decision.Source)
		return decision, &ExceededError{
			Limit:     decision.Limit,
			Held:      decision.Held,
			Requested: decision.Requested,
			Source:    decision.Source,
		}
	}

	return decision, nil
}
