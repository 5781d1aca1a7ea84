package conflicts

import (
	"context"
	"fmt"

	"github.com/Raunak-Sarmacharya/LocalCooksCommunity-sub005/internal/domain"
	"github.com/Raunak-Sarmacharya/LocalCooksCommunity-sub005/pkg/types"
)

// Service поиск пересечений с активными бронированиями кухни
type Service struct {
	bookingRepo BookingRepository
	logger      Logger
}

// NewService создает новый экземпляр сервиса конфликтов
func NewService(bookingRepo BookingRepository, logger Logger) *Service {
	return &Service{
		bookingRepo: bookingRepo,
		logger:      logger,
	}
}

// Detect возвращает первое активное бронирование, пересекающее [start, end).
// Отмененные бронирования не конфликтуют.
func Detect(existing []*domain.Booking, start, end types.TimeString) *domain.Booking {
	for _, b := range existing {
		if b.IsActive() && b.Overlaps(start, end) {
			return b
		}
	}
	return nil
}

// Check загружает бронирования кухни на дату и ищет пересечение.
// Внутри транзакции строки блокируются (FOR UPDATE) до вставки нового бронирования.
func (s *Service) Check(ctx context.Context, kitchenID int64, date types.Date, start, end types.TimeString) error {
	bookings, err := s.bookingRepo.GetByKitchenWithFilter(ctx, domain.KitchenBookingsFilter{
		KitchenID: kitchenID,
		StartDate: &date,
		EndDate:   &date,
	})
	if err != nil {
		s.logger.Error("ConflictCheck: failed to get bookings for kitchen=%d, date=%s: %v", kitchenID, date, err)
		return fmt.Errorf("%w: Check - get bookings: %v", ErrInternal, err)
	}

	if existing := Detect(bookings, start, end); existing != nil {
		s.logger.Warn("ConflictCheck: kitchen=%d date=%s %s-%s overlaps booking id=%d (%s-%s)",
			kitchenID, date, start, end, existing.ID, existing.StartTime, existing.EndTime)
		return &ConflictError{Existing: existing}
	}

	return nil
}
