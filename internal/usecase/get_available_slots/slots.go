package get_available_slots

import (
	"time"

	"github.com/Raunak-Sarmacharya/LocalCooksCommunity-sub005/internal/domain"
	"github.com/Raunak-Sarmacharya/LocalCooksCommunity-sub005/internal/service/window"
	"github.com/Raunak-Sarmacharya/LocalCooksCommunity-sub005/pkg/types"
)

// generateSlots нарезает окна на часовые слоты.
// Хвост окна короче часа слотом не становится.
func generateSlots(windows []domain.TimeWindow) []domain.AvailableSlot {
	slots := make([]domain.AvailableSlot, 0)

	for _, w := range windows {
		for start := w.Start.Minutes(); start+domain.SlotMinutes <= w.End.Minutes(); start += domain.SlotMinutes {
			slotStart, err := types.FromMinutes(start)
			if err != nil {
				break
			}
			slotEnd, err := types.FromMinutes(start + domain.SlotMinutes)
			if err != nil {
				break
			}
			slots = append(slots, domain.AvailableSlot{StartTime: slotStart, EndTime: slotEnd, Available: true})
		}
	}

	return slots
}

// markSlots помечает занятые слоты и слоты, которые уже нельзя забронировать по времени
// 1. Пересечение с активным бронированием - booked
// 2. Начало уже прошло - past
// 3. Начало внутри минимального окна бронирования - notice_window
func markSlots(
	slots []domain.AvailableSlot,
	bookings []*domain.Booking,
	date types.Date,
	loc *time.Location,
	now time.Time,
	minimumWindowHours int,
) []domain.AvailableSlot {
	for i := range slots {
		slot := &slots[i]

		if isBooked(slot, bookings) {
			slot.Available = false
			slot.Reason = domain.SlotReasonBooked
			continue
		}

		if reason := window.Classify(date.At(slot.StartTime, loc), now, minimumWindowHours); reason != "" {
			slot.Available = false
			slot.Reason = reason
		}
	}

	return slots
}

// isBooked полуоткрытое пересечение: бронирование, заканчивающееся в начале слота, его не занимает
func isBooked(slot *domain.AvailableSlot, bookings []*domain.Booking) bool {
	for _, b := range bookings {
		if b.IsActive() && b.Overlaps(slot.StartTime, slot.EndTime) {
			return true
		}
	}
	return false
}
