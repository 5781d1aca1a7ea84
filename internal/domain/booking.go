package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/Raunak-Sarmacharya/LocalCooksCommunity-sub005/pkg/types"
)

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusConfirmed BookingStatus = "confirmed"
	StatusCancelled BookingStatus = "cancelled"
)

// PaymentStatus статус оплаты бронирования
type PaymentStatus string

const (
	PaymentStatusNone    PaymentStatus = "none"
	PaymentStatusPending PaymentStatus = "pending" // авторизация (hold) получена, списания еще не было
	PaymentStatusPaid    PaymentStatus = "paid"
)

// Contact контактные данные бронирующего (снимок на момент бронирования)
type Contact struct {
	Name  *string
	Email *string
	Phone *string
}

// Booking represents a kitchen booking in the system
type Booking struct {
	ID           int64
	KitchenID    int64
	ChefID       *int64 // NULL для бронирований через портал и анонимных бронирований
	PortalUserID *int64
	BookingDate  types.Date
	StartTime    types.TimeString
	EndTime      types.TimeString
	Status       BookingStatus

	PaymentIntentID *string
	PaymentStatus   PaymentStatus
	TotalPriceCents *int64
	Currency        string

	// Denormalized data for notifications and history
	Contact Contact
	Notes   *string

	CancellationReason *string
	CancelledAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive returns true if the booking holds its time window
func (b *Booking) IsActive() bool {
	return b.Status == StatusPending || b.Status == StatusConfirmed
}

// CanBeCancelled returns true if the booking can be cancelled
func (b *Booking) CanBeCancelled() bool {
	return b.Status == StatusPending || b.Status == StatusConfirmed
}

// CanBeConfirmed returns true if the booking can be confirmed by a manager
func (b *Booking) CanBeConfirmed() bool {
	return b.Status == StatusPending
}

// IsCancelled returns true if the booking has been cancelled
func (b *Booking) IsCancelled() bool {
	return b.Status == StatusCancelled
}

// HasPaymentHold returns true if an authorization hold exists and has not been captured
func (b *Booking) HasPaymentHold() bool {
	return b.PaymentIntentID != nil && *b.PaymentIntentID != "" && b.PaymentStatus == PaymentStatusPending
}

// DurationMinutes длительность бронирования в минутах
func (b *Booking) DurationMinutes() int {
	return b.EndTime.Minutes() - b.StartTime.Minutes()
}

// Overlaps проверяет пересечение полуоткрытых интервалов [start, end)
func (b *Booking) Overlaps(start, end types.TimeString) bool {
	return b.StartTime.Minutes() < end.Minutes() && start.Minutes() < b.EndTime.Minutes()
}

// BookerKey ключ бронирующего для подсчета лимитов.
// Пустая строка, если бронирующего нельзя идентифицировать.
func (b *Booking) BookerKey() string {
	return BookerKey(b.ChefID, b.PortalUserID, b.Contact.Email)
}

// IsOwnedBy возвращает true, если userID является автором бронирования
func (b *Booking) IsOwnedBy(userID int64) bool {
	if b.ChefID != nil && *b.ChefID == userID {
		return true
	}
	return b.PortalUserID != nil && *b.PortalUserID == userID
}

// BookerKey строит ключ бронирующего: chef id, затем portal user id, затем контактный email
func BookerKey(chefID, portalUserID *int64, email *string) string {
	switch {
	case chefID != nil:
		return fmt.Sprintf("chef:%d", *chefID)
	case portalUserID != nil:
		return fmt.Sprintf("portal:%d", *portalUserID)
	case email != nil && strings.TrimSpace(*email) != "":
		return "email:" + strings.ToLower(strings.TrimSpace(*email))
	default:
		return ""
	}
}

// KitchenBookingsFilter фильтр для получения бронирований кухни
type KitchenBookingsFilter struct {
	KitchenID       int64          // Обязательный параметр
	StartDate       *types.Date    // Начало периода (опционально)
	EndDate         *types.Date    // Конец периода (опционально)
	Status          *BookingStatus // Фильтр по статусу (опционально)
	IncludeInactive bool           // Включать ли отмененные бронирования
}

// IsSingleDate возвращает true, если фильтр задает ровно одну дату
func (f KitchenBookingsFilter) IsSingleDate() bool {
	return f.StartDate != nil && f.EndDate != nil && *f.StartDate == *f.EndDate
}

// CaptureCandidate бронирование с политикой отмены локации, ожидающее списания
type CaptureCandidate struct {
	Booking                 *Booking
	LocationID              int64
	Timezone                string
	CancellationPolicyHours int
}
