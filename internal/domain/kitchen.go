package domain

import "time"

// Kitchen кухня, принадлежащая одной локации
type Kitchen struct {
	ID              int64
	LocationID      int64
	Name            string
	IsActive        bool
	HourlyRateCents *int64 // NULL или 0 - бронирование без оплаты
	Currency        string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// RequiresPayment returns true if bookings of this kitchen need a payment hold
func (k *Kitchen) RequiresPayment() bool {
	return k.HourlyRateCents != nil && *k.HourlyRateCents > 0
}

// PriceCents стоимость бронирования длительностью minutes
func (k *Kitchen) PriceCents(minutes int) int64 {
	if !k.RequiresPayment() || minutes <= 0 {
		return 0
	}
	return *k.HourlyRateCents * int64(minutes) / 60
}
