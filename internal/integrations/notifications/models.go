package notifications

import (
	"github.com/Raunak-Sarmacharya/LocalCooksCommunity-sub005/internal/domain"
)

// EventType тип события бронирования
type EventType string

const (
	EventBookingCreated   EventType = "booking.created"
	EventBookingConfirmed EventType = "booking.confirmed"
	EventBookingCancelled EventType = "booking.cancelled"
)

// Event событие жизненного цикла бронирования
type Event struct {
	Type     EventType
	Booking  domain.Booking
	Kitchen  *domain.Kitchen
	Location *domain.Location
}

// Message сообщение для одного канала
type Message struct {
	To      string
	Name    string
	Subject string
	Body    string
}
