package models

import (
	"errors"
	"time"

	"github.com/Raunak-Sarmacharya/LocalCooksCommunity-sub005/internal/domain"
	"github.com/Raunak-Sarmacharya/LocalCooksCommunity-sub005/pkg/types"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе
	ErrInvalidStatus = errors.New("invalid booking status")

	// ErrInvalidPeriod возвращается, когда начало периода позже конца
	ErrInvalidPeriod = errors.New("start date is after end date")
)

// Request модели

// CancelBookingRequest запрос на отмену бронирования
type CancelBookingRequest struct {
	Actor              domain.Actor
	CancellationReason *string
}

// GetMyBookingsRequest запрос на получение бронирований пользователя
type GetMyBookingsRequest struct {
	Actor  domain.Actor
	Status *string
}

// GetKitchenBookingsRequest запрос на получение бронирований кухни
type GetKitchenBookingsRequest struct {
	Actor           domain.Actor
	KitchenID       int64
	StartDate       *types.Date // Начало периода (опционально)
	EndDate         *types.Date // Конец периода (опционально)
	Status          *string     // Фильтр по статусу (опционально)
	IncludeInactive bool        // Включить отмененные бронирования
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *GetKitchenBookingsRequest) ToDomainFilter() (domain.KitchenBookingsFilter, error) {
	filter := domain.KitchenBookingsFilter{
		KitchenID:       r.KitchenID,
		StartDate:       r.StartDate,
		EndDate:         r.EndDate,
		IncludeInactive: r.IncludeInactive,
	}

	if r.StartDate != nil && r.EndDate != nil && r.StartDate.After(*r.EndDate) {
		return filter, ErrInvalidPeriod
	}

	if r.Status != nil {
		status, err := ToDomainBookingStatus(*r.Status)
		if err != nil {
			return filter, err
		}
		filter.Status = &status
	}

	return filter, nil
}

// Response модели

// BookingResponse ответ с данными бронирования
type BookingResponse struct {
	ID                 int64      `json:"id"`
	KitchenID          int64      `json:"kitchenId"`
	ChefID             *int64     `json:"chefId,omitempty"`
	PortalUserID       *int64     `json:"portalUserId,omitempty"`
	BookingDate        string     `json:"bookingDate"` // "2025-03-10"
	StartTime          string     `json:"startTime"`   // "14:00"
	EndTime            string     `json:"endTime"`     // "16:00"
	DurationMinutes    int        `json:"durationMinutes"`
	Status             string     `json:"status"`
	PaymentStatus      string     `json:"paymentStatus"`
	PaymentIntentID    *string    `json:"paymentIntentId,omitempty"`
	TotalPriceCents    *int64     `json:"totalPriceCents,omitempty"`
	Currency           string     `json:"currency,omitempty"`
	ContactName        *string    `json:"contactName,omitempty"`
	ContactEmail       *string    `json:"contactEmail,omitempty"`
	ContactPhone       *string    `json:"contactPhone,omitempty"`
	Notes              *string    `json:"notes,omitempty"`
	CancellationReason *string    `json:"cancellationReason,omitempty"`
	CancelledAt        *time.Time `json:"cancelledAt,omitempty"`
	CreatedAt          time.Time  `json:"createdAt"`
	UpdatedAt          time.Time  `json:"updatedAt"`
}

// BookingListResponse ответ со списком бронирований
type BookingListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
	Total    int               `json:"total"`
}

// Конвертеры

// FromDomainBooking конвертирует domain.Booking в BookingResponse
func FromDomainBooking(b *domain.Booking) *BookingResponse {
	return &BookingResponse{
		ID:                 b.ID,
		KitchenID:          b.KitchenID,
		ChefID:             b.ChefID,
		PortalUserID:       b.PortalUserID,
		BookingDate:        b.BookingDate.String(),
		StartTime:          b.StartTime.String(),
		EndTime:            b.EndTime.String(),
		DurationMinutes:    b.DurationMinutes(),
		Status:             string(b.Status),
		PaymentStatus:      string(b.PaymentStatus),
		PaymentIntentID:    b.PaymentIntentID,
		TotalPriceCents:    b.TotalPriceCents,
		Currency:           b.Currency,
		ContactName:        b.Contact.Name,
		ContactEmail:       b.Contact.Email,
		ContactPhone:       b.Contact.Phone,
		Notes:              b.Notes,
		CancellationReason: b.CancellationReason,
		CancelledAt:        b.CancelledAt,
		CreatedAt:          b.CreatedAt,
		UpdatedAt:          b.UpdatedAt,
	}
}

// FromDomainBookingList конвертирует список бронирований
func FromDomainBookingList(bookings []*domain.Booking) *BookingListResponse {
	responses := make([]BookingResponse, 0, len(bookings))
	for _, b := range bookings {
		responses = append(responses, *FromDomainBooking(b))
	}

	return &BookingListResponse{
		Bookings: responses,
		Total:    len(responses),
	}
}

// ToDomainBookingStatus конвертирует строку в domain.BookingStatus
func ToDomainBookingStatus(status string) (domain.BookingStatus, error) {
	s := domain.BookingStatus(status)
	if !domain.IsValidStatus(s) {
		return "", ErrInvalidStatus
	}
	return s, nil
}
