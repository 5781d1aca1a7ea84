package create_booking

import (
	"fmt"
	"strings"

	"github.com/Raunak-Sarmacharya/LocalCooksCommunity-sub005/internal/domain"
	"github.com/Raunak-Sarmacharya/LocalCooksCommunity-sub005/pkg/ptr"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.KitchenID <= 0 {
		return fmt.Errorf("%w: kitchenID must be positive", ErrInvalidInput)
	}

	// Проверяем, что дата не является нулевой
	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	if req.StartTime.IsZero() || req.EndTime.IsZero() {
		return fmt.Errorf("%w: startTime and endTime are required", ErrInvalidInput)
	}

	if err := req.StartTime.Validate(); err != nil {
		return fmt.Errorf("%w: invalid startTime format: %v", ErrInvalidInput, err)
	}
	if err := req.EndTime.Validate(); err != nil {
		return fmt.Errorf("%w: invalid endTime format: %v", ErrInvalidInput, err)
	}

	if !req.StartTime.IsBefore(req.EndTime) {
		return fmt.Errorf("%w: startTime must be before endTime", ErrInvalidInput)
	}

	if req.Notes != nil && len(*req.Notes) > domain.MaxNotesLength {
		return fmt.Errorf("%w: notes must be at most %d characters", ErrInvalidInput, domain.MaxNotesLength)
	}

	if req.PaymentIntentID != nil && strings.TrimSpace(*req.PaymentIntentID) == "" {
		return fmt.Errorf("%w: paymentIntentId must not be empty", ErrInvalidInput)
	}

	return validateBooker(req)
}

// validateBooker проверяет личность бронирующего.
// Шеф и пользователь портала бронируют от своего имени, остальные - как третья сторона с контактом.
func validateBooker(req *Request) error {
	switch req.Actor.Role {
	case domain.RoleChef, domain.RolePortal:
		if req.Actor.UserID <= 0 {
			return fmt.Errorf("%w: userID must be positive", ErrInvalidInput)
		}
		return nil
	}

	if isBlank(req.Contact.Name) {
		return fmt.Errorf("%w: contact name is required for a third-party booking", ErrInvalidInput)
	}
	if isBlank(req.Contact.Email) && isBlank(req.Contact.Phone) {
		return fmt.Errorf("%w: contact email or phone is required for a third-party booking", ErrInvalidInput)
	}
	return nil
}

// newBooking собирает pending бронирование из запроса. Валюта кухни, иначе defaultCurrency.
func newBooking(req *Request, kitchen *domain.Kitchen, defaultCurrency string) *domain.Booking {
	booking := &domain.Booking{
		KitchenID:     req.KitchenID,
		BookingDate:   req.Date,
		StartTime:     req.StartTime,
		EndTime:       req.EndTime,
		Status:        domain.StatusPending,
		PaymentStatus: domain.PaymentStatusNone,
		Currency:      kitchen.Currency,
		Contact:       normalizeContact(req.Contact),
		Notes:         req.Notes,
	}
	if booking.Currency == "" {
		booking.Currency = defaultCurrency
	}

	switch req.Actor.Role {
	case domain.RoleChef:
		booking.ChefID = ptr.Ptr(req.Actor.UserID)
	case domain.RolePortal:
		booking.PortalUserID = ptr.Ptr(req.Actor.UserID)
	}

	return booking
}

func normalizeContact(c domain.Contact) domain.Contact {
	return domain.Contact{
		Name:  trimmed(c.Name),
		Email: trimmed(c.Email),
		Phone: trimmed(c.Phone),
	}
}

func trimmed(s *string) *string {
	if isBlank(s) {
		return nil
	}
	return ptr.Ptr(strings.TrimSpace(*s))
}

func isBlank(s *string) bool {
	return s == nil || strings.TrimSpace(*s) == ""
}
