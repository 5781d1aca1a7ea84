package create_booking

import (
	"github.com/Raunak-Sarmacharya/LocalCooksCommunity-sub005/internal/domain"
	createBooking "github.com/Raunak-Sarmacharya/LocalCooksCommunity-sub005/internal/usecase/create_booking"
	"github.com/Raunak-Sarmacharya/LocalCooksCommunity-sub005/pkg/types"
)

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	KitchenID       int64   `json:"kitchenId" validate:"required,gt=0"`
	BookingDate     string  `json:"bookingDate" validate:"required,date"` // "2025-03-10"
	StartTime       string  `json:"startTime" validate:"required,hhmm"`   // "14:00"
	EndTime         string  `json:"endTime" validate:"required,hhmm"`     // "16:00"
	ContactName     *string `json:"contactName,omitempty" validate:"omitempty,max=255"`
	ContactEmail    *string `json:"contactEmail,omitempty" validate:"omitempty,email"`
	ContactPhone    *string `json:"contactPhone,omitempty" validate:"omitempty,max=32"`
	Notes           *string `json:"notes,omitempty" validate:"omitempty,max=500"`
	PaymentIntentID *string `json:"paymentIntentId,omitempty" validate:"omitempty,min=1"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case.
// Формат полей уже проверен валидатором.
func (r *CreateBookingRequest) ToUseCaseRequest(actor domain.Actor) (*createBooking.Request, error) {
	date, err := types.ParseDate(r.BookingDate)
	if err != nil {
		return nil, err
	}
	start, err := types.NewTimeStringFromString(r.StartTime)
	if err != nil {
		return nil, err
	}
	end, err := types.NewTimeStringFromString(r.EndTime)
	if err != nil {
		return nil, err
	}

	return &createBooking.Request{
		Actor:     actor,
		KitchenID: r.KitchenID,
		Date:      date,
		StartTime: start,
		EndTime:   end,
		Contact: domain.Contact{
			Name:  r.ContactName,
			Email: r.ContactEmail,
			Phone: r.ContactPhone,
		},
		Notes:           r.Notes,
		PaymentIntentID: r.PaymentIntentID,
	}, nil
}
