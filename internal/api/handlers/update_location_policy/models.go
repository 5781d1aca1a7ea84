package update_location_policy

import (
	"github.com/Raunak-Sarmacharya/LocalCooksCommunity-sub005/internal/domain"
	"github.com/Raunak-Sarmacharya/LocalCooksCommunity-sub005/internal/service/schedule/models"
)

// UpdateLocationPolicyRequest HTTP request model
type UpdateLocationPolicyRequest struct {
	Timezone                  string `json:"timezone" validate:"required,timezone"`
	CancellationPolicyHours   *int   `json:"cancellationPolicyHours" validate:"omitempty,min=0,max=720"`
	CancellationPolicyMessage string `json:"cancellationPolicyMessage" validate:"max=1000"`
	DefaultDailyBookingLimit  int    `json:"defaultDailyBookingLimit" validate:"min=1,max=24"`
	MinimumBookingWindowHours int    `json:"minimumBookingWindowHours" validate:"min=0,max=168"`
}

// ToServiceRequest конвертирует HTTP request в модель сервиса
func (r *UpdateLocationPolicyRequest) ToServiceRequest(actor domain.Actor, locationID int64) *models.UpdateLocationPolicyRequest {
	return &models.UpdateLocationPolicyRequest{
		Actor:                     actor,
		LocationID:                locationID,
		Timezone:                  r.Timezone,
		CancellationPolicyHours:   r.CancellationPolicyHours,
		CancellationPolicyMessage: r.CancellationPolicyMessage,
		DefaultDailyBookingLimit:  r.DefaultDailyBookingLimit,
		MinimumBookingWindowHours: r.MinimumBookingWindowHours,
	}
}
