package upsert_date_override

import (
	"github.com/Raunak-Sarmacharya/LocalCooksCommunity-sub005/internal/domain"
	"github.com/Raunak-Sarmacharya/LocalCooksCommunity-sub005/internal/service/schedule/models"
	"github.com/Raunak-Sarmacharya/LocalCooksCommunity-sub005/pkg/types"
)

// UpsertOverrideRequest HTTP request model. Время обязательно только для открытого дня.
type UpsertOverrideRequest struct {
	StartTime       *string `json:"startTime,omitempty" validate:"omitempty,hhmm"`
	EndTime         *string `json:"endTime,omitempty" validate:"omitempty,hhmm"`
	IsAvailable     *bool   `json:"isAvailable" validate:"required"`
	MaxSlotsPerChef *int    `json:"maxSlotsPerChef,omitempty" validate:"omitempty,min=1,max=24"`
	Reason          *string `json:"reason,omitempty" validate:"omitempty,max=255"`
}

// ToServiceRequest конвертирует HTTP request в модель сервиса
func (r *UpsertOverrideRequest) ToServiceRequest(actor domain.Actor, kitchenID int64, date types.Date) *models.UpsertOverrideRequest {
	return &models.UpsertOverrideRequest{
		Actor:           actor,
		KitchenID:       kitchenID,
		Date:            date,
		StartTime:       r.StartTime,
		EndTime:         r.EndTime,
		IsAvailable:     *r.IsAvailable,
		MaxSlotsPerChef: r.MaxSlotsPerChef,
		Reason:          r.Reason,
	}
}
