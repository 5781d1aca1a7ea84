package upsert_weekly_availability

import (
	"github.com/Raunak-Sarmacharya/LocalCooksCommunity-sub005/internal/domain"
	"github.com/Raunak-Sarmacharya/LocalCooksCommunity-sub005/internal/service/schedule/models"
)

// UpsertWeeklyRequest HTTP request model. Время обязательно только для открытого дня, это проверяет сервис.
type UpsertWeeklyRequest struct {
	StartTime       string `json:"startTime,omitempty" validate:"omitempty,hhmm"`
	EndTime         string `json:"endTime,omitempty" validate:"omitempty,hhmm"`
	IsAvailable     *bool  `json:"isAvailable" validate:"required"`
	MaxSlotsPerChef *int   `json:"maxSlotsPerChef,omitempty" validate:"omitempty,min=1,max=24"`
}

// ToServiceRequest конвертирует HTTP request в модель сервиса
func (r *UpsertWeeklyRequest) ToServiceRequest(actor domain.Actor, kitchenID int64, dayOfWeek int) *models.UpsertWeeklyRequest {
	return &models.UpsertWeeklyRequest{
		Actor:           actor,
		KitchenID:       kitchenID,
		DayOfWeek:       dayOfWeek,
		StartTime:       r.StartTime,
		EndTime:         r.EndTime,
		IsAvailable:     *r.IsAvailable,
		MaxSlotsPerChef: r.MaxSlotsPerChef,
	}
}
