package models

import (
	"time"

	"github.com/Raunak-Sarmacharya/LocalCooksCommunity-sub005/internal/domain"
	"github.com/Raunak-Sarmacharya/LocalCooksCommunity-sub005/pkg/types"
)

// Request модели

// UpsertWeeklyRequest запрос на изменение расписания дня недели
type UpsertWeeklyRequest struct {
	Actor           domain.Actor
	KitchenID       int64
	DayOfWeek       int // 0 = воскресенье
	StartTime       string
	EndTime         string
	IsAvailable     bool
	MaxSlotsPerChef *int // NULL = лимит локации
}

// UpsertOverrideRequest запрос на установку исключения на дату
type UpsertOverrideRequest struct {
	Actor           domain.Actor
	KitchenID       int64
	Date            types.Date
	StartTime       *string // обязательно для открытого дня
	EndTime         *string
	IsAvailable     bool
	MaxSlotsPerChef *int
	Reason          *string
}

// OverrideKeyRequest запрос, адресующий исключение кухни на дату
type OverrideKeyRequest struct {
	Actor     domain.Actor
	KitchenID int64
	Date      types.Date
}

// GetScheduleRequest запрос на получение расписания кухни
type GetScheduleRequest struct {
	Actor     domain.Actor
	KitchenID int64
	From      *types.Date // период исключений (опционально)
	To        *types.Date
}

// UpdateLocationPolicyRequest запрос на изменение политики локации
type UpdateLocationPolicyRequest struct {
	Actor                     domain.Actor
	LocationID                int64
	Timezone                  string
	CancellationPolicyHours   *int // NULL отключает автоматическое списание
	CancellationPolicyMessage string
	DefaultDailyBookingLimit  int
	MinimumBookingWindowHours int
}

// ToDomainPolicy конвертирует запрос в domain модель
func (r *UpdateLocationPolicyRequest) ToDomainPolicy() domain.LocationPolicy {
	return domain.LocationPolicy{
		Timezone:                  r.Timezone,
		CancellationPolicyHours:   r.CancellationPolicyHours,
		CancellationPolicyMessage: r.CancellationPolicyMessage,
		DefaultDailyBookingLimit:  r.DefaultDailyBookingLimit,
		MinimumBookingWindowHours: r.MinimumBookingWindowHours,
	}
}

// Response модели

// WeeklyResponse запись еженедельного расписания
type WeeklyResponse struct {
	ID              int64     `json:"id"`
	DayOfWeek       int       `json:"dayOfWeek"`
	StartTime       string    `json:"startTime"`
	EndTime         string    `json:"endTime"`
	IsAvailable     bool      `json:"isAvailable"`
	MaxSlotsPerChef *int      `json:"maxSlotsPerChef,omitempty"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// OverrideResponse исключение на дату
type OverrideResponse struct {
	ID              int64     `json:"id"`
	Date            string    `json:"date"`
	StartTime       *string   `json:"startTime,omitempty"`
	EndTime         *string   `json:"endTime,omitempty"`
	IsAvailable     bool      `json:"isAvailable"`
	MaxSlotsPerChef *int      `json:"maxSlotsPerChef,omitempty"`
	Reason          *string   `json:"reason,omitempty"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// ScheduleResponse расписание кухни
type ScheduleResponse struct {
	KitchenID  int64              `json:"kitchenId"`
	LocationID int64              `json:"locationId"`
	Weekly     []WeeklyResponse   `json:"weekly"`
	Overrides  []OverrideResponse `json:"overrides"`
}

// LocationPolicyResponse политика локации
type LocationPolicyResponse struct {
	LocationID                int64  `json:"locationId"`
	Timezone                  string `json:"timezone"`
	CancellationPolicyHours   *int   `json:"cancellationPolicyHours"`
	CancellationPolicyMessage string `json:"cancellationPolicyMessage"`
	DefaultDailyBookingLimit  int    `json:"defaultDailyBookingLimit"`
	MinimumBookingWindowHours int    `json:"minimumBookingWindowHours"`
}

// Конвертеры

// FromDomainWeekly конвертирует запись недели в DTO
func FromDomainWeekly(w *domain.WeeklyAvailability) WeeklyResponse {
	return WeeklyResponse{
		ID:              w.ID,
		DayOfWeek:       w.DayOfWeek,
		StartTime:       w.StartTime.String(),
		EndTime:         w.EndTime.String(),
		IsAvailable:     w.IsAvailable,
		MaxSlotsPerChef: w.MaxSlotsPerChef,
		UpdatedAt:       w.UpdatedAt,
	}
}

// FromDomainOverride конвертирует исключение в DTO
func FromDomainOverride(o *domain.DateOverride) OverrideResponse {
	resp := OverrideResponse{
		ID:              o.ID,
		Date:            o.SpecificDate.String(),
		IsAvailable:     o.IsAvailable,
		MaxSlotsPerChef: o.MaxSlotsPerChef,
		Reason:          o.Reason,
		UpdatedAt:       o.UpdatedAt,
	}
	if !o.StartTime.IsZero() {
		start := o.StartTime.String()
		resp.StartTime = &start
	}
	if !o.EndTime.IsZero() {
		end := o.EndTime.String()
		resp.EndTime = &end
	}
	return resp
}

// FromDomainPolicy конвертирует политику локации в DTO
func FromDomainPolicy(locationID int64, p domain.LocationPolicy) *LocationPolicyResponse {
	return &LocationPolicyResponse{
		LocationID:                locationID,
		Timezone:                  p.Timezone,
		CancellationPolicyHours:   p.CancellationPolicyHours,
		CancellationPolicyMessage: p.CancellationPolicyMessage,
		DefaultDailyBookingLimit:  p.DefaultDailyBookingLimit,
		MinimumBookingWindowHours: p.MinimumBookingWindowHours,
	}
}
