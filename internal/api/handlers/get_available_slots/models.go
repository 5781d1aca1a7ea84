package get_available_slots

import (
	getAvailableSlots "github.com/Raunak-Sarmacharya/LocalCooksCommunity-sub005/internal/usecase/get_available_slots"
)

// AvailableSlotsResponse HTTP response model
type AvailableSlotsResponse struct {
	Date       string          `json:"date"`
	KitchenID  int64           `json:"kitchenId"`
	LocationID int64           `json:"locationId"`
	Timezone   string          `json:"timezone"`
	IsActive   bool            `json:"isActive"`
	Windows    []TimeWindow    `json:"windows"`
	Limit      Limit           `json:"limit"`
	Policy     Policy          `json:"policy"`
	Slots      []AvailableSlot `json:"slots"`
}

// TimeWindow открытое окно кухни
type TimeWindow struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// Limit лимит слот-часов на шефа и откуда он взят
type Limit struct {
	MaxSlotsPerChef int    `json:"maxSlotsPerChef"`
	Source          string `json:"source"` // date_override | weekly | location_default
}

// Policy сводка политики локации
type Policy struct {
	MinimumBookingWindowHours int    `json:"minimumBookingWindowHours"`
	CancellationPolicyHours   *int   `json:"cancellationPolicyHours"`
	CancellationPolicyMessage string `json:"cancellationPolicyMessage"`
}

// AvailableSlot модель часового слота
type AvailableSlot struct {
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	Available bool   `json:"available"`
	Reason    string `json:"reason,omitempty"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailableSlots.Response) *AvailableSlotsResponse {
	windows := make([]TimeWindow, len(resp.Windows))
	for i, w := range resp.Windows {
		windows[i] = TimeWindow{Start: w.Start.String(), End: w.End.String()}
	}

	slots := make([]AvailableSlot, len(resp.Slots))
	for i, slot := range resp.Slots {
		slots[i] = AvailableSlot{
			StartTime: slot.StartTime.String(),
			EndTime:   slot.EndTime.String(),
			Available: slot.Available,
			Reason:    slot.Reason,
		}
	}

	return &AvailableSlotsResponse{
		Date:       resp.Date.String(),
		KitchenID:  resp.KitchenID,
		LocationID: resp.LocationID,
		Timezone:   resp.Timezone,
		IsActive:   resp.IsActive,
		Windows:    windows,
		Limit: Limit{
			MaxSlotsPerChef: resp.Limit.MaxSlotsPerChef,
			Source:          string(resp.Limit.Source),
		},
		Policy: Policy{
			MinimumBookingWindowHours: resp.Policy.MinimumBookingWindowHours,
			CancellationPolicyHours:   resp.Policy.CancellationPolicyHours,
			CancellationPolicyMessage: resp.Policy.CancellationPolicyMessage,
		},
		Slots: slots,
	}
}
