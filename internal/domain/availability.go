package domain

import (
	"time"

	"github.com/Raunak-Sarmacharya/LocalCooksCommunity-sub005/pkg/types"
)

// WeeklyAvailability еженедельное расписание кухни на день недели.
// Не более одной записи на (kitchen_id, day_of_week).
type WeeklyAvailability struct {
	ID              int64
	KitchenID       int64
	DayOfWeek       int // 0 = воскресенье, как time.Weekday
	StartTime       types.TimeString
	EndTime         types.TimeString
	IsAvailable     bool
	MaxSlotsPerChef *int
	UpdatedAt       time.Time
}

// DateOverride исключение из расписания на конкретную дату.
// Полностью заменяет еженедельную запись на эту дату.
type DateOverride struct {
	ID              int64
	KitchenID       int64
	SpecificDate    types.Date
	StartTime       types.TimeString // пусто для закрытого дня
	EndTime         types.TimeString
	IsAvailable     bool
	MaxSlotsPerChef *int
	Reason          *string
	UpdatedAt       time.Time
}

// TimeWindow открытое для бронирования окно [Start, End)
type TimeWindow struct {
	Start types.TimeString
	End   types.TimeString
}

// Covers возвращает true, если окно полностью покрывает [start, end)
func (w TimeWindow) Covers(start, end types.TimeString) bool {
	return w.Start.Minutes() <= start.Minutes() && end.Minutes() <= w.End.Minutes()
}

// IsValid возвращает true, если окно непустое
func (w TimeWindow) IsValid() bool {
	return w.Start.Validate() == nil && w.End.Validate() == nil && w.Start.Minutes() < w.End.Minutes()
}
