package domain

import "github.com/Raunak-Sarmacharya/LocalCooksCommunity-sub005/pkg/types"

// AvailableSlot часовой слот внутри открытого окна
type AvailableSlot struct {
	StartTime types.TimeString
	EndTime   types.TimeString
	Available bool
	Reason    string // booked | past | notice_window, пусто для свободного слота
}

const (
	SlotReasonBooked       = "booked"
	SlotReasonPast         = "past"
	SlotReasonNoticeWindow = "notice_window"
)
