package domain

// Default configuration values
const (
	DefaultDailyBookingLimit         = 2
	DefaultMinimumBookingWindowHours = 1
	DefaultCurrency                  = "CAD"
)

// Business validation constants
const (
	MinDailyBookingLimit         = 1
	MaxDailyBookingLimit         = 24
	MinBookingWindowHours        = 0
	MaxBookingWindowHours        = 168 // 1 week
	MinCancellationPolicyHours   = 0
	MaxCancellationPolicyHours   = 720
	MinSlotsPerChef              = 1
	MaxSlotsPerChef              = 24
	SlotMinutes                  = 60 // слот-час
	MaxNotesLength               = 500
	MaxCancellationReasonLength  = 500
	MaxOverrideReasonLength      = 255
	MaxCancellationMessageLength = 1000
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// ActiveStatuses статусы, занимающие время кухни
var ActiveStatuses = []BookingStatus{
	StatusPending,
	StatusConfirmed,
}

// IsValidStatus returns true for known booking statuses
func IsValidStatus(s BookingStatus) bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCancelled:
		return true
	}
	return false
}
