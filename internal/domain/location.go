package domain

import "time"

// Location площадка, которой принадлежат кухни.
// Хранит политику бронирования: часовой пояс, дневной лимит и политику отмены.
type Location struct {
	ID       int64
	Name     string
	Timezone string // IANA, например America/St_Johns

	// CancellationPolicyHours NULL отключает автоматическое списание по политике отмены
	CancellationPolicyHours   *int
	CancellationPolicyMessage string

	DefaultDailyBookingLimit  int // слот-часы на одного шефа в день
	MinimumBookingWindowHours int

	ManagerID         *int64
	NotificationEmail *string
	NotificationPhone *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsManagedBy returns true if userID is the manager of the location
func (l *Location) IsManagedBy(userID int64) bool {
	return l.ManagerID != nil && *l.ManagerID == userID
}

// HasCancellationPolicy returns true if payments at this location are captured by the cancellation policy
func (l *Location) HasCancellationPolicy() bool {
	return l.CancellationPolicyHours != nil
}

// LocationPolicy изменяемая менеджером часть настроек локации
type LocationPolicy struct {
	Timezone                  string
	CancellationPolicyHours   *int
	CancellationPolicyMessage string
	DefaultDailyBookingLimit  int
	MinimumBookingWindowHours int
}
