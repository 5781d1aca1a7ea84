package window

import "time"

// Clock источник текущего времени и часовых поясов локаций
type Clock interface {
	Now() time.Time
	LoadLocation(name string) *time.Location
}
