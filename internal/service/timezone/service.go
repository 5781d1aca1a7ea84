package timezone

import (
	"fmt"
	"sync"
	"time"

	"github.com/Raunak-Sarmacharya/LocalCooksCommunity-sub005/pkg/types"
)

// Service единственный источник "сейчас" и перевода локального времени локации в абсолютное.
// Часовой пояс процесса не используется.
type Service struct {
	fallback     *time.Location
	timeProvider TimeProvider
	logger       Logger

	cache sync.Map // имя пояса -> *time.Location
}

// NewService создает сервис. defaultTimezone используется для локаций без пояса или с неизвестным поясом.
func NewService(defaultTimezone string, timeProvider TimeProvider, logger Logger) (*Service, error) {
	fallback, err := time.LoadLocation(defaultTimezone)
	if err != nil {
		return nil, fmt.Errorf("load default timezone %q: %w", defaultTimezone, err)
	}
	if timeProvider == nil {
		timeProvider = &RealTimeProvider{}
	}

	return &Service{
		fallback:     fallback,
		timeProvider: timeProvider,
		logger:       logger,
	}, nil
}

// LoadLocation возвращает часовой пояс по IANA-имени, при ошибке - пояс по умолчанию
func (s *Service) LoadLocation(name string) *time.Location {
	if name == "" {
		return s.fallback
	}
	if loc, ok := s.cache.Load(name); ok {
		return loc.(*time.Location)
	}

	loc, err := time.LoadLocation(name)
	if err != nil {
		s.logger.Warn("LoadLocation: unknown timezone %q, falling back to %s: %v", name, s.fallback, err)
		return s.fallback
	}

	s.cache.Store(name, loc)
	return loc
}

// Instant абсолютный момент локального времени hhmm на дату date в поясе tz
func (s *Service) Instant(tz string, date types.Date, hhmm types.TimeString) time.Time {
	return date.At(hhmm, s.LoadLocation(tz))
}

// Now текущее время
func (s *Service) Now() time.Time {
	return s.timeProvider.Now()
}

// IsPast возвращает true, если момент не позже текущего времени
func (s *Service) IsPast(instant time.Time) bool {
	return !instant.After(s.Now())
}

// Today текущая календарная дата в поясе tz
func (s *Service) Today(tz string) types.Date {
	return types.DateOf(s.Now().In(s.LoadLocation(tz)))
}
