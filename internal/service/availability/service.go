package availability

import (
	"context"
	"errors"
	"fmt"

	"github.com/Raunak-Sarmacharya/LocalCooksCommunity-sub005/internal/domain"
	availabilityRepo "github.com/Raunak-Sarmacharya/LocalCooksCommunity-sub005/internal/infra/storage/availability"
	"github.com/Raunak-Sarmacharya/LocalCooksCommunity-sub005/pkg/types"
)

// Service вычисляет открытые окна кухни на дату
type Service struct {
	repo   AvailabilityRepository
	logger Logger
}

// NewService создает новый экземпляр сервиса доступности
func NewService(repo AvailabilityRepository, logger Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// Day расписание кухни на конкретную дату
type Day struct {
	Date     types.Date
	Weekly   *domain.WeeklyAvailability // nil, если записи на день недели нет
	Override *domain.DateOverride       // nil, если исключения на дату нет
	Windows  []domain.TimeWindow        // пусто = закрыто
}

// Resolve возвращает открытые окна кухни на дату.
// Пустой результат без ошибки означает, что кухня закрыта.
func (s *Service) Resolve(ctx context.Context, kitchenID int64, date types.Date) ([]domain.TimeWindow, error) {
	day, err := s.ResolveDay(ctx, kitchenID, date)
	if err != nil {
		return nil, err
	}
	return day.Windows, nil
}

// ResolveDay возвращает окна вместе с исходными записями расписания
// 1. Ищем исключение на дату - если есть, оно окончательно
// 2. Иначе берем еженедельную запись для дня недели
// 3. Нет ни того, ни другого - закрыто
func (s *Service) ResolveDay(ctx context.Context, kitchenID int64, date types.Date) (*Day, error) {
	day := &Day{Date: date}

	override, err := s.repo.GetOverride(ctx, kitchenID, date)
	if err != nil && !errors.Is(err, availabilityRepo.ErrOverrideNotFound) {
		s.logger.Error("ResolveDay: failed to get override for kitchen=%d, date=%s: %v", kitchenID, date, err)
		return nil, fmt.Errorf("%w: ResolveDay - get override: %v", ErrInternal, err)
	}
	day.Override = override

	if override == nil {
		weekly, err := s.repo.GetWeekly(ctx, kitchenID, int(date.Weekday()))
		if err != nil && !errors.Is(err, availabilityRepo.ErrWeeklyNotFound) {
			s.logger.Error("ResolveDay: failed to get weekly schedule for kitchen=%d, day=%d: %v",
				kitchenID, date.Weekday(), err)
			return nil, fmt.Errorf("%w: ResolveDay - get weekly: %v", ErrInternal, err)
		}
		day.Weekly = weekly
	}

	day.Windows = ResolveWindows(day.Weekly, day.Override)
	return day, nil
}

// ResolveWindows чистая функция выбора окна: исключение заменяет еженедельную запись целиком
func ResolveWindows(weekly *domain.WeeklyAvailability, override *domain.DateOverride) []domain.TimeWindow {
	if override != nil {
		if !override.IsAvailable {
			return nil
		}
		return validWindow(override.StartTime, override.EndTime)
	}

	if weekly != nil && weekly.IsAvailable {
		return validWindow(weekly.StartTime, weekly.EndTime)
	}

	return nil
}

// RequireWindow возвращает ClosedError, если ни одно окно не покрывает [start, end) целиком
func RequireWindow(date types.Date, windows []domain.TimeWindow, start, end types.TimeString) error {
	for _, w := range windows {
		if w.Covers(start, end) {
			return nil
		}
	}
	return &ClosedError{Date: date, Windows: windows}
}

// validWindow некорректное окно считается закрытым
func validWindow(start, end types.TimeString) []domain.TimeWindow {
	w := domain.TimeWindow{Start: start, End: end}
	if !w.IsValid() {
		return nil
	}
	return []domain.TimeWindow{w}
}
