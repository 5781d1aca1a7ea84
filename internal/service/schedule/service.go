package schedule

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Raunak-Sarmacharya/LocalCooksCommunity-sub005/internal/domain"
	availabilityRepo "github.com/Raunak-Sarmacharya/LocalCooksCommunity-sub005/internal/infra/storage/availability"
	kitchenRepo "github.com/Raunak-Sarmacharya/LocalCooksCommunity-sub005/internal/infra/storage/kitchen"
	locationRepo "github.com/Raunak-Sarmacharya/LocalCooksCommunity-sub005/internal/infra/storage/location"
	"github.com/Raunak-Sarmacharya/LocalCooksCommunity-sub005/internal/service/schedule/models"
	"github.com/Raunak-Sarmacharya/LocalCooksCommunity-sub005/pkg/types"
)

// Время, сохраняемое для закрытого дня недели без указанного окна
const (
	closedDayStart types.TimeString = "00:00"
	closedDayEnd   types.TimeString = "24:00"
)

// Service сервис настройки расписания кухонь и политики локаций.
// Все операции доступны только менеджеру локации (или администратору).
type Service struct {
	availabilityRepo AvailabilityRepository
	bookingRepo      BookingRepository
	kitchenRepo      KitchenRepository
	locationRepo     LocationRepository
	txManager        TransactionManager
	logger           Logger
}

// NewService создает новый экземпляр сервиса расписания
func NewService(
	availabilityRepo AvailabilityRepository,
	bookingRepo BookingRepository,
	kitchenRepo KitchenRepository,
	locationRepo LocationRepository,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		availabilityRepo: availabilityRepo,
		bookingRepo:      bookingRepo,
		kitchenRepo:      kitchenRepo,
		locationRepo:     locationRepo,
		txManager:        txManager,
		logger:           logger,
	}
}

// GetKitchenSchedule возвращает еженедельное расписание и исключения кухни
func (s *Service) GetKitchenSchedule(ctx context.Context, req *models.GetScheduleRequest) (*models.ScheduleResponse, error) {
	s.logger.Info("GetKitchenSchedule: kitchen=%d, user=%d", req.KitchenID, req.Actor.UserID)

	kitchen, err := s.checkKitchenManager(ctx, "GetKitchenSchedule", req.KitchenID, req.Actor)
	if err != nil {
		return nil, err
	}

	if req.From != nil && req.To != nil && req.From.After(*req.To) {
		return nil, fmt.Errorf("%w: from is after to", ErrInvalidInput)
	}

	weekly, err := s.availabilityRepo.GetAllWeekly(ctx, req.KitchenID)
	if err != nil {
		s.logger.Error("GetKitchenSchedule: failed to get weekly schedule for kitchen=%d: %v", req.KitchenID, err)
		return nil, fmt.Errorf("%w: GetKitchenSchedule - get weekly: %v", ErrInternal, err)
	}

	overrides, err := s.availabilityRepo.GetOverrides(ctx, req.KitchenID, req.From, req.To)
	if err != nil {
		s.logger.Error("GetKitchenSchedule: failed to get overrides for kitchen=%d: %v", req.KitchenID, err)
		return nil, fmt.Errorf("%w: GetKitchenSchedule - get overrides: %v", ErrInternal, err)
	}

	resp := &models.ScheduleResponse{
		KitchenID:  kitchen.ID,
		LocationID: kitchen.LocationID,
		Weekly:     make([]models.WeeklyResponse, 0, len(weekly)),
		Overrides:  make([]models.OverrideResponse, 0, len(overrides)),
	}
	for _, w := range weekly {
		resp.Weekly = append(resp.Weekly, models.FromDomainWeekly(w))
	}
	for _, o := range overrides {
		resp.Overrides = append(resp.Overrides, models.FromDomainOverride(o))
	}

	s.logger.Info("GetKitchenSchedule: kitchen=%d has %d weekly entries, %d overrides",
		req.KitchenID, len(resp.Weekly), len(resp.Overrides))
	return resp, nil
}

// ListDateOverrides возвращает исключения кухни за период
func (s *Service) ListDateOverrides(ctx context.Context, req *models.GetScheduleRequest) ([]models.OverrideResponse, error) {
	schedule, err := s.GetKitchenSchedule(ctx, req)
	if err != nil {
		return nil, err
	}
	return schedule.Overrides, nil
}

// UpsertWeeklyAvailability создает или заменяет запись расписания дня недели (last write wins)
func (s *Service) UpsertWeeklyAvailability(ctx context.Context, req *models.UpsertWeeklyRequest) (*models.WeeklyResponse, error) {
	s.logger.Info("UpsertWeeklyAvailability: kitchen=%d, day=%d, %s-%s, available=%t by user=%d",
		req.KitchenID, req.DayOfWeek, req.StartTime, req.EndTime, req.IsAvailable, req.Actor.UserID)

	// 1. Валидируем входные данные
	weekly, err := validateWeekly(req)
	if err != nil {
		s.logger.Warn("UpsertWeeklyAvailability: validation failed: %v", err)
		return nil, err
	}

	// 2. Проверяем права доступа
	if _, err := s.checkKitchenManager(ctx, "UpsertWeeklyAvailability", req.KitchenID, req.Actor); err != nil {
		return nil, err
	}

	// 3. Сохраняем
	saved, err := s.availabilityRepo.UpsertWeekly(ctx, weekly)
	if err != nil {
		s.logger.Error("UpsertWeeklyAvailability: repository error for kitchen=%d: %v", req.KitchenID, err)
		return nil, fmt.Errorf("%w: UpsertWeeklyAvailability - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("UpsertWeeklyAvailability: saved weekly entry id=%d", saved.ID)
	resp := models.FromDomainWeekly(saved)
	return &resp, nil
}

// UpsertDateOverride создает или заменяет исключение на дату.
// Закрыть дату с подтвержденными бронированиями нельзя - сначала их нужно отменить.
func (s *Service) UpsertDateOverride(ctx context.Context, req *models.UpsertOverrideRequest) (*models.OverrideResponse, error) {
	s.logger.Info("UpsertDateOverride: kitchen=%d, date=%s, available=%t by user=%d",
		req.KitchenID, req.Date, req.IsAvailable, req.Actor.UserID)

	// 1. Валидируем входные данные
	override, err := validateOverride(req)
	if err != nil {
		s.logger.Warn("UpsertDateOverride: validation failed: %v", err)
		return nil, err
	}

	// 2. Проверяем права доступа
	if _, err := s.checkKitchenManager(ctx, "UpsertDateOverride", req.KitchenID, req.Actor); err != nil {
		return nil, err
	}

	// 3. Проверка подтвержденных бронирований и запись в одной транзакции
	var saved *domain.DateOverride
	err = s.txManager.Do(ctx, func(txCtx context.Context) error {
		if !override.IsAvailable {
			confirmed, err := s.bookingRepo.CountByKitchenDateAndStatus(txCtx, req.KitchenID, req.Date, domain.StatusConfirmed)
			if err != nil {
				s.logger.Error("UpsertDateOverride: failed to count bookings: %v", err)
				return fmt.Errorf("%w: UpsertDateOverride - count bookings: %v", ErrInternal, err)
			}
			if confirmed > 0 {
				s.logger.Warn("UpsertDateOverride: kitchen=%d has %d confirmed bookings on %s",
					req.KitchenID, confirmed, req.Date)
				return fmt.Errorf("%w (%d)", ErrDateHasConfirmedBookings, confirmed)
			}
		}

		var err error
		saved, err = s.availabilityRepo.UpsertOverride(txCtx, override)
		if err != nil {
			s.logger.Error("UpsertDateOverride: repository error for kitchen=%d: %v", req.KitchenID, err)
			return fmt.Errorf("%w: UpsertDateOverride - repository error: %v", ErrInternal, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("UpsertDateOverride: saved override id=%d", saved.ID)
	resp := models.FromDomainOverride(saved)
	return &resp, nil
}

// DeleteDateOverride удаляет исключение, дата возвращается к еженедельному расписанию
func (s *Service) DeleteDateOverride(ctx context.Context, req *models.OverrideKeyRequest) error {
	s.logger.Info("DeleteDateOverride: kitchen=%d, date=%s by user=%d", req.KitchenID, req.Date, req.Actor.UserID)

	if _, err := s.checkKitchenManager(ctx, "DeleteDateOverride", req.KitchenID, req.Actor); err != nil {
		return err
	}

	if err := s.availabilityRepo.DeleteOverride(ctx, req.KitchenID, req.Date); err != nil {
		if errors.Is(err, availabilityRepo.ErrOverrideNotFound) {
			s.logger.Warn("DeleteDateOverride: no override for kitchen=%d on %s", req.KitchenID, req.Date)
			return ErrOverrideNotFound
		}
		s.logger.Error("DeleteDateOverride: repository error: %v", err)
		return fmt.Errorf("%w: DeleteDateOverride - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("DeleteDateOverride: deleted override for kitchen=%d on %s", req.KitchenID, req.Date)
	return nil
}

// UpdateLocationPolicy обновляет часовой пояс, лимиты и политику отмены локации
func (s *Service) UpdateLocationPolicy(ctx context.Context, req *models.UpdateLocationPolicyRequest) (*models.LocationPolicyResponse, error) {
	s.logger.Info("UpdateLocationPolicy: location=%d by user=%d", req.LocationID, req.Actor.UserID)

	// 1. Валидируем входные данные
	if err := validatePolicy(req); err != nil {
		s.logger.Warn("UpdateLocationPolicy: validation failed: %v", err)
		return nil, err
	}

	// 2. Проверяем права доступа
	location, err := s.getLocation(ctx, "UpdateLocationPolicy", req.LocationID)
	if err != nil {
		return nil, err
	}
	if !req.Actor.CanManage(location) {
		s.logger.Warn("UpdateLocationPolicy: user=%d is not a manager of location=%d", req.Actor.UserID, req.LocationID)
		return nil, ErrAccessDenied
	}

	// 3. Сохраняем
	policy := req.ToDomainPolicy()
	if err := s.locationRepo.UpdatePolicy(ctx, req.LocationID, policy); err != nil {
		if errors.Is(err, locationRepo.ErrLocationNotFound) {
			return nil, ErrLocationNotFound
		}
		s.logger.Error("UpdateLocationPolicy: repository error for location=%d: %v", req.LocationID, err)
		return nil, fmt.Errorf("%w: UpdateLocationPolicy - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("UpdateLocationPolicy: updated location=%d, timezone=%s, limit=%d, window=%dh",
		req.LocationID, policy.Timezone, policy.DefaultDailyBookingLimit, policy.MinimumBookingWindowHours)
	return models.FromDomainPolicy(req.LocationID, policy), nil
}

// Вспомогательные методы

// checkKitchenManager получает кухню и проверяет, что пользователь управляет ее локацией
func (s *Service) checkKitchenManager(ctx context.Context, op string, kitchenID int64, actor domain.Actor) (*domain.Kitchen, error) {
	kitchen, err := s.kitchenRepo.GetByID(ctx, kitchenID)
	if err != nil {
		if errors.Is(err, kitchenRepo.ErrKitchenNotFound) {
			s.logger.Warn("%s: kitchen id=%d not found", op, kitchenID)
			return nil, ErrKitchenNotFound
		}
		s.logger.Error("%s: failed to get kitchen id=%d: %v", op, kitchenID, err)
		return nil, fmt.Errorf("%w: %s - get kitchen: %v", ErrInternal, op, err)
	}

	location, err := s.getLocation(ctx, op, kitchen.LocationID)
	if err != nil {
		return nil, err
	}

	if !actor.CanManage(location) {
		s.logger.Warn("%s: user=%d is not a manager of location=%d", op, actor.UserID, location.ID)
		return nil, ErrAccessDenied
	}

	return kitchen, nil
}

func (s *Service) getLocation(ctx context.Context, op string, locationID int64) (*domain.Location, error) {
	location, err := s.locationRepo.GetByID(ctx, locationID)
	if err != nil {
		if errors.Is(err, locationRepo.ErrLocationNotFound) {
			s.logger.Warn("%s: location id=%d not found", op, locationID)
			return nil, ErrLocationNotFound
		}
		s.logger.Error("%s: failed to get location id=%d: %v", op, locationID, err)
		return nil, fmt.Errorf("%w: %s - get location: %v", ErrInternal, op, err)
	}
	return location, nil
}

// validateWeekly валидирует запись расписания дня недели
func validateWeekly(req *models.UpsertWeeklyRequest) (*domain.WeeklyAvailability, error) {
	if req.DayOfWeek < 0 || req.DayOfWeek > 6 {
		return nil, fmt.Errorf("%w: dayOfWeek must be between 0 and 6", ErrInvalidInput)
	}

	if err := validateMaxSlots(req.MaxSlotsPerChef); err != nil {
		return nil, err
	}

	weekly := &domain.WeeklyAvailability{
		KitchenID:       req.KitchenID,
		DayOfWeek:       req.DayOfWeek,
		StartTime:       closedDayStart,
		EndTime:         closedDayEnd,
		IsAvailable:     req.IsAvailable,
		MaxSlotsPerChef: req.MaxSlotsPerChef,
	}

	// Закрытому дню время не нужно, в колонки NOT NULL пишется весь день
	if !req.IsAvailable && req.StartTime == "" && req.EndTime == "" {
		return weekly, nil
	}

	if req.IsAvailable && (req.StartTime == "" || req.EndTime == "") {
		return nil, fmt.Errorf("%w: startTime and endTime are required for an open day", ErrInvalidInput)
	}

	window, err := parseWindow(req.StartTime, req.EndTime)
	if err != nil {
		return nil, err
	}
	weekly.StartTime = window.Start
	weekly.EndTime = window.End

	return weekly, nil
}

// validateOverride валидирует исключение на дату.
// Для закрытого дня время не обязательно и не сохраняется.
func validateOverride(req *models.UpsertOverrideRequest) (*domain.DateOverride, error) {
	if req.Date.IsZero() {
		return nil, fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	if req.Reason != nil && len(*req.Reason) > domain.MaxOverrideReasonLength {
		return nil, fmt.Errorf("%w: reason must be at most %d characters", ErrInvalidInput, domain.MaxOverrideReasonLength)
	}

	if err := validateMaxSlots(req.MaxSlotsPerChef); err != nil {
		return nil, err
	}

	override := &domain.DateOverride{
		KitchenID:       req.KitchenID,
		SpecificDate:    req.Date,
		IsAvailable:     req.IsAvailable,
		MaxSlotsPerChef: req.MaxSlotsPerChef,
		Reason:          req.Reason,
	}

	if !req.IsAvailable {
		return override, nil
	}

	if req.StartTime == nil || req.EndTime == nil {
		return nil, fmt.Errorf("%w: startTime and endTime are required for an open day", ErrInvalidInput)
	}

	window, err := parseWindow(*req.StartTime, *req.EndTime)
	if err != nil {
		return nil, err
	}
	override.StartTime = window.Start
	override.EndTime = window.End

	return override, nil
}

// validatePolicy валидирует параметры политики локации
func validatePolicy(req *models.UpdateLocationPolicyRequest) error {
	if req.Timezone == "" {
		return fmt.Errorf("%w: timezone is required", ErrInvalidInput)
	}
	if _, err := time.LoadLocation(req.Timezone); err != nil {
		return fmt.Errorf("%w: unknown timezone %q", ErrInvalidInput, req.Timezone)
	}

	if req.DefaultDailyBookingLimit < domain.MinDailyBookingLimit || req.DefaultDailyBookingLimit > domain.MaxDailyBookingLimit {
		return fmt.Errorf("%w: defaultDailyBookingLimit must be between %d and %d",
			ErrInvalidInput, domain.MinDailyBookingLimit, domain.MaxDailyBookingLimit)
	}

	if req.MinimumBookingWindowHours < domain.MinBookingWindowHours || req.MinimumBookingWindowHours > domain.MaxBookingWindowHours {
		return fmt.Errorf("%w: minimumBookingWindowHours must be between %d and %d",
			ErrInvalidInput, domain.MinBookingWindowHours, domain.MaxBookingWindowHours)
	}

	if h := req.CancellationPolicyHours; h != nil && (*h < domain.MinCancellationPolicyHours || *h > domain.MaxCancellationPolicyHours) {
		return fmt.Errorf("%w: cancellationPolicyHours must be between %d and %d",
			ErrInvalidInput, domain.MinCancellationPolicyHours, domain.MaxCancellationPolicyHours)
	}

	if len(req.CancellationPolicyMessage) > domain.MaxCancellationMessageLength {
		return fmt.Errorf("%w: cancellationPolicyMessage must be at most %d characters",
			ErrInvalidInput, domain.MaxCancellationMessageLength)
	}

	return nil
}

func validateMaxSlots(maxSlots *int) error {
	if maxSlots != nil && (*maxSlots < domain.MinSlotsPerChef || *maxSlots > domain.MaxSlotsPerChef) {
		return fmt.Errorf("%w: maxSlotsPerChef must be between %d and %d",
			ErrInvalidInput, domain.MinSlotsPerChef, domain.MaxSlotsPerChef)
	}
	return nil
}

func parseWindow(startStr, endStr string) (domain.TimeWindow, error) {
	start, err := types.NewTimeStringFromString(startStr)
	if err != nil {
		return domain.TimeWindow{}, fmt.Errorf("%w: invalid startTime %q", ErrInvalidInput, startStr)
	}
	end, err := types.NewTimeStringFromString(endStr)
	if err != nil {
		return domain.TimeWindow{}, fmt.Errorf("%w: invalid endTime %q", ErrInvalidInput, endStr)
	}

	window := domain.TimeWindow{Start: start, End: end}
	if !window.IsValid() {
		return domain.TimeWindow{}, fmt.Errorf("%w: startTime must be before endTime", ErrInvalidInput)
	}
	return window, nil
}
