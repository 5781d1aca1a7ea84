package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/Raunak-Sarmacharya/LocalCooksCommunity-sub005/internal/domain"
	"github.com/Raunak-Sarmacharya/LocalCooksCommunity-sub005/pkg/dbmetrics"
	"github.com/Raunak-Sarmacharya/LocalCooksCommunity-sub005/pkg/psqlbuilder"
	"github.com/Raunak-Sarmacharya/LocalCooksCommunity-sub005/pkg/types"
)

const (
	tableName = "kitchen_bookings"

	// pqExclusionViolation код ошибки PostgreSQL exclusion_violation
	pqExclusionViolation = "23P01"
)

var columns = []string{
	"id",
	"kitchen_id",
	"chef_id",
	"portal_user_id",
	"booking_date",
	"start_time",
	"end_time",
	"status",
	"payment_intent_id",
	"payment_status",
	"total_price_cents",
	"currency",
	"contact_name",
	"contact_email",
	"contact_phone",
	"notes",
	"cancellation_reason",
	"cancelled_at",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с бронированиями
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новое бронирование
// Если в контексте передана активная транзакция (через context.Value), использует её.
// Пересечение с активным бронированием отсекается exclusion constraint и возвращает ErrSlotNotAvailable.
func (r *Repository) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(tableName).
		Columns(
			"kitchen_id",
			"chef_id",
			"portal_user_id",
			"booking_date",
			"start_time",
			"end_time",
			"status",
			"payment_intent_id",
			"payment_status",
			"total_price_cents",
			"currency",
			"contact_name",
			"contact_email",
			"contact_phone",
			"notes",
		).
		Values(
			booking.KitchenID,
			booking.ChefID,
			booking.PortalUserID,
			booking.BookingDate,
			booking.StartTime,
			booking.EndTime,
			booking.Status,
			booking.PaymentIntentID,
			booking.PaymentStatus,
			booking.TotalPriceCents,
			booking.Currency,
			booking.Contact.Name,
			booking.Contact.Email,
			booking.Contact.Phone,
			booking.Notes,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&booking.ID,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		if isExclusionViolation(err) {
			return nil, ErrSlotNotAvailable
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	booking.CreatedAt = createdAt.Time
	booking.UpdatedAt = updatedAt.Time

	return booking, nil
}

// GetByID получает бронирование по ID
// Внутри транзакции строка блокируется (FOR UPDATE)
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(columns...).
		From(tableName).
		Where(squirrel.Eq{"id": id})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	booking, err := scanBooking(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan booking: %v", ErrScanRow, err)
	}

	return booking, nil
}

// GetByBooker получает бронирования шефа или портального пользователя
// Опционально фильтрует по статусу
func (r *Repository) GetByBooker(ctx context.Context, userID int64, status *domain.BookingStatus) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(columns...).
		From(tableName).
		Where(squirrel.Or{
			squirrel.Eq{"chef_id": userID},
			squirrel.Eq{"portal_user_id": userID},
		}).
		OrderBy("booking_date DESC, start_time DESC")

	if status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *status})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByBooker - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByBooker - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanBookings(rows)
}

// GetByKitchenWithFilter получает бронирования кухни с фильтрацией по периоду и статусу
//
// Примеры использования:
//
//  1. Активные бронирования кухни на дату (для проверки конфликтов и лимитов):
//     filter := domain.KitchenBookingsFilter{KitchenID: 1, StartDate: &date, EndDate: &date}
//
//  2. Все бронирования за период, включая отмененные:
//     filter := domain.KitchenBookingsFilter{KitchenID: 1, StartDate: &from, EndDate: &to, IncludeInactive: true}
func (r *Repository) GetByKitchenWithFilter(ctx context.Context, filter domain.KitchenBookingsFilter) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(columns...).
		From(tableName).
		Where(squirrel.Eq{"kitchen_id": filter.KitchenID})

	if filter.StartDate != nil {
		selectBuilder = selectBuilder.Where(squirrel.GtOrEq{"booking_date": *filter.StartDate})
	}
	if filter.EndDate != nil {
		selectBuilder = selectBuilder.Where(squirrel.LtOrEq{"booking_date": *filter.EndDate})
	}

	if filter.Status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *filter.Status})
	} else if !filter.IncludeInactive {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": statusStrings(domain.ActiveStatuses)})
	}

	if filter.IsSingleDate() {
		selectBuilder = selectBuilder.OrderBy("start_time ASC")
	} else {
		selectBuilder = selectBuilder.OrderBy("booking_date DESC, start_time DESC")
	}

	// В транзакции блокируем бронирования даты (usecase создания бронирования)
	if dbmetrics.IsInTransaction(ctx) && filter.IsSingleDate() {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByKitchenWithFilter - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByKitchenWithFilter - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanBookings(rows)
}

// CountByKitchenDateAndStatus считает бронирования кухни на дату в указанном статусе
func (r *Repository) CountByKitchenDateAndStatus(ctx context.Context, kitchenID int64, date types.Date, status domain.BookingStatus) (int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("COUNT(*)").
		From(tableName).
		Where(squirrel.Eq{
			"kitchen_id":   kitchenID,
			"booking_date": date,
			"status":       status,
		}).
		ToSql()

	if err != nil {
		return 0, fmt.Errorf("%w: CountByKitchenDateAndStatus - build select query: %v", ErrBuildQuery, err)
	}

	var count int
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: CountByKitchenDateAndStatus - scan count: %v", ErrScanRow, err)
	}

	return count, nil
}

// TransitionStatus атомарно переводит бронирование в статус to, если текущий статус входит в from
func (r *Repository) TransitionStatus(ctx context.Context, id int64, from []domain.BookingStatus, to domain.BookingStatus) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(tableName).
		Set("status", to).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id, "status": statusStrings(from)}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: TransitionStatus - build update query: %v", ErrBuildQuery, err)
	}

	return r.execConditional(ctx, executor, "TransitionStatus", id, query, args)
}

// Cancel атомарно отменяет бронирование в статусе pending или confirmed
func (r *Repository) Cancel(ctx context.Context, id int64, reason *string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(tableName).
		Set("status", domain.StatusCancelled).
		Set("cancellation_reason", reason).
		Set("cancelled_at", squirrel.Expr("NOW()")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id, "status": statusStrings(domain.ActiveStatuses)}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Cancel - build update query: %v", ErrBuildQuery, err)
	}

	return r.execConditional(ctx, executor, "Cancel", id, query, args)
}

// UpdatePaymentStatus атомарно меняет статус оплаты, если текущий равен from и бронирование не отменено
func (r *Repository) UpdatePaymentStatus(ctx context.Context, id int64, from, to domain.PaymentStatus) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(tableName).
		Set("payment_status", to).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id, "payment_status": from}).
		Where(squirrel.NotEq{"status": domain.StatusCancelled}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpdatePaymentStatus - build update query: %v", ErrBuildQuery, err)
	}

	return r.execConditional(ctx, executor, "UpdatePaymentStatus", id, query, args)
}

// GetCaptureCandidates получает неотмененные бронирования с непогашенной авторизацией
// на локациях с политикой отмены. Порог политики проверяется в вызывающем коде
// с учетом часового пояса, здесь отсекаются только заведомо далекие даты.
func (r *Repository) GetCaptureCandidates(ctx context.Context, now time.Time) ([]*domain.CaptureCandidate, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectColumns := make([]string, 0, len(columns)+3)
	for _, c := range columns {
		selectColumns = append(selectColumns, "b."+c)
	}
	selectColumns = append(selectColumns, "l.id", "l.timezone", "l.cancellation_policy_hours")

	// Запас в два дня покрывает разницу часовых поясов
	horizon := types.DateOf(now.UTC())

	query, args, err := psqlbuilder.Select(selectColumns...).
		From(tableName+" b").
		Join("kitchens k ON k.id = b.kitchen_id").
		Join("locations l ON l.id = k.location_id").
		Where(squirrel.Expr("b.payment_intent_id IS NOT NULL")).
		Where(squirrel.NotEq{"b.status": domain.StatusCancelled}).
		Where(squirrel.Eq{"b.payment_status": domain.PaymentStatusPending}).
		Where(squirrel.Expr("l.cancellation_policy_hours IS NOT NULL")).
		Where(squirrel.Expr("b.booking_date <= ?::date + (l.cancellation_policy_hours / 24 + 2)", horizon)).
		OrderBy("b.booking_date ASC", "b.start_time ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetCaptureCandidates - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetCaptureCandidates - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	candidates := make([]*domain.CaptureCandidate, 0)
	for rows.Next() {
		var (
			booking   domain.Booking
			candidate domain.CaptureCandidate
			createdAt sql.NullTime
			updatedAt sql.NullTime
		)

		dest := append(bookingDest(&booking, &createdAt, &updatedAt),
			&candidate.LocationID,
			&candidate.Timezone,
			&candidate.CancellationPolicyHours,
		)
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("%w: GetCaptureCandidates - scan row: %v", ErrScanRow, err)
		}

		booking.CreatedAt = createdAt.Time
		booking.UpdatedAt = updatedAt.Time
		candidate.Booking = &booking
		candidates = append(candidates, &candidate)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetCaptureCandidates - rows error: %v", ErrScanRow, err)
	}

	return candidates, nil
}

func (r *Repository) execConditional(ctx context.Context, executor DBExecutor, op string, id int64, query string, args []interface{}) error {
	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: %s - execute update: %v", ErrExecQuery, op, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %s - get rows affected: %v", ErrExecQuery, op, err)
	}

	if rowsAffected > 0 {
		return nil
	}

	// Различаем отсутствие бронирования и несовпадение статуса
	if _, err := r.GetByID(ctx, id); err != nil {
		return err
	}
	return ErrStatusMismatch
}

type rowScanner interface {
	Scan(dest ...any) error
}

func bookingDest(b *domain.Booking, createdAt, updatedAt *sql.NullTime) []any {
	return []any{
		&b.ID,
		&b.KitchenID,
		&b.ChefID,
		&b.PortalUserID,
		&b.BookingDate,
		&b.StartTime,
		&b.EndTime,
		&b.Status,
		&b.PaymentIntentID,
		&b.PaymentStatus,
		&b.TotalPriceCents,
		&b.Currency,
		&b.Contact.Name,
		&b.Contact.Email,
		&b.Contact.Phone,
		&b.Notes,
		&b.CancellationReason,
		&b.CancelledAt,
		createdAt,
		updatedAt,
	}
}

func scanBooking(row rowScanner) (*domain.Booking, error) {
	var booking domain.Booking
	var createdAt, updatedAt sql.NullTime

	if err := row.Scan(bookingDest(&booking, &createdAt, &updatedAt)...); err != nil {
		return nil, err
	}

	booking.CreatedAt = createdAt.Time
	booking.UpdatedAt = updatedAt.Time
	return &booking, nil
}

// scanBookings сканирует результаты запроса в слайс бронирований
func scanBookings(rows *sql.Rows) ([]*domain.Booking, error) {
	bookings := make([]*domain.Booking, 0)

	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanBookings - scan row: %v", ErrScanRow, err)
		}
		bookings = append(bookings, booking)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanBookings - rows error: %v", ErrScanRow, err)
	}

	return bookings, nil
}

func statusStrings(statuses []domain.BookingStatus) []string {
	result := make([]string, len(statuses))
	for i, s := range statuses {
		result[i] = string(s)
	}
	return result
}

func isExclusionViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == pqExclusionViolation
}
