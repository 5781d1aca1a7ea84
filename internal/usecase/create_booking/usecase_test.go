package create_booking

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Raunak-Sarmacharya/LocalCooksCommunity-sub005/internal/domain"
	"github.com/Raunak-Sarmacharya/LocalCooksCommunity-sub005/internal/infra/lock"
	availabilityRepo "github.com/Raunak-Sarmacharya/LocalCooksCommunity-sub005/internal/infra/storage/availability"
	bookingRepo "github.com/Raunak-Sarmacharya/LocalCooksCommunity-sub005/internal/infra/storage/booking"
	kitchenRepo "github.com/Raunak-Sarmacharya/LocalCooksCommunity-sub005/internal/infra/storage/kitchen"
	locationRepo "github.com/Raunak-Sarmacharya/LocalCooksCommunity-sub005/internal/infra/storage/location"
	"github.com/Raunak-Sarmacharya/LocalCooksCommunity-sub005/internal/integrations/notifications"
	"github.com/Raunak-Sarmacharya/LocalCooksCommunity-sub005/internal/integrations/payments"
	"github.com/Raunak-Sarmacharya/LocalCooksCommunity-sub005/internal/service/availability"
	"github.com/Raunak-Sarmacharya/LocalCooksCommunity-sub005/internal/service/capacity"
	"github.com/Raunak-Sarmacharya/LocalCooksCommunity-sub005/internal/service/conflicts"
	"github.com/Raunak-Sarmacharya/LocalCooksCommunity-sub005/internal/service/timezone"
	"github.com/Raunak-Sarmacharya/LocalCooksCommunity-sub005/internal/service/window"
	"github.com/Raunak-Sarmacharya/LocalCooksCommunity-sub005/pkg/logger"
	"github.com/Raunak-Sarmacharya/LocalCooksCommunity-sub005/pkg/ptr"
	"github.com/Raunak-Sarmacharya/LocalCooksCommunity-sub005/pkg/types"
)

// Fakes

// fakeStore хранилище расписания и бронирований в памяти
type fakeStore struct {
	mu        sync.Mutex
	weekly    map[int]*domain.WeeklyAvailability
	overrides map[types.Date]*domain.DateOverride
	bookings  []*domain.Booking
	createErr error
}

func (s *fakeStore) GetWeekly(_ context.Context, _ int64, dayOfWeek int) (*domain.WeeklyAvailability, error) {
	if w, ok := s.weekly[dayOfWeek]; ok {
		return w, nil
	}
	return nil, availabilityRepo.ErrWeeklyNotFound
}

func (s *fakeStore) GetOverride(_ context.Context, _ int64, date types.Date) (*domain.DateOverride, error) {
	if o, ok := s.overrides[date]; ok {
		return o, nil
	}
	return nil, availabilityRepo.ErrOverrideNotFound
}

func (s *fakeStore) GetByKitchenWithFilter(_ context.Context, filter domain.KitchenBookingsFilter) ([]*domain.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*domain.Booking
	for _, b := range s.bookings {
		if b.KitchenID != filter.KitchenID || (!filter.IncludeInactive && !b.IsActive()) {
			continue
		}
		if filter.StartDate != nil && b.BookingDate.Before(*filter.StartDate) {
			continue
		}
		if filter.EndDate != nil && b.BookingDate.After(*filter.EndDate) {
			continue
		}
		out = append(out, b)
	}
	return out, nil
}

func (s *fakeStore) Create(_ context.Context, booking *domain.Booking) (*domain.Booking, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	booking.ID = int64(len(s.bookings) + 1)
	booking.CreatedAt = time.Now()
	booking.UpdatedAt = booking.CreatedAt
	s.bookings = append(s.bookings, booking)
	return booking, nil
}

func (s *fakeStore) cancel(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, b := range s.bookings {
		if b.ID == id {
			b.Status = domain.StatusCancelled
		}
	}
}

type fakePaymentRepo struct {
	created []*domain.PaymentTransaction
	err     error
}

func (f *fakePaymentRepo) Create(_ context.Context, tx *domain.PaymentTransaction) (*domain.PaymentTransaction, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.created = append(f.created, tx)
	return tx, nil
}

type fakeKitchens struct{ kitchen *domain.Kitchen }

func (f fakeKitchens) GetByID(_ context.Context, id int64) (*domain.Kitchen, error) {
	if f.kitchen == nil || f.kitchen.ID != id {
		return nil, kitchenRepo.ErrKitchenNotFound
	}
	return f.kitchen, nil
}

type fakeLocations struct{ location *domain.Location }

func (f fakeLocations) GetByID(_ context.Context, id int64) (*domain.Location, error) {
	if f.location == nil || f.location.ID != id {
		return nil, locationRepo.ErrLocationNotFound
	}
	return f.location, nil
}

type fakePaymentClient struct {
	authorized []payments.AuthorizeRequest
	released   []string
	intents    map[string]*payments.Intent
	err        error
	getErr     error
}

func (f *fakePaymentClient) Authorize(_ context.Context, req payments.AuthorizeRequest) (*payments.Intent, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.authorized = append(f.authorized, req)
	return &payments.Intent{ID: "pi_test", Status: payments.IntentRequiresCapture, AmountCents: req.AmountCents, Currency: req.Currency}, nil
}

func (f *fakePaymentClient) GetIntent(_ context.Context, intentID string) (*payments.Intent, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	intent, ok := f.intents[intentID]
	if !ok {
		return nil, payments.ErrIntentNotFound
	}
	return intent, nil
}

// hold добавляет подтвержденный клиентом hold
func (f *fakePaymentClient) hold(id string, amount int64, currency string) {
	if f.intents == nil {
		f.intents = map[string]*payments.Intent{}
	}
	f.intents[id] = &payments.Intent{ID: id, Status: payments.IntentRequiresCapture, AmountCents: amount, Currency: currency}
}

func (f *fakePaymentClient) Release(_ context.Context, intentID string) error {
	f.released = append(f.released, intentID)
	return nil
}

type recordingNotifier struct{ events []notifications.Event }

func (n *recordingNotifier) Notify(event notifications.Event) { n.events = append(n.events, event) }

type fakeMetrics struct{ outcomes []string }

func (m *fakeMetrics) ObserveBooking(_, outcome string) { m.outcomes = append(m.outcomes, outcome) }

type fakeTxManager struct{}

func (fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// retryingTxManager выполняет fn attempts раз, откатывая записи всех попыток кроме последней,
// и запоминает число авторизаций на момент входа в транзакцию
type retryingTxManager struct {
	f                 *fixture
	attempts          int
	authorizedAtBegin []int
}

func (m *retryingTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	var err error
	for i := 0; i < m.attempts; i++ {
		m.authorizedAtBegin = append(m.authorizedAtBegin, len(m.f.payments.authorized))
		bookings, mirrors := len(m.f.store.bookings), len(m.f.payRepo.created)
		err = fn(ctx)
		if i < m.attempts-1 {
			m.f.store.bookings = m.f.store.bookings[:bookings]
			m.f.payRepo.created = m.f.payRepo.created[:mirrors]
		}
	}
	return err
}

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

type failingSender struct{}

func (failingSender) Send(context.Context, notifications.Message) error {
	return errors.New("smtp down")
}

type panickingSender struct{}

func (panickingSender) Send(context.Context, notifications.Message) error { panic("sms gateway") }

// Fixture

var monday = types.NewDate(2025, time.March, 10)

type fixture struct {
	store    *fakeStore
	payRepo  *fakePaymentRepo
	payments *fakePaymentClient
	notifier *recordingNotifier
	metrics  *fakeMetrics
	kitchen  *domain.Kitchen
	location *domain.Location
	deps     Deps
}

func newFixture(t *testing.T, now time.Time) *fixture {
	t.Helper()
	log := logger.NewNop()

	clock, err := timezone.NewService("America/St_Johns", fixedClock{now: now}, log)
	require.NoError(t, err)

	f := &fixture{
		store: &fakeStore{
			weekly: map[int]*domain.WeeklyAvailability{
				int(time.Monday): {
					KitchenID: 1, DayOfWeek: int(time.Monday), StartTime: "08:00", EndTime: "16:00",
					IsAvailable: true, MaxSlotsPerChef: ptr.Ptr(2),
				},
			},
			overrides: map[types.Date]*domain.DateOverride{},
		},
		payRepo:  &fakePaymentRepo{},
		payments: &fakePaymentClient{},
		notifier: &recordingNotifier{},
		metrics:  &fakeMetrics{},
		kitchen:  &domain.Kitchen{ID: 1, LocationID: 2, Name: "Main", IsActive: true, Currency: "CAD"},
		location: &domain.Location{
			ID: 2, Name: "Harbour", Timezone: "America/St_Johns",
			DefaultDailyBookingLimit: 5, MinimumBookingWindowHours: 1,
			NotificationEmail: ptr.Ptr("manager@example.com"),
		},
	}

	f.deps = Deps{
		BookingRepo:   f.store,
		PaymentRepo:   f.payRepo,
		KitchenRepo:   fakeKitchens{kitchen: f.kitchen},
		LocationRepo:  fakeLocations{location: f.location},
		Availability:  availability.NewService(f.store, log),
		Capacity:      capacity.NewService(f.store, f.store, log),
		Window:        window.NewValidator(clock),
		Conflicts:     conflicts.NewService(f.store, log),
		PaymentClient: f.payments,
		Notifier:      f.notifier,
		TxManager:     fakeTxManager{},
		Metrics:       f.metrics,
		Logger:        log,
	}
	return f
}

func stJohns(t *testing.T, year int, month time.Month, day, hour, min int) time.Time {
	t.Helper()
	loc, err := time.LoadLocation("America/St_Johns")
	require.NoError(t, err)
	return time.Date(year, month, day, hour, min, 0, 0, loc)
}

func chefRequest(chefID int64, start, end types.TimeString) *Request {
	return &Request{
		Actor:     domain.Actor{UserID: chefID, Role: domain.RoleChef},
		KitchenID: 1,
		Date:      monday,
		StartTime: start,
		EndTime:   end,
		Contact:   domain.Contact{Email: ptr.Ptr("chef@example.com")},
	}
}

// Tests

func TestExecute_CreatesPendingBookingWithAuthorizationHold(t *testing.T) {
	f := newFixture(t, stJohns(t, 2025, time.March, 9, 12, 0))
	f.kitchen.HourlyRateCents = ptr.Ptr(int64(3000))

	resp, err := NewUseCase(f.deps).Execute(context.Background(), chefRequest(7, "08:00", "10:00"))
	require.NoError(t, err)

	assert.Equal(t, "pending", resp.Status)
	assert.Equal(t, "pending", resp.PaymentStatus)
	assert.Equal(t, "pi_test", *resp.PaymentIntentID)
	assert.Equal(t, int64(6000), *resp.TotalPriceCents)
	assert.Equal(t, int64(7), *resp.ChefID)

	require.Len(t, f.payments.authorized, 1)
	assert.Equal(t, int64(6000), f.payments.authorized[0].AmountCents)
	assert.Equal(t, "2025-03-10", f.payments.authorized[0].Metadata["date"])

	require.Len(t, f.payRepo.created, 1)
	assert.Equal(t, domain.TransactionRequiresCapture, f.payRepo.created[0].Status)
	assert.Equal(t, resp.ID, f.payRepo.created[0].BookingID)

	require.Len(t, f.notifier.events, 1)
	assert.Equal(t, notifications.EventBookingCreated, f.notifier.events[0].Type)
	assert.Equal(t, []string{"success"}, f.metrics.outcomes)
}

func TestExecute_FreeKitchenSkipsPayment(t *testing.T) {
	f := newFixture(t, stJohns(t, 2025, time.March, 9, 12, 0))

	resp, err := NewUseCase(f.deps).Execute(context.Background(), chefRequest(7, "08:00", "09:00"))
	require.NoError(t, err)

	assert.Equal(t, "none", resp.PaymentStatus)
	assert.Nil(t, resp.PaymentIntentID)
	assert.Empty(t, f.payments.authorized)
	assert.Empty(t, f.payRepo.created)
}

func TestExecute_UsesClientSuppliedIntent(t *testing.T) {
	f := newFixture(t, stJohns(t, 2025, time.March, 9, 12, 0))
	f.kitchen.HourlyRateCents = ptr.Ptr(int64(2500))

	f.payments.hold("pi_client", 2500, "cad")

	req := chefRequest(7, "09:00", "10:00")
	req.PaymentIntentID = ptr.Ptr("pi_client")

	resp, err := NewUseCase(f.deps).Execute(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, "pi_client", *resp.PaymentIntentID)
	assert.Empty(t, f.payments.authorized)
	require.Len(t, f.payRepo.created, 1)
	assert.Equal(t, int64(2500), f.payRepo.created[0].AmountCents)
}

func TestExecute_RejectsClientIntentThatDoesNotCoverBooking(t *testing.T) {
	tests := []struct {
		name  string
		setup func(p *fakePaymentClient)
	}{
		{
			name:  "unknown intent",
			setup: func(p *fakePaymentClient) {},
		},
		{
			name:  "amount below price",
			setup: func(p *fakePaymentClient) { p.hold("pi_client", 100, "CAD") },
		},
		{
			name:  "other currency",
			setup: func(p *fakePaymentClient) { p.hold("pi_client", 2500, "USD") },
		},
		{
			name: "already captured",
			setup: func(p *fakePaymentClient) {
				p.hold("pi_client", 2500, "CAD")
				p.intents["pi_client"].Status = payments.IntentSucceeded
			},
		},
		{
			name: "canceled",
			setup: func(p *fakePaymentClient) {
				p.hold("pi_client", 2500, "CAD")
				p.intents["pi_client"].Status = payments.IntentCanceled
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, stJohns(t, 2025, time.March, 9, 12, 0))
			f.kitchen.HourlyRateCents = ptr.Ptr(int64(2500))
			tt.setup(f.payments)

			req := chefRequest(7, "09:00", "10:00")
			req.PaymentIntentID = ptr.Ptr("pi_client")

			_, err := NewUseCase(f.deps).Execute(context.Background(), req)
			require.ErrorIs(t, err, ErrPaymentIntentRejected)
			assert.ErrorIs(t, err, domain.ErrPaymentProvider)

			assert.Empty(t, f.store.bookings)
			assert.Empty(t, f.payRepo.created)
			assert.Empty(t, f.payments.released)
			assert.Equal(t, []string{"payment_failed"}, f.metrics.outcomes)
		})
	}
}

func TestExecute_ClientIntentLookupFailure(t *testing.T) {
	f := newFixture(t, stJohns(t, 2025, time.March, 9, 12, 0))
	f.payments.getErr = payments.ErrInternal

	req := chefRequest(7, "09:00", "10:00")
	req.PaymentIntentID = ptr.Ptr("pi_client")

	_, err := NewUseCase(f.deps).Execute(context.Background(), req)
	require.ErrorIs(t, err, ErrPaymentFailed)
	assert.NotErrorIs(t, err, ErrPaymentIntentRejected)
	assert.Empty(t, f.store.bookings)
}

func TestExecute_FallsBackToConfiguredCurrency(t *testing.T) {
	f := newFixture(t, stJohns(t, 2025, time.March, 9, 12, 0))
	f.kitchen.Currency = ""
	f.kitchen.HourlyRateCents = ptr.Ptr(int64(3000))
	f.deps.DefaultCurrency = "USD"

	resp, err := NewUseCase(f.deps).Execute(context.Background(), chefRequest(7, "10:00", "11:00"))
	require.NoError(t, err)

	assert.Equal(t, "USD", resp.Currency)
	require.Len(t, f.payments.authorized, 1)
	assert.Equal(t, "USD", f.payments.authorized[0].Currency)
	require.Len(t, f.payRepo.created, 1)
	assert.Equal(t, "USD", f.payRepo.created[0].Currency)
}

func TestExecute_AuthorizesBeforeTransactionAndSurvivesRetry(t *testing.T) {
	f := newFixture(t, stJohns(t, 2025, time.March, 9, 12, 0))
	f.kitchen.HourlyRateCents = ptr.Ptr(int64(3000))
	tx := &retryingTxManager{f: f, attempts: 2}
	f.deps.TxManager = tx

	resp, err := NewUseCase(f.deps).Execute(context.Background(), chefRequest(7, "10:00", "11:00"))
	require.NoError(t, err)

	assert.Equal(t, []int{1, 1}, tx.authorizedAtBegin, "hold is taken once, before the transaction")
	require.Len(t, f.store.bookings, 1)
	assert.Equal(t, resp.ID, f.store.bookings[0].ID)
	require.Len(t, f.payRepo.created, 1)
	assert.Equal(t, resp.ID, f.payRepo.created[0].BookingID)
	assert.Empty(t, f.payments.released)
}

func TestExecute_CapacitySumsHeldAndRequestedSlots(t *testing.T) {
	f := newFixture(t, stJohns(t, 2025, time.March, 9, 12, 0))
	uc := NewUseCase(f.deps)
	ctx := context.Background()

	_, err := uc.Execute(ctx, chefRequest(7, "08:00", "09:00"))
	require.NoError(t, err)

	_, err = uc.Execute(ctx, chefRequest(7, "09:00", "11:00"))
	require.ErrorIs(t, err, domain.ErrCapacityExceeded)

	var exceeded *capacity.ExceededError
	require.True(t, errors.As(err, &exceeded))
	assert.Equal(t, 2, exceeded.Limit)
	assert.Equal(t, 1, exceeded.Held)
	assert.Equal(t, 2, exceeded.Requested)
	assert.Equal(t, capacity.SourceWeekly, exceeded.Source)

	// другой шеф держит свой лимит независимо
	_, err = uc.Execute(ctx, chefRequest(8, "09:00", "11:00"))
	assert.NoError(t, err)
}

func TestExecute_ClosedWhenNoWindowCoversRequest(t *testing.T) {
	f := newFixture(t, stJohns(t, 2025, time.March, 9, 12, 0))
	uc := NewUseCase(f.deps)

	_, err := uc.Execute(context.Background(), chefRequest(7, "15:00", "17:00"))
	require.ErrorIs(t, err, domain.ErrClosed)

	var closed *availability.ClosedError
	require.True(t, errors.As(err, &closed))
	require.Len(t, closed.Windows, 1)
	assert.Equal(t, types.TimeString("16:00"), closed.Windows[0].End)

	// исключение закрывает день целиком
	f.store.overrides[monday] = &domain.DateOverride{KitchenID: 1, SpecificDate: monday, IsAvailable: false}
	_, err = uc.Execute(context.Background(), chefRequest(7, "08:00", "09:00"))
	assert.ErrorIs(t, err, domain.ErrClosed)
	assert.Empty(t, f.store.bookings)
}

func TestExecute_WindowBoundaryIsInclusive(t *testing.T) {
	// ровно за час до начала в поясе локации
	f := newFixture(t, stJohns(t, 2025, time.March, 10, 9, 0))
	uc := NewUseCase(f.deps)

	_, err := uc.Execute(context.Background(), chefRequest(7, "10:00", "11:00"))
	require.NoError(t, err)

	_, err = uc.Execute(context.Background(), chefRequest(8, "09:00", "10:00"))
	require.ErrorIs(t, err, domain.ErrWindowViolation)

	var violation *window.ViolationError
	require.True(t, errors.As(err, &violation))
	assert.Equal(t, domain.SlotReasonPast, violation.Reason)
}

func TestExecute_ConflictAndCancelRoundTrip(t *testing.T) {
	f := newFixture(t, stJohns(t, 2025, time.March, 9, 12, 0))
	uc := NewUseCase(f.deps)
	ctx := context.Background()

	first, err := uc.Execute(ctx, chefRequest(7, "10:00", "11:00"))
	require.NoError(t, err)

	_, err = uc.Execute(ctx, chefRequest(8, "10:30", "11:30"))
	require.ErrorIs(t, err, domain.ErrConflict)

	var conflict *conflicts.ConflictError
	require.True(t, errors.As(err, &conflict))
	assert.Equal(t, first.ID, conflict.Existing.ID)

	// соседний слот не конфликтует (полуоткрытые интервалы)
	_, err = uc.Execute(ctx, chefRequest(8, "11:00", "12:00"))
	require.NoError(t, err)

	f.store.cancel(first.ID)
	_, err = uc.Execute(ctx, chefRequest(9, "10:00", "11:00"))
	assert.NoError(t, err)
}

func TestExecute_ExclusionViolationIsConflict(t *testing.T) {
	f := newFixture(t, stJohns(t, 2025, time.March, 9, 12, 0))
	f.store.createErr = bookingRepo.ErrSlotNotAvailable

	_, err := NewUseCase(f.deps).Execute(context.Background(), chefRequest(7, "10:00", "11:00"))
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.Equal(t, []string{"conflict"}, f.metrics.outcomes)
}

func TestExecute_ReleasesAuthorizationWhenTransactionFails(t *testing.T) {
	f := newFixture(t, stJohns(t, 2025, time.March, 9, 12, 0))
	f.kitchen.HourlyRateCents = ptr.Ptr(int64(3000))
	f.payRepo.err = errors.New("insert failed")

	_, err := NewUseCase(f.deps).Execute(context.Background(), chefRequest(7, "10:00", "11:00"))
	require.ErrorIs(t, err, ErrInternal)

	assert.Equal(t, []string{"pi_test"}, f.payments.released)
	assert.Empty(t, f.notifier.events)
}

func TestExecute_ClientIntentIsNotReleasedOnFailure(t *testing.T) {
	f := newFixture(t, stJohns(t, 2025, time.March, 9, 12, 0))
	f.payments.hold("pi_client", 0, "CAD")
	f.payRepo.err = errors.New("insert failed")

	req := chefRequest(7, "10:00", "11:00")
	req.PaymentIntentID = ptr.Ptr("pi_client")

	_, err := NewUseCase(f.deps).Execute(context.Background(), req)
	require.Error(t, err)
	assert.Empty(t, f.payments.released)
}

func TestExecute_ReleasesAuthorizationWhenSlotIsClosed(t *testing.T) {
	f := newFixture(t, stJohns(t, 2025, time.March, 9, 12, 0))
	f.kitchen.HourlyRateCents = ptr.Ptr(int64(3000))

	_, err := NewUseCase(f.deps).Execute(context.Background(), chefRequest(7, "16:00", "17:00"))
	require.ErrorIs(t, err, domain.ErrClosed)

	assert.Equal(t, []string{"pi_test"}, f.payments.released)
	assert.Empty(t, f.store.bookings)
}

func TestExecute_DeclinedAuthorization(t *testing.T) {
	f := newFixture(t, stJohns(t, 2025, time.March, 9, 12, 0))
	f.kitchen.HourlyRateCents = ptr.Ptr(int64(3000))
	f.payments.err = payments.ErrDeclined

	_, err := NewUseCase(f.deps).Execute(context.Background(), chefRequest(7, "10:00", "11:00"))
	require.ErrorIs(t, err, domain.ErrPaymentProvider)
	assert.Empty(t, f.store.bookings)
}

func TestExecute_NotificationFailureNeverFailsCreation(t *testing.T) {
	f := newFixture(t, stJohns(t, 2025, time.March, 9, 12, 0))
	f.location.NotificationPhone = ptr.Ptr("+17095550100")

	dispatcher := notifications.NewDispatcher(failingSender{}, panickingSender{}, nil, time.Second, logger.NewNop())
	f.deps.Notifier = dispatcher

	req := chefRequest(7, "10:00", "11:00")
	req.Contact.Phone = ptr.Ptr("+17095550199")

	resp, err := NewUseCase(f.deps).Execute(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "pending", resp.Status)

	dispatcher.Wait()
	assert.Len(t, f.store.bookings, 1)
}

func TestExecute_HeldSlotLockDoesNotRejectFreeWindow(t *testing.T) {
	f := newFixture(t, stJohns(t, 2025, time.March, 9, 12, 0))

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	locker := lock.NewSlotLocker(client, 5*time.Second, 0)
	f.deps.Locker = locker

	// Другой запрос держит (кухня, дата) и уже забронировал 10:00-11:00
	release, err := locker.Acquire(context.Background(), 1, monday)
	require.NoError(t, err)
	t.Cleanup(func() { _ = release(context.Background()) })
	f.store.bookings = append(f.store.bookings, &domain.Booking{
		ID: 99, KitchenID: 1, BookingDate: monday, StartTime: "10:00", EndTime: "11:00",
		Status: domain.StatusPending,
	})

	uc := NewUseCase(f.deps)

	resp, err := uc.Execute(context.Background(), chefRequest(7, "13:00", "14:00"))
	require.NoError(t, err, "non-overlapping window books while the lock is held")
	assert.Equal(t, "pending", resp.Status)

	_, err = uc.Execute(context.Background(), chefRequest(8, "10:30", "11:30"))
	require.ErrorIs(t, err, domain.ErrConflict, "overlap is rejected by the conflict check")

	assert.True(t, mr.Exists(lock.Key(1, monday)), "foreign lock is left in place")
	assert.Equal(t, []string{"success", "conflict"}, f.metrics.outcomes)
}

func TestExecute_ReleasesSlotLockAfterCreation(t *testing.T) {
	f := newFixture(t, stJohns(t, 2025, time.March, 9, 12, 0))

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	f.deps.Locker = lock.NewSlotLocker(client, 5*time.Second, time.Second)

	_, err := NewUseCase(f.deps).Execute(context.Background(), chefRequest(7, "10:00", "11:00"))
	require.NoError(t, err)
	assert.False(t, mr.Exists(lock.Key(1, monday)), "lock is released after creation")
}

func TestExecute_AnonymousBookingKeyedByEmail(t *testing.T) {
	f := newFixture(t, stJohns(t, 2025, time.March, 9, 12, 0))
	uc := NewUseCase(f.deps)
	ctx := context.Background()

	anonymous := func(start, end types.TimeString) *Request {
		return &Request{
			KitchenID: 1, Date: monday, StartTime: start, EndTime: end,
			Contact: domain.Contact{Name: ptr.Ptr("Guest"), Email: ptr.Ptr(" Guest@Example.com ")},
		}
	}

	resp, err := uc.Execute(ctx, anonymous("08:00", "10:00"))
	require.NoError(t, err)
	assert.Nil(t, resp.ChefID)
	assert.Equal(t, "Guest@Example.com", *resp.ContactEmail)

	_, err = uc.Execute(ctx, anonymous("10:00", "11:00"))
	assert.ErrorIs(t, err, domain.ErrCapacityExceeded)
}

func TestExecute_Validation(t *testing.T) {
	f := newFixture(t, stJohns(t, 2025, time.March, 9, 12, 0))
	uc := NewUseCase(f.deps)

	tests := []struct {
		name string
		req  *Request
	}{
		{"start after end", chefRequest(7, "11:00", "10:00")},
		{"bad time", chefRequest(7, "10", "11:00")},
		{"anonymous without contact", &Request{KitchenID: 1, Date: monday, StartTime: "10:00", EndTime: "11:00"}},
		{"anonymous without email or phone", &Request{
			KitchenID: 1, Date: monday, StartTime: "10:00", EndTime: "11:00",
			Contact: domain.Contact{Name: ptr.Ptr("Guest")},
		}},
		{"missing date", &Request{Actor: domain.Actor{UserID: 7, Role: domain.RoleChef}, KitchenID: 1, StartTime: "10:00", EndTime: "11:00"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.Execute(context.Background(), tt.req)
			assert.ErrorIs(t, err, domain.ErrValidation)
		})
	}
	assert.Empty(t, f.store.bookings)
}

func TestExecute_KitchenLookup(t *testing.T) {
	f := newFixture(t, stJohns(t, 2025, time.March, 9, 12, 0))
	uc := NewUseCase(f.deps)

	req := chefRequest(7, "10:00", "11:00")
	req.KitchenID = 99
	_, err := uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	f.kitchen.IsActive = false
	_, err = uc.Execute(context.Background(), chefRequest(7, "10:00", "11:00"))
	assert.ErrorIs(t, err, domain.ErrClosed)
}
