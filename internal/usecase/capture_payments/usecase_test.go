package capture_payments

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Raunak-Sarmacharya/LocalCooksCommunity-sub005/internal/domain"
	bookingRepo "github.com/Raunak-Sarmacharya/LocalCooksCommunity-sub005/internal/infra/storage/booking"
	paymentRepo "github.com/Raunak-Sarmacharya/LocalCooksCommunity-sub005/internal/infra/storage/payment"
	"github.com/Raunak-Sarmacharya/LocalCooksCommunity-sub005/internal/integrations/payments"
	"github.com/Raunak-Sarmacharya/LocalCooksCommunity-sub005/internal/service/timezone"
	"github.com/Raunak-Sarmacharya/LocalCooksCommunity-sub005/pkg/logger"
	"github.com/Raunak-Sarmacharya/LocalCooksCommunity-sub005/pkg/ptr"
	"github.com/Raunak-Sarmacharya/LocalCooksCommunity-sub005/pkg/types"
)

// Fakes

type fakeBookings struct {
	mu         sync.Mutex
	candidates []*domain.CaptureCandidate
	updateErr  error
}

// GetCaptureCandidates отбирает только по статусу оплаты, статус бронирования проверяет use case
func (f *fakeBookings) GetCaptureCandidates(context.Context, time.Time) ([]*domain.CaptureCandidate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*domain.CaptureCandidate
	for _, c := range f.candidates {
		if c.Booking.PaymentStatus == domain.PaymentStatusPending {
			cp := *c
			booking := *c.Booking
			cp.Booking = &booking
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeBookings) UpdatePaymentStatus(_ context.Context, id int64, from, to domain.PaymentStatus) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.candidates {
		if c.Booking.ID == id {
			if c.Booking.PaymentStatus != from || c.Booking.IsCancelled() {
				return bookingRepo.ErrStatusMismatch
			}
			c.Booking.PaymentStatus = to
			return nil
		}
	}
	return bookingRepo.ErrBookingNotFound
}

func (f *fakeBookings) paymentStatus(id int64) domain.PaymentStatus {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.candidates {
		if c.Booking.ID == id {
			return c.Booking.PaymentStatus
		}
	}
	return ""
}

type fakeMirrors struct {
	mu       sync.Mutex
	statuses map[string]domain.PaymentTransactionStatus
	created  []*domain.PaymentTransaction
}

func (f *fakeMirrors) Create(_ context.Context, tx *domain.PaymentTransaction) (*domain.PaymentTransaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, tx)
	f.statuses[tx.PaymentIntentID] = tx.Status
	return tx, nil
}

func (f *fakeMirrors) UpdateStatus(_ context.Context, intentID string, status domain.PaymentTransactionStatus, _ *string, _ *time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.statuses[intentID]; !ok {
		return paymentRepo.ErrTransactionNotFound
	}
	f.statuses[intentID] = status
	return nil
}

type fakeProvider struct {
	mu        sync.Mutex
	statuses  map[string]payments.IntentStatus
	failOn    map[string]bool
	captures  map[string]int
	onCapture func(id string)
}

func newProvider() *fakeProvider {
	return &fakeProvider{
		statuses: map[string]payments.IntentStatus{},
		failOn:   map[string]bool{},
		captures: map[string]int{},
	}
}

func (p *fakeProvider) GetIntent(_ context.Context, id string) (*payments.Intent, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	status, ok := p.statuses[id]
	if !ok {
		return nil, payments.ErrIntentNotFound
	}
	return &payments.Intent{ID: id, Status: status, AmountCents: 5000, Currency: "CAD"}, nil
}

func (p *fakeProvider) Capture(_ context.Context, id string) (*payments.Intent, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.failOn[id] {
		return nil, errors.New("provider unavailable")
	}
	p.captures[id]++
	p.statuses[id] = payments.IntentSucceeded
	if p.onCapture != nil {
		p.onCapture(id)
	}
	return &payments.Intent{ID: id, Status: payments.IntentSucceeded, AmountCents: 5000, Currency: "CAD", ChargeID: ptr.Ptr("ch_" + id)}, nil
}

type clockProvider struct{ now time.Time }

func (c *clockProvider) Now() time.Time { return c.now }

type fakeMetrics struct{ captured, skipped, failed int }

func (m *fakeMetrics) ObserveCaptureRun(captured, skipped, failed int, _ time.Duration) {
	m.captured += captured
	m.skipped += skipped
	m.failed += failed
}

// Fixture

var bookingDate = types.NewDate(2025, time.March, 10)

func candidate(id int64, intentID string, status domain.BookingStatus) *domain.CaptureCandidate {
	return &domain.CaptureCandidate{
		Booking: &domain.Booking{
			ID: id, KitchenID: 1, BookingDate: bookingDate, StartTime: "14:00", EndTime: "16:00",
			Status: status, PaymentIntentID: ptr.Ptr(intentID), PaymentStatus: domain.PaymentStatusPending,
			Currency: "CAD",
		},
		LocationID:              2,
		Timezone:                "America/St_Johns",
		CancellationPolicyHours: 24,
	}
}

type fixture struct {
	bookings *fakeBookings
	mirrors  *fakeMirrors
	provider *fakeProvider
	clock    *clockProvider
	metrics  *fakeMetrics
	uc       *UseCase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		bookings: &fakeBookings{},
		mirrors:  &fakeMirrors{statuses: map[string]domain.PaymentTransactionStatus{}},
		provider: newProvider(),
		clock:    &clockProvider{},
		metrics:  &fakeMetrics{},
	}

	tz, err := timezone.NewService("UTC", f.clock, logger.NewNop())
	require.NoError(t, err)

	f.uc = NewUseCase(f.bookings, f.mirrors, f.provider, tz, f.metrics, 2, logger.NewNop())
	return f
}

func (f *fixture) setLocalTime(t *testing.T, day, hour, min int) {
	t.Helper()
	loc, err := time.LoadLocation("America/St_Johns")
	require.NoError(t, err)
	f.clock.now = time.Date(2025, time.March, day, hour, min, 0, 0, loc)
}

// Tests

func TestRun_CapturesOnlyAfterThresholdInLocationTimezone(t *testing.T) {
	f := newFixture(t)
	f.bookings.candidates = []*domain.CaptureCandidate{candidate(1, "pi_1", domain.StatusConfirmed)}
	f.provider.statuses["pi_1"] = payments.IntentRequiresCapture
	f.mirrors.statuses["pi_1"] = domain.TransactionRequiresCapture
	ctx := context.Background()

	f.setLocalTime(t, 9, 13, 59)
	report, err := f.uc.Run(ctx, RunOptions{})
	require.NoError(t, err)
	assert.Equal(t, 0, report.Processed)
	assert.Equal(t, 0, f.provider.captures["pi_1"])
	assert.Equal(t, domain.PaymentStatusPending, f.bookings.paymentStatus(1))

	f.setLocalTime(t, 9, 14, 1)
	report, err = f.uc.Run(ctx, RunOptions{})
	require.NoError(t, err)
	assert.Equal(t, 1, report.Processed)
	assert.Equal(t, 1, report.Captured)
	assert.Equal(t, domain.PaymentStatusPaid, f.bookings.paymentStatus(1))
	assert.Equal(t, domain.TransactionSucceeded, f.mirrors.statuses["pi_1"])

	// повторный прогон не списывает второй раз
	f.setLocalTime(t, 9, 15, 0)
	report, err = f.uc.Run(ctx, RunOptions{})
	require.NoError(t, err)
	assert.Equal(t, 0, report.Processed)
	assert.Equal(t, 1, f.provider.captures["pi_1"])
}

func TestRun_ThresholdBoundaryIsInclusive(t *testing.T) {
	f := newFixture(t)
	f.bookings.candidates = []*domain.CaptureCandidate{candidate(1, "pi_1", domain.StatusPending)}
	f.provider.statuses["pi_1"] = payments.IntentRequiresCapture
	f.mirrors.statuses["pi_1"] = domain.TransactionRequiresCapture

	f.setLocalTime(t, 9, 14, 0)
	report, err := f.uc.Run(context.Background(), RunOptions{})
	require.NoError(t, err)
	assert.Equal(t, 1, report.Captured)
}

func TestRun_CancelledBookingIsNeverCaptured(t *testing.T) {
	f := newFixture(t)
	f.bookings.candidates = []*domain.CaptureCandidate{candidate(1, "pi_1", domain.StatusCancelled)}
	f.provider.statuses["pi_1"] = payments.IntentRequiresCapture

	f.setLocalTime(t, 12, 0, 0)
	report, err := f.uc.Run(context.Background(), RunOptions{})
	require.NoError(t, err)
	assert.Equal(t, 0, report.Processed)
	assert.Zero(t, f.provider.captures["pi_1"])
}

func (f *fakeBookings) cancel(id int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.candidates {
		if c.Booking.ID == id {
			c.Booking.Status = domain.StatusCancelled
		}
	}
}

func TestRun_BookingCancelledDuringCaptureIsNotMarkedPaid(t *testing.T) {
	f := newFixture(t)
	f.bookings.candidates = []*domain.CaptureCandidate{candidate(1, "pi_1", domain.StatusConfirmed)}
	f.provider.statuses["pi_1"] = payments.IntentRequiresCapture
	f.mirrors.statuses["pi_1"] = domain.TransactionRequiresCapture
	f.provider.onCapture = func(string) { f.bookings.cancel(1) }

	f.setLocalTime(t, 10, 0, 0)
	report, err := f.uc.Run(context.Background(), RunOptions{})
	require.NoError(t, err)

	assert.Empty(t, report.Errors)
	assert.Equal(t, domain.PaymentStatusPending, f.bookings.paymentStatus(1), "cancelled booking keeps its payment status")
	assert.Equal(t, domain.TransactionSucceeded, f.mirrors.statuses["pi_1"], "mirror follows the provider")
}

func TestRun_FailingCandidateDoesNotStopBatch(t *testing.T) {
	f := newFixture(t)
	f.bookings.candidates = []*domain.CaptureCandidate{
		candidate(1, "pi_1", domain.StatusConfirmed),
		candidate(2, "pi_2", domain.StatusConfirmed),
		candidate(3, "pi_3", domain.StatusConfirmed),
		candidate(4, "pi_missing", domain.StatusConfirmed),
	}
	for _, id := range []string{"pi_1", "pi_2", "pi_3"} {
		f.provider.statuses[id] = payments.IntentRequiresCapture
		f.mirrors.statuses[id] = domain.TransactionRequiresCapture
	}
	f.provider.failOn["pi_2"] = true

	f.setLocalTime(t, 10, 0, 0)
	report, err := f.uc.Run(context.Background(), RunOptions{})
	require.NoError(t, err)

	assert.Equal(t, 4, report.Processed)
	assert.Equal(t, 2, report.Captured)
	assert.Equal(t, 2, report.Failed)
	require.Len(t, report.Errors, 2)

	failed := map[int64]bool{}
	for _, e := range report.Errors {
		failed[e.BookingID] = true
	}
	assert.True(t, failed[2])
	assert.True(t, failed[4])
	assert.Equal(t, domain.PaymentStatusPending, f.bookings.paymentStatus(2), "failed candidate is retried next run")
	assert.Equal(t, 2, f.metrics.captured)
	assert.Equal(t, 2, f.metrics.failed)
}

func TestRun_AlreadySucceededIntentIsReconciledWithoutSecondCapture(t *testing.T) {
	f := newFixture(t)
	f.bookings.candidates = []*domain.CaptureCandidate{candidate(1, "pi_1", domain.StatusConfirmed)}
	f.provider.statuses["pi_1"] = payments.IntentSucceeded

	f.setLocalTime(t, 10, 0, 0)
	report, err := f.uc.Run(context.Background(), RunOptions{})
	require.NoError(t, err)

	assert.Equal(t, 1, report.Reconciled)
	assert.Zero(t, f.provider.captures["pi_1"])
	assert.Equal(t, domain.PaymentStatusPaid, f.bookings.paymentStatus(1))

	// зеркала не было - создано со статусом succeeded
	require.Len(t, f.mirrors.created, 1)
	assert.Equal(t, domain.TransactionSucceeded, f.mirrors.created[0].Status)
	assert.Equal(t, int64(5000), f.mirrors.created[0].AmountCents)
}

func TestRun_NonCapturableIntentIsSkipped(t *testing.T) {
	f := newFixture(t)
	f.bookings.candidates = []*domain.CaptureCandidate{candidate(1, "pi_1", domain.StatusConfirmed)}
	f.provider.statuses["pi_1"] = payments.IntentCanceled

	f.setLocalTime(t, 10, 0, 0)
	report, err := f.uc.Run(context.Background(), RunOptions{})
	require.NoError(t, err)

	assert.Equal(t, 1, report.Skipped)
	assert.Empty(t, report.Errors)
	assert.Equal(t, domain.PaymentStatusPending, f.bookings.paymentStatus(1))
}

func TestRun_LedgerFailureIsReported(t *testing.T) {
	f := newFixture(t)
	f.bookings.candidates = []*domain.CaptureCandidate{candidate(1, "pi_1", domain.StatusConfirmed)}
	f.bookings.updateErr = errors.New("connection reset")
	f.provider.statuses["pi_1"] = payments.IntentRequiresCapture

	f.setLocalTime(t, 10, 0, 0)
	report, err := f.uc.Run(context.Background(), RunOptions{})
	require.NoError(t, err)

	assert.Equal(t, 1, report.Failed)
	assert.Contains(t, report.Errors[0].Error, "ledger update failed")
	assert.Equal(t, payments.IntentSucceeded, f.provider.statuses["pi_1"])
}

func TestRun_DryRunDoesNotTouchProvider(t *testing.T) {
	f := newFixture(t)
	f.bookings.candidates = []*domain.CaptureCandidate{
		candidate(1, "pi_1", domain.StatusConfirmed),
		candidate(2, "pi_2", domain.StatusConfirmed),
	}
	f.bookings.candidates[1].Booking.BookingDate = bookingDate.AddDays(5)
	f.provider.statuses["pi_1"] = payments.IntentRequiresCapture

	f.setLocalTime(t, 10, 0, 0)
	report, err := f.uc.Run(context.Background(), RunOptions{DryRun: true})
	require.NoError(t, err)

	assert.True(t, report.DryRun)
	assert.Equal(t, []int64{1}, report.Due)
	assert.Zero(t, f.provider.captures["pi_1"])
	assert.Equal(t, domain.PaymentStatusPending, f.bookings.paymentStatus(1))
}
