package capture_payments

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Raunak-Sarmacharya/LocalCooksCommunity-sub005/internal/domain"
	bookingRepo "github.com/Raunak-Sarmacharya/LocalCooksCommunity-sub005/internal/infra/storage/booking"
	paymentRepo "github.com/Raunak-Sarmacharya/LocalCooksCommunity-sub005/internal/infra/storage/payment"
	"github.com/Raunak-Sarmacharya/LocalCooksCommunity-sub005/internal/integrations/payments"
)

const defaultConcurrency = 4

// UseCase прогон списания авторизованных платежей по политике отмены.
// Повторный прогон по тому же бронированию безопасен: состояние намерения перечитывается у провайдера.
type UseCase struct {
	bookingRepo   BookingRepository
	paymentRepo   PaymentRepository
	paymentClient PaymentClient
	clock         Clock
	metrics       Metrics
	concurrency   int
	logger        Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	paymentRepo PaymentRepository,
	paymentClient PaymentClient,
	clock Clock,
	metrics Metrics,
	concurrency int,
	logger Logger,
) *UseCase {
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}
	return &UseCase{
		bookingRepo:   bookingRepo,
		paymentRepo:   paymentRepo,
		paymentClient: paymentClient,
		clock:         clock,
		metrics:       metrics,
		concurrency:   concurrency,
		logger:        logger,
	}
}

// Run выполняет один прогон
// 1. Отбираем кандидатов (фильтры в SQL) и порог политики в поясе локации
// 2. Каждого кандидата обрабатываем независимо, ошибки собираются в отчет
func (uc *UseCase) Run(ctx context.Context, opts RunOptions) (*Report, error) {
	report := &Report{
		DryRun:    opts.DryRun,
		StartedAt: uc.clock.Now(),
		Errors:    []CandidateError{},
	}
	now := report.StartedAt

	uc.logger.Info("CapturePayments: run started at %s (dryRun=%t)", now.UTC().Format(time.RFC3339), opts.DryRun)

	candidates, err := uc.bookingRepo.GetCaptureCandidates(ctx, now)
	if err != nil {
		uc.logger.Error("CapturePayments: failed to get candidates: %v", err)
		return nil, fmt.Errorf("%w: Run - get candidates: %v", ErrInternal, err)
	}

	due := make([]*domain.CaptureCandidate, 0, len(candidates))
	for _, c := range candidates {
		if uc.isDue(c, now) {
			due = append(due, c)
		}
	}
	uc.logger.Info("CapturePayments: %d candidates, %d past the cancellation threshold", len(candidates), len(due))

	if opts.DryRun {
		for _, c := range due {
			report.Due = append(report.Due, c.Booking.ID)
			uc.logger.Info("CapturePayments: [dry run] would capture booking id=%d intent=%s",
				c.Booking.ID, *c.Booking.PaymentIntentID)
		}
		report.Processed = len(due)
		report.FinishedAt = uc.clock.Now()
		return report, nil
	}

	var (
		mu sync.Mutex
		g  errgroup.Group
	)
	g.SetLimit(uc.concurrency)

	for _, c := range due {
		c := c
		g.Go(func() error {
			res, err := uc.process(ctx, c, now)

			mu.Lock()
			defer mu.Unlock()

			report.Processed++
			switch res {
			case resultCaptured:
				report.Captured++
			case resultReconciled:
				report.Reconciled++
			case resultSkipped:
				report.Skipped++
			case resultFailed:
				report.Failed++
				report.Errors = append(report.Errors, CandidateError{
					BookingID:       c.Booking.ID,
					PaymentIntentID: *c.Booking.PaymentIntentID,
					Error:           err.Error(),
				})
			}
			return nil
		})
	}
	_ = g.Wait()

	report.FinishedAt = uc.clock.Now()
	uc.metrics.ObserveCaptureRun(report.Captured+report.Reconciled, report.Skipped, report.Failed,
		report.FinishedAt.Sub(report.StartedAt))

	uc.logger.Info("CapturePayments: run finished - processed=%d, captured=%d, reconciled=%d, skipped=%d, failed=%d",
		report.Processed, report.Captured, report.Reconciled, report.Skipped, report.Failed)
	return report, nil
}

// isDue начало бронирования в поясе локации минус часы политики уже наступило
func (uc *UseCase) isDue(c *domain.CaptureCandidate, now time.Time) bool {
	b := c.Booking
	if b.PaymentIntentID == nil || *b.PaymentIntentID == "" || b.IsCancelled() || b.PaymentStatus != domain.PaymentStatusPending {
		return false
	}

	instant := b.BookingDate.At(b.StartTime, uc.clock.LoadLocation(c.Timezone))
	threshold := instant.Add(-time.Duration(c.CancellationPolicyHours) * time.Hour)
	return !threshold.After(now)
}

// process обрабатывает одного кандидата
// 1. Перечитываем намерение у провайдера
// 2. requires_capture - списываем; succeeded - списано ранее, только догоняем бронирование
// 3. Бронирование pending -> paid, зеркало -> succeeded
func (uc *UseCase) process(ctx context.Context, c *domain.CaptureCandidate, now time.Time) (result, error) {
	booking := c.Booking
	intentID := *booking.PaymentIntentID

	intent, err := uc.paymentClient.GetIntent(ctx, intentID)
	if err != nil {
		uc.logger.Error("CapturePayments: failed to get intent=%s for booking id=%d: %v", intentID, booking.ID, err)
		return resultFailed, fmt.Errorf("%w: get intent: %v", ErrProvider, err)
	}

	res := resultCaptured
	switch intent.Status {
	case payments.IntentRequiresCapture:
		intent, err = uc.paymentClient.Capture(ctx, intentID)
		if err != nil {
			uc.logger.Error("CapturePayments: failed to capture intent=%s for booking id=%d: %v", intentID, booking.ID, err)
			return resultFailed, fmt.Errorf("%w: capture: %v", ErrProvider, err)
		}
		uc.logger.Info("CapturePayments: captured intent=%s for booking id=%d", intentID, booking.ID)

	case payments.IntentSucceeded:
		uc.logger.Warn("CapturePayments: intent=%s already captured, reconciling booking id=%d", intentID, booking.ID)
		res = resultReconciled

	default:
		uc.logger.Info("CapturePayments: skipping booking id=%d, intent=%s is %s", booking.ID, intentID, intent.Status)
		return resultSkipped, nil
	}

	if err := uc.bookingRepo.UpdatePaymentStatus(ctx, booking.ID, domain.PaymentStatusPending, domain.PaymentStatusPaid); err != nil {
		if !errors.Is(err, bookingRepo.ErrStatusMismatch) {
			uc.logger.Error("CapturePayments: intent=%s captured but booking id=%d not updated: %v", intentID, booking.ID, err)
			return resultFailed, fmt.Errorf("%w: %v", ErrLedger, err)
		}
		uc.logger.Warn("CapturePayments: booking id=%d was cancelled or its payment status changed concurrently", booking.ID)
	}

	uc.reconcileMirror(ctx, booking, intent, now)
	return res, nil
}

// reconcileMirror переводит зеркало платежа в succeeded.
// Отсутствующее зеркало создается, ошибки только логируются: источник истины - списание у провайдера.
func (uc *UseCase) reconcileMirror(ctx context.Context, booking *domain.Booking, intent *payments.Intent, paidAt time.Time) {
	intentID := *booking.PaymentIntentID

	err := uc.paymentRepo.UpdateStatus(ctx, intentID, domain.TransactionSucceeded, intent.ChargeID, &paidAt)
	if err == nil {
		return
	}
	if !errors.Is(err, paymentRepo.ErrTransactionNotFound) {
		uc.logger.Error("CapturePayments: failed to update payment mirror intent=%s: %v", intentID, err)
		return
	}

	uc.logger.Warn("CapturePayments: payment mirror for intent=%s not found, creating", intentID)

	amount := intent.AmountCents
	if amount == 0 && booking.TotalPriceCents != nil {
		amount = *booking.TotalPriceCents
	}
	currency := intent.Currency
	if currency == "" {
		currency = booking.Currency
	}

	_, err = uc.paymentRepo.Create(ctx, &domain.PaymentTransaction{
		BookingID:       booking.ID,
		PaymentIntentID: intentID,
		AmountCents:     amount,
		Currency:        currency,
		Status:          domain.TransactionSucceeded,
		ChargeID:        intent.ChargeID,
		PaidAt:          &paidAt,
	})
	if err != nil {
		uc.logger.Error("CapturePayments: failed to create payment mirror intent=%s: %v", intentID, err)
	}
}
