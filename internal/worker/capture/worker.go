package capture

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	capturePayments "github.com/Raunak-Sarmacharya/LocalCooksCommunity-sub005/internal/usecase/capture_payments"
)

// Runner прогон списания
type Runner interface {
	Run(ctx context.Context, opts capturePayments.RunOptions) (*capturePayments.Report, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Worker запускает прогон списания по расписанию cron.
// Следующий запуск пропускается, пока предыдущий не закончился.
type Worker struct {
	cron    *cron.Cron
	runner  Runner
	timeout time.Duration
	logger  Logger

	ctx    context.Context
	cancel context.CancelFunc
}

// NewWorker создает воркер. schedule - стандартное cron-выражение или дескриптор (@hourly, @every 15m).
// timeout ограничивает один прогон, 0 - без ограничения.
func NewWorker(schedule string, runner Runner, timeout time.Duration, logger Logger) (*Worker, error) {
	ctx, cancel := context.WithCancel(context.Background())
	w := &Worker{
		runner:  runner,
		timeout: timeout,
		logger:  logger,
		ctx:     ctx,
		cancel:  cancel,
	}

	w.cron = cron.New(cron.WithChain(
		cron.Recover(cronLogger{logger}),
		cron.SkipIfStillRunning(cronLogger{logger}),
	))
	if _, err := w.cron.AddFunc(schedule, w.runOnce); err != nil {
		cancel()
		return nil, fmt.Errorf("invalid capture schedule %q: %w", schedule, err)
	}

	return w, nil
}

// Start запускает планировщик в фоне
func (w *Worker) Start() {
	w.logger.Info("CaptureWorker: scheduler started")
	w.cron.Start()
}

// Stop останавливает планировщик, отменяет текущий прогон и ждет его завершения (или ctx)
func (w *Worker) Stop(ctx context.Context) {
	done := w.cron.Stop()
	w.cancel()

	select {
	case <-done.Done():
		w.logger.Info("CaptureWorker: scheduler stopped")
	case <-ctx.Done():
		w.logger.Warn("CaptureWorker: stop timed out, capture run still in progress")
	}
}

func (w *Worker) runOnce() {
	ctx := w.ctx
	if w.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, w.timeout)
		defer cancel()
	}

	report, err := w.runner.Run(ctx, capturePayments.RunOptions{})
	if err != nil {
		w.logger.Error("CaptureWorker: capture run failed: %v", err)
		return
	}

	if report.Failed > 0 {
		w.logger.Warn("CaptureWorker: %d of %d candidates failed, retry on next run", report.Failed, report.Processed)
	}
}

// cronLogger адаптер Logger к cron.Logger
type cronLogger struct {
	logger Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Info("CaptureWorker: %s %v", msg, keysAndValues)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Error("CaptureWorker: %s: %v %v", msg, err, keysAndValues)
}
