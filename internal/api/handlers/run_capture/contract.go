package run_capture

import (
	"context"

	capturePayments "github.com/Raunak-Sarmacharya/LocalCooksCommunity-sub005/internal/usecase/capture_payments"
)

type CaptureUseCase interface {
	Run(ctx context.Context, opts capturePayments.RunOptions) (*capturePayments.Report, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
