package capture_payments

import "time"

// RunOptions параметры прогона
type RunOptions struct {
	DryRun bool // только отобрать кандидатов, без обращения к провайдеру
}

// Report итог прогона
type Report struct {
	Processed  int              `json:"processed"`
	Captured   int              `json:"captured"`
	Reconciled int              `json:"reconciled"` // списано ранее, бронирование догнано без повторного списания
	Skipped    int              `json:"skipped"`
	Failed     int              `json:"failed"`
	Errors     []CandidateError `json:"errors"`
	Due        []int64          `json:"due,omitempty"` // ID бронирований к списанию в режиме dry run
	DryRun     bool             `json:"dryRun"`
	StartedAt  time.Time        `json:"startedAt"`
	FinishedAt time.Time        `json:"finishedAt"`
}

// CandidateError ошибка обработки одного бронирования
type CandidateError struct {
	BookingID       int64  `json:"bookingId"`
	PaymentIntentID string `json:"paymentIntentId"`
	Error           string `json:"error"`
}

type result int

const (
	resultCaptured result = iota
	resultReconciled
	resultSkipped
	resultFailed
)
