package domain

import "time"

// PaymentTransactionStatus статус зеркала платежа у провайдера
type PaymentTransactionStatus string

const (
	TransactionRequiresCapture PaymentTransactionStatus = "requires_capture"
	TransactionSucceeded       PaymentTransactionStatus = "succeeded"
	TransactionCanceled        PaymentTransactionStatus = "canceled"
)

// PaymentTransaction зеркало платежного намерения у провайдера, ключ - PaymentIntentID
type PaymentTransaction struct {
	ID              int64
	BookingID       int64
	PaymentIntentID string
	AmountCents     int64
	Currency        string
	Status          PaymentTransactionStatus
	ChargeID        *string
	PaidAt          *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
