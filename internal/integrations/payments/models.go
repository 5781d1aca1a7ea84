package payments

// IntentStatus статус платежного намерения у провайдера
type IntentStatus string

const (
	IntentRequiresCapture IntentStatus = "requires_capture"
	IntentSucceeded       IntentStatus = "succeeded"
	IntentCanceled        IntentStatus = "canceled"
	IntentProcessing      IntentStatus = "processing"
)

// Intent платежное намерение
type Intent struct {
	ID          string       `json:"id"`
	Status      IntentStatus `json:"status"`
	AmountCents int64        `json:"amount"`
	Currency    string       `json:"currency"`
	ChargeID    *string      `json:"latest_charge,omitempty"`
}

// AuthorizeRequest запрос на авторизацию (hold) суммы
type AuthorizeRequest struct {
	AmountCents int64             `json:"amount"`
	Currency    string            `json:"currency"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

type createIntentBody struct {
	AuthorizeRequest
	CaptureMethod string `json:"capture_method"`
	Confirm       bool   `json:"confirm"`
}

// ErrorResponse модель ошибки провайдера
type ErrorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}
