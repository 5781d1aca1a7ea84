package payments

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Client клиент платежного провайдера (двухфазная оплата: authorize -> capture)
type Client struct {
	http *resty.Client
	log  Logger
}

// NewClient создает новый экземпляр клиента платежного провайдера
func NewClient(baseURL, apiKey string, timeout time.Duration, retryCount int, log Logger) *Client {
	httpClient := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetAuthToken(apiKey).
		SetHeader("Content-Type", "application/json").
		SetRetryCount(retryCount).
		SetRetryWaitTime(200 * time.Millisecond).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			return err != nil || r.StatusCode() >= http.StatusInternalServerError
		})

	return &Client{
		http: httpClient,
		log:  log,
	}
}

// Authorize создает платежное намерение с ручным списанием (hold)
func (c *Client) Authorize(ctx context.Context, req AuthorizeRequest) (*Intent, error) {
	var intent Intent
	var apiErr ErrorResponse

	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Idempotency-Key", uuid.NewString()).
		SetBody(createIntentBody{
			AuthorizeRequest: req,
			CaptureMethod:    "manual",
			Confirm:          true,
		}).
		SetResult(&intent).
		SetError(&apiErr).
		Post("/v1/payment_intents")
	if err != nil {
		return nil, fmt.Errorf("%w: Authorize - execute request: %v", ErrInternal, err)
	}

	if err := checkResponse(resp, &apiErr); err != nil {
		return nil, fmt.Errorf("Authorize: %w", err)
	}
	if intent.ID == "" {
		return nil, fmt.Errorf("%w: Authorize - empty intent id", ErrInvalidResponse)
	}

	c.log.Info("Payments: authorized intent=%s amount=%d %s", intent.ID, req.AmountCents, req.Currency)
	return &intent, nil
}

// GetIntent получает текущее состояние платежного намерения
func (c *Client) GetIntent(ctx context.Context, intentID string) (*Intent, error) {
	var intent Intent
	var apiErr ErrorResponse

	resp, err := c.http.R().
		SetContext(ctx).
		SetPathParam("id", intentID).
		SetResult(&intent).
		SetError(&apiErr).
		Get("/v1/payment_intents/{id}")
	if err != nil {
		return nil, fmt.Errorf("%w: GetIntent - execute request: %v", ErrInternal, err)
	}

	if err := checkResponse(resp, &apiErr); err != nil {
		return nil, fmt.Errorf("GetIntent %s: %w", intentID, err)
	}

	return &intent, nil
}

// Capture списывает авторизованную сумму.
// Ключ идемпотентности детерминирован, повторный вызов для того же намерения не спишет дважды.
func (c *Client) Capture(ctx context.Context, intentID string) (*Intent, error) {
	var intent Intent
	var apiErr ErrorResponse

	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Idempotency-Key", "capture-"+intentID).
		SetPathParam("id", intentID).
		SetResult(&intent).
		SetError(&apiErr).
		Post("/v1/payment_intents/{id}/capture")
	if err != nil {
		return nil, fmt.Errorf("%w: Capture - execute request: %v", ErrInternal, err)
	}

	if err := checkResponse(resp, &apiErr); err != nil {
		return nil, fmt.Errorf("Capture %s: %w", intentID, err)
	}

	c.log.Info("Payments: captured intent=%s", intentID)
	return &intent, nil
}

// Release снимает hold (отмена платежного намерения)
func (c *Client) Release(ctx context.Context, intentID string) error {
	var apiErr ErrorResponse

	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Idempotency-Key", "cancel-"+intentID).
		SetPathParam("id", intentID).
		SetError(&apiErr).
		Post("/v1/payment_intents/{id}/cancel")
	if err != nil {
		return fmt.Errorf("%w: Release - execute request: %v", ErrInternal, err)
	}

	if err := checkResponse(resp, &apiErr); err != nil {
		return fmt.Errorf("Release %s: %w", intentID, err)
	}

	c.log.Info("Payments: released intent=%s", intentID)
	return nil
}

// checkResponse обрабатывает статус-коды провайдера
func checkResponse(resp *resty.Response, apiErr *ErrorResponse) error {
	switch {
	case resp.IsSuccess():
		return nil
	case resp.StatusCode() == http.StatusNotFound:
		return ErrIntentNotFound
	case resp.StatusCode() == http.StatusPaymentRequired || resp.StatusCode() == http.StatusConflict:
		return fmt.Errorf("%w: %s", ErrDeclined, apiErr.Error.Message)
	default:
		return fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode(), resp.String())
	}
}
