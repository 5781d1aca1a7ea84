package notifications

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

// SMSSender отправка SMS через HTTP-шлюз
type SMSSender struct {
	http *resty.Client
	from string
}

type smsRequest struct {
	From string `json:"from"`
	To   string `json:"to"`
	Text string `json:"text"`
}

// NewSMSSender создает клиента SMS-шлюза
func NewSMSSender(baseURL, apiKey, from string, timeout time.Duration) *SMSSender {
	return &SMSSender{
		http: resty.New().
			SetBaseURL(baseURL).
			SetTimeout(timeout).
			SetAuthToken(apiKey).
			SetHeader("Content-Type", "application/json"),
		from: from,
	}
}

// Send отправляет одно SMS
func (s *SMSSender) Send(ctx context.Context, msg Message) error {
	if msg.To == "" {
		return ErrNoRecipient
	}

	resp, err := s.http.R().
		SetContext(ctx).
		SetBody(smsRequest{From: s.from, To: msg.To, Text: msg.Body}).
		Post("/messages")
	if err != nil {
		return fmt.Errorf("%w: sms - execute request: %v", ErrSendFailed, err)
	}
	if !resp.IsSuccess() {
		return fmt.Errorf("%w: sms - status %d: %s", ErrSendFailed, resp.StatusCode(), resp.String())
	}

	return nil
}
