package notifications

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Sender канал доставки (email, SMS)
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// Dispatcher асинхронная рассылка уведомлений о бронированиях.
// Ошибка доставки никогда не влияет на операцию, породившую событие.
type Dispatcher struct {
	email   Sender
	sms     Sender
	limiter *rate.Limiter
	timeout time.Duration
	log     Logger
	wg      sync.WaitGroup
}

// NewDispatcher создает диспетчер. nil-канал считается выключенным.
func NewDispatcher(email, sms Sender, limiter *rate.Limiter, timeout time.Duration, log Logger) *Dispatcher {
	if limiter == nil {
		limiter = rate.NewLimiter(rate.Inf, 1)
	}
	return &Dispatcher{
		email:   email,
		sms:     sms,
		limiter: limiter,
		timeout: timeout,
		log:     log,
	}
}

// Notify ставит событие в отправку и сразу возвращает управление
func (d *Dispatcher) Notify(event Event) {
	if d == nil {
		return
	}

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		d.dispatch(event)
	}()
}

// Wait дожидается завершения всех начатых рассылок
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

func (d *Dispatcher) dispatch(event Event) {
	ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
	defer cancel()

	subject, body := render(event)

	if d.email != nil {
		for _, to := range emailRecipients(event) {
			d.send(ctx, "email", d.email, event, Message{To: to, Subject: subject, Body: body})
		}
	}
	if d.sms != nil {
		for _, to := range phoneRecipients(event) {
			d.send(ctx, "sms", d.sms, event, Message{To: to, Subject: subject, Body: body})
		}
	}
}

// send доставляет одно сообщение; паника или ошибка канала только логируются
func (d *Dispatcher) send(ctx context.Context, channel string, sender Sender, event Event, msg Message) {
	defer func() {
		if r := recover(); r != nil {
			d.log.Error("Notify %s: booking id=%d %s panic: %v", event.Type, event.Booking.ID, channel, r)
		}
	}()

	if err := d.limiter.Wait(ctx); err != nil {
		d.log.Warn("Notify %s: booking id=%d %s throttled: %v", event.Type, event.Booking.ID, channel, err)
		return
	}

	if err := sender.Send(ctx, msg); err != nil {
		d.log.Warn("Notify %s: booking id=%d %s to %s failed: %v", event.Type, event.Booking.ID, channel, msg.To, err)
		return
	}

	d.log.Info("Notify %s: booking id=%d %s sent to %s", event.Type, event.Booking.ID, channel, msg.To)
}

func emailRecipients(event Event) []string {
	var out []string
	if event.Booking.Contact.Email != nil && *event.Booking.Contact.Email != "" {
		out = append(out, *event.Booking.Contact.Email)
	}
	if event.Location != nil && event.Location.NotificationEmail != nil && *event.Location.NotificationEmail != "" {
		out = append(out, *event.Location.NotificationEmail)
	}
	return out
}

func phoneRecipients(event Event) []string {
	var out []string
	if event.Booking.Contact.Phone != nil && *event.Booking.Contact.Phone != "" {
		out = append(out, *event.Booking.Contact.Phone)
	}
	if event.Location != nil && event.Location.NotificationPhone != nil && *event.Location.NotificationPhone != "" {
		out = append(out, *event.Location.NotificationPhone)
	}
	return out
}

func render(event Event) (subject, body string) {
	kitchen := fmt.Sprintf("kitchen #%d", event.Booking.KitchenID)
	if event.Kitchen != nil && event.Kitchen.Name != "" {
		kitchen = event.Kitchen.Name
	}
	when := fmt.Sprintf("%s %s-%s", event.Booking.BookingDate.String(), event.Booking.StartTime, event.Booking.EndTime)

	switch event.Type {
	case EventBookingCreated:
		subject = "Booking request received"
		body = fmt.Sprintf("Booking #%d for %s on %s is pending confirmation.", event.Booking.ID, kitchen, when)
	case EventBookingConfirmed:
		subject = "Booking confirmed"
		body = fmt.Sprintf("Booking #%d for %s on %s has been confirmed.", event.Booking.ID, kitchen, when)
	case EventBookingCancelled:
		subject = "Booking cancelled"
		body = fmt.Sprintf("Booking #%d for %s on %s has been cancelled.", event.Booking.ID, kitchen, when)
		if event.Booking.CancellationReason != nil && *event.Booking.CancellationReason != "" {
			body += " Reason: " + *event.Booking.CancellationReason
		}
		if event.Location != nil && event.Location.CancellationPolicyMessage != "" {
			body += "\n" + event.Location.CancellationPolicyMessage
		}
	default:
		subject = "Booking update"
		body = fmt.Sprintf("Booking #%d for %s on %s was updated.", event.Booking.ID, kitchen, when)
	}
	return subject, body
}
