// Package notify tells clients about their reservations.
package notify

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"gopkg.in/gomail.v2"

	"legalbooking/internal/events"
)

// Notifier delivers one reservation event to its client.
type Notifier interface {
	Notify(ctx context.Context, evt events.ReservationEvent) error
}

type sender interface {
	DialAndSend(m ...*gomail.Message) error
}

// Mailer sends reservation emails over SMTP.
type Mailer struct {
	from   string
	dialer sender
}

// NewMailer builds a Mailer for the given SMTP account.
func NewMailer(host string, port int, user, password, from string) *Mailer {
	if from == "" {
		from = user
	}
	return &Mailer{from: from, dialer: gomail.NewDialer(host, port, user, password)}
}

var subjects = map[string]string{
	events.ReservationCreated:   "Your consultation is booked",
	events.ReservationConfirmed: "Your consultation is confirmed",
	events.ReservationCancelled: "Your consultation was cancelled",
	events.ReservationRemoved:   "Your reservation was removed",
}

// Notify emails the client. Events without a recipient are skipped.
func (m *Mailer) Notify(_ context.Context, evt events.ReservationEvent) error {
	if evt.UserEmail == "" {
		return nil
	}
	subject, ok := subjects[evt.Type]
	if !ok {
		return nil
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", evt.UserEmail)
	msg.SetHeader("Subject", fmt.Sprintf("%s (%s)", subject, evt.TrackingCode))
	msg.SetBody("text/html", Body(evt))

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("send mail to %s: %w", evt.UserEmail, err)
	}
	return nil
}

// Body renders the HTML email for evt.
func Body(evt events.ReservationEvent) string {
	var b strings.Builder
	name := evt.UserName
	if name == "" {
		name = "client"
	}
	fmt.Fprintf(&b, "<p>Dear %s,</p>\n", name)
	fmt.Fprintf(&b, "<p>Reservation <strong>%s</strong> is now <strong>%s</strong>.</p>\n", evt.TrackingCode, evt.Status)
	b.WriteString("<ul>\n")
	if evt.LawyerName != "" {
		fmt.Fprintf(&b, "<li><strong>Lawyer:</strong> %s</li>\n", evt.LawyerName)
	}
	if !evt.DateStart.IsZero() {
		fmt.Fprintf(&b, "<li><strong>Start:</strong> %s</li>\n", evt.DateStart.UTC().Format("2006-01-02 15:04 MST"))
		fmt.Fprintf(&b, "<li><strong>End:</strong> %s</li>\n", evt.DateEnd.UTC().Format("2006-01-02 15:04 MST"))
	}
	fmt.Fprintf(&b, "<li><strong>Fee:</strong> %s</li>\n", evt.Fee.StringFixed(2))
	b.WriteString("</ul>\n")
	b.WriteString("<p>Use the tracking code to check the reservation at any time.</p>\n")
	return b.String()
}

// Console logs events instead of sending them.
type Console struct {
	logger *slog.Logger
}

// NewConsole builds a Console notifier.
func NewConsole(logger *slog.Logger) *Console {
	return &Console{logger: logger}
}

func (c *Console) Notify(ctx context.Context, evt events.ReservationEvent) error {
	c.logger.InfoContext(ctx, "reservation notification",
		slog.String("event", evt.Type),
		slog.String("tracking_code", evt.TrackingCode),
		slog.String("to", evt.UserEmail),
		slog.Time("date_start", evt.DateStart),
	)
	return nil
}

// Run notifies every delivery until ctx is done or the channel closes.
// Undecodable messages are dropped. A failed notification is requeued once.
func Run(ctx context.Context, deliveries <-chan amqp.Delivery, n Notifier, logger *slog.Logger) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-deliveries:
			if !ok {
				return nil
			}
			handle(ctx, d, n, logger)
		}
	}
}

func handle(ctx context.Context, d amqp.Delivery, n Notifier, logger *slog.Logger) {
	evt, err := events.Decode(d.Body)
	if err != nil {
		logger.WarnContext(ctx, "dropping malformed event", slog.String("message_id", d.MessageId), slog.Any("error", err))
		_ = d.Nack(false, false)
		return
	}

	sendCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if err := n.Notify(sendCtx, evt); err != nil {
		logger.ErrorContext(ctx, "notify failed",
			slog.String("event", evt.Type),
			slog.Uint64("reservation_id", uint64(evt.ReservationID)),
			slog.Bool("redelivered", d.Redelivered),
			slog.Any("error", err),
		)
		_ = d.Nack(false, !d.Redelivered)
		return
	}
	_ = d.Ack(false)
}
