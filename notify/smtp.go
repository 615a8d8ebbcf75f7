package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/sony/gobreaker"
	"github.com/wneessen/go-mail"

	"github.com/hashfx/techblog/internal/logger"
	"github.com/hashfx/techblog/config"
	"github.com/hashfx/techblog/metrics"
	"github.com/hashfx/techblog/models"
)

// MailSender is satisfied by *mail.Client.
type MailSender interface {
	DialAndSendWithContext(ctx context.Context, messages ...*mail.Msg) error
}

// SMTPNotifier sends contact notifications through an SMTP server.
// Consecutive failures open a circuit breaker so a dead server does not stall requests.
type SMTPNotifier struct {
	sender MailSender
	from   string
	to     string
	cb     *gobreaker.CircuitBreaker
}

func NewSMTPNotifier(cfg config.MailConfig) (*SMTPNotifier, error) {
	opts := []mail.Option{
		mail.WithPort(cfg.Port),
		mail.WithTimeout(15 * time.Second),
	}
	if cfg.SSL {
		opts = append(opts, mail.WithSSL())
	} else {
		opts = append(opts, mail.WithTLSPortPolicy(mail.TLSOpportunistic))
	}
	if cfg.Password != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.Username),
			mail.WithPassword(cfg.Password),
		)
	}

	client, err := mail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("create smtp client: %w", err)
	}
	return NewSMTPNotifierWithSender(client, cfg.Username, cfg.Recipient), nil
}

func NewSMTPNotifierWithSender(sender MailSender, from, to string) *SMTPNotifier {
	if to == "" {
		to = from
	}
	return &SMTPNotifier{
		sender: sender,
		from:   from,
		to:     to,
		cb: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        "smtp",
			MaxRequests: 1,
			Interval:    60 * time.Second,
			Timeout:     30 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 3
			},
			OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
				logger.WarnWithFields("circuit breaker state changed", logger.Fields{
					"name": name, "from": from.String(), "to": to.String(),
				})
			},
		}),
	}
}

// BuildMessage turns an Envelope into a go-mail message.
func (n *SMTPNotifier) BuildMessage(env Envelope) (*mail.Msg, error) {
	m := mail.NewMsg()
	if err := m.From(n.from); err != nil {
		return nil, fmt.Errorf("from %q: %w", n.from, err)
	}
	if err := m.To(n.to); err != nil {
		return nil, fmt.Errorf("to %q: %w", n.to, err)
	}
	if env.ReplyTo != "" {
		if err := m.ReplyTo(env.ReplyTo); err != nil {
			return nil, fmt.Errorf("reply-to %q: %w", env.ReplyTo, err)
		}
	}
	m.Subject(env.Subject)
	m.SetBodyString(mail.TypeTextPlain, env.Body)
	return m, nil
}

func (n *SMTPNotifier) NotifyContact(ctx context.Context, c models.Contact) error {
	msg, err := n.BuildMessage(ContactEnvelope(c))
	if err != nil {
		metrics.MailDeliveries.WithLabelValues("invalid").Inc()
		return err
	}

	_, err = n.cb.Execute(func() (interface{}, error) {
		return nil, n.sender.DialAndSendWithContext(ctx, msg)
	})
	if err != nil {
		metrics.MailDeliveries.WithLabelValues("failed").Inc()
		return fmt.Errorf("send contact mail: %w", err)
	}
	metrics.MailDeliveries.WithLabelValues("sent").Inc()
	logger.InfoWithFields("contact mail sent", logger.Fields{"contact_sno": c.Sno, "to": n.to})
	return nil
}
