package mail

import (
	"context"
	"errors"
	"fmt"

	"gopkg.in/gomail.v2"
)

// Config holds the SMTP settings.
type Config struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}

// Mailer sends HTML mail over SMTP.
type Mailer struct {
	dialer *gomail.Dialer
	from   string
}

func NewMailer(cfg Config) *Mailer {
	from := cfg.From
	if from == "" {
		from = cfg.User
	}
	return &Mailer{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password),
		from:   from,
	}
}

// Send delivers one message. Recipients are blind copied so group members
// do not see each other's addresses.
func (m *Mailer) Send(ctx context.Context, to []string, subject, html string) error {
	if len(to) == 0 {
		return errors.New("mail: no recipients")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	message := m.build(to, subject, html)
	if err := m.dialer.DialAndSend(message); err != nil {
		return fmt.Errorf("mail: send %q: %w", subject, err)
	}
	return nil
}

func (m *Mailer) build(to []string, subject, html string) *gomail.Message {
	message := gomail.NewMessage()
	message.SetHeader("From", m.from)
	message.SetHeader("To", m.from)
	message.SetHeader("Bcc", to...)
	message.SetHeader("Subject", subject)
	message.SetBody("text/html", html)
	return message
}
