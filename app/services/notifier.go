package services

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/ezalahmad/account-service/app/config"
)

// Notifier delivers a verification link to a freshly registered account.
type Notifier interface {
	SendVerification(ctx context.Context, recipient, verificationURL string) error
}

// SMTPNotifier sends the link by mail over implicit TLS (SMTPS). Credentials
// and host come from the process configuration, loaded once.
type SMTPNotifier struct {
	cfg config.SMTPConfig
}

func NewSMTPNotifier(cfg config.SMTPConfig) *SMTPNotifier {
	return &SMTPNotifier{cfg: cfg}
}

// SendVerification builds and submits the message. The dial-and-send runs in
// its own goroutine so the request honors ctx and the configured timeout
// instead of blocking on a slow mail server.
func (n *SMTPNotifier) SendVerification(ctx context.Context, recipient, verificationURL string) error {
	to := recipient
	if n.cfg.ForceTo != "" {
		to = n.cfg.ForceTo
	}

	m := gomail.NewMessage()
	m.SetHeader("From", n.cfg.From)
	m.SetHeader("To", to)
	m.SetHeader("Subject", "Verify your account")
	m.SetBody("text/plain", fmt.Sprintf("Verify your account:\n%s\n", verificationURL))

	d := gomail.NewDialer(n.cfg.Host, n.cfg.Port, n.cfg.Username, n.cfg.Password)
	d.SSL = n.cfg.Port == 465

	if n.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, n.cfg.Timeout)
		defer cancel()
	}

	done := make(chan error, 1)
	go func() {
		done <- d.DialAndSend(m)
	}()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("smtp send: %w", err)
		}
		return nil
	case <-ctx.Done():
		return fmt.Errorf("smtp send: %w", ctx.Err())
	}
}
