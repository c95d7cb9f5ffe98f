package notify

import (
	"errors"
	"time"

	"gopkg.in/gomail.v2"
)

// ErrMailerNotConfigured signals that SMTP settings are absent or still
// placeholders; the dispatcher treats it as a skipped delivery.
var ErrMailerNotConfigured = errors.New("mailer: smtp transport not configured")

const sendTimeout = 10 * time.Second

type Mailer interface {
	Send(n Notification) error
}

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// Configured reports whether the transport can be used at all. Placeholder
// credentials ("changeme") count as unconfigured.
func (c SMTPConfig) Configured() bool {
	if c.Host == "" || c.Username == "" || c.Password == "" || c.From == "" {
		return false
	}
	if c.Password == "changeme" || c.Username == "changeme" {
		return false
	}
	return true
}

type smtpMailer struct {
	cfg    SMTPConfig
	dialer *gomail.Dialer
}

func NewSMTPMailer(cfg SMTPConfig) Mailer {
	return &smtpMailer{
		cfg:    cfg,
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
	}
}

func (m *smtpMailer) Send(n Notification) error {
	if !m.cfg.Configured() {
		return ErrMailerNotConfigured
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.cfg.From)
	msg.SetHeader("To", n.To)
	msg.SetHeader("Subject", n.Subject)
	msg.SetBody("text/plain", n.Body)
	if n.ArtifactPath != "" {
		msg.Attach(n.ArtifactPath)
	}

	// gomail has no context support; bound the blocking call ourselves so a
	// dead SMTP server cannot stall the turn past the timeout.
	done := make(chan error, 1)
	go func() {
		done <- m.dialer.DialAndSend(msg)
	}()

	select {
	case err := <-done:
		return err
	case <-time.After(sendTimeout):
		return errors.New("mailer: send timed out")
	}
}
