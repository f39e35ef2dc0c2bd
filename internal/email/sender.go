package email

import (
	"context"
	"fmt"
	"io"

	"go.uber.org/zap"
	gomail "gopkg.in/gomail.v2"

	"github.com/MelissaSequeira/reimburse-portal/internal/application/port"
)

// Config holds SMTP delivery configuration
type Config struct {
	Host       string
	Port       int
	Username   string
	Password   string
	From       string
	SenderName string
}

// Sender delivers notifications over SMTP. Delivery is best-effort: callers
// treat failures as non-fatal and never roll back state on them.
type Sender struct {
	dialer     *gomail.Dialer
	from       string
	senderName string
	logger     *zap.Logger
}

// NewSender creates a new SMTP sender
func NewSender(cfg Config, logger *zap.Logger) *Sender {
	return &Sender{
		dialer:     gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:       cfg.From,
		senderName: cfg.SenderName,
		logger:     logger,
	}
}

// Send delivers one notification, with optional attachment.
func (s *Sender) Send(ctx context.Context, msg port.Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(msg.To) == 0 {
		s.logger.Warn("Dropping notification with no recipients", zap.String("subject", msg.Subject))
		return nil
	}

	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.from, s.senderName)
	m.SetHeader("To", msg.To...)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/plain", msg.Body)

	if att := msg.Attachment; att != nil {
		m.Attach(att.Filename, gomail.SetCopyFunc(func(w io.Writer) error {
			_, err := w.Write(att.Content)
			return err
		}))
	}

	if err := s.dialer.DialAndSend(m); err != nil {
		s.logger.Error("Failed to send email",
			zap.Strings("to", msg.To),
			zap.String("subject", msg.Subject),
			zap.Error(err))
		return fmt.Errorf("failed to send email: %w", err)
	}

	s.logger.Info("Email sent",
		zap.Strings("to", msg.To),
		zap.String("subject", msg.Subject),
		zap.Bool("attachment", msg.Attachment != nil))
	return nil
}
