// Package mail sends transactional e-mail over SMTP.
package mail

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"gopkg.in/gomail.v2"
)

// Message is a single HTML e-mail.
type Message struct {
	To      string
	Subject string
	HTML    string
}

// Sender delivers messages.
type Sender interface {
	Send(ctx context.Context, msg *Message) error
}

// SMTPConfig holds the SMTP relay settings. An empty Host disables delivery.
type SMTPConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}

type smtpSender struct {
	dialer *gomail.Dialer
	from   string
	log    *logrus.Logger
}

// NewSender returns an SMTP sender, or one that only logs when cfg.Host is empty.
func NewSender(cfg SMTPConfig, logger *logrus.Logger) Sender {
	if cfg.Host == "" {
		logger.Info("Mail: SMTP host not set, e-mail delivery disabled")
		return &smtpSender{from: cfg.From, log: logger}
	}
	return &smtpSender{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password),
		from:   cfg.From,
		log:    logger,
	}
}

func (s *smtpSender) Send(ctx context.Context, msg *Message) error {
	if s.dialer == nil {
		s.log.WithFields(logrus.Fields{"to": msg.To, "subject": msg.Subject}).Info("Mail: delivery disabled, message not sent")
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", msg.To)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/html", msg.HTML)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("send mail to %s: %w", msg.To, err)
	}
	s.log.WithField("to", msg.To).Info("Mail: message sent")
	return nil
}
