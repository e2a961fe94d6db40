package mailer

import (
	"fmt"
	"net/smtp"
	"strings"
)

// SMTPConfig is the outgoing mail account.
type SMTPConfig struct {
	From     string
	Password string
	Host     string
	Port     string
}

func (c SMTPConfig) Enabled() bool {
	return c.Host != "" && c.From != ""
}

// Sender delivers HTML mail over SMTP.
type Sender struct {
	cfg  SMTPConfig
	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func NewSender(cfg SMTPConfig) *Sender {
	return &Sender{cfg: cfg, send: smtp.SendMail}
}

func (s *Sender) SendHTML(to, subject, htmlBody string) error {
	if !s.cfg.Enabled() {
		return fmt.Errorf("smtp not configured")
	}

	auth := smtp.PlainAuth("", s.cfg.From, s.cfg.Password, s.cfg.Host)
	msg := buildMessage(s.cfg.From, to, subject, htmlBody)

	if err := s.send(s.cfg.Host+":"+s.cfg.Port, auth, s.cfg.From, []string{to}, msg); err != nil {
		return fmt.Errorf("smtp send to %s: %w", to, err)
	}
	return nil
}

func buildMessage(from, to, subject, htmlBody string) []byte {
	// header injection guard
	subject = strings.NewReplacer("\r", "", "\n", "").Replace(subject)

	return []byte("Subject: " + subject + "\r\n" +
		"From: " + from + "\r\n" +
		"To: " + to + "\r\n" +
		"MIME-Version: 1.0\r\n" +
		"Content-Type: text/html; charset=UTF-8\r\n" +
		"\r\n" +
		htmlBody + "\r\n")
}
