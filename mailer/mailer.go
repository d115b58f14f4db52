// Package mailer wraps the SMTP transport behind a small interface so
// services composing mail can be tested without a mail server.
package mailer

import "gopkg.in/gomail.v2"

// Sender delivers a composed message.
type Sender interface {
	Send(m *gomail.Message) error
}

type smtpSender struct {
	dialer *gomail.Dialer
}

// NewSMTPSender creates a Sender that dials the configured SMTP host per send.
func NewSMTPSender(host string, port int, username, password string) Sender {
	return &smtpSender{dialer: gomail.NewDialer(host, port, username, password)}
}

func (s *smtpSender) Send(m *gomail.Message) error {
	return s.dialer.DialAndSend(m)
}
