package email

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

// Mailer sends transactional mail over SMTP.
type Mailer struct {
	dialer *gomail.Dialer
	sender string
}

func NewMailer(host string, port int, sender, password string) *Mailer {
	return &Mailer{
		dialer: gomail.NewDialer(host, port, sender, password),
		sender: sender,
	}
}

// SendVerificationEmail mails the account activation link.
func (m *Mailer) SendVerificationEmail(to, firstName, url string) error {
	body := fmt.Sprintf(
		`<h3>Hello %s,</h3><p>Click the link below to activate your account:</p><p><a href=%q>Activate your account</a></p>`,
		firstName, url,
	)
	return m.send(to, "Activate your account", body)
}

// SendResetCode mails the password reset code.
func (m *Mailer) SendResetCode(to, firstName, code string) error {
	body := fmt.Sprintf(
		`<h3>Hello %s,</h3><p>Your password reset code is:</p><h2>%s</h2>`,
		firstName, code,
	)
	return m.send(to, "Reset your password", body)
}

func (m *Mailer) send(to, subject, body string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.sender)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", body)

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("failed to send email: %v", err)
	}
	return nil
}
