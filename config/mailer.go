package config

import (
	"crypto/tls"
	"fmt"

	mail "github.com/go-mail/mail/v2"
)

// SendMail delivers an HTML email through the configured SMTP relay.
// Callers treat failures as non-fatal: delivery never blocks a workflow write.
func SendMail(to []string, subject, html string) error {
	if len(to) == 0 {
		return nil
	}
	smtp := App.SMTP
	if smtp.Host == "" || smtp.From == "" {
		return fmt.Errorf("smtp not configured (SMTP_HOST/SMTP_FROM)")
	}

	m := mail.NewMessage()
	m.SetHeader("From", smtp.From)
	m.SetHeader("To", to...)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", html)

	d := mail.NewDialer(smtp.Host, smtp.Port, smtp.User, smtp.Pass)

	// Force STARTTLS on port 587 (works for Gmail/Office365 relays).
	d.StartTLSPolicy = mail.MandatoryStartTLS

	d.TLSConfig = &tls.Config{
		ServerName:         smtp.Host,
		InsecureSkipVerify: smtp.SkipTLSVerify, // dev only
	}

	return d.DialAndSend(m)
}
