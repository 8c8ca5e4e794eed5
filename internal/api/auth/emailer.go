package auth

import (
	"fmt"
	"log/slog"
	"net/smtp"
)

// Mailer sends transactional mail over SMTP. With no SMTP host
// configured it logs the link instead, which is what local development
// wants.
type Mailer struct {
	From     string
	Password string
	Host     string
	Port     string
	AppURL   string
}

func (m *Mailer) SendVerificationEmail(to string, token string) error {
	link := fmt.Sprintf("%s/verify?token=%s", m.AppURL, token)
	subject := "Verify Your Account"
	body := fmt.Sprintf("Click the following link to verify your account:\n\n%s", link)
	return m.send(to, subject, body, link)
}

func (m *Mailer) SendPasswordResetEmail(to string, token string) error {
	link := fmt.Sprintf("%s/reset-password?token=%s", m.AppURL, token)
	subject := "Reset Your Password"
	body := fmt.Sprintf("Click the following link to reset your password:\n\n%s", link)
	return m.send(to, subject, body, link)
}

func (m *Mailer) send(to, subject, body, link string) error {
	if m.Host == "" {
		slog.Info("smtp not configured, logging link instead",
			slog.String("to", to),
			slog.String("link", link),
		)
		return nil
	}

	auth := smtp.PlainAuth("", m.From, m.Password, m.Host)

	message := []byte("Subject: " + subject + "\r\n" +
		"From: " + m.From + "\r\n" +
		"To: " + to + "\r\n" +
		"Content-Type: text/plain; charset=UTF-8\r\n" +
		"\r\n" +
		body + "\r\n")

	if err := smtp.SendMail(m.Host+":"+m.Port, auth, m.From, []string{to}, message); err != nil {
		slog.Error("smtp send failed", slog.String("error", err.Error()))
		return err
	}
	return nil
}
