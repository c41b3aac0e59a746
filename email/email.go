package email

import (
	"fmt"
	"net/smtp"
	"os"
)

type Service struct {
	host     string
	port     string
	user     string
	password string
	from     string
}

func NewService() *Service {
	return &Service{
		host:     os.Getenv("SMTP_HOST"),
		port:     os.Getenv("SMTP_PORT"),
		user:     os.Getenv("SMTP_USER"),
		password: os.Getenv("SMTP_PASSWORD"),
		from:     os.Getenv("SMTP_FROM"),
	}
}

// Configured reports whether SMTP delivery is set up. When it is not,
// callers skip sending and the reset token is only logged server-side.
func (e *Service) Configured() bool {
	return e.host != ""
}

func (e *Service) SendPasswordResetEmail(to, token string) error {
	domain := os.Getenv("DOMAIN")
	if domain == "" {
		domain = "http://localhost:3000"
	}

	resetLink := fmt.Sprintf("%s/reset-password?token=%s", domain, token)

	subject := "Reset your password - NewsHub"
	body := fmt.Sprintf(`Hello!

We received a request to reset the password for your NewsHub account.

To choose a new password, open the link below. The link is valid for one hour:

%s

If you did not request a password reset, ignore this email.

---
NewsHub
`, resetLink)

	message := fmt.Sprintf("From: %s\r\n"+
		"To: %s\r\n"+
		"Subject: %s\r\n"+
		"\r\n"+
		"%s\r\n", e.from, to, subject, body)

	auth := smtp.PlainAuth("", e.user, e.password, e.host)
	addr := fmt.Sprintf("%s:%s", e.host, e.port)

	if err := smtp.SendMail(addr, auth, e.from, []string{to}, []byte(message)); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}
