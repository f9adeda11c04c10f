package services

import (
	"bytes"
	"fmt"
	"html/template"
	"net/smtp"

	"github.com/dimitrije/gyf-api/internal/config"
)

var resetTemplate = template.Must(template.New("reset").Parse(`<html>
<body>
	<h2>Reset your password</h2>
	<p>Hi{{if .Name}} {{.Name}}{{end}},</p>
	<p>Someone asked to reset the password for your Get Your Feedback account.</p>
	<p><a href="{{.URL}}">Choose a new password</a></p>
	<p>The link expires in {{.Expiry}}. If you did not ask for this, ignore this email.</p>
</body>
</html>
`))

type sendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

type EmailService struct {
	cfg  config.SMTPConfig
	send sendFunc
}

func NewEmailService(cfg config.SMTPConfig) *EmailService {
	return &EmailService{cfg: cfg, send: smtp.SendMail}
}

func (s *EmailService) IsConfigured() bool {
	return s.cfg.Host != "" && s.cfg.Username != "" && s.cfg.Password != "" && s.cfg.From != ""
}

// Send is a no-op when SMTP is not configured.
func (s *EmailService) Send(to, subject, body string) error {
	if !s.IsConfigured() {
		return nil
	}

	addr := fmt.Sprintf("%s:%s", s.cfg.Host, s.cfg.Port)
	auth := smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)

	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/html; charset=\"UTF-8\"\r\n\r\n%s",
		s.cfg.From, to, subject, body)

	return s.send(addr, auth, s.cfg.From, []string{to}, []byte(msg))
}

func (s *EmailService) SendPasswordReset(to, firstName, resetURL string) error {
	var body bytes.Buffer
	err := resetTemplate.Execute(&body, struct {
		Name   string
		URL    string
		Expiry string
	}{firstName, resetURL, "1 hour"})
	if err != nil {
		return fmt.Errorf("failed to render reset email: %w", err)
	}

	return s.Send(to, "Reset your Get Your Feedback password", body.String())
}
