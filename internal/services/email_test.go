package services

import (
	"net/smtp"
	"testing"

	"github.com/dimitrije/gyf-api/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSMTPConfig() config.SMTPConfig {
	return config.SMTPConfig{
		Host:     "smtp.example.com",
		Port:     "587",
		Username: "user@example.com",
		Password: "password",
		From:     "noreply@example.com",
	}
}

func TestEmailService_IsConfigured(t *testing.T) {
	assert.True(t, NewEmailService(testSMTPConfig()).IsConfigured())

	testCases := []struct {
		name   string
		mutate func(*config.SMTPConfig)
	}{
		{"missing host", func(c *config.SMTPConfig) { c.Host = "" }},
		{"missing username", func(c *config.SMTPConfig) { c.Username = "" }},
		{"missing password", func(c *config.SMTPConfig) { c.Password = "" }},
		{"missing from", func(c *config.SMTPConfig) { c.From = "" }},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := testSMTPConfig()
			tc.mutate(&cfg)
			assert.False(t, NewEmailService(cfg).IsConfigured())
		})
	}
}

func TestEmailService_Send_NotConfigured(t *testing.T) {
	svc := NewEmailService(config.SMTPConfig{})
	svc.send = func(string, smtp.Auth, string, []string, []byte) error {
		t.Fatal("send should not be called")
		return nil
	}

	assert.NoError(t, svc.Send("to@example.com", "Subject", "Body"))
}

func TestEmailService_SendPasswordReset(t *testing.T) {
	svc := NewEmailService(testSMTPConfig())

	var (
		gotAddr string
		gotTo   []string
		gotMsg  string
	)
	svc.send = func(addr string, _ smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr = addr
		gotTo = to
		gotMsg = string(msg)
		return nil
	}

	err := svc.SendPasswordReset("ana@example.com", "<Ana>", "https://app.example.com/reset?token=abc&x=1")

	require.NoError(t, err)
	assert.Equal(t, "smtp.example.com:587", gotAddr)
	assert.Equal(t, []string{"ana@example.com"}, gotTo)
	assert.Contains(t, gotMsg, "Subject: Reset your Get Your Feedback password")
	assert.Contains(t, gotMsg, "&lt;Ana&gt;")
	assert.Contains(t, gotMsg, "https://app.example.com/reset?token=abc&amp;x=1")
	assert.Contains(t, gotMsg, "1 hour")
}
