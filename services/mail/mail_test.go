package mail

import (
	"context"
	"testing"

	"slotbook/config"

	"github.com/stretchr/testify/assert"
)

func TestBuildMessage(t *testing.T) {
	msg := string(buildMessage("no-reply@slotbook.app", "bob@x.io", "Hi", "body"))

	assert.Contains(t, msg, "From: no-reply@slotbook.app\r\n")
	assert.Contains(t, msg, "To: bob@x.io\r\n")
	assert.Contains(t, msg, "Subject: Hi\r\n")
	assert.Contains(t, msg, "\r\n\r\nbody")
}

func TestNew_FallsBackToLogMailer(t *testing.T) {
	assert.IsType(t, LogMailer{}, New(config.Config{}))
	assert.IsType(t, &SMTPMailer{}, New(config.Config{SMTPHost: "smtp.example.com", SMTPPort: 587}))
}

func TestSMTPMailer_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := NewSMTPMailer("localhost", 1, "", "", "a@x.io").Send(ctx, "b@x.io", "s", "b")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestVerificationCodeMessage(t *testing.T) {
	_, body := VerificationCodeMessage("123456")
	assert.Contains(t, body, "123456")
}
