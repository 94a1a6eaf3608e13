package mail

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"slotbook/config"
	"slotbook/utils"

	"go.uber.org/zap"
)

// Mailer delivers transactional email.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

type SMTPMailer struct {
	auth smtp.Auth
	addr string
	from string
}

func NewSMTPMailer(host string, port int, username, password, from string) *SMTPMailer {
	var auth smtp.Auth
	if username != "" {
		auth = smtp.PlainAuth("", username, password, host)
	}
	return &SMTPMailer{
		auth: auth,
		addr: fmt.Sprintf("%s:%d", host, port),
		from: from,
	}
}

func (m *SMTPMailer) Send(ctx context.Context, to, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	msg := buildMessage(m.from, to, subject, body)
	if err := smtp.SendMail(m.addr, m.auth, m.from, []string{to}, msg); err != nil {
		return fmt.Errorf("failed to send mail to %s: %w", to, err)
	}
	return nil
}

func buildMessage(from, to, subject, body string) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=\"utf-8\"\r\n\r\n")
	b.WriteString(body)
	return []byte(b.String())
}

// LogMailer writes messages to the log. Used when SMTP is not configured.
type LogMailer struct{}

func (LogMailer) Send(_ context.Context, to, subject, body string) error {
	fields := []zap.Field{zap.String("to", to), zap.String("subject", subject)}
	if !config.IsProduction() {
		fields = append(fields, zap.String("body", body))
	}
	utils.GetLogger().Info("Mail not sent, SMTP disabled", fields...)
	return nil
}

// New picks the SMTP mailer when SMTP_HOST is set.
func New(cfg config.Config) Mailer {
	if cfg.SMTPHost == "" {
		return LogMailer{}
	}
	return NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword, cfg.SMTPFrom)
}

// VerificationCodeMessage renders the subject and body of a verification mail.
func VerificationCodeMessage(code string) (subject, body string) {
	subject = "Your verification code"
	body = fmt.Sprintf("Your verification code is %s.\r\nIt expires in %s.\r\n",
		code, config.AppConfig.VerificationCodeTTL)
	return subject, body
}
