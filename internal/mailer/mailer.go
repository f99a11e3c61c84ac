package mailer

import (
	"context"
	"fmt"

	"github.com/resend/resend-go/v2"
	"go.uber.org/zap"
)

// Mailer delivers transactional email.
type Mailer interface {
	SendOTP(ctx context.Context, to, code string, ttlMinutes int) error
	SendPasswordChanged(ctx context.Context, to string) error
	SendBookingStatusUpdate(ctx context.Context, to, reference, status string) error
}

type resendMailer struct {
	client *resend.Client
	from   string
	logger *zap.Logger
}

// NewResendMailer returns a Resend-backed mailer.
func NewResendMailer(apiKey, from string, logger *zap.Logger) Mailer {
	return &resendMailer{
		client: resend.NewClient(apiKey),
		from:   from,
		logger: logger,
	}
}

func (m *resendMailer) send(ctx context.Context, to, subject, html string) error {
	params := &resend.SendEmailRequest{
		From:    m.from,
		To:      []string{to},
		Subject: subject,
		Html:    html,
	}
	if _, err := m.client.Emails.SendWithContext(ctx, params); err != nil {
		return fmt.Errorf("send email: %w", err)
	}
	m.logger.Info("email sent", zap.String("to", to), zap.String("subject", subject))
	return nil
}

func (m *resendMailer) SendOTP(ctx context.Context, to, code string, ttlMinutes int) error {
	html := fmt.Sprintf(
		"<p>Your password reset code is <strong>%s</strong>.</p><p>It expires in %d minutes.</p>",
		code, ttlMinutes)
	return m.send(ctx, to, "Your password reset code", html)
}

func (m *resendMailer) SendPasswordChanged(ctx context.Context, to string) error {
	html := "<p>Your password was changed. If this wasn't you, reset it immediately.</p>"
	return m.send(ctx, to, "Password changed", html)
}

func (m *resendMailer) SendBookingStatusUpdate(ctx context.Context, to, reference, status string) error {
	html := fmt.Sprintf("<p>Your booking <strong>%s</strong> is now <strong>%s</strong>.</p>", reference, status)
	return m.send(ctx, to, fmt.Sprintf("Booking %s %s", reference, status), html)
}

// logMailer logs instead of sending. Used when no API key is configured so
// local environments work without a Resend account.
type logMailer struct {
	logger *zap.Logger
}

// NewLogMailer returns a mailer that only logs.
func NewLogMailer(logger *zap.Logger) Mailer {
	return &logMailer{logger: logger}
}

func (m *logMailer) SendOTP(ctx context.Context, to, code string, ttlMinutes int) error {
	m.logger.Info("otp email suppressed (no mail provider configured)",
		zap.String("to", to), zap.String("code", code), zap.Int("ttl_minutes", ttlMinutes))
	return nil
}

func (m *logMailer) SendPasswordChanged(ctx context.Context, to string) error {
	m.logger.Info("password-changed email suppressed (no mail provider configured)", zap.String("to", to))
	return nil
}

func (m *logMailer) SendBookingStatusUpdate(ctx context.Context, to, reference, status string) error {
	m.logger.Info("booking email suppressed (no mail provider configured)",
		zap.String("to", to), zap.String("reference", reference), zap.String("status", status))
	return nil
}
