// Package notification delivers outbound email: closed-won alerts and
// the weekly pipeline digest.
package notification

import (
	"context"
	"fmt"
	"time"

	"crm_backend/platform/config"
	"crm_backend/platform/logger"

	gomail "github.com/wneessen/go-mail"
)

// Sender delivers the notification emails.
type Sender interface {
	SendLeadWonEmail(ctx context.Context, toEmail string, data LeadWonData) error
	SendWeeklyDigestEmail(ctx context.Context, toEmail string, data WeeklyDigestData) error
}

// SMTPSender delivers mail over the configured SMTP server via go-mail.
type SMTPSender struct {
	cfg config.EmailConfig
}

func NewSMTPSender(cfg config.EmailConfig) *SMTPSender {
	return &SMTPSender{cfg: cfg}
}

func (s *SMTPSender) send(ctx context.Context, toEmail, subject, htmlContent string) error {
	msg := gomail.NewMsg()
	if err := msg.FromFormat(s.cfg.GetEmailFromName(), s.cfg.GetEmailFromAddress()); err != nil {
		return fmt.Errorf("smtp from: %w", err)
	}
	if err := msg.To(toEmail); err != nil {
		return fmt.Errorf("smtp to: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(gomail.TypeTextHTML, htmlContent)

	client, err := gomail.NewClient(s.cfg.GetSMTPHost(),
		gomail.WithPort(s.cfg.GetSMTPPort()),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(s.cfg.GetSMTPUsername()),
		gomail.WithPassword(s.cfg.GetSMTPPassword()),
		gomail.WithTLSPortPolicy(gomail.TLSOpportunistic),
		gomail.WithTimeout(15*time.Second),
	)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}

	return nil
}

func (s *SMTPSender) SendLeadWonEmail(ctx context.Context, toEmail string, data LeadWonData) error {
	content, err := renderTemplate("lead_won.html", data)
	if err != nil {
		return err
	}
	subject := fmt.Sprintf(subjectLeadWonFmt, data.LeadName)
	return s.send(ctx, toEmail, subject, content)
}

func (s *SMTPSender) SendWeeklyDigestEmail(ctx context.Context, toEmail string, data WeeklyDigestData) error {
	content, err := renderTemplate("weekly_digest.html", data)
	if err != nil {
		return err
	}
	return s.send(ctx, toEmail, subjectWeeklyDigest, content)
}

// NoopSender is used when email delivery is disabled. It logs instead
// of sending so the rest of the pipeline stays exercised.
type NoopSender struct {
	log *logger.Logger
}

func NewNoopSender(log *logger.Logger) *NoopSender {
	return &NoopSender{log: log}
}

func (s *NoopSender) SendLeadWonEmail(_ context.Context, toEmail string, data LeadWonData) error {
	s.log.Info("email disabled, skipping lead-won email", "to", toEmail, "lead", data.LeadName)
	return nil
}

func (s *NoopSender) SendWeeklyDigestEmail(_ context.Context, toEmail string, _ WeeklyDigestData) error {
	s.log.Info("email disabled, skipping weekly digest", "to", toEmail)
	return nil
}

var _ Sender = (*SMTPSender)(nil)
var _ Sender = (*NoopSender)(nil)
