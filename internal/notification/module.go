package notification

import (
	"crm_backend/internal/events"
	"crm_backend/internal/leads/repository"
	"crm_backend/platform/config"
	"crm_backend/platform/logger"

	"github.com/jackc/pgx/v5/pgxpool"
)

// NotificationConfig combines the config slices the module needs.
type NotificationConfig interface {
	config.EmailConfig
	config.DigestConfig
}

// Module wires the email sender and the event subscriber. It has no
// HTTP surface.
type Module struct {
	sender Sender
}

// NewModule builds the sender (SMTP or noop, depending on config) and
// registers the closed-won subscriber on the bus.
func NewModule(pool *pgxpool.Pool, bus events.Bus, cfg NotificationConfig, log *logger.Logger) *Module {
	var sender Sender
	if cfg.GetEmailEnabled() {
		sender = NewSMTPSender(cfg)
	} else {
		sender = NewNoopSender(log)
	}

	subscriber := NewSubscriber(sender, repository.New(pool), cfg, log)
	subscriber.Register(bus)

	return &Module{sender: sender}
}

// Sender exposes the configured sender for the digest worker.
func (m *Module) Sender() Sender {
	return m.sender
}
