package notification

import (
	"context"

	"crm_backend/internal/events"
	"crm_backend/internal/leads/domain"
	"crm_backend/internal/leads/repository"
	"crm_backend/platform/config"
	"crm_backend/platform/logger"

	"github.com/google/uuid"
)

// LeadLookup is the slice of the leads repository the subscriber needs.
type LeadLookup interface {
	GetByID(ctx context.Context, id uuid.UUID) (repository.Lead, error)
}

// Subscriber listens for lead status changes and emails the sales team
// when a deal closes won.
type Subscriber struct {
	sender Sender
	leads  LeadLookup
	cfg    config.DigestConfig
	log    *logger.Logger
}

func NewSubscriber(sender Sender, leads LeadLookup, cfg config.DigestConfig, log *logger.Logger) *Subscriber {
	return &Subscriber{sender: sender, leads: leads, cfg: cfg, log: log}
}

// Register hooks the subscriber onto the event bus.
func (s *Subscriber) Register(bus events.Bus) {
	bus.Subscribe(events.LeadStatusChanged{}.EventName(), events.HandlerFunc(s.onStatusChanged))
}

func (s *Subscriber) onStatusChanged(ctx context.Context, event events.Event) error {
	changed, ok := event.(events.LeadStatusChanged)
	if !ok {
		return nil
	}
	if changed.NewStatus != string(domain.StatusClosedWon) {
		return nil
	}

	lead, err := s.leads.GetByID(ctx, changed.LeadID)
	if err != nil {
		s.log.Error("lead-won email: lookup failed", "error", err, "leadId", changed.LeadID)
		return err
	}

	data := LeadWonData{
		LeadName:       lead.FirstName + " " + lead.LastName,
		ValueFormatted: FormatCurrencyUSD(lead.ValueCents),
	}
	if lead.Company != nil {
		data.Company = *lead.Company
	}

	for _, recipient := range s.cfg.GetDigestRecipients() {
		if err := s.sender.SendLeadWonEmail(ctx, recipient, data); err != nil {
			s.log.Error("lead-won email: send failed", "error", err, "to", recipient)
		}
	}

	return nil
}
