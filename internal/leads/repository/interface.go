package repository

import (
	"context"

	"github.com/google/uuid"
)

// Consumer-driven interfaces. Services depend on the slice of the
// repository they actually use, which keeps tests to small fakes.

// LeadReader provides read access to lead records.
type LeadReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (Lead, error)
	List(ctx context.Context, params ListParams) ([]Lead, int, error)
}

// LeadWriter provides write access to lead records.
type LeadWriter interface {
	Create(ctx context.Context, params CreateLeadParams) (Lead, error)
	Update(ctx context.Context, id uuid.UUID, params UpdateLeadParams) (Lead, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) (Lead, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// InteractionStore provides access to the interaction log.
type InteractionStore interface {
	AddInteraction(ctx context.Context, params AddInteractionParams) (Interaction, Lead, error)
	ListInteractions(ctx context.Context, leadID uuid.UUID) ([]Interaction, error)
	SetScore(ctx context.Context, id uuid.UUID, score int) (Lead, error)
}

// LeadsRepository is the full surface used by the leads service.
type LeadsRepository interface {
	LeadReader
	LeadWriter
	InteractionStore
}

var _ LeadsRepository = (*Repository)(nil)
