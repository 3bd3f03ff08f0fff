// Package events re-exports the platform event bus and defines the
// domain events exchanged between modules.
package events

import (
	platformevents "crm_backend/platform/events"
	"crm_backend/platform/logger"

	"github.com/google/uuid"
)

// Re-exports so internal modules import a single events package.
type (
	Event       = platformevents.Event
	Handler     = platformevents.Handler
	HandlerFunc = platformevents.HandlerFunc
	Bus         = platformevents.Bus
	BaseEvent   = platformevents.BaseEvent
	InMemoryBus = platformevents.InMemoryBus
)

// NewInMemoryBus creates a new in-memory event bus.
func NewInMemoryBus(log *logger.Logger) *InMemoryBus {
	return platformevents.NewInMemoryBus(log)
}

// NewBaseEvent creates a new base event with the current timestamp.
func NewBaseEvent() BaseEvent {
	return platformevents.NewBaseEvent()
}

// LeadCreated is published after a lead is persisted with its initial score.
type LeadCreated struct {
	BaseEvent
	LeadID uuid.UUID
	Score  int
}

// EventName returns the event identifier.
func (LeadCreated) EventName() string { return "lead.created" }

// LeadStatusChanged is published after a lead's pipeline status changes.
type LeadStatusChanged struct {
	BaseEvent
	LeadID     uuid.UUID
	OldStatus  string
	NewStatus  string
	ValueCents int64
}

// EventName returns the event identifier.
func (LeadStatusChanged) EventName() string { return "lead.status_changed" }
