package shared

import (
	"context"
	"time"
)

// EventType represents the type of domain event.
type EventType string

// Domain event types published after a command commits.
const (
	// Progress events
	EventMaterialStarted   EventType = "progress.material_started"
	EventMaterialCompleted EventType = "progress.material_completed"
	EventProtocolAccepted  EventType = "progress.protocol_accepted"

	// Business events
	EventMentorAssigned   EventType = "business.mentor_assigned"
	EventMentorUnassigned EventType = "business.mentor_unassigned"

	// Mentoria events
	EventSessionScheduled   EventType = "mentoria.scheduled"
	EventSessionConfirmed   EventType = "mentoria.confirmed"
	EventSessionCheckedIn   EventType = "mentoria.checked_in"
	EventDiagnosticSaved    EventType = "mentoria.diagnostic_saved"
	EventSessionFinalized   EventType = "mentoria.finalized"
	EventSessionRescheduled EventType = "mentoria.rescheduled"
	EventSessionCancelled   EventType = "mentoria.cancelled"
)

// Event is the base interface for all domain events.
type Event interface {
	// EventType returns the type of the event.
	EventType() EventType

	// OccurredAt returns when the event occurred.
	OccurredAt() time.Time

	// AggregateID returns the ID of the aggregate that produced this event.
	AggregateID() string

	// Payload returns the event data as a map for serialization.
	Payload() map[string]interface{}
}

// BaseEvent provides common event functionality.
type BaseEvent struct {
	Type        EventType `json:"type"`
	Timestamp   time.Time `json:"timestamp"`
	AggregateId string    `json:"aggregate_id"`
	ActorID     string    `json:"actor_id,omitempty"`
}

// EventType implements Event interface.
func (e BaseEvent) EventType() EventType { return e.Type }

// OccurredAt implements Event interface.
func (e BaseEvent) OccurredAt() time.Time { return e.Timestamp }

// AggregateID implements Event interface.
func (e BaseEvent) AggregateID() string { return e.AggregateId }

// NewBaseEvent creates a new base event.
func NewBaseEvent(eventType EventType, aggregateID, actorID string, at time.Time) BaseEvent {
	return BaseEvent{
		Type:        eventType,
		Timestamp:   at,
		AggregateId: aggregateID,
		ActorID:     actorID,
	}
}

// GenericEvent is an event whose payload is a flat attribute map. All core
// events use it; subscribers switch on EventType.
type GenericEvent struct {
	BaseEvent
	Attributes map[string]interface{} `json:"attributes,omitempty"`
}

// Payload implements Event interface.
func (e GenericEvent) Payload() map[string]interface{} {
	out := make(map[string]interface{}, len(e.Attributes)+3)
	for k, v := range e.Attributes {
		out[k] = v
	}
	out["aggregate_id"] = e.AggregateId
	out["timestamp"] = e.Timestamp
	if e.ActorID != "" {
		out["actor_id"] = e.ActorID
	}
	return out
}

// NewEvent builds a GenericEvent.
func NewEvent(eventType EventType, aggregateID string, actor Actor, at time.Time, attrs map[string]interface{}) GenericEvent {
	return GenericEvent{
		BaseEvent:  NewBaseEvent(eventType, aggregateID, actor.ID, at),
		Attributes: attrs,
	}
}

// EventHandler handles a published event.
type EventHandler func(ctx context.Context, event Event) error

// EventPublisher publishes domain events. Publishing is best effort: a
// committed command never fails because an event could not be delivered.
type EventPublisher interface {
	Publish(ctx context.Context, event Event) error
}

// NopPublisher discards every event.
type NopPublisher struct{}

// Publish implements EventPublisher.
func (NopPublisher) Publish(context.Context, Event) error { return nil }
