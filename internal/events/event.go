// Package events publishes person and country change events.
package events

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
)

// SubjectBase prefixes every event subject.
const SubjectBase = "contacts"

// Event types, also the subject suffix after SubjectBase.
const (
	PersonCreated  = "persons.created"
	PersonUpdated  = "persons.updated"
	PersonDeleted  = "persons.deleted"
	CountryCreated = "countries.created"
)

// Event is the JSON payload published for a change.
type Event struct {
	ID         string    `json:"id"` // ULID (time-sortable)
	Type       string    `json:"type"`
	EntityID   uuid.UUID `json:"entity_id"`
	Name       string    `json:"name,omitempty"`
	ActorID    string    `json:"actor_id,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// New builds an event stamped with a fresh ULID and the current time.
func New(eventType string, entityID uuid.UUID, name, actorID string) Event {
	return Event{
		ID:         ulid.Make().String(),
		Type:       eventType,
		EntityID:   entityID,
		Name:       name,
		ActorID:    actorID,
		OccurredAt: time.Now().UTC(),
	}
}

// Subject returns the broker subject for the event.
func (e Event) Subject() string {
	return SubjectBase + "." + e.Type
}

// Publisher sends events to a broker.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// NoopPublisher discards events. Used when no broker is configured.
type NoopPublisher struct{}

// Publish is a no-op.
func (NoopPublisher) Publish(context.Context, Event) error { return nil }
