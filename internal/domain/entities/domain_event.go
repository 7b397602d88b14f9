package entities

import (
	"time"

	"github.com/google/uuid"
)

// DomainEventType names what happened
type DomainEventType string

const (
	EventAppointmentCreated DomainEventType = "appointment.created"
	EventAppointmentUpdated DomainEventType = "appointment.updated"
	EventAppointmentDeleted DomainEventType = "appointment.deleted"
	EventIdentityRegistered DomainEventType = "identity.registered"
	EventIdentityVerified   DomainEventType = "identity.verified"
	EventCatalogChanged     DomainEventType = "catalog.changed"
)

// DomainEvent is published on the event bus after a successful mutation
type DomainEvent struct {
	ID         string                 `json:"id"`
	Type       DomainEventType        `json:"type"`
	Resource   string                 `json:"resource"`
	ResourceID int64                  `json:"resource_id"`
	Timestamp  time.Time              `json:"timestamp"`
	Data       map[string]interface{} `json:"data,omitempty"`
}

// NewDomainEvent creates a new domain event
func NewDomainEvent(eventType DomainEventType, resource string, resourceID int64, data map[string]interface{}) *DomainEvent {
	return &DomainEvent{
		ID:         uuid.New().String(),
		Type:       eventType,
		Resource:   resource,
		ResourceID: resourceID,
		Timestamp:  time.Now(),
		Data:       data,
	}
}
