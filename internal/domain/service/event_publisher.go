package service

import (
	"context"
	"time"
)

// SessionEventType names a client session lifecycle event.
type SessionEventType string

const (
	SessionEventLoggedIn       SessionEventType = "logged_in"
	SessionEventLoggedOut      SessionEventType = "logged_out"
	SessionEventSessionExpired SessionEventType = "session_expired"
	SessionEventTableBound     SessionEventType = "table_bound"
	SessionEventCheckedOut     SessionEventType = "checked_out"
	SessionEventOrderPlaced    SessionEventType = "order_placed"
)

// SessionEvent describes something that happened to the customer session on this device
type SessionEvent struct {
	RequestID  string           `json:"request_id,omitempty"` // For distributed tracing
	EventID    string           `json:"event_id"`
	Type       SessionEventType `json:"type"`
	CustomerID string           `json:"customer_id,omitempty"`
	TableID    string           `json:"table_id,omitempty"`
	OrderID    string           `json:"order_id,omitempty"`
	OccurredAt time.Time        `json:"occurred_at"`
}

// EventPublisher defines the interface for publishing session events to a message queue
type EventPublisher interface {
	// PublishSessionEvent publishes a session event for async processing
	PublishSessionEvent(ctx context.Context, event *SessionEvent) error

	// Close releases any resources held by the publisher
	Close() error
}
