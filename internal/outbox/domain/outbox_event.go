// Package domain defines the transactional outbox domain entities.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// OutboxEventStatus represents the status of an outbox event.
type OutboxEventStatus string

const (
	OutboxEventStatusPending   OutboxEventStatus = "pending"
	OutboxEventStatusProcessed OutboxEventStatus = "processed"
	OutboxEventStatusFailed    OutboxEventStatus = "failed"
)

// Event types recorded by the credential and principal modules. Events are
// written in the same transaction as the state change they describe.
const (
	EventTypeCredentialIssued  = "credential.issued"
	EventTypeCredentialRevoked = "credential.revoked"
	EventTypePrincipalCreated  = "principal.created"
	EventTypePermissionGranted = "principal.permission_granted"
	EventTypePrincipalRevoked  = "principal.revoked"
)

// OutboxEvent represents an event in the transactional outbox pattern.
type OutboxEvent struct {
	ID          uuid.UUID
	EventType   string
	Payload     string
	Status      OutboxEventStatus
	Retries     int
	LastError   *string
	ProcessedAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewOutboxEvent creates a pending outbox event with the given type and payload.
func NewOutboxEvent(eventType string, payload string) *OutboxEvent {
	now := time.Now().UTC()
	return &OutboxEvent{
		ID:        uuid.Must(uuid.NewV7()),
		EventType: eventType,
		Payload:   payload,
		Status:    OutboxEventStatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
