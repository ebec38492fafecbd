package models

import "time"

type EventType string

const (
	EventMembershipChanged  EventType = "membership.changed"
	EventGroupDeleted       EventType = "group.deleted"
	EventAssignmentCreated  EventType = "assignment.created"
	EventSubmissionReviewed EventType = "submission.reviewed"
	EventDocumentReviewed   EventType = "document.reviewed"
)

// Event публикуется после успешной последовательности записей.
type Event struct {
	Type      EventType         `json:"type"`
	EntityID  string            `json:"entity_id"`
	Payload   map[string]string `json:"payload,omitempty"`
	Timestamp int64             `json:"timestamp"`
}

func NewEvent(t EventType, entityID string, payload map[string]string) *Event {
	return &Event{
		Type:      t,
		EntityID:  entityID,
		Payload:   payload,
		Timestamp: time.Now().Unix(),
	}
}
