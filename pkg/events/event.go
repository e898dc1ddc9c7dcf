package events

import "time"

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the dotted type, used as the bus subject suffix.
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// TypeAssistantAction prefixes events raised when a visitor clicks an action button.
const TypeAssistantAction = "assistant.action"

type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// NewActionEvent builds an event of type "assistant.action.<action>".
func NewActionEvent(sessionID, action string, at time.Time) BaseEvent {
	return BaseEvent{
		Type: TypeAssistantAction + "." + action,
		Data: map[string]interface{}{
			"session_id":  sessionID,
			"action":      action,
			"occurred_at": at.UTC().Format(time.RFC3339),
		},
		OccurredAt: at,
	}
}
