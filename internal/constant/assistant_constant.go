package constant

const (
	// AssistantActionTopic is the in-process watermill topic for action button clicks.
	AssistantActionTopic = "assistant.action"

	// NATS subject filter for every forwarded action event.
	AssistantActionSubjects = "events.assistant.action.>"

	ErrMissingMessage       = "Missing message in request body"
	ErrKnowledgeUnavailable = "Knowledge base unavailable"
	ErrSessionNotFound      = "Chat session not found"
	ErrTurnInFlight         = "Please wait for the current reply before sending another message"
	ErrTurnDiscarded        = "Conversation was cleared before the reply arrived"
	ErrActionNotOffered     = "Action was not offered in this conversation"
)
