package dto

import (
	"time"

	"virtual-assistant-be/pkg/rag/response"
	"virtual-assistant-be/pkg/rag/rules"

	"github.com/google/uuid"
)

// GeminiChatRequest is the body of the stateless chat endpoint. Message is
// checked by hand so the endpoint can answer with its fixed error body.
type GeminiChatRequest struct {
	Message string `json:"message"`
}

type GeminiChatResponse struct {
	Answer string `json:"answer"`
}

type GeminiChatErrorResponse struct {
	Error string `json:"error"`
}

type MessageDTO struct {
	Id        uuid.UUID            `json:"id"`
	Sender    string               `json:"sender"`
	Text      string               `json:"text"`
	Blocks    []response.Block     `json:"blocks"`
	Html      string               `json:"html"`
	Actions   []rules.ActionButton `json:"actions,omitempty"`
	CreatedAt time.Time            `json:"created_at"`
}

type SessionResponse struct {
	Id       string        `json:"id"`
	State    string        `json:"state"`
	Messages []*MessageDTO `json:"messages"`
}

type SendMessageRequest struct {
	Message string `json:"message" validate:"required,max=2000"`
}

type SendMessageResponse struct {
	SessionId string        `json:"session_id"`
	Replies   []*MessageDTO `json:"replies"`
}

type TriggerActionRequest struct {
	Action string `json:"action" validate:"required,oneof=open-meeting-popup open-subscribe-popup open-message-popup"`
}

type TriggerActionResponse struct {
	SessionId string `json:"session_id"`
	Action    string `json:"action"`
}

type HealthResponse struct {
	Status           string `json:"status"`
	KnowledgePath    string `json:"knowledge_path"`
	FallbackDocument bool   `json:"fallback_document"`
	Generator        string `json:"generator"`
	ActiveSessions   int    `json:"active_sessions"`
}

// ActionEventMessage is the watermill payload published when a visitor clicks an action button.
type ActionEventMessage struct {
	SessionId  string    `json:"session_id"`
	Action     string    `json:"action"`
	OccurredAt time.Time `json:"occurred_at"`
}
