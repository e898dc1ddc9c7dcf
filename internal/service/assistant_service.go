package service

import (
	"context"
	"errors"
	"strings"

	"virtual-assistant-be/internal/dto"
	"virtual-assistant-be/internal/mapper"
	"virtual-assistant-be/internal/pkg/logger"
	"virtual-assistant-be/pkg/knowledge"
	"virtual-assistant-be/pkg/rag/pipeline"
	"virtual-assistant-be/pkg/rag/rules"
	"virtual-assistant-be/pkg/rag/session"
)

const assistantModule = "Assistant"

var (
	ErrMissingMessage       = errors.New("missing message")
	ErrKnowledgeUnavailable = errors.New("knowledge base unavailable")
)

type IAssistantService interface {
	Ask(ctx context.Context, request *dto.GeminiChatRequest) (*dto.GeminiChatResponse, error)
	CreateSession(ctx context.Context) (*dto.SessionResponse, error)
	GetSession(ctx context.Context, sessionId string) (*dto.SessionResponse, error)
	SendMessage(ctx context.Context, sessionId string, request *dto.SendMessageRequest) (*dto.SendMessageResponse, error)
	ClearMessages(ctx context.Context, sessionId string) (*dto.SessionResponse, error)
	TriggerAction(ctx context.Context, sessionId string, request *dto.TriggerActionRequest) (*dto.TriggerActionResponse, error)
	CloseSession(ctx context.Context, sessionId string) error
	Health(ctx context.Context) *dto.HealthResponse
}

// KnowledgeSource is the document store as seen by the service.
type KnowledgeSource interface {
	Load(ctx context.Context) knowledge.Result
	Path() string
}

type assistantService struct {
	docs      KnowledgeSource
	pipeline  *pipeline.Pipeline
	sessions  *session.Manager
	publisher IPublisherService
	mapper    *mapper.ChatMapper
	logger    logger.ILogger
}

func NewAssistantService(
	docs KnowledgeSource,
	p *pipeline.Pipeline,
	sessions *session.Manager,
	publisher IPublisherService,
	log logger.ILogger,
) IAssistantService {
	return &assistantService{
		docs:      docs,
		pipeline:  p,
		sessions:  sessions,
		publisher: publisher,
		mapper:    mapper.NewChatMapper(),
		logger:    log,
	}
}

// Ask answers a single question without a session.
func (s *assistantService) Ask(ctx context.Context, request *dto.GeminiChatRequest) (*dto.GeminiChatResponse, error) {
	question := strings.TrimSpace(request.Message)
	if question == "" {
		return nil, ErrMissingMessage
	}

	doc := s.docs.Load(ctx)
	if strings.TrimSpace(doc.Text) == "" {
		s.logger.Error(assistantModule, "Knowledge document and fallback are both empty", map[string]interface{}{
			"path": s.docs.Path(),
		})
		return nil, ErrKnowledgeUnavailable
	}

	reply := s.pipeline.AnswerWith(ctx, doc, question)
	return &dto.GeminiChatResponse{Answer: reply.Text}, nil
}

func (s *assistantService) CreateSession(ctx context.Context) (*dto.SessionResponse, error) {
	return s.mapper.ToSessionResponse(s.sessions.Create()), nil
}

func (s *assistantService) GetSession(ctx context.Context, sessionId string) (*dto.SessionResponse, error) {
	sess, err := s.sessions.Get(sessionId)
	if err != nil {
		return nil, err
	}
	return s.mapper.ToSessionResponse(sess), nil
}

func (s *assistantService) SendMessage(ctx context.Context, sessionId string, request *dto.SendMessageRequest) (*dto.SendMessageResponse, error) {
	sess, err := s.sessions.Get(sessionId)
	if err != nil {
		return nil, err
	}

	replies, err := sess.Submit(ctx, request.Message)
	if err != nil {
		s.logger.Warn(assistantModule, "Turn rejected", map[string]interface{}{
			"session_id": sessionId,
			"error":      err.Error(),
		})
		return nil, err
	}

	return &dto.SendMessageResponse{
		SessionId: sessionId,
		Replies:   s.mapper.ToMessageDTOs(replies),
	}, nil
}

func (s *assistantService) ClearMessages(ctx context.Context, sessionId string) (*dto.SessionResponse, error) {
	sess, err := s.sessions.Get(sessionId)
	if err != nil {
		return nil, err
	}
	sess.Clear()
	return s.mapper.ToSessionResponse(sess), nil
}

// TriggerAction runs the hook behind an offered button. Every hook publishes
// an action event for collaborators to act on.
func (s *assistantService) TriggerAction(ctx context.Context, sessionId string, request *dto.TriggerActionRequest) (*dto.TriggerActionResponse, error) {
	sess, err := s.sessions.Get(sessionId)
	if err != nil {
		return nil, err
	}

	var publishErr error
	publish := func(action string) func() {
		return func() {
			publishErr = s.publisher.PublishAction(ctx, sessionId, action)
		}
	}
	hooks := session.Hooks{
		OpenMeetingPopup:   publish(rules.ActionOpenMeeting),
		OpenSubscribePopup: publish(rules.ActionOpenSubscribe),
		OpenMessagePopup:   publish(rules.ActionOpenMessage),
	}

	if err := sess.Trigger(request.Action, hooks); err != nil {
		return nil, err
	}
	if publishErr != nil {
		return nil, publishErr
	}

	return &dto.TriggerActionResponse{SessionId: sessionId, Action: request.Action}, nil
}

func (s *assistantService) CloseSession(ctx context.Context, sessionId string) error {
	return s.sessions.Close(sessionId)
}

func (s *assistantService) Health(ctx context.Context) *dto.HealthResponse {
	doc := s.docs.Load(ctx)
	status := "ok"
	if doc.Fallback {
		status = "degraded"
	}
	return &dto.HealthResponse{
		Status:           status,
		KnowledgePath:    s.docs.Path(),
		FallbackDocument: doc.Fallback,
		Generator:        s.pipeline.GeneratorName(),
		ActiveSessions:   s.sessions.Active(),
	}
}
