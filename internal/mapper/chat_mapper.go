package mapper

import (
	"virtual-assistant-be/internal/dto"
	"virtual-assistant-be/pkg/rag/response"
	"virtual-assistant-be/pkg/rag/session"
)

type ChatMapper struct{}

func NewChatMapper() *ChatMapper {
	return &ChatMapper{}
}

// ToMessageDTO attaches the rendered blocks used by the widget bubble.
func (m *ChatMapper) ToMessageDTO(msg session.Message) *dto.MessageDTO {
	blocks := response.Render(msg.Text)
	return &dto.MessageDTO{
		Id:        msg.ID,
		Sender:    string(msg.Sender),
		Text:      msg.Text,
		Blocks:    blocks,
		Html:      response.RenderHTML(blocks),
		Actions:   msg.Actions,
		CreatedAt: msg.CreatedAt,
	}
}

func (m *ChatMapper) ToMessageDTOs(msgs []session.Message) []*dto.MessageDTO {
	out := make([]*dto.MessageDTO, 0, len(msgs))
	for _, msg := range msgs {
		out = append(out, m.ToMessageDTO(msg))
	}
	return out
}

func (m *ChatMapper) ToSessionResponse(s *session.Session) *dto.SessionResponse {
	return &dto.SessionResponse{
		Id:       s.ID(),
		State:    string(s.State()),
		Messages: m.ToMessageDTOs(s.Messages()),
	}
}
