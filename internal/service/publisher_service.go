package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"virtual-assistant-be/internal/dto"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
)

type IPublisherService interface {
	PublishAction(ctx context.Context, sessionId string, action string) error
}

type publisherService struct {
	topicName string
	publisher message.Publisher
}

func NewPublisherService(topicName string, publisher message.Publisher) IPublisherService {
	return &publisherService{
		topicName: topicName,
		publisher: publisher,
	}
}

func (ps *publisherService) PublishAction(ctx context.Context, sessionId string, action string) error {
	payload, err := json.Marshal(dto.ActionEventMessage{
		SessionId:  sessionId,
		Action:     action,
		OccurredAt: time.Now(),
	})
	if err != nil {
		return err
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.SetContext(ctx)

	if err := ps.publisher.Publish(ps.topicName, msg); err != nil {
		return fmt.Errorf("failed to publish action %s: %w", action, err)
	}
	return nil
}
