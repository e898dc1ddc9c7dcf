package service

import (
	"context"
	"encoding/json"
	"time"

	"virtual-assistant-be/internal/dto"
	"virtual-assistant-be/internal/pkg/logger"
	"virtual-assistant-be/pkg/events"

	"github.com/ThreeDotsLabs/watermill/message"
)

const consumerModule = "ActionConsumer"

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// EventForwarder relays events to an external bus. *nats.Publisher satisfies it.
type EventForwarder interface {
	Publish(ctx context.Context, event events.Event) error
}

type consumerService struct {
	subscriber message.Subscriber
	topicName  string
	forwarder  EventForwarder
	logger     logger.ILogger
}

// NewConsumerService logs every action event and forwards it when forwarder is non-nil.
func NewConsumerService(
	subscriber message.Subscriber,
	topicName string,
	forwarder EventForwarder,
	log logger.ILogger,
) IConsumerService {
	return &consumerService{
		subscriber: subscriber,
		topicName:  topicName,
		forwarder:  forwarder,
		logger:     log,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.subscriber.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.ActionEventMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.logger.Error(consumerModule, "Failed to unmarshal action event", map[string]interface{}{
			"message_id": msg.UUID,
			"error":      err.Error(),
		})
		msg.Ack() // invalid payloads are never retried
		return
	}

	cs.logger.Info(consumerModule, "Action triggered", map[string]interface{}{
		"session_id": payload.SessionId,
		"action":     payload.Action,
	})

	if cs.forwarder == nil {
		msg.Ack()
		return
	}

	fwdCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	event := events.NewActionEvent(payload.SessionId, payload.Action, payload.OccurredAt)
	if err := cs.forwarder.Publish(fwdCtx, event); err != nil {
		// The click was already handled locally; a lost forward is only logged.
		cs.logger.Warn(consumerModule, "Failed to forward action event", map[string]interface{}{
			"event": event.EventType(),
			"error": err.Error(),
		})
	}
	msg.Ack()
}
