package service

import (
	"context"

	"ai-support-chat-be/internal/pkg/logger"
	"ai-support-chat-be/pkg/events"

	"github.com/ThreeDotsLabs/watermill/message"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

type consumerService struct {
	subscriber message.Subscriber
	topicName  string
	sinks      []events.Publisher
	logger     logger.ILogger
}

// NewConsumerService drains the in-process topic and forwards every event to sinks
// (NATS, Redis). With no sinks the events are only logged.
func NewConsumerService(
	subscriber message.Subscriber,
	topicName string,
	sinks []events.Publisher,
	logger logger.ILogger,
) IConsumerService {
	return &consumerService{
		subscriber: subscriber,
		topicName:  topicName,
		sinks:      sinks,
		logger:     logger,
	}
}

// Consume blocks until ctx is cancelled or the subscription is closed.
func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.subscriber.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-messages:
			if !ok {
				return nil
			}
			cs.processMessage(ctx, msg)
		}
	}
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	event, err := events.Decode(msg.Payload)
	if err != nil {
		cs.logger.Error("EVENTS", "Failed to decode event", map[string]interface{}{
			"message_id": msg.UUID,
			"error":      err.Error(),
		})
		// Ack invalid messages to prevent infinite redelivery
		msg.Ack()
		return
	}

	cs.logger.Info("EVENTS", "Event received", map[string]interface{}{
		"type": event.Type,
		"data": event.Data,
	})

	for _, sink := range cs.sinks {
		if err := sink.Publish(ctx, event); err != nil {
			cs.logger.Warn("EVENTS", "Failed to forward event", map[string]interface{}{
				"type":  event.Type,
				"error": err.Error(),
			})
		}
	}

	msg.Ack()
}
