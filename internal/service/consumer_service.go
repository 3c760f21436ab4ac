package service

import (
	"context"
	"encoding/json"

	"ai-therapy-be/internal/dto"
	"ai-therapy-be/internal/pkg/logger"
	"ai-therapy-be/internal/workflow"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// consumerService drains the internal event bus and hands each trigger
// to the workflow engine. A handler error Nacks the message so the bus
// redelivers it; that redelivery loop is the durable outer retry around
// the engine's bounded in-process retry.
type consumerService struct {
	pubSub *gochannel.GoChannel
	topics []string
	engine *workflow.Engine
	logger logger.ILogger
}

func NewConsumerService(pubSub *gochannel.GoChannel, topics []string, engine *workflow.Engine, log logger.ILogger) IConsumerService {
	return &consumerService{
		pubSub: pubSub,
		topics: topics,
		engine: engine,
		logger: log,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	for _, topic := range cs.topics {
		messages, err := cs.pubSub.Subscribe(ctx, topic)
		if err != nil {
			return err
		}

		go func(topic string, messages <-chan *message.Message) {
			for msg := range messages {
				cs.processMessage(ctx, topic, msg)
			}
		}(topic, messages)
	}
	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, topic string, msg *message.Message) {
	var envelope dto.EventEnvelope
	if err := json.Unmarshal(msg.Payload, &envelope); err != nil {
		cs.logger.Error("ConsumerService", "Failed to unmarshal event envelope", map[string]interface{}{
			"topic": topic,
			"error": err.Error(),
		})
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	cs.logger.Info("ConsumerService", "Processing trigger: "+envelope.Name, map[string]interface{}{
		"topic": topic,
	})

	if err := cs.engine.Dispatch(ctx, envelope.Name, envelope.Data); err != nil {
		cs.logger.Error("ConsumerService", "Trigger handler failed, requesting redelivery", map[string]interface{}{
			"trigger": envelope.Name,
			"error":   err.Error(),
		})
		msg.Nack()
		return
	}

	msg.Ack()
}
