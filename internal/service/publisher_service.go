package service

import (
	"context"
	"encoding/json"

	"ai-therapy-be/internal/dto"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type IPublisherService interface {
	PublishEvent(ctx context.Context, name string, data interface{}) error
}

type publisherService struct {
	pubSub    *gochannel.GoChannel
	topicName string
}

func NewPublisherService(pubSub *gochannel.GoChannel, topicName string) IPublisherService {
	return &publisherService{
		pubSub:    pubSub,
		topicName: topicName,
	}
}

func (s *publisherService) PublishEvent(ctx context.Context, name string, data interface{}) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return err
	}

	envelope, err := json.Marshal(dto.EventEnvelope{
		Name: name,
		Data: payload,
	})
	if err != nil {
		return err
	}

	msg := message.NewMessage(watermill.NewUUID(), envelope)
	return s.pubSub.Publish(s.topicName, msg)
}
