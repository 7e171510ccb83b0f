package service

import (
	"context"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type IPublisherService interface {
	PublishFlushRequest(ctx context.Context) error
}

// publisherService emits flush-request events after document mutations. The
// flusher consumes them and debounces the actual disk write.
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

func (s *publisherService) PublishFlushRequest(ctx context.Context) error {
	msg := message.NewMessage(watermill.NewUUID(), nil)
	msg.SetContext(ctx)
	return s.pubSub.Publish(s.topicName, msg)
}
