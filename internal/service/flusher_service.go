package service

import (
	"context"
	"sync"
	"time"

	"ai-writingpad-be/internal/constant"
	"ai-writingpad-be/internal/pkg/logger"

	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type IFlusherService interface {
	Start(ctx context.Context) error
	Close()
}

// flusherService debounces flush requests: every request restarts the write
// delay, and only a quiet period of WriteDelay triggers the actual disk
// write. Close performs one final synchronous flush so shutdown never loses
// buffered edits.
type flusherService struct {
	pubSub          *gochannel.GoChannel
	topicName       string
	documentService IDocumentService
	logger          logger.ILogger

	mu    sync.Mutex
	timer *time.Timer
}

func NewFlusherService(
	pubSub *gochannel.GoChannel,
	topicName string,
	documentService IDocumentService,
	log logger.ILogger,
) IFlusherService {
	return &flusherService{
		pubSub:          pubSub,
		topicName:       topicName,
		documentService: documentService,
		logger:          log,
	}
}

func (s *flusherService) Start(ctx context.Context) error {
	messages, err := s.pubSub.Subscribe(ctx, s.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			s.reschedule()
			msg.Ack()
		}
	}()

	return nil
}

// reschedule cancels the pending write, if any, and arms a fresh one.
func (s *flusherService) reschedule() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(constant.WriteDelay, func() {
		if err := s.documentService.Flush(context.Background()); err != nil {
			s.logger.Error("flusher", "Debounced flush failed", map[string]interface{}{
				"error": err.Error(),
			})
		}
	})
}

func (s *flusherService) Close() {
	s.mu.Lock()
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.mu.Unlock()

	if err := s.documentService.Flush(context.Background()); err != nil {
		s.logger.Error("flusher", "Final flush failed", map[string]interface{}{
			"error": err.Error(),
		})
	}
}
