package service

import (
	"context"
	"strings"

	"ai-writingpad-be/internal/constant"
	"ai-writingpad-be/internal/dto"
	"ai-writingpad-be/internal/entity"
	"ai-writingpad-be/internal/pkg/logger"
	"ai-writingpad-be/internal/pkg/serverutils"
	"ai-writingpad-be/internal/repository/contract"
	"ai-writingpad-be/internal/repository/memory"
	"ai-writingpad-be/pkg/llm"
	"ai-writingpad-be/pkg/llm/factory"
	"ai-writingpad-be/pkg/namer"
)

type IGenerationService interface {
	Submit(ctx context.Context, req *dto.SubmitGenerationRequest) (*dto.SubmitGenerationResponse, error)
	Cancel(ctx context.Context, id string) error
	// Attach starts the upstream stream and returns the event channel for the
	// session. An unknown id still returns a channel: it carries a single
	// error event, so the SSE surface stays uniform. The channel closes after
	// the terminal event.
	Attach(ctx context.Context, id string) <-chan dto.StreamEvent
}

// ProviderFactory builds a stream provider from the current settings. Tests
// swap it for a stub.
type ProviderFactory func(settings *entity.Settings) (llm.StreamProvider, error)

// NamerFactory builds the auto-namer from the current settings.
type NamerFactory func(settings *entity.Settings) namer.Namer

func DefaultProviderFactory(settings *entity.Settings) (llm.StreamProvider, error) {
	return factory.NewStreamProvider(
		settings.Provider,
		settings.Model,
		settings.Endpoint,
		settings.OpenAIBaseURL,
		settings.APIKey(),
	)
}

func DefaultNamerFactory(settings *entity.Settings) namer.Namer {
	return namer.New(settings.Endpoint, settings.APIKey(), settings.Model)
}

type generationService struct {
	generationRepository *memory.GenerationRepository
	settingsRepository   contract.SettingsRepository
	documentService      IDocumentService
	providerFactory      ProviderFactory
	namerFactory         NamerFactory
	logger               logger.ILogger
}

func NewGenerationService(
	generationRepository *memory.GenerationRepository,
	settingsRepository contract.SettingsRepository,
	documentService IDocumentService,
	providerFactory ProviderFactory,
	namerFactory NamerFactory,
	log logger.ILogger,
) IGenerationService {
	return &generationService{
		generationRepository: generationRepository,
		settingsRepository:   settingsRepository,
		documentService:      documentService,
		providerFactory:      providerFactory,
		namerFactory:         namerFactory,
		logger:               log,
	}
}

// Submit registers a pending session. No network I/O happens here; the
// upstream call starts when the client attaches to the stream.
func (s *generationService) Submit(ctx context.Context, req *dto.SubmitGenerationRequest) (*dto.SubmitGenerationResponse, error) {
	if strings.TrimSpace(req.Prompt) == "" {
		return nil, serverutils.NewValidationError("Prompt cannot be empty")
	}

	settings, err := s.settingsRepository.Load(ctx)
	if err != nil {
		return nil, err
	}
	if settings.APIKey() == "" {
		return nil, serverutils.NewValidationError("No API key configured")
	}

	session := entity.NewGenerationSession(req.Prompt, req.DocumentId)
	s.generationRepository.Save(session)

	s.logger.Info("generation", "Generation submitted", map[string]interface{}{
		"generation_id": session.Id.String(),
	})
	return &dto.SubmitGenerationResponse{GenerationId: session.Id}, nil
}

func (s *generationService) Cancel(ctx context.Context, id string) error {
	session, found := s.generationRepository.Get(id)
	if !found {
		return serverutils.NewNotFoundError("Generation not found")
	}
	session.Cancel()
	s.logger.Info("generation", "Generation cancelled", map[string]interface{}{
		"generation_id": id,
	})
	return nil
}

func (s *generationService) Attach(ctx context.Context, id string) <-chan dto.StreamEvent {
	events := make(chan dto.StreamEvent, 1)

	session, found := s.generationRepository.Get(id)
	if !found {
		events <- dto.StreamEvent{Error: "Generation not found"}
		close(events)
		return events
	}

	settings, err := s.settingsRepository.Load(ctx)
	if err != nil {
		events <- dto.StreamEvent{Error: "Failed to load settings"}
		close(events)
		return events
	}

	provider, err := s.providerFactory(settings)
	if err != nil {
		events <- dto.StreamEvent{Error: err.Error()}
		close(events)
		s.generationRepository.Delete(id)
		return events
	}

	go s.run(ctx, session, settings, provider, events)
	return events
}

// run relays provider chunks to the SSE channel and finishes with the
// terminal protocol: an error chunk ends the stream with no done marker,
// cancellation emits cancelled then done, and normal completion runs the
// auto-namer before done.
func (s *generationService) run(
	ctx context.Context,
	session *entity.GenerationSession,
	settings *entity.Settings,
	provider llm.StreamProvider,
	events chan<- dto.StreamEvent,
) {
	defer close(events)
	defer s.generationRepository.Delete(session.Id.String())

	req := llm.CompletionRequest{
		Model:             settings.Model,
		Prompt:            session.Prompt,
		Temperature:       settings.Temperature,
		MinP:              settings.MinP,
		PresencePenalty:   settings.PresencePenalty,
		RepetitionPenalty: settings.RepetitionPenalty,
		MaxTokens:         settings.MaxTokens,
	}

	chunks := provider.Stream(ctx, req, session.IsLive)

	for chunk := range chunks {
		switch {
		case chunk.Err != nil:
			s.emit(ctx, session, events, dto.StreamEvent{Error: chunk.Err.Error()})
			s.drain(chunks)
			return
		case chunk.Cancelled:
			if s.emit(ctx, session, events, dto.StreamEvent{Cancelled: true}) {
				s.emit(ctx, session, events, dto.StreamEvent{Done: true})
			}
			s.drain(chunks)
			return
		case chunk.Done:
			// The adapter closes the channel right after; fall through to the
			// completion path below.
		case chunk.Content != "":
			if !s.emit(ctx, session, events, dto.StreamEvent{Text: chunk.Content}) {
				s.drain(chunks)
				return
			}
		}
	}

	s.autoRename(ctx, session, events)
	s.emit(ctx, session, events, dto.StreamEvent{Done: true})
}

// autoRename renames the session's document when it still carries the
// placeholder name and has content to name from. Failures are swallowed; they
// never change the generation's outcome.
func (s *generationService) autoRename(ctx context.Context, session *entity.GenerationSession, events chan<- dto.StreamEvent) {
	if session.DocumentId == nil {
		return
	}
	docId := *session.DocumentId

	document, err := s.documentService.Show(ctx, docId)
	if err != nil {
		s.logger.Warn("generation", "Auto-rename target missing", map[string]interface{}{
			"generation_id": session.Id.String(),
			"document_id":   docId.String(),
		})
		return
	}
	if document.Name != constant.DefaultDocumentName || strings.TrimSpace(document.Content) == "" {
		return
	}

	settings, err := s.settingsRepository.Load(ctx)
	if err != nil {
		return
	}

	name := s.namerFactory(settings).NameFor(ctx, document.Content)
	if name == namer.FallbackName {
		// The namer signals failure by returning the placeholder.
		return
	}

	if _, err := s.documentService.UpdateName(ctx, docId, name); err != nil {
		s.logger.Error("generation", "Failed to auto-rename document", map[string]interface{}{
			"document_id": docId.String(),
			"error":       err.Error(),
		})
		return
	}

	s.logger.Info("generation", "Document auto-renamed", map[string]interface{}{
		"document_id": docId.String(),
		"new_name":    name,
	})
	s.emit(ctx, session, events, dto.StreamEvent{AutoRenamed: true, NewName: name})
}

// emit delivers one event unless the consumer is gone. A false return means
// the client disconnected: the session is cancelled so the provider adapter
// stops on its next liveness poll.
func (s *generationService) emit(ctx context.Context, session *entity.GenerationSession, events chan<- dto.StreamEvent, event dto.StreamEvent) bool {
	select {
	case events <- event:
		return true
	case <-ctx.Done():
		session.Cancel()
		return false
	}
}

// drain consumes any remaining chunks so the provider goroutine can exit.
func (s *generationService) drain(chunks <-chan llm.StreamChunk) {
	go func() {
		for range chunks {
		}
	}()
}
