package service

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"ai-writingpad-be/internal/constant"
	"ai-writingpad-be/internal/dto"
	"ai-writingpad-be/internal/entity"
	"ai-writingpad-be/internal/mapper"
	"ai-writingpad-be/internal/pkg/logger"
	"ai-writingpad-be/internal/pkg/serverutils"
	"ai-writingpad-be/internal/repository/contract"
	"ai-writingpad-be/pkg/embedding"

	"github.com/google/uuid"
)

type IDocumentService interface {
	WarmCache(ctx context.Context) error
	Create(ctx context.Context, req *dto.CreateDocumentRequest) (*dto.DocumentResponse, error)
	Show(ctx context.Context, id uuid.UUID) (*dto.DocumentResponse, error)
	Update(ctx context.Context, id uuid.UUID, req *dto.UpdateDocumentRequest) (*dto.DocumentResponse, error)
	UpdateName(ctx context.Context, id uuid.UUID, name string) (*dto.DocumentResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
	SetCurrent(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context) (*dto.ListDocumentsResponse, error)
	Search(ctx context.Context, query, mode string) (*dto.SearchResponse, error)
	Flush(ctx context.Context) error
}

// documentService keeps every document in memory and treats disk as the
// write-behind copy. Mutations dirty the cached document and emit a flush
// request; the flusher calls Flush after the write delay elapses.
type documentService struct {
	documentRepository contract.DocumentRepository
	settingsRepository contract.SettingsRepository
	publisherService   IPublisherService
	embeddingProvider  embedding.EmbeddingProvider
	documentMapper     *mapper.DocumentMapper
	logger             logger.ILogger

	mu    sync.Mutex
	cache map[uuid.UUID]*entity.Document
	dirty map[uuid.UUID]bool
}

func NewDocumentService(
	documentRepository contract.DocumentRepository,
	settingsRepository contract.SettingsRepository,
	publisherService IPublisherService,
	embeddingProvider embedding.EmbeddingProvider,
	log logger.ILogger,
) IDocumentService {
	return &documentService{
		documentRepository: documentRepository,
		settingsRepository: settingsRepository,
		publisherService:   publisherService,
		embeddingProvider:  embeddingProvider,
		documentMapper:     mapper.NewDocumentMapper(),
		logger:             log,
		cache:              make(map[uuid.UUID]*entity.Document),
		dirty:              make(map[uuid.UUID]bool),
	}
}

// WarmCache loads every indexed document into memory. Ids whose file cannot
// be resolved are logged and skipped, never fatal.
func (s *documentService) WarmCache(ctx context.Context) error {
	settings, err := s.settingsRepository.Load(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, id := range settings.Documents {
		document, err := s.documentRepository.Load(ctx, id)
		if err != nil || document == nil {
			s.logger.Warn("document", "Skipping unresolvable document during warmup", map[string]interface{}{
				"document_id": id.String(),
				"error":       err,
			})
			continue
		}
		s.cache[id] = document
	}

	s.logger.Info("document", "Document cache warmed", map[string]interface{}{
		"count": len(s.cache),
	})
	return nil
}

func (s *documentService) Create(ctx context.Context, req *dto.CreateDocumentRequest) (*dto.DocumentResponse, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		name = constant.DefaultDocumentName
	}

	now := time.Now().UTC()
	document := &entity.Document{
		Id:            uuid.New(),
		Name:          name,
		CreatedAt:     now,
		UpdatedAt:     now,
		Content:       "",
		NameEmbedding: embedding.SafeEmbed(s.embeddingProvider, name, constant.TaskTypeDocument),
	}

	// The index entry is durable immediately; the document body follows on
	// the next flush. A new document also becomes the current one.
	_, err := s.settingsRepository.Update(ctx, func(settings *entity.Settings) error {
		settings.Documents = append(settings.Documents, document.Id)
		id := document.Id
		settings.CurrentDocument = &id
		return nil
	})
	if err != nil {
		return nil, serverutils.NewPersistenceError("Failed to register document")
	}

	s.mu.Lock()
	s.cache[document.Id] = document
	s.dirty[document.Id] = true
	res := s.documentMapper.ToResponse(document)
	s.mu.Unlock()

	s.requestFlush(ctx)

	s.logger.Info("document", "Document created", map[string]interface{}{
		"document_id": res.Id.String(),
		"name":        res.Name,
	})
	return res, nil
}

func (s *documentService) Show(ctx context.Context, id uuid.UUID) (*dto.DocumentResponse, error) {
	document, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.documentMapper.ToResponse(document), nil
}

func (s *documentService) Update(ctx context.Context, id uuid.UUID, req *dto.UpdateDocumentRequest) (*dto.DocumentResponse, error) {
	// Content wins when both fields arrive in one request.
	if req.Content != nil {
		return s.updateContent(ctx, id, *req.Content)
	}
	if req.Name != nil {
		return s.UpdateName(ctx, id, *req.Name)
	}
	return nil, serverutils.NewValidationError("Update requires content or name")
}

func (s *documentService) updateContent(ctx context.Context, id uuid.UUID, content string) (*dto.DocumentResponse, error) {
	s.mu.Lock()
	document, err := s.ensureLocked(ctx, id)
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}

	if document.Content == content {
		// Identical content is a no-op: no timestamp bump, no flush.
		res := s.documentMapper.ToResponse(document)
		s.mu.Unlock()
		return res, nil
	}

	previousLen := len(document.Content)
	document.Content = content
	document.UpdatedAt = time.Now().UTC()

	// Re-embedding every keystroke burst is wasteful; only re-embed when no
	// embedding exists yet or the length moved past the threshold.
	delta := len(content) - previousLen
	if delta < 0 {
		delta = -delta
	}
	if document.ContentEmbedding == nil || delta > constant.EmbeddingDeltaThreshold {
		document.ContentEmbedding = embedding.SafeEmbed(s.embeddingProvider, content, constant.TaskTypeDocument)
	}

	s.dirty[id] = true
	res := s.documentMapper.ToResponse(document)
	s.mu.Unlock()

	s.requestFlush(ctx)
	return res, nil
}

func (s *documentService) UpdateName(ctx context.Context, id uuid.UUID, name string) (*dto.DocumentResponse, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, serverutils.NewValidationError("Document name cannot be empty")
	}

	s.mu.Lock()
	document, err := s.ensureLocked(ctx, id)
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}

	document.Name = name
	document.UpdatedAt = time.Now().UTC()
	document.NameEmbedding = embedding.SafeEmbed(s.embeddingProvider, name, constant.TaskTypeDocument)
	s.dirty[id] = true
	res := s.documentMapper.ToResponse(document)
	s.mu.Unlock()

	s.requestFlush(ctx)
	return res, nil
}

// Delete is synchronous and durable: the file and the index entry are gone
// when it returns, regardless of pending flushes. The file removal and the
// cache/dirty eviction happen under the same lock as Flush, so a concurrent
// flush can never rewrite a deleted document's file.
func (s *documentService) Delete(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	if _, err := s.ensureLocked(ctx, id); err != nil {
		s.mu.Unlock()
		return err
	}

	if err := s.documentRepository.Delete(ctx, id); err != nil {
		s.mu.Unlock()
		s.logger.Error("document", "Failed to delete document file", map[string]interface{}{
			"document_id": id.String(),
			"error":       err.Error(),
		})
		return serverutils.NewPersistenceError("Failed to delete document")
	}

	delete(s.cache, id)
	delete(s.dirty, id)
	s.mu.Unlock()

	_, err := s.settingsRepository.Update(ctx, func(settings *entity.Settings) error {
		settings.RemoveDocument(id)
		return nil
	})
	if err != nil {
		return serverutils.NewPersistenceError("Failed to unregister document")
	}

	s.logger.Info("document", "Document deleted", map[string]interface{}{
		"document_id": id.String(),
	})
	return nil
}

func (s *documentService) SetCurrent(ctx context.Context, id uuid.UUID) error {
	_, err := s.settingsRepository.Update(ctx, func(settings *entity.Settings) error {
		if !settings.HasDocument(id) {
			return serverutils.NewNotFoundError("Document not found")
		}
		settings.CurrentDocument = &id
		return nil
	})
	return err
}

func (s *documentService) List(ctx context.Context) (*dto.ListDocumentsResponse, error) {
	settings, err := s.settingsRepository.Load(ctx)
	if err != nil {
		return nil, err
	}

	documents := s.resolveAll(ctx, settings.Documents)
	sort.Slice(documents, func(i, j int) bool {
		return documents[i].UpdatedAt.After(documents[j].UpdatedAt)
	})

	summaries := make([]dto.DocumentSummary, 0, len(documents))
	for _, document := range documents {
		summaries = append(summaries, s.documentMapper.ToSummary(document))
	}

	return &dto.ListDocumentsResponse{
		Documents:       summaries,
		CurrentDocument: settings.CurrentDocument,
	}, nil
}

func (s *documentService) Search(ctx context.Context, query, mode string) (*dto.SearchResponse, error) {
	settings, err := s.settingsRepository.Load(ctx)
	if err != nil {
		return nil, err
	}

	documents := s.resolveAll(ctx, settings.Documents)

	query = strings.TrimSpace(query)
	if query == "" {
		// Empty query degenerates into the plain listing.
		sort.Slice(documents, func(i, j int) bool {
			return documents[i].UpdatedAt.After(documents[j].UpdatedAt)
		})
		results := make([]dto.SearchResult, 0, len(documents))
		for _, document := range documents {
			results = append(results, s.documentMapper.ToSearchResult(document, 0, constant.SearchTypeNone))
		}
		return &dto.SearchResponse{Results: results}, nil
	}

	if mode == "" {
		if settings.EmbeddingsSearch {
			mode = constant.SearchModeEmbeddings
		} else {
			mode = constant.SearchModeKeyword
		}
	}

	switch mode {
	case constant.SearchModeEmbeddings:
		// An unembeddable query (e.g. stopwords only) yields a nil embedding;
		// cosine similarity scores every document 0 against it, so the full
		// set still comes back, unranked.
		queryEmbedding := embedding.SafeEmbed(s.embeddingProvider, query, constant.TaskTypeQuery)
		return s.embeddingsSearch(queryEmbedding, documents), nil
	case constant.SearchModeKeyword:
		return s.keywordSearch(query, documents), nil
	default:
		return nil, serverutils.NewValidationError("Unknown search mode: " + mode)
	}
}

// embeddingsSearch scores every document by the better of its content and
// name similarity. All documents are returned, ranked; the client decides
// what is relevant enough to show.
func (s *documentService) embeddingsSearch(queryEmbedding []float64, documents []*entity.Document) *dto.SearchResponse {
	type scored struct {
		document *entity.Document
		score    float64
	}

	ranked := make([]scored, 0, len(documents))
	for _, document := range documents {
		contentScore := embedding.CosineSimilarity(queryEmbedding, document.ContentEmbedding)
		nameScore := embedding.CosineSimilarity(queryEmbedding, document.NameEmbedding)
		score := contentScore
		if nameScore > score {
			score = nameScore
		}
		ranked = append(ranked, scored{document: document, score: score})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].score > ranked[j].score
	})

	results := make([]dto.SearchResult, 0, len(ranked))
	for _, r := range ranked {
		results = append(results, s.documentMapper.ToSearchResult(r.document, r.score, constant.SearchModeEmbeddings))
	}
	return &dto.SearchResponse{Results: results}
}

// keywordSearch counts case-insensitive occurrences across content and name.
// Documents without a single hit are excluded.
func (s *documentService) keywordSearch(query string, documents []*entity.Document) *dto.SearchResponse {
	needle := strings.ToLower(query)

	type scored struct {
		document *entity.Document
		count    int
	}

	ranked := make([]scored, 0, len(documents))
	for _, document := range documents {
		count := strings.Count(strings.ToLower(document.Content), needle) +
			strings.Count(strings.ToLower(document.Name), needle)
		if count == 0 {
			continue
		}
		ranked = append(ranked, scored{document: document, count: count})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].count != ranked[j].count {
			return ranked[i].count > ranked[j].count
		}
		return ranked[i].document.UpdatedAt.After(ranked[j].document.UpdatedAt)
	})

	results := make([]dto.SearchResult, 0, len(ranked))
	for _, r := range ranked {
		results = append(results, s.documentMapper.ToSearchResult(r.document, float64(r.count), constant.SearchModeKeyword))
	}
	return &dto.SearchResponse{Results: results}
}

// Flush writes every dirty document to disk. The service mutex is held for
// the whole write-back loop, so no mutation can race the serialization. A
// failed write keeps its dirty flag so the next flush retries it.
func (s *documentService) Flush(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.dirty) == 0 {
		return nil
	}

	var written, failures int
	for id := range s.dirty {
		document, ok := s.cache[id]
		if !ok {
			delete(s.dirty, id)
			continue
		}
		if err := s.documentRepository.Save(ctx, document); err != nil {
			failures++
			s.logger.Error("document", "Failed to flush document", map[string]interface{}{
				"document_id": document.Id.String(),
				"error":       err.Error(),
			})
			continue
		}
		delete(s.dirty, id)
		written++
	}

	s.logger.Info("document", "Flushed documents", map[string]interface{}{
		"written": written,
		"failed":  failures,
	})
	return nil
}

// get resolves a document and returns a private copy, so read paths never
// observe cached state mid-mutation. The embedding slices are shared by the
// copy but safe: mutations replace them wholesale, never in place.
func (s *documentService) get(ctx context.Context, id uuid.UUID) (*entity.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	document, err := s.ensureLocked(ctx, id)
	if err != nil {
		return nil, err
	}
	copied := *document
	return &copied, nil
}

// ensureLocked resolves the live cache entry, loading from disk on a miss.
// The caller must hold s.mu; the returned pointer must not escape the lock.
func (s *documentService) ensureLocked(ctx context.Context, id uuid.UUID) (*entity.Document, error) {
	if document, ok := s.cache[id]; ok {
		return document, nil
	}

	document, err := s.documentRepository.Load(ctx, id)
	if err != nil {
		return nil, serverutils.NewPersistenceError("Failed to load document")
	}
	if document == nil {
		return nil, serverutils.NewNotFoundError("Document not found")
	}

	s.cache[id] = document
	return document, nil
}

func (s *documentService) resolveAll(ctx context.Context, ids []uuid.UUID) []*entity.Document {
	documents := make([]*entity.Document, 0, len(ids))
	for _, id := range ids {
		document, err := s.get(ctx, id)
		if err != nil {
			s.logger.Warn("document", "Skipping unresolvable document", map[string]interface{}{
				"document_id": id.String(),
			})
			continue
		}
		documents = append(documents, document)
	}
	return documents
}

func (s *documentService) requestFlush(ctx context.Context) {
	if err := s.publisherService.PublishFlushRequest(ctx); err != nil {
		s.logger.Error("document", "Failed to publish flush request", map[string]interface{}{
			"error": err.Error(),
		})
	}
}
