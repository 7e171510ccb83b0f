package service

import (
	"context"
	"sync"

	"ai-writingpad-be/internal/entity"
	"ai-writingpad-be/internal/repository/contract"

	"github.com/google/uuid"
)

type nopLogger struct{}

func (nopLogger) Debug(module, message string, details map[string]interface{}) {}
func (nopLogger) Info(module, message string, details map[string]interface{})  {}
func (nopLogger) Warn(module, message string, details map[string]interface{})  {}
func (nopLogger) Error(module, message string, details map[string]interface{}) {}
func (nopLogger) Sync() error                                                  { return nil }

type fakeDocumentRepo struct {
	mu    sync.Mutex
	docs  map[uuid.UUID]entity.Document
	saves int
}

func newFakeDocumentRepo() *fakeDocumentRepo {
	return &fakeDocumentRepo{docs: make(map[uuid.UUID]entity.Document)}
}

func (r *fakeDocumentRepo) Save(ctx context.Context, document *entity.Document) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.docs[document.Id] = *document
	r.saves++
	return nil
}

func (r *fakeDocumentRepo) Load(ctx context.Context, id uuid.UUID) (*entity.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	document, ok := r.docs[id]
	if !ok {
		return nil, nil
	}
	copied := document
	return &copied, nil
}

func (r *fakeDocumentRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.docs, id)
	return nil
}

func (r *fakeDocumentRepo) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.docs[id]
	return ok, nil
}

func (r *fakeDocumentRepo) saveCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.saves
}

type fakeSettingsRepo struct {
	mu       sync.Mutex
	settings entity.Settings
}

func newFakeSettingsRepo() *fakeSettingsRepo {
	return &fakeSettingsRepo{settings: entity.DefaultSettings()}
}

func (r *fakeSettingsRepo) Load(ctx context.Context) (*entity.Settings, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := r.settings
	return &copied, nil
}

func (r *fakeSettingsRepo) Save(ctx context.Context, settings *entity.Settings) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.settings = *settings
	return nil
}

func (r *fakeSettingsRepo) Update(ctx context.Context, fn func(*entity.Settings) error) (*entity.Settings, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := fn(&r.settings); err != nil {
		return nil, err
	}
	copied := r.settings
	return &copied, nil
}

var _ contract.DocumentRepository = (*fakeDocumentRepo)(nil)
var _ contract.SettingsRepository = (*fakeSettingsRepo)(nil)

type recordingPublisher struct {
	mu    sync.Mutex
	count int
}

func (p *recordingPublisher) PublishFlushRequest(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.count++
	return nil
}
