package implementation

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"ai-writingpad-be/internal/entity"
	"ai-writingpad-be/internal/repository/contract"

	"github.com/google/uuid"
)

// DocumentRepositoryImpl stores one JSON file per document under the
// documents directory, named <id>.json.
type DocumentRepositoryImpl struct {
	dir string
}

func NewDocumentRepository(dir string) contract.DocumentRepository {
	return &DocumentRepositoryImpl{dir: dir}
}

func (r *DocumentRepositoryImpl) path(id uuid.UUID) string {
	return filepath.Join(r.dir, id.String()+".json")
}

func (r *DocumentRepositoryImpl) Save(ctx context.Context, document *entity.Document) error {
	if err := os.MkdirAll(r.dir, 0o755); err != nil {
		return fmt.Errorf("creating documents dir: %w", err)
	}

	data, err := json.MarshalIndent(document, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding document %s: %w", document.Id, err)
	}

	if err := os.WriteFile(r.path(document.Id), data, 0o644); err != nil {
		return fmt.Errorf("writing document %s: %w", document.Id, err)
	}
	return nil
}

func (r *DocumentRepositoryImpl) Load(ctx context.Context, id uuid.UUID) (*entity.Document, error) {
	data, err := os.ReadFile(r.path(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading document %s: %w", id, err)
	}

	var document entity.Document
	if err := json.Unmarshal(data, &document); err != nil {
		return nil, fmt.Errorf("decoding document %s: %w", id, err)
	}
	return &document, nil
}

func (r *DocumentRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	if err := os.Remove(r.path(id)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("deleting document %s: %w", id, err)
	}
	return nil
}

func (r *DocumentRepositoryImpl) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	_, err := os.Stat(r.path(id))
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("checking document %s: %w", id, err)
	}
	return true, nil
}
