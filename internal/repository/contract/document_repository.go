package contract

import (
	"context"

	"ai-writingpad-be/internal/entity"

	"github.com/google/uuid"
)

type DocumentRepository interface {
	// Save writes the full document, creating or replacing its file.
	Save(ctx context.Context, document *entity.Document) error
	// Load returns (nil, nil) when no file exists for the id.
	Load(ctx context.Context, id uuid.UUID) (*entity.Document, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}
