package entity

import (
	"time"

	"github.com/google/uuid"
)

// Document is the unit of storage. Embeddings are derived data and may be
// absent; the JSON tags define the on-disk shape of one document file.
type Document struct {
	Id               uuid.UUID `json:"id"`
	Name             string    `json:"name"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
	Content          string    `json:"content"`
	ContentEmbedding []float64 `json:"content_embedding"`
	NameEmbedding    []float64 `json:"name_embedding"`
}
