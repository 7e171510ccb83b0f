package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateDocumentRequest struct {
	Name string `json:"name"`
}

// UpdateDocumentRequest carries a partial update. Content takes precedence
// when both fields are present; a request with neither is rejected.
type UpdateDocumentRequest struct {
	Content *string `json:"content"`
	Name    *string `json:"name"`
}

type DocumentResponse struct {
	Id        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DocumentSummary omits content for listing and search payloads.
type DocumentSummary struct {
	Id        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type ListDocumentsResponse struct {
	Documents       []DocumentSummary `json:"documents"`
	CurrentDocument *uuid.UUID        `json:"current_document"`
}

type SearchResult struct {
	DocumentSummary
	Score      float64 `json:"score"`
	SearchType string  `json:"search_type"`
}

type SearchResponse struct {
	Results []SearchResult `json:"results"`
}
