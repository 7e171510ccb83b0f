package dto

import "github.com/google/uuid"

type SubmitGenerationRequest struct {
	Prompt     string     `json:"prompt" validate:"required"`
	DocumentId *uuid.UUID `json:"document_id"`
}

type SubmitGenerationResponse struct {
	GenerationId uuid.UUID `json:"generation_id"`
}

// StreamEvent is one SSE data frame. Fields are mutually exclusive per frame;
// omitempty keeps each frame down to its single meaningful key.
type StreamEvent struct {
	Text        string `json:"text,omitempty"`
	Cancelled   bool   `json:"cancelled,omitempty"`
	Error       string `json:"error,omitempty"`
	AutoRenamed bool   `json:"auto_renamed,omitempty"`
	NewName     string `json:"new_name,omitempty"`
	Done        bool   `json:"done,omitempty"`
}
