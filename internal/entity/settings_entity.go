package entity

import (
	"github.com/google/uuid"
)

// Settings is the runtime-mutable configuration blob persisted as one JSON
// file. Documents holds the ordered index of known document ids;
// CurrentDocument, when set, must be a member of that index.
type Settings struct {
	Token             string      `json:"token"`
	Model             string      `json:"model"`
	Endpoint          string      `json:"endpoint"`
	Temperature       float64     `json:"temperature"`
	MinP              float64     `json:"min_p"`
	PresencePenalty   float64     `json:"presence_penalty"`
	RepetitionPenalty float64     `json:"repetition_penalty"`
	MaxTokens         int         `json:"max_tokens"`
	Provider          string      `json:"provider"`
	CustomKey         string      `json:"custom_key"`
	OpenAIBaseURL     string      `json:"openai_base_url"`
	EmbeddingsSearch  bool        `json:"embeddings_search"`
	CurrentDocument   *uuid.UUID  `json:"current_document"`
	Documents         []uuid.UUID `json:"documents"`
}

func DefaultSettings() Settings {
	return Settings{
		Token:             "",
		Model:             "deepseek/deepseek-v3-base:free",
		Endpoint:          "https://openrouter.ai/api/v1/completions",
		Temperature:       1.0,
		MinP:              0.01,
		PresencePenalty:   0.1,
		RepetitionPenalty: 1.1,
		MaxTokens:         500,
		Provider:          "auto",
		CustomKey:         "",
		OpenAIBaseURL:     "",
		EmbeddingsSearch:  true,
		CurrentDocument:   nil,
		Documents:         []uuid.UUID{},
	}
}

// APIKey resolves the credential for provider calls, preferring the custom
// key over the global token.
func (s *Settings) APIKey() string {
	if s.CustomKey != "" {
		return s.CustomKey
	}
	return s.Token
}

// HasDocument reports index membership.
func (s *Settings) HasDocument(id uuid.UUID) bool {
	for _, docId := range s.Documents {
		if docId == id {
			return true
		}
	}
	return false
}

// RemoveDocument drops id from the index and reassigns the current-document
// pointer: the new index head when one exists, nil otherwise.
func (s *Settings) RemoveDocument(id uuid.UUID) {
	kept := s.Documents[:0]
	for _, docId := range s.Documents {
		if docId != id {
			kept = append(kept, docId)
		}
	}
	s.Documents = kept

	if s.CurrentDocument != nil && *s.CurrentDocument == id {
		if len(s.Documents) > 0 {
			head := s.Documents[0]
			s.CurrentDocument = &head
		} else {
			s.CurrentDocument = nil
		}
	}
}
