package dto

import "github.com/google/uuid"

// UpdateSettingsRequest is a partial update: only non-nil fields are applied.
type UpdateSettingsRequest struct {
	Model             *string  `json:"model"`
	Endpoint          *string  `json:"endpoint"`
	Temperature       *float64 `json:"temperature"`
	MinP              *float64 `json:"min_p"`
	PresencePenalty   *float64 `json:"presence_penalty"`
	RepetitionPenalty *float64 `json:"repetition_penalty"`
	MaxTokens         *int     `json:"max_tokens"`
	Provider          *string  `json:"provider"`
	CustomKey         *string  `json:"custom_key"`
	OpenAIBaseURL     *string  `json:"openai_base_url"`
	EmbeddingsSearch  *bool    `json:"embeddings_search"`
}

type SetTokenRequest struct {
	Token string `json:"token" validate:"required"`
}

// SettingsResponse mirrors the stored settings minus credentials; TokenSet
// only reports whether some key is configured.
type SettingsResponse struct {
	Model             string     `json:"model"`
	Endpoint          string     `json:"endpoint"`
	Temperature       float64    `json:"temperature"`
	MinP              float64    `json:"min_p"`
	PresencePenalty   float64    `json:"presence_penalty"`
	RepetitionPenalty float64    `json:"repetition_penalty"`
	MaxTokens         int        `json:"max_tokens"`
	Provider          string     `json:"provider"`
	OpenAIBaseURL     string     `json:"openai_base_url"`
	EmbeddingsSearch  bool       `json:"embeddings_search"`
	CurrentDocument   *uuid.UUID `json:"current_document"`
	TokenSet          bool       `json:"token_set"`
}
