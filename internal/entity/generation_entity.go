package entity

import (
	"sync"

	"github.com/google/uuid"
)

// GenerationSession tracks one in-flight streamed generation. The liveness
// flag is flipped by Cancel and polled cooperatively by the provider adapter
// between inbound chunks.
type GenerationSession struct {
	Id         uuid.UUID
	Prompt     string
	DocumentId *uuid.UUID

	mu     sync.RWMutex
	active bool
}

func NewGenerationSession(prompt string, documentId *uuid.UUID) *GenerationSession {
	return &GenerationSession{
		Id:         uuid.New(),
		Prompt:     prompt,
		DocumentId: documentId,
		active:     true,
	}
}

func (s *GenerationSession) IsLive() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active
}

// Cancel is idempotent.
func (s *GenerationSession) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = false
}
