package memory

import (
	"time"

	"ai-writingpad-be/internal/entity"

	"github.com/patrickmn/go-cache"
)

// GenerationRepository holds in-flight generation sessions. Entries expire
// after an hour so a session whose stream was never attached cannot leak.
type GenerationRepository struct {
	cache *cache.Cache
}

func NewGenerationRepository() *GenerationRepository {
	c := cache.New(1*time.Hour, 10*time.Minute)
	return &GenerationRepository{
		cache: c,
	}
}

func (r *GenerationRepository) Save(session *entity.GenerationSession) {
	r.cache.Set(session.Id.String(), session, cache.DefaultExpiration)
}

func (r *GenerationRepository) Get(id string) (*entity.GenerationSession, bool) {
	if x, found := r.cache.Get(id); found {
		return x.(*entity.GenerationSession), true
	}
	return nil, false
}

func (r *GenerationRepository) Delete(id string) {
	r.cache.Delete(id)
}
