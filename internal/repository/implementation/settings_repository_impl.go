package implementation

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"ai-writingpad-be/internal/entity"
	"ai-writingpad-be/internal/repository/contract"
)

// SettingsRepositoryImpl persists the settings blob as config.json in the
// data directory. A mutex serializes read-modify-write cycles so concurrent
// updates cannot drop each other's changes.
type SettingsRepositoryImpl struct {
	mu   sync.Mutex
	path string
}

func NewSettingsRepository(dataDir string) contract.SettingsRepository {
	return &SettingsRepositoryImpl{path: filepath.Join(dataDir, "config.json")}
}

func (r *SettingsRepositoryImpl) Load(ctx context.Context) (*entity.Settings, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.load()
}

func (r *SettingsRepositoryImpl) Save(ctx context.Context, settings *entity.Settings) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.save(settings)
}

func (r *SettingsRepositoryImpl) Update(ctx context.Context, fn func(*entity.Settings) error) (*entity.Settings, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	settings, err := r.load()
	if err != nil {
		return nil, err
	}
	if err := fn(settings); err != nil {
		return nil, err
	}
	if err := r.save(settings); err != nil {
		return nil, err
	}
	return settings, nil
}

func (r *SettingsRepositoryImpl) load() (*entity.Settings, error) {
	settings := entity.DefaultSettings()

	data, err := os.ReadFile(r.path)
	if err != nil {
		if os.IsNotExist(err) {
			// First run: materialize the defaults on disk.
			if err := r.save(&settings); err != nil {
				return nil, err
			}
			return &settings, nil
		}
		return nil, fmt.Errorf("reading settings: %w", err)
	}

	// Unmarshal over the defaults so fields missing from an older file keep
	// their default values.
	if err := json.Unmarshal(data, &settings); err != nil {
		return nil, fmt.Errorf("decoding settings: %w", err)
	}
	return &settings, nil
}

func (r *SettingsRepositoryImpl) save(settings *entity.Settings) error {
	if err := os.MkdirAll(filepath.Dir(r.path), 0o755); err != nil {
		return fmt.Errorf("creating data dir: %w", err)
	}

	data, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding settings: %w", err)
	}

	if err := os.WriteFile(r.path, data, 0o644); err != nil {
		return fmt.Errorf("writing settings: %w", err)
	}
	return nil
}
