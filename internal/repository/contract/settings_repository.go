package contract

import (
	"context"

	"ai-writingpad-be/internal/entity"
)

type SettingsRepository interface {
	// Load returns the persisted settings, materializing and saving the
	// defaults when no settings file exists yet.
	Load(ctx context.Context) (*entity.Settings, error)
	Save(ctx context.Context, settings *entity.Settings) error
	// Update applies fn to the current settings and persists the result as
	// one atomic read-modify-write.
	Update(ctx context.Context, fn func(*entity.Settings) error) (*entity.Settings, error)
}
