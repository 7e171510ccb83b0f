package service

import (
	"context"
	"strings"

	"ai-writingpad-be/internal/dto"
	"ai-writingpad-be/internal/entity"
	"ai-writingpad-be/internal/pkg/logger"
	"ai-writingpad-be/internal/pkg/serverutils"
	"ai-writingpad-be/internal/repository/contract"
	"ai-writingpad-be/pkg/llm/factory"
)

type ISettingsService interface {
	Show(ctx context.Context) (*dto.SettingsResponse, error)
	Update(ctx context.Context, req *dto.UpdateSettingsRequest) (*dto.SettingsResponse, error)
	SetToken(ctx context.Context, req *dto.SetTokenRequest) error
}

type settingsService struct {
	settingsRepository contract.SettingsRepository
	logger             logger.ILogger
}

func NewSettingsService(settingsRepository contract.SettingsRepository, log logger.ILogger) ISettingsService {
	return &settingsService{
		settingsRepository: settingsRepository,
		logger:             log,
	}
}

func (s *settingsService) Show(ctx context.Context) (*dto.SettingsResponse, error) {
	settings, err := s.settingsRepository.Load(ctx)
	if err != nil {
		return nil, err
	}
	return toSettingsResponse(settings), nil
}

func (s *settingsService) Update(ctx context.Context, req *dto.UpdateSettingsRequest) (*dto.SettingsResponse, error) {
	if req.Provider != nil {
		switch *req.Provider {
		case factory.ProviderAuto, factory.ProviderOpenRouter, factory.ProviderOpenAI, factory.ProviderChutes:
		default:
			return nil, serverutils.NewValidationError("Unknown provider: " + *req.Provider)
		}
	}

	settings, err := s.settingsRepository.Update(ctx, func(settings *entity.Settings) error {
		if req.Model != nil {
			settings.Model = *req.Model
		}
		if req.Endpoint != nil {
			settings.Endpoint = *req.Endpoint
		}
		if req.Temperature != nil {
			settings.Temperature = *req.Temperature
		}
		if req.MinP != nil {
			settings.MinP = *req.MinP
		}
		if req.PresencePenalty != nil {
			settings.PresencePenalty = *req.PresencePenalty
		}
		if req.RepetitionPenalty != nil {
			settings.RepetitionPenalty = *req.RepetitionPenalty
		}
		if req.MaxTokens != nil {
			settings.MaxTokens = *req.MaxTokens
		}
		if req.Provider != nil {
			settings.Provider = *req.Provider
		}
		if req.CustomKey != nil {
			settings.CustomKey = *req.CustomKey
		}
		if req.OpenAIBaseURL != nil {
			settings.OpenAIBaseURL = *req.OpenAIBaseURL
		}
		if req.EmbeddingsSearch != nil {
			settings.EmbeddingsSearch = *req.EmbeddingsSearch
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("settings", "Settings updated", nil)
	return toSettingsResponse(settings), nil
}

func (s *settingsService) SetToken(ctx context.Context, req *dto.SetTokenRequest) error {
	if strings.TrimSpace(req.Token) == "" {
		return serverutils.NewValidationError("No token provided")
	}

	_, err := s.settingsRepository.Update(ctx, func(settings *entity.Settings) error {
		settings.Token = req.Token
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("settings", "Token updated", nil)
	return nil
}

func toSettingsResponse(settings *entity.Settings) *dto.SettingsResponse {
	return &dto.SettingsResponse{
		Model:             settings.Model,
		Endpoint:          settings.Endpoint,
		Temperature:       settings.Temperature,
		MinP:              settings.MinP,
		PresencePenalty:   settings.PresencePenalty,
		RepetitionPenalty: settings.RepetitionPenalty,
		MaxTokens:         settings.MaxTokens,
		Provider:          settings.Provider,
		OpenAIBaseURL:     settings.OpenAIBaseURL,
		EmbeddingsSearch:  settings.EmbeddingsSearch,
		CurrentDocument:   settings.CurrentDocument,
		TokenSet:          settings.APIKey() != "",
	}
}
