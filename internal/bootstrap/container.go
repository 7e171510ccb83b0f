package bootstrap

import (
	"context"
	"log"

	"ai-writingpad-be/internal/config"
	"ai-writingpad-be/internal/controller"
	"ai-writingpad-be/internal/pkg/logger"
	"ai-writingpad-be/internal/repository/implementation"
	"ai-writingpad-be/internal/repository/memory"
	"ai-writingpad-be/internal/service"
	"ai-writingpad-be/pkg/embedding"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type Container struct {
	// Controllers
	DocumentController   controller.IDocumentController
	GenerationController controller.IGenerationController
	SettingsController   controller.ISettingsController

	// Background Services (Exposed for main.go to run)
	FlusherService service.IFlusherService

	// Core Facades
	Logger logger.ILogger
}

func NewContainer(cfg *config.Config) *Container {
	// 1. Core Facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")
	embeddingProvider := embedding.NewLocalProvider()

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. Repositories
	documentRepository := implementation.NewDocumentRepository(cfg.Storage.DocumentsDir)
	settingsRepository := implementation.NewSettingsRepository(cfg.Storage.DataDir)
	generationRepository := memory.NewGenerationRepository()

	// 4. Services
	publisherService := service.NewPublisherService(pubSub, cfg.Events.FlushTopic)
	documentService := service.NewDocumentService(
		documentRepository,
		settingsRepository,
		publisherService,
		embeddingProvider,
		sysLogger,
	)
	flusherService := service.NewFlusherService(pubSub, cfg.Events.FlushTopic, documentService, sysLogger)
	generationService := service.NewGenerationService(
		generationRepository,
		settingsRepository,
		documentService,
		service.DefaultProviderFactory,
		service.DefaultNamerFactory,
		sysLogger,
	)
	settingsService := service.NewSettingsService(settingsRepository, sysLogger)

	// Load every indexed document up front so reads never wait on disk.
	if err := documentService.WarmCache(context.Background()); err != nil {
		log.Printf("Warning: failed to warm document cache: %v", err)
	}

	// 5. Controllers
	return &Container{
		DocumentController:   controller.NewDocumentController(documentService),
		GenerationController: controller.NewGenerationController(generationService),
		SettingsController:   controller.NewSettingsController(settingsService),
		FlusherService:       flusherService,
		Logger:               sysLogger,
	}
}
