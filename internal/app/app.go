// Package app wires configuration, storage, clients, and handlers into one
// application instance.
package app

import (
	"strings"

	"github.com/bobmcallan/stocksage/internal/common"
	"github.com/bobmcallan/stocksage/internal/config"
	"github.com/bobmcallan/stocksage/internal/handlers"
	"github.com/bobmcallan/stocksage/internal/interfaces"
	"github.com/bobmcallan/stocksage/internal/llm"
	"github.com/bobmcallan/stocksage/internal/market"
	"github.com/bobmcallan/stocksage/internal/service"
	"github.com/bobmcallan/stocksage/internal/storage"
)

// App holds all application components and dependencies.
type App struct {
	Config  *config.Config
	Logger  *common.Logger
	Storage interfaces.StorageManager

	StockService *service.StockService

	// HTTP handlers
	StockHandler   *handlers.StockHandler
	HealthHandler  *handlers.HealthHandler
	VersionHandler *handlers.VersionHandler
}

// New initializes the application with all dependencies.
func New(cfg *config.Config, logger *common.Logger) (*App, error) {
	a := &App{
		Config: cfg,
		Logger: logger,
	}

	env := strings.ToLower(strings.TrimSpace(cfg.Environment))
	if cfg.IsDevMode() {
		logger.Warn().Msg("RUNNING IN DEV MODE")
	} else if env != "prod" && env != "" {
		logger.Warn().
			Str("environment", cfg.Environment).
			Msg("unrecognized environment value, defaulting to prod behavior")
	}

	storageManager, err := storage.NewStorageManager(logger, cfg)
	if err != nil {
		return nil, err
	}
	a.Storage = storageManager

	chatClient, err := llm.NewClient(&cfg.Clients.LLM, logger)
	if err != nil {
		a.Storage.Close()
		return nil, err
	}

	marketClient := market.NewClient(&cfg.Clients.Yahoo, logger)
	extractor := llm.NewExtractor(chatClient, logger)
	narrator := llm.NewNarrator(chatClient, logger)

	a.StockService = service.NewStockService(marketClient, extractor, narrator, storageManager, logger)

	a.initHandlers()

	logger.Info().Msg("application initialization complete")

	return a, nil
}

// initHandlers initializes all HTTP handlers.
func (a *App) initHandlers() {
	a.StockHandler = handlers.NewStockHandler(a.StockService, a.Logger)
	a.HealthHandler = handlers.NewHealthHandler(a.Logger)
	a.VersionHandler = handlers.NewVersionHandler(a.Logger)

	a.Logger.Debug().Msg("HTTP handlers initialized")
}

// Close closes all application resources.
func (a *App) Close() error {
	if a.Storage != nil {
		return a.Storage.Close()
	}
	return nil
}
