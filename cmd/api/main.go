package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/seren-labs/attune/internal/adapters/cache"
	"github.com/seren-labs/attune/internal/adapters/database"
	"github.com/seren-labs/attune/internal/adapters/events"
	"github.com/seren-labs/attune/internal/adapters/providers/automation"
	"github.com/seren-labs/attune/internal/adapters/providers/devices"
	"github.com/seren-labs/attune/internal/api/handlers"
	"github.com/seren-labs/attune/internal/api/routes"
	"github.com/seren-labs/attune/internal/application/services"
	"github.com/seren-labs/attune/internal/infrastructure/clients/openai"
	"github.com/seren-labs/attune/internal/infrastructure/clients/postgres"
	"github.com/seren-labs/attune/internal/infrastructure/clients/redis"
	"github.com/seren-labs/attune/internal/infrastructure/observability"
	"github.com/seren-labs/attune/pkg/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	observability.InitLogger(cfg.OTEL.ServiceName, cfg.Env)
	logger := observability.GetLogger()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize OpenTelemetry if enabled
	if cfg.OTEL.Enabled && cfg.OTEL.Endpoint != "" {
		shutdown, err := observability.Setup(
			ctx,
			cfg.OTEL.ServiceName,
			cfg.OTEL.ServiceVersion,
			cfg.OTEL.Endpoint,
		)
		if err != nil {
			logger.Warn().Err(err).Msg("Failed to set up OpenTelemetry")
		} else {
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := shutdown(ctx); err != nil {
					logger.Error().Err(err).Msg("Error shutting down OpenTelemetry")
				}
			}()
			logger.Info().Msg("OpenTelemetry initialized")
		}
	}

	metrics, err := observability.InitMetrics()
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize metrics")
	}

	// Postgres backs check-ins, suggestions, executions and contacts.
	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize PostgreSQL client")
	}
	defer pgClient.Close()
	logger.Info().Msg("PostgreSQL client initialized")

	// Redis backs both the inventory cache and the execution status
	// stream, so it is required.
	redisClient, err := redis.NewClient(&cfg.Redis)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize Redis client")
	}
	defer redisClient.Close()
	logger.Info().Msg("Redis client initialized")

	// Adapters
	checkInRepo := database.NewCheckInAdapter(pgClient)
	suggestionRepo := database.NewSuggestionAdapter(pgClient)
	executionRepo := database.NewExecutionAdapter(pgClient)
	contactRepo := database.NewContactAdapter(pgClient)

	cacheProvider := cache.NewRedisAdapter(redisClient)
	eventBus := events.NewRedisEventBus(redisClient)

	inventory := devices.NewCachedAdapter(
		devices.NewDeviceInventoryProvider(cfg.Hub),
		cacheProvider,
		metrics,
	)
	engine := automation.NewAutomationEngine(cfg.Hub)
	logger.Info().Str("provider", cfg.Hub.Provider).Msg("Hub providers initialized")

	// Core services
	classifier := services.NewEmotionClassifier()
	aggregator := services.NewCapabilityAggregator()
	deviceGen := services.NewDeviceAwareGenerator()
	templateGen := services.NewTemplateGenerator(contactRepo)

	var aiGen *services.AIGenerator
	if cfg.OpenAI.APIKey == "" {
		logger.Warn().Msg("OPENAI_API_KEY is not set; AI suggestions disabled")
	} else {
		openaiClient, err := openai.NewClient(&cfg.OpenAI)
		if err != nil {
			logger.Warn().Err(err).Msg("Failed to initialize OpenAI client")
		} else {
			aiGen = services.NewAIGenerator(openaiClient, contactRepo)
		}
	}

	checkInService := services.NewCheckInService(checkInRepo, classifier)
	suggestionService := services.NewSuggestionService(
		suggestionRepo,
		inventory,
		classifier,
		aggregator,
		deviceGen,
		aiGen,
		templateGen,
		metrics,
		cfg.Hub.StructureID,
	)
	effects := services.NewEffectScheduler(engine)
	automationService := services.NewAutomationService(
		suggestionRepo,
		executionRepo,
		inventory,
		engine,
		eventBus,
		aggregator,
		effects,
		metrics,
		cfg.Hub.StructureID,
	)

	// Handlers
	checkInHandler := handlers.NewCheckInHandler(checkInService, suggestionService)
	suggestionHandler := handlers.NewSuggestionHandler(suggestionService, automationService)
	streamHandler := handlers.NewStreamHandler(eventBus)

	router := routes.NewRouter(
		checkInHandler,
		suggestionHandler,
		streamHandler,
		metrics,
		cfg.Server.AllowedOrigins,
	)
	handler := router.SetupRoutes()

	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:        serverAddr,
		Handler:     handler,
		ReadTimeout: 15 * time.Second,
		// Write timeout is generous because the execution status
		// stream holds its connection open.
		WriteTimeout: 0,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().Str("addr", serverAddr).Msg("Server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("Server shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("Error during server shutdown")
	}

	if err := eventBus.Close(); err != nil {
		logger.Error().Err(err).Msg("Error closing event bus")
	}

	logger.Info().Msg("Server stopped")
}
