package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"
	"go.uber.org/zap"

	"github.com/aieng/conversations-api/internal/config"
	"github.com/aieng/conversations-api/internal/database"
	"github.com/aieng/conversations-api/internal/handlers"
	"github.com/aieng/conversations-api/internal/logger"
	"github.com/aieng/conversations-api/internal/middleware"
	"github.com/aieng/conversations-api/internal/services"
	"github.com/aieng/conversations-api/internal/services/llm"
	"github.com/aieng/conversations-api/internal/telemetry"
)

func main() {
	debugFlag := flag.Bool("debug", false, "Enable debug logging")
	envFile := flag.String("env-file", "", "Path to an optional .env file")
	flag.Parse()

	cfg, err := config.Load(*envFile)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	debugMode := cfg.DebugMode || *debugFlag

	zapLogger, err := logger.NewProductionLogger(debugMode)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() {
		_ = zapLogger.Sync()
	}()

	zapLogger.Info("starting_server",
		zap.Bool("debug_mode", debugMode),
		zap.String("server_port", cfg.ServerPort),
		zap.String("default_provider", cfg.LLMDefaultProvider),
		zap.String("ollama_base_url", cfg.OllamaBaseURL),
		zap.Bool("otel_enabled", cfg.OTELEnabled),
	)

	// Initialize OpenTelemetry if enabled
	if cfg.OTELEnabled {
		if cfg.OTELEndpoint == "" {
			zapLogger.Warn("otel_enabled_but_endpoint_not_configured")
		} else {
			tp, err := telemetry.InitTracer(context.Background(), cfg.ServiceName, cfg.OTELEndpoint)
			if err != nil {
				zapLogger.Warn("failed_to_initialize_otel_tracer", zap.Error(err))
			} else {
				zapLogger.Info("otel_tracer_initialized", zap.String("endpoint", cfg.OTELEndpoint))
				defer func() {
					shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
					defer shutdownCancel()
					if err := tp.Shutdown(shutdownCtx); err != nil {
						zapLogger.Error("failed_to_shutdown_otel_tracer", zap.Error(err))
					}
				}()
			}
		}
	}

	// Connect to database
	db, err := database.New(cfg.DatabaseURL())
	if err != nil {
		zapLogger.Fatal("failed_to_connect_to_database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			zapLogger.Warn("failed_to_close_database_connection", zap.Error(err))
		}
	}()
	zapLogger.Info("connected_to_database")

	// Register LLM providers
	registry := llm.NewRegistry()
	registry.Register("ollama", llm.NewOllamaProvider(cfg.OllamaBaseURL, cfg.OllamaDefaultModel, cfg.OllamaTimeout))
	defaultModels := map[string]string{"ollama": cfg.OllamaDefaultModel}
	if cfg.OpenAIKey != "" {
		registry.Register("openai", llm.NewOpenAIProvider(cfg.OpenAIKey, cfg.OpenAIBaseURL, cfg.OpenAIDefaultModel, cfg.OllamaTimeout))
		defaultModels["openai"] = cfg.OpenAIDefaultModel
		zapLogger.Info("registered_openai_provider")
	}

	// Startup readiness check: the configured default provider must be
	// reachable and must already serve its default model, otherwise the
	// first conversation request would be the one to discover the outage.
	if cfg.OllamaStartupCheck {
		name := strings.ToLower(cfg.LLMDefaultProvider)
		checkCtx, checkCancel := context.WithTimeout(context.Background(), cfg.OllamaTimeout)
		available, err := checkDefaultProvider(checkCtx, registry, name, defaultModels[name])
		checkCancel()
		if err != nil {
			zapLogger.Fatal("llm_default_provider_not_ready",
				zap.String("provider", cfg.LLMDefaultProvider),
				zap.Strings("available_models", available),
				zap.Error(err),
			)
		}
		zapLogger.Info("llm_default_provider_ready",
			zap.String("provider", cfg.LLMDefaultProvider),
			zap.String("model", defaultModels[name]),
			zap.Int("available_models", len(available)),
		)
	}

	// Initialize services
	userService := services.NewUserService(db)
	modelVersionService := services.NewModelVersionService(db)
	conversationService := services.NewConversationService(db, registry)

	// Initialize handlers
	userHandler := handlers.NewUserHandler(userService, zapLogger)
	modelVersionHandler := handlers.NewModelVersionHandler(modelVersionService, zapLogger)
	conversationHandler := handlers.NewConversationHandler(conversationService, zapLogger)
	healthHandler := handlers.NewHealthHandler(db, zapLogger)

	// Setup router
	r := mux.NewRouter()

	if cfg.OTELEnabled {
		r.Use(otelmux.Middleware(cfg.ServiceName))
	}
	r.Use(middleware.MaxRequestSize(middleware.DefaultMaxRequestSize))
	r.Use(middleware.ContentType)
	r.Use(middleware.Timeout(cfg.OllamaTimeout + 15*time.Second))
	r.Use(middleware.Recover(zapLogger))
	r.Use(middleware.Logging(zapLogger))

	r.HandleFunc("/health", healthCheck).Methods("GET")
	healthHandler.RegisterRoutes(r)

	openAPIHandler := handlers.NewOpenAPIHandler(filepath.Join("api", "openapi", "openapi.yaml"))
	openAPIHandler.RegisterRoutes(r)

	userHandler.RegisterRoutes(r.PathPrefix("/users").Subrouter())
	modelVersionHandler.RegisterRoutes(r.PathPrefix("/model-versions").Subrouter())
	conversationHandler.RegisterRoutes(r.PathPrefix("/conversations").Subrouter())

	corsHandler := cors.New(cors.Options{
		AllowedOrigins: []string{cfg.CORSAllowedOrigin},
		AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
	})

	srv := &http.Server{
		Addr:           ":" + cfg.ServerPort,
		Handler:        corsHandler.Handler(r),
		ReadTimeout:    15 * time.Second,
		WriteTimeout:   cfg.OllamaTimeout + 30*time.Second,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	go func() {
		zapLogger.Info("server_starting", zap.String("port", cfg.ServerPort))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLogger.Fatal("server_failed_to_start", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zapLogger.Info("server_shutting_down")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		zapLogger.Fatal("server_forced_to_shutdown", zap.Error(err))
	}

	zapLogger.Info("server_exited")
}

// checkDefaultProvider verifies the named provider is registered, reachable,
// and already serves the given model. Returns whatever models the provider
// reported so the failure log can show them.
func checkDefaultProvider(ctx context.Context, registry *llm.Registry, name, model string) ([]string, error) {
	provider, err := registry.Get(name)
	if err != nil {
		return nil, err
	}

	available, err := provider.ListModels(ctx)
	if err != nil {
		return nil, err
	}
	if !containsModel(available, model) {
		return available, fmt.Errorf("default model %q not available", model)
	}
	return available, nil
}

func containsModel(names []string, model string) bool {
	for _, name := range names {
		if name == model {
			return true
		}
	}
	return false
}

func healthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprintf(w, `{"status":"healthy","timestamp":"%s"}`, time.Now().UTC().Format(time.RFC3339))
}
