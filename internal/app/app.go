package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/viper"

	"relaychat/backend/internal/api"
	"relaychat/backend/internal/config"
	"relaychat/backend/internal/database"
	"relaychat/backend/internal/llm"
	"relaychat/backend/internal/repository"
	"relaychat/backend/internal/service"
)

const shutdownTimeout = 15 * time.Second

// App holds the wired dependencies of the relay server.
type App struct {
	Config   *config.Config
	DB       *sql.DB
	Provider llm.LLMProvider
	Server   *http.Server
}

// NewApp builds every dependency from cfg. DB is nil when no database path
// is configured.
func NewApp(cfg *config.Config) (*App, error) {
	var db *sql.DB
	var repo repository.Repository
	if cfg.DatabasePath != "" {
		var err error
		db, err = database.InitDB(cfg.DatabasePath)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		repo = repository.NewSQLiteRepository(db)
		slog.Info("Successfully connected to SQLite database.", "path", cfg.DatabasePath)
	} else {
		repo = repository.NewNoopRepository()
		slog.Info("No database path configured, relay records will not be kept.")
	}

	provider, err := llm.NewProvider(context.Background(), cfg)
	if err != nil {
		closeDB(db)
		return nil, err
	}
	slog.Info("Bound to model", "provider", provider.Name(), "model", provider.Model())

	chatService := service.NewChatService(repo, provider, cfg.SystemPrompt, cfg.StreamBufferSize)
	modelService := service.NewModelService(provider)
	relayLogService := service.NewRelayLogService(repo)

	router := api.NewRouter(
		api.NewChatHandler(chatService, cfg.StreamBufferSize),
		api.NewModelHandler(modelService),
		api.NewRelayHandler(relayLogService),
		api.RouterOptions{
			AllowedOrigins: cfg.AllowedOrigins(),
			FrontendDir:    cfg.FrontendDir,
		},
	)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.AppPort),
		Handler:           router,
		ReadHeaderTimeout: 20 * time.Second,
		WriteTimeout:      0, // Disabled for streaming endpoints
		IdleTimeout:       120 * time.Second,
	}

	return &App{Config: cfg, DB: db, Provider: provider, Server: server}, nil
}

func Run() int {
	cfg, err := config.LoadConfig()
	if err != nil {
		// slog is not yet configured, so use the default logger for this critical error.
		slog.Error("Failed to load configuration", "error", err)
		return 1
	}

	setupLogger(cfg.LogLevel)

	logConfigSource()

	if strings.EqualFold(cfg.Provider, "ollama") {
		if err := waitForOllama(cfg.OllamaURL, cfg.OllamaWaitTimeout); err != nil {
			slog.Error("Ollama did not become ready", "error", err)
			return 1
		}
	}

	application, err := NewApp(cfg)
	if err != nil {
		slog.Error("Failed to initialize application", "error", err)
		return 1
	}
	defer closeDB(application.DB)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return application.Serve(ctx)
}

// Serve runs the HTTP server until ctx is cancelled, then shuts it down
// gracefully. It returns the process exit code.
func (a *App) Serve(ctx context.Context) int {
	errCh := make(chan error, 1)
	go func() {
		slog.Info("Starting server", "addr", a.Server.Addr)
		errCh <- a.Server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed", "error", err)
			return 1
		}
		return 0
	case <-ctx.Done():
	}

	slog.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Graceful shutdown failed", "error", err)
		return 1
	}
	slog.Info("Server stopped.")
	return 0
}

func closeDB(db *sql.DB) {
	if db == nil {
		return
	}
	if err := db.Close(); err != nil {
		slog.Error("Failed to close database connection", "error", err)
	}
}

func logConfigSource() {
	configFileUsed := viper.ConfigFileUsed()
	if configFileUsed != "" {
		slog.Info("Successfully loaded configuration from file.", "file", configFileUsed)
	} else {
		slog.Info("Configuration file not found. Using environment variables and defaults.")
	}
}

func setupLogger(logLevel string) {
	var level slog.Level
	switch strings.ToUpper(logLevel) {
	case "DEBUG":
		level = slog.LevelDebug
	case "WARN":
		level = slog.LevelWarn
	case "ERROR":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)
}

// waitForOllama polls the Ollama root endpoint until it answers 200 or the
// timeout elapses.
func waitForOllama(ollamaURL string, timeout time.Duration) error {
	slog.Info("Waiting for Ollama to be ready...", "timeout", timeout)
	client := &http.Client{Timeout: 2 * time.Second}
	deadline := time.Now().Add(timeout)
	for {
		resp, err := client.Get(ollamaURL)
		if resp != nil {
			if bErr := resp.Body.Close(); bErr != nil {
				slog.Warn("Failed to close response body in ollama health check", "error", bErr)
			}
		}
		if err == nil && resp.StatusCode == http.StatusOK {
			slog.Info("Ollama is ready.")
			return nil
		}
		if time.Now().After(deadline) {
			if err == nil {
				err = fmt.Errorf("unexpected status %d", resp.StatusCode)
			}
			return fmt.Errorf("ollama at %s not ready after %s: %w", ollamaURL, timeout, err)
		}
		slog.Debug("Ollama not ready yet, retrying in 1 second...", "url", ollamaURL, "error", err)
		time.Sleep(time.Second)
	}
}
