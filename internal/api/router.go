package api

import (
	"net/http"
	"time"

	// This blank import is required by swaggo to find the API definitions.
	_ "relaychat/backend/docs"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
)

// RouterOptions carries the settings the router needs from configuration.
type RouterOptions struct {
	AllowedOrigins []string
	// FrontendDir is served at / when set.
	FrontendDir string
}

// NewRouter creates and configures a new chi router with all the application's routes.
func NewRouter(chatHandler *ChatHandler, modelHandler *ModelHandler, relayHandler *RelayHandler, opts RouterOptions) *chi.Mux {
	r := chi.NewRouter()

	// --- Global Middleware ---
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(metricsMiddleware)
	r.Use(middleware.Recoverer)

	allowedOrigins := opts.AllowedOrigins
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"X-Request-Id"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// --- Public Routes ---
	r.Get("/api/swagger/*", httpSwagger.WrapHandler)
	r.Handle("/metrics", promhttp.Handler())

	// Liveness check for container orchestration.
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	// The relay holds the connection open for as long as the provider
	// streams, so it must NOT have a timeout.
	r.Post("/api/chat", chatHandler.HandleChat)

	// --- API Version 1 Routes ---
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Timeout(60 * time.Second))

		r.Get("/model", modelHandler.HandleGetModel)

		r.Get("/relays", relayHandler.HandleListRelays)
		r.Get("/relays/{relayID}", relayHandler.HandleGetRelay)
		r.Get("/conversations/{conversationID}/relays", relayHandler.HandleListConversationRelays)
	})

	// --- Frontend File Server ---
	// In production this is usually Nginx; it is handy for local development.
	if opts.FrontendDir != "" {
		fileServer := http.FileServer(http.Dir(opts.FrontendDir))
		r.Handle("/*", http.StripPrefix("/", fileServer))
	}

	return r
}
