package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/rinkhq/pickup-admin/internal/admin"
	"github.com/rinkhq/pickup-admin/internal/api/handler"
	"github.com/rinkhq/pickup-admin/internal/api/middleware"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger *slog.Logger
	Facade *admin.Facade
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	// Create handlers
	gameHandler := handler.NewGameHandler(cfg.Facade)
	passHandler := handler.NewPassHandler(cfg.Facade)
	cityHandler := handler.NewCityHandler(cfg.Facade)
	userHandler := handler.NewUserHandler(cfg.Facade)

	// API subrouter with common middleware
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(middleware.Recovery(cfg.Logger))
	api.Use(middleware.Logging(cfg.Logger))

	// Game and roster routes
	api.HandleFunc("/games", gameHandler.List).Methods(http.MethodGet)
	api.HandleFunc("/games/{id}", gameHandler.Get).Methods(http.MethodGet)
	api.HandleFunc("/games/{id}/waitlist/{uid}/promote", gameHandler.PromoteFromWaitlist).Methods(http.MethodPost)
	api.HandleFunc("/games/{id}/roster/{uid}", gameHandler.RemovePlayer).Methods(http.MethodDelete)
	api.HandleFunc("/games/{id}/roster/move", gameHandler.MovePlayer).Methods(http.MethodPost)
	api.HandleFunc("/games/{id}/teams", gameHandler.AssignTeams).Methods(http.MethodPut)
	api.HandleFunc("/games/{id}/complete", gameHandler.Complete).Methods(http.MethodPost)

	// User routes
	api.HandleFunc("/users", userHandler.List).Methods(http.MethodGet)
	api.HandleFunc("/users", userHandler.Register).Methods(http.MethodPost)
	api.HandleFunc("/users/{uid}", userHandler.Get).Methods(http.MethodGet)
	api.HandleFunc("/users/{uid}", userHandler.UpdateProfile).Methods(http.MethodPatch)
	api.HandleFunc("/users/{uid}/admin", userHandler.SetAdmin).Methods(http.MethodPut)
	api.HandleFunc("/users/{uid}/regulars/{key}", userHandler.SetRegular).Methods(http.MethodPut)

	// Pass ledger routes
	api.HandleFunc("/users/{uid}/passes", passHandler.List).Methods(http.MethodGet)
	api.HandleFunc("/users/{uid}/passes", passHandler.Add).Methods(http.MethodPost)
	api.HandleFunc("/users/{uid}/passes/migrate", passHandler.Migrate).Methods(http.MethodPost)
	api.HandleFunc("/users/{uid}/passes/{pass_id}", passHandler.Update).Methods(http.MethodPut)
	api.HandleFunc("/users/{uid}/passes/{pass_id}", passHandler.Remove).Methods(http.MethodDelete)

	// City routes
	api.HandleFunc("/cities", cityHandler.List).Methods(http.MethodGet)
	api.HandleFunc("/cities", cityHandler.Create).Methods(http.MethodPost)
	api.HandleFunc("/cities/{id}", cityHandler.Get).Methods(http.MethodGet)
	api.HandleFunc("/cities/{id}", cityHandler.Update).Methods(http.MethodPut)
	api.HandleFunc("/cities/{id}/active", cityHandler.SetActive).Methods(http.MethodPut)
	api.HandleFunc("/cities/{id}", cityHandler.Delete).Methods(http.MethodDelete)

	// Health check endpoint
	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
