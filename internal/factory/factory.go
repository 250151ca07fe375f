package factory

import (
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/rinkhq/pickup-admin/internal/admin"
	"github.com/rinkhq/pickup-admin/internal/dependencies/clock"
	"github.com/rinkhq/pickup-admin/internal/dependencies/random"
	"github.com/rinkhq/pickup-admin/internal/model"
	"github.com/rinkhq/pickup-admin/internal/services/cities"
	"github.com/rinkhq/pickup-admin/internal/services/completion"
	"github.com/rinkhq/pickup-admin/internal/services/ledger"
	"github.com/rinkhq/pickup-admin/internal/services/projection"
	"github.com/rinkhq/pickup-admin/internal/services/roster"
	"github.com/rinkhq/pickup-admin/internal/services/users"
	"github.com/rinkhq/pickup-admin/internal/store"
	"github.com/rinkhq/pickup-admin/internal/store/memory"
	redisstore "github.com/rinkhq/pickup-admin/internal/store/redis"
)

// Store type constants
const (
	StoreTypeMemory = "memory"
	StoreTypeRedis  = "redis"
)

// App contains all wired application components
type App struct {
	// Storage
	Store store.Store

	// External dependencies
	Clock  clock.Clock
	Random random.Random

	// Services
	RosterService      *roster.Service
	LedgerService      *ledger.Service
	CompletionWorkflow *completion.Workflow
	CityService        *cities.Service
	UserService        *users.Service
	CityRefresher      *cities.Refresher

	// Facade
	Admin *admin.Facade
}

// Config holds configuration for the application factory
type Config struct {
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StoreType selects the store backend ("memory" or "redis")
	// If empty, defaults to "memory"
	StoreType string
	// RedisConfig holds Redis connection settings (required if StoreType is "redis")
	RedisConfig *redisstore.Config
	// CityRefreshInterval overrides the scheduled city refresh cadence (optional)
	CityRefreshInterval time.Duration
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	// Create store based on type
	var st store.Store
	storeType := cfg.StoreType
	if storeType == "" {
		storeType = StoreTypeMemory
	}

	switch storeType {
	case StoreTypeMemory:
		st = memory.New()
	case StoreTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StoreType is redis")
		}
		redisStore, err := redisstore.New(*cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		st = redisStore
	default:
		return nil, errors.New("invalid StoreType: must be 'memory' or 'redis'")
	}

	// Create external dependencies
	clk := clock.New()
	rnd := random.New()

	refreshInterval := cfg.CityRefreshInterval
	if refreshInterval == 0 {
		refreshInterval = cities.DefaultTTL
	}

	return newWithDependencies(st, clk, rnd, refreshInterval, logger)
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(st store.Store, clk clock.Clock, rnd random.Random, refreshInterval time.Duration, logger *slog.Logger) (*App, error) {
	// Create services
	rosterService := roster.New(st, logger)
	ledgerService := ledger.New(st, clk, rnd, logger)
	completionWorkflow := completion.New(st, clk, ledgerService, logger)
	cityService := cities.New(st, clk, logger)
	userService := users.New(st, clk, logger)
	gameView := projection.New[model.Game](st, model.CollectionGames, logger)

	cityRefresher, err := cities.NewRefresher(cityService, refreshInterval, logger)
	if err != nil {
		return nil, err
	}

	facade := admin.New(rosterService, ledgerService, completionWorkflow, cityService, userService, gameView, logger)

	return &App{
		Store:              st,
		Clock:              clk,
		Random:             rnd,
		RosterService:      rosterService,
		LedgerService:      ledgerService,
		CompletionWorkflow: completionWorkflow,
		CityService:        cityService,
		UserService:        userService,
		CityRefresher:      cityRefresher,
		Admin:              facade,
	}, nil
}
