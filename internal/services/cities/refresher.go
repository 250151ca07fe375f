package cities

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"
)

// Refresher refreshes the city cache on a fixed interval so a
// long-running server converges on external city edits without waiting
// for a read to age the cache out.
type Refresher struct {
	scheduler gocron.Scheduler
	logger    *slog.Logger
}

// NewRefresher creates a refresher that force-reloads the service's
// city cache every interval
func NewRefresher(service *Service, interval time.Duration, logger *slog.Logger) (*Refresher, error) {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}

	refresherLogger := logger.With(slog.String("component", "city-refresher"))
	_, err = scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func(ctx context.Context) {
			if _, _, err := service.GetCities(ctx, true); err != nil {
				refresherLogger.Warn("scheduled city refresh failed",
					slog.String("error", err.Error()))
			}
		}),
	)
	if err != nil {
		return nil, err
	}

	return &Refresher{scheduler: scheduler, logger: refresherLogger}, nil
}

// Start begins the refresh schedule
func (r *Refresher) Start() {
	r.scheduler.Start()
	r.logger.Info("city refresher started")
}

// Stop shuts the scheduler down, waiting for a running refresh
func (r *Refresher) Stop() error {
	return r.scheduler.Shutdown()
}
