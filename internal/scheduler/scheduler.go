package scheduler

import (
	"context"
	"time"

	"github.com/go-co-op/gocron"
	"go.uber.org/zap"

	"github.com/i474232898/flight-weather-insights/internal/config"
	"github.com/i474232898/flight-weather-insights/internal/pipeline"
)

const routeTimeout = 5 * time.Minute

// Runner executes one search run.
type Runner interface {
	Run(ctx context.Context, req pipeline.Request) (*pipeline.Result, error)
}

// Scheduler periodically searches the configured routes.
type Scheduler struct {
	scheduler *gocron.Scheduler
	runner    Runner
	routes    []config.Route
	interval  time.Duration
	leadDays  int
	now       func() time.Time
	log       *zap.SugaredLogger
}

// New creates a new Scheduler. Each run searches a window starting leadDays after today.
func New(routes []config.Route, interval time.Duration, leadDays int, runner Runner, log *zap.SugaredLogger) *Scheduler {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		runner:    runner,
		routes:    routes,
		interval:  interval,
		leadDays:  leadDays,
		now:       time.Now,
		log:       log,
	}
}

// Start schedules the periodic job and starts the underlying scheduler.
func (s *Scheduler) Start() error {
	if len(s.routes) == 0 {
		s.log.Info("scheduler: no routes configured; nothing to schedule")
		return nil
	}

	interval := s.interval
	if interval <= 0 {
		interval = 6 * time.Hour
	}

	_, err := s.scheduler.Every(interval).SingletonMode().Do(func() {
		s.RunOnce(context.Background())
	})
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

// RunOnce searches every route one after another and returns how many runs failed.
func (s *Scheduler) RunOnce(ctx context.Context) int {
	departure := s.now().UTC().AddDate(0, 0, s.leadDays)
	s.log.Infow("scheduler: running route searches", "routes", len(s.routes), "departure", departure.Format("2006-01-02"))

	failed := 0
	for _, route := range s.routes {
		if ctx.Err() != nil {
			return failed
		}

		runCtx, cancel := context.WithTimeout(ctx, routeTimeout)
		res, err := s.runner.Run(runCtx, pipeline.Request{
			Origin:        route.Origin,
			Destination:   route.Destination,
			DepartureDate: departure,
		})
		cancel()

		if err != nil {
			failed++
			s.log.Errorw("scheduler: search failed", "route", route.String(), "error", err)
			continue
		}
		s.log.Infow("scheduler: search completed",
			"route", route.String(),
			"flight_rows", res.Flights.Len(),
			"weather_rows", res.Weather.Len(),
			"warnings", len(res.Warnings))
	}
	return failed
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
