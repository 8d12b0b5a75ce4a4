// Package refresher periodically re-fetches the last searched city so the
// geocode and icon caches stay warm.
package refresher

import (
	"context"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/imatskiv/cityweather/internal/logger"
	"github.com/imatskiv/cityweather/internal/prefs"
	"github.com/imatskiv/cityweather/internal/weather"
)

// Lookup is the slice of the orchestrator the refresher needs.
type Lookup interface {
	FetchByCityName(ctx context.Context, city string) (weather.DisplayWeather, error)
}

// Refresher runs the periodic refresh job.
type Refresher struct {
	scheduler *gocron.Scheduler
	lookup    Lookup
	prefs     *prefs.Store
	interval  time.Duration
}

// New creates a Refresher.
func New(lookup Lookup, prefs *prefs.Store, interval time.Duration) *Refresher {
	return &Refresher{
		scheduler: gocron.NewScheduler(time.UTC),
		lookup:    lookup,
		prefs:     prefs,
		interval:  interval,
	}
}

// Start schedules the refresh job and starts the underlying scheduler.
func (r *Refresher) Start() error {
	minutes := int(r.interval.Minutes())
	if minutes <= 0 {
		minutes = 15
	}

	_, err := r.scheduler.Every(minutes).Minutes().Do(func() {
		city := r.prefs.LastCity()
		if city == "" {
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if _, err := r.lookup.FetchByCityName(ctx, city); err != nil {
			logger.Errorw("background refresh failed", "city", city, "error", err)
			return
		}
		logger.Debugw("background refresh completed", "city", city)
	})
	if err != nil {
		return err
	}

	r.scheduler.StartAsync()
	return nil
}

// Stop stops the scheduler and cancels any future jobs.
func (r *Refresher) Stop() {
	if r.scheduler != nil {
		r.scheduler.Stop()
	}
}
