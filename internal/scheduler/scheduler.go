package scheduler

import (
	"context"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/MrCroatia/weatherapp/internal/logger"
	"github.com/MrCroatia/weatherapp/internal/store"
)

// Refresher is the part of the store the scheduler drives.
type Refresher interface {
	State() store.State
	GetWeatherForCoordinates(ctx context.Context, lat, lon float64, name string)
}

// Scheduler periodically reloads weather for the current location.
type Scheduler struct {
	scheduler *gocron.Scheduler
	target    Refresher
	interval  time.Duration
}

// New creates a new Scheduler. An interval of zero disables it.
func New(interval time.Duration, target Refresher) *Scheduler {
	s := gocron.NewScheduler(time.UTC)
	return &Scheduler{
		scheduler: s,
		target:    target,
		interval:  interval,
	}
}

// Start schedules the refresh job and starts the underlying scheduler.
func (s *Scheduler) Start() error {
	if s.interval <= 0 {
		logger.Infof("scheduler: refresh disabled")
		return nil
	}

	_, err := s.scheduler.Every(s.interval).WaitForSchedule().Do(s.Refresh)
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	logger.Infof("scheduler: refreshing current location every %s", s.interval)
	return nil
}

// Refresh reloads the current location, keeping its name. It does nothing
// before a location has been chosen.
func (s *Scheduler) Refresh() {
	st := s.target.State()
	if st.CurrentLocation == nil {
		logger.Debugf("scheduler: no current location; skipping refresh")
		return
	}
	loc := *st.CurrentLocation

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	logger.Debugf("scheduler: refreshing %.4f,%.4f", loc.Lat, loc.Lon)
	s.target.GetWeatherForCoordinates(ctx, loc.Lat, loc.Lon, loc.Name)
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
