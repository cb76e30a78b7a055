package scheduler

import (
	"context"
	"log"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/i474232898/meteosource-go/internal/weather"
)

// Refresher is the part of weather.Service the scheduler drives.
type Refresher interface {
	RefreshAll(ctx context.Context, places []weather.Place) error
}

// Scheduler periodically refreshes forecasts for configured places.
type Scheduler struct {
	scheduler *gocron.Scheduler
	service   Refresher
	places    []weather.Place
	interval  time.Duration
	timeout   time.Duration
}

// New creates a new Scheduler.
func New(places []weather.Place, interval time.Duration, service Refresher) *Scheduler {
	s := gocron.NewScheduler(time.UTC)
	return &Scheduler{
		scheduler: s,
		service:   service,
		places:    places,
		interval:  interval,
		timeout:   30 * time.Second,
	}
}

// Start schedules the periodic job and starts the underlying scheduler.
// The first run happens immediately.
func (s *Scheduler) Start() error {
	if len(s.places) == 0 {
		log.Println("scheduler: no places configured; nothing to schedule")
		return nil
	}

	minutes := int(s.interval.Minutes())
	if minutes <= 0 {
		minutes = 30
	}

	_, err := s.scheduler.Every(minutes).Minutes().Do(s.run)
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

func (s *Scheduler) run() {
	log.Println("scheduler: running forecast refresh job")

	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	if err := s.service.RefreshAll(ctx, s.places); err != nil {
		log.Printf("scheduler: refresh finished with errors: %v", err)
		return
	}
	log.Println("scheduler: completed forecast refresh job")
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
