package weather

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"
)

// Service orchestrates fetching forecasts and persisting snapshots.
type Service struct {
	store   Store
	fetcher Fetcher
	maxAge  time.Duration
	clock   Clock
}

// NewService creates a new Service. Stored snapshots younger than maxAge are
// served without fetching; maxAge <= 0 always fetches.
func NewService(store Store, fetcher Fetcher, maxAge time.Duration, clock Clock) *Service {
	if clock == nil {
		clock = SystemClock
	}
	return &Service{
		store:   store,
		fetcher: fetcher,
		maxAge:  maxAge,
		clock:   clock,
	}
}

// FetchAndStore fetches the forecast for place and stores a snapshot.
func (s *Service) FetchAndStore(ctx context.Context, place Place) (Snapshot, error) {
	if s.fetcher == nil {
		log.Printf("ERROR: No fetcher configured to fetch forecast for %s", place.Key())
		return Snapshot{}, fmt.Errorf("no forecast fetcher configured")
	}

	log.Printf("DEBUG: FetchAndStore called for %s via %s", place.Key(), s.fetcher.Name())
	f, err := s.fetcher.PointForecast(ctx, place)
	if err != nil {
		return Snapshot{}, fmt.Errorf("fetch %s: %w", place.Key(), err)
	}

	snap := Snapshot{Place: place, FetchedAt: s.clock.Now().UTC(), Forecast: f}
	s.store.SaveSnapshot(place, snap)
	// The store may assign an id; read it back.
	if latest, err := s.store.GetLatest(place); err == nil {
		snap = latest
	}
	return snap, nil
}

// RefreshAll fetches all places concurrently. Failures are logged and
// joined; successful places are stored regardless.
func (s *Service) RefreshAll(ctx context.Context, places []Place) error {
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
	)

	for _, p := range places {
		wg.Add(1)
		go func(p Place) {
			defer wg.Done()

			if _, err := s.FetchAndStore(ctx, p); err != nil {
				// Log and continue; we want partial success when possible.
				log.Printf("refresh failed for %s: %v", p.Key(), err)
				mu.Lock()
				errs = append(errs, err)
				mu.Unlock()
			}
		}(p)
	}

	wg.Wait()
	return errors.Join(errs...)
}

// Forecast returns the latest stored forecast for place when it is fresh
// enough, fetching a new one otherwise.
func (s *Service) Forecast(ctx context.Context, place Place) (Snapshot, error) {
	latest, err := s.store.GetLatest(place)
	if err == nil && s.maxAge > 0 && s.clock.Now().Sub(latest.FetchedAt) < s.maxAge {
		return latest, nil
	}
	return s.FetchAndStore(ctx, place)
}

// GetLatest delegates to the underlying store.
func (s *Service) GetLatest(place Place) (Snapshot, error) {
	return s.store.GetLatest(place)
}

// GetRange delegates to the underlying store.
func (s *Service) GetRange(place Place, from, to time.Time) ([]Snapshot, error) {
	return s.store.GetRange(place, from, to)
}
