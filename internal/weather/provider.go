package weather

import (
	"context"
	"time"
)

// Fetcher abstracts the remote source of point forecasts (the Meteosource
// client in production, stubs in tests).
type Fetcher interface {
	Name() string
	PointForecast(ctx context.Context, place Place) (*Forecast, error)
}

// Snapshot is a forecast as it was fetched at a point in time.
type Snapshot struct {
	ID        string    `json:"id"`
	Place     Place     `json:"place"`
	FetchedAt time.Time `json:"fetched_at"` // always UTC
	Forecast  *Forecast `json:"-"`
}

// Store is the contract the in-memory store (and any future persistent store) must satisfy.
type Store interface {
	SaveSnapshot(place Place, snapshot Snapshot)
	GetLatest(place Place) (Snapshot, error)
	GetRange(place Place, from, to time.Time) ([]Snapshot, error)
}
