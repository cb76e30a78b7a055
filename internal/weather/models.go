package weather

import (
	"fmt"
	"strconv"
)

// Section is a named category of weather data in a response.
type Section string

const (
	SectionCurrent    Section = "current"
	SectionMinutely   Section = "minutely"
	SectionHourly     Section = "hourly"
	SectionDaily      Section = "daily"
	SectionAlerts     Section = "alerts"
	SectionData       Section = "data"
	SectionStatistics Section = "statistics"
)

// TemporalKey returns the member a section's timesteps are indexed by.
func (s Section) TemporalKey() string {
	switch s {
	case SectionDaily, SectionStatistics:
		return KeyDay
	case SectionAlerts:
		return KeyOnset
	default:
		return KeyDate
	}
}

// ParseSection validates a section name.
func ParseSection(name string) (Section, error) {
	switch s := Section(name); s {
	case SectionCurrent, SectionMinutely, SectionHourly, SectionDaily,
		SectionAlerts, SectionData, SectionStatistics:
		return s, nil
	}
	return "", fmt.Errorf("%w: unknown section %q", ErrAttributeNotFound, name)
}

// Place identifies a forecast point, either by the provider's place id or
// by coordinates.
type Place struct {
	PlaceID string   `json:"place_id,omitempty"`
	Lat     *float64 `json:"lat,omitempty"`
	Lon     *float64 `json:"lon,omitempty"`
}

// Key returns a canonical string key for indexing this place in stores.
func (p Place) Key() string {
	if p.PlaceID != "" {
		return p.PlaceID
	}
	if p.Lat != nil && p.Lon != nil {
		return strconv.FormatFloat(*p.Lat, 'f', 4, 64) + "," + strconv.FormatFloat(*p.Lon, 'f', 4, 64)
	}
	return ""
}
