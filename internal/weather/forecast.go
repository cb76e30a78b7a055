package weather

import (
	"fmt"
	"time"
)

// Option customizes how responses are built.
type Option func(*options)

type options struct {
	clock Clock
}

// WithClock sets the clock used by "now"-relative lookups.
func WithClock(c Clock) Option {
	return func(o *options) { o.clock = c }
}

func buildOptions(opts []Option) options {
	o := options{clock: SystemClock}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Header is the point metadata shared by every response type.
type Header struct {
	Lat       float64
	Lon       float64
	Elevation *float64
	// Timezone is the zone all temporal values are expressed in.
	Timezone string
	Units    string
}

// Forecast is a point forecast. Sections that were not requested are empty
// placeholders, never nil.
type Forecast struct {
	Header
	Current  *Record
	Minutely *Series
	Hourly   *Series
	Daily    *Series
	Alerts   *Alerts

	loc *time.Location
}

// ParseForecast builds a Forecast from a raw response document, converting
// every temporal value into the zone tz ("" means UTC).
func ParseForecast(payload []byte, tz string, opts ...Option) (*Forecast, error) {
	raw, err := decodeObject(payload)
	if err != nil {
		return nil, err
	}
	return NewForecast(raw, tz, opts...)
}

// NewForecast builds a Forecast from a decoded response document.
func NewForecast(raw map[string]any, tz string, opts ...Option) (*Forecast, error) {
	o := buildOptions(opts)
	hdr, z, err := buildHeader(raw, tz)
	if err != nil {
		return nil, err
	}

	f := &Forecast{Header: hdr, loc: z.target, Current: EmptyRecord()}

	if obj, ok := raw[string(SectionCurrent)].(map[string]any); ok {
		if f.Current, err = buildRecord(obj, z); err != nil {
			return nil, fmt.Errorf("%s: %w", SectionCurrent, err)
		}
	} else if v := raw[string(SectionCurrent)]; v != nil {
		return nil, fmt.Errorf("%w: %s is %T", ErrInvalidPayload, SectionCurrent, v)
	}

	for _, sec := range []struct {
		name Section
		dst  **Series
	}{
		{SectionMinutely, &f.Minutely},
		{SectionHourly, &f.Hourly},
		{SectionDaily, &f.Daily},
	} {
		if *sec.dst, err = newSeries(sec.name, raw[string(sec.name)], z, o.clock); err != nil {
			return nil, err
		}
	}

	alerts, err := newSeries(SectionAlerts, raw[string(SectionAlerts)], z, o.clock)
	if err != nil {
		return nil, err
	}
	f.Alerts = &Alerts{Series: alerts}
	return f, nil
}

// Location returns the reference zone of the forecast.
func (f *Forecast) Location() *time.Location { return f.loc }

// Members returns the names of the forecast's attributes and sections.
func (f *Forecast) Members() []string {
	names := []string{"alerts", "current", "daily", "elevation", "hourly", "lat", "lon", "minutely", "timezone"}
	if f.Units != "" {
		names = append(names, "units")
	}
	return names
}

// Get returns an attribute or section by name: a float64, string, *float64,
// *Record, *Series or *Alerts.
func (f *Forecast) Get(name string) (any, error) {
	switch name {
	case "lat":
		return f.Lat, nil
	case "lon":
		return f.Lon, nil
	case "elevation":
		return f.Elevation, nil
	case "timezone":
		return f.Timezone, nil
	case "units":
		if f.Units != "" {
			return f.Units, nil
		}
	case string(SectionCurrent):
		return f.Current, nil
	case string(SectionMinutely):
		return f.Minutely, nil
	case string(SectionHourly):
		return f.Hourly, nil
	case string(SectionDaily):
		return f.Daily, nil
	case string(SectionAlerts):
		return f.Alerts, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrAttributeNotFound, name)
}

// Series returns one of the multi-timestep sections.
func (f *Forecast) Series(section Section) (*Series, error) {
	switch section {
	case SectionMinutely:
		return f.Minutely, nil
	case SectionHourly:
		return f.Hourly, nil
	case SectionDaily:
		return f.Daily, nil
	case SectionAlerts:
		return f.Alerts.Series, nil
	}
	return nil, fmt.Errorf("%w: forecast has no series %q", ErrAttributeNotFound, section)
}

func (f *Forecast) String() string {
	return fmt.Sprintf("<Forecast for lat: %g, lon: %g>", f.Lat, f.Lon)
}

// buildHeader reads the point metadata and resolves the payload and target zones.
func buildHeader(raw map[string]any, tz string) (Header, zones, error) {
	var hdr Header

	target, err := LoadLocation(tz)
	if err != nil {
		return hdr, zones{}, err
	}
	source := time.UTC
	if name, ok := raw["timezone"].(string); ok {
		if source, err = LoadLocation(name); err != nil {
			return hdr, zones{}, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
		}
	}

	if hdr.Lat, err = parseCoordinate(raw["lat"], 'N', 'S'); err != nil {
		return hdr, zones{}, fmt.Errorf("lat: %w", err)
	}
	if hdr.Lon, err = parseCoordinate(raw["lon"], 'E', 'W'); err != nil {
		return hdr, zones{}, fmt.Errorf("lon: %w", err)
	}
	if e, ok := raw["elevation"].(float64); ok {
		hdr.Elevation = &e
	}
	hdr.Units, _ = raw["units"].(string)
	hdr.Timezone = target.String()

	return hdr, zones{source: source, target: target}, nil
}
