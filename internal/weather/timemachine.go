package weather

import (
	"fmt"
	"time"
)

// TimeMachine holds historical data: hourly timesteps and per-day
// statistics. Responses for several dates are concatenated in request order.
type TimeMachine struct {
	Header
	Data       *Series
	Statistics *Series

	loc *time.Location
}

// ParseTimeMachine builds a TimeMachine from one or more raw documents.
func ParseTimeMachine(tz string, payloads [][]byte, opts ...Option) (*TimeMachine, error) {
	raws := make([]map[string]any, 0, len(payloads))
	for i, p := range payloads {
		raw, err := decodeObject(p)
		if err != nil {
			return nil, fmt.Errorf("payload %d: %w", i, err)
		}
		raws = append(raws, raw)
	}
	return NewTimeMachine(tz, raws, opts...)
}

// NewTimeMachine builds a TimeMachine from decoded documents. The point
// metadata is taken from the first one.
func NewTimeMachine(tz string, raws []map[string]any, opts ...Option) (*TimeMachine, error) {
	if len(raws) == 0 {
		return nil, fmt.Errorf("%w: no time machine documents", ErrInvalidPayload)
	}
	o := buildOptions(opts)

	hdr, z, err := buildHeader(raws[0], tz)
	if err != nil {
		return nil, err
	}
	tm := &TimeMachine{
		Header:     hdr,
		Data:       EmptySeries(SectionData, z.target),
		Statistics: EmptySeries(SectionStatistics, z.target),
		loc:        z.target,
	}
	tm.Data.clock, tm.Statistics.clock = o.clock, o.clock

	for i, raw := range raws {
		// Every document may declare its own payload zone.
		dz := z
		if i > 0 {
			if _, dz, err = buildHeader(raw, tz); err != nil {
				return nil, fmt.Errorf("payload %d: %w", i, err)
			}
		}
		for _, sec := range []struct {
			name Section
			dst  *Series
		}{
			{SectionData, tm.Data},
			{SectionStatistics, tm.Statistics},
		} {
			part, err := newSeries(sec.name, raw[string(sec.name)], dz, o.clock)
			if err != nil {
				return nil, fmt.Errorf("payload %d: %w", i, err)
			}
			sec.dst.records = append(sec.dst.records, part.records...)
			if sec.dst.summary == "" {
				sec.dst.summary = part.summary
			}
		}
	}
	return tm, nil
}

// Location returns the reference zone of the data.
func (tm *TimeMachine) Location() *time.Location { return tm.loc }

func (tm *TimeMachine) Members() []string {
	names := []string{"data", "elevation", "lat", "lon", "statistics", "timezone"}
	if tm.Units != "" {
		names = append(names, "units")
	}
	return names
}

// Get returns an attribute or section by name.
func (tm *TimeMachine) Get(name string) (any, error) {
	switch name {
	case "lat":
		return tm.Lat, nil
	case "lon":
		return tm.Lon, nil
	case "elevation":
		return tm.Elevation, nil
	case "timezone":
		return tm.Timezone, nil
	case "units":
		if tm.Units != "" {
			return tm.Units, nil
		}
	case string(SectionData):
		return tm.Data, nil
	case string(SectionStatistics):
		return tm.Statistics, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrAttributeNotFound, name)
}

// Series returns the data or statistics section.
func (tm *TimeMachine) Series(section Section) (*Series, error) {
	switch section {
	case SectionData:
		return tm.Data, nil
	case SectionStatistics:
		return tm.Statistics, nil
	}
	return nil, fmt.Errorf("%w: time machine has no series %q", ErrAttributeNotFound, section)
}

func (tm *TimeMachine) String() string {
	return fmt.Sprintf("<TimeMachine for lat: %g, lon: %g with %d timesteps>", tm.Lat, tm.Lon, tm.Data.Len())
}
