package weather

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	// Embedded zone database so conversions work on hosts without tzdata.
	_ "time/tzdata"
)

// Canonical temporal keys and their formats.
const (
	KeyDate    = "date"
	KeyDay     = "day"
	KeyOnset   = "onset"
	KeyExpires = "expires"

	LayoutDateTime = "2006-01-02T15:04:05"
	LayoutDay      = "2006-01-02"
)

// Keys whose values are instants written in the payload zone.
var dateTimeKeys = map[string]bool{
	KeyDate:       true,
	"last_update": true,
	"rise":        true,
	"set":         true,
	KeyOnset:      true,
	KeyExpires:    true,
}

// zones carries the zone the payload is written in and the zone every
// temporal value is converted to.
type zones struct {
	source *time.Location
	target *time.Location
}

// LoadLocation resolves a zone identifier, treating "" as UTC.
func LoadLocation(name string) (*time.Location, error) {
	if name == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("unknown time zone %q: %w", name, err)
	}
	return loc, nil
}

// BuildRecord maps one JSON object onto a Record. Temporal members are read
// in source and expressed in target.
func BuildRecord(obj map[string]any, source, target *time.Location) (*Record, error) {
	return buildRecord(obj, zones{source: source, target: target})
}

func buildRecord(obj map[string]any, z zones) (*Record, error) {
	members := make(map[string]Value, len(obj))
	for key, raw := range obj {
		v, err := buildValue(key, raw, z)
		if err != nil {
			return nil, err
		}
		members[key] = v
	}
	rec := newRecord(members)
	rec.source = z.source
	return rec, nil
}

func buildValue(key string, raw any, z zones) (Value, error) {
	switch x := raw.(type) {
	case map[string]any:
		nested, err := buildRecord(x, z)
		if err != nil {
			return Value{}, fmt.Errorf("%s: %w", key, err)
		}
		return RecordValue(nested), nil
	case []any:
		items := make([]Value, len(x))
		for i, e := range x {
			v, err := buildValue(key, e, z)
			if err != nil {
				return Value{}, err
			}
			items[i] = v
		}
		return ListValue(items), nil
	case string:
		switch {
		case dateTimeKeys[key]:
			t, err := parseDateTime(x, z)
			if err != nil {
				return Value{}, fmt.Errorf("%s: %w", key, err)
			}
			return TimeValue(t), nil
		case key == KeyDay:
			d, err := time.Parse(LayoutDay, x)
			if err != nil {
				return Value{}, fmt.Errorf("%s: %w: %q", key, ErrTemporalParse, x)
			}
			return TimeValue(dayStart(d.Year(), d.Month(), d.Day(), z.target)), nil
		}
		return String(x), nil
	default:
		return valueOf(raw)
	}
}

// dayStart returns the first instant of a calendar day in loc. Where a DST
// change skips local midnight, that is the first wall-clock time after the gap.
func dayStart(year int, month time.Month, day int, loc *time.Location) time.Time {
	t := time.Date(year, month, day, 0, 0, 0, 0, loc)
	for t.Day() != day {
		t = t.Add(15 * time.Minute)
	}
	return t
}

func parseDateTime(s string, z zones) (time.Time, error) {
	if t, err := time.ParseInLocation(LayoutDateTime, s, z.source); err == nil {
		return t.In(z.target), nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.In(z.target), nil
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrTemporalParse, s)
}

// decodeObject decodes a top-level response document.
func decodeObject(payload []byte) (map[string]any, error) {
	var raw map[string]any
	if err := json.Unmarshal(payload, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	if raw == nil {
		return nil, fmt.Errorf("%w: document is null", ErrInvalidPayload)
	}
	return raw, nil
}

// sectionItems accepts either a plain array of timesteps or an object of the
// form {"summary": ..., "data": [...]}.
func sectionItems(raw any) (items []map[string]any, summary string, err error) {
	var list []any
	switch x := raw.(type) {
	case nil:
		return nil, "", nil
	case []any:
		list = x
	case map[string]any:
		if s, ok := x["summary"].(string); ok {
			summary = s
		}
		switch data := x["data"].(type) {
		case nil:
		case []any:
			list = data
		default:
			return nil, "", fmt.Errorf("%w: section data is %T", ErrInvalidPayload, data)
		}
	default:
		return nil, "", fmt.Errorf("%w: section is %T", ErrInvalidPayload, raw)
	}

	items = make([]map[string]any, 0, len(list))
	for i, e := range list {
		obj, ok := e.(map[string]any)
		if !ok {
			return nil, "", fmt.Errorf("%w: timestep %d is %T", ErrInvalidPayload, i, e)
		}
		items = append(items, obj)
	}
	return items, summary, nil
}

// parseCoordinate reads numbers as well as the "51.50853N" / "0.12574W" notation.
func parseCoordinate(raw any, positive, negative byte) (float64, error) {
	switch x := raw.(type) {
	case float64:
		return x, nil
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return 0, fmt.Errorf("%w: empty coordinate", ErrInvalidPayload)
		}
		sign := 1.0
		switch s[len(s)-1] {
		case positive:
			s = s[:len(s)-1]
		case negative:
			s, sign = s[:len(s)-1], -1
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: coordinate %q", ErrInvalidPayload, x)
		}
		return sign * f, nil
	default:
		return 0, fmt.Errorf("%w: coordinate is %T", ErrInvalidPayload, raw)
	}
}
