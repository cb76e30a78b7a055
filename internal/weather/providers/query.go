package providers

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/i474232898/meteosource-go/internal/weather"
)

var validate = validator.New()

var (
	// ErrInvalidArgument is returned when a place is given both or neither as place_id and lat+lon.
	ErrInvalidArgument = errors.New("only place_id or lat+lon can be specified")
	// ErrInvalidDateFormat is returned for dates not written as YYYY-MM-DD.
	ErrInvalidDateFormat = errors.New("invalid date")
	// ErrInvalidDateSpecification is returned unless exactly one of dates or a from/to range is given.
	ErrInvalidDateSpecification = errors.New(`specify either "date" or "date_from" and "date_to"`)
	// ErrInvalidDateRange is returned when date_from is not before date_to.
	ErrInvalidDateRange = errors.New(`"date_from" is not smaller than "date_to"`)
	// ErrInvalidQuery wraps validation failures of query fields.
	ErrInvalidQuery = errors.New("invalid query")
)

// Sections accepted by the point endpoint.
const (
	SectionsAll = "all"
)

// Tiers of the Meteosource API.
const (
	TierFlexi    = "flexi"
	TierStandard = "standard"
	TierStartup  = "startup"
	TierFree     = "free"
)

// PointQuery describes a point forecast request.
type PointQuery struct {
	PlaceID  string   `validate:"omitempty,max=128"`
	Lat      *float64 `validate:"omitempty,gte=-90,lte=90"`
	Lon      *float64 `validate:"omitempty,gte=-180,lte=180"`
	Sections []string `validate:"omitempty,dive,oneof=all current minutely hourly daily alerts"`
	// Timezone the returned times are expressed in; "" means UTC.
	Timezone string `validate:"omitempty,timezone"`
	Language string `validate:"omitempty,oneof=en es fr de pl cs"`
	Units    string `validate:"omitempty,oneof=auto metric us uk ca"`
}

// TimeMachineQuery describes a historical request: either a list of Dates
// or an inclusive DateFrom..DateTo range, all in YYYY-MM-DD.
type TimeMachineQuery struct {
	PlaceID  string   `validate:"omitempty,max=128"`
	Lat      *float64 `validate:"omitempty,gte=-90,lte=90"`
	Lon      *float64 `validate:"omitempty,gte=-180,lte=180"`
	Dates    []string
	DateFrom string
	DateTo   string
	Timezone string `validate:"omitempty,timezone"`
	Units    string `validate:"omitempty,oneof=auto metric us uk ca"`
}

// QueryFromPlace builds a point query for a stored place.
func QueryFromPlace(p weather.Place) PointQuery {
	return PointQuery{PlaceID: p.PlaceID, Lat: p.Lat, Lon: p.Lon}
}

// Validate checks the query fields.
func (q PointQuery) Validate() error {
	if err := checkPlace(q.PlaceID, q.Lat, q.Lon); err != nil {
		return err
	}
	if err := validate.Struct(q); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidQuery, err)
	}
	return nil
}

func (q PointQuery) params() url.Values {
	values := placeParams(q.PlaceID, q.Lat, q.Lon)
	sections := q.Sections
	if len(sections) == 0 {
		sections = []string{SectionsAll}
	}
	values.Set("sections", strings.Join(sections, ","))
	if q.Language != "" {
		values.Set("language", q.Language)
	}
	if q.Units != "" {
		values.Set("units", q.Units)
	}
	// Daily aggregates follow the requested zone, so ask for it upstream.
	values.Set("timezone", apiTimezone(q.Timezone))
	return values
}

// Validate checks the query fields and the date specification.
func (q TimeMachineQuery) Validate() error {
	if err := checkPlace(q.PlaceID, q.Lat, q.Lon); err != nil {
		return err
	}
	if err := validate.Struct(q); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidQuery, err)
	}
	_, err := q.ResolveDates()
	return err
}

// ResolveDates expands the query into the list of days to request, in
// request order.
func (q TimeMachineQuery) ResolveDates() ([]string, error) {
	hasRange := q.DateFrom != "" || q.DateTo != ""
	if (len(q.Dates) > 0) == hasRange {
		return nil, ErrInvalidDateSpecification
	}

	if len(q.Dates) > 0 {
		out := make([]string, 0, len(q.Dates))
		for _, d := range q.Dates {
			t, err := parseDate(d)
			if err != nil {
				return nil, err
			}
			out = append(out, t.Format(weather.LayoutDay))
		}
		return out, nil
	}

	if q.DateFrom == "" || q.DateTo == "" {
		return nil, ErrInvalidDateSpecification
	}
	from, err := parseDate(q.DateFrom)
	if err != nil {
		return nil, err
	}
	to, err := parseDate(q.DateTo)
	if err != nil {
		return nil, err
	}
	if !from.Before(to) {
		return nil, fmt.Errorf("%w: %s >= %s", ErrInvalidDateRange, q.DateFrom, q.DateTo)
	}

	var out []string
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		out = append(out, d.Format(weather.LayoutDay))
	}
	return out, nil
}

func (q TimeMachineQuery) params(date string) url.Values {
	values := placeParams(q.PlaceID, q.Lat, q.Lon)
	values.Set("date", date)
	if q.Units != "" {
		values.Set("units", q.Units)
	}
	values.Set("timezone", apiTimezone(q.Timezone))
	return values
}

func apiTimezone(tz string) string {
	if tz == "" {
		return "UTC"
	}
	return tz
}

func parseDate(s string) (time.Time, error) {
	t, err := time.Parse(weather.LayoutDay, s)
	if err != nil {
		return time.Time{}, fmt.Errorf(`%w %q, should be "YYYY-MM-DD"`, ErrInvalidDateFormat, s)
	}
	return t, nil
}

func checkPlace(placeID string, lat, lon *float64) error {
	if placeID == "" {
		if lat == nil || lon == nil {
			return ErrInvalidArgument
		}
		return nil
	}
	if lat != nil || lon != nil {
		return ErrInvalidArgument
	}
	return nil
}

func placeParams(placeID string, lat, lon *float64) url.Values {
	values := url.Values{}
	if placeID != "" {
		values.Set("place_id", placeID)
		return values
	}
	values.Set("lat", strconv.FormatFloat(*lat, 'f', -1, 64))
	values.Set("lon", strconv.FormatFloat(*lon, 'f', -1, 64))
	return values
}
