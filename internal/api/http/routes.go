package httpapi

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/meteosource-go/internal/chart"
	"github.com/i474232898/meteosource-go/internal/store"
	"github.com/i474232898/meteosource-go/internal/weather"
	"github.com/i474232898/meteosource-go/internal/weather/providers"
)

var validate = validator.New()

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, service *weather.Service) {
	v1 := app.Group("/api/v1")

	v1.Get("/forecast/current", func(c *fiber.Ctx) error {
		snap, err := loadSnapshot(c, service)
		if err != nil {
			return err
		}

		return c.JSON(fiber.Map{
			"snapshot": snap,
			"current":  snap.Forecast.Current.Table().Maps(),
		})
	})

	v1.Get("/forecast/history", func(c *fiber.Ctx) error {
		var req historyQuery
		if err := req.bind(c); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		place := req.Place.toPlace()
		snapshots, err := service.GetRange(place, req.From, req.To)
		if err != nil {
			return mapError(err)
		}

		return c.JSON(fiber.Map{
			"place":     place,
			"from":      req.From,
			"to":        req.To,
			"snapshots": snapshots,
		})
	})

	v1.Get("/alerts/active", func(c *fiber.Ctx) error {
		snap, err := loadSnapshot(c, service)
		if err != nil {
			return err
		}

		alerts := snap.Forecast.Alerts
		var active []*weather.Record
		if at := c.Query("at"); at != "" {
			if active, err = alerts.ActiveAt(weather.Text(at)); err != nil {
				return mapError(err)
			}
		} else {
			active = alerts.ActiveNow()
		}

		rows := make([]map[string]any, 0, len(active))
		for _, a := range active {
			rows = append(rows, a.Table().Maps()...)
		}
		return c.JSON(fiber.Map{
			"snapshot": snap,
			"alerts":   rows,
		})
	})

	v1.Get("/forecast/:section", func(c *fiber.Ctx) error {
		series, snap, err := loadSeries(c, service)
		if err != nil {
			return err
		}

		if at := c.Query("at"); at != "" {
			rec, err := series.Lookup(weather.ParseIndex(at))
			if err != nil {
				return mapError(err)
			}
			return c.JSON(fiber.Map{
				"snapshot": snap,
				"section":  series.Section(),
				"rows":     rec.Table().Maps(),
			})
		}

		return c.JSON(fiber.Map{
			"snapshot": snap,
			"section":  series.Section(),
			"summary":  series.Summary(),
			"rows":     series.Table().Maps(),
		})
	})

	v1.Get("/forecast/:section/chart", func(c *fiber.Ctx) error {
		series, snap, err := loadSeries(c, service)
		if err != nil {
			return err
		}

		column := c.Query("column")
		if column == "" {
			return fiber.NewError(fiber.StatusBadRequest, "column query parameter is required")
		}

		var buf bytes.Buffer
		title := string(series.Section()) + " " + snap.Place.Key()
		if err := chart.RenderLine(&buf, title, series.Table(), column); err != nil {
			if errors.Is(err, chart.ErrNotNumeric) {
				return fiber.NewError(fiber.StatusBadRequest, err.Error())
			}
			return mapError(err)
		}

		c.Type("html")
		return c.Send(buf.Bytes())
	})
}

func loadSnapshot(c *fiber.Ctx, service *weather.Service) (weather.Snapshot, error) {
	q, err := parsePlaceQuery(c)
	if err != nil {
		return weather.Snapshot{}, fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	snap, err := service.Forecast(c.UserContext(), q.toPlace())
	if err != nil {
		return weather.Snapshot{}, mapError(err)
	}
	return snap, nil
}

func loadSeries(c *fiber.Ctx, service *weather.Service) (*weather.Series, weather.Snapshot, error) {
	section, err := weather.ParseSection(c.Params("section"))
	if err != nil {
		return nil, weather.Snapshot{}, fiber.NewError(fiber.StatusNotFound, err.Error())
	}

	snap, err := loadSnapshot(c, service)
	if err != nil {
		return nil, weather.Snapshot{}, err
	}

	series, err := snap.Forecast.Series(section)
	if err != nil {
		return nil, weather.Snapshot{}, fiber.NewError(fiber.StatusNotFound, err.Error())
	}
	return series, snap, nil
}

// mapError translates domain errors into HTTP errors.
func mapError(err error) error {
	switch {
	case errors.Is(err, weather.ErrTemporalParse),
		errors.Is(err, weather.ErrUnsupportedIndex),
		errors.Is(err, providers.ErrInvalidArgument),
		errors.Is(err, providers.ErrInvalidQuery):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case errors.Is(err, weather.ErrIndexOutOfRange),
		errors.Is(err, weather.ErrTemporalNotFound),
		errors.Is(err, weather.ErrAttributeNotFound),
		errors.Is(err, store.ErrNotFound):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	default:
		return fiber.NewError(fiber.StatusBadGateway, "failed to fetch forecast data")
	}
}

// placeQuery holds query parameters for identifying a place.
type placeQuery struct {
	PlaceID string   `validate:"required_without_all=Lat Lon"`
	Lat     *float64 `validate:"omitempty,gte=-90,lte=90"`
	Lon     *float64 `validate:"omitempty,gte=-180,lte=180"`
}

func (q placeQuery) toPlace() weather.Place {
	return weather.Place{
		PlaceID: q.PlaceID,
		Lat:     q.Lat,
		Lon:     q.Lon,
	}
}

func parsePlaceQuery(c *fiber.Ctx) (placeQuery, error) {
	var q placeQuery

	q.PlaceID = c.Query("place_id")
	for _, f := range []struct {
		name string
		dst  **float64
	}{
		{"lat", &q.Lat},
		{"lon", &q.Lon},
	} {
		raw := c.Query(f.name)
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return q, errors.New("invalid " + f.name + " query parameter")
		}
		*f.dst = &v
	}

	if err := validate.Struct(q); err != nil {
		return q, err
	}
	if q.PlaceID != "" && (q.Lat != nil || q.Lon != nil) {
		return q, fmt.Errorf("%w: use either place_id or lat and lon", providers.ErrInvalidArgument)
	}
	if q.PlaceID == "" && (q.Lat == nil || q.Lon == nil) {
		return q, fmt.Errorf("%w: both lat and lon are required", providers.ErrInvalidArgument)
	}

	return q, nil
}

// historyQuery holds query parameters for the history endpoint.
type historyQuery struct {
	Place placeQuery
	From  time.Time `validate:"required"`
	To    time.Time `validate:"required,gtefield=From"`
}

func (h *historyQuery) bind(c *fiber.Ctx) error {
	place, err := parsePlaceQuery(c)
	if err != nil {
		return err
	}
	h.Place = place

	fromStr := c.Query("from")
	toStr := c.Query("to")
	if fromStr == "" || toStr == "" {
		return errors.New("from and to query parameters are required")
	}

	from, err := parseTime(fromStr)
	if err != nil {
		return err
	}
	to, err := parseTime(toStr)
	if err != nil {
		return err
	}

	h.From = from
	h.To = to
	return nil
}

// parseTime tries to parse either RFC3339 or Unix seconds.
func parseTime(s string) (time.Time, error) {
	if ts, err := time.Parse(time.RFC3339, s); err == nil {
		return ts, nil
	}
	if unix, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Unix(unix, 0).UTC(), nil
	}
	return time.Time{}, errors.New("invalid time format; use RFC3339 or unix seconds")
}
