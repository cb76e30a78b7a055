package weather

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseForecastHeader(t *testing.T) {
	f := loadForecast(t, "Europe/London")

	assert.InDelta(t, 51.50853, f.Lat, 1e-9)
	assert.InDelta(t, -0.12574, f.Lon, 1e-9)
	require.NotNil(t, f.Elevation)
	assert.Equal(t, 25.0, *f.Elevation)
	assert.Equal(t, "Europe/London", f.Timezone)
	assert.Equal(t, "metric", f.Units)
	assert.Equal(t, "Europe/London", f.Location().String())
	assert.Equal(t, "<Forecast for lat: 51.50853, lon: -0.12574>", f.String())
}

func TestParseForecastSections(t *testing.T) {
	f := loadForecast(t, "UTC")

	assert.False(t, f.Current.IsEmpty())
	assert.Equal(t, 3, f.Minutely.Len())
	assert.Equal(t, 4, f.Hourly.Len())
	assert.Equal(t, 3, f.Daily.Len())
	assert.Equal(t, 3, f.Alerts.Len())

	temp, err := f.Current.Float("temperature")
	require.NoError(t, err)
	assert.Equal(t, 12.5, temp)

	for _, name := range []Section{SectionMinutely, SectionHourly, SectionDaily, SectionAlerts} {
		s, err := f.Series(name)
		require.NoError(t, err)
		assert.Equal(t, name, s.Section())
	}
	_, err = f.Series(SectionStatistics)
	assert.ErrorIs(t, err, ErrAttributeNotFound)
}

func TestForecastMembersAndGet(t *testing.T) {
	f := loadForecast(t, "UTC")

	assert.Equal(t, []string{"alerts", "current", "daily", "elevation", "hourly", "lat", "lon", "minutely", "timezone", "units"}, f.Members())
	for _, name := range f.Members() {
		_, err := f.Get(name)
		assert.NoError(t, err, name)
	}

	hourly, err := f.Get("hourly")
	require.NoError(t, err)
	assert.Same(t, f.Hourly, hourly)

	_, err = f.Get("yearly")
	assert.ErrorIs(t, err, ErrAttributeNotFound)
}

func TestParseForecastPlaceholders(t *testing.T) {
	f, err := ParseForecast([]byte(`{"lat": 10, "lon": 20, "current": null, "hourly": null}`), "")
	require.NoError(t, err)

	assert.Equal(t, "UTC", f.Timezone)
	assert.Nil(t, f.Elevation)
	assert.NotContains(t, f.Members(), "units")
	assert.True(t, f.Current.IsEmpty())
	assert.True(t, f.Hourly.IsEmpty())
	assert.True(t, f.Alerts.IsEmpty())
	assert.Equal(t, "<Empty Record>", f.Current.String())
}

func TestParseForecastPlainArraySections(t *testing.T) {
	payload := []byte(`{
		"lat": 1, "lon": 2,
		"hourly": [{"date": "2024-03-10T10:00:00", "temperature": 5}]
	}`)
	f, err := ParseForecast(payload, "UTC")
	require.NoError(t, err)
	assert.Equal(t, 1, f.Hourly.Len())
	assert.Empty(t, f.Hourly.Summary())
}

func TestParseForecastErrors(t *testing.T) {
	tests := map[string]struct {
		payload string
		tz      string
		want    error
	}{
		"not json":         {`{`, "UTC", ErrInvalidPayload},
		"null document":    {`null`, "UTC", ErrInvalidPayload},
		"bad lat":          {`{"lat": "north", "lon": 1}`, "UTC", ErrInvalidPayload},
		"missing lon":      {`{"lat": 1}`, "UTC", ErrInvalidPayload},
		"bad section":      {`{"lat": 1, "lon": 1, "hourly": 5}`, "UTC", ErrInvalidPayload},
		"bad current":      {`{"lat": 1, "lon": 1, "current": []}`, "UTC", ErrInvalidPayload},
		"bad payload zone": {`{"lat": 1, "lon": 1, "timezone": "Mars/Base"}`, "UTC", ErrInvalidPayload},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := ParseForecast([]byte(tt.payload), tt.tz)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	_, err := ParseForecast([]byte(`{"lat": 1, "lon": 1}`), "Mars/Base")
	assert.Error(t, err)
}

func TestParseForecastPayloadZone(t *testing.T) {
	payload := []byte(`{
		"lat": 50, "lon": 14, "timezone": "Europe/Prague",
		"hourly": [{"date": "2024-07-01T14:00:00"}]
	}`)
	f, err := ParseForecast(payload, "UTC")
	require.NoError(t, err)

	assert.Equal(t, []string{"2024-07-01T12:00:00"}, f.Hourly.DateStrings())
}
