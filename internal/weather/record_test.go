package weather

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildRecordMembers(t *testing.T) {
	rec, err := BuildRecord(map[string]any{
		"temperature": 12.5,
		"summary":     "Cloudy",
		"wind":        map[string]any{"speed": 3.1, "dir": "SW"},
		"fog":         false,
		"ozone":       nil,
	}, time.UTC, time.UTC)
	require.NoError(t, err)

	assert.Equal(t, []string{"fog", "ozone", "summary", "temperature", "wind"}, rec.Members())
	assert.Equal(t, 5, rec.Len())

	temp, err := rec.Float("temperature")
	require.NoError(t, err)
	assert.Equal(t, 12.5, temp)

	wind, err := rec.Group("wind")
	require.NoError(t, err)
	dir, err := wind.Text("dir")
	require.NoError(t, err)
	assert.Equal(t, "SW", dir)

	v, err := rec.Get("ozone")
	require.NoError(t, err)
	assert.True(t, v.IsNull())

	b, err := rec.Get("fog")
	require.NoError(t, err)
	fog, ok := b.BoolValue()
	assert.True(t, ok)
	assert.False(t, fog)
}

func TestRecordMissingAttribute(t *testing.T) {
	rec, err := BuildRecord(map[string]any{"temperature": 1.0}, time.UTC, time.UTC)
	require.NoError(t, err)

	_, err = rec.Get("humidity")
	assert.ErrorIs(t, err, ErrAttributeNotFound)
	assert.ErrorContains(t, err, "humidity")

	_, err = rec.Text("temperature")
	assert.ErrorIs(t, err, ErrTypeMismatch)
}

func TestRecordPath(t *testing.T) {
	f := loadForecast(t, "UTC")
	day, err := f.Daily.Record(0)
	require.NoError(t, err)

	v, err := day.Path("astro", "sun", "rise")
	require.NoError(t, err)
	rise, ok := v.Time()
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, 3, 10, 6, 19, 0, 0, time.UTC), rise)

	_, err = day.Path("astro", "moon")
	assert.ErrorIs(t, err, ErrAttributeNotFound)
	assert.ErrorContains(t, err, "astro.moon")

	_, err = day.Path("weather", "sun")
	assert.ErrorIs(t, err, ErrTypeMismatch)
}

func TestRecordTemporalConversion(t *testing.T) {
	prague := mustLocation(t, "Europe/Prague")
	rec, err := BuildRecord(map[string]any{
		"date": "2024-07-01T12:00:00",
		"day":  "2024-07-01",
	}, time.UTC, prague)
	require.NoError(t, err)

	date, err := rec.Time("date")
	require.NoError(t, err)
	assert.Equal(t, "2024-07-01T14:00:00+02:00", date.Format(time.RFC3339))
	assert.Equal(t, prague, date.Location())

	day, err := rec.Time("day")
	require.NoError(t, err)
	assert.Equal(t, "2024-07-01T00:00:00+02:00", day.Format(time.RFC3339))
}

func TestRecordMalformedTemporal(t *testing.T) {
	_, err := BuildRecord(map[string]any{"date": "01/01/2024"}, time.UTC, time.UTC)
	assert.ErrorIs(t, err, ErrTemporalParse)

	_, err = BuildRecord(map[string]any{"day": "2024-13-01"}, time.UTC, time.UTC)
	assert.ErrorIs(t, err, ErrTemporalParse)
}

func TestRecordString(t *testing.T) {
	assert.Equal(t, "<Empty Record>", EmptyRecord().String())

	rec, err := BuildRecord(map[string]any{
		"date":        "2024-03-10T10:00:00",
		"temperature": 12.5,
	}, time.UTC, time.UTC)
	require.NoError(t, err)
	assert.Equal(t, "<Record (2024-03-10T10:00:00Z) with 2 members (date, temperature)>", rec.String())
}
