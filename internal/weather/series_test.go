package weather

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeriesLookupModesAgree(t *testing.T) {
	f := loadForecast(t, "UTC")

	byOffset, err := f.Hourly.Lookup(Offset(0))
	require.NoError(t, err)
	byText, err := f.Hourly.Lookup(Text("2024-03-10T11:00:00"))
	require.NoError(t, err)
	byInstant, err := f.Hourly.Lookup(Instant(time.Date(2024, 3, 10, 11, 0, 0, 0, time.UTC)))
	require.NoError(t, err)
	byWall, err := f.Hourly.Lookup(Wall(time.Date(2024, 3, 10, 11, 0, 0, 0, time.Local)))
	require.NoError(t, err)

	assert.Same(t, byOffset, byText)
	assert.Same(t, byOffset, byInstant)
	assert.Same(t, byOffset, byWall)

	weather, err := byOffset.Text("weather")
	require.NoError(t, err)
	assert.Equal(t, "overcast", weather)
}

func TestSeriesOffsets(t *testing.T) {
	f := loadForecast(t, "UTC")

	tests := []struct {
		offset int
		want   string
	}{
		{0, "2024-03-10T11:00:00"},
		{1, "2024-03-10T12:00:00"},
		{2, "2024-03-10T13:00:00"},
		{-1, "2024-03-10T13:00:00"},
		{-4, "2024-03-10T10:00:00"},
	}
	for _, tt := range tests {
		rec, err := f.Hourly.Lookup(Offset(tt.offset))
		require.NoError(t, err, "offset %d", tt.offset)
		date, err := rec.Time(KeyDate)
		require.NoError(t, err)
		assert.Equal(t, tt.want, date.Format(LayoutDateTime), "offset %d", tt.offset)
	}

	for _, n := range []int{3, 100, -5} {
		_, err := f.Hourly.Lookup(Offset(n))
		assert.ErrorIs(t, err, ErrIndexOutOfRange, "offset %d", n)
		assert.NotErrorIs(t, err, ErrEmptyInstance)
	}
}

func TestSeriesOffsetFollowsClock(t *testing.T) {
	payload := readFixture(t, "forecast.json")

	early, err := ParseForecast(payload, "UTC", WithClock(FixedClock(time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC))))
	require.NoError(t, err)
	rec, err := early.Hourly.Lookup(Offset(0))
	require.NoError(t, err)
	assert.Same(t, early.Hourly.Records()[0], rec)

	late, err := ParseForecast(payload, "UTC", WithClock(FixedClock(time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC))))
	require.NoError(t, err)
	_, err = late.Hourly.Lookup(Offset(0))
	assert.ErrorIs(t, err, ErrIndexOutOfRange)

	rec, err = late.Daily.Lookup(Offset(0))
	require.NoError(t, err)
	day, err := rec.Time(KeyDay)
	require.NoError(t, err)
	assert.Equal(t, "2024-03-11", day.Format(LayoutDay))
}

func TestSeriesDailyOffsetComparesDays(t *testing.T) {
	f := loadForecast(t, "Europe/Prague")

	// Midday on the first day still resolves to that day.
	rec, err := f.Daily.Lookup(Offset(0))
	require.NoError(t, err)
	assert.Same(t, f.Daily.Records()[0], rec)

	byText, err := f.Daily.Lookup(Text("2024-03-11"))
	require.NoError(t, err)
	byOffset, err := f.Daily.Lookup(Offset(1))
	require.NoError(t, err)
	assert.Same(t, byOffset, byText)
}

func TestSeriesTextLookupErrors(t *testing.T) {
	f := loadForecast(t, "UTC")

	for _, text := range []string{"01/01/2024", "2024-03-10", "2024-03-10 11:00:00", "2024-3-10T11:00:00"} {
		_, err := f.Hourly.Lookup(Text(text))
		assert.ErrorIs(t, err, ErrTemporalParse, text)
	}

	_, err := f.Daily.Lookup(Text("2024-03-10T00:00:00"))
	assert.ErrorIs(t, err, ErrTemporalParse)

	_, err = f.Hourly.Lookup(Text("2024-03-10T11:30:00"))
	assert.ErrorIs(t, err, ErrTemporalNotFound)

	_, err = f.Hourly.Lookup(Instant(time.Date(2024, 3, 10, 11, 0, 1, 0, time.UTC)))
	assert.ErrorIs(t, err, ErrTemporalNotFound)
}

func TestSeriesLookupAny(t *testing.T) {
	f := loadForecast(t, "UTC")

	rec, err := f.Hourly.LookupAny("2024-03-10T12:00:00")
	require.NoError(t, err)
	byInt, err := f.Hourly.LookupAny(1)
	require.NoError(t, err)
	assert.Same(t, rec, byInt)

	at := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	byTime, err := f.Hourly.LookupAny(at)
	require.NoError(t, err)
	assert.Same(t, rec, byTime)

	_, err = f.Hourly.LookupAny(1.5)
	assert.ErrorIs(t, err, ErrUnsupportedIndex)

	_, err = f.Hourly.Lookup(Index{})
	assert.ErrorIs(t, err, ErrUnsupportedIndex)
}

func TestSeriesInstantAcrossZones(t *testing.T) {
	f := loadForecast(t, "Europe/Prague")

	// 10:00 UTC is 11:00 in Prague.
	rec, err := f.Hourly.Lookup(Text("2024-03-10T11:00:00"))
	require.NoError(t, err)
	assert.Same(t, f.Hourly.Records()[0], rec)

	byInstant, err := f.Hourly.Lookup(Instant(time.Date(2024, 3, 10, 10, 0, 0, 0, time.UTC)))
	require.NoError(t, err)
	assert.Same(t, rec, byInstant)

	_, err = f.Hourly.Lookup(Text("2024-03-10T10:00:00"))
	assert.ErrorIs(t, err, ErrTemporalNotFound)

	assert.Equal(t, "Europe/Prague", f.Hourly.Location().String())
	assert.Equal(t, []string{
		"2024-03-10T11:00:00",
		"2024-03-10T12:00:00",
		"2024-03-10T13:00:00",
		"2024-03-10T14:00:00",
	}, f.Hourly.DateStrings())
}

func TestSeriesAcrossDaylightSaving(t *testing.T) {
	payload := []byte(`{
		"lat": 50.0755, "lon": 14.4378, "timezone": "UTC",
		"hourly": {"data": [
			{"date": "2024-03-31T00:00:00", "temperature": 1},
			{"date": "2024-03-31T01:00:00", "temperature": 2},
			{"date": "2024-10-27T00:00:00", "temperature": 3},
			{"date": "2024-10-27T01:00:00", "temperature": 4}
		]}
	}`)
	f, err := ParseForecast(payload, "Europe/Prague", WithClock(FixedClock(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))))
	require.NoError(t, err)
	records := f.Hourly.Records()

	// Spring forward: 02:00 local does not exist.
	rec, err := f.Hourly.Lookup(Text("2024-03-31T01:00:00"))
	require.NoError(t, err)
	assert.Same(t, records[0], rec)
	rec, err = f.Hourly.Lookup(Text("2024-03-31T03:00:00"))
	require.NoError(t, err)
	assert.Same(t, records[1], rec)
	_, err = f.Hourly.Lookup(Text("2024-03-31T02:00:00"))
	assert.ErrorIs(t, err, ErrTemporalNotFound)

	// Fall back: 02:00 local happens twice; text picks the first.
	rec, err = f.Hourly.Lookup(Text("2024-10-27T02:00:00"))
	require.NoError(t, err)
	assert.Same(t, records[2], rec)
	rec, err = f.Hourly.Lookup(Instant(time.Date(2024, 10, 27, 1, 0, 0, 0, time.UTC)))
	require.NoError(t, err)
	assert.Same(t, records[3], rec)
}

func TestEmptySeries(t *testing.T) {
	f, err := ParseForecast([]byte(`{"lat": 1, "lon": 2}`), "UTC")
	require.NoError(t, err)

	for _, s := range []*Series{f.Minutely, f.Hourly, f.Daily, f.Alerts.Series} {
		require.NotNil(t, s)
		assert.True(t, s.IsEmpty())
		assert.Equal(t, []string{}, s.Members())

		_, err := s.Lookup(Offset(0))
		assert.ErrorIs(t, err, ErrEmptyInstance)
		assert.ErrorIs(t, err, ErrIndexOutOfRange)
	}

	_, err = f.Hourly.Lookup(Text("2024-03-10T11:00:00"))
	assert.ErrorIs(t, err, ErrEmptyInstance)
	assert.ErrorIs(t, err, ErrTemporalNotFound)

	assert.Equal(t, "<Empty Series hourly>", f.Hourly.String())
	assert.True(t, f.Current.IsEmpty())
}

func TestSeriesMembersAndSummary(t *testing.T) {
	f := loadForecast(t, "UTC")

	assert.Equal(t, []string{"date", "precipitation"}, f.Minutely.Members())
	assert.Equal(t, "No precipitation within 30 minutes.", f.Minutely.Summary())
	assert.Equal(t, KeyDay, f.Daily.TemporalKey())
	assert.Equal(t, KeyDate, f.Hourly.TemporalKey())
	assert.Equal(t, "<Series hourly with 4 timesteps from 2024-03-10T10:00:00 to 2024-03-10T13:00:00>", f.Hourly.String())
	assert.Equal(t, "<Series daily with 3 timesteps from 2024-03-10 to 2024-03-12>", f.Daily.String())
}

func TestSeriesRejectsTimestepWithoutDate(t *testing.T) {
	_, err := ParseForecast([]byte(`{"lat": 1, "lon": 2, "hourly": {"data": [{"temperature": 1}]}}`), "UTC")
	assert.ErrorIs(t, err, ErrInvalidPayload)

	_, err = ParseForecast([]byte(`{"lat": 1, "lon": 2, "hourly": [{"date": "yesterday"}]}`), "UTC")
	assert.ErrorIs(t, err, ErrTemporalParse)
}

func TestParseIndex(t *testing.T) {
	assert.Equal(t, Offset(3), ParseIndex("3"))
	assert.Equal(t, Offset(-1), ParseIndex("-1"))
	assert.Equal(t, Text("2024-03-10"), ParseIndex("2024-03-10"))
	assert.Equal(t, `"2024-03-10"`, ParseIndex("2024-03-10").String())
}

func TestDailySeriesWhereMidnightIsSkipped(t *testing.T) {
	// Chile moves clocks from 00:00 to 01:00 on 2023-09-03.
	payload := []byte(`{
		"lat": "33.4489S", "lon": "70.6693W", "timezone": "America/Santiago",
		"daily": {"data": [
			{"day": "2023-09-02", "weather": "sunny"},
			{"day": "2023-09-03", "weather": "cloudy"},
			{"day": "2023-09-04", "weather": "rain"}
		]}
	}`)
	santiago := mustLocation(t, "America/Santiago")
	now := time.Date(2023, 9, 3, 12, 0, 0, 0, santiago)
	f, err := ParseForecast(payload, "America/Santiago", WithClock(FixedClock(now)))
	require.NoError(t, err)
	records := f.Daily.Records()

	assert.Equal(t, []string{"2023-09-02", "2023-09-03", "2023-09-04"}, f.Daily.DateStrings())

	day, err := records[1].Time(KeyDay)
	require.NoError(t, err)
	assert.Equal(t, 3, day.Day())
	assert.Equal(t, 1, day.Hour())

	byText, err := f.Daily.Lookup(Text("2023-09-03"))
	require.NoError(t, err)
	assert.Same(t, records[1], byText)

	byWall, err := f.Daily.Lookup(Wall(time.Date(2023, 9, 3, 0, 0, 0, 0, time.UTC)))
	require.NoError(t, err)
	assert.Same(t, records[1], byWall)

	byOffset, err := f.Daily.Lookup(Offset(0))
	require.NoError(t, err)
	assert.Same(t, records[1], byOffset)
}

func TestIndexOfIntegerKinds(t *testing.T) {
	for _, v := range []any{int(2), int8(2), int16(2), int32(2), int64(2), uint(2), uint8(2), uint16(2), uint32(2), uint64(2)} {
		idx, err := IndexOf(v)
		require.NoError(t, err, "%T", v)
		assert.Equal(t, Offset(2), idx, "%T", v)
	}

	_, err := IndexOf(uint64(math.MaxUint64))
	assert.ErrorIs(t, err, ErrUnsupportedIndex)

	_, err = IndexOf((*time.Time)(nil))
	assert.ErrorIs(t, err, ErrUnsupportedIndex)
}
