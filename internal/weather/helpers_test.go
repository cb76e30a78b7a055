package weather

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// fixtureNow sits between the first and second hourly timesteps of the fixture.
var fixtureNow = time.Date(2024, 3, 10, 10, 30, 0, 0, time.UTC)

func readFixture(t *testing.T, name string) []byte {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", name))
	require.NoError(t, err)
	return data
}

func loadForecast(t *testing.T, tz string) *Forecast {
	t.Helper()
	f, err := ParseForecast(readFixture(t, "forecast.json"), tz, WithClock(FixedClock(fixtureNow)))
	require.NoError(t, err)
	return f
}

func mustLocation(t *testing.T, name string) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation(name)
	require.NoError(t, err)
	return loc
}
