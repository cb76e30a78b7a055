package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/i474232898/meteosource-go/internal/weather"
)

type AppConfig struct {
	APIKey   string
	Tier     string
	Host     string
	Language string
	Units    string
	Sections []string

	// Timezone all returned times are converted to.
	Timezone string

	// RefreshInterval controls how often forecasts of the tracked places are refreshed.
	RefreshInterval time.Duration

	// Places to track.
	Places []weather.Place

	// Outbound request settings.
	HTTPTimeout time.Duration
	RateLimit   float64
	RateBurst   int

	// Raw payload cache. An empty RedisAddr selects the in-memory cache.
	CacheTTL      time.Duration
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// In-memory store retention.
	StoreMaxHistory int           // max number of snapshots per place (0 = unlimited)
	StoreMaxAge     time.Duration // max age of snapshots (0 = unlimited)

	Port string
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}
	cfg := &AppConfig{}

	cfg.APIKey = os.Getenv("METEOSOURCE_API_KEY")
	cfg.Tier = getenvDefault("METEOSOURCE_TIER", "free")
	cfg.Host = getenvDefault("METEOSOURCE_HOST", "https://www.meteosource.com/api")
	cfg.Language = getenvDefault("METEOSOURCE_LANGUAGE", "en")
	cfg.Units = getenvDefault("METEOSOURCE_UNITS", "metric")
	cfg.Sections = splitList(getenvDefault("METEOSOURCE_SECTIONS", "all"))
	cfg.Timezone = getenvDefault("METEOSOURCE_TIMEZONE", "UTC")
	if _, err := weather.LoadLocation(cfg.Timezone); err != nil {
		return nil, fmt.Errorf("invalid METEOSOURCE_TIMEZONE: %w", err)
	}

	var err error
	// Refresh interval: default 30 minutes.
	if cfg.RefreshInterval, err = getenvDuration("REFRESH_INTERVAL", "30m"); err != nil {
		return nil, err
	}
	if cfg.HTTPTimeout, err = getenvDuration("HTTP_TIMEOUT", "10s"); err != nil {
		return nil, err
	}
	if cfg.CacheTTL, err = getenvDuration("CACHE_TTL", "10m"); err != nil {
		return nil, err
	}
	if cfg.StoreMaxAge, err = getenvDuration("STORE_MAX_AGE", "24h"); err != nil {
		return nil, err
	}

	cfg.RateLimit = getenvFloat("RATE_LIMIT_RPS", 1)
	cfg.RateBurst = getenvInt("RATE_LIMIT_BURST", 3)
	cfg.RedisAddr = os.Getenv("REDIS_ADDR")
	cfg.RedisPassword = os.Getenv("REDIS_PASSWORD")
	cfg.RedisDB = getenvInt("REDIS_DB", 0)
	cfg.StoreMaxHistory = getenvInt("STORE_MAX_HISTORY", 48) // roughly 24h at 30-minute intervals
	cfg.Port = getenvDefault("PORT", "8080")

	places, err := loadPlaces()
	if err != nil {
		return nil, err
	}
	cfg.Places = places

	return cfg, nil
}

// loadPlaces reads METEOSOURCE_PLACES, a comma separated list of place ids
// or "lat:lon" pairs.
func loadPlaces() ([]weather.Place, error) {
	var places []weather.Place
	for _, item := range splitList(os.Getenv("METEOSOURCE_PLACES")) {
		latStr, lonStr, ok := strings.Cut(item, ":")
		if !ok {
			places = append(places, weather.Place{PlaceID: item})
			continue
		}
		lat, err := strconv.ParseFloat(latStr, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid latitude in METEOSOURCE_PLACES %q: %w", item, err)
		}
		lon, err := strconv.ParseFloat(lonStr, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid longitude in METEOSOURCE_PLACES %q: %w", item, err)
		}
		places = append(places, weather.Place{Lat: &lat, Lon: &lon})
	}
	return places, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}

func getenvFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err == nil {
			return f
		}
	}
	return def
}

func getenvDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(getenvDefault(key, def))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
