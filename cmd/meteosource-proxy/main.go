package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/go-redis/redis/v8"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	httpapi "github.com/i474232898/meteosource-go/internal/api/http"
	"github.com/i474232898/meteosource-go/internal/cache"
	"github.com/i474232898/meteosource-go/internal/config"
	"github.com/i474232898/meteosource-go/internal/scheduler"
	"github.com/i474232898/meteosource-go/internal/store"
	"github.com/i474232898/meteosource-go/internal/weather"
	"github.com/i474232898/meteosource-go/internal/weather/providers"
)

func main() {
	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if cfg.APIKey == "" {
		log.Printf("INFO: METEOSOURCE_API_KEY is not set; upstream requests will fail")
	}

	// Shared HTTP client for outbound Meteosource calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	// Raw payload cache: Redis when configured, in-memory otherwise.
	var payloads cache.Cache = cache.NewMemoryCache()
	if cfg.RedisAddr != "" {
		rdb := goredis.NewClient(&goredis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer rdb.Close()

		rc := cache.NewRedisCache(rdb, "meteosource:")
		pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		err := rc.Ping(pingCtx)
		cancel()
		if err != nil {
			log.Printf("INFO: redis at %s unreachable (%v); using in-memory cache", cfg.RedisAddr, err)
		} else {
			payloads = rc
		}
	}

	// Meteosource client with resilience (rate limit + backoff + circuit breaker).
	client := providers.NewClient(httpClient, providers.Config{
		APIKey:    cfg.APIKey,
		Tier:      cfg.Tier,
		Host:      cfg.Host,
		Language:  cfg.Language,
		Units:     cfg.Units,
		Sections:  cfg.Sections,
		Timezone:  cfg.Timezone,
		RateLimit: cfg.RateLimit,
		Burst:     cfg.RateBurst,
		CacheTTL:  cfg.CacheTTL,
	}, payloads, weather.SystemClock)

	// In-memory store with configured retention.
	memStore := store.NewMemoryStore(cfg.StoreMaxHistory, cfg.StoreMaxAge)

	// Core service orchestrating the client and store. Snapshots younger
	// than the refresh interval are served from the store.
	service := weather.NewService(memStore, client, cfg.RefreshInterval, weather.SystemClock)

	// Scheduler that periodically refreshes tracked places.
	sched := scheduler.New(cfg.Places, cfg.RefreshInterval, service)
	if err := sched.Start(); err != nil {
		log.Fatalf("failed to start scheduler: %v", err)
	}
	defer sched.Stop()

	app := fiber.New(fiber.Config{
		AppName:               "meteosource-proxy",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          30 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error":   true,
				"message": err.Error(),
			})
		},
	})

	app.Use(logger.New())
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "meteosource-proxy",
		})
	})

	httpapi.RegisterRoutes(app, service)

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Printf("fiber server stopped: %v", err)
		}
	}()

	// Wait for termination signal
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("error during shutdown: %v", err)
	}
}
