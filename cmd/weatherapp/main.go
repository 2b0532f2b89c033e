package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	httpapi "github.com/MrCroatia/weatherapp/internal/api/http"
	"github.com/MrCroatia/weatherapp/internal/config"
	"github.com/MrCroatia/weatherapp/internal/geolocation"
	"github.com/MrCroatia/weatherapp/internal/logger"
	"github.com/MrCroatia/weatherapp/internal/scheduler"
	"github.com/MrCroatia/weatherapp/internal/store"
	"github.com/MrCroatia/weatherapp/internal/weather/providers"
)

func main() {
	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	logger.SetLogLevel(cfg.LogLevel)

	// Shared HTTP client for outbound provider calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	client := providers.NewOpenWeatherClient(httpClient, cfg.OpenWeatherAPIKey,
		providers.WithBaseURL(cfg.OpenWeatherURL),
		providers.WithGeoURL(cfg.OpenWeatherGeoURL),
	)

	var source geolocation.PositionSource
	switch cfg.GeolocationSource {
	case config.GeoSourceIP:
		source = geolocation.NewIPSource(&http.Client{}, cfg.GeolocationURL)
	case config.GeoSourceStatic:
		source = geolocation.StaticSource{Coordinates: cfg.StaticPosition}
	}
	locator := geolocation.New(source)

	st := store.New(client, locator,
		store.WithSearchDebounce(cfg.SearchDebounce),
		store.WithUnit(cfg.Unit),
	)
	defer st.Close()

	st.Subscribe(func(s store.State) {
		logger.Debugf("state: loading=%v searching=%v error=%v", s.IsLoading(), s.IsSearching(), s.HasError())
	})

	sched := scheduler.New(cfg.RefreshInterval, st)
	if err := sched.Start(); err != nil {
		log.Fatalf("failed to start scheduler: %v", err)
	}
	defer sched.Stop()

	app := fiber.New(fiber.Config{
		AppName:               "weatherapp",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
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

	app.Use(fiberlogger.New())
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "weatherapp",
		})
	})

	httpapi.RegisterRoutes(app, st)

	go func() {
		logger.Infof("listening on :%s", cfg.Port)
		if err := app.Listen(":" + cfg.Port); err != nil {
			logger.Errorf("fiber server stopped: %v", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		logger.Errorf("error during shutdown: %v", err)
	}
}
