package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/MrCroatia/weatherapp/internal/weather"
)

// Geolocation source names accepted in GEOLOCATION_SOURCE.
const (
	GeoSourceIP     = "ip"
	GeoSourceStatic = "static"
	GeoSourceNone   = "none"
)

type AppConfig struct {
	// OpenWeatherAPIKey is passed through unchecked; a bad key shows up as an
	// upstream 401.
	OpenWeatherAPIKey string
	OpenWeatherURL    string
	OpenWeatherGeoURL string

	// HTTPTimeout applies to provider calls. Zero means no timeout.
	HTTPTimeout time.Duration

	GeolocationSource string
	GeolocationURL    string
	StaticPosition    weather.Coordinates

	SearchDebounce time.Duration

	// RefreshInterval re-fetches the current location's weather; 0 disables it.
	RefreshInterval time.Duration

	Unit     weather.Unit
	LogLevel string
	Port     string
}

// Load reads configuration from the environment (and .env when present).
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}
	cfg := &AppConfig{}

	cfg.OpenWeatherAPIKey = os.Getenv("OPENWEATHER_API_KEY")
	cfg.OpenWeatherURL = getenvDefault("OPENWEATHER_BASE_URL", "https://api.openweathermap.org/data/2.5")
	cfg.OpenWeatherGeoURL = getenvDefault("OPENWEATHER_GEO_URL", "https://api.openweathermap.org/geo/1.0")

	var err error
	if cfg.HTTPTimeout, err = getenvDuration("HTTP_TIMEOUT", "0"); err != nil {
		return nil, err
	}
	if cfg.SearchDebounce, err = getenvDuration("SEARCH_DEBOUNCE", "500ms"); err != nil {
		return nil, err
	}
	if cfg.RefreshInterval, err = getenvDuration("REFRESH_INTERVAL", "0"); err != nil {
		return nil, err
	}

	cfg.GeolocationSource = strings.ToLower(getenvDefault("GEOLOCATION_SOURCE", GeoSourceIP))
	cfg.GeolocationURL = os.Getenv("GEOLOCATION_URL")
	switch cfg.GeolocationSource {
	case GeoSourceIP, GeoSourceNone:
	case GeoSourceStatic:
		pos, err := loadStaticPosition()
		if err != nil {
			return nil, err
		}
		cfg.StaticPosition = pos
	default:
		return nil, fmt.Errorf("invalid GEOLOCATION_SOURCE %q: want ip, static or none", cfg.GeolocationSource)
	}

	switch unit := weather.Unit(strings.ToLower(getenvDefault("UNITS", string(weather.UnitMetric)))); unit {
	case weather.UnitMetric, weather.UnitImperial:
		cfg.Unit = unit
	default:
		return nil, fmt.Errorf("invalid UNITS %q: want metric or imperial", unit)
	}

	cfg.LogLevel = getenvDefault("LOG_LEVEL", "INFO")
	cfg.Port = getenvDefault("PORT", "8080")

	return cfg, nil
}

func loadStaticPosition() (weather.Coordinates, error) {
	lat, err := strconv.ParseFloat(os.Getenv("STATIC_LAT"), 64)
	if err != nil || lat < -90 || lat > 90 {
		return weather.Coordinates{}, fmt.Errorf("invalid STATIC_LAT %q", os.Getenv("STATIC_LAT"))
	}
	lon, err := strconv.ParseFloat(os.Getenv("STATIC_LON"), 64)
	if err != nil || lon < -180 || lon > 180 {
		return weather.Coordinates{}, fmt.Errorf("invalid STATIC_LON %q", os.Getenv("STATIC_LON"))
	}
	return weather.Coordinates{Latitude: lat, Longitude: lon}, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(getenvDefault(key, def))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("invalid %s: must not be negative", key)
	}
	return d, nil
}
