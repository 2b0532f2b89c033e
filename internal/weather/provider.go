package weather

import (
	"context"
)

// Client abstracts the weather data source (OpenWeatherMap in production).
// Every method returns *Error on failure.
type Client interface {
	GeocodeLocation(ctx context.Context, name string) ([]GeoLocation, error)
	GetCurrentWeather(ctx context.Context, lat, lon float64) (CurrentWeather, error)
	GetWeatherForecast(ctx context.Context, lat, lon float64) (WeatherForecast, error)
}

// Locator resolves the device position.
type Locator interface {
	GetCurrentPosition(ctx context.Context) (Coordinates, error)
}

// Coordinates is a bare device fix.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}
