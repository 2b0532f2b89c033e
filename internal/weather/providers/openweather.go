package providers

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/MrCroatia/weatherapp/internal/weather"
	"github.com/sony/gobreaker"
)

const (
	DefaultBaseURL = "https://api.openweathermap.org/data/2.5"
	DefaultGeoURL  = "https://api.openweathermap.org/geo/1.0"
)

// OpenWeatherClient implements weather.Client for OpenWeatherMap.
// It is stateless apart from the circuit breaker.
type OpenWeatherClient struct {
	apiKey  string
	baseURL string
	geoURL  string
	client  *http.Client
	circuit *gobreaker.CircuitBreaker
}

// OpenWeatherOption customizes the client.
type OpenWeatherOption func(*OpenWeatherClient)

// WithBaseURL overrides the data endpoint root (weather, onecall).
func WithBaseURL(u string) OpenWeatherOption {
	return func(c *OpenWeatherClient) {
		if u != "" {
			c.baseURL = strings.TrimRight(u, "/")
		}
	}
}

// WithGeoURL overrides the geocoding endpoint root.
func WithGeoURL(u string) OpenWeatherOption {
	return func(c *OpenWeatherClient) {
		if u != "" {
			c.geoURL = strings.TrimRight(u, "/")
		}
	}
}

// NewOpenWeatherClient builds a client. An empty apiKey is not rejected here;
// the upstream answers 401 and that surfaces as a provider error.
func NewOpenWeatherClient(client *http.Client, apiKey string, opts ...OpenWeatherOption) *OpenWeatherClient {
	c := &OpenWeatherClient{
		apiKey:  apiKey,
		baseURL: DefaultBaseURL,
		geoURL:  DefaultGeoURL,
		client:  client,
		circuit: newCircuitBreaker("openweather"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *OpenWeatherClient) get(ctx context.Context, endpoint string, values url.Values, out interface{}) error {
	buildRequest := func() (*http.Request, error) {
		values.Set("appid", c.apiKey)
		u := fmt.Sprintf("%s?%s", endpoint, values.Encode())
		return http.NewRequest(http.MethodGet, u, nil)
	}
	return doRequest(ctx, c.client, c.circuit, buildRequest, out)
}

func coordValues(lat, lon float64) url.Values {
	values := url.Values{}
	values.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	values.Set("lon", strconv.FormatFloat(lon, 'f', -1, 64))
	values.Set("units", "metric")
	return values
}

// GeocodeLocation resolves a free-text place name into up to five candidates,
// in the order the upstream returns them.
func (c *OpenWeatherClient) GeocodeLocation(ctx context.Context, name string) ([]weather.GeoLocation, error) {
	values := url.Values{}
	values.Set("q", name)
	values.Set("limit", strconv.Itoa(weather.GeocodeLimit))

	var payload []struct {
		Name    string  `json:"name"`
		Lat     float64 `json:"lat"`
		Lon     float64 `json:"lon"`
		Country string  `json:"country"`
	}
	if err := c.get(ctx, c.geoURL+"/direct", values, &payload); err != nil {
		return nil, err
	}

	if len(payload) == 0 {
		return nil, weather.ProviderError("Location not found", http.StatusNotFound, nil)
	}

	locs := make([]weather.GeoLocation, 0, len(payload))
	for _, item := range payload {
		locs = append(locs, weather.GeoLocation{
			Lat:     item.Lat,
			Lon:     item.Lon,
			Name:    item.Name,
			Country: item.Country,
		})
	}
	return locs, nil
}

// GetCurrentWeather fetches observed conditions in metric units.
func (c *OpenWeatherClient) GetCurrentWeather(ctx context.Context, lat, lon float64) (weather.CurrentWeather, error) {
	var payload struct {
		Dt   int64  `json:"dt"`
		Name string `json:"name"`
		Main struct {
			Temp      float64 `json:"temp"`
			FeelsLike float64 `json:"feels_like"`
			Humidity  float64 `json:"humidity"`
			Pressure  float64 `json:"pressure"`
		} `json:"main"`
		Wind struct {
			Speed float64 `json:"speed"`
		} `json:"wind"`
		Weather []weather.Condition `json:"weather"`
	}
	if err := c.get(ctx, c.baseURL+"/weather", coordValues(lat, lon), &payload); err != nil {
		return weather.CurrentWeather{}, err
	}

	return weather.CurrentWeather{
		Temp:      payload.Main.Temp,
		FeelsLike: payload.Main.FeelsLike,
		Humidity:  payload.Main.Humidity,
		Pressure:  payload.Main.Pressure,
		WindSpeed: payload.Wind.Speed,
		Weather:   payload.Weather,
		Dt:        payload.Dt,
		Name:      payload.Name,
	}, nil
}

// GetWeatherForecast fetches the next 24 hours and 7 days.
func (c *OpenWeatherClient) GetWeatherForecast(ctx context.Context, lat, lon float64) (weather.WeatherForecast, error) {
	values := coordValues(lat, lon)
	values.Set("exclude", "minutely,alerts")

	var payload struct {
		Hourly []struct {
			Dt        int64               `json:"dt"`
			Temp      float64             `json:"temp"`
			FeelsLike float64             `json:"feels_like"`
			Weather   []weather.Condition `json:"weather"`
			Pop       float64             `json:"pop"`
		} `json:"hourly"`
		Daily []struct {
			Dt   int64 `json:"dt"`
			Temp struct {
				Day float64 `json:"day"`
				Min float64 `json:"min"`
				Max float64 `json:"max"`
			} `json:"temp"`
			FeelsLike struct {
				Day float64 `json:"day"`
			} `json:"feels_like"`
			Weather []weather.Condition `json:"weather"`
			Pop     float64             `json:"pop"`
			Sunrise int64               `json:"sunrise"`
			Sunset  int64               `json:"sunset"`
		} `json:"daily"`
	}
	if err := c.get(ctx, c.baseURL+"/onecall", values, &payload); err != nil {
		return weather.WeatherForecast{}, err
	}

	hourlyIn := payload.Hourly
	if len(hourlyIn) > weather.MaxHourly {
		hourlyIn = hourlyIn[:weather.MaxHourly]
	}
	dailyIn := payload.Daily
	if len(dailyIn) > weather.MaxDaily {
		dailyIn = dailyIn[:weather.MaxDaily]
	}

	out := weather.WeatherForecast{
		Hourly: make([]weather.HourlyForecast, 0, len(hourlyIn)),
		Daily:  make([]weather.DailyForecast, 0, len(dailyIn)),
	}
	for _, h := range hourlyIn {
		out.Hourly = append(out.Hourly, weather.HourlyForecast{
			ForecastItem: weather.ForecastItem{
				Dt:        h.Dt,
				Temp:      h.Temp,
				FeelsLike: h.FeelsLike,
				Weather:   h.Weather,
				Pop:       h.Pop,
			},
		})
	}
	for _, d := range dailyIn {
		out.Daily = append(out.Daily, weather.DailyForecast{
			ForecastItem: weather.ForecastItem{
				Dt:        d.Dt,
				Temp:      d.Temp.Day,
				FeelsLike: d.FeelsLike.Day,
				Weather:   d.Weather,
				Pop:       d.Pop,
			},
			TempMin: d.Temp.Min,
			TempMax: d.Temp.Max,
			Sunrise: d.Sunrise,
			Sunset:  d.Sunset,
		})
	}
	return out, nil
}
