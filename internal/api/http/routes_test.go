package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrCroatia/weatherapp/internal/store"
	"github.com/MrCroatia/weatherapp/internal/weather"
)

type stubClient struct {
	geocodeErr error
}

func (s stubClient) GeocodeLocation(_ context.Context, name string) ([]weather.GeoLocation, error) {
	if s.geocodeErr != nil {
		return nil, s.geocodeErr
	}
	return []weather.GeoLocation{{Lat: 45.33, Lon: 14.44, Name: name, Country: "HR"}}, nil
}

func (stubClient) GetCurrentWeather(context.Context, float64, float64) (weather.CurrentWeather, error) {
	return weather.CurrentWeather{
		Temp:      0,
		FeelsLike: -3.6,
		Dt:        1700000000,
		Name:      "Rijeka",
		Weather:   []weather.Condition{{ID: 800, Main: "Clear", Description: "clear sky", Icon: "01d"}},
	}, nil
}

func (stubClient) GetWeatherForecast(context.Context, float64, float64) (weather.WeatherForecast, error) {
	return weather.WeatherForecast{
		Hourly: []weather.HourlyForecast{{ForecastItem: weather.ForecastItem{Dt: 1700000000, Temp: 1, Pop: 0.25}}},
		Daily: []weather.DailyForecast{{
			ForecastItem: weather.ForecastItem{Dt: 1700000000, Temp: 2},
			TempMin:      -1,
			TempMax:      5,
		}},
	}, nil
}

func newTestApp(client weather.Client) (*fiber.App, *store.Store) {
	app := fiber.New()
	st := store.New(client, nil)
	RegisterRoutes(app, st)
	return app, st
}

func doJSON(t *testing.T, app *fiber.App, req *http.Request) (int, StateView) {
	t.Helper()
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var view StateView
	if resp.StatusCode < 400 {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&view))
	}
	return resp.StatusCode, view
}

func TestCoordinatesValidation(t *testing.T) {
	app, _ := newTestApp(stubClient{})

	for _, target := range []string{
		"/api/v1/weather/coordinates",
		"/api/v1/weather/coordinates?lat=45",
		"/api/v1/weather/coordinates?lat=abc&lon=1",
		"/api/v1/weather/coordinates?lat=91&lon=1",
		"/api/v1/weather/coordinates?lat=1&lon=-181",
	} {
		req := httptest.NewRequest(http.MethodPost, target, nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, target)
	}
}

func TestCoordinatesLoadsWeather(t *testing.T) {
	app, _ := newTestApp(stubClient{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/weather/coordinates?lat=45.33&lon=14.44", nil)
	status, view := doJSON(t, app, req)
	require.Equal(t, http.StatusOK, status)

	assert.True(t, view.HasCurrentWeather)
	assert.True(t, view.HasForecast)
	assert.False(t, view.IsLoading)
	assert.Equal(t, "0°C", view.FormattedCurrentTemperature)
	assert.Equal(t, "-4°C", view.FormattedFeelsLike)
	require.NotNil(t, view.CurrentLocation)
	assert.Equal(t, "Rijeka", view.CurrentLocation.Name)

	require.NotNil(t, view.Display)
	assert.Equal(t, "https://openweathermap.org/img/wn/01d@2x.png", view.Display.Icon)
	require.Len(t, view.Display.Hourly, 1)
	assert.Equal(t, 25, view.Display.Hourly[0].PopPct)
	require.Len(t, view.Display.Daily, 1)
	assert.Equal(t, "5°C", view.Display.Daily[0].Max)
}

func TestToggleUnitRoute(t *testing.T) {
	app, st := newTestApp(stubClient{})
	st.GetWeatherForCoordinates(context.Background(), 1, 2, "")

	status, view := doJSON(t, app, httptest.NewRequest(http.MethodPost, "/api/v1/unit/toggle", nil))
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, weather.UnitImperial, view.Unit)
	assert.Equal(t, "F", view.TemperatureUnit)
	assert.Equal(t, "32°F", view.FormattedCurrentTemperature)
}

func TestSearchRouteReportsErrorInState(t *testing.T) {
	app, _ := newTestApp(stubClient{geocodeErr: weather.ProviderError("Location not found", 404, nil)})

	status, view := doJSON(t, app, httptest.NewRequest(http.MethodPost, "/api/v1/search?q=Atlantis", nil))
	require.Equal(t, http.StatusOK, status)
	assert.True(t, view.HasError)
	require.NotNil(t, view.Error)
	assert.Equal(t, "Weather API Error: Location not found", *view.Error)
	assert.Empty(t, view.SearchResults)

	status, view = doJSON(t, app, httptest.NewRequest(http.MethodDelete, "/api/v1/error", nil))
	require.Equal(t, http.StatusOK, status)
	assert.False(t, view.HasError)
}

func TestSelectLocationRoute(t *testing.T) {
	app, st := newTestApp(stubClient{})
	st.SearchLocations(context.Background(), "Rijeka")
	require.Len(t, st.State().SearchResults, 1)

	body := `{"lat":45.33,"lon":14.44,"name":"Rijeka","country":"HR"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/locations/select", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	status, view := doJSON(t, app, req)
	require.Equal(t, http.StatusOK, status)
	assert.Empty(t, view.SearchResults)
	assert.Empty(t, view.SearchQuery)
	assert.Equal(t, "Rijeka", view.CurrentLocation.Name)
}

func TestSelectLocationRejectsBadBody(t *testing.T) {
	app, _ := newTestApp(stubClient{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/locations/select", strings.NewReader(`{"lat":123,"lon":0}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCurrentLocationWithoutCapability(t *testing.T) {
	app, _ := newTestApp(stubClient{geocodeErr: errors.New("unused")})

	status, view := doJSON(t, app, httptest.NewRequest(http.MethodPost, "/api/v1/weather/current-location", nil))
	require.Equal(t, http.StatusOK, status)
	require.NotNil(t, view.Error)
	assert.True(t, strings.HasPrefix(*view.Error, "Geolocation Error: "))
	assert.False(t, view.Loading.Location)
}

func TestStateRoute(t *testing.T) {
	app, _ := newTestApp(stubClient{})

	status, view := doJSON(t, app, httptest.NewRequest(http.MethodGet, "/api/v1/state", nil))
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, weather.UnitMetric, view.Unit)
	assert.Equal(t, "", view.FormattedCurrentTemperature)
	assert.Nil(t, view.Display)
	assert.NotNil(t, view.SearchResults)
}
