package weather

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPresent(t *testing.T) {
	cases := []struct {
		celsius float64
		unit    Unit
		want    string
	}{
		{0, UnitMetric, "0°C"},
		{0, UnitImperial, "32°F"},
		{100, UnitImperial, "212°F"},
		{36.4, UnitMetric, "36°C"},
		{36.6, UnitMetric, "37°C"},
		{-40, UnitImperial, "-40°F"},
		{-2.5, UnitMetric, "-2°C"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Present(tc.celsius, tc.unit), "%v %s", tc.celsius, tc.unit)
	}
}

func TestFormatTemperatureASCII(t *testing.T) {
	assert.Equal(t, "21 deg C", FormatTemperatureASCII(20.7, UnitMetric))
}

func TestIconURL(t *testing.T) {
	assert.Equal(t, "https://openweathermap.org/img/wn/10d@2x.png", IconURL("10d"))
}

func TestUnitToggle(t *testing.T) {
	assert.Equal(t, UnitImperial, UnitMetric.Toggle())
	assert.Equal(t, UnitMetric, UnitMetric.Toggle().Toggle())
	assert.Equal(t, "F", UnitImperial.Symbol())
}

func TestFormatDateIn(t *testing.T) {
	// 2023-11-14 22:13:20 UTC, a Tuesday.
	const ts = 1700000000
	assert.Equal(t, "Tue, Nov 14, 10:13 PM", FormatDateIn(ts, DateFull, time.UTC))
	assert.Equal(t, "Tue", FormatDateIn(ts, DateDay, time.UTC))
	assert.Equal(t, "10 PM", FormatDateIn(ts, DateTime, time.UTC))

	tokyo := time.FixedZone("JST", 9*3600)
	assert.Equal(t, "Wed", FormatDateIn(ts, DateDay, tokyo))
}

func TestDescribePrefixesByKind(t *testing.T) {
	assert.Equal(t, "Weather API Error: Location not found", Describe(ProviderError("Location not found", 404, nil)))
	assert.Equal(t, "Geolocation Error: denied", Describe(GeolocationError(CodePermissionDenied, "denied")))
	assert.Equal(t, "Error: boom", Describe(errors.New("boom")))
	assert.Equal(t, "", Describe(nil))
}

func TestProviderErrorStatus(t *testing.T) {
	assert.False(t, ProviderError("Network Error: x", 0, nil).HasStatus())
	e := ProviderError("API Error: y", 500, nil)
	assert.True(t, e.HasStatus())
	assert.Equal(t, 500, *e.Status)
}
