package weather

// GeoLocation is a resolved place: coordinates plus optional display name.
type GeoLocation struct {
	Lat     float64 `json:"lat" validate:"gte=-90,lte=90"`
	Lon     float64 `json:"lon" validate:"gte=-180,lte=180"`
	Name    string  `json:"name,omitempty"`
	Country string  `json:"country,omitempty"`
}

// Condition is passed through from the provider unchanged.
type Condition struct {
	ID          int    `json:"id"`
	Main        string `json:"main"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

// CurrentWeather holds observed conditions. Temperatures are always Celsius.
type CurrentWeather struct {
	Temp      float64     `json:"temp"`
	FeelsLike float64     `json:"feels_like"`
	Humidity  float64     `json:"humidity"`
	Pressure  float64     `json:"pressure"`
	WindSpeed float64     `json:"wind_speed"`
	Weather   []Condition `json:"weather"`
	Dt        int64       `json:"dt"` // unix seconds
	Name      string      `json:"name,omitempty"`
}

// ForecastItem is the part shared by hourly and daily entries.
type ForecastItem struct {
	Dt        int64       `json:"dt"`
	Temp      float64     `json:"temp"`
	FeelsLike float64     `json:"feels_like"`
	Weather   []Condition `json:"weather"`
	Pop       float64     `json:"pop"` // probability of precipitation, 0..1
}

type HourlyForecast struct {
	ForecastItem
}

type DailyForecast struct {
	ForecastItem
	TempMin float64 `json:"temp_min"`
	TempMax float64 `json:"temp_max"`
	Sunrise int64   `json:"sunrise"`
	Sunset  int64   `json:"sunset"`
}

// WeatherForecast is ordered by time ascending, as returned upstream.
type WeatherForecast struct {
	Hourly []HourlyForecast `json:"hourly"`
	Daily  []DailyForecast  `json:"daily"`
}

const (
	// MaxHourly and MaxDaily cap the forecast lists.
	MaxHourly = 24
	MaxDaily  = 7

	// GeocodeLimit is the number of candidates requested per lookup.
	GeocodeLimit = 5
)

// Unit selects how temperatures are presented. Storage is always metric.
type Unit string

const (
	UnitMetric   Unit = "metric"
	UnitImperial Unit = "imperial"
)

// Toggle returns the other unit.
func (u Unit) Toggle() Unit {
	if u == UnitImperial {
		return UnitMetric
	}
	return UnitImperial
}

// Symbol returns the temperature scale letter.
func (u Unit) Symbol() string {
	if u == UnitImperial {
		return "F"
	}
	return "C"
}
