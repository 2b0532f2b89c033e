package store

import (
	"github.com/MrCroatia/weatherapp/internal/weather"
)

// Loading holds one flag per kind of in-flight operation.
// Weather and Forecast are always set and cleared together.
type Loading struct {
	Location bool `json:"location"`
	Weather  bool `json:"weather"`
	Forecast bool `json:"forecast"`
	Search   bool `json:"search"`
}

// State is everything presentation code can observe.
type State struct {
	CurrentLocation *weather.GeoLocation     `json:"currentLocation"`
	CurrentWeather  *weather.CurrentWeather  `json:"currentWeather"`
	Forecast        *weather.WeatherForecast `json:"forecast"`
	SearchResults   []weather.GeoLocation    `json:"searchResults"`
	SearchQuery     string                   `json:"searchQuery"`
	Loading         Loading                  `json:"loading"`
	Error           *string                  `json:"error"`
	Unit            weather.Unit             `json:"unit"`
}

func initialState(unit weather.Unit) State {
	if unit != weather.UnitImperial {
		unit = weather.UnitMetric
	}
	return State{
		SearchResults: []weather.GeoLocation{},
		Unit:          unit,
	}
}

// clone copies everything a later mutation could touch.
// Forecast is replaced wholesale, never edited, so it is shared.
func (s State) clone() State {
	out := s
	if s.CurrentLocation != nil {
		loc := *s.CurrentLocation
		out.CurrentLocation = &loc
	}
	if s.CurrentWeather != nil {
		cw := *s.CurrentWeather
		cw.Weather = append([]weather.Condition(nil), s.CurrentWeather.Weather...)
		out.CurrentWeather = &cw
	}
	out.SearchResults = append(make([]weather.GeoLocation, 0, len(s.SearchResults)), s.SearchResults...)
	return out
}

// IsLoading covers location and weather work. Search is reported separately
// by IsSearching.
func (s State) IsLoading() bool {
	return s.Loading.Location || s.Loading.Weather || s.Loading.Forecast
}

// IsSearching reports an in-flight location search.
func (s State) IsSearching() bool {
	return s.Loading.Search
}

// HasCurrentWeather reports whether current conditions have been loaded.
func (s State) HasCurrentWeather() bool {
	return s.CurrentWeather != nil
}

// HasForecast reports whether a forecast has been loaded.
func (s State) HasForecast() bool {
	return s.Forecast != nil
}

// HasError reports whether the last failed action left a message.
func (s State) HasError() bool {
	return s.Error != nil
}

// TemperatureUnit is "C" or "F".
func (s State) TemperatureUnit() string {
	return s.Unit.Symbol()
}

// FormattedCurrentTemperature is empty until weather has been loaded.
func (s State) FormattedCurrentTemperature() string {
	if s.CurrentWeather == nil {
		return ""
	}
	return weather.Present(s.CurrentWeather.Temp, s.Unit)
}

func (s State) FormattedFeelsLike() string {
	if s.CurrentWeather == nil {
		return ""
	}
	return weather.Present(s.CurrentWeather.FeelsLike, s.Unit)
}
