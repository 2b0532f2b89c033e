package httpapi

import (
	"math"

	"github.com/MrCroatia/weatherapp/internal/store"
	"github.com/MrCroatia/weatherapp/internal/weather"
)

// StateView is the store state plus everything derived from it.
type StateView struct {
	store.State

	IsLoading                   bool   `json:"isLoading"`
	IsSearching                 bool   `json:"isSearching"`
	HasCurrentWeather           bool   `json:"hasCurrentWeather"`
	HasForecast                 bool   `json:"hasForecast"`
	HasError                    bool   `json:"hasError"`
	TemperatureUnit             string `json:"temperatureUnit"`
	FormattedCurrentTemperature string `json:"formattedCurrentTemperature"`
	FormattedFeelsLike          string `json:"formattedFeelsLike"`

	Display *Display `json:"display,omitempty"`
}

// Display holds ready-to-render strings for the loaded weather.
type Display struct {
	ObservedAt string         `json:"observedAt,omitempty"`
	Icon       string         `json:"icon,omitempty"`
	Summary    string         `json:"summary,omitempty"`
	Hourly     []DisplayEntry `json:"hourly,omitempty"`
	Daily      []DisplayEntry `json:"daily,omitempty"`
}

// DisplayEntry is one hourly or daily forecast slot.
type DisplayEntry struct {
	Label   string `json:"label"`
	Icon    string `json:"icon,omitempty"`
	Temp    string `json:"temp"`
	Min     string `json:"min,omitempty"`
	Max     string `json:"max,omitempty"`
	PopPct  int    `json:"popPercent"`
	Sunrise string `json:"sunrise,omitempty"`
	Sunset  string `json:"sunset,omitempty"`
}

// NewStateView derives the view from a snapshot.
func NewStateView(st store.State) StateView {
	v := StateView{
		State:                       st,
		IsLoading:                   st.IsLoading(),
		IsSearching:                 st.IsSearching(),
		HasCurrentWeather:           st.HasCurrentWeather(),
		HasForecast:                 st.HasForecast(),
		HasError:                    st.HasError(),
		TemperatureUnit:             st.TemperatureUnit(),
		FormattedCurrentTemperature: st.FormattedCurrentTemperature(),
		FormattedFeelsLike:          st.FormattedFeelsLike(),
	}
	if st.CurrentWeather == nil && st.Forecast == nil {
		return v
	}

	d := &Display{}
	if cw := st.CurrentWeather; cw != nil {
		d.ObservedAt = weather.FormatDate(cw.Dt, weather.DateFull)
		if len(cw.Weather) > 0 {
			d.Icon = weather.IconURL(cw.Weather[0].Icon)
			d.Summary = cw.Weather[0].Description
		}
	}
	if fc := st.Forecast; fc != nil {
		for _, h := range fc.Hourly {
			d.Hourly = append(d.Hourly, DisplayEntry{
				Label:  weather.FormatDate(h.Dt, weather.DateTime),
				Icon:   firstIcon(h.Weather),
				Temp:   weather.Present(h.Temp, st.Unit),
				PopPct: popPercent(h.Pop),
			})
		}
		for _, day := range fc.Daily {
			d.Daily = append(d.Daily, DisplayEntry{
				Label:   weather.FormatDate(day.Dt, weather.DateDay),
				Icon:    firstIcon(day.Weather),
				Temp:    weather.Present(day.Temp, st.Unit),
				Min:     weather.Present(day.TempMin, st.Unit),
				Max:     weather.Present(day.TempMax, st.Unit),
				PopPct:  popPercent(day.Pop),
				Sunrise: weather.FormatDate(day.Sunrise, weather.DateTime),
				Sunset:  weather.FormatDate(day.Sunset, weather.DateTime),
			})
		}
	}
	v.Display = d
	return v
}

func firstIcon(conds []weather.Condition) string {
	if len(conds) == 0 {
		return ""
	}
	return weather.IconURL(conds[0].Icon)
}

func popPercent(pop float64) int {
	return int(math.Round(pop * 100))
}
