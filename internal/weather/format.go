package weather

import (
	"fmt"
	"math"
	"time"
)

const iconBaseURL = "https://openweathermap.org/img/wn/"

// IconURL returns the provider-hosted image for an icon code such as "10d".
func IconURL(icon string) string {
	return iconBaseURL + icon + "@2x.png"
}

// CelsiusToFahrenheit converts without rounding.
func CelsiusToFahrenheit(c float64) float64 {
	return c*9/5 + 32
}

// Round rounds to the nearest integer; halves go towards +Inf (-2.5 -> -2).
func Round(v float64) int {
	return int(math.Floor(v + 0.5))
}

// FormatTemperature renders a temperature already expressed in unit.
func FormatTemperature(temp float64, unit Unit) string {
	return fmt.Sprintf("%d°%s", Round(temp), unit.Symbol())
}

// FormatTemperatureASCII is FormatTemperature for terminals that cannot show
// the degree sign.
func FormatTemperatureASCII(temp float64, unit Unit) string {
	return fmt.Sprintf("%d deg %s", Round(temp), unit.Symbol())
}

// Present converts a stored Celsius value into unit and formats it.
func Present(celsius float64, unit Unit) string {
	if unit == UnitImperial {
		return FormatTemperature(CelsiusToFahrenheit(celsius), unit)
	}
	return FormatTemperature(celsius, unit)
}

// DateStyle selects one of the fixed date renderings.
type DateStyle string

const (
	DateFull DateStyle = "full" // Mon, Jan 2, 3:04 PM
	DateDay  DateStyle = "day"  // Mon
	DateTime DateStyle = "time" // 3 PM
)

// FormatDate renders a unix timestamp in the process's local time zone.
func FormatDate(unix int64, style DateStyle) string {
	return FormatDateIn(unix, style, time.Local)
}

// FormatDateIn renders a unix timestamp in loc.
func FormatDateIn(unix int64, style DateStyle, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	t := time.Unix(unix, 0).In(loc)
	switch style {
	case DateDay:
		return t.Format("Mon")
	case DateTime:
		return t.Format("3 PM")
	default:
		return t.Format("Mon, Jan 2, 3:04 PM")
	}
}
