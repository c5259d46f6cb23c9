package weather

import (
	"math"
	"strings"
	"time"
)

// Snapshot is the normalized weather view handed to the render context.
// Field names mirror the template's expectations.
type Snapshot struct {
	Temp        int     `json:"temp"`
	FeelsLike   int     `json:"feels_like"`
	Description string  `json:"description"`
	Icon        string  `json:"icon"`
	Humidity    int     `json:"humidity"`
	WindSpeed   float64 `json:"wind_speed"`
	WindDir     string  `json:"wind_dir"`

	Sunrise time.Time `json:"sunrise"`
	Sunset  time.Time `json:"sunset"`

	// UVIndex is on the standard 0-11+ scale; derived when the API does not
	// supply it.
	UVIndex float64 `json:"uv_index"`

	AirQuality AirQuality `json:"air_quality"`

	Forecast []ForecastDay `json:"forecast"`
	Hourly   []HourlyPoint `json:"hourly,omitempty"`

	// SunPosition is the percentage 0-100 along the sunrise-to-sunset arc.
	SunPosition float64 `json:"sun_position"`
}

// ForecastDay is one reduced day of the 5-day forecast: the high/low across
// that day's 3-hour buckets plus a representative icon.
type ForecastDay struct {
	Day  string    `json:"day"` // short weekday name, e.g. "Tue"
	Date time.Time `json:"date"`
	High int       `json:"high"`
	Low  int       `json:"low"`
	Icon string    `json:"icon"`
}

// HourlyPoint is one 3-hour bucket of the near-term forecast series.
type HourlyPoint struct {
	Time      string  `json:"time"` // "15:00" in the dashboard timezone
	Temp      int     `json:"temp"`
	WindSpeed float64 `json:"wind_speed"`
	Humidity  int     `json:"humidity"`
	RainProb  int     `json:"rain_probability"` // percent
}

// AirQuality is the 1-5 OpenWeather AQI band with a display label.
type AirQuality struct {
	AQI    int    `json:"aqi"`
	Status string `json:"status"`
}

var compassPoints = []string{"N", "NE", "E", "SE", "S", "SW", "W", "NW"}

// compassDirection maps wind degrees to an 8-point compass label.
func compassDirection(deg float64) string {
	for deg < 0 {
		deg += 360
	}
	idx := int((deg+22.5)/45) % 8
	return compassPoints[idx]
}

func round(f float64) int {
	return int(math.Round(f))
}

func roundTo1(f float64) float64 {
	return math.Round(f*10) / 10
}

// titleCase capitalizes each word of an API condition description
// ("light rain" -> "Light Rain").
func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// aqiStatus maps the OpenWeather 1-5 air quality index to a display label.
func aqiStatus(aqi int) string {
	switch aqi {
	case 1:
		return "Good"
	case 2:
		return "Fair"
	case 3:
		return "Moderate"
	case 4:
		return "Poor"
	case 5:
		return "Very Poor"
	default:
		return "Unknown"
	}
}
