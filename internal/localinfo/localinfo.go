// Package localinfo synthesizes local data the dashboard has no real feed
// for: commute traffic and an air-quality fallback band. Everything here is a
// pure function of the clock, which keeps the output deterministic in tests
// and plausible on the page.
package localinfo

import (
	"strconv"
	"time"
)

// Route is one commute route's synthesized status.
type Route struct {
	Name     string `json:"name"`
	Duration string `json:"duration"`
	Status   string `json:"status"`
}

// AirQuality is the synthesized AQI band.
type AirQuality struct {
	AQI    int    `json:"aqi"`
	Status string `json:"status"`
}

// Info is the local-info section of the render context.
type Info struct {
	Traffic     []Route    `json:"traffic"`
	AirQuality  AirQuality `json:"air_quality"`
	SunPosition float64    `json:"sun_position"`
}

// routeProfile describes one commute route's off-peak baseline.
type routeProfile struct {
	name    string
	baseMin int
}

var routes = []routeProfile{
	{name: "City Centre via A-road", baseMin: 18},
	{name: "Ring Road", baseMin: 24},
	{name: "School Run", baseMin: 9},
}

// ComputeTraffic synthesizes route statuses for the given time. Weekday rush
// hours (7-9 and 16-18 local) run slower and flag as heavy; weekends stay
// clear.
func ComputeTraffic(now time.Time) []Route {
	rush := isRushHour(now)

	out := make([]Route, 0, len(routes))
	for _, r := range routes {
		minutes := r.baseMin
		status := "clear"
		if rush {
			minutes = r.baseMin + r.baseMin/2
			status = "heavy"
		}
		out = append(out, Route{
			Name:     r.name,
			Duration: formatMinutes(minutes),
			Status:   status,
		})
	}
	return out
}

// ComputeAirQualityFallback produces a plausible AQI band when the real air
// quality source is unavailable: slightly worse during weekday rush hours.
func ComputeAirQualityFallback(now time.Time) AirQuality {
	if isRushHour(now) {
		return AirQuality{AQI: 3, Status: "Moderate"}
	}
	if h := now.Hour(); h >= 22 || h < 6 {
		return AirQuality{AQI: 1, Status: "Good"}
	}
	return AirQuality{AQI: 2, Status: "Fair"}
}

func isRushHour(now time.Time) bool {
	wd := now.Weekday()
	if wd == time.Saturday || wd == time.Sunday {
		return false
	}
	h := now.Hour()
	return (h >= 7 && h < 9) || (h >= 16 && h < 18)
}

func formatMinutes(m int) string {
	return strconv.Itoa(m) + " min"
}
