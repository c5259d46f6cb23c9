package weather

import (
	"math"
	"time"
)

// maxUVIndex caps the derived index at the top of the standard scale.
const maxUVIndex = 11.0

// ComputeSunPosition returns the percentage of the sunrise-to-sunset arc that
// now has covered, clamped to [0,100]. Before sunrise the arc reads 0, after
// sunset 100; the arc does not wrap into the next day.
func ComputeSunPosition(now, sunrise, sunset time.Time) float64 {
	if !sunset.After(sunrise) {
		return 0
	}
	if now.Before(sunrise) {
		return 0
	}
	if now.After(sunset) {
		return 100
	}
	elapsed := now.Sub(sunrise).Seconds()
	daylight := sunset.Sub(sunrise).Seconds()
	return elapsed / daylight * 100
}

// DeriveUVIndex synthesizes a UV index for times when the API supplies none:
// a cosine curve peaking at solar noon (the midpoint of sunrise and sunset),
// scaled by the seasonal noon peak for the given latitude, and zero outside
// daylight hours.
func DeriveUVIndex(t time.Time, latitude float64, sunrise, sunset time.Time) float64 {
	if !sunset.After(sunrise) {
		return 0
	}
	if t.Before(sunrise) || t.After(sunset) {
		return 0
	}

	noon := sunrise.Add(sunset.Sub(sunrise) / 2)
	half := sunset.Sub(sunrise).Seconds() / 2
	frac := math.Abs(t.Sub(noon).Seconds()) / half
	if frac > 1 {
		frac = 1
	}
	curve := math.Cos(frac * math.Pi / 2)

	uv := seasonalPeakUV(t.YearDay(), latitude) * curve
	return math.Round(uv*10) / 10
}

// seasonalPeakUV estimates the solar-noon UV peak for a day of year and
// latitude from the sun's noon elevation. Summer months score higher in the
// northern hemisphere and lower in the southern, falling out of the
// declination term rather than being special-cased.
func seasonalPeakUV(dayOfYear int, latitude float64) float64 {
	// Approximate solar declination in degrees.
	decl := 23.44 * math.Sin(2*math.Pi*float64(284+dayOfYear)/365)
	elevation := 90 - math.Abs(latitude-decl)
	if elevation <= 0 {
		return 0
	}
	peak := maxUVIndex * math.Sin(elevation*math.Pi/180)
	if peak < 0 {
		return 0
	}
	if peak > maxUVIndex {
		return maxUVIndex
	}
	return peak
}
