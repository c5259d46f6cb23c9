// Package weather fetches current conditions, forecast, and air quality from
// OpenWeatherMap and composes them into one snapshot with per-sub-call fault
// isolation.
package weather

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/kioskdash/kioskdash/internal/fetch"
)

// defaultLatitude backs UV derivation when no coordinates are known at all.
const defaultLatitude = 51.5

// Service composes the three weather sub-calls into one snapshot. Each
// sub-call is fault-isolated: the overall result degrades to a full fallback
// only when every sub-call fails, otherwise failed parts are filled from the
// mock generator and the result stays a success.
type Service struct {
	client *Client
	units  string

	// Configured or geocoded coordinates; when nil the coordinates resolved
	// by the current-conditions response are used for air quality and UV.
	lat, lon *float64

	now func() time.Time
}

// NewService creates a weather Service. now is injectable for tests.
func NewService(client *Client, lat, lon *float64, units string, now func() time.Time) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{client: client, units: units, lat: lat, lon: lon, now: now}
}

// Fetch retrieves and composes the weather section.
func (s *Service) Fetch(ctx context.Context) fetch.Result[Snapshot] {
	now := s.now()
	mock := MockSnapshot(now, s.units)

	return fetch.Guard("weather", mock, func() (Snapshot, error) {
		return s.compose(ctx, now, mock)
	})
}

func (s *Service) compose(ctx context.Context, now time.Time, snap Snapshot) (Snapshot, error) {
	cur, curErr := s.client.Current(ctx)
	days, hourly, fcErr := s.client.Forecast(ctx)

	lat, lon, haveCoords := s.coordinates(cur, curErr)

	var aq AirQuality
	var aqErr error
	if haveCoords {
		aq, aqErr = s.client.AirPollution(ctx, lat, lon)
	} else {
		aqErr = fmt.Errorf("no coordinates available for air quality")
	}

	if curErr != nil && fcErr != nil && aqErr != nil {
		reasons := []string{curErr.Error(), fcErr.Error(), aqErr.Error()}
		return Snapshot{}, fmt.Errorf("all weather sub-calls failed: %s", strings.Join(reasons, "; "))
	}

	if curErr == nil {
		snap.Temp = cur.Temp
		snap.FeelsLike = cur.FeelsLike
		snap.Description = cur.Description
		snap.Icon = cur.Icon
		snap.Humidity = cur.Humidity
		snap.WindSpeed = cur.WindSpeed
		snap.WindDir = cur.WindDir
		snap.Sunrise = cur.Sunrise
		snap.Sunset = cur.Sunset
	} else {
		log.Printf("WARN: weather current conditions failed, using mock fields: %v", curErr)
	}

	if fcErr == nil {
		snap.Forecast = days
		snap.Hourly = hourly
	} else {
		log.Printf("WARN: weather forecast failed, using mock fields: %v", fcErr)
	}

	if aqErr == nil {
		snap.AirQuality = aq
	} else {
		log.Printf("WARN: air quality failed, using mock fields: %v", aqErr)
	}

	latitude := defaultLatitude
	if haveCoords {
		latitude = lat
	}
	snap.UVIndex = DeriveUVIndex(now, latitude, snap.Sunrise, snap.Sunset)
	snap.SunPosition = ComputeSunPosition(now, snap.Sunrise, snap.Sunset)

	return snap, nil
}

func (s *Service) coordinates(cur current, curErr error) (lat, lon float64, ok bool) {
	if s.lat != nil && s.lon != nil {
		return *s.lat, *s.lon, true
	}
	if curErr == nil {
		return cur.Lat, cur.Lon, true
	}
	return 0, 0, false
}
