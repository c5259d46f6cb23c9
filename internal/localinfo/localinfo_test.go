package localinfo

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestComputeTrafficRushHour(t *testing.T) {
	rush := time.Date(2024, 5, 6, 8, 15, 0, 0, time.UTC)    // Monday morning
	offPeak := time.Date(2024, 5, 6, 11, 0, 0, 0, time.UTC) // Monday midday
	weekend := time.Date(2024, 5, 4, 8, 15, 0, 0, time.UTC) // Saturday morning

	for _, route := range ComputeTraffic(rush) {
		if route.Status != "heavy" {
			t.Errorf("weekday rush route %s status = %q, want heavy", route.Name, route.Status)
		}
	}
	for _, route := range ComputeTraffic(offPeak) {
		if route.Status != "clear" {
			t.Errorf("off-peak route %s status = %q, want clear", route.Name, route.Status)
		}
	}
	for _, route := range ComputeTraffic(weekend) {
		if route.Status != "clear" {
			t.Errorf("weekend route %s status = %q, want clear", route.Name, route.Status)
		}
	}
}

func TestComputeTrafficDeterministic(t *testing.T) {
	now := time.Date(2024, 5, 6, 17, 30, 0, 0, time.UTC)
	if diff := cmp.Diff(ComputeTraffic(now), ComputeTraffic(now)); diff != "" {
		t.Errorf("traffic not deterministic for fixed now:\n%s", diff)
	}
}

func TestComputeTrafficEveningRush(t *testing.T) {
	evening := time.Date(2024, 5, 7, 16, 45, 0, 0, time.UTC) // Tuesday evening
	routes := ComputeTraffic(evening)
	if len(routes) == 0 {
		t.Fatal("no routes returned")
	}
	if routes[0].Status != "heavy" {
		t.Errorf("evening rush status = %q, want heavy", routes[0].Status)
	}
}

func TestComputeAirQualityFallbackBands(t *testing.T) {
	tests := []struct {
		name string
		now  time.Time
		aqi  int
	}{
		{"night", time.Date(2024, 5, 6, 3, 0, 0, 0, time.UTC), 1},
		{"weekday rush", time.Date(2024, 5, 6, 8, 0, 0, 0, time.UTC), 3},
		{"weekday midday", time.Date(2024, 5, 6, 13, 0, 0, 0, time.UTC), 2},
		{"weekend morning", time.Date(2024, 5, 5, 8, 0, 0, 0, time.UTC), 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeAirQualityFallback(tt.now)
			if got.AQI != tt.aqi {
				t.Errorf("AQI = %d, want %d", got.AQI, tt.aqi)
			}
			if got.Status == "" {
				t.Error("status label missing")
			}
		})
	}
}
