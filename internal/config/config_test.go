package config

import (
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestLoadDefaults(t *testing.T) {
	// Clear anything a local .env might have injected.
	for _, key := range []string{
		"OPENWEATHER_API_KEY", "DASHBOARD_LOCATION", "DASHBOARD_UNITS",
		"DASHBOARD_TIMEZONE", "REFRESH_INTERVAL", "RSS_FEEDS", "CALENDAR_IDS",
		"LMS_BASE_URL", "LMS_API_KEY", "DASHBOARD_LATITUDE", "DASHBOARD_LONGITUDE",
	} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Location != "London,GB" {
		t.Errorf("Location = %q, want default", cfg.Location)
	}
	if cfg.Units != "metric" {
		t.Errorf("Units = %q, want metric", cfg.Units)
	}
	if cfg.RefreshInterval != 900*time.Second {
		t.Errorf("RefreshInterval = %v, want 900s", cfg.RefreshInterval)
	}
	if cfg.LMSEnabled() {
		t.Error("LMS must be disabled without credentials")
	}
	if cfg.CalendarEnabled() {
		t.Error("calendar must be disabled without credentials")
	}
}

func TestLoadRejectsBadTimezone(t *testing.T) {
	t.Setenv("DASHBOARD_TIMEZONE", "Not/AZone")
	if _, err := Load(); err == nil {
		t.Fatal("Load() accepted malformed timezone")
	}
}

func TestLoadRejectsShortRefreshInterval(t *testing.T) {
	t.Setenv("DASHBOARD_TIMEZONE", "")
	t.Setenv("REFRESH_INTERVAL", "5")
	if _, err := Load(); err == nil {
		t.Fatal("Load() accepted sub-minute refresh interval")
	}
}

func TestLoadRejectsBadUnits(t *testing.T) {
	t.Setenv("REFRESH_INTERVAL", "")
	t.Setenv("DASHBOARD_UNITS", "kelvin")
	if _, err := Load(); err == nil {
		t.Fatal("Load() accepted unknown unit system")
	}
}

func TestLoadRequiresPairedCoordinates(t *testing.T) {
	t.Setenv("DASHBOARD_UNITS", "")
	t.Setenv("DASHBOARD_LATITUDE", "51.5")
	t.Setenv("DASHBOARD_LONGITUDE", "")
	if _, err := Load(); err == nil {
		t.Fatal("Load() accepted latitude without longitude")
	}
}

func TestParseFeedsPreservesOrder(t *testing.T) {
	feeds, err := parseFeeds("BBC News=https://feeds.bbci.co.uk/news/rss.xml; Hacker News=https://news.ycombinator.com/rss")
	if err != nil {
		t.Fatalf("parseFeeds() error: %v", err)
	}

	want := []Feed{
		{Label: "BBC News", URL: "https://feeds.bbci.co.uk/news/rss.xml"},
		{Label: "Hacker News", URL: "https://news.ycombinator.com/rss"},
	}
	if diff := cmp.Diff(want, feeds); diff != "" {
		t.Errorf("parseFeeds() mismatch (-want +got):\n%s", diff)
	}
}

func TestParseFeedsRejectsMalformedEntry(t *testing.T) {
	for _, raw := range []string{"NoEquals", "=https://x.example", "Label="} {
		if _, err := parseFeeds(raw); err == nil {
			t.Errorf("parseFeeds(%q) accepted malformed entry", raw)
		}
	}
}

func TestCityCountrySplit(t *testing.T) {
	cfg := &AppConfig{Location: "Bristol, GB"}
	if cfg.City() != "Bristol" || cfg.Country() != "GB" {
		t.Errorf("split = %q/%q, want Bristol/GB", cfg.City(), cfg.Country())
	}

	cfg = &AppConfig{Location: "Springfield"}
	if cfg.City() != "Springfield" || cfg.Country() != "" {
		t.Errorf("split = %q/%q, want Springfield/empty", cfg.City(), cfg.Country())
	}
}

func TestCalendarIDsParsing(t *testing.T) {
	t.Setenv("DASHBOARD_LATITUDE", "")
	t.Setenv("DASHBOARD_LONGITUDE", "")
	t.Setenv("CALENDAR_IDS", "primary, family@group.calendar.google.com ,")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if len(cfg.CalendarIDs) != 2 {
		t.Fatalf("CalendarIDs = %v, want 2 entries", cfg.CalendarIDs)
	}
	if strings.ContainsAny(cfg.CalendarIDs[1], " ") {
		t.Errorf("calendar ID not trimmed: %q", cfg.CalendarIDs[1])
	}
}
