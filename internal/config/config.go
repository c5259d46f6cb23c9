package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

var validate = validator.New()

// Feed is one configured RSS source. The order of Feeds is the display order
// of the news ticker, so configuration order must be preserved.
type Feed struct {
	Label string `validate:"required"`
	URL   string `validate:"required,url"`
}

// AppConfig is the full configuration surface, loaded once per invocation and
// passed explicitly into each fetcher. There are no ambient globals.
type AppConfig struct {
	// Weather.
	WeatherAPIKey  string
	Location       string `validate:"required"`
	Units          string `validate:"oneof=metric imperial"`
	Latitude       *float64
	Longitude      *float64
	GeocoderAPIKey string

	// Calendar.
	CalendarClientID     string
	CalendarClientSecret string
	CalendarIDs          []string
	TokenCachePath       string
	MaxEvents            int `validate:"min=1"`

	// News.
	Feeds        []Feed `validate:"dive"`
	ItemsPerFeed int    `validate:"min=1"`

	// LMS (optional; skipped entirely unless both are set).
	LMSBaseURL string
	LMSAPIKey  string

	// Generation.
	Timezone        *time.Location
	RefreshInterval time.Duration
	OutputDir       string `validate:"required"`
	HTTPTimeout     time.Duration

	// Serve mode.
	Port string
}

// Load reads configuration from environment with sensible defaults.
// Malformed values with no sensible fallback abort the invocation before any
// fetch begins; missing optional keys merely disable their section.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}

	cfg := &AppConfig{}

	cfg.WeatherAPIKey = os.Getenv("OPENWEATHER_API_KEY")
	cfg.Location = getenvDefault("DASHBOARD_LOCATION", "London,GB")
	cfg.Units = getenvDefault("DASHBOARD_UNITS", "metric")
	cfg.GeocoderAPIKey = os.Getenv("GEOCODER_API_KEY")

	if lat, lon, ok, err := loadCoordinates(); err != nil {
		return nil, err
	} else if ok {
		cfg.Latitude = &lat
		cfg.Longitude = &lon
	}

	cfg.CalendarClientID = os.Getenv("GOOGLE_CALENDAR_CLIENT_ID")
	cfg.CalendarClientSecret = os.Getenv("GOOGLE_CALENDAR_CLIENT_SECRET")
	if ids := os.Getenv("CALENDAR_IDS"); ids != "" {
		for _, id := range strings.Split(ids, ",") {
			if id = strings.TrimSpace(id); id != "" {
				cfg.CalendarIDs = append(cfg.CalendarIDs, id)
			}
		}
	}
	cfg.TokenCachePath = getenvDefault("TOKEN_CACHE_PATH", "token.json")
	cfg.MaxEvents = getenvInt("MAX_EVENTS", 10)

	feeds, err := parseFeeds(os.Getenv("RSS_FEEDS"))
	if err != nil {
		return nil, err
	}
	cfg.Feeds = feeds
	cfg.ItemsPerFeed = getenvInt("RSS_ITEMS_PER_FEED", 3)

	cfg.LMSBaseURL = os.Getenv("LMS_BASE_URL")
	cfg.LMSAPIKey = os.Getenv("LMS_API_KEY")

	tzName := getenvDefault("DASHBOARD_TIMEZONE", "Local")
	tz, err := time.LoadLocation(tzName)
	if err != nil {
		return nil, fmt.Errorf("invalid DASHBOARD_TIMEZONE %q: %w", tzName, err)
	}
	cfg.Timezone = tz

	// Refresh interval is configured in seconds; the kiosk default is 15 minutes.
	refreshSec := getenvInt("REFRESH_INTERVAL", 900)
	if refreshSec < 60 {
		return nil, fmt.Errorf("REFRESH_INTERVAL must be at least 60 seconds, got %d", refreshSec)
	}
	cfg.RefreshInterval = time.Duration(refreshSec) * time.Second

	cfg.OutputDir = getenvDefault("OUTPUT_DIR", "output")

	timeoutStr := getenvDefault("HTTP_TIMEOUT", "10s")
	timeout, err := time.ParseDuration(timeoutStr)
	if err != nil {
		return nil, fmt.Errorf("invalid HTTP_TIMEOUT: %w", err)
	}
	cfg.HTTPTimeout = timeout

	cfg.Port = getenvDefault("PORT", "8080")

	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// LMSEnabled reports whether the LMS section should be fetched at all.
// Missing credentials skip the section outright rather than degrading it.
func (c *AppConfig) LMSEnabled() bool {
	return c.LMSBaseURL != "" && c.LMSAPIKey != ""
}

// CalendarEnabled reports whether real calendar fetching is configured.
func (c *AppConfig) CalendarEnabled() bool {
	return c.CalendarClientID != "" && c.CalendarClientSecret != "" && len(c.CalendarIDs) > 0
}

// City returns the city part of the configured "City,CC" location string.
func (c *AppConfig) City() string {
	city, _, _ := strings.Cut(c.Location, ",")
	return strings.TrimSpace(city)
}

// Country returns the country part of the configured location, if any.
func (c *AppConfig) Country() string {
	_, country, _ := strings.Cut(c.Location, ",")
	return strings.TrimSpace(country)
}

func loadCoordinates() (lat, lon float64, ok bool, err error) {
	latStr := os.Getenv("DASHBOARD_LATITUDE")
	lonStr := os.Getenv("DASHBOARD_LONGITUDE")
	if latStr == "" && lonStr == "" {
		return 0, 0, false, nil
	}
	if latStr == "" || lonStr == "" {
		return 0, 0, false, fmt.Errorf("DASHBOARD_LATITUDE and DASHBOARD_LONGITUDE must be set together")
	}
	lat, err = strconv.ParseFloat(latStr, 64)
	if err != nil {
		return 0, 0, false, fmt.Errorf("invalid DASHBOARD_LATITUDE: %w", err)
	}
	lon, err = strconv.ParseFloat(lonStr, 64)
	if err != nil {
		return 0, 0, false, fmt.Errorf("invalid DASHBOARD_LONGITUDE: %w", err)
	}
	return lat, lon, true, nil
}

// parseFeeds parses "Label=URL;Label=URL" preserving configuration order.
func parseFeeds(raw string) ([]Feed, error) {
	if raw == "" {
		return nil, nil
	}
	var feeds []Feed
	for _, pair := range strings.Split(raw, ";") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		label, url, found := strings.Cut(pair, "=")
		if !found || strings.TrimSpace(label) == "" || strings.TrimSpace(url) == "" {
			return nil, fmt.Errorf("invalid RSS_FEEDS entry %q; expected Label=URL", pair)
		}
		feeds = append(feeds, Feed{Label: strings.TrimSpace(label), URL: strings.TrimSpace(url)})
	}
	return feeds, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}
