package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/kelvins/geocoder"

	"github.com/kioskdash/kioskdash/internal/calendar"
	"github.com/kioskdash/kioskdash/internal/config"
	"github.com/kioskdash/kioskdash/internal/dashboard"
	"github.com/kioskdash/kioskdash/internal/lms"
	"github.com/kioskdash/kioskdash/internal/news"
	"github.com/kioskdash/kioskdash/internal/scheduler"
	"github.com/kioskdash/kioskdash/internal/server"
	"github.com/kioskdash/kioskdash/internal/store"
	"github.com/kioskdash/kioskdash/internal/weather"
)

func main() {
	once := flag.Bool("once", false, "generate the dashboard once and exit")
	authCode := flag.String("auth-code", "", "exchange a calendar authorization code for a token and exit")
	flag.Parse()

	// Configuration errors are the only fatal class; everything past this
	// point degrades instead of failing.
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Shared HTTP client for outbound fetcher calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	resolveCoordinates(cfg)

	weatherSvc := weather.NewService(
		weather.NewClient(httpClient, cfg.WeatherAPIKey, cfg.Location, cfg.Units, cfg.Timezone),
		cfg.Latitude, cfg.Longitude, cfg.Units, nil,
	)

	if !cfg.CalendarEnabled() {
		log.Println("INFO: calendar not configured; using sample events")
	}
	tokenCache := calendar.NewTokenCache(cfg.TokenCachePath)
	calendarFetcher := calendar.NewFetcher(
		cfg.CalendarClientID, cfg.CalendarClientSecret,
		cfg.CalendarIDs, tokenCache, cfg.MaxEvents, cfg.Timezone,
	)

	if *authCode != "" {
		if err := calendarFetcher.Exchange(context.Background(), *authCode); err != nil {
			log.Fatalf("failed to exchange authorization code: %v", err)
		}
		log.Println("INFO: calendar token saved")
		return
	}

	newsAgg := news.NewAggregator(httpClient, cfg.Feeds, cfg.ItemsPerFeed)

	var lmsSource dashboard.LMSSource
	if cfg.LMSEnabled() {
		lmsSource = lms.NewClient(httpClient, cfg.LMSBaseURL, cfg.LMSAPIKey)
	} else {
		log.Println("INFO: LMS not configured; skipping section")
	}

	generator := dashboard.NewGenerator(weatherSvc, calendarFetcher, newsAgg, lmsSource, cfg.Timezone, nil)

	renderer, err := dashboard.NewRenderer(cfg.OutputDir)
	if err != nil {
		log.Fatalf("failed to prepare renderer: %v", err)
	}

	contexts := store.NewContextStore(24)

	generate := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()

		built := generator.Build(ctx)
		if err := renderer.Render(built); err != nil {
			log.Printf("ERROR: render failed: %v", err)
			return
		}

		runID, _ := built["run_id"].(string)
		contexts.Save(store.Generation{
			RunID:   runID,
			At:      time.Now().UTC(),
			Context: built,
		})
		log.Printf("INFO: dashboard generated (run %s)", runID)
	}

	if *once {
		generate()
		return
	}

	sched := scheduler.New(cfg.RefreshInterval, generate)
	if err := sched.Start(); err != nil {
		log.Fatalf("failed to start scheduler: %v", err)
	}
	defer sched.Stop()

	app := server.New(contexts, cfg.OutputDir)
	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Printf("fiber server stopped: %v", err)
		}
	}()

	// Wait for termination signal.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("error during shutdown: %v", err)
	}
}

// resolveCoordinates fills in latitude/longitude for UV and air quality when
// not configured directly: geocode the location string if a geocoder key is
// present, otherwise leave them nil and let the weather response supply them.
func resolveCoordinates(cfg *config.AppConfig) {
	if cfg.Latitude != nil && cfg.Longitude != nil {
		return
	}
	if cfg.GeocoderAPIKey == "" {
		return
	}

	geocoder.ApiKey = cfg.GeocoderAPIKey
	loc, err := geocoder.Geocoding(geocoder.Address{
		City:    cfg.City(),
		Country: cfg.Country(),
	})
	if err != nil {
		log.Printf("WARN: geocoding %q failed: %v", cfg.Location, err)
		return
	}

	lat, lon := loc.Latitude, loc.Longitude
	cfg.Latitude = &lat
	cfg.Longitude = &lon
	log.Printf("INFO: resolved %s to %.4f,%.4f", cfg.Location, lat, lon)
}
