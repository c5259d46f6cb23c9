// Package dashboard runs the fetchers in a fixed sequence, merges their
// results into one flat render context, and renders it to the static page the
// kiosk browser displays.
package dashboard

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/kioskdash/kioskdash/internal/calendar"
	"github.com/kioskdash/kioskdash/internal/fetch"
	"github.com/kioskdash/kioskdash/internal/lms"
	"github.com/kioskdash/kioskdash/internal/localinfo"
	"github.com/kioskdash/kioskdash/internal/news"
	"github.com/kioskdash/kioskdash/internal/weather"
)

// Context is the flat render context handed to the template. Absent optional
// sections omit their key rather than carrying a null.
type Context map[string]any

// WeatherSource provides the weather section.
type WeatherSource interface {
	Fetch(ctx context.Context) fetch.Result[weather.Snapshot]
}

// CalendarSource provides calendar events over a time range.
type CalendarSource interface {
	FetchEvents(ctx context.Context, start, end time.Time) fetch.Result[[]calendar.Event]
}

// NewsSource provides the headline list.
type NewsSource interface {
	FetchAll(ctx context.Context) fetch.Result[[]news.Item]
}

// LMSSource provides the optional course-management section.
type LMSSource interface {
	FetchAll(ctx context.Context) fetch.Result[lms.Info]
}

// Generator is the aggregation orchestrator: the only component aware of all
// fetchers. It cannot fail; when every fetcher degrades the context is still
// well-formed and renderable.
type Generator struct {
	weather  WeatherSource
	calendar CalendarSource
	news     NewsSource
	lms      LMSSource // nil when the LMS section is not configured

	tz  *time.Location
	now func() time.Time
}

// NewGenerator wires the fetchers. lmsSource may be nil, which skips the
// section entirely (a no-op, not a fallback). now is injectable for tests.
func NewGenerator(w WeatherSource, c CalendarSource, n NewsSource, l LMSSource, tz *time.Location, now func() time.Time) *Generator {
	if now == nil {
		now = time.Now
	}
	return &Generator{weather: w, calendar: c, news: n, lms: l, tz: tz, now: now}
}

// Build runs the fetchers in a fixed sequence and assembles the render
// context. Fetchers are independently fault-isolated; no error propagates
// past this point.
func (g *Generator) Build(ctx context.Context) Context {
	now := g.now().In(g.tz)
	var degraded []string

	out := Context{
		"run_id":       uuid.NewString(),
		"generated_at": now,
		"last_updated": now.Format("15:04:05"),
	}

	wres := g.weather.Fetch(ctx)
	if wres.Fallback {
		degraded = append(degraded, "weather")
	}
	snap := wres.Data
	out["weather"] = snap
	out["forecast"] = snap.Forecast
	if len(snap.Hourly) > 0 {
		out["hourly"] = snap.Hourly
	}

	start, end := calendarRange(now)
	cres := g.calendar.FetchEvents(ctx, start, end)
	if cres.Fallback {
		degraded = append(degraded, "calendar")
	}
	out["week_events"] = calendar.BuildWeekStrip(cres.Data, now, g.tz)
	out["month_grid"] = calendar.BuildMonthGrid(cres.Data, now.Month(), now.Year(), now, g.tz)

	nres := g.news.FetchAll(ctx)
	if nres.Fallback {
		degraded = append(degraded, "news")
	}
	out["articles"] = nres.Data

	if g.lms != nil {
		lres := g.lms.FetchAll(ctx)
		if lres.Fallback {
			degraded = append(degraded, "lms")
		}
		out["lms"] = lres.Data
	}

	out["local_info"] = localinfo.Info{
		Traffic: localinfo.ComputeTraffic(now),
		AirQuality: localinfo.AirQuality{
			AQI:    snap.AirQuality.AQI,
			Status: snap.AirQuality.Status,
		},
		SunPosition: snap.SunPosition,
	}

	out["degraded"] = degraded
	return out
}

// calendarRange covers both the current month grid and the week strip, which
// can run past the end of the month.
func calendarRange(now time.Time) (start, end time.Time) {
	start = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	end = start.AddDate(0, 1, 0)
	if weekEnd := now.AddDate(0, 0, 7); weekEnd.After(end) {
		end = weekEnd
	}
	return start, end
}
