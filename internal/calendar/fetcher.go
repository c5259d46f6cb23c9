// Package calendar fetches events from Google Calendar, caches the OAuth
// token on disk, and lays events out into week and month grids.
package calendar

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/kioskdash/kioskdash/internal/fetch"
)

// ErrAuthRequired is returned when no usable token exists and the operator
// must run the interactive consent flow.
var ErrAuthRequired = errors.New("calendar authorization required")

// Fetcher retrieves events from one or more Google calendars.
type Fetcher struct {
	oauth       *oauth2.Config
	cache       *TokenCache
	calendarIDs []string
	maxEvents   int64
	tz          *time.Location

	// extraOpts lets tests point the calendar service at a local server.
	extraOpts []option.ClientOption
}

// NewFetcher creates a Fetcher for the given OAuth client and calendar IDs.
func NewFetcher(clientID, clientSecret string, calendarIDs []string, cache *TokenCache, maxEvents int, tz *time.Location, extraOpts ...option.ClientOption) *Fetcher {
	var conf *oauth2.Config
	if clientID != "" && clientSecret != "" {
		conf = &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			Endpoint:     google.Endpoint,
			RedirectURL:  "http://localhost:8081/callback",
			Scopes:       []string{gcal.CalendarReadonlyScope},
		}
	}
	return &Fetcher{
		oauth:       conf,
		cache:       cache,
		calendarIDs: calendarIDs,
		maxEvents:   int64(maxEvents),
		tz:          tz,
		extraOpts:   extraOpts,
	}
}

// AuthURL returns the consent URL the operator must visit to authorize the
// dashboard. The consent flow itself is an external concern; this is the
// hand-off point.
func (f *Fetcher) AuthURL() string {
	if f.oauth == nil {
		return ""
	}
	return f.oauth.AuthCodeURL("state", oauth2.AccessTypeOffline, oauth2.ApprovalForce)
}

// Exchange trades an authorization code for a token and persists it.
func (f *Fetcher) Exchange(ctx context.Context, code string) error {
	if f.oauth == nil {
		return fmt.Errorf("calendar oauth client is not configured")
	}
	token, err := f.oauth.Exchange(ctx, code)
	if err != nil {
		return fmt.Errorf("exchange auth code: %w", err)
	}
	return f.cache.Save(token)
}

// Authenticate loads the cached token and silently refreshes it when
// expired, persisting the refreshed token. A failed refresh deletes the
// cache so the next invocation re-triggers the consent flow; the current
// invocation degrades to mock data.
func (f *Fetcher) Authenticate(ctx context.Context) (oauth2.TokenSource, error) {
	if f.oauth == nil {
		return nil, fmt.Errorf("calendar oauth client is not configured")
	}

	token, err := f.cache.Load()
	if err != nil {
		return nil, err
	}
	if token == nil {
		return nil, fmt.Errorf("%w: visit %s", ErrAuthRequired, f.AuthURL())
	}

	source := f.oauth.TokenSource(ctx, token)
	fresh, err := source.Token()
	if err != nil {
		if delErr := f.cache.Delete(); delErr != nil {
			log.Printf("WARN: failed to clear stale token cache: %v", delErr)
		}
		return nil, fmt.Errorf("token refresh failed, cache cleared: %w", err)
	}

	if fresh.AccessToken != token.AccessToken {
		if err := f.cache.Save(fresh); err != nil {
			// Still have a valid token in memory; log and carry on.
			log.Printf("WARN: failed to persist refreshed token: %v", err)
		}
	}

	return source, nil
}

// FetchEvents queries each configured calendar independently over the given
// time range. Per-calendar failures only remove that calendar's events; the
// result degrades to mock data only when authentication fails or every
// calendar fails.
func (f *Fetcher) FetchEvents(ctx context.Context, start, end time.Time) fetch.Result[[]Event] {
	mock := MockEvents(time.Now().In(f.tz))

	return fetch.Guard("calendar", mock, func() ([]Event, error) {
		if f.oauth == nil && len(f.extraOpts) == 0 {
			return nil, fmt.Errorf("calendar oauth client is not configured")
		}
		if len(f.calendarIDs) == 0 {
			return nil, fmt.Errorf("no calendar ids configured")
		}

		opts := f.extraOpts
		if f.oauth != nil {
			source, err := f.Authenticate(ctx)
			if err != nil {
				return nil, err
			}
			opts = append([]option.ClientOption{option.WithTokenSource(source)}, f.extraOpts...)
		}

		srv, err := gcal.NewService(ctx, opts...)
		if err != nil {
			return nil, fmt.Errorf("create calendar service: %w", err)
		}

		var all []Event
		var failures []string

		for _, calID := range f.calendarIDs {
			call := srv.Events.List(calID).
				TimeMin(start.Format(time.RFC3339)).
				TimeMax(end.Format(time.RFC3339)).
				SingleEvents(true).
				OrderBy("startTime").
				Context(ctx)
			if f.maxEvents > 0 {
				call = call.MaxResults(f.maxEvents)
			}

			events, err := call.Do()
			if err != nil {
				log.Printf("WARN: calendar %s fetch failed: %v", calID, err)
				failures = append(failures, fmt.Sprintf("calendar %s: %v", calID, err))
				continue
			}

			for _, item := range events.Items {
				if item.Status == "cancelled" {
					continue
				}
				ev, err := f.convertEvent(calID, item)
				if err != nil {
					log.Printf("WARN: skipping malformed event in %s: %v", calID, err)
					continue
				}
				all = append(all, ev)
			}
		}

		if len(failures) == len(f.calendarIDs) {
			return nil, fmt.Errorf("all calendars failed: %s", strings.Join(failures, "; "))
		}
		return all, nil
	})
}

// convertEvent normalizes one API event. Date-only starts mark all-day
// events; malformed timestamps are a malformed-response failure for this
// event only.
func (f *Fetcher) convertEvent(calID string, item *gcal.Event) (Event, error) {
	ev := Event{
		Title:      item.Summary,
		Location:   item.Location,
		CalendarID: calID,
	}

	switch {
	case item.Start == nil:
		return Event{}, fmt.Errorf("event %q has no start", item.Summary)
	case item.Start.Date != "":
		start, err := time.ParseInLocation("2006-01-02", item.Start.Date, f.tz)
		if err != nil {
			return Event{}, fmt.Errorf("event %q: bad all-day start: %w", item.Summary, err)
		}
		ev.Start = start
		ev.AllDay = true
	default:
		start, err := time.Parse(time.RFC3339, item.Start.DateTime)
		if err != nil {
			return Event{}, fmt.Errorf("event %q: bad start time: %w", item.Summary, err)
		}
		ev.Start = start.In(f.tz)

		if item.End != nil && item.End.DateTime != "" {
			end, err := time.Parse(time.RFC3339, item.End.DateTime)
			if err != nil {
				return Event{}, fmt.Errorf("event %q: bad end time: %w", item.Summary, err)
			}
			local := end.In(f.tz)
			ev.End = &local
		}
	}

	ev.DayOfWeek = ev.Start.Format("Monday")
	return ev, nil
}
