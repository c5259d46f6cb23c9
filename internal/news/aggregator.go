// Package news fetches and merges the configured RSS feeds into a bounded
// headline list for the ticker.
package news

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/kioskdash/kioskdash/internal/config"
	"github.com/kioskdash/kioskdash/internal/fetch"
)

const summaryLimit = 200

// Item is one headline for the ticker.
type Item struct {
	Source    string     `json:"source"`
	Title     string     `json:"title"`
	Link      string     `json:"link"`
	Published *time.Time `json:"published,omitempty"`
	Summary   string     `json:"summary,omitempty"`
}

// Aggregator fetches all configured feeds in configuration order.
type Aggregator struct {
	feeds        []config.Feed
	itemsPerFeed int
	parser       *gofeed.Parser
}

// NewAggregator creates an Aggregator over the configured feeds.
func NewAggregator(httpClient *http.Client, feeds []config.Feed, itemsPerFeed int) *Aggregator {
	parser := gofeed.NewParser()
	parser.Client = httpClient
	return &Aggregator{
		feeds:        feeds,
		itemsPerFeed: itemsPerFeed,
		parser:       parser,
	}
}

// FetchAll fetches up to itemsPerFeed most-recent items from each feed.
// Feeds are independent: one feed's failure removes only its contribution.
// Output stays in feed-configuration order so the ticker is deterministic.
// The result is a fallback (two canned items) only when no feeds are
// configured or every feed fails.
func (a *Aggregator) FetchAll(ctx context.Context) fetch.Result[[]Item] {
	return fetch.Guard("news", cannedItems(), func() ([]Item, error) {
		if len(a.feeds) == 0 {
			return nil, fmt.Errorf("no RSS feeds configured")
		}

		var all []Item
		var failures []string

		for _, feed := range a.feeds {
			log.Printf("INFO: fetching RSS feed %s", feed.Label)

			parsed, err := a.parser.ParseURLWithContext(feed.URL, ctx)
			if err != nil {
				log.Printf("WARN: RSS feed %s failed: %v", feed.Label, err)
				failures = append(failures, fmt.Sprintf("%s: %v", feed.Label, err))
				continue
			}

			for i, entry := range parsed.Items {
				if i >= a.itemsPerFeed {
					break
				}
				all = append(all, convertItem(feed.Label, entry))
			}
		}

		if len(failures) == len(a.feeds) {
			return nil, fmt.Errorf("all RSS feeds failed: %s", strings.Join(failures, "; "))
		}
		return all, nil
	})
}

func convertItem(source string, entry *gofeed.Item) Item {
	item := Item{
		Source: source,
		Title:  entry.Title,
		Link:   entry.Link,
	}
	if item.Link == "" {
		item.Link = "#"
	}
	if entry.PublishedParsed != nil {
		item.Published = entry.PublishedParsed
	}
	if entry.Description != "" {
		item.Summary = truncate(entry.Description, summaryLimit)
	}
	return item
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}

// cannedItems is the two-headline fallback used when nothing could be
// fetched; the ticker still has something to scroll.
func cannedItems() []Item {
	return []Item{
		{Source: "Dashboard", Title: "News feeds are currently unavailable", Link: "#"},
		{Source: "Dashboard", Title: "Check the network connection and feed configuration", Link: "#"},
	}
}
