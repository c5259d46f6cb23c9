package store

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/kioskdash/kioskdash/internal/dashboard"
)

func TestContextStoreLatestAndRetention(t *testing.T) {
	s := NewContextStore(3)

	if _, err := s.Latest(); !errors.Is(err, ErrEmpty) {
		t.Fatalf("Latest() on empty store error = %v, want ErrEmpty", err)
	}

	for i := 0; i < 5; i++ {
		s.Save(Generation{
			RunID:   fmt.Sprintf("run-%d", i),
			At:      time.Date(2024, 5, 6, 10, i, 0, 0, time.UTC),
			Context: dashboard.Context{"last_updated": fmt.Sprintf("10:%02d", i)},
		})
	}

	latest, err := s.Latest()
	if err != nil {
		t.Fatalf("Latest() error: %v", err)
	}
	if latest.RunID != "run-4" {
		t.Errorf("Latest().RunID = %q, want run-4", latest.RunID)
	}

	history := s.History()
	if len(history) != 3 {
		t.Fatalf("history length = %d, want 3 after retention", len(history))
	}
	if history[0].RunID != "run-2" {
		t.Errorf("oldest retained = %q, want run-2", history[0].RunID)
	}
}
