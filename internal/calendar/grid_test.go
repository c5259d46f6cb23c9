package calendar

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestBuildMonthGridLeapFebruary(t *testing.T) {
	now := time.Date(2024, 2, 14, 10, 0, 0, 0, time.UTC)
	grid := BuildMonthGrid(nil, time.February, 2024, now, time.UTC)

	if len(grid.Weeks) != 6 {
		t.Fatalf("weeks = %d, want 6", len(grid.Weeks))
	}

	var cells, currentMonth, todays int
	for _, week := range grid.Weeks {
		if len(week) != 7 {
			t.Fatalf("week has %d cells, want 7", len(week))
		}
		for _, cell := range week {
			cells++
			if !cell.OtherMonth {
				currentMonth++
			}
			if cell.IsToday {
				todays++
			}
		}
	}

	if cells != 42 {
		t.Errorf("cells = %d, want 42", cells)
	}
	if currentMonth != 29 {
		t.Errorf("current-month cells = %d, want 29 (leap February)", currentMonth)
	}
	if todays != 1 {
		t.Errorf("IsToday cells = %d, want exactly 1", todays)
	}

	// February 2024 starts on a Thursday; the Sunday-first grid leads with
	// four January cells.
	first := grid.Weeks[0][0]
	if !first.OtherMonth || first.DayNumber != 28 {
		t.Errorf("first cell = %d otherMonth=%v, want Jan 28", first.DayNumber, first.OtherMonth)
	}
}

func TestBuildMonthGridAdjacentDaysCarryNoEvents(t *testing.T) {
	// An event on Jan 28 must not appear in February's leading cell.
	start := time.Date(2024, 1, 28, 9, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)
	events := []Event{{Title: "Spillover", Start: start, End: &end, CalendarID: "a"}}

	now := time.Date(2024, 2, 14, 10, 0, 0, 0, time.UTC)
	grid := BuildMonthGrid(events, time.February, 2024, now, time.UTC)

	first := grid.Weeks[0][0]
	if len(first.AllDayEvents) != 0 || len(first.TimedEvents) != 0 {
		t.Errorf("other-month cell carries events: %+v", first)
	}
}

func TestDayOrderingRule(t *testing.T) {
	day := time.Date(2024, 5, 6, 0, 0, 0, 0, time.UTC)
	at := func(h, m int) time.Time { return day.Add(time.Duration(h)*time.Hour + time.Duration(m)*time.Minute) }

	// Deliberately out of order, with a tie at 09:00 to check stability.
	events := []Event{
		{Title: "Lunch", Start: at(12, 0), CalendarID: "a"},
		{Title: "Standup A", Start: at(9, 0), CalendarID: "a"},
		{Title: "Holiday", Start: day, AllDay: true, CalendarID: "b"},
		{Title: "Standup B", Start: at(9, 0), CalendarID: "b"},
	}

	grid := BuildMonthGrid(events, time.May, 2024, day, time.UTC)

	var cell *DayCell
	for _, week := range grid.Weeks {
		for i := range week {
			if week[i].DayNumber == 6 && !week[i].OtherMonth {
				cell = &week[i]
			}
		}
	}
	if cell == nil {
		t.Fatal("day cell for May 6 not found")
	}

	if len(cell.AllDayEvents) != 1 || cell.AllDayEvents[0].Title != "Holiday" {
		t.Errorf("all-day events = %+v, want [Holiday]", cell.AllDayEvents)
	}

	gotTimed := []string{}
	for _, ev := range cell.TimedEvents {
		gotTimed = append(gotTimed, ev.Title)
	}
	wantTimed := []string{"Standup A", "Standup B", "Lunch"}
	if diff := cmp.Diff(wantTimed, gotTimed); diff != "" {
		t.Errorf("timed event order mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildWeekStrip(t *testing.T) {
	now := time.Date(2024, 5, 30, 15, 0, 0, 0, time.UTC) // Thursday, range crosses into June
	start := time.Date(2024, 6, 2, 9, 0, 0, 0, time.UTC)
	events := []Event{{Title: "June Event", Start: start, CalendarID: "a"}}

	strip := BuildWeekStrip(events, now, time.UTC)

	if len(strip) != 7 {
		t.Fatalf("strip length = %d, want 7", len(strip))
	}
	if !strip[0].IsToday {
		t.Error("first cell must be today")
	}
	for i := 1; i < len(strip); i++ {
		if strip[i].IsToday {
			t.Errorf("cell %d incorrectly flagged today", i)
		}
	}

	found := false
	for _, cell := range strip {
		for _, ev := range cell.TimedEvents {
			if ev.Title == "June Event" {
				found = true
			}
		}
	}
	if !found {
		t.Error("event in the following month missing from week strip")
	}
}
