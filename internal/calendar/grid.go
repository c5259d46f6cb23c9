package calendar

import (
	"sort"
	"time"
)

const (
	gridRows = 6
	gridCols = 7
)

// BuildMonthGrid lays out the given month as a 6x7 Sunday-first grid.
// Leading and trailing cells belong to adjacent months; they are flagged
// otherMonth and never carry events. IsToday is computed once against now and
// must not be recomputed from cached grids.
func BuildMonthGrid(events []Event, month time.Month, year int, now time.Time, loc *time.Location) MonthGrid {
	first := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	start := first.AddDate(0, 0, -int(first.Weekday()))
	today := dateKey(now.In(loc))

	byDay := groupByDay(events, loc)

	weeks := make([][]DayCell, 0, gridRows)
	day := start
	for r := 0; r < gridRows; r++ {
		row := make([]DayCell, 0, gridCols)
		for c := 0; c < gridCols; c++ {
			cell := DayCell{
				Date:       day,
				DayName:    day.Format("Mon"),
				DayNumber:  day.Day(),
				IsToday:    dateKey(day) == today,
				OtherMonth: day.Month() != month || day.Year() != year,
			}
			if !cell.OtherMonth {
				if bucket, ok := byDay[dateKey(day)]; ok {
					cell.AllDayEvents = bucket.allDay
					cell.TimedEvents = bucket.timed
				}
			}
			row = append(row, cell)
			day = day.AddDate(0, 0, 1)
		}
		weeks = append(weeks, row)
	}

	return MonthGrid{Month: month, Year: year, Weeks: weeks}
}

// BuildWeekStrip lays out the next seven days starting today. Unlike the
// month grid there are no other-month cells; every day carries its events.
func BuildWeekStrip(events []Event, now time.Time, loc *time.Location) []DayCell {
	byDay := groupByDay(events, loc)

	local := now.In(loc)
	start := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)

	strip := make([]DayCell, 0, gridCols)
	for i := 0; i < gridCols; i++ {
		day := start.AddDate(0, 0, i)
		cell := DayCell{
			Date:      day,
			DayName:   day.Format("Mon"),
			DayNumber: day.Day(),
			IsToday:   i == 0,
		}
		if bucket, ok := byDay[dateKey(day)]; ok {
			cell.AllDayEvents = bucket.allDay
			cell.TimedEvents = bucket.timed
		}
		strip = append(strip, cell)
	}
	return strip
}

type dayBucket struct {
	allDay []Event
	timed  []Event
}

// groupByDay splits events into per-date buckets with the ordering rule:
// all-day events keep fetch order, timed events sort ascending by start with
// a stable tie-break on identical starts.
func groupByDay(events []Event, loc *time.Location) map[string]*dayBucket {
	byDay := make(map[string]*dayBucket)
	for _, ev := range events {
		key := dateKey(ev.Start.In(loc))
		bucket, ok := byDay[key]
		if !ok {
			bucket = &dayBucket{}
			byDay[key] = bucket
		}
		if ev.AllDay {
			bucket.allDay = append(bucket.allDay, ev)
		} else {
			bucket.timed = append(bucket.timed, ev)
		}
	}
	for _, bucket := range byDay {
		sort.SliceStable(bucket.timed, func(i, j int) bool {
			return bucket.timed[i].Start.Before(bucket.timed[j].Start)
		})
	}
	return byDay
}

func dateKey(t time.Time) string {
	return t.Format("2006-01-02")
}
