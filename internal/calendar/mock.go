package calendar

import "time"

// MockEvents returns the canned schedule used when no real calendar is
// reachable: a plausible working day anchored to now's date so the grid never
// renders empty.
func MockEvents(now time.Time) []Event {
	day := func(h, m int) time.Time {
		return time.Date(now.Year(), now.Month(), now.Day(), h, m, 0, 0, now.Location())
	}
	timed := func(title string, start, end time.Time) Event {
		return Event{
			Title:      title,
			Start:      start,
			End:        &end,
			CalendarID: "mock",
			DayOfWeek:  start.Format("Monday"),
		}
	}

	return []Event{
		timed("Team Standup", day(9, 0), day(9, 30)),
		timed("Project Review", day(14, 0), day(15, 0)),
		timed("Client Call", day(16, 0), day(17, 0)),
	}
}
