package calendar

import "time"

// Event is one normalized calendar event. A nil End together with AllDay
// marks a date-only event.
type Event struct {
	Title    string     `json:"title"`
	Start    time.Time  `json:"start"`
	End      *time.Time `json:"end,omitempty"`
	AllDay   bool       `json:"all_day"`
	Location string     `json:"location,omitempty"`

	// CalendarID tags the source calendar for per-calendar color coding.
	CalendarID string `json:"calendar_id"`

	// DayOfWeek is derived from Start in the dashboard timezone.
	DayOfWeek string `json:"day_of_week"`
}

// DayCell is one cell of the month grid or week strip. All-day events are
// listed before timed events; timed events are sorted ascending by start.
type DayCell struct {
	Date       time.Time `json:"date"`
	DayName    string    `json:"day_name"`
	DayNumber  int       `json:"day_number"`
	IsToday    bool      `json:"is_today"`
	OtherMonth bool      `json:"other_month"`

	AllDayEvents []Event `json:"all_day_events"`
	TimedEvents  []Event `json:"timed_events"`
}

// MonthGrid is a full 6x7 calendar page including leading and trailing days
// from adjacent months. Every date in the range has a cell, even if empty.
type MonthGrid struct {
	Month time.Month  `json:"month"`
	Year  int         `json:"year"`
	Weeks [][]DayCell `json:"weeks"`
}
