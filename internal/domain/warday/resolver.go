package warday

import "time"

// DayLayout is the date format used for war day keys and labels
const DayLayout = "2006-01-02"

const (
	// StandardBoundary is the offset from midnight UTC at which a war day starts
	StandardBoundary = 10 * time.Hour
	// EventStartBoundary applies on the first day of the weekly event cycle
	EventStartBoundary = 9*time.Hour + 30*time.Minute
	// EventStartWeekday is the weekday the weekly event cycle begins on
	EventStartWeekday = time.Monday
)

// Boundary returns the offset from midnight UTC at which the war day for the
// given calendar date begins.
//
// Pure function: No I/O operations, fully testable with direct inputs.
func Boundary(date time.Time) time.Duration {
	if date.UTC().Weekday() == EventStartWeekday {
		return EventStartBoundary
	}
	return StandardBoundary
}

// Day returns the war day bucket an instant belongs to, as midnight UTC of that
// calendar date. Instants strictly before the calendar day's boundary belong to
// the previous war day, so an instant exactly on the boundary opens the new day.
//
// This is the only war day rule; both live aggregation and persisted rows use it.
func Day(t time.Time) time.Time {
	date := Midnight(t)
	if t.UTC().Before(date.Add(Boundary(date))) {
		return date.AddDate(0, 0, -1)
	}
	return date
}

// Start returns the instant the given war day opens
func Start(day time.Time) time.Time {
	date := Midnight(day)
	return date.Add(Boundary(date))
}

// OpenDayStart returns the start instant of the war day that is open at now
func OpenDayStart(now time.Time) time.Time {
	return Start(Day(now))
}

// InOpenDay reports whether a battle timestamp falls at or after the open war
// day's start, using the same comparison as Day.
func InOpenDay(ts, warStart time.Time) bool {
	return !ts.Before(warStart)
}

// ReportCutout returns the first day of the report window: the last Sunday on
// or before the open war day, moved back by the given number of whole weeks.
func ReportCutout(openDay time.Time, weeks int) time.Time {
	date := Midnight(openDay)
	sinceSunday := int(date.Weekday()-time.Sunday+7) % 7
	return date.AddDate(0, 0, -sinceSunday-7*weeks)
}

// DaysBetween returns the whole number of calendar days from a to b
func DaysBetween(a, b time.Time) int {
	return int(Midnight(b).Sub(Midnight(a)).Hours() / 24)
}

// Midnight truncates an instant to 00:00 UTC of its calendar date
func Midnight(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// Format renders a war day as its key
func Format(day time.Time) string {
	return day.UTC().Format(DayLayout)
}

// Parse reads a war day key
func Parse(s string) (time.Time, error) {
	return time.ParseInLocation(DayLayout, s, time.UTC)
}
