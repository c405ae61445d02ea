package warday

import (
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// TestResolverProperties uses property-based testing to verify war day invariants
func TestResolverProperties(t *testing.T) {
	properties := gopter.NewProperties(nil)

	// 2020-01-01 .. 2030-01-01 in seconds
	instants := gen.Int64Range(1577836800, 1893456000).Map(func(sec int64) time.Time {
		return time.Unix(sec, 0).UTC()
	})

	properties.Property("instant lies within its war day", prop.ForAll(
		func(ts time.Time) bool {
			day := Day(ts)
			next := day.AddDate(0, 0, 1)
			return !ts.Before(Start(day)) && ts.Before(Start(next))
		},
		instants,
	))

	properties.Property("war day is midnight utc", prop.ForAll(
		func(ts time.Time) bool {
			day := Day(ts)
			return day.Equal(Midnight(day)) && day.Location() == time.UTC
		},
		instants,
	))

	properties.Property("war day start resolves to the same day", prop.ForAll(
		func(ts time.Time) bool {
			day := Day(ts)
			return Day(Start(day)).Equal(day) && !Day(Start(day).Add(-time.Nanosecond)).Equal(day)
		},
		instants,
	))

	properties.Property("war day is never after the calendar date", prop.ForAll(
		func(ts time.Time) bool {
			days := DaysBetween(Day(ts), ts)
			return days == 0 || days == 1
		},
		instants,
	))

	properties.TestingRun(t)
}
