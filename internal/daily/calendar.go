// apps/daily-server/internal/daily/calendar.go
//
// Date arithmetic for picking the puzzle of the day.
// A day starts at midnight in the calendar's zone (Europe/Paris by default),
// so every player sees the same puzzle regardless of their own time zone.

package daily

import (
	"fmt"
	"time"
	_ "time/tzdata" // zone database for hosts without one
)

// DefaultTimezone is the zone the puzzle rolls over in.
const DefaultTimezone = "Europe/Paris"

// Calendar maps instants to puzzle keys in one time zone.
type Calendar struct {
	Location *time.Location
}

// NewCalendar loads the named zone; an empty name means DefaultTimezone.
func NewCalendar(tz string) (Calendar, error) {
	if tz == "" {
		tz = DefaultTimezone
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return Calendar{}, fmt.Errorf("daily: load timezone %q: %w", tz, err)
	}
	return Calendar{Location: loc}, nil
}

func (c Calendar) in(t time.Time) time.Time {
	if c.Location == nil {
		return t.UTC()
	}
	return t.In(c.Location)
}

// DayIndex returns the 0-based day of the year (1 January is 0).
func (c Calendar) DayIndex(t time.Time) int {
	return c.in(t).YearDay() - 1
}

// MonthDayKey returns "<month>-<day>" without zero padding, e.g. "7-4".
func (c Calendar) MonthDayKey(t time.Time) string {
	t = c.in(t)
	return fmt.Sprintf("%d-%d", int(t.Month()), t.Day())
}

// DateKey returns YYYY-MM-DD.
func (c Calendar) DateKey(t time.Time) string {
	return c.in(t).Format("2006-01-02")
}
