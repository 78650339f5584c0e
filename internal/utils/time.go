package utils

import (
	"fmt"
	"time"

	"github.com/julianstephens/askeza/internal/constants"
)

// LoadLocation loads a timezone location from an IANA timezone name.
// If the timezone is "Local" or empty, it returns the system's local timezone.
func LoadLocation(timezone string) (*time.Location, error) {
	if timezone == "" || timezone == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(timezone)
}

// ValidateTimezone checks if the timezone name is valid.
func ValidateTimezone(timezone string) bool {
	_, err := LoadLocation(timezone)
	return err == nil
}

// StartOfDay returns midnight of t's calendar day in loc.
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// CalendarDaysBetween counts whole calendar days from start to end as seen in loc.
// The result is floored and never negative, so an end before start yields 0.
// Dates are compared rather than 24h spans, which keeps DST days at length one.
func CalendarDaysBetween(start, end time.Time, loc *time.Location) int {
	s := start.In(loc)
	e := end.In(loc)
	sd := time.Date(s.Year(), s.Month(), s.Day(), 0, 0, 0, 0, time.UTC)
	ed := time.Date(e.Year(), e.Month(), e.Day(), 0, 0, 0, 0, time.UTC)
	days := int(ed.Sub(sd).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}

// DaysBefore returns the instant n calendar days before t in loc, keeping the wall-clock time.
func DaysBefore(t time.Time, n int, loc *time.Location) time.Time {
	return t.In(loc).AddDate(0, 0, -n)
}

// SameDay reports whether a and b fall on the same calendar day in loc.
func SameDay(a, b time.Time, loc *time.Location) bool {
	a = a.In(loc)
	b = b.In(loc)
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}

// FormatDate renders t as YYYY-MM-DD in loc.
func FormatDate(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(constants.DateFormat)
}

// ElapsedBreakdown splits the time since a start date into calendar units.
type ElapsedBreakdown struct {
	Years   int
	Months  int
	Days    int
	Hours   int
	Minutes int
	Seconds int
}

// Elapsed breaks the span from start to now into years, months, days, hours,
// minutes and seconds. A now before start yields the zero breakdown.
func Elapsed(start, now time.Time) ElapsedBreakdown {
	var b ElapsedBreakdown
	if !now.After(start) {
		return b
	}
	now = now.In(start.Location())

	for !start.AddDate(b.Years+1, 0, 0).After(now) {
		b.Years++
	}
	for !start.AddDate(b.Years, b.Months+1, 0).After(now) {
		b.Months++
	}
	for !start.AddDate(b.Years, b.Months, b.Days+1).After(now) {
		b.Days++
	}

	rem := now.Sub(start.AddDate(b.Years, b.Months, b.Days))
	b.Hours = int(rem / time.Hour)
	rem -= time.Duration(b.Hours) * time.Hour
	b.Minutes = int(rem / time.Minute)
	rem -= time.Duration(b.Minutes) * time.Minute
	b.Seconds = int(rem / time.Second)
	return b
}

func (b ElapsedBreakdown) String() string {
	switch {
	case b.Years > 0:
		return fmt.Sprintf("%dy %dm %dd", b.Years, b.Months, b.Days)
	case b.Months > 0:
		return fmt.Sprintf("%dm %dd %dh", b.Months, b.Days, b.Hours)
	case b.Days > 0:
		return fmt.Sprintf("%dd %dh %dmin", b.Days, b.Hours, b.Minutes)
	default:
		return fmt.Sprintf("%dh %dmin %ds", b.Hours, b.Minutes, b.Seconds)
	}
}
