// Package period computes the calendar ranges used to filter timesheets.
package period

import (
	"fmt"
	"strings"
	"time"
)

// Period is a calendar window selectable in timesheet filters.
type Period int

const (
	All Period = iota
	Day
	Week
	Month
	Year
)

var names = [...]string{"All", "Day", "Week", "Month", "Year"}

func (p Period) String() string {
	if p < All || p > Year {
		return fmt.Sprintf("Period(%d)", int(p))
	}
	return names[p]
}

// Parse resolves a period by name, case-insensitively. An empty name is All.
func Parse(s string) (Period, error) {
	if s == "" {
		return All, nil
	}
	for i, n := range names {
		if strings.EqualFold(n, s) {
			return Period(i), nil
		}
	}
	return All, fmt.Errorf("unknown period %q", s)
}

func (p Period) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *Period) UnmarshalText(b []byte) error {
	v, err := Parse(string(b))
	if err != nil {
		return err
	}
	*p = v
	return nil
}

// Date truncates t to midnight in its own location.
func Date(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// WeekRange returns Monday through Sunday of the week containing t.
func WeekRange(t time.Time) (time.Time, time.Time) {
	d := Date(t)
	sinceMonday := (int(d.Weekday()) + 6) % 7
	start := d.AddDate(0, 0, -sinceMonday)
	return start, start.AddDate(0, 0, 6)
}

// MonthRange returns the first and last day of the month containing t.
func MonthRange(t time.Time) (time.Time, time.Time) {
	start := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	return start, start.AddDate(0, 1, -1)
}

// YearRange returns January 1 and December 31 of the year containing t.
func YearRange(t time.Time) (time.Time, time.Time) {
	start := time.Date(t.Year(), time.January, 1, 0, 0, 0, 0, t.Location())
	return start, start.AddDate(1, 0, -1)
}

// Range returns the inclusive date range of p around t. ok is false for All.
func Range(p Period, t time.Time) (start, end time.Time, ok bool) {
	switch p {
	case Day:
		d := Date(t)
		return d, d, true
	case Week:
		start, end = WeekRange(t)
	case Month:
		start, end = MonthRange(t)
	case Year:
		start, end = YearRange(t)
	default:
		return time.Time{}, time.Time{}, false
	}
	return start, end, true
}
