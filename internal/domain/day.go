package domain

import "time"

// Day is a UTC calendar day. Every date entering the system is normalized to
// one of these exactly once, at the boundary; all range and equality checks
// below the API layer work on whole days, never on timestamps.
type Day struct {
	t time.Time // always midnight UTC
}

const dayLayout = "2006-01-02"

// NewDay truncates t to midnight UTC.
func NewDay(t time.Time) Day {
	u := t.UTC()
	return Day{t: time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)}
}

// ParseDay parses a YYYY-MM-DD string.
func ParseDay(s string) (Day, error) {
	t, err := time.Parse(dayLayout, s)
	if err != nil {
		return Day{}, err
	}
	return NewDay(t), nil
}

// Time returns the day as midnight UTC, suitable for storing in Mongo.
func (d Day) Time() time.Time { return d.t }

func (d Day) IsZero() bool { return d.t.IsZero() }

func (d Day) String() string { return d.t.Format(dayLayout) }

// AddDays returns the day n calendar days later (or earlier for negative n).
func (d Day) AddDays(n int) Day { return NewDay(d.t.AddDate(0, 0, n)) }

func (d Day) Before(o Day) bool { return d.t.Before(o.t) }
func (d Day) After(o Day) bool  { return d.t.After(o.t) }
func (d Day) Equal(o Day) bool  { return d.t.Equal(o.t) }

// InRange reports whether d lies in the inclusive [start, end] range.
func (d Day) InRange(start, end Day) bool {
	return !d.Before(start) && !d.After(end)
}

// WeekdayName returns the English weekday name ("Monday", ...), which is how
// workout templates tag their exercises.
func (d Day) WeekdayName() string { return d.t.Weekday().String() }

// DayCount returns the number of days in the inclusive [start, end] range,
// or 0 when end precedes start.
func DayCount(start, end Day) int {
	if end.Before(start) {
		return 0
	}
	return int(end.t.Sub(start.t).Hours()/24) + 1
}
