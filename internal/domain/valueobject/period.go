package valueobject

import (
	"fmt"
	"time"
)

// MonthKeyLayout is the layout of a month key, e.g. "2024-03".
const MonthKeyLayout = "2006-01"

// Month identifies a calendar month in a specific location.
type Month struct {
	Year  int
	Month time.Month
	Loc   *time.Location
}

// MonthOf returns the month containing t, in t's location.
func MonthOf(t time.Time) Month {
	return Month{Year: t.Year(), Month: t.Month(), Loc: t.Location()}
}

// ParseMonth parses a "YYYY-MM" key in the given location.
func ParseMonth(key string, loc *time.Location) (Month, error) {
	if loc == nil {
		loc = time.UTC
	}
	t, err := time.ParseInLocation(MonthKeyLayout, key, loc)
	if err != nil {
		return Month{}, fmt.Errorf("invalid month %q: %w", key, err)
	}
	return MonthOf(t), nil
}

// Key returns the "YYYY-MM" representation of the month.
func (m Month) Key() string {
	return fmt.Sprintf("%04d-%02d", m.Year, int(m.Month))
}

// Start returns the first instant of the month.
func (m Month) Start() time.Time {
	return time.Date(m.Year, m.Month, 1, 0, 0, 0, 0, m.location())
}

// End returns the first instant of the following month.
func (m Month) End() time.Time {
	return m.Start().AddDate(0, 1, 0)
}

// LastDay returns the number of days in the month.
func (m Month) LastDay() int {
	return m.End().AddDate(0, 0, -1).Day()
}

// ClampDay limits day to the days available in the month, so day 31 falls on
// the 30th in April and on the 28th or 29th in February.
func (m Month) ClampDay(day int) int {
	if day < 1 {
		return 1
	}
	if last := m.LastDay(); day > last {
		return last
	}
	return day
}

// Date returns noon of the given (clamped) day of the month.
func (m Month) Date(day int) time.Time {
	return time.Date(m.Year, m.Month, m.ClampDay(day), 12, 0, 0, 0, m.location())
}

func (m Month) location() *time.Location {
	if m.Loc == nil {
		return time.UTC
	}
	return m.Loc
}
