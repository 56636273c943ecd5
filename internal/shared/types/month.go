package types

import (
	"fmt"
	"time"
)

// Month identifies a calendar month in the clinic's local time zone.
// It is the typed form of the "YYYY-MM" keys used by the reporting and
// expense-filter APIs: parse once at the boundary, pass the typed value
// through every query.
type Month struct {
	Year  int
	Month time.Month
}

// ParseMonth parses a "YYYY-MM" string into a Month
func ParseMonth(s string) (Month, error) {
	t, err := time.ParseInLocation("2006-01", s, time.Local)
	if err != nil {
		return Month{}, fmt.Errorf("invalid month %q: %w", s, err)
	}
	return Month{Year: t.Year(), Month: t.Month()}, nil
}

// MonthOf returns the Month containing t
func MonthOf(t time.Time) Month {
	local := t.Local()
	return Month{Year: local.Year(), Month: local.Month()}
}

// Start returns the first instant of the month (first day, 00:00:00 local)
func (m Month) Start() time.Time {
	return time.Date(m.Year, m.Month, 1, 0, 0, 0, 0, time.Local)
}

// End returns the first instant of the following month. Queries use the
// half-open interval [Start, End), which covers the whole last day of the
// month including 23:59:59.
func (m Month) End() time.Time {
	return m.Start().AddDate(0, 1, 0)
}

// AddMonths returns the month n months after m (n may be negative)
func (m Month) AddMonths(n int) Month {
	return MonthOf(m.Start().AddDate(0, n, 0))
}

// Prev returns the month before m
func (m Month) Prev() Month {
	return m.AddMonths(-1)
}

// Contains reports whether t falls inside the month
func (m Month) Contains(t time.Time) bool {
	local := t.Local()
	return !local.Before(m.Start()) && local.Before(m.End())
}

// Trailing returns the n months ending at m, oldest first, m included
func (m Month) Trailing(n int) []Month {
	months := make([]Month, 0, n)
	for i := n - 1; i >= 0; i-- {
		months = append(months, m.AddMonths(-i))
	}
	return months
}

// String returns the "YYYY-MM" representation
func (m Month) String() string {
	return fmt.Sprintf("%04d-%02d", m.Year, int(m.Month))
}
