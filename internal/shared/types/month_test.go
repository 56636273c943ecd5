package types

import (
	"testing"
	"time"
)

func TestParseMonth(t *testing.T) {
	tests := []struct {
		input   string
		year    int
		month   time.Month
		wantErr bool
	}{
		{"2026-01", 2026, time.January, false},
		{"2026-12", 2026, time.December, false},
		{"1999-06", 1999, time.June, false},
		{"2026-13", 0, 0, true},
		{"2026-00", 0, 0, true},
		{"2026", 0, 0, true},
		{"Jan 2026", 0, 0, true},
		{"", 0, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			m, err := ParseMonth(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Errorf("expected error for %q, got %v", tt.input, m)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if m.Year != tt.year || m.Month != tt.month {
				t.Errorf("expected %d-%d, got %d-%d", tt.year, tt.month, m.Year, m.Month)
			}
		})
	}
}

func TestMonthRange(t *testing.T) {
	m := Month{Year: 2026, Month: time.February}

	start := m.Start()
	if start.Day() != 1 || start.Hour() != 0 || start.Minute() != 0 || start.Second() != 0 {
		t.Errorf("start should be first day at midnight, got %v", start)
	}

	end := m.End()
	if end.Month() != time.March || end.Day() != 1 {
		t.Errorf("end should be March 1st, got %v", end)
	}

	// Last second of the month is inside the range
	lastSecond := time.Date(2026, time.February, 28, 23, 59, 59, 0, time.Local)
	if !m.Contains(lastSecond) {
		t.Error("last second of the month should be contained")
	}

	if m.Contains(end) {
		t.Error("first instant of next month should not be contained")
	}

	if m.Contains(start.Add(-time.Second)) {
		t.Error("last second of previous month should not be contained")
	}
}

func TestMonthRangeDecemberRollover(t *testing.T) {
	m := Month{Year: 2025, Month: time.December}

	end := m.End()
	if end.Year() != 2026 || end.Month() != time.January {
		t.Errorf("December should roll into January of next year, got %v", end)
	}
}

func TestMonthAddMonths(t *testing.T) {
	tests := []struct {
		start    Month
		n        int
		expected string
	}{
		{Month{2026, time.March}, -1, "2026-02"},
		{Month{2026, time.January}, -1, "2025-12"},
		{Month{2026, time.January}, -5, "2025-08"},
		{Month{2025, time.November}, 3, "2026-02"},
		{Month{2026, time.June}, 0, "2026-06"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			got := tt.start.AddMonths(tt.n)
			if got.String() != tt.expected {
				t.Errorf("expected %s, got %s", tt.expected, got.String())
			}
		})
	}
}

func TestMonthTrailing(t *testing.T) {
	m := Month{Year: 2026, Month: time.February}
	months := m.Trailing(6)

	if len(months) != 6 {
		t.Fatalf("expected 6 months, got %d", len(months))
	}

	expected := []string{"2025-09", "2025-10", "2025-11", "2025-12", "2026-01", "2026-02"}
	for i, want := range expected {
		if months[i].String() != want {
			t.Errorf("month %d: expected %s, got %s", i, want, months[i].String())
		}
	}
}

func TestMonthString(t *testing.T) {
	m := Month{Year: 2026, Month: time.August}
	if m.String() != "2026-08" {
		t.Errorf("expected '2026-08', got '%s'", m.String())
	}

	m = Month{Year: 999, Month: time.January}
	if m.String() != "0999-01" {
		t.Errorf("expected '0999-01', got '%s'", m.String())
	}
}
