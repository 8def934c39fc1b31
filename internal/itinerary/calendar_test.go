package itinerary

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}

func TestNewCalendar_ThreeDayTrip(t *testing.T) {
	cal, err := NewCalendar(date(2025, 3, 10), date(2025, 3, 12))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if cal.DayCount() != 3 {
		t.Fatalf("expected 3 days, got %d", cal.DayCount())
	}
	if cal.Days[0].Label != "Day 1" || cal.Days[2].Label != "Day 3" {
		t.Fatalf("labels wrong: %q .. %q", cal.Days[0].Label, cal.Days[2].Label)
	}
	if !cal.Days[1].Date.Equal(date(2025, 3, 11)) {
		t.Fatalf("day 1 date wrong: %v", cal.Days[1].Date)
	}
	if !cal.Contains(0) || !cal.Contains(2) || cal.Contains(3) || cal.Contains(-1) {
		t.Fatalf("Contains bounds wrong")
	}
	if cal.LastIndex() != 2 {
		t.Fatalf("last index should be 2, got %d", cal.LastIndex())
	}
}

func TestNewCalendar_SingleDayTrip(t *testing.T) {
	cal, err := NewCalendar(date(2025, 6, 1), date(2025, 6, 1))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if cal.DayCount() != 1 {
		t.Fatalf("same start and end should give one bucket, got %d", cal.DayCount())
	}
}

func TestNewCalendar_EndBeforeStart(t *testing.T) {
	if _, err := NewCalendar(date(2025, 3, 12), date(2025, 3, 10)); err == nil {
		t.Fatalf("expected error for end before start")
	}
}

func TestNewCalendar_ZeroDates(t *testing.T) {
	if _, err := NewCalendar(time.Time{}, date(2025, 3, 10)); err == nil {
		t.Fatalf("expected error for zero start date")
	}
}

func TestNewCalendar_TooLong(t *testing.T) {
	if _, err := NewCalendar(date(2025, 1, 1), date(2025, 3, 1)); err == nil {
		t.Fatalf("expected error past the %d day cap", MaxTripDays)
	}
}

func TestNewCalendar_StraysNormalizedToMidnight(t *testing.T) {
	start := time.Date(2025, 3, 10, 23, 50, 0, 0, time.Local)
	end := time.Date(2025, 3, 12, 0, 10, 0, 0, time.Local)
	cal, err := NewCalendar(start, end)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if cal.DayCount() != 3 {
		t.Fatalf("time components must not shift the day count, got %d", cal.DayCount())
	}
	if !cal.Start.Equal(date(2025, 3, 10)) {
		t.Fatalf("start not normalized: %v", cal.Start)
	}
}

func TestDaysBetween(t *testing.T) {
	if got := DaysBetween(date(2025, 3, 10), date(2025, 3, 12)); got != 2 {
		t.Fatalf("expected 2, got %d", got)
	}
	if got := DaysBetween(date(2025, 3, 12), date(2025, 3, 10)); got != -2 {
		t.Fatalf("expected -2, got %d", got)
	}
	if got := DaysBetween(date(2025, 3, 10), date(2025, 3, 10)); got != 0 {
		t.Fatalf("expected 0, got %d", got)
	}
}
