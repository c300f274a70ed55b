package utils

import (
	"fmt"
	"time"
)

// Stay dates are calendar dates, carried as midnight UTC instants so no
// timezone arithmetic ever crosses a day boundary.

const DateLayout = "2006-01-02"

// ParseDate parses a YYYY-MM-DD string into a midnight-UTC date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (want YYYY-MM-DD): %w", s, err)
	}
	return t, nil
}

// DateOnly drops the clock from t, keeping the calendar day in UTC.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func AddDays(t time.Time, days int) time.Time {
	return t.AddDate(0, 0, days)
}

// Overlaps reports whether the half-open windows [aStart, aEnd) and
// [bStart, bEnd) intersect. Adjacent windows do not overlap.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

// Clip intersects [start, end) with the window [winStart, winEnd).
// ok is false when they are disjoint.
func Clip(start, end, winStart, winEnd time.Time) (clippedStart, clippedEnd time.Time, ok bool) {
	if !Overlaps(start, end, winStart, winEnd) {
		return time.Time{}, time.Time{}, false
	}
	clippedStart = start
	if winStart.After(start) {
		clippedStart = winStart
	}
	clippedEnd = end
	if winEnd.Before(end) {
		clippedEnd = winEnd
	}
	return clippedStart, clippedEnd, true
}

// Nights counts whole days in [start, end); 0 or negative means the range
// is not a valid stay.
func Nights(start, end time.Time) int {
	return int(end.Sub(start).Hours() / 24)
}

// DaysInRange counts calendar days from start to end inclusive.
func DaysInRange(start, end time.Time) int {
	return Nights(DateOnly(start), DateOnly(end)) + 1
}

// EachDay walks every calendar day from start to end inclusive.
func EachDay(start, end time.Time, fn func(day time.Time)) {
	for day := DateOnly(start); !day.After(DateOnly(end)); day = AddDays(day, 1) {
		fn(day)
	}
}
