package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(s string) time.Time {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestParseDate(t *testing.T) {
	got, err := ParseDate("2025-06-10")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC), got)

	_, err = ParseDate("10/06/2025")
	assert.Error(t, err)

	_, err = ParseDate("")
	assert.Error(t, err)
}

func TestDateOnly(t *testing.T) {
	stamp := time.Date(2025, 6, 10, 14, 35, 2, 0, time.UTC)
	assert.Equal(t, day("2025-06-10"), DateOnly(stamp))
}

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name                           string
		aStart, aEnd, bStart, bEnd     string
		want                           bool
	}{
		{"identical", "2025-06-10", "2025-06-13", "2025-06-10", "2025-06-13", true},
		{"partial overlap", "2025-06-10", "2025-06-13", "2025-06-11", "2025-06-14", true},
		{"contained", "2025-06-10", "2025-06-20", "2025-06-12", "2025-06-14", true},
		{"adjacent after", "2025-06-10", "2025-06-13", "2025-06-13", "2025-06-15", false},
		{"adjacent before", "2025-06-13", "2025-06-15", "2025-06-10", "2025-06-13", false},
		{"disjoint", "2025-06-01", "2025-06-05", "2025-06-20", "2025-06-25", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Overlaps(day(tt.aStart), day(tt.aEnd), day(tt.bStart), day(tt.bEnd))
			assert.Equal(t, tt.want, got)
			// overlap is symmetric
			assert.Equal(t, tt.want, Overlaps(day(tt.bStart), day(tt.bEnd), day(tt.aStart), day(tt.aEnd)))
		})
	}
}

func TestClip(t *testing.T) {
	t.Run("inside window", func(t *testing.T) {
		cs, ce, ok := Clip(day("2025-06-10"), day("2025-06-13"), day("2025-06-01"), day("2025-07-01"))
		require.True(t, ok)
		assert.Equal(t, day("2025-06-10"), cs)
		assert.Equal(t, day("2025-06-13"), ce)
	})

	t.Run("clipped both ends", func(t *testing.T) {
		cs, ce, ok := Clip(day("2025-05-28"), day("2025-06-05"), day("2025-06-01"), day("2025-06-03"))
		require.True(t, ok)
		assert.Equal(t, day("2025-06-01"), cs)
		assert.Equal(t, day("2025-06-03"), ce)
	})

	t.Run("disjoint", func(t *testing.T) {
		_, _, ok := Clip(day("2025-06-10"), day("2025-06-13"), day("2025-07-01"), day("2025-07-10"))
		assert.False(t, ok)
	})

	t.Run("adjacent window is disjoint", func(t *testing.T) {
		_, _, ok := Clip(day("2025-06-10"), day("2025-06-13"), day("2025-06-13"), day("2025-06-20"))
		assert.False(t, ok)
	})
}

func TestNights(t *testing.T) {
	assert.Equal(t, 3, Nights(day("2025-06-10"), day("2025-06-13")))
	assert.Equal(t, 1, Nights(day("2025-06-10"), day("2025-06-11")))
	assert.Equal(t, 0, Nights(day("2025-06-10"), day("2025-06-10")))
	assert.Equal(t, -2, Nights(day("2025-06-12"), day("2025-06-10")))
}

func TestDaysInRange(t *testing.T) {
	assert.Equal(t, 30, DaysInRange(day("2025-06-01"), day("2025-06-30")))
	assert.Equal(t, 1, DaysInRange(day("2025-06-01"), day("2025-06-01")))
}

func TestEachDay(t *testing.T) {
	var got []string
	EachDay(day("2025-06-28"), day("2025-07-02"), func(d time.Time) {
		got = append(got, d.Format(DateLayout))
	})
	assert.Equal(t, []string{"2025-06-28", "2025-06-29", "2025-06-30", "2025-07-01", "2025-07-02"}, got)
}
