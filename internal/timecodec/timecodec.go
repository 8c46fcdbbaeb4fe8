// Package timecodec converts between compact timestamps, calendar time and
// the fractional day-of-year notation used by TLE epochs.
package timecodec

import (
	"fmt"
	"math"
	"time"

	"github.com/starford/satcat/internal/apperr"
)

// CompactLayout is the YYYYMMDDHHMMSS layout accepted by query endpoints.
const CompactLayout = "20060102150405"

const secondsPerDay = 86400.0

// ParseCompact parses a 14 character YYYYMMDDHHMMSS string as UTC.
func ParseCompact(text string) (time.Time, error) {
	if len(text) != len(CompactLayout) {
		return time.Time{}, fmt.Errorf("%w: timestamp %q must be %d characters", apperr.ErrFormat, text, len(CompactLayout))
	}
	for _, c := range text {
		if c < '0' || c > '9' {
			return time.Time{}, fmt.Errorf("%w: timestamp %q must be digits only", apperr.ErrFormat, text)
		}
	}
	t, err := time.ParseInLocation(CompactLayout, text, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: timestamp %q: %v", apperr.ErrFormat, text, err)
	}
	return t, nil
}

// FormatCompact renders t in UTC as YYYYMMDDHHMMSS.
func FormatCompact(t time.Time) string {
	return t.UTC().Format(CompactLayout)
}

// DayFraction returns the days elapsed since January 1st 00:00:00 of t's
// year: 0 at the start of the year, 0.5 at noon on January 1st.
func DayFraction(t time.Time) float64 {
	t = t.UTC()
	start := time.Date(t.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	return t.Sub(start).Seconds() / secondsPerDay
}

// FractionToTime is the inverse of DayFraction for the given year. The
// result is rounded to the nearest microsecond, which absorbs the float
// error of eight-decimal epoch days.
func FractionToTime(year int, fraction float64) time.Time {
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	micros := math.Round(fraction * secondsPerDay * 1e6)
	return start.Add(time.Duration(micros) * time.Microsecond)
}

// FullYear expands a two digit TLE epoch year: 57-99 are 19xx, 00-56 20xx.
func FullYear(yy int) int {
	if yy >= 57 {
		return 1900 + yy
	}
	return 2000 + yy
}

// EpochTime converts a TLE epoch (two digit year, 1-based fractional day of
// year) to UTC. Day 1.0 is January 1st 00:00:00.
func EpochTime(yy int, day float64) time.Time {
	return FractionToTime(FullYear(yy), day-1)
}
