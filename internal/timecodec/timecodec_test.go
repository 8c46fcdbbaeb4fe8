package timecodec

import (
	"errors"
	"testing"
	"time"

	"github.com/starford/satcat/internal/apperr"
)

func TestParseCompact_RoundTrip(t *testing.T) {
	for _, s := range []string{"20150101120000", "20151231000000", "20000229235959", "19991231235959", "20170824124840"} {
		ts, err := ParseCompact(s)
		if err != nil {
			t.Fatalf("ParseCompact(%q): %v", s, err)
		}
		if got := FormatCompact(ts); got != s {
			t.Errorf("round trip %q -> %q", s, got)
		}
		if ts.Location() != time.UTC {
			t.Errorf("location = %v, want UTC", ts.Location())
		}
	}
}

func TestParseCompact_Invalid(t *testing.T) {
	for _, s := range []string{"", "2015", "201501011200001", "2015-01-01T12:0", "20151301120000", "20150230120000", " 0150101120000", "+0150101120000"} {
		_, err := ParseCompact(s)
		if err == nil {
			t.Errorf("ParseCompact(%q) should fail", s)
			continue
		}
		if !errors.Is(err, apperr.ErrFormat) {
			t.Errorf("ParseCompact(%q) error = %v, want ErrFormat", s, err)
		}
	}
}

func TestDayFraction(t *testing.T) {
	tests := map[string]float64{
		"20150101000000": 0,
		"20150101120000": 0.5,
		"20150102120000": 1.5,
		"20151231000000": 364,
		"20161231000000": 365,
	}
	for s, want := range tests {
		ts, err := ParseCompact(s)
		if err != nil {
			t.Fatal(err)
		}
		if got := DayFraction(ts); got != want {
			t.Errorf("DayFraction(%s) = %v, want %v", s, got, want)
		}
	}
}

func TestFractionToTime(t *testing.T) {
	tests := map[float64]string{
		0.5: "20150101120000",
		1.5: "20150102120000",
		364: "20151231000000",
	}
	for fraction, want := range tests {
		if got := FormatCompact(FractionToTime(2015, fraction)); got != want {
			t.Errorf("FractionToTime(2015, %v) = %s, want %s", fraction, got, want)
		}
	}
}

func TestFractionToTime_RoundTripsDayFraction(t *testing.T) {
	for _, fraction := range []float64{0, 0.25, 35.53358279, 235.53358279, 364.99999999} {
		got := DayFraction(FractionToTime(2017, fraction))
		if diff := got - fraction; diff > 1e-9 || diff < -1e-9 {
			t.Errorf("round trip %v -> %v", fraction, got)
		}
	}
}

func TestEpochTime(t *testing.T) {
	got := EpochTime(17, 236.5)
	want := time.Date(2017, time.August, 24, 12, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("EpochTime(17, 236.5) = %v, want %v", got, want)
	}
	if y := EpochTime(98, 1).Year(); y != 1998 {
		t.Errorf("EpochTime(98, 1) year = %d, want 1998", y)
	}
	if y := EpochTime(56, 1).Year(); y != 2056 {
		t.Errorf("EpochTime(56, 1) year = %d, want 2056", y)
	}
}
