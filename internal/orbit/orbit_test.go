package orbit

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/starford/satcat/internal/apperr"
	"github.com/starford/satcat/internal/models"
	"github.com/starford/satcat/internal/physics"
)

var (
	t0 = time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	t1 = t0.Add(time.Hour)
	t2 = t0.Add(2 * time.Hour)
)

func history() []models.TleRecord {
	return []models.TleRecord{
		{ID: 1, SatelliteNumber: "25544", Added: t1, EpochDay: 200},
		// Newer ingestion with an older self-reported epoch.
		{ID: 2, SatelliteNumber: "25544", Added: t2, EpochDay: 100},
	}
}

func TestSelect(t *testing.T) {
	tests := []struct {
		name   string
		asOf   time.Time
		wantID int64
		wantOK bool
	}{
		{"before first", t0, 0, false},
		{"exactly first", t1, 1, true},
		{"between", t1.Add(30 * time.Minute), 1, true},
		{"exactly second", t2, 2, true},
		{"after all", t2.Add(time.Hour), 2, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Select(history(), tt.asOf)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && got.ID != tt.wantID {
				t.Errorf("id = %d, want %d", got.ID, tt.wantID)
			}
		})
	}
}

func TestSelect_UnorderedHistory(t *testing.T) {
	h := history()
	h[0], h[1] = h[1], h[0]
	got, ok := Select(h, t2.Add(time.Minute))
	if !ok || got.ID != 2 {
		t.Fatalf("got %+v ok=%v, want id 2", got, ok)
	}
}

type fakeLister struct {
	rows []models.TleRecord
	err  error
}

func (f fakeLister) ListTleHistory(_ context.Context, norad string) ([]models.TleRecord, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []models.TleRecord
	for _, r := range f.rows {
		if r.SatelliteNumber == norad {
			out = append(out, r)
		}
	}
	return out, nil
}

func TestResolver_Resolve(t *testing.T) {
	r := NewResolver(fakeLister{rows: history()})
	ctx := context.Background()

	got, err := r.Resolve(ctx, "25544", t1.Add(time.Minute))
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got.ID != 1 {
		t.Errorf("id = %d, want 1", got.ID)
	}

	if _, err := r.Resolve(ctx, "25544", t0); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("before first: err = %v, want ErrNotFound", err)
	}
	if _, err := r.Resolve(ctx, "00005", t2); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("unknown object: err = %v, want ErrNotFound", err)
	}
}

func TestResolver_StoreError(t *testing.T) {
	boom := errors.New("disk gone")
	r := NewResolver(fakeLister{err: boom})
	if _, err := r.Resolve(context.Background(), "25544", t2); !errors.Is(err, boom) {
		t.Fatalf("err = %v, want %v", err, boom)
	}
}

func fixedGeometry(elevation float64) Propagator {
	return PropagatorFunc(func(_, _, _ string, _ time.Time) (Geometry, error) {
		return Geometry{
			SubLongitudeRad:   math.Pi / 2,
			SubLatitudeRad:    -math.Pi / 4,
			ElevationMeters:   elevation,
			EarthRadiusMeters: physics.EphemEarthRadius,
		}, nil
	})
}

func TestComputePosition_Velocity(t *testing.T) {
	tests := []struct {
		elevation float64
		want      float64
	}{
		{100000, 7849.1108},
		{2000000, 6901.9526},
	}
	for _, tt := range tests {
		pos, err := ComputePosition(fixedGeometry(tt.elevation), models.TleRecord{}, t0)
		if err != nil {
			t.Fatalf("ComputePosition(%v): %v", tt.elevation, err)
		}
		if math.Abs(pos.VelocityMps-tt.want) > 1e-4 {
			t.Errorf("velocity at %v m = %.6f, want %.4f", tt.elevation, pos.VelocityMps, tt.want)
		}
		if pos.ElevationMeters != tt.elevation {
			t.Errorf("elevation = %v", pos.ElevationMeters)
		}
	}
}

func TestComputePosition_Degrees(t *testing.T) {
	pos, err := ComputePosition(fixedGeometry(400000), models.TleRecord{}, t0)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(pos.SubLongitudeDeg-90) > 1e-9 || math.Abs(pos.SubLatitudeDeg+45) > 1e-9 {
		t.Errorf("lon/lat = %v/%v, want 90/-45", pos.SubLongitudeDeg, pos.SubLatitudeDeg)
	}
}

func TestComputePosition_InvalidElevation(t *testing.T) {
	tests := []struct {
		name      string
		elevation float64
		wantMsg   string
	}{
		{"nan", math.NaN(), "not a number"},
		{"inf", math.Inf(1), "not a number"},
		{"negative", -1, "negative"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ComputePosition(fixedGeometry(tt.elevation), models.TleRecord{}, t0)
			if !errors.Is(err, apperr.ErrValidation) {
				t.Fatalf("err = %v, want ErrValidation", err)
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("message %q does not mention %q", err.Error(), tt.wantMsg)
			}
		})
	}
}

func TestComputePosition_PropagatorErrorsArePropagationErrors(t *testing.T) {
	plain := PropagatorFunc(func(_, _, _ string, _ time.Time) (Geometry, error) {
		return Geometry{}, errors.New("decayed")
	})
	_, err := ComputePosition(plain, models.TleRecord{}, t0)
	if !errors.Is(err, apperr.ErrPropagation) {
		t.Fatalf("err = %v, want ErrPropagation", err)
	}
	if errors.Is(err, apperr.ErrValidation) {
		t.Fatal("propagation failure reported as validation error")
	}
}
