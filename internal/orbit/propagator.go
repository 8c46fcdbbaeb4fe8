// Package orbit selects the element set valid at an instant and turns it
// into a sub-satellite position and speed.
package orbit

import "time"

// Geometry is the raw output of a propagation: sub-satellite point in
// radians, elevation above the reference ellipsoid and that ellipsoid's
// equatorial radius, both in meters.
type Geometry struct {
	SubLongitudeRad   float64
	SubLatitudeRad    float64
	ElevationMeters   float64
	EarthRadiusMeters float64
}

// Propagator computes the geometry of a TLE at a given time. Implementations
// return an error wrapping apperr.ErrPropagation when the time lies outside
// the element set's valid range.
type Propagator interface {
	Propagate(line0, line1, line2 string, at time.Time) (Geometry, error)
}

// PropagatorFunc adapts a plain function to Propagator.
type PropagatorFunc func(line0, line1, line2 string, at time.Time) (Geometry, error)

// Propagate calls f.
func (f PropagatorFunc) Propagate(line0, line1, line2 string, at time.Time) (Geometry, error) {
	return f(line0, line1, line2, at)
}
