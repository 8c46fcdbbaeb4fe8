// Package physics holds the physical constants used by orbital kinematics.
package physics

const (
	// G is the gravitational constant in m^3 kg^-1 s^-2.
	G = 6.67408e-11
	// EarthMass is the mass of the Earth in kg.
	EarthMass = 5.98e24

	// WGS84EquatorialRadius is the WGS-84 semi-major axis in meters, the
	// ellipsoid go-satellite uses for geodetic conversion.
	WGS84EquatorialRadius = 6378137.0
	// EphemEarthRadius is the equatorial radius used by the PyEphem family of
	// tools, in meters.
	EphemEarthRadius = 6378160.0
)
