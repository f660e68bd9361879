// Package geo defines the two external collaborators spec.md §1 scopes
// out of the simulator core — orbital propagation and elevation-angle
// geometry — as named interfaces, plus one deterministic reference
// implementation of each (spec.md §12.3) so the simulator is runnable
// end-to-end without a real propagator plugged in.
package geo

import (
	"math"

	"github.com/orbitcache/orbitcache-sim/simtime"
)

// Vec3 is a three-component Cartesian position. Distance is Euclidean
// (spec.md §3).
type Vec3 struct {
	X, Y, Z float64
}

// Distance returns the Euclidean distance between v and other.
func (v Vec3) Distance(other Vec3) float64 {
	dx, dy, dz := v.X-other.X, v.Y-other.Y, v.Z-other.Z
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

// GroundLocation is a ground site given as latitude/longitude/altitude,
// matching the Requester config fields of spec.md §4.7/§6.
type GroundLocation struct {
	LatDeg, LonDeg, AltKm float64
}

// PositionOracle reports a satellite's position at a given simulated
// instant. spec.md §1: "assumed available as Position(nodeID, t) → vec3".
type PositionOracle interface {
	Position(satelliteID int, t simtime.SimTime) Vec3
}

// VisibleSatellite is one entry of an FoVService result: a satellite ID
// and its elevation angle in degrees above the requesting ground location.
type VisibleSatellite struct {
	SatelliteID  int
	ElevationDeg float64
}

// FoVService lists satellites visible above a minimum elevation angle
// from a ground location at a given time. spec.md §1: "assumed available
// as elevation(userLoc, satPos) → degrees"; FoVService additionally
// enumerates the candidate set, which the scheduler (spec.md §4.5) needs.
type FoVService interface {
	Visible(loc GroundLocation, t simtime.SimTime, minElevationDeg float64) []VisibleSatellite
}
