package geo

import (
	"math"
	"sort"

	"github.com/orbitcache/orbitcache-sim/simtime"
)

const earthRadiusKm = 6371.0

// CircularOrbitOracle is a deterministic PositionOracle: every satellite
// moves at a fixed angular velocity around a circular orbit of a given
// altitude and inclination, starting from an evenly spaced phase offset.
// It exists so the simulator can run end-to-end without a real TLE
// propagator; it is not a physical model.
type CircularOrbitOracle struct {
	AltitudeKm      float64
	InclinationDeg  float64
	NumSatellites   int
	PeriodSeconds   float64
	Epoch           simtime.SimTime
}

// Position returns satelliteID's location at time t, placing satellites
// evenly around the orbital plane at phase (2π/NumSatellites)*satelliteID
// and advancing each by its angular velocity since Epoch.
func (o *CircularOrbitOracle) Position(satelliteID int, t simtime.SimTime) Vec3 {
	r := earthRadiusKm + o.AltitudeKm
	elapsed := secondsBetween(o.Epoch, t)
	angularVelocity := 2 * math.Pi / o.PeriodSeconds
	phase0 := 2 * math.Pi * float64(satelliteID) / float64(max1(o.NumSatellites))
	theta := phase0 + angularVelocity*elapsed
	incl := o.InclinationDeg * math.Pi / 180

	return Vec3{
		X: r * math.Cos(theta),
		Y: r * math.Sin(theta) * math.Cos(incl),
		Z: r * math.Sin(theta) * math.Sin(incl),
	}
}

func max1(n int) int {
	if n < 1 {
		return 1
	}
	return n
}

func secondsBetween(a, b simtime.SimTime) float64 {
	return simtime.Elapsed(a, b)
}

// groundECEF converts a GroundLocation to an approximate Earth-centered
// Cartesian position, following the original CosmicBeats elevation
// computation's spherical-to-Cartesian convention
// (original_source/src/nodes/traffic_scheduler_utils/utils.py).
func groundECEF(loc GroundLocation) Vec3 {
	r := earthRadiusKm + loc.AltKm
	lat := loc.LatDeg * math.Pi / 180
	lon := loc.LonDeg * math.Pi / 180
	return Vec3{
		X: r * math.Cos(lat) * math.Cos(lon),
		Y: r * math.Cos(lat) * math.Sin(lon),
		Z: r * math.Sin(lat),
	}
}

// elevationDeg computes the elevation angle in degrees of satPos as seen
// from groundPos, adapted from the original's get_view_up: the arcsine of
// the dot product of the unit line-of-sight vector and the unit ground
// position vector.
func elevationDeg(groundPos, satPos Vec3) float64 {
	groundNorm := math.Sqrt(groundPos.X*groundPos.X + groundPos.Y*groundPos.Y + groundPos.Z*groundPos.Z)
	if groundNorm == 0 {
		return 0
	}
	groundUnit := Vec3{groundPos.X / groundNorm, groundPos.Y / groundNorm, groundPos.Z / groundNorm}

	delta := Vec3{satPos.X - groundPos.X, satPos.Y - groundPos.Y, satPos.Z - groundPos.Z}
	deltaNorm := math.Sqrt(delta.X*delta.X + delta.Y*delta.Y + delta.Z*delta.Z)
	if deltaNorm == 0 {
		return 90
	}
	deltaUnit := Vec3{delta.X / deltaNorm, delta.Y / deltaNorm, delta.Z / deltaNorm}

	dot := deltaUnit.X*groundUnit.X + deltaUnit.Y*groundUnit.Y + deltaUnit.Z*groundUnit.Z
	dot = math.Max(-1, math.Min(1, dot))
	return math.Asin(dot) * 180 / math.Pi
}

// ElevationFoVService is a deterministic FoVService backed by a
// PositionOracle: it computes elevation angles directly rather than
// consuming externally propagated positions.
type ElevationFoVService struct {
	Oracle        PositionOracle
	SatelliteIDs  []int
}

// Visible returns every satellite above minElevationDeg from loc at time
// t, sorted by satellite ID (callers needing another order, such as the
// scheduler's elevation order, sort the result themselves).
func (s *ElevationFoVService) Visible(loc GroundLocation, t simtime.SimTime, minElevationDeg float64) []VisibleSatellite {
	groundPos := groundECEF(loc)
	var out []VisibleSatellite
	for _, satID := range s.SatelliteIDs {
		satPos := s.Oracle.Position(satID, t)
		elev := elevationDeg(groundPos, satPos)
		if elev >= minElevationDeg {
			out = append(out, VisibleSatellite{SatelliteID: satID, ElevationDeg: elev})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SatelliteID < out[j].SatelliteID })
	return out
}
