// Package scheduler implements the largest-elevation, load-balanced
// satellite scheduler (spec.md §4.5), grounded on the original
// CosmicBeats schduleLargestElevation: sort visible satellites by
// elevation ascending, then take the top N.
package scheduler

import (
	"sort"

	"github.com/orbitcache/orbitcache-sim/geo"
	"github.com/orbitcache/orbitcache-sim/simtime"
)

// DefaultMinElevationDeg is the minimum elevation angle, in degrees,
// above which a satellite is considered visible (spec.md §4.5).
const DefaultMinElevationDeg = 25.0

// Scheduler selects up to N visible satellites for a requester, ordered
// by increasing elevation (highest-elevation last, spec.md §4.7 step 2).
type Scheduler struct {
	fov             geo.FoVService
	minElevationDeg float64
}

// New creates a Scheduler backed by fov, using DefaultMinElevationDeg.
func New(fov geo.FoVService) *Scheduler {
	return &Scheduler{fov: fov, minElevationDeg: DefaultMinElevationDeg}
}

// WithMinElevationDeg overrides the minimum visibility angle.
func (s *Scheduler) WithMinElevationDeg(deg float64) *Scheduler {
	s.minElevationDeg = deg
	return s
}

// Schedule returns up to n satellites visible from loc at time t, sorted
// by elevation ascending (so the most favorable satellite is last). An
// empty result means the requester is out of service (spec.md §4.5 step 2).
func (s *Scheduler) Schedule(loc geo.GroundLocation, t simtime.SimTime, n int) []int {
	visible := s.fov.Visible(loc, t, s.minElevationDeg)
	if len(visible) == 0 {
		return nil
	}
	sort.Slice(visible, func(i, j int) bool { return visible[i].ElevationDeg < visible[j].ElevationDeg })

	if n > len(visible) {
		n = len(visible)
	}
	top := visible[len(visible)-n:]
	out := make([]int, len(top))
	for i, v := range top {
		out[i] = v.SatelliteID
	}
	return out
}
