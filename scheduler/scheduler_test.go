package scheduler

import (
	"testing"

	"github.com/orbitcache/orbitcache-sim/geo"
	"github.com/orbitcache/orbitcache-sim/simtime"
	"github.com/stretchr/testify/assert"
)

type fakeFoV struct {
	visible []geo.VisibleSatellite
}

func (f fakeFoV) Visible(_ geo.GroundLocation, _ simtime.SimTime, _ float64) []geo.VisibleSatellite {
	return f.visible
}

func TestScheduler_TopNByElevationAscending(t *testing.T) {
	fov := fakeFoV{visible: []geo.VisibleSatellite{
		{SatelliteID: 1, ElevationDeg: 40},
		{SatelliteID: 2, ElevationDeg: 70},
		{SatelliteID: 3, ElevationDeg: 55},
	}}
	sched := New(fov)
	got := sched.Schedule(geo.GroundLocation{}, simtime.SimTime{}, 2)
	// ascending elevation order among the top 2 (55, 70) => [3, 2]
	assert.Equal(t, []int{3, 2}, got)
}

func TestScheduler_OutOfService(t *testing.T) {
	sched := New(fakeFoV{})
	got := sched.Schedule(geo.GroundLocation{}, simtime.SimTime{}, 3)
	assert.Empty(t, got)
}

func TestScheduler_RequestMoreThanVisible(t *testing.T) {
	fov := fakeFoV{visible: []geo.VisibleSatellite{
		{SatelliteID: 9, ElevationDeg: 30},
	}}
	sched := New(fov)
	got := sched.Schedule(geo.GroundLocation{}, simtime.SimTime{}, 5)
	assert.Equal(t, []int{9}, got)
}
