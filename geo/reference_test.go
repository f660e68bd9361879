package geo

import (
	"testing"

	"github.com/orbitcache/orbitcache-sim/simtime"
	"github.com/stretchr/testify/assert"
)

func TestVec3_Distance(t *testing.T) {
	a := Vec3{0, 0, 0}
	b := Vec3{3, 4, 0}
	assert.InDelta(t, 5.0, a.Distance(b), 1e-9)
}

func TestCircularOrbitOracle_DeterministicAndPeriodic(t *testing.T) {
	epoch, err := simtime.Parse("2026-01-01 00:00:00")
	assert.NoError(t, err)
	o := &CircularOrbitOracle{
		AltitudeKm:     550,
		InclinationDeg: 53,
		NumSatellites:  4,
		PeriodSeconds:  5760,
		Epoch:          epoch,
	}
	p1 := o.Position(0, epoch)
	p2 := o.Position(0, epoch)
	assert.Equal(t, p1, p2, "position must be deterministic for the same (satellite, time)")

	afterOnePeriod := epoch.Add(o.PeriodSeconds)
	pAfter := o.Position(0, afterOnePeriod)
	assert.InDelta(t, p1.X, pAfter.X, 1e-6)
	assert.InDelta(t, p1.Y, pAfter.Y, 1e-6)
	assert.InDelta(t, p1.Z, pAfter.Z, 1e-6)
}

func TestElevationFoVService_FiltersByMinElevation(t *testing.T) {
	epoch, _ := simtime.Parse("2026-01-01 00:00:00")
	// A satellite directly overhead the ground site should report ~90 degrees.
	oracle := stubOracle{
		positions: map[int]Vec3{
			1: {X: earthRadiusKm + 500, Y: 0, Z: 0}, // overhead (0,0,0) lat/lon
			2: {X: 0, Y: 0, Z: earthRadiusKm + 500}, // overhead the pole, not (0,0)
		},
	}
	svc := &ElevationFoVService{Oracle: oracle, SatelliteIDs: []int{1, 2}}
	loc := GroundLocation{LatDeg: 0, LonDeg: 0, AltKm: 0}

	visible := svc.Visible(loc, epoch, 25)
	assert.Len(t, visible, 1)
	assert.Equal(t, 1, visible[0].SatelliteID)
	assert.InDelta(t, 90, visible[0].ElevationDeg, 1)
}

type stubOracle struct {
	positions map[int]Vec3
}

func (s stubOracle) Position(satelliteID int, _ simtime.SimTime) Vec3 {
	return s.positions[satelliteID]
}
