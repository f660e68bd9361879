package enginerun

import (
	"context"
	"math/rand"
	"testing"

	"github.com/orbitcache/orbitcache-sim/access"
	"github.com/orbitcache/orbitcache-sim/cache"
	"github.com/orbitcache/orbitcache-sim/cdnprovider"
	"github.com/orbitcache/orbitcache-sim/directory"
	"github.com/orbitcache/orbitcache-sim/geo"
	"github.com/orbitcache/orbitcache-sim/requester"
	"github.com/orbitcache/orbitcache-sim/scheduler"
	"github.com/orbitcache/orbitcache-sim/simtime"
	"github.com/orbitcache/orbitcache-sim/telemetry"
	"github.com/orbitcache/orbitcache-sim/topology"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubPositions struct{}

func (stubPositions) Position(satelliteID int, _ simtime.SimTime) geo.Vec3 {
	return geo.Vec3{X: float64(satelliteID)}
}

type alwaysVisible struct{ ids []int }

func (a alwaysVisible) Visible(_ geo.GroundLocation, _ simtime.SimTime, _ float64) []geo.VisibleSatellite {
	out := make([]geo.VisibleSatellite, len(a.ids))
	for i, id := range a.ids {
		out[i] = geo.VisibleSatellite{SatelliteID: id, ElevationDeg: float64(50 + i)}
	}
	return out
}

func buildDriver(t *testing.T, numTicks int) (*TickDriver, *telemetry.Sink) {
	t.Helper()
	dir := directory.New()
	isl := topology.NewISLGraph(map[int][4]int{0: {1, -1, -1, -1}, 1: {-1, 0, -1, -1}})
	sink := telemetry.NewSink()

	providers := map[int]*cdnprovider.Provider{
		0: cdnprovider.New(0, cache.NewCacheEngine(10, "LRU"), dir, isl, stubPositions{}, sink),
		1: cdnprovider.New(1, cache.NewCacheEngine(10, "LRU"), dir, isl, stubPositions{}, sink),
	}

	start, err := simtime.Parse("2026-01-01 00:00:00")
	require.NoError(t, err)
	end := start.Add(float64(numTicks))

	driver := New(start, end, 1.0, nil, providers, sink)

	gen := access.NewGenerator(access.Pattern{"a": 0.5, "b": 0.5}, 0)
	sched := scheduler.New(alwaysVisible{ids: []int{0, 1}})
	req := requester.New("R1", geo.GroundLocation{}, gen, sched, driver, sink, rand.New(rand.NewSource(1)), 6, 2, 0)
	driver.requesters = []Sender{req}

	return driver, sink
}

func TestTickDriver_RunsUntilEndAndFlushesEachTick(t *testing.T) {
	driver, sink := buildDriver(t, 3)
	err := driver.Run(context.Background())
	require.NoError(t, err)
	// Flush clears the sink at the end of every tick, so nothing should
	// remain accumulated once Run returns.
	assert.Empty(t, sink.Traffic())
}

// panickingSender stands in for a requester whose dispatched batch
// violated the sanity invariant (spec.md §8 property 3).
type panickingSender struct{}

func (panickingSender) SendRequests(simtime.SimTime) {
	panic(cdnprovider.SanityError{SatelliteID: 0, BatchSize: 1})
}

// TestTickDriver_RecoversProviderPanicAsFatalError exercises the
// recover-and-wrap path: a SanityError panicking out of a requester's
// goroutine must surface as a *FatalError from Run, not crash the
// process or escape silently (SPEC_FULL.md §10.2).
func TestTickDriver_RecoversProviderPanicAsFatalError(t *testing.T) {
	driver, _ := buildDriver(t, 1)
	driver.requesters = []Sender{panickingSender{}}

	err := driver.Run(context.Background())
	var fatal *FatalError
	require.ErrorAs(t, err, &fatal)
	assert.Equal(t, 1, fatal.Tick)
}
