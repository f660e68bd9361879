// Package requester implements the per-ground-site request dispatcher
// (spec.md §4.7): on each tick it draws a batch of ContentIDs, schedules
// them across the currently visible satellites, splits the batch into
// near-equal chunks, and dispatches each chunk to its satellite's
// CDNProvider.
//
// Grounded on the original CosmicBeats ModelCDNUser.generate_requests,
// which does the same generate -> schedule -> split -> dispatch sequence
// once per tick.
package requester

import (
	"math/rand"

	"github.com/orbitcache/orbitcache-sim/access"
	"github.com/orbitcache/orbitcache-sim/cdnprovider"
	"github.com/orbitcache/orbitcache-sim/geo"
	"github.com/orbitcache/orbitcache-sim/scheduler"
	"github.com/orbitcache/orbitcache-sim/simtime"
	"github.com/orbitcache/orbitcache-sim/telemetry"
)

// ProviderLookup resolves a satellite ID to the Provider that serves it.
// Satisfied by whatever owns the constellation's Provider set (typically
// enginerun.TickDriver); kept as a narrow interface so this package
// doesn't need to know how satellites are stored.
type ProviderLookup interface {
	Provider(satelliteID int) *cdnprovider.Provider
}

// Requester is one ground site's request generator, per spec.md §4.7.
// Each Requester owns its own RNG stream (derived once at construction
// via simrng.Partitioned.ForRequester) so that concurrent requesters in
// TickDriver's phase P1 never share a generator (spec.md §5).
type Requester struct {
	ID       string
	Location geo.GroundLocation

	generator *access.Generator
	scheduler *scheduler.Scheduler
	providers ProviderLookup
	sink      *telemetry.Sink
	rng       *rand.Rand

	numRequests      int
	loadBalanceCount int
	hopToCheck       int
}

// New creates a Requester for a ground site. hopToCheck defaults to
// cdnprovider.DefaultHopToCheck when 0 is passed (spec.md §9).
func New(id string, loc geo.GroundLocation, generator *access.Generator, sched *scheduler.Scheduler, providers ProviderLookup, sink *telemetry.Sink, rng *rand.Rand, numRequests, loadBalanceCount, hopToCheck int) *Requester {
	if hopToCheck == 0 {
		hopToCheck = cdnprovider.DefaultHopToCheck
	}
	return &Requester{
		ID: id, Location: loc,
		generator: generator, scheduler: sched, providers: providers, sink: sink, rng: rng,
		numRequests: numRequests, loadBalanceCount: loadBalanceCount, hopToCheck: hopToCheck,
	}
}

// SendRequests runs one tick of spec.md §4.7's operation: generate,
// schedule, split, dispatch, and emit per-satellite telemetry.
func (r *Requester) SendRequests(t simtime.SimTime) {
	ids := r.generator.Generate(r.rng, r.numRequests)

	selected := r.scheduler.Schedule(r.Location, t, r.loadBalanceCount)
	if len(selected) == 0 {
		r.sink.RecordOutOfService(telemetry.OutOfServiceEvent{RequesterID: r.ID})
		return
	}

	chunks := partition(ids, len(selected))
	for i, sat := range selected {
		p := r.providers.Provider(sat)
		if p == nil {
			continue
		}
		hits := p.HandleRequests(t, chunks[i], r.hopToCheck)
		r.sink.RecordHitRate(telemetry.HitRate{SatelliteID: sat, Rate: hitRate(hits)})
	}
}

// partition splits ids into n contiguous chunks of near-equal size:
// sizes differ by at most 1, and earlier chunks get the extra elements
// (spec.md §4.7 step 4, scenario S6).
func partition(ids []string, n int) [][]string {
	base := len(ids) / n
	extra := len(ids) % n
	chunks := make([][]string, n)
	pos := 0
	for i := 0; i < n; i++ {
		size := base
		if i < extra {
			size++
		}
		chunks[i] = ids[pos : pos+size]
		pos += size
	}
	return chunks
}

func hitRate(hits []bool) float64 {
	if len(hits) == 0 {
		return 0
	}
	n := 0
	for _, h := range hits {
		if h {
			n++
		}
	}
	return float64(n) / float64(len(hits))
}
