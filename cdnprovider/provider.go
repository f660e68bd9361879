// Package cdnprovider implements the per-satellite CDN glue (spec.md
// §4.8): it wires a satellite's CacheEngine to the constellation-wide
// ReplicaDirectory and ISLGraph, resolving each request to a local hit,
// a remote (ISL) hit, or an uplink fetch, and emitting telemetry.
//
// Grounded on the original CosmicBeats ModelCDNProvider.__check_local_cache_only
// for the resolution algorithm itself, and on the teacher's lock
// discipline (sim/cluster/cluster.go acquires its aggregation lock from
// inside per-instance operations, never the reverse) for the
// provider-then-topology lock ordering spec.md §5 requires.
package cdnprovider

import (
	"fmt"
	"sync"

	"github.com/orbitcache/orbitcache-sim/cache"
	"github.com/orbitcache/orbitcache-sim/directory"
	"github.com/orbitcache/orbitcache-sim/geo"
	"github.com/orbitcache/orbitcache-sim/simtime"
	"github.com/orbitcache/orbitcache-sim/telemetry"
	"github.com/orbitcache/orbitcache-sim/topology"
)

// DefaultHopToCheck is the ISL-hop threshold used when a requester config
// does not supply hop_to_check (spec.md §9's resolution of the
// hardcoded-vs-configurable ambiguity).
const DefaultHopToCheck = 1

// SanityError signals that HandleRequests' batch invariant
// (spec.md §8 property 3) did not hold — a programming bug, not a
// simulated event. TickDriver recovers this panic at the tick boundary
// and turns it into a fatal run error (SPEC_FULL.md §10.2).
type SanityError struct {
	SatelliteID                            int
	BatchSize, Hits, Downlink, Uplink, ISL int
}

func (e SanityError) Error() string {
	return fmt.Sprintf(
		"cdnprovider: sanity check failed on satellite %d: hits=%d, want downlink(%d)-uplink(%d)-isl(%d), batch size %d",
		e.SatelliteID, e.Hits, e.Downlink, e.Uplink, e.ISL, e.BatchSize)
}

// Provider is the CDN glue for a single satellite. One Provider is
// created per satellite at construction and lives for the run
// (spec.md §3's Lifecycle).
type Provider struct {
	mu sync.Mutex

	satelliteID int
	cache       *cache.CacheEngine
	dir         *directory.Directory
	isl         *topology.ISLGraph
	positions   geo.PositionOracle
	sink        *telemetry.Sink
}

// New creates a Provider for satelliteID, backed by cacheEngine (already
// sized and configured per spec.md §4.2), the constellation-shared
// directory and ISL graph, a position oracle for remote-hit distance
// telemetry, and a telemetry sink.
func New(satelliteID int, cacheEngine *cache.CacheEngine, dir *directory.Directory, isl *topology.ISLGraph, positions geo.PositionOracle, sink *telemetry.Sink) *Provider {
	return &Provider{
		satelliteID: satelliteID,
		cache:       cacheEngine,
		dir:         dir,
		isl:         isl,
		positions:   positions,
		sink:        sink,
	}
}

// SatelliteID returns this provider's owning satellite ID.
func (p *Provider) SatelliteID() int { return p.satelliteID }

// HandleRequests resolves each ContentID in chunk against this
// satellite's cache, the replica directory, and the ISL graph, per
// spec.md §4.8. It is the system's hot path: it acquires the provider's
// own mutex for its full duration, and additionally touches the
// directory's mutex (via Directory's own locking) for each directory
// read-modify-write — always provider-lock-then-directory-lock, never
// the reverse, per spec.md §5.
//
// Panics with a SanityError if the post-batch invariant
// (spec.md §8 property 3) does not hold.
func (p *Provider) HandleRequests(t simtime.SimTime, chunk []string, hopToCheck int) []bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	hits := make([]bool, 0, len(chunk))
	downlinkCnt, uplinkCnt := 0, 0
	var islCnt [4]int
	var missed telemetry.MissedButAvailable

	for _, id := range chunk {
		if p.cache.Touch(id) {
			hits = append(hits, true)
			downlinkCnt++
			continue
		}

		p.resolveMiss(t, id, hopToCheck, &uplinkCnt, &islCnt, &missed)

		if evicted, ok := p.cache.Admit(id); ok {
			p.dir.RemoveHolder(evicted, p.satelliteID)
		}
		hits = append(hits, false)
		downlinkCnt++
	}

	islTotal := islCnt[0] + islCnt[1] + islCnt[2] + islCnt[3]
	hitCount := 0
	for _, h := range hits {
		if h {
			hitCount++
		}
	}
	if want := downlinkCnt - uplinkCnt - islTotal; hitCount != want {
		panic(SanityError{
			SatelliteID: p.satelliteID, BatchSize: len(chunk),
			Hits: hitCount, Downlink: downlinkCnt, Uplink: uplinkCnt, ISL: islTotal,
		})
	}

	p.sink.RecordTraffic(telemetry.TrafficLine{
		SatelliteID: p.satelliteID, Downlink: downlinkCnt, Uplink: uplinkCnt,
		ISLNext: islCnt[topology.Next], ISLPrev: islCnt[topology.Prev],
		ISLLeft: islCnt[topology.Left], ISLRight: islCnt[topology.Right],
	})
	if len(missed.ContentIDs) > 0 {
		missed.SatelliteID = p.satelliteID
		p.sink.RecordMissedButAvailable(missed)
	}
	p.sink.RecordRequestResult(telemetry.RequestResult{SatelliteID: p.satelliteID, Hits: hits})

	return hits
}

// resolveMiss handles step 2 of spec.md §4.8 for a single local-miss
// ContentID: directory consult, classify as uplink or remote hit, and in
// both cases register this satellite as a new holder.
func (p *Provider) resolveMiss(t simtime.SimTime, id string, hopToCheck int, uplinkCnt *int, islCnt *[4]int, missed *telemetry.MissedButAvailable) {
	holders := p.dir.Holders(id)
	if len(holders) == 0 {
		p.dir.AddHolder(id, p.satelliteID)
		*uplinkCnt++
		return
	}

	closestDist, closestSat := p.closestHolder(t, holders)
	islHop := p.isl.HopDistance(p.satelliteID, closestSat)
	shortestHop, via, ok := p.isl.ShortestReplicaHop(p.satelliteID, id, p.dir)

	missed.ContentIDs = append(missed.ContentIDs, id)
	missed.Distances = append(missed.Distances, closestDist)
	missed.ISLHops = append(missed.ISLHops, islHop)
	missed.ShortestHops = append(missed.ShortestHops, shortestHop)

	if ok && shortestHop <= hopToCheck {
		islCnt[via]++
	} else {
		*uplinkCnt++
	}
	p.dir.AddHolder(id, p.satelliteID)
}

// closestHolder returns the Euclidean distance (via the position oracle)
// and satellite ID of the nearest current holder of id.
func (p *Provider) closestHolder(t simtime.SimTime, holders []int) (float64, int) {
	self := p.positions.Position(p.satelliteID, t)
	best := -1.0
	bestSat := holders[0]
	for _, h := range holders {
		d := self.Distance(p.positions.Position(h, t))
		if best < 0 || d < best {
			best, bestSat = d, h
		}
	}
	return best, bestSat
}

// PostEpoch snapshots this satellite's cache for telemetry without
// mutating engine state (spec.md §4.8).
func (p *Provider) PostEpoch() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sink.RecordCacheContent(telemetry.CacheContent{SatelliteID: p.satelliteID, OrderedIDs: p.cache.Snapshot()})
}
