package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/orbitcache/orbitcache-sim/access"
	"github.com/orbitcache/orbitcache-sim/cache"
	"github.com/orbitcache/orbitcache-sim/cdnprovider"
	"github.com/orbitcache/orbitcache-sim/config"
	"github.com/orbitcache/orbitcache-sim/directory"
	"github.com/orbitcache/orbitcache-sim/enginerun"
	"github.com/orbitcache/orbitcache-sim/geo"
	"github.com/orbitcache/orbitcache-sim/requester"
	"github.com/orbitcache/orbitcache-sim/scheduler"
	"github.com/orbitcache/orbitcache-sim/simrng"
	"github.com/orbitcache/orbitcache-sim/simtime"
	"github.com/orbitcache/orbitcache-sim/telemetry"
	"github.com/orbitcache/orbitcache-sim/topology"
)

// buildRun loads configPath, validates it, and wires up exactly one
// topology's satellites, requesters, and tick loop. Scenario files with
// more than one topology use only the first; multi-topology runs are
// outside this core's scope (spec.md §1).
func buildRun(configPath string, seed int64) (*enginerun.TickDriver, error) {
	sc, err := config.LoadScenario(configPath)
	if err != nil {
		return nil, err
	}
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	if len(sc.Topologies) == 0 {
		return nil, &config.ConfigError{Msg: "scenario has no topologies"}
	}
	topo := sc.Topologies[0]

	start, err := simtime.Parse(topo.SimTime.StartTime)
	if err != nil {
		return nil, fmt.Errorf("topology %q: %w", topo.Name, err)
	}
	end, err := simtime.Parse(topo.SimTime.EndTime)
	if err != nil {
		return nil, fmt.Errorf("topology %q: %w", topo.Name, err)
	}

	baseDir := filepath.Dir(configPath)
	islAdjacency, err := islAdjacencyFor(topo, baseDir)
	if err != nil {
		return nil, err
	}
	isl := topology.NewISLGraph(islAdjacency)
	dir := directory.New()
	sink := telemetry.NewSink()
	positions := referencePositions(len(islAdjacency), start)

	providers := make(map[int]*cdnprovider.Provider)
	for _, n := range topo.Nodes {
		for _, m := range n.Models {
			if m.Name == config.ModelCDNProvider {
				cacheEngine := cache.NewCacheEngine(m.CacheSize, m.CacheEvictionStrategy)
				providers[n.NodeID] = cdnprovider.New(n.NodeID, cacheEngine, dir, isl, positions, sink)
			}
		}
	}
	logrus.Infof("topology %q: constructed %d providers", topo.Name, len(providers))
	lookup := &providerLookup{providers: providers}

	rngs := simrng.NewPartitioned(seed)
	var requesters []enginerun.Sender
	for _, n := range topo.Nodes {
		for _, m := range n.Models {
			if m.Name != config.ModelCDNUser {
				continue
			}
			req, err := buildRequester(n, m, baseDir, positions, providers, lookup, sink, rngs)
			if err != nil {
				return nil, err
			}
			requesters = append(requesters, req)
		}
	}
	logrus.Infof("topology %q: constructed %d requesters", topo.Name, len(requesters))

	return enginerun.New(start, end, topo.SimTime.Delta, requesters, providers, sink), nil
}

func buildRequester(n config.Node, m config.ModelBlock, baseDir string, positions geo.PositionOracle, providers map[int]*cdnprovider.Provider, lookup requester.ProviderLookup, sink *telemetry.Sink, rngs *simrng.Partitioned) (*requester.Requester, error) {
	pattern, err := config.LoadAccessPattern(filepath.Join(baseDir, m.AccessPatternFile))
	if err != nil {
		return nil, err
	}
	gen := access.NewGenerator(pattern, 0)

	satIDs := make([]int, 0, len(providers))
	for id := range providers {
		satIDs = append(satIDs, id)
	}
	fov := &geo.ElevationFoVService{Oracle: positions, SatelliteIDs: satIDs}
	sched := scheduler.New(fov)

	hopToCheck := config.DefaultHopToCheck
	if m.HopToCheck != nil {
		hopToCheck = *m.HopToCheck
	}

	requesterID := fmt.Sprintf("requester-%d", n.NodeID)
	loc := geo.GroundLocation{LatDeg: m.Lat, LonDeg: m.Lon, AltKm: m.Alt}
	rng := rngs.ForRequester(requesterID)

	return requester.New(requesterID, loc, gen, sched, lookup, sink, rng, m.NumAccessToGen, m.SatellitesToSchedule, hopToCheck), nil
}

type providerLookup struct {
	providers map[int]*cdnprovider.Provider
}

func (p *providerLookup) Provider(satelliteID int) *cdnprovider.Provider {
	return p.providers[satelliteID]
}

// islAdjacencyFor loads the topology's ISL neighbor map from its
// isl_topology_file (spec.md §6) when one is set. Satellites missing
// from that file, or every satellite when no file is given, default to
// an empty [-1, -1, -1, -1] neighbor list.
func islAdjacencyFor(topo config.Topology, baseDir string) (map[int][4]int, error) {
	adjacency := make(map[int][4]int, len(topo.Nodes))
	for _, n := range topo.Nodes {
		if n.Type == config.NodeTypeSAT {
			adjacency[n.NodeID] = [4]int{-1, -1, -1, -1}
		}
	}
	if topo.IslTopologyFile == "" {
		return adjacency, nil
	}

	loaded, err := config.LoadISLTopology(filepath.Join(baseDir, topo.IslTopologyFile))
	if err != nil {
		return nil, err
	}
	for satID, neighbors := range loaded {
		adjacency[satID] = neighbors
	}
	logrus.Infof("topology %q: loaded ISL adjacency for %d satellites", topo.Name, len(loaded))
	return adjacency, nil
}

// referencePositions builds the supplemental deterministic position
// oracle (SPEC_FULL.md §12.3) for numSatellites nodes, spacing their
// orbital phase evenly around a single shared circular orbit. A real
// deployment supplies its own PositionOracle, typically backed by a TLE
// propagator, in place of this reference implementation.
func referencePositions(numSatellites int, epoch simtime.SimTime) geo.PositionOracle {
	if numSatellites < 1 {
		numSatellites = 1
	}
	return &geo.CircularOrbitOracle{
		AltitudeKm:    550,
		NumSatellites: numSatellites,
		PeriodSeconds: 5700,
		Epoch:         epoch,
	}
}
