package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// DefaultHopToCheck is the ISL-hop threshold assumed when a requester
// config predates the hop_to_check field (spec.md §9, SPEC_FULL.md §12.2).
const DefaultHopToCheck = 1

// SimTimeConfig is the `simtime` block sibling to each topology
// (spec.md §6): start/end timestamps in "YYYY-MM-DD HH:MM:SS" form and a
// fixed tick size in seconds.
type SimTimeConfig struct {
	StartTime string  `json:"starttime" yaml:"starttime"`
	EndTime   string  `json:"endtime" yaml:"endtime"`
	Delta     float64 `json:"delta" yaml:"delta"`
}

// ModelBlock is one entry of a node's `models[]` array. Only the fields
// relevant to the model named by Name are populated; unrelated fields
// are left zero-valued, matching the loosely-typed model-block shape
// spec.md §6 describes.
type ModelBlock struct {
	Name string `json:"name" yaml:"name"`

	// ModelCDNProvider fields.
	CacheSize                int    `json:"cache_size,omitempty" yaml:"cache_size,omitempty"`
	CacheEvictionStrategy    string `json:"cache_eviction_strategy,omitempty" yaml:"cache_eviction_strategy,omitempty"`
	HandleRequestsStrategy   string `json:"handle_requests_strategy,omitempty" yaml:"handle_requests_strategy,omitempty"`
	ActiveSchedulingStrategy string `json:"active_scheduling_strategy,omitempty" yaml:"active_scheduling_strategy,omitempty"`

	// ModelCDNUser (requester) fields.
	AccessPatternFile          string  `json:"access_pattern_file,omitempty" yaml:"access_pattern_file,omitempty"`
	AccessGenerationFunction   string  `json:"access_generation_function,omitempty" yaml:"access_generation_function,omitempty"`
	SchedulingStrategyFunction string  `json:"scheduling_strategy_function,omitempty" yaml:"scheduling_strategy_function,omitempty"`
	NumAccessToGen             int     `json:"num_access_to_gen,omitempty" yaml:"num_access_to_gen,omitempty"`
	SatellitesToSchedule       int     `json:"satellites_to_schedule,omitempty" yaml:"satellites_to_schedule,omitempty"`
	Lat                        float64 `json:"lat,omitempty" yaml:"lat,omitempty"`
	Lon                        float64 `json:"lon,omitempty" yaml:"lon,omitempty"`
	Alt                        float64 `json:"alt,omitempty" yaml:"alt,omitempty"`
	HopToCheck                 *int    `json:"hop_to_check,omitempty" yaml:"hop_to_check,omitempty"`
}

const (
	ModelCDNProvider = "ModelCDNProvider"
	ModelCDNUser     = "ModelCDNUser"
)

// Node is one entry of a topology's `nodes[]` array.
type Node struct {
	Type   string       `json:"type" yaml:"type"`
	NodeID int          `json:"nodeid" yaml:"nodeid"`
	Models []ModelBlock `json:"models" yaml:"models"`
}

const (
	NodeTypeSAT              = "SAT"
	NodeTypeGS               = "GS"
	NodeTypeIoT              = "IoT"
	NodeTypeTrafficScheduler = "TRAFFIC_SCHEDULER"
)

// Topology is one entry of the scenario's `topologies[]` array.
//
// IslTopologyFile names a sibling JSON file, resolved relative to the
// scenario file's directory, holding the satID -> [next, prev, left,
// right] neighbor map consumed by LoadISLTopology (spec.md §6). It is
// optional; a topology with no ISL links (e.g. a single-satellite
// scenario) omits it and every satellite gets an empty neighbor list.
type Topology struct {
	Name            string        `json:"name" yaml:"name"`
	ID              int           `json:"id" yaml:"id"`
	Nodes           []Node        `json:"nodes" yaml:"nodes"`
	SimTime         SimTimeConfig `json:"simtime" yaml:"simtime"`
	IslTopologyFile string        `json:"isl_topology_file,omitempty" yaml:"isl_topology_file,omitempty"`
}

// Scenario is the full scenario document (spec.md §6).
type Scenario struct {
	Topologies []Topology `json:"topologies" yaml:"topologies"`
}

// LoadScenario reads and parses a scenario document. JSON is the
// canonical wire format (spec.md §6); a ".yaml"/".yml" extension
// switches to the YAML-equivalent schema instead, for the same ecosystem
// reason the teacher keeps both a JSON and a YAML config path
// (SPEC_FULL.md §10.3).
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read scenario %q: %w", path, err)
	}

	var sc Scenario
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &sc); err != nil {
			return nil, fmt.Errorf("config: parse scenario yaml %q: %w", path, err)
		}
	default:
		if err := json.Unmarshal(data, &sc); err != nil {
			return nil, &ConfigError{Msg: fmt.Sprintf("parse scenario json %q: %v", path, err)}
		}
	}

	upgradeHopToCheck(&sc)
	return &sc, nil
}

// upgradeHopToCheck defaults a requester's missing hop_to_check to
// DefaultHopToCheck and warns once, rather than failing validation
// (SPEC_FULL.md §12.2's deprecated-field auto-upgrade).
func upgradeHopToCheck(sc *Scenario) {
	for _, topo := range sc.Topologies {
		for i := range topo.Nodes {
			for j := range topo.Nodes[i].Models {
				m := &topo.Nodes[i].Models[j]
				if m.Name != ModelCDNUser || m.HopToCheck != nil {
					continue
				}
				logrus.Warnf("config: node %d: hop_to_check missing, defaulting to %d", topo.Nodes[i].NodeID, DefaultHopToCheck)
				def := DefaultHopToCheck
				m.HopToCheck = &def
			}
		}
	}
}

// Validate checks every topology for structural and field-level
// requirements (spec.md §7, §9): duplicate node IDs are a TopologyError;
// missing or malformed model fields are a ConfigError naming the field.
// Must be called, and must succeed, before any satellite is constructed
// (SPEC_FULL.md §12.1).
func (sc *Scenario) Validate() error {
	for _, topo := range sc.Topologies {
		seen := make(map[int]bool, len(topo.Nodes))
		for _, n := range topo.Nodes {
			if seen[n.NodeID] {
				return &TopologyError{TopologyName: topo.Name, NodeID: n.NodeID}
			}
			seen[n.NodeID] = true

			for _, m := range n.Models {
				if err := validateModel(n.NodeID, m); err != nil {
					return err
				}
			}
		}
		if topo.SimTime.StartTime == "" {
			return &ConfigError{Field: "simtime.starttime", Msg: fmt.Sprintf("topology %q: required", topo.Name)}
		}
		if topo.SimTime.EndTime == "" {
			return &ConfigError{Field: "simtime.endtime", Msg: fmt.Sprintf("topology %q: required", topo.Name)}
		}
		if topo.SimTime.Delta <= 0 {
			return &ConfigError{Field: "simtime.delta", Msg: fmt.Sprintf("topology %q: must be > 0", topo.Name)}
		}
	}
	return nil
}

// Known ModelCDNProvider strategy names. Anything else is rejected by
// validateModel rather than reaching cache.NewEvictionPolicy, which
// panics on an unknown name (spec.md §7/§9: unknown names fail fast
// during config validation, not with an unrecovered runtime panic).
const (
	evictionStrategyLRU              = "LRU"
	handleRequestsStrategyLocalCache = "check_local_cache_only"
	activeSchedulingStrategyNoOp     = "no_op"
)

func validateModel(nodeID int, m ModelBlock) error {
	switch m.Name {
	case ModelCDNProvider:
		if m.CacheSize <= 0 {
			return &ConfigError{Field: "cache_size", Msg: fmt.Sprintf("node %d: must be > 0", nodeID)}
		}
		if m.CacheEvictionStrategy == "" {
			return &ConfigError{Field: "cache_eviction_strategy", Msg: fmt.Sprintf("node %d: required", nodeID)}
		}
		if m.CacheEvictionStrategy != evictionStrategyLRU {
			return &ConfigError{Field: "cache_eviction_strategy", Msg: fmt.Sprintf("node %d: unknown strategy %q; valid: [%s]", nodeID, m.CacheEvictionStrategy, evictionStrategyLRU)}
		}
		if m.HandleRequestsStrategy == "" {
			return &ConfigError{Field: "handle_requests_strategy", Msg: fmt.Sprintf("node %d: required", nodeID)}
		}
		if m.HandleRequestsStrategy != handleRequestsStrategyLocalCache {
			return &ConfigError{Field: "handle_requests_strategy", Msg: fmt.Sprintf("node %d: unknown strategy %q; valid: [%s]", nodeID, m.HandleRequestsStrategy, handleRequestsStrategyLocalCache)}
		}
		if m.ActiveSchedulingStrategy == "" {
			return &ConfigError{Field: "active_scheduling_strategy", Msg: fmt.Sprintf("node %d: required", nodeID)}
		}
		if m.ActiveSchedulingStrategy != activeSchedulingStrategyNoOp {
			return &ConfigError{Field: "active_scheduling_strategy", Msg: fmt.Sprintf("node %d: unknown strategy %q; valid: [%s]", nodeID, m.ActiveSchedulingStrategy, activeSchedulingStrategyNoOp)}
		}
	case ModelCDNUser:
		if m.AccessPatternFile == "" {
			return &ConfigError{Field: "access_pattern_file", Msg: fmt.Sprintf("node %d: required", nodeID)}
		}
		if m.NumAccessToGen <= 0 {
			return &ConfigError{Field: "num_access_to_gen", Msg: fmt.Sprintf("node %d: must be > 0", nodeID)}
		}
		if m.SatellitesToSchedule <= 0 {
			return &ConfigError{Field: "satellites_to_schedule", Msg: fmt.Sprintf("node %d: must be > 0", nodeID)}
		}
	}
	return nil
}
