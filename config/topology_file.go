package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
)

// noNeighbor is the sentinel used in an ISL-topology file's neighbor
// list for "no neighbor in this slot" (spec.md §6 leaves the sentinel's
// concrete value to the topology file's own documentation; this package
// follows the topology package's own convention of -1).
const noNeighbor = -1

// LoadISLTopology reads a JSON object mapping a satellite ID string to
// its 4-element [next, prev, left, right] neighbor list (spec.md §6),
// and returns it in the form topology.NewISLGraph expects.
func LoadISLTopology(path string) (map[int][4]int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read isl topology %q: %w", path, err)
	}

	var raw map[string][4]string
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &ConfigError{Msg: fmt.Sprintf("parse isl topology json %q: %v", path, err)}
	}

	adjacency := make(map[int][4]int, len(raw))
	for satStr, neighbors := range raw {
		sat, err := strconv.Atoi(satStr)
		if err != nil {
			return nil, &ConfigError{Field: "isl_topology", Msg: fmt.Sprintf("satellite id %q is not an integer", satStr)}
		}
		var slots [4]int
		for i, n := range neighbors {
			if n == "" {
				slots[i] = noNeighbor
				continue
			}
			id, err := strconv.Atoi(n)
			if err != nil {
				return nil, &ConfigError{Field: "isl_topology", Msg: fmt.Sprintf("satellite %d neighbor slot %d: %q is not an integer", sat, i, n)}
			}
			slots[i] = id
		}
		adjacency[sat] = slots
	}
	return adjacency, nil
}
