package config

import (
	"encoding/json"
	"fmt"
	"math"
	"os"

	"github.com/orbitcache/orbitcache-sim/access"
)

// probabilitySumTolerance is the maximum allowed drift of a pattern's
// probabilities from 1.0 (spec.md §6).
const probabilitySumTolerance = 1e-6

// LoadAccessPattern reads a JSON object mapping ContentID to draw
// probability (spec.md §6) and validates that the probabilities sum to 1
// within probabilitySumTolerance.
func LoadAccessPattern(path string) (access.Pattern, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read access pattern %q: %w", path, err)
	}

	var pattern access.Pattern
	if err := json.Unmarshal(data, &pattern); err != nil {
		return nil, &ConfigError{Msg: fmt.Sprintf("parse access pattern json %q: %v", path, err)}
	}

	sum := 0.0
	for _, p := range pattern {
		sum += p
	}
	if math.Abs(sum-1.0) > probabilitySumTolerance {
		return nil, &ConfigError{Field: "access_pattern", Msg: fmt.Sprintf("%q: probabilities sum to %f, want 1", path, sum)}
	}
	return pattern, nil
}
