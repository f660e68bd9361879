package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orbitcache/orbitcache-sim/config"
)

const buildTestScenario = `{
  "topologies": [
    {
      "name": "leo-1",
      "id": 1,
      "simtime": {"starttime": "2026-01-01 00:00:00", "endtime": "2026-01-01 00:05:00", "delta": 60},
      "isl_topology_file": "isl.json",
      "nodes": [
        {
          "type": "SAT",
          "nodeid": 1,
          "models": [
            {"name": "ModelCDNProvider", "cache_size": 10, "cache_eviction_strategy": "LRU", "handle_requests_strategy": "check_local_cache_only", "active_scheduling_strategy": "no_op"}
          ]
        },
        {
          "type": "SAT",
          "nodeid": 2,
          "models": [
            {"name": "ModelCDNProvider", "cache_size": 10, "cache_eviction_strategy": "LRU", "handle_requests_strategy": "check_local_cache_only", "active_scheduling_strategy": "no_op"}
          ]
        },
        {
          "type": "GS",
          "nodeid": 3,
          "models": [
            {"name": "ModelCDNUser", "access_pattern_file": "pattern.json", "num_access_to_gen": 5, "satellites_to_schedule": 2}
          ]
        }
      ]
    }
  ]
}`

const buildTestISL = `{"1": ["2", "", "", ""], "2": ["", "1", "", ""]}`

const buildTestPattern = `{"video-1": 0.5, "video-2": 0.5}`

func writeScenarioFixture(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "scenario.json"), []byte(buildTestScenario), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "isl.json"), []byte(buildTestISL), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "pattern.json"), []byte(buildTestPattern), 0o644))
	return filepath.Join(dir, "scenario.json")
}

func TestBuildRun_WiresProvidersAndRequesters(t *testing.T) {
	path := writeScenarioFixture(t)
	driver, err := buildRun(path, 42)
	require.NoError(t, err)
	require.NotNil(t, driver)

	assert.NotNil(t, driver.Provider(1))
	assert.NotNil(t, driver.Provider(2))
	assert.Nil(t, driver.Provider(99))
}

func TestBuildRun_MissingConfigFileReturnsError(t *testing.T) {
	_, err := buildRun(filepath.Join(t.TempDir(), "missing.json"), 1)
	require.Error(t, err)
}

func TestBuildRun_InvalidScenarioReturnsConfigOrTopologyError(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scenario.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"topologies": [{"name": "bad", "simtime": {"starttime": "2026-01-01 00:00:00", "endtime": "2026-01-01 00:05:00", "delta": 60}, "nodes": [{"type": "SAT", "nodeid": 1}, {"type": "SAT", "nodeid": 1}]}]}`), 0o644))

	_, err := buildRun(path, 1)
	require.Error(t, err)
	var topoErr *config.TopologyError
	require.ErrorAs(t, err, &topoErr)
}

func TestBuildRun_NoTopologiesIsConfigError(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scenario.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"topologies": []}`), 0o644))

	_, err := buildRun(path, 1)
	require.Error(t, err)
	var cfgErr *config.ConfigError
	require.ErrorAs(t, err, &cfgErr)
}
