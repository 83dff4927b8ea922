package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeScenario(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestLoadScenario(t *testing.T) {
	path := writeScenario(t, `
ticks:
  - IN_FIST: 1
  - IN_FIST: 0
`)

	s, err := loadScenario(path)
	require.NoError(t, err)
	require.Len(t, s.Ticks, 2)
	assert.Equal(t, 1.0, s.Ticks[0]["IN_FIST"])
	assert.Equal(t, "", s.Graph)
	assert.Nil(t, s.Config)
}

func TestLoadScenario_MissingFile(t *testing.T) {
	_, err := loadScenario(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestLoadScenario_MalformedYAML(t *testing.T) {
	path := writeScenario(t, "ticks: [not, a, map")
	_, err := loadScenario(path)
	require.Error(t, err)
}

func TestBuildEngine_DefaultGraphAndConfig(t *testing.T) {
	e, err := buildEngine(&scenarioFile{})
	require.NoError(t, err)
	require.NotNil(t, e)

	// Default config means default k/x0/lambda, which an unconfigured engine
	// over the embedded graph should already satisfy the quiescence law for.
	for i := 0; i < 50; i++ {
		e.Step()
	}
	for _, sv := range e.RankedStates() {
		assert.Less(t, sv.Value, 0.15, "state %s should stay near its quiescent floor", sv.ID)
	}
}

func TestBuildEngine_ConfigOverrides(t *testing.T) {
	k, x0, lambda := 8.0, 2.0, 0.5
	s := &scenarioFile{
		Config: &scenarioConfig{K: &k, X0: &x0, Lambda: &lambda},
	}

	defaultEngine, err := buildEngine(&scenarioFile{})
	require.NoError(t, err)
	overriddenEngine, err := buildEngine(s)
	require.NoError(t, err)

	injections := map[string]float64{"IN_FIST": 1}
	defaultEngine.Inject(injections)
	defaultEngine.Step()
	overriddenEngine.Inject(injections)
	overriddenEngine.Step()

	// Different k/x0/lambda must produce a different activation trajectory
	// for the overrides to actually be wired through to engine.Config.
	assert.NotEqual(t, defaultEngine.Activations()["FT_HOLDING"], overriddenEngine.Activations()["FT_HOLDING"])
}

func TestBuildEngine_PartialConfigOverride(t *testing.T) {
	lambda := 0.9
	s := &scenarioFile{Config: &scenarioConfig{Lambda: &lambda}}

	e, err := buildEngine(s)
	require.NoError(t, err)
	require.NotNil(t, e)
	// K and X0 left nil must fall back to engine.DefaultConfig's values; this
	// is exercised indirectly below by checking the engine still runs and
	// produces a valid (non-NaN, bounded) trajectory.
	e.Inject(map[string]float64{"IN_FIST": 1})
	e.Step()
	for _, v := range e.Activations() {
		assert.GreaterOrEqual(t, v, 0.0)
		assert.LessOrEqual(t, v, 1.0)
	}
}

func TestBuildEngine_CustomGraphFile(t *testing.T) {
	path := writeScenario(t, "") // reuse helper for tmp file plumbing
	require.NoError(t, os.WriteFile(path, []byte(`
nodes:
  - id: IN_A
    kind: Input
  - id: ST_B
    kind: State
edges:
  - from: IN_A
    to: ST_B
    weight: 1.5
`), 0o644))

	e, err := buildEngine(&scenarioFile{Graph: path})
	require.NoError(t, err)
	require.NotNil(t, e)
	e.Inject(map[string]float64{"IN_A": 1})
	e.Step()
	_, ok := e.Activations()["ST_B"]
	assert.True(t, ok)
}

func TestBuildEngine_CustomGraphFileMissing(t *testing.T) {
	_, err := buildEngine(&scenarioFile{Graph: filepath.Join(t.TempDir(), "missing.yaml")})
	require.Error(t, err)
}
