package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/SynapticNetworks/context-engine/engine"
	"github.com/SynapticNetworks/context-engine/graph"
	"github.com/SynapticNetworks/context-engine/graphdef"
)

// scenarioFile is the on-disk shape a `ctxengine run`/`watch` scenario is
// written in: an optional alternate graph definition, optional config
// overrides, and the sequence of per-tick sensor injections.
type scenarioFile struct {
	Graph  string               `yaml:"graph"` // path to a graphdef-schema YAML file; empty = embedded default
	Config *scenarioConfig      `yaml:"config"`
	Ticks  []map[string]float64 `yaml:"ticks"`
}

type scenarioConfig struct {
	K      *float64 `yaml:"k"`
	X0     *float64 `yaml:"x0"`
	Lambda *float64 `yaml:"lambda"`
}

func loadScenario(path string) (*scenarioFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario %s: %w", path, err)
	}
	var s scenarioFile
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parsing scenario %s: %w", path, err)
	}
	return &s, nil
}

// buildEngine resolves the scenario's graph (embedded default or a
// user-supplied file) and config overrides into a ready engine.
func buildEngine(s *scenarioFile) (*engine.Engine, error) {
	var g *graph.Graph
	var err error
	if s.Graph == "" {
		g, err = graphdef.Load()
	} else {
		g, err = graphdef.LoadFile(s.Graph)
	}
	if err != nil {
		return nil, err
	}

	cfg := engine.DefaultConfig()
	if s.Config != nil {
		if s.Config.K != nil {
			cfg.K = *s.Config.K
		}
		if s.Config.X0 != nil {
			cfg.X0 = *s.Config.X0
		}
		if s.Config.Lambda != nil {
			cfg.Lambda = *s.Config.Lambda
		}
	}
	return engine.New(g, cfg), nil
}
