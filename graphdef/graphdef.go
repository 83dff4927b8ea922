// Package graphdef loads the graph.Graph the rest of the engine runs over
// from a YAML document (§4.2's "static definition"), rather than from Go
// literals. The default network — the fixed §6 identifier namespace and its
// required qualitative wirings — ships embedded in the binary; callers that
// want a different network supply their own file in the same schema.
package graphdef

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/SynapticNetworks/context-engine/graph"
)

//go:embed context.yaml
var defaultYAML []byte

// doc mirrors context.yaml's top-level shape.
type doc struct {
	Nodes []nodeYAML `yaml:"nodes"`
	Edges []edgeYAML `yaml:"edges"`
}

type nodeYAML struct {
	ID        string  `yaml:"id"`
	Kind      string  `yaml:"kind"`
	Label     string  `yaml:"label"`
	Bias      float64 `yaml:"bias"`
	DecayRate float64 `yaml:"decay_rate"`
}

type edgeYAML struct {
	From   string  `yaml:"from"`
	To     string  `yaml:"to"`
	Weight float64 `yaml:"weight"`
}

// Load builds the embedded default network.
func Load() (*graph.Graph, error) {
	return parse(defaultYAML)
}

// LoadFile builds a network from a user-supplied YAML document in the same
// schema as context.yaml.
func LoadFile(path string) (*graph.Graph, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("graphdef: reading %s: %w", path, err)
	}
	return parse(data)
}

func parse(data []byte) (*graph.Graph, error) {
	var d doc
	if err := yaml.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("graphdef: parsing yaml: %w", err)
	}

	nodeDefs := make([]graph.NodeDef, len(d.Nodes))
	for i, n := range d.Nodes {
		kind, err := parseKind(n.Kind)
		if err != nil {
			return nil, fmt.Errorf("graphdef: node %q: %w", n.ID, err)
		}
		nodeDefs[i] = graph.NodeDef{
			ID:        n.ID,
			Kind:      kind,
			Label:     n.Label,
			Bias:      n.Bias,
			DecayRate: n.DecayRate,
		}
	}

	edgeDefs := make([]graph.EdgeDef, len(d.Edges))
	for i, e := range d.Edges {
		edgeDefs[i] = graph.EdgeDef{From: e.From, To: e.To, Weight: e.Weight}
	}

	return graph.New(nodeDefs, edgeDefs)
}

func parseKind(s string) (graph.Kind, error) {
	switch s {
	case "Input":
		return graph.Input, nil
	case "Feature":
		return graph.Feature, nil
	case "State":
		return graph.State, nil
	default:
		return 0, fmt.Errorf("unknown kind %q", s)
	}
}
