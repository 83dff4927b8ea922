// Package graph implements the typed directed network the context engine
// runs its activation dynamics over: input, feature, and state nodes joined
// by signed weighted edges. A Graph is built once, from a static definition,
// and is frozen thereafter — no node or edge can be added, removed, or
// reweighted after New returns. This mirrors the extracellular matrix in
// github.com/SynapticNetworks/temporal-neuron, which also treats
// construction as a one-time event and never mutates wiring afterward.
package graph

import (
	"errors"
	"fmt"
	"sort"

	"github.com/iancoleman/strcase"
)

// Kind classifies a node by its position in the Input -> Feature -> State
// cascade. The stepper does not dispatch on Kind; only Inject (Input-only)
// and RankedStates (State-only) care about it.
type Kind int

const (
	Input Kind = iota
	Feature
	State
)

func (k Kind) String() string {
	switch k {
	case Input:
		return "Input"
	case Feature:
		return "Feature"
	case State:
		return "State"
	default:
		return "Unknown"
	}
}

// NodeDef is the construction-time description of one node.
type NodeDef struct {
	ID        string
	Kind      Kind
	Label     string  // if empty, derived from ID
	Bias      float64 // constant term added to the drive every tick; 0 by default
	DecayRate float64 // 0 means "use the engine-wide default"
}

// EdgeDef is the construction-time description of one directed, weighted
// connection. Positive Weight is excitatory, negative is inhibitory.
type EdgeDef struct {
	From, To string
	Weight   float64
}

// node is the frozen, indexed representation of a NodeDef.
type node struct {
	id        string
	kind      Kind
	label     string
	bias      float64
	decayRate float64
}

// incoming is one materialized (source index, weight) pair feeding a node.
type incoming struct {
	from   int
	weight float64
}

// Graph is the frozen network. All fields are unexported and read-only
// after New; there are no mutator methods.
type Graph struct {
	nodes    []node
	index    map[string]int // id -> position in nodes, and in every []float64 buffer
	incoming [][]incoming   // incoming[i] = edges feeding nodes[i], from the previous tick
}

var (
	ErrEmptyGraph       = errors.New("graph: no nodes")
	ErrDuplicateID      = errors.New("graph: duplicate node id")
	ErrUnknownNode      = errors.New("graph: edge references unknown node")
	ErrSelfLoop         = errors.New("graph: self-loop edge")
	ErrCyclicExcitation = errors.New("graph: cycle along excitatory input->feature->state edges")
)

// New validates and freezes a graph from its static definition. Identifiers
// must be unique (§3.i), every edge must reference a declared node (§3.ii),
// and no edge may be a self-loop (§3.iii). Excitatory edges additionally may
// not form a cycle across Input->Feature->State (§3.iv); inhibitory edges
// within the State layer are expected and are not checked for cycles — that
// is the whole point of a YES/NO-style mutual-inhibition pair (§9).
func New(nodeDefs []NodeDef, edgeDefs []EdgeDef) (*Graph, error) {
	if len(nodeDefs) == 0 {
		return nil, ErrEmptyGraph
	}

	g := &Graph{
		index: make(map[string]int, len(nodeDefs)),
	}

	for _, nd := range nodeDefs {
		if _, exists := g.index[nd.ID]; exists {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateID, nd.ID)
		}
		label := nd.Label
		if label == "" {
			label = defaultLabel(nd.ID)
		}
		g.index[nd.ID] = len(g.nodes)
		g.nodes = append(g.nodes, node{
			id:        nd.ID,
			kind:      nd.Kind,
			label:     label,
			bias:      nd.Bias,
			decayRate: nd.DecayRate,
		})
	}

	g.incoming = make([][]incoming, len(g.nodes))
	for _, ed := range edgeDefs {
		fromIdx, ok := g.index[ed.From]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownNode, ed.From)
		}
		toIdx, ok := g.index[ed.To]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownNode, ed.To)
		}
		if fromIdx == toIdx {
			return nil, fmt.Errorf("%w: %q", ErrSelfLoop, ed.From)
		}
		g.incoming[toIdx] = append(g.incoming[toIdx], incoming{from: fromIdx, weight: ed.Weight})
	}

	if err := checkExcitatoryAcyclic(g); err != nil {
		return nil, err
	}

	return g, nil
}

// checkExcitatoryAcyclic runs a DFS cycle check restricted to positive-weight
// edges. Inhibitory edges (weight <= 0) are excluded, exactly as §3.iv and §9
// describe: the State layer's mutual-inhibition pairs are real cycles in the
// signed graph and are deliberate.
func checkExcitatoryAcyclic(g *Graph) error {
	const (
		white = 0
		gray  = 1
		black = 2
	)
	color := make([]int, len(g.nodes))

	// Build excitatory-only forward adjacency from the incoming lists.
	forward := make([][]int, len(g.nodes))
	for to, ins := range g.incoming {
		for _, in := range ins {
			if in.weight > 0 {
				forward[in.from] = append(forward[in.from], to)
			}
		}
	}

	var visit func(i int) error
	visit = func(i int) error {
		color[i] = gray
		for _, next := range forward[i] {
			switch color[next] {
			case gray:
				return fmt.Errorf("%w: %q -> %q", ErrCyclicExcitation, g.nodes[i].id, g.nodes[next].id)
			case white:
				if err := visit(next); err != nil {
					return err
				}
			}
		}
		color[i] = black
		return nil
	}

	for i := range g.nodes {
		if color[i] == white {
			if err := visit(i); err != nil {
				return err
			}
		}
	}
	return nil
}

// defaultLabel renders an identifier like IN_HANDS_PROX into "Hands Prox":
// strip the two-letter layer prefix (IN_, FT_, ST_), normalize to space-delimited words
// with strcase, then title-case each word.
func defaultLabel(id string) string {
	rest := id
	for _, prefix := range []string{"IN_", "FT_", "ST_"} {
		if len(id) > len(prefix) && id[:len(prefix)] == prefix {
			rest = id[len(prefix):]
			break
		}
	}
	delimited := strcase.ToDelimited(rest, ' ')
	words := make([]rune, 0, len(delimited))
	capitalizeNext := true
	for _, r := range delimited {
		if r == ' ' {
			capitalizeNext = true
			words = append(words, r)
			continue
		}
		if capitalizeNext {
			r = toUpperRune(r)
			capitalizeNext = false
		}
		words = append(words, r)
	}
	return string(words)
}

func toUpperRune(r rune) rune {
	if r >= 'a' && r <= 'z' {
		return r - ('a' - 'A')
	}
	return r
}

// Len returns the number of nodes, i.e. the size every activation buffer
// must be.
func (g *Graph) Len() int { return len(g.nodes) }

// Index returns the buffer position of an identifier and whether it exists.
func (g *Graph) Index(id string) (int, bool) {
	i, ok := g.index[id]
	return i, ok
}

// ID returns the identifier at a buffer position.
func (g *Graph) ID(i int) string { return g.nodes[i].id }

// Kind returns the kind at a buffer position.
func (g *Graph) Kind(i int) Kind { return g.nodes[i].kind }

// Label returns the display label at a buffer position.
func (g *Graph) Label(i int) string { return g.nodes[i].label }

// DecayRate returns the per-node decay override, or 0 if the node uses the
// engine-wide default.
func (g *Graph) DecayRate(i int) float64 { return g.nodes[i].decayRate }

// Bias returns the per-node constant term added to the drive every tick,
// regardless of kind or incoming edges (§4.2 NodeDef.Bias).
func (g *Graph) Bias(i int) float64 { return g.nodes[i].bias }

// Incoming returns the (source index, weight) pairs feeding node i.
func (g *Graph) Incoming(i int) []incoming { return g.incoming[i] }

// From returns the source index of an incoming edge.
func (e incoming) From() int { return e.from }

// Weight returns the weight of an incoming edge.
func (e incoming) Weight() float64 { return e.weight }

// StateIndices returns the buffer positions of all State nodes, sorted by
// identifier ascending — the tie-break order §4.4 requires downstream.
func (g *Graph) StateIndices() []int {
	var out []int
	for i, n := range g.nodes {
		if n.kind == State {
			out = append(out, i)
		}
	}
	sort.Slice(out, func(a, b int) bool { return g.nodes[out[a]].id < g.nodes[out[b]].id })
	return out
}
