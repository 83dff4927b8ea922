// Package engine implements the stepper: the per-tick update rule that
// drives a graph.Graph's activations, and the query surface (Activations,
// RankedStates) a caller uses to read the result. This is the ~60% of the
// core the spec assigns to "Stepper" — injection, synchronous propagation,
// sigmoid saturation, decay, and ranked state output.
//
// The update style is adapted from the leaky-integration dynamics in
// github.com/SynapticNetworks/temporal-neuron's neuron.Neuron
// (accumulator decay, threshold -> output), but made synchronous
// (Jacobi-style, one shared tick instead of one goroutine per node) and
// sigmoid-bounded instead of threshold-fired, per §4.3.
package engine

import (
	"math"
	"sort"

	"github.com/SynapticNetworks/context-engine/activation"
	"github.com/SynapticNetworks/context-engine/graph"
)

// Config holds the three engine-wide tunables (§9 "Configuration").
type Config struct {
	K      float64 // sigmoid gain
	X0     float64 // sigmoid midpoint
	Lambda float64 // decay rate, (0,1]
}

// DefaultConfig returns the constants §4.3 fixes as satisfying every §8
// property: k≈4, x0≈1, λ≈0.3.
func DefaultConfig() Config {
	return Config{K: 4.0, X0: 1.0, Lambda: 0.3}
}

// Engine is one running instance of the activation dynamics over a frozen
// graph.Graph. Instances share no state (§5) and are not safe for
// concurrent use by more than one goroutine at a time.
type Engine struct {
	g     *graph.Graph
	store *activation.Store
	cfg   Config
}

// New constructs an engine over g with the given configuration. All
// activations start at 0 and there are no pending inputs, per §4.1.
func New(g *graph.Graph, cfg Config) *Engine {
	return &Engine{
		g:     g,
		store: activation.New(g.Len()),
		cfg:   cfg,
	}
}

// NewDefault constructs an engine with DefaultConfig.
func NewDefault(g *graph.Graph) *Engine {
	return New(g, DefaultConfig())
}

// Inject stages sensor values for the next Step. Unknown identifiers and
// identifiers naming non-Input nodes are silently ignored; values outside
// [0,1] are clamped (§4.1). Consecutive injections without an intervening
// Step coalesce — last writer wins per identifier (§3).
func (e *Engine) Inject(values map[string]float64) {
	for id, v := range values {
		i, ok := e.g.Index(id)
		if !ok {
			continue
		}
		if e.g.Kind(i) != graph.Input {
			continue
		}
		e.store.StagePending(i, clamp01(v))
	}
}

// Step performs exactly one discrete update over all nodes (§4.3). Every
// node reads the previous tick's activations (synchronous/Jacobi); new
// activations commit atomically at the end, and the pending-input buffer
// is cleared.
func (e *Engine) Step() {
	n := e.g.Len()
	for i := 0; i < n; i++ {
		drive := e.store.Pending(i) + e.g.Bias(i) // pending: 0 unless Input and staged
		for _, in := range e.g.Incoming(i) {
			drive += in.Weight() * e.store.Current(in.From())
		}
		if math.IsNaN(drive) {
			drive = 0 // §7: treat NaN drive as 0; ±Inf saturates the sigmoid, bounds invariant still holds
		}
		boost := sigmoid(drive, e.cfg.K, e.cfg.X0)
		lambda := e.decayFor(i)
		a := (1-lambda)*e.store.Current(i) + boost
		e.store.SetNext(i, clamp01(a))
	}
	e.store.Commit()
}

// decayFor returns the effective decay rate for node i: its own override if
// nonzero, else the engine-wide default.
func (e *Engine) decayFor(i int) float64 {
	if d := e.g.DecayRate(i); d != 0 {
		return d
	}
	return e.cfg.Lambda
}

// sigmoid computes σ(x) = 1 / (1 + exp(-k·(x - x0))).
func sigmoid(x, k, x0 float64) float64 {
	return 1.0 / (1.0 + math.Exp(-k*(x-x0)))
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Activations returns a snapshot mapping every node identifier to its
// current activation (§4.1). Read-only: it does not mutate engine state.
func (e *Engine) Activations() map[string]float64 {
	out := make(map[string]float64, e.g.Len())
	snap := e.store.Snapshot()
	for i, v := range snap {
		out[e.g.ID(i)] = v
	}
	return out
}

// StateValue is one ranked entry returned by RankedStates.
type StateValue struct {
	ID    string
	Label string
	Value float64
}

// RankedStates returns all State nodes sorted by activation descending,
// ties broken by identifier ascending (§4.4). Read-only.
func (e *Engine) RankedStates() []StateValue {
	indices := e.g.StateIndices() // already identifier-ascending
	out := make([]StateValue, len(indices))
	for pos, i := range indices {
		out[pos] = StateValue{ID: e.g.ID(i), Label: e.g.Label(i), Value: e.store.Current(i)}
	}
	sort.SliceStable(out, func(a, b int) bool { return out[a].Value > out[b].Value })
	return out
}

// Snapshot is the shape telemetry consumers receive after a tick.
type Snapshot struct {
	Activations map[string]float64
	States      []StateValue
}

// Snap bundles Activations and RankedStates into one value, convenient for
// streaming to an external observer after each tick (see internal/telemetry).
func (e *Engine) Snap() Snapshot {
	return Snapshot{Activations: e.Activations(), States: e.RankedStates()}
}
