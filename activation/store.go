// Package activation holds the per-node scalar state of a running engine:
// two double-buffered activation slices (so a tick reads a consistent
// previous state while writing the next, as §3's "snapshot-and-swap"
// lifecycle requires) and the pending external-input buffer that Inject
// stages for the following tick.
//
// This plays the role the membrane-potential fields play inside
// github.com/SynapticNetworks/temporal-neuron's Neuron struct (accumulator,
// decayRate, stateMutex), collapsed into a flat, lock-free store: the
// context engine is single-threaded per §5, so there is nothing to guard.
package activation

// Store is the double-buffered activation state for N nodes, plus a
// pending-input map for Input nodes.
type Store struct {
	current []float64
	next    []float64
	pending map[int]float64 // node index -> staged input value, cleared after each Commit
}

// New allocates a store for n nodes, all activations starting at 0 per §3's
// lifecycle ("Activations are initialized to zero").
func New(n int) *Store {
	return &Store{
		current: make([]float64, n),
		next:    make([]float64, n),
		pending: make(map[int]float64),
	}
}

// Len returns the number of nodes the store was sized for.
func (s *Store) Len() int { return len(s.current) }

// Current returns node i's activation as of the last committed tick.
func (s *Store) Current(i int) float64 { return s.current[i] }

// StagePending records a pending input for node i, coalescing with any
// value already staged this tick (last writer wins, per §3).
func (s *Store) StagePending(i int, value float64) { s.pending[i] = value }

// Pending returns the staged input for node i, or 0 if none was staged.
func (s *Store) Pending(i int) float64 { return s.pending[i] }

// SetNext records node i's next-tick activation. It does not become visible
// via Current until Commit swaps the buffers.
func (s *Store) SetNext(i int, value float64) { s.next[i] = value }

// Commit swaps next into current and clears the pending-input buffer (§4.3
// step 4). It is the only mutator that changes what Current observes.
func (s *Store) Commit() {
	s.current, s.next = s.next, s.current
	for k := range s.pending {
		delete(s.pending, k)
	}
}

// Snapshot copies out all current activations as a slice in node-index
// order. It carries no identifiers; callers in the engine package map
// indices to node ids themselves.
func (s *Store) Snapshot() []float64 {
	out := make([]float64, len(s.current))
	copy(out, s.current)
	return out
}
