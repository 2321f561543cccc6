package hypergraph

import (
	"errors"
	"fmt"
	"iter"

	"github.com/google/btree"
)

var (
	// ErrNetOutOfRange is returned when a pin references a net the graph does not have.
	ErrNetOutOfRange = errors.New("net id out of range")
	// ErrInconsistentIndex is returned when vertex ids are not exactly 0..n-1.
	ErrInconsistentIndex = errors.New("vertex indexing is inconsistent")
	// ErrInconsistentPins is returned by Validate when a vertex and a net disagree about a pin.
	ErrInconsistentPins = errors.New("pins are inconsistent")
)

// DefaultWeight is the weight a vertex receives when it is created by AddPin.
const DefaultWeight = 1

// Vertex is a hypergraph node together with the nets it belongs to.
type Vertex struct {
	ID     int
	Weight int
	Nets   []int
}

func lessVertex(a, b *Vertex) bool { return a.ID < b.ID }

// Hypergraph stores vertices in id order and a fixed number of nets.
// It is not safe for concurrent mutation.
type Hypergraph struct {
	vertices      *btree.BTreeG[*Vertex]
	nets          [][]int
	netWeights    []int
	defaultWeight int
}

// Option configures a Hypergraph at construction time.
type Option func(*Hypergraph)

// WithDefaultWeight sets the weight used for vertices created by AddPin.
func WithDefaultWeight(w int) Option {
	return func(h *Hypergraph) { h.defaultWeight = w }
}

// New creates a hypergraph with netCount empty nets and no vertices.
func New(netCount int, opts ...Option) *Hypergraph {
	if netCount < 0 {
		netCount = 0
	}
	h := &Hypergraph{
		vertices:      btree.NewG[*Vertex](16, lessVertex),
		nets:          make([][]int, netCount),
		defaultWeight: DefaultWeight,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *Hypergraph) vertex(id int) (*Vertex, bool) {
	return h.vertices.Get(&Vertex{ID: id})
}

func (h *Hypergraph) vertexOrCreate(id int) *Vertex {
	if v, ok := h.vertex(id); ok {
		return v
	}
	v := &Vertex{ID: id, Weight: h.defaultWeight}
	h.vertices.ReplaceOrInsert(v)
	return v
}

// AddPin adds vertex to net, creating the vertex if needed.
func (h *Hypergraph) AddPin(net, vertex int) error {
	if net < 0 || net >= len(h.nets) {
		return fmt.Errorf("add pin (%d, %d) with %d nets: %w", net, vertex, len(h.nets), ErrNetOutOfRange)
	}
	if vertex < 0 {
		return fmt.Errorf("add pin (%d, %d): negative vertex id: %w", net, vertex, ErrInconsistentIndex)
	}
	v := h.vertexOrCreate(vertex)
	v.Nets = append(v.Nets, net)
	h.nets[net] = append(h.nets[net], vertex)
	return nil
}

// SetWeight sets the weight of a vertex. The vertex is created without
// incident nets if it does not exist yet.
func (h *Hypergraph) SetWeight(vertex, weight int) {
	h.vertexOrCreate(vertex).Weight = weight
}

// SetNetWeights attaches one weight per net. A nil slice removes net weights.
func (h *Hypergraph) SetNetWeights(weights []int) error {
	if weights != nil && len(weights) != len(h.nets) {
		return fmt.Errorf("got %d net weights for %d nets", len(weights), len(h.nets))
	}
	h.netWeights = weights
	return nil
}

// NetWeights returns the net weights, or nil when nets are unweighted.
func (h *Hypergraph) NetWeights() []int { return h.netWeights }

// NetWeight returns the weight of a net, 1 when nets are unweighted.
func (h *Hypergraph) NetWeight(net int) int {
	if h.netWeights == nil {
		return 1
	}
	return h.netWeights[net]
}

func (h *Hypergraph) Len() int { return h.vertices.Len() }
func (h *Hypergraph) IsEmpty() bool { return h.vertices.Len() == 0 }
func (h *Hypergraph) NumNets() int { return len(h.nets) }
func (h *Hypergraph) Net(i int) []int { return h.nets[i] }

// Weight returns the sum of all vertex weights.
func (h *Hypergraph) Weight() int {
	total := 0
	h.vertices.Ascend(func(v *Vertex) bool {
		total += v.Weight
		return true
	})
	return total
}

// VertexWeight returns the weight of a vertex and whether it exists.
func (h *Hypergraph) VertexWeight(vertex int) (int, bool) {
	v, ok := h.vertex(vertex)
	if !ok {
		return 0, false
	}
	return v.Weight, true
}

// Incident returns the nets of a vertex in insertion order.
func (h *Hypergraph) Incident(vertex int) []int {
	v, ok := h.vertex(vertex)
	if !ok {
		return nil
	}
	return v.Nets
}

// Vertices iterates over all vertices in ascending id order.
func (h *Hypergraph) Vertices() iter.Seq[*Vertex] {
	return func(yield func(*Vertex) bool) {
		h.vertices.Ascend(func(v *Vertex) bool {
			return yield(v)
		})
	}
}

// Neighbors yields every vertex sharing a net with vertex, including vertex
// itself. Vertices appear once per shared pin.
func (h *Hypergraph) Neighbors(vertex int) iter.Seq[int] {
	return func(yield func(int) bool) {
		v, ok := h.vertex(vertex)
		if !ok {
			return
		}
		for _, net := range v.Nets {
			for _, u := range h.nets[net] {
				if !yield(u) {
					return
				}
			}
		}
	}
}

// Dense reports whether the vertex ids are exactly 0..Len()-1.
func (h *Hypergraph) Dense() bool {
	n := h.vertices.Len()
	if n == 0 {
		return true
	}
	lo, _ := h.vertices.Min()
	hi, _ := h.vertices.Max()
	return lo.ID == 0 && hi.ID == n-1
}

// Validate checks that every pin is recorded on both the vertex and the net.
func (h *Hypergraph) Validate() error {
	var err error
	pins := 0
	h.vertices.Ascend(func(v *Vertex) bool {
		for _, net := range v.Nets {
			if net < 0 || net >= len(h.nets) {
				err = fmt.Errorf("vertex %d references net %d: %w", v.ID, net, ErrNetOutOfRange)
				return false
			}
			if count(h.nets[net], v.ID) != count(v.Nets, net) {
				err = fmt.Errorf("vertex %d and net %d disagree on pin count: %w", v.ID, net, ErrInconsistentPins)
				return false
			}
		}
		pins += len(v.Nets)
		return true
	})
	if err != nil {
		return err
	}

	netPins := 0
	for i, net := range h.nets {
		for _, u := range net {
			if _, ok := h.vertex(u); !ok {
				return fmt.Errorf("net %d references missing vertex %d: %w", i, u, ErrInconsistentPins)
			}
		}
		netPins += len(net)
	}
	if pins != netPins {
		return fmt.Errorf("vertex pins %d != net pins %d: %w", pins, netPins, ErrInconsistentPins)
	}
	return nil
}

func count(s []int, x int) int {
	n := 0
	for _, y := range s {
		if y == x {
			n++
		}
	}
	return n
}
