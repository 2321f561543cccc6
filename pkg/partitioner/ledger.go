package partitioner

import (
	"errors"
	"fmt"
	"math"
	"slices"
)

var (
	// ErrNoBlocks is returned when fewer than one block is requested.
	ErrNoBlocks = errors.New("block count must be at least 1")
	// ErrInfeasibleImbalance is returned for a tolerance no assignment can satisfy.
	ErrInfeasibleImbalance = errors.New("imbalance tolerance admits no assignment")
	// ErrNoRandomSource is returned when random partitioning has no random source.
	ErrNoRandomSource = errors.New("random partitioning requires a random source")
)

// Ledger tracks which block every vertex is in and how much weight each
// block carries. It is not safe for concurrent use.
type Ledger struct {
	blocks    []int
	weights   []int
	imbalance float64
	tracker   *AssignmentTracker
}

func checkBlocks(blocks int, imbalance float64) error {
	if blocks < 1 {
		return fmt.Errorf("requested %d blocks: %w", blocks, ErrNoBlocks)
	}
	if imbalance < 0 || math.IsNaN(imbalance) {
		return fmt.Errorf("imbalance %v: %w", imbalance, ErrInfeasibleImbalance)
	}
	return nil
}

// NewLedger puts every vertex in block 0 with no accumulated weight.
func NewLedger(blocks, vertices int, imbalance float64) (*Ledger, error) {
	if err := checkBlocks(blocks, imbalance); err != nil {
		return nil, err
	}
	return &Ledger{
		blocks:    make([]int, vertices),
		weights:   make([]int, blocks),
		imbalance: imbalance,
	}, nil
}

// Track records every later assignment with t. A nil tracker disables tracking.
func (l *Ledger) Track(t *AssignmentTracker) { l.tracker = t }

// Assign moves vertex to block and adds weight to that block.
// Only the new block's weight changes, so a vertex should be assigned once.
func (l *Ledger) Assign(block, vertex, weight int) {
	l.blocks[vertex] = block
	l.weights[block] += weight
	l.tracker.LogAssignment(vertex, block, weight, l.weights[block])
}

// Imbalance is the distance between block's weight plus candidate and the
// ideal block weight, where the ideal is the weight assigned so far divided
// by the block count.
func (l *Ledger) Imbalance(block, candidate int) float64 {
	total := 0
	for _, w := range l.weights {
		total += w
	}
	ideal := float64(total) / float64(len(l.weights))
	return math.Abs(ideal - float64(l.weights[block]+candidate))
}

// IsBalanced reports whether adding candidate to block stays within tolerance.
func (l *Ledger) IsBalanced(block, candidate int) bool {
	return l.Imbalance(block, candidate) <= l.imbalance
}

func (l *Ledger) Blocks() int { return len(l.weights) }
func (l *Ledger) Block(vertex int) int { return l.blocks[vertex] }
func (l *Ledger) Weights() []int { return slices.Clone(l.weights) }
func (l *Ledger) Partition() Partition { return Partition(slices.Clone(l.blocks)) }
