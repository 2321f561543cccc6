package hypergraph

import (
	"fmt"
	"iter"
)

// Frontier holds the vertices discovered but not yet visited by a Search.
// The order in which Pop returns them decides the traversal order.
type Frontier interface {
	Empty() bool
	Push(vertices ...int)
	Pop() int
}

// Queue is a first-in first-out frontier, giving breadth-first order.
type Queue struct {
	items []int
	head  int
}

func (q *Queue) Empty() bool { return q.head == len(q.items) }

func (q *Queue) Push(vertices ...int) {
	if q.head > 0 && q.head == len(q.items) {
		q.items = q.items[:0]
		q.head = 0
	}
	q.items = append(q.items, vertices...)
}

func (q *Queue) Pop() int {
	v := q.items[q.head]
	q.head++
	return v
}

// Stack is a last-in first-out frontier, giving depth-first order.
type Stack struct {
	items []int
}

func (s *Stack) Empty() bool { return len(s.items) == 0 }

func (s *Stack) Push(vertices ...int) { s.items = append(s.items, vertices...) }

func (s *Stack) Pop() int {
	v := s.items[len(s.items)-1]
	s.items = s.items[:len(s.items)-1]
	return v
}

// Search visits every vertex of a hypergraph exactly once. Disconnected
// components are entered from their lowest unvisited vertex.
type Search struct {
	graph    *Hypergraph
	frontier Frontier
	seen     []bool
	visited  int
	lastRoot int
	pending  []int
}

// NewSearch starts a traversal of g. The vertex ids of g must be 0..n-1.
func NewSearch(g *Hypergraph, frontier Frontier) (*Search, error) {
	if !g.Dense() {
		return nil, fmt.Errorf("search over %d vertices: %w", g.Len(), ErrInconsistentIndex)
	}
	s := &Search{
		graph:    g,
		frontier: frontier,
		seen:     make([]bool, g.Len()),
	}
	if !g.IsEmpty() {
		s.seen[0] = true
		s.frontier.Push(0)
	}
	return s, nil
}

// BFS returns a breadth-first search over g.
func BFS(g *Hypergraph) (*Search, error) { return NewSearch(g, &Queue{}) }

// DFS returns a depth-first search over g.
func DFS(g *Hypergraph) (*Search, error) { return NewSearch(g, &Stack{}) }

// Next returns the next vertex, or false once every vertex was visited.
func (s *Search) Next() (int, bool) {
	if s.visited == len(s.seen) {
		return 0, false
	}
	if s.frontier.Empty() {
		root := s.unvisited()
		s.seen[root] = true
		s.frontier.Push(root)
	}

	v := s.frontier.Pop()
	s.visited++

	s.pending = s.pending[:0]
	for u := range s.graph.Neighbors(v) {
		if !s.seen[u] {
			s.seen[u] = true
			s.pending = append(s.pending, u)
		}
	}
	s.frontier.Push(s.pending...)
	return v, true
}

func (s *Search) unvisited() int {
	for i := s.lastRoot; i < len(s.seen); i++ {
		if !s.seen[i] {
			s.lastRoot = i
			return i
		}
	}
	panic("hypergraph: search frontier empty with unvisited vertices remaining")
}

// All yields the remaining vertices in visitation order.
func (s *Search) All() iter.Seq[int] {
	return func(yield func(int) bool) {
		for {
			v, ok := s.Next()
			if !ok || !yield(v) {
				return
			}
		}
	}
}
