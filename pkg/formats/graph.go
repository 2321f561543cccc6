// Package formats reads and writes hypergraphs in the hMETIS and PaToH
// exchange formats.
package formats

import (
	"bufio"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/gilchrisn/hypercut/pkg/hypergraph"
)

// Format says which weights follow the nets of a graph file.
type Format int

const (
	Unweighted Format = iota
	NetWeights
	VertexWeights
	Weighted
)

func (f Format) HasNetWeights() bool    { return f == NetWeights || f == Weighted }
func (f Format) HasVertexWeights() bool { return f == VertexWeights || f == Weighted }

func formatOf(netWeights, vertexWeights bool) Format {
	switch {
	case netWeights && vertexWeights:
		return Weighted
	case netWeights:
		return NetWeights
	case vertexWeights:
		return VertexWeights
	default:
		return Unweighted
	}
}

// Header is the first line of a graph file.
type Header struct {
	NumNets     int
	NumVertices int
	Format      Format
	// OneIndexed is only written by PaToH, whose files can use either base.
	OneIndexed bool
}

// Graph is a hypergraph as stored in an exchange file. Vertex ids in Nets
// are always 0-based.
type Graph struct {
	Header        Header
	Nets          [][]int
	NetWeights    []int
	VertexWeights []int
}

// ParseError reports the line and text a graph file failed on.
type ParseError struct {
	Line     int
	Fragment string
	Err      error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %q: %v", e.Line, e.Fragment, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// PinCount returns the number of (net, vertex) pairs.
func (g *Graph) PinCount() int {
	n := 0
	for _, net := range g.Nets {
		n += len(net)
	}
	return n
}

// Trim removes empty nets together with their weights.
func (g *Graph) Trim() {
	nets := g.Nets[:0]
	var weights []int
	for i, net := range g.Nets {
		if len(net) == 0 {
			continue
		}
		nets = append(nets, net)
		if g.NetWeights != nil {
			weights = append(weights, g.NetWeights[i])
		}
	}
	g.Nets = nets
	if g.NetWeights != nil {
		g.NetWeights = weights
	}
	g.Header.NumNets = len(nets)
}

// Hypergraph builds the in-memory hypergraph. Every vertex in
// 0..NumVertices-1 exists, even when no net contains it.
func (g *Graph) Hypergraph() (*hypergraph.Hypergraph, error) {
	if err := g.validate(); err != nil {
		return nil, err
	}
	h := hypergraph.New(len(g.Nets))
	for i, net := range g.Nets {
		for _, v := range net {
			if err := h.AddPin(i, v); err != nil {
				return nil, err
			}
		}
	}
	for v := range g.Header.NumVertices {
		weight := 1
		if g.Header.Format.HasVertexWeights() {
			weight = g.VertexWeights[v]
		}
		h.SetWeight(v, weight)
	}
	if g.Header.Format.HasNetWeights() {
		if err := h.SetNetWeights(slices.Clone(g.NetWeights)); err != nil {
			return nil, err
		}
	}
	return h, nil
}

// FromHypergraph converts h into an exchange graph. Vertex weights are only
// kept when some vertex does not weigh 1.
func FromHypergraph(h *hypergraph.Hypergraph) *Graph {
	numVertices := 0
	for v := range h.Vertices() {
		numVertices = v.ID + 1
	}

	g := &Graph{Nets: make([][]int, h.NumNets())}
	for i := range g.Nets {
		g.Nets[i] = slices.Clone(h.Net(i))
	}
	if w := h.NetWeights(); w != nil {
		g.NetWeights = slices.Clone(w)
	}

	weights := make([]int, numVertices)
	for i := range weights {
		weights[i] = 1
	}
	weighted := false
	for v := range h.Vertices() {
		weights[v.ID] = v.Weight
		weighted = weighted || v.Weight != 1
	}
	if weighted {
		g.VertexWeights = weights
	}

	g.Header = Header{
		NumNets:     len(g.Nets),
		NumVertices: numVertices,
		Format:      formatOf(g.NetWeights != nil, g.VertexWeights != nil),
	}
	return g
}

// Dual returns the graph with vertices and nets exchanged.
func (g *Graph) Dual() (*Graph, error) {
	h, err := g.Hypergraph()
	if err != nil {
		return nil, err
	}
	d := FromHypergraph(hypergraph.Dual(h))
	d.Header.OneIndexed = g.Header.OneIndexed
	return d, nil
}

func (g *Graph) validate() error {
	if len(g.Nets) != g.Header.NumNets {
		return fmt.Errorf("header declares %d nets but graph has %d", g.Header.NumNets, len(g.Nets))
	}
	if g.Header.Format.HasNetWeights() && len(g.NetWeights) != len(g.Nets) {
		return fmt.Errorf("format requires %d net weights, got %d", len(g.Nets), len(g.NetWeights))
	}
	if g.Header.Format.HasVertexWeights() && len(g.VertexWeights) != g.Header.NumVertices {
		return fmt.Errorf("format requires %d vertex weights, got %d", g.Header.NumVertices, len(g.VertexWeights))
	}
	for i, net := range g.Nets {
		for _, v := range net {
			if v < 0 || v >= g.Header.NumVertices {
				return fmt.Errorf("net %d: vertex %d out of range [0, %d)", i, v, g.Header.NumVertices)
			}
		}
	}
	return nil
}

// lineReader yields the non-blank, non-comment lines of a graph file.
type lineReader struct {
	sc   *bufio.Scanner
	line int
}

func newLineReader(r io.Reader) *lineReader {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	return &lineReader{sc: sc}
}

func (lr *lineReader) next() (string, bool, error) {
	for lr.sc.Scan() {
		lr.line++
		text := strings.TrimSpace(lr.sc.Text())
		if text == "" || strings.HasPrefix(text, "%") {
			continue
		}
		return text, true, nil
	}
	return "", false, lr.sc.Err()
}

func (lr *lineReader) fail(text string, format string, args ...any) error {
	return &ParseError{Line: lr.line, Fragment: text, Err: fmt.Errorf(format, args...)}
}

func (lr *lineReader) ints(text string) ([]int, error) {
	fields := strings.Fields(text)
	out := make([]int, len(fields))
	for i, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil {
			return nil, &ParseError{Line: lr.line, Fragment: f, Err: err}
		}
		out[i] = n
	}
	return out, nil
}

// body reads the nets and trailing vertex weights shared by both formats.
// base is subtracted from every vertex id.
func (lr *lineReader) body(g *Graph, base int) error {
	g.Nets = make([][]int, 0, g.Header.NumNets)
	for len(g.Nets) < g.Header.NumNets {
		text, ok, err := lr.next()
		if err != nil {
			return err
		}
		if !ok {
			return lr.fail("", "expected %d nets, found %d", g.Header.NumNets, len(g.Nets))
		}
		values, err := lr.ints(text)
		if err != nil {
			return err
		}
		if g.Header.Format.HasNetWeights() {
			if len(values) < 2 {
				return lr.fail(text, "net needs a weight and at least one vertex")
			}
			g.NetWeights = append(g.NetWeights, values[0])
			values = values[1:]
		}
		for i, v := range values {
			values[i] = v - base
			if values[i] < 0 || values[i] >= g.Header.NumVertices {
				return lr.fail(text, "vertex %d out of range", v)
			}
		}
		g.Nets = append(g.Nets, values)
	}

	for {
		text, ok, err := lr.next()
		if err != nil {
			return err
		}
		if !ok {
			break
		}
		if !g.Header.Format.HasVertexWeights() {
			return lr.fail(text, "unexpected content after %d nets", g.Header.NumNets)
		}
		values, err := lr.ints(text)
		if err != nil {
			return err
		}
		g.VertexWeights = append(g.VertexWeights, values...)
		if len(g.VertexWeights) > g.Header.NumVertices {
			return lr.fail(text, "more than %d vertex weights", g.Header.NumVertices)
		}
	}
	if g.Header.Format.HasVertexWeights() && len(g.VertexWeights) != g.Header.NumVertices {
		return lr.fail("", "expected %d vertex weights, found %d", g.Header.NumVertices, len(g.VertexWeights))
	}
	return nil
}

// checkWritable rejects graphs whose nets would not survive a round trip.
func (g *Graph) checkWritable() error {
	if err := g.validate(); err != nil {
		return err
	}
	for i, net := range g.Nets {
		if len(net) == 0 {
			return fmt.Errorf("net %d is empty, trim the graph before writing it", i)
		}
	}
	return nil
}

func writeNets(w *bufio.Writer, g *Graph, base int) {
	writeNetWeights := g.Header.Format.HasNetWeights()
	for i, net := range g.Nets {
		fields := make([]string, 0, len(net)+1)
		if writeNetWeights {
			fields = append(fields, strconv.Itoa(g.NetWeights[i]))
		}
		for _, v := range net {
			fields = append(fields, strconv.Itoa(v+base))
		}
		w.WriteString(strings.Join(fields, " "))
		w.WriteByte('\n')
	}
	if g.Header.Format.HasVertexWeights() {
		for _, weight := range g.VertexWeights {
			w.WriteString(strconv.Itoa(weight))
			w.WriteByte('\n')
		}
	}
}
