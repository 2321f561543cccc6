package formats

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
)

var hmetisCodes = map[Format]string{
	Unweighted:    "",
	NetWeights:    "1",
	VertexWeights: "10",
	Weighted:      "11",
}

// ParseHMETIS reads an hMETIS file: a header "nets vertices [fmt]", one line
// per net with 1-based vertex ids and, depending on fmt, vertex weights.
func ParseHMETIS(r io.Reader) (*Graph, error) {
	lr := newLineReader(r)
	text, ok, err := lr.next()
	if err != nil {
		return nil, fmt.Errorf("failed to read hMETIS graph: %w", err)
	}
	if !ok {
		return nil, lr.fail("", "missing header")
	}

	fields, err := lr.ints(text)
	if err != nil {
		return nil, err
	}
	if len(fields) < 2 || len(fields) > 3 || fields[0] < 0 || fields[1] < 0 {
		return nil, lr.fail(text, "header must be \"nets vertices [fmt]\"")
	}

	g := &Graph{Header: Header{NumNets: fields[0], NumVertices: fields[1], OneIndexed: true}}
	if len(fields) == 3 {
		format, ok := formatFromCode(hmetisCodes, fields[2])
		if !ok {
			return nil, lr.fail(text, "unknown format code %d", fields[2])
		}
		g.Header.Format = format
	}

	if err := lr.body(g, 1); err != nil {
		return nil, err
	}
	return g, nil
}

// WriteHMETIS writes g in hMETIS layout with 1-based vertex ids.
func WriteHMETIS(w io.Writer, g *Graph) error {
	if err := g.checkWritable(); err != nil {
		return err
	}
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "%d %d", g.Header.NumNets, g.Header.NumVertices)
	if code := hmetisCodes[g.Header.Format]; code != "" {
		fmt.Fprintf(bw, " %s", code)
	}
	bw.WriteByte('\n')
	writeNets(bw, g, 1)
	return bw.Flush()
}

func formatFromCode(codes map[Format]string, code int) (Format, bool) {
	if code == 0 {
		return Unweighted, true
	}
	s := strconv.Itoa(code)
	for format, c := range codes {
		if c == s {
			return format, true
		}
	}
	return Unweighted, false
}
