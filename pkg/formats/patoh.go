package formats

import (
	"bufio"
	"fmt"
	"io"
)

var patohCodes = map[Format]string{
	Unweighted:    "",
	VertexWeights: "1",
	NetWeights:    "2",
	Weighted:      "3",
}

// ParsePaToH reads a PaToH file: a header "base vertices nets pins [fmt]"
// followed by the nets and, depending on fmt, vertex weights.
func ParsePaToH(r io.Reader) (*Graph, error) {
	lr := newLineReader(r)
	text, ok, err := lr.next()
	if err != nil {
		return nil, fmt.Errorf("failed to read PaToH graph: %w", err)
	}
	if !ok {
		return nil, lr.fail("", "missing header")
	}

	headerLine := lr.line
	fields, err := lr.ints(text)
	if err != nil {
		return nil, err
	}
	if len(fields) < 4 || len(fields) > 5 {
		return nil, lr.fail(text, "header must be \"base vertices nets pins [fmt]\"")
	}
	base, numVertices, numNets, pins := fields[0], fields[1], fields[2], fields[3]
	if base != 0 && base != 1 {
		return nil, lr.fail(text, "index base must be 0 or 1, got %d", base)
	}
	if numVertices < 0 || numNets < 0 || pins < 0 {
		return nil, lr.fail(text, "negative count in header")
	}

	g := &Graph{Header: Header{NumNets: numNets, NumVertices: numVertices, OneIndexed: base == 1}}
	if len(fields) == 5 {
		format, ok := formatFromCode(patohCodes, fields[4])
		if !ok {
			return nil, lr.fail(text, "unknown format code %d", fields[4])
		}
		g.Header.Format = format
	}

	if err := lr.body(g, base); err != nil {
		return nil, err
	}
	if got := g.PinCount(); got != pins {
		return nil, &ParseError{Line: headerLine, Fragment: text, Err: fmt.Errorf("header declares %d pins, found %d", pins, got)}
	}
	return g, nil
}

// WritePaToH writes g in PaToH layout using the index base of its header.
func WritePaToH(w io.Writer, g *Graph) error {
	if err := g.checkWritable(); err != nil {
		return err
	}
	base := 0
	if g.Header.OneIndexed {
		base = 1
	}
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "%d %d %d %d", base, g.Header.NumVertices, g.Header.NumNets, g.PinCount())
	if code := patohCodes[g.Header.Format]; code != "" {
		fmt.Fprintf(bw, " %s", code)
	}
	bw.WriteByte('\n')
	writeNets(bw, g, base)
	return bw.Flush()
}
