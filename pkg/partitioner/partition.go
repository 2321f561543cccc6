package partitioner

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Partition maps every vertex, by index, to its block.
type Partition []int

// ParseError reports a malformed line of a partition mapping.
type ParseError struct {
	Line     int
	Fragment string
	Err      error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("partition line %d: %q: %v", e.Line, e.Fragment, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ReadPartition reads one non-negative block id per line.
func ReadPartition(r io.Reader) (Partition, error) {
	var p Partition
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" {
			continue
		}
		block, err := strconv.Atoi(text)
		if err != nil {
			return nil, &ParseError{Line: line, Fragment: text, Err: err}
		}
		if block < 0 {
			return nil, &ParseError{Line: line, Fragment: text, Err: fmt.Errorf("negative block id")}
		}
		p = append(p, block)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("failed to read partition: %w", err)
	}
	return p, nil
}

// WriteTo writes one block id per line.
func (p Partition) WriteTo(w io.Writer) (int64, error) {
	bw := bufio.NewWriter(w)
	var written int64
	for _, block := range p {
		n, err := fmt.Fprintln(bw, block)
		written += int64(n)
		if err != nil {
			return written, err
		}
	}
	return written, bw.Flush()
}

func (p Partition) String() string {
	var sb strings.Builder
	_, _ = p.WriteTo(&sb)
	return sb.String()
}

// Blocks returns one more than the largest block id, 0 for an empty partition.
func (p Partition) Blocks() int {
	n := 0
	for _, b := range p {
		n = max(n, b+1)
	}
	return n
}

// Sizes counts the vertices per block.
func (p Partition) Sizes() []int {
	sizes := make([]int, p.Blocks())
	for _, b := range p {
		sizes[b]++
	}
	return sizes
}
