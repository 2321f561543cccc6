package cnf

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ParseError reports where a DIMACS file is malformed.
type ParseError struct {
	Line     int
	Fragment string
	Err      error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("dimacs line %d: %q: %v", e.Line, e.Fragment, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Parse reads a DIMACS CNF file. Clauses end with 0 and may span lines.
// The number of clauses must match the header.
func Parse(r io.Reader) (*Formula, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	var (
		f          *Formula
		declared   int
		headerLine int
		clause     Clause
		line       int
	)

	fail := func(fragment string, format string, args ...any) error {
		return &ParseError{Line: line, Fragment: fragment, Err: fmt.Errorf(format, args...)}
	}

scan:
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		switch {
		case text == "" || strings.HasPrefix(text, "c"):
			continue
		case strings.HasPrefix(text, "%"):
			break scan
		case strings.HasPrefix(text, "p"):
			if f != nil {
				return nil, fail(text, "duplicate header")
			}
			fields := strings.Fields(text)
			if len(fields) != 4 || fields[0] != "p" || fields[1] != "cnf" {
				return nil, fail(text, "header must be \"p cnf <vars> <clauses>\"")
			}
			vars, err1 := strconv.Atoi(fields[2])
			clauses, err2 := strconv.Atoi(fields[3])
			if err1 != nil || err2 != nil || vars < 0 || clauses < 0 {
				return nil, fail(text, "invalid counts in header")
			}
			f = &Formula{NumVars: vars, Clauses: make([]Clause, 0, clauses)}
			declared = clauses
			headerLine = line
			continue
		}

		if f == nil {
			return nil, fail(text, "clause before header")
		}
		for _, field := range strings.Fields(text) {
			lit, err := strconv.Atoi(field)
			if err != nil {
				return nil, &ParseError{Line: line, Fragment: field, Err: err}
			}
			if lit == 0 {
				f.Clauses = append(f.Clauses, clause)
				clause = nil
				continue
			}
			if err := f.checkLiteral(lit); err != nil {
				return nil, &ParseError{Line: line, Fragment: field, Err: err}
			}
			clause = append(clause, lit)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("failed to read dimacs: %w", err)
	}
	if f == nil {
		return nil, &ParseError{Line: line, Err: fmt.Errorf("missing header")}
	}
	if len(clause) > 0 {
		f.Clauses = append(f.Clauses, clause)
	}
	if len(f.Clauses) != declared {
		return nil, &ParseError{
			Line:     headerLine,
			Fragment: fmt.Sprintf("p cnf %d %d", f.NumVars, declared),
			Err:      fmt.Errorf("header declares %d clauses, found %d", declared, len(f.Clauses)),
		}
	}
	return f, nil
}

// WriteTo writes f as DIMACS: the header followed by one clause per line.
func (f *Formula) WriteTo(w io.Writer) (int64, error) {
	bw := bufio.NewWriter(w)
	var written int64
	n, err := fmt.Fprintf(bw, "p cnf %d %d\n", f.NumVars, len(f.Clauses))
	written += int64(n)
	if err != nil {
		return written, err
	}
	for _, c := range f.Clauses {
		for _, lit := range c {
			n, err = fmt.Fprintf(bw, "%d ", lit)
			written += int64(n)
			if err != nil {
				return written, err
			}
		}
		n, err = bw.WriteString("0\n")
		written += int64(n)
		if err != nil {
			return written, err
		}
	}
	return written, bw.Flush()
}

func (f *Formula) String() string {
	var sb strings.Builder
	_, _ = f.WriteTo(&sb)
	return sb.String()
}
