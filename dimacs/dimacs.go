// Package dimacs implements the DIMACS CNF text format as a core-
// exposed I/O contract (spec §6): reading produces the clauses (and
// cubes) that the facade then feeds to add(lit) (it is not a front-end
// parser, just the wire format), and writing renders the current
// clause set back out. The `p inccnf`
// incremental variant and its `a <lit>* 0` cube lines are also
// handled, since incremental solving and cube generation are both
// in scope.
package dimacs

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Strictness controls how tolerant Read is of the input's whitespace
// and header form (spec §6).
type Strictness int

const (
	// StrictNone accepts `p cnf 0 0` and otherwise loose input.
	StrictNone Strictness = iota
	// StrictWhitespace tolerates flexible whitespace between tokens.
	StrictWhitespace
	// StrictCanonical requires single-space-separated canonical form.
	StrictCanonical
)

// Document is the result of parsing a DIMACS file: either a plain CNF
// (Clauses populated, Cubes empty) or an incremental `p inccnf`
// document (Cubes populated from `a` lines).
type Document struct {
	Incremental bool
	NumVars     int
	NumClauses  int
	Clauses     [][]int32
	Cubes       [][]int32
}

// Read parses src under the requested strictness.
func Read(src io.Reader, strict Strictness) (*Document, error) {
	sc := bufio.NewScanner(src)
	sc.Buffer(make([]byte, 64*1024), 16*1024*1024)

	doc := &Document{}
	headerSeen := false

	for sc.Scan() {
		line := sc.Text()
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "c") {
			continue
		}
		if strings.HasPrefix(trimmed, "p") {
			if err := parseHeader(trimmed, doc, strict); err != nil {
				return nil, err
			}
			headerSeen = true
			continue
		}
		if !headerSeen {
			return nil, errors.New("dimacs: clause line encountered before header")
		}
		if doc.Incremental && strings.HasPrefix(trimmed, "a") {
			lits, err := parseLits(strings.TrimPrefix(trimmed, "a"), strict)
			if err != nil {
				return nil, errors.Wrap(err, "dimacs: malformed cube line")
			}
			doc.Cubes = append(doc.Cubes, lits)
			continue
		}
		lits, err := parseLits(trimmed, strict)
		if err != nil {
			return nil, errors.Wrap(err, "dimacs: malformed clause line")
		}
		doc.Clauses = append(doc.Clauses, lits)
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(err, "dimacs: read failed")
	}
	if !headerSeen {
		return nil, errors.New("dimacs: missing \"p cnf\"/\"p inccnf\" header")
	}
	return doc, nil
}

func parseHeader(line string, doc *Document, strict Strictness) error {
	fields := strings.Fields(line)
	if strict == StrictCanonical && line != strings.Join(fields, " ") {
		return errors.Errorf("dimacs: header not in canonical single-space form: %q", line)
	}
	if len(fields) < 2 {
		return errors.Errorf("dimacs: malformed header: %q", line)
	}
	switch fields[1] {
	case "cnf":
		if len(fields) != 4 {
			return errors.Errorf("dimacs: \"p cnf\" header needs 4 fields, got %d", len(fields))
		}
		n, err := strconv.Atoi(fields[2])
		if err != nil {
			return errors.Wrap(err, "dimacs: bad variable count in header")
		}
		m, err := strconv.Atoi(fields[3])
		if err != nil {
			return errors.Wrap(err, "dimacs: bad clause count in header")
		}
		if n == 0 && m == 0 && strict != StrictNone {
			return errors.New("dimacs: \"p cnf 0 0\" only accepted under strict=0")
		}
		doc.NumVars, doc.NumClauses = n, m
	case "inccnf":
		doc.Incremental = true
	default:
		return errors.Errorf("dimacs: unknown header kind %q", fields[1])
	}
	return nil
}

func parseLits(body string, strict Strictness) ([]int32, error) {
	fields := strings.Fields(body)
	if strict == StrictCanonical {
		joined := strings.Join(fields, " ")
		if strings.TrimSpace(body) != joined {
			return nil, errors.Errorf("dimacs: clause not in canonical single-space form: %q", body)
		}
	}
	if len(fields) == 0 || fields[len(fields)-1] != "0" {
		return nil, errors.New("dimacs: clause line missing trailing 0")
	}
	lits := make([]int32, 0, len(fields)-1)
	for _, f := range fields[:len(fields)-1] {
		n, err := strconv.ParseInt(f, 10, 32)
		if err != nil {
			return nil, errors.Wrapf(err, "dimacs: bad literal %q", f)
		}
		if n == 0 {
			return nil, errors.New("dimacs: literal 0 is only valid as the clause terminator")
		}
		lits = append(lits, int32(n))
	}
	return lits, nil
}

// Writer renders clauses in DIMACS output form (spec §6): header
// `p cnf <maxVar> <count>`, then one space-separated, zero-terminated
// line per clause.
type Writer struct {
	w      *bufio.Writer
	maxVar int32
	lines  [][]int32
}

func NewWriter() *Writer {
	return &Writer{}
}

// AddClause buffers one clause for output, tracking the header's
// running maximum variable index.
func (w *Writer) AddClause(lits []int32) {
	for _, l := range lits {
		v := l
		if v < 0 {
			v = -v
		}
		if v > w.maxVar {
			w.maxVar = v
		}
	}
	w.lines = append(w.lines, lits)
}

// WriteTo flushes the header and every buffered clause to dst. minMaxVar
// lets the caller force the header's variable count to at least a
// given value (spec §6: "max(min_max_var, current-max)").
func (w *Writer) WriteTo(dst io.Writer, minMaxVar int32) error {
	bw := bufio.NewWriter(dst)
	maxVar := w.maxVar
	if minMaxVar > maxVar {
		maxVar = minMaxVar
	}
	if _, err := bw.WriteString("p cnf " + strconv.Itoa(int(maxVar)) + " " + strconv.Itoa(len(w.lines)) + "\n"); err != nil {
		return errors.Wrap(err, "dimacs: write header")
	}
	for _, lits := range w.lines {
		for _, l := range lits {
			if _, err := bw.WriteString(strconv.Itoa(int(l))); err != nil {
				return errors.Wrap(err, "dimacs: write literal")
			}
			if err := bw.WriteByte(' '); err != nil {
				return errors.Wrap(err, "dimacs: write separator")
			}
		}
		if _, err := bw.WriteString("0\n"); err != nil {
			return errors.Wrap(err, "dimacs: write clause terminator")
		}
	}
	return errors.Wrap(bw.Flush(), "dimacs: flush writer")
}
