package proof

import (
	"bufio"
	"io"
	"strconv"

	"github.com/pkg/errors"
)

// ASCIIWriter emits the textual DRAT encoding (spec §6): each line is
// either "<lit>* 0" for an addition or "d <lit>* 0" for a deletion.
// The empty clause (an addition with zero literals) is "0" on its own
// and terminates a refutation.
type ASCIIWriter struct {
	w   *bufio.Writer
	err error
}

// NewASCIIWriter wraps dst for ASCII DRAT output.
func NewASCIIWriter(dst io.Writer) *ASCIIWriter {
	return &ASCIIWriter{w: bufio.NewWriter(dst)}
}

func (a *ASCIIWriter) writeLine(prefix string, lits []int32) {
	if a.err != nil {
		return
	}
	if prefix != "" {
		if _, err := a.w.WriteString(prefix); err != nil {
			a.err = errors.Wrap(err, "proof: write DRAT deletion prefix")
			return
		}
	}
	for _, l := range lits {
		if _, err := a.w.WriteString(strconv.Itoa(int(l))); err != nil {
			a.err = errors.Wrap(err, "proof: write DRAT literal")
			return
		}
		if err := a.w.WriteByte(' '); err != nil {
			a.err = errors.Wrap(err, "proof: write DRAT separator")
			return
		}
	}
	if _, err := a.w.WriteString("0\n"); err != nil {
		a.err = errors.Wrap(err, "proof: write DRAT terminator")
	}
}

func (a *ASCIIWriter) AddClause(lits []int32) { a.writeLine("", lits) }

func (a *ASCIIWriter) DeleteClause(lits []int32) { a.writeLine("d ", lits) }

func (a *ASCIIWriter) AddUnit(lit int32) { a.writeLine("", []int32{lit}) }

func (a *ASCIIWriter) Err() error { return a.err }

func (a *ASCIIWriter) Close() error {
	if err := a.w.Flush(); err != nil && a.err == nil {
		a.err = errors.Wrap(err, "proof: flush DRAT writer")
	}
	return a.err
}

var _ Tracer = (*ASCIIWriter)(nil)
