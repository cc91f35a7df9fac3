package proof

import (
	"bufio"
	"io"

	"github.com/pkg/errors"
)

// BinaryWriter emits the standard DRAT binary encoding (spec §6): each
// record starts with 'a' (addition) or 'd' (deletion), followed by
// each literal varint-encoded and a trailing zero byte. Literals are
// mapped to an unsigned code (2*|lit| + sign bit) before varint
// encoding, matching the reference DRAT-trim binary format.
type BinaryWriter struct {
	w   *bufio.Writer
	err error
}

func NewBinaryWriter(dst io.Writer) *BinaryWriter {
	return &BinaryWriter{w: bufio.NewWriter(dst)}
}

func encodeLit(l int32) uint64 {
	v := uint64(l)
	if l < 0 {
		v = uint64(-l)
		return 2*v + 1
	}
	return 2 * v
}

func (b *BinaryWriter) writeVarint(x uint64) {
	for x >= 0x80 {
		if err := b.w.WriteByte(byte(x&0x7f) | 0x80); err != nil {
			b.err = errors.Wrap(err, "proof: write DRAT varint byte")
			return
		}
		x >>= 7
	}
	if err := b.w.WriteByte(byte(x)); err != nil {
		b.err = errors.Wrap(err, "proof: write DRAT varint terminator")
	}
}

func (b *BinaryWriter) record(tag byte, lits []int32) {
	if b.err != nil {
		return
	}
	if err := b.w.WriteByte(tag); err != nil {
		b.err = errors.Wrap(err, "proof: write DRAT record tag")
		return
	}
	for _, l := range lits {
		b.writeVarint(encodeLit(l))
		if b.err != nil {
			return
		}
	}
	if err := b.w.WriteByte(0); err != nil {
		b.err = errors.Wrap(err, "proof: write DRAT record terminator")
	}
}

func (b *BinaryWriter) AddClause(lits []int32) { b.record('a', lits) }

func (b *BinaryWriter) DeleteClause(lits []int32) { b.record('d', lits) }

func (b *BinaryWriter) AddUnit(lit int32) { b.record('a', []int32{lit}) }

func (b *BinaryWriter) Err() error { return b.err }

func (b *BinaryWriter) Close() error {
	if err := b.w.Flush(); err != nil && b.err == nil {
		b.err = errors.Wrap(err, "proof: flush DRAT writer")
	}
	return b.err
}

var _ Tracer = (*BinaryWriter)(nil)
