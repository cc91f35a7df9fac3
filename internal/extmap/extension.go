package extmap

// ExtensionStack is the append-only reconstruction log (spec §3):
// every variable elimination or equivalence substitution performed by
// inprocessing pushes one entry recording the witness clause it
// removed and the witness literals that restore satisfaction of that
// clause once the eliminated variable is reintroduced.
//
// Entries are stored in a flat int32 arena rather than as
// heap-allocated structs, per the design note that an append-only,
// reverse-iterated log is exactly what an arena-with-offsets is for:
// no per-entry allocation, no dangling references, and forward or
// backward traversal is just an offset walk.
type ExtensionStack struct {
	arena   []int32
	offsets []int
}

// NewExtensionStack returns an empty stack.
func NewExtensionStack() *ExtensionStack {
	return &ExtensionStack{}
}

// Push records one witness: the clause that gave rise to the
// elimination, and the literals that, when all set true, satisfy that
// clause. clause and witness are external literals (int32, DIMACS
// sign convention).
func (s *ExtensionStack) Push(clause, witness []int32) {
	off := len(s.arena)
	s.offsets = append(s.offsets, off)
	s.arena = append(s.arena, int32(len(clause)))
	s.arena = append(s.arena, clause...)
	s.arena = append(s.arena, int32(len(witness)))
	s.arena = append(s.arena, witness...)
}

// Len reports the number of recorded entries.
func (s *ExtensionStack) Len() int { return len(s.offsets) }

// entryAt returns the clause and witness literal slices for entry i.
// The returned slices alias the arena and must not be retained past a
// subsequent Push.
func (s *ExtensionStack) entryAt(i int) (clause, witness []int32) {
	off := s.offsets[i]
	clauseLen := int(s.arena[off])
	clause = s.arena[off+1 : off+1+clauseLen]
	wOff := off + 1 + clauseLen
	witLen := int(s.arena[wOff])
	witness = s.arena[wOff+1 : wOff+1+witLen]
	return clause, witness
}

// TraverseForward visits entries oldest-first. visit returning false
// aborts the traversal; TraverseForward then returns false.
func (s *ExtensionStack) TraverseForward(visit func(clause, witness []int32) bool) bool {
	for i := 0; i < s.Len(); i++ {
		c, w := s.entryAt(i)
		if !visit(c, w) {
			return false
		}
	}
	return true
}

// TraverseBackward visits entries newest-first — the order
// reconstruction requires, so that a variable eliminated early is only
// fixed up after every later elimination that might depend on it.
func (s *ExtensionStack) TraverseBackward(visit func(clause, witness []int32) bool) bool {
	for i := s.Len() - 1; i >= 0; i-- {
		c, w := s.entryAt(i)
		if !visit(c, w) {
			return false
		}
	}
	return true
}

// Extend replays the stack backward against a partial model (val
// reports the current truth value of an external literal, 0 if
// unassigned/don't-care) and calls set for every witness literal that
// must be forced true to satisfy an otherwise-falsified witness
// clause. Invariant (spec §8): after a full backward replay, every
// recorded witness clause is satisfied by the combination of val and
// the literals passed to set.
func (s *ExtensionStack) Extend(val func(lit int32) int8, set func(lit int32)) {
	s.TraverseBackward(func(clause, witness []int32) bool {
		satisfied := false
		for _, l := range clause {
			if val(l) == 1 {
				satisfied = true
				break
			}
		}
		if !satisfied {
			for _, w := range witness {
				set(w)
			}
		}
		return true
	})
}
