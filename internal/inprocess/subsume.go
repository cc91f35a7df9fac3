package inprocess

import "github.com/xDarkicex/cdcl/internal/engine"

// litSet is a small helper for the set containment checks subsumption
// needs; clauses inprocessing works with are short enough that a map
// beats sorting for this.
func litSet(lits []engine.Lit) map[engine.Lit]bool {
	s := make(map[engine.Lit]bool, len(lits))
	for _, l := range lits {
		s[l] = true
	}
	return s
}

// subsumes reports whether a's literals are a subset of b's — a
// subsumes b, so b is logically implied by a and can be discarded.
func subsumes(a, b *Clause) bool {
	if len(a.Lits) > len(b.Lits) {
		return false
	}
	bs := litSet(b.Lits)
	for _, l := range a.Lits {
		if !bs[l] {
			return false
		}
	}
	return true
}

// selfSubsumingResolvent checks whether a and b resolve on exactly one
// variable (a carries l, b carries l.Neg()) and whether, after
// removing that one clashing literal, a's remaining literals are a
// subset of b's. If so, l.Neg() can be struck from b (self-subsuming
// resolution / strengthening) without changing satisfiability.
func selfSubsumingResolvent(a, b *Clause) (strike engine.Lit, ok bool) {
	as := litSet(a.Lits)
	for _, l := range b.Lits {
		if as[l.Neg()] {
			// Candidate clash literal is l in b, l.Neg() in a.
			// a minus l.Neg() must be a subset of b minus l.
			match := true
			for _, al := range a.Lits {
				if al == l.Neg() {
					continue
				}
				found := false
				for _, bl := range b.Lits {
					if bl == al {
						found = true
						break
					}
				}
				if !found {
					match = false
					break
				}
			}
			if match {
				return l, true
			}
		}
	}
	return 0, false
}

func removeLit(c *Clause, l engine.Lit) *Clause {
	out := make([]engine.Lit, 0, len(c.Lits)-1)
	for _, x := range c.Lits {
		if x != l {
			out = append(out, x)
		}
	}
	return &Clause{Lits: out}
}

// Subsume runs subsumption elimination and self-subsuming resolution
// over cnf until a round changes nothing or maxTries rounds have run.
// Both are purely logical simplifications —
// they never require a reconstruction witness.
func Subsume(cnf *CNF, maxTries int) (removed, strengthened int) {
	changed := true
	tries := 0
	for changed && tries < maxTries {
		changed = false
		tries++

		kept := cnf.Clauses[:0]
		dropped := make(map[int]bool)
		for i, b := range cnf.Clauses {
			if dropped[i] {
				continue
			}
			subsumed := false
			for j, a := range cnf.Clauses {
				if i == j || dropped[j] {
					continue
				}
				if len(a.Lits) <= len(b.Lits) && subsumes(a, b) {
					subsumed = true
					break
				}
			}
			if subsumed {
				dropped[i] = true
				removed++
				changed = true
				continue
			}
			kept = append(kept, b)
		}
		cnf.Clauses = kept

		for i := 0; i < len(cnf.Clauses); i++ {
			for j := 0; j < len(cnf.Clauses); j++ {
				if i == j {
					continue
				}
				if l, ok := selfSubsumingResolvent(cnf.Clauses[i], cnf.Clauses[j]); ok {
					cnf.Clauses[j] = removeLit(cnf.Clauses[j], l)
					strengthened++
					changed = true
				}
			}
		}
	}
	return removed, strengthened
}
