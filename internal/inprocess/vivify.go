package inprocess

import "github.com/xDarkicex/cdcl/internal/engine"

// vivAssign is a throwaway propagation scratchpad for vivification —
// inprocessing never touches the engine's own trail, so it carries its
// own tiny unit-propagation loop over the working clause set.
type vivAssign map[engine.Var]int8 // 1 true, -1 false

func (a vivAssign) value(l engine.Lit) int8 {
	v, ok := a[l.Var()]
	if !ok {
		return 0
	}
	if l.Sign() {
		return -v
	}
	return v
}

// propagateUnits runs unit propagation over clauses to a fixpoint under
// the given assignment, returning false the moment some clause is
// fully falsified.
func propagateUnits(clauses []*Clause, a vivAssign) bool {
	ok, _ := propagateUnitsCollect(clauses, a)
	return ok
}

// propagateUnitsCollect is propagateUnits but also returns every
// literal forced true along the way, in forcing order — the trail
// probing's hyper-binary resolution reads to discover free binary
// implications (spec §1).
func propagateUnitsCollect(clauses []*Clause, a vivAssign) (ok bool, forced []engine.Lit) {
	changed := true
	for changed {
		changed = false
		for _, c := range clauses {
			unassignedCount := 0
			var last engine.Lit
			satisfied := false
			for _, l := range c.Lits {
				switch a.value(l) {
				case 1:
					satisfied = true
				case 0:
					unassignedCount++
					last = l
				}
			}
			if satisfied {
				continue
			}
			if unassignedCount == 0 {
				return false, forced
			}
			if unassignedCount == 1 {
				if last.Sign() {
					a[last.Var()] = -1
				} else {
					a[last.Var()] = 1
				}
				forced = append(forced, last)
				changed = true
			}
		}
	}
	return true, forced
}

// VivifyClause attempts to shrink a single clause by assuming the
// negation of its literals one at a time and propagating against the
// rest of the formula. A literal already falsified by those negations
// is dropped; once propagation derives a conflict (or finds the next
// literal already true), the remaining literals weren't needed and the
// clause is strengthened down to the literals kept so far.
func VivifyClause(c *Clause, rest []*Clause, maxSize int) (*Clause, bool) {
	if len(c.Lits) < 2 || len(c.Lits) > maxSize {
		return c, false
	}
	a := make(vivAssign, len(c.Lits))
	kept := make([]engine.Lit, 0, len(c.Lits))
	for _, l := range c.Lits {
		v := a.value(l)
		if v == -1 {
			continue // already falsified by a prior assumption's propagation
		}
		kept = append(kept, l)
		if v == 1 {
			break // implied true by the negations assumed so far
		}
		if l.Sign() {
			a[l.Var()] = 1
		} else {
			a[l.Var()] = -1
		}
		if !propagateUnits(rest, a) {
			break // conflict: the literals kept so far form an implied clause
		}
	}
	if len(kept) == len(c.Lits) {
		return c, false
	}
	return &Clause{Lits: kept}, true
}

// Vivify runs VivifyClause over every clause in cnf, replacing any
// that shrink.
func Vivify(cnf *CNF, maxSize int) int {
	strengthened := 0
	for i, c := range cnf.Clauses {
		rest := make([]*Clause, 0, len(cnf.Clauses)-1)
		for j, other := range cnf.Clauses {
			if i != j {
				rest = append(rest, other)
			}
		}
		if shrunk, ok := VivifyClause(c, rest, maxSize); ok {
			cnf.Clauses[i] = shrunk
			strengthened++
		}
	}
	return strengthened
}
