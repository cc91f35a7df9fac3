package inprocess

import "github.com/xDarkicex/cdcl/internal/engine"

func occurrences(cnf *CNF, v engine.Var) (pos, neg []*Clause) {
	for _, c := range cnf.Clauses {
		for _, l := range c.Lits {
			if l.Var() != v {
				continue
			}
			if l.Sign() {
				neg = append(neg, c)
			} else {
				pos = append(pos, c)
			}
			break
		}
	}
	return pos, neg
}

// resolveOn resolves a (containing +v) against b (containing -v),
// returning the resolvent literal list, or ok=false if the resolvent
// is tautological (a literal and its negation both present).
func resolveOn(a, b *Clause, v engine.Var) (lits []engine.Lit, ok bool) {
	seen := make(map[engine.Lit]bool, len(a.Lits)+len(b.Lits))
	add := func(l engine.Lit) bool {
		if l.Var() == v {
			return true
		}
		if seen[l.Neg()] {
			return false
		}
		if !seen[l] {
			seen[l] = true
			lits = append(lits, l)
		}
		return true
	}
	for _, l := range a.Lits {
		if !add(l) {
			return nil, false
		}
	}
	for _, l := range b.Lits {
		if !add(l) {
			return nil, false
		}
	}
	return lits, true
}

// Eliminate performs bounded variable elimination over candidates:
// each eliminable variable whose positive/negative occurrence product
// stays within maxResolvents is resolved away, its clauses replaced by
// the (non-tautological) resolvents, and a reconstruction witness is
// pushed for every clause on its smaller occurrence side — the
// teacher's BoundedVariableElimination.eliminateVariable, translated
// to this package's representation.
func Eliminate(cnf *CNF, candidates []engine.Var, maxResolvents int) (eliminated []engine.Var, witnesses []Witness) {
	for _, v := range candidates {
		pos, neg := occurrences(cnf, v)
		if len(pos) == 0 && len(neg) == 0 {
			continue
		}
		if len(pos)*len(neg) > maxResolvents {
			continue
		}

		var resolvents []*Clause
		for _, p := range pos {
			for _, n := range neg {
				lits, good := resolveOn(p, n, v)
				if !good {
					continue // tautology: simply dropped, not a failure
				}
				resolvents = append(resolvents, &Clause{Lits: lits})
			}
		}

		// Witness side: whichever occurrence list is smaller survives
		// as the reconstruction record, since those are the clauses
		// whose satisfaction depends on how v is set.
		witnessClauses, witnessLit := pos, engine.LitForVar(v, false)
		if len(neg) < len(pos) {
			witnessClauses, witnessLit = neg, engine.LitForVar(v, true)
		}
		for _, c := range witnessClauses {
			witnesses = append(witnesses, Witness{
				Clause:  append([]engine.Lit(nil), c.Lits...),
				Witness: []engine.Lit{witnessLit},
			})
		}

		remaining := cnf.Clauses[:0]
		for _, c := range cnf.Clauses {
			touches := false
			for _, l := range c.Lits {
				if l.Var() == v {
					touches = true
					break
				}
			}
			if !touches {
				remaining = append(remaining, c)
			}
		}
		cnf.Clauses = append(remaining, resolvents...)
		eliminated = append(eliminated, v)
	}
	return eliminated, witnesses
}
