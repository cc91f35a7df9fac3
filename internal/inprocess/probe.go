package inprocess

import "github.com/xDarkicex/cdcl/internal/engine"

// ProbeFailedLiterals tries assuming each candidate literal in turn
// and propagating; if the assumption conflicts, its negation is a
// root-level-forced unit. Returns the derived units, each already
// applied to cnf as a unit clause.
func ProbeFailedLiterals(cnf *CNF, candidates []engine.Lit, maxCandidates int) []engine.Lit {
	var units []engine.Lit
	tried := 0
	for _, lit := range candidates {
		if tried >= maxCandidates {
			break
		}
		tried++
		a := vivAssign{}
		if lit.Sign() {
			a[lit.Var()] = -1
		} else {
			a[lit.Var()] = 1
		}
		ok, implied := propagateUnitsCollect(cnf.Clauses, a)
		if !ok {
			forced := lit.Neg()
			units = append(units, forced)
			cnf.Clauses = append(cnf.Clauses, &Clause{Lits: []engine.Lit{forced}})
			continue
		}
		if len(implied) > 0 {
			hyperBinaryResolve(cnf, lit, implied)
		}
	}
	return units
}

// hyperBinaryResolve implements the cheap by-product of failed-literal
// probing (spec §1): while probing assumed literal p propagates to q
// (a binary implication p -> q discovered through a chain of unit
// clauses), record the binary clause (¬p ∨ q) if it is not already
// present — it is logically implied by the formula and for free once
// probing has already done the propagation work.
func hyperBinaryResolve(cnf *CNF, p engine.Lit, implied []engine.Lit) int {
	added := 0
	existing := make(map[[2]engine.Lit]bool, len(cnf.Clauses))
	for _, c := range cnf.Clauses {
		if len(c.Lits) == 2 {
			existing[[2]engine.Lit{c.Lits[0], c.Lits[1]}] = true
			existing[[2]engine.Lit{c.Lits[1], c.Lits[0]}] = true
		}
	}
	for _, q := range implied {
		key := [2]engine.Lit{p.Neg(), q}
		if existing[key] {
			continue
		}
		cnf.Clauses = append(cnf.Clauses, &Clause{Lits: []engine.Lit{p.Neg(), q}})
		existing[key] = true
		added++
	}
	return added
}
