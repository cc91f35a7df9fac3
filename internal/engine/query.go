package engine

// IrredundantClauses returns the literal lists of every irredundant
// clause still installed, for traversal/export (spec §4.8) and as the
// snapshot inprocessing operates over.
func (e *Engine) IrredundantClauses() [][]Lit {
	out := make([][]Lit, 0, len(e.clauses))
	for _, c := range e.clauses {
		if c.Garbage {
			continue
		}
		out = append(out, append([]Lit(nil), c.Lits...))
	}
	return out
}

// LearntSize reports how many redundant clauses are currently live.
func (e *Engine) LearntSize() int { return e.learnt.size() }

// ReplaceIrredundant swaps the irredundant clause set wholesale — used
// after an inprocessing pass rewrites it (bounded elimination,
// subsumption, vivification). All existing irredundant watches are
// torn down first; learned clauses are untouched.
func (e *Engine) ReplaceIrredundant(clauseLits [][]Lit) {
	for _, c := range e.clauses {
		e.watches.unwatchClause(c)
	}
	e.clauses = e.clauses[:0]
	for _, lits := range clauseLits {
		if len(lits) == 1 {
			e.enqueue(lits[0], nil)
			continue
		}
		c := &Clause{Lits: lits}
		e.clauses = append(e.clauses, c)
		if len(lits) >= 2 {
			e.watches.watchClause(c)
		}
	}
}

// trivialConflict is returned by TryLiteral when l is already
// falsified outright, before propagation even runs; callers only test
// this for nil-ness so its contents never matter.
var trivialConflict = &Clause{}

// TryLiteral pushes a new decision level, assigns l and propagates —
// the primitive behind lookahead and cube generation (spec §4.9);
// failed-literal probing in package inprocess uses its own
// propagation. Returns the conflicting clause, or nil if l and
// its consequences are consistent.
func (e *Engine) TryLiteral(l Lit) *Clause {
	e.NewDecisionLevel()
	if !e.enqueue(l, nil) {
		return trivialConflict
	}
	return e.propagate()
}

// Undo pops the most recent TryLiteral (or decision) back off the
// trail.
func (e *Engine) Undo() {
	e.Backjump(e.tr.level() - 1)
}

// TrailSince reports how many literals are currently assigned beyond
// the given decision level — lookahead's "measure reduction" (spec
// §4.9).
func (e *Engine) TrailSince(level int) int {
	return len(e.tr.lits) - e.tr.levelStart(level)
}

// UnassignedVars returns internal variables with no current value,
// for lookahead/cube-generation candidate selection.
func (e *Engine) UnassignedVars() []Var {
	var out []Var
	for v := Var(1); int(v) <= e.nVars; v++ {
		if e.assign[v] == lUndef && e.varActive(v) {
			out = append(out, v)
		}
	}
	return out
}
