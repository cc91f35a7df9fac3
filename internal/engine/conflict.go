package engine

// analyze implements First-UIP conflict analysis (spec §4.4): resolve
// the conflicting clause against reasons of trail literals, walking
// backward, until exactly one literal from the current decision level
// remains. Returns the learned clause literals (asserting literal
// first), the backjump level (second-highest level in the clause, or 0
// for a unit clause) and the glue (LBD: number of distinct decision
// levels represented).
func (e *Engine) analyze(confl *Clause) (learnt []Lit, btLevel int, glue int32) {
	seen := e.scratchSeen
	for i := range seen {
		seen[i] = false
	}

	level := e.tr.level()
	learnt = append(learnt[:0], Lit(0)) // placeholder for the asserting literal
	pathCount := 0
	idx := len(e.tr.lits) - 1
	var p Lit

	c := confl
	for {
		for _, q := range c.Lits {
			if q == p {
				continue
			}
			v := q.Var()
			if seen[v] {
				continue
			}
			seen[v] = true
			e.bumpVarActivity(v)
			if e.vars[v].level == int32(level) {
				pathCount++
			} else if e.vars[v].level > 0 {
				learnt = append(learnt, q)
			}
		}

		// Find the next seen literal on the trail (walking backward).
		for !seen[e.tr.lits[idx].Var()] {
			idx--
		}
		p = e.tr.lits[idx]
		pv := p.Var()
		seen[pv] = false
		pathCount--
		idx--
		if pathCount <= 0 {
			break
		}
		c = e.vars[pv].reason
	}
	learnt[0] = p.Neg()

	// Glue: number of distinct decision levels among the learned literals.
	levelsSeen := make(map[int32]bool, len(learnt))
	for _, l := range learnt {
		levelsSeen[e.vars[l.Var()].level] = true
	}
	glue = int32(len(levelsSeen))

	// Backjump level: second-highest level among the non-asserting literals.
	if len(learnt) == 1 {
		btLevel = 0
	} else {
		maxI := 1
		maxLevel := e.vars[learnt[1].Var()].level
		for i := 2; i < len(learnt); i++ {
			lv := e.vars[learnt[i].Var()].level
			if lv > maxLevel {
				maxLevel = lv
				maxI = i
			}
		}
		learnt[1], learnt[maxI] = learnt[maxI], learnt[1]
		btLevel = int(maxLevel)
	}
	return learnt, btLevel, glue
}

// analyzeFinal extracts the assumption core (spec §4.6): walk the
// trail backward from a clause that conflicted while still within (or
// below) the assumption-decision prefix, collecting the negation of
// every assumption-level decision literal the conflict depends on.
func (e *Engine) analyzeFinal(confl *Clause, numAssump int) []Lit {
	seen := make([]bool, e.nVars+1)
	var out []Lit
	for _, l := range confl.Lits {
		seen[l.Var()] = true
	}
	for i := len(e.tr.lits) - 1; i >= 0; i-- {
		l := e.tr.lits[i]
		v := l.Var()
		if !seen[v] {
			continue
		}
		seen[v] = false
		lvl := e.vars[v].level
		reason := e.vars[v].reason
		if reason == nil {
			if lvl > 0 && int(lvl) <= numAssump {
				out = append(out, l.Neg())
			}
			continue
		}
		for _, q := range reason.Lits {
			if q.Var() != v {
				seen[q.Var()] = true
			}
		}
	}
	return out
}
