package engine

import "sync/atomic"

// ProofSink is the narrow capability the internal engine needs to emit
// a DRAT trace (spec §4.11). Concrete writers live in package proof and
// satisfy this interface structurally — the engine package does not
// import proof, per the layering design note in spec.md §9.
type ProofSink interface {
	AddClause(lits []int32)
	DeleteClause(lits []int32)
	AddUnit(lit int32)
}

// Engine is the internal CDCL core: trail, watch lists, clause arena,
// VSIDS heap, conflict analysis, restart and reduction. It knows
// nothing about external variable numbering or the extension stack —
// that is extmap.Mapping's job. It only mirrors per-variable frozen
// counts (SetFrozen) so that Eliminable can consult them.
type Engine struct {
	nVars int
	vars  []*varData // index 0 unused
	assign []lbool

	tr      *trail
	watches *watchIndex
	heap    *varHeap

	clauses []*Clause // irredundant
	learnt  *clauseDB

	varInc, varDecay     float64
	clauseInc, clauseDecay float64

	conflictsSinceReduce int64
	reduceLimit          int64
	reduceGrowth         float64

	restarts *lubyRestarts

	terminated atomic.Bool
	terminator func() bool

	sink ProofSink

	onLearned func([]Lit)

	Stats Stats

	unsatAtRoot bool

	scratchSeen []bool
}

// NewEngine builds an empty engine.
func NewEngine() *Engine {
	e := &Engine{
		vars:         []*varData{{}}, // index 0 unused
		assign:       []lbool{lUndef},
		tr:           newTrail(),
		watches:      newWatchIndex(),
		learnt:       newClauseDB(2000),
		varInc:       1.0,
		varDecay:     0.95,
		clauseInc:    1.0,
		clauseDecay:  0.999,
		reduceLimit:  2000,
		reduceGrowth: 1.1,
		restarts:     newLubyRestarts(100, 2.0),
	}
	e.heap = newVarHeap(&e.vars)
	return e
}

// SetProofSink attaches (or, with nil, detaches) a DRAT sink.
func (e *Engine) SetProofSink(sink ProofSink) { e.sink = sink }

// SetTerminator attaches a termination callback polled at checkpoints.
func (e *Engine) SetTerminator(fn func() bool) { e.terminator = fn }

// SetLearnedCallback attaches a sink invoked with every clause the
// engine learns, for the Learner capability (spec §6).
func (e *Engine) SetLearnedCallback(fn func([]Lit)) { e.onLearned = fn }

// Terminate sets the asynchronous termination flag directly. This is
// the only field touched from a second goroutine, hence atomic.Bool.
func (e *Engine) Terminate() { e.terminated.Store(true) }

func (e *Engine) checkTerminated() bool {
	if e.terminated.Load() {
		return true
	}
	if e.terminator != nil && e.terminator() {
		e.terminated.Store(true)
		return true
	}
	return false
}

func (e *Engine) ResetTermination() { e.terminated.Store(false) }

// NVars returns the number of internal variables created so far.
func (e *Engine) NVars() int { return e.nVars }

// Reserve grows the internal variable space to at least n variables.
func (e *Engine) Reserve(n int) {
	for e.nVars < n {
		e.newVar()
	}
}

// NewVar allocates and returns a fresh internal variable.
func (e *Engine) NewVar() Var { return e.newVar() }

func (e *Engine) newVar() Var {
	e.nVars++
	v := Var(e.nVars)
	e.vars = append(e.vars, &varData{heapPos: -1, flags: FlagActive})
	e.assign = append(e.assign, lUndef)
	if int(v) >= len(e.scratchSeen) {
		e.scratchSeen = append(e.scratchSeen, make([]bool, int(v)-len(e.scratchSeen)+64)...)
	}
	e.heap.push(v)
	return v
}

// Value reports the current truth value of literal l: 1 true, -1
// false, 0 unassigned.
func (e *Engine) Value(l Lit) int8 { return int8(litValue(e.assign, l)) }

func (e *Engine) varActive(v Var) bool { return e.vars[v].flags&FlagActive != 0 }

// SetPhase sets a forced phase override for v (spec `phase`/`unphase`).
func (e *Engine) SetPhase(v Var, neg bool) {
	if neg {
		e.vars[v].forcedPhase = -1
	} else {
		e.vars[v].forcedPhase = 1
	}
}

func (e *Engine) ClearPhase(v Var) { e.vars[v].forcedPhase = 0 }

func (e *Engine) SetFrozen(v Var, frozen bool) {
	if frozen {
		e.vars[v].frozenRefs++
	} else if e.vars[v].frozenRefs > 0 {
		e.vars[v].frozenRefs--
	}
}

func (e *Engine) Eliminable(v Var) bool { return e.vars[v].eliminable() }

func (e *Engine) SetEliminated(v Var) { e.vars[v].flags |= FlagEliminated }
func (e *Engine) SetSubstituted(v Var) { e.vars[v].flags |= FlagSubstituted }
func (e *Engine) SetFixed(v Var) { e.vars[v].flags |= FlagFixed }

// Fixed reports l's truth value only if it was forced at decision level
// 0 — a permanent root-level fact, as opposed to a transient decision
// still sitting on the trail from the in-progress or most recent
// search. 1 true, -1 false, 0 not fixed (spec §6's `fixed` query).
func (e *Engine) Fixed(l Lit) int8 {
	v := l.Var()
	if e.assign[v] == lUndef || e.vars[v].level != 0 {
		return 0
	}
	return e.Value(l)
}

// --- clause input (spec §4.2) ---

// AddClause runs the clause-input simplification pipeline and, if
// accepted, stores the clause and installs its watches. Returns true
// if the clause immediately makes the formula unsatisfiable (empty
// clause derived, or a unit conflicts with an existing root fact).
func (e *Engine) AddClause(lits []Lit) bool {
	if e.unsatAtRoot {
		return true
	}
	// Clause input only ever reasons about level 0: a decision (or a
	// prior assumption pushed as a decision) left on the trail by a
	// finished Solve call must not be mistaken for a permanent fact by
	// the root-satisfied/root-falsified check below, nor conflict
	// spuriously against the unit path's enqueue.
	e.Backjump(0)
	out := make([]Lit, 0, len(lits))
	seen := make(map[Lit]bool, len(lits))
	for _, l := range lits {
		if seen[l] {
			continue // in-clause duplicate
		}
		if seen[l.Neg()] {
			return false // tautology: drop the clause, not unsat
		}
		switch e.Fixed(l) {
		case 1:
			return false // satisfied at root: drop the clause
		case -1:
			continue // root-falsified literal: strip it
		}
		seen[l] = true
		out = append(out, l)
	}

	switch len(out) {
	case 0:
		e.unsatAtRoot = true
		if e.sink != nil {
			e.sink.AddClause(nil)
		}
		return true
	case 1:
		if e.sink != nil {
			e.sink.AddUnit(int32(out[0]))
		}
		if !e.enqueue(out[0], nil) {
			e.unsatAtRoot = true
			return true
		}
		if e.propagate() != nil {
			e.unsatAtRoot = true
			return true
		}
		return false
	default:
		c := &Clause{Lits: out}
		e.clauses = append(e.clauses, c)
		e.watches.watchClause(c)
		if e.sink != nil {
			e.sink.AddClause(litsToInt32(out))
		}
		return false
	}
}

func litsToInt32(lits []Lit) []int32 {
	out := make([]int32, len(lits))
	for i, l := range lits {
		out[i] = int32(l)
	}
	return out
}

// --- assignment / propagation (spec §4.3) ---

func (e *Engine) enqueue(l Lit, reason *Clause) bool {
	v := l.Var()
	switch e.Value(l) {
	case 1:
		return true
	case -1:
		return false
	}
	if l.Sign() {
		e.assign[v] = lFalse
	} else {
		e.assign[v] = lTrue
	}
	e.vars[v].level = int32(e.tr.level())
	e.vars[v].reason = reason
	e.vars[v].phase = e.Value(LitForVar(v, false))
	if e.vars[v].level == 0 {
		e.SetFixed(v) // a level-0 assignment is permanent, never undone by Backjump
	}
	e.tr.push(l)
	return true
}

func (e *Engine) unassign(l Lit) {
	v := l.Var()
	e.vars[v].phase = e.Value(LitForVar(v, false))
	e.assign[v] = lUndef
	e.vars[v].reason = nil
	if !e.heap.contains(v) && e.varActive(v) {
		e.heap.push(v)
	}
}

// Propagate runs BCP to a fixpoint and returns the first conflicting
// clause, or nil if the queue drains cleanly.
func (e *Engine) propagate() *Clause {
	for e.tr.qhead < len(e.tr.lits) {
		p := e.tr.lits[e.tr.qhead]
		e.tr.qhead++
		ws := e.watches.get(p)
		keep := ws[:0]
		var confl *Clause
		for i := 0; i < len(ws); i++ {
			w := ws[i]
			if e.Value(w.blocker) == 1 {
				keep = append(keep, w)
				continue
			}
			c := w.clause
			// Normalize so Lits[1] is the one that just became false and
			// Lits[0] is the other watch.
			if c.Lits[0] == p.Neg() {
				c.Lits[0], c.Lits[1] = c.Lits[1], c.Lits[0]
			}
			first := c.Lits[0]
			if first != w.blocker && e.Value(first) == 1 {
				keep = append(keep, watcher{clause: c, blocker: first})
				continue
			}
			newWatchFound := false
			for k := 2; k < len(c.Lits); k++ {
				if e.Value(c.Lits[k]) != -1 {
					c.Lits[1], c.Lits[k] = c.Lits[k], c.Lits[1]
					e.watches.add(c.Lits[1].Neg(), watcher{clause: c, blocker: first})
					newWatchFound = true
					break
				}
			}
			if newWatchFound {
				continue
			}
			keep = append(keep, watcher{clause: c, blocker: first})
			if e.Value(first) == -1 {
				confl = c
				// Restore remaining watchers untouched.
				for i++; i < len(ws); i++ {
					keep = append(keep, ws[i])
				}
				break
			}
			e.Stats.Propagations++
			e.enqueue(first, c)
		}
		e.watches.set(p, keep)
		if confl != nil {
			return confl
		}
	}
	return nil
}

// --- decisions, backjump, restart, reduce (spec §4.4/4.5) ---

func (e *Engine) bumpVarActivity(v Var) {
	e.vars[v].activity += e.varInc
	if e.vars[v].activity > 1e100 {
		for _, vd := range e.vars {
			vd.activity *= 1e-100
		}
		e.varInc *= 1e-100
	}
	if e.heap.contains(v) {
		e.heap.update(v)
	}
}

func (e *Engine) decayVarActivity() { e.varInc /= e.varDecay }

// Decide pops the highest-activity unassigned variable and returns the
// literal to assign (respecting saved/forced phase).
func (e *Engine) Decide() (Lit, bool) {
	var v Var
	for e.heap.Len() > 0 {
		v = e.heap.pop()
		if e.Value(LitForVar(v, false)) == 0 && e.varActive(v) {
			break
		}
		v = 0
	}
	if v == 0 {
		return 0, false
	}
	neg := false
	if e.vars[v].forcedPhase != 0 {
		neg = e.vars[v].forcedPhase < 0
	} else if e.vars[v].phase != 0 {
		neg = e.vars[v].phase < 0
	}
	return LitForVar(v, neg), true
}

func (e *Engine) NewDecisionLevel() { e.tr.newDecisionLevel() }

func (e *Engine) Level() int { return e.tr.level() }

// Backjump undoes assignments down to level, restoring unassigned
// variables to the decision heap.
func (e *Engine) Backjump(level int) {
	popped := e.tr.popToLevel(level)
	for i := len(popped) - 1; i >= 0; i-- {
		e.unassign(popped[i])
	}
}

// LearnClause installs a learned clause: a unit is enqueued directly,
// larger clauses are watched at their two most-recently-assigned
// literals (already arranged as [asserting, secondHighest, ...] by
// analyze).
func (e *Engine) LearnClause(lits []Lit, glue int32) *Clause {
	e.Stats.LearnedClauses++
	if glue <= 2 {
		e.Stats.GlueClauses++
	}
	e.Stats.LBDTotal += int64(glue)
	for _, l := range lits {
		e.bumpVarActivity(l.Var())
	}
	if e.onLearned != nil {
		e.onLearned(lits)
	}
	if len(lits) == 1 {
		if e.sink != nil {
			e.sink.AddUnit(int32(lits[0]))
		}
		e.enqueue(lits[0], nil)
		return nil
	}
	c := &Clause{Lits: lits, Redundant: true, Glue: glue, Activity: e.clauseInc}
	e.learnt.add(c, e.Stats.Conflicts)
	e.watches.watchClause(c)
	if e.sink != nil {
		e.sink.AddClause(litsToInt32(lits))
	}
	e.enqueue(lits[0], c)
	return c
}

func (e *Engine) decayClauseActivity() { e.clauseInc /= e.clauseDecay }

// ReduceDB discards the lower-quality half of the mid and local glue
// tiers (spec §4.5); core and recent clauses are not reduced, and
// clauses currently serving as a trail reason are kept.
func (e *Engine) ReduceDB() {
	e.Stats.InprocessRuns++ // reduction rounds are counted alongside inprocessing rounds
	isLocked := func(c *Clause) bool {
		return len(c.Lits) > 0 && e.vars[c.Lits[0].Var()].reason == c
	}
	reduceAndRemove := func(tier *[]*Clause) {
		var protectable []*Clause
		for _, c := range *tier {
			if isLocked(c) {
				protectable = append(protectable, c)
			}
		}
		kept, garbage := reduceTier(*tier, 0.5)
		final := make([]*Clause, 0, len(kept)+len(protectable))
		seen := make(map[*Clause]bool, len(kept))
		for _, c := range kept {
			seen[c] = true
			final = append(final, c)
		}
		for _, c := range protectable {
			if !seen[c] {
				final = append(final, c)
			}
		}
		for _, c := range garbage {
			if isLocked(c) {
				continue // already kept via protectable
			}
			c.Garbage = true
			e.watches.unwatchClause(c)
			if e.sink != nil {
				e.sink.DeleteClause(litsToInt32(c.Lits))
			}
			e.Stats.DeletedClauses++
		}
		*tier = final
	}
	reduceAndRemove(&e.learnt.mid)
	reduceAndRemove(&e.learnt.local)
}

// ShouldReduce reports whether the reduction threshold has been reached.
func (e *Engine) ShouldReduce() bool {
	return int64(len(e.learnt.mid)+len(e.learnt.local)) >= e.reduceLimit
}

func (e *Engine) OnReduced() {
	e.reduceLimit = int64(float64(e.reduceLimit) * e.reduceGrowth)
}

// Model returns a copy of the current full assignment (valid only once
// every variable is assigned, i.e. on SAT).
func (e *Engine) Model() []int8 {
	m := make([]int8, len(e.assign))
	for i, a := range e.assign {
		m[i] = int8(a)
	}
	return m
}

func (e *Engine) AllAssigned() bool { return len(e.tr.lits) == e.nVars }

func (e *Engine) Conflicts() int64 { return e.Stats.Conflicts }

// Result codes follow the IPASIR convention the facade's state machine
// is built around: 0 unknown/interrupted, 10 satisfiable, 20
// unsatisfiable.
const (
	StatusUnknown = 0
	StatusSAT     = 10
	StatusUNSAT   = 20
)

// Solve runs CDCL search under the given assumptions (already mapped
// to internal literals and root-consistency-checked by the caller). It
// returns StatusSAT, StatusUNSAT or StatusUnknown (asynchronous
// termination), plus — only on StatusUNSAT while assumptions were in
// force — the failed subset of those assumptions.
//
// Assumptions are pushed as decisions at the start of search, one per
// decision level, before the heap ever gets a turn. A conflict within
// the assumption prefix ends the call as UNSAT with its failed subset.
// A learned clause whose backjump level falls below the assumption
// levels retracts some of them; they are pushed again before the next
// decision.
func (e *Engine) Solve(assumps []Lit) (status int, failed []Lit) {
	// Each incremental call starts over from the root: decisions (and
	// prior assumptions pushed as decisions) left on the trail by an
	// earlier Solve never outlive that call, so a fresh assumption
	// cannot be mistaken for contradicting a permanent fact when it
	// really only contradicts a stale, re-decidable choice.
	e.Backjump(0)
	if e.unsatAtRoot {
		return StatusUNSAT, nil
	}
	if e.propagate() != nil {
		e.unsatAtRoot = true
		return StatusUNSAT, nil
	}

	k := 0 // number of assumption decision levels currently pushed
	assumpIdx := 0

	for {
		if e.checkTerminated() {
			e.Backjump(0)
			e.ResetTermination() // a request stops one Solve call only
			return StatusUnknown, nil
		}

		confl := e.propagate()
		if confl != nil {
			e.Stats.Conflicts++
			if e.tr.level() <= k {
				fa := e.analyzeFinal(confl, k)
				e.Backjump(0)
				return StatusUNSAT, fa
			}
			learnt, btLevel, glue := e.analyze(confl)
			if btLevel < k {
				// The backjump retracts some assumption decisions; the
				// assumption step below pushes them again, skipping
				// those still true.
				k = btLevel
				assumpIdx = 0
			}
			e.Backjump(btLevel)
			e.LearnClause(learnt, glue)
			e.decayVarActivity()
			e.decayClauseActivity()
			if e.restarts.onConflict(glue) {
				e.Backjump(k)
				e.restarts.reset()
				e.Stats.Restarts++
			}
			if e.ShouldReduce() {
				e.learnt.promote(e.Stats.Conflicts)
				e.ReduceDB()
				e.OnReduced()
			}
			continue
		}

		e.learnt.promote(e.Stats.Conflicts)

		if assumpIdx < len(assumps) {
			a := assumps[assumpIdx]
			switch e.Value(a) {
			case 1:
				assumpIdx++
				continue
			case -1:
				// a is already false: analyzeFinal walks the reasons
				// that forced it, and a's own negation — the literal
				// actually on the trail — belongs in the core too,
				// mirroring the explicit seed push MiniSat's
				// analyzeFinal(~p, ...) does before its trail walk.
				fa := e.analyzeFinal(&Clause{Lits: []Lit{a}}, k)
				fa = append(fa, a.Neg())
				e.Backjump(0)
				return StatusUNSAT, fa
			default:
				e.NewDecisionLevel()
				k++
				e.enqueue(a, nil)
				assumpIdx++
				continue
			}
		}

		if e.AllAssigned() {
			return StatusSAT, nil
		}

		lit, ok := e.Decide()
		if !ok {
			// Heap exhausted but not every variable accounted for
			// (variables Decide skips as inactive): the remaining ones
			// are don't-cares, so the assignment is still a model.
			return StatusSAT, nil
		}
		e.NewDecisionLevel()
		e.Stats.Decisions++
		e.enqueue(lit, nil)
	}
}
