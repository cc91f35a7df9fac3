// Package extmap implements the external mapping layer (spec §2.2,
// §3, §4.6): the bidirectional external↔internal variable map, the
// reconstruction (extension) stack, frozen-variable reference counts,
// and assumption bookkeeping. It owns an internal/engine.Engine and
// translates every call into the engine's compacted variable space,
// translating results back.
package extmap

import "github.com/xDarkicex/cdcl/internal/engine"

// Mapping is single-goroutine, like the engine it wraps: the facade
// package is responsible for serializing concurrent access (spec §5).
type Mapping struct {
	Eng *engine.Engine

	extToInt map[int32]engine.Var
	intToExt []int32 // indexed by engine.Var; intToExt[0] unused

	Ext     *ExtensionStack
	Assumes *AssumptionSet
	Frozen  *FrozenCounts

	eliminated map[int32]bool // external vars removed from the formula entirely
}

// NewMapping builds an empty mapping around a fresh engine.
func NewMapping(eng *engine.Engine) *Mapping {
	return &Mapping{
		Eng:        eng,
		extToInt:   make(map[int32]engine.Var),
		intToExt:   []int32{0},
		Ext:        NewExtensionStack(),
		Assumes:    NewAssumptionSet(),
		Frozen:     NewFrozenCounts(),
		eliminated: make(map[int32]bool),
	}
}

// internalVar returns the internal variable for external variable ev,
// creating one (and growing the engine) if this is the first time ev
// is mentioned.
func (m *Mapping) internalVar(ev int32) engine.Var {
	if v, ok := m.extToInt[ev]; ok {
		return v
	}
	v := m.Eng.NewVar()
	m.extToInt[ev] = v
	for int32(len(m.intToExt)) <= int32(v) {
		m.intToExt = append(m.intToExt, 0)
	}
	m.intToExt[v] = ev
	return v
}

// Active reports whether ev currently has an internal image (spec
// §6's `vars`/`active` query): false for variables never mentioned and
// for those eliminated or substituted away.
func (m *Mapping) Active(ev int32) bool {
	if m.eliminated[ev] {
		return false
	}
	_, ok := m.extToInt[ev]
	return ok
}

// toInternal converts an external signed literal to an internal one,
// allocating the variable on first mention.
func (m *Mapping) toInternal(extLit int32) engine.Lit {
	v := extLit
	neg := false
	if v < 0 {
		v, neg = -v, true
	}
	iv := m.internalVar(v)
	return engine.LitForVar(iv, neg)
}

// toExternal converts an internal literal back to the caller's
// numbering.
func (m *Mapping) toExternal(l engine.Lit) int32 {
	ev := m.intToExt[l.Var()]
	if l.Sign() {
		return -ev
	}
	return ev
}

// ToInternalLit exposes toInternal for callers outside this package
// that already hold an engine handle (lookahead, cube generation).
func (m *Mapping) ToInternalLit(extLit int32) engine.Lit { return m.toInternal(extLit) }

// ToExternalLit exposes toExternal for the same callers.
func (m *Mapping) ToExternalLit(l engine.Lit) int32 { return m.toExternal(l) }

// AddClause forwards a clause of external literals to the engine,
// allocating internal variables as needed. Returns true if the clause
// addition makes the formula UNSAT at the root.
func (m *Mapping) AddClause(extLits []int32) bool {
	lits := make([]engine.Lit, len(extLits))
	for i, l := range extLits {
		lits[i] = m.toInternal(l)
	}
	m.Assumes.ClearFailed() // entering UNKNOWN invalidates the prior core
	return m.Eng.AddClause(lits)
}

// Assume records ev as an assumption for the next Solve call. Entering
// UNKNOWN this way invalidates any core left over from a prior solve.
func (m *Mapping) Assume(ev int32) {
	m.Assumes.ClearFailed()
	m.Assumes.Add(ev)
}

// Solve runs the engine under the pending assumptions and translates
// the result. On UNSAT with a non-empty assumption list, the failed
// core is recorded on m.Assumes for later Failed queries. The
// assumption set itself is consumed: it applies to this call only.
func (m *Mapping) Solve() int {
	extAssumps := m.Assumes.Lits()
	intAssumps := make([]engine.Lit, len(extAssumps))
	for i, l := range extAssumps {
		intAssumps[i] = m.toInternal(l)
	}
	status, failed := m.Eng.Solve(intAssumps)
	if status == engine.StatusUNSAT {
		// The engine's failed core is expressed as negated assumption
		// literals (the convention analyzeFinal builds: a clause over
		// ¬assumption that the solver derived); negate back to the
		// caller's own assumed polarity before translating outward.
		extFailed := make([]int32, len(failed))
		for i, l := range failed {
			extFailed[i] = -m.toExternal(l)
		}
		m.Assumes.SetFailed(extFailed)
	} else {
		m.Assumes.ClearFailed()
	}
	m.Assumes.ClearLits()
	return status
}

// Val reports the truth value of ev in the current model, in the
// IPASIR convention: ev if true, -ev if false, 0 if either value
// satisfies the formula (don't-care, e.g. an eliminated variable with
// no reconstruction entry touching it).
func (m *Mapping) Val(ev int32) int32 {
	av := ev
	if av < 0 {
		av = -av
	}
	v, ok := m.extToInt[av]
	if !ok {
		return 0
	}
	switch m.Eng.Value(engine.LitForVar(v, ev < 0)) {
	case 1:
		return ev
	case -1:
		return -ev
	default:
		return 0
	}
}

// Failed reports whether ev is part of the most recently computed
// UNSAT core.
func (m *Mapping) Failed(ev int32) bool { return m.Assumes.Failed(ev) }

// Fixed reports whether ev is currently assigned as a permanent
// root-level fact: ev if fixed true, -ev if fixed false, 0 otherwise
// (spec §6's `fixed` introspection query).
func (m *Mapping) Fixed(ev int32) int32 {
	av := ev
	if av < 0 {
		av = -av
	}
	v, ok := m.extToInt[av]
	if !ok {
		return 0
	}
	switch m.Eng.Fixed(engine.LitForVar(v, ev < 0)) {
	case 1:
		return ev
	case -1:
		return -ev
	default:
		return 0
	}
}

// ResetAssumptions clears pending assumptions and the failed set
// (spec §9 Open Question: this also applies to cube generation, which
// is assumption-adjacent).
func (m *Mapping) ResetAssumptions() { m.Assumes.Reset() }

// Freeze/Melt adjust the reference count that guards a variable
// against inprocessing elimination (spec §3).
func (m *Mapping) Freeze(ev int32) {
	m.internalVar(ev)
	m.Frozen.Freeze(ev)
	m.Eng.SetFrozen(m.extToInt[ev], true)
}

func (m *Mapping) Melt(ev int32) {
	if v, ok := m.extToInt[ev]; ok {
		m.Frozen.Melt(ev)
		if !m.Frozen.IsFrozen(ev) {
			m.Eng.SetFrozen(v, false)
		}
	}
}

// PushWitnessInternal translates an inprocessing witness, expressed in
// internal literals, to external form and appends it to the
// reconstruction stack.
func (m *Mapping) PushWitnessInternal(clause, witness []engine.Lit) {
	extClause := make([]int32, len(clause))
	for i, l := range clause {
		extClause[i] = m.toExternal(l)
	}
	extWitness := make([]int32, len(witness))
	for i, l := range witness {
		extWitness[i] = m.toExternal(l)
	}
	m.Ext.Push(extClause, extWitness)
}

// MarkEliminated records that ev was removed from the internal
// formula by inprocessing, with witness recorded on m.Ext by the
// inprocessing technique itself.
func (m *Mapping) MarkEliminated(ev int32) {
	m.eliminated[ev] = true
	if v, ok := m.extToInt[ev]; ok {
		m.Eng.SetEliminated(v)
	}
}

// MarkEliminatedInternal is MarkEliminated for callers (inprocessing
// orchestration) that only have the internal variable, not its
// external number.
func (m *Mapping) MarkEliminatedInternal(v engine.Var) {
	ev := m.intToExt[v]
	m.eliminated[ev] = true
	m.Eng.SetEliminated(v)
}

// ExtendModel replays the extension stack to recover values for
// eliminated/substituted variables once search returns SAT (spec
// §4.7's reconstruction step).
func (m *Mapping) ExtendModel() map[int32]int8 {
	values := make(map[int32]int8, len(m.extToInt))
	for ev, v := range m.extToInt {
		values[ev] = int8(m.Eng.Value(engine.LitForVar(v, false)))
	}
	val := func(lit int32) int8 {
		v := lit
		neg := false
		if v < 0 {
			v, neg = -v, true
		}
		cur, ok := values[v]
		if !ok {
			return 0
		}
		if neg {
			return -cur
		}
		return cur
	}
	set := func(lit int32) {
		v := lit
		want := int8(1)
		if v < 0 {
			v, want = -v, -1
		}
		values[v] = want
	}
	m.Ext.Extend(val, set)
	return values
}
