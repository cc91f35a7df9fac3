package extmap

// AssumptionSet records the external literals assumed for the next
// Solve call, plus the failed subset computed if that solve returns
// UNSAT (spec §4.6). Reset clears both — matching the rule that
// entering UNKNOWN (a fresh Assume after a solve, or Add) invalidates
// the prior core.
type AssumptionSet struct {
	lits   []int32
	failed map[int32]bool
}

func NewAssumptionSet() *AssumptionSet {
	return &AssumptionSet{}
}

func (a *AssumptionSet) Add(lit int32) {
	a.lits = append(a.lits, lit)
}

// Lits returns the assumptions in the order they were added.
func (a *AssumptionSet) Lits() []int32 { return a.lits }

// Reset clears both the pending assumptions and any previously
// computed failed set.
func (a *AssumptionSet) Reset() {
	a.lits = a.lits[:0]
	a.failed = nil
}

// ClearLits drops the pending assumption list without touching the
// failed set, used once a Solve call has consumed it: assumptions
// apply to a single solve, but the resulting core outlives it until
// the next Assume or Add (spec: "cleared upon return from solve").
func (a *AssumptionSet) ClearLits() { a.lits = a.lits[:0] }

// ClearFailed drops only the failed set, keeping pending assumptions
// (used when a new assumption or clause is added, and after a solve
// that did not return UNSAT, which has no core to report).
func (a *AssumptionSet) ClearFailed() { a.failed = nil }

// SetFailed records the core returned by analyzeFinal, translated to
// external literals by the caller.
func (a *AssumptionSet) SetFailed(lits []int32) {
	a.failed = make(map[int32]bool, len(lits))
	for _, l := range lits {
		a.failed[l] = true
	}
}

// Failed reports whether lit is part of the most recently computed
// core. Undefined (returns false) if the prior Solve did not return
// UNSAT under assumptions.
func (a *AssumptionSet) Failed(lit int32) bool {
	return a.failed != nil && a.failed[lit]
}

// FrozenCounts is a reference-counted frozen-variable set (spec §3):
// a variable frozen N times must be melted N times before it again
// becomes eligible for elimination.
type FrozenCounts struct {
	counts map[int32]int32
}

func NewFrozenCounts() *FrozenCounts {
	return &FrozenCounts{counts: make(map[int32]int32)}
}

func (f *FrozenCounts) Freeze(v int32) { f.counts[v]++ }

func (f *FrozenCounts) Melt(v int32) {
	if f.counts[v] > 0 {
		f.counts[v]--
		if f.counts[v] == 0 {
			delete(f.counts, v)
		}
	}
}

func (f *FrozenCounts) IsFrozen(v int32) bool { return f.counts[v] > 0 }
