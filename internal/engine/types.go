// Package engine implements the internal CDCL core: the trail, the
// two-watched-literal propagator, the clause database, conflict
// analysis, restarts and reduction. It operates entirely in a
// compacted, contiguous internal variable space; translation to and
// from the user's external variable space is the job of package
// extmap.
package engine

import "math"

// Lit is a DIMACS-style signed literal: sign encodes polarity, magnitude
// encodes the internal variable index. Lit(0) never denotes a real
// literal; it is reserved as a sentinel (e.g. "no blocking literal").
type Lit int32

// Var is an internal variable index, always >= 1.
type Var int32

// MinLit is the one magnitude a Lit may never take: it has no negation
// in two's-complement int32, so any literal observed with this value is
// an API contract violation at the caller's boundary, not here.
const MinLit = math.MinInt32

// Var returns the variable this literal refers to.
func (l Lit) Var() Var {
	if l < 0 {
		return Var(-l)
	}
	return Var(l)
}

// Sign reports whether the literal is negative.
func (l Lit) Sign() bool { return l < 0 }

// Neg returns the negation of l.
func (l Lit) Neg() Lit { return -l }

// index maps a literal to a dense zero-based array index suitable for
// watch-list and polarity-indexed tables: even for positive, odd for
// negative, ordered by variable.
func (l Lit) index() int {
	v := int(l.Var())
	if l.Sign() {
		return 2*v + 1
	}
	return 2 * v
}

// LitForVar builds a literal for v with the given polarity.
func LitForVar(v Var, negative bool) Lit {
	if negative {
		return -Lit(v)
	}
	return Lit(v)
}

// lbool is a three-valued assignment: 0 unassigned, 1 true, -1 false.
type lbool int8

const (
	lUndef lbool = 0
	lTrue  lbool = 1
	lFalse lbool = -1
)

func litValue(assign []lbool, l Lit) lbool {
	v := assign[l.Var()]
	if l.Sign() {
		return -v
	}
	return v
}

// VarFlags is a bitset of per-variable status flags (spec §3).
type VarFlags uint8

const (
	FlagEliminated VarFlags = 1 << iota
	FlagSubstituted
	FlagFixed
	FlagActive
)

// varData holds everything the engine tracks per internal variable.
type varData struct {
	activity     float64
	phase        int8 // saved phase: -1, 0 (unset), 1
	forcedPhase  int8 // 0 = no override, else -1/1
	flags        VarFlags
	level        int32
	reason       *Clause
	heapPos      int // position in the VSIDS heap, -1 if not present
	frozenRefs   int32
}

func (v *varData) eliminable() bool {
	return v.flags&(FlagEliminated|FlagSubstituted|FlagFixed) == 0 && v.frozenRefs == 0
}

// Clause is an arena-resident clause: input (irredundant) or learned
// (redundant). Binary and larger clauses carry two watched literals at
// indices 0 and 1 by convention.
type Clause struct {
	Lits      []Lit
	Redundant bool
	Glue      int32
	Activity  float64
	Used      bool // touched since last reduction pass ("used recently")
	OnExt     bool // currently referenced from the extension stack
	Garbage   bool
	id        uint64
}

func (c *Clause) Len() int { return len(c.Lits) }

// Stats mirrors the solver-visible counters of spec.md §4 and §8.
type Stats struct {
	Decisions      int64
	Propagations   int64
	Conflicts      int64
	Restarts       int64
	LearnedClauses int64
	DeletedClauses int64

	GlueClauses int64
	LBDTotal    int64

	InprocessRuns       int64
	ClausesReduced      int64
	VariablesEliminated int64
}
