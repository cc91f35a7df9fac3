// Package inprocess implements the inprocessing techniques run
// between search bursts (spec §4.7): bounded variable elimination,
// subsumption and self-subsuming resolution, vivification and
// failed-literal probing. Every technique that removes a variable
// rather than just simplifying a clause produces a Witness the caller
// must push onto extmap.ExtensionStack before the affected variable's
// image is dropped from the engine.
package inprocess

import "github.com/xDarkicex/cdcl/internal/engine"

// Clause is a plain literal list, detached from the engine's
// watched-literal representation: inprocessing reasons about whole
// clauses at once and rewrites the set, which the two-watch scheme
// isn't built for.
type Clause struct {
	Lits []engine.Lit
}

// CNF is the working clause set inprocessing operates over: a
// snapshot of the engine's irredundant clauses, rewritten in place and
// handed back to the caller to reinstall.
type CNF struct {
	Clauses []*Clause
}

// Witness is one reconstruction-stack entry: the clause that drove an
// elimination, and the literals that satisfy it when replayed
// backward (spec §3's reconstruction stack).
type Witness struct {
	Clause  []engine.Lit
	Witness []engine.Lit
}

// Config selects which inprocessing techniques run and their
// size/resolvent bounds.
type Config struct {
	EnableElimination bool
	EnableSubsumption bool
	EnableVivification bool
	EnableProbing     bool

	VivifyMaxSize     int
	ElimMaxResolvents int
	ProbeMaxCandidates int
}

// DefaultConfig returns a conservative baseline: elimination,
// subsumption and vivification on, failed-literal probing off.
func DefaultConfig() Config {
	return Config{
		EnableElimination:  true,
		EnableSubsumption:  true,
		EnableVivification: true,
		EnableProbing:      false,

		VivifyMaxSize:      20,
		ElimMaxResolvents:  16,
		ProbeMaxCandidates: 100,
	}
}

// Statistics counts what each inprocessing round accomplished.
type Statistics struct {
	Runs                int64
	ClausesSubsumed     int64
	ClausesStrengthened int64
	ClausesVivified     int64
	VariablesEliminated int64
	UnitsFound          int64
}

// Result is returned by one full Run: the rewritten clause set, any
// witnesses produced, the variables eliminated, derived root-level
// units, and updated stats.
type Result struct {
	CNF            *CNF
	Witnesses      []Witness
	EliminatedVars []engine.Var
	Units          []engine.Lit
	Statistics     Statistics
}
