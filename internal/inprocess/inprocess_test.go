package inprocess

import (
	"testing"

	"github.com/xDarkicex/cdcl/internal/engine"
)

func lit(v int32) engine.Lit { return engine.Lit(v) }

func TestSubsumeRemovesImpliedClause(t *testing.T) {
	cnf := &CNF{Clauses: []*Clause{
		{Lits: []engine.Lit{lit(1)}},
		{Lits: []engine.Lit{lit(1), lit(2)}},
	}}
	removed, _ := Subsume(cnf, 5)
	if removed != 1 {
		t.Fatalf("expected 1 clause subsumed, got %d", removed)
	}
	if len(cnf.Clauses) != 1 {
		t.Fatalf("expected 1 clause to remain, got %d", len(cnf.Clauses))
	}
}

func TestSelfSubsumingResolutionStrengthens(t *testing.T) {
	cnf := &CNF{Clauses: []*Clause{
		{Lits: []engine.Lit{lit(1), lit(2)}},
		{Lits: []engine.Lit{lit(-1), lit(2), lit(3)}},
	}}
	_, strengthened := Subsume(cnf, 5)
	if strengthened == 0 {
		t.Fatal("expected self-subsuming resolution to strengthen a clause")
	}
}

func TestVivifyShrinksRedundantClause(t *testing.T) {
	cnf := &CNF{Clauses: []*Clause{
		{Lits: []engine.Lit{lit(1)}},
		{Lits: []engine.Lit{lit(-1), lit(2)}},
		{Lits: []engine.Lit{lit(-1), lit(-2), lit(3)}},
	}}
	target := cnf.Clauses[2]
	rest := []*Clause{cnf.Clauses[0], cnf.Clauses[1]}
	shrunk, ok := VivifyClause(target, rest, 20)
	if !ok {
		t.Fatal("expected vivification to shrink the clause")
	}
	if len(shrunk.Lits) >= len(target.Lits) {
		t.Fatalf("expected shrink from %d literals, got %d", len(target.Lits), len(shrunk.Lits))
	}
}

func TestProbeFailedLiteralsDerivesUnit(t *testing.T) {
	cnf := &CNF{Clauses: []*Clause{
		{Lits: []engine.Lit{lit(-1), lit(2)}},
		{Lits: []engine.Lit{lit(-1), lit(-2)}},
	}}
	units := ProbeFailedLiterals(cnf, []engine.Lit{lit(1)}, 10)
	if len(units) != 1 || units[0] != lit(-1) {
		t.Fatalf("expected probing to force -1, got %v", units)
	}
}

func TestEliminateProducesResolventsAndWitnesses(t *testing.T) {
	cnf := &CNF{Clauses: []*Clause{
		{Lits: []engine.Lit{lit(1), lit(2)}},
		{Lits: []engine.Lit{lit(-1), lit(3)}},
	}}
	eliminated, witnesses := Eliminate(cnf, []engine.Var{1}, 16)
	if len(eliminated) != 1 {
		t.Fatalf("expected variable 1 to be eliminated, got %v", eliminated)
	}
	if len(witnesses) == 0 {
		t.Fatal("expected at least one reconstruction witness")
	}
	for _, c := range cnf.Clauses {
		for _, l := range c.Lits {
			if l.Var() == 1 {
				t.Fatalf("variable 1 should no longer appear in the clause set: %v", c.Lits)
			}
		}
	}
}

func TestInprocessorRunAppliesConfiguredTechniques(t *testing.T) {
	cnf := &CNF{Clauses: []*Clause{
		{Lits: []engine.Lit{lit(1)}},
		{Lits: []engine.Lit{lit(1), lit(2)}},
	}}
	p := NewInprocessor(DefaultConfig())
	eliminable := func(engine.Var) bool { return true }
	res := p.Run(cnf, eliminable, nil, nil)
	if res.Statistics.Runs != 1 {
		t.Fatalf("expected 1 run recorded, got %d", res.Statistics.Runs)
	}
	if len(cnf.Clauses) != 1 {
		t.Fatalf("expected subsumption to reduce to 1 clause, got %d", len(cnf.Clauses))
	}
}
