package cdcl

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/xDarkicex/cdcl/dimacs"
	"github.com/xDarkicex/cdcl/internal/engine"
)

// Scenario 1: {¬T∨S},{T∨S},{¬T∨¬S} (T=1,S=2) is satisfiable with S
// forced true and T forced false.
func TestScenarioBasicSAT(t *testing.T) {
	s := New()
	s.AddClause([]int32{-1, 2})
	s.AddClause([]int32{1, 2})
	s.AddClause([]int32{-1, -2})

	if got := s.Solve(); got != engine.StatusSAT {
		t.Fatalf("solve() = %d, want SAT (10)", got)
	}
	if v := s.Val(1); v >= 0 {
		t.Errorf("val(T) = %d, want negative", v)
	}
	if v := s.Val(2); v <= 0 {
		t.Errorf("val(S) = %d, want positive", v)
	}
}

// Scenario 2: assume(T) over the same clause set is UNSAT, with T in
// the failed core and S not in it.
func TestScenarioAssumeTUnsat(t *testing.T) {
	s := New()
	s.AddClause([]int32{-1, 2})
	s.AddClause([]int32{1, 2})
	s.AddClause([]int32{-1, -2})

	s.Assume(1)
	if got := s.Solve(); got != engine.StatusUNSAT {
		t.Fatalf("solve() = %d, want UNSAT (20)", got)
	}
	if !s.Failed(1) {
		t.Errorf("failed(T) = false, want true")
	}
	if s.Failed(2) {
		t.Errorf("failed(S) = true, want false")
	}
}

// Scenario 3: assume(-S) is UNSAT, with -S in the failed core and T
// not in it.
func TestScenarioAssumeNotSUnsat(t *testing.T) {
	s := New()
	s.AddClause([]int32{-1, 2})
	s.AddClause([]int32{1, 2})
	s.AddClause([]int32{-1, -2})

	s.Assume(-2)
	if got := s.Solve(); got != engine.StatusUNSAT {
		t.Fatalf("solve() = %d, want UNSAT (20)", got)
	}
	if !s.Failed(-2) {
		t.Errorf("failed(-S) = false, want true")
	}
	if s.Failed(1) {
		t.Errorf("failed(T) = true, want false")
	}
}

// Scenario 4: adding the empty clause decides UNSAT immediately, and
// the proof trace records exactly one addition of the empty clause.
func TestScenarioEmptyClauseUnsat(t *testing.T) {
	s := New()
	var buf bytes.Buffer
	s.SetProofTrace(&buf, false)

	s.AddClause([]int32{})

	if got := s.Solve(); got != engine.StatusUNSAT {
		t.Fatalf("solve() = %d, want UNSAT (20)", got)
	}
	if err := s.CloseProofTrace(); err != nil {
		t.Fatalf("CloseProofTrace: %v", err)
	}

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	var additions int
	for _, line := range lines {
		if line == "" {
			continue
		}
		if !strings.HasPrefix(line, "d ") {
			additions++
			if strings.TrimSpace(line) != "0" {
				t.Errorf("empty-clause addition line = %q, want \"0\"", line)
			}
		}
	}
	if additions != 1 {
		t.Errorf("proof trace has %d clause additions, want exactly 1", additions)
	}
}

// Scenario 5: a tautological clause {X,¬X} never constrains anything;
// the formula stays SAT and X's value is whatever the search settles
// on (no crash, no contradiction).
func TestScenarioTautologyIsSAT(t *testing.T) {
	s := New()
	s.AddClause([]int32{5, -5})

	if got := s.Solve(); got != engine.StatusSAT {
		t.Fatalf("solve() = %d, want SAT (10)", got)
	}
	v := s.Val(5)
	if v != 5 && v != -5 {
		t.Errorf("val(X) = %d, want +-5", v)
	}
}

// Scenario 6: a 1000-variable implication chain x_i -> x_{i+1}, with
// assume(x_1) and assume(-x_1000), is UNSAT under assumptions and both
// assumptions belong to the failed core.
func TestScenarioChainBothAssumptionsFail(t *testing.T) {
	s := New()
	s.Reserve(1000)
	for i := int32(1); i < 1000; i++ {
		s.AddClause([]int32{-i, i + 1})
	}
	s.Assume(1)
	s.Assume(-1000)

	if got := s.Solve(); got != engine.StatusUNSAT {
		t.Fatalf("solve() = %d, want UNSAT (20)", got)
	}
	if !s.Failed(1) {
		t.Errorf("failed(x_1) = false, want true")
	}
	if !s.Failed(-1000) {
		t.Errorf("failed(-x_1000) = false, want true")
	}
}

// Idempotence: solving the same formula twice in a row without new
// clauses or assumptions returns the same status.
func TestSolveIdempotent(t *testing.T) {
	s := New()
	s.AddClause([]int32{1, 2})
	s.AddClause([]int32{-1, 2})

	first := s.Solve()
	second := s.Solve()
	if first != second {
		t.Errorf("solve() = %d then %d, want identical", first, second)
	}
}

// Assumption independence: a failed core from one assumption set must
// not leak into a later, unrelated one.
func TestFailedCoreDoesNotLeakAcrossSolves(t *testing.T) {
	s := New()
	s.AddClause([]int32{-1, 2})
	s.AddClause([]int32{1, 2})
	s.AddClause([]int32{-1, -2})

	s.Assume(1)
	if got := s.Solve(); got != engine.StatusUNSAT {
		t.Fatalf("first solve() = %d, want UNSAT", got)
	}
	if !s.Failed(1) {
		t.Fatalf("failed(T) = false on first solve, want true")
	}

	if got := s.Solve(); got != engine.StatusSAT {
		t.Fatalf("second solve() (no assumptions) = %d, want SAT", got)
	}

	// Failed is only valid in UNSATISFIED, so the check runs after a
	// third solve under the unrelated assumption -S.
	s.Assume(-2)
	if got := s.Solve(); got != engine.StatusUNSAT {
		t.Fatalf("third solve() under assume(-S) = %d, want UNSAT", got)
	}
	if s.Failed(1) {
		t.Errorf("failed(T) = true after an unrelated assumption set, want false")
	}
}

// Contract enforcement: val is only valid in SATISFIED.
func TestValPanicsOutsideSatisfied(t *testing.T) {
	s := New()
	s.AddClause([]int32{1, 2})
	defer func() {
		if recover() == nil {
			t.Fatalf("val() in UNKNOWN did not panic")
		}
	}()
	s.Val(1)
}

// Contract enforcement: failed is only valid in UNSATISFIED.
func TestFailedPanicsOutsideUnsatisfied(t *testing.T) {
	s := New()
	s.AddClause([]int32{1, 2})
	s.Solve() // SAT
	defer func() {
		if recover() == nil {
			t.Fatalf("failed() in SATISFIED did not panic")
		}
	}()
	s.Failed(1)
}

// Incremental soundness: a SAT result reached purely through decisions
// (no root facts pin either variable) must not leave those decisions
// looking like permanent root facts to the next Assume/Solve call.
func TestAssumeAfterSATRedecidesStaleDecisions(t *testing.T) {
	s := New()
	s.AddClause([]int32{1, 2})

	if got := s.Solve(); got != engine.StatusSAT {
		t.Fatalf("first solve() = %d, want SAT", got)
	}

	s.Assume(-1)
	if got := s.Solve(); got != engine.StatusSAT {
		t.Fatalf("solve() under assume(-1) = %d, want SAT (x2=true satisfies {1,2})", got)
	}
}

// Same root cause, via AddClause instead of Assume: a clause added
// after a decisions-only SAT result must be checked against root-level
// facts only, not whatever the stale trail happens to hold.
func TestAddClauseAfterSATTreatsDecisionsAsTransient(t *testing.T) {
	s := New()
	s.AddClause([]int32{1, 2})

	if got := s.Solve(); got != engine.StatusSAT {
		t.Fatalf("first solve() = %d, want SAT", got)
	}

	s.AddClause([]int32{-1})
	if got := s.Solve(); got != engine.StatusSAT {
		t.Fatalf("solve() after adding {-1} = %d, want SAT (x2=true satisfies {1,2} & {-1})", got)
	}
	if v := s.Val(1); v >= 0 {
		t.Errorf("val(x1) = %d, want negative", v)
	}
}

// §8 round-trip property, exercised post-solve: WriteDIMACS must not
// mistake the model's decision-level assignments for root-level facts
// and elide every clause down to nothing. This formula's model is
// reached by decisions and their propagation alone, with no conflict
// and so no learned root-level unit.
func TestWriteDIMACSAfterSolvePreservesClauses(t *testing.T) {
	s := New()
	s.AddClause([]int32{-1, 2})
	s.AddClause([]int32{1, 2})
	s.AddClause([]int32{2, 3})

	if got := s.Solve(); got != engine.StatusSAT {
		t.Fatalf("solve() = %d, want SAT", got)
	}

	var buf bytes.Buffer
	require.NoError(t, s.WriteDIMACS(&buf))

	doc, err := dimacs.Read(&buf, dimacs.StrictNone)
	require.NoError(t, err)
	if len(doc.Clauses) != 3 {
		t.Fatalf("post-solve WriteDIMACS produced %d clauses, want 3 (none should be elided as root-satisfied)", len(doc.Clauses))
	}
}

// Fixed reports level-0 facts only: a unit clause is fixed, a decision
// reached during search is not.
func TestFixedDistinguishesRootFactsFromDecisions(t *testing.T) {
	s := New()
	s.AddClause([]int32{3})    // root fact: x3 forced true
	s.AddClause([]int32{1, 2}) // needs a decision to satisfy

	if got := s.Solve(); got != engine.StatusSAT {
		t.Fatalf("solve() = %d, want SAT", got)
	}
	if f := s.Fixed(3); f != 3 {
		t.Errorf("fixed(x3) = %d, want 3 (root-level fact)", f)
	}
	if f := s.Fixed(1); f != 0 {
		t.Errorf("fixed(x1) = %d, want 0 (decided, not fixed)", f)
	}
}

// GenerateCubes must emit a genuinely disjoint tree: no single cube may
// assert both a literal and its negation, which is only possible if
// each branch's lookahead scoring is conditioned on its own prefix.
func TestGenerateCubesProducesConsistentCubes(t *testing.T) {
	s := New()
	s.Reserve(6)
	for i := int32(1); i <= 5; i++ {
		s.AddClause([]int32{i, i + 1})
	}

	cubes, status := s.GenerateCubes(64, 3)
	if status == engine.StatusUNSAT {
		t.Fatalf("generate_cubes reported UNSAT for a satisfiable formula")
	}
	for _, cube := range cubes {
		seen := make(map[int32]bool, len(cube))
		for _, l := range cube {
			if seen[-l] {
				t.Fatalf("cube %v asserts both %d and %d", cube, l, -l)
			}
			seen[l] = true
		}
	}
}

// DIMACS round-trip: writing the current clause set and reading it
// back into a fresh solver yields an equisatisfiable formula.
func TestDIMACSRoundTrip(t *testing.T) {
	s := New()
	s.AddClause([]int32{-1, 2})
	s.AddClause([]int32{1, 2})
	s.AddClause([]int32{-1, -2})

	var buf bytes.Buffer
	require.NoError(t, s.WriteDIMACS(&buf))

	r := New()
	_, err := r.ReadDIMACS(&buf, dimacs.StrictNone)
	require.NoError(t, err)

	want := s.Solve()
	got := r.Solve()
	require.Equal(t, want, got, "round-tripped solve() status must match the original")
}
