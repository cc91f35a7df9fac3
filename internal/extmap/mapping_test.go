package extmap

import (
	"testing"

	"github.com/xDarkicex/cdcl/internal/engine"
)

func newMapping() *Mapping {
	return NewMapping(engine.NewEngine())
}

func TestMappingAllocatesOnFirstMention(t *testing.T) {
	m := newMapping()
	if m.Active(5) {
		t.Fatal("variable 5 should not be active before first mention")
	}
	if unsat := m.AddClause([]int32{5, -3}); unsat {
		t.Fatal("unexpected root UNSAT")
	}
	if !m.Active(5) || !m.Active(3) {
		t.Fatal("expected both mentioned externals to be active")
	}
}

func TestMappingRoundTripsLiteralSign(t *testing.T) {
	m := newMapping()
	m.AddClause([]int32{1})
	m.AddClause([]int32{-2})
	status := m.Solve()
	if status != engine.StatusSAT {
		t.Fatalf("expected SAT, got %d", status)
	}
	if v := m.Val(1); v != 1 {
		t.Fatalf("Val(1) = %d, want 1", v)
	}
	if v := m.Val(2); v != -2 {
		t.Fatalf("Val(2) = %d, want -2", v)
	}
}

func TestMappingUnsatAssumptionsProducesCore(t *testing.T) {
	m := newMapping()
	m.AddClause([]int32{1, 2})
	m.AddClause([]int32{-1, -2})
	m.AddClause([]int32{1, -2})
	m.Assume(-1)
	m.Assume(2)
	status := m.Solve()
	if status != engine.StatusUNSAT {
		t.Fatalf("expected UNSAT under assumptions, got %d", status)
	}
	if !m.Failed(-1) && !m.Failed(2) {
		t.Fatal("expected at least one assumption to be reported as failed")
	}
}

func TestResetAssumptionsClearsFailedSet(t *testing.T) {
	m := newMapping()
	m.AddClause([]int32{1}) // root fact: variable 1 is forced true
	m.Assume(-1)            // directly contradicts that root fact
	if status := m.Solve(); status != engine.StatusUNSAT {
		t.Fatalf("expected UNSAT under assumption, got %d", status)
	}
	if !m.Failed(-1) {
		t.Fatal("expected assumption -1 to be in the failed set")
	}
	m.ResetAssumptions()
	if m.Failed(-1) {
		t.Fatal("ResetAssumptions should clear the prior failed set")
	}
}

func TestExtensionStackReplaysWitnesses(t *testing.T) {
	s := NewExtensionStack()
	// Eliminated variable 3 was defined by clause (-3 1), witness: set
	// 3 true whenever that clause would otherwise be falsified.
	s.Push([]int32{-3, 1}, []int32{3})
	values := map[int32]int8{1: -1} // 1 is false, so the witness clause is unsatisfied
	val := func(lit int32) int8 {
		v, neg := lit, false
		if v < 0 {
			v, neg = -v, true
		}
		cur := values[v]
		if neg {
			return -cur
		}
		return cur
	}
	set := func(lit int32) {
		v, want := lit, int8(1)
		if v < 0 {
			v, want = -v, -1
		}
		values[v] = want
	}
	s.Extend(val, set)
	if values[3] != 1 {
		t.Fatalf("expected witness literal 3 to be forced true, got %d", values[3])
	}
}
