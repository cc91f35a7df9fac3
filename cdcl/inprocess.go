package cdcl

import (
	"github.com/xDarkicex/cdcl/internal/engine"
	"github.com/xDarkicex/cdcl/internal/inprocess"
)

// runInprocessingIfDue runs one inprocessing round once the registry's
// inprocessint conflicts have elapsed since the last one (spec §4.7).
// Which techniques run is fixed by the inprocessor's own Config
// (inprocess.DefaultConfig); the registry's elim, subsume, vivify and
// probe options are not consulted.
func (s *Solver) runInprocessingIfDue() {
	gap := int64(5000)
	if v, ok := s.registry.Get("inprocessint"); ok {
		gap = int64(v)
	}
	if s.m.Eng.Stats.Conflicts-s.conflictsAtLastInprocess < gap {
		return
	}
	s.runInprocessing()
}

// Simplify runs one inprocessing round on demand, independent of the
// conflict-gap schedule (spec §6's `simplify`).
func (s *Solver) Simplify() int {
	s.trace("simplify")
	s.requireReady("simplify")
	s.runInprocessing()
	s.m.Assumes.ClearLits() // the assumption set applies to one solve/simplify/lookahead call
	return engine.StatusUnknown
}

func (s *Solver) snapshotCNF() *inprocess.CNF {
	lits := s.m.Eng.IrredundantClauses()
	clauses := make([]*inprocess.Clause, len(lits))
	for i, l := range lits {
		clauses[i] = &inprocess.Clause{Lits: l}
	}
	return &inprocess.CNF{Clauses: clauses}
}

func (s *Solver) runInprocessing() {
	s.conflictsAtLastInprocess = s.m.Eng.Stats.Conflicts
	s.m.Eng.Stats.InprocessRuns++
	cnf := s.snapshotCNF()

	// Variables in the pending assumption set are never eliminated.
	assumed := make(map[engine.Var]bool)
	for _, l := range s.m.Assumes.Lits() {
		assumed[s.m.ToInternalLit(l).Var()] = true
	}
	eliminable := func(v engine.Var) bool { return !assumed[v] && s.m.Eng.Eliminable(v) }

	candidates := make([]engine.Var, 0, s.m.Eng.NVars())
	for v := engine.Var(1); int(v) <= s.m.Eng.NVars(); v++ {
		candidates = append(candidates, v)
	}
	var probeCandidates []engine.Lit
	for _, v := range s.m.Eng.UnassignedVars() {
		probeCandidates = append(probeCandidates, engine.LitForVar(v, false), engine.LitForVar(v, true))
	}

	result := s.inprocessor.Run(cnf, eliminable, candidates, probeCandidates)

	if len(result.Units) > 0 {
		s.log.WithField("units", len(result.Units)).Debug("cdcl: inprocessing probing derived root-level units")
	}

	for _, w := range result.Witnesses {
		s.m.PushWitnessInternal(w.Clause, w.Witness)
	}
	lits := make([][]engine.Lit, len(result.CNF.Clauses))
	for i, c := range result.CNF.Clauses {
		lits[i] = c.Lits
	}
	s.m.Eng.ReplaceIrredundant(lits)

	for _, v := range result.EliminatedVars {
		s.m.MarkEliminatedInternal(v)
	}
}
