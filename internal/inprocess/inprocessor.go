package inprocess

import "github.com/xDarkicex/cdcl/internal/engine"

// Inprocessor orchestrates one inprocessing round across the
// configured techniques: subsumption, vivification, failed-literal
// probing and bounded variable elimination, in that order.
type Inprocessor struct {
	cfg   Config
	stats Statistics
}

func NewInprocessor(cfg Config) *Inprocessor {
	return &Inprocessor{cfg: cfg}
}

func (p *Inprocessor) Statistics() Statistics { return p.stats }

func (p *Inprocessor) Reset() { p.stats = Statistics{} }

// Run executes one inprocessing pass over cnf. eliminable reports
// whether a candidate variable is currently eligible for elimination
// (not frozen, not already eliminated); probeCandidates supplies the
// literals worth probing, typically the engine's most active
// variables in both polarities.
func (p *Inprocessor) Run(cnf *CNF, eliminable func(engine.Var) bool, elimCandidates []engine.Var, probeCandidates []engine.Lit) Result {
	p.stats.Runs++
	var witnesses []Witness
	var units []engine.Lit

	if p.cfg.EnableSubsumption {
		removed, strengthened := Subsume(cnf, 3)
		p.stats.ClausesSubsumed += int64(removed)
		p.stats.ClausesStrengthened += int64(strengthened)
	}

	if p.cfg.EnableVivification {
		n := Vivify(cnf, p.cfg.VivifyMaxSize)
		p.stats.ClausesVivified += int64(n)
	}

	if p.cfg.EnableProbing {
		found := ProbeFailedLiterals(cnf, probeCandidates, p.cfg.ProbeMaxCandidates)
		units = append(units, found...)
		p.stats.UnitsFound += int64(len(found))
	}

	if p.cfg.EnableElimination {
		var candidates []engine.Var
		for _, v := range elimCandidates {
			if eliminable(v) {
				candidates = append(candidates, v)
			}
		}
		eliminatedVars, w := Eliminate(cnf, candidates, p.cfg.ElimMaxResolvents)
		witnesses = append(witnesses, w...)
		p.stats.VariablesEliminated += int64(len(eliminatedVars))
		return Result{CNF: cnf, Witnesses: witnesses, EliminatedVars: eliminatedVars, Units: units, Statistics: p.stats}
	}

	return Result{CNF: cnf, Witnesses: witnesses, Units: units, Statistics: p.stats}
}
