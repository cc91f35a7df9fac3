package cdcl

import "github.com/xDarkicex/cdcl/internal/engine"

// Lookahead performs a single-level lookahead (spec §4.9): temporarily
// assume each unassigned candidate literal, propagate, measure the
// trail reduction, restore, and return the external literal with the
// best score. Returns 0 if the formula is already fully decided, or if
// every candidate literal leads to a conflict.
func (s *Solver) Lookahead() int32 {
	s.trace("lookahead")
	s.requireReady("lookahead")

	vars := s.m.Eng.UnassignedVars()
	if len(vars) == 0 {
		return 0
	}
	baseLevel := s.m.Eng.Level()
	var best engine.Lit
	bestScore := -1
	for _, v := range vars {
		for _, neg := range []bool{false, true} {
			l := engine.LitForVar(v, neg)
			before := s.m.Eng.TrailSince(baseLevel)
			confl := s.m.Eng.TryLiteral(l)
			after := s.m.Eng.TrailSince(baseLevel)
			s.m.Eng.Undo()
			if confl != nil {
				continue
			}
			score := after - before
			if score > bestScore {
				bestScore = score
				best = l
			}
		}
	}
	s.m.Assumes.ClearLits() // applies to one solve/simplify/lookahead call
	if bestScore < 0 {
		return 0
	}
	return s.externalOf(best)
}

func (s *Solver) externalOf(l engine.Lit) int32 {
	// Ask the mapping directly rather than going through Val, which
	// only works once the literal is actually assigned.
	return s.m.ToExternalLit(l)
}

// GenerateCubes builds a disjoint tree of cubes (literal conjunctions)
// up to max cubes of minDepth literals each, suitable for parallel
// splitting (spec §4.9); a branch on which lookahead finds no literal
// to split on is emitted as a shorter cube. If the formula is decided
// during generation, the decided status is returned: 10 alongside
// whatever cubes were produced so far, or 20 with no cubes when every
// branch conflicts; 0 means generation ended without deciding the
// formula.
func (s *Solver) GenerateCubes(max, minDepth int) ([][]int32, int) {
	s.trace("generate_cubes")
	s.requireReady("generate_cubes")
	s.ResetAssumptions()

	var cubes [][]int32
	type frame struct {
		lits  []int32
		depth int
	}
	stack := []frame{{}}

	for len(stack) > 0 && len(cubes) < max {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if top.depth >= minDepth {
			cubes = append(cubes, top.lits)
			continue
		}

		// Condition the engine on this branch's literals so Lookahead
		// scores against the partial assignment the cube actually
		// represents, not the root state every sibling frame would
		// otherwise share.
		pushed, consistent := s.pushCubeLits(top.lits)
		if !consistent {
			s.popCubeLits(pushed)
			continue // this branch already conflicts, prune it
		}

		l := s.Lookahead()
		allAssigned := s.m.Eng.AllAssigned()
		s.popCubeLits(pushed)

		if l == 0 {
			if allAssigned {
				return cubes, engine.StatusSAT
			}
			cubes = append(cubes, top.lits)
			continue
		}

		stack = append(stack,
			frame{lits: append(append([]int32(nil), top.lits...), l), depth: top.depth + 1},
			frame{lits: append(append([]int32(nil), top.lits...), -l), depth: top.depth + 1},
		)
	}
	if len(cubes) == 0 && len(stack) == 0 {
		return cubes, engine.StatusUNSAT // every branch was pruned by a conflict
	}
	return cubes, engine.StatusUnknown
}

// pushCubeLits assumes each external literal as a decision in turn,
// propagating after each. Returns how many decision levels it actually
// pushed (always len(lits) on success) and whether the whole prefix
// stayed conflict-free; the caller must pop exactly that many levels
// either way.
func (s *Solver) pushCubeLits(lits []int32) (pushed int, consistent bool) {
	for _, l := range lits {
		confl := s.m.Eng.TryLiteral(s.m.ToInternalLit(l))
		pushed++
		if confl != nil {
			return pushed, false
		}
	}
	return pushed, true
}

// popCubeLits undoes n decision levels pushed by pushCubeLits.
func (s *Solver) popCubeLits(n int) {
	for i := 0; i < n; i++ {
		s.m.Eng.Undo()
	}
}
