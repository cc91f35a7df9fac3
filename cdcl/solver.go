package cdcl

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/xDarkicex/cdcl/dimacs"
	"github.com/xDarkicex/cdcl/internal/engine"
	"github.com/xDarkicex/cdcl/internal/extmap"
	"github.com/xDarkicex/cdcl/internal/inprocess"
	"github.com/xDarkicex/cdcl/internal/opts"
	"github.com/xDarkicex/cdcl/internal/proof"
)

var apiTraceOnce logrusOnce

// logrusOnce lazily configures a package-level tracer logger the
// first time any Solver is constructed, reading CDCL_API_TRACE (the
// header's env var, renamed to match this module) at that point only.
type logrusOnce struct {
	done bool
	log  *logrus.Logger
}

func (o *logrusOnce) get() *logrus.Logger {
	if o.done {
		return o.log
	}
	o.done = true
	o.log = logrus.New()
	o.log.SetLevel(logrus.WarnLevel)
	if path := os.Getenv("CDCL_API_TRACE"); path != "" {
		f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err == nil {
			o.log.SetOutput(f)
			o.log.SetLevel(logrus.TraceLevel)
		} else {
			o.log.Warnf("cdcl: could not open CDCL_API_TRACE file %q: %v", path, err)
		}
	}
	return o.log
}

// Solver is the facade: a thin, stateless-beyond-`state` surface over
// extmap.Mapping. It holds no domain data of its own.
type Solver struct {
	state State
	m     *extmap.Mapping

	registry *opts.Registry
	log      *logrus.Logger

	tracer     proof.Tracer
	pendingLit []int32 // the in-progress add(lit) clause buffer

	learnerMaxSize int
	learnerSink    func([]int32)

	inprocessor              *inprocess.Inprocessor
	conflictsAtLastInprocess int64

	reconstructed map[int32]int8
}

// New constructs a Solver in CONFIGURING.
func New() *Solver {
	s := &Solver{
		state:       StateConfiguring,
		m:           extmap.NewMapping(engine.NewEngine()),
		registry:    opts.NewRegistry(),
		log:         apiTraceOnce.get(),
		inprocessor: inprocess.NewInprocessor(inprocess.DefaultConfig()),
	}
	s.log.WithField("op", "new").Trace("cdcl: construct")
	return s
}

func (s *Solver) trace(op string, args ...interface{}) {
	s.log.WithField("op", op).WithField("args", args).Trace("cdcl: call")
}

// State reports the current API state machine node.
func (s *Solver) State() State { return s.state }

// Add appends lit to the in-progress clause buffer, or finalizes it
// when lit == 0 (spec §4.1/§4.2).
func (s *Solver) Add(lit int32) {
	s.trace("add", lit)
	if lit == engine.MinLit {
		panic("cdcl: API contract violation: add called with literal math.MinInt32")
	}
	if lit != 0 {
		s.requireValid("add")
		s.pendingLit = append(s.pendingLit, lit)
		s.state = StateAdding
		return
	}
	s.requireValid("add(0)")
	clause := s.pendingLit
	s.pendingLit = nil
	s.m.AddClause(clause) // a root-level contradiction is reported by the next Solve
	s.state = StateUnknown
}

// AddClause is a convenience wrapper equivalent to Add(l) for each
// literal in lits followed by Add(0).
func (s *Solver) AddClause(lits []int32) {
	for _, l := range lits {
		s.Add(l)
	}
	s.Add(0)
}

// Assume records lit as an assumption for the next Solve call (spec
// §4.1/§4.6): entering UNKNOWN clears the prior assumption core.
func (s *Solver) Assume(lit int32) {
	s.trace("assume", lit)
	if lit == engine.MinLit {
		panic("cdcl: API contract violation: assume called with literal math.MinInt32")
	}
	s.requireReady("assume")
	s.m.Assume(lit)
	s.state = StateUnknown
}

// Solve runs search under the pending assumptions and returns 10, 20
// or 0.
func (s *Solver) Solve() int {
	s.trace("solve")
	s.requireReady("solve")
	s.state = StateSolving
	s.runInprocessingIfDue()
	status := s.m.Solve()
	switch status {
	case engine.StatusSAT:
		s.applyReconstruction()
		s.state = StateSatisfied
	case engine.StatusUNSAT:
		s.state = StateUnsatisfied
	default:
		s.state = StateUnknown
	}
	return status
}

func (s *Solver) applyReconstruction() {
	s.reconstructed = s.m.ExtendModel()
}

// Val reports the truth value of ev in the model (spec §4.1: "val is
// valid only in SATISFIED").
func (s *Solver) Val(ev int32) int32 {
	s.trace("val", ev)
	s.require("val", func(st State) bool { return st == StateSatisfied })
	if v, ok := s.reconstructed[abs32(ev)]; ok {
		if ev < 0 {
			v = -v // value of the literal ev, not of its variable
		}
		if v == 0 {
			return 0
		}
		if v > 0 {
			return ev
		}
		return -ev
	}
	return s.m.Val(ev)
}

func abs32(v int32) int32 {
	if v < 0 {
		return -v
	}
	return v
}

// Failed reports whether ev is part of the most recently computed
// UNSAT core (spec §4.1: "failed only in UNSATISFIED").
func (s *Solver) Failed(ev int32) bool {
	s.trace("failed", ev)
	s.require("failed", func(st State) bool { return st == StateUnsatisfied })
	return s.m.Failed(ev)
}

// Terminate asynchronously requests the current or next Solve call to
// stop at the next checkpoint (spec §4.10). Safe to call from another
// goroutine.
func (s *Solver) Terminate() {
	s.m.Eng.Terminate()
}

// SetTerminator attaches a termination callback. Attaching a new one
// detaches any previous terminator (spec §9: fixed capability slot).
func (s *Solver) SetTerminator(fn func() bool) {
	s.requireValid("set_terminator")
	s.m.Eng.SetTerminator(fn)
}

// SetLearner attaches a learned-clause sink, filtered by maxSize (0
// means unfiltered). Attaching a new learner detaches the previous
// one.
func (s *Solver) SetLearner(maxSize int, sink func([]int32)) {
	s.requireValid("set_learner")
	s.learnerMaxSize = maxSize
	s.learnerSink = sink
	s.m.Eng.SetLearnedCallback(func(lits []engine.Lit) {
		if s.learnerSink == nil {
			return
		}
		if s.learnerMaxSize > 0 && len(lits) > s.learnerMaxSize {
			return
		}
		out := make([]int32, len(lits))
		for i, l := range lits {
			out[i] = s.m.ToExternalLit(l)
		}
		s.learnerSink(out)
	})
}

// Reserve creates external variables 1..n (and their internal images)
// up front; it is not a hard limit: further variables are still
// created on demand.
func (s *Solver) Reserve(n int) {
	s.requireValid("reserve")
	for ev := int32(1); int(ev) <= n; ev++ {
		s.m.ToInternalLit(ev)
	}
}

// Vars reports how many variables have been mentioned or reserved so
// far.
func (s *Solver) Vars() int { return s.m.Eng.NVars() }

// Active reports whether ev currently has an internal image.
func (s *Solver) Active(ev int32) bool { return s.m.Active(ev) }

// Fixed reports whether ev is a permanent root-level fact: ev if fixed
// true, -ev if fixed false, 0 otherwise (spec §6).
func (s *Solver) Fixed(ev int32) int32 { return s.m.Fixed(ev) }

// Irredundant reports the number of original (non-learned) clauses
// currently in the arena.
func (s *Solver) Irredundant() int64 { return int64(len(s.m.Eng.IrredundantClauses())) }

// Redundant reports the number of learned clauses still live.
func (s *Solver) Redundant() int64 { return int64(s.m.Eng.LearntSize()) }

// Freeze/Melt guard a variable against inprocessing elimination (spec
// §3/§4.7).
func (s *Solver) Freeze(ev int32) {
	s.requireValid("freeze")
	s.m.Freeze(ev)
}

func (s *Solver) Melt(ev int32) {
	s.requireValid("melt")
	s.m.Melt(ev)
}

// ResetAssumptions clears pending assumptions and the failed set
// (spec §9 Open Question resolution: generate_cubes shares this
// semantics with assume).
func (s *Solver) ResetAssumptions() {
	s.requireReady("reset_assumptions")
	s.m.ResetAssumptions()
	s.state = StateUnknown
}

// Statistics returns a snapshot of the engine's counters (spec §6's
// `get_stats`/`statistics`).
func (s *Solver) Statistics() engine.Stats { return s.m.Eng.Stats }

// Set, SetLongOption, Configure and Optimize mutate the option registry
// (spec §4.12); each panics with an API contract violation outside
// CONFIGURING.
func (s *Solver) Set(name string, val float64) error {
	s.require("set", isConfiguring)
	return s.registry.Set(name, val)
}

func (s *Solver) SetLongOption(token string) error {
	s.require("set_long_option", isConfiguring)
	return s.registry.SetLongOption(token)
}

func (s *Solver) Configure(preset string) error {
	s.require("configure", isConfiguring)
	return s.registry.Configure(preset)
}

func (s *Solver) Optimize(v int) {
	s.require("optimize", isConfiguring)
	s.registry.Optimize(v)
}

// SetProofTrace attaches a DRAT proof sink in either ASCII or binary
// form. Attaching a new trace detaches the previous one (spec §9).
func (s *Solver) SetProofTrace(w io.Writer, binary bool) {
	s.requireValid("set_proof_trace")
	if binary {
		s.tracer = proof.NewBinaryWriter(w)
	} else {
		s.tracer = proof.NewASCIIWriter(w)
	}
	s.m.Eng.SetProofSink(s.tracer)
}

// CloseProofTrace flushes and detaches the proof sink, surfacing any
// write failure accumulated during the run (spec §7 kind 3).
func (s *Solver) CloseProofTrace() error {
	if s.tracer == nil {
		return nil
	}
	err := s.tracer.Close()
	s.tracer = nil
	s.m.Eng.SetProofSink(nil)
	return err
}

// WriteDIMACS renders the current irredundant clause set (spec §6/§8's
// round-trip property).
func (s *Solver) WriteDIMACS(w io.Writer) error {
	s.requireReady("write_dimacs")
	dw := dimacs.NewWriter()
	s.TraverseClauses(func(lits []int32) bool {
		dw.AddClause(lits)
		return true
	})
	return dw.WriteTo(w, int32(s.Vars()))
}

// ReadDIMACS drives Add/AddClause calls from a DIMACS document. Cubes
// in a `p inccnf` document are returned for the caller to feed to
// Assume in whatever split strategy it's running.
func (s *Solver) ReadDIMACS(r io.Reader, strict dimacs.Strictness) ([][]int32, error) {
	s.requireValid("read_dimacs")
	doc, err := dimacs.Read(r, strict)
	if err != nil {
		return nil, err
	}
	for _, c := range doc.Clauses {
		s.AddClause(c)
	}
	return doc.Cubes, nil
}

// TraverseClauses visits every active irredundant clause once (spec
// §4.8). A false return aborts and is the traversal's own result.
func (s *Solver) TraverseClauses(visit func(lits []int32) bool) bool {
	s.requireReady("traverse_clauses")
	for _, c := range s.m.Eng.IrredundantClauses() {
		lits := make([]int32, 0, len(c))
		rootSatisfied := false
		for _, l := range c {
			switch s.m.Eng.Fixed(l) {
			case -1:
				continue // root-false literal elided
			case 1:
				rootSatisfied = true // root-true clause: will be omitted below
			}
			lits = append(lits, s.m.ToExternalLit(l))
		}
		if rootSatisfied {
			continue
		}
		if !visit(lits) {
			return false
		}
	}
	return true
}

// TraverseWitnessesForward / TraverseWitnessesBackward visit the
// reconstruction stack in the requested order (spec §4.8).
func (s *Solver) TraverseWitnessesForward(visit func(clause, witness []int32) bool) bool {
	s.requireReady("traverse_witnesses_forward")
	return s.m.Ext.TraverseForward(visit)
}

func (s *Solver) TraverseWitnessesBackward(visit func(clause, witness []int32) bool) bool {
	s.requireReady("traverse_witnesses_backward")
	return s.m.Ext.TraverseBackward(visit)
}

// Close transitions the solver to DELETING. There is nothing further
// to release explicitly (no cgo handles, no open file descriptors
// owned outright by the solver), but the state transition itself is
// part of the documented contract.
func (s *Solver) Close() {
	s.requireValid("destroy")
	s.state = StateDeleting
}
