// Package proof implements DRAT proof-trace emission (spec §4.11): a
// pluggable sink that receives clause additions, derived units and
// clause deletions from the engine, and renders them in either the
// ASCII or the binary DRAT encoding. The engine reports deletions only
// for clauses dropped by learned-clause reduction; clauses that
// inprocessing (elimination, subsumption, vivification) removes or adds
// are not reported to the sink.
package proof

// Tracer is the capability internal/engine.ProofSink is structurally
// compatible with: additions are emitted before the clause becomes
// usable, deletions after it becomes unreachable. Implementations
// track their own first write error internally (spec §7 kind 3: a
// broken sink does not abort search) and surface it from Close.
type Tracer interface {
	AddClause(lits []int32)
	DeleteClause(lits []int32)
	AddUnit(lit int32)
	Close() error
	// Err reports the first write failure observed, if any, without
	// closing the underlying writer.
	Err() error
}
