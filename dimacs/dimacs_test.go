package dimacs

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestReadPlainCNF(t *testing.T) {
	src := "c a comment\np cnf 3 2\n1 -2 0\n2 3 0\n"
	doc, err := Read(strings.NewReader(src), StrictWhitespace)
	if err != nil {
		t.Fatal(err)
	}
	if doc.Incremental {
		t.Fatal("plain CNF should not be incremental")
	}
	if doc.NumVars != 3 || doc.NumClauses != 2 {
		t.Fatalf("header = (%d,%d), want (3,2)", doc.NumVars, doc.NumClauses)
	}
	if len(doc.Clauses) != 2 {
		t.Fatalf("got %d clauses, want 2", len(doc.Clauses))
	}
	if doc.Clauses[0][0] != 1 || doc.Clauses[0][1] != -2 {
		t.Fatalf("clause 0 = %v, want [1 -2]", doc.Clauses[0])
	}
}

func TestReadZeroZeroHeaderOnlyUnderStrictNone(t *testing.T) {
	src := "p cnf 0 0\n"
	if _, err := Read(strings.NewReader(src), StrictNone); err != nil {
		t.Fatalf("strict=0 should accept \"p cnf 0 0\": %v", err)
	}
	if _, err := Read(strings.NewReader(src), StrictWhitespace); err == nil {
		t.Fatal("strict=1 should reject \"p cnf 0 0\"")
	}
}

func TestReadIncrementalCubes(t *testing.T) {
	src := "p inccnf\n1 2 0\na 1 0\na -1 2 0\n"
	doc, err := Read(strings.NewReader(src), StrictWhitespace)
	if err != nil {
		t.Fatal(err)
	}
	if !doc.Incremental {
		t.Fatal("expected incremental document")
	}
	if len(doc.Clauses) != 1 || len(doc.Cubes) != 2 {
		t.Fatalf("got %d clauses / %d cubes, want 1/2", len(doc.Clauses), len(doc.Cubes))
	}
}

func TestReadRejectsMissingTerminator(t *testing.T) {
	src := "p cnf 2 1\n1 2\n"
	if _, err := Read(strings.NewReader(src), StrictWhitespace); err == nil {
		t.Fatal("expected error for missing trailing 0")
	}
}

func TestWriterRendersHeaderAndClauses(t *testing.T) {
	w := NewWriter()
	w.AddClause([]int32{1, -2})
	w.AddClause([]int32{3})
	var buf strings.Builder
	if err := w.WriteTo(&buf, 0); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.HasPrefix(out, "p cnf 3 2\n") {
		t.Fatalf("unexpected header: %q", out)
	}
	if !strings.Contains(out, "1 -2 0\n") || !strings.Contains(out, "3 0\n") {
		t.Fatalf("unexpected body: %q", out)
	}
}

func TestReadThenWriteRoundTripsClauseSet(t *testing.T) {
	src := "p cnf 3 3\n1 -2 0\n2 3 0\n-1 -3 0\n"
	doc, err := Read(strings.NewReader(src), StrictWhitespace)
	if err != nil {
		t.Fatal(err)
	}

	w := NewWriter()
	for _, c := range doc.Clauses {
		w.AddClause(c)
	}
	var buf strings.Builder
	if err := w.WriteTo(&buf, 0); err != nil {
		t.Fatal(err)
	}

	doc2, err := Read(strings.NewReader(buf.String()), StrictWhitespace)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(doc.Clauses, doc2.Clauses); diff != "" {
		t.Fatalf("clause set changed across a read/write/read round trip (-want +got):\n%s", diff)
	}
}

func TestWriterHonorsMinMaxVar(t *testing.T) {
	w := NewWriter()
	w.AddClause([]int32{1})
	var buf strings.Builder
	if err := w.WriteTo(&buf, 10); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(buf.String(), "p cnf 10 1\n") {
		t.Fatalf("expected header to honor min max var, got %q", buf.String())
	}
}
