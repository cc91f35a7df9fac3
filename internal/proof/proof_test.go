package proof

import (
	"bytes"
	"strings"
	"testing"
)

func TestASCIIWriterAdditionAndDeletion(t *testing.T) {
	var buf bytes.Buffer
	w := NewASCIIWriter(&buf)
	w.AddClause([]int32{1, -2, 3})
	w.DeleteClause([]int32{1, -2, 3})
	w.AddUnit(-4)
	if err := w.Close(); err != nil {
		t.Fatalf("unexpected write error: %v", err)
	}
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	want := []string{"1 -2 3 0", "d 1 -2 3 0", "-4 0"}
	if len(lines) != len(want) {
		t.Fatalf("got %d lines, want %d: %q", len(lines), len(want), lines)
	}
	for i, l := range want {
		if lines[i] != l {
			t.Errorf("line %d = %q, want %q", i, lines[i], l)
		}
	}
}

func TestASCIIWriterEmptyClause(t *testing.T) {
	var buf bytes.Buffer
	w := NewASCIIWriter(&buf)
	w.AddClause(nil)
	w.Close()
	if got := strings.TrimSpace(buf.String()); got != "0" {
		t.Fatalf("empty clause line = %q, want %q", got, "0")
	}
}

func TestBinaryWriterEncodesLiterals(t *testing.T) {
	cases := []struct {
		lit  int32
		code uint64
	}{
		{1, 2}, {-1, 3}, {5, 10}, {-5, 11}, {0, 0},
	}
	for _, c := range cases {
		if got := encodeLit(c.lit); got != c.code {
			t.Errorf("encodeLit(%d) = %d, want %d", c.lit, got, c.code)
		}
	}
}

func TestBinaryWriterEmitsTagsAndTerminators(t *testing.T) {
	var buf bytes.Buffer
	w := NewBinaryWriter(&buf)
	w.AddClause([]int32{1, -2})
	w.DeleteClause([]int32{1, -2})
	w.Close()
	b := buf.Bytes()
	if len(b) == 0 || b[0] != 'a' {
		t.Fatalf("expected addition record to start with 'a', got %v", b)
	}
	// The deletion tag must directly follow the first record's zero
	// terminator, and the output must end with the second terminator.
	end := bytes.IndexByte(b, 0)
	if end < 0 || end+1 >= len(b) || b[end+1] != 'd' || b[len(b)-1] != 0 {
		t.Fatalf("expected a zero-terminated 'a' record then a zero-terminated 'd' record: %v", b)
	}
}
