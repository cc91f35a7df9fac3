package opts

import "testing"

func TestSetClampsToRange(t *testing.T) {
	r := NewRegistry()
	if err := r.Set("vardecay", 5.0); err != nil {
		t.Fatal(err)
	}
	v, _ := r.Get("vardecay")
	if v != 0.999 {
		t.Fatalf("vardecay = %v, want clamped to 0.999", v)
	}
}

func TestSetUnknownOptionErrors(t *testing.T) {
	r := NewRegistry()
	if err := r.Set("not-an-option", 1); err == nil {
		t.Fatal("expected error for unknown option")
	}
}

func TestLongOptionForms(t *testing.T) {
	r := NewRegistry()

	if err := r.SetLongOption("--elim"); err != nil {
		t.Fatal(err)
	}
	if !r.Bool("elim") {
		t.Fatal("--elim should set elim true")
	}

	if err := r.SetLongOption("--no-elim"); err != nil {
		t.Fatal(err)
	}
	if r.Bool("elim") {
		t.Fatal("--no-elim should set elim false")
	}

	if err := r.SetLongOption("--restartint=250"); err != nil {
		t.Fatal(err)
	}
	v, _ := r.Get("restartint")
	if v != 250 {
		t.Fatalf("restartint = %v, want 250", v)
	}
}

func TestOptimizeScalesLimitsOnly(t *testing.T) {
	r := NewRegistry()
	before, _ := r.Get("vardecay")
	r.Optimize(2)
	after, _ := r.Get("vardecay")
	if before != after {
		t.Fatalf("optimize should not touch non-limit options: before=%v after=%v", before, after)
	}
	lim, _ := r.Get("inprocessint")
	if lim != 5000*100 {
		t.Fatalf("inprocessint = %v, want scaled by 100", lim)
	}
}

func TestConfigurePlainDisablesInprocessing(t *testing.T) {
	r := NewRegistry()
	if err := r.Configure("plain"); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"elim", "subsume", "vivify", "probe"} {
		if r.Bool(name) {
			t.Errorf("preset plain should disable %q", name)
		}
	}
}
