// Package opts implements the option registry (spec §4.12): a
// statically declared table of tagged records discriminated by value
// kind, with clamped `set`, long-option parsing in the `--name`,
// `--no-name`, `--name=val` forms, named presets, and the `optimize`
// step-limit multiplier.
package opts

import (
	"io"
	"strings"

	"github.com/pkg/errors"
	flag "github.com/spf13/pflag"
)

// Kind discriminates an Option's value type.
type Kind int

const (
	KindBool Kind = iota
	KindInt
	KindDouble
)

// Category groups options for the `options`/reporting surface.
type Category string

const (
	CategoryGeneral      Category = "general"
	CategorySearch       Category = "search"
	CategoryRestart      Category = "restart"
	CategoryReduce       Category = "reduce"
	CategoryInprocessing Category = "inprocessing"
	CategoryProof        Category = "proof"
)

// Option is one tagged record in the registry.
type Option struct {
	Name     string
	Kind     Kind
	Min, Max float64
	Default  float64
	Category Category

	val float64
}

func clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// Registry holds the full set of declared options, mutable only while
// the owning facade is in CONFIGURING (enforcement is the facade's
// job; this package just stores values).
type Registry struct {
	order []string
	byName map[string]*Option
}

// NewRegistry builds a registry pre-populated with the default option
// table (spec §6's `options`/`configurations` surface).
func NewRegistry() *Registry {
	r := &Registry{byName: make(map[string]*Option)}
	for _, o := range defaultOptions() {
		o := o
		o.val = o.Default
		r.order = append(r.order, o.Name)
		r.byName[o.Name] = &o
	}
	return r
}

func defaultOptions() []Option {
	return []Option{
		{Name: "restartint", Kind: KindInt, Min: 1, Max: 1e6, Default: 100, Category: CategoryRestart},
		{Name: "restartmargin", Kind: KindDouble, Min: 1.0, Max: 10.0, Default: 1.25, Category: CategoryRestart},
		{Name: "reduceinit", Kind: KindInt, Min: 100, Max: 1e7, Default: 2000, Category: CategoryReduce},
		{Name: "reducegrowth", Kind: KindDouble, Min: 1.0, Max: 10.0, Default: 1.1, Category: CategoryReduce},
		{Name: "vardecay", Kind: KindDouble, Min: 0.5, Max: 0.999, Default: 0.95, Category: CategorySearch},
		{Name: "clausedecay", Kind: KindDouble, Min: 0.5, Max: 0.999, Default: 0.999, Category: CategorySearch},
		{Name: "elim", Kind: KindBool, Min: 0, Max: 1, Default: 1, Category: CategoryInprocessing},
		{Name: "subsume", Kind: KindBool, Min: 0, Max: 1, Default: 1, Category: CategoryInprocessing},
		{Name: "vivify", Kind: KindBool, Min: 0, Max: 1, Default: 1, Category: CategoryInprocessing},
		{Name: "probe", Kind: KindBool, Min: 0, Max: 1, Default: 1, Category: CategoryInprocessing},
		{Name: "inprocessint", Kind: KindInt, Min: 1, Max: 1e7, Default: 5000, Category: CategoryInprocessing},
		{Name: "conflictlimit", Kind: KindInt, Min: -1, Max: 1e12, Default: -1, Category: CategoryGeneral},
		{Name: "decisionlimit", Kind: KindInt, Min: -1, Max: 1e12, Default: -1, Category: CategoryGeneral},
		{Name: "binary", Kind: KindBool, Min: 0, Max: 1, Default: 0, Category: CategoryProof},
	}
}

// Get returns the current clamped value and whether the option exists.
func (r *Registry) Get(name string) (float64, bool) {
	o, ok := r.byName[name]
	if !ok {
		return 0, false
	}
	return o.val, true
}

// Bool is a convenience accessor for KindBool options.
func (r *Registry) Bool(name string) bool {
	v, _ := r.Get(name)
	return v != 0
}

// Names returns option names in declaration order.
func (r *Registry) Names() []string { return append([]string(nil), r.order...) }

// Lookup returns the declared record for name (without its live
// value), for the `options`/`configurations` reporting surface.
func (r *Registry) Lookup(name string) (Option, bool) {
	o, ok := r.byName[name]
	if !ok {
		return Option{}, false
	}
	cp := *o
	return cp, true
}

// Set clamps val into [min,max] and stores it. Returns an error if
// name is not a declared option.
func (r *Registry) Set(name string, val float64) error {
	o, ok := r.byName[name]
	if !ok {
		return errors.Errorf("opts: unknown option %q", name)
	}
	o.val = clamp(val, o.Min, o.Max)
	return nil
}

// SetLongOption parses one long-option token in the `--name`,
// `--no-name` or `--name=val` form (spec §6's `set_long_option`). The
// bare `--name` form sets a bool option true (or, for non-bool
// options, applies its declared default). Value parsing for the
// `=val` and bare-bool forms goes through a single-flag pflag.FlagSet
// (setViaFlag), the same grammar FlagSet below exposes to a CLI
// front-end, rather than a second, hand-rolled strconv pass.
func (r *Registry) SetLongOption(token string) error {
	if !strings.HasPrefix(token, "--") {
		return errors.Errorf("opts: long option must start with \"--\": %q", token)
	}
	body := token[2:]
	if body == "" {
		return errors.New("opts: empty long option")
	}

	if strings.HasPrefix(body, "no-") {
		name := body[len("no-"):]
		o, ok := r.byName[name]
		if !ok {
			return errors.Errorf("opts: unknown option %q", name)
		}
		if o.Kind != KindBool {
			return errors.Errorf("opts: %q is not boolean, --no- form not applicable", name)
		}
		return r.setViaFlag(o, "false")
	}

	name, val, hasVal := strings.Cut(body, "=")
	o, ok := r.byName[name]
	if !ok {
		return errors.Errorf("opts: unknown option %q", name)
	}
	if !hasVal {
		if o.Kind == KindBool {
			val = "true"
		} else {
			o.val = o.Default
			return nil
		}
	}
	return r.setViaFlag(o, val)
}

// setViaFlag parses s for o's declared kind through a throwaway
// single-flag pflag.FlagSet: fs.Set drives pflag's own Value.Set
// (strconv-backed internally, but that's pflag's concern, not ours).
func (r *Registry) setViaFlag(o *Option, s string) error {
	fs := flag.NewFlagSet(o.Name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	switch o.Kind {
	case KindBool:
		p := fs.Bool(o.Name, o.Default != 0, "")
		if err := fs.Set(o.Name, s); err != nil {
			return errors.Wrapf(err, "opts: %q expects a bool value", o.Name)
		}
		if *p {
			o.val = 1
		} else {
			o.val = 0
		}
	case KindInt:
		p := fs.Int64(o.Name, int64(o.Default), "")
		if err := fs.Set(o.Name, s); err != nil {
			return errors.Wrapf(err, "opts: %q expects an int value", o.Name)
		}
		o.val = clamp(float64(*p), o.Min, o.Max)
	case KindDouble:
		p := fs.Float64(o.Name, o.Default, "")
		if err := fs.Set(o.Name, s); err != nil {
			return errors.Wrapf(err, "opts: %q expects a float value", o.Name)
		}
		o.val = clamp(*p, o.Min, o.Max)
	}
	return nil
}

// Optimize multiplies every step-limit-flavored option ("*limit",
// "*int") by 10^clamp(v,0,9) (spec §6's `optimize`).
func (r *Registry) Optimize(v int) {
	if v < 0 {
		v = 0
	}
	if v > 9 {
		v = 9
	}
	scale := 1.0
	for i := 0; i < v; i++ {
		scale *= 10
	}
	for _, name := range r.order {
		if strings.HasSuffix(name, "limit") || strings.HasSuffix(name, "int") {
			o := r.byName[name]
			if o.Kind == KindBool {
				continue
			}
			o.val = clamp(o.val*scale, o.Min, o.Max)
		}
	}
}

// Configure bulk-applies a named preset (spec §6's `configure`).
func (r *Registry) Configure(preset string) error {
	p, ok := presets()[preset]
	if !ok {
		return errors.Errorf("opts: unknown preset %q", preset)
	}
	for name, val := range p {
		if err := r.Set(name, val); err != nil {
			return err
		}
	}
	return nil
}

func presets() map[string]map[string]float64 {
	return map[string]map[string]float64{
		"plain": {"elim": 0, "subsume": 0, "vivify": 0, "probe": 0},
		"sat":   {"restartmargin": 1.5, "vardecay": 0.98},
		"unsat": {"reducegrowth": 1.3, "clausedecay": 0.995},
	}
}

// FlagSet builds a *pflag.FlagSet mirroring the registry, for a
// front-end that wants a conventional CLI surface over the same
// declarations (the CLI itself is out of this module's scope; this
// only exposes the binding).
func (r *Registry) FlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	for _, n := range r.order {
		o := r.byName[n]
		switch o.Kind {
		case KindBool:
			fs.Bool(n, o.Default != 0, string(o.Category))
		case KindInt:
			fs.Int64(n, int64(o.Default), string(o.Category))
		case KindDouble:
			fs.Float64(n, o.Default, string(o.Category))
		}
	}
	return fs
}
