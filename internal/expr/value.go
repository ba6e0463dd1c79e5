package expr

import (
	"fmt"
	"math/rand/v2"
	"slices"
	"strconv"

	"github.com/zclconf/go-cty/cty"
)

// Value is a cached numeric expression.
type Value interface {
	// Calculate refreshes the cached result. Values holding a random
	// primitive draw fresh numbers from rng on every call; a nil rng uses
	// the process-wide source.
	Calculate(rng *rand.Rand) error
	// Value returns the cached result without recomputation.
	Value() float64
	// Set overwrites the cached result until the next Calculate.
	Set(v float64)
	// String returns the expression text.
	String() string
}

// Resolver maps a variable name to the Value that holds its current result.
type Resolver func(name string) (Value, error)

// dependent is implemented by values that read variables.
type dependent interface {
	references() []string
	bind(resolve Resolver) error
}

type cache struct {
	v float64
}

func (c *cache) Value() float64 { return c.v }
func (c *cache) Set(v float64)  { c.v = v }

// Constant is a bare numeric literal.
type Constant struct {
	cache
	text  string
	value float64
}

// NewConstant returns a Constant whose cache is already populated.
func NewConstant(v float64) *Constant {
	return &Constant{cache: cache{v: v}, text: strconv.FormatFloat(v, 'g', -1, 64), value: v}
}

func (c *Constant) Calculate(*rand.Rand) error {
	c.v = c.value
	return nil
}

func (c *Constant) String() string { return c.text }

// MathExpression is an arithmetic expression that reads no variables. It
// is idempotent unless it calls a random primitive.
type MathExpression struct {
	cache
	prog *program
}

func (m *MathExpression) Calculate(rng *rand.Rand) error {
	v, err := m.prog.eval(rng, nil)
	if err != nil {
		return err
	}
	m.v = v
	return nil
}

func (m *MathExpression) String() string { return m.prog.text }

// Random reports whether the expression calls a random primitive.
func (m *MathExpression) Random() bool { return m.prog.random }

// VariableMathExpression is an arithmetic expression over variables. Each
// Calculate reads the current cached value of every referenced variable.
type VariableMathExpression struct {
	cache
	prog  *program
	bound map[string]Value
}

func (m *VariableMathExpression) Calculate(rng *rand.Rand) error {
	vars := make(map[string]cty.Value, len(m.prog.names))
	for _, name := range m.prog.names {
		ref, ok := m.bound[name]
		if !ok {
			return &EvalError{Expression: m.prog.text, Err: fmt.Errorf("variable %q is not bound", name)}
		}
		v := ref.Value()
		if !finite(v) {
			return &EvalError{Expression: m.prog.text, Err: fmt.Errorf("variable %q is not a finite number", name)}
		}
		vars[name] = cty.NumberFloatVal(v)
	}
	v, err := m.prog.eval(rng, vars)
	if err != nil {
		return err
	}
	m.v = v
	return nil
}

func (m *VariableMathExpression) String() string { return m.prog.text }

// Random reports whether the expression calls a random primitive.
func (m *VariableMathExpression) Random() bool { return m.prog.random }

func (m *VariableMathExpression) references() []string { return m.prog.names }

func (m *VariableMathExpression) bind(resolve Resolver) error {
	bound := make(map[string]Value, len(m.prog.names))
	for _, name := range m.prog.names {
		v, err := resolve(name)
		if err != nil {
			return err
		}
		bound[name] = v
	}
	m.bound = bound
	return nil
}

// bounds is the shared min/max payload of the random shorthand forms.
type bounds struct {
	text     string
	min, max Value
}

func (b *bounds) calculateBounds(rng *rand.Rand) (float64, float64, error) {
	if err := b.min.Calculate(rng); err != nil {
		return 0, 0, err
	}
	if err := b.max.Calculate(rng); err != nil {
		return 0, 0, err
	}
	return b.min.Value(), b.max.Value(), nil
}

func (b *bounds) String() string { return b.text }

func (b *bounds) references() []string {
	return mergeNames(References(b.min), References(b.max))
}

func (b *bounds) bind(resolve Resolver) error {
	if err := Bind(b.min, resolve); err != nil {
		return err
	}
	return Bind(b.max, resolve)
}

// RandomInt draws an integer uniformly from [min, max] on every Calculate.
type RandomInt struct {
	cache
	bounds
}

func (r *RandomInt) Calculate(rng *rand.Rand) error {
	lo, hi, err := r.calculateBounds(rng)
	if err != nil {
		return err
	}
	n, err := drawInt(rng, lo, hi)
	if err != nil {
		return &EvalError{Expression: r.text, Err: err}
	}
	r.v = float64(n)
	return nil
}

// RandomDouble draws a float uniformly from [min, max) on every Calculate.
type RandomDouble struct {
	cache
	bounds
}

func (r *RandomDouble) Calculate(rng *rand.Rand) error {
	lo, hi, err := r.calculateBounds(rng)
	if err != nil {
		return err
	}
	f, err := drawDouble(rng, lo, hi)
	if err != nil {
		return &EvalError{Expression: r.text, Err: err}
	}
	r.v = f
	return nil
}

// Incrementable adds a delta to a target Value. Each Calculate evaluates
// the delta and stores target+delta back into the target's cache, so the
// effect accumulates across calls.
type Incrementable struct {
	target Value
	delta  Value
}

// NewIncrementable returns an Incrementable that mutates target.
func NewIncrementable(target, delta Value) *Incrementable {
	return &Incrementable{target: target, delta: delta}
}

func (i *Incrementable) Calculate(rng *rand.Rand) error {
	if err := i.delta.Calculate(rng); err != nil {
		return err
	}
	next := i.target.Value() + i.delta.Value()
	if !finite(next) {
		return &EvalError{Expression: i.String(), Err: fmt.Errorf("increment overflowed")}
	}
	i.target.Set(next)
	return nil
}

func (i *Incrementable) Value() float64 { return i.target.Value() }
func (i *Incrementable) Set(v float64)  { i.target.Set(v) }
func (i *Incrementable) String() string { return "+= " + i.delta.String() }

func (i *Incrementable) references() []string { return References(i.delta) }

func (i *Incrementable) bind(resolve Resolver) error { return Bind(i.delta, resolve) }

// References returns the sorted variable names v reads.
func References(v Value) []string {
	if d, ok := v.(dependent); ok {
		return d.references()
	}
	return nil
}

// Bind attaches the referenced variables of v using resolve. Values without
// references are left untouched.
func Bind(v Value, resolve Resolver) error {
	if d, ok := v.(dependent); ok {
		return d.bind(resolve)
	}
	return nil
}

// IsRandom reports whether calculating v draws from the random source.
func IsRandom(v Value) bool {
	switch v := v.(type) {
	case *RandomInt, *RandomDouble:
		return true
	case interface{ Random() bool }:
		return v.Random()
	}
	return false
}

// DependsOnVariables reports whether v reads any variable.
func DependsOnVariables(v Value) bool {
	return len(References(v)) > 0
}

func mergeNames(a, b []string) []string {
	if len(b) == 0 {
		return a
	}
	if len(a) == 0 {
		return b
	}
	seen := make(map[string]struct{}, len(a)+len(b))
	var out []string
	for _, list := range [][]string{a, b} {
		for _, n := range list {
			if _, ok := seen[n]; ok {
				continue
			}
			seen[n] = struct{}{}
			out = append(out, n)
		}
	}
	slices.Sort(out)
	return out
}
