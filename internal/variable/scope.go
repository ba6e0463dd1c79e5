package variable

import (
	"fmt"
	"math/rand/v2"

	"github.com/specialistvlad/voxelforge/internal/expr"
)

// Source is implemented by anything that owns a named variable scope.
type Source interface {
	Lookup(name string) (*Variable, bool)
	Variables() []*Variable
}

// Scope owns an ordered set of uniquely named variables and chains to an
// optional parent scope for name resolution.
type Scope struct {
	name   string
	parent *Scope
	vars   []*Variable
	index  map[string]*Variable
}

// NewScope creates an empty scope. parent may be nil.
func NewScope(name string, parent *Scope) *Scope {
	return &Scope{
		name:   name,
		parent: parent,
		index:  make(map[string]*Variable),
	}
}

// Name returns the scope name used in error messages.
func (s *Scope) Name() string { return s.name }

// Parent returns the enclosing scope, or nil.
func (s *Scope) Parent() *Scope { return s.parent }

// Declare parses text and adds the result as a new, unwired variable.
func (s *Scope) Declare(name, text string) (*Variable, error) {
	value, err := expr.Parse(text)
	if err != nil {
		return nil, err
	}
	v := New(name, value)
	if err := s.Add(v); err != nil {
		return nil, err
	}
	return v, nil
}

// Add appends v to the scope.
func (s *Scope) Add(v *Variable) error {
	if _, ok := s.index[v.name]; ok {
		return &DuplicateError{Name: v.name, Scope: s.name}
	}
	s.index[v.name] = v
	s.vars = append(s.vars, v)
	return nil
}

// Lookup finds a variable declared directly in this scope.
func (s *Scope) Lookup(name string) (*Variable, bool) {
	v, ok := s.index[name]
	return v, ok
}

// Variables returns the scope's own variables in declaration order.
func (s *Scope) Variables() []*Variable { return s.vars }

// Resolve walks the scope chain innermost first and returns the first
// variable named name.
func (s *Scope) Resolve(name string) (*Variable, error) {
	for cur := s; cur != nil; cur = cur.parent {
		if v, ok := cur.index[name]; ok {
			return v, nil
		}
	}
	return nil, &UnresolvedReferenceError{Name: name, Scope: s.name}
}

func (s *Scope) resolver() expr.Resolver {
	return func(name string) (expr.Value, error) {
		v, err := s.Resolve(name)
		if err != nil {
			return nil, err
		}
		return v.value, nil
	}
}

// Wire resolves the references of every variable declared in this scope.
// It must run after all variables of the scope and its parents exist.
func (s *Scope) Wire() error {
	for _, v := range s.vars {
		for _, name := range expr.References(v.value) {
			ref, err := s.Resolve(name)
			if err != nil {
				return fmt.Errorf("variable %q: %w", v.name, err)
			}
			v.AddReference(ref)
		}
		if err := expr.Bind(v.value, s.resolver()); err != nil {
			return fmt.Errorf("variable %q: %w", v.name, err)
		}
	}
	return nil
}

// Bind attaches a Value that is not itself a variable (a size, a position,
// a repeat count) to the variables visible from this scope.
func (s *Scope) Bind(v expr.Value) error {
	return expr.Bind(v, s.resolver())
}

// ParseValue parses text and binds it against this scope.
func (s *Scope) ParseValue(text string) (expr.Value, error) {
	v, err := expr.Parse(text)
	if err != nil {
		return nil, err
	}
	if err := s.Bind(v); err != nil {
		return nil, err
	}
	return v, nil
}

// Calculate recalculates the scope's own variables in dependency order.
func (s *Scope) Calculate(rng *rand.Rand) error {
	return Calculate(rng, s.vars)
}
