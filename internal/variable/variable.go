package variable

import (
	"github.com/specialistvlad/voxelforge/internal/expr"
)

// Variable is a named Value. References point at the variables its
// expression reads; they do not own them.
type Variable struct {
	name  string
	value expr.Value
	refs  []*Variable
}

// New creates an unwired variable.
func New(name string, value expr.Value) *Variable {
	return &Variable{name: name, value: value}
}

// Name returns the variable name.
func (v *Variable) Name() string { return v.name }

// Value returns the cached result of the variable's expression.
func (v *Variable) Value() float64 { return v.value.Value() }

// Expression returns the underlying Value.
func (v *Variable) Expression() expr.Value { return v.value }

// References returns the variables this one reads, in wiring order.
func (v *Variable) References() []*Variable { return v.refs }

// AddReference records that v depends on other. Repeated calls with the same
// variable are ignored.
func (v *Variable) AddReference(other *Variable) {
	for _, r := range v.refs {
		if r == other {
			return
		}
	}
	v.refs = append(v.refs, other)
}
