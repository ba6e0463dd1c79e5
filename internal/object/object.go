// Package object owns a placeable definition and drives its randomize,
// check and place cycle.
package object

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"

	"github.com/specialistvlad/voxelforge/internal/ctxlog"
	"github.com/specialistvlad/voxelforge/internal/geometry"
	"github.com/specialistvlad/voxelforge/internal/instruction"
	"github.com/specialistvlad/voxelforge/internal/setter"
	"github.com/specialistvlad/voxelforge/internal/variable"
	"github.com/specialistvlad/voxelforge/internal/world"
)

// ErrDuplicateName is returned when a setter, condition or instruction
// name is registered twice on one object.
var ErrDuplicateName = errors.New("duplicate name")

// Object is a built, placeable definition. Its structure is fixed once the
// build completes; only cached values change afterwards. A mutex
// serializes Randomize, CanPlace and Place.
type Object struct {
	mu sync.Mutex

	name      string
	source    string
	transform geometry.Transform
	scope     *variable.Scope

	setters      map[string]setter.Setter
	setterOrder  []string
	conditions   []*geometry.Condition
	instructions []instruction.Instruction
	byName       map[string]instruction.Instruction
}

// New returns an empty object owning scope.
func New(name, source string, scope *variable.Scope) *Object {
	return &Object{
		name:    name,
		source:  source,
		scope:   scope,
		setters: make(map[string]setter.Setter),
		byName:  make(map[string]instruction.Instruction),
	}
}

func (o *Object) Name() string           { return o.name }
func (o *Object) Source() string         { return o.source }
func (o *Object) Scope() *variable.Scope { return o.scope }

// Transform returns the orientation; its origin is the last placement target.
func (o *Object) Transform() geometry.Transform {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.transform
}

// SetOrientation sets the quarter turns about Y and the X mirror applied to
// every placement.
func (o *Object) SetOrientation(rotation int, mirrorX bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.transform.Rotation = rotation & 3
	o.transform.MirrorX = mirrorX
}

// AddSetter registers a named material setter.
func (o *Object) AddSetter(s setter.Setter) error {
	if _, ok := o.setters[s.Name()]; ok {
		return fmt.Errorf("setter %q: %w", s.Name(), ErrDuplicateName)
	}
	o.setters[s.Name()] = s
	o.setterOrder = append(o.setterOrder, s.Name())
	return nil
}

// Setter looks up a material setter by name.
func (o *Object) Setter(name string) (setter.Setter, bool) {
	s, ok := o.setters[name]
	return s, ok
}

// SetterNames returns the setter names in declaration order.
func (o *Object) SetterNames() []string { return o.setterOrder }

// AddCondition appends a condition.
func (o *Object) AddCondition(c *geometry.Condition) error {
	for _, existing := range o.conditions {
		if existing.Name == c.Name {
			return fmt.Errorf("condition %q: %w", c.Name, ErrDuplicateName)
		}
	}
	o.conditions = append(o.conditions, c)
	return nil
}

// Conditions returns the conditions in declaration order.
func (o *Object) Conditions() []*geometry.Condition { return o.conditions }

// AddInstruction appends an instruction to the placement program.
func (o *Object) AddInstruction(in instruction.Instruction) error {
	if _, ok := o.byName[in.Name()]; ok {
		return fmt.Errorf("instruction %q: %w", in.Name(), ErrDuplicateName)
	}
	o.byName[in.Name()] = in
	o.instructions = append(o.instructions, in)
	return nil
}

// Instruction looks up an instruction by name.
func (o *Object) Instruction(name string) (instruction.Instruction, bool) {
	in, ok := o.byName[name]
	return in, ok
}

// Instructions returns the program in execution order.
func (o *Object) Instructions() []instruction.Instruction { return o.instructions }

// Randomize recalculates the object's variables, then the condition
// geometry, then each instruction's variables and values, so that one
// placement sees a consistent snapshot.
func (o *Object) Randomize(rng *rand.Rand) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if err := o.scope.Calculate(rng); err != nil {
		return fmt.Errorf("object %q: %w", o.name, err)
	}
	for _, c := range o.conditions {
		for _, v := range c.Volume.Values() {
			if err := v.Calculate(rng); err != nil {
				return fmt.Errorf("object %q: condition %q: %w", o.name, c.Name, err)
			}
		}
	}
	for _, in := range o.instructions {
		if err := in.Randomize(rng); err != nil {
			return fmt.Errorf("object %q: %w", o.name, err)
		}
	}
	return nil
}

// CanPlace checks every condition at the given origin in declaration order
// and stops at the first failure. An object without conditions can always
// be placed.
func (o *Object) CanPlace(ctx context.Context, w world.World, x, y, z int) (bool, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.transform = o.transform.At(x, y, z)
	logger := ctxlog.FromContext(ctx)
	for _, c := range o.conditions {
		ok, err := c.Check(ctx, w, o.transform)
		if err != nil {
			return false, fmt.Errorf("object %q: condition %q: %w", o.name, c.Name, err)
		}
		if !ok {
			logger.Debug("Condition failed.", "object", o.name, "condition", c.Name, "origin", o.transform.Origin)
			return false, nil
		}
	}
	return true, nil
}

// Place executes the program at the given origin. It does not randomize.
func (o *Object) Place(ctx context.Context, w world.World, x, y, z int, rng *rand.Rand) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.transform = o.transform.At(x, y, z)
	p := &instruction.Placement{World: w, Transform: o.transform, Rand: rng}
	for _, in := range o.instructions {
		if err := in.Execute(ctx, p); err != nil {
			return fmt.Errorf("object %q: %w", o.name, err)
		}
	}
	ctxlog.FromContext(ctx).Debug("Object placed.", "object", o.name, "origin", o.transform.Origin)
	return nil
}
