// Package instruction implements the steps of an object's placement
// program.
//
// Every instruction owns a variable scope chained under its object's
// scope. Randomize recalculates the scope and every Value the instruction
// holds. Execute refreshes only what reads variables, so that values a
// Repeat increments are seen by its target on each iteration while random
// values keep the snapshot taken by Randomize.
package instruction

import (
	"context"
	"fmt"
	"math/rand/v2"

	"github.com/specialistvlad/voxelforge/internal/expr"
	"github.com/specialistvlad/voxelforge/internal/geometry"
	"github.com/specialistvlad/voxelforge/internal/variable"
	"github.com/specialistvlad/voxelforge/internal/world"
)

// Placement is the target of one place call.
type Placement struct {
	World     world.World
	Transform geometry.Transform
	// Rand feeds randomized setters. Nil uses the process-wide source.
	Rand *rand.Rand
}

// Instruction is one step of an object's placement program.
type Instruction interface {
	Name() string
	Scope() *variable.Scope
	// Randomize recalculates the instruction's variables and values.
	Randomize(rng *rand.Rand) error
	// Execute writes into the placement's world.
	Execute(ctx context.Context, p *Placement) error
}

// base carries the scope and value bookkeeping shared by all instructions.
type base struct {
	name   string
	scope  *variable.Scope
	values []expr.Value

	// live are the variables of the scope chain and the values that read
	// other variables.
	liveVars   []*variable.Variable
	liveValues []expr.Value
}

func newBase(name string, scope *variable.Scope, values ...expr.Value) base {
	b := base{name: name, scope: scope, values: values}
	for s := scope; s != nil; s = s.Parent() {
		for _, v := range s.Variables() {
			if expr.DependsOnVariables(v.Expression()) {
				b.liveVars = append(b.liveVars, v)
			}
		}
	}
	for _, v := range values {
		if expr.DependsOnVariables(v) {
			b.liveValues = append(b.liveValues, v)
		}
	}
	return b
}

func (b *base) Name() string           { return b.name }
func (b *base) Scope() *variable.Scope { return b.scope }

func (b *base) Randomize(rng *rand.Rand) error {
	if err := b.scope.Calculate(rng); err != nil {
		return fmt.Errorf("instruction %q: %w", b.name, err)
	}
	for _, v := range b.values {
		if err := v.Calculate(rng); err != nil {
			return fmt.Errorf("instruction %q: %w", b.name, err)
		}
	}
	return nil
}

// refresh recalculates the variable-dependent state before an execution.
func (b *base) refresh(rng *rand.Rand) error {
	if err := variable.Calculate(rng, b.liveVars); err != nil {
		return fmt.Errorf("instruction %q: %w", b.name, err)
	}
	for _, v := range b.liveValues {
		if err := v.Calculate(rng); err != nil {
			return fmt.Errorf("instruction %q: %w", b.name, err)
		}
	}
	return nil
}
