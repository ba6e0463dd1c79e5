package instruction

import (
	"context"
	"fmt"
	"math"

	"github.com/specialistvlad/voxelforge/internal/expr"
	"github.com/specialistvlad/voxelforge/internal/variable"
)

// Increment adds Delta to the variable Target after every iteration.
type Increment struct {
	Target *variable.Variable
	Delta  expr.Value
}

// Repeat executes an earlier instruction a number of times, applying its
// increments after each run. The increments mutate the target variables'
// cached values, so repeated executions keep accumulating until the next
// Randomize.
type Repeat struct {
	base
	target     Instruction
	times      expr.Value
	increments []*expr.Incrementable
}

// NewRepeat returns a Repeat of target. times and the deltas must already
// be bound to scope.
func NewRepeat(name string, scope *variable.Scope, target Instruction, times expr.Value, increments ...Increment) *Repeat {
	r := &Repeat{
		base:   newBase(name, scope, times),
		target: target,
		times:  times,
	}
	for _, inc := range increments {
		r.increments = append(r.increments, expr.NewIncrementable(inc.Target.Expression(), inc.Delta))
	}
	return r
}

// Target returns the repeated instruction.
func (r *Repeat) Target() Instruction { return r.target }

// Times returns the current iteration count, truncated toward zero.
func (r *Repeat) Times() int {
	return int(math.Trunc(r.times.Value()))
}

func (r *Repeat) Execute(ctx context.Context, p *Placement) error {
	if err := r.refresh(p.Rand); err != nil {
		return err
	}
	n := r.Times()
	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := r.target.Execute(ctx, p); err != nil {
			return fmt.Errorf("instruction %q: iteration %d: %w", r.name, i, err)
		}
		for _, inc := range r.increments {
			if err := inc.Calculate(p.Rand); err != nil {
				return fmt.Errorf("instruction %q: increment: %w", r.name, err)
			}
		}
	}
	return nil
}
