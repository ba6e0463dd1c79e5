package instruction

import (
	"context"
	"fmt"

	"github.com/specialistvlad/voxelforge/internal/expr"
	"github.com/specialistvlad/voxelforge/internal/geometry"
	"github.com/specialistvlad/voxelforge/internal/variable"
)

// ShapePlacement draws its shapes in order.
type ShapePlacement struct {
	base
	shapes []*geometry.Shape
}

// NewShapePlacement returns a ShapePlacement over shapes, whose Values must
// already be bound to scope.
func NewShapePlacement(name string, scope *variable.Scope, shapes ...*geometry.Shape) *ShapePlacement {
	var values []expr.Value
	for _, s := range shapes {
		values = append(values, s.Volume.Values()...)
	}
	return &ShapePlacement{base: newBase(name, scope, values...), shapes: shapes}
}

// Shapes returns the shapes in drawing order.
func (s *ShapePlacement) Shapes() []*geometry.Shape { return s.shapes }

func (s *ShapePlacement) Execute(ctx context.Context, p *Placement) error {
	if err := s.refresh(p.Rand); err != nil {
		return err
	}
	for _, shape := range s.shapes {
		if err := shape.Draw(ctx, p.World, p.Transform, p.Rand); err != nil {
			return fmt.Errorf("instruction %q: shape %q: %w", s.name, shape.Name, err)
		}
	}
	return nil
}
