package geometry

import (
	"context"
	"math/rand/v2"

	"github.com/specialistvlad/voxelforge/internal/setter"
	"github.com/specialistvlad/voxelforge/internal/world"
)

// Shape writes every voxel of its volume through a material setter. Outer
// is the role passed to the setter for all of them.
type Shape struct {
	Name   string
	Volume Volume
	Setter setter.Setter
	Outer  bool
}

// Draw places the shape.
func (s *Shape) Draw(ctx context.Context, w world.World, t Transform, rng *rand.Rand) error {
	_, err := s.Volume.Walk(func(x, y, z int) (bool, error) {
		wx, wy, wz := t.Apply(x, y, z)
		if err := s.Setter.SetMaterial(ctx, w, wx, wy, wz, s.Outer, rng); err != nil {
			return false, err
		}
		return true, nil
	})
	return err
}
