package instruction

import (
	"context"
	"fmt"

	"github.com/specialistvlad/voxelforge/internal/geometry"
	"github.com/specialistvlad/voxelforge/internal/setter"
	"github.com/specialistvlad/voxelforge/internal/variable"
)

// Block writes a single voxel.
type Block struct {
	base
	position geometry.Vec3
	setter   setter.Setter
	outer    bool
}

// NewBlock returns a Block writing at position through s. The position
// Values must already be bound to scope.
func NewBlock(name string, scope *variable.Scope, position geometry.Vec3, s setter.Setter, outer bool) *Block {
	return &Block{
		base:     newBase(name, scope, position.Values()...),
		position: position,
		setter:   s,
		outer:    outer,
	}
}

func (b *Block) Execute(ctx context.Context, p *Placement) error {
	if err := b.refresh(p.Rand); err != nil {
		return err
	}
	x, y, z := p.Transform.Apply(b.position.Ints())
	if err := b.setter.SetMaterial(ctx, p.World, x, y, z, b.outer, p.Rand); err != nil {
		return fmt.Errorf("instruction %q: %w", b.name, err)
	}
	return nil
}
