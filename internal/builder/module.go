package builder

import (
	"github.com/specialistvlad/voxelforge/internal/registry"
	"github.com/specialistvlad/voxelforge/internal/setter"
)

// Module registers the built-in setter, shape and instruction types.
type Module struct{}

func (Module) Register(r *registry.Registry) {
	r.RegisterSetter("simple", setter.NewSimple)
	r.RegisterSetter("inner-outer", setter.NewInnerOuter)
	r.RegisterSetter("random-simple", setter.NewRandomSimple)
	r.RegisterSetter("random-inner-outer", setter.NewRandomInnerOuter)

	r.RegisterVolume("cuboid", newCuboid)
	r.RegisterVolume("sphere", newSphere)

	r.RegisterInstruction("block", newBlock)
	r.RegisterInstruction("shape", newShapePlacement)
	r.RegisterInstruction("repeat", newRepeat)
}
