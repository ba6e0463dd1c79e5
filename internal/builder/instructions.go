package builder

import (
	"github.com/specialistvlad/voxelforge/internal/config"
	"github.com/specialistvlad/voxelforge/internal/geometry"
	"github.com/specialistvlad/voxelforge/internal/instruction"
	"github.com/specialistvlad/voxelforge/internal/registry"
)

func optionalBool(s *config.Section, key string) (bool, error) {
	if !s.Has(key) {
		return false, nil
	}
	return readBool(s, key)
}

func newBlock(env registry.InstructionEnv) (instruction.Instruction, error) {
	p := env.Props()
	position, ok := p.Child("position")
	if !ok {
		return nil, fail(p.KeyPath("position"), "missing position section")
	}
	pos, err := readVec(position, env.Read, []string{"x"}, []string{"y"}, []string{"z"})
	if err != nil {
		return nil, err
	}
	st, err := env.Setter(p, "material")
	if err != nil {
		return nil, err
	}
	outer, err := optionalBool(p, "outer")
	if err != nil {
		return nil, err
	}
	return instruction.NewBlock(env.Name(), env.Scope(), pos, st, outer), nil
}

func newShapePlacement(env registry.InstructionEnv) (instruction.Instruction, error) {
	p := env.Props()
	entries, err := sectionChildren(p, "shapes")
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, fail(p.KeyPath("shapes"), "at least one shape is required")
	}

	shapes := make([]*geometry.Shape, 0, len(entries))
	for _, e := range entries {
		vol, err := env.Volume(e.Section)
		if err != nil {
			return nil, err
		}
		st, err := env.Setter(e.Section, "material")
		if err != nil {
			return nil, err
		}
		outer, err := optionalBool(e.Section, "outer")
		if err != nil {
			return nil, err
		}
		shapes = append(shapes, &geometry.Shape{Name: e.Key, Volume: vol, Setter: st, Outer: outer})
	}
	return instruction.NewShapePlacement(env.Name(), env.Scope(), shapes...), nil
}

func newRepeat(env registry.InstructionEnv) (instruction.Instruction, error) {
	p := env.Props()
	target, err := env.Instruction(p, "repeat")
	if err != nil {
		return nil, err
	}
	times, err := env.Read(p, "times")
	if err != nil {
		return nil, err
	}

	var increments []instruction.Increment
	if p.Has("increment") {
		inc, ok := p.Child("increment")
		if !ok {
			return nil, fail(p.KeyPath("increment"), "expected a section")
		}
		for _, e := range inc.Entries() {
			v, err := env.Resolve(e.Key)
			if err != nil {
				return nil, wrap(inc.KeyPath(e.Key), err)
			}
			delta, err := env.Read(inc, e.Key)
			if err != nil {
				return nil, err
			}
			increments = append(increments, instruction.Increment{Target: v, Delta: delta})
		}
	}
	return instruction.NewRepeat(env.Name(), env.Scope(), target, times, increments...), nil
}
