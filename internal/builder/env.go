package builder

import (
	"fmt"

	"github.com/specialistvlad/voxelforge/internal/config"
	"github.com/specialistvlad/voxelforge/internal/expr"
	"github.com/specialistvlad/voxelforge/internal/geometry"
	"github.com/specialistvlad/voxelforge/internal/instruction"
	"github.com/specialistvlad/voxelforge/internal/setter"
	"github.com/specialistvlad/voxelforge/internal/variable"
)

// instructionEnv implements registry.InstructionEnv for one instruction.
type instructionEnv struct {
	b     *builder
	name  string
	scope *variable.Scope
	props *config.Section
}

func (e *instructionEnv) Name() string           { return e.name }
func (e *instructionEnv) Scope() *variable.Scope { return e.scope }
func (e *instructionEnv) Props() *config.Section { return e.props }

func (e *instructionEnv) Read(s *config.Section, key string) (expr.Value, error) {
	return valueReader(e.scope)(s, key)
}

func (e *instructionEnv) Setter(s *config.Section, key string) (setter.Setter, error) {
	name, err := requireScalar(s, key)
	if err != nil {
		return nil, err
	}
	st, ok := e.b.obj.Setter(name)
	if !ok {
		return nil, fail(s.KeyPath(key), "unknown setter %q", name)
	}
	return st, nil
}

func (e *instructionEnv) Instruction(s *config.Section, key string) (instruction.Instruction, error) {
	name, err := requireScalar(s, key)
	if err != nil {
		return nil, err
	}
	in, ok := e.b.obj.Instruction(name)
	if !ok {
		return nil, fail(s.KeyPath(key), "instruction %q is not declared before %q", name, e.name)
	}
	return in, nil
}

func (e *instructionEnv) Volume(s *config.Section) (geometry.Volume, error) {
	return e.b.volume(s, valueReader(e.scope))
}

func (e *instructionEnv) Resolve(name string) (*variable.Variable, error) {
	v, err := e.scope.Resolve(name)
	if err != nil {
		return nil, fmt.Errorf("instruction %q: %w", e.name, err)
	}
	return v, nil
}
