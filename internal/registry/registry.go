package registry

import (
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"strings"

	"github.com/specialistvlad/voxelforge/internal/config"
	"github.com/specialistvlad/voxelforge/internal/expr"
	"github.com/specialistvlad/voxelforge/internal/geometry"
	"github.com/specialistvlad/voxelforge/internal/instruction"
	"github.com/specialistvlad/voxelforge/internal/setter"
	"github.com/specialistvlad/voxelforge/internal/variable"
)

// Module is implemented by every package that contributes constructors.
type Module interface {
	Register(r *Registry)
}

// SetterFactory returns an unconfigured setter.
type SetterFactory func(name string) setter.Setter

// ValueReader parses the expression stored under key and binds it to the
// current scope.
type ValueReader func(s *config.Section, key string) (expr.Value, error)

// VolumeFactory builds a volume from its size and position sections.
// position may be nil, meaning the local origin.
type VolumeFactory func(size, position *config.Section, read ValueReader) (geometry.Volume, error)

// InstructionEnv is what an instruction constructor can resolve while its
// object is being built.
type InstructionEnv interface {
	// Name is the instruction's key.
	Name() string
	// Scope is the instruction's own scope, already wired.
	Scope() *variable.Scope
	// Props is the instruction payload.
	Props() *config.Section
	// Read parses and binds an expression against Scope.
	Read(s *config.Section, key string) (expr.Value, error)
	// Setter resolves the setter named under key.
	Setter(s *config.Section, key string) (setter.Setter, error)
	// Instruction resolves an instruction declared earlier in the object.
	Instruction(s *config.Section, key string) (instruction.Instruction, error)
	// Volume builds the volume described by a shape section.
	Volume(s *config.Section) (geometry.Volume, error)
	// Resolve finds a variable through the scope chain.
	Resolve(name string) (*variable.Variable, error)
}

// InstructionFactory builds one instruction.
type InstructionFactory func(env InstructionEnv) (instruction.Instruction, error)

// UnknownTypeError reports a type name with no registered constructor.
type UnknownTypeError struct {
	Kind  string
	Name  string
	Known []string
}

func (e *UnknownTypeError) Error() string {
	return fmt.Sprintf("unknown %s type %q (known: %s)", e.Kind, e.Name, strings.Join(e.Known, ", "))
}

// Registry holds the constructor tables.
type Registry struct {
	setters      map[string]SetterFactory
	volumes      map[string]VolumeFactory
	instructions map[string]InstructionFactory
}

// New creates a Registry and lets each module register into it.
func New(modules ...Module) *Registry {
	r := &Registry{
		setters:      make(map[string]SetterFactory),
		volumes:      make(map[string]VolumeFactory),
		instructions: make(map[string]InstructionFactory),
	}
	for _, m := range modules {
		m.Register(r)
	}
	return r
}

func normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func register[F any](table map[string]F, kind, name string, f F) {
	key := normalize(name)
	if _, exists := table[key]; exists {
		panic(fmt.Sprintf("%s type '%s' already registered", kind, name))
	}
	slog.Debug("Registering type.", "kind", kind, "name", key)
	table[key] = f
}

func lookup[F any](table map[string]F, kind, name string) (F, error) {
	f, ok := table[normalize(name)]
	if !ok {
		return f, &UnknownTypeError{Kind: kind, Name: name, Known: slices.Sorted(maps.Keys(table))}
	}
	return f, nil
}

// RegisterSetter adds a material setter type.
func (r *Registry) RegisterSetter(name string, f SetterFactory) {
	register(r.setters, "setter", name, f)
}

// RegisterVolume adds a shape/condition volume type.
func (r *Registry) RegisterVolume(name string, f VolumeFactory) {
	register(r.volumes, "shape", name, f)
}

// RegisterInstruction adds an instruction type.
func (r *Registry) RegisterInstruction(name string, f InstructionFactory) {
	register(r.instructions, "instruction", name, f)
}

// Setter returns the constructor for a setter type.
func (r *Registry) Setter(name string) (SetterFactory, error) {
	return lookup(r.setters, "setter", name)
}

// Volume returns the constructor for a volume type.
func (r *Registry) Volume(name string) (VolumeFactory, error) {
	return lookup(r.volumes, "shape", name)
}

// Instruction returns the constructor for an instruction type.
func (r *Registry) Instruction(name string) (InstructionFactory, error) {
	return lookup(r.instructions, "instruction", name)
}

// Types lists the registered names per table, sorted.
func (r *Registry) Types() map[string][]string {
	return map[string][]string{
		"setter":      slices.Sorted(maps.Keys(r.setters)),
		"shape":       slices.Sorted(maps.Keys(r.volumes)),
		"instruction": slices.Sorted(maps.Keys(r.instructions)),
	}
}
