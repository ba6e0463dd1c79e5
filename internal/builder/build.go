package builder

import (
	"context"
	"errors"
	"strconv"

	"github.com/specialistvlad/voxelforge/internal/config"
	"github.com/specialistvlad/voxelforge/internal/ctxlog"
	"github.com/specialistvlad/voxelforge/internal/dag"
	"github.com/specialistvlad/voxelforge/internal/expr"
	"github.com/specialistvlad/voxelforge/internal/geometry"
	"github.com/specialistvlad/voxelforge/internal/material"
	"github.com/specialistvlad/voxelforge/internal/object"
	"github.com/specialistvlad/voxelforge/internal/registry"
	"github.com/specialistvlad/voxelforge/internal/setter"
	"github.com/specialistvlad/voxelforge/internal/variable"
)

const (
	keyVariables    = "variables"
	keySetters      = "setters"
	keyConditions   = "conditions"
	keyInstructions = "instructions"
	keyProperties   = "properties"
	keyType         = "type"
	keyRotation     = "rotation"
	keyMirror       = "mirror"
)

// builder holds the state of one object build.
type builder struct {
	def     *config.Definition
	reg     *registry.Registry
	palette material.Lookup
	obj     *object.Object

	// scopes holds the instruction scopes by instruction key.
	scopes map[string]*variable.Scope
}

// Build constructs the object described by def. The returned object has
// not been randomized yet.
func Build(ctx context.Context, def *config.Definition, reg *registry.Registry, palette material.Lookup) (*object.Object, error) {
	logger := ctxlog.FromContext(ctx).With("source", def.Source, "object", def.Name)
	logger.Debug("Build: Starting object construction.")

	obj, err := build(def, reg, palette)
	if err != nil {
		var be *BuildError
		if !errors.As(err, &be) {
			be = &BuildError{Err: err}
		}
		be.Source = def.Source
		return nil, be
	}

	logger.Debug("Build: Object construction successful.",
		"variables", len(obj.Scope().Variables()),
		"conditions", len(obj.Conditions()),
		"instructions", len(obj.Instructions()),
	)
	return obj, nil
}

func build(def *config.Definition, reg *registry.Registry, palette material.Lookup) (*object.Object, error) {
	if def.Name == "" {
		return nil, fail("name", "object name is empty")
	}
	root := def.Root
	if root == nil {
		root = config.NewSection("")
	}
	b := &builder{
		def:     def,
		reg:     reg,
		palette: palette,
		obj:     object.New(def.Name, def.Source, variable.NewScope(def.Name, nil)),
		scopes:  make(map[string]*variable.Scope),
	}

	if err := b.orientation(root); err != nil {
		return nil, err
	}

	// Phase 1 and 2: declare every variable, then wire them.
	instructions, err := sectionChildren(root, keyInstructions)
	if err != nil {
		return nil, err
	}
	if err := declare(b.obj.Scope(), root); err != nil {
		return nil, err
	}
	for _, e := range instructions {
		scope := variable.NewScope(def.Name+"."+e.Key, b.obj.Scope())
		if err := declare(scope, e.Section); err != nil {
			return nil, err
		}
		b.scopes[e.Key] = scope
	}
	if err := b.wire(root, instructions); err != nil {
		return nil, err
	}

	// Phase 3: setters, conditions, instructions.
	if err := b.setters(root); err != nil {
		return nil, err
	}
	if err := b.conditions(root); err != nil {
		return nil, err
	}
	for _, e := range instructions {
		if err := b.instruction(e.Key, e.Section); err != nil {
			return nil, err
		}
	}
	return b.obj, nil
}

func (b *builder) orientation(root *config.Section) error {
	rotation, mirror := 0, false
	if text, ok := root.Scalar(keyRotation); ok {
		deg, err := strconv.Atoi(text)
		if err != nil {
			return wrap(root.KeyPath(keyRotation), err)
		}
		if rotation, err = geometry.QuarterTurns(deg); err != nil {
			return wrap(root.KeyPath(keyRotation), err)
		}
	}
	if root.Has(keyMirror) {
		var err error
		if mirror, err = readBool(root, keyMirror); err != nil {
			return err
		}
	}
	b.obj.SetOrientation(rotation, mirror)
	return nil
}

// sectionChildren returns the entries of the optional section under key,
// each of which must itself be a section.
func sectionChildren(s *config.Section, key string) ([]*config.Entry, error) {
	e, ok := s.Lookup(key)
	if !ok {
		return nil, nil
	}
	if e.Kind != config.KindSection {
		return nil, fail(s.KeyPath(key), "expected a section, got a %s", e.Kind)
	}
	for _, child := range e.Section.Entries() {
		if child.Kind != config.KindSection {
			return nil, fail(e.Section.KeyPath(child.Key), "expected a section, got a %s", child.Kind)
		}
	}
	return e.Section.Entries(), nil
}

// declare adds the variables listed under s.variables to scope.
func declare(scope *variable.Scope, s *config.Section) error {
	e, ok := s.Lookup(keyVariables)
	if !ok {
		return nil
	}
	if e.Kind != config.KindSection {
		return fail(s.KeyPath(keyVariables), "expected a section, got a %s", e.Kind)
	}
	for _, v := range e.Section.Entries() {
		path := e.Section.KeyPath(v.Key)
		if v.Kind != config.KindScalar {
			return fail(path, "expected an expression, got a %s", v.Kind)
		}
		if _, err := scope.Declare(v.Key, v.Scalar); err != nil {
			return wrap(path, err)
		}
	}
	return nil
}

// wire binds every declared variable and rejects dependency cycles.
func (b *builder) wire(root *config.Section, instructions []*config.Entry) error {
	if err := b.obj.Scope().Wire(); err != nil {
		return wrap(root.KeyPath(keyVariables), err)
	}
	for _, e := range instructions {
		if err := b.scopes[e.Key].Wire(); err != nil {
			return wrap(e.Section.KeyPath(keyVariables), err)
		}
	}

	g := dag.New()
	ids := make(map[*variable.Variable]string)
	scopes := []*variable.Scope{b.obj.Scope()}
	for _, e := range instructions {
		scopes = append(scopes, b.scopes[e.Key])
	}
	for _, scope := range scopes {
		for _, v := range scope.Variables() {
			id := scope.Name() + "." + v.Name()
			ids[v] = id
			g.AddNode(id)
		}
	}
	for _, scope := range scopes {
		for _, v := range scope.Variables() {
			for _, ref := range v.References() {
				if err := g.AddEdge(ids[v], ids[ref]); err != nil {
					return wrap(keyVariables, err)
				}
			}
		}
	}
	if err := g.DetectCycles(); err != nil {
		return wrap(keyVariables, err)
	}
	return nil
}

func (b *builder) setters(root *config.Section) error {
	entries, err := sectionChildren(root, keySetters)
	if err != nil {
		return err
	}
	for _, e := range entries {
		typ, err := requireScalar(e.Section, keyType)
		if err != nil {
			return err
		}
		factory, err := b.reg.Setter(typ)
		if err != nil {
			return wrap(e.Section.KeyPath(keyType), err)
		}
		s := factory(e.Key)
		if err := s.Configure(payload(e.Section), b.palette); err != nil {
			var cfgErr *setter.ConfigError
			if errors.As(err, &cfgErr) {
				return wrap(cfgErr.Key, err)
			}
			return wrap(e.Section.Path(), err)
		}
		if err := b.obj.AddSetter(s); err != nil {
			return wrap(e.Section.Path(), err)
		}
	}
	return nil
}

func (b *builder) conditions(root *config.Section) error {
	entries, err := sectionChildren(root, keyConditions)
	if err != nil {
		return err
	}
	reader := valueReader(b.obj.Scope())
	for _, e := range entries {
		s := e.Section
		vol, err := b.volume(s, reader)
		if err != nil {
			return err
		}

		mode := geometry.ModeAll
		if text, ok := s.Scalar("mode"); ok {
			if mode, err = geometry.ParseMode(text); err != nil {
				return wrap(s.KeyPath("mode"), err)
			}
		}

		names, ok := s.List("check")
		if !ok {
			return fail(s.KeyPath("check"), "missing material list")
		}
		ids := make([]material.ID, 0, len(names))
		for _, name := range names {
			m, err := b.palette.TryGetBlockMaterial(name)
			if err != nil {
				return wrap(s.KeyPath("check"), err)
			}
			ids = append(ids, m.ID)
		}

		if err := b.obj.AddCondition(geometry.NewCondition(e.Key, vol, mode, ids...)); err != nil {
			return wrap(s.Path(), err)
		}
	}
	return nil
}

// volume builds the volume of a shape or condition section. The type is
// read from "type", or from "shape" as conditions spell it.
func (b *builder) volume(s *config.Section, read registry.ValueReader) (geometry.Volume, error) {
	key := keyType
	if !s.Has(key) && s.Has("shape") {
		key = "shape"
	}
	typ, err := requireScalar(s, key)
	if err != nil {
		return nil, err
	}
	factory, err := b.reg.Volume(typ)
	if err != nil {
		return nil, wrap(s.KeyPath(key), err)
	}
	size, ok := s.Child("size")
	if !ok {
		return nil, fail(s.KeyPath("size"), "missing size section")
	}
	position, _ := s.Child("position")
	if s.Has("position") && position == nil {
		return nil, fail(s.KeyPath("position"), "expected a section")
	}
	return factory(size, position, read)
}

func (b *builder) instruction(name string, s *config.Section) error {
	typ, err := requireScalar(s, keyType)
	if err != nil {
		return err
	}
	factory, err := b.reg.Instruction(typ)
	if err != nil {
		return wrap(s.KeyPath(keyType), err)
	}
	env := &instructionEnv{b: b, name: name, scope: b.scopes[name], props: payload(s)}
	in, err := factory(env)
	if err != nil {
		var be *BuildError
		if errors.As(err, &be) {
			return err
		}
		return wrap(s.Path(), err)
	}
	if err := b.obj.AddInstruction(in); err != nil {
		return wrap(s.Path(), err)
	}
	return nil
}

// payload returns s.properties when present, otherwise s itself.
func payload(s *config.Section) *config.Section {
	if p, ok := s.Child(keyProperties); ok {
		return p
	}
	return s
}

func requireScalar(s *config.Section, key string) (string, error) {
	e, ok := s.Lookup(key)
	if !ok {
		return "", fail(s.KeyPath(key), "missing key")
	}
	if e.Kind != config.KindScalar {
		return "", fail(s.KeyPath(key), "expected a value, got a %s", e.Kind)
	}
	return e.Scalar, nil
}

func readBool(s *config.Section, key string) (bool, error) {
	text, err := requireScalar(s, key)
	if err != nil {
		return false, err
	}
	v, err := strconv.ParseBool(text)
	if err != nil {
		return false, wrap(s.KeyPath(key), err)
	}
	return v, nil
}

// valueReader parses expressions against scope and reports failures with
// their key path.
func valueReader(scope *variable.Scope) registry.ValueReader {
	return func(s *config.Section, key string) (expr.Value, error) {
		text, err := requireScalar(s, key)
		if err != nil {
			return nil, err
		}
		v, err := scope.ParseValue(text)
		if err != nil {
			return nil, wrap(s.KeyPath(key), err)
		}
		return v, nil
	}
}
