package builder

import (
	"context"
	"errors"
	"math/rand/v2"
	"os"
	"path/filepath"
	"testing"

	"github.com/specialistvlad/voxelforge/internal/config"
	"github.com/specialistvlad/voxelforge/internal/dag"
	"github.com/specialistvlad/voxelforge/internal/expr"
	"github.com/specialistvlad/voxelforge/internal/hcl_adapter"
	"github.com/specialistvlad/voxelforge/internal/material"
	"github.com/specialistvlad/voxelforge/internal/object"
	"github.com/specialistvlad/voxelforge/internal/registry"
	"github.com/specialistvlad/voxelforge/internal/testutil"
	"github.com/specialistvlad/voxelforge/internal/variable"
	"github.com/specialistvlad/voxelforge/internal/world"
	"github.com/specialistvlad/voxelforge/internal/yaml_adapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func definition(t *testing.T, name, content string) *config.Definition {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	loader, ok := config.Loaders{hcl_adapter.NewLoader(), yaml_adapter.NewLoader()}.ForFile(path)
	require.True(t, ok)
	defs, err := loader.Load(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, defs, 1)
	return defs[0]
}

func buildSource(t *testing.T, name, content string) (*object.Object, error) {
	t.Helper()
	ctx, _ := testutil.LogContext(t)
	return Build(ctx, definition(t, name, content), registry.New(Module{}), material.DefaultPalette())
}

func mustBuild(t *testing.T, name, content string) *object.Object {
	t.Helper()
	o, err := buildSource(t, name, content)
	require.NoError(t, err)
	return o
}

func TestBuildPillar(t *testing.T) {
	ctx := context.Background()
	o := mustBuild(t, "pillar.hcl", testutil.PillarHCL)
	assert.Equal(t, "pillar", o.Name())
	assert.Len(t, o.Conditions(), 1)
	assert.Len(t, o.Instructions(), 1)
	require.NoError(t, o.Randomize(rand.New(rand.NewPCG(1, 1))))

	w := testutil.NewWorld()
	ok, err := o.CanPlace(ctx, w, 0, 0, 0)
	require.NoError(t, err)
	assert.False(t, ok)

	testutil.Fill(t, w, world.Point{Y: -1}, world.Point{Y: -1}, 2)
	ok, err = o.CanPlace(ctx, w, 0, 0, 0)
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, o.Place(ctx, w, 0, 0, 0, nil))
	h, _ := o.Scope().Lookup("height")
	assert.Equal(t, int(h.Value())+1, w.Len())
}

func TestBuildStairsRepeat(t *testing.T) {
	o := mustBuild(t, "stairs.hcl", testutil.StairsHCL)
	require.NoError(t, o.Randomize(nil))

	rec := world.NewRecorder(testutil.NewWorld())
	require.NoError(t, o.Place(context.Background(), rec, 10, 0, 0, nil))

	var got []world.Point
	for _, c := range rec.Changes() {
		got = append(got, c.Point)
	}
	assert.Equal(t, []world.Point{
		{X: 10}, // tread runs once on its own
		{X: 10}, {X: 11, Y: 1}, {X: 12, Y: 2},
	}, got)

	i, _ := o.Scope().Lookup("i")
	assert.Equal(t, 3.0, i.Value())

	require.NoError(t, o.Randomize(nil))
	assert.Equal(t, 0.0, i.Value(), "randomize resets the accumulated increments")
}

func TestBuildBoulderYAML(t *testing.T) {
	o := mustBuild(t, "boulder.yaml", testutil.BoulderYAML)
	require.NoError(t, o.Randomize(nil))

	w := testutil.NewWorld()
	require.NoError(t, o.Place(context.Background(), w, 0, 0, 0, rand.New(rand.NewPCG(2, 2))))
	assert.Equal(t, 19, w.Len())
	_, ok := w.Block(world.Point{Y: 1})
	assert.True(t, ok, "the sphere is centred one radius above the origin")
}

func TestBuildInstructionScopes(t *testing.T) {
	src := `
object "post" {
  variables = { h = 2, x = 5 }
  setter "s" {
    type = "simple"
    properties = { material = "log" }
  }
  instruction "top" {
    type      = "block"
    variables = { x = 1, y = h + x }
    position  = { x = x, y = y, z = 0 }
    material  = "s"
  }
}
`
	o := mustBuild(t, "post.hcl", src)
	require.NoError(t, o.Randomize(nil))

	top, ok := o.Instruction("top")
	require.True(t, ok)
	y, ok := top.Scope().Lookup("y")
	require.True(t, ok)
	assert.Equal(t, 3.0, y.Value(), "instruction variables shadow object variables")

	w := testutil.NewWorld()
	require.NoError(t, o.Place(context.Background(), w, 0, 0, 0, nil))
	_, ok = w.Block(world.Point{X: 1, Y: 3})
	assert.True(t, ok)
}

func TestBuildOrientation(t *testing.T) {
	src := `
object "arm" {
  rotation = 90
  mirror   = true
  setter "s" {
    type = "simple"
    properties = { material = "stone" }
  }
  instruction "tip" {
    type     = "block"
    position = { x = 2, y = 0, z = 0 }
    material = "s"
  }
}
`
	o := mustBuild(t, "arm.hcl", src)
	assert.Equal(t, 1, o.Transform().Rotation)
	assert.True(t, o.Transform().MirrorX)
}

func isA[T error](err error) bool {
	var target T
	return errors.As(err, &target)
}

func TestBuildErrors(t *testing.T) {
	const simpleSetter = `
  setter "s" {
    type = "simple"
    properties = { material = "stone" }
  }`

	testCases := []struct {
		name  string
		body  string
		path  string
		cause func(error) bool
	}{
		{
			name: "unknown setter type",
			body: `setter "s" { type = "gradient" }`,
			path: "setters.s.type",
		},
		{
			name: "setter missing material",
			body: `setter "s" {
    type = "simple"
    properties = { data = 1 }
  }`,
			path: "setters.s.properties.material",
		},
		{
			name: "unknown setter reference",
			body: simpleSetter + `
  instruction "b" {
    type = "block"
    properties = {
      position = { x = 0, y = 0, z = 0 }
      material = "nope"
    }
  }`,
			path: "instructions.b.properties.material",
		},
		{
			name: "repeat forward reference",
			body: simpleSetter + `
  instruction "r" {
    type   = "repeat"
    repeat = "b"
    times  = 2
  }
  instruction "b" {
    type     = "block"
    position = { x = 0, y = 0, z = 0 }
    material = "s"
  }`,
			path: "instructions.r.repeat",
		},
		{
			name:  "unresolved variable",
			body:  `variables = { a = missing + 1 }`,
			path:  "variables",
			cause: isA[*variable.UnresolvedReferenceError],
		},
		{
			name:  "variable cycle",
			body:  `variables = { a = b + 1, b = a * 2 }`,
			path:  "variables",
			cause: isA[*dag.CycleError],
		},
		{
			name:  "malformed expression",
			body:  `variables = { a = "1 +" }`,
			path:  "variables.a",
			cause: isA[*expr.ParseError],
		},
		{
			name: "unknown check material",
			body: `condition "c" {
    type  = "cuboid"
    size  = { x = 1, y = 1, z = 1 }
    check = ["unobtainium"]
  }`,
			path: "conditions.c.check",
		},
		{
			name: "bad mode",
			body: `condition "c" {
    type  = "cuboid"
    mode  = "SOME"
    size  = { x = 1, y = 1, z = 1 }
    check = ["stone"]
  }`,
			path: "conditions.c.mode",
		},
		{
			name: "missing size",
			body: `condition "c" {
    type  = "sphere"
    check = ["stone"]
  }`,
			path: "conditions.c.size",
		},
		{
			name: "missing sphere radius",
			body: `condition "c" {
    type  = "sphere"
    size  = { radiusX = 1 }
    check = ["stone"]
  }`,
			path: "conditions.c.size.radiusY",
		},
		{
			name: "unknown instruction type",
			body: `instruction "i" { type = "teleport" }`,
			path: "instructions.i.type",
		},
		{
			name: "increment of unknown variable",
			body: simpleSetter + `
  instruction "b" {
    type     = "block"
    position = { x = 0, y = 0, z = 0 }
    material = "s"
  }
  instruction "r" {
    type      = "repeat"
    repeat    = "b"
    times     = 2
    increment = { ghost = 1 }
  }`,
			path: "instructions.r.increment.ghost",
		},
		{
			name: "rotation not a quarter turn",
			body: `rotation = 45`,
			path: "rotation",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := buildSource(t, "bad.hcl", "object \"bad\" {\n  "+tc.body+"\n}\n")
			require.Error(t, err)

			var be *BuildError
			require.True(t, errors.As(err, &be), "expected BuildError, got %T: %v", err, err)
			assert.Equal(t, tc.path, be.Path, "error: %v", err)
			assert.Contains(t, be.Source, "bad.hcl")
			if tc.cause != nil {
				assert.True(t, tc.cause(err), "unexpected cause: %v", err)
			}
		})
	}
}

func TestBuildEmptyName(t *testing.T) {
	_, err := Build(context.Background(), &config.Definition{Source: "x.yaml"}, registry.New(Module{}), material.DefaultPalette())
	var be *BuildError
	require.True(t, errors.As(err, &be))
	assert.Equal(t, "name", be.Path)
	assert.Equal(t, "x.yaml", be.Source)
}
