package object

import (
	"context"
	"errors"
	"math/rand/v2"
	"testing"

	"github.com/specialistvlad/voxelforge/internal/config"
	"github.com/specialistvlad/voxelforge/internal/expr"
	"github.com/specialistvlad/voxelforge/internal/geometry"
	"github.com/specialistvlad/voxelforge/internal/inmemorystore"
	"github.com/specialistvlad/voxelforge/internal/instruction"
	"github.com/specialistvlad/voxelforge/internal/material"
	"github.com/specialistvlad/voxelforge/internal/setter"
	"github.com/specialistvlad/voxelforge/internal/variable"
	"github.com/specialistvlad/voxelforge/internal/world"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bound(t *testing.T, s *variable.Scope, texts ...string) geometry.Vec3 {
	t.Helper()
	var v [3]expr.Value
	for i, text := range texts {
		val, err := s.ParseValue(text)
		require.NoError(t, err)
		v[i] = val
	}
	return geometry.Vec3{X: v[0], Y: v[1], Z: v[2]}
}

// pillar builds an object declaring h = ranI=2,4 that stacks h stone
// blocks on a grass footprint.
func pillar(t *testing.T) *Object {
	t.Helper()
	scope := variable.NewScope("pillar", nil)
	_, err := scope.Declare("h", "ranI=2,4")
	require.NoError(t, err)
	require.NoError(t, scope.Wire())

	o := New("pillar", "pillar.hcl", scope)

	props := config.NewSection("setters.stone.properties")
	require.NoError(t, props.SetScalar("material", "stone"))
	st := setter.NewSimple("stone")
	require.NoError(t, st.Configure(props, material.DefaultPalette()))
	require.NoError(t, o.AddSetter(st))

	ground := geometry.NewCondition("ground",
		&geometry.Cuboid{Position: bound(t, scope, "0", "-1", "0"), Size: bound(t, scope, "1", "1", "1")},
		geometry.ModeAll, 2)
	require.NoError(t, o.AddCondition(ground))

	shapeScope := variable.NewScope("column", scope)
	column := instruction.NewShapePlacement("column", shapeScope, &geometry.Shape{
		Name:   "column",
		Volume: &geometry.Cuboid{Position: bound(t, shapeScope, "0", "0", "0"), Size: bound(t, shapeScope, "1", "h", "1")},
		Setter: st,
	})
	require.NoError(t, o.AddInstruction(column))
	return o
}

func TestPlaceAfterRandomize(t *testing.T) {
	ctx := context.Background()
	o := pillar(t)
	require.NoError(t, o.Randomize(rand.New(rand.NewPCG(9, 9))))
	h, _ := o.Scope().Lookup("h")

	store := inmemorystore.New()
	ok, err := o.CanPlace(ctx, store, 0, 0, 0)
	require.NoError(t, err)
	assert.False(t, ok, "air below the footprint")

	require.NoError(t, store.SetMaterial(ctx, 0, -1, 0, 2, 0))
	ok, err = o.CanPlace(ctx, store, 0, 0, 0)
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, o.Place(ctx, store, 0, 0, 0, nil))
	assert.Equal(t, int(h.Value())+1, store.Len())
	assert.Equal(t, world.Point{}, o.Transform().Origin)
}

func TestRandomizeGivesConsistentSnapshot(t *testing.T) {
	ctx := context.Background()
	o := pillar(t)
	rng := rand.New(rand.NewPCG(1, 2))
	h, _ := o.Scope().Lookup("h")

	for range 20 {
		require.NoError(t, o.Randomize(rng))
		store := inmemorystore.New()
		require.NoError(t, o.Place(ctx, store, 5, 5, 5, nil))
		assert.Equal(t, int(h.Value()), store.Len())
		assert.GreaterOrEqual(t, h.Value(), 2.0)
		assert.LessOrEqual(t, h.Value(), 4.0)
	}
}

func TestCanPlaceWithoutConditions(t *testing.T) {
	o := New("empty", "", variable.NewScope("empty", nil))
	require.NoError(t, o.Randomize(nil))
	ok, err := o.CanPlace(context.Background(), inmemorystore.New(), 1, 2, 3)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.NoError(t, o.Place(context.Background(), inmemorystore.New(), 1, 2, 3, nil))
}

func TestCanPlacePropagatesWorldErrors(t *testing.T) {
	o := pillar(t)
	require.NoError(t, o.Randomize(nil))
	_, err := o.CanPlace(context.Background(), inmemorystore.New(inmemorystore.WithHeightLimits(0, 10)), 0, 0, 0)
	var access *world.AccessError
	assert.True(t, errors.As(err, &access))
}

func TestOrientation(t *testing.T) {
	ctx := context.Background()
	o := pillar(t)
	require.NoError(t, o.Randomize(nil))
	o.SetOrientation(2, true)
	assert.Equal(t, 2, o.Transform().Rotation)
	assert.True(t, o.Transform().MirrorX)

	store := inmemorystore.New()
	require.NoError(t, o.Place(ctx, store, 10, 0, 10, nil))
	_, ok := store.Block(world.Point{X: 10, Y: 0, Z: 10})
	assert.True(t, ok)
}

func TestDuplicateNames(t *testing.T) {
	o := pillar(t)
	st, ok := o.Setter("stone")
	require.True(t, ok)
	assert.ErrorIs(t, o.AddSetter(st), ErrDuplicateName)
	assert.ErrorIs(t, o.AddCondition(o.Conditions()[0]), ErrDuplicateName)

	in, ok := o.Instruction("column")
	require.True(t, ok)
	assert.ErrorIs(t, o.AddInstruction(in), ErrDuplicateName)
	assert.Equal(t, []string{"stone"}, o.SetterNames())
	assert.Len(t, o.Instructions(), 1)
}
