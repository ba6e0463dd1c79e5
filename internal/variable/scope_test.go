package variable

import (
	"errors"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildScope declares the given name/expression pairs in order and wires them.
func buildScope(t *testing.T, parent *Scope, pairs ...string) *Scope {
	t.Helper()
	require.Zero(t, len(pairs)%2)
	s := NewScope("test", parent)
	for i := 0; i < len(pairs); i += 2 {
		_, err := s.Declare(pairs[i], pairs[i+1])
		require.NoError(t, err)
	}
	require.NoError(t, s.Wire())
	return s
}

func value(t *testing.T, s *Scope, name string) float64 {
	t.Helper()
	v, ok := s.Lookup(name)
	require.True(t, ok, "variable %q", name)
	return v.Value()
}

func TestDependencyPropagation(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 7))

	s := buildScope(t, nil, "b", "a+1", "a", "3")
	require.NoError(t, s.Calculate(rng))
	assert.Equal(t, 4.0, value(t, s, "b"))

	s = buildScope(t, nil, "b", "a+1", "a", "ranI=10,10")
	require.NoError(t, s.Calculate(rng))
	assert.Equal(t, 11.0, value(t, s, "b"))
}

func TestDependencyOrderAcrossChain(t *testing.T) {
	s := buildScope(t, nil,
		"d", "c * 2",
		"c", "b + a",
		"b", "a * 10",
		"a", "ranI=1,1",
	)
	require.NoError(t, s.Calculate(nil))
	assert.Equal(t, 1.0, value(t, s, "a"))
	assert.Equal(t, 10.0, value(t, s, "b"))
	assert.Equal(t, 11.0, value(t, s, "c"))
	assert.Equal(t, 22.0, value(t, s, "d"))

	c, _ := s.Lookup("c")
	names := []string{}
	for _, r := range c.References() {
		names = append(names, r.Name())
	}
	assert.ElementsMatch(t, []string{"a", "b"}, names)
}

func TestScopeChain(t *testing.T) {
	object := buildScope(t, nil, "a", "3", "size", "5")
	require.NoError(t, object.Calculate(nil))

	t.Run("inner scope reads outer variables", func(t *testing.T) {
		inner := buildScope(t, object, "c", "a * size")
		require.NoError(t, inner.Calculate(nil))
		assert.Equal(t, 15.0, value(t, inner, "c"))
	})

	t.Run("inner declarations shadow outer ones", func(t *testing.T) {
		inner := buildScope(t, object, "c", "a * 2", "a", "100")
		require.NoError(t, inner.Calculate(nil))
		assert.Equal(t, 200.0, value(t, inner, "c"))
		assert.Equal(t, 3.0, value(t, object, "a"))
	})

	t.Run("resolve walks innermost first", func(t *testing.T) {
		inner := buildScope(t, object, "a", "1")
		v, err := inner.Resolve("a")
		require.NoError(t, err)
		assert.Equal(t, "1", v.Expression().String())

		v, err = inner.Resolve("size")
		require.NoError(t, err)
		assert.Equal(t, "5", v.Expression().String())
	})

	t.Run("parse value binds through the chain", func(t *testing.T) {
		inner := buildScope(t, object, "k", "2")
		require.NoError(t, inner.Calculate(nil))
		v, err := inner.ParseValue("k + size")
		require.NoError(t, err)
		require.NoError(t, v.Calculate(nil))
		assert.Equal(t, 7.0, v.Value())
	})
}

func TestUnresolvedReference(t *testing.T) {
	s := NewScope("object", nil)
	_, err := s.Declare("b", "missing + 1")
	require.NoError(t, err)

	err = s.Wire()
	require.Error(t, err)
	var unresolved *UnresolvedReferenceError
	require.True(t, errors.As(err, &unresolved))
	assert.Equal(t, "missing", unresolved.Name)
	assert.Equal(t, "object", unresolved.Scope)

	_, err = s.ParseValue("nope * 2")
	assert.True(t, errors.As(err, &unresolved))
}

func TestDuplicateDeclaration(t *testing.T) {
	s := NewScope("object", nil)
	_, err := s.Declare("a", "1")
	require.NoError(t, err)
	_, err = s.Declare("a", "2")
	var dup *DuplicateError
	assert.True(t, errors.As(err, &dup))
}

func TestCycleDetection(t *testing.T) {
	t.Run("two variables", func(t *testing.T) {
		s := buildScope(t, nil, "a", "b + 1", "b", "a + 1", "c", "5")
		err := s.Calculate(nil)
		var cycle *CycleError
		require.True(t, errors.As(err, &cycle))
		assert.Equal(t, []string{"a", "b", "a"}, cycle.Cycle)
		assert.ErrorContains(t, err, "a -> b -> a")
	})

	t.Run("self reference", func(t *testing.T) {
		s := buildScope(t, nil, "a", "a + 1")
		err := s.Calculate(nil)
		var cycle *CycleError
		require.True(t, errors.As(err, &cycle))
		assert.Equal(t, []string{"a", "a"}, cycle.Cycle)
	})

	t.Run("variables outside the cycle keep prior values", func(t *testing.T) {
		s := buildScope(t, nil, "c", "5", "a", "b", "b", "a")
		err := s.Calculate(nil)
		require.Error(t, err)
		assert.Equal(t, 5.0, value(t, s, "c"))
	})
}

func TestCalculateSubset(t *testing.T) {
	s := buildScope(t, nil, "a", "3", "b", "a + 1")
	require.NoError(t, s.Calculate(nil))

	a, _ := s.Lookup("a")
	b, _ := s.Lookup("b")
	a.Expression().Set(7)

	require.NoError(t, Calculate(nil, []*Variable{b}))
	assert.Equal(t, 7.0, a.Value(), "a is outside the set and keeps its cached value")
	assert.Equal(t, 8.0, b.Value())
}

func TestCalculateWrapsEvaluationErrors(t *testing.T) {
	s := buildScope(t, nil, "zero", "0", "bad", "1 / zero")
	err := s.Calculate(nil)
	assert.ErrorContains(t, err, `variable "bad"`)
}

func TestAddReferenceIgnoresDuplicates(t *testing.T) {
	a := New("a", nil)
	b := New("b", nil)
	b.AddReference(a)
	b.AddReference(a)
	assert.Len(t, b.References(), 1)
}
