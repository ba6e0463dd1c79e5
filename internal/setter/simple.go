package setter

import (
	"context"
	"math/rand/v2"

	"github.com/specialistvlad/voxelforge/internal/config"
	"github.com/specialistvlad/voxelforge/internal/material"
	"github.com/specialistvlad/voxelforge/internal/world"
)

// Simple always writes the same material, whatever the role.
type Simple struct {
	name   string
	choice Choice
}

func NewSimple(name string) Setter { return &Simple{name: name} }

func (s *Simple) Name() string { return s.name }

func (s *Simple) Configure(props *config.Section, palette material.Lookup) error {
	c, err := readChoice(props, palette)
	if err != nil {
		return err
	}
	s.choice = c
	return nil
}

func (s *Simple) SetMaterial(ctx context.Context, w world.World, x, y, z int, _ bool, _ *rand.Rand) error {
	return s.choice.write(ctx, w, x, y, z)
}

// InnerOuter writes one of two materials depending on the role.
type InnerOuter struct {
	name         string
	inner, outer Choice
}

func NewInnerOuter(name string) Setter { return &InnerOuter{name: name} }

func (s *InnerOuter) Name() string { return s.name }

func (s *InnerOuter) Configure(props *config.Section, palette material.Lookup) error {
	inner, err := child(props, "inner")
	if err != nil {
		return err
	}
	outer, err := child(props, "outer")
	if err != nil {
		return err
	}
	if s.inner, err = readChoice(inner, palette); err != nil {
		return err
	}
	if s.outer, err = readChoice(outer, palette); err != nil {
		return err
	}
	return nil
}

func (s *InnerOuter) SetMaterial(ctx context.Context, w world.World, x, y, z int, outer bool, _ *rand.Rand) error {
	if outer {
		return s.outer.write(ctx, w, x, y, z)
	}
	return s.inner.write(ctx, w, x, y, z)
}
