// Package setter maps the inner/outer role of a voxel to a concrete block
// write.
package setter

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"

	"github.com/specialistvlad/voxelforge/internal/config"
	"github.com/specialistvlad/voxelforge/internal/material"
	"github.com/specialistvlad/voxelforge/internal/world"
)

// DefaultData asks for the material's intrinsic sub-type.
const DefaultData = -1

// Setter writes one voxel on behalf of a shape or block instruction.
type Setter interface {
	Name() string
	// Configure reads the setter's properties. It fails with *ConfigError.
	Configure(props *config.Section, palette material.Lookup) error
	// SetMaterial writes the voxel. Randomized setters draw from rng on
	// every call.
	SetMaterial(ctx context.Context, w world.World, x, y, z int, outer bool, rng *rand.Rand) error
}

// ConfigError reports a missing or invalid setter property.
type ConfigError struct {
	Key    string
	Reason string
	Err    error
}

func (e *ConfigError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("setter property %q: %s: %v", e.Key, e.Reason, e.Err)
	}
	return fmt.Sprintf("setter property %q: %s", e.Key, e.Reason)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// Choice is a material plus the data value to write with it.
type Choice struct {
	Material material.Material
	Data     int
}

// data resolves the DefaultData sentinel.
func (c Choice) data() int {
	if c.Data == DefaultData {
		return c.Material.DefaultData
	}
	return c.Data
}

func (c Choice) write(ctx context.Context, w world.World, x, y, z int) error {
	return w.SetMaterial(ctx, x, y, z, c.Material.ID, c.data())
}

// readChoice reads the "material" and optional "data" keys of s.
func readChoice(s *config.Section, palette material.Lookup) (Choice, error) {
	name, ok := s.Scalar("material")
	if !ok {
		return Choice{}, &ConfigError{Key: s.KeyPath("material"), Reason: "missing material"}
	}
	m, err := palette.TryGetBlockMaterial(name)
	if err != nil {
		return Choice{}, &ConfigError{Key: s.KeyPath("material"), Reason: "invalid material", Err: err}
	}
	data, err := readData(s, DefaultData)
	if err != nil {
		return Choice{}, err
	}
	return Choice{Material: m, Data: data}, nil
}

func readData(s *config.Section, fallback int) (int, error) {
	raw, ok := s.Scalar("data")
	if !ok {
		if s.Has("data") {
			return 0, &ConfigError{Key: s.KeyPath("data"), Reason: "must be a number"}
		}
		return fallback, nil
	}
	data, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, &ConfigError{Key: s.KeyPath("data"), Reason: "must be an integer", Err: err}
	}
	if data < DefaultData {
		return 0, &ConfigError{Key: s.KeyPath("data"), Reason: "must be -1 or greater"}
	}
	return data, nil
}

func child(s *config.Section, key string) (*config.Section, error) {
	c, ok := s.Child(key)
	if !ok {
		return nil, &ConfigError{Key: s.KeyPath(key), Reason: "missing section"}
	}
	return c, nil
}
