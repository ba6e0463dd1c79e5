package geometry

import (
	"context"
	"fmt"
	"strings"

	"github.com/specialistvlad/voxelforge/internal/material"
	"github.com/specialistvlad/voxelforge/internal/world"
)

// Mode selects how a Condition treats its material set.
type Mode int

const (
	// ModeAll requires every voxel to be one of the materials.
	ModeAll Mode = iota
	// ModeNone requires no voxel to be one of the materials.
	ModeNone
)

func (m Mode) String() string {
	if m == ModeNone {
		return "NONE"
	}
	return "ALL"
}

// ParseMode accepts "all" and "none" in any case.
func ParseMode(s string) (Mode, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "ALL":
		return ModeAll, nil
	case "NONE":
		return ModeNone, nil
	default:
		return 0, fmt.Errorf("unknown condition mode %q, expected ALL or NONE", s)
	}
}

// Condition is a pre-placement predicate over a volume of the world.
type Condition struct {
	Name      string
	Volume    Volume
	Mode      Mode
	Materials map[material.ID]struct{}
}

// NewCondition builds a Condition over the given material set.
func NewCondition(name string, v Volume, mode Mode, materials ...material.ID) *Condition {
	set := make(map[material.ID]struct{}, len(materials))
	for _, id := range materials {
		set[id] = struct{}{}
	}
	return &Condition{Name: name, Volume: v, Mode: mode, Materials: set}
}

// Check walks the volume and stops at the first voxel that violates the mode.
func (c *Condition) Check(ctx context.Context, w world.World, t Transform) (bool, error) {
	want := c.Mode == ModeAll
	return c.Volume.Walk(func(x, y, z int) (bool, error) {
		wx, wy, wz := t.Apply(x, y, z)
		id, err := w.Material(ctx, wx, wy, wz)
		if err != nil {
			return false, err
		}
		_, in := c.Materials[id]
		return in == want, nil
	})
}
