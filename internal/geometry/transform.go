package geometry

import (
	"fmt"

	"github.com/specialistvlad/voxelforge/internal/world"
)

// Transform maps object-local coordinates to world coordinates: mirror on
// X first, then rotate about the Y axis, then translate by Origin.
type Transform struct {
	Origin world.Point
	// Rotation is the number of clockwise quarter turns, 0 to 3.
	Rotation int
	MirrorX  bool
}

// Apply maps a local coordinate to the world.
func (t Transform) Apply(lx, ly, lz int) (int, int, int) {
	if t.MirrorX {
		lx = -lx
	}
	switch t.Rotation & 3 {
	case 1:
		lx, lz = -lz, lx
	case 2:
		lx, lz = -lx, -lz
	case 3:
		lx, lz = lz, -lx
	}
	return t.Origin.X + lx, t.Origin.Y + ly, t.Origin.Z + lz
}

// At returns a copy of t with a new origin.
func (t Transform) At(x, y, z int) Transform {
	t.Origin = world.Point{X: x, Y: y, Z: z}
	return t
}

// QuarterTurns converts a rotation in degrees to quarter turns. Only
// multiples of 90 are accepted; negative angles rotate counter-clockwise.
func QuarterTurns(degrees int) (int, error) {
	if degrees%90 != 0 {
		return 0, fmt.Errorf("rotation %d is not a multiple of 90 degrees", degrees)
	}
	return ((degrees/90)%4 + 4) % 4, nil
}
