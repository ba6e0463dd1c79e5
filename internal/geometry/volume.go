package geometry

import (
	"fmt"
	"math"

	"github.com/specialistvlad/voxelforge/internal/expr"
)

// Visitor receives one local coordinate. Returning false stops the walk.
type Visitor func(x, y, z int) (bool, error)

// Volume is a set of local voxel coordinates derived from size and
// position Values.
type Volume interface {
	// Values returns the size and position Values the volume reads.
	Values() []expr.Value
	// Walk calls visit for each coordinate of the volume and reports
	// whether the walk ran to the end.
	Walk(visit Visitor) (bool, error)
}

// Vec3 groups three Values, one per axis.
type Vec3 struct {
	X, Y, Z expr.Value
}

// Values returns the three axis Values.
func (v Vec3) Values() []expr.Value {
	return []expr.Value{v.X, v.Y, v.Z}
}

// Ints truncates the cached axis values toward zero.
func (v Vec3) Ints() (int, int, int) {
	return toInt(v.X), toInt(v.Y), toInt(v.Z)
}

func toInt(v expr.Value) int {
	return int(math.Trunc(v.Value()))
}

// Cuboid covers [0,sizeX) x [0,sizeY) x [0,sizeZ) offset by Position. It
// is walked x outer, y middle, z inner.
type Cuboid struct {
	Position Vec3
	Size     Vec3
}

func (c *Cuboid) Values() []expr.Value {
	return append(c.Position.Values(), c.Size.Values()...)
}

func (c *Cuboid) Walk(visit Visitor) (bool, error) {
	ox, oy, oz := c.Position.Ints()
	sx, sy, sz := c.Size.Ints()
	for xx := 0; xx < sx; xx++ {
		for yy := 0; yy < sy; yy++ {
			for zz := 0; zz < sz; zz++ {
				ok, err := visit(ox+xx, oy+yy, oz+zz)
				if err != nil || !ok {
					return false, err
				}
			}
		}
	}
	return true, nil
}

// Sphere is the ellipsoid centred on Position with the three radii in
// Size. A voxel at offset (dx,dy,dz) belongs to it when
// (dx/Rx)^2 + (dy/Ry)^2 + (dz/Rz)^2 <= 1 where R = radius + 0.5.
type Sphere struct {
	Position Vec3
	Size     Vec3
}

func (s *Sphere) Values() []expr.Value {
	return append(s.Position.Values(), s.Size.Values()...)
}

// mirrors lists the eight sign combinations applied to an octant offset.
var mirrors = [8][3]int{
	{1, 1, 1}, {-1, 1, 1}, {1, -1, 1}, {1, 1, -1},
	{-1, -1, 1}, {1, -1, -1}, {-1, 1, -1}, {-1, -1, -1},
}

// Walk scans the positive octant and mirrors each accepted offset eight
// ways. Offsets lying on an axis plane are visited more than once.
func (s *Sphere) Walk(visit Visitor) (bool, error) {
	cx, cy, cz := s.Position.Ints()
	rx, ry, rz := s.Size.X.Value(), s.Size.Y.Value(), s.Size.Z.Value()
	if rx < 0 || ry < 0 || rz < 0 {
		return false, fmt.Errorf("sphere radii must not be negative, got (%g, %g, %g)", rx, ry, rz)
	}
	rx, ry, rz = rx+0.5, ry+0.5, rz+0.5

	invX, invY, invZ := 1/rx, 1/ry, 1/rz
	ceilX, ceilY, ceilZ := int(math.Ceil(rx)), int(math.Ceil(ry)), int(math.Ceil(rz))

	nextXn := 0.0
forX:
	for xx := 0; xx <= ceilX; xx++ {
		xn := nextXn
		nextXn = float64(xx+1) * invX
		nextYn := 0.0
	forY:
		for yy := 0; yy <= ceilY; yy++ {
			yn := nextYn
			nextYn = float64(yy+1) * invY
			nextZn := 0.0
			for zz := 0; zz <= ceilZ; zz++ {
				zn := nextZn
				nextZn = float64(zz+1) * invZ

				if xn*xn+yn*yn+zn*zn > 1 {
					if zz == 0 {
						if yy == 0 {
							break forX
						}
						break forY
					}
					break
				}

				for _, m := range mirrors {
					ok, err := visit(cx+m[0]*xx, cy+m[1]*yy, cz+m[2]*zz)
					if err != nil || !ok {
						return false, err
					}
				}
			}
		}
	}
	return true, nil
}
