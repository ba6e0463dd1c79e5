package builder

import (
	"github.com/specialistvlad/voxelforge/internal/config"
	"github.com/specialistvlad/voxelforge/internal/expr"
	"github.com/specialistvlad/voxelforge/internal/geometry"
	"github.com/specialistvlad/voxelforge/internal/registry"
)

// readAxis reads the first present key of keys.
func readAxis(s *config.Section, read registry.ValueReader, keys ...string) (expr.Value, error) {
	for _, k := range keys {
		if s.Has(k) {
			return read(s, k)
		}
	}
	return nil, fail(s.KeyPath(keys[0]), "missing key")
}

func readVec(s *config.Section, read registry.ValueReader, x, y, z []string) (geometry.Vec3, error) {
	var v geometry.Vec3
	var err error
	if v.X, err = readAxis(s, read, x...); err != nil {
		return v, err
	}
	if v.Y, err = readAxis(s, read, y...); err != nil {
		return v, err
	}
	if v.Z, err = readAxis(s, read, z...); err != nil {
		return v, err
	}
	return v, nil
}

// readPosition reads x/y/z from position. Missing keys are zero.
func readPosition(position *config.Section, read registry.ValueReader) (geometry.Vec3, error) {
	axis := func(key string) (expr.Value, error) {
		if position == nil || !position.Has(key) {
			return expr.NewConstant(0), nil
		}
		return read(position, key)
	}
	var v geometry.Vec3
	var err error
	if v.X, err = axis("x"); err != nil {
		return v, err
	}
	if v.Y, err = axis("y"); err != nil {
		return v, err
	}
	if v.Z, err = axis("z"); err != nil {
		return v, err
	}
	return v, nil
}

func newCuboid(size, position *config.Section, read registry.ValueReader) (geometry.Volume, error) {
	pos, err := readPosition(position, read)
	if err != nil {
		return nil, err
	}
	dims, err := readVec(size, read,
		[]string{"x", "length"},
		[]string{"y", "height"},
		[]string{"z", "depth"},
	)
	if err != nil {
		return nil, err
	}
	return &geometry.Cuboid{Position: pos, Size: dims}, nil
}

func newSphere(size, position *config.Section, read registry.ValueReader) (geometry.Volume, error) {
	pos, err := readPosition(position, read)
	if err != nil {
		return nil, err
	}
	radii, err := readVec(size, read,
		[]string{"radiusX", "radius"},
		[]string{"radiusY", "radius"},
		[]string{"radiusZ", "radius"},
	)
	if err != nil {
		return nil, err
	}
	return &geometry.Sphere{Position: pos, Size: radii}, nil
}
