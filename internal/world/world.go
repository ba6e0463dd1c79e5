// Package world defines the block-grid capability objects are checked
// against and placed into.
package world

import (
	"context"
	"errors"
	"fmt"

	"github.com/specialistvlad/voxelforge/internal/material"
)

// Point is an integer voxel coordinate.
type Point struct {
	X, Y, Z int
}

func (p Point) String() string {
	return fmt.Sprintf("(%d, %d, %d)", p.X, p.Y, p.Z)
}

// Block is the content of one voxel.
type Block struct {
	Material material.ID
	Data     int
}

// World reads and writes block materials at integer coordinates.
// Implementations report failures as *AccessError.
type World interface {
	Material(ctx context.Context, x, y, z int) (material.ID, error)
	SetMaterial(ctx context.Context, x, y, z int, id material.ID, data int) error
}

var (
	ErrOutOfBounds     = errors.New("coordinates out of bounds")
	ErrUnknownMaterial = errors.New("unknown material")
)

// AccessError is a failed world read or write.
type AccessError struct {
	Op      string
	X, Y, Z int
	Err     error
}

func (e *AccessError) Error() string {
	return fmt.Sprintf("world %s at (%d, %d, %d): %v", e.Op, e.X, e.Y, e.Z, e.Err)
}

func (e *AccessError) Unwrap() error { return e.Err }

// Fill writes id into every voxel of the inclusive box spanned by a and b.
func Fill(ctx context.Context, w World, a, b Point, id material.ID, data int) error {
	lo := Point{min(a.X, b.X), min(a.Y, b.Y), min(a.Z, b.Z)}
	hi := Point{max(a.X, b.X), max(a.Y, b.Y), max(a.Z, b.Z)}
	for x := lo.X; x <= hi.X; x++ {
		for y := lo.Y; y <= hi.Y; y++ {
			for z := lo.Z; z <= hi.Z; z++ {
				if err := w.SetMaterial(ctx, x, y, z, id, data); err != nil {
					return err
				}
			}
		}
	}
	return nil
}
