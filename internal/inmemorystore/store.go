package inmemorystore

import (
	"context"
	"math"
	"sync"

	"github.com/specialistvlad/voxelforge/internal/material"
	"github.com/specialistvlad/voxelforge/internal/world"
)

// Store is a sparse voxel store. Only non-air voxels are kept; reading an
// unwritten coordinate yields material.Air.
//
// # Concurrency Model
//
// Blocks live in a sync.Map keyed by world.Point. Placement writes and
// condition reads touch independent keys, so no global lock is needed.
type Store struct {
	blocks  sync.Map // Key: world.Point, Value: world.Block
	minY    int
	maxY    int
	palette material.Lookup
}

// Option configures a Store.
type Option func(*Store)

// WithHeightLimits rejects access outside [minY, maxY].
func WithHeightLimits(minY, maxY int) Option {
	return func(s *Store) {
		s.minY, s.maxY = minY, maxY
	}
}

// WithPalette rejects writes of material identifiers the palette does not know.
func WithPalette(p material.Lookup) Option {
	return func(s *Store) {
		s.palette = p
	}
}

// New creates an empty, unbounded store.
func New(opts ...Option) *Store {
	s := &Store{minY: math.MinInt, maxY: math.MaxInt}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) check(op string, x, y, z int) error {
	if y < s.minY || y > s.maxY {
		return &world.AccessError{Op: op, X: x, Y: y, Z: z, Err: world.ErrOutOfBounds}
	}
	return nil
}

// Material returns the material at the given coordinates.
func (s *Store) Material(ctx context.Context, x, y, z int) (material.ID, error) {
	if err := s.check("read", x, y, z); err != nil {
		return 0, err
	}
	b, ok := s.blocks.Load(world.Point{X: x, Y: y, Z: z})
	if !ok {
		return material.Air, nil
	}
	return b.(world.Block).Material, nil
}

// SetMaterial stores a block. Writing air removes the entry.
func (s *Store) SetMaterial(ctx context.Context, x, y, z int, id material.ID, data int) error {
	if err := s.check("write", x, y, z); err != nil {
		return err
	}
	if s.palette != nil {
		if _, ok := s.palette.Material(id); !ok {
			return &world.AccessError{Op: "write", X: x, Y: y, Z: z, Err: world.ErrUnknownMaterial}
		}
	}
	p := world.Point{X: x, Y: y, Z: z}
	if id == material.Air {
		s.blocks.Delete(p)
		return nil
	}
	s.blocks.Store(p, world.Block{Material: id, Data: data})
	return nil
}

// Block returns the stored block at p, if any.
func (s *Store) Block(p world.Point) (world.Block, bool) {
	b, ok := s.blocks.Load(p)
	if !ok {
		return world.Block{}, false
	}
	return b.(world.Block), true
}

// Len returns the number of non-air voxels.
func (s *Store) Len() int {
	n := 0
	s.blocks.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}

// ForEach calls fn for every non-air voxel until fn returns false.
func (s *Store) ForEach(fn func(p world.Point, b world.Block) bool) {
	s.blocks.Range(func(k, v any) bool {
		return fn(k.(world.Point), v.(world.Block))
	})
}
