// Package catalog loads object definitions in batches and publishes each
// batch as an immutable generation.
//
// Loading is best-effort: a file or definition that fails is recorded as a
// Failure and logged, and the rest of the batch still loads. A finished
// batch replaces the previous generation in a single atomic swap, so
// readers see either the old set of objects or the new one.
package catalog

import (
	"context"
	"fmt"
	"math/rand/v2"
	"slices"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/specialistvlad/voxelforge/internal/builder"
	"github.com/specialistvlad/voxelforge/internal/config"
	"github.com/specialistvlad/voxelforge/internal/ctxlog"
	"github.com/specialistvlad/voxelforge/internal/fsutil"
	"github.com/specialistvlad/voxelforge/internal/material"
	"github.com/specialistvlad/voxelforge/internal/object"
	"github.com/specialistvlad/voxelforge/internal/registry"
)

// Failure is one definition, or one whole file, that did not load.
type Failure struct {
	Source string
	Object string
	Err    error
}

func (f Failure) Error() string {
	if f.Object == "" {
		return fmt.Sprintf("%s: %v", f.Source, f.Err)
	}
	return fmt.Sprintf("%s: object %q: %v", f.Source, f.Object, f.Err)
}

// Generation is the complete result of one LoadAll.
type Generation struct {
	ID       uuid.UUID
	LoadedAt time.Time
	Failures []Failure

	objects map[string]*object.Object
	names   []string
}

func newGeneration() *Generation {
	return &Generation{ID: uuid.New(), LoadedAt: time.Now(), objects: make(map[string]*object.Object)}
}

// Object looks up an object by name.
func (g *Generation) Object(name string) (*object.Object, bool) {
	o, ok := g.objects[name]
	return o, ok
}

// Names returns the object names, sorted.
func (g *Generation) Names() []string { return g.names }

// Len returns the number of loaded objects.
func (g *Generation) Len() int { return len(g.objects) }

// Catalog holds the current generation.
type Catalog struct {
	current  atomic.Pointer[Generation]
	loaders  config.Loaders
	registry *registry.Registry
	palette  material.Lookup
	rng      *rand.Rand
}

// Option configures a Catalog.
type Option func(*Catalog)

// WithRand sets the source used to randomize objects at load time.
func WithRand(rng *rand.Rand) Option {
	return func(c *Catalog) { c.rng = rng }
}

// New creates a Catalog with an empty generation.
func New(reg *registry.Registry, palette material.Lookup, loaders config.Loaders, opts ...Option) *Catalog {
	c := &Catalog{loaders: loaders, registry: reg, palette: palette}
	for _, opt := range opts {
		opt(c)
	}
	c.current.Store(newGeneration())
	return c
}

// Current returns the latest complete generation.
func (c *Catalog) Current() *Generation { return c.current.Load() }

// Object looks up an object in the current generation.
func (c *Catalog) Object(name string) (*object.Object, bool) {
	return c.Current().Object(name)
}

// LoadAll loads every definition file found under paths, randomizes each
// object once, and swaps the result in. It only fails when ctx is done.
func (c *Catalog) LoadAll(ctx context.Context, paths ...string) (*Generation, error) {
	gen := newGeneration()
	logger := ctxlog.FromContext(ctx).With("generation", gen.ID.String())
	ctx = ctxlog.WithLogger(ctx, logger)
	logger.Debug("Catalog load started.", "paths", paths)

	sources := make(map[string]string)
	fail := func(f Failure) {
		logger.Warn("Failed to load definition.", "source", f.Source, "object", f.Object, "error", f.Err)
		gen.Failures = append(gen.Failures, f)
	}

	for _, root := range paths {
		files, err := fsutil.FindFilesByExtension(root, c.loaders.Extensions()...)
		if err != nil {
			fail(Failure{Source: root, Err: err})
			continue
		}
		for _, file := range files {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			loader, ok := c.loaders.ForFile(file)
			if !ok {
				continue
			}
			defs, err := loader.Load(ctx, file)
			if err != nil {
				fail(Failure{Source: file, Err: err})
				continue
			}
			for _, def := range defs {
				if prev, dup := sources[def.Name]; dup {
					fail(Failure{Source: file, Object: def.Name, Err: fmt.Errorf("already defined in %s", prev)})
					continue
				}
				obj, err := builder.Build(ctx, def, c.registry, c.palette)
				if err != nil {
					fail(Failure{Source: file, Object: def.Name, Err: err})
					continue
				}
				if err := obj.Randomize(c.rng); err != nil {
					fail(Failure{Source: file, Object: def.Name, Err: err})
					continue
				}
				sources[def.Name] = file
				gen.objects[def.Name] = obj
				gen.names = append(gen.names, def.Name)
			}
		}
	}
	slices.Sort(gen.names)

	c.current.Store(gen)
	logger.Info("Catalog loaded.", "objects", gen.Len(), "failures", len(gen.Failures))
	return gen, nil
}
