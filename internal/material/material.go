// Package material names the block materials an object may read or write.
package material

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// ID identifies a material in the world.
type ID uint16

// Air is the material of every voxel that was never written.
const Air ID = 0

// Material describes one entry of a palette. DefaultData is the intrinsic
// sub-type written when a setter asks for the default (-1).
type Material struct {
	ID          ID
	Name        string
	Block       bool
	DefaultData int
}

// Lookup resolves material names and identifiers.
type Lookup interface {
	// TryGetBlockMaterial resolves a placeable block material by name.
	TryGetBlockMaterial(name string) (Material, error)
	// Material returns the material with the given identifier.
	Material(id ID) (Material, bool)
}

var (
	ErrEmptyName = errors.New("material name is empty")
	ErrUnknown   = errors.New("unknown material")
	ErrNotBlock  = errors.New("material is not a block")
)

// LookupError explains why a material name was rejected.
type LookupError struct {
	Name string
	Err  error
}

func (e *LookupError) Error() string {
	if e.Name == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%v: %q", e.Err, e.Name)
}

func (e *LookupError) Unwrap() error { return e.Err }

// Palette is an immutable name/identifier index of materials.
type Palette struct {
	byName map[string]Material
	byID   map[ID]Material
	order  []string
}

// NewPalette indexes the given materials. Names are case-insensitive and
// both names and identifiers must be unique.
func NewPalette(materials ...Material) (*Palette, error) {
	p := &Palette{
		byName: make(map[string]Material, len(materials)),
		byID:   make(map[ID]Material, len(materials)),
	}
	for _, m := range materials {
		key := normalize(m.Name)
		if key == "" {
			return nil, fmt.Errorf("material %d has no name", m.ID)
		}
		if _, ok := p.byName[key]; ok {
			return nil, fmt.Errorf("duplicate material name %q", m.Name)
		}
		if other, ok := p.byID[m.ID]; ok {
			return nil, fmt.Errorf("materials %q and %q share id %d", other.Name, m.Name, m.ID)
		}
		m.Name = key
		p.byName[key] = m
		p.byID[m.ID] = m
		p.order = append(p.order, key)
	}
	return p, nil
}

// TryGetBlockMaterial fails for empty, unknown and non-block names.
func (p *Palette) TryGetBlockMaterial(name string) (Material, error) {
	key := normalize(name)
	if key == "" {
		return Material{}, &LookupError{Err: ErrEmptyName}
	}
	m, ok := p.byName[key]
	if !ok {
		return Material{}, &LookupError{Name: name, Err: ErrUnknown}
	}
	if !m.Block {
		return Material{}, &LookupError{Name: name, Err: ErrNotBlock}
	}
	return m, nil
}

func (p *Palette) Material(id ID) (Material, bool) {
	m, ok := p.byID[id]
	return m, ok
}

// Names returns material names in palette order.
func (p *Palette) Names() []string {
	return slices.Clone(p.order)
}

func normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
