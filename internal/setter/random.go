package setter

import (
	"context"
	"math"
	"math/rand/v2"
	"strconv"
	"strings"

	"github.com/specialistvlad/voxelforge/internal/config"
	"github.com/specialistvlad/voxelforge/internal/material"
	"github.com/specialistvlad/voxelforge/internal/world"
)

// weighted is a cumulative-weight table of choices.
type weighted struct {
	choices []Choice
	cum     []float64
}

func (t *weighted) pick(rng *rand.Rand) Choice {
	if len(t.choices) == 1 {
		return t.choices[0]
	}
	total := t.cum[len(t.cum)-1]
	var u float64
	if rng == nil {
		u = rand.Float64()
	} else {
		u = rng.Float64()
	}
	u *= total
	for i, c := range t.cum {
		if u < c {
			return t.choices[i]
		}
	}
	return t.choices[len(t.choices)-1]
}

// readWeighted reads a "choices" section. Each key names a material and
// holds either a weight or a section with "weight" and "data".
func readWeighted(s *config.Section, palette material.Lookup) (*weighted, error) {
	choices, err := child(s, "choices")
	if err != nil {
		return nil, err
	}
	if choices.Len() == 0 {
		return nil, &ConfigError{Key: choices.Path(), Reason: "at least one choice is required"}
	}
	defaultData, err := readData(s, DefaultData)
	if err != nil {
		return nil, err
	}

	t := &weighted{}
	total := 0.0
	for _, e := range choices.Entries() {
		key := choices.KeyPath(e.Key)
		m, err := palette.TryGetBlockMaterial(e.Key)
		if err != nil {
			return nil, &ConfigError{Key: key, Reason: "invalid material", Err: err}
		}

		weightText, data := "", defaultData
		switch e.Kind {
		case config.KindScalar:
			weightText = e.Scalar
		case config.KindSection:
			w, ok := e.Section.Scalar("weight")
			if !ok {
				w = "1"
			}
			weightText = w
			if data, err = readData(e.Section, defaultData); err != nil {
				return nil, err
			}
		default:
			return nil, &ConfigError{Key: key, Reason: "must be a weight or a section"}
		}

		weight, err := strconv.ParseFloat(strings.TrimSpace(weightText), 64)
		if err != nil || weight <= 0 || math.IsInf(weight, 0) || math.IsNaN(weight) {
			return nil, &ConfigError{Key: key, Reason: "weight must be a positive number"}
		}
		total += weight
		t.choices = append(t.choices, Choice{Material: m, Data: data})
		t.cum = append(t.cum, total)
	}
	return t, nil
}

// RandomSimple picks a weighted material on every write.
type RandomSimple struct {
	name  string
	table *weighted
}

func NewRandomSimple(name string) Setter { return &RandomSimple{name: name} }

func (s *RandomSimple) Name() string { return s.name }

func (s *RandomSimple) Configure(props *config.Section, palette material.Lookup) error {
	t, err := readWeighted(props, palette)
	if err != nil {
		return err
	}
	s.table = t
	return nil
}

func (s *RandomSimple) SetMaterial(ctx context.Context, w world.World, x, y, z int, _ bool, rng *rand.Rand) error {
	return s.table.pick(rng).write(ctx, w, x, y, z)
}

// RandomInnerOuter keeps a weighted table per role.
type RandomInnerOuter struct {
	name         string
	inner, outer *weighted
}

func NewRandomInnerOuter(name string) Setter { return &RandomInnerOuter{name: name} }

func (s *RandomInnerOuter) Name() string { return s.name }

func (s *RandomInnerOuter) Configure(props *config.Section, palette material.Lookup) error {
	inner, err := child(props, "inner")
	if err != nil {
		return err
	}
	outer, err := child(props, "outer")
	if err != nil {
		return err
	}
	if s.inner, err = readWeighted(inner, palette); err != nil {
		return err
	}
	if s.outer, err = readWeighted(outer, palette); err != nil {
		return err
	}
	return nil
}

func (s *RandomInnerOuter) SetMaterial(ctx context.Context, w world.World, x, y, z int, outer bool, rng *rand.Rand) error {
	if outer {
		return s.outer.pick(rng).write(ctx, w, x, y, z)
	}
	return s.inner.pick(rng).write(ctx, w, x, y, z)
}
