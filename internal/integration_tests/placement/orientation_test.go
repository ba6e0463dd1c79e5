package placement

import (
	"context"
	"testing"

	"github.com/specialistvlad/voxelforge/internal/app"
	"github.com/specialistvlad/voxelforge/internal/integration_tests/harness"
	"github.com/specialistvlad/voxelforge/internal/world"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ell is an L of four stone blocks: three along X and one along Z.
func ell(orientation string) string {
	return `
object "ell" {
  ` + orientation + `

  setter "s" {
    type       = "simple"
    properties = { material = "stone" }
  }

  instruction "arm" {
    type = "shape"
    shape "bar" {
      type     = "cuboid"
      size     = { x = 3, y = 1, z = 1 }
      material = "s"
    }
  }

  instruction "foot" {
    type     = "block"
    position = { x = 0, y = 0, z = 1 }
    material = "s"
  }
}
`
}

func points(blocks map[world.Point]world.Block) []world.Point {
	out := make([]world.Point, 0, len(blocks))
	for p := range blocks {
		out = append(out, p)
	}
	return out
}

// Test for: declared and overridden orientations move every block
func TestPlacement_Orientation(t *testing.T) {
	origin := world.Point{X: 5, Y: 0, Z: 5}
	testCases := []struct {
		name        string
		orientation string
		cfg         app.Config
		expected    []world.Point
	}{
		{
			name:     "identity",
			expected: []world.Point{{X: 5, Y: 0, Z: 5}, {X: 6, Y: 0, Z: 5}, {X: 7, Y: 0, Z: 5}, {X: 5, Y: 0, Z: 6}},
		},
		{
			name:        "declared half turn",
			orientation: "rotation = 180",
			expected:    []world.Point{{X: 5, Y: 0, Z: 5}, {X: 4, Y: 0, Z: 5}, {X: 3, Y: 0, Z: 5}, {X: 5, Y: 0, Z: 4}},
		},
		{
			name:        "declared mirror then quarter turn",
			orientation: "rotation = 90\n  mirror = true",
			expected:    []world.Point{{X: 5, Y: 0, Z: 5}, {X: 5, Y: 0, Z: 4}, {X: 5, Y: 0, Z: 3}, {X: 4, Y: 0, Z: 5}},
		},
		{
			name:        "override replaces the declaration",
			orientation: "rotation = 180",
			cfg:         app.Config{OverrideOrientation: true, Rotation: 270},
			expected:    []world.Point{{X: 5, Y: 0, Z: 5}, {X: 5, Y: 0, Z: 4}, {X: 5, Y: 0, Z: 3}, {X: 6, Y: 0, Z: 5}},
		},
		{
			name:     "negative override",
			cfg:      app.Config{OverrideOrientation: true, Rotation: -90},
			expected: []world.Point{{X: 5, Y: 0, Z: 5}, {X: 5, Y: 0, Z: 4}, {X: 5, Y: 0, Z: 3}, {X: 6, Y: 0, Z: 5}},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// --- Arrange ---
			ctx := context.Background()
			a, _, _ := harness.NewApp(t, map[string]string{"ell.hcl": ell(tc.orientation)}, tc.cfg)
			_, err := a.LoadDefinitions(ctx)
			require.NoError(t, err)

			// --- Act ---
			_, err = a.Place(ctx, "ell", origin)

			// --- Assert ---
			require.NoError(t, err)
			assert.ElementsMatch(t, tc.expected, points(harness.Snapshot(t, a.World())))
		})
	}
}
