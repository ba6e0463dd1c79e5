package app

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/specialistvlad/voxelforge/internal/material"
	"github.com/specialistvlad/voxelforge/internal/testutil"
	"github.com/specialistvlad/voxelforge/internal/world"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var objectFiles = map[string]string{
	"pillar.hcl":  testutil.PillarHCL,
	"stairs.hcl":  testutil.StairsHCL,
	"boulder.yml": testutil.BoulderYAML,
}

const (
	stone = material.ID(1)
	grass = material.ID(2)
)

func TestNewConfig(t *testing.T) {
	testCases := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{name: "list", cfg: Config{DefinitionsPath: "objects", Command: CommandList}},
		{name: "eval needs no definitions", cfg: Config{Command: CommandEval}},
		{name: "place", cfg: Config{DefinitionsPath: "objects", Command: CommandPlace, Args: []string{"tree", "1", "2", "3"}, Rotation: 270}},
		{name: "missing definitions", cfg: Config{Command: CommandList}, wantErr: "DefinitionsPath"},
		{name: "unknown command", cfg: Config{DefinitionsPath: "objects", Command: "grow"}, wantErr: `unknown command "grow"`},
		{name: "argument count", cfg: Config{DefinitionsPath: "objects", Command: CommandCheck, Args: []string{"tree"}}, wantErr: "takes 4 arguments"},
		{name: "rotation", cfg: Config{DefinitionsPath: "objects", Command: CommandList, Rotation: 45}, wantErr: "45"},
		{name: "timeout", cfg: Config{DefinitionsPath: "objects", Command: CommandList, NotifyTimeout: -time.Second}, wantErr: "negative"},
		{name: "log level", cfg: Config{DefinitionsPath: "objects", Command: CommandList, LogLevel: "trace"}, wantErr: "log level"},
		{name: "log format", cfg: Config{DefinitionsPath: "objects", Command: CommandList, LogFormat: "xml"}, wantErr: "log format"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg, err := NewConfig(tc.cfg)
			if tc.wantErr != "" {
				assert.ErrorContains(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.cfg.Command, cfg.Command)
		})
	}
}

func TestNewLogger(t *testing.T) {
	for format, prefix := range map[string]string{"json": `{"time"`, "auto": `{"time"`, "text": "time="} {
		t.Run(format, func(t *testing.T) {
			var buf bytes.Buffer
			newLogger("info", format, &buf).Info("hello")
			assert.Contains(t, buf.String(), prefix)
		})
	}

	var buf bytes.Buffer
	newLogger("warn", "text", &buf).Info("hidden")
	assert.Empty(t, buf.String())
}

func TestPlace(t *testing.T) {
	ctx := context.Background()

	t.Run("conditions hold", func(t *testing.T) {
		a, _, _ := setupAppTest(t, Config{}, objectFiles)
		rec := &recordingNotifier{}
		a.SetNotifier(rec)
		require.NoError(t, a.Fill(ctx, "grass", world.Point{}, world.Point{}))
		gen, err := a.LoadDefinitions(ctx)
		require.NoError(t, err)

		ev, err := a.Place(ctx, "pillar", world.Point{X: 0, Y: 1, Z: 0})
		require.NoError(t, err)
		assert.Equal(t, gen.ID.String(), ev.Generation)
		assert.Equal(t, [3]int{0, 1, 0}, ev.Origin)
		assert.False(t, ev.Forced)
		require.GreaterOrEqual(t, len(ev.Blocks), 2)
		require.LessOrEqual(t, len(ev.Blocks), 4)
		for i, b := range ev.Blocks {
			assert.Equal(t, uint16(stone), b.Material)
			assert.Equal(t, 1+i, b.Y)
		}
		require.Len(t, rec.events, 1)
		assert.Same(t, ev, rec.events[0])
	})

	t.Run("blocked", func(t *testing.T) {
		a, _, _ := setupAppTest(t, Config{}, objectFiles)
		rec := &recordingNotifier{}
		a.SetNotifier(rec)
		_, err := a.LoadDefinitions(ctx)
		require.NoError(t, err)

		ev, err := a.Place(ctx, "pillar", world.Point{X: 5, Y: 1, Z: 5})
		assert.ErrorIs(t, err, ErrBlocked)
		assert.Nil(t, ev)
		assert.Empty(t, rec.events)
		id, err := a.World().Material(ctx, 5, 1, 5)
		require.NoError(t, err)
		assert.Equal(t, material.Air, id)
	})

	t.Run("forced", func(t *testing.T) {
		a, _, _ := setupAppTest(t, Config{Force: true}, objectFiles)
		_, err := a.LoadDefinitions(ctx)
		require.NoError(t, err)

		ev, err := a.Place(ctx, "pillar", world.Point{X: 5, Y: 1, Z: 5})
		require.NoError(t, err)
		assert.True(t, ev.Forced)
		id, err := a.World().Material(ctx, 5, 1, 5)
		require.NoError(t, err)
		assert.Equal(t, stone, id)
	})

	t.Run("orientation override", func(t *testing.T) {
		a, _, _ := setupAppTest(t, Config{OverrideOrientation: true, Rotation: 90}, objectFiles)
		_, err := a.LoadDefinitions(ctx)
		require.NoError(t, err)

		ev, err := a.Place(ctx, "stairs", world.Point{})
		require.NoError(t, err)
		assert.Equal(t, 90, ev.Rotation)
		var got []world.Point
		for _, b := range ev.Blocks {
			got = append(got, world.Point{X: b.X, Y: b.Y, Z: b.Z})
		}
		assert.Equal(t, []world.Point{{X: 0, Y: 0, Z: 0}, {X: 0, Y: 1, Z: 1}, {X: 0, Y: 2, Z: 2}}, got)
	})

	t.Run("rerandomize resets repeat variables", func(t *testing.T) {
		a, _, _ := setupAppTest(t, Config{Rerandomize: true}, objectFiles)
		_, err := a.LoadDefinitions(ctx)
		require.NoError(t, err)

		for range 2 {
			ev, err := a.Place(ctx, "stairs", world.Point{X: 20})
			require.NoError(t, err)
			last := ev.Blocks[len(ev.Blocks)-1]
			assert.Equal(t, [3]int{22, 2, 0}, [3]int{last.X, last.Y, last.Z})
		}
	})

	t.Run("unknown object", func(t *testing.T) {
		a, _, _ := setupAppTest(t, Config{}, objectFiles)
		_, err := a.Place(ctx, "castle", world.Point{})
		assert.ErrorIs(t, err, ErrUnknownObject)
	})

	t.Run("notification failure keeps the placement", func(t *testing.T) {
		a, _, logs := setupAppTest(t, Config{Force: true}, objectFiles)
		a.SetNotifier(&recordingNotifier{err: errors.New("offline")})
		_, err := a.LoadDefinitions(ctx)
		require.NoError(t, err)

		ev, err := a.Place(ctx, "boulder", world.Point{})
		assert.ErrorContains(t, err, "offline")
		require.NotNil(t, ev)
		assert.Len(t, ev.Blocks, 19)
		assert.Contains(t, logs.String(), "Placement notification failed.")
	})
}

func TestRunCommands(t *testing.T) {
	ctx := context.Background()

	t.Run("list", func(t *testing.T) {
		files := map[string]string{"pillar.hcl": testutil.PillarHCL, "broken.hcl": testutil.BrokenHCL}
		a, out, logs := setupAppTest(t, Config{Command: CommandList}, files)
		require.NoError(t, a.Run(ctx))
		assert.Contains(t, out.String(), "pillar\n")
		assert.Contains(t, out.String(), "failed: ")
		assert.Contains(t, out.String(), `object "broken"`)
		assert.Contains(t, logs.String(), "Failed to load definition.")
	})

	t.Run("check", func(t *testing.T) {
		a, out, _ := setupAppTest(t, Config{Command: CommandCheck, Args: []string{"pillar", "0", "1", "0"}}, objectFiles)
		require.NoError(t, a.Run(ctx))
		assert.Contains(t, out.String(), "pillar at (0, 1, 0): blocked")

		testutil.Fill(t, a.World(), world.Point{}, world.Point{}, grass)
		require.NoError(t, a.Run(ctx))
		assert.Contains(t, out.String(), "pillar at (0, 1, 0): placeable")
	})

	t.Run("place", func(t *testing.T) {
		a, out, _ := setupAppTest(t, Config{Command: CommandPlace, Args: []string{"boulder", "0", "0", "0"}}, objectFiles)
		require.NoError(t, a.Run(ctx))
		assert.Contains(t, out.String(), "placed boulder at (0, 0, 0): 19 blocks")
	})

	t.Run("fill", func(t *testing.T) {
		a, out, _ := setupAppTest(t, Config{Command: CommandFill, Args: []string{"stone", "0", "0", "0", "1", "0", "1"}}, nil)
		require.NoError(t, a.Run(ctx))
		assert.Contains(t, out.String(), "with stone")
		for _, p := range []world.Point{{X: 0, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 0}, {X: 0, Y: 0, Z: 1}, {X: 1, Y: 0, Z: 1}} {
			id, err := a.World().Material(ctx, p.X, p.Y, p.Z)
			require.NoError(t, err)
			assert.Equal(t, stone, id, "at %s", p)
		}
	})

	t.Run("bad coordinates", func(t *testing.T) {
		a, _, _ := setupAppTest(t, Config{Command: CommandPlace, Args: []string{"pillar", "0", "x", "0"}}, objectFiles)
		assert.ErrorContains(t, a.Run(ctx), `"x" is not an integer`)
	})

	t.Run("unknown fill material", func(t *testing.T) {
		a, _, _ := setupAppTest(t, Config{Command: CommandFill, Args: []string{"stick", "0", "0", "0", "0", "0", "0"}}, nil)
		assert.ErrorIs(t, a.Run(ctx), material.ErrNotBlock)
	})
}

func TestSQLiteWorldPersists(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "world.db")
	defs := testutil.WriteFiles(t, objectFiles)

	first, _, _ := setupAppTest(t, Config{DefinitionsPath: defs, WorldPath: dbPath}, nil)
	require.NoError(t, first.Fill(ctx, "grass", world.Point{}, world.Point{}))
	require.NoError(t, first.Close())

	second, _, _ := setupAppTest(t, Config{DefinitionsPath: defs, WorldPath: dbPath}, nil)
	_, err := second.LoadDefinitions(ctx)
	require.NoError(t, err)
	ok, err := second.Check(ctx, "pillar", world.Point{X: 0, Y: 1, Z: 0})
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestNewAppRejectsBadNotifyURL(t *testing.T) {
	cfg, err := NewConfig(Config{DefinitionsPath: "objects", Command: CommandList, NotifyURL: "not a url"})
	require.NoError(t, err)
	_, err = NewApp(context.Background(), &bytes.Buffer{}, &bytes.Buffer{}, cfg)
	assert.ErrorContains(t, err, "notifier")
}
