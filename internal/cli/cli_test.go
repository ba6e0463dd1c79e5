package cli

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/specialistvlad/voxelforge/internal/app"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	testCases := []struct {
		name  string
		args  []string
		check func(t *testing.T, cfg *app.Config)
	}{
		{
			name: "defaults",
			args: []string{"list"},
			check: func(t *testing.T, cfg *app.Config) {
				assert.Equal(t, "objects", cfg.DefinitionsPath)
				assert.Equal(t, app.CommandList, cfg.Command)
				assert.Empty(t, cfg.Args)
				assert.True(t, cfg.Rerandomize)
				assert.False(t, cfg.Force)
				assert.False(t, cfg.OverrideOrientation)
				assert.Equal(t, "auto", cfg.LogFormat)
				assert.Equal(t, "info", cfg.LogLevel)
				assert.Equal(t, 10*time.Second, cfg.NotifyTimeout)
			},
		},
		{
			name: "place with negative coordinates",
			args: []string{"-d", "defs", "-world", "w.db", "-seed", "42", "-force", "PLACE", "tree", "-3", "64", "-7"},
			check: func(t *testing.T, cfg *app.Config) {
				assert.Equal(t, "defs", cfg.DefinitionsPath)
				assert.Equal(t, "w.db", cfg.WorldPath)
				assert.Equal(t, uint64(42), cfg.Seed)
				assert.True(t, cfg.Force)
				assert.Equal(t, app.CommandPlace, cfg.Command)
				assert.Equal(t, []string{"tree", "-3", "64", "-7"}, cfg.Args)
			},
		},
		{
			name: "orientation override",
			args: []string{"-rotation", "180", "check", "tree", "0", "0", "0"},
			check: func(t *testing.T, cfg *app.Config) {
				assert.True(t, cfg.OverrideOrientation)
				assert.Equal(t, 180, cfg.Rotation)
				assert.False(t, cfg.Mirror)
			},
		},
		{
			name: "mirror alone overrides",
			args: []string{"-mirror", "-rerandomize=false", "check", "tree", "0", "0", "0"},
			check: func(t *testing.T, cfg *app.Config) {
				assert.True(t, cfg.OverrideOrientation)
				assert.True(t, cfg.Mirror)
				assert.False(t, cfg.Rerandomize)
			},
		},
		{
			name: "notify settings",
			args: []string{"-notify-url", "http://localhost:3000", "-notify-namespace", "/world", "-notify-timeout", "2s", "-log-format", "JSON", "list"},
			check: func(t *testing.T, cfg *app.Config) {
				assert.Equal(t, "http://localhost:3000", cfg.NotifyURL)
				assert.Equal(t, "/world", cfg.NotifyNamespace)
				assert.Equal(t, 2*time.Second, cfg.NotifyTimeout)
				assert.Equal(t, "json", cfg.LogFormat)
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var out bytes.Buffer
			cfg, exit, err := Parse(tc.args, &out)
			require.NoError(t, err)
			require.False(t, exit)
			tc.check(t, cfg)
		})
	}
}

func TestParseExitsCleanly(t *testing.T) {
	for _, args := range [][]string{nil, {"-h"}} {
		var out bytes.Buffer
		cfg, exit, err := Parse(args, &out)
		require.NoError(t, err)
		assert.True(t, exit)
		assert.Nil(t, cfg)
		assert.Contains(t, out.String(), "Usage:")
	}
}

func TestParseErrors(t *testing.T) {
	testCases := []struct {
		name    string
		args    []string
		message string
	}{
		{name: "unknown flag", args: []string{"-nope", "list"}, message: "flag provided but not defined"},
		{name: "unknown command", args: []string{"grow"}, message: `unknown command "grow"`},
		{name: "missing arguments", args: []string{"place", "tree"}, message: "takes 4 arguments"},
		{name: "bad rotation", args: []string{"-rotation", "45", "list"}, message: "45"},
		{name: "bad log format", args: []string{"-log-format", "xml", "list"}, message: "invalid log-format"},
		{name: "bad log level", args: []string{"-log-level", "loud", "list"}, message: "invalid log-level"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var out bytes.Buffer
			_, exit, err := Parse(tc.args, &out)
			assert.False(t, exit)
			var exitErr *ExitError
			require.True(t, errors.As(err, &exitErr))
			assert.Equal(t, 2, exitErr.Code)
			assert.Contains(t, exitErr.Message, tc.message)
		})
	}
}
