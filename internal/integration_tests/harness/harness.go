// Package harness runs the application end to end over definition files
// written into a temporary directory.
package harness

import (
	"context"
	"os"
	"testing"

	"github.com/specialistvlad/voxelforge/internal/app"
	"github.com/specialistvlad/voxelforge/internal/inmemorystore"
	"github.com/specialistvlad/voxelforge/internal/testutil"
	"github.com/specialistvlad/voxelforge/internal/world"
	"github.com/stretchr/testify/require"
)

// Result holds the outcome of one command.
type Result struct {
	App       *app.App
	Err       error
	Output    string
	LogOutput string
}

// NewApp writes files and creates an App reading them. The command
// defaults to list and logs are captured at debug level.
func NewApp(t *testing.T, files map[string]string, cfg app.Config) (*app.App, *testutil.SafeBuffer, *testutil.SafeBuffer) {
	t.Helper()

	if cfg.DefinitionsPath == "" {
		cfg.DefinitionsPath = testutil.WriteFiles(t, files)
	}
	if cfg.Command == "" {
		cfg.Command = app.CommandList
	}
	cfg.LogLevel = "debug"
	cfg.LogFormat = "text"

	validated, err := app.NewConfig(cfg)
	require.NoError(t, err)

	out, logs := &testutil.SafeBuffer{}, &testutil.SafeBuffer{}
	a, err := app.NewApp(context.Background(), out, logs, validated)
	require.NoError(t, err)

	t.Cleanup(func() {
		a.Close()
		if os.Getenv("VOXELFORGE_TEST_LOGS") == "true" {
			t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), logs.String())
		}
	})
	return a, out, logs
}

// Run creates an App and runs its command once.
func Run(t *testing.T, files map[string]string, cfg app.Config) *Result {
	t.Helper()
	a, out, logs := NewApp(t, files, cfg)
	err := a.Run(context.Background())
	return &Result{App: a, Err: err, Output: out.String(), LogOutput: logs.String()}
}

// Snapshot returns every stored block of an in-memory world.
func Snapshot(t *testing.T, w world.World) map[world.Point]world.Block {
	t.Helper()
	store, ok := w.(*inmemorystore.Store)
	require.True(t, ok, "world is %T, not an in-memory store", w)

	out := make(map[world.Point]world.Block, store.Len())
	store.ForEach(func(p world.Point, b world.Block) bool {
		out[p] = b
		return true
	})
	return out
}
