package app

import (
	"context"
	"os"
	"sync"
	"testing"

	"github.com/specialistvlad/voxelforge/internal/notify"
	"github.com/specialistvlad/voxelforge/internal/testutil"
	"github.com/stretchr/testify/require"
)

// setupAppTest creates an App over a definitions directory holding files.
// cfg fields other than DefinitionsPath and the log settings are kept.
func setupAppTest(t *testing.T, cfg Config, files map[string]string) (*App, *testutil.SafeBuffer, *testutil.SafeBuffer) {
	t.Helper()

	if cfg.DefinitionsPath == "" {
		cfg.DefinitionsPath = testutil.WriteFiles(t, files)
	}
	if cfg.Command == "" {
		cfg.Command = CommandList
	}
	cfg.LogLevel = "debug"
	cfg.LogFormat = "text"

	validated, err := NewConfig(cfg)
	require.NoError(t, err)

	out, logs := &testutil.SafeBuffer{}, &testutil.SafeBuffer{}
	a, err := NewApp(context.Background(), out, logs, validated)
	require.NoError(t, err)

	t.Cleanup(func() {
		require.NoError(t, a.Close())
		if os.Getenv("VOXELFORGE_TEST_LOGS") == "true" {
			t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), logs.String())
		}
	})
	return a, out, logs
}

// recordingNotifier keeps every published event.
type recordingNotifier struct {
	mu     sync.Mutex
	events []*notify.Event
	err    error
}

func (r *recordingNotifier) Publish(_ context.Context, ev *notify.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
	return r.err
}
