package cli

import (
	"bytes"
	"context"
	"io"
	"math/rand"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/runnerr0/snufulufugus/internal/agent"
	"github.com/runnerr0/snufulufugus/internal/app"
	"github.com/runnerr0/snufulufugus/internal/config"
	"github.com/runnerr0/snufulufugus/internal/storage"
)

// captureOutput captures stdout during fn execution and returns it as a string.
func captureOutput(t *testing.T, fn func()) string {
	t.Helper()
	old := os.Stdout
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stdout = w

	fn()

	w.Close()
	os.Stdout = old

	var buf bytes.Buffer
	_, _ = io.Copy(&buf, r)
	return buf.String()
}

type stubAgent struct{}

func (stubAgent) Query(_ context.Context, prompt string, _ agent.Config) string {
	return "analysis of: " + prompt
}

// newTestSession builds a session over an in-memory store on a virtual clock.
func newTestSession(t *testing.T) *session {
	t.Helper()
	kv, err := storage.OpenSQLite(":memory:", "memory")
	require.NoError(t, err)
	return newTestSessionWithKV(t, kv)
}

func newTestSessionWithKV(t *testing.T, kv storage.KV) *session {
	t.Helper()
	cfg := config.DefaultConfig()
	// Nothing listens on port 1, so the serve check fails fast.
	cfg.Server.Port = 1

	s, err := newSession(context.Background(), cfg, kv, zap.NewNop(), nil, app.Options{
		Rand:  rand.New(rand.NewSource(3)),
		Agent: stubAgent{},
	})
	require.NoError(t, err)
	t.Cleanup(s.Close)
	return s
}

// isolateHome points the default config and database at a temp directory.
func isolateHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("API_KEY", "")
	return home
}
