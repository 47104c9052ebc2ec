package process

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/safedep/firewall/accountant"
	"github.com/safedep/firewall/audit"
	"github.com/safedep/firewall/config"
	"github.com/safedep/firewall/interceptors"
	"github.com/safedep/firewall/interceptors/environment"
	"github.com/safedep/firewall/model"
)

func newTestGuard(t *testing.T) *Guard {
	t.Helper()

	cfg, err := config.BaselineConfig()
	require.NoError(t, err)
	cfg.Environment.ProtectedVariables = []string{"GITHUB_TOKEN"}

	logger, err := audit.Open(filepath.Join(t.TempDir(), "audit.jsonl"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = logger.Close() })

	pipeline := interceptors.New(cfg, model.ProcessContext{}, accountant.New(), logger)
	return New(pipeline, environment.New(pipeline, cfg))
}

func TestGuard_CheckSpawnBlocksCriticalCommand(t *testing.T) {
	g := newTestGuard(t)

	err := g.CheckSpawn("rm -rf / --no-preserve-root")
	assert.Error(t, err)
}

func TestGuard_CommandFiltersProtectedEnv(t *testing.T) {
	g := newTestGuard(t)
	t.Setenv("GITHUB_TOKEN", "super-secret")

	cmd, err := g.Command("echo", "hello")
	require.NoError(t, err)

	for _, kv := range cmd.Env {
		assert.NotContains(t, kv, "GITHUB_TOKEN=super-secret")
	}
}

func TestGuard_CommandRejectsBlockedSpawn(t *testing.T) {
	g := newTestGuard(t)

	_, err := g.Command("rm", "-rf", "/", "--no-preserve-root")
	assert.Error(t, err)
}

func TestGuard_CommandTracksAndReleases(t *testing.T) {
	g := newTestGuard(t)

	cmd, err := g.Command("sleep", "0.2")
	require.NoError(t, err)

	g.mu.Lock()
	_, tracked := g.tracked[cmd]
	g.mu.Unlock()
	assert.True(t, tracked)

	g.Release(cmd)

	g.mu.Lock()
	_, stillTracked := g.tracked[cmd]
	g.mu.Unlock()
	assert.False(t, stillTracked)
}

func TestGuard_PauseResumeTrackedProcess(t *testing.T) {
	g := newTestGuard(t)

	cmd, err := g.Command("sleep", "1")
	require.NoError(t, err)
	require.NoError(t, cmd.Start())
	defer func() {
		g.Release(cmd)
		_ = cmd.Process.Kill()
		_ = cmd.Wait()
	}()

	g.Pause()
	g.Resume()
}
