package environment

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/safedep/firewall/accountant"
	"github.com/safedep/firewall/audit"
	"github.com/safedep/firewall/config"
	"github.com/safedep/firewall/interceptors"
	"github.com/safedep/firewall/model"
)

func newTestGuard(t *testing.T) *Guard {
	t.Helper()

	cfg, err := config.BaselineConfig()
	require.NoError(t, err)

	logger, err := audit.Open(filepath.Join(t.TempDir(), "audit.jsonl"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = logger.Close() })

	pipeline := interceptors.New(cfg, model.ProcessContext{}, accountant.New(), logger)
	return New(pipeline, cfg)
}

func TestGuard_GetenvReturnsEmptyOnBlockedProtectedRead(t *testing.T) {
	t.Helper()

	cfg, err := config.BaselineConfig()
	require.NoError(t, err)
	cfg.Mode = config.ModeStrict

	logger, err := audit.Open(filepath.Join(t.TempDir(), "audit.jsonl"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = logger.Close() })

	pipeline := interceptors.New(cfg, model.ProcessContext{}, accountant.New(), logger)
	g := New(pipeline, cfg)

	t.Setenv("GITHUB_TOKEN", "super-secret")

	assert.Equal(t, "", g.Getenv("GITHUB_TOKEN"))
}

func TestGuard_GetenvAllowsUnprotectedRead(t *testing.T) {
	g := newTestGuard(t)
	t.Setenv("SOME_VAR", "value")

	assert.Equal(t, "value", g.Getenv("SOME_VAR"))
}

func TestFilterEnv_RemovesProtectedVariables(t *testing.T) {
	env := []string{"PATH=/usr/bin", "GITHUB_TOKEN=secret", "HOME=/home/user"}
	filtered := FilterEnv(env, []string{"GITHUB_TOKEN"})

	assert.Equal(t, []string{"PATH=/usr/bin", "HOME=/home/user"}, filtered)
}

func TestFilterEnv_NoopWhenNothingProtected(t *testing.T) {
	env := []string{"PATH=/usr/bin"}
	assert.Equal(t, env, FilterEnv(env, nil))
}
