package moduleload

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
	return New(pipeline)
}

func TestGuard_CheckSourceBlocksBase64EvalPayload(t *testing.T) {
	g := newTestGuard(t)

	err := g.CheckSource("left-pad", []byte(`eval(atob("ZXZpbA=="))`))
	assert.Error(t, err)
}

func TestGuard_CheckSourceAllowsBenignSource(t *testing.T) {
	g := newTestGuard(t)

	err := g.CheckSource("left-pad", []byte(`module.exports = function leftPad(str, len) { return str; }`))
	assert.NoError(t, err)
}
