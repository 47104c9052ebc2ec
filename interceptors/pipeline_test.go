package interceptors

import (
	"bufio"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/safedep/firewall/accountant"
	"github.com/safedep/firewall/audit"
	"github.com/safedep/firewall/config"
	"github.com/safedep/firewall/model"
)

func newTestPipeline(t *testing.T) (*Pipeline, string) {
	t.Helper()

	cfg, err := config.BaselineConfig()
	require.NoError(t, err)

	logPath := filepath.Join(t.TempDir(), "audit.jsonl")
	logger, err := audit.Open(logPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = logger.Close() })

	return New(cfg, model.ProcessContext{}, accountant.New(), logger), logPath
}

func countLines(t *testing.T, path string) int {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	n := 0
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		n++
	}
	return n
}

func TestPipeline_AllowWritesAuditEntryAndNoError(t *testing.T) {
	p, logPath := newTestPipeline(t)

	verdict, err := p.Decide(model.Operation{Kind: model.OpEnvRead, Target: "PATH"})

	assert.NoError(t, err)
	assert.True(t, verdict.IsAllow())
	assert.Equal(t, 1, countLines(t, logPath))
}

func TestPipeline_BlockReturnsUsefulErrorAndWritesAuditEntry(t *testing.T) {
	p, logPath := newTestPipeline(t)

	home, err := os.UserHomeDir()
	require.NoError(t, err)

	verdict, decideErr := p.Decide(model.Operation{
		Kind:   model.OpFileRead,
		Target: filepath.Join(home, ".ssh", "id_rsa"),
	})

	require.Error(t, decideErr)
	assert.True(t, verdict.IsBlock())
	assert.Equal(t, 1, countLines(t, logPath))
}

func TestPipeline_ConfirmDeclineUpgradesWarnToBlock(t *testing.T) {
	p, _ := newTestPipeline(t)
	p.Config.Mode = config.ModeInteractive
	p.Config.Environment.ProtectedVariables = []string{"GITHUB_TOKEN"}

	called := false
	p.Confirm = func(op model.Operation, reason string) bool {
		called = true
		return false
	}

	verdict, err := p.Decide(model.Operation{Kind: model.OpEnvRead, Target: "GITHUB_TOKEN"})

	assert.True(t, called)
	assert.True(t, verdict.IsBlock())
	assert.Error(t, err)
}

func TestPipeline_ConfirmAcceptKeepsWarn(t *testing.T) {
	p, _ := newTestPipeline(t)
	p.Config.Mode = config.ModeInteractive
	p.Config.Environment.ProtectedVariables = []string{"GITHUB_TOKEN"}

	p.Confirm = func(op model.Operation, reason string) bool { return true }

	verdict, err := p.Decide(model.Operation{Kind: model.OpEnvRead, Target: "GITHUB_TOKEN"})

	assert.NoError(t, err)
	assert.True(t, verdict.IsWarn())
}

func TestPipeline_RecordsAccountantCounters(t *testing.T) {
	p, _ := newTestPipeline(t)

	_, _ = p.Decide(model.Operation{Kind: model.OpFileRead, Target: "/tmp/readme.txt"})
	_, _ = p.Decide(model.Operation{Kind: model.OpFileRead, Target: "/tmp/readme2.txt"})

	assert.Equal(t, int64(2), p.Counters.Count(accountant.MetricFileReads))
}

func TestPipeline_SoftThresholdCrossingWritesOwnAuditLine(t *testing.T) {
	p, logPath := newTestPipeline(t)
	p.Config.Behavioral.AlertThresholds = []config.AlertThreshold{
		{Metric: accountant.MetricFileReads, Threshold: 2},
	}

	_, _ = p.Decide(model.Operation{Kind: model.OpFileRead, Target: "/tmp/a.txt"})
	linesAfterFirst := countLines(t, logPath)

	_, _ = p.Decide(model.Operation{Kind: model.OpFileRead, Target: "/tmp/b.txt"})
	linesAfterSecond := countLines(t, logPath)

	// The crossing operation writes two lines: its own decision entry
	// plus the threshold-crossing entry.
	assert.Equal(t, linesAfterFirst+2, linesAfterSecond)

	_, _ = p.Decide(model.Operation{Kind: model.OpFileRead, Target: "/tmp/c.txt"})
	linesAfterThird := countLines(t, logPath)

	// The crossing is only emitted once per (metric, threshold) pair.
	assert.Equal(t, linesAfterSecond+1, linesAfterThird)
}
