package audit

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/safedep/firewall/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogger_WriteBuildsChain(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "audit.jsonl")

	logger, err := Open(path)
	require.NoError(t, err)

	require.NoError(t, logger.Write(model.AuditEntry{
		CorrelationID: "c1",
		OperationKind: string(model.OpFileRead),
		Target:        "/etc/passwd",
		Verdict:       string(model.VerdictBlock),
		Severity:      string(model.SeverityCritical),
	}, 123))

	require.NoError(t, logger.Write(model.AuditEntry{
		CorrelationID: "c2",
		OperationKind: string(model.OpFileRead),
		Target:        "/tmp/ok",
		Verdict:       string(model.VerdictAllow),
	}, 123))

	require.NoError(t, logger.Close())

	lines := readLines(t, path)
	require.Len(t, lines, 3) // 2 entries + 1 summary

	var first, second model.AuditEntry
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &first))
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &second))

	assert.NotEmpty(t, first.ChainHash)
	assert.NotEmpty(t, second.ChainHash)
	assert.NotEqual(t, first.ChainHash, second.ChainHash)

	var summary struct {
		Type    string  `json:"type"`
		Summary Summary `json:"summary"`
	}
	require.NoError(t, json.Unmarshal([]byte(lines[2]), &summary))
	assert.Equal(t, "summary", summary.Type)
	assert.Equal(t, "risky", summary.Summary.Verdict)
	assert.Equal(t, 1, summary.Summary.BlocksByKind[string(model.OpFileRead)])
}

func TestLogger_ResumesChainAcrossRestarts(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "audit.jsonl")

	logger1, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, logger1.Write(model.AuditEntry{
		CorrelationID: "c1",
		OperationKind: string(model.OpFileRead),
		Verdict:       string(model.VerdictAllow),
	}, 1))
	require.NoError(t, logger1.file.Close())

	logger2, err := Open(path)
	require.NoError(t, err)
	assert.NotEmpty(t, logger2.prevHash)
}

func readLines(t *testing.T, path string) []string {
	t.Helper()

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	require.NoError(t, scanner.Err())

	return lines
}
