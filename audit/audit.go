// Package audit is the tamper-resistant append-only audit sink. It is
// grounded on internal/eventlog's JSON-lines Logger (file handle, single
// mutex, fsync-on-write, retention cleanup) generalized from
// package-manager events to the fixed AuditEntry shape, with one
// enrichment: each line carries a chain_hash linking it to the previous
// line so a line cannot be edited or deleted from the middle of the file
// without invalidating every hash after it.
package audit

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/safedep/firewall/internal/logging"
	"github.com/safedep/firewall/model"
)

// DefaultLogName is the stable audit file name referenced by
// Config.Filesystem.OutputFiles.
const DefaultLogName = "firewall-audit.jsonl"

// Logger is the process-wide audit sink. One Logger backs the whole
// engine; Write is safe for concurrent use.
type Logger struct {
	mu   sync.Mutex
	file *os.File
	path string

	prevHash string

	// droppedCount is the audit_dropped counter surfaced in the teardown
	// summary.
	droppedCount int

	totals       map[string]int
	blocksByKind map[string]int
}

// Open creates or appends to the audit log at path. The hash chain resumes
// from the last line's chain_hash when the file already has content, so
// restarting the process does not reset tamper-evidence.
func Open(path string) (*Logger, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create audit log directory: %w", err)
		}
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR|os.O_APPEND, 0o600)
	if err != nil {
		return nil, fmt.Errorf("failed to open audit log: %w", err)
	}

	l := &Logger{
		file:         f,
		path:         path,
		totals:       map[string]int{},
		blocksByKind: map[string]int{},
	}

	if prev, err := lastChainHash(path); err == nil {
		l.prevHash = prev
	}

	return l, nil
}

// NewCorrelationID generates a fresh correlation id for one Operation.
func NewCorrelationID() string {
	return uuid.NewString()
}

// Write appends one AuditEntry, computing and storing its chain_hash.
// The caller must call Write and have it return before a Block takes
// effect. A write failure is retried once; if it still fails, the entry
// is dropped and droppedCount increments rather than the failure
// propagating into user code.
func (l *Logger) Write(entry model.AuditEntry, pid int) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	entry.TimestampISO = time.Now().UTC().Format(time.RFC3339Nano)
	entry.PID = pid
	entry.ChainHash = l.computeChainHash(entry)

	line, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal audit entry: %w", err)
	}
	line = append(line, '\n')

	if writeErr := l.writeLine(line); writeErr != nil {
		if writeErr := l.writeLine(line); writeErr != nil {
			l.droppedCount++
			logging.Errorf("audit write failed twice, dropping entry: %v", writeErr)
			return nil
		}
	}

	l.prevHash = entry.ChainHash
	l.totals[entry.OperationKind]++
	if entry.Verdict == string(model.VerdictBlock) {
		l.blocksByKind[entry.OperationKind]++
	}

	return nil
}

func (l *Logger) writeLine(line []byte) error {
	if _, err := l.file.Write(line); err != nil {
		return err
	}
	return l.file.Sync()
}

// computeChainHash is sha256(prevHash + json(entry-without-hash)).
func (l *Logger) computeChainHash(entry model.AuditEntry) string {
	entry.ChainHash = ""
	payload, _ := json.Marshal(entry)

	h := sha256.New()
	h.Write([]byte(l.prevHash))
	h.Write(payload)

	return hex.EncodeToString(h.Sum(nil))
}

// Summary is the teardown record appended on engine shutdown.
type Summary struct {
	TotalsByKind     map[string]int `json:"totals_by_kind"`
	BlocksByKind     map[string]int `json:"blocks_by_kind"`
	AuditDropped     int            `json:"audit_dropped"`
	Verdict          string         `json:"verdict"`
}

// Close writes the summary record and closes the underlying file.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	verdict := "clean"
	for _, n := range l.blocksByKind {
		if n > 0 {
			verdict = "risky"
			break
		}
	}

	summary := struct {
		Type    string  `json:"type"`
		Summary Summary `json:"summary"`
	}{
		Type: "summary",
		Summary: Summary{
			TotalsByKind: l.totals,
			BlocksByKind: l.blocksByKind,
			AuditDropped: l.droppedCount,
			Verdict:      verdict,
		},
	}

	if line, err := json.Marshal(summary); err == nil {
		_ = l.writeLine(append(line, '\n'))
	}

	return l.file.Close()
}

// DroppedCount reports how many entries were lost to write failures.
func (l *Logger) DroppedCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.droppedCount
}

// lastChainHash scans an existing audit file for the last decision line's
// chain_hash, so the chain survives process restarts.
func lastChainHash(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}

	var lastHash string
	var line model.AuditEntry

	start := 0
	for i, b := range data {
		if b != '\n' {
			continue
		}

		chunk := data[start:i]
		start = i + 1

		if len(chunk) == 0 {
			continue
		}

		line = model.AuditEntry{}
		if err := json.Unmarshal(chunk, &line); err != nil {
			continue
		}

		if line.ChainHash != "" {
			lastHash = line.ChainHash
		}
	}

	return lastHash, nil
}
