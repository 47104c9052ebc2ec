package firewall

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/safedep/firewall/internal/ui"
	"github.com/safedep/firewall/model"
)

// NewReplayCommand reads one audit log written by audit.Logger and
// prints its decisions as a table plus a summary report, grounded on
// internal/ui/report.go's verbosity-gated rendering.
func NewReplayCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "replay <audit-log-path>",
		Short: "Print the decisions recorded in an audit log",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := readAuditEntries(args[0])
			if err != nil {
				return err
			}

			ui.RenderAuditTable(entries)

			report := ui.NewReportData(ui.RunModeReplay)
			report.TotalOperations = len(entries)

			for _, e := range entries {
				switch e.Verdict {
				case string(model.VerdictAllow):
					report.AllowedCount++
				case string(model.VerdictWarn):
					report.WarnedCount++
				case string(model.VerdictBlock):
					report.BlockedCount++
				}
			}

			if report.BlockedCount > 0 {
				report.Outcome = ui.OutcomeBlocked
			}

			ui.SetVerbosityLevel(ui.VerbosityLevelVerbose)
			ui.Report(report)

			return nil
		},
	}
}

// auditLine matches both decision lines and the trailing summary line so
// the summary can be skipped without failing to parse the whole file.
type auditLine struct {
	Type string `json:"type"`
}

func readAuditEntries(path string) ([]model.AuditEntry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open audit log: %w", err)
	}
	defer f.Close()

	var entries []model.AuditEntry

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var marker auditLine
		if err := json.Unmarshal(line, &marker); err == nil && marker.Type == "summary" {
			continue
		}

		var entry model.AuditEntry
		if err := json.Unmarshal(line, &entry); err != nil {
			continue
		}

		entries = append(entries, entry)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read audit log: %w", err)
	}

	return entries, nil
}
