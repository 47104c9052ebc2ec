package ui

import (
	"fmt"
	"os"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/safedep/firewall/model"
)

// RunMode indicates which CLI subcommand produced the report.
type RunMode int

const (
	RunModeValidate RunMode = iota
	RunModeReplay
)

func (m RunMode) String() string {
	switch m {
	case RunModeValidate:
		return "validate"
	case RunModeReplay:
		return "replay"
	default:
		return "unknown"
	}
}

// RunOutcome represents the final result of a firewall run.
type RunOutcome int

const (
	OutcomeSuccess RunOutcome = iota
	OutcomeBlocked
	OutcomeUserCancelled
	OutcomeDryRun
	OutcomeError
)

func (o RunOutcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeBlocked:
		return "blocked"
	case OutcomeUserCancelled:
		return "user_cancelled"
	case OutcomeDryRun:
		return "dry_run"
	case OutcomeError:
		return "error"
	default:
		return "unknown"
	}
}

// ReportData captures run statistics for the post-run report. This is a
// pure data model with no rendering logic.
type ReportData struct {
	// Run metadata
	ConfigPath string
	StartTime  time.Time
	Duration   time.Duration

	// Operation statistics
	TotalOperations int
	AllowedCount    int
	WarnedCount     int
	BlockedCount    int

	// Details for verbose mode
	BlockedOperations []BlockedOperation
	WarnedOperations  []BlockedOperation

	// Run context
	Mode   RunMode
	DryRun bool

	// Outcome
	Outcome RunOutcome
}

// NewReportData creates a new ReportData with sensible defaults.
func NewReportData(mode RunMode) *ReportData {
	return &ReportData{
		StartTime: time.Now(),
		Mode:      mode,
		Outcome:   OutcomeSuccess,
	}
}

// Finalize sets the duration based on start time.
func (r *ReportData) Finalize() {
	r.Duration = time.Since(r.StartTime)
}

// HasIssues returns true if any operation was blocked or warned.
func (r *ReportData) HasIssues() bool {
	return r.BlockedCount > 0 || r.WarnedCount > 0
}

// WasSuccessful returns true if the run completed without blocks or errors.
func (r *ReportData) WasSuccessful() bool {
	return r.Outcome == OutcomeSuccess || r.Outcome == OutcomeDryRun
}

// Report renders the run report based on verbosity level. This is the
// public API - cmd/firewall calls this with collected data.
func Report(data *ReportData) {
	data.Finalize()

	switch verbosityLevel {
	case VerbosityLevelSilent:
		reportSilent(data)
	case VerbosityLevelNormal:
		reportNormal(data)
	case VerbosityLevelVerbose:
		reportVerbose(data)
	}
}

// reportSilent only shows output on errors or blocks. A clean run produces
// no output.
func reportSilent(data *ReportData) {
	// Block messages and errors are already shown via ui.Block() and
	// ui.ErrorExit(); nothing else to print here.
}

// reportNormal shows minimal, assuring output.
func reportNormal(data *ReportData) {
	if data.Outcome == OutcomeDryRun {
		return // Dry run already shows its own message
	}

	if data.Outcome == OutcomeError {
		return // Error handling done elsewhere
	}

	if data.TotalOperations == 0 {
		return
	}

	var icon string
	var message string

	switch data.Outcome {
	case OutcomeBlocked:
		icon = Colors.Red("✗")
		message = fmt.Sprintf("firewall: %d operations evaluated, %d blocked",
			data.TotalOperations, data.BlockedCount)
	case OutcomeUserCancelled:
		icon = Colors.Yellow("✗")
		message = fmt.Sprintf("firewall: %d operations evaluated, run cancelled",
			data.TotalOperations)
	default:
		if data.HasIssues() {
			icon = Colors.Yellow("!")
			message = fmt.Sprintf("firewall: %d operations evaluated (%d warned)",
				data.TotalOperations, data.WarnedCount)
		} else {
			icon = Colors.Green("✓")
			message = fmt.Sprintf("firewall: %d operations evaluated", data.TotalOperations)
		}
	}

	fmt.Printf("%s %s\n", icon, Colors.Dim(message))
}

// reportVerbose shows detailed debugging information.
func reportVerbose(data *ReportData) {
	fmt.Println()
	fmt.Println(Colors.Cyan("Firewall Run Report"))
	fmt.Println(Colors.Normal("────────────────────────────────────────"))

	printOutcomeLine(data)

	fmt.Println()
	fmt.Printf("  %s %d evaluated\n", Colors.Bold("Operations:"), data.TotalOperations)

	fmt.Printf("  %s %s (allowed: %d, warned: %d, blocked: %d)\n",
		Colors.Bold("Evaluation:"),
		formatDuration(data.Duration),
		data.AllowedCount,
		data.WarnedCount,
		data.BlockedCount)

	fmt.Println()
	fmt.Printf("  %s %s | config: %s\n",
		Colors.Bold("Mode:"),
		data.Mode.String(),
		data.ConfigPath)

	if len(data.BlockedOperations) > 0 {
		fmt.Println()
		fmt.Println(Colors.Red("  Blocked operations:"))
		for _, op := range data.BlockedOperations {
			printOperationDetail(op)
		}
	}

	if len(data.WarnedOperations) > 0 {
		fmt.Println()
		fmt.Println(Colors.Yellow("  Warned operations:"))
		for _, op := range data.WarnedOperations {
			printOperationDetail(op)
		}
	}

	fmt.Println()
}

func printOutcomeLine(data *ReportData) {
	switch data.Outcome {
	case OutcomeSuccess:
		fmt.Printf("  %s %s\n", Colors.Green("✓"), Colors.Green("Run completed, no policy violations"))
	case OutcomeBlocked:
		fmt.Printf("  %s %s\n", Colors.Red("✗"), Colors.Red("Run blocked - policy violation detected"))
	case OutcomeUserCancelled:
		fmt.Printf("  %s %s\n", Colors.Yellow("✗"), Colors.Yellow("Run cancelled by user"))
	case OutcomeDryRun:
		fmt.Printf("  %s %s\n", Colors.Cyan("○"), Colors.Cyan("Dry run completed - no operations enforced"))
	case OutcomeError:
		fmt.Printf("  %s %s\n", Colors.Red("✗"), Colors.Red("Run failed with error"))
	}
}

func printOperationDetail(bo BlockedOperation) {
	fmt.Printf("    - %s %s\n", bo.Operation.Kind, bo.Operation.Target)

	if bo.Verdict.Reason != "" {
		fmt.Printf("      %s\n", Colors.Dim(bo.Verdict.Reason))
	}
}

// RenderAuditTable prints entries as a table, used by `cmd firewall
// replay` to show the decisions recorded in one audit log in order.
func RenderAuditTable(entries []model.AuditEntry) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Time", "Kind", "Target", "Verdict", "Severity", "Reason"})

	for _, e := range entries {
		verdict := e.Verdict
		switch e.Verdict {
		case string(model.VerdictBlock):
			verdict = Colors.Red(e.Verdict)
		case string(model.VerdictWarn):
			verdict = Colors.Yellow(e.Verdict)
		}

		t.AppendRow(table.Row{e.TimestampISO, e.OperationKind, e.Target, verdict, e.Severity, e.Reason})
	}

	t.Render()
}

func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	return fmt.Sprintf("%.1fs", d.Seconds())
}
