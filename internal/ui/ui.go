package ui

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/safedep/firewall/model"
)

// The UI is internal to the firewall CLI and opinionated for its output.
// It is not intended to be used as a library.

type VerbosityLevel int

const (
	// Hidden from the user except for errors and blocks
	VerbosityLevelSilent VerbosityLevel = iota

	// Show minimal status updates
	VerbosityLevelNormal

	// Show verbose status updates including full verdict reasons
	VerbosityLevelVerbose
)

// BlockConfig carries the verdicts to show when Block is invoked after a
// replay or a live-session abort.
type BlockConfig struct {
	// ShowReference determines whether to show detailed reasons for
	// blocked operations. If false, the details are omitted to avoid
	// repeating information already shown to the user.
	ShowReference bool

	BlockedOperations []BlockedOperation
}

// BlockedOperation pairs the operation that triggered a Block verdict with
// the verdict itself, for display.
type BlockedOperation struct {
	Operation model.Operation
	Verdict   model.Verdict
}

func NewDefaultBlockConfig() *BlockConfig {
	return &BlockConfig{
		ShowReference: true,
	}
}

var verbosityLevel VerbosityLevel = VerbosityLevelNormal

func SetVerbosityLevel(level VerbosityLevel) {
	verbosityLevel = level
}

func ClearStatus() {
	StopSpinner()
	fmt.Print("\r")
}

func Block(config *BlockConfig) error {
	StopSpinner()

	fmt.Println()
	fmt.Println(Colors.Red("❌ Operation blocked by firewall policy"))

	if config.ShowReference {
		printBlockedOperationsList(config.BlockedOperations)
	}

	fmt.Println()
	os.Exit(1)

	return nil
}

func SetStatus(status string) {
	if verbosityLevel == VerbosityLevelSilent {
		return
	}

	StopSpinner()
	StartSpinnerWithColor(fmt.Sprintf("ℹ️ %s", status), Colors.Green)
}

// GetConfirmationOnWarn prompts the user to confirm continuing after one or
// more Warn verdicts were recorded. It reads from os.Stdin. Use
// GetConfirmationOnWarnWithReader for custom input sources.
func GetConfirmationOnWarn(warned []BlockedOperation) (bool, error) {
	return GetConfirmationOnWarnWithReader(warned, os.Stdin)
}

// GetConfirmationOnWarnWithReader prompts the user to confirm continuing
// after Warn verdicts, reading from the provided reader.
func GetConfirmationOnWarnWithReader(warned []BlockedOperation, reader io.Reader) (bool, error) {
	StopSpinner()

	fmt.Println()
	fmt.Println(Colors.Red(fmt.Sprintf("🚨 Suspicious operation(s) detected: %d", len(warned))))

	printBlockedOperationsList(warned)

	fmt.Println()
	fmt.Print(Colors.Yellow("Do you want to continue? (y/N) "))

	scanner := bufio.NewScanner(reader)
	if scanner.Scan() {
		response := strings.ToLower(strings.TrimSpace(scanner.Text()))
		if response == "y" || response == "yes" || (len(response) > 0 && response[0] == 'y') {
			return true, nil
		}
	}

	if err := scanner.Err(); err != nil {
		// On EOF or interrupted read, just return false (deny)
		return false, nil
	}

	return false, nil
}

func ShowWarning(message string) {
	// Print colored warning to stderr immediately - it won't be cleared by other output
	fmt.Fprintf(os.Stderr, "%s\n", Colors.Red(message))
}

func Fatalf(msg string, args ...interface{}) {
	ClearStatus()

	fmt.Println(Colors.Red(fmt.Sprintf(msg, args...)))
	os.Exit(1)
}

func printBlockedOperationsList(ops []BlockedOperation) {
	for _, bo := range ops {
		fmt.Println()
		fmt.Println("⚠️ ", Colors.Red(fmt.Sprintf("%s %s", bo.Operation.Kind, bo.Operation.Target)))

		if verbosityLevel == VerbosityLevelVerbose && bo.Verdict.Reason != "" {
			fmt.Println(Colors.Yellow(termWidthFormatText(bo.Verdict.Reason, 80)))
		}

		if bo.Operation.CallerOrigin != "" {
			fmt.Println()
			fmt.Println(Colors.Yellow(fmt.Sprintf("Caller: %s", bo.Operation.CallerOrigin)))
		}
	}
}

// Format the string to be maximum maxWidth. Use newlines to wrap the text.
func termWidthFormatText(text string, maxWidth int) string {
	// Replace all newlines with spaces so that we can split the text into words
	// This is to ensure that we don't split the text at the newlines
	text = strings.ReplaceAll(text, "\n", " ")

	words := strings.Split(text, " ")
	lines := []string{}
	currentLine := ""

	for i, word := range words {
		// Skip empty words that might result from multiple spaces
		if word == "" {
			continue
		}

		if i == 0 {
			// First word doesn't need a leading space
			currentLine = word
		} else if len(currentLine)+len(word)+1 > maxWidth {
			// +1 for the space we would add
			lines = append(lines, currentLine)
			currentLine = word
		} else {
			currentLine += " " + word
		}
	}

	// Don't forget to add the last line
	if currentLine != "" {
		lines = append(lines, currentLine)
	}

	return strings.Join(lines, "\n")
}
