package engine

import (
	"fmt"

	"github.com/safedep/firewall/interceptors/process"
	"github.com/safedep/firewall/internal/ui"
	"github.com/safedep/firewall/model"
)

// newInteractiveConfirmer builds the Pipeline.Confirm hook used while
// Config.Mode is interactive. It is grounded on
// proxy/interceptors/confirmation.go's pause-prompt-resume sequence: the
// process spawned through procGuard is paused for the duration of the
// prompt so it cannot make further progress while the firewall waits on
// a human decision, then resumed regardless of the answer.
func newInteractiveConfirmer(procGuard *process.Guard) func(op model.Operation, reason string) bool {
	return func(op model.Operation, reason string) bool {
		procGuard.Pause()
		defer procGuard.Resume()

		ui.SetStatus(fmt.Sprintf("%s %s: awaiting confirmation", op.Kind, op.Target))

		confirmed, err := ui.GetConfirmationOnWarn([]ui.BlockedOperation{
			{Operation: op, Verdict: model.Warn(reason)},
		})
		if err != nil {
			return false
		}

		return confirmed
	}
}
