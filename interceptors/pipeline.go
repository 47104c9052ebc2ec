// Package interceptors holds the single decision pipeline shared by every
// interception seam (filesystem, process, network, environment, module
// load), plus the five seam packages themselves as subpackages. It is
// grounded on proxy/interceptors/base_registry.go, which gives every
// registry interceptor a shared analyze→decide→log→enforce flow
// (analyzePackage → handleAnalysisResult → eventlog.Log* →
// proxy.InterceptorResponse), generalized here from HTTP-proxy requests
// to arbitrary Operation records. The ordering is fixed: decide, then
// account, then log, then enforce.
package interceptors

import (
	"fmt"
	"os"
	"time"

	"github.com/safedep/firewall/accountant"
	"github.com/safedep/firewall/audit"
	"github.com/safedep/firewall/config"
	"github.com/safedep/firewall/evaluator"
	"github.com/safedep/firewall/firewallerror"
	"github.com/safedep/firewall/internal/logging"
	"github.com/safedep/firewall/model"
)

// Pipeline wires one Operation through evaluate → account → audit →
// enforce, in that fixed order, never reordered within one call. It is
// the single thing every seam package depends on; a seam's job is only
// to build the right Operation and call Decide.
type Pipeline struct {
	Config     config.Config
	Context    model.ProcessContext
	Counters   *accountant.Accountant
	AuditLog   *audit.Logger
	pid        int

	// Confirm, when set, is consulted for every Warn verdict while
	// Config.Mode is interactive. It receives the operation and the
	// verdict's reason and returns whether the operation should proceed.
	// A false upgrades the verdict to a Block before it is audited.
	Confirm func(op model.Operation, reason string) bool
}

// New builds a Pipeline. audit may be nil in tests that only want the
// evaluation/accounting behavior; a nil audit logger simply skips
// persistence.
func New(cfg config.Config, ctx model.ProcessContext, counters *accountant.Accountant, auditLog *audit.Logger) *Pipeline {
	return &Pipeline{
		Config:   cfg,
		Context:  ctx,
		Counters: counters,
		AuditLog: auditLog,
		pid:      os.Getpid(),
	}
}

// Decide runs the full pipeline for one operation and returns the
// verdict plus, for a Block, a firewallerror.UsefulError the seam should
// return to its caller in place of performing the action.
func (p *Pipeline) Decide(op model.Operation) (model.Verdict, error) {
	op.Timestamp = time.Now()
	if op.CorrelationID == "" {
		op.CorrelationID = audit.NewCorrelationID()
	}

	verdict := evaluator.Evaluate(op, p.Config, p.Context, p.Counters)

	if verdict.IsWarn() && p.Config.Mode == config.ModeInteractive && p.Confirm != nil {
		if !p.Confirm(op, verdict.Reason) {
			verdict = model.Block(model.SeverityMedium, verdict.Reason+":user-declined")
		}
	}

	// The accountant is updated for every operation that reaches a
	// verdict, including blocked ones, so a script that floods a domain
	// can't starve the counters that would otherwise catch it on the
	// next call.
	if p.Counters != nil {
		if crossing, ok := p.Counters.Record(op, p.Config, p.Context); ok {
			p.writeCrossingAudit(op, crossing)
		}
	}

	p.writeAudit(op, verdict)

	if verdict.IsWarn() {
		logging.Warnf("%s %s: %s", op.Kind, op.Target, verdict.Reason)
	}

	if verdict.IsBlock() {
		return verdict, blockError(op, verdict)
	}

	return verdict, nil
}

func (p *Pipeline) writeAudit(op model.Operation, verdict model.Verdict) {
	if p.AuditLog == nil {
		return
	}

	entry := model.AuditEntry{
		CorrelationID:    op.CorrelationID,
		OperationKind:    string(op.Kind),
		Target:           op.Target,
		CallerOrigin:     op.CallerOrigin,
		Verdict:          string(verdict.Kind),
		Reason:           verdict.Reason,
		Severity:         string(verdict.Severity),
		LifecycleContext: p.Context.LifecycleEventName,
	}

	// The write must complete before a Block takes effect; Write itself
	// never returns an error that propagates (failures are absorbed into
	// audit.Logger's dropped-entry counter).
	_ = p.AuditLog.Write(entry, p.pid)
}

// writeCrossingAudit records a threshold-crossing event as its own audit
// entry, separate from the entry Decide writes for op itself, so a
// crossing is never silently folded away inside the triggering
// operation's line. Hard-limit crossings are recorded as a block (the
// accountant's own counters, not this operation, are what breached);
// soft crossings are recorded as a warn.
func (p *Pipeline) writeCrossingAudit(op model.Operation, crossing *accountant.ThresholdCrossing) {
	if p.AuditLog == nil {
		return
	}

	verdictKind := model.VerdictWarn
	severity := model.SeverityLow
	tier := "soft"
	if crossing.Hard {
		verdictKind = model.VerdictBlock
		severity = model.SeverityHigh
		tier = "hard"
	}

	entry := model.AuditEntry{
		CorrelationID:    op.CorrelationID,
		OperationKind:    string(op.Kind),
		Target:           crossing.Metric,
		CallerOrigin:     op.CallerOrigin,
		Verdict:          string(verdictKind),
		Reason:           fmt.Sprintf("%s crossed %s threshold %d", crossing.Metric, tier, crossing.Threshold),
		Severity:         string(severity),
		LifecycleContext: p.Context.LifecycleEventName,
	}

	_ = p.AuditLog.Write(entry, p.pid)
}

func blockError(op model.Operation, verdict model.Verdict) error {
	code := firewallerror.ErrCodeFirewallBlocked
	switch op.Kind {
	case model.OpModuleLoad:
		code = firewallerror.ErrCodeFirewallModuleBlocked
	case model.OpEnvRead:
		code = firewallerror.ErrCodeFirewallEnvBlocked
	}

	if verdict.Severity == model.SeverityCritical {
		code = firewallerror.ErrCodeFirewallTamperBlocked
	}

	return firewallerror.Useful().
		WithCode(code).
		Msg(string(op.Kind) + " blocked: " + verdict.Reason).
		WithHumanError("Blocked " + string(op.Kind) + " on " + op.Target + ": " + verdict.Reason).
		WithHelp("This operation matched a firewall deny rule. If it is expected, add an exception or allowed path to your firewall config.")
}
