// Package evaluator is the pure policy decision function:
// evaluate(op, config, context) → verdict, with no I/O and no side
// effects (invariant 6). It is grounded on the allow/deny resolution
// shape of sandbox.SandboxPolicy.MergeWithParent (now folded into
// config.MergeOverUser) and the glob/path matching of
// internal/pathmatch.GlobToRegex.
package evaluator

import (
	"github.com/safedep/firewall/callerorigin"
	"github.com/safedep/firewall/config"
	"github.com/safedep/firewall/model"
)

// CounterReader lets the evaluator read hard-limit breach state without
// importing the accountant package, avoiding the cyclic dependency that
// would otherwise exist: accountant.Record needs Config, and evaluator
// needs the accountant's counts to upgrade Warn→Block on a hard-limit
// breach by reading the counter value directly, not via a callback.
type CounterReader interface {
	HardLimitBreached(kind model.OperationKind, cfg config.Config, ctx model.ProcessContext) bool
}

// installSafePrefixes is the install-safe prefix set: node_modules/,
// package-manager caches, and manifest files.
var installSafePrefixes = []string{
	"node_modules/",
	"~/.npm/",
	"~/.cache/",
	"package.json",
	"package-lock.json",
	"requirements.txt",
	"Pipfile.lock",
	"go.sum",
}

// criticalFilesystemPatterns are the always-critical filesystem entries.
// Any blocked_read_paths/blocked_write_paths entry that also appears
// here is evaluated as critical in step 1 rather than "high" in step 5;
// everything else on those lists is high-severity domain-deny material.
// This resolves the implicit "some deny-list entries are critical"
// distinction, recorded in DESIGN.md.
var criticalFilesystemPatterns = []string{
	"~/.ssh/**", "~/.ssh/", "/etc/shadow", "/etc/passwd",
	"~/.gnupg/**", "~/.aws/**", "~/.gcloud/**", "~/.kube/**",
}

// Evaluate is the single pure decision function. counters may be nil, in
// which case hard-limit upgrades never fire (used by tests that only
// want the rule-table behavior).
func Evaluate(op model.Operation, cfg config.Config, ctx model.ProcessContext, counters CounterReader) model.Verdict {
	verdict := evaluateRules(op, cfg, ctx, counters)
	return applyModeAdjustments(verdict, op.Kind, cfg)
}

func evaluateRules(op model.Operation, cfg config.Config, ctx model.ProcessContext, counters CounterReader) model.Verdict {
	// Step 1: critical static denies. Not overridable by anything below.
	if v, hit := criticalStaticDeny(op, cfg); hit {
		return v
	}

	// Step 2: self-protection.
	if v, hit := selfProtection(op, cfg); hit {
		return v
	}

	// Step 3: exception rules.
	if v, hit := exceptionRule(op, cfg); hit {
		return v
	}

	// Step 4: install-context relaxations.
	if v, hit := installContextRelax(op, cfg, ctx); hit {
		return v
	}

	// Step 5-7: domain deny, network body scan, GitHub API.
	return domainDecision(op, cfg, ctx, counters)
}

func criticalStaticDeny(op model.Operation, cfg config.Config) (model.Verdict, bool) {
	switch op.Kind {
	case model.OpFileRead, model.OpFileOpen, model.OpFileReaddir:
		if _, _, ok := matchesAnyPattern(op.Target, intersect(cfg.Filesystem.BlockedReadPaths, criticalFilesystemPatterns)); ok {
			return model.Block(model.SeverityCritical, "blocked_read_paths"), true
		}
	case model.OpFileWrite, model.OpFileUnlink:
		if _, _, ok := matchesAnyPattern(op.Target, intersect(cfg.Filesystem.BlockedWritePaths, criticalFilesystemPatterns)); ok {
			return model.Block(model.SeverityCritical, "blocked_write_paths"), true
		}
	case model.OpProcessSpawn:
		for _, p := range cfg.Commands.BlockedPatterns {
			if p.Severity != string(model.SeverityCritical) {
				continue
			}
			if pattern, hit := anyRegexMatches(op.Target, []string{p.Pattern}); hit {
				return model.Block(model.SeverityCritical, pattern), true
			}
		}
	}

	return model.Verdict{}, false
}

func selfProtection(op model.Operation, cfg config.Config) (model.Verdict, bool) {
	if op.Kind != model.OpFileWrite && op.Kind != model.OpFileUnlink {
		return model.Verdict{}, false
	}

	if _, _, ok := matchesAnyPattern(op.Target, cfg.Filesystem.OutputFiles); !ok {
		return model.Verdict{}, false
	}

	if callerorigin.IsVerifiedEngineFrame(op.CallerOrigin) {
		return model.Verdict{}, false
	}

	return model.Block(model.SeverityCritical, "tampering with audit output"), true
}

func exceptionRule(op model.Operation, cfg config.Config) (model.Verdict, bool) {
	entry, ok := cfg.ExceptionFor(config.ModuleIdentity{Name: op.CallerOrigin, Version: op.CallerVersion})
	if !ok {
		return model.Verdict{}, false
	}

	switch op.Kind {
	case model.OpFileRead, model.OpFileWrite, model.OpFileOpen, model.OpFileUnlink, model.OpFileReaddir:
		if !entry.AllowFilesystem {
			return model.Verdict{}, false
		}
		if len(entry.AllowedPaths) > 0 {
			if _, _, ok := matchesAnyPattern(op.Target, entry.AllowedPaths); !ok {
				return model.Verdict{}, false
			}
		}
		return model.Allow(), true
	case model.OpNetConnect, model.OpNetRequest:
		if !entry.AllowNetwork {
			return model.Verdict{}, false
		}
		if len(entry.AllowedHosts) > 0 {
			host, _ := splitHostPort(op.Target)
			if _, _, ok := hostMatches(host, entry.AllowedHosts); !ok {
				return model.Verdict{}, false
			}
		}
		return model.Allow(), true
	case model.OpProcessSpawn:
		if !entry.AllowCommands {
			return model.Verdict{}, false
		}
		return model.Allow(), true
	}

	return model.Verdict{}, false
}

func installContextRelax(op model.Operation, cfg config.Config, ctx model.ProcessContext) (model.Verdict, bool) {
	if !ctx.InstallMode {
		return model.Verdict{}, false
	}

	switch op.Kind {
	case model.OpFileRead, model.OpFileWrite, model.OpFileOpen, model.OpFileUnlink, model.OpFileReaddir:
		if _, _, ok := matchesAnyPattern(op.Target, installSafePrefixes); ok {
			return model.Allow(), true
		}
	}

	return model.Verdict{}, false
}

func domainDecision(op model.Operation, cfg config.Config, ctx model.ProcessContext, counters CounterReader) model.Verdict {
	switch op.Kind {
	case model.OpFileRead, model.OpFileOpen, model.OpFileReaddir:
		return evaluateFileRead(op, cfg)
	case model.OpFileWrite, model.OpFileUnlink:
		return evaluateFileWrite(op, cfg)
	case model.OpNetConnect:
		return evaluateNetConnect(op, cfg, counters)
	case model.OpNetRequest:
		return evaluateNetRequest(op, cfg, counters)
	case model.OpProcessSpawn:
		return evaluateProcessSpawn(op, cfg, counters)
	case model.OpEnvRead:
		return evaluateEnvRead(op, cfg)
	case model.OpModuleLoad:
		return evaluateModuleLoad(op, cfg)
	default:
		return model.Allow()
	}
}

func evaluateFileRead(op model.Operation, cfg config.Config) model.Verdict {
	if _, _, ok := matchesAnyPattern(op.Target, cfg.Filesystem.AllowedPaths); ok {
		return model.Allow()
	}

	if _, _, ok := matchesAnyPattern(op.Target, cfg.Filesystem.BlockedReadPaths); ok {
		return model.Block(model.SeverityHigh, "blocked_read_paths")
	}

	return model.Allow()
}

func evaluateFileWrite(op model.Operation, cfg config.Config) model.Verdict {
	if _, _, ok := matchesAnyPattern(op.Target, cfg.Filesystem.AllowedPaths); ok {
		return model.Allow()
	}

	if _, _, ok := matchesAnyPattern(op.Target, cfg.Filesystem.BlockedWritePaths); ok {
		return model.Block(model.SeverityHigh, "blocked_write_paths")
	}

	for _, ext := range cfg.Filesystem.BlockedExtensions {
		if hasExtension(op.Target, ext) {
			return model.Block(model.SeverityHigh, "blocked_extensions:"+ext)
		}
	}

	return model.Allow()
}

func evaluateNetConnect(op model.Operation, cfg config.Config, counters CounterReader) model.Verdict {
	host, _ := splitHostPort(op.Target)

	if cfg.Network.LocalhostAllowed && isLoopbackHost(host) {
		return model.Allow()
	}
	if cfg.Network.PrivateNetsAllowed && isPrivateNetHost(host) {
		return model.Allow()
	}

	if _, _, ok := hostMatches(host, cfg.Network.AllowedDomains); ok {
		return model.Allow()
	}

	if _, _, ok := hostMatches(host, cfg.Network.BlockedDomains); ok {
		return model.Block(model.SeverityHigh, "blocked_domains")
	}

	if cfg.Mode == config.ModeStrict {
		return model.Block(model.SeverityMedium, "default-deny")
	}

	if counters != nil && counters.HardLimitBreached(model.OpNetConnect, cfg, model.ProcessContext{}) {
		return model.Block(model.SeverityMedium, "hard-limit-exceeded")
	}

	return model.Warn("default-log")
}

func evaluateNetRequest(op model.Operation, cfg config.Config, counters CounterReader) model.Verdict {
	verdict := evaluateNetConnect(op, cfg, counters)

	if verdict.IsBlock() {
		return verdict
	}

	if len(op.Body) > 0 {
		if v, hit := networkBodyScan(op, cfg); hit {
			verdict = v
		}
	}

	if verdict.IsBlock() {
		return verdict
	}

	if v, hit := evaluateGithubAPI(op, cfg.GithubAPI); hit {
		return v
	}

	return verdict
}

// networkBodyScan scans an outbound request body for leaked credentials.
func networkBodyScan(op model.Operation, cfg config.Config) (model.Verdict, bool) {
	body := string(op.Body)
	pattern, hit := anyRegexMatches(body, cfg.Network.CredentialPatterns)
	if !hit {
		return model.Verdict{}, false
	}

	host, _ := splitHostPort(op.Target)
	if _, _, allowed := hostMatches(host, cfg.Network.AllowedDomains); !allowed {
		return model.Block(model.SeverityHigh, "credential_patterns:"+pattern), true
	}

	return model.Warn("credential_patterns:" + pattern), true
}

func evaluateProcessSpawn(op model.Operation, cfg config.Config, counters CounterReader) model.Verdict {
	token := leadingCommandToken(op.Target)

	for _, allowed := range cfg.Commands.AllowedCommands {
		if token == allowed {
			return model.Allow()
		}
	}

	for _, p := range cfg.Commands.BlockedPatterns {
		if pattern, hit := anyRegexMatches(op.Target, []string{p.Pattern}); hit {
			sev := model.Severity(p.Severity)
			if sev == "" {
				sev = model.SeverityMedium
			}
			return model.Block(sev, pattern)
		}
	}

	verdict := model.Warn("unclassified-command")
	if counters != nil && counters.HardLimitBreached(model.OpProcessSpawn, cfg, model.ProcessContext{}) {
		return model.Block(model.SeverityMedium, "hard-limit-exceeded")
	}

	return verdict
}

func evaluateEnvRead(op model.Operation, cfg config.Config) model.Verdict {
	protected := false
	for _, name := range cfg.Environment.ProtectedVariables {
		if name == op.Target {
			protected = true
			break
		}
	}

	if !protected {
		return model.Allow()
	}

	// Allow wins if either the caller is a listed trusted module or the
	// policy flag itself permits trusted-module access outright; only
	// when neither holds does the read warn.
	if cfg.Environment.AllowTrustedModulesAccess || cfg.IsTrustedModule(config.ModuleIdentity{Name: op.CallerOrigin, Version: op.CallerVersion}) {
		return model.Allow()
	}

	return model.Warn("protected_variable_read:" + op.Target)
}

func evaluateModuleLoad(op model.Operation, cfg config.Config) model.Verdict {
	if tag, hit := scanModuleSource(string(op.Body), cfg.ModuleScan.MaliciousPatterns); hit {
		return model.Block(model.SeverityHigh, "module_scan:"+tag)
	}

	return model.Allow()
}

// applyModeAdjustments applies mode flags last: alert_only demotes
// Block→Warn except critical severity; strict promotes Warn→Block.
// silent is handled by the caller (it suppresses console emission,
// never the audit record, so it has no effect on the verdict itself).
func applyModeAdjustments(v model.Verdict, kind model.OperationKind, cfg config.Config) model.Verdict {
	switch cfg.Mode {
	case config.ModeAlertOnly:
		if v.IsBlock() && v.Severity != model.SeverityCritical {
			return model.Warn(v.Reason)
		}
	case config.ModeStrict:
		if v.IsWarn() {
			return model.Block(model.SeverityMedium, v.Reason)
		}
	}

	return v
}

func hasExtension(target, ext string) bool {
	if ext == "" {
		return false
	}
	if ext[0] != '.' {
		ext = "." + ext
	}
	n, e := len(target), len(ext)
	return n >= e && target[n-e:] == ext
}

func intersect(list, allow []string) []string {
	allowed := make(map[string]struct{}, len(allow))
	for _, a := range allow {
		allowed[a] = struct{}{}
	}

	var out []string
	for _, v := range list {
		if _, ok := allowed[v]; ok {
			out = append(out, v)
		}
	}
	return out
}
