package config

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/safedep/firewall/internal/pathmatch"
)

//go:embed baseline.yml
var baselinePolicyYAML []byte

// BaselineConfig decodes the policy compiled into the binary. It is applied
// unconditionally so the engine always has a deny floor, following the
// embed pattern of sandbox/registry.go's builtin profile loader.
func BaselineConfig() (Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(baselinePolicyYAML, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse embedded baseline policy: %w", err)
	}

	return cfg, nil
}

// MergeOverUser returns a Config where every baseline deny/list entry is
// unioned with the user-supplied config's corresponding list, and scalar
// fields fall back to the baseline only when the user config leaves them
// at the Go zero value. Deny lists are additive: a user config can only
// add restrictions on top of the baseline floor, never remove one.
func MergeOverUser(baseline, user Config) Config {
	merged := user

	if merged.Mode == "" {
		merged.Mode = baseline.Mode
	}

	merged.Filesystem.BlockedReadPaths = unionStrings(baseline.Filesystem.BlockedReadPaths, user.Filesystem.BlockedReadPaths)

	// Mandatory denies (credential files, git hooks) are injected
	// unconditionally into the write-deny floor; a user config can widen
	// this set but never shrink it, same as every other deny list here.
	mandatoryDenies := pathmatch.GetMandatoryDenyPatterns(false)
	merged.Filesystem.BlockedWritePaths = unionStrings(unionStrings(baseline.Filesystem.BlockedWritePaths, mandatoryDenies), user.Filesystem.BlockedWritePaths)

	merged.Filesystem.BlockedExtensions = unionStrings(baseline.Filesystem.BlockedExtensions, user.Filesystem.BlockedExtensions)
	merged.Filesystem.OutputFiles = unionStrings(baseline.Filesystem.OutputFiles, user.Filesystem.OutputFiles)

	// TMPDIR's macOS-randomized parent is allow-listed so a package
	// manager extracting into its own temp dir isn't blocked by a glob
	// meant for persistent paths, regardless of user config.
	merged.Filesystem.AllowedPaths = unionStrings(unionStrings(user.Filesystem.AllowedPaths, baseline.Filesystem.AllowedPaths), pathmatch.GetTmpdirParent())

	merged.Network.BlockedDomains = unionStrings(baseline.Network.BlockedDomains, user.Network.BlockedDomains)
	merged.Network.AllowedDomains = unionStrings(user.Network.AllowedDomains, baseline.Network.AllowedDomains)
	merged.Network.CredentialPatterns = unionStrings(baseline.Network.CredentialPatterns, user.Network.CredentialPatterns)
	if len(user.Network.SuspiciousPorts) == 0 {
		merged.Network.SuspiciousPorts = baseline.Network.SuspiciousPorts
	}

	merged.Commands.BlockedPatterns = append(append([]CommandPattern{}, baseline.Commands.BlockedPatterns...), user.Commands.BlockedPatterns...)
	merged.Commands.AllowedCommands = unionStrings(baseline.Commands.AllowedCommands, user.Commands.AllowedCommands)

	merged.Environment.ProtectedVariables = unionStrings(baseline.Environment.ProtectedVariables, user.Environment.ProtectedVariables)

	if merged.Exceptions.Modules == nil {
		merged.Exceptions.Modules = map[string]ExceptionEntry{}
	}
	for k, v := range baseline.Exceptions.Modules {
		if _, ok := merged.Exceptions.Modules[k]; !ok {
			merged.Exceptions.Modules[k] = v
		}
	}

	merged.TrustedModules = unionStrings(baseline.TrustedModules, user.TrustedModules)

	if merged.Behavioral.MaxFileReads == 0 {
		merged.Behavioral = baseline.Behavioral
	}

	if merged.GithubAPI.Host == "" {
		merged.GithubAPI.Host = baseline.GithubAPI.Host
	}
	merged.GithubAPI.BlockedRepoNames = unionStrings(baseline.GithubAPI.BlockedRepoNames, user.GithubAPI.BlockedRepoNames)
	merged.GithubAPI.BlockedWorkflowPatterns = unionStrings(baseline.GithubAPI.BlockedWorkflowPatterns, user.GithubAPI.BlockedWorkflowPatterns)

	if len(user.ModuleScan.MaliciousPatterns) == 0 {
		merged.ModuleScan.MaliciousPatterns = baseline.ModuleScan.MaliciousPatterns
	} else {
		merged.ModuleScan.MaliciousPatterns = append(append([]ModulePattern{}, baseline.ModuleScan.MaliciousPatterns...), user.ModuleScan.MaliciousPatterns...)
	}

	return merged
}

func unionStrings(a, b []string) []string {
	seen := make(map[string]struct{}, len(a)+len(b))
	out := make([]string, 0, len(a)+len(b))

	for _, list := range [][]string{a, b} {
		for _, v := range list {
			if _, ok := seen[v]; ok {
				continue
			}
			seen[v] = struct{}{}
			out = append(out, v)
		}
	}

	return out
}
