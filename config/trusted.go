package config

import (
	"strings"

	"github.com/Masterminds/semver"
)

// ModuleIdentity is the caller-origin identity of a resolved module: its
// ecosystem, its name, and (when known) the version actually resolved.
// This generalizes package-version trust check (purl-keyed)
// from "the package being installed" to "the module currently on the call
// stack", since in this port trust gates module-load and env/exception
// lookups rather than install-time package analysis.
type ModuleIdentity struct {
	Ecosystem string
	Name      string
	Version   string
}

// IsTrustedModule checks whether id is on the Config's trusted_modules
// list. Entries may be a bare "ecosystem:name" (trusts every version) or
// "ecosystem:name@range" where range is a Masterminds/semver constraint
// string (e.g. ">=4.0.0, <5.0.0"). This is the primary API interceptors
// and the evaluator should use; it mirrors IsTrustedPackage's role but
// keys on module identity rather than a protobuf PackageVersion.
func (c Config) IsTrustedModule(id ModuleIdentity) bool {
	return isTrustedModuleIdentity(c.TrustedModules, id)
}

func isTrustedModuleIdentity(trustedModules []string, id ModuleIdentity) bool {
	if id.Name == "" {
		return false
	}

	for _, entry := range trustedModules {
		ecosystem, name, rangeStr, ok := parseTrustedModuleEntry(entry)
		if !ok {
			continue
		}

		if ecosystem != "" && !strings.EqualFold(ecosystem, id.Ecosystem) {
			continue
		}

		if !strings.EqualFold(name, id.Name) {
			continue
		}

		if rangeStr == "" {
			return true
		}

		if id.Version == "" {
			continue
		}

		constraint, err := semver.NewConstraint(rangeStr)
		if err != nil {
			continue
		}

		version, err := semver.NewVersion(id.Version)
		if err != nil {
			continue
		}

		if constraint.Check(version) {
			return true
		}
	}

	return false
}

// parseTrustedModuleEntry splits "ecosystem:name@range" into its parts.
// The ecosystem and range segments are optional: "name", "ecosystem:name",
// and "ecosystem:name@range" are all accepted.
func parseTrustedModuleEntry(entry string) (ecosystem, name, rangeStr string, ok bool) {
	entry = strings.TrimSpace(entry)
	if entry == "" {
		return "", "", "", false
	}

	rest := entry
	if idx := strings.Index(rest, "@"); idx >= 0 {
		rangeStr = rest[idx+1:]
		rest = rest[:idx]
	}

	if idx := strings.Index(rest, ":"); idx >= 0 {
		ecosystem = rest[:idx]
		name = rest[idx+1:]
	} else {
		name = rest
	}

	if name == "" {
		return "", "", "", false
	}

	return ecosystem, name, rangeStr, true
}

// ExceptionFor returns the exceptions.modules entry for the given
// caller-origin module id, honoring an optional version range on the
// entry itself.
func (c Config) ExceptionFor(id ModuleIdentity) (ExceptionEntry, bool) {
	entry, ok := c.Exceptions.Modules[id.Name]
	if !ok {
		return ExceptionEntry{}, false
	}

	if entry.VersionRange == "" || id.Version == "" {
		return entry, ok
	}

	constraint, err := semver.NewConstraint(entry.VersionRange)
	if err != nil {
		return entry, ok
	}

	version, err := semver.NewVersion(id.Version)
	if err != nil {
		return entry, ok
	}

	if !constraint.Check(version) {
		return ExceptionEntry{}, false
	}

	return entry, true
}
