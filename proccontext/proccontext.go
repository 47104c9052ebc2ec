// Package proccontext computes the ProcessContext once at engine
// initialize: whether this process is a package-manager root, running a
// dependency lifecycle script, or an ordinary user application. It is the
// Go-native home for the signal injected through config/config.go's
// context.WithValue plumbing, generalized from "is this a wrapped
// package-manager invocation" to the broader lifecycle-context detector.
package proccontext

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/safedep/firewall/model"
)

// InstallModeEnv is the marker the external wrapper sets before invoking
// the host with a dependency-install subcommand.
const InstallModeEnv = "FIREWALL_INSTALL_MODE"

// LifecycleEventEnv carries the npm/pip-style lifecycle script name
// (preinstall, postinstall, ...) when the host is running one.
const LifecycleEventEnv = "FIREWALL_LIFECYCLE_EVENT"

var packageManagerBinaries = map[string]bool{
	"npm": true, "npx": true, "yarn": true, "pnpm": true,
	"pip": true, "pip3": true, "poetry": true, "uv": true,
	"cargo": true, "gem": true, "bundle": true, "composer": true,
}

var rootProjectMarkers = []string{
	"package.json", "pyproject.toml", "requirements.txt",
	"Cargo.toml", "go.mod", "Gemfile", "composer.json",
}

// Detect computes the ProcessContext exactly once from the process's
// environment marker, its parent command, and its working directory.
// Detection failures degrade to the conservative (non-install,
// non-lifecycle) context rather than erroring, since a wrong "not in
// install mode" reading only loses a relaxation, it never loses a deny.
func Detect() model.ProcessContext {
	ctx := model.ProcessContext{}

	ctx.InstallMode = os.Getenv(InstallModeEnv) != ""
	ctx.LifecycleEventName = os.Getenv(LifecycleEventEnv)
	ctx.IsDependencyLifecycle = ctx.LifecycleEventName != ""

	ctx.IsPackageManager = isPackageManagerParent()
	ctx.IsRootProject = hasRootProjectMarker()

	return ctx
}

func isPackageManagerParent() bool {
	ppid := os.Getppid()
	if ppid <= 0 {
		return false
	}

	exe, err := os.Readlink(filepath.Join("/proc", strconv.Itoa(ppid), "exe"))
	if err != nil {
		return false
	}

	base := strings.ToLower(filepath.Base(exe))
	return packageManagerBinaries[base]
}

func hasRootProjectMarker() bool {
	cwd, err := os.Getwd()
	if err != nil {
		return false
	}

	for _, marker := range rootProjectMarkers {
		if _, err := os.Stat(filepath.Join(cwd, marker)); err == nil {
			return true
		}
	}

	return false
}
