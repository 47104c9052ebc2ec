// Package environment is the environment-variable interception seam: it
// evaluates reads of protected variables by the running process's own
// module code, and independently filters protected variables out of the
// environment handed to spawned children, regardless of whether the
// spawning module is trusted. Grounded on config/trusted.go's trust
// check, reused here via the evaluator rather than duplicated.
package environment

import (
	"os"
	"strings"

	"github.com/safedep/firewall/callerorigin"
	"github.com/safedep/firewall/config"
	"github.com/safedep/firewall/interceptors"
	"github.com/safedep/firewall/model"
)

// Guard checks environment-variable reads and filters child-process
// environments.
type Guard struct {
	pipeline *interceptors.Pipeline
	cfg      config.Config
}

// New wraps pipeline as an environment Guard.
func New(pipeline *interceptors.Pipeline, cfg config.Config) *Guard {
	return &Guard{pipeline: pipeline, cfg: cfg}
}

// CheckRead evaluates a read of the named environment variable by the
// calling module.
func (g *Guard) CheckRead(name string) error {
	op := model.Operation{
		Kind:         model.OpEnvRead,
		Target:       name,
		CallerOrigin: callerorigin.Resolve(2),
	}

	_, err := g.pipeline.Decide(op)
	return err
}

// Getenv checks then reads name, returning "" if the read is blocked.
// Matches os.Getenv's signature so call sites can be a drop-in swap.
func (g *Guard) Getenv(name string) string {
	if err := g.CheckRead(name); err != nil {
		return ""
	}
	return os.Getenv(name)
}

// FilterEnviron returns the current process's environment with every
// protected_variables entry removed unconditionally, not gated on
// trust, for handing to a spawned child.
func (g *Guard) FilterEnviron() []string {
	return FilterEnv(os.Environ(), g.cfg.Environment.ProtectedVariables)
}

// FilterEnv strips any "KEY=value" entry in env whose KEY is in
// protected, preserving the order of the remaining entries.
func FilterEnv(env []string, protected []string) []string {
	if len(protected) == 0 {
		return env
	}

	blocked := make(map[string]struct{}, len(protected))
	for _, name := range protected {
		blocked[name] = struct{}{}
	}

	filtered := make([]string, 0, len(env))
	for _, kv := range env {
		key := kv
		if idx := strings.IndexByte(kv, '='); idx >= 0 {
			key = kv[:idx]
		}
		if _, ok := blocked[key]; ok {
			continue
		}
		filtered = append(filtered, kv)
	}

	return filtered
}
