// Package process is the process-spawn interception seam. It is
// grounded on proxy/interceptors/base_registry.go's decide-then-enforce
// shape and on the use of os/exec to wrap npm/pip/etc. as child
// processes, generalized from "run this package manager" to "run this
// arbitrary command, evaluated first". Pause/Resume is grounded on
// proxy/interceptors/confirmation.go's SIGSTOP/SIGCONT pause-for-
// confirmation pattern, generalized from one wrapped package-manager
// child to every command this seam has spawned and not yet released.
package process

import (
	"os/exec"
	"strings"
	"sync"

	"github.com/safedep/firewall/callerorigin"
	"github.com/safedep/firewall/interceptors"
	"github.com/safedep/firewall/interceptors/environment"
	"github.com/safedep/firewall/internal/logging"
	"github.com/safedep/firewall/model"
)

// Guard checks process-spawn operations against the firewall pipeline
// and strips protected environment variables from spawned children.
type Guard struct {
	pipeline *interceptors.Pipeline
	env      *environment.Guard

	mu      sync.Mutex
	tracked map[*exec.Cmd]struct{}
}

// New wraps pipeline as a process Guard. env is used to filter the
// environment handed to spawned children regardless of trust; pass nil
// to skip environment filtering.
func New(pipeline *interceptors.Pipeline, env *environment.Guard) *Guard {
	return &Guard{
		pipeline: pipeline,
		env:      env,
		tracked:  map[*exec.Cmd]struct{}{},
	}
}

// CheckSpawn evaluates a full command line (the joined argv, or a shell
// string) before it runs.
func (g *Guard) CheckSpawn(commandLine string) error {
	op := model.Operation{
		Kind:         model.OpProcessSpawn,
		Target:       commandLine,
		CallerOrigin: callerorigin.Resolve(2),
	}

	_, err := g.pipeline.Decide(op)
	return err
}

// Command builds an *exec.Cmd for name/args, evaluating the command line
// first and, if allowed, filtering its environment to strip protected
// variables before the caller starts it. It returns the block error
// directly instead of a *exec.Cmd when the spawn is denied.
func (g *Guard) Command(name string, args ...string) (*exec.Cmd, error) {
	commandLine := strings.TrimSpace(name + " " + strings.Join(args, " "))
	if err := g.CheckSpawn(commandLine); err != nil {
		return nil, err
	}

	cmd := exec.Command(name, args...)
	if g.env != nil {
		cmd.Env = g.env.FilterEnviron()
	}

	g.mu.Lock()
	g.tracked[cmd] = struct{}{}
	g.mu.Unlock()

	return cmd, nil
}

// Release stops tracking cmd. Callers using Pause/Resume must call
// Release once cmd has exited (typically right after cmd.Wait returns),
// or Pause will keep trying to signal a process that is already gone.
func (g *Guard) Release(cmd *exec.Cmd) {
	g.mu.Lock()
	delete(g.tracked, cmd)
	g.mu.Unlock()
}

// Pause suspends every tracked, still-running child. It is used while
// Config.Mode is interactive and a Warn verdict needs a human decision:
// the offending child is paused so it cannot make further progress while
// the firewall waits on stdin.
func (g *Guard) Pause() {
	g.mu.Lock()
	defer g.mu.Unlock()

	for cmd := range g.tracked {
		if err := pauseProcess(cmd); err != nil {
			logging.Debugf("failed to pause child process: %v", err)
		}
	}
}

// Resume undoes a prior Pause on every tracked, still-running child.
func (g *Guard) Resume() {
	g.mu.Lock()
	defer g.mu.Unlock()

	for cmd := range g.tracked {
		if err := resumeProcess(cmd); err != nil {
			logging.Debugf("failed to resume child process: %v", err)
		}
	}
}
