// Package engine is the process lifecycle: it loads the policy, computes
// the process context, wires the accounting/audit/evaluator stack into
// one interceptors.Pipeline, and installs the five interception-seam
// Guards on top of it. It is grounded on cmd/npm/common.go's
// wrap-then-run sequencing (load config, wrap the package manager, defer
// cleanup), generalized from one package manager's startup sequence to
// any host process that embeds this engine as a library.
package engine

import (
	"fmt"
	"path/filepath"
	"sync"

	"github.com/spf13/pflag"

	"github.com/safedep/firewall/accountant"
	"github.com/safedep/firewall/audit"
	"github.com/safedep/firewall/config"
	"github.com/safedep/firewall/firewallerror"
	"github.com/safedep/firewall/interceptors"
	"github.com/safedep/firewall/interceptors/environment"
	"github.com/safedep/firewall/interceptors/filesystem"
	"github.com/safedep/firewall/interceptors/moduleload"
	"github.com/safedep/firewall/interceptors/network"
	"github.com/safedep/firewall/interceptors/process"
	"github.com/safedep/firewall/internal/logging"
	"github.com/safedep/firewall/model"
	"github.com/safedep/firewall/proccontext"
)

// State is one step of the engine's initialization lifecycle. It only
// ever advances forward, except into StateFailClosed, which an engine
// never leaves.
type State int

const (
	StateCold State = iota
	StateConfigLoaded
	StateContextComputed
	StateInterceptorsInstalled
	StateReady
	StateFailClosed
)

func (s State) String() string {
	switch s {
	case StateCold:
		return "cold"
	case StateConfigLoaded:
		return "config_loaded"
	case StateContextComputed:
		return "context_computed"
	case StateInterceptorsInstalled:
		return "interceptors_installed"
	case StateReady:
		return "ready"
	case StateFailClosed:
		return "fail_closed"
	default:
		return "unknown"
	}
}

// Engine is the process-wide singleton every Guard is built from. One
// Engine backs one process; its lifecycle never moves backward and
// never reinstalls interceptors once StateReady is reached.
type Engine struct {
	mu    sync.Mutex
	state State

	Config  config.Config
	Context model.ProcessContext

	Counters *accountant.Accountant
	AuditLog *audit.Logger
	Pipeline *interceptors.Pipeline

	Filesystem  *filesystem.Guard
	Process     *process.Guard
	Network     *network.Guard
	Environment *environment.Guard
	ModuleLoad  *moduleload.Guard
}

// Initialize runs the full startup sequence: load policy, detect the
// process context, open the audit log, build the accounting/pipeline
// stack, and install every Guard. Any failure along the way moves the
// engine to StateFailClosed and returns a firewallerror.UsefulError
// carrying ErrCodeFirewallFailClosed, since a host that cannot fully
// initialize the firewall must not run unguarded.
func Initialize(fs *pflag.FlagSet) (*Engine, error) {
	e := &Engine{state: StateCold}

	cfg, err := config.Load(fs)
	if err != nil {
		return nil, e.failClosed("failed to load firewall policy", err)
	}
	e.Config = cfg
	e.state = StateConfigLoaded

	e.Context = proccontext.Detect()
	e.state = StateContextComputed

	e.Counters = accountant.New()

	auditPath, err := e.auditLogPath()
	if err != nil {
		return nil, e.failClosed("failed to resolve audit log path", err)
	}

	auditLog, err := audit.Open(auditPath)
	if err != nil {
		return nil, e.failClosed("failed to open audit log", err)
	}
	e.AuditLog = auditLog

	e.Pipeline = interceptors.New(cfg, e.Context, e.Counters, e.AuditLog)

	e.Environment = environment.New(e.Pipeline, cfg)
	e.Filesystem = filesystem.New(e.Pipeline)
	e.ModuleLoad = moduleload.New(e.Pipeline)
	e.Network = network.New(e.Pipeline)
	e.Process = process.New(e.Pipeline, e.Environment)

	if cfg.Mode == config.ModeInteractive {
		e.Pipeline.Confirm = newInteractiveConfirmer(e.Process)
	}

	e.state = StateInterceptorsInstalled
	e.state = StateReady

	logging.Infof("firewall engine ready: mode=%s install_mode=%v", cfg.Mode, e.Context.InstallMode)

	return e, nil
}

// State reports the engine's current lifecycle state.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// BeforeExit flushes and closes the audit log. It must be called once,
// typically via defer right after a successful Initialize, so the
// teardown summary record is always appended.
func (e *Engine) BeforeExit() error {
	if e.AuditLog == nil {
		return nil
	}
	return e.AuditLog.Close()
}

func (e *Engine) auditLogPath() (string, error) {
	name := audit.DefaultLogName
	if len(e.Config.Filesystem.OutputFiles) > 0 {
		name = e.Config.Filesystem.OutputFiles[0]
	}

	if filepath.IsAbs(name) {
		return name, nil
	}

	dir, err := config.ConfigDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(dir, name), nil
}

func (e *Engine) failClosed(msg string, cause error) error {
	e.state = StateFailClosed

	return firewallerror.Useful().
		Wrap(cause).
		WithCode(firewallerror.ErrCodeFirewallFailClosed).
		Msg(fmt.Sprintf("%s: %v", msg, cause)).
		WithHumanError(msg + ". The firewall refuses to run unguarded.").
		WithHelp("Check your firewall config file and FIREWALL_CONFIG_DIR for syntax errors or permission problems.")
}
